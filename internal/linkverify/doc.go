// Package linkverify checks that an emitted site is relocatable: every link
// in its HTML pages must be relative and must resolve to a file inside the
// output tree.
package linkverify
