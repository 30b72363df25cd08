// Package retry provides the backoff policy used to retry transient
// failures of the remote repository backends.
package retry
