// Package site assembles the static site: it loads the catalog, processes
// each mod, renders every page through a render.Renderer and writes all
// output through the output sandbox.
//
// A build runs as a sequence of named stages. A fatal classified error from
// any stage aborts the build; everything else is logged and the build
// continues with the remaining work.
package site
