// Package render turns page data into HTML.
//
// The site assembler only depends on the Renderer interface. HTMLRenderer is
// the default implementation: html/template with embedded templates that a
// templates directory may override file by file. Every render call gets a
// sitepath.Resolver for its own output path; templates link with the "ref"
// and "path" functions and never build paths themselves.
package render
