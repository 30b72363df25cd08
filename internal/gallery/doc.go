// Package gallery turns the image/ directory of a mod into web assets.
//
// File names follow a small grammar: banner.<ext> for the single banner,
// preview-<number>[-<variant>][-<description>].<ext> for gallery images.
// PNG sources are published as JPEG plus lossless WebP; other formats are
// re-encoded as they are. Every preview also gets a thumbnail pair, and the
// previews are linked into a circular prev/next chain for the lightbox.
//
// A broken image never fails the mod. Only a failing output sandbox does.
package gallery
