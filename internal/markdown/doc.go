// Package markdown converts markdown bodies to HTML with goldmark.
//
// Item pages use the nextmod flavour: hard line breaks, "-->text<--"
// centering of top-level headings and paragraphs, and a "faq" class on the
// blocks of FAQ sections. Metadata and about pages are rendered plain.
package markdown
