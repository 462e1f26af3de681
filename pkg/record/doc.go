// Package record is the dialect-neutral representation every output format
// is encoded from. Entity-to-field mapping lives only in the builders of this
// package, and scalar formatting and escaping live only in Format and Escape,
// so the relational and key-value encoders cannot drift apart: they decide
// layout, never content.
package record
