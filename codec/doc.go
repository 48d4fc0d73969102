// Package codec holds the primitive encodings of the registry: byte-sequence
// coercion, the 8-byte record key derived from an asset identifier, and the
// padded standard and URL-safe base64 alphabets.
package codec
