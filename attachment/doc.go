// Package attachment turns user-picked files into transport-safe
// attachments and de-duplicates repeated selections by content signature.
//
// A file's signature is its (name, size, last-modified) tuple. The [Codec]
// encodes each distinct signature once into a data URI and hands out
// copies tagged with a location ("front", "shoulder_left") and a source
// ("uploaded", "primary", "clothing") for every further use of the same
// file. Entries that arrive already serialized, as a URL string or a
// partially-filled object, are folded into the same shape by [Normalize].
package attachment
