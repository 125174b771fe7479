// Package xmlstream is a forward-only, single-pass XML event reader that
// determines the character encoding of its input on its own.
//
// The reader scans raw bytes and yields lexical events (tags, text, CDATA,
// comments, processing instructions) without building a tree and without
// decoding anything up front. Event payloads stay as byte slices into the
// reader's buffer; they are transcoded to UTF-8 only when Decode is called,
// so a document can be tokenized without paying for conversion of content
// the caller never looks at.
//
// Encoding selection follows two rules, in order:
//
//  1. A byte-order mark at the start of the input selects UTF-8, UTF-16LE
//     or UTF-16BE and is consumed before the first token.
//  2. The first XML declaration with a recognized encoding label switches
//     the decoder, once. Later declarations are still returned as events
//     but never change the decoder again.
//
// Readers built from an already-decoded string are pinned to UTF-8 for
// their whole lifetime; declared encodings are informational only.
//
// Supported encodings cover UTF-8, both UTF-16 byte orders, seven legacy
// multi-byte charsets and the common legacy single-byte charsets, addressed
// by their WHATWG labels and aliases. ISO-2022-JP is a known weak spot: its
// escape sequences can contain bytes that look like markup delimiters, so
// documents in it are only guaranteed to tokenize correctly up to the first
// token after the encoding switch.
package xmlstream
