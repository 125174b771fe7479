// Copyright 2020 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package xmlstream

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

type decodeError string

// Error implements error interface, returns itself since it's already a string.
func (err decodeError) Error() string {
	return string(err)
}

const (
	// ErrMalformed is returned when a byte sequence is not valid for the
	// active encoding: an unpaired UTF-16 surrogate, a truncated multi-byte
	// sequence, or a byte with no assignment in a single-byte charset.
	ErrMalformed decodeError = "malformed byte sequence"
)

// Decoder transcodes raw event bytes to UTF-8 text using one concrete
// encoding. A Reader starts every document with a UTF-8 Decoder and may
// replace the encoding in place exactly once, driven by the first XML
// declaration.
type Decoder struct {
	enc *Encoding
}

// Encoding returns the encoding the decoder currently interprets bytes with.
func (d *Decoder) Encoding() *Encoding {
	return d.enc
}

// Decode transcodes b to UTF-8 text. It is a pure function of b and the
// decoder's encoding at call time: calling it again on the same bytes gives
// the same result. Decoding never advances the reader.
//
// Bytes that have no valid interpretation in the active encoding yield
// ErrMalformed. The substitute character U+FFFD in the output is treated as
// evidence of malformed input, so payloads that deliberately encode U+FFFD
// are also reported as malformed.
func (d *Decoder) Decode(b []byte) (string, error) {
	if d.enc.impl == nil {
		// UTF-8 needs no transcoding step, only validation.
		if !utf8.Valid(b) {
			return "", fmt.Errorf("%w for %s", ErrMalformed, d.enc)
		}
		return string(b), nil
	}
	out, err := d.enc.impl.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w for %s: %v", ErrMalformed, d.enc, err)
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", fmt.Errorf("%w for %s", ErrMalformed, d.enc)
	}
	return string(out), nil
}
