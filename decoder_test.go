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
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	testCases := []struct {
		desc  string
		enc   *Encoding
		input []byte
		want  string
	}{
		{"utf-8 ascii", UTF8, []byte("hello"), "hello"},
		{"utf-8 multibyte", UTF8, []byte("héllo — 日本"), "héllo — 日本"},
		{"utf-16le", UTF16LE, []byte{0x68, 0x00, 0x69, 0x00}, "hi"},
		{"utf-16be", UTF16BE, []byte{0x00, 0x68, 0x00, 0x69}, "hi"},
		{"windows-1251", Windows1251, []byte{0xCF, 0xF0, 0xE8, 0xE2, 0xE5, 0xF2}, "Привет"},
		{"koi8-r", KOI8R, []byte{0xD0, 0xD2, 0xC9, 0xD7, 0xC5, 0xD4}, "привет"},
		{"shift_jis", ShiftJIS, []byte{0x82, 0xA0}, "あ"},
		{"gbk", GBK, []byte{0xD6, 0xD0}, "中"},
		{"iso-8859-7", ISO8859_7, []byte{0xE1, 0xE2}, "αβ"},
		{"empty", Windows1251, nil, ""},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			d := &Decoder{enc: tc.enc}
			got, err := d.Decode(tc.input)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("Decode() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	testCases := []struct {
		desc  string
		enc   *Encoding
		input []byte
	}{
		{"utf-8 invalid byte", UTF8, []byte{'a', 0xFF, 'b'}},
		{"utf-8 truncated sequence", UTF8, []byte{0xE6, 0x97}},
		{"utf-16 odd length", UTF16LE, []byte{0x68, 0x00, 0x69}},
		{"utf-16 unpaired surrogate", UTF16LE, []byte{0x00, 0xD8}},
		{"windows-1251 unassigned byte", Windows1251, []byte{0x98}},
		{"shift_jis truncated pair", ShiftJIS, []byte{0x82}},
		{"euc-jp invalid trail", EUCJP, []byte{0xA1, 0x00}},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			d := &Decoder{enc: tc.enc}
			got, err := d.Decode(tc.input)
			if err == nil {
				t.Fatalf("expected error, got %q", got)
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("err = %v, want ErrMalformed", err)
			}
		})
	}
}

// A decode failure must not poison the decoder for later, well-formed input.
func TestDecodeErrorIsLocal(t *testing.T) {
	d := &Decoder{enc: Windows1251}
	if _, err := d.Decode([]byte{0x98}); err == nil {
		t.Fatal("expected error for unassigned byte")
	}
	got, err := d.Decode([]byte{0xCF})
	if err != nil {
		t.Fatal(err)
	}
	if got != "П" {
		t.Errorf("Decode() = %q, want %q", got, "П")
	}
}

func TestDecodeIdempotent(t *testing.T) {
	d := &Decoder{enc: KOI8R}
	input := []byte{0xCD, 0xC9, 0xD2}
	first, err := d.Decode(input)
	if err != nil {
		t.Fatal(err)
	}
	second, err := d.Decode(input)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("repeated Decode differs: %q then %q", first, second)
	}
	if first != "мир" {
		t.Errorf("Decode() = %q, want %q", first, "мир")
	}
}
