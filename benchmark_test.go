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
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	stdxml "encoding/xml"
)

func benchDocument() []byte {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?><feed>`)
	for i := 0; i < 1000; i++ {
		fmt.Fprintf(&sb, `<entry id="%d" kind="test"><title>entry %d</title>`+
			`<!-- generated --><body>some body text for entry %d</body></entry>`, i, i, i)
	}
	sb.WriteString(`</feed>`)
	return []byte(sb.String())
}

func BenchmarkReadAll(b *testing.B) {
	doc := benchDocument()

	testCases := []struct {
		desc    string
		readAll func()
	}{
		{"xmlstream_bytes",
			func() {
				r := NewReaderFromBytes(doc)
				for {
					ev, err := r.ReadEvent()
					if err != nil {
						b.Fatal("xmlstream parsing error")
					}
					if _, ok := ev.(*EOF); ok {
						return
					}
				}
			},
		},
		{"xmlstream_reader",
			func() {
				r := NewReader(bytes.NewReader(doc))
				for {
					ev, err := r.ReadEvent()
					if err != nil {
						b.Fatal("xmlstream parsing error")
					}
					if _, ok := ev.(*EOF); ok {
						return
					}
				}
			},
		},
		{"encoding_xml",
			func() {
				decoder := stdxml.NewDecoder(bytes.NewReader(doc))
				for {
					_, err := decoder.RawToken()
					if err != nil {
						if errors.Is(err, io.EOF) {
							return
						}
						b.Fatal("encoding/xml parsing error")
					}
				}
			},
		},
	}

	for _, tc := range testCases {
		b.Run(tc.desc, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				tc.readAll()
			}
		})
	}
}
