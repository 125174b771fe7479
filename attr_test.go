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

	"github.com/google/go-cmp/cmp"
)

func TestScanAttrs(t *testing.T) {
	testCases := []struct {
		desc  string
		input string
		want  []Attr
	}{
		{"empty", "", nil},
		{"whitespace only", "  \t\n", nil},
		{"double quoted", ` a="1"`, []Attr{{[]byte("a"), []byte("1")}}},
		{"single quoted", ` a='1'`, []Attr{{[]byte("a"), []byte("1")}}},
		{"mixed quotes", ` a="it's" b='say "hi"'`, []Attr{
			{[]byte("a"), []byte("it's")},
			{[]byte("b"), []byte(`say "hi"`)},
		}},
		{"no value", ` checked`, []Attr{{[]byte("checked"), nil}}},
		{"no value then pair", ` checked a="1"`, []Attr{
			{[]byte("checked"), nil},
			{[]byte("a"), []byte("1")},
		}},
		{"space around equals", ` a = "1"`, []Attr{{[]byte("a"), []byte("1")}}},
		{"empty value", ` a=""`, []Attr{{[]byte("a"), []byte("")}}},
		{"angle bracket in value", ` a="x>y"`, []Attr{{[]byte("a"), []byte("x>y")}}},
		{"namespaced name", ` xmlns:foo="ns1"`, []Attr{{[]byte("xmlns:foo"), []byte("ns1")}}},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := scanAttrs([]byte(tc.input))
			if err != nil {
				t.Fatal(err)
			}
			opts := cmp.Options{
				cmp.Transformer("bytesToString", func(in []byte) string { return string(in) }),
			}
			if diff := cmp.Diff(tc.want, got, opts); diff != "" {
				t.Error("attr diff (-want +got)\n", diff)
			}
		})
	}
}

func TestScanAttrsErrors(t *testing.T) {
	testCases := []struct {
		desc  string
		input string
	}{
		{"unquoted value", ` a=1`},
		{"unterminated value", ` a="1`},
		{"missing value", ` a=`},
		{"quote in name", ` a"b="1"`},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := scanAttrs([]byte(tc.input))
			if err == nil {
				t.Fatalf("expected error, got %v", got)
			}
			if !errors.Is(err, ErrAttrSyntax) {
				t.Errorf("err = %v, want ErrAttrSyntax", err)
			}
		})
	}
}

// Attribute parsing is deferred: a tag with broken attributes still
// tokenizes, the error only surfaces from Attributes.
func TestAttributesDeferred(t *testing.T) {
	r := NewReaderFromString(`<a b=unquoted>`)
	ev, err := r.ReadEvent()
	if err != nil {
		t.Fatal(err)
	}
	tag, ok := ev.(*StartTag)
	if !ok {
		t.Fatalf("event = %T, want StartTag", ev)
	}
	if _, err := tag.Attributes(); !errors.Is(err, ErrAttrSyntax) {
		t.Errorf("Attributes() err = %v, want ErrAttrSyntax", err)
	}
	// the tokenizer is unaffected
	if _, err := r.ReadEvent(); err != nil {
		t.Fatal(err)
	}
}
