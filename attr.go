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

import "fmt"

// Attr is a tag attribute like <foo bar="baz">.
// This will store an Attr with name "bar" and value "baz".
// Name and Value alias the bytes of the event they were parsed from.
// Value is nil for attributes without a value, like <foo bar>.
type Attr struct {
	Name  []byte
	Value []byte
}

const (
	// ErrAttrSyntax is returned when an attribute span cannot be split into
	// name/value pairs: a missing quote, an unterminated value, or a stray
	// character where a name was expected.
	ErrAttrSyntax attrError = "malformed attribute"
)

type attrError string

// Error implements error interface, returns itself since it's already a string.
func (err attrError) Error() string {
	return string(err)
}

// scanAttrs splits a raw attribute span into Attr values.
func scanAttrs(s []byte) ([]Attr, error) {
	var attrs []Attr
	for len(s) > 0 {
		var a Attr
		var err error
		a, s, err = scanAttr(s)
		if err != nil {
			return nil, err
		}
		if a.Name == nil {
			break
		}
		attrs = append(attrs, a)
	}
	return attrs, nil
}

// scanAttr extracts the first attribute of s and returns the remainder.
// A zero Attr with nil Name means s held only whitespace.
func scanAttr(s []byte) (Attr, []byte, error) {
	i := skipSpace(s, 0)
	if i == len(s) {
		return Attr{}, nil, nil
	}

	// name runs until whitespace, '=', or end of span
	start := i
	for i < len(s) && s[i] != '=' && !isSpace(s[i]) {
		if s[i] == '"' || s[i] == '\'' {
			return Attr{}, nil, fmt.Errorf("%w: quote in attribute name", ErrAttrSyntax)
		}
		i++
	}
	name := s[start:i]

	i = skipSpace(s, i)
	if i == len(s) || s[i] != '=' {
		// attribute without value, like <foo name> or <foo name bar="baz">
		return Attr{Name: name}, s[i:], nil
	}
	i = skipSpace(s, i+1)
	if i == len(s) {
		return Attr{}, nil, fmt.Errorf("%w: missing value for %q", ErrAttrSyntax, name)
	}

	quote := s[i]
	if quote != '"' && quote != '\'' {
		return Attr{}, nil, fmt.Errorf("%w: unquoted value for %q", ErrAttrSyntax, name)
	}
	i++
	start = i
	for i < len(s) && s[i] != quote {
		i++
	}
	if i == len(s) {
		return Attr{}, nil, fmt.Errorf("%w: unterminated value for %q", ErrAttrSyntax, name)
	}
	return Attr{Name: name, Value: s[start:i]}, s[i+1:], nil
}

func skipSpace(s []byte, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
