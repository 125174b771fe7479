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
	"strings"

	"github.com/google/triemap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// Encoding identifies one character encoding from the closed set this
// package supports. Values are compared by identity: two readers on
// windows-1251 documents both report the package-level Windows1251 value.
//
// A nil impl marks UTF-8, which decodes without a transcoding step.
type Encoding struct {
	name string
	impl encoding.Encoding
}

// Name returns the canonical label, e.g. "windows-1251" or "UTF-16LE".
func (e *Encoding) Name() string {
	return e.name
}

func (e *Encoding) String() string {
	return e.name
}

// The supported encodings. UTF8 is the default for every document.
var (
	UTF8    = &Encoding{name: "UTF-8"}
	UTF16LE = &Encoding{name: "UTF-16LE", impl: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)}
	UTF16BE = &Encoding{name: "UTF-16BE", impl: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)}

	// Legacy multi-byte charsets.
	Big5     = &Encoding{name: "Big5", impl: traditionalchinese.Big5}
	EUCJP    = &Encoding{name: "EUC-JP", impl: japanese.EUCJP}
	EUCKR    = &Encoding{name: "EUC-KR", impl: korean.EUCKR}
	GB18030  = &Encoding{name: "gb18030", impl: simplifiedchinese.GB18030}
	GBK      = &Encoding{name: "GBK", impl: simplifiedchinese.GBK}
	ShiftJIS = &Encoding{name: "Shift_JIS", impl: japanese.ShiftJIS}

	// ISO2022JP documents are only guaranteed to tokenize correctly up to
	// the first token after the encoding switch: the charset's escape
	// sequences may contain bytes that collide with markup delimiters.
	ISO2022JP = &Encoding{name: "ISO-2022-JP", impl: japanese.ISO2022JP}

	// Legacy single-byte charsets.
	IBM866       = &Encoding{name: "IBM866", impl: charmap.CodePage866}
	ISO8859_2    = &Encoding{name: "ISO-8859-2", impl: charmap.ISO8859_2}
	ISO8859_3    = &Encoding{name: "ISO-8859-3", impl: charmap.ISO8859_3}
	ISO8859_4    = &Encoding{name: "ISO-8859-4", impl: charmap.ISO8859_4}
	ISO8859_5    = &Encoding{name: "ISO-8859-5", impl: charmap.ISO8859_5}
	ISO8859_6    = &Encoding{name: "ISO-8859-6", impl: charmap.ISO8859_6}
	ISO8859_7    = &Encoding{name: "ISO-8859-7", impl: charmap.ISO8859_7}
	ISO8859_8    = &Encoding{name: "ISO-8859-8", impl: charmap.ISO8859_8}
	ISO8859_8I   = &Encoding{name: "ISO-8859-8-I", impl: charmap.ISO8859_8I}
	ISO8859_10   = &Encoding{name: "ISO-8859-10", impl: charmap.ISO8859_10}
	ISO8859_13   = &Encoding{name: "ISO-8859-13", impl: charmap.ISO8859_13}
	ISO8859_14   = &Encoding{name: "ISO-8859-14", impl: charmap.ISO8859_14}
	ISO8859_15   = &Encoding{name: "ISO-8859-15", impl: charmap.ISO8859_15}
	ISO8859_16   = &Encoding{name: "ISO-8859-16", impl: charmap.ISO8859_16}
	KOI8R        = &Encoding{name: "KOI8-R", impl: charmap.KOI8R}
	KOI8U        = &Encoding{name: "KOI8-U", impl: charmap.KOI8U}
	Macintosh    = &Encoding{name: "macintosh", impl: charmap.Macintosh}
	Windows874   = &Encoding{name: "windows-874", impl: charmap.Windows874}
	Windows1250  = &Encoding{name: "windows-1250", impl: charmap.Windows1250}
	Windows1251  = &Encoding{name: "windows-1251", impl: charmap.Windows1251}
	Windows1252  = &Encoding{name: "windows-1252", impl: charmap.Windows1252}
	Windows1253  = &Encoding{name: "windows-1253", impl: charmap.Windows1253}
	Windows1254  = &Encoding{name: "windows-1254", impl: charmap.Windows1254}
	Windows1255  = &Encoding{name: "windows-1255", impl: charmap.Windows1255}
	Windows1256  = &Encoding{name: "windows-1256", impl: charmap.Windows1256}
	Windows1257  = &Encoding{name: "windows-1257", impl: charmap.Windows1257}
	Windows1258  = &Encoding{name: "windows-1258", impl: charmap.Windows1258}
	XMacCyrillic = &Encoding{name: "x-mac-cyrillic", impl: charmap.MacintoshCyrillic}
	XUserDefined = &Encoding{name: "x-user-defined", impl: charmap.XUserDefined}
)

// DetectEncoding inspects the first bytes of a document for a byte-order
// mark. It returns the matched encoding and the BOM length, or (nil, 0)
// when no BOM is present; the caller then stays on UTF-8. The three
// signatures are prefix-disjoint, so the match is unambiguous.
func DetectEncoding(b []byte) (*Encoding, int) {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return UTF8, 3
	}
	if len(b) >= 2 {
		if b[0] == 0xFE && b[1] == 0xFF {
			return UTF16BE, 2
		}
		if b[0] == 0xFF && b[1] == 0xFE {
			return UTF16LE, 2
		}
	}
	return nil, 0
}

// labels maps lowercased charset labels to Encoding values. The label set
// follows the WHATWG encoding registry, so e.g. "latin1" resolves to
// windows-1252 and "gb2312" to GBK. A bare "utf-16" resolves to
// little-endian by convention.
var labels triemap.RuneSliceMap

func init() {
	put := func(e *Encoding, names ...string) {
		for _, n := range names {
			labels.Put([]rune(n), e)
		}
	}
	put(UTF8, "utf-8", "utf8", "unicode-1-1-utf-8")
	put(UTF16LE, "utf-16", "utf-16le")
	put(UTF16BE, "utf-16be")
	put(Big5, "big5", "big5-hkscs", "cn-big5", "csbig5", "x-x-big5")
	put(EUCJP, "euc-jp", "cseucpkdfmtjapanese", "x-euc-jp")
	put(EUCKR, "euc-kr", "korean", "ks_c_5601-1987", "csksc56011987", "ksc5601", "ksc_5601", "windows-949")
	put(GB18030, "gb18030")
	put(GBK, "gbk", "gb2312", "gb_2312", "gb_2312-80", "chinese", "csgb2312", "csiso58gb231280", "x-gbk")
	put(ISO2022JP, "iso-2022-jp", "csiso2022jp")
	put(ShiftJIS, "shift_jis", "shift-jis", "sjis", "csshiftjis", "ms932", "ms_kanji", "windows-31j", "x-sjis")
	put(IBM866, "ibm866", "866", "cp866", "csibm866")
	put(ISO8859_2, "iso-8859-2", "iso8859-2", "iso88592", "iso_8859-2", "latin2", "l2", "csisolatin2")
	put(ISO8859_3, "iso-8859-3", "iso8859-3", "iso88593", "iso_8859-3", "latin3", "l3", "csisolatin3")
	put(ISO8859_4, "iso-8859-4", "iso8859-4", "iso88594", "iso_8859-4", "latin4", "l4", "csisolatin4")
	put(ISO8859_5, "iso-8859-5", "iso8859-5", "iso88595", "iso_8859-5", "cyrillic", "csisolatincyrillic")
	put(ISO8859_6, "iso-8859-6", "iso8859-6", "iso88596", "iso_8859-6", "arabic", "asmo-708", "ecma-114")
	put(ISO8859_7, "iso-8859-7", "iso8859-7", "iso88597", "iso_8859-7", "greek", "greek8", "ecma-118", "elot_928")
	put(ISO8859_8, "iso-8859-8", "iso8859-8", "iso88598", "iso_8859-8", "hebrew", "visual", "csisolatinhebrew")
	put(ISO8859_8I, "iso-8859-8-i", "csiso88598i", "logical")
	put(ISO8859_10, "iso-8859-10", "iso8859-10", "iso885910", "latin6", "l6", "csisolatin6")
	put(ISO8859_13, "iso-8859-13", "iso8859-13", "iso885913")
	put(ISO8859_14, "iso-8859-14", "iso8859-14", "iso885914")
	put(ISO8859_15, "iso-8859-15", "iso8859-15", "iso885915", "iso_8859-15", "latin9", "l9", "csisolatin9")
	put(ISO8859_16, "iso-8859-16")
	put(KOI8R, "koi8-r", "koi8r", "koi", "koi8", "cskoi8r")
	put(KOI8U, "koi8-u", "koi8u", "koi8-ru")
	put(Macintosh, "macintosh", "mac", "x-mac-roman", "csmacintosh")
	put(Windows874, "windows-874", "dos-874", "tis-620", "iso-8859-11", "iso8859-11", "iso885911")
	put(Windows1250, "windows-1250", "cp1250", "x-cp1250")
	put(Windows1251, "windows-1251", "cp1251", "x-cp1251")
	put(Windows1252, "windows-1252", "cp1252", "x-cp1252", "iso-8859-1", "iso8859-1", "iso88591", "iso_8859-1", "latin1", "l1", "ascii", "us-ascii", "ansi_x3.4-1968", "cp819", "ibm819")
	put(Windows1253, "windows-1253", "cp1253", "x-cp1253")
	put(Windows1254, "windows-1254", "cp1254", "x-cp1254", "iso-8859-9", "iso8859-9", "iso88599", "latin5", "l5")
	put(Windows1255, "windows-1255", "cp1255", "x-cp1255")
	put(Windows1256, "windows-1256", "cp1256", "x-cp1256")
	put(Windows1257, "windows-1257", "cp1257", "x-cp1257")
	put(Windows1258, "windows-1258", "cp1258", "x-cp1258")
	put(XMacCyrillic, "x-mac-cyrillic", "x-mac-ukrainian")
	put(XUserDefined, "x-user-defined")
}

// EncodingByLabel resolves a declared charset label to an Encoding.
// Matching is case-insensitive and ignores leading and trailing whitespace.
// It returns (nil, false) when the label is not recognized.
func EncodingByLabel(label string) (*Encoding, bool) {
	label = strings.ToLower(strings.Trim(label, "\t\n\r\f "))
	// triemap reports ok for any key whose trie path exists, including
	// prefixes of stored labels whose node holds no value; treat those as
	// unrecognized.
	e, ok := labels.Get([]rune(label))
	if !ok || e == nil {
		return nil, false
	}
	return e.(*Encoding), true
}
