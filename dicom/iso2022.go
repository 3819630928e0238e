// Copyright 2018 Google LLC
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

package dicom

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
)

const esc = 0x1B

// codeElement is a graphic character set that an ISO 2022 escape sequence designates to G0 or
// G1. See http://dicom.nema.org/medical/dicom/current/output/html/part03.html#sect_C.12.1.1.2
// and http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.1.2.5.
type codeElement struct {
	name string

	// escape follows ESC in the designation sequence
	escape string

	// g1 is set for elements designated to G1, which occupy bytes 0xA0-0xFF
	g1 bool

	decode func(b []byte) string
	encode func(r rune) ([]byte, bool)
}

func (e *codeElement) designation() []byte {
	return append([]byte{esc}, e.escape...)
}

func decodeWith(coding encoding.Encoding, b []byte) string {
	out, err := coding.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

func encodeWith(coding encoding.Encoding, r rune) ([]byte, bool) {
	out, err := coding.NewEncoder().Bytes([]byte(string(r)))
	if err != nil {
		return nil, false
	}
	return out, true
}

func decodeASCII(b []byte) string {
	return string(b)
}

func encodeASCII(r rune) ([]byte, bool) {
	if r >= utf8.RuneSelf {
		return nil, false
	}
	return []byte{byte(r)}, true
}

// JIS X 0201 romaji differs from ASCII in 0x5C and 0x7E. 0x5C stays the value delimiter, so only
// the overline is translated.
func decodeJISRoman(b []byte) string {
	return strings.ReplaceAll(string(b), "~", "‾")
}

func encodeJISRoman(r rune) ([]byte, bool) {
	switch r {
	case '‾':
		return []byte{'~'}, true
	case '¥':
		return []byte{'\\'}, true
	case '~':
		return nil, false
	}
	return encodeASCII(r)
}

func decodeJISKatakana(b []byte) string {
	return decodeWith(japanese.ShiftJIS, b)
}

func encodeJISKatakana(r rune) ([]byte, bool) {
	out, ok := encodeWith(japanese.ShiftJIS, r)
	if !ok || len(out) != 1 || out[0] < 0xA1 || out[0] > 0xDF {
		return nil, false
	}
	return out, true
}

// JIS X 0208 is designated to G0, so its bytes are in 0x21-0x7E. Setting the high bits turns them
// into EUC-JP.
func decodeJISX0208(b []byte) string {
	euc := make([]byte, len(b))
	for i, c := range b {
		euc[i] = c | 0x80
	}
	return decodeWith(japanese.EUCJP, euc)
}

func encodeJISX0208(r rune) ([]byte, bool) {
	out, ok := encodeWith(japanese.EUCJP, r)
	if !ok || len(out) != 2 || out[0] < 0xA1 || out[1] < 0xA1 {
		return nil, false
	}
	return []byte{out[0] & 0x7F, out[1] & 0x7F}, true
}

// JIS X 0212 is the EUC-JP code set 3, prefixed with SS3.
func decodeJISX0212(b []byte) string {
	euc := make([]byte, 0, len(b)/2*3+1)
	for i := 0; i+1 < len(b); i += 2 {
		euc = append(euc, 0x8F, b[i]|0x80, b[i+1]|0x80)
	}
	return decodeWith(japanese.EUCJP, euc)
}

func encodeJISX0212(r rune) ([]byte, bool) {
	out, ok := encodeWith(japanese.EUCJP, r)
	if !ok || len(out) != 3 || out[0] != 0x8F {
		return nil, false
	}
	return []byte{out[1] & 0x7F, out[2] & 0x7F}, true
}

// doubleByteG1 decodes and encodes a 94x94 set invoked in G1 whose EUC form coding covers.
func doubleByteG1(coding encoding.Encoding) (func([]byte) string, func(rune) ([]byte, bool)) {
	decode := func(b []byte) string {
		return decodeWith(coding, b)
	}
	encode := func(r rune) ([]byte, bool) {
		out, ok := encodeWith(coding, r)
		if !ok || len(out) != 2 || out[0] < 0xA1 || out[1] < 0xA1 {
			return nil, false
		}
		return out, true
	}
	return decode, encode
}

// singleByteG1 decodes and encodes the upper half of an 8-bit code page.
func singleByteG1(coding encoding.Encoding) (func([]byte) string, func(rune) ([]byte, bool)) {
	decode := func(b []byte) string {
		return decodeWith(coding, b)
	}
	encode := func(r rune) ([]byte, bool) {
		if r < utf8.RuneSelf {
			return nil, false
		}
		out, ok := encodeWith(coding, r)
		if !ok || len(out) != 1 || out[0] < 0xA0 {
			return nil, false
		}
		return out, true
	}
	return decode, encode
}

func newG1Element(name, escape string, codec func(encoding.Encoding) (func([]byte) string, func(rune) ([]byte, bool)), coding encoding.Encoding) *codeElement {
	decode, encode := codec(coding)
	return &codeElement{name: name, escape: escape, g1: true, decode: decode, encode: encode}
}

var (
	asciiElement       = &codeElement{name: "ISO 646", escape: "(B", decode: decodeASCII, encode: encodeASCII}
	jisRomanElement    = &codeElement{name: "JIS X 0201 Romaji", escape: "(J", decode: decodeJISRoman, encode: encodeJISRoman}
	jisKatakanaElement = &codeElement{name: "JIS X 0201 Katakana", escape: ")I", g1: true, decode: decodeJISKatakana, encode: encodeJISKatakana}
	jisX0208Element    = &codeElement{name: "JIS X 0208", escape: "$B", decode: decodeJISX0208, encode: encodeJISX0208}
	jisX0212Element    = &codeElement{name: "JIS X 0212", escape: "$(D", decode: decodeJISX0212, encode: encodeJISX0212}
	ksX1001Element     = newG1Element("KS X 1001", "$)C", doubleByteG1, korean.EUCKR)
	gb2312Element      = newG1Element("GB 2312", "$)A", doubleByteG1, simplifiedchinese.GBK)
	latin1Element      = newG1Element("ISO 8859-1", "-A", singleByteG1, charmap.ISO8859_1)
	latin2Element      = newG1Element("ISO 8859-2", "-B", singleByteG1, charmap.ISO8859_2)
	latin3Element      = newG1Element("ISO 8859-3", "-C", singleByteG1, charmap.ISO8859_3)
	latin4Element      = newG1Element("ISO 8859-4", "-D", singleByteG1, charmap.ISO8859_4)
	cyrillicElement    = newG1Element("ISO 8859-5", "-L", singleByteG1, charmap.ISO8859_5)
	arabicElement      = newG1Element("ISO 8859-6", "-G", singleByteG1, charmap.ISO8859_6)
	greekElement       = newG1Element("ISO 8859-7", "-F", singleByteG1, charmap.ISO8859_7)
	hebrewElement      = newG1Element("ISO 8859-8", "-H", singleByteG1, charmap.ISO8859_8)
	latin5Element      = newG1Element("ISO 8859-9", "-M", singleByteG1, charmap.ISO8859_9)
	latin9Element      = newG1Element("ISO 8859-15", "-b", singleByteG1, charmap.ISO8859_15)
	thaiElement        = newG1Element("TIS 620-2533", "-T", singleByteG1, charmap.Windows874)
)

// codeElements lists every element recognised in an escape sequence, whether or not the
// Specific Character Set designates it.
var codeElements = []*codeElement{
	asciiElement, jisRomanElement, jisKatakanaElement, jisX0208Element, jisX0212Element,
	ksX1001Element, gb2312Element, latin1Element, latin2Element, latin3Element, latin4Element,
	cyrillicElement, arabicElement, greekElement, hebrewElement, latin5Element, latin9Element,
	thaiElement,
}

// codeExtension is the pair of elements a defined term with code extensions designates.
type codeExtension struct {
	g0, g1 *codeElement
}

// lookupExtensionByTerm maps defined terms with code extensions to the elements they designate.
// http://dicom.nema.org/medical/dicom/current/output/chtml/part03/sect_C.12.html#table_C.12-3
var lookupExtensionByTerm = map[string]codeExtension{
	"ISO 2022 IR 6":   {asciiElement, nil},
	"ISO 2022 IR 100": {asciiElement, latin1Element},
	"ISO 2022 IR 101": {asciiElement, latin2Element},
	"ISO 2022 IR 109": {asciiElement, latin3Element},
	"ISO 2022 IR 110": {asciiElement, latin4Element},
	"ISO 2022 IR 144": {asciiElement, cyrillicElement},
	"ISO 2022 IR 127": {asciiElement, arabicElement},
	"ISO 2022 IR 126": {asciiElement, greekElement},
	"ISO 2022 IR 138": {asciiElement, hebrewElement},
	"ISO 2022 IR 148": {asciiElement, latin5Element},
	"ISO 2022 IR 203": {asciiElement, latin9Element},
	"ISO 2022 IR 13":  {jisRomanElement, jisKatakanaElement},
	"ISO 2022 IR 166": {asciiElement, thaiElement},
	"ISO 2022 IR 87":  {jisX0208Element, nil},
	"ISO 2022 IR 159": {jisX0212Element, nil},
	"ISO 2022 IR 149": {nil, ksX1001Element},
	"ISO 2022 IR 58":  {nil, gb2312Element},
}

// multiByteTerms can only be used with code extensions.
var multiByteTerms = map[string]bool{
	"ISO 2022 IR 87":  true,
	"ISO 2022 IR 159": true,
	"ISO 2022 IR 149": true,
	"ISO 2022 IR 58":  true,
}

// lookupEscape matches the designation at the start of b, which begins with ESC.
func lookupEscape(b []byte) (*codeElement, int) {
	for _, e := range codeElements {
		n := len(e.escape) + 1
		if len(b) >= n && string(b[1:n]) == e.escape {
			return e, n
		}
	}
	return nil, unknownEscapeLength(b)
}

// unknownEscapeLength is the length a designation would have: 4 bytes for multi-byte sets
// designated with ESC $ ( or ESC $ ), 3 bytes otherwise.
func unknownEscapeLength(b []byte) int {
	n := 3
	if len(b) > 2 && b[1] == '$' && (b[2] == '(' || b[2] == ')') {
		n = 4
	}
	if n > len(b) {
		n = len(b)
	}
	return n
}

// iso2022 holds the designated elements and the initial state of a Specific Character Set with
// code extensions.
type iso2022 struct {
	elements []*codeElement
	g0, g1   *codeElement
}

func newISO2022(extensions []codeExtension) *iso2022 {
	c := &iso2022{g0: asciiElement}
	if len(extensions) > 0 {
		if extensions[0].g0 != nil {
			c.g0 = extensions[0].g0
		}
		c.g1 = extensions[0].g1
	}
	for _, ext := range extensions {
		for _, e := range []*codeElement{ext.g0, ext.g1} {
			if e != nil && !c.designates(e) {
				c.elements = append(c.elements, e)
			}
		}
	}
	return c
}

func (c *iso2022) designates(e *codeElement) bool {
	for _, d := range c.elements {
		if d == e {
			return true
		}
	}
	return false
}

// decode runs the G0/G1 state machine over b. Bytes 0x21-0x7E are interpreted in G0, bytes
// 0xA0-0xFF in G1, control characters and space pass through. An unrecognised escape sequence
// is copied literally.
func (c *iso2022) decode(b []byte) string {
	var sb strings.Builder
	g0, g1 := c.g0, c.g1
	for i := 0; i < len(b); {
		switch ch := b[i]; {
		case ch == esc:
			e, n := lookupEscape(b[i:])
			switch {
			case e == nil:
				for _, x := range b[i : i+n] {
					sb.WriteRune(rune(x))
				}
			case e.g1:
				g1 = e
			default:
				g0 = e
			}
			i += n
		case ch < 0x21 || ch == 0x7F:
			sb.WriteByte(ch)
			i++
		case ch < 0x80:
			j := i
			for j < len(b) && b[j] > 0x20 && b[j] < 0x7F {
				j++
			}
			sb.WriteString(g0.decode(b[i:j]))
			i = j
		default:
			j := i
			for j < len(b) && b[j] >= 0x80 {
				j++
			}
			if g1 != nil {
				sb.WriteString(g1.decode(b[i:j]))
			} else {
				sb.WriteString(decodeWith(defaultCharacterRepertoire, b[i:j]))
			}
			i = j
		}
	}
	return sb.String()
}

// encode writes s with the initial elements where possible and designates other elements for the
// characters they cannot represent. G0 and G1 return to their initial elements before every
// delimiter and control character, and G0 does at the end of the value.
func (c *iso2022) encode(s, delimiters string) []byte {
	out := make([]byte, 0, len(s)+8)
	g0, g1 := c.g0, c.g1
	reset := func() {
		if g0 != c.g0 {
			out = append(out, c.g0.designation()...)
			g0 = c.g0
		}
		if g1 != c.g1 && c.g1 != nil {
			out = append(out, c.g1.designation()...)
		}
		g1 = c.g1
	}
	for _, r := range s {
		if r < 0x20 || r == 0x7F || strings.ContainsRune(delimiters, r) {
			reset()
			out = append(out, byte(r))
			continue
		}
		b, e := c.encodeRune(r, g0, g1)
		if e == nil {
			out = append(out, '?')
			continue
		}
		if e.g1 && e != g1 {
			out = append(out, e.designation()...)
			g1 = e
		} else if !e.g1 && e != g0 {
			out = append(out, e.designation()...)
			g0 = e
		}
		out = append(out, b...)
	}
	if g0 != c.g0 {
		out = append(out, c.g0.designation()...)
	}
	return out
}

// encodeRune tries the active elements, then the initial ones, then every designated element.
func (c *iso2022) encodeRune(r rune, g0, g1 *codeElement) ([]byte, *codeElement) {
	candidates := append([]*codeElement{g0, g1, c.g0, c.g1}, c.elements...)
	if r < utf8.RuneSelf {
		candidates = append(candidates, asciiElement)
	}
	for _, e := range candidates {
		if e == nil {
			continue
		}
		if b, ok := e.encode(r); ok {
			return b, e
		}
	}
	return nil, nil
}
