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

	"github.com/GoogleCloudPlatform/go-dicom-attributes/internal/log"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var defaultCharacterRepertoire encoding.Encoding = charmap.Windows1252

// lookupLabelByTerm is a mapping of specific character set defined terms to golang charset labels.
// See link below for list of character set defined terms.
// http://dicom.nema.org/medical/dicom/current/output/chtml/part02/sect_D.6.2.html
var lookupLabelByTerm = map[string]string{
	"ISO_IR 6":   "us-ascii",
	"ISO_IR 100": "iso-ir-100",
	"ISO_IR 101": "iso-ir-101",
	"ISO_IR 109": "iso-ir-109",
	"ISO_IR 110": "iso-ir-110",
	"ISO_IR 144": "iso-ir-144",
	"ISO_IR 127": "iso-ir-127",
	"ISO_IR 126": "iso-ir-126",
	"ISO_IR 138": "iso-ir-138",
	"ISO_IR 148": "iso-ir-148",
	"ISO_IR 203": "iso-8859-15",
	"ISO_IR 13":  "shift-jis",
	"ISO_IR 166": "tis-620",
	"ISO_IR 192": "utf-8",
	"GB18030":    "gb18030",
	"GBK":        "gbk",
}

// noExtensionTerms may not be combined with code extensions. A Specific Character Set starting
// with one of them is decoded with that single character set.
var noExtensionTerms = map[string]bool{
	"ISO_IR 192": true,
	"GB18030":    true,
	"GBK":        true,
}

func lookupEncoding(term string) (encoding.Encoding, bool) {
	label, ok := lookupLabelByTerm[term]
	if !ok {
		return nil, false
	}
	coding, _ := charset.Lookup(label)
	if coding == nil {
		return nil, false
	}
	return coding, true
}

// SpecificCharacterSet decodes and encodes the values of VRs affected by the Specific Character
// Set (0008,0005) attribute. It is immutable once created.
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#chapter_6
type SpecificCharacterSet struct {
	codes []string

	// coding is set when a single character set without code extensions is in use
	coding encoding.Encoding

	// extensions is set when ISO 2022 code extensions are in use
	extensions *iso2022
}

// ASCII is the default character repertoire, used when a data set has no Specific Character Set.
var ASCII = &SpecificCharacterSet{coding: defaultCharacterRepertoire}

// NewSpecificCharacterSet returns the character set described by the values of a Specific
// Character Set attribute. Unknown defined terms fall back to the default repertoire.
func NewSpecificCharacterSet(codes ...string) *SpecificCharacterSet {
	trimmed := make([]string, len(codes))
	for i, c := range codes {
		trimmed[i] = strings.TrimSpace(c)
	}
	if len(trimmed) == 0 || (len(trimmed) == 1 && trimmed[0] == "") {
		return ASCII
	}
	if len(trimmed) == 1 && !multiByteTerms[trimmed[0]] || noExtensionTerms[trimmed[0]] {
		coding, ok := lookupEncoding(trimmed[0])
		if !ok {
			coding, ok = lookupEncoding(strings.Replace(trimmed[0], "ISO 2022 IR", "ISO_IR", 1))
		}
		if !ok {
			log.Warning("unknown specific character set, using default repertoire", map[string]interface{}{
				log.KeyCharset: trimmed[0],
			})
			coding = defaultCharacterRepertoire
		}
		return &SpecificCharacterSet{codes: trimmed, coding: coding}
	}

	var extensions []codeExtension
	for i, term := range trimmed {
		if term == "" && i == 0 {
			term = "ISO 2022 IR 6"
		}
		ext, ok := lookupExtensionByTerm[strings.Replace(term, "ISO_IR", "ISO 2022 IR", 1)]
		if !ok {
			log.Warning("unknown specific character set code extension, ignoring it", map[string]interface{}{
				log.KeyCharset: term,
			})
			if i == 0 {
				ext = lookupExtensionByTerm["ISO 2022 IR 6"]
			} else {
				continue
			}
		}
		extensions = append(extensions, ext)
	}
	return &SpecificCharacterSet{codes: trimmed, extensions: newISO2022(extensions)}
}

// Codes returns the defined terms the character set was created from.
func (cs *SpecificCharacterSet) Codes() []string {
	return append([]string(nil), cs.codes...)
}

// IsASCII is true for the default character repertoire.
func (cs *SpecificCharacterSet) IsASCII() bool {
	if cs.extensions != nil {
		return len(cs.extensions.elements) == 1 && cs.extensions.g0 == asciiElement
	}
	return len(cs.codes) == 0 || cs.codes[0] == "ISO_IR 6" || cs.codes[0] == "ISO 2022 IR 6"
}

// ContainsASCII is true if bytes 0x00-0x7F are decoded as ASCII in the initial state.
func (cs *SpecificCharacterSet) ContainsASCII() bool {
	if cs.extensions != nil {
		return cs.extensions.g0 == asciiElement
	}
	return true
}

// Equal is true if both character sets were created from the same defined terms.
func (cs *SpecificCharacterSet) Equal(other *SpecificCharacterSet) bool {
	if cs == other {
		return true
	}
	if other == nil || len(cs.codes) != len(other.codes) {
		return false
	}
	for i := range cs.codes {
		if cs.codes[i] != other.codes[i] {
			return false
		}
	}
	return true
}

func (cs *SpecificCharacterSet) String() string {
	if len(cs.codes) == 0 {
		return "ISO_IR 6"
	}
	return strings.Join(cs.codes, "\\")
}

func isASCIIBytes(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf || c == esc {
			return false
		}
	}
	return true
}

func isASCIIString(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Decode converts b to a string. In ISO 2022 mode escape sequences switch the character sets
// invoked in G0 and G1.
func (cs *SpecificCharacterSet) Decode(b []byte) string {
	if cs.ContainsASCII() && isASCIIBytes(b) {
		return string(b)
	}
	if cs.extensions != nil {
		return cs.extensions.decode(b)
	}
	if cs.coding == unicode.UTF8 {
		return string(b)
	}
	return decodeWith(cs.coding, b)
}

// Encode converts s to bytes. Characters no designated character set can represent are replaced.
// In ISO 2022 mode the initial character sets are restored before every rune in delimiters.
func (cs *SpecificCharacterSet) Encode(s, delimiters string) []byte {
	if cs.ContainsASCII() && isASCIIString(s) {
		return []byte(s)
	}
	if cs.extensions != nil {
		return cs.extensions.encode(s, delimiters)
	}
	if cs.coding == unicode.UTF8 {
		return []byte(s)
	}
	out, err := encoding.ReplaceUnsupported(cs.coding.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return out
}
