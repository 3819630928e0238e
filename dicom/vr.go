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

// vrType is to group common encodings together
type vrType int

const (
	// textVR is for value fields that are character strings, delimited by backslashes when the
	// VR allows more than one value
	textVR vrType = iota

	// numberBinaryVR is for value fields that are sequences of fixed width binary numbers
	numberBinaryVR

	// sequenceVR is for VR: SQ
	sequenceVR
)

// binaryKind is the interpretation of a single unit of a numberBinaryVR value
type binaryKind int

const (
	noBinary binaryKind = iota
	uint8Binary
	int16Binary
	uint16Binary
	int32Binary
	uint32Binary
	tagBinary
	float32Binary
	float64Binary
	int64Binary
	uint64Binary
)

var unitWidth = map[binaryKind]int{
	uint8Binary:   1,
	int16Binary:   2,
	uint16Binary:  2,
	int32Binary:   4,
	uint32Binary:  4,
	tagBinary:     4,
	float32Binary: 4,
	float64Binary: 8,
	int64Binary:   8,
	uint64Binary:  8,
}

// trimRule selects which padding is stripped from a decoded text value
type trimRule int

const (
	// trimBoth strips leading and trailing spaces
	trimBoth trimRule = iota

	// trimTrailing strips trailing spaces only
	trimTrailing

	// trimText strips trailing whitespace and control characters of unsplit free text
	trimText

	// trimUID strips trailing NUL and space padding
	trimUID
)

type numericText int

const (
	notNumeric numericText = iota
	decimalString
	integerString
)

// capability flags gate the conversions a VR supports
type capability uint8

const (
	canBytes capability = 1 << iota
	canStrings
	canInts
	canFloats
)

// UndefinedLength as specified
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.1
const UndefinedLength = 0xffffffff

// VR models the DICOM Value representations (VR)
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
type VR struct {
	// Name represents the 2-character VR Code
	Name string

	code         uint16
	kind         vrType
	headerLength int
	padding      byte
	caps         capability

	// numberBinaryVR
	binary binaryKind
	unit   int
	swap   int

	// textVR
	multiValued  bool
	trim         trimRule
	charsetAware bool
	numeric      numericText
}

var (
	vrLookupMap     = map[string]*VR{}
	vrLookupCodeMap = map[uint16]*VR{}
)

func register(vr *VR) *VR {
	vr.code = uint16(vr.Name[0])<<8 | uint16(vr.Name[1])
	vrLookupMap[vr.Name] = vr
	vrLookupCodeMap[vr.code] = vr
	return vr
}

func newTextVR(name string, headerLength int, multiValued bool, trim trimRule, charsetAware bool, numeric numericText) *VR {
	vr := &VR{
		Name:         name,
		kind:         textVR,
		headerLength: headerLength,
		padding:      ' ',
		caps:         canBytes | canStrings,
		multiValued:  multiValued,
		trim:         trim,
		charsetAware: charsetAware,
		numeric:      numeric,
	}
	if trim == trimUID {
		vr.padding = 0x00
	}
	if numeric != notNumeric {
		vr.caps |= canInts | canFloats
	}
	return register(vr)
}

func newBinaryVR(name string, headerLength int, kind binaryKind, textFallback bool) *VR {
	vr := &VR{
		Name:         name,
		kind:         numberBinaryVR,
		headerLength: headerLength,
		padding:      0x00,
		caps:         canBytes | canInts,
		binary:       kind,
		unit:         unitWidth[kind],
		swap:         unitWidth[kind],
	}
	switch kind {
	case tagBinary:
		// group and element numbers are swapped independently
		vr.swap = 2
	case uint8Binary:
	default:
		vr.caps |= canFloats
	}
	if textFallback {
		vr.caps |= canStrings
	}
	return register(vr)
}

// VR list obtained from
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
var (
	// textual VRs
	CSVR = newTextVR("CS", 8, true, trimBoth, false, notNumeric)
	SHVR = newTextVR("SH", 8, true, trimBoth, true, notNumeric)
	LOVR = newTextVR("LO", 8, true, trimBoth, true, notNumeric)
	STVR = newTextVR("ST", 8, false, trimText, true, notNumeric)
	LTVR = newTextVR("LT", 8, false, trimText, true, notNumeric)
	ASVR = newTextVR("AS", 8, true, trimBoth, false, notNumeric)

	// person name
	PNVR = newTextVR("PN", 8, true, trimBoth, true, notNumeric)

	// application entity
	AEVR = newTextVR("AE", 8, true, trimBoth, false, notNumeric)

	// dates/time VR
	DAVR = newTextVR("DA", 8, true, trimBoth, false, notNumeric)
	TMVR = newTextVR("TM", 8, true, trimBoth, false, notNumeric)
	DTVR = newTextVR("DT", 8, true, trimBoth, false, notNumeric)

	// textual numbers
	ISVR = newTextVR("IS", 8, true, trimBoth, false, integerString)
	DSVR = newTextVR("DS", 8, true, trimBoth, false, decimalString)

	// unlimited char
	UCVR = newTextVR("UC", 12, true, trimTrailing, true, notNumeric)

	// URL
	URVR = newTextVR("UR", 12, false, trimTrailing, false, notNumeric)

	// unlimited text
	UTVR = newTextVR("UT", 12, false, trimText, true, notNumeric)

	// unique identifier
	UIVR = newTextVR("UI", 8, true, trimUID, false, notNumeric)

	// binary numbers
	SSVR = newBinaryVR("SS", 8, int16Binary, true)
	USVR = newBinaryVR("US", 8, uint16Binary, true)
	SLVR = newBinaryVR("SL", 8, int32Binary, true)
	ULVR = newBinaryVR("UL", 8, uint32Binary, true)
	SVVR = newBinaryVR("SV", 12, int64Binary, true)
	UVVR = newBinaryVR("UV", 12, uint64Binary, true)
	FLVR = newBinaryVR("FL", 8, float32Binary, true)
	FDVR = newBinaryVR("FD", 8, float64Binary, true)

	// large binary sequences
	OBVR = newBinaryVR("OB", 12, uint8Binary, false)
	ODVR = newBinaryVR("OD", 12, float64Binary, false)
	OFVR = newBinaryVR("OF", 12, float32Binary, false)
	OLVR = newBinaryVR("OL", 12, uint32Binary, false)
	OVVR = newBinaryVR("OV", 12, uint64Binary, false)
	OWVR = newBinaryVR("OW", 12, uint16Binary, false)

	// unknown
	UNVR = newBinaryVR("UN", 12, uint8Binary, false)

	// attribute tag
	ATVR = newBinaryVR("AT", 8, tagBinary, true)

	// sequence
	SQVR = register(&VR{Name: "SQ", kind: sequenceVR, headerLength: 12})
)

// LookupVR returns the VR with the given 2-character code.
func LookupVR(name string) (*VR, bool) {
	vr, ok := vrLookupMap[name]
	return vr, ok
}

// VRFromCode returns the VR whose two ASCII characters, read as a big endian 16-bit number,
// equal code. This is how an explicit VR header stores it.
func VRFromCode(code uint16) (*VR, bool) {
	vr, ok := vrLookupCodeMap[code]
	return vr, ok
}

func (vr *VR) String() string {
	return vr.Name
}

// Code returns the 2 VR characters as a big endian 16-bit number.
func (vr *VR) Code() uint16 {
	return vr.code
}

// HeaderLength is the size of the explicit VR element header: 8 bytes for VRs with a 16-bit
// length field, 12 bytes for VRs with 2 reserved bytes and a 32-bit length field.
func (vr *VR) HeaderLength() int {
	return vr.headerLength
}

// PaddingByte is appended to odd length values.
func (vr *VR) PaddingByte() byte {
	return vr.padding
}

// IsText is true for VRs whose values are character strings.
func (vr *VR) IsText() bool {
	return vr.kind == textVR
}

// IsBinary is true for VRs whose values are fixed width binary numbers.
func (vr *VR) IsBinary() bool {
	return vr.kind == numberBinaryVR
}

// IsSequence is true for SQ.
func (vr *VR) IsSequence() bool {
	return vr.kind == sequenceVR
}

// UnitWidth is the number of bytes of one value of a binary VR and 0 otherwise.
func (vr *VR) UnitWidth() int {
	return vr.unit
}

// UsesSpecificCharacterSet is true for text VRs decoded with the data set's character set.
// The remaining text VRs are restricted to the default repertoire.
func (vr *VR) UsesSpecificCharacterSet() bool {
	return vr.charsetAware
}

func (vr *VR) has32BitLength() bool {
	return vr.headerLength == 12
}

func (vr *VR) supports(c capability) bool {
	return vr.caps&c != 0
}

// delimiters are the characters before which an ISO 2022 encoder returns to its initial state.
func (vr *VR) delimiters() string {
	switch {
	case vr == PNVR:
		return "\\^="
	case vr.multiValued:
		return "\\"
	default:
		return ""
	}
}

// ToggleEndian returns a copy of b with every value byte swapped. Applying it twice yields the
// original bytes. Non-binary VRs and single byte units are copied unchanged.
func (vr *VR) ToggleEndian(b []byte) ([]byte, error) {
	if vr.kind != numberBinaryVR {
		return append([]byte(nil), b...), nil
	}
	if len(b)%vr.unit != 0 {
		return nil, encodingViolation(vr, len(b))
	}
	return swapBytes(b, vr.swap), nil
}
