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
	"encoding/binary"
	"fmt"
	"math"

	"github.com/GoogleCloudPlatform/go-dicom-attributes/internal/log"
)

// list of transfer syntaxes obtained from
// http://dicom.nema.org/medical/dicom/current/output/html/part06.html#chapter_A
const (
	// ImplicitVRLittleEndianUID is the Implicit VR Little Endian UID
	ImplicitVRLittleEndianUID = "1.2.840.10008.1.2"
	// ExplicitVRLittleEndianUID is the Explicit VR Little Endian UID
	ExplicitVRLittleEndianUID = "1.2.840.10008.1.2.1"
	// ExplicitVRBigEndianUID is the Explicit VR Big Endian UID
	ExplicitVRBigEndianUID = "1.2.840.10008.1.2.2"
	// DeflatedExplicitVRLittleEndianUID is the Deflated Explicit VR Little Endian UID
	DeflatedExplicitVRLittleEndianUID = "1.2.840.10008.1.2.1.99"
	// JPEGBaselineUID is the JPEG Baseline (Process 1) transfer syntax UID
	JPEGBaselineUID = "1.2.840.10008.1.2.4.50"
)

func lookupTransferSyntax(uid string) transferSyntax {
	switch uid {
	case ImplicitVRLittleEndianUID:
		return implicitVRLittleEndian
	case ExplicitVRBigEndianUID:
		return explicitVRBigEndian
	case DeflatedExplicitVRLittleEndianUID:
		return deflatedExplicitVRLittleEndian
	}
	// any other syntax should be explicit VR little endian according to PS3.5 A.4
	// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4
	return explicitVRLittleEndian
}

// IsBigEndianTransferSyntax is true for the Explicit VR Big Endian transfer syntax.
func IsBigEndianTransferSyntax(uid string) bool {
	return uid == ExplicitVRBigEndianUID
}

const tagSize = 4

type transferSyntax interface {
	byteOrder() binary.ByteOrder
	isDeflated() bool
	isExplicitVR() bool

	// headerLength is the size of the tag, VR and length fields of an element of vr
	headerLength(vr *VR) int

	// readVR returns the VR of the header being read, or nil if the syntax does not encode it
	readVR(dr *dcmReader) (*VR, error)
	readValueLength(dr *dcmReader, vr *VR) (uint32, error)
	writeHeader(dw *dcmWriter, tag DataElementTag, vr *VR, valueFieldLength uint32) error
}

type implicitSyntax struct{}

func (implicitSyntax) byteOrder() binary.ByteOrder {
	return binary.LittleEndian
}

func (implicitSyntax) isDeflated() bool {
	return false
}

func (implicitSyntax) isExplicitVR() bool {
	return false
}

func (implicitSyntax) headerLength(vr *VR) int {
	return tagSize + 4 /*length*/
}

func (implicitSyntax) readVR(dr *dcmReader) (*VR, error) {
	return nil, nil
}

func (implicitSyntax) readValueLength(dr *dcmReader, vr *VR) (uint32, error) {
	return dr.UInt32(binary.LittleEndian)
}

func (implicitSyntax) writeHeader(dw *dcmWriter, tag DataElementTag, vr *VR, valueFieldLength uint32) error {
	if err := dw.Tag(binary.LittleEndian, tag); err != nil {
		return fmt.Errorf("writing tag: %v", err)
	}
	return dw.UInt32(binary.LittleEndian, valueFieldLength)
}

type explicitSyntax struct {
	order    binary.ByteOrder
	deflated bool
}

func (s explicitSyntax) byteOrder() binary.ByteOrder {
	return s.order
}

func (s explicitSyntax) isDeflated() bool {
	return s.deflated
}

func (s explicitSyntax) isExplicitVR() bool {
	return true
}

func (s explicitSyntax) headerLength(vr *VR) int {
	return vr.HeaderLength()
}

// readVR reads the 2 VR characters. Unknown codes are read as UN with a 32-bit length, the way
// PS3.5 asks for VRs added in later editions.
func (s explicitSyntax) readVR(dr *dcmReader) (*VR, error) {
	code, err := dr.UInt16(binary.BigEndian)
	if err != nil {
		return nil, fmt.Errorf("reading vr: %v", err)
	}
	vr, ok := VRFromCode(code)
	if !ok {
		log.Warning("unknown vr, reading it as UN", map[string]interface{}{
			log.KeyVR: string([]byte{byte(code >> 8), byte(code)}),
		})
		return UNVR, nil
	}
	return vr, nil
}

func (s explicitSyntax) readValueLength(dr *dcmReader, vr *VR) (uint32, error) {
	// For explicit VR, lengths can be stored in a 32 bit field or a 16 bit field
	// depending on the VR type. The 2 cases are defined at the link:
	// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.2
	if vr.has32BitLength() {
		if _, err := dr.UInt16(s.order); err != nil {
			return 0, fmt.Errorf("reading reserved field %v", err)
		}

		length, err := dr.UInt32(s.order)
		if err != nil {
			return 0, fmt.Errorf("reading 32 bit length: %v", err)
		}
		return length, nil
	}

	length, err := dr.UInt16(s.order)
	if err != nil {
		return 0, fmt.Errorf("reading 16 bit length: %v", err)
	}
	return uint32(length), nil
}

func (s explicitSyntax) writeHeader(dw *dcmWriter, tag DataElementTag, vr *VR, valueFieldLength uint32) error {
	if err := dw.Tag(s.order, tag); err != nil {
		return fmt.Errorf("writing tag: %v", err)
	}
	if err := dw.String(vr.Name); err != nil {
		return fmt.Errorf("writing vr: %v", err)
	}
	if vr.has32BitLength() {
		if err := dw.UInt16(s.order, 0); err != nil {
			return fmt.Errorf("writing reserved field")
		}
		if err := dw.UInt32(s.order, valueFieldLength); err != nil {
			return fmt.Errorf("writing 32 bit length: %v", err)
		}
		return nil
	}
	if valueFieldLength > math.MaxUint16 {
		return fmt.Errorf("%v %s value length %d exceeds unsigned 16-bit length", tag, vr.Name, valueFieldLength)
	}
	if err := dw.UInt16(s.order, uint16(valueFieldLength)); err != nil {
		return fmt.Errorf("writing 16 bit length: %v", err)
	}
	return nil
}

var (
	explicitVRLittleEndian         = explicitSyntax{binary.LittleEndian, false}
	deflatedExplicitVRLittleEndian = explicitSyntax{binary.LittleEndian, true}
	implicitVRLittleEndian         = implicitSyntax{}
	explicitVRBigEndian            = explicitSyntax{binary.BigEndian, false}
)
