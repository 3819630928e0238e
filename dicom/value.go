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
	"strings"
)

// value is the content of one attribute. The variants are the list types below, *Sequence,
// *Fragments and *BulkData. A nil value is an attribute without a value.
type value interface {
	isValue()
}

// rawBytes holds a value as it was read from the wire, in the byte order of its data set.
type rawBytes []byte

// text is a single string component.
type text string

// textList holds the components of a multi-valued text VR.
type textList []string

type intList []int

type floatList []float32

type doubleList []float64

func (rawBytes) isValue()   {}
func (text) isValue()       {}
func (textList) isValue()   {}
func (intList) isValue()    {}
func (floatList) isValue()  {}
func (doubleList) isValue() {}

// codec carries what a conversion needs to know about the data set holding the value.
type codec struct {
	order binary.ByteOrder
	cs    *SpecificCharacterSet
}

var littleEndianASCII = codec{binary.LittleEndian, ASCII}

func isEmptyValue(v value) bool {
	switch v := v.(type) {
	case nil:
		return true
	case rawBytes:
		return len(v) == 0
	case text:
		return v == ""
	case textList:
		return len(v) == 0
	case intList:
		return len(v) == 0
	case floatList:
		return len(v) == 0
	case doubleList:
		return len(v) == 0
	case *Sequence:
		return v.Len() == 0
	case *Fragments:
		return v.Len() == 0
	case *BulkData:
		return v.IsEmpty()
	}
	return true
}

func textValue(strs []string) value {
	if len(strs) == 1 {
		return text(strs[0])
	}
	return textList(strs)
}

// The to* conversions return the requested representation of v and, when the conversion
// decoded v into the natural form of the VR, the cell that should replace v. Converting a
// cell that is already in the requested form is a no-op.

func (vr *VR) toStrings(v value, c codec) ([]string, value, error) {
	if !vr.supports(canStrings) {
		return nil, nil, unsupportedConversion(vr, "strings")
	}
	switch v := v.(type) {
	case nil:
		return nil, nil, nil
	case rawBytes:
		if vr.kind == numberBinaryVR {
			strs, err := binaryBytesToStrings(v, vr, c.order)
			return strs, nil, err
		}
		strs := vr.canonicalStrings(vr.splitText(vr.decodeText(v, c.cs)))
		return strs, textValue(strs), nil
	case text:
		return []string{string(v)}, nil, nil
	case textList:
		return v, nil, nil
	case intList:
		if vr.kind == numberBinaryVR {
			return binaryIntsToStrings(v, vr), nil, nil
		}
		return vr.intsToText(v), nil, nil
	case floatList:
		return binaryDoublesToStrings(widen(v), vr), nil, nil
	case doubleList:
		if vr.kind == numberBinaryVR {
			return binaryDoublesToStrings(v, vr), nil, nil
		}
		return vr.doublesToText(v), nil, nil
	}
	return nil, nil, unsupportedConversion(vr, "strings")
}

func (vr *VR) toInts(v value, c codec) ([]int, value, error) {
	if !vr.supports(canInts) {
		return nil, nil, unsupportedConversion(vr, "ints")
	}
	switch v := v.(type) {
	case nil:
		return nil, nil, nil
	case rawBytes:
		if vr.kind == numberBinaryVR {
			ints, err := bytesToInts(v, vr, c.order)
			if err != nil || vr.binary == float32Binary || vr.binary == float64Binary {
				return ints, nil, err
			}
			return ints, intList(ints), nil
		}
		return vr.textToNaturalInts(vr.splitText(string(v)))
	case text:
		return vr.textToNaturalInts([]string{string(v)})
	case textList:
		return vr.textToNaturalInts(v)
	case intList:
		return v, nil, nil
	case floatList:
		ints := make([]int, len(v))
		for i, f := range v {
			ints[i] = int(f)
		}
		return ints, nil, nil
	case doubleList:
		ints := make([]int, len(v))
		for i, d := range v {
			ints[i] = int(d)
		}
		return ints, nil, nil
	}
	return nil, nil, unsupportedConversion(vr, "ints")
}

func (vr *VR) textToNaturalInts(strs []string) ([]int, value, error) {
	ints, err := vr.textToInts(strs)
	if err != nil || vr.numeric != integerString {
		return ints, nil, err
	}
	return ints, intList(ints), nil
}

func (vr *VR) toDoubles(v value, c codec) ([]float64, value, error) {
	if !vr.supports(canFloats) {
		return nil, nil, unsupportedConversion(vr, "doubles")
	}
	switch v := v.(type) {
	case nil:
		return nil, nil, nil
	case rawBytes:
		if vr.kind == numberBinaryVR {
			ds, err := bytesToDoubles(v, vr, c.order)
			if err != nil || vr.binary != float64Binary {
				return ds, nil, err
			}
			return ds, doubleList(ds), nil
		}
		return vr.textToNaturalDoubles(vr.splitText(string(v)))
	case text:
		return vr.textToNaturalDoubles([]string{string(v)})
	case textList:
		return vr.textToNaturalDoubles(v)
	case intList:
		ds := make([]float64, len(v))
		for i, n := range v {
			ds[i] = float64(n)
		}
		return ds, nil, nil
	case floatList:
		return widen(v), nil, nil
	case doubleList:
		return v, nil, nil
	}
	return nil, nil, unsupportedConversion(vr, "doubles")
}

func (vr *VR) textToNaturalDoubles(strs []string) ([]float64, value, error) {
	ds, err := vr.textToDoubles(strs)
	if err != nil || vr.numeric != decimalString {
		return ds, nil, err
	}
	return ds, doubleList(ds), nil
}

func (vr *VR) toFloats(v value, c codec) ([]float32, value, error) {
	if !vr.supports(canFloats) {
		return nil, nil, unsupportedConversion(vr, "floats")
	}
	switch v := v.(type) {
	case rawBytes:
		if vr.binary == float32Binary {
			fs, err := bytesToFloats(v, vr, c.order)
			if err != nil {
				return nil, nil, err
			}
			return fs, floatList(fs), nil
		}
	case floatList:
		return v, nil, nil
	}
	ds, memo, err := vr.toDoubles(v, c)
	return narrow(ds), memo, err
}

func (vr *VR) toBytes(v value, c codec) ([]byte, error) {
	if !vr.supports(canBytes) {
		return nil, unsupportedConversion(vr, "bytes")
	}
	switch v := v.(type) {
	case nil:
		return nil, nil
	case rawBytes:
		return v, nil
	case text:
		return vr.encodeText(string(v), c.cs), nil
	case textList:
		return vr.encodeText(strings.Join(v, "\\"), c.cs), nil
	case intList:
		if vr.kind == numberBinaryVR {
			return intsToBytes(v, vr, c.order), nil
		}
		return []byte(strings.Join(vr.intsToText(v), "\\")), nil
	case floatList:
		return floatsToBytes(v, vr, c.order), nil
	case doubleList:
		if vr.kind == numberBinaryVR {
			return doublesToBytes(v, vr, c.order), nil
		}
		return []byte(strings.Join(vr.doublesToText(v), "\\")), nil
	case *BulkData:
		return v.Bytes()
	}
	return nil, unsupportedConversion(vr, "bytes")
}

// The valueOf* conversions build the cell stored by a put. Input slices are copied.

func (vr *VR) valueOfBytes(b []byte) (value, error) {
	if !vr.supports(canBytes) {
		return nil, unsupportedConversion(vr, "bytes")
	}
	if err := vr.checkLength(len(b)); err != nil {
		return nil, err
	}
	return rawBytes(append([]byte(nil), b...)), nil
}

func (vr *VR) valueOfStrings(strs []string) (value, error) {
	if !vr.supports(canStrings) {
		return nil, unsupportedConversion(vr, "strings")
	}
	if vr.kind == numberBinaryVR {
		return parseBinaryStrings(strs, vr)
	}
	cp := make([]string, len(strs))
	copy(cp, strs)
	return textValue(vr.canonicalStrings(cp)), nil
}

func (vr *VR) valueOfInts(ints []int) (value, error) {
	if !vr.supports(canInts) {
		return nil, unsupportedConversion(vr, "ints")
	}
	switch {
	case vr.numeric == decimalString, vr.binary == float64Binary:
		ds := make([]float64, len(ints))
		for i, n := range ints {
			ds[i] = float64(n)
		}
		return doubleList(ds), nil
	case vr.binary == float32Binary:
		fs := make([]float32, len(ints))
		for i, n := range ints {
			fs[i] = float32(n)
		}
		return floatList(fs), nil
	}
	if err := vr.checkInts(ints); err != nil {
		return nil, err
	}
	return intList(append([]int(nil), ints...)), nil
}

func (vr *VR) valueOfDoubles(ds []float64) (value, error) {
	if !vr.supports(canFloats) || vr.numeric == integerString {
		return nil, unsupportedConversion(vr, "doubles")
	}
	switch {
	case vr.numeric == decimalString, vr.binary == float64Binary:
		return doubleList(append([]float64(nil), ds...)), nil
	case vr.binary == float32Binary:
		return floatList(narrow(ds)), nil
	}
	ints := make([]int, len(ds))
	for i, d := range ds {
		ints[i] = int(d)
	}
	if err := vr.checkInts(ints); err != nil {
		return nil, err
	}
	return intList(ints), nil
}

func (vr *VR) valueOfFloats(fs []float32) (value, error) {
	if vr.binary == float32Binary {
		return floatList(append([]float32(nil), fs...)), nil
	}
	return vr.valueOfDoubles(widen(fs))
}
