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
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// checkLength verifies that a binary payload holds a whole number of values.
func (vr *VR) checkLength(n int) error {
	if vr.unit > 1 && n%vr.unit != 0 {
		return encodingViolation(vr, n)
	}
	return nil
}

// swapBytes returns a copy of b with every width-byte group reversed.
func swapBytes(b []byte, width int) []byte {
	out := make([]byte, len(b))
	if width <= 1 {
		copy(out, b)
		return out
	}
	for i := 0; i+width <= len(b); i += width {
		for j := 0; j < width; j++ {
			out[i+j] = b[i+width-1-j]
		}
	}
	return out
}

func decodeInt(b []byte, kind binaryKind, order binary.ByteOrder) int {
	switch kind {
	case uint8Binary:
		return int(b[0])
	case int16Binary:
		return int(int16(order.Uint16(b)))
	case uint16Binary:
		return int(order.Uint16(b))
	case int32Binary:
		return int(int32(order.Uint32(b)))
	case uint32Binary:
		return int(order.Uint32(b))
	case tagBinary:
		return int(uint32(order.Uint16(b))<<16 | uint32(order.Uint16(b[2:])))
	case int64Binary:
		return int(int64(order.Uint64(b)))
	case uint64Binary:
		return int(order.Uint64(b))
	case float32Binary:
		return int(math.Float32frombits(order.Uint32(b)))
	case float64Binary:
		return int(math.Float64frombits(order.Uint64(b)))
	}
	return 0
}

// checkInts verifies that every integer fits a unit of vr.
func (vr *VR) checkInts(ints []int) error {
	var lo, hi int64
	switch vr.binary {
	case uint8Binary:
		lo, hi = 0, math.MaxUint8
	case int16Binary:
		lo, hi = math.MinInt16, math.MaxInt16
	case uint16Binary:
		lo, hi = 0, math.MaxUint16
	case int32Binary:
		lo, hi = math.MinInt32, math.MaxInt32
	case uint32Binary, tagBinary:
		lo, hi = 0, math.MaxUint32
	case uint64Binary:
		lo, hi = 0, math.MaxInt64
	default:
		return nil
	}
	for _, n := range ints {
		if int64(n) < lo || int64(n) > hi {
			return errors.Wrapf(ErrInvalidValue, "%d is out of range for %s", n, vr.Name)
		}
	}
	return nil
}

func encodeInt(dst []byte, v int, kind binaryKind, order binary.ByteOrder) {
	switch kind {
	case uint8Binary:
		dst[0] = byte(v)
	case int16Binary, uint16Binary:
		order.PutUint16(dst, uint16(v))
	case int32Binary, uint32Binary:
		order.PutUint32(dst, uint32(v))
	case tagBinary:
		order.PutUint16(dst, uint16(uint32(v)>>16))
		order.PutUint16(dst[2:], uint16(v))
	case int64Binary, uint64Binary:
		order.PutUint64(dst, uint64(v))
	case float32Binary:
		order.PutUint32(dst, math.Float32bits(float32(v)))
	case float64Binary:
		order.PutUint64(dst, math.Float64bits(float64(v)))
	}
}

func decodeDouble(b []byte, kind binaryKind, order binary.ByteOrder) float64 {
	switch kind {
	case float32Binary:
		return float64(math.Float32frombits(order.Uint32(b)))
	case float64Binary:
		return math.Float64frombits(order.Uint64(b))
	case uint64Binary:
		return float64(order.Uint64(b))
	}
	return float64(decodeInt(b, kind, order))
}

func encodeDouble(dst []byte, v float64, kind binaryKind, order binary.ByteOrder) {
	switch kind {
	case float32Binary:
		order.PutUint32(dst, math.Float32bits(float32(v)))
	case float64Binary:
		order.PutUint64(dst, math.Float64bits(v))
	default:
		encodeInt(dst, int(v), kind, order)
	}
}

func bytesToInts(b []byte, vr *VR, order binary.ByteOrder) ([]int, error) {
	if err := vr.checkLength(len(b)); err != nil {
		return nil, err
	}
	ints := make([]int, len(b)/vr.unit)
	for i := range ints {
		ints[i] = decodeInt(b[i*vr.unit:], vr.binary, order)
	}
	return ints, nil
}

func intsToBytes(ints []int, vr *VR, order binary.ByteOrder) []byte {
	b := make([]byte, len(ints)*vr.unit)
	for i, v := range ints {
		encodeInt(b[i*vr.unit:], v, vr.binary, order)
	}
	return b
}

func bytesToDoubles(b []byte, vr *VR, order binary.ByteOrder) ([]float64, error) {
	if err := vr.checkLength(len(b)); err != nil {
		return nil, err
	}
	ds := make([]float64, len(b)/vr.unit)
	for i := range ds {
		ds[i] = decodeDouble(b[i*vr.unit:], vr.binary, order)
	}
	return ds, nil
}

func doublesToBytes(ds []float64, vr *VR, order binary.ByteOrder) []byte {
	b := make([]byte, len(ds)*vr.unit)
	for i, v := range ds {
		encodeDouble(b[i*vr.unit:], v, vr.binary, order)
	}
	return b
}

func bytesToFloats(b []byte, vr *VR, order binary.ByteOrder) ([]float32, error) {
	if vr.binary != float32Binary {
		ds, err := bytesToDoubles(b, vr, order)
		return narrow(ds), err
	}
	if err := vr.checkLength(len(b)); err != nil {
		return nil, err
	}
	fs := make([]float32, len(b)/4)
	for i := range fs {
		fs[i] = math.Float32frombits(order.Uint32(b[i*4:]))
	}
	return fs, nil
}

func floatsToBytes(fs []float32, vr *VR, order binary.ByteOrder) []byte {
	if vr.binary != float32Binary {
		return doublesToBytes(widen(fs), vr, order)
	}
	b := make([]byte, len(fs)*4)
	for i, v := range fs {
		order.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

func narrow(ds []float64) []float32 {
	if ds == nil {
		return nil
	}
	fs := make([]float32, len(ds))
	for i, d := range ds {
		fs[i] = float32(d)
	}
	return fs
}

func widen(fs []float32) []float64 {
	if fs == nil {
		return nil
	}
	ds := make([]float64, len(fs))
	for i, f := range fs {
		ds[i] = float64(f)
	}
	return ds
}

// formatBinary renders one binary value the way it would be written in a text VR.
func formatBinary(v float64, i int, vr *VR) string {
	switch vr.binary {
	case tagBinary:
		return fmt.Sprintf("%08X", uint32(i))
	case float32Binary:
		return strconv.FormatFloat(v, 'g', -1, 32)
	case float64Binary:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case uint64Binary:
		return strconv.FormatUint(uint64(i), 10)
	}
	return strconv.Itoa(i)
}

func binaryIntsToStrings(ints []int, vr *VR) []string {
	strs := make([]string, len(ints))
	for i, v := range ints {
		strs[i] = formatBinary(float64(v), v, vr)
	}
	return strs
}

func binaryDoublesToStrings(ds []float64, vr *VR) []string {
	strs := make([]string, len(ds))
	for i, v := range ds {
		strs[i] = formatBinary(v, int(v), vr)
	}
	return strs
}

func binaryBytesToStrings(b []byte, vr *VR, order binary.ByteOrder) ([]string, error) {
	switch vr.binary {
	case float32Binary, float64Binary:
		ds, err := bytesToDoubles(b, vr, order)
		if err != nil {
			return nil, err
		}
		if vr.binary == float32Binary {
			// format with float32 precision so 0.1 stays "0.1"
			for i := range ds {
				ds[i] = float64(float32(ds[i]))
			}
		}
		return binaryDoublesToStrings(ds, vr), nil
	}
	ints, err := bytesToInts(b, vr, order)
	if err != nil {
		return nil, err
	}
	return binaryIntsToStrings(ints, vr), nil
}

// parseBinaryStrings converts the text form of binary numbers into the cell stored for vr.
func parseBinaryStrings(strs []string, vr *VR) (value, error) {
	switch vr.binary {
	case float32Binary:
		fs := make([]float32, len(strs))
		for i, s := range strs {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
			if err != nil {
				return nil, invalidValue(vr, s)
			}
			fs[i] = float32(f)
		}
		return floatList(fs), nil
	case float64Binary:
		ds := make([]float64, len(strs))
		for i, s := range strs {
			d, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, invalidValue(vr, s)
			}
			ds[i] = d
		}
		return doubleList(ds), nil
	}
	ints := make([]int, len(strs))
	for i, s := range strs {
		s = strings.TrimSpace(s)
		var n int64
		var err error
		switch vr.binary {
		case tagBinary:
			var u uint64
			u, err = strconv.ParseUint(s, 16, 32)
			n = int64(u)
		case uint64Binary:
			var u uint64
			u, err = strconv.ParseUint(s, 10, 64)
			n = int64(u)
		default:
			n, err = strconv.ParseInt(s, 10, 64)
		}
		if err != nil || n < 0 && vr.binary == uint64Binary {
			return nil, invalidValue(vr, s)
		}
		ints[i] = int(n)
	}
	if err := vr.checkInts(ints); err != nil {
		return nil, err
	}
	return intList(ints), nil
}
