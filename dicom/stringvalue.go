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
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// maxDSLength is the maximum length of a single Decimal String value.
const maxDSLength = 16

func isPadding(r rune) bool {
	return r == 0x00 || unicode.IsSpace(r)
}

func isTextPadding(r rune) bool {
	return isPadding(r) || unicode.IsControl(r)
}

func (vr *VR) trimValue(s string) string {
	switch vr.trim {
	case trimTrailing:
		return strings.TrimRightFunc(s, isPadding)
	case trimText:
		return strings.TrimRightFunc(s, isTextPadding)
	case trimUID:
		return strings.TrimRight(s, "\x00 ")
	default:
		return strings.TrimFunc(s, isPadding)
	}
}

// splitText deals with value multiplicity and padding of a decoded text value. An empty value
// has no components.
func (vr *VR) splitText(s string) []string {
	if s == "" {
		return []string{}
	}
	if !vr.multiValued {
		return []string{vr.trimValue(s)}
	}
	strs := strings.Split(s, "\\")
	for i, c := range strs {
		strs[i] = vr.trimValue(c)
	}
	return strs
}

func (vr *VR) decodeText(b []byte, cs *SpecificCharacterSet) string {
	if vr.charsetAware && cs != nil {
		return cs.Decode(b)
	}
	return string(b)
}

func (vr *VR) encodeText(s string, cs *SpecificCharacterSet) []byte {
	if vr.charsetAware && cs != nil {
		return cs.Encode(s, vr.delimiters())
	}
	return []byte(s)
}

// canonicalStrings returns the canonical form of numeric text values. Components that do not
// parse are only trimmed. Other text VRs are returned as is.
func (vr *VR) canonicalStrings(strs []string) []string {
	if vr.numeric == notNumeric {
		return strs
	}
	out := make([]string, len(strs))
	for i, s := range strs {
		out[i] = vr.canonical(s)
	}
	return out
}

func (vr *VR) canonical(s string) string {
	s = strings.TrimSpace(s)
	switch vr.numeric {
	case decimalString:
		if d, err := parseDS(s); err == nil {
			return formatDS(d)
		}
	case integerString:
		if n, err := parseIS(s); err == nil {
			return formatIS(n)
		}
	}
	return s
}

// parseDS accepts an optional sign, an optional leading '+', a fractional part without integer
// digits and an exponent, e.g. "+0.50", ".5", "-1.2E+3".
func parseDS(s string) (float64, error) {
	d, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid decimal string %q", s)
	}
	if math.IsInf(d, 0) || math.IsNaN(d) {
		return 0, fmt.Errorf("invalid decimal string %q", s)
	}
	return d, nil
}

func parseIS(s string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer string %q", s)
	}
	return int(n), nil
}

// formatDS renders d in at most 16 characters, preferring plain decimal notation. NaN marks an
// empty value.
func formatDS(d float64) string {
	if math.IsNaN(d) {
		return ""
	}
	s := strconv.FormatFloat(d, 'f', -1, 64)
	if len(s) <= maxDSLength {
		return s
	}
	for prec := maxDSLength; prec > 0; prec-- {
		s = strconv.FormatFloat(d, 'G', prec, 64)
		if len(s) <= maxDSLength {
			return s
		}
	}
	return s
}

func formatIS(n int) string {
	return strconv.Itoa(n)
}

// textToDoubles parses decimal or integer strings. Empty DS components become NaN.
func (vr *VR) textToDoubles(strs []string) ([]float64, error) {
	ds := make([]float64, len(strs))
	for i, s := range strs {
		if vr.numeric == integerString {
			n, err := parseIS(s)
			if err != nil {
				return nil, invalidValue(vr, s)
			}
			ds[i] = float64(n)
			continue
		}
		if strings.TrimSpace(s) == "" {
			ds[i] = math.NaN()
			continue
		}
		d, err := parseDS(s)
		if err != nil {
			return nil, invalidValue(vr, s)
		}
		ds[i] = d
	}
	return ds, nil
}

// textToInts parses integer strings. Decimal strings are truncated towards zero.
func (vr *VR) textToInts(strs []string) ([]int, error) {
	ints := make([]int, len(strs))
	for i, s := range strs {
		if vr.numeric == decimalString {
			d, err := parseDS(s)
			if err != nil {
				return nil, invalidValue(vr, s)
			}
			ints[i] = int(d)
			continue
		}
		n, err := parseIS(s)
		if err != nil {
			return nil, invalidValue(vr, s)
		}
		ints[i] = n
	}
	return ints, nil
}

func (vr *VR) intsToText(ints []int) []string {
	strs := make([]string, len(ints))
	for i, n := range ints {
		strs[i] = formatIS(n)
	}
	return strs
}

func (vr *VR) doublesToText(ds []float64) []string {
	strs := make([]string, len(ds))
	for i, d := range ds {
		if vr.numeric == integerString {
			strs[i] = formatIS(int(d))
			continue
		}
		strs[i] = formatDS(d)
	}
	return strs
}
