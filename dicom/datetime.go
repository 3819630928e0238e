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
	"strconv"
	"strings"
	"time"
)

// Layouts of the DA, TM and DT VRs
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#table_6.2-1
const (
	daLayout = "20060102"
	tmLayout = "150405.000000"
	dtLayout = "20060102150405.000000"
)

// parseDA parses a date, accepting the pre 3.0 "YYYY.MM.DD" form as well.
func parseDA(s string, loc *time.Location) (time.Time, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	if len(s) != len(daLayout) {
		return time.Time{}, invalidValue(DAVR, s)
	}
	t, err := time.ParseInLocation(daLayout, s, loc)
	if err != nil {
		return time.Time{}, invalidValue(DAVR, s)
	}
	return t, nil
}

// parseTM returns the offset from midnight of a time of day. Missing trailing components are
// zero and the pre 3.0 "HH:MM:SS" form is accepted.
func parseTM(s string) (time.Duration, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ":", "")
	if s == "" {
		return 0, invalidValue(TMVR, s)
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if len(whole)%2 != 0 || len(whole) > 6 || len(frac) > 6 {
		return 0, invalidValue(TMVR, s)
	}
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	limits := []int{23, 59, 60}
	var d time.Duration
	for i := 0; i < len(whole); i += 2 {
		n, err := strconv.Atoi(whole[i : i+2])
		if err != nil || n < 0 || n > limits[i/2] {
			return 0, invalidValue(TMVR, s)
		}
		d += time.Duration(n) * units[i/2]
	}
	if frac != "" {
		n, err := strconv.Atoi(frac + strings.Repeat("0", 6-len(frac)))
		if err != nil || n < 0 {
			return 0, invalidValue(TMVR, s)
		}
		d += time.Duration(n) * time.Microsecond
	}
	return d, nil
}

// parseTimezoneOffset parses the "&ZZXX" suffix of DT and the TimezoneOffsetFromUTC value.
func parseTimezoneOffset(s string) (*time.Location, error) {
	if len(s) != 5 || (s[0] != '+' && s[0] != '-') {
		return nil, fmt.Errorf("invalid timezone offset %q", s)
	}
	hh, err := strconv.Atoi(s[1:3])
	if err != nil {
		return nil, fmt.Errorf("invalid timezone offset %q", s)
	}
	mm, err := strconv.Atoi(s[3:5])
	if err != nil {
		return nil, fmt.Errorf("invalid timezone offset %q", s)
	}
	offset := hh*3600 + mm*60
	if s[0] == '-' {
		offset = -offset
	}
	return time.FixedZone(s, offset), nil
}

// parseDT parses a date time. A missing month or day is 1, a missing time is midnight and a
// missing offset means loc.
func parseDT(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "+-"); i >= 0 {
		tz, err := parseTimezoneOffset(s[i:])
		if err != nil {
			return time.Time{}, invalidValue(DTVR, s)
		}
		s, loc = s[:i], tz
	}
	date := s
	if len(date) > len(daLayout) {
		date = s[:len(daLayout)]
	}
	if len(date) < 4 || len(date)%2 != 0 {
		return time.Time{}, invalidValue(DTVR, s)
	}
	date += "0101"[len(date)-4:]
	day, err := time.ParseInLocation(daLayout, date, loc)
	if err != nil {
		return time.Time{}, invalidValue(DTVR, s)
	}
	if len(s) <= len(daLayout) {
		return day, nil
	}
	d, err := parseTM(s[len(daLayout):])
	if err != nil {
		return time.Time{}, invalidValue(DTVR, s)
	}
	return day.Add(d), nil
}

func formatDA(t time.Time) string {
	return t.Format(daLayout)
}

func formatTM(t time.Time) string {
	return t.Format(tmLayout)
}

func formatDT(t time.Time) string {
	return t.Format(dtLayout) + formatTimezoneOffset(t)
}

func formatTimezoneOffset(t time.Time) string {
	return t.Format("-0700")
}
