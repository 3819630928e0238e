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
	"testing"
	"time"
)

func TestParseDA(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "20110404", want: time.Date(2011, 4, 4, 0, 0, 0, 0, time.UTC)},
		{in: "2011.04.04", want: time.Date(2011, 4, 4, 0, 0, 0, 0, time.UTC)},
		{in: " 19991231 ", want: time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC)},
		{in: "201104", wantErr: true},
		{in: "20110231", wantErr: true},
		{in: "2011-04-04", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseDA(tc.in, time.UTC)
			if tc.wantErr {
				if !isErr(err, ErrInvalidValue) {
					t.Fatalf("parseDA(%q) => %v, want %v", tc.in, err, ErrInvalidValue)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDA(%q) => %v", tc.in, err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseTM(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "15", want: 15 * time.Hour},
		{in: "1530", want: 15*time.Hour + 30*time.Minute},
		{in: "153045", want: 15*time.Hour + 30*time.Minute + 45*time.Second},
		{in: "153045.1", want: 15*time.Hour + 30*time.Minute + 45*time.Second + 100*time.Millisecond},
		{in: "000000.000001", want: time.Microsecond},
		{in: "15:30:45", want: 15*time.Hour + 30*time.Minute + 45*time.Second},
		{in: "235960", want: 23*time.Hour + 59*time.Minute + 60*time.Second},
		{in: "", wantErr: true},
		{in: "153", wantErr: true},
		{in: "2400", wantErr: true},
		{in: "1560", wantErr: true},
		{in: "153045.1234567", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseTM(tc.in)
			if tc.wantErr {
				if !isErr(err, ErrInvalidValue) {
					t.Fatalf("parseTM(%q) => %v, want %v", tc.in, err, ErrInvalidValue)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTM(%q) => %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseDT(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	tests := []struct {
		in      string
		loc     *time.Location
		want    time.Time
		wantErr bool
	}{
		{in: "2011", loc: time.UTC, want: time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC)},
		{in: "201104", loc: time.UTC, want: time.Date(2011, 4, 1, 0, 0, 0, 0, time.UTC)},
		{in: "2011040415", loc: time.UTC, want: time.Date(2011, 4, 4, 15, 0, 0, 0, time.UTC)},
		{in: "20110404153045.5", loc: est, want: time.Date(2011, 4, 4, 20, 30, 45, 5e8, time.UTC)},
		{in: "20110404153045-0500", loc: time.UTC, want: time.Date(2011, 4, 4, 20, 30, 45, 0, time.UTC)},
		{in: "2011+0130", loc: time.UTC, want: time.Date(2010, 12, 31, 22, 30, 0, 0, time.UTC)},
		{in: "201", loc: time.UTC, wantErr: true},
		{in: "20110404+05", loc: time.UTC, wantErr: true},
		{in: "201104041", loc: time.UTC, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseDT(tc.in, tc.loc)
			if tc.wantErr {
				if !isErr(err, ErrInvalidValue) {
					t.Fatalf("parseDT(%q) => %v, want %v", tc.in, err, ErrInvalidValue)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDT(%q) => %v", tc.in, err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseTimezoneOffset(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "+0000", want: 0},
		{in: "-0500", want: -5 * 3600},
		{in: "+0530", want: 5*3600 + 30*60},
		{in: "0500", wantErr: true},
		{in: "+05", wantErr: true},
		{in: "+ab00", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			loc, err := parseTimezoneOffset(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseTimezoneOffset(%q) succeeded, want error", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTimezoneOffset(%q) => %v", tc.in, err)
			}
			if _, offset := time.Date(2011, 1, 1, 0, 0, 0, 0, loc).Zone(); offset != tc.want {
				t.Fatalf("got offset %d, want %d", offset, tc.want)
			}
		})
	}
}

func TestFormatDates(t *testing.T) {
	ts := time.Date(2011, 4, 4, 7, 9, 7, 70500000, time.FixedZone("", -5*3600))
	if got, want := formatDA(ts), "20110404"; got != want {
		t.Fatalf("formatDA: got %q, want %q", got, want)
	}
	if got, want := formatTM(ts), "070907.070500"; got != want {
		t.Fatalf("formatTM: got %q, want %q", got, want)
	}
	if got, want := formatDT(ts), "20110404070907.070500-0500"; got != want {
		t.Fatalf("formatDT: got %q, want %q", got, want)
	}
	parsed, err := parseDT(formatDT(ts), time.UTC)
	if err != nil {
		t.Fatalf("parseDT(formatDT(_)) => %v", err)
	}
	if !parsed.Equal(ts) {
		t.Fatalf("got %v, want %v", parsed, ts)
	}
}
