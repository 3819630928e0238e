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
)

type arithmeticSeq struct {
	start uint32
	end   uint32
	inc   uint32
}

func TestIsBulkData(t *testing.T) {
	tests := []struct {
		name string
		in   arithmeticSeq
		want bool
	}{
		{
			"Curve Data (50xx,3000) is bulk data",
			arithmeticSeq{0x50003000, uint32(CurveDataTag) | 0x00FF0000, 0x00010000},
			true,
		},
		{
			"Overlay Data (60xx,3000) is bulk data",
			arithmeticSeq{0x60003000, 0x60FF3000, 0x00010000},
			true,
		},
		{
			"Pixel data is bulk data (7FE0,0010) is bulk data",
			arithmeticSeq{uint32(PixelDataTag), uint32(PixelDataTag), 1},
			true,
		},
		{
			"Source Image IDs (0x0020,31xx) is not bulk data",
			arithmeticSeq{0x00203100, 0x002031FF, 1},
			false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for tag := tc.in.start; tag <= tc.in.end; tag += tc.in.inc {
				got := DefaultBulkDataDefinition(DataElementTag(tag), OBVR)
				if got != tc.want {
					t.Fatalf("DefaultBulkDataDefinition(0x%08X, _) => %v, want %v", tag, got, tc.want)
				}
			}
		})
	}
}

func TestNewReadConfig(t *testing.T) {
	cfg := newReadConfig(nil)
	if cfg.isBulkData != nil || cfg.dropGroupLengths {
		t.Fatalf("default config references bulk data or drops group lengths")
	}
	if vr := cfg.vrLookup(PatientNameTag, ""); vr != PNVR {
		t.Fatalf("default lookup of %v => %v, want PN", PatientNameTag, vr)
	}

	cfg = newReadConfig([]ReadOption{WithVRLookup(nil), DropGroupLengths, WithBulkData("x.dcm", DefaultBulkDataDefinition)})
	if cfg.vrLookup == nil {
		t.Fatalf("WithVRLookup(nil) removed the lookup")
	}
	if !cfg.dropGroupLengths || cfg.isBulkData == nil || cfg.bulkDataURI != "x.dcm" {
		t.Fatalf("options not applied: %+v", cfg)
	}
}
