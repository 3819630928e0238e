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
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, b []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bulk.dcm")
	if err := os.WriteFile(path, b, 0o600); err != nil {
		t.Fatalf("os.WriteFile(_, _, _) => %v", err)
	}
	return path
}

func TestBulkData_Bytes(t *testing.T) {
	path := writeTempFile(t, []byte("0123456789"))
	tests := []struct {
		name string
		bd   BulkData
		want string
	}{
		{"plain path", BulkData{URI: path, Offset: 2, Length: 3}, "234"},
		{"file uri", BulkData{URI: "file://" + path, Offset: 0, Length: 4}, "0123"},
		{"empty", BulkData{URI: path, Offset: 9, Length: 0}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := tc.bd.Bytes()
			if err != nil {
				t.Fatalf("Bytes() => %v", err)
			}
			if string(b) != tc.want {
				t.Fatalf("got %q, want %q", b, tc.want)
			}
			var buf bytes.Buffer
			n, err := tc.bd.WriteTo(&buf)
			if err != nil {
				t.Fatalf("WriteTo(_) => %v", err)
			}
			if n != int64(len(tc.want)) || buf.String() != tc.want {
				t.Fatalf("WriteTo(_) wrote %q (%d bytes), want %q", buf.String(), n, tc.want)
			}
		})
	}

	if _, err := (&BulkData{URI: "http://example.com/x", Length: 1}).Bytes(); err == nil {
		t.Fatalf("Bytes() of an http uri succeeded, want error")
	}
	if _, err := (&BulkData{URI: path, Offset: 8, Length: 4}).Bytes(); err == nil {
		t.Fatalf("Bytes() past the end of the file succeeded, want error")
	}
	if got := (&BulkData{Length: 5}).CalcLength(); got != 6 {
		t.Fatalf("CalcLength() = %d, want 6", got)
	}
}

func TestReadFile_WithBulkData(t *testing.T) {
	ds := testDataSet(t, false)
	ds.Remove(PixelDataTag)
	ds.PutBytes(PixelDataTag, OWVR, []byte{1, 2, 3, 4})

	var buf bytes.Buffer
	if err := WriteFile(&buf, nil, ds, DefaultEncodeOptions); err != nil {
		t.Fatalf("WriteFile(_, nil, _, _) => %v", err)
	}
	path := writeTempFile(t, buf.Bytes())

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("os.Open(_) => %v", err)
	}
	defer f.Close()
	_, got, err := ReadFile(f, WithBulkData(path, DefaultBulkDataDefinition))
	if err != nil {
		t.Fatalf("ReadFile(_, _) => %v", err)
	}

	bd, err := got.GetBulkData(PixelDataTag)
	if err != nil || bd == nil {
		t.Fatalf("GetBulkData(_) = (%v, %v), want a reference", bd, err)
	}
	if bd.URI != path || bd.Length != 4 || bd.TransferSyntaxUID != ExplicitVRLittleEndianUID {
		t.Fatalf("got %v", bd)
	}
	// pixel data is the last element of the file
	if want := int64(buf.Len() - 4); bd.Offset != want {
		t.Fatalf("got offset %d, want %d", bd.Offset, want)
	}
	if b, _ := got.GetBytes(PixelDataTag); !bytes.Equal(b, []byte{1, 2, 3, 4}) {
		t.Fatalf("got %v, want [1 2 3 4]", b)
	}
	if bd, _ := got.GetBulkData(RowsTag); bd != nil {
		t.Fatalf("Rows referenced as %v", bd)
	}

	t.Run("written in the other byte order", func(t *testing.T) {
		out := writeBytes(t, got, ExplicitVRBigEndianUID, DefaultEncodeOptions)
		want := "\x7f\xe0\x00\x10OW\x00\x00\x00\x00\x00\x04\x02\x01\x04\x03"
		if !bytes.HasSuffix(out, []byte(want)) {
			t.Fatalf("got %q, want suffix %q", out, want)
		}
	})

	t.Run("written in the same byte order", func(t *testing.T) {
		out := writeBytes(t, got, ExplicitVRLittleEndianUID, DefaultEncodeOptions)
		want := "\xe0\x7f\x10\x00OW\x00\x00\x04\x00\x00\x00\x01\x02\x03\x04"
		if !bytes.HasSuffix(out, []byte(want)) {
			t.Fatalf("got %q, want suffix %q", out, want)
		}
	})
}

func TestReadFile_WithBulkDataFragments(t *testing.T) {
	ds := testDataSet(t, false)
	var buf bytes.Buffer
	if err := WriteFile(&buf, nil, ds, DefaultEncodeOptions); err != nil {
		t.Fatalf("WriteFile(_, nil, _, _) => %v", err)
	}
	path := writeTempFile(t, buf.Bytes())

	_, got, err := ReadFile(bytes.NewReader(buf.Bytes()), WithBulkData(path, DefaultBulkDataDefinition))
	if err != nil {
		t.Fatalf("ReadFile(_, _) => %v", err)
	}
	frags, err := got.GetFragments(PixelDataTag)
	if err != nil || frags == nil || frags.Len() != 2 {
		t.Fatalf("GetFragments(_) = (%v, %v), want 2 fragments", frags, err)
	}
	// the empty offset table stays in memory
	if bd, _ := frags.GetBulkData(0); bd != nil {
		t.Fatalf("empty fragment referenced as %v", bd)
	}
	bd, _ := frags.GetBulkData(1)
	if bd == nil || bd.Length != 4 {
		t.Fatalf("got %v, want a reference of 4 bytes", bd)
	}
	if b, _ := frags.Get(1); !bytes.Equal(b, []byte{1, 2, 3, 4}) {
		t.Fatalf("got %v, want [1 2 3 4]", b)
	}
}
