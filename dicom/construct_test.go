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
	"strings"
	"testing"
)

func TestWriteFile_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		bigEndian bool
		wantUID   string
	}{
		{"little endian", false, ExplicitVRLittleEndianUID},
		{"big endian", true, ExplicitVRBigEndianUID},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ds := testDataSet(t, tc.bigEndian)
			var buf bytes.Buffer
			if err := WriteFile(&buf, nil, ds, DefaultEncodeOptions); err != nil {
				t.Fatalf("WriteFile(_, nil, _, _) => %v", err)
			}
			b := buf.Bytes()
			if !bytes.Equal(b[:preambleLength], make([]byte, preambleLength)) {
				t.Fatalf("preamble is not zeroed")
			}
			if got := string(b[preambleLength : preambleLength+4]); got != dicomSignature {
				t.Fatalf("got signature %q, want %q", got, dicomSignature)
			}

			fmi, got, err := ReadFile(bytes.NewReader(b))
			if err != nil {
				t.Fatalf("ReadFile(_) => %v", err)
			}
			if uid, _ := fmi.GetString(TransferSyntaxUIDTag); uid != tc.wantUID {
				t.Fatalf("got transfer syntax %q, want %q", uid, tc.wantUID)
			}
			if !got.Equal(ds) {
				t.Fatalf("got\n%v\nwant\n%v", got, ds)
			}

			checks := []struct {
				tag  DataElementTag
				want string
			}{
				{MediaStorageSOPClassUIDTag, "1.2.840.10008.5.1.4.1.1.7"},
				{MediaStorageSOPInstanceUIDTag, "1.2.3.4"},
				{ImplementationClassUIDTag, ImplementationClassUID},
				{ImplementationVersionNameTag, ImplementationVersionName},
			}
			for _, c := range checks {
				if s, _ := fmi.GetString(c.tag); s != c.want {
					t.Fatalf("%v: got %q, want %q", c.tag, s, c.want)
				}
			}
			if v, _ := fmi.GetBytes(FileMetaInformationVersionTag); !bytes.Equal(v, []byte{0, 1}) {
				t.Fatalf("got version %v, want [0 1]", v)
			}

			body := writeBytes(t, ds, tc.wantUID, DefaultEncodeOptions)
			metaLength := len(b) - preambleLength - 4 - 12 - len(body)
			if n, _ := fmi.GetInt(FileMetaInformationGroupLengthTag, -1); n != metaLength {
				t.Fatalf("got group length %d, want %d", n, metaLength)
			}
		})
	}
}

func TestWriteFile_FileMetaInformation(t *testing.T) {
	ds := testDataSet(t, false)
	fmi, err := NewFileMetaInformation(ds, ImplicitVRLittleEndianUID)
	if err != nil {
		t.Fatalf("NewFileMetaInformation(_, _) => %v", err)
	}
	// a stale group length and a data set element in fmi are not written
	fmi.PutInts(FileMetaInformationGroupLengthTag, ULVR, 1)
	fmi.PutStrings(PatientIDTag, LOVR, "ignored")
	// file meta elements held by ds are not written to the data set
	ds.PutStrings(TransferSyntaxUIDTag, UIVR, ExplicitVRBigEndianUID)

	var buf bytes.Buffer
	if err := WriteFile(&buf, fmi, ds, DefaultEncodeOptions); err != nil {
		t.Fatalf("WriteFile(_, _, _, _) => %v", err)
	}
	gotFMI, got, err := ReadFile(bytes.NewReader(buf.Bytes()), DropGroupLengths)
	if err != nil {
		t.Fatalf("ReadFile(_) => %v", err)
	}
	if gotFMI.Contains(FileMetaInformationGroupLengthTag) {
		t.Fatalf("group length kept with DropGroupLengths")
	}
	if gotFMI.Contains(PatientIDTag) {
		t.Fatalf("data set element of fmi was written")
	}
	if got.Contains(TransferSyntaxUIDTag) || got.Contains(PatientIDTag) {
		t.Fatalf("unexpected elements in data set %v", got)
	}
	if uid, _ := gotFMI.GetString(TransferSyntaxUIDTag); uid != ImplicitVRLittleEndianUID {
		t.Fatalf("got %q, want %q", uid, ImplicitVRLittleEndianUID)
	}
	ds.Remove(TransferSyntaxUIDTag)
	if !got.Equal(ds) {
		t.Fatalf("got\n%v\nwant\n%v", got, ds)
	}
}

func TestNewFileMetaInformation_MissingUIDs(t *testing.T) {
	ds := NewAttributes()
	if _, err := NewFileMetaInformation(ds, ExplicitVRLittleEndianUID); err == nil {
		t.Fatalf("NewFileMetaInformation without SOP Class UID succeeded")
	}
	ds.PutStrings(SOPClassUIDTag, UIVR, "1.2.3")
	if _, err := NewFileMetaInformation(ds, ExplicitVRLittleEndianUID); err == nil {
		t.Fatalf("NewFileMetaInformation without SOP Instance UID succeeded")
	}
	var buf bytes.Buffer
	if err := WriteFile(&buf, nil, ds, DefaultEncodeOptions); err == nil {
		t.Fatalf("WriteFile without SOP Instance UID succeeded")
	}
}

func TestReadFile_Invalid(t *testing.T) {
	preamble := strings.Repeat("\x00", preambleLength)
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"short preamble", preamble[:10]},
		{"wrong signature", preamble + "DICN"},
		{"no file meta information", preamble + "DICM"},
		{"no group length", preamble + "DICM" + "\x02\x00\x10\x00UI\x02\x001\x00"},
		{"no transfer syntax", preamble + "DICM" + "\x02\x00\x00\x00UL\x04\x00\x00\x00\x00\x00"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := ReadFile(strings.NewReader(tc.in)); !isErr(err, ErrInvalidStream) {
				t.Fatalf("got %v, want %v", err, ErrInvalidStream)
			}
		})
	}
}
