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
	"compress/flate"
	"io"
	"strings"
	"testing"
)

// testDataSet holds a value of every kind the codec handles, in the given byte order.
func testDataSet(t *testing.T, bigEndian bool) *Attributes {
	t.Helper()
	a := NewAttributes()
	if err := a.SetBigEndian(bigEndian); err != nil {
		t.Fatalf("SetBigEndian(%v) => %v", bigEndian, err)
	}
	puts := []error{
		a.PutStrings(SpecificCharacterSetTag, CSVR, "ISO_IR 100"),
		a.PutStrings(SOPClassUIDTag, UIVR, "1.2.840.10008.5.1.4.1.1.7"),
		a.PutStrings(SOPInstanceUIDTag, UIVR, "1.2.3.4"),
		a.PutStrings(StudyDateTag, DAVR, "20110404"),
		a.PutNull(ReferencedImageSequenceTag, SQVR),
		a.PutStrings(PatientNameTag, PNVR, "Jérôme"),
		a.PutDoubles(PatientWeightTag, DSVR, 70.5),
		a.PutStrings(ImagePositionPatientTag, DSVR, "-1", "2.5", "3"),
		a.PutInts(RowsTag, USVR, 512),
		a.PutInts(ColumnsTag, USVR, 256),
	}
	for i, err := range puts {
		if err != nil {
			t.Fatalf("put %d => %v", i, err)
		}
	}
	seq, _ := a.NewSequence(ReferencedStudySequenceTag)
	if err := seq.NewItem().PutStrings(ReferencedSOPInstanceUIDTag, UIVR, "1.2.3"); err != nil {
		t.Fatalf("PutStrings(_, _, _) => %v", err)
	}
	seq.NewItem()

	frags, _ := a.NewFragments(PixelDataTag, OWVR)
	frags.Add(nil)
	frags.Add([]byte{1, 2, 3, 4})
	return a
}

func TestReadDataSet_RoundTrip(t *testing.T) {
	syntaxes := []struct {
		name      string
		uid       string
		bigEndian bool
	}{
		{"explicit little endian", ExplicitVRLittleEndianUID, false},
		{"implicit little endian", ImplicitVRLittleEndianUID, false},
		{"explicit big endian", ExplicitVRBigEndianUID, true},
		{"deflated", DeflatedExplicitVRLittleEndianUID, false},
	}
	options := []struct {
		name string
		opts EncodeOptions
	}{
		{"default", DefaultEncodeOptions},
		{"explicit lengths", ExplicitLengths},
		{"undefined lengths", UndefinedLengths},
	}
	for _, s := range syntaxes {
		for _, o := range options {
			t.Run(s.name+"/"+o.name, func(t *testing.T) {
				want := testDataSet(t, s.bigEndian)
				b := writeBytes(t, want, s.uid, o.opts)
				got, err := ReadDataSet(bytes.NewReader(b), s.uid)
				if err != nil {
					t.Fatalf("ReadDataSet(_, _) => %v", err)
				}
				if got.BigEndian() != s.bigEndian {
					t.Fatalf("BigEndian() = %v, want %v", got.BigEndian(), s.bigEndian)
				}
				if !got.Equal(want) {
					t.Fatalf("got\n%v\nwant\n%v", got, want)
				}
				if name, _ := got.GetString(PatientNameTag); name != "Jérôme" {
					t.Fatalf("got %q, want Jérôme", name)
				}
			})
		}
	}
}

func TestReadDataSet_GroupLengths(t *testing.T) {
	a := referencedStudySequence(t, "1.2.3")
	b := writeBytes(t, a, ExplicitVRLittleEndianUID, EncodeOptions{GroupLength: true})

	got, err := ReadDataSet(bytes.NewReader(b), ExplicitVRLittleEndianUID)
	if err != nil {
		t.Fatalf("ReadDataSet(_, _) => %v", err)
	}
	if n, _ := got.GetInt(NewDataElementTag(0x0008, 0), -1); n != 0x2e {
		t.Fatalf("group length = %d, want %d", n, 0x2e)
	}

	got, err = ReadDataSet(bytes.NewReader(b), ExplicitVRLittleEndianUID, DropGroupLengths)
	if err != nil {
		t.Fatalf("ReadDataSet(_, _, DropGroupLengths) => %v", err)
	}
	if got.Contains(NewDataElementTag(0x0008, 0)) {
		t.Fatalf("group length kept with DropGroupLengths")
	}
	seq, _ := got.GetSequence(ReferencedStudySequenceTag)
	item, err := seq.Get(0)
	if err != nil {
		t.Fatalf("Get(0) => %v", err)
	}
	if item.Contains(NewDataElementTag(0x0008, 0)) {
		t.Fatalf("item group length kept with DropGroupLengths")
	}
	if !got.Equal(a) {
		t.Fatalf("got %v, want %v", got, a)
	}
}

func TestReadDataSet_UndefinedLengthUN(t *testing.T) {
	item := "\xfe\xff\x00\xe0\xff\xff\xff\xff" +
		"\x08\x00\x55\x11\x06\x00\x00\x001.2.3\x00" +
		"\xfe\xff\x0d\xe0\x00\x00\x00\x00" +
		"\xfe\xff\xdd\xe0\x00\x00\x00\x00"
	tests := []struct {
		name string
		uid  string
		in   string
	}{
		{"little endian", ExplicitVRLittleEndianUID, "\x08\x00\x10\x11UN\x00\x00\xff\xff\xff\xff" + item},
		{"big endian", ExplicitVRBigEndianUID, "\x00\x08\x11\x10UN\x00\x00\xff\xff\xff\xff" + item},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, err := ReadDataSet(strings.NewReader(tc.in), tc.uid)
			if err != nil {
				t.Fatalf("ReadDataSet(_, _) => %v", err)
			}
			seq, err := a.GetSequence(ReferencedStudySequenceTag)
			if err != nil || seq == nil || seq.Len() != 1 {
				t.Fatalf("GetSequence(_) = (%v, %v), want a sequence of 1 item", seq, err)
			}
			item, _ := seq.Get(0)
			if item.BigEndian() {
				t.Fatalf("item of UN sequence should be little endian")
			}
			if uid, _ := item.GetString(ReferencedSOPInstanceUIDTag); uid != "1.2.3" {
				t.Fatalf("got %q, want 1.2.3", uid)
			}
			if vr := item.VR(ReferencedSOPInstanceUIDTag); vr != UIVR {
				t.Fatalf("got %v, want UI", vr)
			}
		})
	}
}

func TestReadDataSet_UnknownVR(t *testing.T) {
	in := "\x10\x00\x20\x00ZZ\x00\x00\x04\x00\x00\x00abcd"
	a, err := ReadDataSet(strings.NewReader(in), ExplicitVRLittleEndianUID)
	if err != nil {
		t.Fatalf("ReadDataSet(_, _) => %v", err)
	}
	if vr := a.VR(PatientIDTag); vr != UNVR {
		t.Fatalf("got %v, want UN", vr)
	}
	if b, _ := a.GetBytes(PatientIDTag); string(b) != "abcd" {
		t.Fatalf("got %q, want abcd", b)
	}
}

func TestReadDataSet_MismatchedLengthKeptAsUN(t *testing.T) {
	in := "\x28\x00\x10\x00US\x03\x00\x01\x02\x03" + "\x28\x00\x11\x00US\x02\x00\x00\x01"
	a, err := ReadDataSet(strings.NewReader(in), ExplicitVRLittleEndianUID)
	if err != nil {
		t.Fatalf("ReadDataSet(_, _) => %v", err)
	}
	if vr := a.VR(RowsTag); vr != UNVR {
		t.Fatalf("got %v, want UN", vr)
	}
	if n, _ := a.GetInt(ColumnsTag, 0); n != 256 {
		t.Fatalf("got %d, want 256", n)
	}
}

func TestReadDataSet_ImplicitVRLookup(t *testing.T) {
	in := "\x09\x00\x10\x00\x08\x00\x00\x00CREATOR1" + "\x09\x00\x10\x10\x02\x00\x00\x00\x07\x00"
	lookup := func(tag DataElementTag, creator string) *VR {
		if creator == "CREATOR1" && tag.ElementNumber()&0xFF == 0x10 {
			return USVR
		}
		return DefaultVRLookup(tag, creator)
	}

	a, err := ReadDataSet(strings.NewReader(in), ImplicitVRLittleEndianUID)
	if err != nil {
		t.Fatalf("ReadDataSet(_, _) => %v", err)
	}
	if vr := a.Private("CREATOR1").VR(privateTag); vr != UNVR {
		t.Fatalf("got %v, want UN", vr)
	}

	a, err = ReadDataSet(strings.NewReader(in), ImplicitVRLittleEndianUID, WithVRLookup(lookup))
	if err != nil {
		t.Fatalf("ReadDataSet(_, _, _) => %v", err)
	}
	if n, _ := a.Private("CREATOR1").GetInt(privateTag, 0); n != 7 {
		t.Fatalf("got %d, want 7", n)
	}
}

func TestReadDataSet_InvalidStream(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"truncated value", "\x10\x00\x20\x00LO\x08\x00abc"},
		{"truncated header", "\x10\x00\x20\x00L"},
		{"truncated tag", "\x10\x00\x20"},
		{"undefined length text", "\x10\x00\x20\x00UT\x00\x00\xff\xff\xff\xff"},
		{"missing sequence delimiter", "\x08\x00\x10\x11SQ\x00\x00\xff\xff\xff\xff"},
		{"foreign tag in sequence", "\x08\x00\x10\x11SQ\x00\x00\xff\xff\xff\xff\x10\x00\x20\x00\x00\x00\x00\x00"},
		{"bad item delimiter length", "\xfe\xff\x0d\xe0\x04\x00\x00\x00"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadDataSet(strings.NewReader(tc.in), ExplicitVRLittleEndianUID)
			if !isErr(err, ErrInvalidStream) {
				t.Fatalf("got %v, want %v", err, ErrInvalidStream)
			}
		})
	}
}

func TestReadDataSet_Deflated(t *testing.T) {
	a := testDataSet(t, false)
	deflated := writeBytes(t, a, DeflatedExplicitVRLittleEndianUID, DefaultEncodeOptions)
	plain := writeBytes(t, a, ExplicitVRLittleEndianUID, DefaultEncodeOptions)

	inflated, err := io.ReadAll(flate.NewReader(bytes.NewReader(deflated)))
	if err != nil {
		t.Fatalf("inflating => %v", err)
	}
	if !bytes.Equal(inflated, plain) {
		t.Fatalf("inflated data set differs from explicit VR little endian")
	}
}
