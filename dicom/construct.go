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
	"io"
)

const (
	preambleLength = 128
	dicomSignature = "DICM"
)

// WriteFile writes a DICOM file to w: the preamble, the signature, the file meta information of
// fmi and the data set ds in the transfer syntax named by fmi's Transfer Syntax UID (0002,0010).
// If fmi is nil, it is created from ds with NewFileMetaInformation in explicit VR little endian,
// or explicit VR big endian for big endian data sets.
//
// The File Meta Information Group Length (0002,0000) is always calculated. Other group lengths
// are written according to opts.
// http://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7.1
func WriteFile(w io.Writer, fmi, ds *Attributes, opts EncodeOptions) error {
	if fmi == nil {
		uid := ExplicitVRLittleEndianUID
		if ds.BigEndian() {
			uid = ExplicitVRBigEndianUID
		}
		var err error
		if fmi, err = NewFileMetaInformation(ds, uid); err != nil {
			return fmt.Errorf("creating file meta information: %v", err)
		}
	}

	syntaxUID, err := fmi.GetString(TransferSyntaxUIDTag)
	if err != nil {
		return fmt.Errorf("getting transfer syntax: %v", err)
	}
	if syntaxUID == "" {
		return fmt.Errorf("transfer syntax element is missing from file meta information")
	}

	dw := &dcmWriter{w}
	if err := writeDicomSignature(dw); err != nil {
		return err
	}
	if err := writeFileMetaInformation(dw, fmi); err != nil {
		return fmt.Errorf("writing file meta information: %v", err)
	}

	dsw, err := NewWriter(w, syntaxUID, opts)
	if err != nil {
		return err
	}
	if err := dsw.WriteDataSet(ds); err != nil {
		dsw.Close()
		return fmt.Errorf("writing data set: %v", err)
	}
	return dsw.Close()
}

func writeDicomSignature(dw *dcmWriter) error {
	if err := dw.Bytes(make([]byte, preambleLength)); err != nil {
		return fmt.Errorf("writing DICOM preamble: %v", err)
	}

	if err := dw.String(dicomSignature); err != nil {
		return fmt.Errorf("writing DICOM signature: %v", err)
	}

	return nil
}

// writeFileMetaInformation writes group 0002 of fmi in explicit VR little endian, preceded by
// its recalculated group length. Other groups of fmi are ignored.
func writeFileMetaInformation(dw *dcmWriter, fmi *Attributes) error {
	g := fmi.getGroup(FileMetaInformationGroupLengthTag.GroupNumber(), false)
	if g == nil {
		return fmt.Errorf("file meta information is empty")
	}
	// Meta elements are always written in the Explicit VR Little Endian syntax in ascending order.
	w := &dataSetWriter{dw, explicitVRLittleEndian, ExplicitLengths}

	length, err := w.groupLength(fmi, g)
	if err != nil {
		return fmt.Errorf("calculating meta group length: %v", err)
	}
	if err := w.syntax.writeHeader(dw, FileMetaInformationGroupLengthTag, ULVR, 4); err != nil {
		return err
	}
	if err := dw.UInt32(w.order(), uint32(length)); err != nil {
		return err
	}
	for i, element := range g.elements {
		if element == 0 {
			continue
		}
		if err := w.writeElement(fmi, g, i); err != nil {
			return fmt.Errorf("writing data element %v: %v", g.tag(i), err)
		}
	}
	return nil
}
