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
	"compress/flate"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// ReadFile reads a DICOM file: the preamble, the signature, the file meta information and the
// data set in the transfer syntax the file meta information names.
//
// With WithBulkData, bulk data offsets count from the first byte of r, so uri must name the
// same file.
func ReadFile(r io.Reader, opts ...ReadOption) (fmi, ds *Attributes, err error) {
	cfg := newReadConfig(opts)
	dr := newDcmReader(r)
	if err := readDicomSignature(dr); err != nil {
		return nil, nil, err
	}

	fmi, err = readFileMetaInformation(dr, cfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading file meta information")
	}
	syntaxUID, err := fmi.GetString(TransferSyntaxUIDTag)
	if err != nil {
		return nil, nil, fmt.Errorf("getting transfer syntax: %v", err)
	}
	if syntaxUID == "" {
		return nil, nil, invalidStream("transfer syntax not found")
	}

	ds, err = readDataSet(dr, syntaxUID, cfg)
	if err != nil {
		return nil, nil, err
	}
	return fmi, ds, nil
}

// ReadDataSet reads a data set without preamble or file meta information encoded in
// transferSyntaxUID until the end of r.
func ReadDataSet(r io.Reader, transferSyntaxUID string, opts ...ReadOption) (*Attributes, error) {
	return readDataSet(newDcmReader(r), transferSyntaxUID, newReadConfig(opts))
}

func readDataSet(dr *dcmReader, syntaxUID string, cfg *readConfig) (*Attributes, error) {
	syntax := lookupTransferSyntax(syntaxUID)
	if syntax.isDeflated() {
		dr = newDcmReader(flate.NewReader(dr.cr))
	}

	ds := NewAttributes()
	if err := ds.SetBigEndian(syntax.byteOrder() == binary.BigEndian); err != nil {
		return nil, err
	}
	r := &dataSetReader{dr, syntax, syntaxUID, cfg}
	if err := r.readDataSet(ds); err != nil {
		return nil, errors.Wrap(err, "reading data set")
	}
	return ds, nil
}

func readDicomSignature(r *dcmReader) error {
	if err := r.Skip(preambleLength); err != nil {
		return invalidStream("skipping preamble: %v", err)
	}

	magic, err := r.String(4)
	if err != nil {
		return invalidStream("reading DICOM signature: %v", err)
	}

	if magic != dicomSignature {
		return invalidStream("wrong DICOM signature: %q", magic)
	}

	return nil
}

// readFileMetaInformation reads the group length element of the file meta information and then
// the number of bytes it states, always in explicit VR little endian.
func readFileMetaInformation(dr *dcmReader, cfg *readConfig) (*Attributes, error) {
	fmi := NewAttributes()
	r := &dataSetReader{dr, explicitVRLittleEndian, ExplicitVRLittleEndianUID, &readConfig{vrLookup: cfg.vrLookup}}
	if _, err := r.readElement(fmi); err != nil {
		if err == io.EOF {
			return nil, invalidStream("missing file meta information group length")
		}
		return nil, errors.Wrap(err, "reading FileMetaInformationGroupLength element")
	}
	length, err := fmi.GetInt(FileMetaInformationGroupLengthTag, -1)
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, invalidStream("expected %v first in file meta information", FileMetaInformationGroupLengthTag)
	}

	if err := r.with(dr.Limit(int64(length))).readDataSet(fmi); err != nil {
		return nil, errors.Wrap(err, "reading the file meta elements")
	}
	if cfg.dropGroupLengths {
		fmi.Remove(FileMetaInformationGroupLengthTag)
	}
	return fmi, nil
}
