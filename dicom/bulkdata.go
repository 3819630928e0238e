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
	"net/url"
	"os"
)

// BulkData refers to a value stored outside of the data set, Length bytes at Offset of the
// resource at URI. The bytes are in the byte order of TransferSyntaxUID. It stands in for an in
// memory value until the data set is written.
type BulkData struct {
	URI    string
	Offset int64
	Length int64

	TransferSyntaxUID string
}

func (*BulkData) isValue() {}

// IsEmpty is true if the referenced value has no bytes.
func (bd *BulkData) IsEmpty() bool {
	return bd.Length == 0
}

// BigEndian reports the byte order of the referenced bytes.
func (bd *BulkData) BigEndian() bool {
	return IsBigEndianTransferSyntax(bd.TransferSyntaxUID)
}

// CalcLength is the length of the value once padded to an even number of bytes.
func (bd *BulkData) CalcLength() int64 {
	return (bd.Length + 1) &^ 1
}

// path resolves the URI to a local file. Only file URIs and plain paths are supported.
func (bd *BulkData) path() (string, error) {
	u, err := url.Parse(bd.URI)
	if err != nil {
		return "", fmt.Errorf("parsing bulk data uri %q: %v", bd.URI, err)
	}
	switch u.Scheme {
	case "":
		return bd.URI, nil
	case "file":
		return u.Path, nil
	}
	return "", fmt.Errorf("unsupported bulk data uri scheme %q", u.Scheme)
}

func (bd *BulkData) open() (*os.File, error) {
	path, err := bd.path()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bulk data: %v", err)
	}
	if _, err := f.Seek(bd.Offset, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("seeking bulk data offset %d: %v", bd.Offset, err)
	}
	return f, nil
}

// Bytes reads the referenced value.
func (bd *BulkData) Bytes() ([]byte, error) {
	if bd.Length == 0 {
		return []byte{}, nil
	}
	f, err := bd.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b := make([]byte, bd.Length)
	if _, err := io.ReadFull(f, b); err != nil {
		return nil, fmt.Errorf("reading %d bytes of bulk data: %v", bd.Length, err)
	}
	return b, nil
}

// WriteTo copies the referenced value to w without padding.
func (bd *BulkData) WriteTo(w io.Writer) (int64, error) {
	if bd.Length == 0 {
		return 0, nil
	}
	f, err := bd.open()
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := io.CopyN(w, f, bd.Length)
	if err != nil {
		return n, fmt.Errorf("copying bulk data: %v", err)
	}
	return n, nil
}

func (bd *BulkData) String() string {
	return fmt.Sprintf("BulkData{%s@%d+%d}", bd.URI, bd.Offset, bd.Length)
}
