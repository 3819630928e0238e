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
	"fmt"
	"io"
)

// Writer writes data sets in one transfer syntax. Writers of the deflated syntax compress
// everything written until Close.
type Writer struct {
	dsw     *dataSetWriter
	deflate *flate.Writer
}

// NewWriter returns a Writer of transferSyntaxUID on w. Unknown syntaxes are written as explicit
// VR little endian.
func NewWriter(w io.Writer, transferSyntaxUID string, opts EncodeOptions) (*Writer, error) {
	syntax := lookupTransferSyntax(transferSyntaxUID)
	ret := &Writer{}
	if syntax.isDeflated() {
		fw, err := flate.NewWriter(w, flate.DefaultCompression)
		if err != nil {
			return nil, fmt.Errorf("creating deflate writer: %v", err)
		}
		ret.deflate = fw
		w = fw
	}
	ret.dsw = &dataSetWriter{&dcmWriter{w}, syntax, opts}
	return ret, nil
}

// WriteDataSet writes the data elements of a in ascending tag order. File meta elements (group
// 0002) are skipped, they belong to the file meta information.
func (w *Writer) WriteDataSet(a *Attributes) error {
	return w.dsw.writeDataSet(a)
}

// WriteElement writes the data element of a at tag. It is a no-op if a does not contain tag.
func (w *Writer) WriteElement(a *Attributes, tag DataElementTag) error {
	g := a.getGroup(tag.GroupNumber(), false)
	if g == nil {
		return nil
	}
	i, ok := g.indexOf(tag.ElementNumber())
	if !ok {
		return nil
	}
	if err := w.dsw.writeElement(a, g, i); err != nil {
		return fmt.Errorf("writing data element %v: %v", tag, err)
	}
	return nil
}

// Close flushes the compressed stream of deflated writers. It does not close the underlying
// io.Writer.
func (w *Writer) Close() error {
	if w.deflate == nil {
		return nil
	}
	return w.deflate.Close()
}

// WriteDataSet writes a to w in the given transfer syntax without preamble or file meta
// information, as the data set of a DIMSE message or of a file whose header is written
// separately.
func WriteDataSet(w io.Writer, a *Attributes, transferSyntaxUID string, opts EncodeOptions) error {
	dw, err := NewWriter(w, transferSyntaxUID, opts)
	if err != nil {
		return err
	}
	if err := dw.WriteDataSet(a); err != nil {
		dw.Close()
		return err
	}
	return dw.Close()
}
