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
	"encoding/binary"
	"fmt"
	"io"
)

type dcmWriter struct {
	io.Writer
}

func (dw *dcmWriter) Tag(order binary.ByteOrder, tag DataElementTag) error {
	if err := dw.UInt16(order, tag.GroupNumber()); err != nil {
		return err
	}
	return dw.UInt16(order, tag.ElementNumber())
}

// Item writes an item or delimitation header: a tag followed by a 32-bit length.
func (dw *dcmWriter) Item(order binary.ByteOrder, tag DataElementTag, length uint32) error {
	if err := dw.Tag(order, tag); err != nil {
		return fmt.Errorf("writing %v tag: %v", tag, err)
	}
	if err := dw.UInt32(order, length); err != nil {
		return fmt.Errorf("writing %v length: %v", tag, err)
	}
	return nil
}

func (dw *dcmWriter) Delimiter(order binary.ByteOrder, tag DataElementTag) error {
	return dw.Item(order, tag, 0)
}

func (dw *dcmWriter) UInt16(order binary.ByteOrder, v uint16) error {
	buf := make([]byte, 2)
	order.PutUint16(buf, v)
	return dw.Bytes(buf)
}

func (dw *dcmWriter) UInt32(order binary.ByteOrder, v uint32) error {
	buf := make([]byte, 4)
	order.PutUint32(buf, v)
	return dw.Bytes(buf)
}

func (dw *dcmWriter) String(s string) error {
	_, err := io.WriteString(dw, s)
	return err
}

func (dw *dcmWriter) Bytes(b []byte) error {
	_, err := dw.Write(b)
	return err
}

// Padded writes b followed by padding if its length is odd.
func (dw *dcmWriter) Padded(b []byte, padding byte) error {
	if err := dw.Bytes(b); err != nil {
		return err
	}
	if len(b)%2 != 0 {
		return dw.Bytes([]byte{padding})
	}
	return nil
}
