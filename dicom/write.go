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
	"math"
)

// dataSetWriter encodes data sets in one transfer syntax.
type dataSetWriter struct {
	dw     *dcmWriter
	syntax transferSyntax
	opts   EncodeOptions
}

func (w *dataSetWriter) order() binary.ByteOrder {
	return w.syntax.byteOrder()
}

// valueBytes returns the unpadded bytes of an in memory value in the byte order of the syntax.
func (w *dataSetWriter) valueBytes(a *Attributes, g *group, i int) ([]byte, error) {
	vr := g.vrs[i]
	b, err := vr.toBytes(g.values[i], a.codec(g.number))
	if err != nil {
		return nil, err
	}
	if vr.IsBinary() && a.order(g.number) != w.order() {
		return vr.ToggleEndian(b)
	}
	return b, nil
}

func padded(n int64) int64 {
	return (n + 1) &^ 1
}

// calcLength returns the value length field of element i of g: the even length of the value,
// or UndefinedLength for encapsulated values and sequences written with undefined length.
func (w *dataSetWriter) calcLength(a *Attributes, g *group, i int) (uint32, error) {
	switch v := g.values[i].(type) {
	case *Sequence:
		return w.sequenceLength(v)
	case *Fragments:
		return UndefinedLength, nil
	case *BulkData:
		return uint32(v.CalcLength()), nil
	}
	b, err := w.valueBytes(a, g, i)
	if err != nil {
		return 0, err
	}
	return uint32(padded(int64(len(b)))), nil
}

func (w *dataSetWriter) sequenceLength(seq *Sequence) (uint32, error) {
	if w.opts.undefinedSequenceLength(seq.Len() == 0) {
		return UndefinedLength, nil
	}
	n, err := w.itemsLength(seq)
	if err != nil {
		return 0, err
	}
	if n >= math.MaxUint32 {
		return UndefinedLength, nil
	}
	return uint32(n), nil
}

// itemLength returns the item length field of item.
func (w *dataSetWriter) itemLength(item *Attributes) (uint32, error) {
	if w.opts.undefinedItemLength(item.IsEmpty()) {
		return UndefinedLength, nil
	}
	n, err := w.dataSetLength(item)
	if err != nil {
		return 0, err
	}
	if n >= math.MaxUint32 {
		return UndefinedLength, nil
	}
	return uint32(n), nil
}

// itemsLength is the number of bytes of the items of seq, item headers and delimiters included.
func (w *dataSetWriter) itemsLength(seq *Sequence) (int64, error) {
	var total int64
	for _, item := range seq.items {
		n, err := w.dataSetLength(item)
		if err != nil {
			return 0, err
		}
		total += tagSize + 4 + n
		if length, err := w.itemLength(item); err != nil {
			return 0, err
		} else if length == UndefinedLength {
			total += tagSize + 4
		}
	}
	return total, nil
}

// dataSetLength is the number of bytes of every data element of a, group lengths included.
func (w *dataSetWriter) dataSetLength(a *Attributes) (int64, error) {
	var total int64
	for _, g := range a.groups {
		if !w.writesGroup(g) {
			continue
		}
		n, err := w.groupLength(a, g)
		if err != nil {
			return 0, err
		}
		total += n
		if w.opts.GroupLength {
			total += int64(w.syntax.headerLength(ULVR)) + 4
		}
	}
	return total, nil
}

// groupLength is the number of bytes of the data elements of g, its group length excluded.
func (w *dataSetWriter) groupLength(a *Attributes, g *group) (int64, error) {
	var total int64
	for i, element := range g.elements {
		if element == 0 {
			continue
		}
		n, err := w.elementLength(a, g, i)
		if err != nil {
			return 0, fmt.Errorf("calculating length of %v: %v", g.tag(i), err)
		}
		total += n
	}
	return total, nil
}

// elementLength is the number of bytes element i of g occupies, delimiters included.
func (w *dataSetWriter) elementLength(a *Attributes, g *group, i int) (int64, error) {
	header := int64(w.syntax.headerLength(g.vrs[i]))
	switch v := g.values[i].(type) {
	case *Sequence:
		n, err := w.itemsLength(v)
		if err != nil {
			return 0, err
		}
		if length, err := w.sequenceLength(v); err != nil {
			return 0, err
		} else if length == UndefinedLength {
			n += tagSize + 4
		}
		return header + n, nil
	case *Fragments:
		n := header + tagSize + 4
		for j := range v.items {
			n += tagSize + 4 + padded(v.fragmentLength(j))
		}
		return n, nil
	}
	length, err := w.calcLength(a, g, i)
	if err != nil {
		return 0, err
	}
	return header + int64(length), nil
}

// writesGroup is false for groups without data elements to write. The file meta group is written
// separately, in its own transfer syntax.
func (w *dataSetWriter) writesGroup(g *group) bool {
	if g.number == FileMetaInformationGroupLengthTag.GroupNumber() {
		return false
	}
	for _, element := range g.elements {
		if element != 0 {
			return true
		}
	}
	return false
}

func (w *dataSetWriter) writeDataSet(a *Attributes) error {
	for _, g := range a.groups {
		if !w.writesGroup(g) {
			continue
		}
		if err := w.writeGroup(a, g); err != nil {
			return err
		}
	}
	return nil
}

func (w *dataSetWriter) writeGroup(a *Attributes, g *group) error {
	if w.opts.GroupLength {
		n, err := w.groupLength(a, g)
		if err != nil {
			return err
		}
		tag := NewDataElementTag(g.number, 0)
		if err := w.syntax.writeHeader(w.dw, tag, ULVR, 4); err != nil {
			return fmt.Errorf("writing %v: %v", tag, err)
		}
		if err := w.dw.UInt32(w.order(), uint32(n)); err != nil {
			return fmt.Errorf("writing %v: %v", tag, err)
		}
	}
	for i, element := range g.elements {
		if element == 0 {
			continue
		}
		if err := w.writeElement(a, g, i); err != nil {
			return fmt.Errorf("writing data element %v: %v", g.tag(i), err)
		}
	}
	return nil
}

func (w *dataSetWriter) writeElement(a *Attributes, g *group, i int) error {
	tag, vr := g.tag(i), g.vrs[i]
	switch v := g.values[i].(type) {
	case *Sequence:
		return w.writeSequence(tag, v)
	case *Fragments:
		return w.writeFragments(a, g, tag, v)
	case *BulkData:
		return w.writeBulkData(tag, vr, v)
	}
	b, err := w.valueBytes(a, g, i)
	if err != nil {
		return err
	}
	if err := w.syntax.writeHeader(w.dw, tag, vr, uint32(padded(int64(len(b))))); err != nil {
		return err
	}
	return w.dw.Padded(b, vr.PaddingByte())
}

func (w *dataSetWriter) writeSequence(tag DataElementTag, seq *Sequence) error {
	length, err := w.sequenceLength(seq)
	if err != nil {
		return err
	}
	if err := w.syntax.writeHeader(w.dw, tag, SQVR, length); err != nil {
		return err
	}
	for _, item := range seq.items {
		itemLength, err := w.itemLength(item)
		if err != nil {
			return err
		}
		if err := w.dw.Item(w.order(), ItemTag, itemLength); err != nil {
			return err
		}
		if err := w.writeDataSet(item); err != nil {
			return fmt.Errorf("writing sequence item: %v", err)
		}
		if itemLength == UndefinedLength {
			if err := w.dw.Delimiter(w.order(), ItemDelimitationItemTag); err != nil {
				return err
			}
		}
	}
	if length == UndefinedLength {
		return w.dw.Delimiter(w.order(), SequenceDelimitationItemTag)
	}
	return nil
}

// writeFragments writes the encapsulated format: undefined length, one item per fragment and a
// sequence delimitation item.
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4
func (w *dataSetWriter) writeFragments(a *Attributes, g *group, tag DataElementTag, frags *Fragments) error {
	if err := w.syntax.writeHeader(w.dw, tag, frags.vr, UndefinedLength); err != nil {
		return err
	}
	for j, item := range frags.items {
		if item.bulk != nil {
			if err := w.dw.Item(w.order(), ItemTag, uint32(item.bulk.CalcLength())); err != nil {
				return err
			}
			if err := w.writeBulkBytes(frags.vr, item.bulk); err != nil {
				return fmt.Errorf("writing fragment %d: %v", j, err)
			}
			continue
		}
		data := item.data
		if a.order(g.number) != w.order() {
			swapped, err := frags.vr.ToggleEndian(data)
			if err != nil {
				return err
			}
			data = swapped
		}
		if err := w.dw.Item(w.order(), ItemTag, uint32(padded(int64(len(data))))); err != nil {
			return err
		}
		if err := w.dw.Padded(data, 0); err != nil {
			return fmt.Errorf("writing fragment %d: %v", j, err)
		}
	}
	return w.dw.Delimiter(w.order(), SequenceDelimitationItemTag)
}

func (w *dataSetWriter) writeBulkData(tag DataElementTag, vr *VR, bd *BulkData) error {
	if err := w.syntax.writeHeader(w.dw, tag, vr, uint32(bd.CalcLength())); err != nil {
		return err
	}
	return w.writeBulkBytes(vr, bd)
}

// writeBulkBytes copies the referenced bytes, swapping them if they are in the other byte order.
func (w *dataSetWriter) writeBulkBytes(vr *VR, bd *BulkData) error {
	wireBigEndian := w.order() == binary.BigEndian
	if vr.IsBinary() && vr.UnitWidth() > 1 && bd.BigEndian() != wireBigEndian {
		b, err := bd.Bytes()
		if err != nil {
			return err
		}
		if b, err = vr.ToggleEndian(b); err != nil {
			return err
		}
		return w.dw.Padded(b, vr.PaddingByte())
	}
	if _, err := bd.WriteTo(w.dw); err != nil {
		return err
	}
	if bd.Length%2 != 0 {
		return w.dw.Bytes([]byte{vr.PaddingByte()})
	}
	return nil
}
