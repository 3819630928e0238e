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
	"io"

	"github.com/GoogleCloudPlatform/go-dicom-attributes/internal/log"
	"github.com/pkg/errors"
)

// dataSetReader decodes data elements of one transfer syntax into Attributes.
type dataSetReader struct {
	dr        *dcmReader
	syntax    transferSyntax
	syntaxUID string
	cfg       *readConfig
}

func (r *dataSetReader) with(dr *dcmReader) *dataSetReader {
	return &dataSetReader{dr, r.syntax, r.syntaxUID, r.cfg}
}

// readDataSet reads data elements into a until the end of the input or an item delimitation
// item.
func (r *dataSetReader) readDataSet(a *Attributes) error {
	for {
		done, err := r.readElement(a)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// readElement reads one data element into a. It returns true when it reads the delimiter of an
// item with undefined length, and io.EOF when the input ends before a tag.
func (r *dataSetReader) readElement(a *Attributes) (bool, error) {
	order := r.syntax.byteOrder()
	tag, err := r.dr.Tag(order)
	if err == io.EOF {
		return false, io.EOF
	}
	if err != nil {
		return false, invalidStream("reading tag: %v", err)
	}

	if tag == ItemDelimitationItemTag {
		// handles the case when we are parsing a nested data set within a sequence with undefined
		// length. This code should never run for the top level data set
		length, err := r.dr.UInt32(order)
		if err != nil {
			return false, invalidStream("reading 32 bit length of item delimitation: %v", err)
		}
		if length != 0 {
			return false, invalidStream("wrong length for item delimiter. got %v, want %v", length, 0)
		}
		return true, nil
	}

	vr, err := r.syntax.readVR(r.dr)
	if err != nil {
		return false, invalidStream("%v: %v", tag, err)
	}
	if vr == nil {
		vr = r.cfg.vrLookup(tag, a.PrivateCreatorOf(tag))
	}

	length, err := r.syntax.readValueLength(r.dr, vr)
	if err != nil {
		return false, invalidStream("%v: getting length: %v", tag, err)
	}

	if err := r.readValue(a, tag, vr, length); err != nil {
		return false, err
	}
	return false, nil
}

func (r *dataSetReader) readValue(a *Attributes, tag DataElementTag, vr *VR, length uint32) error {
	switch {
	case vr == SQVR:
		return r.readSequence(a, tag, length)
	case vr == UNVR && length == UndefinedLength:
		// UN with undefined length is a sequence in implicit VR little endian
		// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2.2
		ir := &dataSetReader{r.dr, implicitVRLittleEndian, r.syntaxUID, r.cfg}
		return ir.readSequence(a, tag, length)
	case length == UndefinedLength:
		if !vr.IsBinary() {
			return invalidStream("%v: undefined length of %s value", tag, vr.Name)
		}
		return r.readFragments(a, tag, vr)
	}

	if r.cfg.dropGroupLengths && tag.IsGroupLength() {
		return r.dr.Skip(int64(length))
	}
	if length%2 != 0 {
		log.Debug("odd value length", map[string]interface{}{
			log.KeyTag:    tag.String(),
			log.KeyLength: length,
		})
	}

	if r.referencesBulkData(tag, vr, length) {
		bd := r.bulkData(length)
		if err := r.dr.Skip(int64(length)); err != nil {
			return invalidStream("%v: skipping bulk data: %v", tag, err)
		}
		return a.PutBulkData(tag, vr, bd)
	}

	b, err := r.dr.Bytes(int64(length))
	if err != nil {
		return invalidStream("%v: reading %d bytes: %v", tag, length, err)
	}
	if err := a.PutBytes(tag, vr, b); err != nil {
		log.Warning("value does not match its vr, keeping it as UN", map[string]interface{}{
			log.KeyTag:   tag.String(),
			log.KeyVR:    vr.Name,
			log.KeyError: err,
		})
		return a.PutBytes(tag, UNVR, b)
	}
	return nil
}

func (r *dataSetReader) referencesBulkData(tag DataElementTag, vr *VR, length uint32) bool {
	return r.cfg.isBulkData != nil && !r.syntax.isDeflated() && length > 0 && vr.IsBinary() &&
		r.cfg.isBulkData(tag, vr)
}

// bulkData references the next length bytes of the input.
func (r *dataSetReader) bulkData(length uint32) *BulkData {
	bd := &BulkData{
		URI:               r.cfg.bulkDataURI,
		Offset:            r.dr.Offset(),
		Length:            int64(length),
		TransferSyntaxUID: r.syntaxUID,
	}
	log.Debug("referencing bulk data", map[string]interface{}{
		log.KeyOffset: bd.Offset,
		log.KeyLength: bd.Length,
	})
	return bd
}

func (r *dataSetReader) readSequence(a *Attributes, tag DataElementTag, length uint32) error {
	seq, err := a.NewSequence(tag)
	if err != nil {
		return err
	}
	sr := r
	if length != UndefinedLength {
		sr = r.with(r.dr.Limit(int64(length)))
	}
	order := sr.syntax.byteOrder()
	for {
		itemTag, err := sr.dr.Tag(order)
		if err == io.EOF && length != UndefinedLength {
			return nil
		}
		if err != nil {
			return invalidStream("%v: reading item tag: %v", tag, err)
		}
		itemLength, err := sr.dr.UInt32(order)
		if err != nil {
			return invalidStream("%v: reading item length: %v", tag, err)
		}
		if itemTag == SequenceDelimitationItemTag {
			return nil
		}
		if itemTag != ItemTag {
			return invalidStream("%v: found %v in place of an item", tag, itemTag)
		}

		item := seq.NewItem()
		// items of UN sequences are little endian whatever the enclosing syntax
		if err := item.SetBigEndian(order == binary.BigEndian); err != nil {
			return err
		}
		ir := sr
		if itemLength != UndefinedLength {
			ir = sr.with(sr.dr.Limit(int64(itemLength)))
		}
		if err := ir.readDataSet(item); err != nil {
			return errors.Wrapf(err, "reading item %d of %v", seq.Len()-1, tag)
		}
	}
}

// readFragments reads an encapsulated value: items of explicit length up to a sequence
// delimitation item. http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4
func (r *dataSetReader) readFragments(a *Attributes, tag DataElementTag, vr *VR) error {
	frags, err := a.NewFragments(tag, vr)
	if err != nil {
		return err
	}
	order := r.syntax.byteOrder()
	for {
		itemTag, err := r.dr.Tag(order)
		if err != nil {
			return invalidStream("%v: reading fragment tag: %v", tag, err)
		}
		length, err := r.dr.UInt32(order)
		if err != nil {
			return invalidStream("%v: reading fragment length: %v", tag, err)
		}
		if itemTag == SequenceDelimitationItemTag {
			return nil
		}
		if itemTag != ItemTag {
			return invalidStream("%v: found %v in place of a fragment", tag, itemTag)
		}
		if length == UndefinedLength {
			return invalidStream("%v: fragment of undefined length", tag)
		}

		if r.referencesBulkData(tag, vr, length) {
			frags.AddBulkData(r.bulkData(length))
			if err := r.dr.Skip(int64(length)); err != nil {
				return invalidStream("%v: skipping fragment: %v", tag, err)
			}
			continue
		}
		b, err := r.dr.Bytes(int64(length))
		if err != nil {
			return invalidStream("%v: reading fragment: %v", tag, err)
		}
		frags.Add(b)
	}
}
