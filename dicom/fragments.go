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

// Fragments holds the value of an attribute in encapsulated format: an ordered list of byte
// fragments sharing one VR. The first fragment of encapsulated pixel data is the Basic Offset
// Table. http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4
type Fragments struct {
	vr    *VR
	items []fragment
}

// fragment is a buffer or a reference to one. data may be nil for an empty fragment.
type fragment struct {
	data []byte
	bulk *BulkData
}

// NewFragments returns an empty list of fragments of vr.
func NewFragments(vr *VR, capacity int) *Fragments {
	return &Fragments{vr: vr, items: make([]fragment, 0, capacity)}
}

func (*Fragments) isValue() {}

// VR is the VR of the encapsulated value.
func (f *Fragments) VR() *VR {
	return f.vr
}

// Len is the number of fragments.
func (f *Fragments) Len() int {
	return len(f.items)
}

func (f *Fragments) checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return structuralViolation("fragment index %d out of range [0,%d)", i, n)
	}
	return nil
}

// Get returns the bytes of fragment i, reading them if the fragment is a bulk data reference.
func (f *Fragments) Get(i int) ([]byte, error) {
	if err := f.checkIndex(i, len(f.items)); err != nil {
		return nil, err
	}
	if bd := f.items[i].bulk; bd != nil {
		return bd.Bytes()
	}
	return f.items[i].data, nil
}

// fragmentLength is the unpadded length of fragment i.
func (f *Fragments) fragmentLength(i int) int64 {
	if bd := f.items[i].bulk; bd != nil {
		return bd.Length
	}
	return int64(len(f.items[i].data))
}

// GetBulkData returns the reference of fragment i, or nil if the fragment is held in memory.
func (f *Fragments) GetBulkData(i int) (*BulkData, error) {
	if err := f.checkIndex(i, len(f.items)); err != nil {
		return nil, err
	}
	return f.items[i].bulk, nil
}

// Add appends a copy of b. A nil b is an empty fragment.
func (f *Fragments) Add(b []byte) {
	f.items = append(f.items, fragment{data: copyBytes(b)})
}

// AddBulkData appends a fragment held as a reference to bulk data.
func (f *Fragments) AddBulkData(bd *BulkData) {
	f.items = append(f.items, fragment{bulk: bd})
}

// Insert places a copy of b at index i, shifting the following fragments.
func (f *Fragments) Insert(i int, b []byte) error {
	if err := f.checkIndex(i, len(f.items)+1); err != nil {
		return err
	}
	f.items = append(f.items, fragment{})
	copy(f.items[i+1:], f.items[i:])
	f.items[i] = fragment{data: copyBytes(b)}
	return nil
}

// Set replaces fragment i with a copy of b.
func (f *Fragments) Set(i int, b []byte) error {
	if err := f.checkIndex(i, len(f.items)); err != nil {
		return err
	}
	f.items[i] = fragment{data: copyBytes(b)}
	return nil
}

// Remove deletes fragment i, shifting the following fragments.
func (f *Fragments) Remove(i int) error {
	if err := f.checkIndex(i, len(f.items)); err != nil {
		return err
	}
	copy(f.items[i:], f.items[i+1:])
	f.items[len(f.items)-1] = fragment{}
	f.items = f.items[:len(f.items)-1]
	return nil
}

// TrimToSize releases unused capacity of the list. Fragments themselves are left as they are.
func (f *Fragments) TrimToSize() {
	if cap(f.items) > len(f.items) {
		f.items = append([]fragment(nil), f.items...)
	}
}

// Equal compares the VRs and the in memory bytes or references of both lists.
func (f *Fragments) Equal(other *Fragments) bool {
	if f == other {
		return true
	}
	if other == nil || f.vr != other.vr || len(f.items) != len(other.items) {
		return false
	}
	for i, item := range f.items {
		o := other.items[i]
		if (item.bulk == nil) != (o.bulk == nil) {
			return false
		}
		if item.bulk != nil {
			if *item.bulk != *o.bulk {
				return false
			}
			continue
		}
		if string(item.data) != string(o.data) {
			return false
		}
	}
	return true
}

// clone deep copies the list, swapping the bytes of in memory fragments when toggle is set.
func (f *Fragments) clone(toggle bool) (*Fragments, error) {
	c := NewFragments(f.vr, len(f.items))
	for _, item := range f.items {
		if item.bulk != nil {
			bd := *item.bulk
			c.items = append(c.items, fragment{bulk: &bd})
			continue
		}
		data := copyBytes(item.data)
		if toggle && data != nil {
			var err error
			if data, err = f.vr.ToggleEndian(data); err != nil {
				return nil, err
			}
		}
		c.items = append(c.items, fragment{data: data})
	}
	return c, nil
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}
