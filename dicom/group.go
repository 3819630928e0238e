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
	"sort"
)

// group is the ordered index of the data elements sharing one group number. Element numbers,
// VRs and values are kept in parallel slices sorted by element number, so iteration follows the
// order in which the elements are encoded.
type group struct {
	number   uint16
	elements []uint16
	vrs      []*VR
	values   []value
}

func newGroup(number uint16, capacity int) *group {
	return &group{
		number:   number,
		elements: make([]uint16, 0, capacity),
		vrs:      make([]*VR, 0, capacity),
		values:   make([]value, 0, capacity),
	}
}

func (g *group) size() int {
	return len(g.elements)
}

func (g *group) tag(i int) DataElementTag {
	return NewDataElementTag(g.number, g.elements[i])
}

// indexOf returns the index of element, or the index it would be inserted at.
func (g *group) indexOf(element uint16) (int, bool) {
	n := len(g.elements)
	if n == 0 || element > g.elements[n-1] {
		return n, false
	}
	i := sort.Search(n, func(i int) bool { return g.elements[i] >= element })
	return i, g.elements[i] == element
}

func (g *group) entry(element uint16) (*VR, value, bool) {
	i, ok := g.indexOf(element)
	if !ok {
		return nil, nil, false
	}
	return g.vrs[i], g.values[i], true
}

// put replaces the entry of element or inserts a new one, and returns the replaced value.
// Appending past the last element does not shift.
func (g *group) put(element uint16, vr *VR, v value) value {
	i, ok := g.indexOf(element)
	if ok {
		old := g.values[i]
		g.vrs[i], g.values[i] = vr, v
		return old
	}
	if i == len(g.elements) {
		g.elements = append(g.elements, element)
		g.vrs = append(g.vrs, vr)
		g.values = append(g.values, v)
		return nil
	}
	g.elements = append(g.elements, 0)
	copy(g.elements[i+1:], g.elements[i:])
	g.elements[i] = element
	g.vrs = append(g.vrs, nil)
	copy(g.vrs[i+1:], g.vrs[i:])
	g.vrs[i] = vr
	g.values = append(g.values, nil)
	copy(g.values[i+1:], g.values[i:])
	g.values[i] = v
	return nil
}

func (g *group) remove(element uint16) (value, bool) {
	i, ok := g.indexOf(element)
	if !ok {
		return nil, false
	}
	v := g.values[i]
	g.elements = append(g.elements[:i], g.elements[i+1:]...)
	g.vrs = append(g.vrs[:i], g.vrs[i+1:]...)
	last := len(g.values) - 1
	copy(g.values[i:], g.values[i+1:])
	g.values[last] = nil
	g.values = g.values[:last]
	return v, true
}

// trimToSize releases unused capacity, here and in nested sequences.
func (g *group) trimToSize() {
	if cap(g.elements) > len(g.elements) {
		g.elements = append([]uint16(nil), g.elements...)
		g.vrs = append([]*VR(nil), g.vrs...)
		g.values = append([]value(nil), g.values...)
	}
	for _, v := range g.values {
		switch v := v.(type) {
		case *Sequence:
			v.TrimToSize()
		case *Fragments:
			v.TrimToSize()
		}
	}
}

// getValue converts the value of element with convert and keeps the converted cell in place of
// the stored one when convert hands one back. An absent element yields the zero T.
func getValue[T any](g *group, element uint16, c codec, convert func(*VR, value, codec) (T, value, error)) (T, error) {
	var zero T
	i, ok := g.indexOf(element)
	if !ok {
		return zero, nil
	}
	out, memo, err := convert(g.vrs[i], g.values[i], c)
	if err != nil {
		return zero, err
	}
	if memo != nil {
		g.values[i] = memo
	}
	return out, nil
}

func (g *group) getBytes(element uint16, c codec) ([]byte, error) {
	i, ok := g.indexOf(element)
	if !ok {
		return nil, nil
	}
	return g.vrs[i].toBytes(g.values[i], c)
}

// copier carries the state of an AddAll from one data set to another.
type copier struct {
	src, dst codec

	// toggle is set when the data sets have different byte orders
	toggle bool

	// decodeText is set when the data sets have different character sets; raw values of VRs
	// affected by the character set are then copied as strings
	decodeText bool

	// owner receives the copied sequences
	owner *Attributes
}

// addAll copies every entry of src into g without modifying src. Private creators of src are
// reserved in g and the data elements of their blocks move to the reserved blocks.
func (g *group) addAll(src *group, cp *copier) error {
	var slots map[uint16]uint16
	if g.number%2 == 1 {
		slots = map[uint16]uint16{}
		start, _ := src.indexOf(firstCreatorSlot)
		for i := start; i < src.size() && src.elements[i] <= lastCreatorSlot; i++ {
			creator := src.creatorAt(i, cp.src)
			if creator == "" {
				continue
			}
			slot, _, err := g.creatorSlot(creator, true, cp.dst)
			if err != nil {
				return err
			}
			slots[src.elements[i]] = slot
		}
	}
	for i, element := range src.elements {
		if slots != nil && element >= firstCreatorSlot {
			if element <= lastCreatorSlot {
				if _, ok := slots[element]; ok {
					continue
				}
			} else if slot, ok := slots[element>>8]; ok {
				element = privateElement(slot, element)
			}
		}
		v, err := cp.clone(src.tag(i), src.vrs[i], src.values[i])
		if err != nil {
			return err
		}
		release(g.put(element, src.vrs[i], v))
	}
	return nil
}

// clone deep copies v. Raw binary values are byte swapped when the byte orders differ.
func (cp *copier) clone(tag DataElementTag, vr *VR, v value) (value, error) {
	switch v := v.(type) {
	case rawBytes:
		if cp.toggle && vr.IsBinary() && tag.GroupNumber() > 2 {
			b, err := vr.ToggleEndian(v)
			return rawBytes(b), err
		}
		if cp.decodeText && vr.charsetAware {
			strs, _, err := vr.toStrings(v, cp.src)
			return textValue(strs), err
		}
		return rawBytes(append([]byte(nil), v...)), nil
	case textList:
		return append(textList(nil), v...), nil
	case intList:
		return append(intList(nil), v...), nil
	case floatList:
		return append(floatList(nil), v...), nil
	case doubleList:
		return append(doubleList(nil), v...), nil
	case *Sequence:
		seq := newSequence(cp.owner, tag, v.Len())
		for _, item := range v.items {
			// the copy joins the sequence first so that it inherits the character set of owner
			copied := seq.NewItem()
			if err := copied.AddAll(item); err != nil {
				return nil, err
			}
		}
		return seq, nil
	case *Fragments:
		return v.clone(cp.toggle)
	case *BulkData:
		bd := *v
		return &bd, nil
	}
	// nil and text are immutable
	return v, nil
}
