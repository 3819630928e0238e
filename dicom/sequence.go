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
)

// Sequence models a DICOM sequence, an ordered list of items nested in the data set that holds
// it. An item belongs to at most one sequence at a time.
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.5
type Sequence struct {
	parent *Attributes
	tag    DataElementTag
	items  []*Attributes
}

// release detaches v from its data set when v is a sequence.
func release(v value) {
	if seq, ok := v.(*Sequence); ok {
		seq.parent = nil
	}
}

func newSequence(parent *Attributes, tag DataElementTag, capacity int) *Sequence {
	return &Sequence{parent: parent, tag: tag, items: make([]*Attributes, 0, capacity)}
}

func (*Sequence) isValue() {}

// Parent returns the data set holding the sequence.
func (seq *Sequence) Parent() *Attributes {
	return seq.parent
}

// Tag returns the tag of the sequence in its parent.
func (seq *Sequence) Tag() DataElementTag {
	return seq.tag
}

// Len is the number of items.
func (seq *Sequence) Len() int {
	return len(seq.items)
}

// Items returns the items in order. The slice is a copy.
func (seq *Sequence) Items() []*Attributes {
	return append([]*Attributes(nil), seq.items...)
}

func (seq *Sequence) checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return structuralViolation("item index %d out of range [0,%d) in sequence %v", i, n, seq.tag)
	}
	return nil
}

// checkAttach verifies that item can become an item of seq.
func (seq *Sequence) checkAttach(item *Attributes) error {
	if item == nil {
		return structuralViolation("nil item in sequence %v", seq.tag)
	}
	if item.owner != nil {
		return structuralViolation("item already belongs to sequence %v", item.owner.tag)
	}
	for ds := seq.parent; ds != nil; ds = ds.Parent() {
		if ds == item {
			return structuralViolation("item would contain itself through sequence %v", seq.tag)
		}
	}
	return nil
}

// Get returns item i.
func (seq *Sequence) Get(i int) (*Attributes, error) {
	if err := seq.checkIndex(i, len(seq.items)); err != nil {
		return nil, err
	}
	return seq.items[i], nil
}

// Add appends item. It fails if item is already an item of a sequence.
func (seq *Sequence) Add(item *Attributes) error {
	if err := seq.checkAttach(item); err != nil {
		return err
	}
	item.owner = seq
	seq.items = append(seq.items, item)
	return nil
}

// NewItem appends and returns an empty item with the byte order of the parent.
func (seq *Sequence) NewItem() *Attributes {
	item := NewAttributes()
	if seq.parent != nil {
		item.bigEndian = seq.parent.bigEndian
	}
	item.owner = seq
	seq.items = append(seq.items, item)
	return item
}

// Insert places item at index i, shifting the following items.
func (seq *Sequence) Insert(i int, item *Attributes) error {
	if err := seq.checkIndex(i, len(seq.items)+1); err != nil {
		return err
	}
	if err := seq.checkAttach(item); err != nil {
		return err
	}
	item.owner = seq
	seq.items = append(seq.items, nil)
	copy(seq.items[i+1:], seq.items[i:])
	seq.items[i] = item
	return nil
}

// Set replaces the item at index i and returns the detached item.
func (seq *Sequence) Set(i int, item *Attributes) (*Attributes, error) {
	if err := seq.checkIndex(i, len(seq.items)); err != nil {
		return nil, err
	}
	old := seq.items[i]
	if old == item {
		return old, nil
	}
	if err := seq.checkAttach(item); err != nil {
		return nil, err
	}
	old.owner = nil
	item.owner = seq
	seq.items[i] = item
	return old, nil
}

// Remove detaches and returns the item at index i, shifting the following items.
func (seq *Sequence) Remove(i int) (*Attributes, error) {
	if err := seq.checkIndex(i, len(seq.items)); err != nil {
		return nil, err
	}
	old := seq.items[i]
	old.owner = nil
	copy(seq.items[i:], seq.items[i+1:])
	seq.items[len(seq.items)-1] = nil
	seq.items = seq.items[:len(seq.items)-1]
	return old, nil
}

// Clear detaches every item.
func (seq *Sequence) Clear() {
	for i, item := range seq.items {
		item.owner = nil
		seq.items[i] = nil
	}
	seq.items = seq.items[:0]
}

// TrimToSize releases unused capacity of the sequence and of its items.
func (seq *Sequence) TrimToSize() {
	if cap(seq.items) > len(seq.items) {
		seq.items = append([]*Attributes(nil), seq.items...)
	}
	for _, item := range seq.items {
		item.TrimToSize()
	}
}

// Equal is true if both sequences have equal items in the same order.
func (seq *Sequence) Equal(other *Sequence) bool {
	if seq == other {
		return true
	}
	if other == nil || len(seq.items) != len(other.items) {
		return false
	}
	for i, item := range seq.items {
		if !item.Equal(other.items[i]) {
			return false
		}
	}
	return true
}

func (seq *Sequence) String() string {
	return fmt.Sprintf("%v SQ #%d", seq.tag, len(seq.items))
}
