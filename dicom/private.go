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
	"github.com/pkg/errors"
)

// PrivateAttributes addresses the private data elements of one private creator. Tags passed to
// its methods name the element by its low byte, e.g. (0009,xx10); the block xx is the slot the
// creator holds in the group. Writes reserve a slot for the creator when it has none, reads never
// do. Tags outside private blocks are used as they are.
type PrivateAttributes struct {
	attrs   *Attributes
	creator string
}

// Private returns the view of a on the data elements of creator. An empty creator owns no block:
// its reads find nothing and its writes of private data elements fail.
func (a *Attributes) Private(creator string) *PrivateAttributes {
	return &PrivateAttributes{attrs: a, creator: creator}
}

// PrivateCreatorOf returns the creator of the block holding tag, or "" if there is none.
func (a *Attributes) PrivateCreatorOf(tag DataElementTag) string {
	g, element := a.lookup(tag)
	if g == nil {
		return ""
	}
	return g.privateCreatorOf(element, a.codec(g.number))
}

// Creator is the private creator this view addresses.
func (p *PrivateAttributes) Creator() string {
	return p.creator
}

// Tag resolves tag to the tag it is stored under. ok is false if the creator has no block in
// the group of tag.
func (p *PrivateAttributes) Tag(tag DataElementTag) (DataElementTag, bool, error) {
	return p.resolve(tag, false)
}

func (p *PrivateAttributes) resolve(tag DataElementTag, reserve bool) (DataElementTag, bool, error) {
	if !tag.IsPrivate() || tag.ElementNumber() < firstCreatorSlot<<8 {
		return tag, true, nil
	}
	if p.creator == "" {
		if reserve {
			return tag, false, errors.Wrapf(ErrInvalidValue, "private data element %v has an empty creator", tag)
		}
		return tag, false, nil
	}
	g := p.attrs.getGroup(tag.GroupNumber(), reserve)
	if g == nil {
		return tag, false, nil
	}
	slot, ok, err := g.creatorSlot(p.creator, reserve, p.attrs.codec(g.number))
	if err != nil || !ok {
		return tag, false, err
	}
	return NewDataElementTag(g.number, privateElement(slot, tag.ElementNumber())), true, nil
}

func (p *PrivateAttributes) reserve(tag DataElementTag) (DataElementTag, error) {
	resolved, _, err := p.resolve(tag, true)
	if err != nil {
		return tag, errors.Wrapf(err, "putting %v", tag)
	}
	return resolved, nil
}

func (p *PrivateAttributes) PutNull(tag DataElementTag, vr *VR) error {
	resolved, err := p.reserve(tag)
	if err != nil {
		return err
	}
	return p.attrs.PutNull(resolved, vr)
}

func (p *PrivateAttributes) PutBytes(tag DataElementTag, vr *VR, b []byte) error {
	resolved, err := p.reserve(tag)
	if err != nil {
		return err
	}
	return p.attrs.PutBytes(resolved, vr, b)
}

func (p *PrivateAttributes) PutStrings(tag DataElementTag, vr *VR, strs ...string) error {
	resolved, err := p.reserve(tag)
	if err != nil {
		return err
	}
	return p.attrs.PutStrings(resolved, vr, strs...)
}

func (p *PrivateAttributes) PutInts(tag DataElementTag, vr *VR, ints ...int) error {
	resolved, err := p.reserve(tag)
	if err != nil {
		return err
	}
	return p.attrs.PutInts(resolved, vr, ints...)
}

func (p *PrivateAttributes) PutFloats(tag DataElementTag, vr *VR, fs ...float32) error {
	resolved, err := p.reserve(tag)
	if err != nil {
		return err
	}
	return p.attrs.PutFloats(resolved, vr, fs...)
}

func (p *PrivateAttributes) PutDoubles(tag DataElementTag, vr *VR, ds ...float64) error {
	resolved, err := p.reserve(tag)
	if err != nil {
		return err
	}
	return p.attrs.PutDoubles(resolved, vr, ds...)
}

func (p *PrivateAttributes) PutBulkData(tag DataElementTag, vr *VR, bd *BulkData) error {
	resolved, err := p.reserve(tag)
	if err != nil {
		return err
	}
	return p.attrs.PutBulkData(resolved, vr, bd)
}

func (p *PrivateAttributes) NewSequence(tag DataElementTag) (*Sequence, error) {
	resolved, err := p.reserve(tag)
	if err != nil {
		return nil, err
	}
	return p.attrs.NewSequence(resolved)
}

func (p *PrivateAttributes) GetBytes(tag DataElementTag) ([]byte, error) {
	resolved, ok, err := p.resolve(tag, false)
	if err != nil || !ok {
		return nil, err
	}
	return p.attrs.GetBytes(resolved)
}

func (p *PrivateAttributes) GetStrings(tag DataElementTag) ([]string, error) {
	resolved, ok, err := p.resolve(tag, false)
	if err != nil || !ok {
		return nil, err
	}
	return p.attrs.GetStrings(resolved)
}

func (p *PrivateAttributes) GetString(tag DataElementTag) (string, error) {
	resolved, ok, err := p.resolve(tag, false)
	if err != nil || !ok {
		return "", err
	}
	return p.attrs.GetString(resolved)
}

func (p *PrivateAttributes) GetInts(tag DataElementTag) ([]int, error) {
	resolved, ok, err := p.resolve(tag, false)
	if err != nil || !ok {
		return nil, err
	}
	return p.attrs.GetInts(resolved)
}

func (p *PrivateAttributes) GetInt(tag DataElementTag, defVal int) (int, error) {
	resolved, ok, err := p.resolve(tag, false)
	if err != nil || !ok {
		return defVal, err
	}
	return p.attrs.GetInt(resolved, defVal)
}

func (p *PrivateAttributes) GetFloats(tag DataElementTag) ([]float32, error) {
	resolved, ok, err := p.resolve(tag, false)
	if err != nil || !ok {
		return nil, err
	}
	return p.attrs.GetFloats(resolved)
}

func (p *PrivateAttributes) GetDoubles(tag DataElementTag) ([]float64, error) {
	resolved, ok, err := p.resolve(tag, false)
	if err != nil || !ok {
		return nil, err
	}
	return p.attrs.GetDoubles(resolved)
}

func (p *PrivateAttributes) GetSequence(tag DataElementTag) (*Sequence, error) {
	resolved, ok, err := p.resolve(tag, false)
	if err != nil || !ok {
		return nil, err
	}
	return p.attrs.GetSequence(resolved)
}

func (p *PrivateAttributes) VR(tag DataElementTag) *VR {
	resolved, ok, err := p.resolve(tag, false)
	if err != nil || !ok {
		return nil
	}
	return p.attrs.VR(resolved)
}

func (p *PrivateAttributes) Contains(tag DataElementTag) bool {
	resolved, ok, err := p.resolve(tag, false)
	return err == nil && ok && p.attrs.Contains(resolved)
}

func (p *PrivateAttributes) ContainsValue(tag DataElementTag) bool {
	resolved, ok, err := p.resolve(tag, false)
	return err == nil && ok && p.attrs.ContainsValue(resolved)
}

func (p *PrivateAttributes) Remove(tag DataElementTag) bool {
	resolved, ok, err := p.resolve(tag, false)
	return err == nil && ok && p.attrs.Remove(resolved)
}
