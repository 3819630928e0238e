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
	"strings"
)

// Private creator data elements occupy elements (gggg,0010)-(gggg,00FF) of an odd group. The
// creator in slot xx owns the private data elements (gggg,xx00)-(gggg,xxFF).
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.8.1
const (
	firstCreatorSlot = 0x10
	lastCreatorSlot  = 0xFF
)

// privateElement moves the low byte of element into the block of slot.
func privateElement(slot, element uint16) uint16 {
	return slot<<8 | element&0x00FF
}

// creatorAt reads the creator string stored at index i of g.
func (g *group) creatorAt(i int, c codec) string {
	vr, v := g.vrs[i], g.values[i]
	if b, ok := v.(rawBytes); ok && !vr.IsText() {
		return strings.TrimSpace(strings.TrimRight(string(b), "\x00"))
	}
	strs, _, err := vr.toStrings(v, c)
	if err != nil || len(strs) == 0 {
		return ""
	}
	return strs[0]
}

// creatorSlot returns the slot holding creator. If there is none and reserve is set, creator is
// written to the first free slot. A lookup without reserve never allocates.
func (g *group) creatorSlot(creator string, reserve bool, c codec) (uint16, bool, error) {
	var free uint16
	next := uint16(firstCreatorSlot)
	start, _ := g.indexOf(firstCreatorSlot)
	for i := start; i < len(g.elements) && g.elements[i] <= lastCreatorSlot; i++ {
		el := g.elements[i]
		if free == 0 && el > next {
			free = next
		}
		if g.creatorAt(i, c) == creator {
			return el, true, nil
		}
		next = el + 1
	}
	if !reserve {
		return 0, false, nil
	}
	if free == 0 {
		if next > lastCreatorSlot {
			return 0, false, structuralViolation("private blocks of group %04X exhausted by %q", g.number, creator)
		}
		free = next
	}
	v, err := LOVR.valueOfStrings([]string{creator})
	if err != nil {
		return 0, false, err
	}
	g.put(free, LOVR, v)
	return free, true, nil
}

// privateCreatorOf returns the creator owning element, or "" if element is not in a private block
// or the block has no creator.
func (g *group) privateCreatorOf(element uint16, c codec) string {
	if g.number%2 == 0 || element>>8 < firstCreatorSlot {
		return ""
	}
	i, ok := g.indexOf(element >> 8)
	if !ok {
		return ""
	}
	return g.creatorAt(i, c)
}
