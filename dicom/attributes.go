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
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Attributes is a DICOM Data Set: data elements ordered by tag, stored per group.
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#chapter_7
//
// Values are converted to the requested representation on access, and the decoded form of a raw
// value replaces it. Attributes is not safe for concurrent use, including concurrent reads.
type Attributes struct {
	groups []*group

	// owner is the sequence holding this data set as an item
	owner *Sequence

	bigEndian bool

	// cs caches the character set of this data set's own Specific Character Set value
	cs *SpecificCharacterSet
}

// NewAttributes returns an empty little endian data set.
func NewAttributes() *Attributes {
	return &Attributes{}
}

// groupIndex returns the index of group number, or the index it would be inserted at.
func (a *Attributes) groupIndex(number uint16) (int, bool) {
	n := len(a.groups)
	if n == 0 || number > a.groups[n-1].number {
		return n, false
	}
	i := sort.Search(n, func(i int) bool { return a.groups[i].number >= number })
	return i, a.groups[i].number == number
}

func (a *Attributes) getGroup(number uint16, create bool) *group {
	i, ok := a.groupIndex(number)
	if ok {
		return a.groups[i]
	}
	if !create {
		return nil
	}
	g := newGroup(number, 8)
	if i == len(a.groups) {
		a.groups = append(a.groups, g)
		return g
	}
	a.groups = append(a.groups, nil)
	copy(a.groups[i+1:], a.groups[i:])
	a.groups[i] = g
	return g
}

// order is the byte order of the values of group number. Command and file meta groups are
// always little endian.
func (a *Attributes) order(number uint16) binary.ByteOrder {
	if a.bigEndian && number > 2 {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (a *Attributes) codec(number uint16) codec {
	return codec{a.order(number), a.SpecificCharacterSet()}
}

// Parent returns the data set holding the sequence this data set is an item of.
func (a *Attributes) Parent() *Attributes {
	if a.owner == nil {
		return nil
	}
	return a.owner.parent
}

// SpecificCharacterSet returns the character set of the Specific Character Set (0008,0005)
// value of this data set. An empty value selects the default repertoire, ASCII. Without the
// attribute, the character set of the parent applies, and ASCII at the root.
func (a *Attributes) SpecificCharacterSet() *SpecificCharacterSet {
	if a.cs != nil {
		return a.cs
	}
	if g := a.getGroup(SpecificCharacterSetTag.GroupNumber(), false); g != nil {
		element := SpecificCharacterSetTag.ElementNumber()
		if _, ok := g.indexOf(element); ok {
			codes, err := getValue(g, element, codec{a.order(g.number), ASCII}, (*VR).toStrings)
			switch {
			case err == nil && len(codes) > 0:
				a.cs = NewSpecificCharacterSet(codes...)
				return a.cs
			case err == nil:
				a.cs = ASCII
				return a.cs
			}
		}
	}
	if p := a.Parent(); p != nil {
		return p.SpecificCharacterSet()
	}
	return ASCII
}

// BigEndian reports the byte order of values outside the command and file meta groups.
func (a *Attributes) BigEndian() bool {
	return a.bigEndian
}

// SetBigEndian changes the byte order of the data set. It fails once the data set holds data
// elements of a group after the file meta group, since their raw values would be misread.
func (a *Attributes) SetBigEndian(bigEndian bool) error {
	if a.bigEndian == bigEndian {
		return nil
	}
	if n := len(a.groups); n > 0 && a.groups[n-1].number > 2 {
		return structuralViolation("byte order cannot change once group %04X has data elements", a.groups[n-1].number)
	}
	a.bigEndian = bigEndian
	return nil
}

// put stores v under tag. A replaced sequence releases its items.
func (a *Attributes) put(tag DataElementTag, vr *VR, v value) {
	release(a.getGroup(tag.GroupNumber(), true).put(tag.ElementNumber(), vr, v))
	if tag == SpecificCharacterSetTag {
		a.cs = nil
	}
}

// PutNull stores an attribute without a value. An SQ attribute gets an empty sequence.
func (a *Attributes) PutNull(tag DataElementTag, vr *VR) error {
	if vr.IsSequence() {
		_, err := a.NewSequence(tag)
		return err
	}
	a.put(tag, vr, nil)
	return nil
}

// PutBytes stores a raw value, in the byte order of the data set for binary VRs and in the
// encoding of the Specific Character Set for text VRs.
func (a *Attributes) PutBytes(tag DataElementTag, vr *VR, b []byte) error {
	v, err := vr.valueOfBytes(b)
	if err != nil {
		return errors.Wrapf(err, "putting %v", tag)
	}
	a.put(tag, vr, v)
	return nil
}

// PutStrings stores text values. Numbers of DS and IS are kept in canonical form, binary VRs
// parse the strings.
func (a *Attributes) PutStrings(tag DataElementTag, vr *VR, strs ...string) error {
	v, err := vr.valueOfStrings(strs)
	if err != nil {
		return errors.Wrapf(err, "putting %v", tag)
	}
	a.put(tag, vr, v)
	return nil
}

// PutInts stores integers. They must fit the unit of a binary VR.
func (a *Attributes) PutInts(tag DataElementTag, vr *VR, ints ...int) error {
	v, err := vr.valueOfInts(ints)
	if err != nil {
		return errors.Wrapf(err, "putting %v", tag)
	}
	a.put(tag, vr, v)
	return nil
}

// PutFloats stores float32 values.
func (a *Attributes) PutFloats(tag DataElementTag, vr *VR, fs ...float32) error {
	if !vr.supports(canFloats) {
		return errors.Wrapf(unsupportedConversion(vr, "floats"), "putting %v", tag)
	}
	v, err := vr.valueOfFloats(fs)
	if err != nil {
		return errors.Wrapf(err, "putting %v", tag)
	}
	a.put(tag, vr, v)
	return nil
}

// PutDoubles stores float64 values. DS keeps them in canonical form.
func (a *Attributes) PutDoubles(tag DataElementTag, vr *VR, ds ...float64) error {
	v, err := vr.valueOfDoubles(ds)
	if err != nil {
		return errors.Wrapf(err, "putting %v", tag)
	}
	a.put(tag, vr, v)
	return nil
}

// PutBulkData stores a reference to a value kept outside of the data set.
func (a *Attributes) PutBulkData(tag DataElementTag, vr *VR, bd *BulkData) error {
	if !vr.supports(canBytes) {
		return errors.Wrapf(unsupportedConversion(vr, "bulk data"), "putting %v", tag)
	}
	a.put(tag, vr, bd)
	return nil
}

// PutDates stores times formatted for vr, which must be DA, DT or TM.
func (a *Attributes) PutDates(tag DataElementTag, vr *VR, ts ...time.Time) error {
	var format func(time.Time) string
	switch vr {
	case DAVR:
		format = formatDA
	case DTVR:
		format = formatDT
	case TMVR:
		format = formatTM
	default:
		return errors.Wrapf(unsupportedConversion(vr, "dates"), "putting %v", tag)
	}
	strs := make([]string, len(ts))
	for i, t := range ts {
		strs[i] = format(t)
	}
	return a.PutStrings(tag, vr, strs...)
}

// NewSequence stores an empty sequence and returns it for adding items.
func (a *Attributes) NewSequence(tag DataElementTag) (*Sequence, error) {
	seq := newSequence(a, tag, 0)
	a.put(tag, SQVR, seq)
	return seq, nil
}

// NewFragments stores an empty list of fragments of an encapsulated value.
func (a *Attributes) NewFragments(tag DataElementTag, vr *VR) (*Fragments, error) {
	if !vr.IsBinary() {
		return nil, errors.Wrapf(unsupportedConversion(vr, "fragments"), "putting %v", tag)
	}
	frags := NewFragments(vr, 0)
	a.put(tag, vr, frags)
	return frags, nil
}

func (a *Attributes) lookup(tag DataElementTag) (*group, uint16) {
	return a.getGroup(tag.GroupNumber(), false), tag.ElementNumber()
}

// GetBytes returns the value of tag encoded for the wire, without padding. It returns nil if
// there is no value.
func (a *Attributes) GetBytes(tag DataElementTag) ([]byte, error) {
	g, element := a.lookup(tag)
	if g == nil {
		return nil, nil
	}
	b, err := g.getBytes(element, a.codec(g.number))
	if err != nil {
		return nil, errors.Wrapf(err, "getting %v", tag)
	}
	return b, nil
}

// GetStrings returns the values of tag as strings. The returned slice must not be modified.
func (a *Attributes) GetStrings(tag DataElementTag) ([]string, error) {
	g, element := a.lookup(tag)
	if g == nil {
		return nil, nil
	}
	strs, err := getValue(g, element, a.codec(g.number), (*VR).toStrings)
	if err != nil {
		return nil, errors.Wrapf(err, "getting %v", tag)
	}
	return strs, nil
}

// GetString returns the first value of tag, or "" if there is none.
func (a *Attributes) GetString(tag DataElementTag) (string, error) {
	strs, err := a.GetStrings(tag)
	if err != nil || len(strs) == 0 {
		return "", err
	}
	return strs[0], nil
}

// GetInts returns the values of tag as integers. The returned slice must not be modified.
func (a *Attributes) GetInts(tag DataElementTag) ([]int, error) {
	g, element := a.lookup(tag)
	if g == nil {
		return nil, nil
	}
	ints, err := getValue(g, element, a.codec(g.number), (*VR).toInts)
	if err != nil {
		return nil, errors.Wrapf(err, "getting %v", tag)
	}
	return ints, nil
}

// GetInt returns the first value of tag, or defVal if there is none.
func (a *Attributes) GetInt(tag DataElementTag, defVal int) (int, error) {
	ints, err := a.GetInts(tag)
	if err != nil || len(ints) == 0 {
		return defVal, err
	}
	return ints[0], nil
}

// GetFloats returns the values of tag as float32.
func (a *Attributes) GetFloats(tag DataElementTag) ([]float32, error) {
	g, element := a.lookup(tag)
	if g == nil {
		return nil, nil
	}
	fs, err := getValue(g, element, a.codec(g.number), (*VR).toFloats)
	if err != nil {
		return nil, errors.Wrapf(err, "getting %v", tag)
	}
	return fs, nil
}

// GetFloat returns the first value of tag, or defVal if there is none.
func (a *Attributes) GetFloat(tag DataElementTag, defVal float32) (float32, error) {
	fs, err := a.GetFloats(tag)
	if err != nil || len(fs) == 0 {
		return defVal, err
	}
	return fs[0], nil
}

// GetDoubles returns the values of tag as float64. An empty DS value is NaN.
func (a *Attributes) GetDoubles(tag DataElementTag) ([]float64, error) {
	g, element := a.lookup(tag)
	if g == nil {
		return nil, nil
	}
	ds, err := getValue(g, element, a.codec(g.number), (*VR).toDoubles)
	if err != nil {
		return nil, errors.Wrapf(err, "getting %v", tag)
	}
	return ds, nil
}

// GetDouble returns the first value of tag, or defVal if there is none or it is NaN.
func (a *Attributes) GetDouble(tag DataElementTag, defVal float64) (float64, error) {
	ds, err := a.GetDoubles(tag)
	if err != nil || len(ds) == 0 || math.IsNaN(ds[0]) {
		return defVal, err
	}
	return ds[0], nil
}

func (a *Attributes) entry(tag DataElementTag) (*VR, value, bool) {
	g, element := a.lookup(tag)
	if g == nil {
		return nil, nil, false
	}
	return g.entry(element)
}

// GetSequence returns the sequence of tag, or nil if tag is absent.
func (a *Attributes) GetSequence(tag DataElementTag) (*Sequence, error) {
	vr, v, ok := a.entry(tag)
	if !ok {
		return nil, nil
	}
	seq, ok := v.(*Sequence)
	if !ok {
		return nil, errors.Wrapf(unsupportedConversion(vr, "sequence"), "getting %v", tag)
	}
	return seq, nil
}

// GetFragments returns the fragments of an encapsulated value, or nil if tag is absent.
func (a *Attributes) GetFragments(tag DataElementTag) (*Fragments, error) {
	vr, v, ok := a.entry(tag)
	if !ok || v == nil {
		return nil, nil
	}
	frags, ok := v.(*Fragments)
	if !ok {
		return nil, errors.Wrapf(unsupportedConversion(vr, "fragments"), "getting %v", tag)
	}
	return frags, nil
}

// GetBulkData returns the bulk data reference stored for tag, or nil if the value of tag is
// held in memory.
func (a *Attributes) GetBulkData(tag DataElementTag) (*BulkData, error) {
	_, v, _ := a.entry(tag)
	bd, _ := v.(*BulkData)
	return bd, nil
}

// timezone is the location given by Timezone Offset From UTC (0008,0201) in this data set or
// an ancestor. It is UTC if there is none.
func (a *Attributes) timezone() *time.Location {
	for ds := a; ds != nil; ds = ds.Parent() {
		s, err := ds.GetString(TimezoneOffsetFromUTCTag)
		if err != nil || s == "" {
			continue
		}
		if loc, err := parseTimezoneOffset(s); err == nil {
			return loc
		}
	}
	return time.UTC
}

// GetDate parses the value of tag as a DA, DT or TM value according to its VR. Other VRs are
// parsed as dates. The zero time is returned if there is no value.
func (a *Attributes) GetDate(tag DataElementTag) (time.Time, error) {
	s, err := a.GetString(tag)
	if err != nil || s == "" {
		return time.Time{}, err
	}
	loc := a.timezone()
	switch a.VR(tag) {
	case DTVR:
		return parseDT(s, loc)
	case TMVR:
		d, err := parseTM(s)
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(0, time.January, 1, 0, 0, 0, 0, loc).Add(d), nil
	}
	return parseDA(s, loc)
}

// GetDateTime combines the date of daTag with the time of tmTag, whatever their VRs. A missing
// time means midnight.
func (a *Attributes) GetDateTime(daTag, tmTag DataElementTag) (time.Time, error) {
	da, err := a.GetString(daTag)
	if err != nil || da == "" {
		return time.Time{}, err
	}
	t, err := parseDA(da, a.timezone())
	if err != nil {
		return time.Time{}, err
	}
	tm, err := a.GetString(tmTag)
	if err != nil || tm == "" {
		return t, err
	}
	d, err := parseTM(tm)
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(d), nil
}

// VR returns the VR of tag, or nil if tag is absent.
func (a *Attributes) VR(tag DataElementTag) *VR {
	vr, _, _ := a.entry(tag)
	return vr
}

// Contains is true if tag is present, with or without a value.
func (a *Attributes) Contains(tag DataElementTag) bool {
	_, _, ok := a.entry(tag)
	return ok
}

// ContainsValue is true if tag is present with a non-empty value.
func (a *Attributes) ContainsValue(tag DataElementTag) bool {
	_, v, ok := a.entry(tag)
	return ok && !isEmptyValue(v)
}

// Remove deletes tag and reports whether it was present. A removed sequence releases its items.
func (a *Attributes) Remove(tag DataElementTag) bool {
	g, element := a.lookup(tag)
	if g == nil {
		return false
	}
	v, ok := g.remove(element)
	if !ok {
		return false
	}
	release(v)
	if tag == SpecificCharacterSetTag {
		a.cs = nil
	}
	return true
}

// Size is the number of data elements, not counting those of nested sequences.
func (a *Attributes) Size() int {
	n := 0
	for _, g := range a.groups {
		n += g.size()
	}
	return n
}

// IsEmpty reports whether a has no data elements.
func (a *Attributes) IsEmpty() bool {
	return a.Size() == 0
}

// TrimToSize drops empty groups and releases unused capacity of this data set and its items.
func (a *Attributes) TrimToSize() {
	groups := make([]*group, 0, len(a.groups))
	for _, g := range a.groups {
		if g.size() > 0 {
			g.trimToSize()
			groups = append(groups, g)
		}
	}
	a.groups = groups
}

// Tags returns the tags of the data set in ascending order.
func (a *Attributes) Tags() []DataElementTag {
	tags := make([]DataElementTag, 0, a.Size())
	for _, g := range a.groups {
		for i := range g.elements {
			tags = append(tags, g.tag(i))
		}
	}
	return tags
}

// AddAll copies every data element of src into a, replacing existing ones. Values are deep
// copied, binary values are byte swapped if the byte orders differ and private data elements
// move to the blocks their creators get in a. Private data elements whose block has no creator
// in src keep their element number, and so replace whatever a holds there, even in a block of
// another creator. A failure leaves the data elements copied so far.
func (a *Attributes) AddAll(src *Attributes) error {
	if src == nil || src == a {
		return nil
	}
	cp := &copier{
		toggle:     a.bigEndian != src.bigEndian,
		decodeText: !src.SpecificCharacterSet().Equal(a.SpecificCharacterSet()),
		owner:      a,
	}
	for _, sg := range src.groups {
		cp.src, cp.dst = src.codec(sg.number), a.codec(sg.number)
		if err := a.getGroup(sg.number, true).addAll(sg, cp); err != nil {
			return errors.Wrapf(err, "copying group %04X", sg.number)
		}
		if sg.number == SpecificCharacterSetTag.GroupNumber() {
			a.cs = nil
		}
	}
	return nil
}

// Equal is true if both data sets have the same tags, VRs and values. Values are compared in
// their canonical form, so "+0.50" and ".5" are equal DS values, and byte order is ignored.
func (a *Attributes) Equal(other *Attributes) bool {
	if a == other {
		return true
	}
	if other == nil || a.Size() != other.Size() {
		return false
	}
	for _, g := range a.groups {
		if g.size() == 0 {
			continue
		}
		og := other.getGroup(g.number, false)
		if og == nil || og.size() != g.size() {
			return false
		}
		for i, element := range g.elements {
			if og.elements[i] != element || og.vrs[i] != g.vrs[i] {
				return false
			}
			if !valuesEqual(g.vrs[i], g.values[i], a.codec(g.number), og.values[i], other.codec(g.number)) {
				return false
			}
		}
	}
	return true
}

func valuesEqual(vr *VR, v1 value, c1 codec, v2 value, c2 codec) bool {
	if isEmptyValue(v1) || isEmptyValue(v2) {
		return isEmptyValue(v1) && isEmptyValue(v2)
	}
	switch v1 := v1.(type) {
	case *Sequence:
		seq, ok := v2.(*Sequence)
		return ok && v1.Equal(seq)
	case *Fragments:
		frags, ok := v2.(*Fragments)
		return ok && v1.Equal(frags)
	case *BulkData:
		bd, ok := v2.(*BulkData)
		return ok && *bd == *v1
	}
	switch {
	case vr.IsText():
		s1, _, err1 := vr.toStrings(v1, c1)
		s2, _, err2 := vr.toStrings(v2, c2)
		return err1 == nil && err2 == nil && stringsEqual(s1, s2)
	case vr.binary == float32Binary || vr.binary == float64Binary:
		d1, _, err1 := vr.toDoubles(v1, c1)
		d2, _, err2 := vr.toDoubles(v2, c2)
		return err1 == nil && err2 == nil && doublesEqual(d1, d2)
	case vr.IsBinary():
		i1, _, err1 := vr.toInts(v1, c1)
		i2, _, err2 := vr.toInts(v2, c2)
		return err1 == nil && err2 == nil && intsEqual(i1, i2)
	}
	return false
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func doublesEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] && !(math.IsNaN(a[i]) && math.IsNaN(b[i])) {
			return false
		}
	}
	return true
}

// maxStringValueLength bounds the rendering of a single value by String.
const maxStringValueLength = 64

func (a *Attributes) String() string {
	var sb strings.Builder
	a.writeString(&sb, "")
	return sb.String()
}

func (a *Attributes) writeString(sb *strings.Builder, prefix string) {
	for _, g := range a.groups {
		for i := range g.elements {
			tag, vr, v := g.tag(i), g.vrs[i], g.values[i]
			fmt.Fprintf(sb, "%s%v %s ", prefix, tag, vr.Name)
			switch v := v.(type) {
			case *Sequence:
				fmt.Fprintf(sb, "#%d\n", v.Len())
				for _, item := range v.items {
					item.writeString(sb, prefix+">")
				}
				continue
			case *Fragments:
				fmt.Fprintf(sb, "#%d fragments\n", v.Len())
				continue
			case *BulkData:
				fmt.Fprintf(sb, "%v\n", v)
				continue
			}
			s := "<binary>"
			if vr.supports(canStrings) {
				strs, _, err := vr.toStrings(v, a.codec(g.number))
				s = strings.Join(strs, "\\")
				if err != nil {
					s = fmt.Sprintf("<%v>", err)
				}
			}
			if len(s) > maxStringValueLength {
				s = s[:maxStringValueLength] + "..."
			}
			fmt.Fprintf(sb, "[%s]\n", s)
		}
	}
}
