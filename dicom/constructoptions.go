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

// EncodeOptions configures how data sets are written. Lengths written as undefined are followed
// by the matching delimitation item.
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.5
type EncodeOptions struct {
	// GroupLength writes a group length element (gggg,0000) at the start of every group. Group
	// length elements held by the data set are never written as they are, since they would be
	// stale after any change.
	GroupLength bool

	// UndefSequenceLength writes sequences holding items with undefined length
	UndefSequenceLength bool

	// UndefEmptySequenceLength writes sequences without items with undefined length
	UndefEmptySequenceLength bool

	// UndefItemLength writes items holding data elements with undefined length
	UndefItemLength bool

	// UndefEmptyItemLength writes items without data elements with undefined length
	UndefEmptyItemLength bool
}

var (
	// DefaultEncodeOptions writes undefined lengths for non-empty sequences and items, and
	// explicit zero lengths for empty ones.
	DefaultEncodeOptions = EncodeOptions{UndefSequenceLength: true, UndefItemLength: true}

	// ExplicitLengths ensures all sequences and sequence items are written with explicit length.
	ExplicitLengths = EncodeOptions{}

	// UndefinedLengths ensures all sequences and sequence items are written with undefined length.
	UndefinedLengths = EncodeOptions{
		UndefSequenceLength:      true,
		UndefEmptySequenceLength: true,
		UndefItemLength:          true,
		UndefEmptyItemLength:     true,
	}
)

func (o EncodeOptions) undefinedSequenceLength(empty bool) bool {
	if empty {
		return o.UndefEmptySequenceLength
	}
	return o.UndefSequenceLength
}

func (o EncodeOptions) undefinedItemLength(empty bool) bool {
	if empty {
		return o.UndefEmptyItemLength
	}
	return o.UndefItemLength
}
