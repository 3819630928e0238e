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

// Failure classes. Every error returned by this package that is caused by misuse of the data
// model wraps exactly one of these, so callers can classify it with errors.Is.
var (
	// ErrStructuralViolation reports an operation that would break the shape of the model:
	// re-parenting an owned sequence item, changing the byte order of a populated data set,
	// running out of private creator blocks or indexing outside a Sequence or Fragments.
	ErrStructuralViolation = errors.New("structural violation")

	// ErrUnsupportedConversion reports a value representation the VR cannot produce.
	ErrUnsupportedConversion = errors.New("unsupported conversion")

	// ErrEncodingViolation reports a binary payload whose length does not match the VR.
	ErrEncodingViolation = errors.New("encoding violation")

	// ErrInvalidValue reports text that does not parse as the number, date or time a VR holds,
	// an integer outside the range of a binary VR, or a private write without a creator.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidStream reports malformed input while reading a data set from a byte stream.
	ErrInvalidStream = errors.New("invalid stream")
)

func structuralViolation(format string, args ...interface{}) error {
	return errors.Wrapf(ErrStructuralViolation, format, args...)
}

func unsupportedConversion(vr *VR, target string) error {
	return errors.Wrapf(ErrUnsupportedConversion, "%s value cannot be converted to %s", vr.Name, target)
}

func encodingViolation(vr *VR, length int) error {
	return errors.Wrapf(ErrEncodingViolation, "%s value length %d is not a multiple of %d",
		vr.Name, length, vr.unit)
}

func invalidValue(vr *VR, s string) error {
	return errors.Wrapf(ErrInvalidValue, "%q is not a valid %s value", s, vr.Name)
}

func invalidStream(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidStream, format, args...)
}
