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

// ReadOption configures ReadFile and ReadDataSet.
type ReadOption func(*readConfig)

type readConfig struct {
	vrLookup         VRLookup
	bulkDataURI      string
	isBulkData       func(tag DataElementTag, vr *VR) bool
	dropGroupLengths bool
}

func newReadConfig(opts []ReadOption) *readConfig {
	cfg := &readConfig{vrLookup: DefaultVRLookup}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithVRLookup resolves the VRs of implicit VR data sets with lookup instead of the built-in
// dictionary.
func WithVRLookup(lookup VRLookup) ReadOption {
	return func(cfg *readConfig) {
		if lookup != nil {
			cfg.vrLookup = lookup
		}
	}
}

// WithBulkData keeps the values for which isBulkData returns true out of memory. They are stored
// as BulkData references to the bytes at uri, which must name the resource being read. Deflated
// data sets are always read into memory since their offsets do not map to the resource.
func WithBulkData(uri string, isBulkData func(tag DataElementTag, vr *VR) bool) ReadOption {
	return func(cfg *readConfig) {
		cfg.bulkDataURI = uri
		cfg.isBulkData = isBulkData
	}
}

// DropGroupLengths will exclude all group length elements (gggg,0000) from the returned data sets
func DropGroupLengths(cfg *readConfig) {
	cfg.dropGroupLengths = true
}

// bulkDataMasks handles all wildcards in the DICOM data dictionary. The value 0xFFFFFFFF is
// included in the list of masks for convenience since (tag & 0xFFFFFFFF) == tag
var bulkDataMasks = []uint32{0xFFFFFF00, 0xFFFFFF0F, 0xFFFF000F, 0xFFFF0000, 0xFF00FFFF, 0xFFFFFFFF}

// DefaultBulkDataDefinition returns true if and only if the tag corresponds to a data element
// that contains large non-metadata fields
func DefaultBulkDataDefinition(tag DataElementTag, vr *VR) bool {
	// Tags in the DICOM data dictionary have wildcards (e.g. tags like (gggg,eexx), (ggxx,eeee))
	// The tag library stores the value of the tag with the x's set to '0' in hex.
	// For example the Curve Data tag is defined as (50xx,3000). The variable
	// CurveDataTag = 0x50003000. So we can check if a given tag is of the form (50xx,3000) from
	// the condition (tag & 0xFF00FFFF) == CurveDataTag.
	for _, m := range bulkDataMasks {
		switch DataElementTag(uint32(tag) & m) {
		case PixelDataProviderURLTag, AudioSampleDataTag, CurveDataTag, SpectroscopyDataTag,
			OverlayDataTag, EncapsulatedDocumentTag, FloatPixelDataTag, DoubleFloatPixelDataTag,
			PixelDataTag, WaveformDataTag:
			return true
		}
	}
	return false
}
