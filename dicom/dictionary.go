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

// VRLookup resolves the VR of an attribute that was encoded without one (implicit VR transfer
// syntax). creator is the private creator of the block holding tag, or empty for public tags.
type VRLookup func(tag DataElementTag, creator string) *VR

// dictionary holds the VRs of the tags this package names. Everything else is UN unless a
// VRLookup is supplied by the caller.
var dictionary = map[DataElementTag]*VR{
	FileMetaInformationGroupLengthTag: ULVR,
	FileMetaInformationVersionTag:     OBVR,
	MediaStorageSOPClassUIDTag:        UIVR,
	MediaStorageSOPInstanceUIDTag:     UIVR,
	TransferSyntaxUIDTag:              UIVR,
	ImplementationClassUIDTag:         UIVR,
	ImplementationVersionNameTag:      SHVR,
	SpecificCharacterSetTag:           CSVR,
	ImageTypeTag:                      CSVR,
	SOPClassUIDTag:                    UIVR,
	SOPInstanceUIDTag:                 UIVR,
	StudyDateTag:                      DAVR,
	SeriesDateTag:                     DAVR,
	ContentDateTag:                    DAVR,
	AcquisitionDateTimeTag:            DTVR,
	StudyTimeTag:                      TMVR,
	SeriesTimeTag:                     TMVR,
	ContentTimeTag:                    TMVR,
	AccessionNumberTag:                SHVR,
	ModalityTag:                       CSVR,
	TimezoneOffsetFromUTCTag:          SHVR,
	ReferencedStudySequenceTag:        SQVR,
	ReferencedImageSequenceTag:        SQVR,
	ReferencedSOPClassUIDTag:          UIVR,
	ReferencedSOPInstanceUIDTag:       UIVR,
	PatientNameTag:                    PNVR,
	PatientIDTag:                      LOVR,
	PatientBirthDateTag:               DAVR,
	PatientAgeTag:                     ASVR,
	PatientWeightTag:                  DSVR,
	SliceThicknessTag:                 DSVR,
	StudyInstanceUIDTag:               UIVR,
	SeriesInstanceUIDTag:              UIVR,
	SeriesNumberTag:                   ISVR,
	InstanceNumberTag:                 ISVR,
	ImagePositionPatientTag:           DSVR,
	SamplesPerPixelTag:                USVR,
	RowsTag:                           USVR,
	ColumnsTag:                        USVR,
	PixelSpacingTag:                   DSVR,
	BitsAllocatedTag:                  USVR,
	WindowCenterTag:                   DSVR,
	PixelDataProviderURLTag:           URVR,
	EncapsulatedDocumentTag:           OBVR,
	CurveDataTag:                      OWVR,
	AudioSampleDataTag:                OWVR,
	SpectroscopyDataTag:               OFVR,
	WaveformDataTag:                   OWVR,
	OverlayDataTag:                    OWVR,
	FloatPixelDataTag:                 OFVR,
	DoubleFloatPixelDataTag:           ODVR,
	PixelDataTag:                      OWVR,
}

// Repeating groups (50xx,eeee) and (60xx,eeee) are stored with the x's set to '0' in hex, so a
// tag of the form (50xx,3000) is found by looking up tag & 0xFF00FFFF.
const repeatingGroupMask = 0xFF00FFFF

func isRepeatingGroup(group uint16) bool {
	return group&0xFF00 == 0x5000 || group&0xFF00 == 0x6000
}

// DictionaryVR returns the VR of the tag in the built-in dictionary. Group length elements are
// UL, private creator elements are LO, and unknown tags are UN.
func (t DataElementTag) DictionaryVR() *VR {
	if t.IsGroupLength() {
		return ULVR
	}
	if t.IsPrivateCreator() {
		return LOVR
	}
	if vr, ok := dictionary[t]; ok {
		return vr
	}
	if isRepeatingGroup(t.GroupNumber()) {
		if vr, ok := dictionary[DataElementTag(uint32(t)&repeatingGroupMask)]; ok {
			return vr
		}
	}
	return UNVR
}

// DefaultVRLookup resolves VRs from the built-in dictionary. Private data elements other than
// the creator elements resolve to UN.
func DefaultVRLookup(tag DataElementTag, creator string) *VR {
	if tag.IsPrivate() && !tag.IsPrivateCreator() && !tag.IsGroupLength() {
		return UNVR
	}
	return tag.DictionaryVR()
}
