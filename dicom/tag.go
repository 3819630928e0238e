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

import "fmt"

// DataElementTag is a unique identifier for a Data Element composed of an unordered pair
// of numbers called the group number and the element number as specified in
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_3.10.
//
// The least significant 16 bits is the element number. The most significant 16 bits is the group
// number.
type DataElementTag uint32

// NewDataElementTag joins a group number and an element number.
func NewDataElementTag(group, element uint16) DataElementTag {
	return DataElementTag(uint32(group)<<16 | uint32(element))
}

// GroupNumber returns the group number component of the DataElementTag
func (t DataElementTag) GroupNumber() uint16 {
	return uint16(t >> 16)
}

// ElementNumber returns the element number component of the DataElementTag
func (t DataElementTag) ElementNumber() uint16 {
	return uint16(t & 0xFFFF)
}

// IsMetaElement is true if and only if the Data Element is a file meta element
func (t DataElementTag) IsMetaElement() bool {
	return t.GroupNumber() == 0x0002
}

// IsPrivate is true if the tag belongs to an odd, and therefore private, group
func (t DataElementTag) IsPrivate() bool {
	return t.GroupNumber()&1 == 1
}

// IsPrivateCreator is true for (gggg,0010-00FF) in an odd group. These elements hold the
// creator identification of a private block.
func (t DataElementTag) IsPrivateCreator() bool {
	e := t.ElementNumber()
	return t.IsPrivate() && e >= firstCreatorSlot && e <= lastCreatorSlot
}

// IsGroupLength is true for (gggg,0000)
func (t DataElementTag) IsGroupLength() bool {
	return t.ElementNumber() == 0
}

func (t DataElementTag) String() string {
	return fmt.Sprintf("(%04X,%04X)", t.GroupNumber(), t.ElementNumber())
}

// Item and delimitation tags as specified in
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.5
const (
	ItemTag                     DataElementTag = 0xFFFEE000
	ItemDelimitationItemTag     DataElementTag = 0xFFFEE00D
	SequenceDelimitationItemTag DataElementTag = 0xFFFEE0DD
)

// Tags referenced by this package. The full data dictionary is an external collaborator, see
// VRLookup.
const (
	FileMetaInformationGroupLengthTag DataElementTag = 0x00020000
	FileMetaInformationVersionTag     DataElementTag = 0x00020001
	MediaStorageSOPClassUIDTag        DataElementTag = 0x00020002
	MediaStorageSOPInstanceUIDTag     DataElementTag = 0x00020003
	TransferSyntaxUIDTag              DataElementTag = 0x00020010
	ImplementationClassUIDTag         DataElementTag = 0x00020012
	ImplementationVersionNameTag      DataElementTag = 0x00020013
	SpecificCharacterSetTag           DataElementTag = 0x00080005
	ImageTypeTag                      DataElementTag = 0x00080008
	SOPClassUIDTag                    DataElementTag = 0x00080016
	SOPInstanceUIDTag                 DataElementTag = 0x00080018
	StudyDateTag                      DataElementTag = 0x00080020
	SeriesDateTag                     DataElementTag = 0x00080021
	ContentDateTag                    DataElementTag = 0x00080023
	AcquisitionDateTimeTag            DataElementTag = 0x0008002A
	StudyTimeTag                      DataElementTag = 0x00080030
	SeriesTimeTag                     DataElementTag = 0x00080031
	ContentTimeTag                    DataElementTag = 0x00080033
	AccessionNumberTag                DataElementTag = 0x00080050
	ModalityTag                       DataElementTag = 0x00080060
	TimezoneOffsetFromUTCTag          DataElementTag = 0x00080201
	ReferencedStudySequenceTag        DataElementTag = 0x00081110
	ReferencedImageSequenceTag        DataElementTag = 0x00081140
	ReferencedSOPClassUIDTag          DataElementTag = 0x00081150
	ReferencedSOPInstanceUIDTag       DataElementTag = 0x00081155
	PatientNameTag                    DataElementTag = 0x00100010
	PatientIDTag                      DataElementTag = 0x00100020
	PatientBirthDateTag               DataElementTag = 0x00100030
	PatientAgeTag                     DataElementTag = 0x00101010
	PatientWeightTag                  DataElementTag = 0x00101030
	SliceThicknessTag                 DataElementTag = 0x00180050
	StudyInstanceUIDTag               DataElementTag = 0x0020000D
	SeriesInstanceUIDTag              DataElementTag = 0x0020000E
	SeriesNumberTag                   DataElementTag = 0x00200011
	InstanceNumberTag                 DataElementTag = 0x00200013
	ImagePositionPatientTag           DataElementTag = 0x00200032
	SamplesPerPixelTag                DataElementTag = 0x00280002
	RowsTag                           DataElementTag = 0x00280010
	ColumnsTag                        DataElementTag = 0x00280011
	PixelSpacingTag                   DataElementTag = 0x00280030
	BitsAllocatedTag                  DataElementTag = 0x00280100
	WindowCenterTag                   DataElementTag = 0x00281050
	PixelDataProviderURLTag           DataElementTag = 0x00287FE0
	EncapsulatedDocumentTag           DataElementTag = 0x00420011
	CurveDataTag                      DataElementTag = 0x50003000
	AudioSampleDataTag                DataElementTag = 0x5000200C
	SpectroscopyDataTag               DataElementTag = 0x56000020
	WaveformDataTag                   DataElementTag = 0x54001010
	OverlayDataTag                    DataElementTag = 0x60003000
	FloatPixelDataTag                 DataElementTag = 0x7FE00008
	DoubleFloatPixelDataTag           DataElementTag = 0x7FE00009
	PixelDataTag                      DataElementTag = 0x7FE00010
)
