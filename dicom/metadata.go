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

// fileMetaInformationVersion is the value of (0002,0001): version 1 as a bit field.
var fileMetaInformationVersion = []byte{0x00, 0x01}

// NewFileMetaInformation returns the file meta information of a file holding ds in
// transferSyntaxUID. The SOP Class UID (0008,0016) and SOP Instance UID (0008,0018) of ds are
// required.
// http://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7.1
func NewFileMetaInformation(ds *Attributes, transferSyntaxUID string) (*Attributes, error) {
	classUID, err := ds.GetString(SOPClassUIDTag)
	if err != nil {
		return nil, err
	}
	if classUID == "" {
		return nil, fmt.Errorf("data set has no SOP Class UID %v", SOPClassUIDTag)
	}
	instanceUID, err := ds.GetString(SOPInstanceUIDTag)
	if err != nil {
		return nil, err
	}
	if instanceUID == "" {
		return nil, fmt.Errorf("data set has no SOP Instance UID %v", SOPInstanceUIDTag)
	}

	fmi := NewAttributes()
	puts := []struct {
		tag DataElementTag
		vr  *VR
		s   string
	}{
		{MediaStorageSOPClassUIDTag, UIVR, classUID},
		{MediaStorageSOPInstanceUIDTag, UIVR, instanceUID},
		{TransferSyntaxUIDTag, UIVR, transferSyntaxUID},
		{ImplementationClassUIDTag, UIVR, ImplementationClassUID},
		{ImplementationVersionNameTag, SHVR, ImplementationVersionName},
	}
	if err := fmi.PutBytes(FileMetaInformationVersionTag, OBVR, fileMetaInformationVersion); err != nil {
		return nil, err
	}
	for _, p := range puts {
		if err := fmi.PutStrings(p.tag, p.vr, p.s); err != nil {
			return nil, err
		}
	}
	return fmi, nil
}
