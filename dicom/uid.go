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
	"math/big"

	"github.com/google/uuid"
)

// uidRoot is the root of UIDs derived from UUIDs as specified in
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_B.2
const uidRoot = "2.25."

var (
	// ImplementationClassUID identifies this package in the file meta information it creates.
	ImplementationClassUID = uuidToUID(uuid.NewSHA1(uuid.NameSpaceOID, []byte("github.com/GoogleCloudPlatform/go-dicom-attributes")))

	// ImplementationVersionName accompanies ImplementationClassUID.
	ImplementationVersionName = "GO_DICOM_ATTRS"
)

// CreateUID returns a new UID under the 2.25 root, derived from a random UUID.
func CreateUID() string {
	return uuidToUID(uuid.New())
}

// CreateNameBasedUID returns the UID derived from the name based (SHA-1) UUID of name. The same
// name always yields the same UID.
func CreateNameBasedUID(name []byte) string {
	return uuidToUID(uuid.NewSHA1(uuid.NameSpaceOID, name))
}

// uuidToUID writes the 128 bits of u as an unsigned decimal integer under the 2.25 root.
func uuidToUID(u uuid.UUID) string {
	return uidRoot + new(big.Int).SetBytes(u[:]).String()
}
