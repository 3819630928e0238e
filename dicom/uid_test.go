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
	"regexp"
	"testing"

	"github.com/google/uuid"
)

var uidPattern = regexp.MustCompile(`^2\.25\.(0|[1-9][0-9]*)$`)

func TestCreateUID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		uid := CreateUID()
		if !uidPattern.MatchString(uid) {
			t.Fatalf("CreateUID() = %q, not a 2.25 UID", uid)
		}
		if len(uid) > 64 {
			t.Fatalf("CreateUID() = %q, longer than 64 characters", uid)
		}
		if seen[uid] {
			t.Fatalf("CreateUID() returned %q twice", uid)
		}
		seen[uid] = true
	}
}

func TestCreateNameBasedUID(t *testing.T) {
	a, b := CreateNameBasedUID([]byte("study 1")), CreateNameBasedUID([]byte("study 1"))
	if a != b {
		t.Fatalf("got %q and %q for the same name", a, b)
	}
	if c := CreateNameBasedUID([]byte("study 2")); c == a {
		t.Fatalf("got %q for different names", c)
	}
	if !uidPattern.MatchString(ImplementationClassUID) {
		t.Fatalf("ImplementationClassUID = %q, not a 2.25 UID", ImplementationClassUID)
	}
}

func TestUUIDToUID(t *testing.T) {
	tests := []struct {
		in   uuid.UUID
		want string
	}{
		{uuid.Nil, "2.25.0"},
		{uuid.MustParse("00000000-0000-0000-0000-000000000101"), "2.25.257"},
		{uuid.MustParse("f81d4fae-7dec-11d0-a765-00a0c91e6bf6"), "2.25.329800735698586629295641978511506172918"},
	}
	for _, tc := range tests {
		if got := uuidToUID(tc.in); got != tc.want {
			t.Errorf("uuidToUID(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
