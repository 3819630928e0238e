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

package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetLogWriter(&buf)
	defer SetLogLevel("warn")

	SetLogLevel("warn")
	Info("hidden", map[string]interface{}{KeyTag: "(0008,0005)"})
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered at warn level, got %q", buf.String())
	}

	Warning("unknown character set", map[string]interface{}{KeyCharset: "ISO_IR 999"})
	if !strings.Contains(buf.String(), "unknown character set") {
		t.Fatalf("got %q, want warning message", buf.String())
	}
	if !strings.Contains(buf.String(), "ISO_IR 999") {
		t.Fatalf("got %q, want field value in output", buf.String())
	}

	buf.Reset()
	SetLogLevel("debug")
	Debug("reading element", map[string]interface{}{KeyLength: 4})
	if !strings.Contains(buf.String(), "reading element") {
		t.Fatalf("got %q, want debug message", buf.String())
	}
}
