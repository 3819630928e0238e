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
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const (
	japaneseName      = "Yamada^Tarou=山田^太郎"
	japaneseNameBytes = "Yamada^Tarou=\x1b$B;3ED\x1b(B^\x1b$BB@O:\x1b(B"
	koreanName        = "Hong^Gildong=홍^길동"
	koreanNameBytes   = "Hong^Gildong=\x1b$)C\xc8\xab^\x1b$)C\xb1\xe6\xb5\xbf"
)

func TestSpecificCharacterSet_SingleByte(t *testing.T) {
	Convey("Given a character set without code extensions", t, func() {
		Convey("the default repertoire is ASCII", func() {
			cs := NewSpecificCharacterSet()
			So(cs, ShouldEqual, ASCII)
			So(cs.IsASCII(), ShouldBeTrue)
			So(cs.Decode([]byte("Doe^John")), ShouldEqual, "Doe^John")
			So(NewSpecificCharacterSet(" ").IsASCII(), ShouldBeTrue)
		})

		Convey("ISO_IR 100 decodes and encodes latin 1", func() {
			cs := NewSpecificCharacterSet("ISO_IR 100")
			So(cs.IsASCII(), ShouldBeFalse)
			So(cs.ContainsASCII(), ShouldBeTrue)
			So(cs.Decode([]byte("Buc^J\xe9r\xf4me")), ShouldEqual, "Buc^Jérôme")
			So(string(cs.Encode("Buc^Jérôme", "^")), ShouldEqual, "Buc^J\xe9r\xf4me")
		})

		Convey("ISO_IR 144 decodes cyrillic", func() {
			cs := NewSpecificCharacterSet("ISO_IR 144")
			So(cs.Decode([]byte("\xbb\xee\xda")), ShouldEqual, "Люк")
			So(string(cs.Encode("Люк", "")), ShouldEqual, "\xbb\xee\xda")
		})

		Convey("ISO_IR 192 is UTF-8", func() {
			cs := NewSpecificCharacterSet("ISO_IR 192")
			So(cs.Decode([]byte("Wang^XiaoDong=王^小東")), ShouldEqual, "Wang^XiaoDong=王^小東")
			So(string(cs.Encode("王^小東", "^")), ShouldEqual, "王^小東")
		})

		Convey("GB18030 ignores further code extensions", func() {
			cs := NewSpecificCharacterSet("GB18030", "ISO 2022 IR 87")
			So(cs.Decode([]byte("\xcd\xf5")), ShouldEqual, "王")
		})

		Convey("the single byte ISO 2022 term is the same character set", func() {
			cs := NewSpecificCharacterSet("ISO 2022 IR 100")
			So(cs.Decode([]byte("\xe9")), ShouldEqual, "é")
		})

		Convey("an unknown term falls back to the default repertoire", func() {
			cs := NewSpecificCharacterSet("ISO_IR 999")
			So(cs.Decode([]byte("abc")), ShouldEqual, "abc")
			So(cs.Codes(), ShouldResemble, []string{"ISO_IR 999"})
		})
	})
}

func TestSpecificCharacterSet_ISO2022(t *testing.T) {
	Convey("Given ISO 2022 code extensions", t, func() {
		Convey("JIS X 0208 escapes switch G0 and ESC ( B restores ASCII", func() {
			cs := NewSpecificCharacterSet("", "ISO 2022 IR 87")
			So(cs.IsASCII(), ShouldBeFalse)
			So(cs.ContainsASCII(), ShouldBeTrue)
			So(cs.Decode([]byte("\x1b$B;3ED\x1b(Babc")), ShouldEqual, "山田abc")
			So(cs.Decode([]byte(japaneseNameBytes)), ShouldEqual, japaneseName)
		})

		Convey("person names are encoded with resets before every delimiter", func() {
			cs := NewSpecificCharacterSet("", "ISO 2022 IR 87")
			So(string(cs.Encode(japaneseName, PNVR.delimiters())), ShouldEqual, japaneseNameBytes)
		})

		Convey("KS X 1001 is designated to G1", func() {
			cs := NewSpecificCharacterSet("", "ISO 2022 IR 149")
			So(cs.Decode([]byte(koreanNameBytes)), ShouldEqual, koreanName)
			So(string(cs.Encode(koreanName, PNVR.delimiters())), ShouldEqual, koreanNameBytes)
		})

		Convey("ISO_IR terms are read as their ISO 2022 form", func() {
			cs := NewSpecificCharacterSet("ISO_IR 6", "ISO_IR 87")
			So(cs.Decode([]byte("\x1b$B;3ED\x1b(B")), ShouldEqual, "山田")
		})

		Convey("JIS X 0201 katakana in G1 and romaji in G0", func() {
			cs := NewSpecificCharacterSet("ISO 2022 IR 13", "ISO 2022 IR 87")
			So(cs.ContainsASCII(), ShouldBeFalse)
			So(cs.Decode([]byte("\xd4\xcf\xc0\xde^\xc0\xdb\xb3")), ShouldEqual, "ﾔﾏﾀﾞ^ﾀﾛｳ")
		})

		Convey("an unknown escape sequence is kept and decoding continues", func() {
			cs := NewSpecificCharacterSet("", "ISO 2022 IR 87")
			So(cs.Decode([]byte("\x1b(Zabc")), ShouldEqual, "\x1b(Zabc")
			So(cs.Decode([]byte("\x1b$(Zab\x1b$B;3")), ShouldEqual, "\x1b$(Zab山")
		})

		Convey("an unknown code extension is ignored", func() {
			cs := NewSpecificCharacterSet("", "ISO 2022 IR 999", "ISO 2022 IR 87")
			So(cs.Decode([]byte("\x1b$B;3ED")), ShouldEqual, "山田")
		})

		Convey("characters no designated set can represent are replaced", func() {
			cs := NewSpecificCharacterSet("", "ISO 2022 IR 87")
			So(string(cs.Encode("a한", "")), ShouldEqual, "a?")
		})
	})
}

func TestSpecificCharacterSet_Equal(t *testing.T) {
	Convey("Character sets are equal when created from the same terms", t, func() {
		So(NewSpecificCharacterSet("ISO_IR 100").Equal(NewSpecificCharacterSet(" ISO_IR 100 ")), ShouldBeTrue)
		So(NewSpecificCharacterSet("ISO_IR 100").Equal(NewSpecificCharacterSet("ISO_IR 101")), ShouldBeFalse)
		So(NewSpecificCharacterSet("", "ISO 2022 IR 87").String(), ShouldEqual, "\\ISO 2022 IR 87")
		So(ASCII.String(), ShouldEqual, "ISO_IR 6")
	})
}

func TestAttributes_SpecificCharacterSet(t *testing.T) {
	Convey("Given a data set with a Specific Character Set", t, func() {
		a := NewAttributes()
		So(a.PutStrings(SpecificCharacterSetTag, CSVR, "", "ISO 2022 IR 87"), ShouldBeNil)
		So(a.PutBytes(PatientNameTag, PNVR, []byte(japaneseNameBytes)), ShouldBeNil)

		Convey("raw text is decoded with it", func() {
			s, err := a.GetString(PatientNameTag)
			So(err, ShouldBeNil)
			So(s, ShouldEqual, japaneseName)
		})

		Convey("text is encoded with it", func() {
			So(a.PutStrings(PatientNameTag, PNVR, japaneseName), ShouldBeNil)
			b, err := a.GetBytes(PatientNameTag)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, japaneseNameBytes)
		})

		Convey("items of its sequences inherit it", func() {
			seq, err := a.NewSequence(ReferencedStudySequenceTag)
			So(err, ShouldBeNil)
			item := seq.NewItem()
			So(item.SpecificCharacterSet().Codes(), ShouldResemble, []string{"", "ISO 2022 IR 87"})
			So(item.PutBytes(PatientNameTag, PNVR, []byte(japaneseNameBytes)), ShouldBeNil)
			s, err := item.GetString(PatientNameTag)
			So(err, ShouldBeNil)
			So(s, ShouldEqual, japaneseName)
		})

		Convey("an item with an empty value of its own uses the default repertoire", func() {
			seq, err := a.NewSequence(ReferencedStudySequenceTag)
			So(err, ShouldBeNil)
			item := seq.NewItem()
			So(item.PutNull(SpecificCharacterSetTag, CSVR), ShouldBeNil)
			So(item.SpecificCharacterSet().IsASCII(), ShouldBeTrue)
			So(item.PutStrings(SpecificCharacterSetTag, CSVR, ""), ShouldBeNil)
			So(item.SpecificCharacterSet().IsASCII(), ShouldBeTrue)
			So(item.Remove(SpecificCharacterSetTag), ShouldBeTrue)
			So(item.SpecificCharacterSet().Codes(), ShouldResemble, []string{"", "ISO 2022 IR 87"})
		})

		Convey("VRs restricted to the default repertoire are not decoded", func() {
			So(a.PutBytes(ModalityTag, CSVR, []byte("MR")), ShouldBeNil)
			s, err := a.GetString(ModalityTag)
			So(err, ShouldBeNil)
			So(s, ShouldEqual, "MR")
		})

		Convey("changing it takes effect immediately", func() {
			So(a.PutStrings(SpecificCharacterSetTag, CSVR, "ISO_IR 100"), ShouldBeNil)
			So(a.SpecificCharacterSet().Codes(), ShouldResemble, []string{"ISO_IR 100"})
			So(a.Remove(SpecificCharacterSetTag), ShouldBeTrue)
			So(a.SpecificCharacterSet().IsASCII(), ShouldBeTrue)
		})
	})
}
