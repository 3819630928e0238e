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

// Package dicom provides an in memory model of DICOM data sets and the codecs to read and write
// them.
//
// An Attributes holds the data elements of one data set ordered by tag. Values are kept in the
// form they were put in, raw bytes from a stream or typed values from an application, and are
// converted on access according to their VR. A value decoded into the natural form of its VR
// replaces the raw bytes, so repeated reads do not decode twice.
//
// Text values are decoded with the data set's Specific Character Set (0008,0005), including the
// ISO 2022 code extensions used for Japanese, Korean and Chinese. Nested data sets inherit the
// character set and the timezone of the data set holding their sequence.
//
// Private data elements are addressed through Attributes.Private, which resolves the block
// reserved for a private creator.
//
// ReadFile, ReadDataSet, WriteFile and WriteDataSet convert data sets from and to the byte
// streams of the transfer syntaxes in
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#chapter_10.
package dicom
