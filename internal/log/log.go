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

// Package log is the structured logger shared by the dicom packages. The level is read once from
// the DICOM_LOG_LEVEL environment variable and defaults to warn.
package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Keys used in log fields.
const (
	KeyError   = "error"
	KeyTag     = "tag"
	KeyVR      = "vr"
	KeyLength  = "length"
	KeyOffset  = "offset"
	KeyCharset = "charset"
)

// Logger is implemented by anything that can take leveled, structured messages.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warning(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	SetLevel(level string)
	SetLogWriter(writer io.Writer)
}

var dLog Logger

func init() {
	logger := logrus.New()
	logger.Formatter = &logrus.TextFormatter{TimestampFormat: time.RFC3339Nano, FullTimestamp: true}
	l := &defaultLogger{logger: logger}
	l.SetLevel(os.Getenv("DICOM_LOG_LEVEL"))
	dLog = l
}

type defaultLogger struct {
	logger *logrus.Logger
}

func (l *defaultLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.WithFields(fields).Debug(msg)
}

func (l *defaultLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.WithFields(fields).Info(msg)
}

func (l *defaultLogger) Warning(msg string, fields map[string]interface{}) {
	l.logger.WithFields(fields).Warning(msg)
}

func (l *defaultLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.WithFields(fields).Error(msg)
}

func (l *defaultLogger) SetLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		l.logger.SetLevel(logrus.DebugLevel)
	case "info":
		l.logger.SetLevel(logrus.InfoLevel)
	case "error":
		l.logger.SetLevel(logrus.ErrorLevel)
	default:
		l.logger.SetLevel(logrus.WarnLevel)
	}
}

func (l *defaultLogger) SetLogWriter(writer io.Writer) {
	l.logger.SetOutput(writer)
}

// SetLogger replaces the default logrus backed logger.
func SetLogger(logger Logger) {
	if logger != nil {
		dLog = logger
	}
}

// SetLogLevel changes the level of the current logger. An empty level is ignored.
func SetLogLevel(level string) {
	if level == "" {
		return
	}
	dLog.SetLevel(level)
}

// SetLogWriter redirects the output of the current logger.
func SetLogWriter(writer io.Writer) {
	if writer == nil {
		return
	}
	dLog.SetLogWriter(writer)
}

func Debug(msg string, fields map[string]interface{}) {
	dLog.Debug(msg, fields)
}

func Info(msg string, fields map[string]interface{}) {
	if msg == "" && len(fields) == 0 {
		return
	}
	dLog.Info(msg, fields)
}

func Warning(msg string, fields map[string]interface{}) {
	if msg == "" && len(fields) == 0 {
		return
	}
	dLog.Warning(msg, fields)
}

func Error(msg string, fields map[string]interface{}) {
	dLog.Error(msg, fields)
}
