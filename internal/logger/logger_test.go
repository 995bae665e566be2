/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type LoggerTestSuite struct {
	suite.Suite
	saved int
	out   *bytes.Buffer
	log   *Logger
}

func (s *LoggerTestSuite) SetupTest() {
	s.saved = Level()
	s.out = new(bytes.Buffer)
	s.log = New("test", s.out)
}

func (s *LoggerTestSuite) TearDownTest() {
	SetLevel(s.saved)
}

func (s *LoggerTestSuite) TestLogColor() {
	SetLevel(LevelTrace)

	s.log.Tracef("this is tracef %s", "hello world")
	s.log.Debugf("debug message")
	s.log.Infof("this is infof %s", "hello world")
	s.log.Info("this is info")
	s.log.Warnf("warn message")
	s.log.Errorf("this is errorf %s", "hello world")
	s.log.Error("this is error")

	lines := strings.Split(strings.TrimRight(s.out.String(), "\n"), "\n")
	s.Len(lines, 7)
	for i, name := range []string{"Trace", "Debug", "Info", "Info", "Warn", "Error", "Error"} {
		s.Contains(lines[i], name)
		s.Contains(lines[i], "logger_test.go:")
		s.Contains(lines[i], " test ")
	}
	s.Contains(lines[0], "this is tracef hello world")
	s.Contains(lines[3], "this is info")
}

func (s *LoggerTestSuite) TestLevelFilters() {
	SetLevel(LevelWarn)
	s.log.Infof("hidden")
	s.log.Debugf("hidden")
	s.Empty(s.out.String())

	s.log.Warnf("shown")
	s.Contains(s.out.String(), "shown")
}

func (s *LoggerTestSuite) TestNoPrintSilencesErrors() {
	SetLevel(LevelNoPrint)
	s.log.Errorf("hidden")
	s.Empty(s.out.String())
}

func (s *LoggerTestSuite) TestSetLevelIgnoresOutOfRange() {
	SetLevel(LevelInfo)
	SetLevel(LevelNoPrint + 1)
	s.Equal(LevelInfo, Level())
	SetLevel(-1)
	s.Equal(LevelInfo, Level())
}

func TestLoggerTestSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}
