/*
 * Copyright 2025 tomoncle.
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

package utils

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	ConfigureOutput(&out, &errOut)
	ConfigureConsoleColor(false)
	t.Cleanup(func() {
		ConfigureOutput(os.Stdout, os.Stderr)
		ConfigureConsoleColor(true)
	})
	return &out, &errOut
}

func TestLoggerSplitsStreams(t *testing.T) {
	out, errOut := captureOutput(t)
	lg := NewLogger("STREAMS")
	lg.SetLevel(logrus.InfoLevel)

	lg.Info("[SETUP] Table 'users' verified/created.")
	lg.Warn("plain text password")
	lg.Error("[SETUP] ERROR DURING DATABASE INITIALIZATION:")

	assert.Contains(t, out.String(), "INFO")
	assert.Contains(t, out.String(), "[SETUP] Table 'users' verified/created.")
	assert.Contains(t, out.String(), "plain text password")
	assert.NotContains(t, out.String(), "ERROR DURING")
	assert.Contains(t, errOut.String(), "ERROR")
	assert.Contains(t, errOut.String(), "ERROR DURING DATABASE INITIALIZATION")
	assert.Contains(t, out.String(), "logger_test.go:")
}

func TestSetLoggerLevel(t *testing.T) {
	out, _ := captureOutput(t)
	lg := NewLogger("LEVELS")

	require.True(t, SetLoggerLevel("LEVELS", "warn"))
	lg.Info("hidden")
	lg.Warn("shown")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "shown")

	assert.False(t, SetLoggerLevel("UNREGISTERED", "debug"))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel(" DEBUG "))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("verbose"))
}

func TestJSONFormat(t *testing.T) {
	out, _ := captureOutput(t)
	ConfigureConsoleLogFormat("json")
	t.Cleanup(func() { ConfigureConsoleLogFormat("text") })

	lg := NewLogger("JSONFMT")
	lg.SetLevel(logrus.InfoLevel)
	lg.WithField("email", "teste@ecostock.com").Info("[SETUP] Test user inserted.")

	line := strings.TrimSpace(out.String())
	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	assert.Equal(t, "info", rec["level"])
	assert.Equal(t, "JSONFMT", rec["model"])
	assert.Equal(t, "[SETUP] Test user inserted.", rec["message"])
	assert.Equal(t, map[string]interface{}{"email": "teste@ecostock.com"}, rec["fields"])
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("SETUP_TEST_FLAG", "false")
	t.Setenv("SETUP_TEST_NAME", "ecostock")
	assert.False(t, EnvDefaultBool("SETUP_TEST_FLAG", true))
	assert.True(t, EnvDefaultBool("SETUP_TEST_UNSET", true))
	assert.Equal(t, "ecostock", EnvDefaultString("SETUP_TEST_NAME", "x"))
	assert.Equal(t, "x", EnvDefaultString("SETUP_TEST_UNSET", "x"))
}
