// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	saved := rootFlags
	t.Cleanup(func() { rootFlags = saved })
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := executeRoot(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "stableswap-script.json")
	assert.Contains(t, out, "/etc/stableswap-deploy/config.yaml")
	for _, name := range []string{"--config", "--debug", "--log-format"} {
		assert.Contains(t, out, name)
	}
	for _, sub := range []string{"build", "hash", "address", "version"} {
		assert.Contains(t, out, sub)
	}
}

func TestRootRejectsUnknownLogFormat(t *testing.T) {
	_, err := executeRoot(t, "--log-format", "xml", "version")
	require.ErrorIs(t, err, errLogFormat)
}
