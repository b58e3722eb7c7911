/*
 * Copyright (c) 2024 XeroLinux
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package grub

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

const defaultsPath = "/etc/default/grub"

func writeDefaults(t *testing.T, fileSystem afero.Fs, contents string) {
	t.Helper()
	if err := afero.WriteFile(fileSystem, defaultsPath, []byte(contents), 0644); err != nil {
		t.Fatalf("could not seed defaults file: %v", err)
	}
}

func readDefaults(t *testing.T, fileSystem afero.Fs) string {
	t.Helper()
	contents, err := afero.ReadFile(fileSystem, defaultsPath)
	if err != nil {
		t.Fatalf("could not read defaults file: %v", err)
	}
	return string(contents)
}

func TestEnableModesetInsertsAfterOpeningQuote(t *testing.T) {
	fileSystem := afero.NewMemMapFs()
	writeDefaults(t, fileSystem, "GRUB_TIMEOUT=5\nGRUB_CMDLINE_LINUX_DEFAULT=\"loglevel=3 quiet\"\nGRUB_CMDLINE_LINUX=\"\"\n")

	changed, err := EnableModeset(fileSystem, defaultsPath)
	assert.NoError(t, err)
	assert.True(t, changed)

	expected := "GRUB_TIMEOUT=5\nGRUB_CMDLINE_LINUX_DEFAULT=\"nvidia-drm.modeset=1 loglevel=3 quiet\"\nGRUB_CMDLINE_LINUX=\"\"\n"
	assert.Equal(t, expected, readDefaults(t, fileSystem))
}

func TestEnableModesetIsIdempotent(t *testing.T) {
	fileSystem := afero.NewMemMapFs()
	writeDefaults(t, fileSystem, "GRUB_CMDLINE_LINUX_DEFAULT=\"quiet splash\"\n")

	changed, err := EnableModeset(fileSystem, defaultsPath)
	assert.NoError(t, err)
	assert.True(t, changed)
	first := readDefaults(t, fileSystem)

	changed, err = EnableModeset(fileSystem, defaultsPath)
	assert.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, first, readDefaults(t, fileSystem))
	assert.Equal(t, 1, strings.Count(first, ModesetParameter))
}

func TestEnableModesetLeavesConfiguredFileAlone(t *testing.T) {
	fileSystem := afero.NewMemMapFs()
	original := "GRUB_CMDLINE_LINUX_DEFAULT=\"quiet nvidia-drm.modeset=1 splash\"\n"
	writeDefaults(t, fileSystem, original)

	changed, err := EnableModeset(fileSystem, defaultsPath)
	assert.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, original, readDefaults(t, fileSystem))
}

func TestEnableModesetSkipsMissingFile(t *testing.T) {
	fileSystem := afero.NewMemMapFs()

	changed, err := EnableModeset(fileSystem, defaultsPath)
	assert.NoError(t, err)
	assert.False(t, changed)
}

func TestEnableModesetSkipsFileWithoutCmdlineKey(t *testing.T) {
	fileSystem := afero.NewMemMapFs()
	original := "GRUB_TIMEOUT=5\n"
	writeDefaults(t, fileSystem, original)

	changed, err := EnableModeset(fileSystem, defaultsPath)
	assert.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, original, readDefaults(t, fileSystem))
}

func TestMkconfigCommand(t *testing.T) {
	cases := []struct {
		input    string
		expected []string
	}{
		{
			input:    "/boot/grub/grub.cfg",
			expected: []string{"grub-mkconfig", "-o", "/boot/grub/grub.cfg"},
		},
	}
	for index, tt := range cases {
		actual := mkconfigCommand(tt.input)
		if !reflect.DeepEqual(actual.Args, tt.expected) {
			t.Errorf("mkconfigCommand(%d): expected %v, actual %v", index, tt.expected, actual.Args)
		}
	}
}
