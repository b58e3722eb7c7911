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

package config

import (
	"errors"
	"io/fs"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Settings holds the file paths the tool edits and the module names it
// injects. Everything has a sensible default so the settings file is
// optional.
type Settings struct {
	GrubDefaultsPath string   `yaml:"grubDefaultsPath"`
	GrubConfigPath   string   `yaml:"grubConfigPath"`
	MkinitcpioPath   string   `yaml:"mkinitcpioPath"`
	Modules          []string `yaml:"modules"`
}

func Defaults() Settings {
	return Settings{
		GrubDefaultsPath: "/etc/default/grub",
		GrubConfigPath:   "/boot/grub/grub.cfg",
		MkinitcpioPath:   "/etc/mkinitcpio.conf",
		Modules:          []string{"nvidia", "nvidia_modeset", "nvidia_uvm", "nvidia_drm"},
	}
}

// Load reads the settings file at path, falling back to Defaults for a
// missing file or missing keys.
func Load(fileSystem afero.Fs, path string) (Settings, error) {
	settings := Defaults()

	contents, readErr := afero.ReadFile(fileSystem, path)
	if errors.Is(readErr, fs.ErrNotExist) {
		return settings, nil
	}
	if readErr != nil {
		return Settings{}, readErr
	}

	if err := yaml.Unmarshal(contents, &settings); err != nil {
		return Settings{}, err
	}

	return settings, nil
}
