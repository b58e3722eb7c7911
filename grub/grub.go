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
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"strings"

	"github.com/spf13/afero"
	"github.com/xerolinux/nv-setup/utility"
)

const (
	// ModesetParameter enables DRM kernel mode-setting in the nvidia driver.
	ModesetParameter = "nvidia-drm.modeset=1"

	cmdlineKey = `GRUB_CMDLINE_LINUX_DEFAULT="`
)

// EnableModeset inserts the mode-setting parameter as the first word of
// the GRUB_CMDLINE_LINUX_DEFAULT value and reports whether the file was
// rewritten. A system without the defaults file has nothing to
// configure, so a missing file is not an error.
func EnableModeset(fileSystem afero.Fs, path string) (bool, error) {

	info, statErr := fileSystem.Stat(path)
	if errors.Is(statErr, fs.ErrNotExist) {
		return false, nil
	}
	if statErr != nil {
		return false, statErr
	}

	contents, readErr := afero.ReadFile(fileSystem, path)
	if readErr != nil {
		return false, readErr
	}

	text := string(contents)

	// plain substring check, a match anywhere counts as already configured
	if strings.Contains(text, ModesetParameter) {
		return false, nil
	}

	updated := strings.Replace(text, cmdlineKey, cmdlineKey+ModesetParameter+" ", 1)
	if updated == text {
		return false, nil
	}

	if err := afero.WriteFile(fileSystem, path, []byte(updated), info.Mode()); err != nil {
		return false, err
	}

	return true, nil
}

func mkconfigCommand(outputPath string) *exec.Cmd {
	return exec.Command("grub-mkconfig", "-o", outputPath)
}

// Regenerate rebuilds the final grub configuration from the edited
// defaults file.
func Regenerate(ctx context.Context, outputPath string) error {
	return utility.RunCommandWithOutput(ctx, mkconfigCommand(outputPath))
}
