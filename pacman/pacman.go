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

package pacman

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/xerolinux/nv-setup/utility"
)

type Driver string

const (
	DriverClosed Driver = "closed"
	DriverOpen   Driver = "open"
)

// helpers are tried in order, paru first
var helpers = []string{"paru", "yay"}

var closedPackages = []string{
	"libvdpau",
	"egl-wayland",
	"nvidia-dkms",
	"nvidia-utils",
	"opencl-nvidia",
	"libvdpau-va-gl",
	"nvidia-settings",
	"vulkan-icd-loader",
	"lib32-nvidia-utils",
	"lib32-opencl-nvidia",
	"linux-firmware-nvidia",
	"lib32-vulkan-icd-loader",
}

var openPackages = []string{
	"libvdpau",
	"egl-wayland",
	"nvidia-utils",
	"opencl-nvidia",
	"libvdpau-va-gl",
	"nvidia-settings",
	"nvidia-open-dkms",
	"vulkan-icd-loader",
	"lib32-nvidia-utils",
	"lib32-opencl-nvidia",
	"linux-firmware-nvidia",
	"lib32-vulkan-icd-loader",
}

// Packages returns the package set for the requested driver flavor.
// The closed and open sets conflict with each other, so only one can
// be installed per run.
func Packages(driver Driver) ([]string, error) {
	switch driver {
	case DriverClosed:
		return closedPackages, nil
	case DriverOpen:
		return openPackages, nil
	default:
		return nil, fmt.Errorf("unknown driver flavor: %q (want %q or %q)", driver, DriverClosed, DriverOpen)
	}
}

// DetectHelper finds an installed AUR helper to drive the install.
func DetectHelper() (string, error) {
	for _, helper := range helpers {
		if _, err := exec.LookPath(helper); err == nil {
			return helper, nil
		}
	}
	return "", errors.New("no AUR helper detected (paru or yay required)")
}

func installCommand(helper string, packages []string) *exec.Cmd {
	args := append([]string{"-S", "--needed", "--noconfirm"}, packages...)
	return exec.Command(helper, args...)
}

// InstallDriver installs the package set for the given flavor through
// the detected AUR helper.
func InstallDriver(ctx context.Context, driver Driver) error {
	packages, packagesErr := Packages(driver)
	if packagesErr != nil {
		return packagesErr
	}

	helper, helperErr := DetectHelper()
	if helperErr != nil {
		return helperErr
	}

	return utility.RunCommandWithOutput(ctx, installCommand(helper, packages))
}
