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

package main

import (
	"context"
	"log"

	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/xerolinux/nv-setup/config"
	"github.com/xerolinux/nv-setup/grub"
	"github.com/xerolinux/nv-setup/mkinitcpio"
	"github.com/xerolinux/nv-setup/pacman"
	"github.com/xerolinux/nv-setup/telemetry"
)

// steps
// * install driver packages (optional)
// * enable nvidia-drm.modeset=1 in the grub defaults
// * inject the nvidia modules into mkinitcpio.conf
// * regenerate grub.cfg and the initramfs

func main() {
	configPath := flag.StringP("config", "c", "/etc/nv-setup.yaml", "path to an optional settings file")
	driver := flag.StringP("driver", "d", "", "install driver packages first: closed or open")
	skipRegenerate := flag.Bool("skip-regenerate", false, "edit the configuration files without rebuilding grub.cfg or the initramfs")

	flag.Parse()

	ctx := context.Background()

	shutdown, telemetryErr := telemetry.Setup()
	if telemetryErr != nil {
		log.Printf("tracing disabled: %v", telemetryErr)
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Printf("could not flush traces: %v", err)
			}
		}()
	}

	localFS := afero.NewOsFs()

	settings, settingsErr := config.Load(localFS, *configPath)
	if settingsErr != nil {
		log.Fatalf("error loading settings: %v", settingsErr)
	}

	if *driver != "" {
		if err := pacman.InstallDriver(ctx, pacman.Driver(*driver)); err != nil {
			log.Fatalf("error installing driver packages: %v", err)
		}
	}

	// the two edits touch independent files
	var grubChanged bool
	group := new(errgroup.Group)
	group.Go(func() error {
		changed, err := grub.EnableModeset(localFS, settings.GrubDefaultsPath)
		grubChanged = changed
		return err
	})
	group.Go(func() error {
		_, err := mkinitcpio.EnsureModules(localFS, settings.MkinitcpioPath, settings.Modules)
		return err
	})
	if err := group.Wait(); err != nil {
		log.Fatalf("error editing boot configuration: %v", err)
	}

	if *skipRegenerate {
		return
	}

	if grubChanged {
		if err := grub.Regenerate(ctx, settings.GrubConfigPath); err != nil {
			log.Fatalf("error regenerating grub config: %v", err)
		}
	}

	if err := mkinitcpio.Regenerate(ctx); err != nil {
		log.Fatalf("error rebuilding initramfs: %v", err)
	}
}
