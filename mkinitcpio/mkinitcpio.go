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

// Package mkinitcpio edits the MODULES list of /etc/mkinitcpio.conf.
// The list is parsed into a small typed value, mutated, and serialized
// back in whichever representation the file already used, so repeated
// runs never duplicate an entry.
package mkinitcpio

import (
	"context"
	"os/exec"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"github.com/xerolinux/nv-setup/utility"
)

type listKind int

const (
	kindQuoted listKind = iota
	kindArray
)

type moduleList struct {
	kind  listKind
	items []string
}

// matches MODULES=(...) and MODULES="..." assignments on their own line
var moduleLine = regexp.MustCompile(`^MODULES=(?:\(([^)]*)\)|"([^"]*)")\s*$`)

func parseLine(line string) (moduleList, bool) {
	match := moduleLine.FindStringSubmatch(line)
	if match == nil {
		return moduleList{}, false
	}
	if strings.HasPrefix(line, "MODULES=(") {
		return moduleList{kind: kindArray, items: strings.Fields(match[1])}, true
	}
	return moduleList{kind: kindQuoted, items: strings.Fields(match[2])}, true
}

func (l *moduleList) ensure(modules []string) bool {
	changed := false
	for _, module := range modules {
		if !l.contains(module) {
			l.items = append(l.items, module)
			changed = true
		}
	}
	return changed
}

func (l moduleList) contains(module string) bool {
	for _, item := range l.items {
		if item == module {
			return true
		}
	}
	return false
}

func (l moduleList) String() string {
	joined := strings.Join(l.items, " ")
	if l.kind == kindQuoted {
		return `MODULES="` + joined + `"`
	}
	return "MODULES=(" + joined + ")"
}

// EnsureModules adds the given module names to the MODULES list,
// keeping existing entries and their order. A file without a MODULES
// assignment gets one appended in array form. Reports whether the file
// was rewritten.
func EnsureModules(fileSystem afero.Fs, path string, modules []string) (bool, error) {

	info, statErr := fileSystem.Stat(path)
	if statErr != nil {
		return false, statErr
	}

	contents, readErr := afero.ReadFile(fileSystem, path)
	if readErr != nil {
		return false, readErr
	}

	lines := strings.Split(string(contents), "\n")

	index := -1
	var list moduleList
	for i, line := range lines {
		if parsed, ok := parseLine(line); ok {
			index = i
			list = parsed
			break
		}
	}

	if index == -1 {
		list = moduleList{kind: kindArray}
		list.ensure(modules)
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = append(lines[:len(lines)-1], list.String(), "")
		} else {
			lines = append(lines, list.String())
		}
	} else {
		if !list.ensure(modules) {
			return false, nil
		}
		lines[index] = list.String()
	}

	updated := strings.Join(lines, "\n")
	if err := afero.WriteFile(fileSystem, path, []byte(updated), info.Mode()); err != nil {
		return false, err
	}

	return true, nil
}

func presetsCommand() *exec.Cmd {
	return exec.Command("mkinitcpio", "-P")
}

// Regenerate rebuilds the initramfs images for every preset so the
// injected modules actually end up in early boot.
func Regenerate(ctx context.Context) error {
	return utility.RunCommandWithOutput(ctx, presetsCommand())
}
