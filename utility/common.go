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

package utility

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/xerolinux/nv-setup/telemetry"
)

func RunCommandWithOutput(ctx context.Context, cmd *exec.Cmd) error {

	_, span := telemetry.GetTracer().Start(ctx, fmt.Sprintf("running command: %s", cmd.String()))
	defer span.End()
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("non zero exit code exit code: %v, output: %s", err, string(output))
	}

	return nil
}
