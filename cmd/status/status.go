/*
 * Copyright 2025 The FerroSTOR Authors and Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package status

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ferrostor/ferret/internal/constants"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the ferret facade is running",
		Run: func(cmd *cobra.Command, args []string) {
			pidBytes, err := os.ReadFile(constants.FerretPIDFilePath)
			if err != nil {
				fmt.Println("Ferret facade is not running")
				return
			}
			pid := strings.TrimSpace(string(pidBytes))
			fmt.Printf("Ferret facade is running (pid %s)\n", pid)
		},
	}
}
