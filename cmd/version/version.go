/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package version provides the version command for tsworker.
package version

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bennypowers.dev/tsworker/fs"
	"bennypowers.dev/tsworker/internal/config"
	"bennypowers.dev/tsworker/internal/version"
)

// Cmd is the version command.
var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print version information for tsworker and the analysis engines it registers.`,
	RunE:  run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
}

func run(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("error reading format flag: %w", err)
	}
	engines := config.Config{CacheSize: 1}.Registry(fs.NewOSFileSystem()).Names()

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		info := map[string]any{"engines": engines}
		for k, v := range version.GetBuildInfo() {
			info[k] = v
		}
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling version info: %w", err)
		}
		fmt.Fprintln(out, string(data))
	default:
		fmt.Fprintf(out, "tsworker %s (engines: %s)\n", version.GetVersion(), strings.Join(engines, ", "))
	}
	return nil
}
