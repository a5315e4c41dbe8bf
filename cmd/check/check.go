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

// Package check provides the check command, which replays a recorded
// session through the worker without a parent process.
package check

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tsworker/fs"
	"bennypowers.dev/tsworker/internal/config"
	"bennypowers.dev/tsworker/internal/output"
	"bennypowers.dev/tsworker/protocol"
)

// Cmd is the check command.
var Cmd = &cobra.Command{
	Use:   "check <session.json>",
	Short: "Replay a recorded session and report diagnostics",
	Long: `Replay a recorded session through the worker.

The session file is a JSON array of envelopes, exactly as a parent process
would send them: an init message followed by compile messages. Diagnostics
are printed to stdout. The command exits non-zero when any recheck reported
diagnostics.`,
	Example: `  tsworker check session.json
  tsworker check session.json --ignore "**/node_modules/**"`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

// progressLog stands in for the parent process.
type progressLog struct {
	logger *slog.Logger
}

func (p progressLog) Write(msg protocol.Message) error {
	p.logger.Debug("outbound message", "messageType", string(msg.Type()))
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	osfs := fs.NewOSFileSystem()

	data, err := osfs.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading session: %w", err)
	}
	var envelopes []json.RawMessage
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return fmt.Errorf("session must be a JSON array of envelopes: %w", err)
	}
	cmd.SilenceUsage = true

	logger := cfg.Logger(cmd.ErrOrStderr())
	reporter := output.NewConsole(cmd.OutOrStdout(), cfg.NoColor)
	w := cfg.Worker(progressLog{logger}, osfs, reporter, logger)

	cycles, failed := 0, 0
	for i, raw := range envelopes {
		msg, err := protocol.Decode(protocol.JSON, raw)
		if err != nil {
			return fmt.Errorf("envelope %d: %w", i, err)
		}
		result, err := w.Handle(cmd.Context(), msg)
		if err != nil {
			return fmt.Errorf("envelope %d: %w", i, err)
		}
		if result == nil {
			continue
		}
		cycles++
		if !result.OK() {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d rechecks reported diagnostics", failed, cycles)
	}
	return nil
}
