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

// Package serve provides the serve command, which runs the worker over
// stdin and stdout.
package serve

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tsworker/fs"
	"bennypowers.dev/tsworker/internal/config"
	"bennypowers.dev/tsworker/internal/output"
	"bennypowers.dev/tsworker/protocol"
)

// Cmd is the serve command.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the type-checking worker on stdin/stdout",
	Long: `Run the worker on the standard streams.

The parent process writes Content-Length framed envelopes to stdin: one init
message, then any number of compile messages. The worker answers on stdout
with progress messages around every recheck, and with a fatal error message
before it exits on a protocol violation or engine failure.

Diagnostics and logs go to stderr.`,
	Example: `  # JSON envelopes
  tsworker serve

  # msgpack envelopes, verbose logs
  tsworker serve --codec msgpack --log-level debug`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().String(config.KeyCodec, "json", "Envelope encoding (json, msgpack)")
	_ = viper.BindPFlag(config.KeyCodec, Cmd.Flags().Lookup(config.KeyCodec))
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	logger := cfg.Logger(os.Stderr)
	conn := protocol.NewConn(stdin(), os.Stdout, cfg.Codec)
	osfs := fs.NewOSFileSystem()
	w := cfg.Worker(conn, osfs, output.NewConsole(os.Stderr, cfg.NoColor), logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("worker listening", "codec", cfg.Codec.Name())
	return w.Serve(ctx, conn)
}

// stdin returns standard input switched to non-blocking mode so that
// closing it interrupts a pending read. Falls back to os.Stdin.
func stdin() *os.File {
	if err := syscall.SetNonblock(0, true); err != nil {
		return os.Stdin
	}
	if f := os.NewFile(0, "/dev/stdin"); f != nil {
		return f
	}
	return os.Stdin
}
