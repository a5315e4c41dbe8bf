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

// Command tsworker is an out-of-process incremental TypeScript type-checking
// worker.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tsworker/cmd/check"
	"bennypowers.dev/tsworker/cmd/serve"
	"bennypowers.dev/tsworker/cmd/version"
	"bennypowers.dev/tsworker/internal/config"
	"bennypowers.dev/tsworker/tsengine"
)

var (
	cfgFile        string
	cpuprofile     string
	cpuprofileFile *os.File
	rootCmd        = &cobra.Command{
		Use:   "tsworker",
		Short: "Incremental TypeScript type-checking worker",
		Long: `tsworker checks TypeScript sources sent by a parent process.

It keeps one analysis session alive across rechecks, reads files from the
snapshot it was sent rather than from disk, and resolves imports only
through the resolution table that accompanies each snapshot.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}
			if cpuprofile != "" {
				f, err := os.Create(cpuprofile)
				if err != nil {
					return fmt.Errorf("could not create CPU profile: %w", err)
				}
				cpuprofileFile = f
				if err := pprof.StartCPUProfile(f); err != nil {
					closeErr := f.Close()
					return errors.Join(
						fmt.Errorf("could not start CPU profile: %w", err),
						closeErr,
					)
				}
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cpuprofileFile != nil {
				pprof.StopCPUProfile()
				if err := cpuprofileFile.Close(); err != nil {
					return fmt.Errorf("closing CPU profile: %w", err)
				}
			}
			return nil
		},
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (json, yaml or toml)")
	flags.String(config.KeyLogLevel, "info", "Log level (debug, info, warn, error)")
	flags.Int(config.KeyCacheSize, tsengine.DefaultCacheSize, "Parsed files kept between rechecks")
	flags.StringSlice(config.KeyIgnore, nil, "Glob of files whose diagnostics are dropped (repeatable)")
	flags.Bool(config.KeyNoColor, false, "Disable colored output")
	flags.StringVar(&cpuprofile, "cpuprofile", "", "Write CPU profile to file")

	for _, key := range []string{config.KeyLogLevel, config.KeyCacheSize, config.KeyIgnore, config.KeyNoColor} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}
	config.SetDefaults(viper.GetViper())

	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(check.Cmd)
	rootCmd.AddCommand(version.Cmd)
}

func initConfig() error {
	config.BindEnv(viper.GetViper())
	if cfgFile == "" {
		return nil
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config %s: %w", cfgFile, err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
