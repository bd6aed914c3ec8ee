// Package cmd provides the CLI commands for studiodesk.
//
// This software is a derivative work based on Zeit (https://github.com/mrusme/zeit)
// Original work copyright (c) マリウス (mrusme)
// Modifications copyright (c) Manav Panchal
//
// Licensed under the SEGV License, Version 1.0
// See LICENSE file for full license text.
package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/studiodesk/internal/auth"
	"github.com/manav03panchal/studiodesk/internal/errors"
	"github.com/manav03panchal/studiodesk/internal/logging"
	"github.com/manav03panchal/studiodesk/internal/output"
	"github.com/manav03panchal/studiodesk/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat  string
	flagColor   string
	flagDebug   bool
	flagConfig  string
	flagKey     string
	flagDataDir string
)

// keyEnv supplies the access key when --key is not given.
const keyEnv = "STUDIODESK_KEY"

// annotationNoRuntime marks commands that run without the data directory.
const annotationNoRuntime = "studiodesk/no-runtime"

// ctx is the shared runtime context.
var ctx *runtime.Context

// formatter is used for errors when ctx was never built.
var formatter = output.NewFormatter()

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "studiodesk",
	Short: "Weekly agenda and postural assessments for a pilates studio",
	Long: `studiodesk keeps the weekly class agenda of a pilates studio and the
postural assessments of its clients, stored as CSV files that can be
mirrored to a GitHub repository.

Examples:
  studiodesk schedule
  studiodesk schedule add segunda 8h00 "Ana Souza" "Carla" --duration 50
  studiodesk schedule rm 3
  studiodesk assessment add "Ana Souza" --photo frente.jpg --photo lado.jpg
  studiodesk assessment compare 1 4`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(flagFormat)
		if err != nil {
			return usageError(err)
		}
		colorMode, err := output.ParseColorMode(flagColor)
		if err != nil {
			return usageError(err)
		}
		formatter.Format = format
		formatter.ColorMode = colorMode

		// Skip initialization for completion, help and commands that never
		// touch the data (but allow __complete for dynamic completions)
		if skipRuntime(cmd) {
			return nil
		}

		opts := runtime.DefaultOptions()
		opts.ConfigFile = flagConfig
		opts.DataDir = flagDataDir
		opts.Format = format
		opts.ColorMode = colorMode
		opts.Debug = flagDebug

		ctx, err = runtime.New(opts)
		if err != nil {
			return err
		}

		cmd.SetContext(logging.NewCommandContext(cmd.Context()))
		logging.DebugContext(cmd.Context(), "command started", logging.KeyOperation, cmd.CommandPath())

		return ctx.Authorize(accessKey(), func() (string, error) {
			return auth.Prompt(os.Stdin, os.Stderr, "Access key: ")
		})
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeRuntime()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: show the week
		return runScheduleShow(cmd, args)
	},
}

func skipRuntime(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "completion", "help", "version", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[annotationNoRuntime]; ok {
			return true
		}
	}
	return false
}

func noRuntime() map[string]string {
	return map[string]string{annotationNoRuntime: "true"}
}

func accessKey() string {
	if flagKey != "" {
		return flagKey
	}
	return os.Getenv(keyEnv)
}

// usageError turns a flag or argument problem into a user error.
func usageError(err error) error {
	return errors.NewUserError(err.Error(), "Run with --help to see usage")
}

// usageArgs wraps a positional argument check so its failure is a user
// error.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func closeRuntime() error {
	if ctx == nil {
		return nil
	}
	err := ctx.Close()
	ctx = nil
	return err
}

// Execute adds all child commands to the root command and runs it. The
// returned error is already reported when ReportError returns "".
func Execute(parent context.Context) error {
	err := rootCmd.ExecuteContext(parent)
	if err != nil {
		// PersistentPostRunE does not run after a failed command
		_ = closeRuntime()
		if strings.HasPrefix(err.Error(), "unknown command") {
			return usageError(err)
		}
	}
	return err
}

// ReportError renders err for the user. In JSON mode it is written to
// stdout and the returned text is empty.
func ReportError(err error) string {
	return runtime.PrintError(formatter, err)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"Config file (default $XDG_CONFIG_HOME/studiodesk/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagKey, "key", "",
		"Access key (or "+keyEnv+")")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "",
		"Data directory (overrides data_dir)")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	// Add commands
	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("studiodesk %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
		cmd.Println("")
		cmd.Println("Based on Zeit (https://github.com/mrusme/zeit)")
		cmd.Println("Licensed under SEGV License v1.0")
	},
}
