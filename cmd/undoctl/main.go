// Package main is the entry point for undoctl, an interactive shell that
// drives a Lua reducer through an undo/redo history.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if errors.Is(err, errQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "undoctl",
		Short:         "Drive a Lua reducer through an undo/redo history",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "undoctl %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start an interactive session reading commands from stdin",
		Long: `Start an interactive session.

Commands:
  undo | redo            step back or forward
  jump N                 move N steps (negative goes back)
  past I | future I      jump to an index in past or future
  clear                  drop past and future
  show                   print the current history
  quit                   leave the session
  KIND [ARGS...]         dispatch any other action to the script`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.limitSet = cmd.Flags().Changed("limit")

			sess, err := newSession(opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.Close()

			signals := make(chan os.Signal, 1)
			signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(signals)
			go func() {
				if _, ok := <-signals; ok {
					sess.Close()
					os.Exit(0)
				}
			}()

			return sess.Run()
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "undoctl.toml", "Path to settings file")
	f.StringVarP(&opts.scriptPath, "script", "s", "", "Path to Lua reducer script (overrides settings)")
	f.IntVar(&opts.limit, "limit", 0, "Maximum number of past states (overrides settings)")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.BoolVar(&opts.watch, "watch", false, "Reload the script when it changes")
	return cmd
}
