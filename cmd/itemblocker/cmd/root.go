// Package cmd provides the CLI commands for the item blocker daemon.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gjdunga/ModernItemBlocker/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "itemblocker",
	Short: "ModernItemBlocker - resource-access policy daemon",
	Long: `ModernItemBlocker decides, per access attempt, whether a named
resource is permanently blocked, blocked for a rolling window anchored to
the last epoch (wipe) event, or allowed. It keeps a tamper-resistant,
bounded-memory audit trail and accepts runtime edits of its block lists
without a restart.

Configuration:
  Config is loaded from itemblocker.yaml in the current directory,
  $HOME/.itemblocker/, or /etc/itemblocker/.

  Environment variables can override config values with the ITEMBLOCKER_
  prefix. Example: ITEMBLOCKER_AUDIT_FILE=/var/log/itemblocker-audit.log

Commands:
  start       Start the daemon and its console
  config      Print the default configuration as YAML
  hash-token  Generate an Argon2id hash for an admin token
  version     Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./itemblocker.yaml)")
}

func initConfig() {
	config.InitViper(cfgFile)
}
