package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gjdunga/ModernItemBlocker/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default configuration as YAML",
	Long: `Print the documented default configuration as YAML.

Redirect this into itemblocker.yaml to get a starting config file:
  itemblocker config > itemblocker.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := yaml.Marshal(config.Default())
		if err != nil {
			return fmt.Errorf("marshal default config: %w", err)
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
