package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gjdunga/ModernItemBlocker/internal/domain/auth"
)

var hashTokenCmd = &cobra.Command{
	Use:   "hash-token [token]",
	Short: "Generate an Argon2id hash for an admin token",
	Long: `Generate an Argon2id hash of an admin token for use in config.

The output can be added to the admin.token_hashes list.

Example:
  itemblocker hash-token "my-secret-token"

Security note: The token will appear in shell history.
Consider clearing history after use or using an environment variable:
  itemblocker hash-token "$MY_ADMIN_TOKEN"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashToken(args[0])
		if err != nil {
			return fmt.Errorf("hash token: %w", err)
		}
		fmt.Println(hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashTokenCmd)
}
