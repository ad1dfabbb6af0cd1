// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "oidcbridge",
	Short: "oidcbridge is an embeddable OIDC authentication add-on",
	Long: `oidcbridge performs an OAuth2/OIDC login handshake against an external
identity provider, mints and verifies application bearer tokens, and keeps
user, session and group records in sync with the provider.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
