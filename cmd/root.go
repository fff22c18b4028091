package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"threejs-mcp/internal/oauth"
	"threejs-mcp/internal/sketchfab"
	"threejs-mcp/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
)

// Credential configuration, shared by all commands through persistent
// flags. Each value takes precedence over its environment variable and the
// persisted credentials file (resolved per field).
var (
	flagAccessToken     string
	flagRefreshToken    string
	flagClientID        string
	flagClientSecret    string
	flagCredentialsFile string
	flagDebug           bool
)

// rootCmd represents the base command for the threejs application.
var rootCmd = &cobra.Command{
	Use:   "threejs",
	Short: "MCP server for Sketchfab 3D model search and retrieval",
	Long: `threejs exposes the Sketchfab model catalog to MCP hosts (AI assistants).
It serves a model search tool and, when OAuth2 credentials are configured,
a tool resolving direct GLTF download URLs. Expiring access tokens are
refreshed automatically and persisted back to the credentials file.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. Called from the main
// package to inject the build-time version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "threejs version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitCodeError)
	}
}

// initLogging configures the logging facade. All log output goes to stderr
// so the MCP stdio transport keeps stdout to itself.
func initLogging() {
	level := logging.LevelInfo
	if flagDebug {
		level = logging.LevelDebug
	}
	logging.Init(level, os.Stderr)
}

// newCatalogClient resolves the startup credentials and wires the token
// lifecycle into a catalog client. The returned credential is the resolved
// startup state, before any refresh.
func newCatalogClient() (*sketchfab.Client, oauth.Credential, error) {
	store, err := oauth.NewStore(flagCredentialsFile)
	if err != nil {
		return nil, oauth.Credential{}, err
	}

	cred := oauth.Resolve(store, oauth.Overrides{
		AccessToken:  flagAccessToken,
		RefreshToken: flagRefreshToken,
		ClientID:     flagClientID,
		ClientSecret: flagClientSecret,
	})

	lifecycle := oauth.NewLifecycle(cred, store)
	return sketchfab.NewClient(lifecycle), cred, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAccessToken, "sketchfab_access_token", "", "Sketchfab OAuth2 access token for authentication")
	rootCmd.PersistentFlags().StringVar(&flagRefreshToken, "sketchfab_refresh_token", "", "Sketchfab OAuth2 refresh token for renewing access")
	rootCmd.PersistentFlags().StringVar(&flagClientID, "sketchfab_client_id", "", "Sketchfab OAuth2 client ID")
	rootCmd.PersistentFlags().StringVar(&flagClientSecret, "sketchfab_client_secret", "", "Sketchfab OAuth2 client secret")
	rootCmd.PersistentFlags().StringVar(&flagCredentialsFile, "credentials_file", "", "Path to file with stored OAuth2 credentials (default ~/.sketchfab_credentials.json)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
}
