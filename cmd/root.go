// ABOUTME: Root command for the quill CLI
// ABOUTME: Handles global flags, configuration and shared client construction

package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/quillnet/quill-cli/internal/client"
	"github.com/quillnet/quill-cli/internal/session"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	jsonOutput bool
	configDir  string
)

const defaultAPIURL = "http://localhost:5000"

// rootCmd is the base command. Running it without a subcommand opens the
// interactive UI.
var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Terminal client for the Quill article platform",
	Long: `quill is a terminal client for the Quill knowledge-sharing platform.

Browse, search, write and manage articles, with AI-backed writing assists.
Running quill without a subcommand opens the interactive UI.

Environment Variables:
  QUILL_API_URL     Backend API URL (default: http://localhost:5000)
  QUILL_CONFIG_DIR  Session and log directory (default: ~/.config/quill)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUI()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A .env next to the binary is a convenience for development setups
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides QUILL_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Session and log directory (overrides QUILL_CONFIG_DIR)")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("QUILL_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// GetConfigDir returns the configuration directory for session and logs
func GetConfigDir() string {
	if configDir != "" {
		return configDir
	}
	return session.DefaultConfigDir()
}

// newSession opens the persisted session store
func newSession() *session.Store {
	return session.New(GetConfigDir())
}

// newClient builds an API client that authenticates with the stored session
func newClient(store *session.Store) *client.Client {
	return client.New(GetAPIURL(), client.WithTokenSource(store.Token))
}
