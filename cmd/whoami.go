// ABOUTME: Whoami command showing the stored session and token expiry
// ABOUTME: Verifies the session against the backend when reachable

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/quillnet/quill-cli/internal/client"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Long:  `Show the stored session, its token expiry, and verify it against the backend.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runWhoami(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// whoamiInfo is the JSON output shape
type whoamiInfo struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	UserID    int64  `json:"user_id"`
	ExpiresAt string `json:"expires_at,omitempty"`
	Verified  bool   `json:"verified"`
}

// runWhoami reports the session state and returns an exit code
func runWhoami(ctx context.Context, w io.Writer) int {
	store := newSession()
	state := store.Current()

	if !state.Authenticated {
		fmt.Fprintln(w, "Not signed in. Run 'quill login' first.")
		return 1
	}

	info := whoamiInfo{
		Username: state.User.Username,
		Email:    state.User.Email,
		UserID:   state.User.ID,
	}
	if exp, ok := tokenExpiry(state.Token); ok {
		info.ExpiresAt = exp.Format(time.RFC3339)
	}

	// Confirm the token is still accepted; a rejection means the stored
	// session is stale.
	c := newClient(store)
	if user, err := c.Me(ctx); err == nil {
		info.Verified = true
		info.Username = user.Username
		info.Email = user.Email
		info.UserID = user.ID
	} else if errors.Is(err, client.ErrUnauthorized) {
		fmt.Fprintln(w, "Stored session has expired. Run 'quill login' again.")
		return 1
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatWhoamiJSON(info))
	} else {
		fmt.Fprintln(w, formatWhoamiHuman(info))
	}
	return 0
}

// tokenExpiry extracts the expiry claim without verifying the signature;
// only the backend holds the signing key.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// formatWhoamiHuman formats the session info for human readability
func formatWhoamiHuman(info whoamiInfo) string {
	verified := "no (backend unreachable)"
	if info.Verified {
		verified = "yes"
	}
	out := fmt.Sprintf(`Signed in as: %s <%s>
User ID:      %d
Verified:     %s`, info.Username, info.Email, info.UserID, verified)
	if info.ExpiresAt != "" {
		out += fmt.Sprintf("\nToken expiry: %s", info.ExpiresAt)
	}
	return out
}

// formatWhoamiJSON formats the session info as JSON
func formatWhoamiJSON(info whoamiInfo) string {
	data, _ := json.MarshalIndent(info, "", "  ")
	return string(data)
}
