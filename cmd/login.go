// ABOUTME: Login, signup and logout commands for the quill CLI
// ABOUTME: Persists the session token for later commands and the UI

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/quillnet/quill-cli/internal/client"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string

	signupUsername string
	signupEmail    string
	signupPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long:  `Sign in to the backend and store the session token for later commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogin(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and store the session",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runSignup(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runLogout(os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")

	signupCmd.Flags().StringVar(&signupUsername, "username", "", "Display name (prompted when omitted)")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "Account email (prompted when omitted)")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "Account password (prompted when omitted)")
}

// runLogin executes the login flow and returns an exit code
func runLogin(ctx context.Context, w io.Writer) int {
	email, password := loginEmail, loginPassword
	if email == "" || password == "" {
		if err := promptCredentials(&email, &password); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}

	store := newSession()
	c := newClient(store)

	resp, err := c.Login(ctx, client.LoginInput{Email: email, Password: password})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if err := store.Login(resp.Token, resp.User); err != nil {
		fmt.Fprintf(w, "Error: could not persist session: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatUserJSON(&resp.User))
	} else {
		fmt.Fprintf(w, "Signed in as %s <%s>\n", resp.User.Username, resp.User.Email)
	}
	return 0
}

// runSignup executes the signup flow and returns an exit code
func runSignup(ctx context.Context, w io.Writer) int {
	username, email, password := signupUsername, signupEmail, signupPassword
	if username == "" || email == "" || password == "" {
		if err := promptSignup(&username, &email, &password); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}

	store := newSession()
	c := newClient(store)

	resp, err := c.Signup(ctx, client.SignupInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if err := store.Login(resp.Token, resp.User); err != nil {
		fmt.Fprintf(w, "Error: could not persist session: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatUserJSON(&resp.User))
	} else {
		fmt.Fprintf(w, "Welcome, %s. You are signed in.\n", resp.User.Username)
	}
	return 0
}

// runLogout clears the stored session and returns an exit code
func runLogout(w io.Writer) int {
	store := newSession()
	state := store.Current()

	if err := store.Logout(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if state.Authenticated {
		fmt.Fprintf(w, "Signed out %s\n", state.User.Username)
	} else {
		fmt.Fprintln(w, "No active session")
	}
	return 0
}

func promptCredentials(email, password *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password),
		),
	).WithTheme(huh.ThemeBase()).Run()
}

func promptSignup(username, email, password *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(username),
			huh.NewInput().
				Title("Email").
				Value(email),
			huh.NewInput().
				Title("Password").
				Description("At least 6 characters").
				EchoMode(huh.EchoModePassword).
				Value(password),
		),
	).WithTheme(huh.ThemeBase()).Run()
}

// formatUserJSON formats a user as indented JSON
func formatUserJSON(u *client.User) string {
	data, _ := json.MarshalIndent(u, "", "  ")
	return string(data)
}
