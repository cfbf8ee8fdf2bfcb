// ABOUTME: Sign-in and sign-up screens as a bubbletea model
// ABOUTME: Uses huh forms with local validation before any network call

package authview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/quillnet/quill-cli/internal/tui/icons"
	"github.com/quillnet/quill-cli/internal/tui/styles"
)

// Mode selects which form is shown
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

// LoginMsg is sent when the sign-in form completes
type LoginMsg struct {
	Email    string
	Password string
}

// SignupMsg is sent when the sign-up form completes
type SignupMsg struct {
	Username string
	Email    string
	Password string
}

// CancelledMsg is sent when the user backs out of the screen
type CancelledMsg struct{}

// SwitchMsg is sent when the user flips between sign-in and sign-up
type SwitchMsg struct {
	To Mode
}

// Auth manages the sign-in / sign-up flow as a bubbletea model
type Auth struct {
	mode   Mode
	form   *huh.Form
	width  int
	notice string

	// Form field values
	username string
	email    string
	password string
	confirm  string
}

// createTheme returns a custom huh theme matching the app palette
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	purple := lipgloss.Color("#7C3AED")
	accent := lipgloss.Color("#8B5CF6")
	gray := lipgloss.Color("#9CA3AF")
	grayLight := lipgloss.Color("#E5E7EB")
	red := lipgloss.Color("#F87171")
	slate := lipgloss.Color("#334155")
	blue := lipgloss.Color("#3B82F6")

	t.Group.Title = lipgloss.NewStyle().
		Foreground(purple).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(gray).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(purple)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(red).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(red)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(purple)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(purple)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(grayLight)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(blue).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(gray).
		Background(slate).
		Padding(0, 2).
		MarginRight(1)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(gray)

	return t
}

// New creates the auth screen in the given mode
func New(mode Mode) *Auth {
	a := &Auth{mode: mode}
	a.form = a.createForm()
	return a
}

// SetNotice shows a one-line message above the form, e.g. after a
// session expires.
func (a *Auth) SetNotice(notice string) {
	a.notice = notice
}

func (a *Auth) createForm() *huh.Form {
	if a.mode == ModeSignup {
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Username").
					Placeholder("yourname").
					CharLimit(50).
					Value(&a.username).
					Validate(validateUsername),
				huh.NewInput().
					Title("Email").
					Placeholder("you@example.com").
					CharLimit(100).
					Value(&a.email).
					Validate(validateEmail),
				huh.NewInput().
					Title("Password").
					Description("At least 6 characters").
					EchoMode(huh.EchoModePassword).
					CharLimit(100).
					Value(&a.password).
					Validate(validatePassword),
				huh.NewInput().
					Title("Confirm password").
					EchoMode(huh.EchoModePassword).
					CharLimit(100).
					Value(&a.confirm).
					Validate(func(s string) error {
						if s != a.password {
							return fmt.Errorf("passwords do not match")
						}
						return nil
					}),
			).Title("Create your account").
				Description("Join and start publishing articles"),
		).WithTheme(createTheme())
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				CharLimit(100).
				Value(&a.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				CharLimit(100).
				Value(&a.password).
				Validate(validateRequired("password")),
		).Title("Welcome back").
			Description("Sign in to write and manage articles"),
	).WithTheme(createTheme())
}

// Init implements tea.Model
func (a *Auth) Init() tea.Cmd {
	return a.form.Init()
}

// Update processes messages and returns follow-up commands
func (a *Auth) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return func() tea.Msg { return CancelledMsg{} }
		case "ctrl+t":
			// Flip between sign-in and sign-up
			to := ModeLogin
			if a.mode == ModeLogin {
				to = ModeSignup
			}
			return func() tea.Msg { return SwitchMsg{To: to} }
		}
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	if a.form.State == huh.StateCompleted {
		return a.complete()
	}

	return cmd
}

func (a *Auth) complete() tea.Cmd {
	if a.mode == ModeSignup {
		msg := SignupMsg{
			Username: strings.TrimSpace(a.username),
			Email:    strings.TrimSpace(a.email),
			Password: a.password,
		}
		return func() tea.Msg { return msg }
	}
	msg := LoginMsg{
		Email:    strings.TrimSpace(a.email),
		Password: a.password,
	}
	return func() tea.Msg { return msg }
}

// View implements tea.Model
func (a *Auth) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Lock.String() + " Account"))
	sb.WriteString("\n")

	if a.notice != "" {
		sb.WriteString(styles.StatusError.Render(a.notice))
		sb.WriteString("\n\n")
	}

	sb.WriteString(a.form.View())
	sb.WriteString("\n")

	hint := "Need an account? Press ctrl+t to sign up"
	if a.mode == ModeSignup {
		hint = "Already registered? Press ctrl+t to sign in"
	}
	sb.WriteString(styles.Help.Render(hint))

	return sb.String()
}

// Mode reports which form is currently shown
func (a *Auth) Current() Mode {
	return a.mode
}

func validateRequired(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func validateUsername(s string) error {
	if len(strings.TrimSpace(s)) < 2 {
		return fmt.Errorf("username must be at least 2 characters")
	}
	return nil
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	at := strings.Index(s, "@")
	if at < 1 || !strings.Contains(s[at:], ".") {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	return nil
}
