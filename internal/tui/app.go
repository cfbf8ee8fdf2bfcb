// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state, session and all network commands

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/quillnet/quill-cli/internal/assist"
	"github.com/quillnet/quill-cli/internal/client"
	"github.com/quillnet/quill-cli/internal/logging"
	"github.com/quillnet/quill-cli/internal/query"
	"github.com/quillnet/quill-cli/internal/session"
	"github.com/quillnet/quill-cli/internal/tui/authview"
	"github.com/quillnet/quill-cli/internal/tui/dashboard"
	"github.com/quillnet/quill-cli/internal/tui/detail"
	"github.com/quillnet/quill-cli/internal/tui/form"
	"github.com/quillnet/quill-cli/internal/tui/home"
	"github.com/quillnet/quill-cli/internal/tui/icons"
	"github.com/quillnet/quill-cli/internal/tui/styles"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenHome Screen = iota
	ScreenDetail
	ScreenForm
	ScreenDashboard
	ScreenAuth
)

// Layout constants
const (
	minTerminalWidth = 80
	statusTTL        = 4 * time.Second
)

// articlesLoadedMsg is sent when a listing page is loaded
type articlesLoadedMsg struct {
	list *client.ArticleList
	q    query.ListQuery
	err  error
}

// articleLoadedMsg is sent when a single article is loaded
type articleLoadedMsg struct {
	article *client.Article
	forEdit bool
	err     error
}

// articleSavedMsg is sent when a create or update completes
type articleSavedMsg struct {
	article *client.Article
	created bool
	err     error
}

// articleDeletedMsg is sent when a delete completes
type articleDeletedMsg struct {
	id  int64
	err error
}

// myArticlesLoadedMsg is sent when the dashboard listing is loaded
type myArticlesLoadedMsg struct {
	articles []client.Article
	err      error
}

// authDoneMsg is sent when a login or signup call completes
type authDoneMsg struct {
	resp   *client.AuthResponse
	signup bool
	err    error
}

// sessionExpiredMsg is sent once when the backend rejects the token
type sessionExpiredMsg struct{}

// statusClearMsg clears the transient status line
type statusClearMsg struct {
	stamp time.Time
}

// App is the root model for the TUI
type App struct {
	client  *client.Client
	session *session.Store
	screen  Screen
	width   int
	height  int

	homeView *home.Home
	detView  *detail.Detail
	formView *form.Form
	dashView *dashboard.Dashboard
	authView *authview.Auth

	// Where to return after the auth flow, and what triggered it
	afterAuth Screen
	expired   bool

	status      string
	statusErr   bool
	statusStamp time.Time
}

// New creates a new TUI application
func New(apiClient *client.Client, store *session.Store) *App {
	a := &App{
		client:   apiClient,
		session:  store,
		screen:   ScreenHome,
		homeView: home.New(minTerminalWidth, 24),
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.homeView.StartLoading(),
		a.loadArticles(query.ListQuery{}),
	)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, a.routeToScreen(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.routeToScreen(msg)

	case statusClearMsg:
		if msg.stamp.Equal(a.statusStamp) {
			a.status = ""
		}
		return a, nil

	case sessionExpiredMsg:
		return a.handleSessionExpired()

	// Home screen messages
	case home.QueryMsg:
		return a, tea.Batch(a.homeView.StartLoading(), a.loadArticles(msg.Query))
	case home.OpenMsg:
		return a, a.loadArticle(msg.ID, false)
	case home.ComposeMsg:
		return a.openCompose()
	case home.DashboardMsg:
		return a.openDashboard()
	case home.AccountMsg:
		return a.toggleAccount()

	// Detail screen messages
	case detail.BackMsg:
		a.screen = ScreenHome
		a.detView = nil
		return a, nil
	case detail.EditMsg:
		return a, a.loadArticle(msg.ID, true)
	case detail.DeleteMsg:
		return a, a.deleteArticle(msg.ID)

	// Dashboard screen messages
	case dashboard.BackMsg:
		a.screen = ScreenHome
		return a, nil
	case dashboard.OpenMsg:
		return a, a.loadArticle(msg.ID, false)
	case dashboard.EditMsg:
		return a, a.loadArticle(msg.ID, true)
	case dashboard.DeleteMsg:
		return a, a.deleteArticle(msg.ID)
	case dashboard.ComposeMsg:
		return a.openCompose()
	case dashboard.RefreshMsg:
		return a, a.loadMyArticles()

	// Form screen messages
	case form.CancelMsg:
		a.screen = ScreenHome
		a.formView = nil
		return a, nil
	case form.SubmitMsg:
		return a, a.saveArticle(msg.ID, msg.Draft)
	case form.AssistRequestMsg:
		return a, a.assistCall(msg)

	// Auth screen messages
	case authview.CancelledMsg:
		a.screen = ScreenHome
		a.authView = nil
		return a, nil
	case authview.SwitchMsg:
		a.authView = authview.New(msg.To)
		return a, a.authView.Init()
	case authview.LoginMsg:
		return a, a.login(msg.Email, msg.Password)
	case authview.SignupMsg:
		return a, a.signup(msg.Username, msg.Email, msg.Password)

	// Network results
	case articlesLoadedMsg:
		return a.handleArticlesLoaded(msg)
	case articleLoadedMsg:
		return a.handleArticleLoaded(msg)
	case articleSavedMsg:
		return a.handleArticleSaved(msg)
	case articleDeletedMsg:
		return a.handleArticleDeleted(msg)
	case myArticlesLoadedMsg:
		return a.handleMyArticlesLoaded(msg)
	case authDoneMsg:
		return a.handleAuthDone(msg)
	}

	// Everything else (spinner ticks, huh internals, assist results) goes
	// to the active screen.
	return a, a.routeToScreen(msg)
}

// routeToScreen forwards a message to the active screen's model
func (a *App) routeToScreen(msg tea.Msg) tea.Cmd {
	switch a.screen {
	case ScreenHome:
		return a.homeView.Update(msg)
	case ScreenDetail:
		if a.detView != nil {
			return a.detView.Update(msg)
		}
	case ScreenForm:
		if a.formView != nil {
			return a.formView.Update(msg)
		}
	case ScreenDashboard:
		if a.dashView != nil {
			return a.dashView.Update(msg)
		}
	case ScreenAuth:
		if a.authView != nil {
			return a.authView.Update(msg)
		}
	}
	return nil
}

func (a *App) openCompose() (tea.Model, tea.Cmd) {
	if !a.session.Current().Authenticated {
		return a.requireAuth(ScreenForm)
	}
	a.formView = form.New(a.width, a.height)
	a.screen = ScreenForm
	return a, a.formView.Init()
}

func (a *App) openDashboard() (tea.Model, tea.Cmd) {
	if !a.session.Current().Authenticated {
		return a.requireAuth(ScreenDashboard)
	}
	a.dashView = dashboard.New(a.session.Current().User, a.width, a.height)
	a.screen = ScreenDashboard
	return a, a.loadMyArticles()
}

func (a *App) toggleAccount() (tea.Model, tea.Cmd) {
	if a.session.Current().Authenticated {
		name := a.session.Current().User.Username
		if err := a.session.Logout(); err != nil {
			logging.Error("logout", err)
		}
		return a, a.setStatus(fmt.Sprintf("Signed out %s", name), false)
	}
	return a.requireAuth(ScreenHome)
}

func (a *App) requireAuth(after Screen) (tea.Model, tea.Cmd) {
	a.afterAuth = after
	a.authView = authview.New(authview.ModeLogin)
	a.screen = ScreenAuth
	return a, a.authView.Init()
}

func (a *App) handleSessionExpired() (tea.Model, tea.Cmd) {
	// The client hook fires per rejected response; show the auth screen
	// only once.
	if a.expired || a.screen == ScreenAuth {
		return a, nil
	}
	a.expired = true
	if err := a.session.Logout(); err != nil {
		logging.Error("logout after expiry", err)
	}
	a.afterAuth = ScreenHome
	a.authView = authview.New(authview.ModeLogin)
	a.authView.SetNotice("Your session has expired. Please sign in again.")
	a.screen = ScreenAuth
	return a, a.authView.Init()
}

func (a *App) handleArticlesLoaded(msg articlesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, client.ErrUnauthorized) {
			return a, nil
		}
		a.homeView.SetError(msg.err)
		return a, nil
	}
	a.homeView.SetList(msg.list, msg.q)
	return a, nil
}

func (a *App) handleArticleLoaded(msg articleLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return a, a.reportError("load article", msg.err)
	}
	if msg.forEdit {
		a.formView = form.NewEdit(*msg.article, a.width, a.height)
		a.screen = ScreenForm
		return a, a.formView.Init()
	}
	canModify := a.session.Current().Authenticated &&
		a.session.Current().User.ID == msg.article.AuthorID
	a.detView = detail.New(*msg.article, canModify, a.width, a.contentHeight())
	a.screen = ScreenDetail
	return a, nil
}

func (a *App) handleArticleSaved(msg articleSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return a, a.reportError("save article", msg.err)
	}
	a.formView = nil
	verb := "updated"
	if msg.created {
		verb = "published"
	}
	canModify := a.session.Current().Authenticated &&
		a.session.Current().User.ID == msg.article.AuthorID
	a.detView = detail.New(*msg.article, canModify, a.width, a.contentHeight())
	a.screen = ScreenDetail
	return a, a.setStatus(fmt.Sprintf("Article %s", verb), false)
}

func (a *App) handleArticleDeleted(msg articleDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return a, a.reportError("delete article", msg.err)
	}
	cmds := []tea.Cmd{a.setStatus("Article deleted", false)}
	if a.screen == ScreenDashboard {
		cmds = append(cmds, a.loadMyArticles())
	} else {
		a.screen = ScreenHome
		a.detView = nil
		cmds = append(cmds, a.homeView.StartLoading(), a.loadArticles(a.homeView.Query()))
	}
	return a, tea.Batch(cmds...)
}

func (a *App) handleMyArticlesLoaded(msg myArticlesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return a, a.reportError("load dashboard", msg.err)
	}
	if a.dashView != nil {
		a.dashView.SetArticles(msg.articles)
	}
	return a, nil
}

func (a *App) handleAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Recreate the form so the user can retry
		mode := authview.ModeLogin
		if msg.signup {
			mode = authview.ModeSignup
		}
		a.authView = authview.New(mode)
		a.authView.SetNotice(msg.err.Error())
		return a, a.authView.Init()
	}

	if err := a.session.Login(msg.resp.Token, msg.resp.User); err != nil {
		logging.Error("persist session", err)
	}
	a.expired = false
	a.authView = nil

	welcome := fmt.Sprintf("Welcome back, %s", msg.resp.User.Username)
	if msg.signup {
		welcome = fmt.Sprintf("Welcome, %s", msg.resp.User.Username)
	}

	switch a.afterAuth {
	case ScreenForm:
		a.formView = form.New(a.width, a.height)
		a.screen = ScreenForm
		return a, tea.Batch(a.formView.Init(), a.setStatus(welcome, false))
	case ScreenDashboard:
		a.dashView = dashboard.New(msg.resp.User, a.width, a.height)
		a.screen = ScreenDashboard
		return a, tea.Batch(a.loadMyArticles(), a.setStatus(welcome, false))
	default:
		a.screen = ScreenHome
		return a, a.setStatus(welcome, false)
	}
}

func (a *App) reportError(context string, err error) tea.Cmd {
	if errors.Is(err, client.ErrUnauthorized) {
		// The expiry hook already redirected to the auth screen
		return nil
	}
	logging.Error(context, err)
	return a.setStatus(err.Error(), true)
}

func (a *App) setStatus(text string, isErr bool) tea.Cmd {
	a.status = text
	a.statusErr = isErr
	a.statusStamp = time.Now()
	stamp := a.statusStamp
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusClearMsg{stamp: stamp}
	})
}

// Network commands

func (a *App) loadArticles(q query.ListQuery) tea.Cmd {
	return func() tea.Msg {
		list, err := a.client.ListArticles(context.Background(), client.ListOptions{
			Search:   q.Search,
			Category: q.Category,
			Page:     q.PageOrDefault(),
			Limit:    query.PageSize,
		})
		return articlesLoadedMsg{list: list, q: q, err: err}
	}
}

func (a *App) loadArticle(id int64, forEdit bool) tea.Cmd {
	return func() tea.Msg {
		article, err := a.client.GetArticle(context.Background(), id)
		return articleLoadedMsg{article: article, forEdit: forEdit, err: err}
	}
}

func (a *App) saveArticle(id int64, draft client.ArticleDraft) tea.Cmd {
	return func() tea.Msg {
		if id == 0 {
			article, err := a.client.CreateArticle(context.Background(), draft)
			return articleSavedMsg{article: article, created: true, err: err}
		}
		article, err := a.client.UpdateArticle(context.Background(), id, draft)
		return articleSavedMsg{article: article, err: err}
	}
}

func (a *App) deleteArticle(id int64) tea.Cmd {
	return func() tea.Msg {
		err := a.client.DeleteArticle(context.Background(), id)
		return articleDeletedMsg{id: id, err: err}
	}
}

func (a *App) loadMyArticles() tea.Cmd {
	return func() tea.Msg {
		articles, err := a.client.MyArticles(context.Background())
		return myArticlesLoadedMsg{articles: articles, err: err}
	}
}

func (a *App) login(email, password string) tea.Cmd {
	return func() tea.Msg {
		resp, err := a.client.Login(context.Background(), client.LoginInput{
			Email:    email,
			Password: password,
		})
		return authDoneMsg{resp: resp, err: err}
	}
}

func (a *App) signup(username, email, password string) tea.Cmd {
	return func() tea.Msg {
		resp, err := a.client.Signup(context.Background(), client.SignupInput{
			Username: username,
			Email:    email,
			Password: password,
		})
		return authDoneMsg{resp: resp, signup: true, err: err}
	}
}

// assistCall runs one AI assist request and reports back to the form
func (a *App) assistCall(req form.AssistRequestMsg) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var res assist.Result
		var err error

		switch req.Kind {
		case assist.KindImprove:
			res.Text, err = a.client.Improve(ctx, req.Content, string(req.Mode))
		case assist.KindSummary:
			res.Text, err = a.client.Summary(ctx, req.Content, req.Title)
		case assist.KindTitles:
			res.Titles, err = a.client.SuggestTitles(ctx, req.Content, req.Title)
		case assist.KindTags:
			res.Tags, err = a.client.SuggestTags(ctx, req.Content, req.Title)
		}

		return form.AssistResolvedMsg{Kind: req.Kind, Seq: req.Seq, Result: res, Err: err}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenHome:
		content = a.homeView.View()
	case ScreenDetail:
		if a.detView != nil {
			content = a.detView.View()
		}
	case ScreenForm:
		if a.formView != nil {
			content = a.formView.View()
		}
	case ScreenDashboard:
		if a.dashView != nil {
			content = a.dashView.View()
		}
	case ScreenAuth:
		if a.authView != nil {
			content = a.authView.View()
		}
	default:
		content = a.homeView.View()
	}

	return a.wrapWithFrame(content)
}

// contentHeight calculates the height available for screen content
func (a *App) contentHeight() int {
	// Header, footer and surrounding newlines
	return a.height - 4
}

// renderHeader creates the header bar with app branding and session state
func (a *App) renderHeader() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s", icons.App.String(), titleStyle.Render("Quill"))

	rightText := contextStyle.Render("signed out") + " "
	if state := a.session.Current(); state.Authenticated {
		rightText = contextStyle.Render(icons.User.String()+" "+state.User.Username) + " "
	}

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	fillWidth := width - 4 - leftWidth - rightWidth
	if fillWidth < 0 {
		fillWidth = 0
	}

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)

	var shortcuts []string
	switch a.screen {
	case ScreenHome:
		shortcuts = []string{"/ Search", "tab Category", "←→ Page", "w Write", "d Dashboard", "a Account", "q Quit"}
	case ScreenDetail:
		shortcuts = []string{"↑↓ Scroll", "e Edit", "d Delete", "b Back", "q Quit"}
	case ScreenForm:
		shortcuts = []string{"tab Next field", "ctrl+s Save", "esc Cancel"}
	case ScreenDashboard:
		shortcuts = []string{"Enter Open", "e Edit", "d Delete", "w Write", "b Back"}
	case ScreenAuth:
		shortcuts = []string{"Enter Submit", "ctrl+t Switch", "esc Back"}
	}

	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ")
	leftPlainText := " " + strings.Join(shortcuts, "  ")

	rightText := ""
	rightPlainText := ""
	if a.status != "" {
		statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)
		if a.statusErr {
			statusStyle = lipgloss.NewStyle().Foreground(styles.Danger)
		}
		rightText = statusStyle.Render(a.status) + " "
		rightPlainText = a.status + " "
	}

	leftWidth := lipgloss.Width(leftPlainText)
	rightWidth := lipgloss.Width(rightPlainText)
	fillWidth := width - 4 - leftWidth - rightWidth
	if fillWidth < 0 {
		fillWidth = 0
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI
func Run(apiClient *client.Client, store *session.Store) error {
	app := New(apiClient, store)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)

	// Token rejections can surface from any in-flight call; deliver them
	// to the UI goroutine as a message.
	apiClient.OnUnauthorized(func() {
		p.Send(sessionExpiredMsg{})
	})

	_, err := p.Run()
	return err
}
