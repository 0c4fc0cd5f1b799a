package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/steamworks-go"
	"github.com/wippyai/steamworks-go/client"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1B2838")).
			Padding(0, 1)

	actionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#66C0F4"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1B2838"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const interactiveTimeout = 5 * time.Second

// action is one invocable bridge operation in the TUI.
type action struct {
	name   string
	detail string
	prompt string // non-empty when the action takes an argument
	run    func(ctx context.Context, c *client.Client, arg string) (string, error)
}

func bridgeActions() []action {
	return []action{
		{
			name:   "server-time",
			detail: "vendor server clock",
			run: func(_ context.Context, c *client.Client, _ string) (string, error) {
				when, err := c.Utils().ServerTime()
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%d (%s)", when,
					time.Unix(int64(when), 0).UTC().Format(time.RFC3339)), nil
			},
		},
		{
			name:   "ip-country",
			detail: "egress country code",
			run: func(_ context.Context, c *client.Client, _ string) (string, error) {
				country, err := c.Utils().IPCountry()
				return country, err
			},
		},
		{
			name:   "whoami",
			detail: "account, persona, presence",
			run: func(_ context.Context, c *client.Client, _ string) (string, error) {
				id, err := c.User().SteamID()
				if err != nil {
					return "", err
				}
				persona, err := c.Friends().PersonaName()
				if err != nil {
					return "", err
				}
				state, err := c.Friends().PersonaState()
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%s %q (%s)", id, persona, state), nil
			},
		},
		{
			name:   "app-info",
			detail: "app id, build, language, ownership",
			run: func(_ context.Context, c *client.Client, _ string) (string, error) {
				app, err := c.Utils().AppID()
				if err != nil {
					return "", err
				}
				build, err := c.Apps().BuildID()
				if err != nil {
					return "", err
				}
				lang, err := c.Apps().CurrentGameLanguage()
				if err != nil {
					return "", err
				}
				owned, err := c.Apps().IsSubscribed()
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("app %d build %d %s owned=%v", app, build, lang, owned), nil
			},
		},
		{
			name:   "check-file-signature",
			detail: "async ownership signature check",
			prompt: "path",
			run: func(ctx context.Context, c *client.Client, arg string) (string, error) {
				call, err := c.Utils().CheckFileSignature(arg)
				if err != nil {
					return "", err
				}
				result, err := call.Wait(ctx)
				if err != nil {
					return "", err
				}
				return result.Signature.String(), nil
			},
		},
		{
			name:   "request-user-stats",
			detail: "async stats fetch",
			prompt: "steam id (empty = self)",
			run: func(ctx context.Context, c *client.Client, arg string) (string, error) {
				var id steamworks.SteamID
				if arg == "" {
					self, err := c.User().SteamID()
					if err != nil {
						return "", err
					}
					id = self
				} else {
					parsed, err := strconv.ParseUint(arg, 10, 64)
					if err != nil {
						return "", fmt.Errorf("%q is not a steam id", arg)
					}
					id = steamworks.SteamID(parsed)
				}
				call, err := c.UserStats().RequestUserStats(id)
				if err != nil {
					return "", err
				}
				received, err := call.Wait(ctx)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("user %d game %d: %s",
					received.User, received.GameID, received.Result.Message()), nil
			},
		},
		{
			name:   "auth-ticket",
			detail: "issue a session auth ticket",
			run: func(_ context.Context, c *client.Client, _ string) (string, error) {
				ticket, err := c.User().AuthSessionTicket()
				if err != nil {
					return "", err
				}
				defer c.User().CancelAuthTicket(ticket)
				return fmt.Sprintf("ticket %d, %d bytes", ticket.Handle, len(ticket.Data)), nil
			},
		},
	}
}

type modelState int

const (
	stateSelectAction modelState = iota
	stateInputArg
	stateShowResult
)

type interactiveModel struct {
	err      error
	c        *client.Client
	cfg      config
	actions  []action
	input    textinput.Model
	result   string
	selected int
	state    modelState
}

type connectedMsg struct {
	err error
	c   *client.Client
}

type actionResultMsg struct {
	err    error
	result string
}

func newInteractiveModel(cfg config) *interactiveModel {
	return &interactiveModel{
		cfg:     cfg,
		actions: bridgeActions(),
		state:   stateSelectAction,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.connect
}

func (m *interactiveModel) connect() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), interactiveTimeout)
	defer cancel()

	c, err := connect(ctx, m.cfg)
	if err != nil {
		return connectedMsg{err: err}
	}
	go c.Pump().Run(context.Background(), pumpInterval)
	return connectedMsg{c: c}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.c != nil {
				m.c.Close()
			}
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectAction && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectAction && m.selected < len(m.actions)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectAction:
				if m.c == nil {
					return m, nil
				}
				if m.actions[m.selected].prompt != "" {
					m.prepareInput()
					m.state = stateInputArg
					return m, nil
				}
				return m, m.invoke("")

			case stateInputArg:
				return m, m.invoke(m.input.Value())

			case stateShowResult:
				m.state = stateSelectAction
				m.result = ""
				m.err = nil
			}

		case "esc":
			if m.state == stateInputArg || m.state == stateShowResult {
				m.state = stateSelectAction
				m.result = ""
				m.err = nil
			}
		}

	case connectedMsg:
		m.err = msg.err
		m.c = msg.c

	case actionResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArg {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) prepareInput() {
	ti := textinput.New()
	ti.Prompt = m.actions[m.selected].prompt + ": "
	ti.Width = 48
	ti.Focus()
	m.input = ti
}

func (m *interactiveModel) invoke(arg string) tea.Cmd {
	act := m.actions[m.selected]
	c := m.c
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), interactiveTimeout)
		defer cancel()

		result, err := act.run(ctx, c, arg)
		return actionResultMsg{result: result, err: err}
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("steamcl"))
	if m.c != nil {
		b.WriteString(fmt.Sprintf("  app %d · session %s · gen %d",
			m.cfg.AppID, m.c.Session().State(), m.c.Session().Generation()))
	}
	b.WriteString("\n\n")

	if m.c == nil {
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n\n")
			b.WriteString(helpStyle.Render("q quit"))
			return b.String()
		}
		b.WriteString("Connecting...")
		return b.String()
	}

	switch m.state {
	case stateSelectAction:
		for i, act := range m.actions {
			line := fmt.Sprintf("%-22s %s", act.name, helpStyle.Render(act.detail))
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + actionStyle.Render(line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • q quit"))

	case stateInputArg:
		b.WriteString(fmt.Sprintf("Calling %s\n\n", actionStyle.Render(m.actions[m.selected].name)))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter call • esc back"))

	case stateShowResult:
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", actionStyle.Render(m.actions[m.selected].name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(cfg config) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode requires a terminal")
	}
	p := tea.NewProgram(newInteractiveModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
