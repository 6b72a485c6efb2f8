package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/asanchezr/consultor/internal/cli/formatter"
)

func newChatCmd(app *App) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Conversación interactiva: propuestas, cambios y preguntas de seguimiento",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			if app.IsInteractive != nil && !app.IsInteractive() {
				return runLineChat(cmd, app, sessionID)
			}
			model := newChatModel(app, sessionID)
			_, err := tea.NewProgram(model).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Identificador de sesión (por defecto, uno nuevo)")
	return cmd
}

// runLineChat serves piped or scripted input: one message per line.
func runLineChat(cmd *cobra.Command, app *App, sessionID string) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	out := cmd.OutOrStdout()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		reply, _ := app.Engine.GenerateReply(context.Background(), sessionID, line)
		fmt.Fprintln(out, reply)
	}
	return scanner.Err()
}

type chatTurn struct {
	user  string
	reply string
}

type chatModel struct {
	app       *App
	sessionID string
	input     textinput.Model
	turns     []chatTurn
	quitting  bool
}

func newChatModel(app *App, sessionID string) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Describe tu proyecto o usa '/propuesta: ...'"
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 0
	return chatModel{app: app, sessionID: sessionID, input: ti}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			if text == "/salir" {
				m.quitting = true
				return m, tea.Quit
			}
			reply, _ := m.app.Engine.GenerateReply(context.Background(), m.sessionID, text)
			m.turns = append(m.turns, chatTurn{user: text, reply: reply})
			m.input.SetValue("")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(formatter.Header("Consultor") + "\n")
	b.WriteString(formatter.Dim("Sesión "+m.sessionID+" — '/salir' o Esc para terminar") + "\n\n")

	// Keep the last few turns on screen; the transcript lives in the DB.
	turns := m.turns
	if len(turns) > 4 {
		turns = turns[len(turns)-4:]
	}
	for _, t := range turns {
		b.WriteString(formatter.StyleBlue.Render("tú: ") + t.user + "\n")
		b.WriteString(t.reply + "\n\n")
	}

	b.WriteString(m.input.View())
	return b.String()
}

var _ tea.Model = chatModel{}
