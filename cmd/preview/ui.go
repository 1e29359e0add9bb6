package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"novelarcade/internal/config"
	"novelarcade/pkg/script"
)

const tickInterval = 50 * time.Millisecond

var (
	transcriptPanelStyle = lipgloss.NewStyle().
				PaddingTop(2).
				PaddingBottom(1).
				PaddingLeft(3).
				PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	choiceSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var titleCaser = cases.Title(language.English)

type tickMsg struct{}

// PreviewUI is the BubbleTea model that walks the script node by node.
// https://github.com/charmbracelet/bubbletea
type PreviewUI struct {
	cfg        config.Config
	store      *script.Store
	scriptPath string

	transcriptViewport viewport.Model
	metaViewport       viewport.Model
	ready              bool
	width              int
	height             int

	node     *script.Node
	visited  int
	history  []string
	shown    int
	typeAcc  float64
	typing   bool
	selected int

	// Minigame pause state: the walkthrough asks for an outcome
	// instead of running the game.
	awaitingOutcome bool

	terminal bool
	status   string
	err      error

	showQuitModal bool
}

func NewPreviewUI(cfg config.Config, store *script.Store, scriptPath string) PreviewUI {
	tvp := viewport.New(50, 20)
	tvp.MouseWheelEnabled = true
	mvp := viewport.New(20, 20)

	m := PreviewUI{
		cfg:                cfg,
		store:              store,
		scriptPath:         scriptPath,
		transcriptViewport: tvp,
		metaViewport:       mvp,
	}
	start, _ := store.Get(store.StartID())
	m.enter(start)
	return m
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m PreviewUI) Init() tea.Cmd {
	return tick()
}

// enter records a node as current and restarts the typewriter.
func (m *PreviewUI) enter(n *script.Node) {
	m.node = n
	m.visited++
	m.shown = 0
	m.typeAcc = 0
	m.typing = len([]rune(m.nodeText())) > 0
	m.selected = 0
	m.awaitingOutcome = false
	m.status = ""
	if n.Kind() == script.KindEnd {
		m.terminal = true
	}
}

func (m *PreviewUI) nodeText() string {
	if m.node == nil {
		return ""
	}
	if m.node.Kind() == script.KindEnd && m.node.Text == "" {
		return script.TerminalText
	}
	return m.node.Text
}

func displayName(speaker string) string {
	return titleCaser.String(speaker)
}

// commit appends the fully revealed current line to the transcript.
func (m *PreviewUI) commit() {
	text := m.nodeText()
	if text == "" {
		return
	}
	if m.node.IsNarrator() {
		m.history = append(m.history, narratorStyle.Render(text))
	} else {
		m.history = append(m.history, speakerStyle.Render(displayName(m.node.Speaker)+": ")+text)
	}
}

func (m *PreviewUI) move(target string) {
	next, err := m.store.Resolve(target)
	if err != nil {
		m.err = err
		return
	}
	m.commit()
	m.enter(next)
	m.writeTranscript()
	m.metaViewport.SetContent(m.writeMetadata())
}

// advance handles enter/space on the current node.
func (m *PreviewUI) advance() {
	if m.err != nil {
		return
	}
	if m.typing {
		m.shown = len([]rune(m.nodeText()))
		m.typing = false
		m.writeTranscript()
		return
	}
	switch {
	case m.terminal:
		// nothing more to walk
	case m.awaitingOutcome:
		// outcome keys handle this state
	case m.node.Minigame != nil:
		m.awaitingOutcome = true
	case m.node.Kind() == script.KindChoice:
		if len(m.node.Choices) > 0 {
			m.pick(m.selected)
		}
	default:
		if m.node.Next == "" {
			m.err = fmt.Errorf("node %q has no next node", m.node.ID)
			return
		}
		m.move(m.node.Next)
	}
}

func (m *PreviewUI) pick(i int) {
	if i < 0 || i >= len(m.node.Choices) {
		return
	}
	c := m.node.Choices[i]
	m.history = append(m.history, promptStyle.Render("> "+c.Text))
	m.move(c.Jump)
}

// resolveOutcome records a minigame result. The result never branches
// the script; both outcomes continue to the same node.
func (m *PreviewUI) resolveOutcome(passed bool) {
	outcome := "failed"
	if passed {
		outcome = "passed"
	}
	m.history = append(m.history,
		statusStyle.Render(fmt.Sprintf("[minigame %d %s]", *m.node.Minigame, outcome)))
	if m.node.Next == "" {
		m.err = fmt.Errorf("node %q has no next node", m.node.ID)
		m.awaitingOutcome = false
		m.writeTranscript()
		return
	}
	m.move(m.node.Next)
}

func (m *PreviewUI) copyNodeID() {
	if m.node == nil {
		return
	}
	if err := clipboard.WriteAll(m.node.ID); err != nil {
		m.status = "clipboard unavailable"
		return
	}
	m.status = fmt.Sprintf("copied %q", m.node.ID)
}

func (m PreviewUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var vpCmd, mvCmd tea.Cmd

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.transcriptViewport, vpCmd = m.transcriptViewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		transcriptWidth := int(float64(m.width)*0.75) - 4
		metaWidth := m.width - transcriptWidth - 6

		m.transcriptViewport.Width = transcriptWidth - 2
		m.transcriptViewport.Height = m.height - 5
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4

		m.ready = true
		m.writeTranscript()
		m.metaViewport.SetContent(m.writeMetadata())

	case tickMsg:
		if m.typing {
			m.typeAcc += tickInterval.Seconds()
			add := int(m.typeAcc * m.cfg.TypeSpeed)
			if add > 0 {
				m.typeAcc -= float64(add) / m.cfg.TypeSpeed
				m.shown += add
				full := len([]rune(m.nodeText()))
				if m.shown >= full {
					m.shown = full
					m.typing = false
				}
				m.writeTranscript()
			}
		}
		return m, tick()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter, tea.KeySpace:
			m.advance()
			m.writeTranscript()
			m.metaViewport.SetContent(m.writeMetadata())
			return m, nil
		case tea.KeyUp:
			if m.node.Kind() == script.KindChoice && m.selected > 0 {
				m.selected--
				m.writeTranscript()
			}
			return m, nil
		case tea.KeyDown:
			if m.node.Kind() == script.KindChoice && m.selected < len(m.node.Choices)-1 {
				m.selected++
				m.writeTranscript()
			}
			return m, nil
		}

		switch msg.String() {
		case "q":
			m.showQuitModal = true
		case "c":
			m.copyNodeID()
			m.metaViewport.SetContent(m.writeMetadata())
		case "p", "f":
			if m.awaitingOutcome {
				m.resolveOutcome(msg.String() == "p")
				m.writeTranscript()
				m.metaViewport.SetContent(m.writeMetadata())
			}
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			if m.node.Kind() == script.KindChoice && !m.typing {
				m.pick(int(msg.String()[0] - '1'))
				m.writeTranscript()
				m.metaViewport.SetContent(m.writeMetadata())
			}
		}
		return m, nil
	}

	m.transcriptViewport, vpCmd = m.transcriptViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)
	return m, tea.Batch(vpCmd, mvCmd)
}

func (m *PreviewUI) writeTranscript() {
	width := m.transcriptViewport.Width - 6
	if width < 20 {
		width = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("SCRIPT PREVIEW") + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	for _, line := range m.history {
		content.WriteString(wordwrap.String(line, width) + "\n\n")
	}

	if m.err != nil {
		content.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n")
		m.transcriptViewport.SetContent(content.String())
		m.transcriptViewport.GotoBottom()
		return
	}

	text := string([]rune(m.nodeText())[:m.shown])
	if m.node.IsNarrator() {
		content.WriteString(wordwrap.String(narratorStyle.Render(text), width) + "\n\n")
	} else {
		line := speakerStyle.Render(displayName(m.node.Speaker)+": ") + text
		content.WriteString(wordwrap.String(line, width) + "\n\n")
	}

	switch {
	case m.typing:
		// keep the page quiet while text reveals
	case m.awaitingOutcome:
		content.WriteString(statusStyle.Render(fmt.Sprintf("Minigame %d", *m.node.Minigame)) + "\n")
		content.WriteString(promptStyle.Render("Press P to record a pass, F to record a fail") + "\n")
	case m.terminal:
		content.WriteString(promptStyle.Render("End of script. Press Esc to exit.") + "\n")
	case m.node.Kind() == script.KindChoice:
		for i, c := range m.node.Choices {
			label := fmt.Sprintf(" %d. %s ", i+1, c.Text)
			if i == m.selected {
				content.WriteString(choiceSelectedStyle.Render(label) + "\n")
			} else {
				content.WriteString(choiceStyle.Render(label) + "\n")
			}
		}
	}

	m.transcriptViewport.SetContent(content.String())
	m.transcriptViewport.GotoBottom()
}

func (m *PreviewUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("NODE") + "\n\n")

	content.WriteString("Script:\n")
	content.WriteString(m.scriptPath + "\n\n")

	content.WriteString("Node ID:\n")
	content.WriteString(m.node.ID + "\n\n")

	content.WriteString("Kind:\n")
	content.WriteString(string(m.node.Kind()) + "\n\n")

	if m.node.Background != "" {
		content.WriteString("Background:\n")
		content.WriteString(m.node.BackgroundPath() + "\n\n")
	}

	if len(m.node.Stage) > 0 {
		content.WriteString("On stage:\n")
		for _, c := range m.node.Stage {
			content.WriteString(fmt.Sprintf("• %s (%s, %s)\n", c.Name, c.Position(), c.Expr()))
		}
		content.WriteString("\n")
	}

	content.WriteString(fmt.Sprintf("Nodes visited:\n%d of %d\n\n", m.visited, m.store.Len()))

	if m.status != "" {
		content.WriteString(statusStyle.Render(m.status) + "\n\n")
	}

	content.WriteString("Commands:\n")
	content.WriteString("• Enter: Advance\n")
	content.WriteString("• ↑/↓ + Enter: Choose\n")
	content.WriteString("• C: Copy node id\n")
	content.WriteString("• Q / Esc: Quit\n")

	return content.String()
}

func (m PreviewUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				return m, tick()
			}
		}
	}

	return m, nil
}

func (m PreviewUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Preview?"))
	content.WriteString("\n\n")
	content.WriteString("Progress through the script is not saved.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit or N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m PreviewUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	transcriptWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - transcriptWidth - 6

	transcriptPanel := transcriptPanelStyle.Width(transcriptWidth).Height(m.height - 2).Render(
		m.transcriptViewport.View(),
	)
	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, transcriptPanel, metaPanel)
}
