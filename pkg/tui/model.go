// Package tui is an interactive terminal front end for the search controller.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rubiojr/shakesearch/pkg/controller"
	"github.com/rubiojr/shakesearch/pkg/log"
	"github.com/rubiojr/shakesearch/pkg/view"
)

var logger = log.ForService("tui")

// chromeHeight is the number of lines used by everything but the rows.
const chromeHeight = 6

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1)
	rowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	indexStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

// fetchedMsg carries a completed page fetch back into Update.
type fetchedMsg controller.Response

// Model is the bubbletea model. Update is the only place the controller is
// touched; fetches run as commands and return as fetchedMsg.
type Model struct {
	ctx    context.Context
	ctrl   *controller.Controller
	list   *view.List
	input  textinput.Model
	width  int
	height int
}

// New builds a model fetching pages through fetcher.
func New(ctx context.Context, fetcher controller.Fetcher, opts ...controller.Option) *Model {
	input := textinput.New()
	input.Placeholder = "search the complete works"
	input.Prompt = "query> "
	input.Focus()

	list := view.NewList()
	return &Model{
		ctx:    ctx,
		ctrl:   controller.New(fetcher, list, opts...),
		list:   list,
		input:  input,
		width:  80,
		height: 24,
	}
}

// CurrentPage exposes the controller page for callers and tests.
func (m *Model) CurrentPage() int {
	return m.ctrl.CurrentPage()
}

// Rows returns the rendered result rows.
func (m *Model) Rows() []string {
	return m.list.Rows()
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.search(false)
		case tea.KeyCtrlN:
			return m, m.search(true)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case fetchedMsg:
		resp := controller.Response(msg)
		if resp.Err != nil {
			// Failures leave the list as it is; there is no error state.
			logger.Debugf("page %d of %q failed, ignored: %v", resp.Request.Page, resp.Request.Query, resp.Err)
			return m, nil
		}
		m.ctrl.Complete(resp)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// search begins a request on the event loop and returns the command that
// fetches it.
func (m *Model) search(loadMore bool) tea.Cmd {
	req := m.ctrl.Begin(m.input.Value(), loadMore)
	ctx := m.ctx
	ctrl := m.ctrl
	return func() tea.Msg {
		return fetchedMsg(ctrl.Fetch(ctx, req))
	}
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("shakesearch"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	rows := m.list.Rows()
	visible := max(m.height-chromeHeight, 1)
	first := max(len(rows)-visible, 0)
	for i := first; i < len(rows); i++ {
		b.WriteString(indexStyle.Render(fmt.Sprintf("%4d ", i+1)))
		b.WriteString(rowStyle.Render(oneLine(rows[i], m.width-5)))
		b.WriteString("\n")
	}

	status := fmt.Sprintf("page %d · %d rows · enter search · ctrl+n more · esc quit", m.ctrl.CurrentPage(), len(rows))
	b.WriteString(statusStyle.Render(status))
	return b.String()
}

// oneLine collapses whitespace and truncates to width runes.
func oneLine(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width <= 1 {
		return s
	}
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s
}
