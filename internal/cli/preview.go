package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	stagio "github.com/matzehuels/stagger/pkg/io"
	"github.com/matzehuels/stagger/pkg/render/sink"
)

var (
	previewHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
	previewErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// PreviewModel - Interactive staggered grid preview
// =============================================================================

// PreviewModel is the bubbletea model for the live layout preview. Every row
// change recomputes the grid and redraws it as text.
type PreviewModel struct {
	Request     stagio.Request
	InitialRows int
	TextOptions []sink.TextOption

	layout sink.Layout
	text   string
	err    error
}

// NewPreviewModel creates a preview model and computes the first layout.
func NewPreviewModel(req stagio.Request, opts ...sink.TextOption) PreviewModel {
	m := PreviewModel{Request: req, InitialRows: req.Rows, TextOptions: opts}
	m.recompute()
	return m
}

func (m *PreviewModel) recompute() {
	m.text = ""
	res, err := m.Request.Compute()
	if err == nil {
		m.layout = sink.NewLayout(m.Request, res)
		m.text, err = sink.RenderText(m.layout, m.TextOptions...)
	}
	m.err = err
}

func (m *PreviewModel) setRows(rows int) {
	if rows < 1 || rows == m.Request.Rows {
		return
	}
	m.Request.Rows = rows
	m.recompute()
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "+", "=", "up", "k":
			m.setRows(m.Request.Rows + 1)
		case "-", "down", "j":
			m.setRows(m.Request.Rows - 1)
		case "r":
			m.setRows(m.InitialRows)
		}
	}
	return m, nil
}

func (m PreviewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Staggered Grid Preview"))
	b.WriteString("\n")
	b.WriteString(previewHelpStyle.Render("+/- rows  r reset  q quit"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(previewErrorStyle.Render(m.err.Error()))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.text)
	b.WriteString("\n")
	res := m.layout.Result
	b.WriteString(previewHelpStyle.Render(fmt.Sprintf("  %d children · %d rows · %d×%d",
		len(m.Request.Children), res.RowCount(), res.Width, res.Height)))
	b.WriteString("\n")
	return b.String()
}

// previewCommand creates the interactive preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		inputFormat string
		color       bool
		grid        gridFlags
	)

	cmd := &cobra.Command{
		Use:   "preview [request.json|request.toml|-]",
		Short: "Preview a staggered grid interactively in the terminal",
		Long: `Preview a staggered grid interactively in the terminal.

Without an argument the topic-chip demo is shown. Use +/- to change the
number of rows and r to go back to the starting row count.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := stagio.Topics(0)
			if len(args) == 1 {
				var err error
				if req, err = c.readRequest(args[0], inputFormat); err != nil {
					return err
				}
			}
			req = grid.apply(cmd, req, c.Config.Grid)

			var opts []sink.TextOption
			if color {
				opts = append(opts, sink.WithColor())
			}
			p := tea.NewProgram(NewPreviewModel(req, opts...), tea.WithContext(cmd.Context()))
			_, err := p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&inputFormat, "input-format", "", "format of stdin: json (default), toml")
	cmd.Flags().BoolVar(&color, "color", true, "use ANSI colors")
	grid.register(cmd)

	return cmd
}
