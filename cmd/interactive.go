package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Beastly713/codecprop/pkg/property"
	"github.com/Beastly713/codecprop/pkg/runner"
)

const interactiveHelp = "Navigate: ↑/↓ | Space: Select | a: All | Tab: Edit seed | r: Run selected | q: Quit"

type propertyItem struct {
	property property.Property
	selected bool
	result   *runner.Result
}

type model struct {
	app       *app
	items     []propertyItem
	cursor    int
	status    string
	seedInput textinput.Model
	quitting  bool
	running   bool
}

func initialModel(a *app) model {
	seed := textinput.New()
	seed.Placeholder = "seed"
	seed.CharLimit = 20
	seed.Width = 20
	seed.SetValue(strconv.FormatUint(a.settings.Seed, 10))

	m := model{
		app:       a,
		status:    interactiveHelp,
		seedInput: seed,
	}
	for _, p := range property.All() {
		m.items = append(m.items, propertyItem{property: p})
	}
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

type resultsMsg struct {
	results []*runner.Result
	err     error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.seedInput.Focused() {
			switch msg.String() {
			case "tab", "enter", "esc":
				m.seedInput.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.seedInput, cmd = m.seedInput.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}

		case " ":
			m.items[m.cursor].selected = !m.items[m.cursor].selected

		case "a":
			all := true
			for _, it := range m.items {
				all = all && it.selected
			}
			for i := range m.items {
				m.items[i].selected = !all
			}

		case "tab":
			return m, m.seedInput.Focus()

		case "r":
			if m.running {
				return m, nil
			}
			seed, err := strconv.ParseUint(strings.TrimSpace(m.seedInput.Value()), 10, 64)
			if err != nil {
				m.status = fmt.Sprintf("Error: invalid seed %q", m.seedInput.Value())
				return m, nil
			}
			ps := m.selected()
			if len(ps) == 0 {
				m.status = "No properties selected!"
				return m, nil
			}
			m.running = true
			m.status = fmt.Sprintf("Running %d properties with seed %d...", len(ps), seed)
			return m, m.runSelected(ps, seed)
		}

	case resultsMsg:
		m.running = false
		for _, res := range msg.results {
			for i := range m.items {
				if m.items[i].property.Name == res.Property {
					m.items[i].result = res
				}
			}
		}
		switch {
		case msg.err != nil:
			m.status = fmt.Sprintf("Error: %v", msg.err)
		case runner.Passed(msg.results):
			m.status = fmt.Sprintf("Success! %d properties held.", len(msg.results))
		default:
			m.status = fmt.Sprintf("%d of %d properties failed.", countFailed(msg.results), len(msg.results))
		}
	}

	return m, nil
}

func (m model) selected() []property.Property {
	var ps []property.Property
	for _, it := range m.items {
		if it.selected {
			ps = append(ps, it.property)
		}
	}
	return ps
}

func (m model) runSelected(ps []property.Property, seed uint64) tea.Cmd {
	a := m.app
	return func() tea.Msg {
		// Logging would draw over the terminal UI.
		opts := a.runnerOptions(runner.WithSeed(seed), runner.WithLogger(zap.NewNop()))
		r, err := runner.New(a.settings.Base, opts...)
		if err != nil {
			return resultsMsg{err: err}
		}
		results, err := r.RunAll(ps)
		return resultsMsg{results: results, err: err}
	}
}

func (m model) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Base: %s   Seed: %s\n\n", m.app.settings.Base, m.seedInput.View())

	for i, it := range m.items {
		cursor := " "
		if m.cursor == i {
			sb.WriteString(cursorStyle.Render(">"))
		} else {
			sb.WriteString(cursor)
		}

		checked := " "
		if it.selected {
			checked = "x"
		}
		line := fmt.Sprintf("[%s] %s", checked, it.property.Name)
		if it.selected {
			line = focusedStyle.Render(line)
		}
		sb.WriteString(" " + line)

		if res := it.result; res != nil {
			if res.Success {
				sb.WriteString(" " + passStyle.Render("PASS"))
			} else {
				sb.WriteString(" " + failStyle.Render("FAIL"))
			}
		}
		sb.WriteString("\n")
	}

	if it := m.items[m.cursor]; it.result != nil && it.result.Counterexample != nil {
		sb.WriteString("\n" + reasonStyle.Render(it.result.Counterexample.Violation.Error()) + "\n")
	} else {
		sb.WriteString("\n" + dimStyle.Render(m.items[m.cursor].property.Description) + "\n")
	}

	fmt.Fprintf(&sb, "\n%s\n", m.status)
	return docStyle.Render(sb.String())
}

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Interactive terminal UI for picking and running properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(initialModel(a), tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
			if _, err := p.Run(); err != nil {
				return err
			}
			return nil
		},
	}
}
