package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Beastly713/codecprop/pkg/runner"
)

// Styles
var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	cursorStyle  = focusedStyle
	passStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")) // Green
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	docStyle     = lipgloss.NewStyle().Margin(1, 2)
	reasonStyle  = lipgloss.NewStyle().PaddingLeft(4)
)

// renderResult formats one result line, plus the counterexample when there is one.
func renderResult(res *runner.Result) string {
	var sb strings.Builder
	if res.Success {
		sb.WriteString(passStyle.Render("PASS"))
	} else {
		sb.WriteString(failStyle.Render("FAIL"))
	}
	fmt.Fprintf(&sb, " %s %s", res.Property, dimStyle.Render(fmt.Sprintf(
		"(%d iterations, %d discarded, %s)", res.Iterations, res.Discarded, res.Elapsed.Round(time.Microsecond))))
	if res.MemoryBytes > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf(" %d bytes allocated", res.MemoryBytes)))
	}
	sb.WriteString("\n")
	if ce := res.Counterexample; ce != nil && ce.Violation != nil {
		sb.WriteString(reasonStyle.Render(ce.Violation.Error()))
		sb.WriteString("\n")
	}
	return sb.String()
}
