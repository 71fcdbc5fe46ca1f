package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/harrisonrobin/habita/pkg/model"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	partialStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	bufferStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
)

func statusLabel(s model.Status) string {
	switch s {
	case model.COMPLETED:
		return doneStyle.Render("✓ done")
	case model.SKIPPED_WITH_BUFFER:
		return bufferStyle.Render("✓ buffer")
	case model.PARTIAL:
		return partialStyle.Render("‣ partial")
	case model.FAILED:
		return failedStyle.Render("! failed")
	}
	return dimStyle.Render("· pending")
}
