package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/ncenter/internal/dbus"
	"github.com/jmylchreest/ncenter/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
	criticalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
	lowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// relativeTime formats a unix timestamp as "3 minutes ago".
func relativeTime(timestamp int64) string {
	return humanize.Time(time.Unix(timestamp, 0))
}

// urgencyLabel renders an urgency name, coloured by level.
func urgencyLabel(urgency int) string {
	name := model.UrgencyNames[urgency]
	if name == "" {
		name = "normal"
	}
	switch urgency {
	case model.UrgencyCritical:
		return criticalStyle.Render(name)
	case model.UrgencyLow:
		return lowStyle.Render(name)
	default:
		return name
	}
}

// formatRecord renders one history line.
func formatRecord(r model.Record) string {
	line := fmt.Sprintf("%s  %s  %s  %s",
		labelStyle.Render(fmt.Sprintf("%-16s", relativeTime(r.Timestamp))),
		urgencyLabel(r.Urgency),
		headerStyle.Render(r.AppName),
		r.Summary)
	if body := model.BodyTruncated(r.Body, 80); body != "" {
		line += labelStyle.Render("  " + body)
	}
	return line
}

// formatActive renders the active stack, one popup per line.
func formatActive(info dbus.ServerInfo, entries []dbus.ActiveEntry) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s %s", info.Name, info.Version)))
	b.WriteString(labelStyle.Render(fmt.Sprintf("  %s active", humanize.Comma(int64(len(entries))))))
	b.WriteString("\n")
	for _, e := range entries {
		state := ""
		if e.HasWindow == 0 {
			state = labelStyle.Render(" (opening)")
		}
		fmt.Fprintf(&b, "%s %s%s\n",
			labelStyle.Render(fmt.Sprintf("%2d. #%d", e.Rank, e.ID)),
			e.Summary, state)
	}
	return b.String()
}
