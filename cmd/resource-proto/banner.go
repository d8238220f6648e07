package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-resgraph/pkg/traverser"
)

var (
	bannerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	bannerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FF00FF"))
)

// banner renders the elapsed time of the main walk.
func banner(res *traverser.Result) string {
	lines := []string{
		bannerTitleStyle.Render(fmt.Sprintf("Elapse time %.6f", res.Elapsed.Seconds())),
		"  Start Time: " + timestamp(res.Start),
		"  End Time: " + timestamp(res.End),
		fmt.Sprintf("  Matcher: %s  Visited: %d  Run: %s", res.Matcher, len(res.Visited), res.RunID),
	}
	return bannerStyle.Render(strings.Join(lines, "\n"))
}

// timestamp formats t as seconds.microseconds since the epoch.
func timestamp(t time.Time) string {
	return fmt.Sprintf("%d.%06d", t.Unix(), t.Nanosecond()/1000)
}
