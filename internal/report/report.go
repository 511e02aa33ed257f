// Package report renders sessions, catalogs and archived runs for the
// terminal.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/talgya/contagion/internal/engine"
	"github.com/talgya/contagion/internal/epidemic"
	"github.com/talgya/contagion/internal/events"
	"github.com/talgya/contagion/internal/persistence"
)

// Day renders the one-line daily summary followed by any events that fired.
func Day(snap engine.Snapshot, fired []events.Record) string {
	g := snap.Global
	frac := g.InfectedFraction()
	sev := engine.SeverityOf(frac)

	var b strings.Builder
	fmt.Fprintf(&b, "%s  infected %s (%s) %s  deaths %s  economy %s  morale %s",
		titleStyle.Render(fmt.Sprintf("Day %3d", snap.Day)),
		humanize.Comma(int64(g.Infected)),
		percent(frac),
		severityStyle(sev).Render("["+sev.String()+"]"),
		humanize.Comma(int64(g.Deaths)),
		scoreStyle(g.Economy).Render(fmt.Sprintf("%.1f", g.Economy)),
		scoreStyle(g.Morale).Render(fmt.Sprintf("%.1f", g.Morale)),
	)
	for _, e := range fired {
		b.WriteString("\n    ")
		line := "! " + e.Name
		if e.Region != nil && *e.Region < len(snap.Regions) {
			line += " in " + snap.Regions[*e.Region].Name
		}
		b.WriteString(warnStyle.Render(line))
	}
	return b.String()
}

type column struct {
	title string
	width int
	right bool
}

func renderRow(cols []column, cells []string, style func(i int) lipgloss.Style) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		s := lipgloss.NewStyle().Width(c.width)
		if c.right {
			s = s.Align(lipgloss.Right)
		}
		cell := cells[i]
		if style != nil {
			cell = style(i).Render(cell)
		}
		parts[i] = s.Render(cell)
	}
	return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, parts...), " ")
}

func renderHeader(cols []column) string {
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	return renderRow(cols, titles, func(int) lipgloss.Style { return headerStyle })
}

var regionColumns = []column{
	{"REGION", 16, false},
	{"POPULATION", 12, true},
	{"INFECTED", 11, true},
	{"RATE", 9, true},
	{"DEATHS", 10, true},
	{"ECON", 7, true},
	{"MORALE", 8, true},
	{"", 2, false},
	{"POLICIES", 12, false},
}

// Regions renders a table of region states.
func Regions(stats []epidemic.RegionStats) string {
	lines := []string{renderHeader(regionColumns)}
	for _, r := range stats {
		frac := 0.0
		if r.Population > 0 {
			frac = r.Infected / float64(r.Population)
		}
		sev := engine.SeverityOf(frac)
		cells := []string{
			r.Name,
			humanize.Comma(int64(r.Population)),
			humanize.Comma(int64(r.Infected)),
			percent(frac),
			humanize.Comma(int64(r.Deaths)),
			fmt.Sprintf("%.1f", r.Economy),
			fmt.Sprintf("%.1f", r.Morale),
			"",
			policies(r),
		}
		lines = append(lines, renderRow(regionColumns, cells, func(i int) lipgloss.Style {
			switch i {
			case 3:
				return severityStyle(sev)
			case 5:
				return scoreStyle(r.Economy)
			case 6:
				return scoreStyle(r.Morale)
			case 8:
				return mutedStyle
			default:
				return lipgloss.NewStyle()
			}
		}))
	}
	return strings.Join(lines, "\n")
}

// policies abbreviates the policies in force: quarantine, masks, schools
// closed, airports closed.
func policies(r epidemic.RegionStats) string {
	var p []string
	if r.Quarantine {
		p = append(p, "Q")
	}
	if r.MaskMandate {
		p = append(p, "M")
	}
	if !r.SchoolsOpen {
		p = append(p, "S")
	}
	if !r.AirportsOpen {
		p = append(p, "A")
	}
	if len(p) == 0 {
		return "-"
	}
	return strings.Join(p, " ")
}

// Outcome renders the end-of-session box.
func Outcome(o engine.Outcome, last engine.Snapshot) string {
	g := last.Global
	var headline string
	switch o.Kind {
	case engine.OutcomeVictory:
		headline = goodStyle.Bold(true).Render("VICTORY") + "  the outbreak is contained"
	case engine.OutcomeDefeat:
		headline = badStyle.Bold(true).Render("DEFEAT") + "  " + reasonText(o.Reason)
	default:
		headline = mutedStyle.Render("in progress")
	}

	body := strings.Join([]string{
		headline,
		fmt.Sprintf("day %d  population %s", last.Day, humanize.Comma(int64(g.TotalPopulation))),
		fmt.Sprintf("deaths %s (%s)  recovered %s",
			humanize.Comma(int64(g.Deaths)), percent(g.DeathRate()), humanize.Comma(int64(g.Recovered))),
		fmt.Sprintf("economy %.1f  morale %.1f", g.Economy, g.Morale),
	}, "\n")
	return boxStyle.Render(body)
}

func reasonText(r engine.Reason) string {
	switch r {
	case engine.ReasonTooManyDeaths:
		return "too many deaths"
	case engine.ReasonEconomicCollapse:
		return "the economy collapsed"
	case engine.ReasonMoraleCollapse:
		return "public morale collapsed"
	case engine.ReasonUncontrolledSpread:
		return "the virus spread out of control"
	case engine.ReasonTimeLimit:
		return "a year passed without containment"
	default:
		return string(r)
	}
}

// Interventions renders intervention summaries, one per line.
func Interventions(list []engine.InterventionSummary) string {
	if len(list) == 0 {
		return mutedStyle.Render("no interventions available")
	}
	lines := make([]string, 0, len(list))
	for _, o := range list {
		target := ""
		if o.RequiresTarget {
			target = mutedStyle.Render(" [region]")
		}
		lines = append(lines, fmt.Sprintf("%s %s%s  cost %s/%s  priority %d\n    %s",
			titleStyle.Render(fmt.Sprintf("%-24s", o.ID)),
			o.Name, target,
			formatCost(o.CostEconomy), formatCost(o.CostMorale),
			o.Priority,
			mutedStyle.Render(o.Description),
		))
	}
	return strings.Join(lines, "\n")
}

// Events renders event catalog entries, one per line.
func Events(defs []events.Definition) string {
	lines := make([]string, 0, len(defs))
	for _, d := range defs {
		req := ""
		if len(d.Requirements) > 0 {
			req = mutedStyle.Render("  when " + d.Requirements.String())
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s/day%s",
			titleStyle.Render(fmt.Sprintf("%-24s", d.ID)), d.Name, percent(d.Probability), req))
	}
	return strings.Join(lines, "\n")
}

var runColumns = []column{
	{"SESSION", 38, false},
	{"DIFFICULTY", 12, false},
	{"DAYS", 6, true},
	{"", 2, false},
	{"OUTCOME", 28, false},
	{"STARTED", 16, false},
}

// Runs renders archived sessions, newest first as given.
func Runs(rows []persistence.SessionRow, now time.Time) string {
	if len(rows) == 0 {
		return mutedStyle.Render("no archived runs")
	}
	lines := []string{renderHeader(runColumns)}
	for _, r := range rows {
		outcome := "in progress"
		if r.Outcome.Valid {
			outcome = r.Outcome.String
			if r.Reason.Valid && r.Reason.String != "" {
				outcome += " (" + r.Reason.String + ")"
			}
		}
		started := r.StartedAt
		if t, err := time.Parse(time.RFC3339, r.StartedAt); err == nil {
			started = humanize.RelTime(t, now, "ago", "from now")
		}
		cells := []string{r.ID, r.Difficulty, humanize.Comma(int64(r.Days)), "", outcome, started}
		lines = append(lines, renderRow(runColumns, cells, func(i int) lipgloss.Style {
			if i != 4 || !r.Outcome.Valid {
				return lipgloss.NewStyle()
			}
			if r.Outcome.String == "victory" {
				return goodStyle
			}
			return badStyle
		}))
	}
	return strings.Join(lines, "\n")
}

func percent(f float64) string {
	switch {
	case f == 0:
		return "0%"
	case f < 0.0001:
		return "<0.01%"
	default:
		return humanize.FtoaWithDigits(f*100, 2) + "%"
	}
}

func formatCost(v float64) string {
	return humanize.FtoaWithDigits(v, 1)
}
