package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"

	"github.com/fahim-ahmed05/dotmngr/pkg/commands/status"
	"github.com/fahim-ahmed05/dotmngr/pkg/reconciler"
)

// Outcome label styles. Adaptive colors keep the palette readable on both
// light and dark terminals.
var (
	styleCreated = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "40"})
	styleRemoved = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "208"})
	styleWarning = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "136", Dark: "220"})
	styleFailed = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "124", Dark: "196"})
	styleMuted = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "243"})
	styleHeader = lipgloss.NewStyle().Bold(true)
)

// colorEnabled reports whether stdout should carry styled output.
func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}

func render(style lipgloss.Style, s string) string {
	if !colorEnabled() {
		return s
	}
	return style.Render(s)
}

func outcomeStyle(outcome reconciler.Outcome) lipgloss.Style {
	switch outcome {
	case reconciler.OutcomeCreated, reconciler.OutcomeReplaced, reconciler.OutcomeSynced:
		return styleCreated
	case reconciler.OutcomeRemoved, reconciler.OutcomePruned:
		return styleRemoved
	case reconciler.OutcomeSkipped, reconciler.OutcomeKept:
		return styleWarning
	case reconciler.OutcomeFailed:
		return styleFailed
	}
	return styleMuted
}

// printReport writes one line per decision, then a counter summary.
// Unchanged entries are detailed only at -v and above; the summary always
// counts them.
func printReport(report *reconciler.Report) {
	if report == nil || len(report.Results) == 0 {
		fmt.Println(MsgNothingToDo)
		return
	}

	for _, res := range report.Results {
		if res.Outcome == reconciler.OutcomeUnchanged && verbosity == 0 {
			continue
		}
		label := render(outcomeStyle(res.Outcome), fmt.Sprintf("%-9s", res.Outcome))
		line := fmt.Sprintf("%s %s  %s", label, res.Destination,
			render(styleMuted, fmt.Sprintf("(%s, %s)", res.Group, res.Mode)))
		if res.Message != "" {
			line += "\n          " + render(styleWarning, res.Message)
		}
		fmt.Println(line)
	}

	fmt.Println(summaryLine(report))
	if report.DryRun {
		fmt.Println(render(styleWarning, MsgDryRunNotice))
	}
}

// summaryLine compacts the outcome counters into one sorted line.
func summaryLine(report *reconciler.Report) string {
	counts := report.Counts()
	outcomes := make([]string, 0, len(counts))
	for outcome := range counts {
		outcomes = append(outcomes, string(outcome))
	}
	sort.Strings(outcomes)

	parts := make([]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		parts = append(parts, fmt.Sprintf("%d %s", counts[reconciler.Outcome(outcome)], outcome))
	}
	return render(styleHeader, fmt.Sprintf("%d decisions: ", len(report.Results))) +
		strings.Join(parts, ", ")
}

// printStatus renders the tracked-entry table.
func printStatus(result *status.Result) {
	if result.NoData {
		fmt.Println(MsgNoTrackedData)
		return
	}
	if len(result.Entries) == 0 {
		fmt.Println(MsgNoTrackedData)
		return
	}

	rows := pterm.TableData{{"GROUP", "DESTINATION", "MODE", "PRESENT"}}
	for _, entry := range result.Entries {
		present := "yes"
		if !entry.Present {
			present = render(styleFailed, "missing")
		}
		rows = append(rows, []string{entry.Group, entry.Destination, string(entry.Mode), present})
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(rows)
	if !colorEnabled() {
		table = table.WithStyle(&pterm.Style{}).WithHeaderStyle(&pterm.Style{})
	}
	if err := table.Render(); err != nil {
		// Table rendering failing is cosmetic; fall back to plain lines.
		for _, row := range rows[1:] {
			fmt.Println(strings.Join(row, "\t"))
		}
	}
	fmt.Println(render(styleMuted,
		fmt.Sprintf("state: %s", result.StatePath)))
}

// printError reports a fatal error on stderr.
func printError(err error) {
	fmt.Fprintln(os.Stderr, render(styleFailed, "Error: ")+err.Error())
}

// printStateReset warns that tracking records were lost and the run
// self-healed from empty state.
func printStateReset() {
	fmt.Println(render(styleWarning, MsgStateReset))
}
