package cli

import (
	"fmt"
	"strings"
	"time"

	"go-timesheet/internal/apiclient"
	"go-timesheet/internal/tracker"
	"go-timesheet/internal/workday"

	"github.com/pterm/pterm"
)

// ptermNotifier prints tracker notifications to the terminal.
type ptermNotifier struct{}

var _ tracker.Notifier = ptermNotifier{}

func (ptermNotifier) Success(msg string) { pterm.Success.Println(msg) }
func (ptermNotifier) Warning(msg string) { pterm.Warning.Println(msg) }
func (ptermNotifier) Error(msg string)   { pterm.Error.Println(msg) }

func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Success.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
}

func formatInstant(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("15:04:05")
}

// statusRows renders e as label/value rows evaluated at now.
func statusRows(e workday.Entry, now time.Time) [][]string {
	rows := [][]string{
		{"Date", e.Date},
		{"Status", string(e.Status)},
		{"Started", formatInstant(e.StartTime)},
		{"Ended", formatInstant(e.EndTime)},
		{"Elapsed", workday.FormatClock(workday.Elapsed(e, now))},
	}
	if paused := workday.PausedTotal(e, now); paused > 0 {
		rows = append(rows, []string{"Paused", workday.FormatClock(paused)})
	}
	if worked, ok := workday.Worked(e); ok {
		rows = append(rows, []string{"Worked", workday.FormatClock(worked)})
	}
	if open := e.OpenPause(); open != nil {
		rows = append(rows, []string{"On pause", fmt.Sprintf("since %s (%s)", formatInstant(&open.StartTime), open.Reason)})
	}
	switch {
	case e.AwaitingSignature():
		rows = append(rows, []string{"Signature", "pending"})
	case e.Signature != nil:
		rows = append(rows, []string{"Signature", "attached"})
	}
	return rows
}

func pauseRows(e workday.Entry) [][]string {
	rows := [][]string{{"#", "From", "To", "Reason"}}
	for i, p := range e.Pauses {
		rows = append(rows, []string{fmt.Sprint(i + 1), formatInstant(&p.StartTime), formatInstant(p.EndTime), p.Reason})
	}
	return rows
}

func printEntry(e workday.Entry, now time.Time) error {
	if err := pterm.DefaultTable.WithData(statusRows(e, now)).Render(); err != nil {
		return err
	}
	if len(e.Pauses) == 0 {
		return nil
	}
	pterm.Println()
	return pterm.DefaultTable.WithHasHeader().WithData(pauseRows(e)).Render()
}

func monthlyRows(m apiclient.MonthlySummary) [][]string {
	rows := [][]string{{"Month", "Worked"}}
	for _, b := range m.Months {
		rows = append(rows, []string{b.Name, b.Clock})
	}
	rows = append(rows, []string{"Total", m.Total.Clock})
	return rows
}

func watchLine(e workday.Entry, clock string) string {
	var b strings.Builder
	b.WriteString(clock)
	b.WriteString("  ")
	b.WriteString(string(e.Status))
	if open := e.OpenPause(); open != nil {
		b.WriteString(" (" + open.Reason + ")")
	}
	return b.String()
}
