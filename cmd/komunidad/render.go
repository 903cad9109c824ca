package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/komunidad/bulletin-board/internal/app"
	"github.com/komunidad/bulletin-board/internal/core/domain"
)

type consoleNotifier struct {
	out io.Writer
}

func (n consoleNotifier) Notify(level app.Level, msg string) {
	fmt.Fprintf(n.out, "[%s] %s\n", strings.ToUpper(string(level)), msg)
}

func table(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func printAreas(out io.Writer, areas []domain.Area) {
	w := table(out)
	fmt.Fprintln(w, "ID\tNAME")
	for _, a := range areas {
		fmt.Fprintf(w, "%s\t%s\n", a.ID, a.Name)
	}
	_ = w.Flush()
}

func (s *shell) printHome(screen *app.Home) {
	fmt.Fprintf(s.out, "Barangay %s: %d announcement(s)", screen.AreaName, len(screen.Visible))
	if screen.Category != "All" || screen.Query != "" {
		fmt.Fprintf(s.out, " of %d", len(screen.All))
	}
	fmt.Fprintln(s.out)

	w := table(s.out)
	fmt.Fprintln(w, "ID\tPOSTED\tCATEGORY\tTITLE")
	for _, a := range screen.Visible {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, screen.Label(a), a.Category, a.Title)
	}
	_ = w.Flush()
}

func (s *shell) printSearch(screen *app.Search) {
	fmt.Fprintf(s.out, "%d result(s)", len(screen.Results))
	if screen.Active() {
		fmt.Fprint(s.out, " (filtered)")
	}
	fmt.Fprintln(s.out)

	w := table(s.out)
	fmt.Fprintln(w, "ID\tPOSTED\tBARANGAY\tCATEGORY\tTITLE")
	for _, a := range screen.Results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.ID, screen.Label(a), screen.AreaName(a.AreaID), a.Category, a.Title)
	}
	_ = w.Flush()
}

func (s *shell) printDashboard(screen *app.Dashboard) {
	fmt.Fprintf(s.out, "%d announcement(s), %d this week\n", len(screen.Announcements), screen.RecentCount())
	for _, c := range domain.FormCategories {
		if n := screen.CategoryCount(c); n > 0 {
			fmt.Fprintf(s.out, "  %s: %d\n", c, n)
		}
	}

	w := table(s.out)
	fmt.Fprintln(w, "ID\tPOSTED\tCATEGORY\tTITLE")
	for _, a := range screen.Announcements {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.DatePosted.Local().Format(app.ListDateLayout), a.Category, a.Title)
	}
	_ = w.Flush()
}

func (s *shell) printDetail(screen *app.Detail) {
	if screen.Announcement == nil {
		if screen.Missing {
			fmt.Fprintln(s.out, "Announcement not found.")
		}
		return
	}
	a := screen.Announcement
	fmt.Fprintf(s.out, "%s\n[%s] %s\n\n%s\n", a.Title, a.Category, screen.Posted(), a.Description)
}
