package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/amirbrooks/promemoria/internal/store"
)

// renderer turns core results into text. Styling is skipped when color is off.
type renderer struct {
	color    bool
	header   lipgloss.Style
	done     lipgloss.Style
	dueToday lipgloss.Style
	upcoming lipgloss.Style
	overdue  lipgloss.Style
}

func newRenderer(color bool) renderer {
	return renderer{
		color:    color,
		header:   lipgloss.NewStyle().Bold(true),
		done:     lipgloss.NewStyle().Strikethrough(true).Faint(true),
		dueToday: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		upcoming: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		overdue:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

func (r renderer) style(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

func (r renderer) listing(w io.Writer, listings []store.Listing) {
	for _, l := range listings {
		fmt.Fprintln(w, r.style(r.header, "- "+l.Category))
		if len(l.Entries) == 0 {
			fmt.Fprintln(w, "    (no tasks)")
			continue
		}
		for _, e := range l.Entries {
			line := fmt.Sprintf("%s (%s)", e.Task.Name, e.Task.Date)
			if e.Task.Completed {
				line = r.style(r.done, line) + " [done]"
			}
			fmt.Fprintf(w, "  %d. %s\n", e.Index, line)
		}
	}
}

func (r renderer) plain(w io.Writer, listings []store.Listing) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tN\tNAME\tDATE\tDONE")
	for _, l := range listings {
		for _, e := range l.Entries {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%t\n", l.Category, e.Index, e.Task.Name, e.Task.Date, e.Task.Completed)
		}
	}
	_ = tw.Flush()
}

func (r renderer) notifications(w io.Writer, n store.Notifications) {
	if n.Empty() {
		fmt.Fprintln(w, "Nothing to show.")
		return
	}
	for _, s := range n.Sections() {
		fmt.Fprintln(w, r.style(r.header, bucketTitle(s.Bucket)))
		for _, notice := range s.Notices {
			fmt.Fprintf(w, "  %s\n", r.notice(s.Bucket, notice))
		}
	}
}

func (r renderer) notice(b store.Bucket, n store.Notice) string {
	t := n.Task
	switch b {
	case store.BucketDueToday:
		return r.style(r.dueToday, fmt.Sprintf("(%s) %s is due today", n.Category, t.Name))
	case store.BucketUpcoming:
		return r.style(r.upcoming, fmt.Sprintf("(%s) %s is due on %s", n.Category, t.Name, t.Date))
	case store.BucketOverdue:
		return r.style(r.overdue, fmt.Sprintf("(%s) %s was due on %s", n.Category, t.Name, t.Date))
	case store.BucketCompleted:
		return r.style(r.done, fmt.Sprintf("(%s) %s has been completed", n.Category, t.Name))
	default:
		return fmt.Sprintf("(%s) %s has an unreadable date %q", n.Category, t.Name, t.Date)
	}
}

func bucketTitle(b store.Bucket) string {
	switch b {
	case store.BucketDueToday:
		return "Due today"
	case store.BucketUpcoming:
		return "Upcoming"
	case store.BucketOverdue:
		return "Overdue"
	case store.BucketCompleted:
		return "Completed"
	default:
		return "Invalid date"
	}
}

func banner(w io.Writer, title string) {
	line := strings.Repeat("=", len(title)+4)
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, line)
}
