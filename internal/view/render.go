package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/taskboard/task-api/internal/client"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func assigneeName(u *client.UserSummary) string {
	if u == nil {
		return "-"
	}
	return u.Name
}

func formatDate(t client.Task) string {
	if t.DueDate.IsZero() {
		return "-"
	}
	return t.DueDate.UTC().Format(dateLayout)
}

// RenderDashboard prints the counters followed by the recent tasks.
func RenderDashboard(w io.Writer, tasks []client.Task) error {
	s := Tally(tasks)
	tw := newTable(w)
	fmt.Fprintf(tw, "Total\tPending\tIn progress\tCompleted\n")
	fmt.Fprintf(tw, "%d\t%d\t%d\t%d\n", s.Total, s.Pending, s.InProgress, s.Completed)
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recent tasks")
	return RenderTasks(w, tasks)
}

func RenderTasks(w io.Writer, tasks []client.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks found")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tPRIORITY\tDUE\tASSIGNEE")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Title, StatusLabel(t.Status), PriorityLabel(t.Priority), formatDate(t), assigneeName(t.AssignedTo))
	}
	return tw.Flush()
}

// RenderPage prints a task list page with its pagination footer.
func RenderPage(w io.Writer, list *client.TaskList, tasks []client.Task) error {
	if err := RenderTasks(w, tasks); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nPage %d of %d (%d total)\n", list.Pagination.Page, list.Pagination.Pages, list.Total)
	return err
}

func RenderTask(w io.Writer, t *client.Task) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", t.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", t.Title)
	fmt.Fprintf(tw, "Description:\t%s\n", t.Description)
	fmt.Fprintf(tw, "Status:\t%s\n", StatusLabel(t.Status))
	fmt.Fprintf(tw, "Priority:\t%s Priority\n", PriorityLabel(t.Priority))
	fmt.Fprintf(tw, "Due:\t%s\n", formatDate(*t))
	fmt.Fprintf(tw, "Assigned to:\t%s\n", assigneeName(t.AssignedTo))
	fmt.Fprintf(tw, "Created by:\t%s\n", assigneeName(t.CreatedBy))
	if len(t.Tags) > 0 {
		fmt.Fprintf(tw, "Tags:\t%s\n", strings.Join(t.Tags, ", "))
	}
	if t.CompletedAt != nil {
		fmt.Fprintf(tw, "Completed:\t%s\n", t.CompletedAt.UTC().Format(dateLayout))
	}
	fmt.Fprintf(tw, "Created:\t%s\n", t.CreatedAt.UTC().Format(dateLayout))
	return tw.Flush()
}

func RenderActivity(w io.Writer, entries []client.Activity) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No activity recorded")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "WHEN\tACTION\tACTOR\tDETAIL")
	for _, a := range entries {
		detail := strings.Join(a.Fields, ", ")
		if a.StatusTo != "" {
			detail = StatusLabel(a.StatusFrom) + " -> " + StatusLabel(a.StatusTo)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.At.UTC().Format("2006-01-02 15:04"), a.Action, a.ActorID, detail)
	}
	return tw.Flush()
}

func RenderUsers(w io.Writer, users []client.User) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
	}
	return tw.Flush()
}

func RenderUser(w io.Writer, u *client.User) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", u.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", u.Name)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Role:\t%s\n", u.Role)
	fmt.Fprintf(tw, "Active:\t%t\n", u.IsActive)
	return tw.Flush()
}
