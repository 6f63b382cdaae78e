// Package view holds the presentation logic of the taskctl client: counters,
// local search, form handling and table rendering.
package view

import (
	"strings"

	"github.com/taskboard/task-api/internal/client"
)

// Stats are counted over the tasks the client already holds, not the whole
// collection.
type Stats struct {
	Total      int
	Pending    int
	InProgress int
	Completed  int
}

func Tally(tasks []client.Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case "pending":
			s.Pending++
		case "in-progress":
			s.InProgress++
		case "completed":
			s.Completed++
		}
	}
	return s
}

// FilterBySearch keeps the tasks whose title or description contains q,
// ignoring case. Only the given page is searched.
func FilterBySearch(tasks []client.Task, q string) []client.Task {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return tasks
	}
	out := make([]client.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), q) || strings.Contains(strings.ToLower(t.Description), q) {
			out = append(out, t)
		}
	}
	return out
}
