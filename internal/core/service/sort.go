package service

import (
	"strings"

	"github.com/taskboard/task-api/internal/core/ports"
)

const defaultTaskSort = "-createdAt"

// sortableTaskFields lists the keys a client may order tasks by.
var sortableTaskFields = map[string]struct{}{
	"createdAt":   {},
	"updatedAt":   {},
	"dueDate":     {},
	"title":       {},
	"status":      {},
	"priority":    {},
	"completedAt": {},
}

// parseTaskSort reads a sort spec such as "-createdAt" or "dueDate,-priority".
// Keys may be separated by commas or spaces; a leading '-' sorts descending.
// Unknown keys are dropped and an empty result falls back to newest first.
func parseTaskSort(spec string) []ports.SortField {
	fields := strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' '
	})

	seen := make(map[string]bool, len(fields))
	out := make([]ports.SortField, 0, len(fields))
	for _, f := range fields {
		desc := strings.HasPrefix(f, "-")
		name := strings.TrimLeft(f, "-+")
		if _, ok := sortableTaskFields[name]; !ok || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, ports.SortField{Field: name, Desc: desc})
	}

	if len(out) == 0 && spec != defaultTaskSort {
		return parseTaskSort(defaultTaskSort)
	}
	return out
}
