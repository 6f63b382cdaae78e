package view

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// StatusLabel turns "in-progress" into "In progress".
func StatusLabel(status string) string {
	if status == "" {
		return ""
	}
	words := strings.SplitN(strings.Replace(status, "-", " ", 1), " ", 2)
	words[0] = titleCaser.String(words[0])
	return strings.Join(words, " ")
}

// PriorityLabel turns "high" into "High".
func PriorityLabel(priority string) string {
	return titleCaser.String(priority)
}
