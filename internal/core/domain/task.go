package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// TaskPriority ranks how urgent a task is.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

// Task is the core aggregate root. AssignedTo and CreatedBy hold user ids;
// the referenced users are owned elsewhere.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     time.Time
	AssignedTo  string
	CreatedBy   string
	Tags        []string
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ApplyDefaults fills in status and priority when they were not supplied.
func (t *Task) ApplyDefaults() {
	if t.Status == "" {
		t.Status = StatusPending
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
}

// SyncCompletion keeps CompletedAt consistent with Status. It must run
// before every save: a completed task keeps its original stamp, any other
// status clears it.
func (t *Task) SyncCompletion(now time.Time) {
	if t.Status != StatusCompleted {
		t.CompletedAt = nil
		return
	}
	if t.CompletedAt == nil {
		stamp := now.UTC()
		t.CompletedAt = &stamp
	}
}

// Validate checks every field constraint and reports all violations at once.
func (t *Task) Validate() error {
	var verr ValidationError

	switch n := utf8.RuneCountInString(t.Title); {
	case n == 0:
		verr.Add("title", "Please provide a task title")
	case n > MaxTitleLength:
		verr.Add("title", "Title cannot be more than 200 characters")
	}

	switch n := utf8.RuneCountInString(t.Description); {
	case n == 0:
		verr.Add("description", "Please provide a task description")
	case n > MaxDescriptionLength:
		verr.Add("description", "Description cannot be more than 1000 characters")
	}

	if !t.Status.Valid() {
		verr.Add("status", "Status must be pending, in-progress, or completed")
	}
	if !t.Priority.Valid() {
		verr.Add("priority", "Priority must be low, medium, or high")
	}
	if t.DueDate.IsZero() {
		verr.Add("dueDate", "Please provide a due date")
	}
	if t.AssignedTo == "" {
		verr.Add("assignedTo", "Task must be assigned to a user")
	}
	if t.CreatedBy == "" {
		verr.Add("createdBy", "Task must have a creator")
	}
	if (t.Status == StatusCompleted) != (t.CompletedAt != nil) {
		verr.Add("completedAt", "Completion time does not match status")
	}

	if verr.HasErrors() {
		return &verr
	}
	return nil
}

// NormalizeText trims surrounding whitespace the way stored fields expect.
func NormalizeText(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeTags trims every tag, preserving order.
func NormalizeTags(tags []string) []string {
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = strings.TrimSpace(tag)
	}
	return out
}
