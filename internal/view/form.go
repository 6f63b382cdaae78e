package view

import (
	"errors"
	"strings"
	"time"

	"github.com/taskboard/task-api/internal/client"
)

const dateLayout = "2006-01-02"

// TaskForm is the editable shape of a task. Tags are kept as the
// comma-separated text the user types.
type TaskForm struct {
	Title       string
	Description string
	DueDate     string
	AssignedTo  string
	Priority    string
	Status      string
	Tags        string
}

var (
	errTitleRequired       = errors.New("title is required")
	errDescriptionRequired = errors.New("description is required")
	errDueDateRequired     = errors.New("due date is required")
	errDueDateFormat       = errors.New("due date must be YYYY-MM-DD")
	errAssigneeRequired    = errors.New("assignee is required")
)

// ParseTags splits comma-separated input, trims each tag and drops empties.
func ParseTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// FormFromTask pre-fills the edit form from a fetched task.
func FormFromTask(t client.Task) TaskForm {
	f := TaskForm{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		Tags:        strings.Join(t.Tags, ", "),
	}
	if !t.DueDate.IsZero() {
		f.DueDate = t.DueDate.UTC().Format(dateLayout)
	}
	if t.AssignedTo != nil {
		f.AssignedTo = t.AssignedTo.ID
	}
	return f
}

// Validate mirrors the required inputs of the create form. The server
// remains the authority on everything else.
func (f TaskForm) Validate() error {
	var errs []error
	if strings.TrimSpace(f.Title) == "" {
		errs = append(errs, errTitleRequired)
	}
	if strings.TrimSpace(f.Description) == "" {
		errs = append(errs, errDescriptionRequired)
	}
	switch {
	case f.DueDate == "":
		errs = append(errs, errDueDateRequired)
	default:
		if _, err := time.Parse(dateLayout, f.DueDate); err != nil {
			errs = append(errs, errDueDateFormat)
		}
	}
	if strings.TrimSpace(f.AssignedTo) == "" {
		errs = append(errs, errAssigneeRequired)
	}
	return errors.Join(errs...)
}

func (f TaskForm) CreateRequest() client.CreateTaskRequest {
	return client.CreateTaskRequest{
		Title:       f.Title,
		Description: f.Description,
		DueDate:     f.DueDate,
		AssignedTo:  f.AssignedTo,
		Priority:    f.Priority,
		Tags:        ParseTags(f.Tags),
	}
}

// UpdateRequest sends the whole form, as the edit screen submits every field.
// Empty priority or status are left out so the server keeps its values.
func (f TaskForm) UpdateRequest() client.UpdateTaskRequest {
	tags := ParseTags(f.Tags)
	req := client.UpdateTaskRequest{
		Title:       &f.Title,
		Description: &f.Description,
		Tags:        &tags,
	}
	if f.DueDate != "" {
		req.DueDate = &f.DueDate
	}
	if f.AssignedTo != "" {
		req.AssignedTo = &f.AssignedTo
	}
	if f.Priority != "" {
		req.Priority = &f.Priority
	}
	if f.Status != "" {
		req.Status = &f.Status
	}
	return req
}
