package client

import "time"

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Priority    string       `json:"priority"`
	DueDate     time.Time    `json:"dueDate"`
	AssignedTo  *UserSummary `json:"assignedTo"`
	CreatedBy   *UserSummary `json:"createdBy"`
	Tags        []string     `json:"tags"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// TaskList is one page of GET /api/tasks.
type TaskList struct {
	Count      int        `json:"count"`
	Total      int64      `json:"total"`
	Pagination Pagination `json:"pagination"`
	Data       []Task     `json:"data"`
}

type Activity struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	ActorID    string    `json:"actorId"`
	Fields     []string  `json:"fields,omitempty"`
	StatusFrom string    `json:"statusFrom,omitempty"`
	StatusTo   string    `json:"statusTo,omitempty"`
	At         time.Time `json:"at"`
}

// ListOptions are the query parameters of the task listing. Zero values are
// left out of the request.
type ListOptions struct {
	Status     string
	Priority   string
	AssignedTo string
	Page       int
	Limit      int
	Sort       string
}

type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"dueDate"`
	AssignedTo  string   `json:"assignedTo"`
	Priority    string   `json:"priority,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// UpdateTaskRequest sends only the non-nil fields.
type UpdateTaskRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *string   `json:"status,omitempty"`
	Priority    *string   `json:"priority,omitempty"`
	DueDate     *string   `json:"dueDate,omitempty"`
	AssignedTo  *string   `json:"assignedTo,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}
