package handler

import "time"

// --- Request types ---

// createTaskRequest checks presence and shape only. Length limits apply to
// the trimmed values and are enforced by the domain.
type createTaskRequest struct {
	Title       string   `json:"title"       validate:"required"`
	Description string   `json:"description" validate:"required"`
	DueDate     string   `json:"dueDate"     validate:"required,isodate"`
	AssignedTo  string   `json:"assignedTo"  validate:"required,mongodb"`
	Priority    string   `json:"priority"    validate:"omitempty,oneof=low medium high"`
	Tags        []string `json:"tags"`
}

// updateTaskRequest carries a partial update; absent fields stay untouched.
// Length and enum rules for supplied fields are enforced again by the domain.
type updateTaskRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Status      *string   `json:"status"     validate:"omitempty,oneof=pending in-progress completed"`
	Priority    *string   `json:"priority"   validate:"omitempty,oneof=low medium high"`
	DueDate     *string   `json:"dueDate"    validate:"omitempty,isodate"`
	AssignedTo  *string   `json:"assignedTo" validate:"omitempty,mongodb"`
	Tags        *[]string `json:"tags"`
}

type idParam struct {
	ID string `json:"id" validate:"required,mongodb"`
}

// --- Response types ---

// ErrorResponse is the envelope every failed request is rendered with.
type ErrorResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Errors  []FieldErrorResponse `json:"errors,omitempty"`
	Error   string               `json:"error,omitempty"`
}

type FieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type userSummaryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type taskResponse struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      string               `json:"status"`
	Priority    string               `json:"priority"`
	DueDate     time.Time            `json:"dueDate"`
	AssignedTo  *userSummaryResponse `json:"assignedTo"`
	CreatedBy   *userSummaryResponse `json:"createdBy"`
	Tags        []string             `json:"tags"`
	CompletedAt *time.Time           `json:"completedAt,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

type paginationResponse struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

type taskListResponse struct {
	Success    bool               `json:"success"`
	Count      int                `json:"count"`
	Total      int64              `json:"total"`
	Pagination paginationResponse `json:"pagination"`
	Data       []taskResponse     `json:"data"`
}

type taskEnvelope struct {
	Success bool         `json:"success"`
	Data    taskResponse `json:"data"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type activityResponse struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	ActorID    string    `json:"actorId"`
	Fields     []string  `json:"fields,omitempty"`
	StatusFrom string    `json:"statusFrom,omitempty"`
	StatusTo   string    `json:"statusTo,omitempty"`
	At         time.Time `json:"at"`
}

type activityListResponse struct {
	Success bool               `json:"success"`
	Count   int                `json:"count"`
	Data    []activityResponse `json:"data"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type userEnvelope struct {
	Success bool         `json:"success"`
	Data    userResponse `json:"data"`
}

type userListResponse struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Data    []userResponse `json:"data"`
}
