package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskboard/task-api/internal/core/domain"
	"github.com/taskboard/task-api/internal/core/ports"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// TaskService implements ports.TaskService on top of the task and user
// repositories.
type TaskService struct {
	tasks    ports.TaskRepository
	users    ports.UserRepository
	activity ports.ActivityRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewTaskService(
	tasks ports.TaskRepository,
	users ports.UserRepository,
	activity ports.ActivityRepository,
	logger zerolog.Logger,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		users:    users,
		activity: activity,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ListTasks returns one page of the tasks visible to actor. Non-admins only
// see tasks they created or are assigned to.
func (s *TaskService) ListTasks(ctx context.Context, actor *domain.User, input ports.ListTasksInput) (*ports.TaskPage, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}

	page, limit := normalizePagination(input.Page, input.Limit)
	filter := ports.TaskFilter{
		Status:     input.Status,
		Priority:   input.Priority,
		AssignedTo: input.AssignedTo,
		Page:       page,
		Limit:      limit,
		Sort:       parseTaskSort(input.Sort),
	}
	if !actor.IsAdmin() {
		filter.ParticipantID = actor.ID
	}

	tasks, total, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	items, err := s.resolve(ctx, tasks...)
	if err != nil {
		return nil, err
	}

	return &ports.TaskPage{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// GetTask loads a single task the actor is allowed to view.
func (s *TaskService) GetTask(ctx context.Context, actor *domain.User, id string) (*ports.TaskDetail, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanView(actor, task) {
		return nil, domain.ErrForbidden
	}
	return s.resolveOne(ctx, task)
}

// CreateTask validates and stores a new task owned by actor.
func (s *TaskService) CreateTask(ctx context.Context, actor *domain.User, input ports.CreateTaskInput) (*ports.TaskDetail, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}

	now := s.now()
	task := &domain.Task{
		Title:       domain.NormalizeText(input.Title),
		Description: domain.NormalizeText(input.Description),
		Priority:    domain.TaskPriority(input.Priority),
		DueDate:     input.DueDate.UTC(),
		AssignedTo:  input.AssignedTo,
		CreatedBy:   actor.ID,
		Tags:        domain.NormalizeTags(input.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	task.ApplyDefaults()
	task.SyncCompletion(now)

	if err := task.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureAssignee(ctx, task.AssignedTo); err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		s.logger.Error().Err(err).Msg("failed to create task")
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("created_by", task.CreatedBy).
		Str("assigned_to", task.AssignedTo).
		Msg("task created")

	s.record(ctx, &domain.TaskActivity{
		TaskID:   task.ID,
		ActorID:  actor.ID,
		Action:   domain.ActivityCreated,
		StatusTo: task.Status,
		At:       now,
	})

	return s.resolveOne(ctx, task)
}

// UpdateTask merges the supplied fields into the stored task, re-validates
// the result and persists it.
func (s *TaskService) UpdateTask(ctx context.Context, actor *domain.User, id string, input ports.UpdateTaskInput) (*ports.TaskDetail, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanModify(actor, task) {
		return nil, domain.ErrForbidden
	}

	prevStatus := task.Status
	changed := applyUpdate(task, input)

	if input.AssignedTo != nil {
		if err := s.ensureAssignee(ctx, task.AssignedTo); err != nil {
			return nil, err
		}
	}

	now := s.now()
	task.SyncCompletion(now)
	task.UpdatedAt = now

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("task_id", id).Msg("failed to update task")
		return nil, fmt.Errorf("update task: %w", err)
	}

	entry := &domain.TaskActivity{
		TaskID:  task.ID,
		ActorID: actor.ID,
		Action:  domain.ActivityUpdated,
		Fields:  changed,
		At:      now,
	}
	if task.Status != prevStatus {
		entry.StatusFrom = prevStatus
		entry.StatusTo = task.Status
		s.logger.Info().
			Str("task_id", task.ID).
			Str("from", string(prevStatus)).
			Str("to", string(task.Status)).
			Msg("task status changed")
	}
	s.record(ctx, entry)

	return s.resolveOne(ctx, task)
}

// DeleteTask removes a task. Only admins and the creator may delete.
func (s *TaskService) DeleteTask(ctx context.Context, actor *domain.User, id string) error {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanDelete(actor, task) {
		return domain.ErrForbidden
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return err
		}
		s.logger.Error().Err(err).Str("task_id", id).Msg("failed to delete task")
		return fmt.Errorf("delete task: %w", err)
	}

	s.logger.Info().Str("task_id", id).Str("actor", actor.ID).Msg("task deleted")

	s.record(ctx, &domain.TaskActivity{
		TaskID:     id,
		ActorID:    actor.ID,
		Action:     domain.ActivityDeleted,
		StatusFrom: task.Status,
		At:         s.now(),
	})
	return nil
}

// ListActivity returns the audit trail of a task the actor may view.
func (s *TaskService) ListActivity(ctx context.Context, actor *domain.User, id string) ([]domain.TaskActivity, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanView(actor, task) {
		return nil, domain.ErrForbidden
	}

	entries, err := s.activity.ListByTask(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return entries, nil
}

// applyUpdate copies every supplied field onto task and returns the names of
// the fields that were supplied.
func applyUpdate(task *domain.Task, in ports.UpdateTaskInput) []string {
	var changed []string
	if in.Title != nil {
		task.Title = domain.NormalizeText(*in.Title)
		changed = append(changed, "title")
	}
	if in.Description != nil {
		task.Description = domain.NormalizeText(*in.Description)
		changed = append(changed, "description")
	}
	if in.Status != nil {
		task.Status = domain.TaskStatus(*in.Status)
		changed = append(changed, "status")
	}
	if in.Priority != nil {
		task.Priority = domain.TaskPriority(*in.Priority)
		changed = append(changed, "priority")
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate.UTC()
		changed = append(changed, "dueDate")
	}
	if in.AssignedTo != nil {
		task.AssignedTo = *in.AssignedTo
		changed = append(changed, "assignedTo")
	}
	if in.Tags != nil {
		task.Tags = domain.NormalizeTags(*in.Tags)
		changed = append(changed, "tags")
	}
	return changed
}

// ensureAssignee rejects references to users that do not exist.
func (s *TaskService) ensureAssignee(ctx context.Context, userID string) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.NewValidationError("assignedTo", "Assigned user does not exist")
		}
		return fmt.Errorf("lookup assignee: %w", err)
	}
	return nil
}

// record appends an audit entry. Failures are logged, never returned.
func (s *TaskService) record(ctx context.Context, entry *domain.TaskActivity) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Insert(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("task_id", entry.TaskID).Msg("failed to record task activity")
	}
}

func (s *TaskService) resolveOne(ctx context.Context, task *domain.Task) (*ports.TaskDetail, error) {
	items, err := s.resolve(ctx, task)
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// resolve loads the assignee and creator of every task in one lookup.
func (s *TaskService) resolve(ctx context.Context, tasks ...*domain.Task) ([]ports.TaskDetail, error) {
	items := make([]ports.TaskDetail, len(tasks))
	if len(tasks) == 0 {
		return items, nil
	}

	ids := make([]string, 0, len(tasks)*2)
	seen := make(map[string]bool, len(tasks)*2)
	for _, t := range tasks {
		for _, id := range []string{t.AssignedTo, t.CreatedBy} {
			if id != "" && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve task users: %w", err)
	}

	for i, t := range tasks {
		items[i] = ports.TaskDetail{
			Task:       t,
			AssignedTo: users[t.AssignedTo].Summary(),
			CreatedBy:  users[t.CreatedBy].Summary(),
		}
	}
	return items, nil
}

// normalizePagination applies defaults for unset values and the page size cap.
func normalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
