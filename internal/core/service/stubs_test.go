package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskboard/task-api/internal/core/domain"
	"github.com/taskboard/task-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubTaskRepo struct {
	byID      map[string]*domain.Task
	seq       int
	createErr error
	lastList  ports.TaskFilter
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{byID: make(map[string]*domain.Task)}
}

func cloneTask(t *domain.Task) *domain.Task {
	clone := *t
	clone.Tags = append([]string(nil), t.Tags...)
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		clone.CompletedAt = &at
	}
	return &clone
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	t.ID = fmt.Sprintf("task-%d", r.seq)
	r.byID[t.ID] = cloneTask(t)
	return nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (r *stubTaskRepo) Update(_ context.Context, t *domain.Task) error {
	if _, ok := r.byID[t.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	r.byID[t.ID] = cloneTask(t)
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.byID, id)
	return nil
}

// List applies the same filters the real Mongo repo would use, ordered by
// creation time descending.
func (r *stubTaskRepo) List(_ context.Context, f ports.TaskFilter) ([]*domain.Task, int64, error) {
	r.lastList = f

	var matched []*domain.Task
	for _, t := range r.byID {
		if f.ParticipantID != "" && t.AssignedTo != f.ParticipantID && t.CreatedBy != f.ParticipantID {
			continue
		}
		if f.Status != "" && string(t.Status) != f.Status {
			continue
		}
		if f.Priority != "" && string(t.Priority) != f.Priority {
			continue
		}
		if f.AssignedTo != "" && t.AssignedTo != f.AssignedTo {
			continue
		}
		matched = append(matched, cloneTask(t))
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	offset, ok := f.Offset()
	if !ok || offset >= total {
		return []*domain.Task{}, total, nil
	}
	skip := int(offset)
	end := len(matched)
	if f.Limit < end-skip {
		end = skip + f.Limit
	}
	return matched[skip:end], total, nil
}

type stubUserRepo struct {
	byID map[string]*domain.User
	err  error
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		r.byID[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			clone := *u
			out[id] = &clone
		}
	}
	return out, nil
}

func (r *stubUserRepo) ListActive(_ context.Context) ([]*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.User
	for _, u := range r.byID {
		if u.IsActive {
			clone := *u
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type stubActivityRepo struct {
	entries   []domain.TaskActivity
	insertErr error
}

func (r *stubActivityRepo) Insert(_ context.Context, a *domain.TaskActivity) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.entries = append(r.entries, *a)
	return nil
}

func (r *stubActivityRepo) ListByTask(_ context.Context, taskID string) ([]domain.TaskActivity, error) {
	var out []domain.TaskActivity
	for _, e := range r.entries {
		if e.TaskID == taskID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var (
	discardLogger = zerolog.Nop()
	errDB         = errors.New("db unavailable")

	userA = &domain.User{ID: "userA", Name: "Alice", Email: "alice@example.com", Role: domain.RoleUser, IsActive: true}
	userB = &domain.User{ID: "userB", Name: "Bob", Email: "bob@example.com", Role: domain.RoleUser, IsActive: true}
	userC = &domain.User{ID: "userC", Name: "Carol", Email: "carol@example.com", Role: domain.RoleUser, IsActive: true}
	admin = &domain.User{ID: "admin", Name: "Root", Email: "root@example.com", Role: domain.RoleAdmin, IsActive: true}
)

type fixture struct {
	svc      *TaskService
	tasks    *stubTaskRepo
	users    *stubUserRepo
	activity *stubActivityRepo
	clock    time.Time
}

func newFixture() *fixture {
	f := &fixture{
		tasks:    newStubTaskRepo(),
		users:    newStubUserRepo(userA, userB, userC, admin),
		activity: &stubActivityRepo{},
		clock:    time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewTaskService(f.tasks, f.users, f.activity, discardLogger)
	f.svc.now = func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}
	return f
}

func createInput(assignee string) ports.CreateTaskInput {
	return ports.CreateTaskInput{
		Title:       "Write spec",
		Description: "Draft v1",
		DueDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		AssignedTo:  assignee,
	}
}

func strPtr(s string) *string { return &s }
