package handler

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/task-api/internal/core/domain"
	"github.com/taskboard/task-api/internal/core/ports"
)

const (
	taskHex = "64b7f0c2a1b2c3d4e5f60718"
	userHex = "64b7f0c2a1b2c3d4e5f60719"
)

type stubTaskService struct {
	listFn     func(ctx context.Context, actor *domain.User, in ports.ListTasksInput) (*ports.TaskPage, error)
	getFn      func(ctx context.Context, actor *domain.User, id string) (*ports.TaskDetail, error)
	createFn   func(ctx context.Context, actor *domain.User, in ports.CreateTaskInput) (*ports.TaskDetail, error)
	updateFn   func(ctx context.Context, actor *domain.User, id string, in ports.UpdateTaskInput) (*ports.TaskDetail, error)
	deleteFn   func(ctx context.Context, actor *domain.User, id string) error
	activityFn func(ctx context.Context, actor *domain.User, id string) ([]domain.TaskActivity, error)
}

func (s *stubTaskService) ListTasks(ctx context.Context, actor *domain.User, in ports.ListTasksInput) (*ports.TaskPage, error) {
	return s.listFn(ctx, actor, in)
}

func (s *stubTaskService) GetTask(ctx context.Context, actor *domain.User, id string) (*ports.TaskDetail, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubTaskService) CreateTask(ctx context.Context, actor *domain.User, in ports.CreateTaskInput) (*ports.TaskDetail, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubTaskService) UpdateTask(ctx context.Context, actor *domain.User, id string, in ports.UpdateTaskInput) (*ports.TaskDetail, error) {
	return s.updateFn(ctx, actor, id, in)
}

func (s *stubTaskService) DeleteTask(ctx context.Context, actor *domain.User, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubTaskService) ListActivity(ctx context.Context, actor *domain.User, id string) ([]domain.TaskActivity, error) {
	return s.activityFn(ctx, actor, id)
}

var testActor = &domain.User{ID: userHex, Name: "Bob", Email: "bob@example.com", Role: domain.RoleUser, IsActive: true}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", testActor)
	return c, rec
}

func sampleDetail() *ports.TaskDetail {
	return &ports.TaskDetail{
		Task: &domain.Task{
			ID:          taskHex,
			Title:       "Write spec",
			Description: "Draft v1",
			Status:      domain.StatusPending,
			Priority:    domain.PriorityMedium,
			DueDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			AssignedTo:  "64b7f0c2a1b2c3d4e5f6071a",
			CreatedBy:   userHex,
		},
		AssignedTo: &domain.UserSummary{ID: "64b7f0c2a1b2c3d4e5f6071a", Name: "Alice", Email: "alice@example.com"},
		CreatedBy:  &domain.UserSummary{ID: userHex, Name: "Bob", Email: "bob@example.com"},
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}

func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != code {
		t.Fatalf("expected HTTP %d error, got %v", code, err)
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestTaskHandler_List_Success(t *testing.T) {
	stub := &stubTaskService{
		listFn: func(_ context.Context, actor *domain.User, in ports.ListTasksInput) (*ports.TaskPage, error) {
			if actor.ID != userHex {
				t.Fatalf("unexpected actor %+v", actor)
			}
			if in.Status != "pending" || in.Page != 2 || in.Limit != 5 || in.Sort != "dueDate" {
				t.Fatalf("unexpected input %+v", in)
			}
			return &ports.TaskPage{Items: []ports.TaskDetail{*sampleDetail()}, Total: 6, Page: 2, Limit: 5, Pages: 2}, nil
		},
	}
	c, rec := newTestContext(http.MethodGet, "/api/tasks?status=pending&page=2&limit=5&sort=dueDate", "")

	if err := NewTaskHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["success"] != true || body["count"] != float64(1) || body["total"] != float64(6) {
		t.Fatalf("unexpected envelope: %v", body)
	}
	pagination := body["pagination"].(map[string]any)
	if pagination["page"] != float64(2) || pagination["pages"] != float64(2) {
		t.Fatalf("unexpected pagination: %v", pagination)
	}
	task := body["data"].([]any)[0].(map[string]any)
	if task["id"] != taskHex || task["assignedTo"].(map[string]any)["name"] != "Alice" {
		t.Fatalf("unexpected task payload: %v", task)
	}
	if _, ok := task["completedAt"]; ok {
		t.Fatal("completedAt must be omitted for open tasks")
	}
}

func TestTaskHandler_List_QueryNormalisation(t *testing.T) {
	cases := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 0, 0},
		{"?page=abc&limit=-4", 1, 1},
		{"?page=0&limit=25", 1, 25},
		{"?page=99999999999999999999", math.MaxInt, 0},
		{"?page=-99999999999999999999", 1, 0},
	}

	for _, tc := range cases {
		var got ports.ListTasksInput
		stub := &stubTaskService{
			listFn: func(_ context.Context, _ *domain.User, in ports.ListTasksInput) (*ports.TaskPage, error) {
				got = in
				return &ports.TaskPage{Page: 1, Limit: 10}, nil
			},
		}
		c, _ := newTestContext(http.MethodGet, "/api/tasks"+tc.query, "")
		if err := NewTaskHandler(stub).List(c); err != nil {
			t.Fatalf("%q: handler error: %v", tc.query, err)
		}
		if got.Page != tc.wantPage || got.Limit != tc.wantLimit {
			t.Errorf("%q: expected page=%d limit=%d, got %d/%d", tc.query, tc.wantPage, tc.wantLimit, got.Page, got.Limit)
		}
	}
}

func TestTaskHandler_List_EmptyDataIsArray(t *testing.T) {
	stub := &stubTaskService{
		listFn: func(context.Context, *domain.User, ports.ListTasksInput) (*ports.TaskPage, error) {
			return &ports.TaskPage{Total: 3, Page: 9, Limit: 10, Pages: 1}, nil
		},
	}
	c, rec := newTestContext(http.MethodGet, "/api/tasks?page=9", "")

	if err := NewTaskHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Fatalf("expected empty data array, got %s", rec.Body.String())
	}
}

// ---------------------------------------------------------------------------
// Get / Delete / Activity
// ---------------------------------------------------------------------------

func TestTaskHandler_Get_InvalidID(t *testing.T) {
	stub := &stubTaskService{
		getFn: func(context.Context, *domain.User, string) (*ports.TaskDetail, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}
	c, _ := newTestContext(http.MethodGet, "/api/tasks/nope", "")
	c.SetParamNames("id")
	c.SetParamValues("nope")

	err := NewTaskHandler(stub).Get(c)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Fields[0].Field != "id" {
		t.Fatalf("expected id validation error, got %v", err)
	}
}

func TestTaskHandler_Get_PropagatesDomainErrors(t *testing.T) {
	for _, want := range []error{domain.ErrTaskNotFound, domain.ErrForbidden} {
		stub := &stubTaskService{
			getFn: func(context.Context, *domain.User, string) (*ports.TaskDetail, error) {
				return nil, want
			},
		}
		c, _ := newTestContext(http.MethodGet, "/api/tasks/"+taskHex, "")
		c.SetParamNames("id")
		c.SetParamValues(taskHex)

		if err := NewTaskHandler(stub).Get(c); !errors.Is(err, want) {
			t.Errorf("expected %v, got %v", want, err)
		}
	}
}

func TestTaskHandler_Delete_Success(t *testing.T) {
	stub := &stubTaskService{
		deleteFn: func(_ context.Context, _ *domain.User, id string) error {
			if id != taskHex {
				t.Fatalf("unexpected id %q", id)
			}
			return nil
		},
	}
	c, rec := newTestContext(http.MethodDelete, "/api/tasks/"+taskHex, "")
	c.SetParamNames("id")
	c.SetParamValues(taskHex)

	if err := NewTaskHandler(stub).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	body := decodeBody(t, rec)
	if body["success"] != true || body["message"] != "Task deleted successfully" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestTaskHandler_Activity(t *testing.T) {
	stub := &stubTaskService{
		activityFn: func(context.Context, *domain.User, string) ([]domain.TaskActivity, error) {
			return []domain.TaskActivity{
				{ID: "a1", Action: domain.ActivityCreated, ActorID: userHex, StatusTo: domain.StatusPending},
				{ID: "a2", Action: domain.ActivityUpdated, ActorID: userHex, Fields: []string{"status"},
					StatusFrom: domain.StatusPending, StatusTo: domain.StatusCompleted},
			}, nil
		},
	}
	c, rec := newTestContext(http.MethodGet, "/api/tasks/"+taskHex+"/activity", "")
	c.SetParamNames("id")
	c.SetParamValues(taskHex)

	if err := NewTaskHandler(stub).Activity(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	body := decodeBody(t, rec)
	if body["count"] != float64(2) {
		t.Fatalf("unexpected body: %v", body)
	}
	second := body["data"].([]any)[1].(map[string]any)
	if second["statusTo"] != "completed" || second["action"] != "updated" {
		t.Fatalf("unexpected entry: %v", second)
	}
}

// ---------------------------------------------------------------------------
// Create / Update
// ---------------------------------------------------------------------------

func TestTaskHandler_Create_Success(t *testing.T) {
	stub := &stubTaskService{
		createFn: func(_ context.Context, actor *domain.User, in ports.CreateTaskInput) (*ports.TaskDetail, error) {
			if actor.ID != userHex {
				t.Fatalf("unexpected actor %+v", actor)
			}
			if in.Title != "Write spec" || in.AssignedTo != "64b7f0c2a1b2c3d4e5f6071a" {
				t.Fatalf("unexpected input %+v", in)
			}
			if !in.DueDate.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("unexpected due date %v", in.DueDate)
			}
			if len(in.Tags) != 2 || in.Tags[1] != "docs" {
				t.Fatalf("unexpected tags %v", in.Tags)
			}
			return sampleDetail(), nil
		},
	}
	body := `{"title":"Write spec","description":"Draft v1","dueDate":"2025-01-01",` +
		`"assignedTo":"64b7f0c2a1b2c3d4e5f6071a","tags":["api","docs"]}`
	c, rec := newTestContext(http.MethodPost, "/api/tasks", body)

	if err := NewTaskHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	data := decodeBody(t, rec)["data"].(map[string]any)
	if data["status"] != "pending" || data["createdBy"].(map[string]any)["id"] != userHex {
		t.Fatalf("unexpected payload: %v", data)
	}
}

func TestTaskHandler_Create_PaddedTitleReachesService(t *testing.T) {
	title := "   " + strings.Repeat("a", 199) + "   "
	called := false
	stub := &stubTaskService{
		createFn: func(_ context.Context, _ *domain.User, in ports.CreateTaskInput) (*ports.TaskDetail, error) {
			called = true
			if in.Title != title {
				t.Fatalf("title altered before the service: %q", in.Title)
			}
			return sampleDetail(), nil
		},
	}
	body := `{"title":"` + title + `","description":"d","dueDate":"2025-01-01","assignedTo":"` + userHex + `"}`
	c, rec := newTestContext(http.MethodPost, "/api/tasks", body)

	if err := NewTaskHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 from the service, got %d (called=%v)", rec.Code, called)
	}
}

func TestTaskHandler_Create_RFC3339DueDate(t *testing.T) {
	stub := &stubTaskService{
		createFn: func(_ context.Context, _ *domain.User, in ports.CreateTaskInput) (*ports.TaskDetail, error) {
			if in.DueDate.Hour() != 15 {
				t.Fatalf("expected time component to survive, got %v", in.DueDate)
			}
			return sampleDetail(), nil
		},
	}
	body := `{"title":"t","description":"d","dueDate":"2025-01-01T15:00:00Z","assignedTo":"` + userHex + `"}`
	c, _ := newTestContext(http.MethodPost, "/api/tasks", body)

	if err := NewTaskHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestTaskHandler_Create_ValidationErrors(t *testing.T) {
	stub := &stubTaskService{
		createFn: func(context.Context, *domain.User, ports.CreateTaskInput) (*ports.TaskDetail, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}
	body := `{"description":"d","dueDate":"tomorrow","assignedTo":"bob","priority":"urgent"}`
	c, _ := newTestContext(http.MethodPost, "/api/tasks", body)

	err := NewTaskHandler(stub).Create(c)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}

	got := map[string]string{}
	for _, f := range verr.Fields {
		got[f.Field] = f.Message
	}
	want := map[string]string{
		"title":      "Title is required",
		"dueDate":    "Valid due date is required",
		"assignedTo": "Valid assigned user ID is required",
		"priority":   "Priority must be low, medium, or high",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("field %s: expected %q, got %q", field, msg, got[field])
		}
	}
}

func TestTaskHandler_Create_StrictBody(t *testing.T) {
	stub := &stubTaskService{
		createFn: func(context.Context, *domain.User, ports.CreateTaskInput) (*ports.TaskDetail, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}
	bodies := []string{
		`not-json`,
		`{"title":"t","description":"d","dueDate":"2025-01-01","assignedTo":"` + userHex + `","status":"completed"}`,
		`{"title":5}`,
		`{"title":"t"}{"title":"u"}`,
	}
	for _, body := range bodies {
		c, _ := newTestContext(http.MethodPost, "/api/tasks", body)
		assertHTTPError(t, NewTaskHandler(stub).Create(c), http.StatusBadRequest)
	}
}

func TestTaskHandler_Update_PartialFields(t *testing.T) {
	stub := &stubTaskService{
		updateFn: func(_ context.Context, _ *domain.User, id string, in ports.UpdateTaskInput) (*ports.TaskDetail, error) {
			if id != taskHex {
				t.Fatalf("unexpected id %q", id)
			}
			if in.Status == nil || *in.Status != "completed" {
				t.Fatalf("status not forwarded: %+v", in)
			}
			if in.Title != nil || in.Tags != nil || in.AssignedTo != nil {
				t.Fatalf("absent fields must stay nil: %+v", in)
			}
			if in.DueDate == nil || in.DueDate.Day() != 15 {
				t.Fatalf("due date not parsed: %+v", in.DueDate)
			}
			d := sampleDetail()
			now := time.Now().UTC()
			d.Task.Status = domain.StatusCompleted
			d.Task.CompletedAt = &now
			return d, nil
		},
	}
	c, rec := newTestContext(http.MethodPut, "/api/tasks/"+taskHex, `{"status":"completed","dueDate":"2025-02-15"}`)
	c.SetParamNames("id")
	c.SetParamValues(taskHex)

	if err := NewTaskHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	data := decodeBody(t, rec)["data"].(map[string]any)
	if data["completedAt"] == nil {
		t.Fatal("expected completedAt in response")
	}
}

func TestTaskHandler_Update_InvalidStatus(t *testing.T) {
	stub := &stubTaskService{
		updateFn: func(context.Context, *domain.User, string, ports.UpdateTaskInput) (*ports.TaskDetail, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}
	c, _ := newTestContext(http.MethodPut, "/api/tasks/"+taskHex, `{"status":"done"}`)
	c.SetParamNames("id")
	c.SetParamValues(taskHex)

	if err := NewTaskHandler(stub).Update(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
