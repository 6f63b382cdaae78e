package mongo

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskboard/task-api/internal/core/domain"
	"github.com/taskboard/task-api/internal/core/ports"
)

const (
	hexA = "64b7f0c2a1b2c3d4e5f60718"
	hexB = "64b7f0c2a1b2c3d4e5f60719"
)

func TestBuildTaskFilter_Empty(t *testing.T) {
	filter, ok := buildTaskFilter(ports.TaskFilter{})
	if !ok {
		t.Fatal("empty filter must be satisfiable")
	}
	if len(filter) != 0 {
		t.Errorf("expected empty filter, got %v", filter)
	}
}

func TestBuildTaskFilter_ScopeAndFilters(t *testing.T) {
	filter, ok := buildTaskFilter(ports.TaskFilter{
		ParticipantID: hexA,
		Status:        "pending",
		Priority:      "high",
		AssignedTo:    hexB,
	})
	if !ok {
		t.Fatal("expected satisfiable filter")
	}

	pid, _ := primitive.ObjectIDFromHex(hexA)
	or, isArr := filter["$or"].(bson.A)
	if !isArr || len(or) != 2 {
		t.Fatalf("expected $or with two branches, got %v", filter["$or"])
	}
	if or[0].(bson.M)["assignedTo"] != pid || or[1].(bson.M)["createdBy"] != pid {
		t.Errorf("unexpected scope clause: %v", or)
	}
	if filter["status"] != "pending" || filter["priority"] != "high" {
		t.Errorf("unexpected status/priority: %v", filter)
	}
	aid, _ := primitive.ObjectIDFromHex(hexB)
	if filter["assignedTo"] != aid {
		t.Errorf("expected assignedTo %v, got %v", aid, filter["assignedTo"])
	}
}

func TestBuildTaskFilter_MalformedIDMatchesNothing(t *testing.T) {
	if _, ok := buildTaskFilter(ports.TaskFilter{AssignedTo: "not-an-id"}); ok {
		t.Error("malformed assignedTo must yield an unsatisfiable filter")
	}
	if _, ok := buildTaskFilter(ports.TaskFilter{ParticipantID: "nope"}); ok {
		t.Error("malformed participant must yield an unsatisfiable filter")
	}
}

func TestBuildTaskSort(t *testing.T) {
	got := buildTaskSort([]ports.SortField{{Field: "dueDate"}, {Field: "priority", Desc: true}})
	want := bson.D{
		{Key: "dueDate", Value: 1},
		{Key: "priority", Value: -1},
		{Key: "_id", Value: -1},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestTaskDocument_RoundTrip(t *testing.T) {
	done := time.Date(2024, 12, 2, 10, 0, 0, 0, time.UTC)
	task := &domain.Task{
		ID:          hexB,
		Title:       "Write spec",
		Description: "Draft v1",
		Status:      domain.StatusCompleted,
		Priority:    domain.PriorityHigh,
		DueDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		AssignedTo:  hexA,
		CreatedBy:   hexB,
		CompletedAt: &done,
		CreatedAt:   done.Add(-time.Hour),
		UpdatedAt:   done,
	}

	doc, err := toTaskDocument(task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Tags == nil {
		t.Error("nil tags must be stored as an empty array")
	}

	back := doc.toDomain()
	if back.ID != task.ID || back.AssignedTo != hexA || back.CreatedBy != hexB {
		t.Errorf("ids lost in round trip: %+v", back)
	}
	if back.CompletedAt == nil || !back.CompletedAt.Equal(done) {
		t.Errorf("completedAt lost in round trip: %v", back.CompletedAt)
	}
	if back.Status != domain.StatusCompleted || back.Priority != domain.PriorityHigh {
		t.Errorf("enums lost in round trip: %+v", back)
	}
}

func TestToTaskDocument_BadReferences(t *testing.T) {
	if _, err := toTaskDocument(&domain.Task{AssignedTo: "x", CreatedBy: hexA}); err == nil {
		t.Error("expected error for malformed assignee")
	}
	_, err := toTaskDocument(&domain.Task{ID: "bad", AssignedTo: hexA, CreatedBy: hexA})
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound for malformed task id, got %v", err)
	}
}

func TestUserDocument_DefaultRole(t *testing.T) {
	oid, _ := primitive.ObjectIDFromHex(hexA)
	u := (&userDocument{ID: oid, Name: "Alice", IsActive: true}).toDomain()
	if u.Role != domain.RoleUser {
		t.Errorf("expected default role user, got %q", u.Role)
	}
	if u.ID != hexA {
		t.Errorf("expected id %s, got %s", hexA, u.ID)
	}
}

func TestObjectIDs_SkipsMalformed(t *testing.T) {
	got := objectIDs([]string{hexA, "junk", hexB})
	if len(got) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(got))
	}
}
