package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskboard/task-api/internal/core/domain"
	"github.com/taskboard/task-api/internal/core/ports"
)

const collectionTasks = "tasks"

type TaskRepository struct {
	col *mongo.Collection
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(collectionTasks)}
}

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	Priority    string             `bson:"priority"`
	DueDate     time.Time          `bson:"dueDate"`
	AssignedTo  primitive.ObjectID `bson:"assignedTo"`
	CreatedBy   primitive.ObjectID `bson:"createdBy"`
	Tags        []string           `bson:"tags"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func toTaskDocument(t *domain.Task) (*taskDocument, error) {
	assignee, err := primitive.ObjectIDFromHex(t.AssignedTo)
	if err != nil {
		return nil, fmt.Errorf("assignedTo %q: %w", t.AssignedTo, err)
	}
	creator, err := primitive.ObjectIDFromHex(t.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("createdBy %q: %w", t.CreatedBy, err)
	}

	doc := &taskDocument{
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate.UTC(),
		AssignedTo:  assignee,
		CreatedBy:   creator,
		Tags:        t.Tags,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	if t.ID != "" {
		if doc.ID, err = primitive.ObjectIDFromHex(t.ID); err != nil {
			return nil, domain.ErrTaskNotFound
		}
	}
	return doc, nil
}

func (d *taskDocument) toDomain() *domain.Task {
	t := &domain.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      domain.TaskStatus(d.Status),
		Priority:    domain.TaskPriority(d.Priority),
		DueDate:     d.DueDate.UTC(),
		AssignedTo:  d.AssignedTo.Hex(),
		CreatedBy:   d.CreatedBy.Hex(),
		Tags:        d.Tags,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	if d.CompletedAt != nil {
		at := d.CompletedAt.UTC()
		t.CompletedAt = &at
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return t
}

// Create inserts a new task and sets its generated id.
func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toTaskDocument(t)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return err
	}
	t.ID = doc.ID.Hex()
	return nil
}

// FindByID retrieves a task by its hex id. Malformed ids are reported as not found.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc taskDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// Update replaces the stored document. Concurrent writers race; the last
// replace wins.
func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	doc, err := toTaskDocument(t)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// List returns one page of matching tasks together with the total match count.
func (r *TaskRepository) List(ctx context.Context, f ports.TaskFilter) ([]*domain.Task, int64, error) {
	filter, ok := buildTaskFilter(f)
	if !ok {
		return []*domain.Task{}, 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	skip, ok := f.Offset()
	if !ok || skip >= total {
		return []*domain.Task{}, total, nil
	}

	opts := options.Find().
		SetSort(buildTaskSort(f.Sort)).
		SetSkip(skip).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find tasks: %w", err)
	}
	defer cur.Close(ctx)

	var docs []taskDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode tasks: %w", err)
	}

	tasks := make([]*domain.Task, len(docs))
	for i := range docs {
		tasks[i] = docs[i].toDomain()
	}
	return tasks, total, nil
}

// buildTaskFilter translates f into a query document. It reports false when
// a referenced id is malformed, meaning nothing can match.
func buildTaskFilter(f ports.TaskFilter) (bson.M, bool) {
	filter := bson.M{}

	if f.ParticipantID != "" {
		pid, err := primitive.ObjectIDFromHex(f.ParticipantID)
		if err != nil {
			return nil, false
		}
		filter["$or"] = bson.A{
			bson.M{"assignedTo": pid},
			bson.M{"createdBy": pid},
		}
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Priority != "" {
		filter["priority"] = f.Priority
	}
	if f.AssignedTo != "" {
		aid, err := primitive.ObjectIDFromHex(f.AssignedTo)
		if err != nil {
			return nil, false
		}
		filter["assignedTo"] = aid
	}
	return filter, true
}

// buildTaskSort appends _id descending so pages stay stable across equal keys.
func buildTaskSort(fields []ports.SortField) bson.D {
	sort := make(bson.D, 0, len(fields)+1)
	for _, f := range fields {
		dir := 1
		if f.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: f.Field, Value: dir})
	}
	return append(sort, bson.E{Key: "_id", Value: -1})
}

// EnsureIndexes creates the indexes used by the listing queries.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "assignedTo", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdBy", Value: 1}}},
		{Keys: bson.D{{Key: "dueDate", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
