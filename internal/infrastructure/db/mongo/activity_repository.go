package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskboard/task-api/internal/core/domain"
	"github.com/taskboard/task-api/internal/core/ports"
)

const collectionActivity = "task_activity"

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	col *mongo.Collection
}

var _ ports.ActivityRepository = (*ActivityRepository)(nil)

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionActivity)}
}

type activityDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	TaskID     string             `bson:"taskId"`
	ActorID    string             `bson:"actorId"`
	Action     string             `bson:"action"`
	Fields     []string           `bson:"fields,omitempty"`
	StatusFrom string             `bson:"statusFrom,omitempty"`
	StatusTo   string             `bson:"statusTo,omitempty"`
	At         time.Time          `bson:"at"`
}

// Insert appends an entry to the task_activity audit collection.
func (r *ActivityRepository) Insert(ctx context.Context, a *domain.TaskActivity) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := activityDocument{
		ID:         primitive.NewObjectID(),
		TaskID:     a.TaskID,
		ActorID:    a.ActorID,
		Action:     string(a.Action),
		Fields:     a.Fields,
		StatusFrom: string(a.StatusFrom),
		StatusTo:   string(a.StatusTo),
		At:         a.At.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	a.ID = doc.ID.Hex()
	return nil
}

// ListByTask returns the entries for a task, oldest first.
func (r *ActivityRepository) ListByTask(ctx context.Context, taskID string) ([]domain.TaskActivity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"taskId": taskID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find activity: %w", err)
	}
	defer cur.Close(ctx)

	var docs []activityDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}

	out := make([]domain.TaskActivity, len(docs))
	for i, d := range docs {
		out[i] = domain.TaskActivity{
			ID:         d.ID.Hex(),
			TaskID:     d.TaskID,
			ActorID:    d.ActorID,
			Action:     domain.ActivityAction(d.Action),
			Fields:     d.Fields,
			StatusFrom: domain.TaskStatus(d.StatusFrom),
			StatusTo:   domain.TaskStatus(d.StatusTo),
			At:         d.At.UTC(),
		}
	}
	return out, nil
}

func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "taskId", Value: 1}, {Key: "at", Value: 1}},
	})
	return err
}
