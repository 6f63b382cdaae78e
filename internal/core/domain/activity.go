package domain

import "time"

// ActivityAction names the kind of mutation recorded for a task.
type ActivityAction string

const (
	ActivityCreated ActivityAction = "created"
	ActivityUpdated ActivityAction = "updated"
	ActivityDeleted ActivityAction = "deleted"
)

// TaskActivity is one entry of a task's audit trail.
type TaskActivity struct {
	ID         string
	TaskID     string
	ActorID    string
	Action     ActivityAction
	Fields     []string   // fields changed by an update
	StatusFrom TaskStatus // set when the status changed
	StatusTo   TaskStatus
	At         time.Time
}
