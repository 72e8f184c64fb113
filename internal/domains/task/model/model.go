package model

import "time"

const (
	TableName  = "tasks"
	EntityName = "task"

	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCompleted   = "completed"
	FieldCreatedAt   = "created_at"
	FieldUpdatedAt   = "updated_at"
)

// Task is the persisted to-do record. ID and CreatedAt are assigned by
// storage on insert and never change afterwards; UpdatedAt stays NULL
// until the first mutation.
type Task struct {
	ID          int64      `db:"id"          generated:"true"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	Completed   bool       `db:"completed"`
	CreatedAt   time.Time  `db:"created_at"  generated:"true"`
	UpdatedAt   *time.Time `db:"updated_at"  generated:"true"`
}
