package tasks

import "time"

const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Task is a dashboard to-do item. Tasks are per-user scratch state and
// live only in memory.
type Task struct {
	ID        string
	UserID    string
	Title     string
	Status    string
	DueAt     *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func ValidStatus(s string) bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusCompleted
}
