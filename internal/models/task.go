package models

import "time"

type Task struct {
	ID          int64
	UserID      int64
	Description string
	CreatedAt   time.Time
}
