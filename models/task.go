package models

import "time"

type Task struct {
	ID          uint       `gorm:"column:id;primaryKey" json:"id"`
	Title       string     `gorm:"column:title;not null" json:"title"`
	Description string     `gorm:"column:description" json:"description"`
	DueDate     *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
	Completed   bool       `gorm:"column:completed;default:false" json:"completed"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (Task) TableName() string { return "tasks" }
