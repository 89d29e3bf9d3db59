package models

import "time"

// Flashcard doubles as an inventory item; rows are scoped to their
// owning user.
type Flashcard struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	Content   string    `gorm:"column:content" json:"content"`
	UserID    uint      `gorm:"column:user_id;index;not null" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Flashcard) TableName() string { return "flashcards" }
