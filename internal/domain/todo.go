package domain

import "time"

// Todo is a single task owned by exactly one user. CompletedAt is set only
// while Completed is true; clearing completion clears it as well.
type Todo struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	Text        string     `gorm:"not null" json:"text"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatorID   string     `gorm:"type:uuid;not null;index" json:"creator"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
