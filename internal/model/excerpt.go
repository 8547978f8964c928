package model

import "time"

type Excerpt struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Body        string    `gorm:"type:text;not null" json:"body"`
	CreatedDate time.Time `gorm:"not null" json:"created_date"`
}

// The table name keeps the historical spelling so existing databases stay readable.
func (Excerpt) TableName() string { return "exerpts" }
