package model

import "time"

type Score struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	WPM         int       `gorm:"column:wpm;not null" json:"wpm"`
	Time        int       `gorm:"not null" json:"time"`
	ExcerptID   uint      `gorm:"not null;index" json:"excerpt_id"`
	Excerpt     *Excerpt  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	ErrorCount  int       `gorm:"not null" json:"error_count"`
	CreatedDate time.Time `gorm:"not null" json:"created_date"`
}

func (Score) TableName() string { return "score" }
