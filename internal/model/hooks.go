package model

import (
	"time"

	"gorm.io/gorm"
)

// Timestamps are stored in UTC and default to the moment of insertion.

func (u *User) BeforeCreate(*gorm.DB) error {
	now := time.Now().UTC()
	if u.CreatedDate.IsZero() {
		u.CreatedDate = now
	}
	if u.UpdatedDate.IsZero() {
		u.UpdatedDate = u.CreatedDate
	}
	if u.UserName == "" {
		u.UserName = DefaultUserName
	}
	if u.ImgURL == "" {
		u.ImgURL = DefaultImgURL
	}
	return nil
}

func (u *User) BeforeUpdate(*gorm.DB) error {
	u.UpdatedDate = time.Now().UTC()
	return nil
}

func (e *Excerpt) BeforeCreate(*gorm.DB) error {
	if e.CreatedDate.IsZero() {
		e.CreatedDate = time.Now().UTC()
	}
	return nil
}

func (s *Score) BeforeCreate(*gorm.DB) error {
	if s.CreatedDate.IsZero() {
		s.CreatedDate = time.Now().UTC()
	}
	return nil
}

// All lists every managed entity, in dependency order, for AutoMigrate.
func All() []any {
	return []any{&User{}, &Excerpt{}, &Score{}}
}
