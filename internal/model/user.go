package model

import "time"

const (
	DefaultUserName = "User"
	DefaultImgURL   = "https://randomuser.me/api/portraits/men/77.jpg"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FirstName    string    `gorm:"size:80" json:"first_name"`
	LastName     string    `gorm:"size:80" json:"last_name"`
	Email        string    `gorm:"size:120;uniqueIndex" json:"email"`
	UserName     string    `gorm:"size:80;default:User" json:"user_name"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	ImgURL       string    `gorm:"size:128;default:https://randomuser.me/api/portraits/men/77.jpg" json:"img_url"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedDate  time.Time `gorm:"not null" json:"created_date"`
	UpdatedDate  time.Time `gorm:"not null" json:"updated_date"`
}

func (User) TableName() string { return "users" }

// AuthID, PasswordDigest and CanAdminister make User an app.Authenticatable.
func (u *User) AuthID() uint           { return u.ID }
func (u *User) PasswordDigest() string { return u.PasswordHash }
func (u *User) CanAdminister() bool    { return u.IsAdmin }

func (u *User) String() string {
	return u.UserName
}
