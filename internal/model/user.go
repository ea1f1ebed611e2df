package model

import (
	"strings"
	"time"
)

type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	FirstName string    `gorm:"size:50" json:"first_name,omitempty"`
	LastName  string    `gorm:"size:50" json:"last_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName 显示名：姓名为空时回退到用户名
func (u *User) DisplayName() string {
	fullName := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if fullName == "" {
		return u.Username
	}
	return fullName
}
