package models

import (
	"gin-itemtracker/constants"
	"time"
)

type User struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
	Username       string    `gorm:"not null;uniqueIndex" json:"username"`
	Email          string    `gorm:"not null;uniqueIndex" json:"email"`
	HashedPassword string    `gorm:"not null" json:"-"`
	IsSuperuser    bool      `gorm:"not null;default:false" json:"is_superuser"`
	Items          []Item    `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE;" json:"-"`
}

// Role は is_superuser から導出されるトークン用のロール
func (u *User) Role() string {
	if u.IsSuperuser {
		return constants.RoleAdmin
	}
	return constants.RoleUser
}
