package models

import (
	"time"
)

// User is an account that can author recipes and follow other authors.
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
	Email        string    `gorm:"size:254;not null;uniqueIndex" json:"email"`
	Username     string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	FirstName    string    `gorm:"size:150;not null" json:"first_name"`
	LastName     string    `gorm:"size:150;not null" json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
}

// Subscription records that Subscriber follows Author.
type Subscription struct {
	ID           uint      `gorm:"primarykey"`
	CreatedAt    time.Time
	SubscriberID uint `gorm:"not null;uniqueIndex:idx_subscription_pair;check:chk_subscription_not_self,subscriber_id <> author_id"`
	AuthorID     uint `gorm:"not null;uniqueIndex:idx_subscription_pair;index"`
	Subscriber   User `gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE"`
	Author       User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}
