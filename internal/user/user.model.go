package user

import (
	"time"

	"tongueTwisterAPI/internal/achievement"
)

type User struct {
	ID           string             `json:"id"`
	Email        string             `json:"email"`
	Name         string             `json:"name"`
	JoinDate     time.Time          `json:"joinDate"`
	Streak       int                `json:"streak"`
	LastPractice *time.Time         `json:"lastPractice,omitempty"`
	XP           int                `json:"xp"`
	Level        int                `json:"level"`
	Achievements []achievement.Code `json:"achievements"`
	Favorites    []string           `json:"favorites"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}
