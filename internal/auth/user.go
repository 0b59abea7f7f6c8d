package auth

import "time"

// User is an account of the identity provider. Farmer metadata given at
// signup is kept alongside the credentials.
type User struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Email        string    `gorm:"uniqueIndex;size:320;not null"`
	PasswordHash string    `gorm:"not null"`
	Name         string    `gorm:"size:200"`
	FarmSize     string    `gorm:"size:64"`
	Location     string    `gorm:"size:200"`
	CreatedAt    time.Time `gorm:"not null"`
}
