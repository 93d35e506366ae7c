package domain

import "time"

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey"`          // Primary key
	Name      string    `gorm:"size:50;not null"`    // Display name
	CIF       string    `gorm:"size:20;uniqueIndex"` // Customer information file identifier
	CreatedAt time.Time // Timestamp of creation
}
