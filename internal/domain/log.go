package domain

import "time"

// Log Model
// Append-only record of a product view, feeds the bank activity dashboard.
type Log struct {
	ID        uint      `gorm:"primaryKey"` // Primary key
	Timestamp time.Time `gorm:"index"`      // Time of the view
	UserID    uint      // Foreign key to User
	ProductID uint      // Foreign key to Product
}
