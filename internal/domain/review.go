package domain

import "time"

// Review Model
// One review per (user, product) pair, enforced by a composite unique index.
// A repeat submission overwrites the existing row in place.
type Review struct {
	ID        uint      `gorm:"primaryKey"` // Primary key
	CreatedAt time.Time // Timestamp of (re-)submission
	UserID    uint      `gorm:"uniqueIndex:idx_user_product"` // Foreign key to User
	ProductID uint      `gorm:"uniqueIndex:idx_user_product"` // Foreign key to Product
	Rating    float64   `gorm:"not null"`                     // Rating in [0, 5]
	Title     string    `gorm:"size:100;not null"`            // Short title
	Comment   string    `gorm:"size:500"`                     // Free-text comment
	User      User      `gorm:"foreignKey:UserID"`            // Reviewing user
	Product   Product   `gorm:"foreignKey:ProductID"`         // Reviewed product
}
