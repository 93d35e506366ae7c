package domain

import "time"

// Issue statuses
const (
	IssueOpen   = "open"   // Awaiting staff action
	IssueClosed = "closed" // Resolved by staff
)

// Issue Model
// Opened automatically when a review rates a product below its running
// average; closed only by staff.
type Issue struct {
	ID        uint      `gorm:"primaryKey"` // Primary key
	CreatedAt time.Time // Timestamp of creation
	ReviewID  uint      `gorm:"not null"`             // Foreign key to the triggering Review
	Status    string    `gorm:"size:10;default:open"` // open or closed
	Review    Review    `gorm:"foreignKey:ReviewID"`  // Triggering review
}
