package domain

import "time"

// BaseModel carries the integer key and timestamps of users. Campaigns and
// leads are keyed by uuid instead. Rows are hard deleted, so there is no
// DeletedAt.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
