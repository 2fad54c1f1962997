package dbschema

import "time"

// BaseModel is the shared column set embedded by every entity.
type BaseModel struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
