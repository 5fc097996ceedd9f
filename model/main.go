package model

// A Resource is a named entity that can be booked, a room or an item.
//
// Names are unique and must contain at least one non-digit character so they
// can never be confused with an identifier on the command line.
type Resource struct {
	ID   int64  `gorm:"primaryKey" json:"id" yaml:"id"`
	Name string `gorm:"unique" json:"name" yaml:"name"`
}

func (Resource) TableName() string {
	return "resource"
}

// Booking reserves a Resource for a time range. The table is created with the
// schema but nothing reads or writes it yet.
type Booking struct {
	ID         int64 `gorm:"primaryKey"`
	ResourceID int64 `gorm:"not null"`
	Resource   Resource
	StartsAt   string `gorm:"not null"`
	EndsAt     string `gorm:"not null"`
}

func (Booking) TableName() string {
	return "booking"
}
