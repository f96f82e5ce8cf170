package model

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Appointment struct {
	ID         string
	UserID     string
	Department string
	Doctor     string
	// Date is the calendar date (YYYY-MM-DD) and TimeLabel the display label
	// ("10:00 AM"). StartAt is derived from the two at booking time and is
	// the only value used for ordering and comparison.
	Date      string
	TimeLabel string
	StartAt   time.Time
	CreatedAt time.Time
}
