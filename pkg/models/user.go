package models

import "time"

// User represents a Telegram user tracked by the bot. Water and Steps are
// cumulative for the current day and are zeroed by the daily rollover;
// Weight is the latest reported value and survives the rollover.
type User struct {
	ID        int64     `json:"id" db:"id"` // Telegram User ID
	Weight    float64   `json:"weight" db:"weight"`
	Steps     int64     `json:"steps" db:"steps"`
	Water     int64     `json:"water" db:"water"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
