package models

import "time"

// DailyStat is one archived day of counters for one user. Rows are written by
// the rollover job only and are never updated or deleted.
type DailyStat struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Date      string    `json:"date" db:"date"` // YYYY-MM-DD, the rollover's trigger date
	Water     int64     `json:"water" db:"water"`
	Steps     int64     `json:"steps" db:"steps"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
