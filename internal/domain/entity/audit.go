package entity

import "time"

// Audit es una línea de bitácora append-only.
type Audit struct {
	ID          string
	Action      string
	PerformedBy string
	CreatedAt   time.Time // UTC
}
