package models

import (
	"time"
)

// AdmissionForm defines the single admission record a user may submit,
// based on the 'admission_forms' table. Name and email are denormalized
// copies of the owning user's fields at submission time.
type AdmissionForm struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"userId" db:"user_id"` // unique, one record per user
	Name        string    `json:"name" db:"name"`
	Email       string    `json:"email" db:"email"`
	Course      string    `json:"course" db:"course"`
	Address     string    `json:"address" db:"address"`
	Phone       string    `json:"phone" db:"phone"`
	SubmittedAt time.Time `json:"submittedAt" db:"submitted_at"`
}
