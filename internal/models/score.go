package models

import (
	"github.com/go-playground/validator/v10"
)

// ScoreRecord is one ledger entry: a signed point delta applied to a
// student, optionally attributed to a preset button and a week.
type ScoreRecord struct {
	ID            int64   `db:"id" json:"id"`
	StudentID     int64   `db:"student_id" json:"student_id"`
	ButtonID      *int64  `db:"button_id" json:"button_id"`
	WeekID        *int64  `db:"week_id" json:"week_id"`
	Points        float64 `db:"points" json:"points"`
	Note          *string `db:"note" json:"note"`
	ViolationDate *string `db:"violation_date" json:"violation_date"`
	CreatedAt     int64   `db:"created_at" json:"created_at"`
}

// ScoreDetail is a denormalized read of a ScoreRecord. Names of deleted
// buttons and weeks come back nil rather than failing the query.
type ScoreDetail struct {
	ScoreRecord
	StudentName *string `db:"student_name" json:"student_name"`
	StudentCode *string `db:"student_code" json:"student_code"`
	ButtonName  *string `db:"button_name" json:"button_name"`
	WeekName    *string `db:"week_name" json:"week_name"`
}

type ScoreRequest struct {
	StudentID     int64   `json:"student_id" validate:"required"`
	ButtonID      *int64  `json:"button_id"`
	WeekID        *int64  `json:"week_id"`
	Points        float64 `json:"points"`
	Note          *string `json:"note"`
	ViolationDate *string `json:"violation_date"`
}

func (r *ScoreRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ScoreImport is one row of a bulk score upload, matched to a student by
// code rather than id.
type ScoreImport struct {
	StudentCode string  `json:"student_code"`
	Points      float64 `json:"points"`
	Note        *string `json:"note"`
}
