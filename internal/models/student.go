package models

import (
	"github.com/go-playground/validator/v10"
)

// DefaultPoints is the total every student starts with and the value
// ResetAllPoints restores.
const DefaultPoints = 100

type Student struct {
	ID        int64   `db:"id" json:"id"`
	Name      string  `db:"name" json:"name"`
	Code      string  `db:"student_code" json:"student_code"`
	Points    float64 `db:"points" json:"points"`
	CreatedAt int64   `db:"created_at" json:"created_at"`
}

type StudentRequest struct {
	Name string `json:"name" validate:"required"`
	Code string `json:"student_code" validate:"required"`
}

func (r *StudentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// StudentImport is one row of a bulk student upload. Code falls back to
// the legacy "code" field name some spreadsheets still export.
type StudentImport struct {
	Name    string `json:"name"`
	Code    string `json:"student_code"`
	AltCode string `json:"code"`
}

func (s StudentImport) StudentCode() string {
	if s.Code != "" {
		return s.Code
	}
	return s.AltCode
}
