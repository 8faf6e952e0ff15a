package models

import (
	"github.com/go-playground/validator/v10"
)

const (
	ButtonTypeBonus   = "bonus"
	ButtonTypePenalty = "penalty"
)

// PresetButton is a reusable scoring action. Buttons are immutable once
// created; the only mutation is deletion.
type PresetButton struct {
	ID        int64   `db:"id" json:"id"`
	Name      string  `db:"name" json:"name"`
	Points    float64 `db:"points" json:"points"`
	Type      string  `db:"type" json:"type"`
	CreatedAt int64   `db:"created_at" json:"created_at"`
}

type ButtonRequest struct {
	Name   string  `json:"name" validate:"required"`
	Points float64 `json:"points" validate:"required"`
	Type   string  `json:"type" validate:"required,oneof=bonus penalty"`
}

func (r *ButtonRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
