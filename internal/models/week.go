package models

import (
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var weekNumberRegex = regexp.MustCompile(`\d+`)

type Week struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Number    *int   `db:"week_number" json:"week_number"`
	Active    bool   `db:"is_active" json:"is_active"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
}

type WeekRequest struct {
	Name string `json:"name" validate:"required"`
}

func (r *WeekRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ParseWeekNumber extracts the first number from a week name, so
// "Week 5" and "Tuần 12" both yield a usable sequence number. Names
// without digits yield nil.
func ParseWeekNumber(name string) *int {
	match := weekNumberRegex.FindString(name)
	if match == "" {
		return nil
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &n
}
