package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestValidation(t *testing.T) {
	t.Run("student request", func(t *testing.T) {
		ok := StudentRequest{Name: "Alice", Code: "S001"}
		assert.NoError(t, ok.Validate())

		missing := StudentRequest{Name: "Alice"}
		assert.Error(t, missing.Validate())
	})

	t.Run("button request checks the type", func(t *testing.T) {
		ok := ButtonRequest{Name: "Late", Points: -5, Type: ButtonTypePenalty}
		assert.NoError(t, ok.Validate())

		bad := ButtonRequest{Name: "Late", Points: -5, Type: "homework"}
		assert.Error(t, bad.Validate())
	})

	t.Run("week request", func(t *testing.T) {
		ok := WeekRequest{Name: "Week 1"}
		assert.NoError(t, ok.Validate())

		empty := WeekRequest{}
		assert.Error(t, empty.Validate())
	})

	t.Run("score request needs a student", func(t *testing.T) {
		ok := ScoreRequest{StudentID: 1, Points: -5}
		assert.NoError(t, ok.Validate())

		missing := ScoreRequest{Points: -5}
		assert.Error(t, missing.Validate())
	})
}

func TestStudentImportCodeFallback(t *testing.T) {
	assert.Equal(t, "S001", StudentImport{Code: "S001"}.StudentCode())
	assert.Equal(t, "S002", StudentImport{AltCode: "S002"}.StudentCode())
	assert.Equal(t, "S001", StudentImport{Code: "S001", AltCode: "S002"}.StudentCode())
	assert.Equal(t, "", StudentImport{}.StudentCode())
}
