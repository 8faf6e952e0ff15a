package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsConstraintErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil passes through", nil, nil},
		{
			"sqlite unique violation",
			errors.New("constraint failed: UNIQUE constraint failed: students.student_code (2067)"),
			ErrDuplicateKey,
		},
		{
			"postgres unique violation",
			errors.New(`pq: duplicate key value violates unique constraint "students_student_code_key"`),
			ErrDuplicateKey,
		},
		{"unrelated error passes through", errors.New("connection reset"), errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := asConstraintErr(tt.err)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.Equal(t, tt.want.Error(), got.Error())
		})
	}
}
