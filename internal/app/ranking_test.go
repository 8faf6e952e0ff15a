package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hmtran/classpoints/internal/models"
)

func TestRank(t *testing.T) {
	board := []models.Student{
		{ID: 1, Points: 110},
		{ID: 2, Points: 100},
		{ID: 3, Points: 100},
		{ID: 4, Points: 95},
	}

	tests := []struct {
		name      string
		studentID int64
		wantRank  int
		wantTotal int
	}{
		{"leader", 1, 1, 4},
		{"first of a tie", 2, 2, 4},
		{"second of a tie shares the rank", 3, 2, 4},
		{"after a tie the rank skips", 4, 4, 4},
		{"unknown student ranks zero", 99, 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank, total := Rank(board, tt.studentID)
			assert.Equal(t, tt.wantRank, rank)
			assert.Equal(t, tt.wantTotal, total)
		})
	}

	t.Run("empty leaderboard", func(t *testing.T) {
		rank, total := Rank(nil, 1)
		assert.Equal(t, 0, rank)
		assert.Equal(t, 0, total)
	})
}
