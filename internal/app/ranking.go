package app

import (
	"github.com/hmtran/classpoints/internal/models"
)

// Rank locates a student in an already-ordered leaderboard and returns
// their 1-based position plus the class size. Students sharing a total
// share the rank of the first of them, so [110, 100, 100, 95] ranks as
// 1, 2, 2, 4.
func Rank(leaderboard []models.Student, studentID int64) (rank, total int) {
	total = len(leaderboard)

	position := 0
	for i, s := range leaderboard {
		if i == 0 || s.Points != leaderboard[i-1].Points {
			position = i + 1
		}
		if s.ID == studentID {
			return position, total
		}
	}
	return 0, total
}
