package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmtran/classpoints/internal/models"
)

func strPtr(s string) *string { return &s }

func TestScoresSheet(t *testing.T) {
	records := []models.ScoreDetail{
		{
			ScoreRecord: models.ScoreRecord{Points: -5, CreatedAt: 1700000000},
			StudentName: strPtr("Alice Nguyen"),
			StudentCode: strPtr("S001"),
			ButtonName:  strPtr("Late to class"),
			WeekName:    strPtr("Week 1"),
		},
		{
			ScoreRecord: models.ScoreRecord{Points: 7.5, CreatedAt: 1700000100},
		},
	}

	sheet := ScoresSheet("Scores", records)

	assert.Equal(t, "Scores", sheet.Title)
	require.Len(t, sheet.Rows, 2)
	require.Len(t, sheet.Rows[0], len(sheet.Header))

	assert.Equal(t, "Alice Nguyen", sheet.Rows[0][1])
	assert.Equal(t, "S001", sheet.Rows[0][2])
	assert.Equal(t, "-5", sheet.Rows[0][5])

	t.Run("unresolved references render as dashes", func(t *testing.T) {
		assert.Equal(t, "-", sheet.Rows[1][1])
		assert.Equal(t, "-", sheet.Rows[1][3])
		assert.Equal(t, "-", sheet.Rows[1][4])
		assert.Equal(t, "7.5", sheet.Rows[1][5])
	})
}

func TestNewWorkbook(t *testing.T) {
	sheet := ScoresSheet("Scores", []models.ScoreDetail{
		{
			ScoreRecord: models.ScoreRecord{Points: 5, CreatedAt: 1700000000},
			StudentName: strPtr("Bob Tran"),
		},
	})

	wb, err := NewWorkbook([]SheetSpec{sheet})
	require.NoError(t, err)
	require.NotNil(t, wb.File)

	assert.Equal(t, []string{"Scores"}, wb.File.GetSheetList())

	val, err := wb.File.GetCellValue("Scores", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Bob Tran", val)

	header, err := wb.File.GetCellValue("Scores", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Date", header)
}
