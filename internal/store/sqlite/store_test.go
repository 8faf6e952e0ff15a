// internal/store/sqlite/store_test.go
package sqlite

import (
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hmtran/classpoints/internal/models"
	"github.com/hmtran/classpoints/internal/store"
)

// setupTestDB creates an in-memory SQLite database with the migrated schema
func setupTestDB(t *testing.T) (*SQLiteStore, func()) {
	s, err := NewSQLiteStore(":memory:", "../../../migrations")
	require.NoError(t, err, "Failed to create store")

	cleanup := func() {
		err := s.Close()
		require.NoError(t, err, "Failed to close database")
	}

	return s, cleanup
}

func TestMain(m *testing.M) {
	log.Println("Starting SQLite store tests...")
	code := m.Run()
	log.Println("Finished SQLite store tests")
	os.Exit(code)
}

func TestSeed(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, s.Seed("admin123"))

	t.Run("default admin with hashed password", func(t *testing.T) {
		admin, err := s.GetAdminByUsername("admin")
		require.NoError(t, err)
		require.NotNil(t, admin)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123")))
	})

	t.Run("default button catalog", func(t *testing.T) {
		buttons, err := s.ListButtons()
		require.NoError(t, err)
		assert.Len(t, buttons, 8)

		bonus, err := s.ListButtonsByType(models.ButtonTypeBonus)
		require.NoError(t, err)
		assert.Len(t, bonus, 4)
		for _, b := range bonus {
			assert.Greater(t, b.Points, 0.0)
		}

		penalty, err := s.ListButtonsByType(models.ButtonTypePenalty)
		require.NoError(t, err)
		assert.Len(t, penalty, 4)
		for _, b := range penalty {
			assert.Less(t, b.Points, 0.0)
		}
	})

	t.Run("seed is idempotent", func(t *testing.T) {
		require.NoError(t, s.Seed("another-password"))

		admin, err := s.GetAdminByUsername("admin")
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123")),
			"reseeding must not overwrite the existing admin password")

		buttons, err := s.ListButtons()
		require.NoError(t, err)
		assert.Len(t, buttons, 8)
	})
}

func TestStudentCRUD(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	id, err := s.CreateStudent("Alice Nguyen", "S001")
	require.NoError(t, err)

	t.Run("new student starts at the default total", func(t *testing.T) {
		student, err := s.GetStudent(id)
		require.NoError(t, err)
		require.NotNil(t, student)
		assert.Equal(t, "Alice Nguyen", student.Name)
		assert.Equal(t, "S001", student.Code)
		assert.Equal(t, float64(models.DefaultPoints), student.Points)
	})

	t.Run("duplicate code is rejected", func(t *testing.T) {
		_, err := s.CreateStudent("Impostor", "S001")
		assert.ErrorIs(t, err, store.ErrDuplicateKey)

		original, err := s.GetStudentByCode("S001")
		require.NoError(t, err)
		require.NotNil(t, original)
		assert.Equal(t, "Alice Nguyen", original.Name, "failed insert must not disturb the original")
	})

	t.Run("update rename and recode", func(t *testing.T) {
		require.NoError(t, s.UpdateStudent(id, "Alice N.", "S001A"))

		student, err := s.GetStudent(id)
		require.NoError(t, err)
		assert.Equal(t, "Alice N.", student.Name)
		assert.Equal(t, "S001A", student.Code)
	})

	t.Run("update unknown id", func(t *testing.T) {
		err := s.UpdateStudent(99999, "Nobody", "S999")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("lookup by unknown code", func(t *testing.T) {
		student, err := s.GetStudentByCode("no-such-code")
		require.NoError(t, err)
		assert.Nil(t, student)
	})
}

func TestScoreLedger(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	studentID, err := s.CreateStudent("Bob Tran", "S002")
	require.NoError(t, err)

	var scoreID int64

	t.Run("create score applies the delta", func(t *testing.T) {
		scoreID, err = s.CreateScore(models.ScoreRecord{
			StudentID: studentID,
			Points:    -5,
		})
		require.NoError(t, err)

		student, err := s.GetStudent(studentID)
		require.NoError(t, err)
		assert.Equal(t, 95.0, student.Points)
	})

	t.Run("delete score reverses the delta", func(t *testing.T) {
		require.NoError(t, s.DeleteScore(scoreID))

		student, err := s.GetStudent(studentID)
		require.NoError(t, err)
		assert.Equal(t, 100.0, student.Points)

		records, err := s.ScoresByStudent(studentID)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("score for unknown student", func(t *testing.T) {
		_, err := s.CreateScore(models.ScoreRecord{StudentID: 99999, Points: 10})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete unknown score", func(t *testing.T) {
		err := s.DeleteScore(99999)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("wipe and reset", func(t *testing.T) {
		_, err := s.CreateScore(models.ScoreRecord{StudentID: studentID, Points: 7})
		require.NoError(t, err)
		_, err = s.CreateScore(models.ScoreRecord{StudentID: studentID, Points: -3})
		require.NoError(t, err)

		deleted, err := s.DeleteAllScores()
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		require.NoError(t, s.ResetAllPoints())
		student, err := s.GetStudent(studentID)
		require.NoError(t, err)
		assert.Equal(t, float64(models.DefaultPoints), student.Points)
	})
}

func TestLeaderboard(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	idA, err := s.CreateStudent("Alice", "S001")
	require.NoError(t, err)
	idB, err := s.CreateStudent("Bob", "S002")
	require.NoError(t, err)
	idC, err := s.CreateStudent("Carol", "S003")
	require.NoError(t, err)

	require.NoError(t, s.SetStudentPoints(idA, 100))
	require.NoError(t, s.SetStudentPoints(idB, 95))
	require.NoError(t, s.SetStudentPoints(idC, 110))

	board, err := s.Leaderboard()
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, []string{"Carol", "Alice", "Bob"},
		[]string{board[0].Name, board[1].Name, board[2].Name})

	t.Run("ties break by student code", func(t *testing.T) {
		require.NoError(t, s.SetStudentPoints(idB, 100))

		board, err := s.Leaderboard()
		require.NoError(t, err)
		assert.Equal(t, "Alice", board[1].Name)
		assert.Equal(t, "Bob", board[2].Name)
	})
}

func TestWeeks(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	w1, err := s.CreateWeek("Week 1")
	require.NoError(t, err)
	w2, err := s.CreateWeek("Week 2")
	require.NoError(t, err)

	t.Run("week number parsed from name", func(t *testing.T) {
		week, err := s.GetWeek(w2)
		require.NoError(t, err)
		require.NotNil(t, week)
		require.NotNil(t, week.Number)
		assert.Equal(t, 2, *week.Number)
	})

	t.Run("lookup by number", func(t *testing.T) {
		week, err := s.GetWeekByNumber(1)
		require.NoError(t, err)
		require.NotNil(t, week)
		assert.Equal(t, w1, week.ID)

		missing, err := s.GetWeekByNumber(42)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("at most one active week", func(t *testing.T) {
		require.NoError(t, s.SetActiveWeek(w1))
		require.NoError(t, s.SetActiveWeek(w2))

		active, err := s.GetActiveWeek()
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, w2, active.ID)

		weeks, err := s.ListWeeks()
		require.NoError(t, err)
		activeCount := 0
		for _, w := range weeks {
			if w.Active {
				activeCount++
			}
		}
		assert.Equal(t, 1, activeCount)
	})

	t.Run("activate unknown week", func(t *testing.T) {
		err := s.SetActiveWeek(99999)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestCascadeDeletes(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	studentID, err := s.CreateStudent("Dana", "S010")
	require.NoError(t, err)
	weekID, err := s.CreateWeek("Week 3")
	require.NoError(t, err)
	buttonID, err := s.CreateButton("Extra credit", 5, models.ButtonTypeBonus)
	require.NoError(t, err)

	_, err = s.CreateScore(models.ScoreRecord{
		StudentID: studentID,
		ButtonID:  &buttonID,
		WeekID:    &weekID,
		Points:    5,
	})
	require.NoError(t, err)

	t.Run("deleting a button leaves the record with a nil name", func(t *testing.T) {
		require.NoError(t, s.DeleteButton(buttonID))

		records, err := s.ScoresByStudent(studentID)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Nil(t, records[0].ButtonName)
		require.NotNil(t, records[0].WeekName)
		assert.Equal(t, "Week 3", *records[0].WeekName)
	})

	t.Run("deleting a week removes its records", func(t *testing.T) {
		require.NoError(t, s.DeleteWeek(weekID))

		records, err := s.ScoresByStudent(studentID)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("deleting a student removes their records", func(t *testing.T) {
		_, err := s.CreateScore(models.ScoreRecord{StudentID: studentID, Points: 3})
		require.NoError(t, err)

		require.NoError(t, s.DeleteStudent(studentID))

		student, err := s.GetStudent(studentID)
		require.NoError(t, err)
		assert.Nil(t, student)

		all, err := s.ListScores()
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestImports(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	t.Run("import students skips existing codes", func(t *testing.T) {
		_, err := s.CreateStudent("Already Here", "S100")
		require.NoError(t, err)

		imported, err := s.ImportStudents([]models.StudentImport{
			{Name: "Already Here", Code: "S100"},
			{Name: "New Kid", Code: "S101"},
			{Name: ""},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, imported)

		students, err := s.ListStudents()
		require.NoError(t, err)
		assert.Len(t, students, 2)
	})

	t.Run("import scores skips unknown codes", func(t *testing.T) {
		weekID, err := s.CreateWeek("Week 1")
		require.NoError(t, err)

		imported, err := s.ImportScores([]models.ScoreImport{
			{StudentCode: "S101", Points: 5},
			{StudentCode: "ghost", Points: -10},
		}, &weekID)
		require.NoError(t, err)
		assert.Equal(t, 1, imported)

		student, err := s.GetStudentByCode("S101")
		require.NoError(t, err)
		assert.Equal(t, 105.0, student.Points)

		records, err := s.ScoresByWeek(weekID)
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.NotNil(t, records[0].Note)
		assert.Equal(t, "Import", *records[0].Note)
	})
}
