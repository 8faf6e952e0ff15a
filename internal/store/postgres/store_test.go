package postgres

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmtran/classpoints/internal/models"
	"github.com/hmtran/classpoints/internal/store"
)

// setupTestDB connects to the Postgres instance named by
// CLASSPOINTS_TEST_PG_DSN and skips the test when it is unset. The
// database is wiped before each test, so point it at a throwaway one.
func setupTestDB(t *testing.T) (*PostgresStore, func()) {
	dsn := os.Getenv("CLASSPOINTS_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("CLASSPOINTS_TEST_PG_DSN not set, skipping Postgres store tests")
	}

	s, err := NewPostgresStore(dsn, "../../../migrations")
	require.NoError(t, err, "Failed to create store")

	_, err = s.DB.Exec(`TRUNCATE admin, students, preset_buttons, weeks, score_records RESTART IDENTITY`)
	require.NoError(t, err, "Failed to reset test database")

	cleanup := func() {
		err := s.Close()
		require.NoError(t, err, "Failed to close database")
	}

	return s, cleanup
}

// The repository logic is shared with the SQLite backend; these tests
// focus on what differs per dialect: placeholder conversion, RETURNING
// inserts, ON CONFLICT upserts and the unique-violation error mapping.

func TestConvertPlaceholders(t *testing.T) {
	s := &PostgresStore{}
	s.Converter = convertPlaceholders

	assert.Equal(t, "SELECT 1", s.Converter("SELECT 1"))
	assert.Equal(t,
		"UPDATE students SET points = points + $1 WHERE id = $2",
		s.Converter("UPDATE students SET points = points + ? WHERE id = ?"),
	)
}

func TestStudentRoundTrip(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	id, err := s.CreateStudent("Alice Nguyen", "S001")
	require.NoError(t, err)
	require.NotZero(t, id)

	student, err := s.GetStudent(id)
	require.NoError(t, err)
	require.NotNil(t, student)
	assert.Equal(t, "S001", student.Code)
	assert.Equal(t, float64(models.DefaultPoints), student.Points)

	t.Run("unique violation maps to duplicate key", func(t *testing.T) {
		_, err := s.CreateStudent("Impostor", "S001")
		assert.ErrorIs(t, err, store.ErrDuplicateKey)
	})
}

func TestScoreLedger(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	studentID, err := s.CreateStudent("Bob Tran", "S002")
	require.NoError(t, err)

	scoreID, err := s.CreateScore(models.ScoreRecord{StudentID: studentID, Points: -5})
	require.NoError(t, err)

	student, err := s.GetStudent(studentID)
	require.NoError(t, err)
	assert.Equal(t, 95.0, student.Points)

	require.NoError(t, s.DeleteScore(scoreID))

	student, err = s.GetStudent(studentID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, student.Points)
}

func TestImportStudentsUpsert(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := s.CreateStudent("Already Here", "S100")
	require.NoError(t, err)

	imported, err := s.ImportStudents([]models.StudentImport{
		{Name: "Already Here", Code: "S100"},
		{Name: "New Kid", Code: "S101"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, imported)

	students, err := s.ListStudents()
	require.NoError(t, err)
	assert.Len(t, students, 2)
}

func TestCascadeDelete(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	studentID, err := s.CreateStudent("Dana", "S010")
	require.NoError(t, err)
	weekID, err := s.CreateWeek("Week 3")
	require.NoError(t, err)

	_, err = s.CreateScore(models.ScoreRecord{StudentID: studentID, WeekID: &weekID, Points: 5})
	require.NoError(t, err)

	require.NoError(t, s.DeleteStudent(studentID))

	records, err := s.ListScores()
	require.NoError(t, err)
	assert.Empty(t, records)
}
