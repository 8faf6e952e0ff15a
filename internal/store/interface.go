package store

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/hmtran/classpoints/internal/models"
)

// Store is the persistence contract shared by the relational and the
// document backends. Both implement identical business semantics: the
// point ledger (create/delete score adjusts the owning student's total
// atomically) and the cascade rules (deleting a student or week removes
// dependent score records; deleting a button or week leaves dangling
// references that read back as nil names).
type Store interface {
	Close() error
	ApplyMigrations(dir string) error
	Seed(adminPassword string) error

	GetAdminByUsername(username string) (*models.Admin, error)
	UpdateAdminPassword(id int64, passwordHash string) error

	CreateStudent(name, code string) (int64, error)
	GetStudent(id int64) (*models.Student, error)
	GetStudentByCode(code string) (*models.Student, error)
	ListStudents() ([]models.Student, error)
	Leaderboard() ([]models.Student, error)
	UpdateStudent(id int64, name, code string) error
	SetStudentPoints(id int64, points float64) error
	ResetAllPoints() error
	DeleteStudent(id int64) error

	ListButtons() ([]models.PresetButton, error)
	ListButtonsByType(buttonType string) ([]models.PresetButton, error)
	CreateButton(name string, points float64, buttonType string) (int64, error)
	DeleteButton(id int64) error

	ListWeeks() ([]models.Week, error)
	GetWeek(id int64) (*models.Week, error)
	GetWeekByNumber(number int) (*models.Week, error)
	GetActiveWeek() (*models.Week, error)
	CreateWeek(name string) (int64, error)
	SetActiveWeek(id int64) error
	DeleteWeek(id int64) error

	CreateScore(record models.ScoreRecord) (int64, error)
	DeleteScore(id int64) error
	DeleteAllScores() (int64, error)
	ScoresByStudent(studentID int64) ([]models.ScoreDetail, error)
	ScoresByWeek(weekID int64) ([]models.ScoreDetail, error)
	ListScores() ([]models.ScoreDetail, error)

	ImportStudents(students []models.StudentImport) (int, error)
	ImportScores(records []models.ScoreImport, weekID *int64) (int, error)
}

// BaseStore provides the shared SQL implementation for the relational
// backends. Dialect differences go through Converter (placeholder style)
// and the migration translator.
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory, translating
// dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

// Seed installs the default admin account and the starter button catalog.
// Both steps are idempotent: re-running against existing state changes
// nothing.
func (s *BaseStore) Seed(adminPassword string) error {
	var admins int
	query := s.Converter(`SELECT COUNT(*) FROM admin WHERE username = ?`)
	if err := s.DB.Get(&admins, query, "admin"); err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}

	if admins == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		query := s.Converter(`INSERT INTO admin (username, password, created_at) VALUES (?, ?, ?)`)
		if _, err := s.DB.Exec(query, "admin", string(hash), time.Now().Unix()); err != nil {
			return fmt.Errorf("failed to seed admin account: %w", err)
		}
		logger.Info.Println("Seeded default admin account")
	}

	var buttons int
	if err := s.DB.Get(&buttons, `SELECT COUNT(*) FROM preset_buttons`); err != nil {
		return fmt.Errorf("failed to check button catalog: %w", err)
	}
	if buttons > 0 {
		return nil
	}

	insert := s.Converter(`INSERT INTO preset_buttons (name, points, type, created_at) VALUES (?, ?, ?, ?)`)
	for _, b := range DefaultButtons {
		if _, err := s.DB.Exec(insert, b.Name, b.Points, b.Type, time.Now().Unix()); err != nil {
			return fmt.Errorf("failed to seed button %q: %w", b.Name, err)
		}
	}
	logger.Info.Printf("Seeded %d default preset buttons", len(DefaultButtons))

	return nil
}

func (s *BaseStore) GetAdminByUsername(username string) (*models.Admin, error) {
	var admin models.Admin
	query := s.Converter(`
		SELECT id, username, password, created_at
		FROM admin
		WHERE username = ?
	`)

	err := s.DB.Get(&admin, query, username)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &admin, nil
}

func (s *BaseStore) UpdateAdminPassword(id int64, passwordHash string) error {
	query := s.Converter(`UPDATE admin SET password = ? WHERE id = ?`)
	res, err := s.DB.Exec(query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update admin password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) CreateStudent(name, code string) (int64, error) {
	var id int64
	query := s.Converter(`
		INSERT INTO students (name, student_code, points, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)

	err := s.DB.Get(&id, query, name, code, float64(models.DefaultPoints), time.Now().Unix())
	if err != nil {
		if err := asConstraintErr(err); err == ErrDuplicateKey {
			return 0, ErrDuplicateKey
		}
		return 0, fmt.Errorf("failed to create student: %w", err)
	}
	return id, nil
}

func (s *BaseStore) GetStudent(id int64) (*models.Student, error) {
	var student models.Student
	query := s.Converter(`
		SELECT id, name, student_code, points, created_at
		FROM students
		WHERE id = ?
	`)

	err := s.DB.Get(&student, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return &student, nil
}

func (s *BaseStore) GetStudentByCode(code string) (*models.Student, error) {
	var student models.Student
	query := s.Converter(`
		SELECT id, name, student_code, points, created_at
		FROM students
		WHERE student_code = ?
	`)

	err := s.DB.Get(&student, query, code)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student by code: %w", err)
	}
	return &student, nil
}

func (s *BaseStore) ListStudents() ([]models.Student, error) {
	var students []models.Student
	err := s.DB.Select(&students, `
		SELECT id, name, student_code, points, created_at
		FROM students
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// Leaderboard orders by points descending with the student code as a
// deterministic tie-break, identical in every backend.
func (s *BaseStore) Leaderboard() ([]models.Student, error) {
	var students []models.Student
	err := s.DB.Select(&students, `
		SELECT id, name, student_code, points, created_at
		FROM students
		ORDER BY points DESC, student_code ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	return students, nil
}

func (s *BaseStore) UpdateStudent(id int64, name, code string) error {
	query := s.Converter(`UPDATE students SET name = ?, student_code = ? WHERE id = ?`)
	res, err := s.DB.Exec(query, name, code, id)
	if err != nil {
		if err := asConstraintErr(err); err == ErrDuplicateKey {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to update student: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) SetStudentPoints(id int64, points float64) error {
	query := s.Converter(`UPDATE students SET points = ? WHERE id = ?`)
	res, err := s.DB.Exec(query, points, id)
	if err != nil {
		return fmt.Errorf("failed to set student points: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetAllPoints restores every student to the default total. Score
// history is left untouched, so the ledger invariant is intentionally
// broken until records are wiped as well.
func (s *BaseStore) ResetAllPoints() error {
	query := s.Converter(`UPDATE students SET points = ?`)
	if _, err := s.DB.Exec(query, float64(models.DefaultPoints)); err != nil {
		return fmt.Errorf("failed to reset points: %w", err)
	}
	return nil
}

// DeleteStudent removes the student and cascades to its score records.
func (s *BaseStore) DeleteStudent(id int64) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(s.Converter(`DELETE FROM score_records WHERE student_id = ?`), id); err != nil {
		return fmt.Errorf("failed to cascade score records: %w", err)
	}
	res, err := tx.Exec(s.Converter(`DELETE FROM students WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

func (s *BaseStore) ListButtons() ([]models.PresetButton, error) {
	var buttons []models.PresetButton
	err := s.DB.Select(&buttons, `
		SELECT id, name, points, type, created_at
		FROM preset_buttons
		ORDER BY type ASC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list buttons: %w", err)
	}
	return buttons, nil
}

func (s *BaseStore) ListButtonsByType(buttonType string) ([]models.PresetButton, error) {
	if buttonType != models.ButtonTypeBonus && buttonType != models.ButtonTypePenalty {
		return nil, ErrInvalidCategory
	}

	var buttons []models.PresetButton
	query := s.Converter(`
		SELECT id, name, points, type, created_at
		FROM preset_buttons
		WHERE type = ?
		ORDER BY name ASC
	`)
	err := s.DB.Select(&buttons, query, buttonType)
	if err != nil {
		return nil, fmt.Errorf("failed to list buttons by type: %w", err)
	}
	return buttons, nil
}

func (s *BaseStore) CreateButton(name string, points float64, buttonType string) (int64, error) {
	if buttonType != models.ButtonTypeBonus && buttonType != models.ButtonTypePenalty {
		return 0, ErrInvalidCategory
	}

	var id int64
	query := s.Converter(`
		INSERT INTO preset_buttons (name, points, type, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)
	if err := s.DB.Get(&id, query, name, points, buttonType, time.Now().Unix()); err != nil {
		return 0, fmt.Errorf("failed to create button: %w", err)
	}
	return id, nil
}

// DeleteButton removes the button only. Score records keep the dangling
// reference and read back with a nil button name.
func (s *BaseStore) DeleteButton(id int64) error {
	res, err := s.DB.Exec(s.Converter(`DELETE FROM preset_buttons WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete button: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) ListWeeks() ([]models.Week, error) {
	var weeks []models.Week
	err := s.DB.Select(&weeks, `
		SELECT id, name, week_number, is_active, created_at
		FROM weeks
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list weeks: %w", err)
	}
	return weeks, nil
}

func (s *BaseStore) GetWeek(id int64) (*models.Week, error) {
	var week models.Week
	query := s.Converter(`
		SELECT id, name, week_number, is_active, created_at
		FROM weeks
		WHERE id = ?
	`)

	err := s.DB.Get(&week, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get week: %w", err)
	}
	return &week, nil
}

func (s *BaseStore) GetWeekByNumber(number int) (*models.Week, error) {
	var week models.Week
	query := s.Converter(`
		SELECT id, name, week_number, is_active, created_at
		FROM weeks
		WHERE week_number = ?
		ORDER BY id DESC
		LIMIT 1
	`)

	err := s.DB.Get(&week, query, number)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get week by number: %w", err)
	}
	return &week, nil
}

func (s *BaseStore) GetActiveWeek() (*models.Week, error) {
	var week models.Week
	query := s.Converter(`
		SELECT id, name, week_number, is_active, created_at
		FROM weeks
		WHERE is_active = ?
	`)
	err := s.DB.Get(&week, query, true)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active week: %w", err)
	}
	return &week, nil
}

func (s *BaseStore) CreateWeek(name string) (int64, error) {
	var id int64
	query := s.Converter(`
		INSERT INTO weeks (name, week_number, is_active, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)
	if err := s.DB.Get(&id, query, name, models.ParseWeekNumber(name), false, time.Now().Unix()); err != nil {
		return 0, fmt.Errorf("failed to create week: %w", err)
	}
	return id, nil
}

// SetActiveWeek is a two-step toggle: clear every active flag, then set
// the target. At most one week ends up active.
func (s *BaseStore) SetActiveWeek(id int64) error {
	if _, err := s.DB.Exec(s.Converter(`UPDATE weeks SET is_active = ?`), false); err != nil {
		return fmt.Errorf("failed to clear active week: %w", err)
	}
	res, err := s.DB.Exec(s.Converter(`UPDATE weeks SET is_active = ? WHERE id = ?`), true, id)
	if err != nil {
		return fmt.Errorf("failed to set active week: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteWeek cascades to the score records of that week.
func (s *BaseStore) DeleteWeek(id int64) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(s.Converter(`DELETE FROM score_records WHERE week_id = ?`), id); err != nil {
		return fmt.Errorf("failed to cascade score records: %w", err)
	}
	res, err := tx.Exec(s.Converter(`DELETE FROM weeks WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete week: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// CreateScore is the ledger write: insert the record and add its delta
// to the owning student's total in one transaction. The adjustment uses
// a store-side increment, so concurrent submissions for the same student
// cannot lose an update.
func (s *BaseStore) CreateScore(record models.ScoreRecord) (int64, error) {
	tx, err := s.DB.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin score create: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(s.Converter(`UPDATE students SET points = points + ? WHERE id = ?`), record.Points, record.StudentID)
	if err != nil {
		return 0, fmt.Errorf("failed to apply point delta: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, ErrNotFound
	}

	var id int64
	query := s.Converter(`
		INSERT INTO score_records (student_id, button_id, week_id, points, note, violation_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	err = tx.Get(&id, query,
		record.StudentID,
		record.ButtonID,
		record.WeekID,
		record.Points,
		record.Note,
		record.ViolationDate,
		time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert score record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit score create: %w", err)
	}
	return id, nil
}

// DeleteScore reverses the record's delta on the student, then removes
// the record. A missing student skips the reversal silently.
func (s *BaseStore) DeleteScore(id int64) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin score delete: %w", err)
	}
	defer tx.Rollback()

	var record models.ScoreRecord
	query := s.Converter(`
		SELECT id, student_id, button_id, week_id, points, note, violation_date, created_at
		FROM score_records
		WHERE id = ?
	`)
	err = tx.Get(&record, query, id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load score record: %w", err)
	}

	res, err := tx.Exec(s.Converter(`UPDATE students SET points = points - ? WHERE id = ?`), record.Points, record.StudentID)
	if err != nil {
		return fmt.Errorf("failed to reverse point delta: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		logger.Debug.Printf("Student %d gone, skipping reversal for score %d", record.StudentID, id)
	}

	if _, err := tx.Exec(s.Converter(`DELETE FROM score_records WHERE id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete score record: %w", err)
	}

	return tx.Commit()
}

// DeleteAllScores wipes the whole ledger history and reports how many
// records went away. Point totals are reset separately.
func (s *BaseStore) DeleteAllScores() (int64, error) {
	res, err := s.DB.Exec(`DELETE FROM score_records`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete score records: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted records: %w", err)
	}
	return n, nil
}

const scoreDetailColumns = `
	sr.id, sr.student_id, sr.button_id, sr.week_id, sr.points, sr.note, sr.violation_date, sr.created_at,
	s.name AS student_name,
	s.student_code AS student_code,
	pb.name AS button_name,
	w.name AS week_name
`

func (s *BaseStore) ScoresByStudent(studentID int64) ([]models.ScoreDetail, error) {
	var details []models.ScoreDetail
	query := s.Converter(`
		SELECT ` + scoreDetailColumns + `
		FROM score_records sr
		LEFT JOIN students s ON sr.student_id = s.id
		LEFT JOIN preset_buttons pb ON sr.button_id = pb.id
		LEFT JOIN weeks w ON sr.week_id = w.id
		WHERE sr.student_id = ?
		ORDER BY sr.created_at DESC, sr.id DESC
	`)
	if err := s.DB.Select(&details, query, studentID); err != nil {
		return nil, fmt.Errorf("failed to get scores by student: %w", err)
	}
	return details, nil
}

func (s *BaseStore) ScoresByWeek(weekID int64) ([]models.ScoreDetail, error) {
	var details []models.ScoreDetail
	query := s.Converter(`
		SELECT ` + scoreDetailColumns + `
		FROM score_records sr
		LEFT JOIN students s ON sr.student_id = s.id
		LEFT JOIN preset_buttons pb ON sr.button_id = pb.id
		LEFT JOIN weeks w ON sr.week_id = w.id
		WHERE sr.week_id = ?
		ORDER BY sr.created_at DESC, sr.id DESC
	`)
	if err := s.DB.Select(&details, query, weekID); err != nil {
		return nil, fmt.Errorf("failed to get scores by week: %w", err)
	}
	return details, nil
}

func (s *BaseStore) ListScores() ([]models.ScoreDetail, error) {
	var details []models.ScoreDetail
	err := s.DB.Select(&details, `
		SELECT `+scoreDetailColumns+`
		FROM score_records sr
		LEFT JOIN students s ON sr.student_id = s.id
		LEFT JOIN preset_buttons pb ON sr.button_id = pb.id
		LEFT JOIN weeks w ON sr.week_id = w.id
		ORDER BY sr.created_at DESC, sr.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	return details, nil
}

// ImportStudents inserts the given rows, silently skipping codes that
// already exist, and reports how many actually landed.
func (s *BaseStore) ImportStudents(students []models.StudentImport) (int, error) {
	query := s.Converter(`
		INSERT INTO students (name, student_code, points, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (student_code) DO NOTHING
	`)

	imported := 0
	for _, st := range students {
		code := st.StudentCode()
		if st.Name == "" || code == "" {
			continue
		}
		res, err := s.DB.Exec(query, st.Name, code, float64(models.DefaultPoints), time.Now().Unix())
		if err != nil {
			return imported, fmt.Errorf("failed to import student %q: %w", code, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			imported++
		}
	}
	return imported, nil
}

// ImportScores applies one ledger write per resolvable row. Unknown
// student codes are skipped; rows are applied independently, so a failure
// partway leaves earlier rows in place.
func (s *BaseStore) ImportScores(records []models.ScoreImport, weekID *int64) (int, error) {
	imported := 0
	for _, rec := range records {
		student, err := s.GetStudentByCode(rec.StudentCode)
		if err != nil {
			return imported, err
		}
		if student == nil {
			logger.Debug.Printf("Skipping score import for unknown code %q", rec.StudentCode)
			continue
		}

		note := rec.Note
		if note == nil {
			v := "Import"
			note = &v
		}
		_, err = s.CreateScore(models.ScoreRecord{
			StudentID: student.ID,
			WeekID:    weekID,
			Points:    rec.Points,
			Note:      note,
		})
		if err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
