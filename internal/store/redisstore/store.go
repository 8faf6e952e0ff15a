// Package redisstore is the document-store backend: entities live as
// Redis hashes, collections as id sets, and the point ledger uses the
// store's native atomic increment (HINCRBYFLOAT), so concurrent score
// submissions for one student cannot lose an update.
//
// Differences from the relational backend, by design: there is no
// active-week flag (SetActiveWeek/GetActiveWeek return
// store.ErrNotSupported); week lookups go through the derived week
// number instead.
package redisstore

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/hmtran/classpoints/internal/models"
	"github.com/hmtran/classpoints/internal/store"
)

const (
	adminKeyTpl   = "admin:%s"   // admin:${username}
	studentKeyTpl = "student:%d" // student:${id}
	buttonKeyTpl  = "button:%d"  // button:${id}
	weekKeyTpl    = "week:%d"    // week:${id}
	scoreKeyTpl   = "score:%d"   // score:${id}

	studentsKey    = "students"      // set of student ids
	buttonsKey     = "buttons"       // set of button ids
	weeksKey       = "weeks"         // set of week ids
	scoresKey      = "scores"        // set of score ids
	codeIndexKey   = "students:code" // hash: student_code -> id
	studentSeqKey  = "seq:students"
	buttonSeqKey   = "seq:buttons"
	weekSeqKey     = "seq:weeks"
	scoreSeqKey    = "seq:scores"
	scoresByStdTpl = "scores:student:%d"
	scoresByWkTpl  = "scores:week:%d"
)

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(url string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{rdb: client}, nil
}

func (s *RedisStore) Close() error {
	if s.rdb != nil {
		return s.rdb.Close()
	}
	return nil
}

// ApplyMigrations is a no-op: hashes and sets come into existence on
// first write.
func (s *RedisStore) ApplyMigrations(dir string) error {
	return nil
}

func (s *RedisStore) Seed(adminPassword string) error {
	ctx := context.Background()

	key := fmt.Sprintf(adminKeyTpl, "admin")
	exists, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}
	if exists == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		err = s.rdb.HSet(ctx, key, map[string]interface{}{
			"id":         1,
			"username":   "admin",
			"password":   string(hash),
			"created_at": time.Now().Unix(),
		}).Err()
		if err != nil {
			return fmt.Errorf("failed to seed admin account: %w", err)
		}
		logger.Info.Println("Seeded default admin account")
	}

	buttons, err := s.rdb.SCard(ctx, buttonsKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check button catalog: %w", err)
	}
	if buttons > 0 {
		return nil
	}

	for _, b := range store.DefaultButtons {
		if _, err := s.CreateButton(b.Name, b.Points, b.Type); err != nil {
			return fmt.Errorf("failed to seed button %q: %w", b.Name, err)
		}
	}
	logger.Info.Printf("Seeded %d default preset buttons", len(store.DefaultButtons))

	return nil
}

func (s *RedisStore) GetAdminByUsername(username string) (*models.Admin, error) {
	ctx := context.Background()

	fields, err := s.rdb.HGetAll(ctx, fmt.Sprintf(adminKeyTpl, username)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	id, _ := strconv.ParseInt(fields["id"], 10, 64)
	createdAt, _ := strconv.ParseInt(fields["created_at"], 10, 64)
	return &models.Admin{
		ID:           id,
		Username:     fields["username"],
		PasswordHash: fields["password"],
		CreatedAt:    createdAt,
	}, nil
}

func (s *RedisStore) UpdateAdminPassword(id int64, passwordHash string) error {
	ctx := context.Background()

	// Single admin account; locate its hash by scanning admin:* keys.
	iter := s.rdb.Scan(ctx, 0, "admin:*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		gotID, err := s.rdb.HGet(ctx, key, "id").Result()
		if err != nil {
			continue
		}
		if gotID == strconv.FormatInt(id, 10) {
			return s.rdb.HSet(ctx, key, "password", passwordHash).Err()
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan admin accounts: %w", err)
	}
	return store.ErrNotFound
}

func (s *RedisStore) CreateStudent(name, code string) (int64, error) {
	ctx := context.Background()

	id, err := s.rdb.Incr(ctx, studentSeqKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate student id: %w", err)
	}

	// HSetNX on the code index doubles as the uniqueness check.
	ok, err := s.rdb.HSetNX(ctx, codeIndexKey, code, id).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to index student code: %w", err)
	}
	if !ok {
		return 0, store.ErrDuplicateKey
	}

	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, fmt.Sprintf(studentKeyTpl, id), map[string]interface{}{
		"id":           id,
		"name":         name,
		"student_code": code,
		"points":       float64(models.DefaultPoints),
		"created_at":   time.Now().Unix(),
	})
	pipe.SAdd(ctx, studentsKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to create student: %w", err)
	}

	return id, nil
}

func parseStudent(fields map[string]string) models.Student {
	id, _ := strconv.ParseInt(fields["id"], 10, 64)
	points, _ := strconv.ParseFloat(fields["points"], 64)
	createdAt, _ := strconv.ParseInt(fields["created_at"], 10, 64)
	return models.Student{
		ID:        id,
		Name:      fields["name"],
		Code:      fields["student_code"],
		Points:    points,
		CreatedAt: createdAt,
	}
}

func (s *RedisStore) GetStudent(id int64) (*models.Student, error) {
	ctx := context.Background()

	fields, err := s.rdb.HGetAll(ctx, fmt.Sprintf(studentKeyTpl, id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	student := parseStudent(fields)
	return &student, nil
}

func (s *RedisStore) GetStudentByCode(code string) (*models.Student, error) {
	ctx := context.Background()

	idStr, err := s.rdb.HGet(ctx, codeIndexKey, code).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve student code: %w", err)
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt student code index for %q: %w", code, err)
	}
	return s.GetStudent(id)
}

func (s *RedisStore) allStudents() ([]models.Student, error) {
	ctx := context.Background()

	ids, err := s.rdb.SMembers(ctx, studentsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list student ids: %w", err)
	}

	students := make([]models.Student, 0, len(ids))
	for _, idStr := range ids {
		fields, err := s.rdb.HGetAll(ctx, "student:"+idStr).Result()
		if err != nil || len(fields) == 0 {
			continue
		}
		students = append(students, parseStudent(fields))
	}
	return students, nil
}

func (s *RedisStore) ListStudents() ([]models.Student, error) {
	students, err := s.allStudents()
	if err != nil {
		return nil, err
	}
	sort.Slice(students, func(i, j int) bool {
		return students[i].Name < students[j].Name
	})
	return students, nil
}

// Leaderboard orders by points descending with the student code as a
// deterministic tie-break, identical to the relational backend.
func (s *RedisStore) Leaderboard() ([]models.Student, error) {
	students, err := s.allStudents()
	if err != nil {
		return nil, err
	}
	sort.Slice(students, func(i, j int) bool {
		if students[i].Points != students[j].Points {
			return students[i].Points > students[j].Points
		}
		return students[i].Code < students[j].Code
	})
	return students, nil
}

func (s *RedisStore) UpdateStudent(id int64, name, code string) error {
	ctx := context.Background()

	student, err := s.GetStudent(id)
	if err != nil {
		return err
	}
	if student == nil {
		return store.ErrNotFound
	}

	if code != student.Code {
		ok, err := s.rdb.HSetNX(ctx, codeIndexKey, code, id).Result()
		if err != nil {
			return fmt.Errorf("failed to re-index student code: %w", err)
		}
		if !ok {
			return store.ErrDuplicateKey
		}
		if err := s.rdb.HDel(ctx, codeIndexKey, student.Code).Err(); err != nil {
			return fmt.Errorf("failed to drop old code index: %w", err)
		}
	}

	err = s.rdb.HSet(ctx, fmt.Sprintf(studentKeyTpl, id), map[string]interface{}{
		"name":         name,
		"student_code": code,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	return nil
}

func (s *RedisStore) SetStudentPoints(id int64, points float64) error {
	ctx := context.Background()

	key := fmt.Sprintf(studentKeyTpl, id)
	exists, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to check student: %w", err)
	}
	if exists == 0 {
		return store.ErrNotFound
	}
	return s.rdb.HSet(ctx, key, "points", points).Err()
}

func (s *RedisStore) ResetAllPoints() error {
	ctx := context.Background()

	ids, err := s.rdb.SMembers(ctx, studentsKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list student ids: %w", err)
	}

	pipe := s.rdb.Pipeline()
	for _, idStr := range ids {
		pipe.HSet(ctx, "student:"+idStr, "points", float64(models.DefaultPoints))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to reset points: %w", err)
	}
	return nil
}

// DeleteStudent removes the student, its code index entry and every
// score record referencing it. The cascade is pipelined but not atomic;
// a failure partway leaves partial state, same as the relational
// backend's documented best-effort behavior.
func (s *RedisStore) DeleteStudent(id int64) error {
	ctx := context.Background()

	student, err := s.GetStudent(id)
	if err != nil {
		return err
	}
	if student == nil {
		return store.ErrNotFound
	}

	byStudent := fmt.Sprintf(scoresByStdTpl, id)
	scoreIDs, err := s.rdb.SMembers(ctx, byStudent).Result()
	if err != nil {
		return fmt.Errorf("failed to list student scores: %w", err)
	}

	pipe := s.rdb.Pipeline()
	for _, scoreID := range scoreIDs {
		fields, err := s.rdb.HGetAll(ctx, "score:"+scoreID).Result()
		if err == nil {
			if weekID, ok := fields["week_id"]; ok && weekID != "" {
				pipe.SRem(ctx, "scores:week:"+weekID, scoreID)
			}
		}
		pipe.Del(ctx, "score:"+scoreID)
		pipe.SRem(ctx, scoresKey, scoreID)
	}
	pipe.Del(ctx, byStudent)
	pipe.HDel(ctx, codeIndexKey, student.Code)
	pipe.Del(ctx, fmt.Sprintf(studentKeyTpl, id))
	pipe.SRem(ctx, studentsKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	return nil
}

func parseButton(fields map[string]string) models.PresetButton {
	id, _ := strconv.ParseInt(fields["id"], 10, 64)
	points, _ := strconv.ParseFloat(fields["points"], 64)
	createdAt, _ := strconv.ParseInt(fields["created_at"], 10, 64)
	return models.PresetButton{
		ID:        id,
		Name:      fields["name"],
		Points:    points,
		Type:      fields["type"],
		CreatedAt: createdAt,
	}
}

func (s *RedisStore) allButtons() ([]models.PresetButton, error) {
	ctx := context.Background()

	ids, err := s.rdb.SMembers(ctx, buttonsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list button ids: %w", err)
	}

	buttons := make([]models.PresetButton, 0, len(ids))
	for _, idStr := range ids {
		fields, err := s.rdb.HGetAll(ctx, "button:"+idStr).Result()
		if err != nil || len(fields) == 0 {
			continue
		}
		buttons = append(buttons, parseButton(fields))
	}
	return buttons, nil
}

func (s *RedisStore) ListButtons() ([]models.PresetButton, error) {
	buttons, err := s.allButtons()
	if err != nil {
		return nil, err
	}
	sort.Slice(buttons, func(i, j int) bool {
		if buttons[i].Type != buttons[j].Type {
			return buttons[i].Type < buttons[j].Type
		}
		return buttons[i].Name < buttons[j].Name
	})
	return buttons, nil
}

func (s *RedisStore) ListButtonsByType(buttonType string) ([]models.PresetButton, error) {
	if buttonType != models.ButtonTypeBonus && buttonType != models.ButtonTypePenalty {
		return nil, store.ErrInvalidCategory
	}

	buttons, err := s.allButtons()
	if err != nil {
		return nil, err
	}
	filtered := buttons[:0]
	for _, b := range buttons {
		if b.Type == buttonType {
			filtered = append(filtered, b)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Name < filtered[j].Name
	})
	return filtered, nil
}

func (s *RedisStore) CreateButton(name string, points float64, buttonType string) (int64, error) {
	if buttonType != models.ButtonTypeBonus && buttonType != models.ButtonTypePenalty {
		return 0, store.ErrInvalidCategory
	}

	ctx := context.Background()

	id, err := s.rdb.Incr(ctx, buttonSeqKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate button id: %w", err)
	}

	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, fmt.Sprintf(buttonKeyTpl, id), map[string]interface{}{
		"id":         id,
		"name":       name,
		"points":     points,
		"type":       buttonType,
		"created_at": time.Now().Unix(),
	})
	pipe.SAdd(ctx, buttonsKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to create button: %w", err)
	}
	return id, nil
}

// DeleteButton leaves score records pointing at the removed button;
// their denormalized button name reads back nil from then on.
func (s *RedisStore) DeleteButton(id int64) error {
	ctx := context.Background()

	removed, err := s.rdb.SRem(ctx, buttonsKey, id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete button: %w", err)
	}
	if removed == 0 {
		return store.ErrNotFound
	}
	return s.rdb.Del(ctx, fmt.Sprintf(buttonKeyTpl, id)).Err()
}

func parseWeek(fields map[string]string) models.Week {
	id, _ := strconv.ParseInt(fields["id"], 10, 64)
	createdAt, _ := strconv.ParseInt(fields["created_at"], 10, 64)
	week := models.Week{
		ID:        id,
		Name:      fields["name"],
		CreatedAt: createdAt,
	}
	if raw, ok := fields["week_number"]; ok && raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			week.Number = &n
		}
	}
	return week
}

func (s *RedisStore) ListWeeks() ([]models.Week, error) {
	ctx := context.Background()

	ids, err := s.rdb.SMembers(ctx, weeksKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list week ids: %w", err)
	}

	weeks := make([]models.Week, 0, len(ids))
	for _, idStr := range ids {
		fields, err := s.rdb.HGetAll(ctx, "week:"+idStr).Result()
		if err != nil || len(fields) == 0 {
			continue
		}
		weeks = append(weeks, parseWeek(fields))
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].ID > weeks[j].ID })
	return weeks, nil
}

func (s *RedisStore) GetWeek(id int64) (*models.Week, error) {
	ctx := context.Background()

	fields, err := s.rdb.HGetAll(ctx, fmt.Sprintf(weekKeyTpl, id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get week: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	week := parseWeek(fields)
	return &week, nil
}

func (s *RedisStore) GetWeekByNumber(number int) (*models.Week, error) {
	weeks, err := s.ListWeeks()
	if err != nil {
		return nil, err
	}
	// ListWeeks is newest-first, so the first hit is the latest week
	// carrying that number.
	for i := range weeks {
		if weeks[i].Number != nil && *weeks[i].Number == number {
			return &weeks[i], nil
		}
	}
	return nil, nil
}

// GetActiveWeek is not part of the document model; callers select weeks
// by their derived number instead.
func (s *RedisStore) GetActiveWeek() (*models.Week, error) {
	return nil, store.ErrNotSupported
}

func (s *RedisStore) CreateWeek(name string) (int64, error) {
	ctx := context.Background()

	id, err := s.rdb.Incr(ctx, weekSeqKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate week id: %w", err)
	}

	fields := map[string]interface{}{
		"id":         id,
		"name":       name,
		"created_at": time.Now().Unix(),
	}
	if n := models.ParseWeekNumber(name); n != nil {
		fields["week_number"] = *n
	}

	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, fmt.Sprintf(weekKeyTpl, id), fields)
	pipe.SAdd(ctx, weeksKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to create week: %w", err)
	}
	return id, nil
}

func (s *RedisStore) SetActiveWeek(id int64) error {
	return store.ErrNotSupported
}

func (s *RedisStore) DeleteWeek(id int64) error {
	ctx := context.Background()

	week, err := s.GetWeek(id)
	if err != nil {
		return err
	}
	if week == nil {
		return store.ErrNotFound
	}

	byWeek := fmt.Sprintf(scoresByWkTpl, id)
	scoreIDs, err := s.rdb.SMembers(ctx, byWeek).Result()
	if err != nil {
		return fmt.Errorf("failed to list week scores: %w", err)
	}

	pipe := s.rdb.Pipeline()
	for _, scoreID := range scoreIDs {
		fields, err := s.rdb.HGetAll(ctx, "score:"+scoreID).Result()
		if err == nil {
			if studentID, ok := fields["student_id"]; ok && studentID != "" {
				pipe.SRem(ctx, "scores:student:"+studentID, scoreID)
			}
		}
		pipe.Del(ctx, "score:"+scoreID)
		pipe.SRem(ctx, scoresKey, scoreID)
	}
	pipe.Del(ctx, byWeek)
	pipe.Del(ctx, fmt.Sprintf(weekKeyTpl, id))
	pipe.SRem(ctx, weeksKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete week: %w", err)
	}
	return nil
}

// CreateScore is the ledger write: record the delta, then HIncrByFloat
// the student's total. The increment is atomic on the store side.
func (s *RedisStore) CreateScore(record models.ScoreRecord) (int64, error) {
	ctx := context.Background()

	studentKey := fmt.Sprintf(studentKeyTpl, record.StudentID)
	exists, err := s.rdb.Exists(ctx, studentKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to check student: %w", err)
	}
	if exists == 0 {
		return 0, store.ErrNotFound
	}

	id, err := s.rdb.Incr(ctx, scoreSeqKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate score id: %w", err)
	}

	fields := map[string]interface{}{
		"id":         id,
		"student_id": record.StudentID,
		"points":     record.Points,
		"created_at": time.Now().Unix(),
	}
	if record.ButtonID != nil {
		fields["button_id"] = *record.ButtonID
	}
	if record.WeekID != nil {
		fields["week_id"] = *record.WeekID
	}
	if record.Note != nil {
		fields["note"] = *record.Note
	}
	if record.ViolationDate != nil {
		fields["violation_date"] = *record.ViolationDate
	}

	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, fmt.Sprintf(scoreKeyTpl, id), fields)
	pipe.SAdd(ctx, scoresKey, id)
	pipe.SAdd(ctx, fmt.Sprintf(scoresByStdTpl, record.StudentID), id)
	if record.WeekID != nil {
		pipe.SAdd(ctx, fmt.Sprintf(scoresByWkTpl, *record.WeekID), id)
	}
	pipe.HIncrByFloat(ctx, studentKey, "points", record.Points)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to create score: %w", err)
	}

	return id, nil
}

func parseScore(fields map[string]string) models.ScoreRecord {
	id, _ := strconv.ParseInt(fields["id"], 10, 64)
	studentID, _ := strconv.ParseInt(fields["student_id"], 10, 64)
	points, _ := strconv.ParseFloat(fields["points"], 64)
	createdAt, _ := strconv.ParseInt(fields["created_at"], 10, 64)

	record := models.ScoreRecord{
		ID:        id,
		StudentID: studentID,
		Points:    points,
		CreatedAt: createdAt,
	}
	if raw, ok := fields["button_id"]; ok && raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			record.ButtonID = &v
		}
	}
	if raw, ok := fields["week_id"]; ok && raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			record.WeekID = &v
		}
	}
	if raw, ok := fields["note"]; ok && raw != "" {
		v := raw
		record.Note = &v
	}
	if raw, ok := fields["violation_date"]; ok && raw != "" {
		v := raw
		record.ViolationDate = &v
	}
	return record
}

// DeleteScore reverses the record's delta on the owning student, then
// drops the record. A missing student skips the reversal silently.
func (s *RedisStore) DeleteScore(id int64) error {
	ctx := context.Background()

	key := fmt.Sprintf(scoreKeyTpl, id)
	fields, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to load score record: %w", err)
	}
	if len(fields) == 0 {
		return store.ErrNotFound
	}
	record := parseScore(fields)

	studentKey := fmt.Sprintf(studentKeyTpl, record.StudentID)
	exists, err := s.rdb.Exists(ctx, studentKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check student: %w", err)
	}
	if exists > 0 {
		if err := s.rdb.HIncrByFloat(ctx, studentKey, "points", -record.Points).Err(); err != nil {
			return fmt.Errorf("failed to reverse point delta: %w", err)
		}
	} else {
		logger.Debug.Printf("Student %d gone, skipping reversal for score %d", record.StudentID, id)
	}

	pipe := s.rdb.Pipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, scoresKey, id)
	pipe.SRem(ctx, fmt.Sprintf(scoresByStdTpl, record.StudentID), id)
	if record.WeekID != nil {
		pipe.SRem(ctx, fmt.Sprintf(scoresByWkTpl, *record.WeekID), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete score: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteAllScores() (int64, error) {
	ctx := context.Background()

	ids, err := s.rdb.SMembers(ctx, scoresKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list score ids: %w", err)
	}

	pipe := s.rdb.Pipeline()
	for _, idStr := range ids {
		fields, err := s.rdb.HGetAll(ctx, "score:"+idStr).Result()
		if err == nil {
			if studentID, ok := fields["student_id"]; ok && studentID != "" {
				pipe.Del(ctx, "scores:student:"+studentID)
			}
			if weekID, ok := fields["week_id"]; ok && weekID != "" {
				pipe.Del(ctx, "scores:week:"+weekID)
			}
		}
		pipe.Del(ctx, "score:"+idStr)
	}
	pipe.Del(ctx, scoresKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to delete scores: %w", err)
	}
	return int64(len(ids)), nil
}

// denormalize resolves student, button and week names for one record,
// substituting nil when a reference no longer resolves.
func (s *RedisStore) denormalize(record models.ScoreRecord) models.ScoreDetail {
	detail := models.ScoreDetail{ScoreRecord: record}

	if student, err := s.GetStudent(record.StudentID); err == nil && student != nil {
		detail.StudentName = &student.Name
		detail.StudentCode = &student.Code
	}
	if record.ButtonID != nil {
		ctx := context.Background()
		if name, err := s.rdb.HGet(ctx, fmt.Sprintf(buttonKeyTpl, *record.ButtonID), "name").Result(); err == nil {
			detail.ButtonName = &name
		}
	}
	if record.WeekID != nil {
		if week, err := s.GetWeek(*record.WeekID); err == nil && week != nil {
			detail.WeekName = &week.Name
		}
	}
	return detail
}

func (s *RedisStore) scoresFromSet(key string) ([]models.ScoreDetail, error) {
	ctx := context.Background()

	ids, err := s.rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list score ids: %w", err)
	}

	details := make([]models.ScoreDetail, 0, len(ids))
	for _, idStr := range ids {
		fields, err := s.rdb.HGetAll(ctx, "score:"+idStr).Result()
		if err != nil || len(fields) == 0 {
			continue
		}
		details = append(details, s.denormalize(parseScore(fields)))
	}
	sort.Slice(details, func(i, j int) bool {
		if details[i].CreatedAt != details[j].CreatedAt {
			return details[i].CreatedAt > details[j].CreatedAt
		}
		return details[i].ID > details[j].ID
	})
	return details, nil
}

func (s *RedisStore) ScoresByStudent(studentID int64) ([]models.ScoreDetail, error) {
	return s.scoresFromSet(fmt.Sprintf(scoresByStdTpl, studentID))
}

func (s *RedisStore) ScoresByWeek(weekID int64) ([]models.ScoreDetail, error) {
	return s.scoresFromSet(fmt.Sprintf(scoresByWkTpl, weekID))
}

func (s *RedisStore) ListScores() ([]models.ScoreDetail, error) {
	return s.scoresFromSet(scoresKey)
}

func (s *RedisStore) ImportStudents(students []models.StudentImport) (int, error) {
	imported := 0
	for _, st := range students {
		code := st.StudentCode()
		if st.Name == "" || code == "" {
			continue
		}
		_, err := s.CreateStudent(st.Name, code)
		if err == store.ErrDuplicateKey {
			continue
		}
		if err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

func (s *RedisStore) ImportScores(records []models.ScoreImport, weekID *int64) (int, error) {
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
