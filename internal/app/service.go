package app

import (
	"fmt"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/hmtran/classpoints/internal/models"
	"github.com/hmtran/classpoints/internal/store"
)

type Service struct {
	Config   *Config
	Store    store.Store
	Sessions *SessionManager
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	st, err := NewStore(config.Database.DSN, config.Database.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	if err := st.Seed(config.Auth.DefaultAdminPassword); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to seed store: %w", err)
	}

	return &Service{
		Config:   config,
		Store:    st,
		Sessions: NewSessionManager(config.Auth.CookieName, config.SessionTTL()),
	}, nil
}

// LoginAdmin verifies credentials and returns the admin identity, or nil
// on any mismatch. The stored hash never leaves this function;
// bcrypt.CompareHashAndPassword is constant-time on the hash comparison.
func (s *Service) LoginAdmin(username, password string) (*models.Admin, error) {
	admin, err := s.Store.GetAdminByUsername(username)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	return &models.Admin{ID: admin.ID, Username: admin.Username}, nil
}

// LoginStudent resolves a student code to an account; nil means no such
// code.
func (s *Service) LoginStudent(code string) (*models.Student, error) {
	return s.Store.GetStudentByCode(code)
}

// ChangeAdminPassword re-hashes and overwrites. The caller must already
// hold an admin session; no old-password check happens at this layer.
func (s *Service) ChangeAdminPassword(id int64, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.Store.UpdateAdminPassword(id, string(hash))
}

// Profile is what a logged-in student sees about themselves: their own
// record plus their leaderboard rank and the class size.
type Profile struct {
	models.Student
	Rank  int `json:"rank"`
	Total int `json:"total"`
}

func (s *Service) StudentProfile(id int64) (*Profile, error) {
	student, err := s.Store.GetStudent(id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, store.ErrNotFound
	}

	leaderboard, err := s.Store.Leaderboard()
	if err != nil {
		return nil, err
	}

	rank, total := Rank(leaderboard, id)
	return &Profile{Student: *student, Rank: rank, Total: total}, nil
}

// Overview resolves a public week identifier (the derived week number,
// falling back to a raw week id) and returns the week together with its
// score records. An unresolvable identifier yields a nil week and no
// records rather than an error.
type Overview struct {
	Week    *models.Week         `json:"week"`
	Records []models.ScoreDetail `json:"records"`
}

func (s *Service) WeekOverview(identifier string) (*Overview, error) {
	n, err := strconv.Atoi(identifier)
	if err != nil {
		return &Overview{Records: []models.ScoreDetail{}}, nil
	}

	week, err := s.Store.GetWeekByNumber(n)
	if err != nil {
		return nil, err
	}
	if week == nil {
		if week, err = s.Store.GetWeek(int64(n)); err != nil {
			return nil, err
		}
	}
	if week == nil {
		return &Overview{Records: []models.ScoreDetail{}}, nil
	}

	records, err := s.Store.ScoresByWeek(week.ID)
	if err != nil {
		return nil, err
	}
	return &Overview{Week: week, Records: records}, nil
}

func (s *Service) Close() error {
	if err := s.Store.Close(); err != nil {
		return fmt.Errorf("error while closing store: %w", err)
	}
	return nil
}
