package testutil

import (
	"testing"
	"time"

	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func CreateCourse(
	t *testing.T,
	repo course.Repository,
	title, category, difficulty, instructor string,
	published bool,
) course.Course {
	tstamp := time.Now().UTC()
	crs := course.Course{
		Title:       title,
		Description: "All about " + title + " from the ground up.",
		Category:    category,
		Difficulty:  difficulty,
		Instructor:  instructor,
		Duration:    10,
		Price:       49.99,
		IsPublished: published,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	}
	crs, err := repo.CreateCourse(crs)
	if err != nil {
		t.Fatalf("createCourse() failed: %v", err)
	}
	return crs
}

// Logger is a core.Logger that records through the test log.
type Logger struct {
	T *testing.T
}

func (l Logger) log(msg string, args []interface{}) {
	l.T.Helper()
	l.T.Log(append([]interface{}{msg}, args...)...)
}

func (l Logger) Debug(msg string, args ...interface{}) { l.log(msg, args) }
func (l Logger) Info(msg string, args ...interface{})  { l.log(msg, args) }
func (l Logger) Warn(msg string, args ...interface{})  { l.log(msg, args) }
func (l Logger) Error(msg string, args ...interface{}) { l.log(msg, args) }
func (l Logger) Fatal(msg string, args ...interface{}) { l.T.Fatal(append([]interface{}{msg}, args...)...) }

// MemSessionStore keeps the persisted session in memory.
type MemSessionStore struct {
	Session *user.Session
	LoadErr error
}

func (s *MemSessionStore) LoadPersisted() (*user.Session, error) {
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	return s.Session, nil
}

func (s *MemSessionStore) Persist(sess user.Session) error {
	s.Session = &sess
	return nil
}

func (s *MemSessionStore) Clear() error {
	s.Session = nil
	return nil
}
