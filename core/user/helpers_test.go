package user

import (
	"testing"
)

// fakeRepo is a minimal in-package Repository for service and auth tests.
type fakeRepo struct {
	pk    int
	users map[int]User
}

var _ Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[int]User)}
}

func (r *fakeRepo) CheckUsernameUniqueness(username, email string, excludedUsers ...User) error {
	excluded := make(map[int]bool, len(excludedUsers))
	for _, usr := range excludedUsers {
		excluded[usr.ID] = true
	}
	for _, usr := range r.users {
		if excluded[usr.ID] {
			continue
		}
		if usr.Username == username {
			return ErrUsernameExists
		}
		if usr.Email == email {
			return ErrEmailExists
		}
	}
	return nil
}

func (r *fakeRepo) CreateUser(usr User) (User, error) {
	r.pk++
	usr.ID = r.pk
	r.users[usr.ID] = usr
	return usr, nil
}

func (r *fakeRepo) QueryAllUsers() ([]User, error) {
	users := make([]User, 0, len(r.users))
	for _, usr := range r.users {
		users = append(users, usr)
	}
	return users, nil
}

func (r *fakeRepo) GetUserByID(id int) (User, error) {
	if usr, ok := r.users[id]; ok {
		return usr, nil
	}
	return User{}, ErrNotFound
}

func (r *fakeRepo) GetUserByUsernameOrEmail(username string) (User, error) {
	for _, usr := range r.users {
		if usr.Username == username || usr.Email == username {
			return usr, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *fakeRepo) UpdateUser(usr User) (User, error) {
	if _, ok := r.users[usr.ID]; !ok {
		return User{}, ErrNotFound
	}
	r.users[usr.ID] = usr
	return usr, nil
}

func (r *fakeRepo) DeleteUsersByID(ids ...int) error {
	for _, id := range ids {
		delete(r.users, id)
	}
	return nil
}

// memStore keeps the persisted session in memory.
type memStore struct {
	session *Session
	loadErr error
}

var _ SessionStore = (*memStore)(nil)

func (s *memStore) LoadPersisted() (*Session, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.session, nil
}

func (s *memStore) Persist(sess Session) error {
	s.session = &sess
	return nil
}

func (s *memStore) Clear() error {
	s.session = nil
	return nil
}

type testLogger struct {
	t *testing.T
}

func (l testLogger) log(msg string, args []interface{}) {
	l.t.Helper()
	l.t.Log(append([]interface{}{msg}, args...)...)
}

func (l testLogger) Debug(msg string, args ...interface{}) { l.log(msg, args) }
func (l testLogger) Info(msg string, args ...interface{})  { l.log(msg, args) }
func (l testLogger) Warn(msg string, args ...interface{})  { l.log(msg, args) }
func (l testLogger) Error(msg string, args ...interface{}) { l.log(msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) { l.t.Fatal(msg) }

func createUser(t *testing.T, repo Repository, name, uname, email, pwd string, roles []string, isActive bool) User {
	t.Helper()
	usr := User{
		Name:     name,
		Username: uname,
		Email:    email,
		Roles:    roles,
		IsActive: isActive,
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
