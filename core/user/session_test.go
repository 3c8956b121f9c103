package user

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testPwd = "Mlima.Kibo#1895"

func newTestAuth(t *testing.T) (*Auth, *fakeRepo, *memStore) {
	t.Helper()
	repo := newFakeRepo()
	store := &memStore{}
	auth := NewAuth(NewService(repo), store, testLogger{t: t})
	return auth, repo, store
}

func TestAuthLogin(t *testing.T) {
	auth, repo, store := newTestAuth(t)
	usr := createUser(t, repo, "Neema Juma", "neema", "neema@darasa.app", testPwd, StudentRoles, true)
	createUser(t, repo, "Zuri Hassan", "zuri", "zuri@darasa.app", testPwd, StudentRoles, false)

	t.Run("success", func(t *testing.T) {
		s, err := auth.Login("neema", testPwd)
		assert.NoError(t, err)
		assert.Equal(t, usr.ID, s.User.ID)
		assert.True(t, auth.Authenticated())
		assert.False(t, s.User.LastLogin.IsZero())
		if assert.NotNil(t, store.session, "session must be persisted") {
			assert.Equal(t, usr.ID, store.session.User.ID)
		}
	})
	t.Run("by email", func(t *testing.T) {
		s, err := auth.Login("neema@darasa.app", testPwd)
		assert.NoError(t, err)
		assert.Equal(t, usr.ID, s.User.ID)
	})
	t.Run("unknown user", func(t *testing.T) {
		_, err := auth.Login("nobody", testPwd)
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})
	t.Run("wrong password", func(t *testing.T) {
		_, err := auth.Login("neema", "hakuna-matata")
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})
	t.Run("deactivated account", func(t *testing.T) {
		_, err := auth.Login("zuri", testPwd)
		assert.ErrorIs(t, err, ErrAccountDeactivated)
	})
}

func TestAuthLogout(t *testing.T) {
	auth, repo, store := newTestAuth(t)
	createUser(t, repo, "Neema Juma", "neema", "neema@darasa.app", testPwd, StudentRoles, true)

	if _, err := auth.Login("neema", testPwd); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	auth.Logout()
	assert.False(t, auth.Authenticated())
	assert.Nil(t, auth.Current())
	assert.Nil(t, store.session, "persisted session must be cleared")
}

func TestAuthRestoresPersistedSession(t *testing.T) {
	repo := newFakeRepo()
	usr := createUser(t, repo, "Neema Juma", "neema", "neema@darasa.app", testPwd, StudentRoles, true)

	store := &memStore{session: &Session{User: usr}}
	auth := NewAuth(NewService(repo), store, testLogger{t: t})
	assert.True(t, auth.Authenticated())
	assert.Equal(t, usr.ID, auth.Current().User.ID)
}

// an unreadable persisted session means logged out, never a crash
func TestAuthDiscardsCorruptPersistedSession(t *testing.T) {
	repo := newFakeRepo()
	store := &memStore{loadErr: errors.New("token signature mismatch")}
	auth := NewAuth(NewService(repo), store, testLogger{t: t})

	assert.False(t, auth.Authenticated())
	store.loadErr = nil
	s, err := store.LoadPersisted()
	assert.NoError(t, err)
	assert.Nil(t, s, "corrupt persisted state must be cleared")
}

func TestAuthHasAnyRole(t *testing.T) {
	auth, repo, _ := newTestAuth(t)
	createUser(t, repo, "Imani Said", "imani", "imani@darasa.app", testPwd, InstructorRoles, true)

	assert.False(t, auth.HasAnyRole(RoleInstructor), "logged out users hold no roles")

	if _, err := auth.Login("imani", testPwd); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	assert.True(t, auth.HasAnyRole(RoleInstructor))
	assert.True(t, auth.HasAnyRole(RoleAdmin, RoleInstructor), "any single match suffices")
	assert.False(t, auth.HasAnyRole(RoleAdmin))
}

func TestAuthSessionCellNotifies(t *testing.T) {
	auth, repo, _ := newTestAuth(t)
	createUser(t, repo, "Neema Juma", "neema", "neema@darasa.app", testPwd, StudentRoles, true)

	var events []bool
	defer auth.SessionCell().Subscribe(func(s *Session) {
		events = append(events, s != nil)
	})()

	if _, err := auth.Login("neema", testPwd); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	auth.Logout()
	assert.Equal(t, []bool{true, false}, events)
}
