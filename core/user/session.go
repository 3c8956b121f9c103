package user

import (
	"errors"
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/reactive"
)

var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrAccountDeactivated   = errors.New("account deactivated")
)

// Session is the process-wide record of the logged in user. It is created on
// a successful login, persisted for the browser session via a SessionStore
// and destroyed on logout. It is written only by Auth; everything else reads.
type Session struct {
	User      User
	CreatedAt time.Time // UTC
}

// SessionStore persists a session across restarts. LoadPersisted must treat
// corrupt or expired persisted state as "no session", never as an error the
// caller has to interpret.
type SessionStore interface {
	LoadPersisted() (*Session, error)
	Persist(s Session) error
	Clear() error
}

// Auth owns the session singleton.
type Auth struct {
	svc    *Service
	store  SessionStore
	logger core.Logger

	session *reactive.Cell[*Session]
}

func NewAuth(svc *Service, store SessionStore, logger core.Logger) *Auth {
	a := &Auth{
		svc:     svc,
		store:   store,
		logger:  logger,
		session: reactive.NewCell[*Session](nil),
	}
	// fail-safe: a missing or corrupt persisted session means logged out
	s, err := store.LoadPersisted()
	if err != nil {
		logger.Warn("discarding unreadable persisted session", err)
		_ = store.Clear()
		s = nil
	}
	a.session.Set(s)
	return a
}

// Login authenticates the given credentials, persists the resulting session
// and makes it current.
func (a *Auth) Login(uname, pwd string) (*Session, error) {
	usr, err := a.svc.GetByUsernameOrEmail(uname)
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return nil, ErrAuthenticationFailed
	}
	if !usr.IsActive {
		return nil, ErrAccountDeactivated
	}
	if usr, err = a.svc.SetLastLogin(usr); err != nil {
		a.logger.Warn("setting lastLogin", err)
	}

	s := &Session{User: usr, CreatedAt: time.Now().UTC()}
	if err = a.store.Persist(*s); err != nil {
		a.logger.Warn("persisting session", err)
	}
	a.session.Set(s)
	return s, nil
}

// Logout clears the current session and its persisted copy.
func (a *Auth) Logout() {
	if err := a.store.Clear(); err != nil {
		a.logger.Warn("clearing persisted session", err)
	}
	a.session.Set(nil)
}

// Current returns the active session, or nil when logged out.
func (a *Auth) Current() *Session {
	return a.session.Get()
}

func (a *Auth) Authenticated() bool {
	return a.Current() != nil
}

// HasAnyRole reports whether the logged in user holds at least one of the
// expected role groups; false when logged out.
func (a *Auth) HasAnyRole(expected ...string) bool {
	s := a.Current()
	if s == nil {
		return false
	}
	return s.User.HasAnyRole(expected...)
}

// SessionCell exposes the session for reactive consumers (header, views).
func (a *Auth) SessionCell() *reactive.Cell[*Session] {
	return a.session
}
