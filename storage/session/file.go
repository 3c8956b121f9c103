// Package session persists the logged in user across restarts as a signed
// token in a local file.
package session

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

const signingMethod = "HS256"

// Claims carries a snapshot of the session user inside the persisted token.
type Claims struct {
	jwt.StandardClaims
	User      user.User `json:"user"`
	CreatedAt int64     `json:"created_at"`
}

// FileStore implements user.SessionStore on top of a signed token file.
// Tampered, expired or otherwise unreadable files surface as errors so the
// owner can discard them; a missing file simply means no session.
type FileStore struct {
	path      string
	appName   string
	secretKey []byte
	expDelta  time.Duration
}

var _ user.SessionStore = (*FileStore)(nil) // interface compliance check

func NewFileStore(conf *core.Config) *FileStore {
	return &FileStore{
		path:      conf.SessionFile,
		appName:   conf.AppName,
		secretKey: []byte(conf.SecretKey),
		expDelta:  conf.SessionExpirationDelta,
	}
}

func (fs *FileStore) Persist(s user.Session) error {
	now := time.Now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    fs.appName,
			Subject:   s.User.Username,
			ExpiresAt: now.Add(fs.expDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		User:      s.User,
		CreatedAt: s.CreatedAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.GetSigningMethod(signingMethod), claims)
	ss, err := token.SignedString(fs.secretKey)
	if err != nil {
		return errors.Wrap(err, "signing session token")
	}
	// the default path lives under the user config dir, which may not exist yet
	if err = os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return errors.Wrap(err, "creating session directory")
	}
	if err = os.WriteFile(fs.path, []byte(ss), 0o600); err != nil {
		return errors.Wrap(err, "writing session file")
	}
	return nil
}

func (fs *FileStore) LoadPersisted() (*user.Session, error) {
	raw, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading session file")
	}

	claims := new(Claims)
	token, err := jwt.ParseWithClaims(string(raw), claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != signingMethod {
			return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return fs.secretKey, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "parsing session token")
	}
	if !token.Valid {
		return nil, errors.New("invalid session token")
	}

	return &user.Session{
		User:      claims.User,
		CreatedAt: time.Unix(claims.CreatedAt, 0).UTC(),
	}, nil
}

func (fs *FileStore) Clear() error {
	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session file")
	}
	return nil
}
