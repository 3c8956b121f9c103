package sqlxdb

import (
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

// userRow flattens user.User for scanning; roles are stored comma-joined.
type userRow struct {
	ID           int          `db:"id"`
	Name         string       `db:"name"`
	Username     string       `db:"username"`
	Email        string       `db:"email"`
	IsActive     bool         `db:"is_active"`
	Roles        string       `db:"roles"`
	PasswordHash []byte       `db:"password_hash"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
	LastLogin    sql.NullTime `db:"last_login"`
}

func newUserRow(usr user.User) userRow {
	row := userRow{
		ID:           usr.ID,
		Name:         usr.Name,
		Username:     usr.Username,
		Email:        usr.Email,
		IsActive:     usr.IsActive,
		Roles:        strings.Join(usr.Roles, ","),
		PasswordHash: usr.PasswordHash,
		CreatedAt:    usr.CreatedAt,
		UpdatedAt:    usr.UpdatedAt,
	}
	if !usr.LastLogin.IsZero() {
		row.LastLogin = sql.NullTime{Time: usr.LastLogin, Valid: true}
	}
	return row
}

func (row userRow) user() user.User {
	usr := user.User{
		ID:           row.ID,
		Name:         row.Name,
		Username:     row.Username,
		Email:        row.Email,
		IsActive:     row.IsActive,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if row.Roles != "" {
		usr.Roles = strings.Split(row.Roles, ",")
	}
	if row.LastLogin.Valid {
		usr.LastLogin = row.LastLogin.Time
	}
	return usr
}

func (repo *userRepository) CheckUsernameUniqueness(username, email string, excludedUsers ...user.User) error {
	excluded := make(map[int]bool, len(excludedUsers))
	for _, usr := range excludedUsers {
		excluded[usr.ID] = true
	}

	rows := make([]userRow, 0)
	err := repo.db.Select(&rows, `SELECT * FROM "user" WHERE username = ? OR email = ?`, username, email)
	if err != nil {
		return transportFailure(err, "checking uniqueness")
	}
	for _, row := range rows {
		if excluded[row.ID] {
			continue
		}
		if row.Username == username {
			return user.ErrUsernameExists
		}
		if row.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	res, err := repo.db.NamedExec(`
		INSERT INTO "user" (name, username, email, is_active, roles, password_hash, created_at, updated_at, last_login)
		VALUES (:name, :username, :email, :is_active, :roles, :password_hash, :created_at, :updated_at, :last_login)`,
		newUserRow(usr),
	)
	if err != nil {
		return user.User{}, transportFailure(err, "inserting user")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return user.User{}, transportFailure(err, "inserting user")
	}
	usr.ID = int(id)
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	rows := make([]userRow, 0)
	if err := repo.db.Select(&rows, `SELECT * FROM "user" ORDER BY id`); err != nil {
		return nil, transportFailure(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.user())
	}
	return users, nil
}

func (repo *userRepository) GetUserByID(id int) (user.User, error) {
	var row userRow
	if err := repo.db.Get(&row, `SELECT * FROM "user" WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, transportFailure(err, "getting user")
	}
	return row.user(), nil
}

func (repo *userRepository) GetUserByUsernameOrEmail(username string) (user.User, error) {
	var row userRow
	err := repo.db.Get(&row, `SELECT * FROM "user" WHERE username = ? OR email = ?`, username, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, transportFailure(err, "getting user")
	}
	return row.user(), nil
}

func (repo *userRepository) UpdateUser(usr user.User) (user.User, error) {
	res, err := repo.db.NamedExec(`
		UPDATE "user"
		SET name = :name, username = :username, email = :email, is_active = :is_active,
			roles = :roles, password_hash = :password_hash, updated_at = :updated_at, last_login = :last_login
		WHERE id = :id`,
		newUserRow(usr),
	)
	if err != nil {
		return user.User{}, transportFailure(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *userRepository) DeleteUsersByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM "user" WHERE id IN (?)`, ids)
	if err != nil {
		return transportFailure(err, "deleting users")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(query), args...); err != nil {
		return transportFailure(err, "deleting users")
	}
	return nil
}
