// Package inmemdb is an in-process database keeping all rows in maps.
// It backs tests and the default development setup.
package inmemdb

import (
	"sync"

	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

type (
	DB struct {
		user   *userTable
		course *courseTable
	}

	userTable struct {
		sync.RWMutex
		table map[int]*user.User
	}

	courseTable struct {
		sync.RWMutex
		table map[int]*course.Course
		order []int // insertion order
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:   &userTable{table: make(map[int]*user.User)},
		course: &courseTable{table: make(map[int]*course.Course)},
	}
	return db, nil
}
