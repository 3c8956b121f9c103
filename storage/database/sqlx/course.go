package sqlxdb

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/course"
)

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateCourse(crs course.Course) (course.Course, error) {
	res, err := repo.db.NamedExec(`
		INSERT INTO course (title, description, category, difficulty, instructor, duration, price, is_published, created_at, updated_at)
		VALUES (:title, :description, :category, :difficulty, :instructor, :duration, :price, :is_published, :created_at, :updated_at)`,
		crs,
	)
	if err != nil {
		return course.Course{}, transportFailure(err, "inserting course")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return course.Course{}, transportFailure(err, "inserting course")
	}
	crs.ID = int(id)
	return crs, nil
}

func (repo *courseRepository) QueryAllCourses() ([]course.Course, error) {
	courses := make([]course.Course, 0)
	if err := repo.db.Select(&courses, `SELECT * FROM course ORDER BY id`); err != nil {
		return nil, transportFailure(err, "querying courses")
	}
	return courses, nil
}

func (repo *courseRepository) GetCourseByID(id int) (course.Course, error) {
	var crs course.Course
	if err := repo.db.Get(&crs, `SELECT * FROM course WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, transportFailure(err, "getting course")
	}
	return crs, nil
}

// FilterCourses delegates the text matching to FilterCriteria so that both
// database backends filter identically.
func (repo *courseRepository) FilterCourses(criteria course.FilterCriteria) ([]course.Course, error) {
	courses, err := repo.QueryAllCourses()
	if err != nil {
		return nil, err
	}
	if criteria.IsEmpty() {
		return courses, nil
	}
	filtered := make([]course.Course, 0, len(courses))
	for _, crs := range courses {
		if criteria.Matches(crs) {
			filtered = append(filtered, crs)
		}
	}
	return filtered, nil
}

func (repo *courseRepository) UpdateCourse(crs course.Course) (course.Course, error) {
	res, err := repo.db.NamedExec(`
		UPDATE course
		SET title = :title, description = :description, category = :category, difficulty = :difficulty,
			instructor = :instructor, duration = :duration, price = :price, is_published = :is_published,
			updated_at = :updated_at
		WHERE id = :id`,
		crs,
	)
	if err != nil {
		return course.Course{}, transportFailure(err, "updating course")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return crs, nil
}

func (repo *courseRepository) DeleteCoursesByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM course WHERE id IN (?)`, ids)
	if err != nil {
		return transportFailure(err, "deleting courses")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(query), args...); err != nil {
		return transportFailure(err, "deleting courses")
	}
	return nil
}
