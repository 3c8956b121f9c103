package inmemdb

import (
	"github.com/trezcool/darasa/core/course"
)

var coursePkCount int

type courseRepository struct {
	db *courseTable
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.course}
}

// query returns courses in insertion order; FilterCourses preserves it.
func (repo *courseRepository) query() []course.Course {
	courses := make([]course.Course, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		if crs, ok := repo.db.table[id]; ok {
			courses = append(courses, *crs)
		}
	}
	return courses
}

func (repo *courseRepository) CreateCourse(crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	coursePkCount++
	crs.ID = coursePkCount
	repo.db.table[crs.ID] = &crs
	repo.db.order = append(repo.db.order, crs.ID)
	return crs, nil
}

func (repo *courseRepository) QueryAllCourses() ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *courseRepository) GetCourseByID(id int) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if crs, ok := repo.db.table[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) FilterCourses(criteria course.FilterCriteria) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := repo.query()
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
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[crs.ID]; !ok {
		return course.Course{}, course.ErrNotFound
	}
	repo.db.table[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) DeleteCoursesByID(ids ...int) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
