package course

import (
	"errors"
	"sort"
	"time"
)

var (
	// errors
	ErrNotFound = errors.New("course not found")
)

type (
	Repository interface {
		CreateCourse(crs Course) (Course, error)
		QueryAllCourses() ([]Course, error)
		GetCourseByID(id int) (Course, error)
		// FilterCourses applies AND operation on available FilterCriteria fields,
		// preserving the original collection order.
		FilterCourses(criteria FilterCriteria) ([]Course, error)
		UpdateCourse(crs Course) (Course, error)
		DeleteCoursesByID(ids ...int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		Title:       nc.Title,
		Description: nc.Description,
		Category:    nc.Category,
		Difficulty:  nc.Difficulty,
		Instructor:  nc.Instructor,
		Duration:    nc.Duration,
		Price:       nc.Price,
		IsPublished: nc.IsPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateCourse(crs)
}

func (svc *Service) QueryAll() ([]Course, error) {
	return svc.repo.QueryAllCourses()
}

func (svc *Service) GetByID(id int) (Course, error) {
	return svc.repo.GetCourseByID(id)
}

func (svc *Service) Filter(criteria FilterCriteria) ([]Course, error) {
	criteria.Clean()
	return svc.repo.FilterCourses(criteria)
}

func (svc *Service) Update(id int, uc UpdateCourse) (Course, error) {
	crs, err := svc.repo.GetCourseByID(id)
	if err != nil {
		return Course{}, err
	}
	crs.Title = uc.Title
	crs.Description = uc.Description
	crs.Category = uc.Category
	crs.Difficulty = uc.Difficulty
	crs.Instructor = uc.Instructor
	if uc.Duration != nil {
		crs.Duration = *uc.Duration
	}
	if uc.Price != nil {
		crs.Price = *uc.Price
	}
	if uc.IsPublished != nil {
		crs.IsPublished = *uc.IsPublished
	}
	crs.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCourse(crs)
}

func (svc *Service) Delete(ids ...int) error {
	return svc.repo.DeleteCoursesByID(ids...)
}

// Categories returns the distinct categories across all courses, sorted.
func (svc *Service) Categories() ([]string, error) {
	courses, err := svc.repo.QueryAllCourses()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	cats := make([]string, 0)
	for _, crs := range courses {
		if !seen[crs.Category] {
			seen[crs.Category] = true
			cats = append(cats, crs.Category)
		}
	}
	sort.Strings(cats)
	return cats, nil
}
