package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	pk      int
	courses []Course
}

var _ Repository = (*fakeRepo)(nil)

func (r *fakeRepo) CreateCourse(crs Course) (Course, error) {
	r.pk++
	crs.ID = r.pk
	r.courses = append(r.courses, crs)
	return crs, nil
}

func (r *fakeRepo) QueryAllCourses() ([]Course, error) {
	out := make([]Course, len(r.courses))
	copy(out, r.courses)
	return out, nil
}

func (r *fakeRepo) GetCourseByID(id int) (Course, error) {
	for _, crs := range r.courses {
		if crs.ID == id {
			return crs, nil
		}
	}
	return Course{}, ErrNotFound
}

func (r *fakeRepo) FilterCourses(criteria FilterCriteria) ([]Course, error) {
	if criteria.IsEmpty() {
		return r.QueryAllCourses()
	}
	out := make([]Course, 0, len(r.courses))
	for _, crs := range r.courses {
		if criteria.Matches(crs) {
			out = append(out, crs)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateCourse(crs Course) (Course, error) {
	for i, c := range r.courses {
		if c.ID == crs.ID {
			r.courses[i] = crs
			return crs, nil
		}
	}
	return Course{}, ErrNotFound
}

func (r *fakeRepo) DeleteCoursesByID(ids ...int) error {
	for _, id := range ids {
		for i, c := range r.courses {
			if c.ID == id {
				r.courses = append(r.courses[:i], r.courses[i+1:]...)
				break
			}
		}
	}
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()
	repo := &fakeRepo{}
	return NewService(repo), repo
}

func seedCourse(t *testing.T, svc *Service, title, category, difficulty string) Course {
	t.Helper()
	crs, err := svc.Create(NewCourse{
		Title:       title,
		Description: "All about " + title + " from the ground up.",
		Category:    category,
		Difficulty:  difficulty,
		Instructor:  "Neema Juma",
		Duration:    10,
		Price:       49.99,
	})
	if err != nil {
		t.Fatalf("seedCourse() failed: %v", err)
	}
	return crs
}

func TestServiceCreateStampsTimes(t *testing.T) {
	svc, _ := newTestService(t)
	crs := seedCourse(t, svc, "Practical Statistics", "Science", DifficultyBeginner)
	assert.NotZero(t, crs.ID)
	assert.False(t, crs.CreatedAt.IsZero())
	assert.Equal(t, crs.CreatedAt, crs.UpdatedAt)
}

func TestServiceUpdateMergesUnsetFields(t *testing.T) {
	svc, _ := newTestService(t)
	orig := seedCourse(t, svc, "Practical Statistics", "Science", DifficultyBeginner)

	uc := UpdateCourse{Title: "Practical Statistics II"}
	if err := uc.Validate(orig); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	got, err := svc.Update(orig.ID, uc)
	assert.NoError(t, err)
	assert.Equal(t, "Practical Statistics II", got.Title)
	assert.Equal(t, orig.Description, got.Description, "unset fields keep their original value")
	assert.Equal(t, orig.Duration, got.Duration)
	assert.Equal(t, orig.Price, got.Price)
	assert.True(t, got.UpdatedAt.After(orig.UpdatedAt) || got.UpdatedAt.Equal(orig.UpdatedAt))

	_, err = svc.Update(999, uc)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceCategories(t *testing.T) {
	svc, _ := newTestService(t)
	seedCourse(t, svc, "Practical Statistics", "Science", DifficultyBeginner)
	seedCourse(t, svc, "Organic Chemistry", "Science", DifficultyAdvanced)
	seedCourse(t, svc, "Kiswahili for Beginners", "Languages", DifficultyBeginner)

	cats, err := svc.Categories()
	assert.NoError(t, err)
	assert.Equal(t, []string{"Languages", "Science"}, cats, "distinct and sorted")
}

func TestServiceFilterCleansCriteria(t *testing.T) {
	svc, _ := newTestService(t)
	seedCourse(t, svc, "Practical Statistics", "Science", DifficultyBeginner)

	got, err := svc.Filter(FilterCriteria{Query: "  STATISTICS  "})
	assert.NoError(t, err)
	assert.Len(t, got, 1)
}
