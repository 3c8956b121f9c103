package course

import (
	"strings"
	"time"

	"github.com/trezcool/darasa/core"
)

// Difficulties
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

var Difficulties = []string{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

type Course struct {
	ID          int       `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Difficulty  string    `json:"difficulty" db:"difficulty"`
	Instructor  string    `json:"instructor" db:"instructor"`
	Duration    float64   `json:"duration" db:"duration"` // in hours
	Price       float64   `json:"price" db:"price"`
	IsPublished bool      `json:"is_published" db:"is_published"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title       string  `json:"title" validate:"required,min=3,max=200"`
	Description string  `json:"description" validate:"required,min=10,max=2000"`
	Category    string  `json:"category" validate:"required"`
	Difficulty  string  `json:"difficulty" validate:"required,oneof=Beginner Intermediate Advanced"`
	Instructor  string  `json:"instructor" validate:"required,min=2,max=100"`
	Duration    float64 `json:"duration" validate:"required,gte=0.5,lte=1000"`
	Price       float64 `json:"price" validate:"gte=0,lte=10000"`
	IsPublished bool    `json:"is_published"`
}

func (nc *NewCourse) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	nc.Category = core.CleanString(nc.Category)
	nc.Instructor = core.CleanString(nc.Instructor)
	return core.Validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing
// Course. Empty text fields keep their original value.
type UpdateCourse struct {
	Title       string   `json:"title" validate:"omitempty,min=3,max=200"`
	Description string   `json:"description" validate:"omitempty,min=10,max=2000"`
	Category    string   `json:"category"`
	Difficulty  string   `json:"difficulty" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	Instructor  string   `json:"instructor" validate:"omitempty,min=2,max=100"`
	Duration    *float64 `json:"duration" validate:"omitempty,gte=0.5,lte=1000"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0,lte=10000"`
	IsPublished *bool    `json:"is_published"`
}

func (uc *UpdateCourse) Validate(orig Course) error {
	if title := core.CleanString(uc.Title); title != "" {
		uc.Title = title
	} else {
		uc.Title = orig.Title
	}
	if desc := core.CleanString(uc.Description); desc != "" {
		uc.Description = desc
	} else {
		uc.Description = orig.Description
	}
	if cat := core.CleanString(uc.Category); cat != "" {
		uc.Category = cat
	} else {
		uc.Category = orig.Category
	}
	if instr := core.CleanString(uc.Instructor); instr != "" {
		uc.Instructor = instr
	} else {
		uc.Instructor = orig.Instructor
	}
	if uc.Difficulty == "" {
		uc.Difficulty = orig.Difficulty
	}
	return core.Validate.Struct(uc)
}

// FilterCriteria narrows a course collection. Each field is independently
// optional; an empty value means "no constraint".
type FilterCriteria struct {
	Query      string `query:"search"`
	Category   string `query:"category"`
	Difficulty string `query:"difficulty"`
}

func (fc *FilterCriteria) IsEmpty() bool {
	return fc.Query == "" && fc.Category == "" && fc.Difficulty == ""
}

func (fc *FilterCriteria) Clean() {
	fc.Query = core.CleanString(fc.Query)
}

// Matches reports whether c satisfies all set criteria: Query does a
// case-insensitive match on one of Title, Description or Instructor;
// Category and Difficulty match exactly.
func (fc FilterCriteria) Matches(c Course) bool {
	if fc.Query != "" {
		q := strings.ToLower(fc.Query)
		if !strings.Contains(strings.ToLower(c.Title), q) &&
			!strings.Contains(strings.ToLower(c.Description), q) &&
			!strings.Contains(strings.ToLower(c.Instructor), q) {
			return false
		}
	}
	if fc.Category != "" && c.Category != fc.Category {
		return false
	}
	if fc.Difficulty != "" && c.Difficulty != fc.Difficulty {
		return false
	}
	return true
}
