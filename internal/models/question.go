package models

import "time"

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "Easy"
	DifficultyMedium DifficultyLevel = "Medium"
	DifficultyHard   DifficultyLevel = "Hard"
)

func (d DifficultyLevel) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// OptionTag names one of the four answer slots of a question.
type OptionTag string

const (
	Option1 OptionTag = "Option1"
	Option2 OptionTag = "Option2"
	Option3 OptionTag = "Option3"
	Option4 OptionTag = "Option4"
)

var OptionTags = []OptionTag{Option1, Option2, Option3, Option4}

func (o OptionTag) IsValid() bool {
	switch o {
	case Option1, Option2, Option3, Option4:
		return true
	}
	return false
}

const DefaultImageContentType = "image/jpeg"

type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null;size:100"`
	Description string    `json:"description" gorm:"size:500"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Questions []Question `json:"-" gorm:"foreignKey:CategoryID"`
}

func (Category) TableName() string {
	return "categories"
}

// Question is a four option multiple choice item. CorrectOption holds the single
// correct slot and must never leave the service in a question view.
type Question struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CategoryID uint      `json:"category_id" gorm:"not null;index"`
	Category   *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`

	Text    string `json:"text" gorm:"type:text;not null"`
	Option1 string `json:"option1" gorm:"not null;size:500"`
	Option2 string `json:"option2" gorm:"not null;size:500"`
	Option3 string `json:"option3" gorm:"not null;size:500"`
	Option4 string `json:"option4" gorm:"not null;size:500"`

	CorrectOption OptionTag       `json:"correct_option" gorm:"not null;size:10"`
	Difficulty    DifficultyLevel `json:"difficulty" gorm:"not null;size:10;index"`

	Image            []byte  `json:"-" gorm:"type:bytea"`
	ImageContentType *string `json:"image_content_type,omitempty" gorm:"size:100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

// OptionText returns the text stored in the given slot, or "" for an unknown tag.
func (q *Question) OptionText(tag OptionTag) string {
	switch tag {
	case Option1:
		return q.Option1
	case Option2:
		return q.Option2
	case Option3:
		return q.Option3
	case Option4:
		return q.Option4
	}
	return ""
}

func (q *Question) Options() []string {
	return []string{q.Option1, q.Option2, q.Option3, q.Option4}
}

func (q *Question) HasImage() bool {
	return len(q.Image) > 0
}

func (q *Question) CategoryName() string {
	if q.Category == nil {
		return ""
	}
	return q.Category.Name
}
