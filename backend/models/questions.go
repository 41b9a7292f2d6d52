package models

import "gorm.io/gorm"

type Question struct {
	gorm.Model
	Text       string   `gorm:"column:question;not null" json:"question"`
	Answer     string   `json:"answer"`
	CategoryID uint     `gorm:"index;not null" json:"category_id"`
	Category   Category `json:"-"`
	Year       int      `gorm:"index" json:"year"`
	Professor  string   `json:"professor"`
}

// QuestionProgress holds a user's tri-state status for one question.
// Done is nil while the question is unanswered.
type QuestionProgress struct {
	gorm.Model
	UserID     uint  `gorm:"uniqueIndex:idx_progress_user_question;not null"`
	QuestionID uint  `gorm:"uniqueIndex:idx_progress_user_question;not null"`
	Done       *bool `gorm:"index"`
}

// QuestionItem is a question joined with its category, course and the
// status of the requesting user.
type QuestionItem struct {
	ID         uint   `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	CategoryID uint   `json:"category_id"`
	Category   string `json:"category"`
	Course     string `json:"course"`
	Year       int    `json:"year"`
	Professor  string `json:"professor"`
	Done       *bool  `json:"done"`
}

type QuestionStatus string

const (
	StatusCorrect    QuestionStatus = "correct"
	StatusIncorrect  QuestionStatus = "incorrect"
	StatusUnanswered QuestionStatus = "unanswered"
)

// StatusOf maps the stored tri-state value to a QuestionStatus.
func StatusOf(done *bool) QuestionStatus {
	switch {
	case done == nil:
		return StatusUnanswered
	case *done:
		return StatusCorrect
	default:
		return StatusIncorrect
	}
}

// Done converts a status back to the stored tri-state value.
func (s QuestionStatus) Done() *bool {
	switch s {
	case StatusCorrect:
		v := true
		return &v
	case StatusIncorrect:
		v := false
		return &v
	default:
		return nil
	}
}

// Label is the user-facing wording for a status change.
func (s QuestionStatus) Label() string {
	switch s {
	case StatusCorrect:
		return "correct"
	case StatusIncorrect:
		return "incorrect/partial"
	default:
		return "unanswered"
	}
}
