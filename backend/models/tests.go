package models

import (
	"time"

	"gorm.io/gorm"
)

// TestFilters narrows the question pool of a practice test. Zero values match everything.
type TestFilters struct {
	Category  string `json:"category,omitempty"`
	Year      int    `json:"year,omitempty"`
	Professor string `json:"professor,omitempty"`
}

type TestAnswer struct {
	QuestionID uint `json:"question_id"`
	IsCorrect  bool `json:"is_correct"`
}

// TestSession is an in-progress practice test. It lives in the session store only.
type TestSession struct {
	ID         string         `json:"id"`
	UserID     uint           `json:"user_id"`
	CourseName string         `json:"course_name"`
	Questions  []QuestionItem `json:"questions"`
	TestFilters
	StartTime time.Time    `json:"start_time"`
	Answers   []TestAnswer `json:"answers"`
}

// HasQuestion reports whether id is part of the session.
func (s *TestSession) HasQuestion(id uint) bool {
	for _, q := range s.Questions {
		if q.ID == id {
			return true
		}
	}
	return false
}

// Answer records or overwrites the answer for a question.
func (s *TestSession) Answer(questionID uint, correct bool) {
	for i := range s.Answers {
		if s.Answers[i].QuestionID == questionID {
			s.Answers[i].IsCorrect = correct
			return
		}
	}
	s.Answers = append(s.Answers, TestAnswer{QuestionID: questionID, IsCorrect: correct})
}

type TestResult struct {
	SessionID       string       `json:"session_id"`
	UserID          uint         `json:"user_id"`
	CourseName      string       `json:"course_name"`
	StartTime       time.Time    `json:"start_time"`
	EndTime         time.Time    `json:"end_time"`
	Answers         []TestAnswer `json:"answers"`
	Correct         int          `json:"correct"`
	Total           int          `json:"total"`
	Score           int          `json:"score"`
	DurationSeconds int          `json:"duration_seconds"`
}

// TestAttempt is the persisted history entry of a finished practice test.
type TestAttempt struct {
	gorm.Model
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	SessionID  string    `gorm:"uniqueIndex;size:36" json:"session_id"`
	CourseName string    `gorm:"index" json:"course_name"`
	Category   string    `json:"category,omitempty"`
	Year       int       `json:"year,omitempty"`
	Professor  string    `json:"professor,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Total      int       `json:"total"`
	Correct    int       `json:"correct"`
	Score      int       `json:"score"`
}

// UserTest is a test a student plans for themselves, optionally on a date.
type UserTest struct {
	gorm.Model
	UserID        uint       `gorm:"index;not null" json:"user_id"`
	Title         string     `gorm:"not null" json:"title"`
	Description   string     `json:"description"`
	CourseName    string     `gorm:"index;not null" json:"course_name"`
	Category      string     `json:"category"`
	Difficulty    int        `gorm:"default:3" json:"difficulty"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	Completed     bool       `gorm:"default:false" json:"completed"`
}
