package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	gorm.Model
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
}

type Category struct {
	gorm.Model
	Name       string     `gorm:"uniqueIndex:idx_category_course;not null" json:"name"`
	CourseName string     `gorm:"uniqueIndex:idx_category_course;not null" json:"course_name"`
	Questions  []Question `json:"questions,omitempty"`
}

// SelectedCourse links a user to a course they are studying for.
type SelectedCourse struct {
	gorm.Model
	UserID     uint       `gorm:"uniqueIndex:idx_selected_user_course;not null" json:"user_id"`
	CourseName string     `gorm:"uniqueIndex:idx_selected_user_course;not null" json:"course_name"`
	ExamDate   *time.Time `json:"exam_date"`
	AfterExam  bool       `gorm:"default:false" json:"after_exam"`
}
