package models

import (
	"time"

	"gorm.io/gorm"
)

type StudySession struct {
	gorm.Model
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Date      time.Time `gorm:"index" json:"date"`
	Subject   string    `json:"subject"`
	Duration  int       `gorm:"default:60" json:"duration"`
	FocusArea string    `json:"focus_area"`
	Completed bool      `gorm:"default:false" json:"completed"`
}

// BlockedSlot is time the user marked as unavailable for studying.
// Date is stored at midnight UTC.
type BlockedSlot struct {
	gorm.Model
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Date      time.Time `gorm:"index" json:"date"`
	StartTime string    `gorm:"size:5" json:"start_time"`
	EndTime   string    `gorm:"size:5" json:"end_time"`
	Reason    string    `json:"reason"`
}

type SlotType string

const (
	SlotGeneral  SlotType = "general"
	SlotSpecific SlotType = "specific"
	SlotBlocked  SlotType = "blocked"
)

type TimeSlot struct {
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
	Subject       string   `json:"subject,omitempty"`
	Category      string   `json:"category,omitempty"`
	QuestionCount int      `json:"question_count,omitempty"`
	Type          SlotType `json:"type"`
	BlockReason   string   `json:"block_reason,omitempty"`
	BlockID       uint     `json:"block_id,omitempty"`
}

type DaySchedule struct {
	Date  time.Time  `json:"date"`
	Slots []TimeSlot `json:"slots"`
}

type ExamDate struct {
	CourseName string    `json:"course_name"`
	ExamDate   time.Time `json:"exam_date"`
}

type CategoryPerformance struct {
	Category   string  `json:"category"`
	CourseName string  `json:"course_name"`
	Total      int     `json:"total"`
	Incorrect  int     `json:"incorrect"`
	Percentage float64 `json:"percentage"`
}

type CategoryRecommendation struct {
	Name               string  `json:"name"`
	Performance        float64 `json:"performance"`
	RecommendedMinutes int     `json:"recommended_minutes"`
}

type StudyRecommendation struct {
	CourseName string                   `json:"course_name"`
	ExamDate   time.Time                `json:"exam_date"`
	Categories []CategoryRecommendation `json:"categories"`
}

type Schedule struct {
	ExamDates               []ExamDate            `json:"exam_dates"`
	CategoryPerformance     []CategoryPerformance `json:"category_performance"`
	PracticeRecommendations []CategoryPerformance `json:"practice_recommendations"`
	StudyRecommendations    []StudyRecommendation `json:"study_recommendations"`
	WeeklySchedule          []DaySchedule         `json:"weekly_schedule"`
	UpcomingSessions        []StudySession        `json:"upcoming_sessions"`
}
