package models

import "time"

type CourseStats struct {
	Name           string `json:"name"`
	TestsCompleted int    `json:"tests_completed"`
	AverageScore   int    `json:"average_score"`
}

type RecentTest struct {
	ID         uint      `json:"id"`
	CourseName string    `json:"course_name"`
	Date       time.Time `json:"date"`
	Score      int       `json:"score"`
}

// UserStats summarises a user's practice test history.
type UserStats struct {
	TestsCompleted    int           `json:"tests_completed"`
	QuestionsAnswered int           `json:"questions_answered"`
	CorrectAnswers    int           `json:"correct_answers"`
	AverageScore      int           `json:"average_score"`
	StudyMinutes      int           `json:"study_minutes"`
	Courses           []CourseStats `json:"courses"`
	RecentTests       []RecentTest  `json:"recent_tests"`
}

// StudentCourseStats is one student's standing in a course.
type StudentCourseStats struct {
	UserID            uint       `json:"user_id"`
	Username          string     `json:"username"`
	ExamDate          *time.Time `json:"exam_date"`
	AfterExam         bool       `json:"after_exam"`
	QuestionsAnswered int        `json:"questions_answered"`
	CorrectAnswers    int        `json:"correct_answers"`
	CompletionRate    int        `json:"completion_rate"`
	TestsCompleted    int        `json:"tests_completed"`
	AverageScore      int        `json:"average_score"`
}

type CourseAnalytics struct {
	CourseName     string               `json:"course_name"`
	TotalQuestions int                  `json:"total_questions"`
	Students       []StudentCourseStats `json:"students"`
}
