package models

type CategoryProgress struct {
	Name      string `json:"name"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Progress  int    `json:"progress"`
}

type CourseProgress struct {
	CourseName string             `json:"course_name"`
	Color      CourseColor        `json:"color"`
	Total      int                `json:"total"`
	Completed  int                `json:"completed"`
	Progress   int                `json:"progress"`
	Categories []CategoryProgress `json:"categories"`
}

type CourseColor struct {
	Name   string `json:"name"`
	BG     string `json:"bg"`
	Text   string `json:"text"`
	Border string `json:"border"`
}

// SelectedCourseView is a selection decorated for display.
type SelectedCourseView struct {
	CourseName string      `json:"course_name"`
	ExamDate   string      `json:"exam_date,omitempty"`
	AfterExam  bool        `json:"after_exam"`
	DaysToExam *int        `json:"days_to_exam,omitempty"`
	ExamLabel  string      `json:"exam_label,omitempty"`
	Color      CourseColor `json:"color"`
}

type DashboardStats struct {
	TestsCompleted    int64 `json:"tests_completed"`
	QuestionsAnswered int64 `json:"questions_answered"`
	CorrectAnswers    int64 `json:"correct_answers"`
	Accuracy          int   `json:"accuracy"`
	UpcomingTests     int   `json:"upcoming_tests"`
}

type Dashboard struct {
	Stats         DashboardStats       `json:"stats"`
	ActiveCourses []SelectedCourseView `json:"active_courses"`
	UpcomingExams []SelectedCourseView `json:"upcoming_exams"`
}
