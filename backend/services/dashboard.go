package services

import (
	"sort"
	"strconv"
	"time"

	"studyhub/backend/models"
	"studyhub/backend/validation"
)

// Today returns the UTC calendar date of now as midnight UTC, the form exam
// dates are stored in. Every day boundary in the app is a UTC one.
func Today(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysUntil counts whole days from today to date; negative when date has passed.
func DaysUntil(today, date time.Time) int {
	return int(Today(date).Sub(Today(today)).Hours() / 24)
}

// ExamLabel is "Today!" on exam day and "N days" before it.
func ExamLabel(days int) string {
	if days == 0 {
		return "Today!"
	}
	if days == 1 {
		return "1 day"
	}
	return strconv.Itoa(days) + " days"
}

// ViewSelectedCourse decorates a selection with colour and countdown.
// The countdown is omitted after the exam or when no date is set.
func ViewSelectedCourse(sc models.SelectedCourse, today time.Time) models.SelectedCourseView {
	v := models.SelectedCourseView{
		CourseName: sc.CourseName,
		AfterExam:  sc.AfterExam,
		Color:      CourseColor(sc.CourseName),
	}
	if sc.ExamDate == nil {
		return v
	}
	v.ExamDate = sc.ExamDate.Format(validation.DateLayout)
	if days := DaysUntil(today, *sc.ExamDate); days >= 0 && !sc.AfterExam {
		v.DaysToExam = &days
		v.ExamLabel = ExamLabel(days)
	}
	return v
}

// PastExams returns the selections that must be flagged as after the exam.
func PastExams(selections []models.SelectedCourse, today time.Time) []models.SelectedCourse {
	var out []models.SelectedCourse
	for _, sc := range selections {
		if !sc.AfterExam && sc.ExamDate != nil && Today(*sc.ExamDate).Before(Today(today)) {
			out = append(out, sc)
		}
	}
	return out
}

// BuildDashboard assembles the dashboard from the user's selections (already swept
// for past exams) and the precomputed counters.
func BuildDashboard(selections []models.SelectedCourse, testsCompleted, questionsAnswered int64, today time.Time) models.Dashboard {
	d := models.Dashboard{
		Stats: models.DashboardStats{
			TestsCompleted:    testsCompleted,
			QuestionsAnswered: questionsAnswered,
			CorrectAnswers:    questionsAnswered,
		},
		ActiveCourses: []models.SelectedCourseView{},
		UpcomingExams: []models.SelectedCourseView{},
	}
	if questionsAnswered > 0 {
		d.Stats.Accuracy = Percent(int(d.Stats.CorrectAnswers), int(questionsAnswered))
	}

	var upcoming []models.SelectedCourse
	for _, sc := range selections {
		if sc.AfterExam {
			continue
		}
		d.ActiveCourses = append(d.ActiveCourses, ViewSelectedCourse(sc, today))
		if sc.ExamDate != nil && DaysUntil(today, *sc.ExamDate) >= 0 {
			upcoming = append(upcoming, sc)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].ExamDate.Before(*upcoming[j].ExamDate)
	})
	for _, sc := range upcoming {
		d.UpcomingExams = append(d.UpcomingExams, ViewSelectedCourse(sc, today))
	}
	d.Stats.UpcomingTests = len(upcoming)
	return d
}
