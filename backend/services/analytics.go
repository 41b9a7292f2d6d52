package services

import (
	"math"
	"sort"

	"studyhub/backend/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const recentTestCount = 5

// BuildUserStats summarises finished practice tests. Study time is the sum of
// test durations rounded to whole minutes.
func BuildUserStats(attempts []models.TestAttempt) models.UserStats {
	stats := models.UserStats{
		Courses:     []models.CourseStats{},
		RecentTests: []models.RecentTest{},
	}
	if len(attempts) == 0 {
		return stats
	}

	type courseTotals struct {
		tests, scoreSum int
	}
	byCourse := map[string]*courseTotals{}
	var scoreSum int
	var seconds float64

	for _, a := range attempts {
		stats.TestsCompleted++
		stats.QuestionsAnswered += a.Total
		stats.CorrectAnswers += a.Correct
		scoreSum += a.Score
		if a.FinishedAt.After(a.StartedAt) {
			seconds += a.FinishedAt.Sub(a.StartedAt).Seconds()
		}

		t, ok := byCourse[a.CourseName]
		if !ok {
			t = &courseTotals{}
			byCourse[a.CourseName] = t
		}
		t.tests++
		t.scoreSum += a.Score
	}
	stats.AverageScore = int(math.Round(float64(scoreSum) / float64(stats.TestsCompleted)))
	stats.StudyMinutes = int(math.Round(seconds / 60))

	for name, t := range byCourse {
		stats.Courses = append(stats.Courses, models.CourseStats{
			Name:           name,
			TestsCompleted: t.tests,
			AverageScore:   int(math.Round(float64(t.scoreSum) / float64(t.tests))),
		})
	}
	sort.Slice(stats.Courses, func(i, j int) bool {
		return stats.Courses[i].Name < stats.Courses[j].Name
	})

	recent := make([]models.TestAttempt, len(attempts))
	copy(recent, attempts)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].FinishedAt.After(recent[j].FinishedAt)
	})
	if len(recent) > recentTestCount {
		recent = recent[:recentTestCount]
	}
	for _, a := range recent {
		stats.RecentTests = append(stats.RecentTests, models.RecentTest{
			ID:         a.ID,
			CourseName: a.CourseName,
			Date:       a.FinishedAt,
			Score:      a.Score,
		})
	}
	return stats
}

// LoadCourseAnalytics lists every student who selected the course with their
// answered questions and test history. Completion is the share of the course's
// questions the student marked correct.
func LoadCourseAnalytics(db *gorm.DB, course string) (*models.CourseAnalytics, error) {
	out := &models.CourseAnalytics{CourseName: course, Students: []models.StudentCourseStats{}}

	var total int64
	if err := db.Model(&models.Question{}).
		Joins("JOIN categories ON categories.id = questions.category_id AND categories.deleted_at IS NULL").
		Where("categories.course_name = ?", course).
		Count(&total).Error; err != nil {
		return nil, errors.Wrap(err, "counting course questions")
	}
	out.TotalQuestions = int(total)

	var selections []models.SelectedCourse
	if err := db.Where("course_name = ?", course).Order("user_id").Find(&selections).Error; err != nil {
		return nil, errors.Wrap(err, "loading course students")
	}
	if len(selections) == 0 {
		return out, nil
	}
	userIDs := make([]uint, len(selections))
	for i, sc := range selections {
		userIDs[i] = sc.UserID
	}

	var users []models.User
	if err := db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "loading students")
	}
	names := make(map[uint]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}

	var answers []struct {
		UserID   uint
		Answered int
		Correct  int
	}
	if err := db.Table("question_progresses").
		Select(`question_progresses.user_id, COUNT(question_progresses.done) AS answered,
			SUM(CASE WHEN question_progresses.done THEN 1 ELSE 0 END) AS correct`).
		Joins("JOIN questions ON questions.id = question_progresses.question_id AND questions.deleted_at IS NULL").
		Joins("JOIN categories ON categories.id = questions.category_id AND categories.deleted_at IS NULL").
		Where("question_progresses.deleted_at IS NULL AND categories.course_name = ? AND question_progresses.user_id IN ?", course, userIDs).
		Group("question_progresses.user_id").
		Scan(&answers).Error; err != nil {
		return nil, errors.Wrap(err, "counting answers")
	}

	var tests []struct {
		UserID  uint
		Tests   int
		Average float64
	}
	if err := db.Model(&models.TestAttempt{}).
		Select("user_id, COUNT(*) AS tests, AVG(score) AS average").
		Where("course_name = ? AND user_id IN ?", course, userIDs).
		Group("user_id").
		Scan(&tests).Error; err != nil {
		return nil, errors.Wrap(err, "summarising test attempts")
	}

	for _, sc := range selections {
		st := models.StudentCourseStats{
			UserID:    sc.UserID,
			Username:  names[sc.UserID],
			ExamDate:  sc.ExamDate,
			AfterExam: sc.AfterExam,
		}
		for _, a := range answers {
			if a.UserID == sc.UserID {
				st.QuestionsAnswered, st.CorrectAnswers = a.Answered, a.Correct
			}
		}
		for _, t := range tests {
			if t.UserID == sc.UserID {
				st.TestsCompleted, st.AverageScore = t.Tests, int(math.Round(t.Average))
			}
		}
		st.CompletionRate = Percent(st.CorrectAnswers, out.TotalQuestions)
		out.Students = append(out.Students, st)
	}
	return out, nil
}
