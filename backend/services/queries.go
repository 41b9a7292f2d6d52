package services

import (
	"time"

	"studyhub/backend/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoadQuestions returns every question of the given courses joined with the
// user's status, ordered by id.
func LoadQuestions(db *gorm.DB, userID uint, courses ...string) ([]models.QuestionItem, error) {
	items := []models.QuestionItem{}
	if len(courses) == 0 {
		return items, nil
	}
	err := db.Table("questions").
		Select(`questions.id, questions.question, questions.answer, questions.category_id,
			categories.name AS category, categories.course_name AS course,
			questions.year, questions.professor, question_progresses.done`).
		Joins("JOIN categories ON categories.id = questions.category_id AND categories.deleted_at IS NULL").
		Joins("LEFT JOIN question_progresses ON question_progresses.question_id = questions.id AND question_progresses.user_id = ?", userID).
		Where("questions.deleted_at IS NULL AND categories.course_name IN ?", courses).
		Order("questions.id").
		Scan(&items).Error
	return items, errors.Wrap(err, "loading questions")
}

// LoadCategoryNames returns the category names of a course ordered by name.
func LoadCategoryNames(db *gorm.DB, course string) ([]string, error) {
	var names []string
	err := db.Model(&models.Category{}).
		Where("course_name = ?", course).
		Order("name").
		Pluck("name", &names).Error
	return names, errors.Wrap(err, "loading categories")
}

// RequireSelectedCourse fails with ErrCourseNotSelected unless the user picked the course.
func RequireSelectedCourse(db *gorm.DB, userID uint, course string) (*models.SelectedCourse, error) {
	var sc models.SelectedCourse
	err := db.Where("user_id = ? AND course_name = ?", userID, course).First(&sc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotSelected
	}
	if err != nil {
		return nil, errors.Wrap(err, "loading selected course")
	}
	return &sc, nil
}

func LoadSelections(db *gorm.DB, userID uint) ([]models.SelectedCourse, error) {
	var selections []models.SelectedCourse
	err := db.Where("user_id = ?", userID).Order("course_name").Find(&selections).Error
	return selections, errors.Wrap(err, "loading selected courses")
}

// SetQuestionStatus upserts the user's status for a question. A nil done marks it unanswered.
func SetQuestionStatus(db *gorm.DB, userID, questionID uint, done *bool) error {
	progress := models.QuestionProgress{UserID: userID, QuestionID: questionID, Done: done}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"done", "updated_at"}),
	}).Create(&progress).Error
	return errors.Wrap(err, "saving question status")
}

// FlagPastExams sets after_exam on selections whose exam date is before today.
// userIDs narrows the sweep; without it every user is swept.
func FlagPastExams(db *gorm.DB, today time.Time, userIDs ...uint) (int64, error) {
	q := db.Where("after_exam = ? AND exam_date IS NOT NULL", false)
	if len(userIDs) > 0 {
		q = q.Where("user_id IN ?", userIDs)
	}
	var open []models.SelectedCourse
	if err := q.Find(&open).Error; err != nil {
		return 0, errors.Wrap(err, "loading open exams")
	}

	past := PastExams(open, today)
	if len(past) == 0 {
		return 0, nil
	}
	ids := make([]uint, len(past))
	for i, sc := range past {
		ids[i] = sc.ID
	}
	res := db.Model(&models.SelectedCourse{}).Where("id IN ?", ids).Update("after_exam", true)
	return res.RowsAffected, errors.Wrap(res.Error, "flagging past exams")
}
