package scheduler

import (
	"fmt"
	"log"
	"time"

	"studyhub/backend/models"
	"studyhub/backend/services"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Days before an exam on which a reminder goes out.
var ReminderDays = []int{7, 3, 1}

// Notifier delivers exam reminders.
type Notifier interface {
	NotifyExam(userID uint, course string, daysLeft int) error
}

// LogNotifier writes reminders to the application log.
type LogNotifier struct {
	Logger *log.Logger
}

func (n LogNotifier) NotifyExam(userID uint, course string, daysLeft int) error {
	n.Logger.Printf("reminder: user %d has the %s exam in %s", userID, course, services.ExamLabel(daysLeft))
	return nil
}

// Purger is implemented by session stores that must drop expired entries themselves.
type Purger interface {
	Purge() int
}

type Scheduler struct {
	scheduler    *gocron.Scheduler
	db           *gorm.DB
	notifier     Notifier
	purger       Purger
	logger       *log.Logger
	reminderHour int
	now          func() time.Time
}

// New creates a scheduler. purger may be nil.
func New(db *gorm.DB, notifier Notifier, purger Purger, logger *log.Logger, reminderHour int) *Scheduler {
	return &Scheduler{
		scheduler:    gocron.NewScheduler(time.UTC),
		db:           db,
		notifier:     notifier,
		purger:       purger,
		logger:       logger,
		reminderHour: reminderHour,
		now:          time.Now,
	}
}

// Start registers the jobs and runs them in the background.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(1).Hour().Do(s.sweepPastExams); err != nil {
		return errors.Wrap(err, "scheduling exam sweep")
	}
	at := fmt.Sprintf("%02d:00", s.reminderHour)
	if _, err := s.scheduler.Every(1).Day().At(at).Do(s.sendReminders); err != nil {
		return errors.Wrap(err, "scheduling exam reminders")
	}
	if s.purger != nil {
		if _, err := s.scheduler.Every(10).Minutes().Do(s.purgeSessions); err != nil {
			return errors.Wrap(err, "scheduling session purge")
		}
	}
	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) sweepPastExams() {
	n, err := services.FlagPastExams(s.db, s.now())
	if err != nil {
		s.logger.Printf("exam sweep failed: %v", err)
		return
	}
	if n > 0 {
		s.logger.Printf("exam sweep: %d course(s) moved past their exam", n)
	}
}

func (s *Scheduler) sendReminders() {
	if _, err := s.SendExamReminders(); err != nil {
		s.logger.Printf("exam reminders failed: %v", err)
	}
}

// SendExamReminders notifies every user with an exam ReminderDays away and
// returns the number of reminders sent.
func (s *Scheduler) SendExamReminders() (int, error) {
	var selections []models.SelectedCourse
	err := s.db.Where("after_exam = ? AND exam_date IS NOT NULL", false).Find(&selections).Error
	if err != nil {
		return 0, errors.Wrap(err, "loading exams")
	}

	today := services.Today(s.now())
	sent := 0
	for _, sc := range selections {
		days := services.DaysUntil(today, *sc.ExamDate)
		if !isReminderDay(days) {
			continue
		}
		if err := s.notifier.NotifyExam(sc.UserID, sc.CourseName, days); err != nil {
			s.logger.Printf("reminder for user %d failed: %v", sc.UserID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *Scheduler) purgeSessions() {
	if n := s.purger.Purge(); n > 0 {
		s.logger.Printf("purged %d expired test session(s)", n)
	}
}

func isReminderDay(days int) bool {
	for _, d := range ReminderDays {
		if d == days {
			return true
		}
	}
	return false
}
