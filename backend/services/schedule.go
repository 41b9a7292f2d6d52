package services

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"studyhub/backend/models"
)

const (
	FirstStudyHour        = 8
	LastStudyHour         = 19
	MinutesPerQuestion    = 45
	WeakCategoryThreshold = 80.0
	MaxPracticeItems      = 5
	examWeekDays          = 7
)

type slotWindow struct {
	start, end string
}

// Fallback windows for category practice, in order of preference.
var specificFallbacks = []slotWindow{
	{"10:30", "12:00"},
	{"13:30", "15:00"},
	{"15:30", "17:00"},
	{"17:00", "18:30"},
}

// UpcomingExamDates lists selections with an exam today or later that are not
// yet flagged as after the exam, closest first.
func UpcomingExamDates(selections []models.SelectedCourse, today time.Time) []models.ExamDate {
	exams := []models.ExamDate{}
	for _, sc := range selections {
		if sc.ExamDate == nil || sc.AfterExam {
			continue
		}
		if d := Today(*sc.ExamDate); !d.Before(Today(today)) {
			exams = append(exams, models.ExamDate{CourseName: sc.CourseName, ExamDate: d})
		}
	}
	sort.SliceStable(exams, func(i, j int) bool {
		return exams[i].ExamDate.Before(exams[j].ExamDate)
	})
	return exams
}

// CategoryPerformances groups questions by course and category. Percentage is
// the share of questions not marked incorrect, so unanswered questions count in
// the category's favour.
func CategoryPerformances(questions []models.QuestionItem) []models.CategoryPerformance {
	type key struct{ course, category string }
	index := make(map[key]int)
	perf := []models.CategoryPerformance{}

	for _, q := range questions {
		k := key{q.Course, q.Category}
		i, ok := index[k]
		if !ok {
			i = len(perf)
			index[k] = i
			perf = append(perf, models.CategoryPerformance{Category: q.Category, CourseName: q.Course})
		}
		perf[i].Total++
		if models.StatusOf(q.Done) == models.StatusIncorrect {
			perf[i].Incorrect++
		}
	}
	for i := range perf {
		p := &perf[i]
		p.Percentage = float64(p.Total-p.Incorrect) / float64(p.Total) * 100
	}
	sort.SliceStable(perf, func(i, j int) bool {
		if perf[i].CourseName != perf[j].CourseName {
			return perf[i].CourseName < perf[j].CourseName
		}
		return perf[i].Category < perf[j].Category
	})
	return perf
}

// weakCategories returns the categories under the threshold, weakest first.
// An empty course matches every course.
func weakCategories(perf []models.CategoryPerformance, course string) []models.CategoryPerformance {
	out := []models.CategoryPerformance{}
	for _, p := range perf {
		if course != "" && p.CourseName != course {
			continue
		}
		if p.Percentage < WeakCategoryThreshold {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Percentage < out[j].Percentage
	})
	return out
}

// PracticeRecommendations returns the five weakest categories under 80%.
func PracticeRecommendations(perf []models.CategoryPerformance) []models.CategoryPerformance {
	weak := weakCategories(perf, "")
	if len(weak) > MaxPracticeItems {
		weak = weak[:MaxPracticeItems]
	}
	return weak
}

// StudyRecommendations covers every exam whose preceding week contains today.
// Study time grows with the share of incorrect answers.
func StudyRecommendations(exams []models.ExamDate, perf []models.CategoryPerformance, today time.Time) []models.StudyRecommendation {
	recs := []models.StudyRecommendation{}
	day := Today(today)
	for _, exam := range exams {
		weekBefore := exam.ExamDate.AddDate(0, 0, -examWeekDays)
		if day.Before(weekBefore) || day.After(exam.ExamDate) {
			continue
		}

		var course []models.CategoryPerformance
		for _, p := range perf {
			if p.CourseName == exam.CourseName {
				course = append(course, p)
			}
		}
		if len(course) == 0 {
			continue
		}
		sort.SliceStable(course, func(i, j int) bool {
			return course[i].Percentage < course[j].Percentage
		})

		rec := models.StudyRecommendation{CourseName: exam.CourseName, ExamDate: exam.ExamDate}
		for _, p := range course {
			rec.Categories = append(rec.Categories, models.CategoryRecommendation{
				Name:               p.Category,
				Performance:        p.Percentage,
				RecommendedMinutes: int(math.Round((100 - p.Percentage) * 1.2)),
			})
		}
		recs = append(recs, rec)
	}
	return recs
}

// WeeklySchedule lays out the week before the closest exam. Without an upcoming
// exam week only today is returned, holding its blocked slots.
func WeeklySchedule(exams []models.ExamDate, perf []models.CategoryPerformance, blocked []models.BlockedSlot, today time.Time) []models.DaySchedule {
	day := Today(today)

	var next *models.ExamDate
	for i := range exams {
		weekEnd := exams[i].ExamDate.AddDate(0, 0, -1)
		if !weekEnd.Before(day) {
			next = &exams[i]
			break
		}
	}

	if next == nil {
		return []models.DaySchedule{{Date: day, Slots: blockedFor(blocked, day)}}
	}

	weak := weakCategories(perf, next.CourseName)
	schedule := make([]models.DaySchedule, 0, examWeekDays)
	for d := next.ExamDate.AddDate(0, 0, -examWeekDays); d.Before(next.ExamDate); d = d.AddDate(0, 0, 1) {
		blocks := blockedFor(blocked, d)
		slots := []models.TimeSlot{}
		if len(weak) > 0 {
			slots = planDay(next.CourseName, weak, blocks)
		}
		schedule = append(schedule, models.DaySchedule{
			Date:  d,
			Slots: append(slots, blocks...),
		})
	}
	return schedule
}

// defaultSlots is a morning of full exam practice plus up to two category drills.
func defaultSlots(course string, weak []models.CategoryPerformance) []models.TimeSlot {
	slots := []models.TimeSlot{{
		StartTime:     "09:00",
		EndTime:       "12:00",
		Subject:       course,
		QuestionCount: (3 * 60) / MinutesPerQuestion,
		Type:          models.SlotGeneral,
	}}
	drills := []slotWindow{{"13:30", "15:00"}, {"15:30", "17:00"}}
	for i, w := range drills {
		if i >= len(weak) {
			break
		}
		slots = append(slots, models.TimeSlot{
			StartTime:     w.start,
			EndTime:       w.end,
			Subject:       course,
			Category:      weak[i].Category,
			QuestionCount: 90 / MinutesPerQuestion,
			Type:          models.SlotSpecific,
		})
	}
	return slots
}

func planDay(course string, weak []models.CategoryPerformance, blocks []models.TimeSlot) []models.TimeSlot {
	planned := []models.TimeSlot{}
	for _, slot := range defaultSlots(course, weak) {
		if !conflictsWithAny(slot, blocks) {
			planned = append(planned, slot)
			continue
		}

		switch slot.Type {
		case models.SlotGeneral:
			if !overlapsAny(blocks, 14, 17) {
				slot.StartTime, slot.EndTime = "14:00", "17:00"
				planned = append(planned, slot)
			}
		case models.SlotSpecific:
			for _, w := range specificFallbacks {
				if !overlapsAny(blocks, hourOf(w.start), hourOf(w.end)) {
					slot.StartTime, slot.EndTime = w.start, w.end
					planned = append(planned, slot)
					break
				}
			}
		}
	}
	return planned
}

// Conflict checks work on whole start hours, so 13:30 counts as 13.
func conflictsWithAny(study models.TimeSlot, blocks []models.TimeSlot) bool {
	ss, se := hourOf(study.StartTime), hourOf(study.EndTime)
	for _, b := range blocks {
		bs, be := hourOf(b.StartTime), hourOf(b.EndTime)
		if (bs <= ss && be > ss) || (bs < se && be >= se) || (bs >= ss && be <= se) {
			return true
		}
	}
	return false
}

func overlapsAny(blocks []models.TimeSlot, start, end int) bool {
	for _, b := range blocks {
		if hourOf(b.StartTime) < end && hourOf(b.EndTime) > start {
			return true
		}
	}
	return false
}

func blockedFor(blocked []models.BlockedSlot, day time.Time) []models.TimeSlot {
	slots := []models.TimeSlot{}
	for _, b := range blocked {
		if !Today(b.Date).Equal(day) {
			continue
		}
		slots = append(slots, models.TimeSlot{
			StartTime:   b.StartTime,
			EndTime:     b.EndTime,
			Type:        models.SlotBlocked,
			BlockReason: b.Reason,
			BlockID:     b.ID,
		})
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].StartTime < slots[j].StartTime
	})
	return slots
}

func hourOf(hhmm string) int {
	h, _ := strconv.Atoi(strings.SplitN(hhmm, ":", 2)[0])
	return h
}

// ReplaceBlockedSlot drops any slot on the same day with identical bounds, so a
// new block with the same times overrides the old one.
func ReplaceBlockedSlot(existing []models.BlockedSlot, next models.BlockedSlot) (keep []models.BlockedSlot, replaced []models.BlockedSlot) {
	for _, b := range existing {
		if Today(b.Date).Equal(Today(next.Date)) && b.StartTime == next.StartTime && b.EndTime == next.EndTime {
			replaced = append(replaced, b)
			continue
		}
		keep = append(keep, b)
	}
	return append(keep, next), replaced
}

// UpcomingStudySessions returns up to five open sessions from now on, soonest first.
func UpcomingStudySessions(sessions []models.StudySession, now time.Time) []models.StudySession {
	out := []models.StudySession{}
	for _, s := range sessions {
		if !s.Completed && !s.Date.Before(now) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	if len(out) > MaxPracticeItems {
		out = out[:MaxPracticeItems]
	}
	return out
}

// SessionsOn returns the sessions that fall on the calendar day of date.
func SessionsOn(sessions []models.StudySession, date time.Time) []models.StudySession {
	out := []models.StudySession{}
	day := Today(date)
	for _, s := range sessions {
		if Today(s.Date).Equal(day) {
			out = append(out, s)
		}
	}
	return out
}
