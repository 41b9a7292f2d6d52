package services

import (
	"math"

	"studyhub/backend/models"
)

// Percent is part/total*100 rounded, 0 when total is 0.
func Percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// BuildCourseProgress aggregates per-category totals for one course. Categories
// without questions are reported with zero totals.
func BuildCourseProgress(course string, categories []string, questions []models.QuestionItem) models.CourseProgress {
	byCategory := make(map[string]*models.CategoryProgress, len(categories))
	cp := models.CourseProgress{
		CourseName: course,
		Color:      CourseColor(course),
		Categories: make([]models.CategoryProgress, 0, len(categories)),
	}
	order := uniqueStrings(categories)
	for _, name := range order {
		byCategory[name] = &models.CategoryProgress{Name: name}
	}

	for _, q := range questions {
		if q.Course != course {
			continue
		}
		c, ok := byCategory[q.Category]
		if !ok {
			c = &models.CategoryProgress{Name: q.Category}
			byCategory[q.Category] = c
			order = append(order, q.Category)
		}
		c.Total++
		if models.StatusOf(q.Done) == models.StatusCorrect {
			c.Completed++
		}
	}

	for _, name := range order {
		c := byCategory[name]
		c.Progress = Percent(c.Completed, c.Total)
		cp.Total += c.Total
		cp.Completed += c.Completed
		cp.Categories = append(cp.Categories, *c)
	}
	cp.Progress = Percent(cp.Completed, cp.Total)
	return cp
}
