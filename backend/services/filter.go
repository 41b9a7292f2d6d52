package services

import (
	"slices"
	"sort"
	"strings"

	"studyhub/backend/models"
)

// QuestionFilter is the predicate chain of the course question browser.
// Empty selections match everything. A Status narrows to one tri-state value
// and takes precedence over ShowAnswered.
type QuestionFilter struct {
	Search       string
	Categories   []string
	Professors   []string
	Years        []int
	Status       models.QuestionStatus
	ShowAnswered bool
}

// statusNames maps the browser's status query values to stored states.
var statusNames = map[string]models.QuestionStatus{
	"done":        models.StatusCorrect,
	"incorrect":   models.StatusIncorrect,
	"unattempted": models.StatusUnanswered,
}

// ParseStatus reads a status query value; empty means any status.
func ParseStatus(s string) (models.QuestionStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	status, ok := statusNames[s]
	if !ok {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func (f QuestionFilter) Match(q models.QuestionItem) bool {
	if f.Status != "" {
		if models.StatusOf(q.Done) != f.Status {
			return false
		}
	} else if !f.ShowAnswered && q.Done != nil && *q.Done {
		return false
	}
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		if !strings.Contains(strings.ToLower(q.Question), search) &&
			!strings.Contains(strings.ToLower(q.Answer), search) {
			return false
		}
	}
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, q.Category) {
		return false
	}
	if len(f.Professors) > 0 && !slices.Contains(f.Professors, q.Professor) {
		return false
	}
	if len(f.Years) > 0 && !slices.Contains(f.Years, q.Year) {
		return false
	}
	return true
}

// Apply returns the matching questions in their original order.
func (f QuestionFilter) Apply(questions []models.QuestionItem) []models.QuestionItem {
	out := make([]models.QuestionItem, 0, len(questions))
	for _, q := range questions {
		if f.Match(q) {
			out = append(out, q)
		}
	}
	return out
}

type FilterOptions struct {
	Categories []string `json:"categories"`
	Professors []string `json:"professors"`
	Years      []int    `json:"years"`
}

// Options collects the distinct filter values: categories as given, professors
// sorted, years newest first.
func Options(categories []string, questions []models.QuestionItem) FilterOptions {
	opts := FilterOptions{
		Categories: uniqueStrings(categories),
		Professors: []string{},
		Years:      []int{},
	}

	seenProf := make(map[string]bool)
	seenYear := make(map[int]bool)
	for _, q := range questions {
		if p := strings.TrimSpace(q.Professor); p != "" && !seenProf[p] {
			seenProf[p] = true
			opts.Professors = append(opts.Professors, p)
		}
		if q.Year != 0 && !seenYear[q.Year] {
			seenYear[q.Year] = true
			opts.Years = append(opts.Years, q.Year)
		}
	}
	sort.Strings(opts.Professors)
	sort.Sort(sort.Reverse(sort.IntSlice(opts.Years)))
	return opts
}

func uniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
