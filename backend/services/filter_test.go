package services

import (
	"testing"

	"studyhub/backend/models"

	"github.com/stretchr/testify/assert"
)

func ids(items []models.QuestionItem) []uint {
	out := make([]uint, len(items))
	for i, q := range items {
		out[i] = q.ID
	}
	return out
}

func TestQuestionFilter(t *testing.T) {
	yes, no := true, false
	questions := []models.QuestionItem{
		{ID: 1, Question: "Heart sounds", Answer: "S1 S2", Category: "Cardio", Year: 2022, Professor: "Smith"},
		{ID: 2, Question: "Kidney function", Answer: "Filtration", Category: "Renal", Year: 2023, Professor: "Jones", Done: &yes},
		{ID: 3, Question: "Murmurs", Answer: "Turbulent HEART flow", Category: "Cardio", Year: 2023, Professor: "Jones", Done: &no},
		{ID: 4, Question: "Acid base", Answer: "", Category: "Renal", Year: 0, Professor: ""},
	}

	tests := []struct {
		name   string
		filter QuestionFilter
		want   []uint
	}{
		{"default hides correct", QuestionFilter{}, []uint{1, 3, 4}},
		{"show answered", QuestionFilter{ShowAnswered: true}, []uint{1, 2, 3, 4}},
		{"search question and answer", QuestionFilter{Search: "heart"}, []uint{1, 3}},
		{"category", QuestionFilter{Categories: []string{"Renal"}, ShowAnswered: true}, []uint{2, 4}},
		{"professor and year", QuestionFilter{Professors: []string{"Jones"}, Years: []int{2023}, ShowAnswered: true}, []uint{2, 3}},
		{"no match", QuestionFilter{Search: "liver"}, []uint{}},
		{"status done", QuestionFilter{Status: models.StatusCorrect}, []uint{2}},
		{"status incorrect", QuestionFilter{Status: models.StatusIncorrect}, []uint{3}},
		{"status unattempted", QuestionFilter{Status: models.StatusUnanswered}, []uint{1, 4}},
		{"status with category", QuestionFilter{Status: models.StatusUnanswered, Categories: []string{"Renal"}}, []uint{4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(questions)))
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    models.QuestionStatus
		wantErr bool
	}{
		{"", "", false},
		{"done", models.StatusCorrect, false},
		{"Incorrect", models.StatusIncorrect, false},
		{" unattempted ", models.StatusUnanswered, false},
		{"partial", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidStatus, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestOptions(t *testing.T) {
	questions := []models.QuestionItem{
		{Professor: "Smith", Year: 2021},
		{Professor: "Adams", Year: 2023},
		{Professor: " ", Year: 0},
		{Professor: "Smith", Year: 2022},
	}
	opts := Options([]string{"B", "A", "B"}, questions)
	assert.Equal(t, []string{"B", "A"}, opts.Categories)
	assert.Equal(t, []string{"Adams", "Smith"}, opts.Professors)
	assert.Equal(t, []int{2023, 2022, 2021}, opts.Years)

	empty := Options(nil, nil)
	assert.NotNil(t, empty.Professors)
	assert.NotNil(t, empty.Years)
}
