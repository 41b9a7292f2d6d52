package importer

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"studyhub/backend/config"
	"studyhub/backend/models"
	"studyhub/backend/utils"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := utils.InitDB(&config.Config{
		DBDriver:   "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "import.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportExcel(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Create(&models.Course{Name: "Anatomy"}).Error)

	buf := workbook(t, [][]interface{}{
		{"Course", "Category", "Question", "Answer", "Year", "Professor"},
		{"Anatomy", "Bones", "Longest bone?", "Femur", 2022, "Gray"},
		{"Anatomy", "Bones", "Smallest bone?", "Stapes", "", ""},
		{"Biochemistry", "Enzymes", "Km?", "Substrate affinity", 2021, "Lehninger"},
		{"Biochemistry", "Enzymes", "", "no question", 2021, ""},
	})

	result, err := New(db, DefaultConfig()).Import(buf, "bank.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalProcessed)
	assert.Equal(t, 1, result.CoursesCreated)
	assert.Equal(t, 2, result.CategoriesCreated)
	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Row 5")

	var q models.Question
	require.NoError(t, db.Where("question = ?", "Longest bone?").First(&q).Error)
	assert.Equal(t, "Femur", q.Answer)
	assert.Equal(t, 2022, q.Year)
	assert.Equal(t, "Gray", q.Professor)

	var courses int64
	db.Model(&models.Course{}).Count(&courses)
	assert.EqualValues(t, 2, courses)
}

func TestImportCSVUpdatesExisting(t *testing.T) {
	db := setupDB(t)
	im := New(db, DefaultConfig())

	first := "course,category,question,answer,year,professor\n" +
		"Anatomy,Bones,Longest bone?,Tibia,2022,Gray\n"
	_, err := im.Import(strings.NewReader(first), "bank.CSV")
	require.NoError(t, err)

	second := "course,category,question,answer,year,professor\n" +
		"Anatomy,Bones,Longest bone?,Femur,2023,Netter\n" +
		"Anatomy,Bones,Hardest bone?,Petrous temporal,abc,\n"
	result, err := im.Import(strings.NewReader(second), "bank.csv")
	require.NoError(t, err)
	assert.Equal(t, 0, result.CoursesCreated)
	assert.Equal(t, 0, result.CategoriesCreated)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Skipped)
	assert.Contains(t, result.Errors[0], `invalid year "abc"`)

	var questions []models.Question
	require.NoError(t, db.Find(&questions).Error)
	require.Len(t, questions, 1)
	assert.Equal(t, "Femur", questions[0].Answer)
	assert.Equal(t, 2023, questions[0].Year)
}

func TestImportCustomColumns(t *testing.T) {
	db := setupDB(t)
	cfg := Config{
		CourseColumn:    "B",
		CategoryColumn:  "C",
		QuestionColumn:  "A",
		AnswerColumn:    "D",
		YearColumn:      "E",
		ProfessorColumn: "F",
		StartRow:        1,
	}

	result, err := New(db, cfg).Import(strings.NewReader("What is ATP?,Biochemistry,Energy,Currency,,\n"), "bank.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	var category models.Category
	require.NoError(t, db.First(&category).Error)
	assert.Equal(t, "Biochemistry", category.CourseName)
	assert.Equal(t, "Energy", category.Name)
}

func TestImportRejectsInvalidFiles(t *testing.T) {
	db := setupDB(t)
	im := New(db, DefaultConfig())

	_, err := im.Import(strings.NewReader("x"), "bank.pdf")
	assert.True(t, errors.Is(err, ErrInvalidFile))

	_, err = im.Import(strings.NewReader("not a zip"), "bank.xlsx")
	assert.True(t, errors.Is(err, ErrInvalidFile))
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"2024", 2024, false},
		{"1899", 0, true},
		{"2101", 0, true},
		{"20x4", 0, true},
	}
	for _, tt := range tests {
		got, err := parseYear(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
