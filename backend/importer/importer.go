package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"studyhub/backend/models"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Config maps spreadsheet columns (letters) to question fields.
type Config struct {
	CourseColumn    string
	CategoryColumn  string
	QuestionColumn  string
	AnswerColumn    string
	YearColumn      string
	ProfessorColumn string
	SheetName       string // first sheet when empty
	StartRow        int    // 1-based
}

func DefaultConfig() Config {
	return Config{
		CourseColumn:    "A",
		CategoryColumn:  "B",
		QuestionColumn:  "C",
		AnswerColumn:    "D",
		YearColumn:      "E",
		ProfessorColumn: "F",
		StartRow:        2,
	}
}

// ErrInvalidFile marks uploads that cannot be read as a question bank.
var ErrInvalidFile = errors.New("invalid question file")

type Result struct {
	TotalProcessed    int      `json:"total_processed"`
	CoursesCreated    int      `json:"courses_created"`
	CategoriesCreated int      `json:"categories_created"`
	Created           int      `json:"created"`
	Updated           int      `json:"updated"`
	Skipped           int      `json:"skipped"`
	Errors            []string `json:"errors"`
}

type Importer struct {
	db  *gorm.DB
	cfg Config
}

func New(db *gorm.DB, cfg Config) *Importer {
	return &Importer{db: db, cfg: cfg}
}

// Import reads an .xlsx or .csv question bank, picked by the file extension.
func (im *Importer) Import(r io.Reader, filename string) (*Result, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err = readCSV(r)
	case ".xlsx", ".xlsm":
		rows, err = im.readExcel(r)
	default:
		return nil, errors.Wrapf(ErrInvalidFile, "unsupported file type %q", filepath.Ext(filename))
	}
	if err != nil {
		return nil, err
	}
	return im.importRows(rows)
}

func (im *Importer) readExcel(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidFile, "opening workbook: %v", err)
	}
	defer f.Close()

	sheet := im.cfg.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.Wrap(ErrInvalidFile, "workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidFile, "reading sheet %q: %v", sheet, err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidFile, "reading csv: %v", err)
	}
	return rows, nil
}

type columns struct {
	course, category, question, answer, year, professor int
}

func (im *Importer) columns() (columns, error) {
	var c columns
	for _, m := range []struct {
		letter string
		dst    *int
	}{
		{im.cfg.CourseColumn, &c.course},
		{im.cfg.CategoryColumn, &c.category},
		{im.cfg.QuestionColumn, &c.question},
		{im.cfg.AnswerColumn, &c.answer},
		{im.cfg.YearColumn, &c.year},
		{im.cfg.ProfessorColumn, &c.professor},
	} {
		n, err := excelize.ColumnNameToNumber(m.letter)
		if err != nil {
			return c, errors.Wrapf(err, "column %q", m.letter)
		}
		*m.dst = n - 1
	}
	return c, nil
}

func (im *Importer) importRows(rows [][]string) (*Result, error) {
	cols, err := im.columns()
	if err != nil {
		return nil, err
	}
	result := &Result{Errors: []string{}}

	err = im.db.Transaction(func(tx *gorm.DB) error {
		courses := make(map[string]bool)
		categories := make(map[string]uint)

		for i, row := range rows {
			rowNum := i + 1
			if rowNum < im.cfg.StartRow || isBlank(row) {
				continue
			}
			result.TotalProcessed++

			course := cell(row, cols.course)
			category := cell(row, cols.category)
			text := cell(row, cols.question)
			if course == "" || category == "" || text == "" {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: course, category and question are required", rowNum))
				continue
			}
			year, err := parseYear(cell(row, cols.year))
			if err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
				continue
			}

			if !courses[course] {
				created, err := ensureCourse(tx, course)
				if err != nil {
					return err
				}
				if created {
					result.CoursesCreated++
				}
				courses[course] = true
			}

			key := course + "\x00" + category
			categoryID, ok := categories[key]
			if !ok {
				var created bool
				categoryID, created, err = ensureCategory(tx, course, category)
				if err != nil {
					return err
				}
				if created {
					result.CategoriesCreated++
				}
				categories[key] = categoryID
			}

			q := models.Question{
				Text:       text,
				Answer:     cell(row, cols.answer),
				CategoryID: categoryID,
				Year:       year,
				Professor:  cell(row, cols.professor),
			}
			created, err := upsertQuestion(tx, &q)
			if err != nil {
				return err
			}
			if created {
				result.Created++
			} else {
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "importing questions")
	}
	return result, nil
}

func ensureCourse(tx *gorm.DB, name string) (bool, error) {
	var count int64
	if err := tx.Model(&models.Course{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "loading course %q", name)
	}
	if count > 0 {
		return false, nil
	}
	return true, errors.Wrapf(tx.Create(&models.Course{Name: name}).Error, "creating course %q", name)
}

func ensureCategory(tx *gorm.DB, course, name string) (uint, bool, error) {
	var c models.Category
	err := tx.Where("course_name = ? AND name = ?", course, name).First(&c).Error
	if err == nil {
		return c.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, errors.Wrapf(err, "loading category %q", name)
	}
	c = models.Category{Name: name, CourseName: course}
	if err := tx.Create(&c).Error; err != nil {
		return 0, false, errors.Wrapf(err, "creating category %q", name)
	}
	return c.ID, true, nil
}

// upsertQuestion matches on category and question text.
func upsertQuestion(tx *gorm.DB, q *models.Question) (bool, error) {
	var existing models.Question
	err := tx.Where("category_id = ? AND question = ?", q.CategoryID, q.Text).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, errors.Wrap(tx.Create(q).Error, "creating question")
	}
	if err != nil {
		return false, errors.Wrap(err, "loading question")
	}
	err = tx.Model(&existing).Updates(map[string]interface{}{
		"answer":    q.Answer,
		"year":      q.Year,
		"professor": q.Professor,
	}).Error
	return false, errors.Wrap(err, "updating question")
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseYear(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < 1900 || year > 2100 {
		return 0, errors.Errorf("invalid year %q", s)
	}
	return year, nil
}
