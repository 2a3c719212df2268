package export

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/s/onlineLearning/internal/learning"
)

const resultsSheet = "Результаты"

var resultsHeader = []string{
	"ID студента", "Студент", "Email", "ID курса", "Курс", "Категория",
	"Преподаватель", "Длительность", "Прогресс, %", "Дата записи", "Последнее обновление",
}

// StudentsResultsXLSX собирает отчёт о прохождении курсов в xlsx
func StudentsResultsXLSX(rows []learning.StudentResult) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, err
	}
	for i, h := range resultsHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(resultsSheet, cell, h)
	}

	for i, r := range rows {
		rn := i + 2
		values := []any{
			r.StudentID, r.StudentName, r.StudentEmail, r.CourseID, r.CourseTitle, r.CourseCategory,
			r.Instructor, r.Duration, r.Progress,
			r.EnrollmentDate.Format("02.01.2006 15:04"), r.LastUpdate.Format("02.01.2006 15:04"),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, rn)
			_ = f.SetCellValue(resultsSheet, cell, v)
		}
	}

	if err := applyFormatting(f, resultsSheet, len(resultsHeader), rows); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// applyFormatting: жирная шапка, автофильтр и примерная ширина колонок
func applyFormatting(f *excelize.File, sheet string, cols int, rows []learning.StudentResult) error {
	last, _ := excelize.ColumnNumberToName(cols)
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheet, "A1", last+"1", style)
	}
	if err := f.AutoFilter(sheet, fmt.Sprintf("A1:%s1", last), nil); err != nil {
		return err
	}

	widths := make([]int, cols)
	for i, h := range resultsHeader {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, r := range rows {
		for i, s := range []string{r.StudentName, r.StudentEmail, r.CourseTitle, r.CourseCategory, r.Instructor} {
			// колонки B, C, E, F, G
			idx := []int{1, 2, 4, 5, 6}[i]
			if n := utf8.RuneCountInString(s); n > widths[idx] {
				widths[idx] = n
			}
		}
	}
	for i, w := range widths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		width := float64(w) + 2
		if width < 10 {
			width = 10
		}
		if width > 60 {
			width = 60
		}
		_ = f.SetColWidth(sheet, name, name, width)
	}
	return nil
}
