// Package xlsx renders credential evaluations as spreadsheet reports.
package xlsx

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Evaluation"
	coursesSheet = "Courses"
)

type Exporter struct {
	logger *slog.Logger
}

func NewExporter(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{logger: logger}
}

// ExportEvaluation writes a summary sheet and, for transcripts, a course sheet.
func (e *Exporter) ExportEvaluation(file *domain.EvaluationFile) ([]byte, error) {
	if file == nil || file.Evaluation == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "export evaluation", fmt.Errorf("no evaluation"))
	}
	eval := file.Evaluation

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][2]any{
		{"File", file.FileName},
		{"Status", string(file.Status)},
		{"Category", string(eval.Category)},
	}
	if rec := eval.Record; rec != nil {
		rows = append(rows,
			[2]any{"Name", deref(rec.Name)},
			[2]any{"Degree", deref(rec.Degree)},
			[2]any{"Field of study", deref(rec.FieldOfStudy)},
			[2]any{"University", deref(rec.University)},
			[2]any{"Graduation date", deref(rec.GraduationDate)},
			[2]any{"Diploma issue date", deref(rec.DiplomaIssueDate)},
			[2]any{"Birth date", deref(rec.BirthDate)},
			[2]any{"Birthplace", deref(rec.Birthplace)},
		)
	}
	if eval.GPA != nil {
		rows = append(rows, [2]any{"GPA (4.0 scale)", *eval.GPA})
	}
	rows = append(rows,
		[2]any{"Degraded extraction", strconv.FormatBool(eval.Degraded)},
		[2]any{"US equivalency", eval.Equivalency},
	)

	for i, r := range rows {
		if err := setRow(f, summarySheet, i+1, r[0], r[1]); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 22)
	_ = f.SetColWidth(summarySheet, "B", "B", 80)

	courses := 0
	if eval.Record != nil && len(eval.Record.Courses) > 0 {
		if _, err := f.NewSheet(coursesSheet); err != nil {
			return nil, fmt.Errorf("create courses sheet: %w", err)
		}
		if err := setRow(f, coursesSheet, 1, "Course", "Grade received", "US grade", "Credits", "Semester/Year"); err != nil {
			return nil, err
		}
		for i, c := range eval.Record.Courses {
			var credits any = ""
			if c.Credits != nil {
				credits = *c.Credits
			}
			if err := setRow(f, coursesSheet, i+2, c.CourseName, c.GradeReceived, deref(c.USGrade), credits, deref(c.SemesterOrYear)); err != nil {
				return nil, err
			}
		}
		_ = f.SetColWidth(coursesSheet, "A", "A", 40)
		_ = f.SetColWidth(coursesSheet, "B", "E", 16)
		courses = len(eval.Record.Courses)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	e.logger.Info("evaluation_exported", "file_id", file.ID, "courses", courses, "bytes", buf.Len())
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
