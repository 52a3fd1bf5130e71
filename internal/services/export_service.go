package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/evaluation-service/internal/aggregator"
	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet   = "Summary"
	CommentsSheet  = "Comments"
	QuestionsSheet = "Questions"

	formulaPrefixes = "=+-@\t\r"
)

type exportService struct {
	repo    repositories.Repository
	reports ReportService
	config  ReportConfig
	logger  *slog.Logger
}

func NewExportService(repo repositories.Repository, reports ReportService, config ReportConfig, logger *slog.Logger) ExportService {
	return &exportService{
		repo:    repo,
		reports: reports,
		config:  config,
		logger:  logger,
	}
}

// ExportOverview writes the overview report as an xlsx workbook or a CSV file
func (s *exportService) ExportOverview(ctx context.Context, format models.ExportFormat, sortKey string, w io.Writer) error {
	if format == "" {
		format = models.ExportXLSX
	}
	if format != models.ExportXLSX && format != models.ExportCSV {
		return NewValidationError("format", "must be one of: xlsx, csv", string(format))
	}

	report, err := s.reports.GetOverview(ctx, sortKey)
	if err != nil {
		return err
	}

	s.logger.Info("Exporting overview report", "format", format, "teachers", len(report.Teachers))

	if format == models.ExportCSV {
		return writeSummaryCSV(w, report)
	}

	evaluations, err := s.repo.Evaluation().ListForReport(ctx, s.config.MaxSubmissions)
	if err != nil {
		return fmt.Errorf("failed to load comments: %w", err)
	}
	return s.writeOverviewWorkbook(w, report, evaluations)
}

// ExportTeacher writes one teacher's question matrix and comments as an xlsx workbook
func (s *exportService) ExportTeacher(ctx context.Context, teacherID string, w io.Writer) error {
	report, err := s.reports.GetTeacherReport(ctx, teacherID)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	summary := [][]interface{}{
		{"Teacher", report.Teacher.TeacherName},
		{"Department", report.Department},
		{"Respondents", report.Teacher.TotalRespondents},
		{"Accumulated Score", report.Teacher.AccumulatedScore},
		{"Highest Possible Score", report.Teacher.HighestPossibleScore},
		{"Overall Rating (%)", report.Teacher.OverallRating},
	}
	for _, category := range report.Categories {
		summary = append(summary, []interface{}{category.Name + " (%)", report.Teacher.CategoryBreakdown[category.Code]})
	}
	if err := writeRows(f, SummarySheet, summary); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", fmt.Sprintf("A%d", len(summary)), header); err != nil {
		return fmt.Errorf("failed to style sheet: %w", err)
	}

	if _, err := f.NewSheet(QuestionsSheet); err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	questionRows := [][]interface{}{{"Question", "Category", "Responses", "Average Rating", "Percentage (%)"}}
	names := categoryNames(report.Categories)
	for _, q := range report.Questions {
		questionRows = append(questionRows, []interface{}{
			q.Text, names[q.Category], q.AnsweredCount, q.AverageRating, q.Percentage,
		})
	}
	if err := writeTable(f, QuestionsSheet, questionRows, header); err != nil {
		return err
	}

	if _, err := f.NewSheet(CommentsSheet); err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	commentRows := [][]interface{}{{"Submitted At", "Positive Comment", "Improvement Comment"}}
	for _, c := range report.Comments {
		commentRows = append(commentRows, []interface{}{
			c.SubmittedAt.Format("2006-01-02 15:04"), models.StringValue(c.Positive), models.StringValue(c.Improvement),
		})
	}
	if err := writeTable(f, CommentsSheet, commentRows, header); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

// ExportQuestions writes the active questions with the importer's column names
func (s *exportService) ExportQuestions(ctx context.Context, format models.ExportFormat, w io.Writer) error {
	if format == "" {
		format = models.ExportXLSX
	}
	if format != models.ExportXLSX && format != models.ExportCSV {
		return NewValidationError("format", "must be one of: xlsx, csv", string(format))
	}

	questions, err := s.repo.Question().ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load questions: %w", err)
	}

	rows := [][]string{{"category", "category_name", "text", "order"}}
	for _, q := range questions {
		rows = append(rows, escapeRow([]string{q.Category, models.StringValue(q.CategoryName), q.Text, strconv.Itoa(q.Order)}))
	}

	s.logger.Info("Exporting question catalog", "format", format, "questions", len(questions))

	if format == models.ExportCSV {
		writer := csv.NewWriter(w)
		if err := writer.WriteAll(rows); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		return nil
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := headerStyle(f)
	if err != nil {
		return err
	}
	if err := f.SetSheetName("Sheet1", QuestionsSheet); err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	table := make([][]interface{}, len(rows))
	for i, row := range rows {
		table[i] = toInterfaces(row)
	}
	if err := writeTable(f, QuestionsSheet, table, header); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func (s *exportService) writeOverviewWorkbook(w io.Writer, report *OverviewReport, evaluations []*models.Evaluation) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	rows := [][]interface{}{toInterfaces(summaryHeader(report.Categories))}
	for _, t := range report.Teachers {
		row := []interface{}{t.TeacherName, t.TotalRespondents, t.AccumulatedScore, t.HighestPossibleScore, t.OverallRating}
		for _, category := range report.Categories {
			row = append(row, t.CategoryBreakdown[category.Code])
		}
		rows = append(rows, row)
	}
	if err := writeTable(f, SummarySheet, rows, header); err != nil {
		return err
	}

	if _, err := f.NewSheet(CommentsSheet); err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	commentRows := [][]interface{}{{"Teacher", "Positive Comment", "Improvement Comment"}}
	for _, e := range evaluations {
		if e.PositiveComment == nil && e.ImprovementComment == nil {
			continue
		}
		commentRows = append(commentRows, []interface{}{
			e.TeacherName, models.StringValue(e.PositiveComment), models.StringValue(e.ImprovementComment),
		})
	}
	if err := writeTable(f, CommentsSheet, commentRows, header); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func writeSummaryCSV(w io.Writer, report *OverviewReport) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(escapeRow(summaryHeader(report.Categories))); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, t := range report.Teachers {
		row := []string{
			t.TeacherName,
			strconv.Itoa(t.TotalRespondents),
			strconv.FormatFloat(t.AccumulatedScore, 'f', -1, 64),
			strconv.Itoa(t.HighestPossibleScore),
			t.OverallRating,
		}
		for _, category := range report.Categories {
			row = append(row, strconv.FormatFloat(t.CategoryBreakdown[category.Code], 'f', 2, 64))
		}
		if err := writer.Write(escapeRow(row)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}
	return nil
}

func summaryHeader(categories []aggregator.Category) []string {
	headers := []string{"Teacher", "Respondents", "Accumulated Score", "Highest Possible Score", "Overall Rating (%)"}
	for _, category := range categories {
		headers = append(headers, category.Name)
	}
	return headers
}

func categoryNames(categories []aggregator.Category) map[string]string {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.Code] = c.Name
	}
	return names
}

func headerStyle(f *excelize.File) (int, error) {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return 0, fmt.Errorf("failed to create header style: %w", err)
	}
	return style, nil
}

// writeTable writes rows starting at A1 and bolds the first row
func writeTable(f *excelize.File, sheet string, rows [][]interface{}, header int) error {
	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
		return fmt.Errorf("failed to style sheet %s: %w", sheet, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		for j, v := range row {
			if text, ok := v.(string); ok {
				row[j] = escapeCell(text)
			}
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// escapeCell quotes text a spreadsheet would otherwise evaluate as a formula
func escapeCell(v string) string {
	if v == "" || !strings.ContainsRune(formulaPrefixes, rune(v[0])) {
		return v
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return v
	}
	return "'" + v
}

// unescapeCell reverses escapeCell for values read back from an exported file
func unescapeCell(v string) string {
	if len(v) > 1 && v[0] == '\'' && strings.ContainsRune(formulaPrefixes, rune(v[1])) {
		return v[1:]
	}
	return v
}

func escapeRow(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = escapeCell(v)
	}
	return out
}
