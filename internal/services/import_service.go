package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"github.com/SAP-F-2025/evaluation-service/internal/validator"
	"github.com/xuri/excelize/v2"
)

const MaxImportRows = 1000

var requiredImportColumns = []string{"category", "text"}

type importService struct {
	repo      repositories.Repository
	notifier  EventNotifier
	logger    *slog.Logger
	validator *validator.Validator
}

func NewImportService(repo repositories.Repository, notifier EventNotifier, logger *slog.Logger, validator *validator.Validator) ImportService {
	return &importService{
		repo:      repo,
		notifier:  notifier,
		logger:    logger,
		validator: validator,
	}
}

func (s *importService) ImportQuestionsFromFile(ctx context.Context, reader io.Reader, filename string, actorID string) (*models.ImportResult, error) {
	s.logger.Info("Starting question import", "filename", filename, "actor_id", actorID)

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return s.ImportQuestionsFromCSV(ctx, reader, actorID)
	case ".xlsx":
		return s.ImportQuestionsFromExcel(ctx, reader, actorID)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
}

func (s *importService) ImportQuestionsFromCSV(ctx context.Context, reader io.Reader, actorID string) (*models.ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, NewValidationError("file", fmt.Sprintf("invalid CSV: %v", err), nil)
	}
	return s.importRows(ctx, records, actorID)
}

func (s *importService) ImportQuestionsFromExcel(ctx context.Context, reader io.Reader, actorID string) (*models.ImportResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, NewValidationError("file", "not a readable xlsx workbook", nil)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "Excel file has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	return s.importRows(ctx, rows, actorID)
}

// importRows validates every data row and creates the valid ones in one transaction.
// Rows are numbered as in the file, header = row 1.
func (s *importService) importRows(ctx context.Context, rows [][]string, actorID string) (*models.ImportResult, error) {
	dataRows := countDataRows(rows)
	if dataRows == 0 {
		return nil, NewValidationError("file", "file must have a header row and at least one data row", len(rows))
	}
	if dataRows > MaxImportRows {
		return nil, NewValidationError("file", fmt.Sprintf("at most %d questions can be imported at once", MaxImportRows), dataRows)
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[normalizeHeader(header)] = i
	}
	for _, col := range requiredImportColumns {
		if _, exists := headerMap[col]; !exists {
			return nil, NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)
		}
	}

	result := &models.ImportResult{
		TotalRows: dataRows,
		Errors:    make([]models.ImportValidationError, 0),
	}

	var questions []*models.Question
	for i, record := range rows[1:] {
		if isBlankRow(record) {
			continue
		}
		question, rowErrors := s.parseRow(record, headerMap, i+2)
		result.ProcessedRows++
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorCount++
			continue
		}
		questions = append(questions, question)
	}

	if len(questions) == 0 {
		result.Status = models.ImportValidationFailed
		return result, nil
	}

	err := s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		return tx.Question().CreateBatch(ctx, questions)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save questions: %w", err)
	}

	result.SuccessCount = len(questions)
	result.Questions = questions
	result.Status = models.ImportCompleted
	if result.ErrorCount > 0 {
		result.Status = models.ImportPartial
	}

	s.notifier.QuestionsImported(ctx, len(questions), actorID)
	s.logger.Info("Question import completed",
		"total_rows", result.TotalRows,
		"success_count", result.SuccessCount,
		"error_count", result.ErrorCount)

	return result, nil
}

func (s *importService) parseRow(record []string, headerMap map[string]int, rowNum int) (*models.Question, []models.ImportValidationError) {
	cell := func(column string) string {
		idx, ok := headerMap[column]
		if !ok || idx >= len(record) {
			return ""
		}
		return unescapeCell(strings.TrimSpace(record[idx]))
	}

	var errs []models.ImportValidationError
	question := &models.Question{
		Category:     cell("category"),
		CategoryName: models.StringPtr(cell("category_name")),
		Text:         cell("text"),
		IsActive:     true,
	}

	if raw := cell("order"); raw != "" {
		order, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, models.ImportValidationError{Row: rowNum, Column: "order", Message: "must be a whole number", Value: raw})
		} else {
			question.Order = order
		}
	}

	for _, ve := range s.validator.Question().ValidateQuestion(question) {
		errs = append(errs, models.ImportValidationError{
			Row:     rowNum,
			Column:  ve.Field,
			Message: ve.Message,
			Value:   fmt.Sprint(cellValue(ve.Value)),
		})
	}
	if len(question.Text) > 1000 {
		errs = append(errs, models.ImportValidationError{Row: rowNum, Column: "text", Message: "must be at most 1000 characters"})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return question, nil
}

func normalizeHeader(header string) string {
	header = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")))
	return strings.ReplaceAll(header, " ", "_")
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// countDataRows counts the non-blank rows after the header
func countDataRows(rows [][]string) int {
	if len(rows) < 2 {
		return 0
	}
	n := 0
	for _, row := range rows[1:] {
		if !isBlankRow(row) {
			n++
		}
	}
	return n
}

func cellValue(v interface{}) interface{} {
	if v == nil {
		return ""
	}
	return v
}
