package models

type ImportStatus string

const (
	ImportCompleted        ImportStatus = "completed"
	ImportPartial          ImportStatus = "partial"
	ImportValidationFailed ImportStatus = "validation_failed"
)

type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportCSV  ExportFormat = "csv"
)

type ImportValidationError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Value   string `json:"value"`
}

// ImportResult summarizes a question catalog import.
type ImportResult struct {
	TotalRows     int                     `json:"total_rows"`
	ProcessedRows int                     `json:"processed_rows"`
	SuccessCount  int                     `json:"success_count"`
	ErrorCount    int                     `json:"error_count"`
	Errors        []ImportValidationError `json:"errors"`
	Questions     []*Question             `json:"questions,omitempty"`
	Status        ImportStatus            `json:"status"`
}
