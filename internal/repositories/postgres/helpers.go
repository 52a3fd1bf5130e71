package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"gorm.io/gorm"
)

const (
	defaultLimit = 20
	maxLimit     = 200
)

// SharedHelpers holds the query helpers used by every repository
type SharedHelpers struct{}

func NewSharedHelpers() *SharedHelpers {
	return &SharedHelpers{}
}

// ApplyPaginationAndSort orders by a whitelisted column and applies limit/offset.
// Unknown sort keys fall back to defaultSort so user input never reaches ORDER BY.
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, allowed map[string]string, defaultSort string, limit, offset int) *gorm.DB {
	column, ok := allowed[sortBy]
	if !ok {
		column = allowed[defaultSort]
	}

	direction := "ASC"
	if strings.EqualFold(sortOrder, "desc") {
		direction = "DESC"
	}
	query = query.Order(fmt.Sprintf("%s %s", column, direction))

	return query.Limit(clampLimit(limit)).Offset(max(offset, 0))
}

// ContainsPattern builds a lower-cased LIKE pattern for substring search
func (h *SharedHelpers) ContainsPattern(search string) string {
	search = strings.ToLower(strings.TrimSpace(search))
	search = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(search)
	return "%" + search + "%"
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// translateError maps gorm/driver errors onto repository sentinels
func translateError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", msg, repositories.ErrNotFound)
	case isDuplicateError(err):
		return fmt.Errorf("%s: %w", msg, repositories.ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}

func isDuplicateError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	text := err.Error()
	return strings.Contains(text, "duplicate key") ||
		strings.Contains(text, "UNIQUE constraint failed") ||
		strings.Contains(text, "SQLSTATE 23505")
}
