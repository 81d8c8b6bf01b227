package repository

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// nextSequence mints the next document number for a prefixed counter column
// ("DEM-2025-", "INT-20250106-", ...). It must be called inside the same
// transaction as the insert; the SELECT takes a row lock so two concurrent
// inserts cannot mint the same number.
func nextSequence(tx *gorm.DB, table, column, prefix string, width int) (string, error) {
	var last string
	err := tx.Table(table).
		Select(column).
		Where(column+" LIKE ?", prefix+"%").
		Order(column + " DESC").
		Limit(1).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scan(&last).Error
	if err != nil {
		return "", err
	}

	next := 1
	if last != "" {
		suffix := strings.TrimPrefix(last, prefix)
		if n, err := strconv.Atoi(suffix); err == nil {
			next = n + 1
		}
	}

	return fmt.Sprintf("%s%0*d", prefix, width, next), nil
}
