package repository

import (
	"context"

	"gorm.io/gorm"
)

type groupCount struct {
	GroupKey string
	Total    int64
}

// countGrouped counts rows of model per value of column, restricted to keys.
func countGrouped(ctx context.Context, db *gorm.DB, model interface{}, column string, keys []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(keys))
	if len(keys) == 0 {
		return counts, nil
	}

	var rows []groupCount
	err := db.WithContext(ctx).Model(model).
		Select(column+" AS group_key, COUNT(*) AS total").
		Where(column+" IN ?", keys).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.GroupKey] = row.Total
	}
	return counts, nil
}
