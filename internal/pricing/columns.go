package pricing

import (
	"math"
	"sort"

	"github.com/mamadbah2/ranchprice/internal/domain/models"
)

// MatchWeightColumns returns the columns whose inclusive range contains
// weight, ordered by preference: breed-specific columns first, then the
// narrowest span, then original position. Columns restricted to other breeds
// are left out. A null weight matches nothing.
func MatchWeightColumns(columns []models.WeightBracketColumn, breed string, weight models.Num) []models.WeightBracketColumn {
	if !weight.Valid {
		return nil
	}

	type candidate struct {
		column   models.WeightBracketColumn
		specific bool
		span     float64
		order    int
	}

	var matches []candidate
	for i, col := range columns {
		if col.Min.Valid && weight.Value < col.Min.Value {
			continue
		}
		if col.Max.Valid && weight.Value > col.Max.Value {
			continue
		}

		specific := false
		if len(col.Breeds) > 0 {
			for _, b := range col.Breeds {
				if sameBreed(b, breed) {
					specific = true
					break
				}
			}
			if !specific {
				continue
			}
		}

		span := math.Inf(1)
		if col.Min.Valid && col.Max.Valid {
			span = col.Max.Value - col.Min.Value
		}
		matches = append(matches, candidate{column: col, specific: specific, span: span, order: i})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.specific != b.specific {
			return a.specific
		}
		if a.span != b.span {
			return a.span < b.span
		}
		return a.order < b.order
	})

	out := make([]models.WeightBracketColumn, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.column)
	}
	return out
}
