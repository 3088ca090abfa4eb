// Package pricing resolves suggested calf purchase prices from a ranch's
// weight brackets and price periods. Every function here is pure: inputs are
// never mutated and no function fails, malformed data degrades to defaults.
package pricing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mamadbah2/ranchprice/internal/domain/models"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases s, collapses runs of non-alphanumerics into "_" and trims
// leading and trailing underscores.
func Slug(s string) string {
	lowered := strings.ToLower(strings.TrimSpace(s))
	return strings.Trim(nonAlphanumeric.ReplaceAllString(lowered, "_"), "_")
}

// NormalizeBrackets turns raw ranch bracket configuration into columns with
// unique, stable keys.
func NormalizeBrackets(raw []models.RawWeightBracket) []models.WeightBracketColumn {
	columns := make([]models.WeightBracketColumn, 0, len(raw))
	used := make(map[string]struct{}, len(raw))

	for i, bracket := range raw {
		sourceKey := strings.TrimSpace(bracket.Key)
		label := strings.TrimSpace(bracket.Label)

		key := Slug(sourceKey)
		if key == "" {
			key = Slug(label)
		}
		if key == "" {
			key = fmt.Sprintf("wb_%d", i+1)
		}
		for {
			if _, taken := used[key]; !taken {
				break
			}
			key = fmt.Sprintf("%s_%d", key, i+1)
		}
		used[key] = struct{}{}

		if label == "" {
			label = defaultBracketLabel(bracket.Min, bracket.Max, i)
		}

		category := strings.TrimSpace(bracket.CategoryLabel)
		if category == "" {
			category = models.DefaultCategoryLabel
		}

		columns = append(columns, models.WeightBracketColumn{
			Key:           key,
			SourceKey:     sourceKey,
			Label:         label,
			Min:           finite(bracket.Min),
			Max:           finite(bracket.Max),
			Breeds:        uniqueBreeds(bracket.Breeds),
			CategoryLabel: category,
			Position:      i,
		})
	}

	return columns
}

// ToRawBrackets converts normalized columns back into the configuration shape
// stored on the ranch.
func ToRawBrackets(columns []models.WeightBracketColumn) []models.RawWeightBracket {
	raw := make([]models.RawWeightBracket, 0, len(columns))
	for _, col := range columns {
		raw = append(raw, models.RawWeightBracket{
			Key:           col.Key,
			Label:         col.Label,
			Min:           col.Min,
			Max:           col.Max,
			Breeds:        append([]string(nil), col.Breeds...),
			CategoryLabel: col.CategoryLabel,
		})
	}
	return raw
}

func finite(n models.Num) models.Num {
	if !n.Valid {
		return models.Num{}
	}
	return models.NumOf(n.Value)
}

func defaultBracketLabel(lo, hi models.Num, index int) string {
	switch {
	case lo.Valid && hi.Valid:
		return fmt.Sprintf("%s lb - %s lb", lo, hi)
	case lo.Valid:
		return fmt.Sprintf("%s+ lb", lo)
	case hi.Valid:
		return fmt.Sprintf("Up to %s lb", hi)
	default:
		return fmt.Sprintf("Bracket %d", index+1)
	}
}

// uniqueBreeds de-duplicates case-insensitively, keeping the first spelling.
func uniqueBreeds(breeds []string) []string {
	out := make([]string, 0, len(breeds))
	seen := make(map[string]struct{}, len(breeds))
	for _, breed := range breeds {
		trimmed := strings.TrimSpace(breed)
		if trimmed == "" {
			continue
		}
		folded := strings.ToLower(trimmed)
		if _, ok := seen[folded]; ok {
			continue
		}
		seen[folded] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
