package pricing

import (
	"strings"

	"github.com/mamadbah2/ranchprice/internal/domain/models"
)

// NormalizeSex maps a free-text sex token onto its canonical value.
// "Free Martin", "free-martin" and "freemartin" all become freeMartin.
func NormalizeSex(token string) (models.Sex, bool) {
	folded := strings.ToLower(strings.TrimSpace(token))
	folded = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(folded)

	switch folded {
	case "bull":
		return models.SexBull, true
	case "heifer":
		return models.SexHeifer, true
	case "steer":
		return models.SexSteer, true
	case "freemartin":
		return models.SexFreeMartin, true
	default:
		return "", false
	}
}

// RowSexes returns the canonical sexes a row applies to. A row with no sex
// tokens at all defaults to bull. A row whose tokens are all unrecognized
// matches every sex, reported as matchAll.
func RowSexes(row models.PriceRow) (sexes map[models.Sex]struct{}, matchAll bool) {
	sexes = make(map[models.Sex]struct{}, len(row.Sex))
	present := false
	for _, token := range row.Sex {
		if strings.TrimSpace(token) == "" {
			continue
		}
		present = true
		if sex, ok := NormalizeSex(token); ok {
			sexes[sex] = struct{}{}
		}
	}

	if !present {
		sexes[models.SexBull] = struct{}{}
		return sexes, false
	}
	return sexes, len(sexes) == 0
}

func sameBreed(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// FindCandidateRows selects the rows that price a calf of the given breed and
// sex. Breed-named rows win over wildcard rows (empty breed). Sex narrows the
// chosen set only when at least one row matches it.
func FindCandidateRows(rows []models.PriceRow, breed, sex string) []models.PriceRow {
	var byBreed, wildcard []models.PriceRow
	calfBreed := strings.TrimSpace(breed)

	for _, row := range rows {
		rowBreed := strings.TrimSpace(row.Breed)
		switch {
		case rowBreed == "":
			wildcard = append(wildcard, row)
		case calfBreed != "" && sameBreed(rowBreed, calfBreed):
			byBreed = append(byBreed, row)
		}
	}

	chosen := byBreed
	if len(chosen) == 0 {
		chosen = wildcard
	}
	if len(chosen) == 0 {
		return nil
	}

	calfSex, known := NormalizeSex(sex)
	filtered := make([]models.PriceRow, 0, len(chosen))
	for _, row := range chosen {
		sexes, matchAll := RowSexes(row)
		if matchAll {
			filtered = append(filtered, row)
			continue
		}
		if _, ok := sexes[calfSex]; known && ok {
			filtered = append(filtered, row)
		}
	}

	if len(filtered) == 0 {
		return chosen
	}
	return filtered
}
