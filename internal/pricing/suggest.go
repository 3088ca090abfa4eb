package pricing

import (
	"sort"

	"github.com/mamadbah2/ranchprice/internal/domain/models"
)

// Reasons reported alongside a suggestion.
const (
	ReasonAlreadySet       = "Already Has Purchase Price"
	ReasonNoActivePeriod   = "No Active Price Period"
	ReasonNoWeightRows     = "Current Period Has No Weight Rows"
	ReasonNoWeightRowMatch = "No Breed/Sex Match In Weight Rows"
	ReasonNoBracketMatch   = "No Weight Bracket Match"
	ReasonNoBracketPrice   = "No Price For Matched Bracket"
	ReasonMatchedWeightRow = "Matched Weight Row"
	ReasonNoSingleRows     = "Current Period Has No Single Rows"
	ReasonNoSingleRowMatch = "No Breed/Sex Match In Single Rows"
	ReasonNoSinglePrice    = "No Single Price Set"
	ReasonMatchedSingleRow = "Matched Single Row"
)

// Suggest computes the purchase price suggestion for one calf under the
// active period. columns must come from NormalizeBrackets for the same ranch.
func Suggest(calf models.Calf, active *models.PricePeriod, columns []models.WeightBracketColumn) models.Suggestion {
	if calf.PurchasePrice.Valid {
		s := models.Suggestion{
			Status:         models.StatusAlreadySet,
			SuggestedPrice: calf.PurchasePrice,
			Reason:         ReasonAlreadySet,
			BracketLabel:   models.NoBracketLabel,
		}
		if active != nil {
			s.LayoutMode = NormalizeLayout(active.LayoutMode)
		}
		return s
	}

	if active == nil {
		return missing("", ReasonNoActivePeriod, models.NoBracketLabel)
	}

	if NormalizeLayout(active.LayoutMode) == models.LayoutSingle {
		return suggestSingle(calf, active.SheetData.SingleRows)
	}
	return suggestWeight(calf, active.SheetData.WeightRows, columns)
}

func suggestWeight(calf models.Calf, rows []models.PriceRow, columns []models.WeightBracketColumn) models.Suggestion {
	if len(rows) == 0 {
		return missing(models.LayoutWeight, ReasonNoWeightRows, models.NoBracketLabel)
	}

	candidates := FindCandidateRows(rows, calf.Breed, calf.Sex)
	if len(candidates) == 0 {
		return missing(models.LayoutWeight, ReasonNoWeightRowMatch, models.NoBracketLabel)
	}

	matched := MatchWeightColumns(columns, calf.Breed, calf.Weight)
	if len(matched) == 0 {
		return missing(models.LayoutWeight, ReasonNoBracketMatch, models.NoBracketLabel)
	}

	for _, col := range matched {
		for _, row := range candidates {
			price, ok := bracketPrice(row, col)
			if !ok {
				continue
			}
			return models.Suggestion{
				Status:         models.StatusReady,
				SuggestedPrice: price,
				Reason:         ReasonMatchedWeightRow,
				LayoutMode:     models.LayoutWeight,
				BracketLabel:   col.Label,
				BracketKey:     col.Key,
				MatchedBreed:   row.Breed,
			}
		}
	}

	return missing(models.LayoutWeight, ReasonNoBracketPrice, matched[0].Label)
}

func suggestSingle(calf models.Calf, rows []models.PriceRow) models.Suggestion {
	if len(rows) == 0 {
		return missing(models.LayoutSingle, ReasonNoSingleRows, models.NoBracketLabel)
	}

	candidates := FindCandidateRows(rows, calf.Breed, calf.Sex)
	if len(candidates) == 0 {
		return missing(models.LayoutSingle, ReasonNoSingleRowMatch, models.NoBracketLabel)
	}

	for _, row := range candidates {
		price, ok := singlePrice(row)
		if !ok {
			continue
		}
		return models.Suggestion{
			Status:         models.StatusReady,
			SuggestedPrice: price,
			Reason:         ReasonMatchedSingleRow,
			LayoutMode:     models.LayoutSingle,
			BracketLabel:   models.NoBracketLabel,
			MatchedBreed:   row.Breed,
		}
	}

	return missing(models.LayoutSingle, ReasonNoSinglePrice, models.NoBracketLabel)
}

func missing(layout models.LayoutMode, reason, bracketLabel string) models.Suggestion {
	return models.Suggestion{
		Status:       models.StatusMissing,
		Reason:       reason,
		LayoutMode:   layout,
		BracketLabel: bracketLabel,
	}
}

// bracketPrice looks a column's price up in a weight row: first by the
// column key, its source key and its slugged label, then by comparing
// slugged forms of every price key in the row.
func bracketPrice(row models.PriceRow, col models.WeightBracketColumn) (models.Num, bool) {
	lookups := make([]string, 0, 3)
	for _, k := range []string{col.Key, col.SourceKey, Slug(col.Label)} {
		if k != "" {
			lookups = append(lookups, k)
		}
	}

	for _, k := range lookups {
		if v, ok := row.Prices[k]; ok && v.Valid {
			return v, true
		}
	}

	index := make(map[string]models.Num, len(row.Prices))
	for _, k := range sortedKeys(row.Prices) {
		v := row.Prices[k]
		if !v.Valid {
			continue
		}
		slug := Slug(k)
		if _, seen := index[slug]; !seen {
			index[slug] = v
		}
	}
	for _, k := range lookups {
		if v, ok := index[Slug(k)]; ok {
			return v, true
		}
	}

	return models.Num{}, false
}

func singlePrice(row models.PriceRow) (models.Num, bool) {
	if row.Price.Valid {
		return row.Price, true
	}
	for _, k := range sortedKeys(row.Prices) {
		if v := row.Prices[k]; v.Valid {
			return v, true
		}
	}
	return models.Num{}, false
}

func sortedKeys(m map[string]models.Num) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
