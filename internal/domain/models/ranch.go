package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// LayoutMode selects how a period's price sheet is organized.
type LayoutMode string

const (
	LayoutWeight LayoutMode = "weight"
	LayoutSingle LayoutMode = "single"
)

// Sex is a canonical calf sex token.
type Sex string

const (
	SexBull       Sex = "bull"
	SexHeifer     Sex = "heifer"
	SexSteer      Sex = "steer"
	SexFreeMartin Sex = "freeMartin"
)

// DefaultCategoryLabel groups brackets that carry no category of their own.
const DefaultCategoryLabel = "General"

// Ranch is the subset of the backend ranch record the pricing engine reads.
type Ranch struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	State            string             `json:"state"`
	WeightCategories []RawWeightBracket `json:"weightCategories"`
	PricePeriods     []PricePeriod      `json:"pricePeriods"`
}

// UnmarshalJSON accepts both `id` and `_id` as the ranch identifier.
func (r *Ranch) UnmarshalJSON(data []byte) error {
	type alias Ranch
	var aux struct {
		alias
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = Ranch(aux.alias)
	if r.ID == "" {
		r.ID = aux.MongoID
	}
	return nil
}

// RawWeightBracket is a weight bracket as configured on the ranch, before
// normalization. Any field may be missing or inconsistent.
type RawWeightBracket struct {
	Key           string   `json:"key,omitempty"`
	Label         string   `json:"label,omitempty"`
	Min           Num      `json:"min"`
	Max           Num      `json:"max"`
	Breeds        []string `json:"breeds,omitempty"`
	CategoryLabel string   `json:"categoryLabel,omitempty"`
}

// WeightBracketColumn is a normalized weight bracket with a unique key.
type WeightBracketColumn struct {
	Key           string   `json:"key"`
	SourceKey     string   `json:"sourceKey,omitempty"`
	Label         string   `json:"label"`
	Min           Num      `json:"min"`
	Max           Num      `json:"max"`
	Breeds        []string `json:"breeds"`
	CategoryLabel string   `json:"categoryLabel"`
	Position      int      `json:"-"`
}

// PricePeriod is one date-bounded pricing regime.
type PricePeriod struct {
	Key        string     `json:"key"`
	Label      string     `json:"label"`
	StartDate  string     `json:"startDate"`
	EndDate    string     `json:"endDate"`
	LayoutMode LayoutMode `json:"layoutMode"`
	SheetData  SheetData  `json:"sheetData"`
}

// SheetData holds the rows of a period's price sheet.
type SheetData struct {
	WeightRows []PriceRow `json:"weightRows,omitempty"`
	SingleRows []PriceRow `json:"singleRows,omitempty"`
}

// PriceRow is one breed/sex pricing rule. Weight rows fill Prices keyed by
// bracket key, single rows fill Price.
type PriceRow struct {
	Breed  string         `json:"breed"`
	Sex    SexList        `json:"sex"`
	Prices map[string]Num `json:"prices,omitempty"`
	Price  Num            `json:"price"`
}

// SexList holds raw sex tokens. It decodes from a single string or an array.
type SexList []string

// UnmarshalJSON accepts "bull", ["bull","steer"], or null.
func (s *SexList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	if data[0] == '[' {
		var items []any
		if err := json.Unmarshal(data, &items); err != nil {
			*s = nil
			return nil
		}
		out := make(SexList, 0, len(items))
		for _, item := range items {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		*s = out
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		*s = nil
		return nil
	}
	if strings.TrimSpace(single) == "" {
		*s = nil
		return nil
	}
	*s = SexList{single}
	return nil
}

// Calf is an inventory record as read from the backend.
type Calf struct {
	ID            string `json:"id"`
	Tag           string `json:"tag,omitempty"`
	Breed         string `json:"breed"`
	Sex           string `json:"sex"`
	Weight        Num    `json:"weight"`
	PurchasePrice Num    `json:"purchasePrice"`
}

// UnmarshalJSON accepts both `id` and `_id` as the calf identifier.
func (c *Calf) UnmarshalJSON(data []byte) error {
	type alias Calf
	var aux struct {
		alias
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Calf(aux.alias)
	if c.ID == "" {
		c.ID = aux.MongoID
	}
	return nil
}
