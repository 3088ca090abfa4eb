package pricing

import (
	"reflect"
	"testing"

	"github.com/mamadbah2/ranchprice/internal/domain/models"
)

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"400 lb - 500 lb": "400_lb_500_lb",
		"  __Heavy__  ":   "heavy",
		"WB_1":            "wb_1",
		"---":             "",
		"":                "",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeBrackets_KeyDerivationAndFallbacks(t *testing.T) {
	raw := []models.RawWeightBracket{
		{Key: "Light Calves", Min: models.NumOf(0), Max: models.NumOf(400)},
		{Label: "400 lb - 500 lb", Min: models.NumOf(400), Max: models.NumOf(500)},
		{},
		{Key: "light calves"},
	}

	cols := NormalizeBrackets(raw)
	if len(cols) != 4 {
		t.Fatalf("got %d columns, want 4", len(cols))
	}

	wantKeys := []string{"light_calves", "400_lb_500_lb", "wb_3", "light_calves_4"}
	for i, want := range wantKeys {
		if cols[i].Key != want {
			t.Errorf("column %d key = %q, want %q", i, cols[i].Key, want)
		}
	}

	if cols[2].Label != "Bracket 3" {
		t.Errorf("unlabeled bracket label = %q, want Bracket 3", cols[2].Label)
	}
	if cols[0].Label != "0 lb - 400 lb" {
		t.Errorf("derived label = %q", cols[0].Label)
	}
	if cols[0].SourceKey != "Light Calves" {
		t.Errorf("source key = %q", cols[0].SourceKey)
	}
	for _, col := range cols {
		if col.CategoryLabel != models.DefaultCategoryLabel {
			t.Errorf("column %s category = %q, want General", col.Key, col.CategoryLabel)
		}
	}
}

func TestNormalizeBrackets_UniqueKeys(t *testing.T) {
	raw := []models.RawWeightBracket{
		{Key: "a"}, {Key: "a"}, {Key: "a_2"}, {Key: "A"}, {Label: "a"}, {}, {Key: "wb_7"},
	}

	cols := NormalizeBrackets(raw)
	seen := map[string]bool{}
	for _, col := range cols {
		if seen[col.Key] {
			t.Fatalf("duplicate key %q in %+v", col.Key, cols)
		}
		seen[col.Key] = true
	}
}

func TestNormalizeBrackets_BreedsDedupedCaseInsensitively(t *testing.T) {
	cols := NormalizeBrackets([]models.RawWeightBracket{
		{Key: "x", Breeds: []string{"Angus", "angus", " Hereford ", "", "ANGUS", "Brahman"}},
	})

	want := []string{"Angus", "Hereford", "Brahman"}
	if !reflect.DeepEqual(cols[0].Breeds, want) {
		t.Fatalf("breeds = %v, want %v", cols[0].Breeds, want)
	}
}

func TestNormalizeBrackets_Idempotent(t *testing.T) {
	raw := []models.RawWeightBracket{
		{Key: "Light", Min: models.NumOf(0), Max: models.NumOf(400), Breeds: []string{"angus", "Angus"}},
		{Label: "Heavy Stock", Min: models.NumOf(400), CategoryLabel: "Steers"},
		{},
		{Key: "light"},
	}

	first := NormalizeBrackets(raw)
	second := NormalizeBrackets(ToRawBrackets(first))

	if len(first) != len(second) {
		t.Fatalf("length changed: %d -> %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.Key != b.Key || a.Label != b.Label || a.Min != b.Min || a.Max != b.Max ||
			a.CategoryLabel != b.CategoryLabel || !reflect.DeepEqual(a.Breeds, b.Breeds) {
			t.Errorf("column %d changed on second pass:\n first  %+v\n second %+v", i, a, b)
		}
	}
}
