package pricing

import (
	"testing"
	"time"

	"github.com/mamadbah2/ranchprice/internal/domain/models"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"2024-06-01":               "2024-06-01",
		"2024-06-01T00:00:00.000Z": "2024-06-01",
		" 2024-02-29 ":             "2024-02-29",
		"2023-02-29":               "",
		"June 1":                   "",
		"":                         "",
	}
	for in, want := range cases {
		if got := NormalizeDate(in); got != want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestChainPeriods(t *testing.T) {
	chained := ChainPeriods([]models.PricePeriod{
		{Key: "summer", StartDate: "2024-06-01"},
		{Key: "winter", StartDate: "2024-01-01", EndDate: "2024-12-31"},
	})

	if chained[0].Key != "winter" || chained[1].Key != "summer" {
		t.Fatalf("unexpected order: %s, %s", chained[0].Key, chained[1].Key)
	}
	if chained[0].EndDate != "2024-05-31" {
		t.Errorf("first end = %q, want 2024-05-31", chained[0].EndDate)
	}
	if chained[1].EndDate != "" {
		t.Errorf("last end = %q, want open", chained[1].EndDate)
	}
}

func TestChainPeriods_DoesNotMutateInput(t *testing.T) {
	in := []models.PricePeriod{{Key: "b", StartDate: "2024-06-01"}, {Key: "a", StartDate: "2024-01-01"}}
	_ = ChainPeriods(in)
	if in[0].Key != "b" || in[0].EndDate != "" {
		t.Fatalf("input mutated: %+v", in)
	}
}

func TestResolveActive(t *testing.T) {
	periods := []models.PricePeriod{
		{Key: "p1", StartDate: "2024-01-01"},
		{Key: "p2", StartDate: "2024-06-01"},
	}

	cases := []struct {
		ref  string
		want string
	}{
		{"2024-07-15", "p2"},
		{"2024-06-01", "p2"},
		{"2024-05-31", "p1"},
		{"2024-01-01", "p1"},
		{"2023-12-01", "p1"},
	}
	for _, tc := range cases {
		got := ResolveActive(periods, day(t, tc.ref))
		if got == nil || got.Key != tc.want {
			t.Errorf("ResolveActive(%s) = %+v, want %s", tc.ref, got, tc.want)
		}
	}
}

func TestResolveActive_Empty(t *testing.T) {
	if got := ResolveActive(nil, time.Now()); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestResolveActive_SameStartLastWins(t *testing.T) {
	periods := []models.PricePeriod{
		{Key: "first", StartDate: "2024-03-01"},
		{Key: "second", StartDate: "2024-03-01"},
	}
	got := ResolveActive(periods, day(t, "2024-04-10"))
	if got == nil || got.Key != "second" {
		t.Fatalf("got %+v, want second", got)
	}
}

func TestResolveActive_UnsetStartCountsAsPast(t *testing.T) {
	periods := []models.PricePeriod{
		{Key: "base"},
		{Key: "future", StartDate: "2030-01-01"},
	}
	got := ResolveActive(periods, day(t, "2025-05-05"))
	if got == nil || got.Key != "base" {
		t.Fatalf("got %+v, want base", got)
	}
}

func TestInsertPeriod_NudgesCollidingStart(t *testing.T) {
	periods := []models.PricePeriod{
		{Key: "p1", StartDate: "2024-01-01"},
		{Key: "p2", StartDate: "2024-01-02"},
	}

	out := InsertPeriod(periods, models.PricePeriod{StartDate: "2024-01-01", LayoutMode: "Single"})
	if len(out) != 3 {
		t.Fatalf("got %d periods", len(out))
	}
	last := out[2]
	if last.StartDate != "2024-01-03" {
		t.Errorf("nudged start = %q, want 2024-01-03", last.StartDate)
	}
	if last.Key != "pp_3" {
		t.Errorf("generated key = %q", last.Key)
	}
	if last.LayoutMode != models.LayoutSingle {
		t.Errorf("layout = %q", last.LayoutMode)
	}
	if out[1].EndDate != "2024-01-02" {
		t.Errorf("p2 end = %q, want 2024-01-02", out[1].EndDate)
	}
}

func TestInsertPeriod_ReplacesByKey(t *testing.T) {
	periods := []models.PricePeriod{
		{Key: "p1", StartDate: "2024-01-01"},
		{Key: "p2", StartDate: "2024-06-01"},
	}

	out := InsertPeriod(periods, models.PricePeriod{Key: "p2", Label: "Late", StartDate: "2024-06-01"})
	if len(out) != 2 {
		t.Fatalf("got %d periods, want 2", len(out))
	}
	if out[1].Label != "Late" || out[1].StartDate != "2024-06-01" {
		t.Fatalf("replacement not applied: %+v", out[1])
	}
}
