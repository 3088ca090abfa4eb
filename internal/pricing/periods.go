package pricing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mamadbah2/ranchprice/internal/domain/models"
)

// DateLayout is the wire format of period dates.
const DateLayout = "2006-01-02"

// NormalizeDate reduces a date or timestamp string to YYYY-MM-DD. Anything
// unparsable becomes the empty string, which means "unbounded".
func NormalizeDate(value string) string {
	str := strings.TrimSpace(value)
	if len(str) > 10 {
		str = str[:10]
	}
	t, err := time.Parse(DateLayout, str)
	if err != nil {
		return ""
	}
	return t.Format(DateLayout)
}

func shiftDay(date string, days int) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, days).Format(DateLayout)
}

// ChainPeriods returns a sorted copy of periods whose end dates are derived
// from the following period: each end is the day before the next start. The
// last period keeps its own end date, normally empty (open-ended). Periods
// without a start sort first; equal starts keep their input order.
func ChainPeriods(periods []models.PricePeriod) []models.PricePeriod {
	chained := make([]models.PricePeriod, len(periods))
	for i, p := range periods {
		p.StartDate = NormalizeDate(p.StartDate)
		p.EndDate = NormalizeDate(p.EndDate)
		chained[i] = p
	}

	sort.SliceStable(chained, func(i, j int) bool {
		a, b := chained[i].StartDate, chained[j].StartDate
		if a == "" || b == "" {
			return a == "" && b != ""
		}
		return a < b
	})

	for i := 0; i < len(chained)-1; i++ {
		next := chained[i+1].StartDate
		if next == "" {
			chained[i].EndDate = ""
			continue
		}
		chained[i].EndDate = shiftDay(next, -1)
	}

	return chained
}

// InsertPeriod adds or replaces (matched by key) a period and returns the
// re-chained list. A start date already claimed by another period is nudged
// forward one day at a time until it is free.
func InsertPeriod(periods []models.PricePeriod, period models.PricePeriod) []models.PricePeriod {
	kept := make([]models.PricePeriod, 0, len(periods)+1)
	starts := make(map[string]struct{}, len(periods))
	keys := make(map[string]struct{}, len(periods))
	for _, existing := range periods {
		if period.Key != "" && existing.Key == period.Key {
			continue
		}
		kept = append(kept, existing)
		if start := NormalizeDate(existing.StartDate); start != "" {
			starts[start] = struct{}{}
		}
		keys[existing.Key] = struct{}{}
	}

	period.StartDate = NormalizeDate(period.StartDate)
	if period.StartDate != "" {
		for {
			if _, taken := starts[period.StartDate]; !taken {
				break
			}
			period.StartDate = shiftDay(period.StartDate, 1)
		}
	}

	if period.Key == "" {
		for n := len(kept) + 1; ; n++ {
			candidate := fmt.Sprintf("pp_%d", n)
			if _, taken := keys[candidate]; !taken {
				period.Key = candidate
				break
			}
		}
	}
	if strings.TrimSpace(period.Label) == "" {
		period.Label = defaultPeriodLabel(period.StartDate)
	}
	period.LayoutMode = NormalizeLayout(period.LayoutMode)

	return ChainPeriods(append(kept, period))
}

func defaultPeriodLabel(start string) string {
	if start == "" {
		return "Initial Period"
	}
	return "Starting " + start
}

// NormalizeLayout maps anything other than "single" to the weight layout.
func NormalizeLayout(mode models.LayoutMode) models.LayoutMode {
	if strings.EqualFold(strings.TrimSpace(string(mode)), string(models.LayoutSingle)) {
		return models.LayoutSingle
	}
	return models.LayoutWeight
}

// ResolveActive picks the period in force on ref's calendar day (in ref's
// location). Overlapping matches resolve to the latest-starting one. Without
// a match it falls back to the closest past period, then to the earliest
// future one. It returns nil only for an empty list.
func ResolveActive(periods []models.PricePeriod, ref time.Time) *models.PricePeriod {
	if len(periods) == 0 {
		return nil
	}

	chained := ChainPeriods(periods)
	day := ref.Format(DateLayout)

	active := -1
	for i, p := range chained {
		startsBefore := p.StartDate == "" || p.StartDate <= day
		endsAfter := p.EndDate == "" || day <= p.EndDate
		if startsBefore && endsAfter {
			active = i
		}
	}
	if active >= 0 {
		return &chained[active]
	}

	for i, p := range chained {
		if p.StartDate == "" || p.StartDate <= day {
			active = i
		}
	}
	if active >= 0 {
		return &chained[active]
	}

	return &chained[0]
}
