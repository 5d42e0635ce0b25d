package workday

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Calendar resolves day types by overlaying stored exceptions on the default
// weekly calendar. It reads the store on every call so admin edits are seen
// immediately.
type Calendar struct {
	repo RepositoryAPI
}

func NewCalendar(repo RepositoryAPI) *Calendar {
	return &Calendar{repo: repo}
}

func (c *Calendar) Resolve(ctx context.Context, date time.Time) (DayType, error) {
	day := Date(date)
	exception, err := c.repo.GetByDate(ctx, day)
	if err != nil {
		return "", fmt.Errorf("resolve day type for %s: %w", day.Format("2006-01-02"), err)
	}
	if exception != nil {
		return DayType(exception.DayType), nil
	}
	return DefaultDayType(day), nil
}

// WeeklyLimit sums the allowances of the seven days of the week containing date.
func (c *Calendar) WeeklyLimit(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	start := WeekStart(date)
	end := start.AddDate(0, 0, 6)

	exceptions, err := c.repo.ListBetween(ctx, start, end)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load calendar exceptions: %w", err)
	}

	overrides := make(map[string]DayType, len(exceptions))
	for _, e := range exceptions {
		overrides[Date(e.Date).Format("2006-01-02")] = DayType(e.DayType)
	}

	limit := decimal.Zero
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		dayType, ok := overrides[day.Format("2006-01-02")]
		if !ok {
			dayType = DefaultDayType(day)
		}
		limit = limit.Add(dayType.Allowance())
	}
	return limit, nil
}
