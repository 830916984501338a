package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFiresOnBounds(t *testing.T) {
	end := date(2024, 3, 31)
	rule := &RecurringRule{
		Frequency: FreqDaily,
		StartDate: date(2024, 1, 1),
		EndDate:   &end,
	}

	assert.False(t, rule.FiresOn(date(2023, 12, 31)), "before start date")
	assert.True(t, rule.FiresOn(date(2024, 1, 1)), "on start date")
	assert.True(t, rule.FiresOn(date(2024, 3, 31)), "on end date")
	assert.False(t, rule.FiresOn(date(2024, 4, 1)), "after end date")
}

func TestFiresOnWeekly(t *testing.T) {
	rule := &RecurringRule{
		Frequency: FreqWeekly,
		StartDate: date(2024, 1, 1), // 周一
		Weekdays:  NewWeekdaySet(time.Monday, time.Saturday),
	}

	assert.True(t, rule.FiresOn(date(2024, 1, 8)), "Monday")
	assert.False(t, rule.FiresOn(date(2024, 1, 9)), "Tuesday")
	assert.True(t, rule.FiresOn(date(2024, 1, 13)), "Saturday")

	// 排除周末的开关压过周几集合
	rule.ExcludeWeekends = true
	assert.True(t, rule.FiresOn(date(2024, 1, 8)), "Monday still fires")
	assert.False(t, rule.FiresOn(date(2024, 1, 13)), "Saturday suppressed")
}

func TestFiresOnMonthlyClampsToMonthEnd(t *testing.T) {
	rule := &RecurringRule{
		Frequency:         FreqMonthly,
		StartDate:         date(2024, 1, 1),
		DayOfMonth:        31,
		HolidayAdjustment: AdjustNone,
	}

	// 30 天的月份只在月末当天触发
	for day := 1; day <= 29; day++ {
		assert.False(t, rule.FiresOn(date(2024, 4, day)), "2024-04-%02d", day)
	}
	assert.True(t, rule.FiresOn(date(2024, 4, 30)))

	// 闰年二月收敛到 29 号
	assert.True(t, rule.FiresOn(date(2024, 2, 29)))
	assert.False(t, rule.FiresOn(date(2024, 2, 28)))
	// 平年二月收敛到 28 号
	assert.True(t, rule.FiresOn(date(2025, 2, 28)))
}

func TestFiresOnMonthlyHolidayAdjustment(t *testing.T) {
	// 2024-06-15 周六，2024-06-16 周日
	tests := []struct {
		name       string
		dayOfMonth int
		adjustment HolidayAdjustment
		fires      time.Time
		notFires   []time.Time
	}{
		{
			name: "saturday target shifts back one day", dayOfMonth: 15, adjustment: AdjustBefore,
			fires:    date(2024, 6, 14), // 周五
			notFires: []time.Time{date(2024, 6, 15)},
		},
		{
			name: "sunday target shifts back two days", dayOfMonth: 16, adjustment: AdjustBefore,
			fires:    date(2024, 6, 14),
			notFires: []time.Time{date(2024, 6, 16)},
		},
		{
			name: "saturday target shifts forward two days", dayOfMonth: 15, adjustment: AdjustAfter,
			fires:    date(2024, 6, 17), // 周一
			notFires: []time.Time{date(2024, 6, 15)},
		},
		{
			name: "sunday target shifts forward one day", dayOfMonth: 16, adjustment: AdjustAfter,
			fires:    date(2024, 6, 17),
			notFires: []time.Time{date(2024, 6, 16)},
		},
		{
			name: "weekday target unshifted", dayOfMonth: 18, adjustment: AdjustBefore,
			fires:    date(2024, 6, 18), // 周二
			notFires: []time.Time{date(2024, 6, 17)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rule := &RecurringRule{
				Frequency:         FreqMonthly,
				StartDate:         date(2024, 1, 1),
				DayOfMonth:        tc.dayOfMonth,
				HolidayAdjustment: tc.adjustment,
			}
			assert.True(t, rule.FiresOn(tc.fires))
			for _, d := range tc.notFires {
				assert.False(t, rule.FiresOn(d), "%s", d.Format("2006-01-02"))
			}
		})
	}
}

// 前倒调整后的实际触发日永远不落在周末，且最多比未调整目标早 2 天
func TestAdjustBeforeNeverLandsOnWeekend(t *testing.T) {
	rule := &RecurringRule{
		Frequency:         FreqMonthly,
		StartDate:         date(2024, 1, 1),
		DayOfMonth:        15,
		HolidayAdjustment: AdjustBefore,
	}

	for d := date(2024, 1, 1); d.Year() == 2024; d = d.AddDate(0, 0, 1) {
		if !rule.FiresOn(d) {
			continue
		}
		wd := d.Weekday()
		assert.NotEqual(t, time.Saturday, wd, "fired on Saturday %s", d)
		assert.NotEqual(t, time.Sunday, wd, "fired on Sunday %s", d)

		target := date(d.Year(), d.Month(), 15)
		diff := target.Sub(d).Hours() / 24
		assert.LessOrEqual(t, diff, 2.0, "shifted more than 2 days back at %s", d)
		assert.GreaterOrEqual(t, diff, 0.0)
	}
}

func TestFiresOnYearly(t *testing.T) {
	rule := &RecurringRule{
		Frequency:         FreqYearly,
		StartDate:         date(2023, 1, 1),
		MonthDay:          "02-29",
		HolidayAdjustment: AdjustNone,
	}

	// 闰年按原日，平年收敛到 2 月末
	assert.True(t, rule.FiresOn(date(2024, 2, 29)))
	assert.True(t, rule.FiresOn(date(2025, 2, 28)))
	assert.False(t, rule.FiresOn(date(2025, 3, 1)))

	// 格式非法的 month_day 永不触发
	broken := &RecurringRule{Frequency: FreqYearly, StartDate: date(2023, 1, 1), MonthDay: "bogus"}
	assert.False(t, broken.FiresOn(date(2024, 6, 1)))
}

func TestFreeNeverFires(t *testing.T) {
	rule := &RecurringRule{Frequency: FreqFree, StartDate: date(2024, 1, 1)}
	for d := date(2024, 1, 1); d.Month() == time.January; d = d.AddDate(0, 0, 1) {
		assert.False(t, rule.FiresOn(d))
	}
}

func TestNextFireDate(t *testing.T) {
	weekly := &RecurringRule{
		Frequency: FreqWeekly,
		StartDate: date(2024, 1, 1),
		Weekdays:  NewWeekdaySet(time.Friday),
	}
	next := weekly.NextFireDate(date(2024, 1, 9)) // 周二
	require.NotNil(t, next)
	assert.Equal(t, date(2024, 1, 12), *next)

	// 到期日当天本身就算下一次
	next = weekly.NextFireDate(date(2024, 1, 12))
	require.NotNil(t, next)
	assert.Equal(t, date(2024, 1, 12), *next)

	// 结束日期之后没有下一次
	end := date(2024, 1, 10)
	weekly.EndDate = &end
	assert.Nil(t, weekly.NextFireDate(date(2024, 1, 11)))

	free := &RecurringRule{Frequency: FreqFree, StartDate: date(2024, 1, 1)}
	assert.Nil(t, free.NextFireDate(date(2024, 1, 1)))
}

func TestRuleValidate(t *testing.T) {
	base := RecurringRule{
		Name:              "rent",
		DebitAccountID:    "acc_rent",
		CreditAccountID:   "acc_cash",
		Frequency:         FreqMonthly,
		DayOfMonth:        27,
		HolidayAdjustment: AdjustNone,
		StartDate:         date(2024, 1, 1),
	}
	require.NoError(t, base.Validate())

	weekly := base
	weekly.Frequency = FreqWeekly
	weekly.Weekdays = 0
	assert.Error(t, weekly.Validate(), "weekly needs at least one weekday")

	monthly := base
	monthly.DayOfMonth = 0
	assert.Error(t, monthly.Validate(), "monthly needs day of month")

	yearly := base
	yearly.Frequency = FreqYearly
	yearly.MonthDay = ""
	assert.Error(t, yearly.Validate(), "yearly needs month-day")

	same := base
	same.CreditAccountID = same.DebitAccountID
	assert.Error(t, same.Validate(), "debit == credit")
}
