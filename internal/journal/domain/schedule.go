package domain

import (
	"fmt"
	"time"
)

// 排程判定：纯函数，同样输入永远得到同样输出，不碰任何外部状态

// DateOnly 归一化为 UTC 零点的日历日，所有日期比较都走这里
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FiresOn 判断规则在给定日历日是否到期
func (r *RecurringRule) FiresOn(date time.Time) bool {
	d := DateOnly(date)

	// 起止日期边界优先判断
	if d.Before(DateOnly(r.StartDate)) {
		return false
	}
	if r.EndDate != nil && d.After(DateOnly(*r.EndDate)) {
		return false
	}

	switch r.Frequency {
	case FreqDaily:
		return true

	case FreqWeekly:
		wd := d.Weekday()
		// 排除周末的开关独立于周几集合生效
		if r.ExcludeWeekends && (wd == time.Saturday || wd == time.Sunday) {
			return false
		}
		return r.Weekdays.Has(wd)

	case FreqMonthly:
		target := monthlyTarget(d.Year(), d.Month(), r.DayOfMonth)
		return d.Equal(adjustForWeekend(target, r.HolidayAdjustment))

	case FreqYearly:
		month, day, err := parseMonthDay(r.MonthDay)
		if err != nil {
			return false
		}
		target := monthlyTarget(d.Year(), month, day)
		return d.Equal(adjustForWeekend(target, r.HolidayAdjustment))

	default:
		// free 规则永不自动到期
		return false
	}
}

// NextFireDate 计算 from 当天或之后最近的到期日，用于前端展示下次执行日
// free 规则或扫描窗口内无到期日时返回 nil
func (r *RecurringRule) NextFireDate(from time.Time) *time.Time {
	if r.Frequency == FreqFree {
		return nil
	}
	d := DateOnly(from)
	if d.Before(DateOnly(r.StartDate)) {
		d = DateOnly(r.StartDate)
	}
	// 最多向前看两年，足够覆盖 yearly 的周末调整跨界情况
	for i := 0; i < 366*2; i++ {
		if r.EndDate != nil && d.After(DateOnly(*r.EndDate)) {
			return nil
		}
		if r.FiresOn(d) {
			return &d
		}
		d = d.AddDate(0, 0, 1)
	}
	return nil
}

// monthlyTarget 当月目标日，超出当月天数时收敛到月末
// 比如 31 号在二月收敛到 28/29 号
func monthlyTarget(year int, month time.Month, day int) time.Time {
	last := lastDayOfMonth(year, month)
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(year int, month time.Month) int {
	// 下月 0 号即本月最后一天
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// adjustForWeekend 目标日落在周末时按调整方向平移
// before: 周六-1 周日-2 (落到周五)；after: 周六+2 周日+1 (落到周一)
// 平移可能跨月甚至跨年，按完整日期比较即可
func adjustForWeekend(target time.Time, adj HolidayAdjustment) time.Time {
	switch adj {
	case AdjustBefore:
		switch target.Weekday() {
		case time.Saturday:
			return target.AddDate(0, 0, -1)
		case time.Sunday:
			return target.AddDate(0, 0, -2)
		}
	case AdjustAfter:
		switch target.Weekday() {
		case time.Saturday:
			return target.AddDate(0, 0, 2)
		case time.Sunday:
			return target.AddDate(0, 0, 1)
		}
	}
	return target
}

// parseMonthDay 解析 "MM-DD" 形式的年度执行日
func parseMonthDay(s string) (time.Month, int, error) {
	var month, day int
	if _, err := fmt.Sscanf(s, "%2d-%2d", &month, &day); err != nil {
		return 0, 0, fmt.Errorf("invalid month-day %q: %w", s, err)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, fmt.Errorf("invalid month-day %q", s)
	}
	return time.Month(month), day, nil
}
