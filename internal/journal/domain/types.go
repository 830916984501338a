package domain

import (
	"strings"
	"time"
)

// Category 勘定科目分类 (1-5)
// 决定科目的借贷符号约定，以及出现在 BS 还是 PL
type Category int16

const (
	Asset     Category = 1 // 资产
	Liability Category = 2 // 负债
	Equity    Category = 3 // 权益
	Revenue   Category = 4 // 收入
	Expense   Category = 5 // 费用
)

var categoryNames = map[Category]string{
	Asset:     "Asset",
	Liability: "Liability",
	Equity:    "Equity",
	Revenue:   "Revenue",
	Expense:   "Expense",
}

func (c Category) String() string {
	return categoryNames[c]
}

// IsValid 校验分类合法性
func (c Category) IsValid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseCategory 从 API 层的字符串解析分类
func ParseCategory(s string) (Category, bool) {
	for c, name := range categoryNames {
		if strings.EqualFold(name, s) {
			return c, true
		}
	}
	return 0, false
}

// Frequency 定期规则的执行频率
type Frequency string

const (
	FreqDaily   Frequency = "daily"
	FreqWeekly  Frequency = "weekly"
	FreqMonthly Frequency = "monthly"
	FreqYearly  Frequency = "yearly"
	FreqFree    Frequency = "free" // 不自动执行，仅手动触发
)

func (f Frequency) IsValid() bool {
	switch f {
	case FreqDaily, FreqWeekly, FreqMonthly, FreqYearly, FreqFree:
		return true
	}
	return false
}

// HolidayAdjustment 月度/年度目标日落在周末时的调整方向
type HolidayAdjustment string

const (
	AdjustNone   HolidayAdjustment = "none"
	AdjustBefore HolidayAdjustment = "before" // 提前到最近的周五
	AdjustAfter  HolidayAdjustment = "after"  // 顺延到最近的周一
)

func (a HolidayAdjustment) IsValid() bool {
	switch a {
	case AdjustNone, AdjustBefore, AdjustAfter:
		return true
	}
	return false
}

// WeekdaySet 周几集合，位序与 time.Weekday 一致 (bit 0 = Sunday)
// 取代原来 7 个独立布尔字段的设计
type WeekdaySet uint8

func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

func (s WeekdaySet) With(d time.Weekday) WeekdaySet {
	return s | 1<<uint(d)
}

func (s WeekdaySet) Has(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

func (s WeekdaySet) IsEmpty() bool {
	return s == 0
}

// Weekdays 按周日起始的顺序展开集合，用于 API 序列化
func (s WeekdaySet) Weekdays() []time.Weekday {
	var days []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday 解析小写英文星期名 (API 层用)
func ParseWeekday(s string) (time.Weekday, bool) {
	d, ok := weekdayNames[strings.ToLower(s)]
	return d, ok
}
