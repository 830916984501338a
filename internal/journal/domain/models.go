package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account 勘定科目实体
// 对应数据库表: accounts
// 科目的增删改由外部管理端负责，本核心只读消费
type Account struct {
	ID        string   `gorm:"primaryKey;type:varchar(64)"`
	Name      string   `gorm:"type:varchar(100);not null"`
	Category  Category `gorm:"type:smallint;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Account) TableName() string {
	return "accounts"
}

// JournalEntry 复式记账凭证实体
// 对应数据库表: journal_entries
// 凭证一经入账逻辑上不可变，"修改" 语义是整条替换，不允许单独改借方或贷方
type JournalEntry struct {
	ID              string          `gorm:"primaryKey;type:varchar(64)"`
	Date            time.Time       `gorm:"type:date;not null;index"`
	Description     string          `gorm:"type:text"`
	DebitAccountID  string          `gorm:"type:varchar(64);not null;index"`
	CreditAccountID string          `gorm:"type:varchar(64);not null;index"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,4);not null"` // 必须 > 0
	// 由定期规则生成的凭证带回溯引用，用于 "当天是否已执行" 判重
	SourceRuleID *string `gorm:"type:varchar(64);index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (JournalEntry) TableName() string {
	return "journal_entries"
}

// RecurringRule 定期交易规则实体
// 对应数据库表: recurring_rules
// LastExecutedDate 只允许执行器在成功落账后更新，一次执行写一次
type RecurringRule struct {
	ID              string `gorm:"primaryKey;type:varchar(64)"`
	Name            string `gorm:"type:varchar(100);not null"`
	Description     string `gorm:"type:text"`
	DebitAccountID  string `gorm:"type:varchar(64);not null"`
	CreditAccountID string `gorm:"type:varchar(64);not null"`
	// Amount 为空表示动态金额，执行时必须显式传入
	Amount    *decimal.Decimal `gorm:"type:decimal(20,4)"`
	Frequency Frequency        `gorm:"type:varchar(16);not null"`

	// weekly 专用
	Weekdays        WeekdaySet `gorm:"type:smallint;not null;default:0"`
	ExcludeWeekends bool       `gorm:"not null;default:false"`

	// monthly / yearly 专用
	DayOfMonth        int               `gorm:"type:smallint;not null;default:0"` // 1-31
	MonthDay          string            `gorm:"type:char(5)"`                     // "MM-DD"
	HolidayAdjustment HolidayAdjustment `gorm:"type:varchar(8);not null;default:'none'"`

	StartDate        time.Time  `gorm:"type:date;not null"`
	EndDate          *time.Time `gorm:"type:date"`
	LastExecutedDate *time.Time `gorm:"type:date"`
	Active           bool       `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (RecurringRule) TableName() string {
	return "recurring_rules"
}

// Validate 校验频率相关的必填字段
func (r *RecurringRule) Validate() error {
	if r.DebitAccountID == r.CreditAccountID {
		return NewValidationError("debit and credit account must differ")
	}
	if !r.Frequency.IsValid() {
		return NewValidationError("invalid frequency: " + string(r.Frequency))
	}
	if !r.HolidayAdjustment.IsValid() {
		return NewValidationError("invalid holiday adjustment: " + string(r.HolidayAdjustment))
	}
	switch r.Frequency {
	case FreqWeekly:
		if r.Weekdays.IsEmpty() {
			return NewValidationError("weekly rule requires at least one weekday")
		}
	case FreqMonthly:
		if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
			return NewValidationError("monthly rule requires day_of_month between 1 and 31")
		}
	case FreqYearly:
		if _, _, err := parseMonthDay(r.MonthDay); err != nil {
			return NewValidationError("yearly rule requires month_day in MM-DD form")
		}
	}
	return nil
}

// Validate 校验凭证基础不变量 (金额为正、借贷科目不同)
// 科目是否存在由 service 层对照科目目录检查
func (e *JournalEntry) Validate() error {
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("amount must be positive")
	}
	if e.DebitAccountID == e.CreditAccountID {
		return NewValidationError("debit and credit account must differ")
	}
	if e.DebitAccountID == "" || e.CreditAccountID == "" {
		return NewValidationError("both debit and credit account are required")
	}
	return nil
}
