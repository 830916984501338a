package api

// 对外 DTO。日期一律 "2006-01-02" 字符串，金额一律传字符串防止精度丢失

type PostEntryReq struct {
	Date            string `json:"date" binding:"required"`
	Description     string `json:"description"`
	DebitAccountID  string `json:"debit_account_id" binding:"required"`
	CreditAccountID string `json:"credit_account_id" binding:"required"`
	Amount          string `json:"amount" binding:"required"`
}

type EntryResp struct {
	ID              string  `json:"id"`
	Date            string  `json:"date"`
	Description     string  `json:"description"`
	DebitAccountID  string  `json:"debit_account_id"`
	CreditAccountID string  `json:"credit_account_id"`
	Amount          string  `json:"amount"`
	SourceRuleID    *string `json:"source_rule_id,omitempty"`
}

type RuleReq struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	DebitAccountID  string `json:"debit_account_id" binding:"required"`
	CreditAccountID string `json:"credit_account_id" binding:"required"`
	// 留空表示动态金额，执行时必须显式传入
	Amount    string `json:"amount"`
	Frequency string `json:"frequency" binding:"required,oneof=daily weekly monthly yearly free"`

	Weekdays        []string `json:"weekdays"`
	ExcludeWeekends bool     `json:"exclude_weekends"`

	DayOfMonth        int    `json:"day_of_month"`
	MonthDay          string `json:"month_day"` // "MM-DD"
	HolidayAdjustment string `json:"holiday_adjustment" binding:"omitempty,oneof=none before after"`

	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"`
	Active    *bool  `json:"active"`
}

type RuleResp struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	DebitAccountID    string   `json:"debit_account_id"`
	CreditAccountID   string   `json:"credit_account_id"`
	Amount            *string  `json:"amount"`
	Frequency         string   `json:"frequency"`
	Weekdays          []string `json:"weekdays,omitempty"`
	ExcludeWeekends   bool     `json:"exclude_weekends"`
	DayOfMonth        int      `json:"day_of_month,omitempty"`
	MonthDay          string   `json:"month_day,omitempty"`
	HolidayAdjustment string   `json:"holiday_adjustment"`
	StartDate         string   `json:"start_date"`
	EndDate           *string  `json:"end_date"`
	LastExecutedDate  *string  `json:"last_executed_date"`
	NextFireDate      *string  `json:"next_fire_date"`
	Active            bool     `json:"active"`
}

type ExecuteOneReq struct {
	Date   string `json:"date"`   // 缺省为当天
	Amount string `json:"amount"` // 覆盖规则金额
	Force  bool   `json:"force"`
}

type ExecuteDueReq struct {
	AsOf string `json:"as_of"` // 缺省为当天
}

type AccountReq struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required,oneof=Asset Liability Equity Revenue Expense"`
}

type AccountResp struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}
