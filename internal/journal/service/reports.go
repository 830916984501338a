package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xxz807/assetbook/backend/internal/journal/domain"
)

// ReportItem 报表行：科目名 + 展示金额
type ReportItem struct {
	AccountName string          `json:"account_name"`
	Amount      decimal.Decimal `json:"amount"`
}

// ProfitAndLossStatement 损益计算书 (PL)
type ProfitAndLossStatement struct {
	Revenues  []ReportItem    `json:"revenues"`
	Expenses  []ReportItem    `json:"expenses"`
	NetIncome decimal.Decimal `json:"net_income"`
}

// BalanceSheet 贷借对照表 (BS)
type BalanceSheet struct {
	Assets                    []ReportItem    `json:"assets"`
	Liabilities               []ReportItem    `json:"liabilities"`
	Equity                    []ReportItem    `json:"equity"`
	TotalAssets               decimal.Decimal `json:"total_assets"`
	TotalLiabilitiesAndEquity decimal.Decimal `json:"total_liabilities_and_equity"`
}

// ReportService 余额聚合引擎
// 纯读：对凭证快照做重放，不改任何状态，可以被多个读者并发调用
type ReportService struct {
	accounts domain.AccountRepository
	entries  domain.EntryRepository
	// 留存收益科目 id，来自配置注入，聚合逻辑里不出现魔法字符串
	retainedEarningsID string
}

func NewReportService(accounts domain.AccountRepository, entries domain.EntryRepository, retainedEarningsID string) *ReportService {
	return &ReportService{
		accounts:           accounts,
		entries:            entries,
		retainedEarningsID: retainedEarningsID,
	}
}

// ComputeBalances 把凭证流重放成每科目的带符号余额
// 借方 +amount，贷方 -amount；全部用 decimal 累加避免浮点漂移
func ComputeBalances(entries []domain.JournalEntry, asOf *time.Time) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)
	for _, e := range entries {
		if asOf != nil && domain.DateOnly(e.Date).After(domain.DateOnly(*asOf)) {
			continue
		}
		balances[e.DebitAccountID] = balances[e.DebitAccountID].Add(e.Amount)
		balances[e.CreditAccountID] = balances[e.CreditAccountID].Sub(e.Amount)
	}
	return balances
}

// ProfitAndLoss 指定期间的损益计算书，起止可开区间
func (s *ReportService) ProfitAndLoss(ctx context.Context, start, end *time.Time) (*ProfitAndLossStatement, error) {
	entries, err := s.entries.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	return profitAndLoss(accounts, ComputeBalances(entries, nil)), nil
}

func profitAndLoss(accounts []domain.Account, balances map[string]decimal.Decimal) *ProfitAndLossStatement {
	pl := &ProfitAndLossStatement{
		Revenues: []ReportItem{},
		Expenses: []ReportItem{},
	}
	var totalRevenue, totalExpense decimal.Decimal

	for _, account := range accounts {
		balance := balances[account.ID]
		if balance.IsZero() {
			continue
		}
		switch account.Category {
		case domain.Revenue:
			// 收入是贷方余额，取负数后按借方口径展示 (挣到钱为正)
			amount := balance.Neg()
			pl.Revenues = append(pl.Revenues, ReportItem{AccountName: account.Name, Amount: amount})
			totalRevenue = totalRevenue.Add(amount)
		case domain.Expense:
			// 费用本来就是借方余额，花了钱即为正
			pl.Expenses = append(pl.Expenses, ReportItem{AccountName: account.Name, Amount: balance})
			totalExpense = totalExpense.Add(balance)
		}
	}

	pl.NetIncome = totalRevenue.Sub(totalExpense)
	return pl
}

// BalanceSheet 指定时点的贷借对照表
// 当期纯利润滚入配置指定的留存收益科目，把临时科目关账进权益；
// 对任何自洽的凭证集合恒有 TotalAssets == TotalLiabilitiesAndEquity
func (s *ReportService) BalanceSheet(ctx context.Context, asOf *time.Time) (*BalanceSheet, error) {
	entries, err := s.entries.ListByDateRange(ctx, nil, asOf)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}

	// 同一份快照算一次余额，BS 和滚入用的 PL 共用，保证口径一致
	balances := ComputeBalances(entries, nil)
	netIncome := profitAndLoss(accounts, balances).NetIncome

	bs := &BalanceSheet{
		Assets:      []ReportItem{},
		Liabilities: []ReportItem{},
		Equity:      []ReportItem{},
	}

	for _, account := range accounts {
		balance := balances[account.ID]

		if account.ID == s.retainedEarningsID {
			// 留存收益：净利润是贷方性质，余额减去净利润
			balance = balance.Sub(netIncome)
		}

		// 余额为零的科目不展示，但权益科目零余额也列出，便于看清未动用的资本科目
		if balance.IsZero() && account.Category != domain.Equity {
			continue
		}

		switch account.Category {
		case domain.Asset:
			bs.Assets = append(bs.Assets, ReportItem{AccountName: account.Name, Amount: balance})
			bs.TotalAssets = bs.TotalAssets.Add(balance)
		case domain.Liability:
			// 负债是贷方余额，取负数按借方口径展示
			bs.Liabilities = append(bs.Liabilities, ReportItem{AccountName: account.Name, Amount: balance.Neg()})
		case domain.Equity:
			bs.Equity = append(bs.Equity, ReportItem{AccountName: account.Name, Amount: balance.Neg()})
		}
	}

	for _, item := range bs.Liabilities {
		bs.TotalLiabilitiesAndEquity = bs.TotalLiabilitiesAndEquity.Add(item.Amount)
	}
	for _, item := range bs.Equity {
		bs.TotalLiabilitiesAndEquity = bs.TotalLiabilitiesAndEquity.Add(item.Amount)
	}

	return bs, nil
}
