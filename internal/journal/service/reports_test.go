package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xxz807/assetbook/backend/internal/journal/domain"
)

// 内存版仓储桩，报表是纯读计算，不需要真数据库

type memAccountRepo struct {
	accounts []domain.Account
}

func (m *memAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	for i := range m.accounts {
		if m.accounts[i].ID == id {
			return &m.accounts[i], nil
		}
	}
	return nil, domain.NotFoundf("account %s", id)
}

func (m *memAccountRepo) List(_ context.Context) ([]domain.Account, error) {
	return m.accounts, nil
}

func (m *memAccountRepo) Create(_ context.Context, account *domain.Account) error {
	m.accounts = append(m.accounts, *account)
	return nil
}

func (m *memAccountRepo) Update(_ context.Context, _ *domain.Account) error { return nil }

type memEntryRepo struct {
	entries []domain.JournalEntry
}

func (m *memEntryRepo) Insert(_ context.Context, _ *gorm.DB, entry *domain.JournalEntry) error {
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memEntryRepo) Replace(_ context.Context, _ string, _ *domain.JournalEntry) error {
	return nil
}

func (m *memEntryRepo) FindByID(_ context.Context, id string) (*domain.JournalEntry, error) {
	return nil, domain.NotFoundf("journal entry %s", id)
}

func (m *memEntryRepo) ListByDateRange(_ context.Context, start, end *time.Time) ([]domain.JournalEntry, error) {
	var out []domain.JournalEntry
	for _, e := range m.entries {
		if start != nil && e.Date.Before(domain.DateOnly(*start)) {
			continue
		}
		if end != nil && e.Date.After(domain.DateOnly(*end)) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *memEntryRepo) ExistsByRuleAndDate(_ context.Context, ruleID string, date time.Time) (bool, error) {
	for _, e := range m.entries {
		if e.SourceRuleID != nil && *e.SourceRuleID == ruleID && e.Date.Equal(domain.DateOnly(date)) {
			return true, nil
		}
	}
	return false, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func entry(d time.Time, debit, credit, amount string) domain.JournalEntry {
	return domain.JournalEntry{
		Date:            domain.DateOnly(d),
		DebitAccountID:  debit,
		CreditAccountID: credit,
		Amount:          dec(amount),
	}
}

func testCatalog() *memAccountRepo {
	return &memAccountRepo{accounts: []domain.Account{
		{ID: "acc_cash", Name: "Cash", Category: domain.Asset},
		{ID: "acc_loan", Name: "Loan", Category: domain.Liability},
		{ID: "acc_capital", Name: "Capital", Category: domain.Equity},
		{ID: "acc_retained_earnings", Name: "Retained Earnings", Category: domain.Equity},
		{ID: "acc_salary", Name: "Salary", Category: domain.Revenue},
		{ID: "acc_rent", Name: "Rent", Category: domain.Expense},
	}}
}

func TestComputeBalances(t *testing.T) {
	entries := []domain.JournalEntry{
		entry(date(2024, 1, 5), "acc_cash", "acc_salary", "10000"),
		entry(date(2024, 2, 10), "acc_rent", "acc_cash", "3000"),
	}

	balances := ComputeBalances(entries, nil)
	assert.True(t, balances["acc_cash"].Equal(dec("7000")))
	assert.True(t, balances["acc_salary"].Equal(dec("-10000")))
	assert.True(t, balances["acc_rent"].Equal(dec("3000")))

	// asOf 过滤只保留时点之前的凭证
	asOf := date(2024, 1, 31)
	balances = ComputeBalances(entries, &asOf)
	assert.True(t, balances["acc_cash"].Equal(dec("10000")))
}

func TestProfitAndLossScenario(t *testing.T) {
	accounts := testCatalog()
	entries := &memEntryRepo{entries: []domain.JournalEntry{
		entry(date(2024, 1, 5), "acc_cash", "acc_salary", "10000"),
	}}
	svc := NewReportService(accounts, entries, "acc_retained_earnings")

	start, end := date(2024, 1, 1), date(2024, 1, 31)
	pl, err := svc.ProfitAndLoss(context.Background(), &start, &end)
	require.NoError(t, err)

	require.Len(t, pl.Revenues, 1)
	assert.Equal(t, "Salary", pl.Revenues[0].AccountName)
	assert.True(t, pl.Revenues[0].Amount.Equal(dec("10000")))
	assert.Empty(t, pl.Expenses)
	assert.True(t, pl.NetIncome.Equal(dec("10000")))

	// 期间外的凭证不计入
	before := date(2024, 1, 4)
	pl, err = svc.ProfitAndLoss(context.Background(), &start, &before)
	require.NoError(t, err)
	assert.True(t, pl.NetIncome.IsZero())
}

func TestBalanceSheetScenario(t *testing.T) {
	accounts := testCatalog()
	entries := &memEntryRepo{entries: []domain.JournalEntry{
		entry(date(2024, 1, 5), "acc_cash", "acc_salary", "10000"),
	}}
	svc := NewReportService(accounts, entries, "acc_retained_earnings")

	asOf := date(2024, 1, 31)
	bs, err := svc.BalanceSheet(context.Background(), &asOf)
	require.NoError(t, err)

	require.Len(t, bs.Assets, 1)
	assert.Equal(t, "Cash", bs.Assets[0].AccountName)
	assert.True(t, bs.Assets[0].Amount.Equal(dec("10000")))
	assert.True(t, bs.TotalAssets.Equal(dec("10000")))

	// 纯利润滚入留存收益
	var retained *ReportItem
	for i := range bs.Equity {
		if bs.Equity[i].AccountName == "Retained Earnings" {
			retained = &bs.Equity[i]
		}
	}
	require.NotNil(t, retained)
	assert.True(t, retained.Amount.Equal(dec("10000")))

	assert.True(t, bs.TotalLiabilitiesAndEquity.Equal(dec("10000")))
}

func TestBalanceSheetZeroBalanceVisibility(t *testing.T) {
	accounts := testCatalog()
	entries := &memEntryRepo{entries: []domain.JournalEntry{
		entry(date(2024, 2, 1), "acc_cash", "acc_capital", "5000"),
	}}
	svc := NewReportService(accounts, entries, "acc_retained_earnings")

	bs, err := svc.BalanceSheet(context.Background(), nil)
	require.NoError(t, err)

	// 零余额科目不展示，但权益科目零余额也列出
	names := func(items []ReportItem) []string {
		var out []string
		for _, it := range items {
			out = append(out, it.AccountName)
		}
		return out
	}
	assert.NotContains(t, names(bs.Liabilities), "Loan")
	assert.Contains(t, names(bs.Equity), "Retained Earnings")
	assert.Contains(t, names(bs.Equity), "Capital")
}

// 对任何自洽的凭证集合，任意时点都有 资产 = 负债 + 权益
func TestBalanceSheetIdentityHoldsAtEveryDate(t *testing.T) {
	accounts := testCatalog()
	entries := &memEntryRepo{entries: []domain.JournalEntry{
		entry(date(2024, 1, 1), "acc_cash", "acc_capital", "50000"),
		entry(date(2024, 1, 5), "acc_cash", "acc_salary", "10000"),
		entry(date(2024, 1, 10), "acc_rent", "acc_cash", "3000"),
		entry(date(2024, 2, 1), "acc_cash", "acc_loan", "20000"),
		entry(date(2024, 2, 14), "acc_rent", "acc_cash", "3000"),
		entry(date(2024, 3, 1), "acc_loan", "acc_cash", "1500.25"),
		entry(date(2024, 3, 5), "acc_cash", "acc_salary", "10000.75"),
	}}
	svc := NewReportService(accounts, entries, "acc_retained_earnings")

	for d := date(2023, 12, 31); d.Before(date(2024, 4, 1)); d = d.AddDate(0, 0, 7) {
		bs, err := svc.BalanceSheet(context.Background(), &d)
		require.NoError(t, err)
		assert.True(t, bs.TotalAssets.Equal(bs.TotalLiabilitiesAndEquity),
			"identity broken at %s: assets=%s liabilities+equity=%s",
			d.Format("2006-01-02"), bs.TotalAssets, bs.TotalLiabilitiesAndEquity)
	}
}
