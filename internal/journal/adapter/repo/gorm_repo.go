package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xxz807/assetbook/backend/internal/journal/domain"
)

// gorm 实现的仓储适配器，postgres 与测试用的 sqlite 共用同一套

type GormAccountRepo struct {
	db *gorm.DB
}

func NewAccountRepo(db *gorm.DB) *GormAccountRepo {
	return &GormAccountRepo{db: db}
}

func (r *GormAccountRepo) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundf("account %s", id)
		}
		return nil, err
	}
	return &account, nil
}

func (r *GormAccountRepo) List(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	// 报表按这个顺序迭代科目，保持稳定
	if err := r.db.WithContext(ctx).Order("name, id").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *GormAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *GormAccountRepo) Update(ctx context.Context, account *domain.Account) error {
	result := r.db.WithContext(ctx).Model(&domain.Account{}).
		Where("id = ?", account.ID).
		Updates(map[string]interface{}{
			"name":     account.Name,
			"category": account.Category,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundf("account %s", account.ID)
	}
	return nil
}

// ---------------------------------------------------------

type GormEntryRepo struct {
	db *gorm.DB
}

func NewEntryRepo(db *gorm.DB) *GormEntryRepo {
	return &GormEntryRepo{db: db}
}

func (r *GormEntryRepo) Insert(ctx context.Context, tx *gorm.DB, entry *domain.JournalEntry) error {
	// 注意：必须使用传入的事务会话，执行器靠它和 MarkExecuted 同生共死
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(entry).Error
}

func (r *GormEntryRepo) Replace(ctx context.Context, id string, entry *domain.JournalEntry) error {
	// 整条替换：凭证逻辑上不可变，不允许只改借方或贷方
	result := r.db.WithContext(ctx).Model(&domain.JournalEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"date":              entry.Date,
			"description":       entry.Description,
			"debit_account_id":  entry.DebitAccountID,
			"credit_account_id": entry.CreditAccountID,
			"amount":            entry.Amount,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundf("journal entry %s", id)
	}
	return nil
}

func (r *GormEntryRepo) FindByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	var entry domain.JournalEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundf("journal entry %s", id)
		}
		return nil, err
	}
	return &entry, nil
}

func (r *GormEntryRepo) ListByDateRange(ctx context.Context, start, end *time.Time) ([]domain.JournalEntry, error) {
	q := r.db.WithContext(ctx).Model(&domain.JournalEntry{})
	if start != nil {
		q = q.Where("date >= ?", domain.DateOnly(*start))
	}
	if end != nil {
		q = q.Where("date <= ?", domain.DateOnly(*end))
	}
	var entries []domain.JournalEntry
	if err := q.Order("date, id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *GormEntryRepo) ExistsByRuleAndDate(ctx context.Context, ruleID string, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.JournalEntry{}).
		Where("source_rule_id = ? AND date = ?", ruleID, domain.DateOnly(date)).
		Count(&count).Error
	return count > 0, err
}

// ---------------------------------------------------------

type GormRuleRepo struct {
	db *gorm.DB
}

func NewRuleRepo(db *gorm.DB) *GormRuleRepo {
	return &GormRuleRepo{db: db}
}

func (r *GormRuleRepo) FindByID(ctx context.Context, id string) (*domain.RecurringRule, error) {
	var rule domain.RecurringRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundf("recurring rule %s", id)
		}
		return nil, err
	}
	return &rule, nil
}

func (r *GormRuleRepo) ListActive(ctx context.Context) ([]domain.RecurringRule, error) {
	var rules []domain.RecurringRule
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("start_date desc, id").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *GormRuleRepo) List(ctx context.Context) ([]domain.RecurringRule, error) {
	var rules []domain.RecurringRule
	if err := r.db.WithContext(ctx).Order("start_date desc, id").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *GormRuleRepo) Create(ctx context.Context, rule *domain.RecurringRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *GormRuleRepo) Update(ctx context.Context, rule *domain.RecurringRule) error {
	// 不覆盖 last_executed_date，那一列只归执行器管
	result := r.db.WithContext(ctx).Model(&domain.RecurringRule{}).
		Where("id = ?", rule.ID).
		Updates(map[string]interface{}{
			"name":               rule.Name,
			"description":        rule.Description,
			"debit_account_id":   rule.DebitAccountID,
			"credit_account_id":  rule.CreditAccountID,
			"amount":             rule.Amount,
			"frequency":          rule.Frequency,
			"weekdays":           rule.Weekdays,
			"exclude_weekends":   rule.ExcludeWeekends,
			"day_of_month":       rule.DayOfMonth,
			"month_day":          rule.MonthDay,
			"holiday_adjustment": rule.HolidayAdjustment,
			"start_date":         rule.StartDate,
			"end_date":           rule.EndDate,
			"active":             rule.Active,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundf("recurring rule %s", rule.ID)
	}
	return nil
}

func (r *GormRuleRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.RecurringRule{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundf("recurring rule %s", id)
	}
	return nil
}

// MarkExecuted 字段级更新执行标记
// 关键点：没有行被更新说明规则已被并发删除，让整个事务回滚
func (r *GormRuleRepo) MarkExecuted(ctx context.Context, tx *gorm.DB, id string, date time.Time) error {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).Model(&domain.RecurringRule{}).
		Where("id = ?", id).
		Update("last_executed_date", domain.DateOnly(date))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundf("recurring rule %s", id)
	}
	return nil
}
