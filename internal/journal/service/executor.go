package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xxz807/assetbook/backend/internal/journal/domain"
)

// RuleError 批量执行中单条规则的失败记录
type RuleError struct {
	RuleID  string `json:"rule_id"`
	Message string `json:"message"`
}

// BatchResult 批量执行结果：成功生成的凭证和失败明细放在同一个响应里
type BatchResult struct {
	ExecutedCount int                   `json:"executed_count"`
	Created       []domain.JournalEntry `json:"created"`
	Errors        []RuleError           `json:"errors"`
}

// RecurringService 定期交易执行器
// 本核心唯一有并发风险的操作在这里：落账 + 更新执行标记
// 必须在一个数据库事务里完成，否则两个触发源赛跑会产生重复凭证
type RecurringService struct {
	db       *gorm.DB
	rules    domain.RuleRepository
	entries  domain.EntryRepository
	accounts domain.AccountRepository
	logger   *zap.Logger
}

func NewRecurringService(
	db *gorm.DB,
	rules domain.RuleRepository,
	entries domain.EntryRepository,
	accounts domain.AccountRepository,
	logger *zap.Logger,
) *RecurringService {
	return &RecurringService{
		db:       db,
		rules:    rules,
		entries:  entries,
		accounts: accounts,
		logger:   logger,
	}
}

// ExecuteOne 手动执行单条规则
// force=false 时同一天重复执行返回 ErrAlreadyExecuted；
// amountOverride 覆盖规则金额，动态金额规则必须传
func (s *RecurringService) ExecuteOne(
	ctx context.Context,
	ruleID string,
	date time.Time,
	amountOverride *decimal.Decimal,
	force bool,
) (*domain.JournalEntry, error) {
	rule, err := s.rules.FindByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, rule, date, amountOverride, force, false)
}

// ExecuteDue 批量执行当日到期的所有活跃规则
// 单条规则失败只记入 errors 列表，不中断整个批次；
// 当天已执行过的规则静默跳过，不算失败
func (s *RecurringService) ExecuteDue(ctx context.Context, asOf time.Time) (*BatchResult, error) {
	day := domain.DateOnly(asOf)

	rules, err := s.rules.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{
		Created: []domain.JournalEntry{},
		Errors:  []RuleError{},
	}

	for i := range rules {
		rule := &rules[i]
		if !rule.FiresOn(day) {
			continue
		}

		entry, err := s.execute(ctx, rule, day, nil, false, true)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExecuted) {
				// 软性条件：批量里跳过即可
				continue
			}
			s.logger.Warn("recurring rule execution failed",
				zap.String("rule_id", rule.ID),
				zap.String("rule_name", rule.Name),
				zap.Error(err),
			)
			result.Errors = append(result.Errors, RuleError{RuleID: rule.ID, Message: err.Error()})
			continue
		}

		result.Created = append(result.Created, *entry)
		result.ExecutedCount++
	}

	s.logger.Info("recurring batch finished",
		zap.Time("as_of", day),
		zap.Int("executed", result.ExecutedCount),
		zap.Int("failed", len(result.Errors)),
	)
	return result, nil
}

// execute 单条规则的执行主体
func (s *RecurringService) execute(
	ctx context.Context,
	rule *domain.RecurringRule,
	date time.Time,
	amountOverride *decimal.Decimal,
	force bool,
	batch bool,
) (*domain.JournalEntry, error) {
	day := domain.DateOnly(date)

	// 幂等性检查 (快速失败)：执行标记 + 当天凭证两道闸
	if !force {
		if rule.LastExecutedDate != nil && domain.DateOnly(*rule.LastExecutedDate).Equal(day) {
			return nil, domain.ErrAlreadyExecuted
		}
		exists, err := s.entries.ExistsByRuleAndDate(ctx, rule.ID, day)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrAlreadyExecuted
		}
	}

	// 金额解析：覆盖值优先，都没有就是校验错误，发生在任何写入之前
	amount := amountOverride
	if amount == nil {
		amount = rule.Amount
	}
	if amount == nil {
		return nil, domain.NewValidationError("rule has no amount and no override was supplied")
	}

	entry := &domain.JournalEntry{
		ID:              "entry_" + uuid.NewString(),
		Date:            day,
		Description:     rule.Description,
		DebitAccountID:  rule.DebitAccountID,
		CreditAccountID: rule.CreditAccountID,
		Amount:          *amount,
		SourceRuleID:    &rule.ID,
	}
	if entry.Description == "" {
		entry.Description = rule.Name
	}
	if batch {
		// 自动执行生成的凭证打上标记，一眼能和手工凭证区分开
		entry.Description = "[定期] " + entry.Description
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.accounts.FindByID(ctx, entry.DebitAccountID); err != nil {
		return nil, err
	}
	if _, err := s.accounts.FindByID(ctx, entry.CreditAccountID); err != nil {
		return nil, err
	}

	// 落账和更新执行标记是一个逻辑事务，
	// 任何一步失败整体回滚，不留下 "已落账未标记" 的重复风险窗口
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.entries.Insert(ctx, tx, entry); err != nil {
			return err
		}
		if err := s.rules.MarkExecuted(ctx, tx, rule.ID, day); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rule.LastExecutedDate = &day
	return entry, nil
}
