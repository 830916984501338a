package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/xxz807/assetbook/backend/internal/journal/domain"
)

// 规则的增删改查。last_executed_date 不在这里变，只归执行路径

func (s *RecurringService) CreateRule(ctx context.Context, rule *domain.RecurringRule) (*domain.RecurringRule, error) {
	rule.ID = "reg_" + uuid.NewString()
	rule.LastExecutedDate = nil
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.accounts.FindByID(ctx, rule.DebitAccountID); err != nil {
		return nil, err
	}
	if _, err := s.accounts.FindByID(ctx, rule.CreditAccountID); err != nil {
		return nil, err
	}
	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *RecurringService) UpdateRule(ctx context.Context, rule *domain.RecurringRule) (*domain.RecurringRule, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.accounts.FindByID(ctx, rule.DebitAccountID); err != nil {
		return nil, err
	}
	if _, err := s.accounts.FindByID(ctx, rule.CreditAccountID); err != nil {
		return nil, err
	}
	if err := s.rules.Update(ctx, rule); err != nil {
		return nil, err
	}
	return s.rules.FindByID(ctx, rule.ID)
}

func (s *RecurringService) DeleteRule(ctx context.Context, id string) error {
	return s.rules.Delete(ctx, id)
}

func (s *RecurringService) ListRules(ctx context.Context) ([]domain.RecurringRule, error) {
	return s.rules.List(ctx)
}

func (s *RecurringService) GetRule(ctx context.Context, id string) (*domain.RecurringRule, error) {
	return s.rules.FindByID(ctx, id)
}
