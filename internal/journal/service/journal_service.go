package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/xxz807/assetbook/backend/internal/journal/domain"
)

// EntryRequest 凭证录入请求 DTO (Input)
type EntryRequest struct {
	Date            time.Time
	Description     string
	DebitAccountID  string
	CreditAccountID string
	Amount          decimal.Decimal
}

// JournalService 凭证录入与查询
type JournalService struct {
	db       *gorm.DB // 用于开启事务
	accounts domain.AccountRepository
	entries  domain.EntryRepository
}

func NewJournalService(db *gorm.DB, accounts domain.AccountRepository, entries domain.EntryRepository) *JournalService {
	return &JournalService{
		db:       db,
		accounts: accounts,
		entries:  entries,
	}
}

// PostEntry 入账：先校验后落库，校验失败不产生任何写入
func (s *JournalService) PostEntry(ctx context.Context, req EntryRequest) (*domain.JournalEntry, error) {
	entry := &domain.JournalEntry{
		ID:              "entry_" + uuid.NewString(),
		Date:            domain.DateOnly(req.Date),
		Description:     req.Description,
		DebitAccountID:  req.DebitAccountID,
		CreditAccountID: req.CreditAccountID,
		Amount:          req.Amount,
	}
	if err := s.validate(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.entries.Insert(ctx, s.db, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ReplaceEntry 整条替换指定凭证，借贷金额始终一起变
func (s *JournalService) ReplaceEntry(ctx context.Context, id string, req EntryRequest) (*domain.JournalEntry, error) {
	entry := &domain.JournalEntry{
		ID:              id,
		Date:            domain.DateOnly(req.Date),
		Description:     req.Description,
		DebitAccountID:  req.DebitAccountID,
		CreditAccountID: req.CreditAccountID,
		Amount:          req.Amount,
	}
	if err := s.validate(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.entries.Replace(ctx, id, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *JournalService) ListEntries(ctx context.Context, start, end *time.Time) ([]domain.JournalEntry, error) {
	return s.entries.ListByDateRange(ctx, start, end)
}

// validate 基础不变量 + 借贷科目都能在科目目录里解析
func (s *JournalService) validate(ctx context.Context, entry *domain.JournalEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	if _, err := s.accounts.FindByID(ctx, entry.DebitAccountID); err != nil {
		return err
	}
	if _, err := s.accounts.FindByID(ctx, entry.CreditAccountID); err != nil {
		return err
	}
	return nil
}
