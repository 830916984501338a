package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// 仓储端口定义。写操作显式接收事务会话 (tx *gorm.DB)，
// 由 service 层决定事务边界，适配器不得私自换连接

// AccountRepository 科目目录，只读消费
type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*Account, error)

	// List 返回全部科目，按名称稳定排序，报表迭代依赖这个顺序
	List(ctx context.Context) ([]Account, error)

	Create(ctx context.Context, account *Account) error
	Update(ctx context.Context, account *Account) error
}

// EntryRepository 凭证存储
// 要求 Insert/Replace 原子可见 (read-your-writes)，由数据库保证
type EntryRepository interface {
	Insert(ctx context.Context, tx *gorm.DB, entry *JournalEntry) error

	// Replace 整条替换，不支持部分字段更新
	Replace(ctx context.Context, id string, entry *JournalEntry) error

	FindByID(ctx context.Context, id string) (*JournalEntry, error)

	// ListByDateRange 起止均可为 nil，表示开区间
	ListByDateRange(ctx context.Context, start, end *time.Time) ([]JournalEntry, error)

	// ExistsByRuleAndDate 幂等性检查：该规则当天是否已生成过凭证
	ExistsByRuleAndDate(ctx context.Context, ruleID string, date time.Time) (bool, error)
}

// RuleRepository 定期规则存储
type RuleRepository interface {
	FindByID(ctx context.Context, id string) (*RecurringRule, error)
	ListActive(ctx context.Context) ([]RecurringRule, error)
	List(ctx context.Context) ([]RecurringRule, error)

	Create(ctx context.Context, rule *RecurringRule) error
	Update(ctx context.Context, rule *RecurringRule) error
	Delete(ctx context.Context, id string) error

	// MarkExecuted 字段级更新 last_executed_date，不整条覆盖，
	// 避免与外部管理端的规则编辑互相踩踏
	MarkExecuted(ctx context.Context, tx *gorm.DB, id string, date time.Time) error
}
