package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xxz807/assetbook/backend/internal/journal/domain"
	"github.com/xxz807/assetbook/backend/internal/journal/service"
)

const dateLayout = "2006-01-02"

type JournalHandler struct {
	journalSvc   *service.JournalService
	recurringSvc *service.RecurringService
	reportSvc    *service.ReportService
	accounts     domain.AccountRepository
}

func NewJournalHandler(
	journalSvc *service.JournalService,
	recurringSvc *service.RecurringService,
	reportSvc *service.ReportService,
	accounts domain.AccountRepository,
) *JournalHandler {
	return &JournalHandler{
		journalSvc:   journalSvc,
		recurringSvc: recurringSvc,
		reportSvc:    reportSvc,
		accounts:     accounts,
	}
}

// RegisterRoutes 注册路由
func (h *JournalHandler) RegisterRoutes(r *gin.RouterGroup) {
	journal := r.Group("/journal")
	{
		journal.POST("/entries", h.PostEntry)
		journal.PUT("/entries/:id", h.ReplaceEntry)
		journal.GET("/entries", h.ListEntries)
	}

	recurring := r.Group("/recurring")
	{
		recurring.GET("/rules", h.ListRules)
		recurring.POST("/rules", h.CreateRule)
		recurring.PUT("/rules/:id", h.UpdateRule)
		recurring.DELETE("/rules/:id", h.DeleteRule)
		recurring.POST("/rules/:id/execute", h.ExecuteOne)
		recurring.POST("/execute-due", h.ExecuteDue)
	}

	reports := r.Group("/reports")
	{
		reports.GET("/balance-sheet", h.BalanceSheet)
		reports.GET("/profit-and-loss", h.ProfitAndLoss)
	}

	accounts := r.Group("/accounts")
	{
		accounts.GET("", h.ListAccounts)
		accounts.POST("", h.CreateAccount)
		accounts.PUT("/:id", h.UpdateAccount)
	}
}

// ---------- journal ----------

// PostEntry 凭证入账
// POST /api/v1/journal/entries
func (h *JournalHandler) PostEntry(c *gin.Context) {
	req, ok := bindEntryReq(c)
	if !ok {
		return
	}
	entry, err := h.journalSvc.PostEntry(c.Request.Context(), *req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toEntryResp(*entry))
}

// ReplaceEntry 整条替换凭证
// PUT /api/v1/journal/entries/:id
func (h *JournalHandler) ReplaceEntry(c *gin.Context) {
	req, ok := bindEntryReq(c)
	if !ok {
		return
	}
	entry, err := h.journalSvc.ReplaceEntry(c.Request.Context(), c.Param("id"), *req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEntryResp(*entry))
}

// ListEntries 按日期范围查询凭证
// GET /api/v1/journal/entries?start_date=&end_date=
func (h *JournalHandler) ListEntries(c *gin.Context) {
	start, ok := optionalDate(c, "start_date")
	if !ok {
		return
	}
	end, ok := optionalDate(c, "end_date")
	if !ok {
		return
	}
	entries, err := h.journalSvc.ListEntries(c.Request.Context(), start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]EntryResp, len(entries))
	for i, e := range entries {
		resp[i] = toEntryResp(e)
	}
	c.JSON(http.StatusOK, resp)
}

// ---------- recurring ----------

func (h *JournalHandler) ListRules(c *gin.Context) {
	rules, err := h.recurringSvc.ListRules(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]RuleResp, len(rules))
	for i := range rules {
		resp[i] = toRuleResp(&rules[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JournalHandler) CreateRule(c *gin.Context) {
	rule, ok := bindRuleReq(c)
	if !ok {
		return
	}
	created, err := h.recurringSvc.CreateRule(c.Request.Context(), rule)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRuleResp(created))
}

func (h *JournalHandler) UpdateRule(c *gin.Context) {
	rule, ok := bindRuleReq(c)
	if !ok {
		return
	}
	rule.ID = c.Param("id")
	updated, err := h.recurringSvc.UpdateRule(c.Request.Context(), rule)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRuleResp(updated))
}

func (h *JournalHandler) DeleteRule(c *gin.Context) {
	if err := h.recurringSvc.DeleteRule(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recurring rule deleted"})
}

// ExecuteOne 手动执行单条规则
// POST /api/v1/recurring/rules/:id/execute
func (h *JournalHandler) ExecuteOne(c *gin.Context) {
	var req ExecuteOneReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date: " + req.Date})
			return
		}
		date = parsed
	}

	var override *decimal.Decimal
	if req.Amount != "" {
		amt, err := decimal.NewFromString(req.Amount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount format: " + req.Amount})
			return
		}
		override = &amt
	}

	entry, err := h.recurringSvc.ExecuteOne(c.Request.Context(), c.Param("id"), date, override, req.Force)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toEntryResp(*entry))
}

// ExecuteDue 批量执行当日到期规则
// POST /api/v1/recurring/execute-due
func (h *JournalHandler) ExecuteDue(c *gin.Context) {
	var req ExecuteDueReq
	// body 可以整个省略
	_ = c.ShouldBindJSON(&req)

	asOf := time.Now()
	if req.AsOf != "" {
		parsed, err := time.Parse(dateLayout, req.AsOf)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid as_of: " + req.AsOf})
			return
		}
		asOf = parsed
	}

	result, err := h.recurringSvc.ExecuteDue(c.Request.Context(), asOf)
	if err != nil {
		writeError(c, err)
		return
	}

	created := make([]EntryResp, len(result.Created))
	for i, e := range result.Created {
		created[i] = toEntryResp(e)
	}
	c.JSON(http.StatusOK, gin.H{
		"executed_count": result.ExecutedCount,
		"created":        created,
		"errors":         result.Errors,
	})
}

// ---------- reports ----------

// BalanceSheet 贷借对照表
// GET /api/v1/reports/balance-sheet?date=
func (h *JournalHandler) BalanceSheet(c *gin.Context) {
	asOf, ok := optionalDate(c, "date")
	if !ok {
		return
	}
	bs, err := h.reportSvc.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bs)
}

// ProfitAndLoss 损益计算书
// GET /api/v1/reports/profit-and-loss?start_date=&end_date=
func (h *JournalHandler) ProfitAndLoss(c *gin.Context) {
	start, ok := optionalDate(c, "start_date")
	if !ok {
		return
	}
	end, ok := optionalDate(c, "end_date")
	if !ok {
		return
	}
	pl, err := h.reportSvc.ProfitAndLoss(c.Request.Context(), start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pl)
}

// ---------- accounts ----------

func (h *JournalHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.accounts.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]AccountResp, len(accounts))
	for i, a := range accounts {
		resp[i] = AccountResp{ID: a.ID, Name: a.Name, Category: a.Category.String()}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JournalHandler) CreateAccount(c *gin.Context) {
	var req AccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	category, _ := domain.ParseCategory(req.Category)
	account := &domain.Account{
		ID:       "acc_" + uuid.NewString(),
		Name:     req.Name,
		Category: category,
	}
	if err := h.accounts.Create(c.Request.Context(), account); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, AccountResp{ID: account.ID, Name: account.Name, Category: account.Category.String()})
}

func (h *JournalHandler) UpdateAccount(c *gin.Context) {
	var req AccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	category, _ := domain.ParseCategory(req.Category)
	account := &domain.Account{
		ID:       c.Param("id"),
		Name:     req.Name,
		Category: category,
	}
	if err := h.accounts.Update(c.Request.Context(), account); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, AccountResp{ID: account.ID, Name: account.Name, Category: account.Category.String()})
}

// ---------- helpers ----------

// writeError 按错误分类映射状态码
// 校验 422，未找到 404，当天已执行 409，其余一律 500
func writeError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAlreadyExecuted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func optionalDate(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + ": " + raw})
		return nil, false
	}
	return &parsed, true
}

func bindEntryReq(c *gin.Context) (*service.EntryRequest, bool) {
	var req PostEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return nil, false
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date: " + req.Date})
		return nil, false
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount format: " + req.Amount})
		return nil, false
	}
	return &service.EntryRequest{
		Date:            date,
		Description:     req.Description,
		DebitAccountID:  req.DebitAccountID,
		CreditAccountID: req.CreditAccountID,
		Amount:          amount,
	}, true
}

func bindRuleReq(c *gin.Context) (*domain.RecurringRule, bool) {
	var req RuleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return nil, false
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date: " + req.StartDate})
		return nil, false
	}

	rule := &domain.RecurringRule{
		Name:              req.Name,
		Description:       req.Description,
		DebitAccountID:    req.DebitAccountID,
		CreditAccountID:   req.CreditAccountID,
		Frequency:         domain.Frequency(req.Frequency),
		ExcludeWeekends:   req.ExcludeWeekends,
		DayOfMonth:        req.DayOfMonth,
		MonthDay:          req.MonthDay,
		HolidayAdjustment: domain.AdjustNone,
		StartDate:         domain.DateOnly(startDate),
		Active:            true,
	}
	if req.HolidayAdjustment != "" {
		rule.HolidayAdjustment = domain.HolidayAdjustment(req.HolidayAdjustment)
	}
	if req.Active != nil {
		rule.Active = *req.Active
	}
	if req.Amount != "" {
		amt, err := decimal.NewFromString(req.Amount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount format: " + req.Amount})
			return nil, false
		}
		rule.Amount = &amt
	}
	if req.EndDate != "" {
		endDate, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date: " + req.EndDate})
			return nil, false
		}
		d := domain.DateOnly(endDate)
		rule.EndDate = &d
	}
	for _, name := range req.Weekdays {
		day, ok := domain.ParseWeekday(name)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid weekday: " + name})
			return nil, false
		}
		rule.Weekdays = rule.Weekdays.With(day)
	}

	return rule, true
}

func toEntryResp(e domain.JournalEntry) EntryResp {
	return EntryResp{
		ID:              e.ID,
		Date:            e.Date.Format(dateLayout),
		Description:     e.Description,
		DebitAccountID:  e.DebitAccountID,
		CreditAccountID: e.CreditAccountID,
		Amount:          e.Amount.String(),
		SourceRuleID:    e.SourceRuleID,
	}
}

func toRuleResp(r *domain.RecurringRule) RuleResp {
	resp := RuleResp{
		ID:                r.ID,
		Name:              r.Name,
		Description:       r.Description,
		DebitAccountID:    r.DebitAccountID,
		CreditAccountID:   r.CreditAccountID,
		Frequency:         string(r.Frequency),
		ExcludeWeekends:   r.ExcludeWeekends,
		DayOfMonth:        r.DayOfMonth,
		MonthDay:          r.MonthDay,
		HolidayAdjustment: string(r.HolidayAdjustment),
		StartDate:         r.StartDate.Format(dateLayout),
		Active:            r.Active,
	}
	if r.Amount != nil {
		s := r.Amount.String()
		resp.Amount = &s
	}
	for _, d := range r.Weekdays.Weekdays() {
		resp.Weekdays = append(resp.Weekdays, d.String())
	}
	if r.EndDate != nil {
		s := r.EndDate.Format(dateLayout)
		resp.EndDate = &s
	}
	if r.LastExecutedDate != nil {
		s := r.LastExecutedDate.Format(dateLayout)
		resp.LastExecutedDate = &s
	}
	if next := r.NextFireDate(time.Now()); next != nil {
		s := next.Format(dateLayout)
		resp.NextFireDate = &s
	}
	return resp
}
