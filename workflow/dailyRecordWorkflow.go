package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/mmdatafocus/dailycash_backend/config"
	"github.com/mmdatafocus/dailycash_backend/models"
	"github.com/mmdatafocus/dailycash_backend/reconciliation"
	"github.com/mmdatafocus/dailycash_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("dailycash-workflow")

const dailyRecordLockTTL = 30 * time.Second

// DailyRecordService orchestrates daily record writes over a models.Store.
type DailyRecordService struct {
	store      models.Store
	logger     *logrus.Logger
	locker     func() *redislock.Client
	now        func() time.Time
	fixedFloat decimal.Decimal
}

type Option func(*DailyRecordService)

func WithLogger(logger *logrus.Logger) Option {
	return func(s *DailyRecordService) { s.logger = logger }
}

// WithLocker sets the redis locker used to serialize creates per date; nil disables it.
func WithLocker(locker *redislock.Client) Option {
	return func(s *DailyRecordService) {
		s.locker = func() *redislock.Client { return locker }
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *DailyRecordService) { s.now = now }
}

func WithDefaultFixedFloat(amount decimal.Decimal) Option {
	return func(s *DailyRecordService) { s.fixedFloat = amount }
}

func NewDailyRecordService(store models.Store, opts ...Option) *DailyRecordService {
	s := &DailyRecordService{
		store:      store,
		logger:     config.GetLogger(),
		locker:     config.GetRedisLock,
		now:        time.Now,
		fixedFloat: config.DefaultFixedFloat(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type PreviewResult struct {
	Date                  utils.DateString       `json:"date"`
	DayName               string                 `json:"day_name"`
	FixedFloat            decimal.Decimal        `json:"fixed_float"`
	PettyCashExpenseTotal decimal.Decimal        `json:"petty_cash_expense_total"`
	Derived               reconciliation.Derived `json:"derived"`
}

// SavedRecord is returned by Create and Update.
type SavedRecord struct {
	ID      int                      `json:"id"`
	Entry   *reconciliation.Entry    `json:"entry"`
	Changes reconciliation.ChangeSet `json:"changes,omitempty"`
}

// DailyRecordView is a stored record with its snapshot and the live petty cash sum.
type DailyRecordView struct {
	ID            int                   `json:"id"`
	Entry         *reconciliation.Entry `json:"entry"`
	PettyCashLive decimal.Decimal       `json:"petty_cash_live"`
	Stale         bool                  `json:"stale"`
	AuditLogs     []*models.AuditLog    `json:"audit_logs"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *DailyRecordService) withDefaults(form reconciliation.Form) reconciliation.Form {
	if form.FixedFloat.IsBlank() {
		form.FixedFloat = reconciliation.AmountInput(utils.FormatAmount(s.fixedFloat))
	}
	return form
}

// pettyCashFor is zero for an unparsable date; the hard checks report the date later.
func (s *DailyRecordService) pettyCashFor(ctx context.Context, rawDate string) (utils.DateString, decimal.Decimal, error) {
	date, err := utils.ParseDateString(rawDate)
	if err != nil {
		return "", decimal.Zero, nil
	}
	sum, err := s.store.QueryPettyCashSum(ctx, date)
	if err != nil {
		return date, decimal.Zero, err
	}
	return date, sum, nil
}

// Preview recomputes the derived figures for a form in progress. It never
// fails on unparsable amounts.
func (s *DailyRecordService) Preview(ctx context.Context, form reconciliation.Form) (*PreviewResult, error) {
	ctx, span := tracer.Start(ctx, "DailyRecordService.Preview")
	var err error
	defer func() { endSpan(span, err) }()

	form = s.withDefaults(form)
	date, pettyCash, err := s.pettyCashFor(ctx, form.Date)
	if err != nil {
		return nil, err
	}
	result := &PreviewResult{
		Date:                  date,
		FixedFloat:            form.FixedFloat.Lenient(),
		PettyCashExpenseTotal: pettyCash,
		Derived:               reconciliation.ComputeDerived(reconciliation.PreviewInputs(form, pettyCash)),
	}
	if !date.IsZero() {
		result.DayName, _ = date.DayName()
	}
	return result, nil
}

// obtainLock is best-effort: without redis, or when the lock is held, the create proceeds.
func (s *DailyRecordService) obtainLock(ctx context.Context, date utils.DateString) *redislock.Lock {
	locker := s.locker()
	if locker == nil || date.IsZero() {
		return nil
	}
	lock, err := locker.Obtain(ctx, "DailyRecord:"+date.String(), dailyRecordLockTTL, nil)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"field": "DailyRecordService.Create",
			"date":  date,
		}).Warn("could not obtain redis lock; proceeding without redis lock: " + err.Error())
		return nil
	}
	return lock
}

// Create validates the form, asking confirmer for every soft warning, and
// stores the record with its line items in one transaction. The CREATE audit
// entry is written after commit; its failure is logged only.
func (s *DailyRecordService) Create(ctx context.Context, form reconciliation.Form, confirmer reconciliation.Confirmer) (*SavedRecord, error) {
	ctx, span := tracer.Start(ctx, "DailyRecordService.Create")
	var err error
	defer func() { endSpan(span, err) }()

	form = s.withDefaults(form)
	date, pettyCash, err := s.pettyCashFor(ctx, form.Date)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("daily_record.date", date.String()))

	if lock := s.obtainLock(ctx, date); lock != nil {
		defer func() {
			if releaseErr := lock.Release(context.WithoutCancel(ctx)); releaseErr != nil {
				s.logger.WithField("date", date).Warn("failed to release redis lock: " + releaseErr.Error())
			}
		}()
	}

	exists := false
	if !date.IsZero() {
		exists, err = s.store.DailyRecordExists(ctx, date)
		if err != nil {
			return nil, err
		}
	}

	entry, err := reconciliation.ValidateForSave(ctx, form, pettyCash, exists, confirmer, s.now())
	if err != nil {
		return nil, err
	}

	var id int
	err = s.store.Transaction(ctx, func(tx models.Store) error {
		var txErr error
		id, txErr = tx.InsertDailyRecord(ctx, entry.Date, entry.DayName)
		if txErr != nil {
			return txErr
		}
		return tx.InsertLineItems(ctx, id, entry.LineItems(), entry.ComputedAt)
	})
	if err != nil {
		config.LogError(s.logger, "dailyRecordWorkflow.go", "Create", "Transaction", entry.Date, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("daily_record.id", id))

	s.appendAudit(ctx, "Create", id, models.AuditActionCreate, entry.AuditPayload())
	return &SavedRecord{ID: id, Entry: entry}, nil
}

// CreateWarnings lists every soft warning a create of form would raise, or
// the hard validation error that stops it first.
func (s *DailyRecordService) CreateWarnings(ctx context.Context, form reconciliation.Form) ([]reconciliation.Warning, error) {
	form = s.withDefaults(form)
	date, pettyCash, err := s.pettyCashFor(ctx, form.Date)
	if err != nil {
		return nil, err
	}
	entry, err := reconciliation.ParseForm(form, pettyCash, s.now())
	if err != nil {
		return nil, err
	}
	exists, err := s.store.DailyRecordExists(ctx, date)
	if err != nil {
		return nil, err
	}
	return reconciliation.PendingWarnings(entry, exists), nil
}

// Update diffs the form against the stored record and rewrites every line
// item, recomputing the derived rows. Petty cash is fetched again for the
// (possibly new) date.
func (s *DailyRecordService) Update(ctx context.Context, id int, form reconciliation.Form, confirmer reconciliation.Confirmer) (*SavedRecord, error) {
	ctx, span := tracer.Start(ctx, "DailyRecordService.Update", trace.WithAttributes(attribute.Int("daily_record.id", id)))
	var err error
	defer func() { endSpan(span, err) }()

	record, err := s.store.GetDailyRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	original := record.Entry()

	_, pettyCash, err := s.pettyCashFor(ctx, form.Date)
	if err != nil {
		return nil, err
	}
	changed, err := reconciliation.ParseForm(form, pettyCash, s.now())
	if err != nil {
		return nil, err
	}
	changes, err := reconciliation.ApplyEdit(original, changed)
	if err != nil {
		return nil, err
	}
	if err = reconciliation.ConfirmEdit(ctx, changes, confirmer); err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx models.Store) error {
		if changes.DateChanged() {
			if txErr := tx.UpdateRecordDate(ctx, id, changed.Date, changed.DayName); txErr != nil {
				return txErr
			}
		}
		for _, item := range changed.LineItems() {
			if txErr := tx.UpdateLineItem(ctx, id, item, changed.ComputedAt); txErr != nil {
				return fmt.Errorf("update %s %s: %w", item.Kind, item.Key, txErr)
			}
		}
		return nil
	})
	if err != nil {
		config.LogError(s.logger, "dailyRecordWorkflow.go", "Update", "Transaction", id, err)
		return nil, err
	}

	s.appendAudit(ctx, "Update", id, models.AuditActionUpdate, changes)
	return &SavedRecord{ID: id, Entry: changed, Changes: changes}, nil
}

// Delete records the DELETE audit entry first, then removes the record with
// its line items and audit trail. An audit failure does not stop the delete.
func (s *DailyRecordService) Delete(ctx context.Context, id int) error {
	ctx, span := tracer.Start(ctx, "DailyRecordService.Delete", trace.WithAttributes(attribute.Int("daily_record.id", id)))
	var err error
	defer func() { endSpan(span, err) }()

	record, err := s.store.GetDailyRecord(ctx, id)
	if err != nil {
		return err
	}

	payload := map[string]interface{}{"deleted_record": record.Entry().AuditPayload()}
	s.appendAudit(ctx, "Delete", id, models.AuditActionDelete, payload)

	if err = s.store.DeleteRecord(ctx, id); err != nil {
		config.LogError(s.logger, "dailyRecordWorkflow.go", "Delete", "DeleteRecord", id, err)
		return err
	}
	return nil
}

func (s *DailyRecordService) Get(ctx context.Context, id int) (*DailyRecordView, error) {
	record, err := s.store.GetDailyRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, record)
}

// List returns records in range, or the latest ones when filter.Latest is set.
func (s *DailyRecordService) List(ctx context.Context, filter models.DailyRecordFilter) ([]*DailyRecordView, error) {
	records, err := s.store.ListDailyRecords(ctx, filter)
	if err != nil {
		return nil, err
	}
	results := make([]*DailyRecordView, 0, len(records))
	for _, record := range records {
		v, err := s.view(ctx, record)
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return results, nil
}

func (s *DailyRecordService) view(ctx context.Context, record *models.DailyRecord) (*DailyRecordView, error) {
	entry := record.Entry()
	live, err := s.store.QueryPettyCashSum(ctx, record.Date)
	if err != nil {
		return nil, err
	}
	return &DailyRecordView{
		ID:            record.ID,
		Entry:         entry,
		PettyCashLive: live,
		Stale:         utils.FormatAmount(live) != utils.FormatAmount(entry.PettyCashExpenseTotal),
		AuditLogs:     record.AuditLogs,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}, nil
}

// appendAudit logs encoding and store failures; neither fails the operation.
func (s *DailyRecordService) appendAudit(ctx context.Context, funcName string, recordId int, action models.AuditAction, changes interface{}) {
	entry, err := models.NewAuditLog(recordId, action, utils.ActorFromContext(ctx), changes)
	if err != nil {
		config.LogError(s.logger, "dailyRecordWorkflow.go", funcName, "NewAuditLog", recordId, err)
		return
	}
	if err := s.store.AppendAuditEntry(ctx, entry); err != nil {
		config.LogError(s.logger, "dailyRecordWorkflow.go", funcName, "AppendAuditEntry", recordId, err)
	}
}

// IsNotFound reports a missing daily record.
func IsNotFound(err error) bool {
	return errors.Is(err, utils.ErrorRecordNotFound)
}
