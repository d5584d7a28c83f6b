package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sanoh-intern/be-finance-accounting/internal/clock"
	invoicedomain "github.com/sanoh-intern/be-finance-accounting/internal/invoice/domain"
	"github.com/sanoh-intern/be-finance-accounting/internal/reconcile"
)

type ledgerStub struct {
	records []reconcile.ReceiptRecord
	err     error
	ctxErr  bool
}

func (l *ledgerStub) FetchPaid(ctx context.Context, _, _ time.Time) ([]reconcile.ReceiptRecord, error) {
	if l.ctxErr {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return l.records, l.err
}

func newScheduler(t *testing.T, ledger reconcile.ReceiptLedger, cfg Config) (*Scheduler, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&invoicedomain.InvLine{}))

	node, err := snowflake.NewNode(7)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, 3, 12, 6, 0, 0, 0, time.UTC))
	syncer := reconcile.NewSyncer(reconcile.SyncerParam{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		Clock:  fake,
		Ledger: ledger,
	})

	sched, err := New(Params{
		Log:    zap.NewNop(),
		Clock:  fake,
		Syncer: syncer,
		Config: cfg,
	})
	require.NoError(t, err)
	return sched, db
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(Params{Log: zap.NewNop()})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	require.Equal(t, 24*time.Hour, cfg.RunInterval)
	require.Equal(t, 30*time.Minute, cfg.JobTimeout)

	cfg = Config{RunInterval: time.Hour, JobTimeout: time.Minute}.withDefaults()
	require.Equal(t, time.Hour, cfg.RunInterval)
	require.Equal(t, time.Minute, cfg.JobTimeout)
}

func TestRunOnceSyncsLedger(t *testing.T) {
	paidAt := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	ledger := &ledgerStub{records: []reconcile.ReceiptRecord{{
		PONo:             "PO-100",
		GRNo:             "GR-1",
		BPID:             "BP001",
		ApproveQty:       decimal.NewFromInt(10),
		ReceiptUnitPrice: decimal.NewFromInt(150),
		PaymentDocDate:   &paidAt,
	}}}
	sched, db := newScheduler(t, ledger, Config{})

	require.NoError(t, sched.RunOnce(context.Background()))

	var count int64
	require.NoError(t, db.Model(&invoicedomain.InvLine{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestRunOnceReportsJobFailure(t *testing.T) {
	ledger := &ledgerStub{err: errors.New("erp unreachable")}
	sched, _ := newScheduler(t, ledger, Config{})

	err := sched.RunOnce(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), jobSyncInvLines)
}

func TestRunOnceTreatsTimeoutAsSoftFailure(t *testing.T) {
	ledger := &ledgerStub{ctxErr: true}
	sched, _ := newScheduler(t, ledger, Config{JobTimeout: 10 * time.Millisecond})

	require.NoError(t, sched.RunOnce(context.Background()))
}
