package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khata-app/khata-backend/internal/apperrors"
	"github.com/khata-app/khata-backend/internal/core/domain"
	portsrepo "github.com/khata-app/khata-backend/internal/core/ports/repositories"
	"github.com/khata-app/khata-backend/internal/core/services"
	"github.com/khata-app/khata-backend/internal/dto"
	"github.com/khata-app/khata-backend/internal/utils/pagination"
)

var errInsertFailed = errors.New("simulated insert failure")

// fakeLedgerStore is an in-memory TransactionRepositoryFacade that mirrors
// the atomic semantics of the real repository: each record/reverse either
// applies the aggregate update and the row change together or leaves the
// store untouched. It lets the invariant tests drive the real service
// through many operations without a database.
type fakeLedgerStore struct {
	mu         sync.Mutex
	customers  map[string]*domain.Customer
	txns       map[string]domain.Transaction
	failInsert bool
}

var _ portsrepo.TransactionRepositoryFacade = (*fakeLedgerStore)(nil)

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{
		customers: make(map[string]*domain.Customer),
		txns:      make(map[string]domain.Transaction),
	}
}

func (s *fakeLedgerStore) addCustomer(c domain.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cc := c
	s.customers[c.CustomerID] = &cc
}

func (s *fakeLedgerStore) customerSnapshot(customerID string) domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.customers[customerID]
}

func (s *fakeLedgerStore) RecordTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[txn.CustomerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if s.failInsert {
		// The unit of work fails as a whole; no aggregate may move.
		return nil, errInsertFailed
	}

	c.Balance = c.Balance.Add(txn.Delta())
	c.TotalDue = c.TotalDue.Add(txn.Due)
	c.TotalPayment = c.TotalPayment.Add(txn.Payment)
	c.UpdatedAt = txn.CreatedAt

	txn.BalanceAfter = c.Balance
	snapshot := *c
	txn.Customer = &snapshot
	s.txns[txn.TransactionID] = txn

	out := txn
	return &out, nil
}

func (s *fakeLedgerStore) ReverseTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn, ok := s.txns[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	c := s.customers[txn.CustomerID]
	c.Balance = c.Balance.Sub(txn.Delta())
	c.TotalDue = c.TotalDue.Sub(txn.Due)
	c.TotalPayment = c.TotalPayment.Sub(txn.Payment)
	delete(s.txns, transactionID)

	return &txn, nil
}

func (s *fakeLedgerStore) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn, ok := s.txns[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

func (s *fakeLedgerStore) FindTransactionsByCustomerID(ctx context.Context, customerID string) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Transaction
	for _, txn := range s.txns {
		if txn.CustomerID == customerID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (s *fakeLedgerStore) ListTransactions(ctx context.Context, p pagination.Params) ([]domain.Transaction, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Transaction, 0, len(s.txns))
	for _, txn := range s.txns {
		out = append(out, txn)
	}
	return out, int64(len(out)), nil
}

func newLedgerFixture(t *testing.T, openingBalance string) (*fakeLedgerStore, string) {
	t.Helper()
	store := newFakeLedgerStore()
	customerID := uuid.NewString()
	store.addCustomer(domain.Customer{
		CustomerID:   customerID,
		Name:         "Rahim Uddin",
		Phone:        "01711111111",
		Balance:      mustMoneySvc(t, openingBalance),
		TotalDue:     domain.ZeroMoney(),
		TotalPayment: domain.ZeroMoney(),
	})
	return store, customerID
}

func TestLedgerRecordThenReverseRestoresAggregates(t *testing.T) {
	ctx := context.Background()
	store, customerID := newLedgerFixture(t, "0")
	svc := services.NewLedgerService(store)
	before := store.customerSnapshot(customerID)

	recorded, err := svc.RecordTransaction(ctx, dto.CreateTransactionRequest{
		CustomerID: customerID,
		Due:        decimal.NewFromInt(100),
		Payment:    decimal.NewFromInt(150),
	})
	require.NoError(t, err)
	assert.Equal(t, "50", recorded.BalanceAfter.String())

	after := store.customerSnapshot(customerID)
	assert.Equal(t, "50", after.Balance.String())
	assert.Equal(t, "100", after.TotalDue.String())
	assert.Equal(t, "150", after.TotalPayment.String())

	_, err = svc.ReverseTransaction(ctx, recorded.TransactionID)
	require.NoError(t, err)

	restored := store.customerSnapshot(customerID)
	assert.True(t, restored.Balance.Equal(before.Balance), "balance not restored: %s", restored.Balance)
	assert.True(t, restored.TotalDue.Equal(before.TotalDue))
	assert.True(t, restored.TotalPayment.Equal(before.TotalPayment))

	_, err = svc.GetTransactionByID(ctx, recorded.TransactionID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLedgerAggregatesMatchSurvivingRows(t *testing.T) {
	ctx := context.Background()
	store, customerID := newLedgerFixture(t, "20")
	svc := services.NewLedgerService(store)

	entries := []struct {
		due, payment int64
	}{
		{100, 0},
		{0, 60},
		{250, 100},
		{0, 0},
		{30, 200},
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		txn, err := svc.RecordTransaction(ctx, dto.CreateTransactionRequest{
			CustomerID: customerID,
			Due:        decimal.NewFromInt(e.due),
			Payment:    decimal.NewFromInt(e.payment),
		})
		require.NoError(t, err)
		ids = append(ids, txn.TransactionID)
	}

	// Reverse a couple of entries out of order.
	_, err := svc.ReverseTransaction(ctx, ids[2])
	require.NoError(t, err)
	_, err = svc.ReverseTransaction(ctx, ids[0])
	require.NoError(t, err)

	// Whatever the sequence, the aggregates must equal the opening state
	// plus the sums over the rows that are still present.
	remaining, err := svc.ListTransactionsByCustomer(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, remaining, 3)

	sumDelta := decimal.Zero
	sumDue := decimal.Zero
	sumPayment := decimal.Zero
	for _, txn := range remaining {
		sumDelta = sumDelta.Add(txn.Delta().Decimal())
		sumDue = sumDue.Add(txn.Due.Decimal())
		sumPayment = sumPayment.Add(txn.Payment.Decimal())
	}

	c := store.customerSnapshot(customerID)
	assert.True(t, c.Balance.Decimal().Equal(decimal.NewFromInt(20).Add(sumDelta)),
		"balance %s does not match opening 20 plus remaining deltas %s", c.Balance, sumDelta)
	assert.True(t, c.TotalDue.Decimal().Equal(sumDue))
	assert.True(t, c.TotalPayment.Decimal().Equal(sumPayment))
}

func TestLedgerRecordFailureLeavesAggregatesUntouched(t *testing.T) {
	ctx := context.Background()
	store, customerID := newLedgerFixture(t, "500")
	svc := services.NewLedgerService(store)
	before := store.customerSnapshot(customerID)

	store.failInsert = true
	_, err := svc.RecordTransaction(ctx, dto.CreateTransactionRequest{
		CustomerID: customerID,
		Due:        decimal.NewFromInt(100),
		Payment:    decimal.NewFromInt(150),
	})
	require.ErrorIs(t, err, errInsertFailed)

	after := store.customerSnapshot(customerID)
	assert.True(t, after.Balance.Equal(before.Balance))
	assert.True(t, after.TotalDue.Equal(before.TotalDue))
	assert.True(t, after.TotalPayment.Equal(before.TotalPayment))

	_, count, err := store.ListTransactions(ctx, pagination.Params{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLedgerConcurrentRecords(t *testing.T) {
	ctx := context.Background()
	store, customerID := newLedgerFixture(t, "0")
	svc := services.NewLedgerService(store)

	const workers = 25
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.RecordTransaction(ctx, dto.CreateTransactionRequest{
				CustomerID: customerID,
				Due:        decimal.NewFromInt(100),
				Payment:    decimal.NewFromInt(150),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Every concurrent entry moves the balance by its full delta; none may
	// be lost to a stale read.
	c := store.customerSnapshot(customerID)
	assert.Equal(t, "1250", c.Balance.String())
	assert.Equal(t, "2500", c.TotalDue.String())
	assert.Equal(t, "3750", c.TotalPayment.String())

	_, count, err := store.ListTransactions(ctx, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(workers), count)
}
