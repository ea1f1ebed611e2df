package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/proninteam/collect_go_server/config"
	"github.com/proninteam/collect_go_server/internal/events"
	"github.com/proninteam/collect_go_server/internal/model"
	"github.com/proninteam/collect_go_server/internal/model/dto"
	"github.com/proninteam/collect_go_server/internal/repository"
	"github.com/proninteam/collect_go_server/internal/testutil"
)

func setupPaymentService(t *testing.T, db *gorm.DB) *PaymentService {
	t.Helper()

	return NewPaymentService(
		db,
		repository.NewCollectRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewUserRepository(db),
		events.NewDispatcher(),
		&config.Config{},
	)
}

func collectIsActive(t *testing.T, db *gorm.DB, id int64) bool {
	t.Helper()

	var collect model.Collect
	require.NoError(t, db.First(&collect, id).Error)
	return collect.IsActive
}

func TestPaymentService_Create_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := setupPaymentService(t, db)

	user := testutil.TestUser(t, db, testutil.WithUsername("generous"))
	collect := testutil.TestCollect(t, db, user.ID)

	item, err := svc.Create(context.Background(), user.ID, collect.ID, &dto.CreatePaymentRequest{Amount: 100})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	require.NotNil(t, item.Amount)
	assert.Equal(t, 100.0, *item.Amount)
	assert.False(t, item.AmountHidden)
	require.NotNil(t, item.Author)
	assert.Equal(t, "generous", item.Author.Username)

	sum, err := svc.CurrentSum(collect.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, sum)
}

func TestPaymentService_Create_HiddenAmount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := setupPaymentService(t, db)

	user := testutil.TestUser(t, db)
	collect := testutil.TestCollect(t, db, user.ID)

	item, err := svc.Create(context.Background(), user.ID, collect.ID, &dto.CreatePaymentRequest{
		Amount:     75,
		HideAmount: true,
	})
	require.NoError(t, err)
	assert.Nil(t, item.Amount)
	assert.True(t, item.AmountHidden)

	// The hidden amount still lands in the sum
	sum, err := svc.CurrentSum(collect.ID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, sum)
}

func TestPaymentService_Create_CollectNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := setupPaymentService(t, db)

	user := testutil.TestUser(t, db)

	_, err := svc.Create(context.Background(), user.ID, 99999, &dto.CreatePaymentRequest{Amount: 10})
	assert.ErrorIs(t, err, ErrCollectNotFound)
}

func TestPaymentService_Create_InactiveCollect(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := setupPaymentService(t, db)

	user := testutil.TestUser(t, db)
	collect := testutil.TestCollect(t, db, user.ID, testutil.WithInactive())

	_, err := svc.Create(context.Background(), user.ID, collect.ID, &dto.CreatePaymentRequest{Amount: 10})
	assert.ErrorIs(t, err, ErrCollectClosed)
}

func TestPaymentService_Create_CapWouldBeExceeded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := setupPaymentService(t, db)

	user := testutil.TestUser(t, db)
	collect := testutil.TestCollect(t, db, user.ID, testutil.WithAmounts(0, 0, 100))
	testutil.TestPayment(t, db, user.ID, collect.ID, 60)

	// 60 already collected, 50 more would overshoot the 100 cap
	_, err := svc.Create(context.Background(), user.ID, collect.ID, &dto.CreatePaymentRequest{Amount: 50})
	assert.ErrorIs(t, err, ErrCollectClosed)

	// The rejected attempt closed the collect
	assert.False(t, collectIsActive(t, db, collect.ID))

	// And the rejected payment was not recorded
	sum, err := svc.CurrentSum(collect.ID)
	require.NoError(t, err)
	assert.Equal(t, 60.0, sum)
}

func TestPaymentService_Create_ExactlyReachesCap(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := setupPaymentService(t, db)

	user := testutil.TestUser(t, db)
	collect := testutil.TestCollect(t, db, user.ID, testutil.WithAmounts(0, 0, 100))
	testutil.TestPayment(t, db, user.ID, collect.ID, 60)

	// A payment that lands exactly on the cap is admitted
	item, err := svc.Create(context.Background(), user.ID, collect.ID, &dto.CreatePaymentRequest{Amount: 40})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)

	// and closes the collect in the same transaction
	assert.False(t, collectIsActive(t, db, collect.ID))

	sum, err := svc.CurrentSum(collect.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, sum)
}

func TestPaymentService_Create_ExpiredCollect(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := setupPaymentService(t, db)

	user := testutil.TestUser(t, db)
	collect := testutil.TestCollect(t, db, user.ID, testutil.WithStopDate(time.Now().Add(-time.Minute)))

	_, err := svc.Create(context.Background(), user.ID, collect.ID, &dto.CreatePaymentRequest{Amount: 10})
	assert.ErrorIs(t, err, ErrCollectClosed)

	// Expiry is applied lazily by the payment attempt itself
	assert.False(t, collectIsActive(t, db, collect.ID))
}

func TestPaymentService_Create_BelowMinimum(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := setupPaymentService(t, db)

	user := testutil.TestUser(t, db)
	collect := testutil.TestCollect(t, db, user.ID, testutil.WithAmounts(10, 0, 0))

	_, err := svc.Create(context.Background(), user.ID, collect.ID, &dto.CreatePaymentRequest{Amount: 5})

	var tooSmall *AmountTooSmallError
	require.True(t, errors.As(err, &tooSmall))
	assert.Equal(t, 10.0, tooSmall.Min)
	assert.True(t, strings.Contains(err.Error(), "10.00"))

	// Too small a payment does not close the collect
	assert.True(t, collectIsActive(t, db, collect.ID))
}

func TestPaymentService_Create_CapCheckedBeforeMinimum(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := setupPaymentService(t, db)

	user := testutil.TestUser(t, db)
	collect := testutil.TestCollect(t, db, user.ID, testutil.WithAmounts(500, 0, 100))
	testutil.TestPayment(t, db, user.ID, collect.ID, 90)

	// 20 is below the minimum AND would exceed the cap; cap wins
	_, err := svc.Create(context.Background(), user.ID, collect.ID, &dto.CreatePaymentRequest{Amount: 20})
	assert.ErrorIs(t, err, ErrCollectClosed)
	assert.False(t, collectIsActive(t, db, collect.ID))
}

func TestPaymentService_Create_ConcurrentAdmission(t *testing.T) {
	db := testutil.SetupSharedTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := setupPaymentService(t, db)

	user := testutil.TestUser(t, db)
	collect := testutil.TestCollect(t, db, user.ID, testutil.WithAmounts(0, 0, 100))

	// Two concurrent payments of 60 against a cap of 100:
	// only one may be admitted.
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, err := svc.Create(context.Background(), user.ID, collect.ID, &dto.CreatePaymentRequest{Amount: 60})
			results[idx] = err
		}(i)
	}
	wg.Wait()

	var admitted, rejected int
	for _, err := range results {
		if err == nil {
			admitted++
		} else if errors.Is(err, ErrCollectClosed) {
			rejected++
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, admitted)
	assert.Equal(t, 1, rejected)

	sum, err := svc.CurrentSum(collect.ID)
	require.NoError(t, err)
	assert.Equal(t, 60.0, sum)

	// The losing attempt saw 60+60 > 100 and closed the collect
	assert.False(t, collectIsActive(t, db, collect.ID))
}
