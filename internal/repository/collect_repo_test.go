package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proninteam/collect_go_server/internal/model"
	"github.com/proninteam/collect_go_server/internal/testutil"
)

func TestCollectRepository_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCollectRepository(db)
	user := testutil.TestUser(t, db)

	collect := &model.Collect{
		UserID:      user.ID,
		Name:        "New Year Party",
		Slug:        "new-year-party",
		Description: "company party fund",
		EventFormat: model.EventFormatOffline,
		EventReason: model.EventReasonParty,
		EventDate:   "2026-12-31",
		EventTime:   "20:00",
		EventPlace:  "office",
		StopDate:    time.Now().Add(48 * time.Hour),
		IsActive:    true,
	}

	err := repo.Create(collect)
	require.NoError(t, err)
	assert.NotZero(t, collect.ID)

	got, err := repo.GetByID(collect.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Year Party", got.Name)
	assert.True(t, got.IsActive)
}

func TestCollectRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCollectRepository(db)

	_, err := repo.GetByID(99999)
	assert.Error(t, err)
}

func TestCollectRepository_GetDetail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCollectRepository(db)
	author := testutil.TestUser(t, db, testutil.WithUsername("author"))
	payer := testutil.TestUser(t, db, testutil.WithUsername("payer"))
	collect := testutil.TestCollect(t, db, author.ID)

	p1 := testutil.TestPayment(t, db, payer.ID, collect.ID, 100)
	testutil.TestLike(t, db, author.ID, p1.ID)
	testutil.TestComment(t, db, author.ID, p1.ID, "thanks!")

	got, err := repo.GetDetail(collect.ID)
	require.NoError(t, err)

	require.NotNil(t, got.User)
	assert.Equal(t, "author", got.User.Username)

	require.Len(t, got.Payments, 1)
	payment := got.Payments[0]
	assert.Equal(t, 100.0, payment.Amount)
	require.NotNil(t, payment.User)
	assert.Equal(t, "payer", payment.User.Username)
	assert.Len(t, payment.Likes, 1)
	require.Len(t, payment.Comments, 1)
	assert.Equal(t, "thanks!", payment.Comments[0].Content)
}

func TestCollectRepository_UpdateFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCollectRepository(db)
	user := testutil.TestUser(t, db)
	collect := testutil.TestCollect(t, db, user.ID)

	err := repo.UpdateFields(collect.ID, map[string]interface{}{
		"name":        "Renamed",
		"description": "new description",
	})
	require.NoError(t, err)

	got, err := repo.GetByID(collect.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "new description", got.Description)
}

func TestCollectRepository_SetActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCollectRepository(db)
	user := testutil.TestUser(t, db)
	collect := testutil.TestCollect(t, db, user.ID)

	require.NoError(t, repo.SetActive(collect.ID, false))

	got, err := repo.GetByID(collect.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	require.NoError(t, repo.SetActive(collect.ID, true))

	got, err = repo.GetByID(collect.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestCollectRepository_CountByNameOrSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCollectRepository(db)
	user := testutil.TestUser(t, db)
	collect := testutil.TestCollect(t, db, user.ID, testutil.WithName("Wedding Gift", "wedding-gift"))

	count, err := repo.CountByNameOrSlug("Wedding Gift", "other-slug", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountByNameOrSlug("Other Name", "wedding-gift", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// The collect itself is excluded when editing
	count, err = repo.CountByNameOrSlug("Wedding Gift", "wedding-gift", collect.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = repo.CountByNameOrSlug("Fresh Name", "fresh-slug", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestCollectRepository_Delete_Cascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCollectRepository(db)
	user := testutil.TestUser(t, db)
	collect := testutil.TestCollect(t, db, user.ID)
	other := testutil.TestCollect(t, db, user.ID)

	payment := testutil.TestPayment(t, db, user.ID, collect.ID, 50)
	testutil.TestLike(t, db, user.ID, payment.ID)
	testutil.TestComment(t, db, user.ID, payment.ID, "comment")

	otherPayment := testutil.TestPayment(t, db, user.ID, other.ID, 30)

	err := repo.Delete(collect.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(collect.ID)
	assert.Error(t, err)

	var paymentCount, likeCount, commentCount int64
	require.NoError(t, db.Model(&model.Payment{}).Where("collect_id = ?", collect.ID).Count(&paymentCount).Error)
	require.NoError(t, db.Model(&model.Like{}).Where("payment_id = ?", payment.ID).Count(&likeCount).Error)
	require.NoError(t, db.Model(&model.Comment{}).Where("payment_id = ?", payment.ID).Count(&commentCount).Error)
	assert.Zero(t, paymentCount)
	assert.Zero(t, likeCount)
	assert.Zero(t, commentCount)

	// Unrelated collect is untouched
	_, err = repo.GetByID(other.ID)
	require.NoError(t, err)

	var otherCount int64
	require.NoError(t, db.Model(&model.Payment{}).Where("id = ?", otherPayment.ID).Count(&otherCount).Error)
	assert.Equal(t, int64(1), otherCount)
}

func TestCollectRepository_DeactivateExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCollectRepository(db)
	user := testutil.TestUser(t, db)

	expired := testutil.TestCollect(t, db, user.ID, testutil.WithStopDate(time.Now().Add(-time.Hour)))
	future := testutil.TestCollect(t, db, user.ID, testutil.WithStopDate(time.Now().Add(time.Hour)))
	alreadyStopped := testutil.TestCollect(t, db, user.ID,
		testutil.WithStopDate(time.Now().Add(-time.Hour)), testutil.WithInactive())

	affected, err := repo.DeactivateExpired(time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := repo.GetByID(expired.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	got, err = repo.GetByID(future.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	got, err = repo.GetByID(alreadyStopped.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	// Second pass finds nothing, the update is idempotent
	affected, err = repo.DeactivateExpired(time.Now())
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestCollectRepository_DeactivateCapReached(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCollectRepository(db)
	user := testutil.TestUser(t, db)

	atCap := testutil.TestCollect(t, db, user.ID, testutil.WithAmounts(0, 0, 100))
	testutil.TestPayment(t, db, user.ID, atCap.ID, 60)
	testutil.TestPayment(t, db, user.ID, atCap.ID, 40)

	belowCap := testutil.TestCollect(t, db, user.ID, testutil.WithAmounts(0, 0, 100))
	testutil.TestPayment(t, db, user.ID, belowCap.ID, 30)

	uncapped := testutil.TestCollect(t, db, user.ID)
	testutil.TestPayment(t, db, user.ID, uncapped.ID, 500)

	affected, err := repo.DeactivateCapReached()
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := repo.GetByID(atCap.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	got, err = repo.GetByID(belowCap.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	got, err = repo.GetByID(uncapped.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}
