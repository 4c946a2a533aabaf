package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rcamargo/equiptrack/internal/domain/entity"
	"github.com/rcamargo/equiptrack/internal/infrastructure/persistence/sqlite"
	"github.com/rcamargo/equiptrack/pkg/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migrator := database.NewMigrator(db, zap.NewNop())
	require.NoError(t, migrator.RunMigrations("../../../../migrations"))

	return db
}

func createTestRequest(t *testing.T, db *database.DB) *entity.Request {
	t.Helper()

	repo := NewRequestRepository(db.DB, zap.NewNop())
	request := &entity.Request{
		Description: "industrial press",
		ClientID:    "client-9",
		Status:      "QUOTATION",
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.Create(context.Background(), request))
	return request
}

func TestRequestRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewRequestRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	created := createTestRequest(t, db)
	require.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "industrial press", got.Description)
	assert.Equal(t, "client-9", got.ClientID)
	assert.Equal(t, "QUOTATION", got.Status)
	assert.Nil(t, got.ContractExpiration)
	assert.Nil(t, got.AdjustmentMonth)
	assert.Nil(t, got.MachineID)
	assert.Nil(t, got.SelectedQuoteID)
}

func TestRequestRepository_GetByID_Missing(t *testing.T) {
	db := newTestDB(t)
	repo := NewRequestRepository(db.DB, zap.NewNop())

	got, err := repo.GetByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRequestRepository_UpdateStatus_CompareAndSwap(t *testing.T) {
	db := newTestDB(t)
	repo := NewRequestRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	request := createTestRequest(t, db)

	swapped, err := repo.UpdateStatus(ctx, request.ID, "QUOTATION", "SUPPLIER_INTERACTION")
	require.NoError(t, err)
	assert.True(t, swapped)

	// A second swap from the stale status must lose
	swapped, err = repo.UpdateStatus(ctx, request.ID, "QUOTATION", "SUPPLIER_INTERACTION")
	require.NoError(t, err)
	assert.False(t, swapped)

	got, err := repo.GetByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, "SUPPLIER_INTERACTION", got.Status)
}

func TestRequestRepository_SetSelectedQuote(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	logger := zap.NewNop()

	requestRepo := NewRequestRepository(db.DB, logger)
	partnerRepo := NewPartnerRepository(db.DB, logger)
	quoteRepo := NewQuoteRepository(db.DB, logger)

	request := createTestRequest(t, db)

	partner := &entity.Partner{Name: "Acme Supply", CreatedAt: time.Now().UTC()}
	require.NoError(t, partnerRepo.Create(ctx, partner))

	quote := &entity.Quote{RequestID: request.ID, PartnerID: partner.ID, Price: 1200.50, CreatedAt: time.Now().UTC()}
	require.NoError(t, quoteRepo.Create(ctx, quote))

	require.NoError(t, requestRepo.SetSelectedQuote(ctx, request.ID, quote.ID))

	got, err := requestRepo.GetByID(ctx, request.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SelectedQuoteID)
	assert.Equal(t, quote.ID, *got.SelectedQuoteID)
}

func TestRequestRepository_RenewalQueries(t *testing.T) {
	db := newTestDB(t)
	repo := NewRequestRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	now := time.Now().UTC()

	expiringSoon := createTestRequest(t, db)
	soon := now.AddDate(0, 0, 10)
	month := 7
	require.NoError(t, repo.UpdateContract(ctx, expiringSoon.ID, &soon, &month))

	expiringLate := createTestRequest(t, db)
	late := now.AddDate(0, 6, 0)
	require.NoError(t, repo.UpdateContract(ctx, expiringLate.ID, &late, nil))

	adjustmentOnly := createTestRequest(t, db)
	adjMonth := 3
	require.NoError(t, repo.UpdateContract(ctx, adjustmentOnly.ID, nil, &adjMonth))

	expiring, err := repo.ListExpiringBetween(ctx, now, now.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, expiringSoon.ID, expiring[0].ID)
	require.NotNil(t, expiring[0].AdjustmentMonth)
	assert.Equal(t, 7, *expiring[0].AdjustmentMonth)

	adjusting, err := repo.ListByAdjustmentMonths(ctx, []int{3, 4})
	require.NoError(t, err)
	require.Len(t, adjusting, 1)
	assert.Equal(t, adjustmentOnly.ID, adjusting[0].ID)

	none, err := repo.ListByAdjustmentMonths(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRequestRepository_Counts(t *testing.T) {
	db := newTestDB(t)
	repo := NewRequestRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	first := createTestRequest(t, db)
	createTestRequest(t, db)

	// Walk one request to COMPLETED so the open count diverges
	for _, step := range [][2]string{
		{"QUOTATION", "SUPPLIER_INTERACTION"},
		{"SUPPLIER_INTERACTION", "SELECTION"},
		{"SELECTION", "CONTRACTING"},
		{"CONTRACTING", "INSTALLATION"},
		{"INSTALLATION", "TECHNICAL_ACCEPTANCE"},
		{"TECHNICAL_ACCEPTANCE", "COMPLETED"},
	} {
		swapped, err := repo.UpdateStatus(ctx, first.ID, step[0], step[1])
		require.NoError(t, err)
		require.True(t, swapped)
	}

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	open, err := repo.CountOpen(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), open)
}

func TestTransactionManager_RollbackDiscardsWrites(t *testing.T) {
	db := newTestDB(t)
	logger := zap.NewNop()
	ctx := context.Background()

	txManager := sqlite.NewDB(db.DB, logger)
	requestRepo := NewRequestRepository(db.DB, logger)
	auditRepo := NewAuditLogRepository(db.DB, logger)

	request := createTestRequest(t, db)

	boom := errors.New("boom")
	err := txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		swapped, err := requestRepo.UpdateStatus(txCtx, request.ID, "QUOTATION", "SUPPLIER_INTERACTION")
		require.NoError(t, err)
		require.True(t, swapped)

		require.NoError(t, auditRepo.Create(txCtx, &entity.AuditLog{
			Action:       entity.AuditActionAdvanceStatus,
			ResourceType: "request",
			ResourceID:   request.ID,
			Timestamp:    time.Now().UTC(),
		}))

		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := requestRepo.GetByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, "QUOTATION", got.Status, "status swap must roll back")

	logs, err := auditRepo.GetByResource(ctx, "request", request.ID)
	require.NoError(t, err)
	assert.Empty(t, logs, "audit row must roll back")
}

func TestTransactionManager_NestedCallsJoinOuterTransaction(t *testing.T) {
	db := newTestDB(t)
	logger := zap.NewNop()
	ctx := context.Background()

	txManager := sqlite.NewDB(db.DB, logger)
	requestRepo := NewRequestRepository(db.DB, logger)

	request := createTestRequest(t, db)

	boom := errors.New("inner failure")
	err := txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return txManager.WithTransaction(txCtx, func(innerCtx context.Context) error {
			swapped, err := requestRepo.UpdateStatus(innerCtx, request.ID, "QUOTATION", "SUPPLIER_INTERACTION")
			require.NoError(t, err)
			require.True(t, swapped)
			return boom
		})
	})
	require.ErrorIs(t, err, boom)

	got, err := requestRepo.GetByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, "QUOTATION", got.Status, "inner write must roll back with the outer transaction")
}
