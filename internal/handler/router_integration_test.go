package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	internalmiddleware "github.com/vishalbharath/Military-Assest-Management/internal/middleware"
	"github.com/vishalbharath/Military-Assest-Management/internal/models"
	"github.com/vishalbharath/Military-Assest-Management/internal/repository"
	"github.com/vishalbharath/Military-Assest-Management/internal/service"
)

type purchaseStoreMock struct {
	purchases map[string]*models.Purchase
	audits    []*models.AuditLog
}

func newPurchaseStoreMock() *purchaseStoreMock {
	return &purchaseStoreMock{purchases: map[string]*models.Purchase{}}
}

func (m *purchaseStoreMock) Create(_ context.Context, purchase *models.Purchase, audit *models.AuditLog) error {
	if purchase.ID == "" {
		purchase.ID = uuid.NewString()
	}
	m.purchases[purchase.ID] = purchase
	m.audits = append(m.audits, audit)
	return nil
}

func (m *purchaseStoreMock) GetByID(_ context.Context, id string) (*models.Purchase, error) {
	purchase, ok := m.purchases[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *purchase
	return &clone, nil
}

func (m *purchaseStoreMock) List(_ context.Context, _ models.PurchaseFilter) ([]models.Purchase, error) {
	out := make([]models.Purchase, 0, len(m.purchases))
	for _, p := range m.purchases {
		out = append(out, *p)
	}
	return out, nil
}

func (m *purchaseStoreMock) Transition(_ context.Context, params repository.PurchaseTransitionParams, audit *models.AuditLog) error {
	stored, ok := m.purchases[params.ID]
	if !ok || stored.Status != params.FromStatus {
		return sql.ErrNoRows
	}
	stored.Status = params.ToStatus
	m.audits = append(m.audits, audit)
	return nil
}

type transferStoreMock struct {
	transfers map[string]*models.Transfer
}

func newTransferStoreMock() *transferStoreMock {
	return &transferStoreMock{transfers: map[string]*models.Transfer{}}
}

func (m *transferStoreMock) Create(_ context.Context, transfer *models.Transfer, _ *models.AuditLog) error {
	if transfer.ID == "" {
		transfer.ID = uuid.NewString()
	}
	m.transfers[transfer.ID] = transfer
	return nil
}

func (m *transferStoreMock) GetByID(_ context.Context, id string) (*models.Transfer, error) {
	transfer, ok := m.transfers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *transfer
	return &clone, nil
}

func (m *transferStoreMock) List(_ context.Context, _ models.TransferFilter) ([]models.Transfer, error) {
	return nil, nil
}

func (m *transferStoreMock) Transition(_ context.Context, params repository.TransferTransitionParams, _ *models.AuditLog) error {
	stored, ok := m.transfers[params.ID]
	if !ok || stored.Status != params.FromStatus {
		return sql.ErrNoRows
	}
	stored.Status = params.ToStatus
	return nil
}

func buildLifecycleRouter(purchases *purchaseStoreMock, transfers *transferStoreMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if role := c.GetHeader("X-Test-Role"); role != "" {
			c.Set(internalmiddleware.ContextUserKey, &models.JWTClaims{
				UserID: "test-user",
				Name:   "Test User",
				Role:   models.UserRole(role),
				BaseID: "base-1",
			})
		}
		c.Next()
	})

	purchaseHandler := NewPurchaseHandler(service.NewPurchaseService(purchases, nil, nil, nil, zap.NewNop()))
	transferHandler := NewTransferHandler(service.NewTransferService(transfers, nil, nil, nil, zap.NewNop()))

	api := router.Group("/api/v1")
	api.POST("/purchases", purchaseHandler.Create)
	api.GET("/purchases/:id", purchaseHandler.Get)
	api.POST("/purchases/:id/approve", purchaseHandler.Approve)
	api.POST("/transfers", transferHandler.Create)

	return router
}

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const purchasePayload = `{"asset_type":"AMMUNITION","asset_name":"5.56mm rounds","quantity":50,"unit_price":900,"supplier":"Ordnance Corp","base_id":"base-1"}`

func TestLifecycleRoutes(t *testing.T) {
	purchases := newPurchaseStoreMock()
	transfers := newTransferStoreMock()
	router := buildLifecycleRouter(purchases, transfers)

	var purchaseID string

	t.Run("create purchase requires auth", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/purchases", bytes.NewBufferString(purchasePayload))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("create purchase as logistics", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/purchases", bytes.NewBufferString(purchasePayload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-Role", string(models.RoleLogisticsOfficer))
		resp := performRequest(router, req)
		require.Equal(t, http.StatusCreated, resp.Code)
		require.Contains(t, resp.Body.String(), `"total_amount":45000`)

		var envelope struct {
			Data models.Purchase `json:"data"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		purchaseID = envelope.Data.ID
		require.NotEmpty(t, purchaseID)
	})

	t.Run("approve denied for logistics", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/purchases/"+purchaseID+"/approve", nil)
		req.Header.Set("X-Test-Role", string(models.RoleLogisticsOfficer))
		resp := performRequest(router, req)
		require.Equal(t, http.StatusForbidden, resp.Code)
		require.Contains(t, resp.Body.String(), "PERMISSION_DENIED")
	})

	t.Run("approve as commander", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/purchases/"+purchaseID+"/approve", nil)
		req.Header.Set("X-Test-Role", string(models.RoleBaseCommander))
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"status":"APPROVED"`)
	})

	t.Run("second approve conflicts", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/purchases/"+purchaseID+"/approve", nil)
		req.Header.Set("X-Test-Role", string(models.RoleBaseCommander))
		resp := performRequest(router, req)
		require.Equal(t, http.StatusConflict, resp.Code)
		require.Contains(t, resp.Body.String(), "ILLEGAL_TRANSITION")
	})

	t.Run("unknown purchase is 404", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/purchases/"+uuid.NewString(), nil)
		req.Header.Set("X-Test-Role", string(models.RoleAdmin))
		resp := performRequest(router, req)
		require.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("same-base transfer rejected", func(t *testing.T) {
		payload := `{"asset_id":"asset-1","from_base_id":"base-1","to_base_id":"base-1","quantity":5}`
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-Role", string(models.RoleLogisticsOfficer))
		resp := performRequest(router, req)
		require.Equal(t, http.StatusBadRequest, resp.Code)
		require.Contains(t, resp.Body.String(), "INVALID_ROUTE")
	})

	t.Run("distinct-base transfer accepted", func(t *testing.T) {
		payload := `{"asset_id":"asset-1","from_base_id":"base-1","to_base_id":"base-2","quantity":5}`
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-Role", string(models.RoleLogisticsOfficer))
		resp := performRequest(router, req)
		require.Equal(t, http.StatusCreated, resp.Code)
		require.Contains(t, resp.Body.String(), `"status":"PENDING"`)
	})
}
