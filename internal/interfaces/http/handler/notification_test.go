package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	notificationapp "github.com/purchase-invoice/backend/internal/application/notification"
	"github.com/purchase-invoice/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func notificationRouter(svc NotificationService, caller identity.Identity) *gin.Engine {
	h := NewNotificationHandler(svc)
	r := newRouter(caller)
	r.GET("/api/v1/notifications/all", h.ListAll)
	r.POST("/mock-webhook", h.ReceiveWebhook)
	return r
}

func TestNotificationHandler_ListAll(t *testing.T) {
	t.Run("all sources", func(t *testing.T) {
		svc := new(MockNotificationService)
		svc.On("List", mock.Anything, "").Return([]notificationapp.NotificationResponse{{ID: 1, Source: "DISPATCHER"}}, nil)

		w := doJSON(t, notificationRouter(svc, fin), http.MethodGet, "/api/v1/notifications/all", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("one source", func(t *testing.T) {
		svc := new(MockNotificationService)
		svc.On("List", mock.Anything, "WEBHOOK").Return([]notificationapp.NotificationResponse{}, nil)

		w := doJSON(t, notificationRouter(svc, fin), http.MethodGet, "/api/v1/notifications/all?source=WEBHOOK", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unknown source", func(t *testing.T) {
		svc := new(MockNotificationService)
		w := doJSON(t, notificationRouter(svc, fin), http.MethodGet, "/api/v1/notifications/all?source=SMTP", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestNotificationHandler_ReceiveWebhook(t *testing.T) {
	body := `{"invoiceId":"5","firstName":"Alice","lastName":"Smith","email":"alice@example.com","amount":"60","productName":"Laptop","billNo":"B-2","message":"Invoice rejected: limit exceeded"}`

	t.Run("received", func(t *testing.T) {
		svc := new(MockNotificationService)
		svc.On("ReceiveWebhook", mock.Anything, mock.MatchedBy(func(p notificationapp.WebhookPayload) bool {
			return p.InvoiceID == "5" && p.Amount.Equal(decimal.NewFromInt(60))
		})).Return(&notificationapp.NotificationResponse{ID: 3, Source: "WEBHOOK"}, nil)

		w := doJSON(t, notificationRouter(svc, identity.Identity{}), http.MethodPost, "/mock-webhook", body)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Received", decode(t, w).Message)
	})

	t.Run("missing message", func(t *testing.T) {
		svc := new(MockNotificationService)
		w := doJSON(t, notificationRouter(svc, identity.Identity{}), http.MethodPost, "/mock-webhook",
			`{"invoiceId":"5","email":"alice@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := new(MockNotificationService)
		svc.On("ReceiveWebhook", mock.Anything, mock.Anything).Return(nil, errors.New("disk full"))

		w := doJSON(t, notificationRouter(svc, identity.Identity{}), http.MethodPost, "/mock-webhook", body)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decode(t, w)
		require.NotNil(t, env.Error)
		assert.NotContains(t, env.Error.Message, "disk full")
	})
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealthHandler_Check(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		r := newRouter(identity.Identity{})
		r.GET("/health", NewHealthHandler(fakePinger{}).Check)

		w := doJSON(t, r, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(decode(t, w).Data), `"database":"up"`)
	})

	t.Run("database down", func(t *testing.T) {
		r := newRouter(identity.Identity{})
		r.GET("/health", NewHealthHandler(fakePinger{err: errors.New("refused")}).Check)

		w := doJSON(t, r, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, string(decode(t, w).Data), `"database":"down"`)
	})
}
