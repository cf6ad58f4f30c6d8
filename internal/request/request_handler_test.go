package request_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-workforce/internal/events"
	"go-workforce/internal/request"
	requesterrors "go-workforce/internal/request/errors"

	balanceerrors "go-workforce/internal/balance/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRequestService struct {
	createFn        func(ctx context.Context, companyID, memberID string, req request.CreateRequest) (request.RequestResponse, error)
	cancelFn        func(ctx context.Context, companyID, memberID, requestID string) (request.RequestResponse, error)
	getMyRequestsFn func(ctx context.Context, companyID, memberID string) ([]request.RequestResponse, error)
	getByIDFn       func(ctx context.Context, companyID, id string) (request.RequestResponse, error)
}

func (f *fakeRequestService) Create(ctx context.Context, companyID, memberID string, req request.CreateRequest) (request.RequestResponse, error) {
	return f.createFn(ctx, companyID, memberID, req)
}

func (f *fakeRequestService) Cancel(ctx context.Context, companyID, memberID, requestID string) (request.RequestResponse, error) {
	return f.cancelFn(ctx, companyID, memberID, requestID)
}

func (f *fakeRequestService) GetMyRequests(ctx context.Context, companyID, memberID string) ([]request.RequestResponse, error) {
	return f.getMyRequestsFn(ctx, companyID, memberID)
}

func (f *fakeRequestService) GetByID(ctx context.Context, companyID, id string) (request.RequestResponse, error) {
	return f.getByIDFn(ctx, companyID, id)
}

func (f *fakeRequestService) ApplyDecision(ctx context.Context, event events.ApprovalDecisionEvent) error {
	return nil
}

func newRequestContext(t *testing.T, method, path, body, companyID, memberID string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", companyID)
	c.Set("member_id", memberID)
	c.Request = httptest.NewRequest(method, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestRequestHandler_Create(t *testing.T) {
	companyID := uuid.New().String()
	memberID := uuid.New().String()

	validBody := `{
		"type_code": "ANNUAL_LEAVE",
		"unit": "DAY",
		"start_at": "2026-04-06T00:00:00Z",
		"end_at": "2026-04-08T00:00:00Z",
		"reason": "family trip"
	}`

	t.Run("success", func(t *testing.T) {
		svc := &fakeRequestService{
			createFn: func(ctx context.Context, cid, mid string, req request.CreateRequest) (request.RequestResponse, error) {
				assert.Equal(t, companyID, cid)
				assert.Equal(t, memberID, mid)
				assert.Equal(t, "ANNUAL_LEAVE", req.TypeCode)
				assert.Equal(t, "DAY", req.Unit)
				return request.RequestResponse{ID: uuid.New().String(), MemberID: mid, Status: "PENDING", DeductionDays: "3"}, nil
			},
		}
		h := request.NewHandler(svc)

		c, w := newRequestContext(t, http.MethodPost, "/requests", validBody, companyID, memberID)
		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		var body map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["ok"])
		data := body["data"].(map[string]any)
		assert.Equal(t, "PENDING", data["status"])
	})

	t.Run("missing required field fails binding", func(t *testing.T) {
		svc := &fakeRequestService{
			createFn: func(ctx context.Context, cid, mid string, req request.CreateRequest) (request.RequestResponse, error) {
				t.Fatal("service must not be called on a binding failure")
				return request.RequestResponse{}, nil
			},
		}
		h := request.NewHandler(svc)

		c, w := newRequestContext(t, http.MethodPost, "/requests", `{"unit": "DAY"}`, companyID, memberID)
		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["ok"])
		assert.NotNil(t, body["error"])
	})

	t.Run("insufficient balance maps to unprocessable", func(t *testing.T) {
		svc := &fakeRequestService{
			createFn: func(ctx context.Context, cid, mid string, req request.CreateRequest) (request.RequestResponse, error) {
				return request.RequestResponse{}, balanceerrors.ErrInsufficientBalance
			},
		}
		h := request.NewHandler(svc)

		c, w := newRequestContext(t, http.MethodPost, "/requests", validBody, companyID, memberID)
		h.Create(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestRequestHandler_Cancel(t *testing.T) {
	companyID := uuid.New().String()
	memberID := uuid.New().String()
	requestID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakeRequestService{
			cancelFn: func(ctx context.Context, cid, mid, rid string) (request.RequestResponse, error) {
				assert.Equal(t, requestID, rid)
				return request.RequestResponse{ID: rid, Status: "CANCELED"}, nil
			},
		}
		h := request.NewHandler(svc)

		c, w := newRequestContext(t, http.MethodPost, "/requests/"+requestID+"/cancel", "", companyID, memberID)
		c.Params = gin.Params{{Key: "id", Value: requestID}}
		h.Cancel(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not cancelable maps to unprocessable", func(t *testing.T) {
		svc := &fakeRequestService{
			cancelFn: func(ctx context.Context, cid, mid, rid string) (request.RequestResponse, error) {
				return request.RequestResponse{}, requesterrors.ErrNotCancelable
			},
		}
		h := request.NewHandler(svc)

		c, w := newRequestContext(t, http.MethodPost, "/requests/"+requestID+"/cancel", "", companyID, memberID)
		c.Params = gin.Params{{Key: "id", Value: requestID}}
		h.Cancel(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("unknown request maps to not found", func(t *testing.T) {
		svc := &fakeRequestService{
			cancelFn: func(ctx context.Context, cid, mid, rid string) (request.RequestResponse, error) {
				return request.RequestResponse{}, requesterrors.ErrRequestNotFound
			},
		}
		h := request.NewHandler(svc)

		c, w := newRequestContext(t, http.MethodPost, "/requests/"+requestID+"/cancel", "", companyID, memberID)
		c.Params = gin.Params{{Key: "id", Value: requestID}}
		h.Cancel(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRequestHandler_GetMine(t *testing.T) {
	companyID := uuid.New().String()
	memberID := uuid.New().String()

	svc := &fakeRequestService{
		getMyRequestsFn: func(ctx context.Context, cid, mid string) ([]request.RequestResponse, error) {
			assert.Equal(t, memberID, mid)
			return []request.RequestResponse{{ID: uuid.New().String()}, {ID: uuid.New().String()}}, nil
		},
	}
	h := request.NewHandler(svc)

	c, w := newRequestContext(t, http.MethodGet, "/requests/me", "", companyID, memberID)
	h.GetMine(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body["data"], 2)
}
