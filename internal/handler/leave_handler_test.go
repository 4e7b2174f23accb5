package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leaveflow/internal/auth"
	"leaveflow/internal/handler"
	"leaveflow/internal/middleware"
	"leaveflow/internal/mocks"
	"leaveflow/internal/model"
	"leaveflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type leaveRouterFixture struct {
	router *gin.Engine
	svc    *mocks.LeaveService
	tokens auth.TokenService
}

func newLeaveRouter(t *testing.T) *leaveRouterFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	svc := new(mocks.LeaveService)
	router := gin.New()
	handler.NewLeaveHandler(svc, middleware.NewAuthMiddleware(tokens)).RegisterRoutes(router.Group(""))

	return &leaveRouterFixture{router: router, svc: svc, tokens: tokens}
}

func (f *leaveRouterFixture) bearer(t *testing.T, role model.Role) (uuid.UUID, string) {
	t.Helper()
	userID := uuid.New()
	token, err := f.tokens.Issue(userID, role)
	require.NoError(t, err)
	return userID, "Bearer " + token
}

func (f *leaveRouterFixture) do(method, path, body, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req, _ = http.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	f.router.ServeHTTP(w, req)
	return w
}

func TestCreateLeaveRequiresAuth(t *testing.T) {
	f := newLeaveRouter(t)

	w := f.do(http.MethodPost, "/leaves", `{"type":"ANNUAL","startDate":"2024-03-01","endDate":"2024-03-05"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	f.svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestListLeavesRequiresAuth(t *testing.T) {
	f := newLeaveRouter(t)

	w := f.do(http.MethodGet, "/leaves", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateLeavePendingForCaller(t *testing.T) {
	f := newLeaveRouter(t)
	userID, header := f.bearer(t, model.RoleUser)

	f.svc.On("Create", mock.Anything, auth.Identity{UserID: userID, Role: model.RoleUser}, service.CreateLeaveRequest{
		Type:      "ANNUAL",
		StartDate: "2024-03-01",
		EndDate:   "2024-03-05",
	}).Return(&service.LeaveResponse{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      "ANNUAL",
		StartDate: "2024-03-01",
		EndDate:   "2024-03-05",
		Status:    model.LeavePending,
	}, nil)

	w := f.do(http.MethodPost, "/leaves", `{"type":"ANNUAL","startDate":"2024-03-01","endDate":"2024-03-05"}`, header)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, string(model.LeavePending), resp["status"])
	f.svc.AssertExpectations(t)
}

func TestDecideLeaveForbiddenForNonAdmin(t *testing.T) {
	f := newLeaveRouter(t)
	_, header := f.bearer(t, model.RoleUser)

	w := f.do(http.MethodPut, "/leaves/"+uuid.NewString()+"/status", `{"status":"APPROVED"}`, header)

	// The role gate rejects before the service runs, regardless of whether
	// the leave exists.
	assert.Equal(t, http.StatusForbidden, w.Code)
	f.svc.AssertNotCalled(t, "Decide", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveLeaveAsAdmin(t *testing.T) {
	f := newLeaveRouter(t)
	adminID, header := f.bearer(t, model.RoleAdmin)
	leaveID := uuid.New()

	f.svc.On("Decide", mock.Anything, auth.Identity{UserID: adminID, Role: model.RoleAdmin}, leaveID, model.LeaveApproved, "").
		Return(&service.LeaveResponse{ID: leaveID, Status: model.LeaveApproved}, nil)

	w := f.do(http.MethodPut, "/leaves/"+leaveID.String()+"/approve", "", header)

	assert.Equal(t, http.StatusOK, w.Code)
	f.svc.AssertExpectations(t)
}

func TestRejectLeaveWithReason(t *testing.T) {
	f := newLeaveRouter(t)
	adminID, header := f.bearer(t, model.RoleAdmin)
	leaveID := uuid.New()

	f.svc.On("Decide", mock.Anything, auth.Identity{UserID: adminID, Role: model.RoleAdmin}, leaveID, model.LeaveRejected, "coverage gap").
		Return(&service.LeaveResponse{ID: leaveID, Status: model.LeaveRejected, RejectionReason: "coverage gap"}, nil)

	w := f.do(http.MethodPut, "/leaves/"+leaveID.String()+"/reject", `{"status":"REJECTED","reason":"coverage gap"}`, header)

	assert.Equal(t, http.StatusOK, w.Code)
	f.svc.AssertExpectations(t)
}

func TestGetLeaveUnknownIDNotFound(t *testing.T) {
	f := newLeaveRouter(t)
	_, header := f.bearer(t, model.RoleUser)

	w := f.do(http.MethodGet, "/leaves/not-a-uuid", "", header)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetBalance(t *testing.T) {
	f := newLeaveRouter(t)
	userID, header := f.bearer(t, model.RoleUser)

	f.svc.On("Balance", mock.Anything, auth.Identity{UserID: userID, Role: model.RoleUser}, 2024).
		Return(&service.BalanceResponse{Year: 2024}, nil)

	w := f.do(http.MethodGet, "/leaves/balance?year=2024", "", header)
	assert.Equal(t, http.StatusOK, w.Code)
	f.svc.AssertExpectations(t)
}
