package handler

import (
	"net/http"
	"strconv"
	"time"

	"leaveflow/internal/middleware"
	"leaveflow/internal/model"
	"leaveflow/internal/service"
	"leaveflow/pkg/pagination"
	"leaveflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type LeaveHandler struct {
	leaveService service.LeaveService
	authmw       *middleware.AuthMiddleware
}

// NewLeaveHandler sets up the routing dependencies for leave endpoints
func NewLeaveHandler(leaveService service.LeaveService, authmw *middleware.AuthMiddleware) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService, authmw: authmw}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup. Every route
// requires authentication; status decisions additionally require admin.
func (h *LeaveHandler) RegisterRoutes(router *gin.RouterGroup) {
	leaves := router.Group("/leaves")
	leaves.Use(h.authmw.Authenticate())
	{
		leaves.POST("", h.CreateLeave)
		leaves.GET("", h.ListLeaves)
		leaves.GET("/balance", h.GetBalance)
		leaves.GET("/:id", h.GetLeaveByID)

		admin := leaves.Group("")
		admin.Use(h.authmw.RequireRole(model.RoleAdmin))
		{
			admin.PUT("/:id/status", h.DecideLeave)
			admin.PUT("/:id/approve", h.ApproveLeave)
			admin.PUT("/:id/reject", h.RejectLeave)
		}
	}
}

// CreateLeave handles POST /leaves
// @Summary      Submit a leave request
// @Description  Creates a PENDING leave request owned by the caller
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateLeaveRequest  true  "Leave payload"
// @Success      201      {object}  service.LeaveResponse
// @Failure      400      {object}  response.ErrorBody
// @Failure      401      {object}  response.ErrorBody
// @Router       /leaves [post]
func (h *LeaveHandler) CreateLeave(c *gin.Context) {
	var req service.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid request payload"))
		return
	}

	identity, _ := middleware.GetIdentity(c)
	leave, err := h.leaveService.Create(c.Request.Context(), identity, req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, leave)
}

// ListLeaves handles GET /leaves
// @Summary      List leave requests
// @Description  Admins see every request, other users only their own
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  object
// @Failure      401    {object}  response.ErrorBody
// @Router       /leaves [get]
func (h *LeaveHandler) ListLeaves(c *gin.Context) {
	params := pagination.Parse(c)

	identity, _ := middleware.GetIdentity(c)
	leaves, total, err := h.leaveService.List(c.Request.Context(), identity, params.Page, params.Limit)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaves": leaves,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// GetBalance handles GET /leaves/balance
// @Summary      Get own leave balance
// @Description  Returns the caller's leave day balance for a year (default: current)
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Param        year  query     int  false  "Year (default current)"
// @Success      200   {object}  service.BalanceResponse
// @Failure      401   {object}  response.ErrorBody
// @Router       /leaves/balance [get]
func (h *LeaveHandler) GetBalance(c *gin.Context) {
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil || year <= 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid year"))
		return
	}

	identity, _ := middleware.GetIdentity(c)
	balance, err := h.leaveService.Balance(c.Request.Context(), identity, year)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

// GetLeaveByID handles GET /leaves/:id
// @Summary      Get leave request by ID
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Leave request ID"
// @Success      200  {object}  service.LeaveResponse
// @Failure      404  {object}  response.ErrorBody
// @Router       /leaves/{id} [get]
func (h *LeaveHandler) GetLeaveByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}

	identity, _ := middleware.GetIdentity(c)
	leave, err := h.leaveService.GetByID(c.Request.Context(), identity, id)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, leave)
}

// DecideLeave handles PUT /leaves/:id/status
// @Summary      Decide a leave request
// @Description  Transitions a PENDING leave to APPROVED or REJECTED (admin only)
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Leave request ID"
// @Param        payload  body      service.DecideLeaveRequest  true  "Decision payload"
// @Success      200      {object}  service.LeaveResponse
// @Failure      403      {object}  response.ErrorBody
// @Failure      404      {object}  response.ErrorBody
// @Failure      409      {object}  response.ErrorBody
// @Router       /leaves/{id}/status [put]
func (h *LeaveHandler) DecideLeave(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}

	var req service.DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid request payload"))
		return
	}

	identity, _ := middleware.GetIdentity(c)
	leave, err := h.leaveService.Decide(c.Request.Context(), identity, id, model.LeaveStatus(req.Status), req.Reason)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, leave)
}

// ApproveLeave handles PUT /leaves/:id/approve
// @Summary      Approve a leave request
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Leave request ID"
// @Success      200  {object}  service.LeaveResponse
// @Failure      403  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Failure      409  {object}  response.ErrorBody
// @Router       /leaves/{id}/approve [put]
func (h *LeaveHandler) ApproveLeave(c *gin.Context) {
	h.decide(c, model.LeaveApproved)
}

// RejectLeave handles PUT /leaves/:id/reject
// @Summary      Reject a leave request
// @Description  Rejects a PENDING leave with an optional reason
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Leave request ID"
// @Success      200  {object}  service.LeaveResponse
// @Failure      403  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Failure      409  {object}  response.ErrorBody
// @Router       /leaves/{id}/reject [put]
func (h *LeaveHandler) RejectLeave(c *gin.Context) {
	h.decide(c, model.LeaveRejected)
}

func (h *LeaveHandler) decide(c *gin.Context, status model.LeaveStatus) {
	id, err := parseIDParam(c)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}

	// Body is optional here; only a reason may ride along.
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	identity, _ := middleware.GetIdentity(c)
	leave, err := h.leaveService.Decide(c.Request.Context(), identity, id, status, req.Reason)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, leave)
}
