package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"edverse/backend/internal/dto"
	"edverse/backend/internal/service"
	"edverse/backend/pkg/response"
)

// BookingHandler 预订模块 HTTP 处理器
type BookingHandler struct {
	bookingSvc service.BookingService
}

// NewBookingHandler 创建 BookingHandler
func NewBookingHandler(bookingSvc service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

// CreateBooking 创建预订
// POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	booking, err := h.bookingSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.Created(c, booking)
}

// ListBookings 预订列表（管理员视角，支持按人/教室/日期/状态筛选）
// GET /api/v1/bookings
func (h *BookingHandler) ListBookings(c *gin.Context) {
	var req dto.BookingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	bookings, total, err := h.bookingSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OKPage(c, bookings, total, req.GetPage(), req.GetPageSize())
}

// GetMyBookings 当前用户的预订列表
// GET /api/v1/bookings/my
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.BookingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	req.BookedBy = callerID

	bookings, total, err := h.bookingSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OKPage(c, bookings, total, req.GetPage(), req.GetPageSize())
}

// GetBooking 预订详情
// GET /api/v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "预订ID不能为空")
		return
	}

	booking, err := h.bookingSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, booking)
}

// UpdateBooking 更新预订（状态流转 / 备注）
// PATCH /api/v1/bookings/:id
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "预订ID不能为空")
		return
	}

	var req dto.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	booking, err := h.bookingSvc.Update(c.Request.Context(), id, &req, callerID, callerRole)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, booking)
}

// CancelBooking 取消预订（软取消，记录保留）
// DELETE /api/v1/bookings/:id
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "预订ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	if err := h.bookingSvc.Cancel(c.Request.Context(), id, callerID, callerRole); err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleBookingError 统一处理预订模块业务错误
func (h *BookingHandler) handleBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBookingNotFound):
		response.NotFound(c, 21001, "预订不存在")
	case errors.Is(err, service.ErrBookingConflict):
		response.Conflict(c, 21002, "该时段已被预订")
	case errors.Is(err, service.ErrBookingTerminal):
		response.Conflict(c, 21003, "预订已处于终态，不允许变更")
	case errors.Is(err, service.ErrBookingAccessDenied):
		response.Forbidden(c, 21006, "无权操作该预订")
	case errors.Is(err, service.ErrRoomNotBookable):
		response.Conflict(c, 21007, "教室当前不可预订")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 20001, "教室不存在")
	case errors.Is(err, service.ErrInvalidClock),
		errors.Is(err, service.ErrInvalidTimeWindow),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidPurpose),
		errors.Is(err, service.ErrDurationTooLong):
		response.BadRequest(c, 10001, err.Error())
	default:
		response.InternalError(c)
	}
}
