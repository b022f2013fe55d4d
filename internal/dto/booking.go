package dto

// ── 预订模块 DTO ──

// CreateBookingRequest 创建预订请求
// duration 由服务端按时间窗重新计算，客户端传入值仅作兼容保留
type CreateBookingRequest struct {
	RoomNumber  string `json:"room_number"  binding:"required"`
	RoomName    string `json:"room_name"    binding:"omitempty,max=100"`
	Date        string `json:"date"         binding:"required"` // "2026-01-10"
	StartTime   string `json:"start_time"   binding:"required"` // "09:00"
	EndTime     string `json:"end_time"     binding:"required"` // "10:00"
	Duration    int    `json:"duration"     binding:"omitempty,min=0"`
	Purpose     string `json:"purpose"      binding:"required,max=30"`
	CourseCode  string `json:"course_code"  binding:"omitempty,max=30"`
	CourseName  string `json:"course_name"  binding:"omitempty,max=100"`
	Notes       string `json:"notes"        binding:"omitempty,max=500"`
	TeacherName string `json:"teacher_name" binding:"omitempty,max=100"`
}

// UpdateBookingRequest 更新预订请求
// 时间窗确认后不可修改，仅允许状态流转与备注变更
type UpdateBookingRequest struct {
	Status *string `json:"status" binding:"omitempty,oneof=cancelled completed"`
	Notes  *string `json:"notes"  binding:"omitempty,max=500"`
}

// BookingListRequest 预订列表查询参数
type BookingListRequest struct {
	PaginationRequest
	BookedBy   string `form:"booked_by"   binding:"omitempty,uuid"`
	RoomNumber string `form:"room_number" binding:"omitempty,max=20"`
	Date       string `form:"date"`
	Status     string `form:"status" binding:"omitempty,oneof=confirmed cancelled completed"`
}

// BookingResponse 预订信息响应
type BookingResponse struct {
	ID              string `json:"id"`
	RoomNumber      string `json:"room_number"`
	RoomName        string `json:"room_name,omitempty"`
	BookedBy        string `json:"booked_by"`
	TeacherName     string `json:"teacher_name,omitempty"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Purpose         string `json:"purpose"`
	CourseCode      string `json:"course_code,omitempty"`
	CourseName      string `json:"course_name,omitempty"`
	Notes           string `json:"notes,omitempty"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}
