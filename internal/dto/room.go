package dto

// ── 教室模块 DTO ──

// CreateRoomRequest 创建教室请求
type CreateRoomRequest struct {
	RoomNumber string   `json:"room_number" binding:"required,min=1,max=20"`
	Name       string   `json:"name"        binding:"required,min=2,max=100"`
	Capacity   int      `json:"capacity"    binding:"omitempty,min=0,max=2000"`
	RoomType   string   `json:"room_type"   binding:"required,oneof=classroom lab seminar auditorium"`
	Facilities []string `json:"facilities"  binding:"omitempty,max=20"`
}

// UpdateRoomRequest 更新教室请求
type UpdateRoomRequest struct {
	Name             *string   `json:"name"              binding:"omitempty,min=2,max=100"`
	Capacity         *int      `json:"capacity"          binding:"omitempty,min=0,max=2000"`
	RoomType         *string   `json:"room_type"         binding:"omitempty,oneof=classroom lab seminar auditorium"`
	Facilities       *[]string `json:"facilities"        binding:"omitempty,max=20"`
	IsAvailable      *bool     `json:"is_available"`
	UnderMaintenance *bool     `json:"under_maintenance"`
}

// RoomListRequest 教室列表查询参数
type RoomListRequest struct {
	IncludeInactive bool   `form:"include_inactive"`
	RoomType        string `form:"room_type" binding:"omitempty,oneof=classroom lab seminar auditorium"`
}

// AvailableRoomsRequest 空闲教室查询参数
// GET /rooms/available?date=2026-01-10&start_time=09:00&end_time=10:00
type AvailableRoomsRequest struct {
	Date      string `form:"date"       binding:"required"`
	StartTime string `form:"start_time" binding:"required"`
	EndTime   string `form:"end_time"   binding:"required"`
}

// CheckAvailabilityRequest 单教室可用性检查请求
type CheckAvailabilityRequest struct {
	RoomNumber string `json:"room_number" binding:"required"`
	Date       string `json:"date"        binding:"required"`
	StartTime  string `json:"start_time"  binding:"required"`
	EndTime    string `json:"end_time"    binding:"required"`
}

// CheckAvailabilityResponse 单教室可用性检查响应
type CheckAvailabilityResponse struct {
	Available bool `json:"available"`
}

// RoomResponse 教室信息响应
type RoomResponse struct {
	ID               string   `json:"id"`
	RoomNumber       string   `json:"room_number"`
	Name             string   `json:"name"`
	Capacity         int      `json:"capacity"`
	RoomType         string   `json:"room_type"`
	Facilities       []string `json:"facilities,omitempty"`
	IsAvailable      bool     `json:"is_available"`
	UnderMaintenance bool     `json:"under_maintenance"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
}
