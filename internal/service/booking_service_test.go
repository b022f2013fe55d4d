package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"edverse/backend/config"
	"edverse/backend/internal/dto"
	"edverse/backend/internal/model"
	"edverse/backend/internal/repository"
)

// ── 测试辅助 ──

func setupTestBookingService() (BookingService, *repository.Repository) {
	repo := newMockRepository()
	cfg := &config.Config{}
	cfg.Booking.Timezone = "Asia/Dhaka"
	cfg.Booking.MaxDurationMinutes = 480

	loc, _ := time.LoadLocation(cfg.Booking.Timezone)
	svc := NewBookingService(cfg, repo, loc, zap.NewNop())
	return svc, repo
}

func seedRoom(repo *repository.Repository, roomNumber string) *model.Room {
	room := &model.Room{
		RoomNumber:  roomNumber,
		Name:        "Room " + roomNumber,
		Capacity:    60,
		RoomType:    model.RoomTypeClassroom,
		IsAvailable: true,
	}
	_ = repo.Room.Create(context.Background(), room)
	return room
}

func newCreateRequest(roomNumber, date, start, end string) *dto.CreateBookingRequest {
	return &dto.CreateBookingRequest{
		RoomNumber: roomNumber,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		Purpose:    model.PurposeMeeting,
	}
}

// ── Create 测试 ──

func TestBookingService_Create_Success(t *testing.T) {
	svc, repo := setupTestBookingService()
	seedRoom(repo, "301")

	req := newCreateRequest("301", "2026-01-10", "09:00", "10:30")
	req.Duration = 999 // 客户端乱传的时长应被服务端重算覆盖

	result, err := svc.Create(context.Background(), req, "user-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Status != model.BookingStatusConfirmed {
		t.Errorf("期望状态=confirmed，实际=%s", result.Status)
	}
	if result.DurationMinutes != 90 {
		t.Errorf("期望时长=90（服务端重算），实际=%d", result.DurationMinutes)
	}
	if result.BookedBy != "user-001" {
		t.Errorf("期望BookedBy=user-001，实际=%s", result.BookedBy)
	}
	if result.Date != "2026-01-10" {
		t.Errorf("期望日期=2026-01-10，实际=%s", result.Date)
	}
}

func TestBookingService_Create_Conflict(t *testing.T) {
	svc, repo := setupTestBookingService()
	seedRoom(repo, "301")

	if _, err := svc.Create(context.Background(), newCreateRequest("301", "2026-01-10", "09:00", "11:00"), "user-001"); err != nil {
		t.Fatalf("首次预订应成功: %v", err)
	}

	// 部分重叠
	_, err := svc.Create(context.Background(), newCreateRequest("301", "2026-01-10", "10:00", "12:00"), "user-002")
	if !errors.Is(err, ErrBookingConflict) {
		t.Errorf("重叠时段应返回 ErrBookingConflict，实际=%v", err)
	}

	// 完全包含
	_, err = svc.Create(context.Background(), newCreateRequest("301", "2026-01-10", "09:30", "10:30"), "user-002")
	if !errors.Is(err, ErrBookingConflict) {
		t.Errorf("被包含时段应返回 ErrBookingConflict，实际=%v", err)
	}
}

func TestBookingService_Create_AdjacentSlots(t *testing.T) {
	svc, repo := setupTestBookingService()
	seedRoom(repo, "301")

	if _, err := svc.Create(context.Background(), newCreateRequest("301", "2026-01-10", "09:00", "10:00"), "user-001"); err != nil {
		t.Fatalf("首次预订应成功: %v", err)
	}

	// 半开区间 [start, end)：上一段结束即下一段开始，不冲突
	if _, err := svc.Create(context.Background(), newCreateRequest("301", "2026-01-10", "10:00", "11:00"), "user-002"); err != nil {
		t.Errorf("首尾相接的时段应可预订: %v", err)
	}
}

func TestBookingService_Create_DifferentRoomOrDay(t *testing.T) {
	svc, repo := setupTestBookingService()
	seedRoom(repo, "301")
	seedRoom(repo, "302")

	if _, err := svc.Create(context.Background(), newCreateRequest("301", "2026-01-10", "09:00", "10:00"), "user-001"); err != nil {
		t.Fatalf("首次预订应成功: %v", err)
	}

	// 同时段不同教室
	if _, err := svc.Create(context.Background(), newCreateRequest("302", "2026-01-10", "09:00", "10:00"), "user-002"); err != nil {
		t.Errorf("不同教室同时段应可预订: %v", err)
	}

	// 同教室不同日期
	if _, err := svc.Create(context.Background(), newCreateRequest("301", "2026-01-11", "09:00", "10:00"), "user-002"); err != nil {
		t.Errorf("同教室不同日期应可预订: %v", err)
	}
}

func TestBookingService_Create_CancelledSlotReusable(t *testing.T) {
	svc, repo := setupTestBookingService()
	seedRoom(repo, "301")

	first, err := svc.Create(context.Background(), newCreateRequest("301", "2026-01-10", "09:00", "10:00"), "user-001")
	if err != nil {
		t.Fatalf("首次预订应成功: %v", err)
	}

	if err := svc.Cancel(context.Background(), first.ID, "user-001", model.RoleTeacher); err != nil {
		t.Fatalf("取消应成功: %v", err)
	}

	// 已取消的预订不参与冲突扫描
	if _, err := svc.Create(context.Background(), newCreateRequest("301", "2026-01-10", "09:00", "10:00"), "user-002"); err != nil {
		t.Errorf("取消后同时段应可重新预订: %v", err)
	}
}

func TestBookingService_Create_RoomNotFound(t *testing.T) {
	svc, _ := setupTestBookingService()

	_, err := svc.Create(context.Background(), newCreateRequest("999", "2026-01-10", "09:00", "10:00"), "user-001")
	if !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("教室不存在应返回 ErrRoomNotFound，实际=%v", err)
	}
}

func TestBookingService_Create_RoomNotBookable(t *testing.T) {
	svc, repo := setupTestBookingService()
	room := seedRoom(repo, "301")
	room.UnderMaintenance = true

	_, err := svc.Create(context.Background(), newCreateRequest("301", "2026-01-10", "09:00", "10:00"), "user-001")
	if !errors.Is(err, ErrRoomNotBookable) {
		t.Errorf("维护中的教室应返回 ErrRoomNotBookable，实际=%v", err)
	}
}

func TestBookingService_Create_ValidationErrors(t *testing.T) {
	svc, repo := setupTestBookingService()
	seedRoom(repo, "301")
	ctx := context.Background()

	// 非法用途
	req := newCreateRequest("301", "2026-01-10", "09:00", "10:00")
	req.Purpose = "Karaoke Night"
	if _, err := svc.Create(ctx, req, "user-001"); !errors.Is(err, ErrInvalidPurpose) {
		t.Errorf("非法用途应返回 ErrInvalidPurpose，实际=%v", err)
	}

	// 跨午夜时间窗
	if _, err := svc.Create(ctx, newCreateRequest("301", "2026-01-10", "23:00", "01:00"), "user-001"); !errors.Is(err, ErrInvalidTimeWindow) {
		t.Errorf("跨午夜时间窗应返回 ErrInvalidTimeWindow，实际=%v", err)
	}

	// 非法时钟
	if _, err := svc.Create(ctx, newCreateRequest("301", "2026-01-10", "25:00", "26:00"), "user-001"); !errors.Is(err, ErrInvalidClock) {
		t.Errorf("非法时钟应返回 ErrInvalidClock，实际=%v", err)
	}

	// 非法日期
	if _, err := svc.Create(ctx, newCreateRequest("301", "01/10/2026", "09:00", "10:00"), "user-001"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("非法日期应返回 ErrInvalidDate，实际=%v", err)
	}

	// 超出最长时长（配置为 480 分钟）
	if _, err := svc.Create(ctx, newCreateRequest("301", "2026-01-10", "08:00", "18:00"), "user-001"); !errors.Is(err, ErrDurationTooLong) {
		t.Errorf("超长预订应返回 ErrDurationTooLong，实际=%v", err)
	}
}

// ── Update / Cancel 测试 ──

func TestBookingService_Update_StatusTransitions(t *testing.T) {
	svc, repo := setupTestBookingService()
	seedRoom(repo, "301")
	ctx := context.Background()

	created, err := svc.Create(ctx, newCreateRequest("301", "2026-01-10", "09:00", "10:00"), "user-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	completed := model.BookingStatusCompleted
	result, err := svc.Update(ctx, created.ID, &dto.UpdateBookingRequest{Status: &completed}, "user-001", model.RoleTeacher)
	if err != nil {
		t.Fatalf("confirmed → completed 应成功: %v", err)
	}
	if result.Status != model.BookingStatusCompleted {
		t.Errorf("期望状态=completed，实际=%s", result.Status)
	}

	// 终态不再流转
	cancelled := model.BookingStatusCancelled
	_, err = svc.Update(ctx, created.ID, &dto.UpdateBookingRequest{Status: &cancelled}, "user-001", model.RoleTeacher)
	if !errors.Is(err, ErrBookingTerminal) {
		t.Errorf("终态预订变更应返回 ErrBookingTerminal，实际=%v", err)
	}
}

func TestBookingService_Update_AccessControl(t *testing.T) {
	svc, repo := setupTestBookingService()
	seedRoom(repo, "301")
	ctx := context.Background()

	created, err := svc.Create(ctx, newCreateRequest("301", "2026-01-10", "09:00", "10:00"), "user-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	notes := "换了投影仪"

	// 非本人且非管理员
	_, err = svc.Update(ctx, created.ID, &dto.UpdateBookingRequest{Notes: &notes}, "user-002", model.RoleStudent)
	if !errors.Is(err, ErrBookingAccessDenied) {
		t.Errorf("他人预订应返回 ErrBookingAccessDenied，实际=%v", err)
	}

	// 管理员可操作任意预订
	result, err := svc.Update(ctx, created.ID, &dto.UpdateBookingRequest{Notes: &notes}, "admin-001", model.RoleAdmin)
	if err != nil {
		t.Fatalf("管理员更新应成功: %v", err)
	}
	if result.Notes != notes {
		t.Errorf("期望Notes=%q，实际=%q", notes, result.Notes)
	}
}

func TestBookingService_Cancel(t *testing.T) {
	svc, repo := setupTestBookingService()
	seedRoom(repo, "301")
	ctx := context.Background()

	created, err := svc.Create(ctx, newCreateRequest("301", "2026-01-10", "09:00", "10:00"), "user-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	// 非本人取消被拒
	if err := svc.Cancel(ctx, created.ID, "user-002", model.RoleStudent); !errors.Is(err, ErrBookingAccessDenied) {
		t.Errorf("他人取消应返回 ErrBookingAccessDenied，实际=%v", err)
	}

	if err := svc.Cancel(ctx, created.ID, "user-001", model.RoleTeacher); err != nil {
		t.Fatalf("本人取消应成功: %v", err)
	}

	// 软取消：记录保留，状态翻转
	after, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("取消后记录应仍可查询: %v", err)
	}
	if after.Status != model.BookingStatusCancelled {
		t.Errorf("期望状态=cancelled，实际=%s", after.Status)
	}

	// 重复取消
	if err := svc.Cancel(ctx, created.ID, "user-001", model.RoleTeacher); !errors.Is(err, ErrBookingTerminal) {
		t.Errorf("重复取消应返回 ErrBookingTerminal，实际=%v", err)
	}
}

func TestBookingService_Cancel_NotFound(t *testing.T) {
	svc, _ := setupTestBookingService()

	if err := svc.Cancel(context.Background(), "nope", "user-001", model.RoleAdmin); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("不存在的预订应返回 ErrBookingNotFound，实际=%v", err)
	}
}

// ── CheckAvailability 测试 ──

func TestBookingService_CheckAvailability(t *testing.T) {
	svc, repo := setupTestBookingService()
	seedRoom(repo, "301")
	ctx := context.Background()

	if _, err := svc.Create(ctx, newCreateRequest("301", "2026-01-10", "09:00", "11:00"), "user-001"); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	// 已占用时段
	available, err := svc.CheckAvailability(ctx, &dto.CheckAvailabilityRequest{
		RoomNumber: "301", Date: "2026-01-10", StartTime: "10:00", EndTime: "12:00",
	})
	if err != nil {
		t.Fatalf("CheckAvailability 应成功: %v", err)
	}
	if available {
		t.Error("重叠时段应不可用")
	}

	// 空闲时段
	available, err = svc.CheckAvailability(ctx, &dto.CheckAvailabilityRequest{
		RoomNumber: "301", Date: "2026-01-10", StartTime: "11:00", EndTime: "12:00",
	})
	if err != nil {
		t.Fatalf("CheckAvailability 应成功: %v", err)
	}
	if !available {
		t.Error("空闲时段应可用")
	}
}

func TestBookingService_CheckAvailability_UnbookableRoom(t *testing.T) {
	svc, repo := setupTestBookingService()
	room := seedRoom(repo, "301")
	room.IsAvailable = false

	available, err := svc.CheckAvailability(context.Background(), &dto.CheckAvailabilityRequest{
		RoomNumber: "301", Date: "2026-01-10", StartTime: "09:00", EndTime: "10:00",
	})
	if err != nil {
		t.Fatalf("CheckAvailability 应成功: %v", err)
	}
	if available {
		t.Error("停用的教室应不可用")
	}
}
