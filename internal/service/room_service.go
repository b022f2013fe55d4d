package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"edverse/backend/internal/dto"
	"edverse/backend/internal/model"
	"edverse/backend/internal/repository"
)

// ── 教室模块业务错误 ──

var (
	ErrRoomNotFound = errors.New("教室不存在")
	ErrRoomExists   = errors.New("教室编号已存在")
)

// RoomService 教室业务接口
type RoomService interface {
	Create(ctx context.Context, req *dto.CreateRoomRequest, callerID string) (*dto.RoomResponse, error)
	GetByID(ctx context.Context, id string) (*dto.RoomResponse, error)
	List(ctx context.Context, req *dto.RoomListRequest) ([]dto.RoomResponse, error)
	// ListAvailable 指定日期时间窗内无冲突预订、且状态允许使用的教室
	ListAvailable(ctx context.Context, req *dto.AvailableRoomsRequest) ([]dto.RoomResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateRoomRequest, callerID string) (*dto.RoomResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type roomService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewRoomService 创建 RoomService 实例
func NewRoomService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) RoomService {
	return &roomService{repo: repo, loc: loc, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *roomService) Create(ctx context.Context, req *dto.CreateRoomRequest, callerID string) (*dto.RoomResponse, error) {
	// 教室编号唯一
	if _, err := s.repo.Room.GetByNumber(ctx, req.RoomNumber); err == nil {
		return nil, ErrRoomExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询教室失败", zap.String("room_number", req.RoomNumber), zap.Error(err))
		return nil, err
	}

	room := &model.Room{
		RoomNumber:  req.RoomNumber,
		Name:        req.Name,
		Capacity:    req.Capacity,
		RoomType:    req.RoomType,
		Facilities:  model.StringArray(req.Facilities),
		IsAvailable: true,
	}
	room.CreatedBy = &callerID
	room.UpdatedBy = &callerID

	if err := s.repo.Room.Create(ctx, room); err != nil {
		s.logger.Error("创建教室失败", zap.Error(err))
		return nil, err
	}

	return s.toRoomResponse(room), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *roomService) GetByID(ctx context.Context, id string) (*dto.RoomResponse, error) {
	room, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toRoomResponse(room), nil
}

// ────────────────────── List ──────────────────────

func (s *roomService) List(ctx context.Context, req *dto.RoomListRequest) ([]dto.RoomResponse, error) {
	rooms, err := s.repo.Room.List(ctx, req.IncludeInactive, req.RoomType)
	if err != nil {
		s.logger.Error("列出教室失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		result = append(result, *s.toRoomResponse(&rooms[i]))
	}

	return result, nil
}

// ────────────────────── ListAvailable ──────────────────────

func (s *roomService) ListAvailable(ctx context.Context, req *dto.AvailableRoomsRequest) ([]dto.RoomResponse, error) {
	window, err := parseTimeWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	dayStart, err := parseDay(req.Date, s.loc)
	if err != nil {
		return nil, err
	}

	rooms, err := s.repo.Room.List(ctx, false, "")
	if err != nil {
		s.logger.Error("列出教室失败", zap.Error(err))
		return nil, err
	}

	// 一次取回当日全部未取消预订，按教室分组后逐一做区间判定
	bookings, err := s.repo.Booking.ListForDay(ctx, dayStart)
	if err != nil {
		s.logger.Error("查询当日预订失败", zap.Error(err))
		return nil, err
	}

	byRoom := make(map[string][]model.Booking)
	for _, b := range bookings {
		byRoom[b.RoomNumber] = append(byRoom[b.RoomNumber], b)
	}

	result := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		room := &rooms[i]
		if !room.Bookable() {
			continue
		}
		if _, conflict := findConflict(byRoom[room.RoomNumber], window); conflict {
			continue
		}
		result = append(result, *s.toRoomResponse(room))
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *roomService) Update(ctx context.Context, id string, req *dto.UpdateRoomRequest, callerID string) (*dto.RoomResponse, error) {
	room, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	if req.RoomType != nil {
		room.RoomType = *req.RoomType
	}
	if req.Facilities != nil {
		room.Facilities = model.StringArray(*req.Facilities)
	}
	if req.IsAvailable != nil {
		room.IsAvailable = *req.IsAvailable
	}
	if req.UnderMaintenance != nil {
		room.UnderMaintenance = *req.UnderMaintenance
	}

	room.UpdatedBy = &callerID

	if err := s.repo.Room.Update(ctx, room); err != nil {
		s.logger.Error("更新教室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toRoomResponse(room), nil
}

// ────────────────────── Delete ──────────────────────

func (s *roomService) Delete(ctx context.Context, id string, callerID string) error {
	_, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Room.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除教室失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ── 内部辅助方法 ──

func (s *roomService) toRoomResponse(room *model.Room) *dto.RoomResponse {
	return &dto.RoomResponse{
		ID:               room.RoomID,
		RoomNumber:       room.RoomNumber,
		Name:             room.Name,
		Capacity:         room.Capacity,
		RoomType:         room.RoomType,
		Facilities:       []string(room.Facilities),
		IsAvailable:      room.IsAvailable,
		UnderMaintenance: room.UnderMaintenance,
		CreatedAt:        room.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        room.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
