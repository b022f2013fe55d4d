package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"edverse/backend/config"
	"edverse/backend/internal/dto"
	"edverse/backend/internal/model"
	"edverse/backend/internal/repository"
)

// ── 预订模块业务错误 ──

var (
	ErrBookingNotFound     = errors.New("预订不存在")
	ErrBookingConflict     = errors.New("该时段已被预订")
	ErrRoomNotBookable     = errors.New("教室当前不可预订")
	ErrInvalidPurpose      = errors.New("预订用途无效")
	ErrDurationTooLong     = errors.New("预订时长超出上限")
	ErrBookingTerminal     = errors.New("预订已处于终态，不允许变更")
	ErrBookingAccessDenied = errors.New("无权操作该预订")
)

// validPurposes 预订用途封闭枚举
var validPurposes = map[string]bool{
	model.PurposeExtraClass:   true,
	model.PurposeMeeting:      true,
	model.PurposeLabSession:   true,
	model.PurposeProjectWork:  true,
	model.PurposeGuestLecture: true,
	model.PurposeExam:         true,
	model.PurposeOther:        true,
}

// BookingService 预订业务接口
type BookingService interface {
	// Create 创建预订：教室行锁 + 冲突扫描 + 插入在同一事务内完成
	Create(ctx context.Context, req *dto.CreateBookingRequest, callerID string) (*dto.BookingResponse, error)
	GetByID(ctx context.Context, id string) (*dto.BookingResponse, error)
	List(ctx context.Context, req *dto.BookingListRequest) ([]dto.BookingResponse, int64, error)
	// Update 状态流转（confirmed → cancelled | completed）与备注变更
	Update(ctx context.Context, id string, req *dto.UpdateBookingRequest, callerID, callerRole string) (*dto.BookingResponse, error)
	// Cancel 软取消：状态翻转为 cancelled，记录保留
	Cancel(ctx context.Context, id string, callerID, callerRole string) error
	// CheckAvailability 只读可用性检查（不写入，不加锁）
	CheckAvailability(ctx context.Context, req *dto.CheckAvailabilityRequest) (bool, error)
}

type bookingService struct {
	cfg    *config.Config
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewBookingService 创建 BookingService 实例
func NewBookingService(cfg *config.Config, repo *repository.Repository, loc *time.Location, logger *zap.Logger) BookingService {
	return &bookingService{cfg: cfg, repo: repo, loc: loc, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *bookingService) Create(ctx context.Context, req *dto.CreateBookingRequest, callerID string) (*dto.BookingResponse, error) {
	window, err := parseTimeWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if window.minutes() > s.cfg.Booking.MaxDurationMinutes {
		return nil, ErrDurationTooLong
	}
	if !validPurposes[req.Purpose] {
		return nil, ErrInvalidPurpose
	}
	dayStart, err := parseDay(req.Date, s.loc)
	if err != nil {
		return nil, err
	}

	var created *model.Booking

	// 教室行锁串行化同教室写入，扫描与插入之间不存在竞态窗口
	err = s.repo.Tx.WithTx(ctx, func(txRepo *repository.Repository) error {
		room, err := txRepo.Room.GetByNumberForUpdate(ctx, req.RoomNumber)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		if !room.Bookable() {
			return ErrRoomNotBookable
		}

		existing, err := txRepo.Booking.ListForRoomDay(ctx, room.RoomNumber, dayStart, "")
		if err != nil {
			return err
		}
		if _, conflict := findConflict(existing, window); conflict {
			return ErrBookingConflict
		}

		booking := &model.Booking{
			RoomNumber:      room.RoomNumber,
			RoomName:        room.Name,
			BookedBy:        callerID,
			TeacherName:     req.TeacherName,
			Date:            dayStart,
			StartTime:       req.StartTime,
			EndTime:         req.EndTime,
			DurationMinutes: window.minutes(), // 服务端重算，忽略客户端传入值
			Purpose:         req.Purpose,
			CourseCode:      req.CourseCode,
			CourseName:      req.CourseName,
			Notes:           req.Notes,
			Status:          model.BookingStatusConfirmed,
		}
		booking.CreatedBy = &callerID
		booking.UpdatedBy = &callerID

		if err := txRepo.Booking.Create(ctx, booking); err != nil {
			return err
		}
		created = booking
		return nil
	})
	if err != nil {
		if isBookingBusinessErr(err) {
			return nil, err
		}
		s.logger.Error("创建预订失败",
			zap.String("room_number", req.RoomNumber),
			zap.String("date", req.Date),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("预订创建成功",
		zap.String("booking_id", created.BookingID),
		zap.String("room_number", created.RoomNumber),
		zap.String("start_time", created.StartTime),
		zap.String("end_time", created.EndTime),
	)

	return s.toBookingResponse(created), nil
}

// isBookingBusinessErr 业务错误不打 Error 日志
func isBookingBusinessErr(err error) bool {
	return errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrRoomNotBookable) ||
		errors.Is(err, ErrBookingConflict)
}

// ────────────────────── GetByID ──────────────────────

func (s *bookingService) GetByID(ctx context.Context, id string) (*dto.BookingResponse, error) {
	booking, err := s.repo.Booking.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("查询预订失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toBookingResponse(booking), nil
}

// ────────────────────── List ──────────────────────

func (s *bookingService) List(ctx context.Context, req *dto.BookingListRequest) ([]dto.BookingResponse, int64, error) {
	filter := repository.BookingFilter{
		BookedBy:   req.BookedBy,
		RoomNumber: req.RoomNumber,
		Status:     req.Status,
		Offset:     req.GetOffset(),
		Limit:      req.GetPageSize(),
	}
	if req.Date != "" {
		dayStart, err := parseDay(req.Date, s.loc)
		if err != nil {
			return nil, 0, err
		}
		filter.DayStart = &dayStart
	}

	bookings, total, err := s.repo.Booking.List(ctx, filter)
	if err != nil {
		s.logger.Error("列出预订失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		result = append(result, *s.toBookingResponse(&bookings[i]))
	}

	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *bookingService) Update(ctx context.Context, id string, req *dto.UpdateBookingRequest, callerID, callerRole string) (*dto.BookingResponse, error) {
	booking, err := s.repo.Booking.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("查询预订失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if callerRole != model.RoleAdmin && booking.BookedBy != callerID {
		return nil, ErrBookingAccessDenied
	}

	if req.Status != nil {
		// confirmed → cancelled | completed，终态不再流转
		if booking.Terminal() {
			return nil, ErrBookingTerminal
		}
		booking.Status = *req.Status
	}
	if req.Notes != nil {
		booking.Notes = *req.Notes
	}

	booking.UpdatedBy = &callerID

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		s.logger.Error("更新预订失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toBookingResponse(booking), nil
}

// ────────────────────── Cancel ──────────────────────

func (s *bookingService) Cancel(ctx context.Context, id string, callerID, callerRole string) error {
	booking, err := s.repo.Booking.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("查询预订失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if callerRole != model.RoleAdmin && booking.BookedBy != callerID {
		return ErrBookingAccessDenied
	}
	if booking.Terminal() {
		return ErrBookingTerminal
	}

	booking.Status = model.BookingStatusCancelled
	booking.UpdatedBy = &callerID

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		s.logger.Error("取消预订失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("预订已取消",
		zap.String("booking_id", id),
		zap.String("cancelled_by", callerID),
	)

	return nil
}

// ────────────────────── CheckAvailability ──────────────────────

func (s *bookingService) CheckAvailability(ctx context.Context, req *dto.CheckAvailabilityRequest) (bool, error) {
	window, err := parseTimeWindow(req.StartTime, req.EndTime)
	if err != nil {
		return false, err
	}
	dayStart, err := parseDay(req.Date, s.loc)
	if err != nil {
		return false, err
	}

	room, err := s.repo.Room.GetByNumber(ctx, req.RoomNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("room_number", req.RoomNumber), zap.Error(err))
		return false, err
	}
	if !room.Bookable() {
		return false, nil
	}

	existing, err := s.repo.Booking.ListForRoomDay(ctx, room.RoomNumber, dayStart, "")
	if err != nil {
		s.logger.Error("冲突扫描失败", zap.String("room_number", req.RoomNumber), zap.Error(err))
		return false, err
	}

	_, conflict := findConflict(existing, window)
	return !conflict, nil
}

// ── 内部辅助方法 ──

func (s *bookingService) toBookingResponse(b *model.Booking) *dto.BookingResponse {
	return &dto.BookingResponse{
		ID:              b.BookingID,
		RoomNumber:      b.RoomNumber,
		RoomName:        b.RoomName,
		BookedBy:        b.BookedBy,
		TeacherName:     b.TeacherName,
		Date:            b.Date.In(s.loc).Format("2006-01-02"),
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		DurationMinutes: b.DurationMinutes,
		Purpose:         b.Purpose,
		CourseCode:      b.CourseCode,
		CourseName:      b.CourseName,
		Notes:           b.Notes,
		Status:          b.Status,
		CreatedAt:       b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
