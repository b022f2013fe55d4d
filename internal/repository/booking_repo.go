package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"edverse/backend/internal/model"
)

// BookingFilter 预订列表过滤条件
type BookingFilter struct {
	BookedBy   string
	RoomNumber string
	Status     string
	DayStart   *time.Time // 按自然日过滤，[dayStart, dayStart+24h)
	Offset     int
	Limit      int
}

// BookingRepository 预订数据访问接口
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	// ListForRoomDay 冲突扫描的读取端：某教室某自然日内所有未取消预订
	// excludeID 非空时排除对应预订（更新场景下重查自身）
	ListForRoomDay(ctx context.Context, roomNumber string, dayStart time.Time, excludeID string) ([]model.Booking, error)
	// ListForDay 某自然日全部未取消预订（空闲教室查询的批量读取端）
	ListForDay(ctx context.Context, dayStart time.Time) ([]model.Booking, error)
	// ListRange 日期区间内的已确认预订，按日期与开始时间排序（导出用）
	ListRange(ctx context.Context, from, to time.Time, bookedBy string) ([]model.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]model.Booking, int64, error)
	Update(ctx context.Context, booking *model.Booking) error
}

type bookingRepo struct {
	db *gorm.DB
}

// NewBookingRepo 创建 BookingRepository 实例
func NewBookingRepo(db *gorm.DB) BookingRepository {
	return &bookingRepo{db: db}
}

func (r *bookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepo) ListForRoomDay(ctx context.Context, roomNumber string, dayStart time.Time, excludeID string) ([]model.Booking, error) {
	var bookings []model.Booking
	db := r.db.WithContext(ctx).
		Where("room_number = ?", roomNumber).
		Where("date >= ? AND date < ?", dayStart, dayStart.Add(24*time.Hour)).
		Where("status <> ?", model.BookingStatusCancelled)

	if excludeID != "" {
		db = db.Where("booking_id <> ?", excludeID)
	}

	err := db.Order("start_time ASC").Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) ListForDay(ctx context.Context, dayStart time.Time) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", dayStart, dayStart.Add(24*time.Hour)).
		Where("status <> ?", model.BookingStatusCancelled).
		Order("room_number ASC, start_time ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) ListRange(ctx context.Context, from, to time.Time, bookedBy string) ([]model.Booking, error) {
	var bookings []model.Booking
	db := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", from, to).
		Where("status = ?", model.BookingStatusConfirmed)

	if bookedBy != "" {
		db = db.Where("booked_by = ?", bookedBy)
	}

	err := db.Order("date ASC, start_time ASC").Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) List(ctx context.Context, filter BookingFilter) ([]model.Booking, int64, error) {
	var bookings []model.Booking
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Booking{})

	if filter.BookedBy != "" {
		db = db.Where("booked_by = ?", filter.BookedBy)
	}
	if filter.RoomNumber != "" {
		db = db.Where("room_number = ?", filter.RoomNumber)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.DayStart != nil {
		db = db.Where("date >= ? AND date < ?", *filter.DayStart, filter.DayStart.Add(24*time.Hour))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("date DESC, start_time DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&bookings).Error
	return bookings, total, err
}

func (r *bookingRepo) Update(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}
