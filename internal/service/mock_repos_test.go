package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"edverse/backend/internal/model"
	"edverse/backend/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%03d", len(m.users)+1)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

// ── Mock RoomRepository ──

type mockRoomRepo struct {
	rooms map[string]*model.Room // key: RoomID
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[string]*model.Room)}
}

func (m *mockRoomRepo) Create(_ context.Context, room *model.Room) error {
	if room.RoomID == "" {
		room.RoomID = "room-" + room.RoomNumber
	}
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id string) (*model.Room, error) {
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) GetByNumber(_ context.Context, roomNumber string) (*model.Room, error) {
	for _, r := range m.rooms {
		if r.RoomNumber == roomNumber {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) GetByNumberForUpdate(ctx context.Context, roomNumber string) (*model.Room, error) {
	// 单元测试无真实事务，行锁语义退化为普通查询
	return m.GetByNumber(ctx, roomNumber)
}

func (m *mockRoomRepo) List(_ context.Context, includeInactive bool, roomType string) ([]model.Room, error) {
	var result []model.Room
	for _, r := range m.rooms {
		if !includeInactive && !r.IsAvailable {
			continue
		}
		if roomType != "" && r.RoomType != roomType {
			continue
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RoomNumber < result[j].RoomNumber })
	return result, nil
}

func (m *mockRoomRepo) Update(_ context.Context, room *model.Room) error {
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.rooms, id)
	return nil
}

// ── Mock BookingRepository ──

type mockBookingRepo struct {
	bookings map[string]*model.Booking
	seq      int
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{bookings: make(map[string]*model.Booking)}
}

func (m *mockBookingRepo) Create(_ context.Context, booking *model.Booking) error {
	if booking.BookingID == "" {
		m.seq++
		booking.BookingID = fmt.Sprintf("booking-%03d", m.seq)
	}
	m.bookings[booking.BookingID] = booking
	return nil
}

func (m *mockBookingRepo) GetByID(_ context.Context, id string) (*model.Booking, error) {
	if b, ok := m.bookings[id]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBookingRepo) ListForRoomDay(_ context.Context, roomNumber string, dayStart time.Time, excludeID string) ([]model.Booking, error) {
	dayEnd := dayStart.Add(24 * time.Hour)
	var result []model.Booking
	for _, b := range m.bookings {
		if b.RoomNumber != roomNumber || b.Status == model.BookingStatusCancelled {
			continue
		}
		if b.Date.Before(dayStart) || !b.Date.Before(dayEnd) {
			continue
		}
		if excludeID != "" && b.BookingID == excludeID {
			continue
		}
		result = append(result, *b)
	}
	return result, nil
}

func (m *mockBookingRepo) ListForDay(_ context.Context, dayStart time.Time) ([]model.Booking, error) {
	dayEnd := dayStart.Add(24 * time.Hour)
	var result []model.Booking
	for _, b := range m.bookings {
		if b.Status == model.BookingStatusCancelled {
			continue
		}
		if b.Date.Before(dayStart) || !b.Date.Before(dayEnd) {
			continue
		}
		result = append(result, *b)
	}
	return result, nil
}

func (m *mockBookingRepo) ListRange(_ context.Context, from, to time.Time, bookedBy string) ([]model.Booking, error) {
	var result []model.Booking
	for _, b := range m.bookings {
		if b.Status != model.BookingStatusConfirmed {
			continue
		}
		if b.Date.Before(from) || !b.Date.Before(to) {
			continue
		}
		if bookedBy != "" && b.BookedBy != bookedBy {
			continue
		}
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].StartTime < result[j].StartTime
	})
	return result, nil
}

func (m *mockBookingRepo) List(_ context.Context, filter repository.BookingFilter) ([]model.Booking, int64, error) {
	var result []model.Booking
	for _, b := range m.bookings {
		if filter.BookedBy != "" && b.BookedBy != filter.BookedBy {
			continue
		}
		if filter.RoomNumber != "" && b.RoomNumber != filter.RoomNumber {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.DayStart != nil {
			if b.Date.Before(*filter.DayStart) || !b.Date.Before(filter.DayStart.Add(24*time.Hour)) {
				continue
			}
		}
		result = append(result, *b)
	}
	return result, int64(len(result)), nil
}

func (m *mockBookingRepo) Update(_ context.Context, booking *model.Booking) error {
	m.bookings[booking.BookingID] = booking
	return nil
}

// ── Mock TxManager ──

// mockTxManager 直接用同一份 mock Repository 执行回调，无真实事务语义
type mockTxManager struct {
	repo *repository.Repository
}

func (m *mockTxManager) WithTx(_ context.Context, fn func(txRepo *repository.Repository) error) error {
	return fn(m.repo)
}

// newMockRepository 组装全 mock 的 Repository 聚合
func newMockRepository() *repository.Repository {
	repo := &repository.Repository{
		User:    newMockUserRepo(),
		Room:    newMockRoomRepo(),
		Booking: newMockBookingRepo(),
	}
	repo.Tx = &mockTxManager{repo: repo}
	return repo
}
