package handler

import "edverse/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Room    *RoomHandler
	Booking *BookingHandler
	Export  *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth),
		User:    NewUserHandler(svc.User),
		Room:    NewRoomHandler(svc.Room, svc.Booking),
		Booking: NewBookingHandler(svc.Booking),
		Export:  NewExportHandler(svc.Export),
	}
}
