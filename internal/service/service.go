package service

import (
	"time"

	"go.uber.org/zap"

	"edverse/backend/config"
	"edverse/backend/internal/repository"
	"edverse/backend/pkg/jwt"
	"edverse/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth    AuthService
	User    UserService
	Room    RoomService
	Booking BookingService
	Export  ExportService
}

// NewService 创建 Service 聚合
// rdb 可为 nil：Token 黑名单与限流降级，不影响核心预订流程
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	loc, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		// config.Validate 已校验时区，此处仅兜底
		loc = time.UTC
	}

	return &Service{
		Auth:    NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:    NewUserService(repo, logger),
		Room:    NewRoomService(repo, loc, logger),
		Booking: NewBookingService(cfg, repo, loc, logger),
		Export:  NewExportService(repo, loc, logger),
	}
}
