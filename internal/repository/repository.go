package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User    UserRepository
	Room    RoomRepository
	Booking BookingRepository
	Tx      TxManager
}

// TxManager 事务边界
// 预订写入依赖「同一事务内 教室行锁 → 冲突扫描 → 插入」，
// 通过 WithTx 把绑定到事务连接的 Repository 注入回调。
type TxManager interface {
	WithTx(ctx context.Context, fn func(txRepo *Repository) error) error
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	repo := newRepos(db)
	repo.Tx = &gormTxManager{db: db}
	return repo
}

func newRepos(db *gorm.DB) *Repository {
	return &Repository{
		User:    NewUserRepo(db),
		Room:    NewRoomRepo(db),
		Booking: NewBookingRepo(db),
	}
}

// gormTxManager 基于 gorm.DB.Transaction 的 TxManager 实现
type gormTxManager struct {
	db *gorm.DB
}

func (m *gormTxManager) WithTx(ctx context.Context, fn func(txRepo *Repository) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := newRepos(tx)
		txRepo.Tx = &gormTxManager{db: tx}
		return fn(txRepo)
	})
}
