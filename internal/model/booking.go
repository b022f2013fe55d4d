package model

import "time"

// ── 预订状态机：confirmed → cancelled | completed（均为终态） ──

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// ── 预订用途（封闭枚举） ──

const (
	PurposeExtraClass   = "Extra Class"
	PurposeMeeting      = "Meeting"
	PurposeLabSession   = "Lab Session"
	PurposeProjectWork  = "Project Work"
	PurposeGuestLecture = "Guest Lecture"
	PurposeExam         = "Exam"
	PurposeOther        = "Other"
)

// Booking 教室预订表 — 对应 bookings
// date 仅用于日界分桶；start_time/end_time 为 "HH:MM" 墙钟字符串，
// 同一 room_number + 日期内按半开区间 [start, end) 互不重叠。
// 取消是状态翻转而非删除（保留审计历史），时间窗确认后不可修改。
type Booking struct {
	BookingID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"booking_id"`
	RoomNumber      string    `gorm:"type:varchar(20);not null"                      json:"room_number"`
	RoomName        string    `gorm:"type:varchar(100)"                              json:"room_name,omitempty"`
	BookedBy        string    `gorm:"type:uuid;not null"                             json:"booked_by"`
	TeacherName     string    `gorm:"type:varchar(100)"                              json:"teacher_name,omitempty"`
	Date            time.Time `gorm:"not null"                                       json:"date"`
	StartTime       string    `gorm:"type:varchar(5);not null"                       json:"start_time"`
	EndTime         string    `gorm:"type:varchar(5);not null"                       json:"end_time"`
	DurationMinutes int       `gorm:"type:smallint;not null"                         json:"duration_minutes"`
	Purpose         string    `gorm:"type:varchar(30);not null"                      json:"purpose"`
	CourseCode      string    `gorm:"type:varchar(30)"                               json:"course_code,omitempty"`
	CourseName      string    `gorm:"type:varchar(100)"                              json:"course_name,omitempty"`
	Notes           string    `gorm:"type:varchar(500)"                              json:"notes,omitempty"`
	Status          string    `gorm:"type:varchar(20);not null;default:'confirmed'"  json:"status"`
	BaseModel
}

// TableName 指定表名
func (Booking) TableName() string { return "bookings" }

// Terminal 当前状态是否为终态
func (b *Booking) Terminal() bool {
	return b.Status == BookingStatusCancelled || b.Status == BookingStatusCompleted
}
