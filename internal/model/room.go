package model

// ── 教室类型 ──

const (
	RoomTypeClassroom  = "classroom"
	RoomTypeLab        = "lab"
	RoomTypeSeminar    = "seminar"
	RoomTypeAuditorium = "auditorium"
)

// Room 教室表 — 对应 rooms
// room_number 为业务主键（预订按编号引用，非严格外键）
type Room struct {
	RoomID           string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_id"`
	RoomNumber       string      `gorm:"type:varchar(20);not null"                      json:"room_number"`
	Name             string      `gorm:"type:varchar(100);not null"                     json:"name"`
	Capacity         int         `gorm:"type:smallint;not null;default:0"               json:"capacity"`
	RoomType         string      `gorm:"type:varchar(20);not null;default:'classroom'"  json:"room_type"`
	Facilities       StringArray `gorm:"type:text[]"                                    json:"facilities,omitempty"`
	IsAvailable      bool        `gorm:"not null;default:true"                          json:"is_available"`
	UnderMaintenance bool        `gorm:"not null;default:false"                         json:"under_maintenance"`
	SoftDeleteModel
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }

// Bookable 教室当前是否可接受预订（与时段冲突无关的静态条件）
func (r *Room) Bookable() bool {
	return r.IsAvailable && !r.UnderMaintenance
}
