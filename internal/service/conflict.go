package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"edverse/backend/internal/model"
)

// ── 时间窗与冲突判定 ──────────────────────────────────────────
//
// 预订时间以 "HH:MM" 墙钟字符串表示，统一换算为自午夜起的分钟数。
// 区间为半开 [start, end)：相邻时段（上一段的 end == 下一段的 start）
// 不构成冲突。所有区间必须落在同一自然日内，不支持跨午夜时间窗。
// ─────────────────────────────────────────────────────────────

var (
	ErrInvalidClock      = errors.New("时间格式无效，应为 HH:MM")
	ErrInvalidTimeWindow = errors.New("时间窗无效：开始时间必须早于结束时间")
	ErrInvalidDate       = errors.New("日期格式无效，应为 YYYY-MM-DD")
)

// parseClock 将 "HH:MM" 解析为自午夜起的分钟数
func parseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return h*60 + m, nil
}

// overlaps 半开区间相交判定：[aStart,aEnd) ∩ [bStart,bEnd) ≠ ∅
func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// timeWindow 已解析的同日时间窗（分钟）
type timeWindow struct {
	start int
	end   int
}

// minutes 时间窗长度（分钟）
func (w timeWindow) minutes() int { return w.end - w.start }

// overlapsWindow 两个时间窗是否相交
func (w timeWindow) overlapsWindow(o timeWindow) bool {
	return overlaps(w.start, w.end, o.start, o.end)
}

// parseTimeWindow 解析并校验时间窗
// 零长度与跨午夜（start >= end）一律拒绝
func parseTimeWindow(startStr, endStr string) (timeWindow, error) {
	start, err := parseClock(startStr)
	if err != nil {
		return timeWindow{}, err
	}
	end, err := parseClock(endStr)
	if err != nil {
		return timeWindow{}, err
	}
	if start >= end {
		return timeWindow{}, ErrInvalidTimeWindow
	}
	return timeWindow{start: start, end: end}, nil
}

// parseDay 将 "YYYY-MM-DD" 解析为给定时区当日零点（日界桶下界）
func parseDay(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// findConflict 冲突扫描：返回与 w 相交的第一条预订
// 入参已按 room/日期/status<>cancelled 过滤；历史数据中无法解析的
// 时间字符串跳过（写入时已校验，正常不会出现）
func findConflict(bookings []model.Booking, w timeWindow) (*model.Booking, bool) {
	for i := range bookings {
		b := &bookings[i]
		bw, err := parseTimeWindow(b.StartTime, b.EndTime)
		if err != nil {
			continue
		}
		if w.overlapsWindow(bw) {
			return b, true
		}
	}
	return nil, false
}
