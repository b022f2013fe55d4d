package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"edverse/backend/internal/model"
	"edverse/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoBookings   = errors.New("区间内无预订记录")
	ErrExportInvalidRange = errors.New("导出区间无效")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - Excel 导出面向管理端报表：日期区间内的已确认预订，按日期分 Sheet
//   - ICS 导出面向个人日历订阅：请求者本人的已确认预订转为 VEVENT
//   - 均以内存缓冲返回，由 Handler 层设置响应头后写入 Response
type ExportService interface {
	// ExportBookings 导出日期区间内的预订为 Excel
	// 返回值：buf（xlsx 内容）, filename（建议文件名）, error
	ExportBookings(ctx context.Context, from, to string) (*bytes.Buffer, string, error)
	// ExportCalendar 导出某用户的预订为 iCalendar 文本
	ExportCalendar(ctx context.Context, userID string) (string, string, error)
}

type exportService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, loc: loc, logger: logger}
}

// ────────────────────── ExportBookings ──────────────────────

var bookingSheetHeader = []string{"Room", "Start", "End", "Purpose", "Course", "Teacher", "Notes"}

func (s *exportService) ExportBookings(ctx context.Context, from, to string) (*bytes.Buffer, string, error) {
	fromDay, err := parseDay(from, s.loc)
	if err != nil {
		return nil, "", err
	}
	toDay, err := parseDay(to, s.loc)
	if err != nil {
		return nil, "", err
	}
	if !fromDay.Before(toDay.Add(24 * time.Hour)) {
		return nil, "", ErrExportInvalidRange
	}

	bookings, err := s.repo.Booking.ListRange(ctx, fromDay, toDay.Add(24*time.Hour), "")
	if err != nil {
		s.logger.Error("查询预订区间失败", zap.Error(err))
		return nil, "", err
	}
	if len(bookings) == 0 {
		return nil, "", ErrExportNoBookings
	}

	// 按日期分组，每个自然日一个 Sheet
	byDay := make(map[string][]model.Booking)
	var dayOrder []string
	for _, b := range bookings {
		day := b.Date.In(s.loc).Format("2006-01-02")
		if _, seen := byDay[day]; !seen {
			dayOrder = append(dayOrder, day)
		}
		byDay[day] = append(byDay[day], b)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}

	for _, day := range dayOrder {
		sheet := day
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return nil, "", ErrExportGenerateFail
		}
		_ = idx

		for col, h := range bookingSheetHeader {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			_ = f.SetCellValue(sheet, cell, h)
		}
		endHeader, _ := excelize.CoordinatesToCellName(len(bookingSheetHeader), 1)
		_ = f.SetCellStyle(sheet, "A1", endHeader, headerStyle)
		_ = f.SetColWidth(sheet, "A", "G", 18)

		for row, b := range byDay[day] {
			course := b.CourseCode
			if b.CourseName != "" {
				if course != "" {
					course += " "
				}
				course += b.CourseName
			}
			values := []interface{}{
				b.RoomNumber + " " + b.RoomName,
				b.StartTime,
				b.EndTime,
				b.Purpose,
				course,
				b.TeacherName,
				b.Notes,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				_ = f.SetCellValue(sheet, cell, v)
			}
		}
	}

	// 去掉默认 Sheet，激活第一个日期页
	_ = f.DeleteSheet("Sheet1")
	if first, err := f.GetSheetIndex(dayOrder[0]); err == nil {
		f.SetActiveSheet(first)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("写出 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("bookings_%s_%s.xlsx", from, to)
	return buf, filename, nil
}

// ────────────────────── ExportCalendar ──────────────────────

func (s *exportService) ExportCalendar(ctx context.Context, userID string) (string, string, error) {
	// 过去一年到未来一年的已确认预订
	now := time.Now().In(s.loc)
	from := now.AddDate(-1, 0, 0)
	to := now.AddDate(1, 0, 0)

	bookings, err := s.repo.Booking.ListRange(ctx, from, to, userID)
	if err != nil {
		s.logger.Error("查询用户预订失败", zap.String("user_id", userID), zap.Error(err))
		return "", "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//edVerse//Room Booking//EN")

	for i := range bookings {
		b := &bookings[i]
		start, end, err := s.eventTimes(b)
		if err != nil {
			// 历史脏数据跳过，不阻断整个日历
			continue
		}

		event := cal.AddEvent(b.BookingID + "@edverse")
		event.SetCreatedTime(b.CreatedAt)
		event.SetDtStampTime(b.CreatedAt)
		event.SetModifiedAt(b.UpdatedAt)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(b.Purpose + " — Room " + b.RoomNumber)
		event.SetLocation(b.RoomName)
		if b.CourseName != "" {
			event.SetDescription(b.CourseCode + " " + b.CourseName)
		}
	}

	filename := fmt.Sprintf("bookings_%s.ics", userID)
	return cal.Serialize(), filename, nil
}

// eventTimes 预订记录 → 绝对时间区间（date 为当日零点，叠加墙钟分钟）
func (s *exportService) eventTimes(b *model.Booking) (time.Time, time.Time, error) {
	w, err := parseTimeWindow(b.StartTime, b.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	day := b.Date.In(s.loc)
	start := day.Add(time.Duration(w.start) * time.Minute)
	end := day.Add(time.Duration(w.end) * time.Minute)
	return start, end, nil
}
