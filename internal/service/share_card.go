package service

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// 分享卡片尺寸
const (
	ShareCardWidth  = 600
	ShareCardHeight = 400
	shareCardDays   = 7
)

var (
	cardBackground = color.RGBA{R: 0x10, G: 0x1b, B: 0x2d, A: 0xff}
	cardAccent     = color.RGBA{R: 0x34, G: 0xd3, B: 0x99, A: 0xff}
	cardMuted      = color.RGBA{R: 0x33, G: 0x41, B: 0x55, A: 0xff}
	cardText       = color.RGBA{R: 0xf1, G: 0xf5, B: 0xf9, A: 0xff}
	cardSubtle     = color.RGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff}
)

// ShareDay 是卡片上一天的数据
type ShareDay struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Entries  int     `json:"entries"`
}

// WeeklySummary 汇总截至 End 的连续 7 天
type WeeklySummary struct {
	Start           string     `json:"start"`
	End             string     `json:"end"`
	Days            []ShareDay `json:"days"`
	TotalCalories   float64    `json:"total_calories"`
	AverageCalories float64    `json:"average_calories"`
	Protein         float64    `json:"protein"`
	Carbs           float64    `json:"carbs"`
	Fat             float64    `json:"fat"`
	TotalEntries    int        `json:"total_entries"`
	ActiveDays      int        `json:"active_days"`
	CurrentStreak   int        `json:"current_streak"`
	BMI             BMIReading `json:"bmi"`
}

// ShareCardService 从日志与资料生成周报卡片
type ShareCardService struct {
	logs     *MealLogService
	profiles *ProfileService
}

// NewShareCardService 构造 ShareCardService
func NewShareCardService(logs *MealLogService, profiles *ProfileService) *ShareCardService {
	return &ShareCardService{logs: logs, profiles: profiles}
}

// Summary 统计截至 end（含）的 7 天；平均热量只按有记录的天数计算
func (s *ShareCardService) Summary(deviceID string, end time.Time) (*WeeklySummary, error) {
	end = CalendarDay(end)
	start := end.AddDate(0, 0, -(shareCardDays - 1))

	logs, err := s.logs.ListBetween(deviceID, start, end)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]ShareDay, len(logs))
	summary := &WeeklySummary{
		Start: start.Format(LogDateFormat),
		End:   end.Format(LogDateFormat),
		Days:  make([]ShareDay, 0, shareCardDays),
	}

	for _, dayLog := range logs {
		day := ShareDay{Date: dayLog.Date, Entries: len(dayLog.Entries)}
		for _, entry := range dayLog.Entries {
			day.Calories += entry.Calories
			summary.Protein += entry.Protein
			summary.Carbs += entry.Carbs
			summary.Fat += entry.Fat
		}
		byDate[dayLog.Date] = day
	}

	for i := 0; i < shareCardDays; i++ {
		key := start.AddDate(0, 0, i).Format(LogDateFormat)
		day, ok := byDate[key]
		if !ok {
			day = ShareDay{Date: key}
		}
		summary.Days = append(summary.Days, day)
		summary.TotalCalories += day.Calories
		summary.TotalEntries += day.Entries
		if day.Entries > 0 {
			summary.ActiveDays++
		}
	}

	if summary.ActiveDays > 0 {
		summary.AverageCalories = summary.TotalCalories / float64(summary.ActiveDays)
	}

	streak, err := s.logs.Streak(deviceID, end)
	if err != nil {
		return nil, err
	}
	summary.CurrentStreak = streak.Current

	if s.profiles != nil {
		_, reading, err := s.profiles.BMI(deviceID)
		if err != nil {
			return nil, err
		}
		summary.BMI = reading
	}

	return summary, nil
}

// RenderShareCard 将周报绘制为 PNG
func RenderShareCard(summary *WeeklySummary) ([]byte, error) {
	if summary == nil {
		return nil, fmt.Errorf("render share card: summary is required")
	}

	canvas := image.NewRGBA(image.Rect(0, 0, ShareCardWidth, ShareCardHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(cardBackground), image.Point{}, draw.Src)

	drawScaledText(canvas, 32, 28, 3, "MY WEEK", cardText)
	drawText(canvas, 34, 82, fmt.Sprintf("%s - %s", summary.Start, summary.End), cardSubtle)

	drawCalorieBars(canvas, summary.Days)

	bmi := summary.BMI.Display
	if bmi == "" {
		bmi = BMIPlaceholder
	}
	if summary.BMI.Status != "" {
		bmi = fmt.Sprintf("%s (%s)", bmi, summary.BMI.Status)
	}

	lines := []string{
		fmt.Sprintf("Streak: %d day(s)   Logged days: %d/%d   Meals: %d", summary.CurrentStreak, summary.ActiveDays, shareCardDays, summary.TotalEntries),
		fmt.Sprintf("Calories: %.0f kcal total, %.0f kcal/day", summary.TotalCalories, summary.AverageCalories),
		fmt.Sprintf("Protein %.0fg   Carbs %.0fg   Fat %.0fg   BMI %s", summary.Protein, summary.Carbs, summary.Fat, bmi),
	}
	for i, line := range lines {
		drawText(canvas, 34, 326+i*20, line, cardText)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode share card: %w", err)
	}
	return buf.Bytes(), nil
}

func drawCalorieBars(canvas *image.RGBA, days []ShareDay) {
	const (
		left      = 34
		baseline  = 290
		maxHeight = 170
		slot      = 76
		barWidth  = 44
	)

	peak := 0.0
	for _, day := range days {
		if day.Calories > peak {
			peak = day.Calories
		}
	}

	for i, day := range days {
		x := left + i*slot
		track := image.Rect(x, baseline-maxHeight, x+barWidth, baseline)
		draw.Draw(canvas, track, image.NewUniform(cardMuted), image.Point{}, draw.Src)

		if peak > 0 && day.Calories > 0 {
			height := int(day.Calories / peak * maxHeight)
			if height < 2 {
				height = 2
			}
			bar := image.Rect(x, baseline-height, x+barWidth, baseline)
			draw.Draw(canvas, bar, image.NewUniform(cardAccent), image.Point{}, draw.Src)
		}

		label := day.Date
		if parsed, err := time.Parse(LogDateFormat, day.Date); err == nil {
			label = parsed.Format("Mon")
		}
		drawText(canvas, x+11, baseline+16, label, cardSubtle)
	}
}

func drawText(dst draw.Image, x, y int, text string, col color.Color) {
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}

// drawScaledText 先在小画布上绘制基础字体，再放大贴到目标位置
func drawScaledText(dst draw.Image, x, y, scale int, text string, col color.Color) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	height := face.Metrics().Height.Ceil()

	small := image.NewRGBA(image.Rect(0, 0, width, height))
	drawText(small, 0, face.Metrics().Ascent.Ceil(), text, col)

	target := image.Rect(x, y, x+width*scale, y+height*scale)
	draw.NearestNeighbor.Scale(dst, target, small, small.Bounds(), draw.Over, nil)
}
