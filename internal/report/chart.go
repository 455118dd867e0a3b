package report

// Package report renders a daily activity chart from the follow ledger
// and delivers it to Telegram together with the routine summary.

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"insta-pilot/internal/ledger"

	"github.com/fogleman/gg"
)

const (
	chartWidth  = 1200
	chartHeight = 700

	chartAreaLeft   = 100.0
	chartAreaRight  = 1120.0
	chartAreaTop    = 140.0
	chartAreaBottom = 600.0

	chartDays  = 7
	barSpacing = 20.0

	titleFontSize = 28.0
	labelFontSize = 20.0
	valueOffsetY  = 12.0
	dateOffsetY   = 30.0
)

var (
	followColor   = color.RGBA{R: 0x3c, G: 0xb3, B: 0x71, A: 0xff}
	unfollowColor = color.RGBA{R: 0xd9, G: 0x53, B: 0x4f, A: 0xff}
)

// dayCounts aggregates ledger activity for one calendar day.
type dayCounts struct {
	label     string
	follows   int
	unfollows int
}

// GenerateActivityChart renders a follows/unfollows-per-day bar chart
// covering the last week of ledger history and returns the PNG path.
func GenerateActivityChart(led *ledger.Ledger, dataDir string) (string, error) {
	entries := led.Snapshot()
	if len(entries) == 0 {
		return "", fmt.Errorf("no ledger history to chart")
	}

	days := bucketByDay(entries, time.Now(), chartDays)

	maxCount := 1
	for _, d := range days {
		if d.follows > maxCount {
			maxCount = d.follows
		}
		if d.unfollows > maxCount {
			maxCount = d.unfollows
		}
	}

	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetColor(color.White)
	dc.Clear()

	dc.SetColor(color.Black)
	if err := dc.LoadFontFace("/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf", titleFontSize); err == nil {
		dc.DrawStringAnchored("Follow activity, last 7 days", chartWidth/2, 60, 0.5, 0.5)
	}

	fontLoaded := dc.LoadFontFace("/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf", labelFontSize) == nil

	plotWidth := chartAreaRight - chartAreaLeft
	plotHeight := chartAreaBottom - chartAreaTop
	groupWidth := plotWidth / float64(chartDays)
	barWidth := (groupWidth - 3*barSpacing) / 2

	for i, d := range days {
		groupLeft := chartAreaLeft + float64(i)*groupWidth + barSpacing

		followHeight := plotHeight * float64(d.follows) / float64(maxCount)
		dc.SetColor(followColor)
		dc.DrawRectangle(groupLeft, chartAreaBottom-followHeight, barWidth, followHeight)
		dc.Fill()

		unfollowHeight := plotHeight * float64(d.unfollows) / float64(maxCount)
		dc.SetColor(unfollowColor)
		dc.DrawRectangle(groupLeft+barWidth+barSpacing, chartAreaBottom-unfollowHeight, barWidth, unfollowHeight)
		dc.Fill()

		if fontLoaded {
			dc.SetColor(color.Black)
			dc.DrawStringAnchored(fmt.Sprintf("%d", d.follows),
				groupLeft+barWidth/2, chartAreaBottom-followHeight-valueOffsetY, 0.5, 0.5)
			dc.DrawStringAnchored(fmt.Sprintf("%d", d.unfollows),
				groupLeft+barWidth+barSpacing+barWidth/2, chartAreaBottom-unfollowHeight-valueOffsetY, 0.5, 0.5)
			dc.DrawStringAnchored(d.label, groupLeft+barWidth+barSpacing/2, chartAreaBottom+dateOffsetY, 0.5, 0.5)
		}
	}

	dc.SetColor(color.Black)
	dc.SetLineWidth(2)
	dc.DrawLine(chartAreaLeft, chartAreaBottom, chartAreaRight, chartAreaBottom)
	dc.Stroke()

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create chart directory: %w", err)
	}
	chartPath := filepath.Join(dataDir, "activity_chart.png")
	if err := dc.SavePNG(chartPath); err != nil {
		return "", fmt.Errorf("failed to save chart: %w", err)
	}

	return chartPath, nil
}

// bucketByDay counts follow and unfollow events per calendar day for the
// last n days ending at ref.
func bucketByDay(entries []ledger.Entry, ref time.Time, n int) []dayCounts {
	start := ref.AddDate(0, 0, -(n - 1))
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, ref.Location())

	days := make([]dayCounts, n)
	for i := range days {
		days[i].label = startDay.AddDate(0, 0, i).Format("Mon")
	}

	index := func(t time.Time) int {
		local := t.In(ref.Location())
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, ref.Location())
		return int(day.Sub(startDay).Hours() / 24)
	}

	for _, e := range entries {
		if i := index(e.Record.FollowedAt); i >= 0 && i < n {
			days[i].follows++
		}
		if e.Record.UnfollowedAt != nil {
			if i := index(*e.Record.UnfollowedAt); i >= 0 && i < n {
				days[i].unfollows++
			}
		}
	}

	return days
}
