package visualize

import (
	"SalesAnalysis/src/config"
	"SalesAnalysis/src/processor"
	"SalesAnalysis/src/storage"
	"fmt"
	"math"
	"os"

	"github.com/go-gota/gota/dataframe"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// 调色板取自 matplotlib 的 viridis 与 magma 色图
var (
	Viridis = []drawing.Color{
		{R: 0x44, G: 0x01, B: 0x54, A: 0xff},
		{R: 0x41, G: 0x44, B: 0x87, A: 0xff},
		{R: 0x2a, G: 0x78, B: 0x8e, A: 0xff},
		{R: 0x22, G: 0xa8, B: 0x84, A: 0xff},
		{R: 0x7a, G: 0xd1, B: 0x51, A: 0xff},
		{R: 0xfd, G: 0xe7, B: 0x25, A: 0xff},
	}
	Magma = []drawing.Color{
		{R: 0x1c, G: 0x10, B: 0x44, A: 0xff},
		{R: 0x4f, G: 0x12, B: 0x7b, A: 0xff},
		{R: 0x81, G: 0x25, B: 0x81, A: 0xff},
		{R: 0xb5, G: 0x36, B: 0x7a, A: 0xff},
		{R: 0xe5, G: 0x50, B: 0x64, A: 0xff},
		{R: 0xfb, G: 0x87, B: 0x61, A: 0xff},
	}
)

// BarSpec 一张分组求和柱状图
type BarSpec struct {
	Title   string
	By      string // 分组列
	Value   string // 求和列
	File    string
	Palette []drawing.Color
}

// Specs 返回流水线输出的两张图
func Specs(cfg config.Charts) []BarSpec {
	return []BarSpec{
		{
			Title:   "Total Sales by Region",
			By:      processor.ColRegion,
			Value:   processor.ColSales,
			File:    cfg.RegionFile,
			Palette: Viridis,
		},
		{
			Title:   "Profit by Product",
			By:      processor.ColProduct,
			Value:   processor.ColProfit,
			File:    cfg.ProductFile,
			Palette: Magma,
		},
	}
}

// Render 生成并保存销售额和利润两张柱状图
func Render(df dataframe.DataFrame, cfg config.Charts, logger storage.Reporter) error {
	logger.Info("Generating Visualizations...")

	specs := Specs(cfg)
	for _, spec := range specs {
		totals, err := processor.GroupSum(df, spec.By, spec.Value)
		if err != nil {
			return fmt.Errorf("%s: %w", spec.Title, err)
		}
		if err := SaveBarChart(spec, totals, cfg.Width, cfg.Height); err != nil {
			return err
		}
		logger.Debug(fmt.Sprintf("saved %s (%d bars)", spec.File, len(totals)))
	}

	logger.Info(fmt.Sprintf("Charts saved as '%s' and '%s'", specs[0].File, specs[1].File))
	return nil
}

// SaveBarChart 按 totals 的顺序绘制柱状图并写入 PNG 文件
func SaveBarChart(spec BarSpec, totals []processor.GroupTotal, width, height int) error {
	if len(totals) == 0 {
		return fmt.Errorf("%s: %w", spec.Title, processor.ErrNoData)
	}

	bars := make([]chart.Value, len(totals))
	for i, g := range totals {
		color := pick(spec.Palette, i, len(totals))
		bars[i] = chart.Value{
			Label: g.Key,
			Value: g.Total,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		}
	}

	graph := chart.BarChart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		BarWidth:   barWidth(width, len(totals)),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis:      chart.YAxis{Range: yRange(totals)},
		Bars:       bars,
	}

	f, err := os.Create(spec.File)
	if err != nil {
		return fmt.Errorf("创建图表文件失败: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("render %s: %w", spec.File, err)
	}
	return f.Close()
}

// yRange 纵轴包含0并留出10%空间
func yRange(totals []processor.GroupTotal) *chart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, g := range totals {
		lo = math.Min(lo, g.Total)
		hi = math.Max(hi, g.Total)
	}
	lo, hi = lo*1.1, hi*1.1
	if hi-lo == 0 {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

// barWidth 柱宽随柱数变化，最宽80像素
func barWidth(width, n int) int {
	w := width / (2 * (n + 1))
	if w > 80 {
		w = 80
	}
	if w < 4 {
		w = 4
	}
	return w
}

// pick 在调色板上均匀取色
func pick(palette []drawing.Color, i, n int) drawing.Color {
	if len(palette) == 0 {
		return chart.ColorBlue
	}
	if n <= 1 {
		return palette[0]
	}
	return palette[i*(len(palette)-1)/(n-1)]
}
