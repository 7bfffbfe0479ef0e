package processor

import (
	"SalesAnalysis/src/utils"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnStats 数值列的描述统计
type ColumnStats struct {
	Name  string
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// Report 分析结果
type Report struct {
	Summary    []ColumnStats
	TopRegion  GroupTotal // 销售额合计最高的区域
	TopProduct GroupTotal // 利润合计最高的产品
}

// Analyze 输出描述统计和两条结论，并返回分析结果
func (p *DataProcessor) Analyze(w io.Writer) (Report, error) {
	var report Report

	report.Summary = Describe(p.df)
	fmt.Fprintln(w, "\nStatistical Summary:")
	fmt.Fprintln(w, SummaryFrame(report.Summary))

	regions, err := GroupSum(p.df, ColRegion, ColSales)
	if err != nil {
		return report, err
	}
	if report.TopRegion, err = TopGroup(regions); err != nil {
		return report, err
	}

	products, err := GroupSum(p.df, ColProduct, ColProfit)
	if err != nil {
		return report, err
	}
	if report.TopProduct, err = TopGroup(products); err != nil {
		return report, err
	}

	fmt.Fprintln(w, "\nInsights:")
	fmt.Fprintf(w, "- Region with highest total sales: %s\n", report.TopRegion.Key)
	fmt.Fprintf(w, "- Product with highest total profit: %s\n", report.TopProduct.Key)

	return report, nil
}

// Describe 计算每个数值列的 count/mean/std/min/25%/50%/75%/max
// 缺失值不参与计算
func Describe(df dataframe.DataFrame) []ColumnStats {
	var result []ColumnStats
	for _, name := range df.Names() {
		col := df.Col(name)
		if !utils.IsNumeric(col) {
			continue
		}

		values := make([]float64, 0, col.Len())
		for i, v := range col.Float() {
			if !col.Elem(i).IsNA() {
				values = append(values, v)
			}
		}
		result = append(result, describeValues(name, values))
	}
	return result
}

func describeValues(name string, values []float64) ColumnStats {
	cs := ColumnStats{Name: name, Count: len(values)}
	if len(values) == 0 {
		nan := math.NaN()
		cs.Mean, cs.Std, cs.Min, cs.Q25, cs.Q50, cs.Q75, cs.Max = nan, nan, nan, nan, nan, nan, nan
		return cs
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	cs.Mean = stat.Mean(sorted, nil)
	cs.Std = math.NaN()
	if len(sorted) > 1 {
		// 样本标准差(n-1)
		cs.Std = stat.StdDev(sorted, nil)
	}
	cs.Min = floats.Min(sorted)
	cs.Max = floats.Max(sorted)
	cs.Q25 = quantile(sorted, 0.25)
	cs.Q50 = quantile(sorted, 0.50)
	cs.Q75 = quantile(sorted, 0.75)
	return cs
}

// quantile 在相邻秩之间线性插值，sorted 必须已升序排列
func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[i]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// SummaryFrame 将统计结果转换为行为统计量、列为数值列的DataFrame
func SummaryFrame(stats []ColumnStats) dataframe.DataFrame {
	cols := []series.Series{
		series.New([]string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}, series.String, "stat"),
	}
	for _, cs := range stats {
		cols = append(cols, series.New([]float64{
			float64(cs.Count), cs.Mean, cs.Std, cs.Min, cs.Q25, cs.Q50, cs.Q75, cs.Max,
		}, series.Float, cs.Name))
	}
	return dataframe.New(cols...)
}
