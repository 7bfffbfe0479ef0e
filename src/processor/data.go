// data.go
package processor

import (
	"SalesAnalysis/src/storage"
	"SalesAnalysis/src/utils"
	"errors"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// 销售表的列名
const (
	ColRegion  = "Region"
	ColProduct = "Product"
	ColSales   = "Sales"
	ColProfit  = "Profit"
)

// Columns 销售表的列顺序
var Columns = []string{ColRegion, ColProduct, ColSales, ColProfit}

var (
	ErrMissingColumn = errors.New("missing column")
	ErrEmptyColumn   = errors.New("numeric column has no values")
	ErrNoData        = errors.New("table has no rows")
	ErrBadNumber     = errors.New("malformed numeric value")
)

// SalesRecord 一行销售记录
type SalesRecord struct {
	Region  string
	Product string
	Sales   float64
	Profit  float64
}

// SampleRecords 数据文件不存在时使用的示例数据
var SampleRecords = []SalesRecord{
	{Region: "East", Product: "A", Sales: 200, Profit: 50},
	{Region: "West", Product: "B", Sales: 340, Profit: 80},
	{Region: "North", Product: "C", Sales: 150, Profit: 40},
	{Region: "South", Product: "A", Sales: 400, Profit: 100},
	{Region: "East", Product: "B", Sales: 320, Profit: 70},
	{Region: "West", Product: "C", Sales: 270, Profit: 65},
}

// NewTable 将记录转换为DataFrame
func NewTable(records []SalesRecord) dataframe.DataFrame {
	regions := make([]string, len(records))
	products := make([]string, len(records))
	sales := make([]float64, len(records))
	profits := make([]float64, len(records))
	for i, r := range records {
		regions[i] = r.Region
		products[i] = r.Product
		sales[i] = r.Sales
		profits[i] = r.Profit
	}

	return dataframe.New(
		series.New(regions, series.String, ColRegion),
		series.New(products, series.String, ColProduct),
		series.New(sales, series.Float, ColSales),
		series.New(profits, series.Float, ColProfit),
	)
}

// SampleTable 示例数据表
func SampleTable() dataframe.DataFrame {
	return NewTable(SampleRecords)
}

// CheckSchema 确认DataFrame包含销售表的全部列
func CheckSchema(df dataframe.DataFrame) error {
	if df.Err != nil {
		return df.Err
	}
	for _, col := range Columns {
		if !utils.HasColumn(df, col) {
			return fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return nil
}

type DataProcessor struct {
	df     dataframe.DataFrame
	logger storage.Reporter
}

func NewDataProcessor(df dataframe.DataFrame, logger storage.Reporter) *DataProcessor {
	return &DataProcessor{df: df, logger: logger}
}

// DataFrame 返回当前数据表
func (p *DataProcessor) DataFrame() dataframe.DataFrame {
	return p.df
}
