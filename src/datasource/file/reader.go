// reader.go
package file

import (
	"SalesAnalysis/src/processor"
	"SalesAnalysis/src/storage"
	"SalesAnalysis/src/utils"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// 读取时视为缺失值的单元格内容
var nanValues = []string{"", "NA", "NaN", "<nil>"}

// Load 读取销售数据文件
// 文件不存在时使用示例数据，并将其保存到 filePath
func Load(filePath string, logger storage.Reporter) (dataframe.DataFrame, error) {
	df, err := Read(filePath)
	switch {
	case err == nil:
		logger.Info("Data loaded successfully.")
		return df, nil
	case errors.Is(err, fs.ErrNotExist):
		logger.Warning("File not found. Creating a sample dataset instead.")
		df = processor.SampleTable()
		if err := Save(df, filePath); err != nil {
			return dataframe.DataFrame{}, err
		}
		logger.Info(fmt.Sprintf("Sample dataset created and saved as %s", filePath))
		return df, nil
	default:
		return dataframe.DataFrame{}, err
	}
}

// Read 按扩展名读取 csv 或 xlsx 文件，首行为列名
func Read(filePath string) (dataframe.DataFrame, error) {
	if _, err := os.Stat(filePath); err != nil {
		return dataframe.DataFrame{}, err
	}

	var (
		df  dataframe.DataFrame
		err error
	)
	if isXLSX(filePath) {
		df, err = ReadXLSX(filePath)
	} else {
		df, err = ReadCSV(filePath)
	}
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	if err := processor.CheckSchema(df); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%s: %w", filePath, err)
	}
	return df, nil
}

// ReadCSV 读取csv文件到DataFrame
func ReadCSV(filePath string) (dataframe.DataFrame, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	// 先按字符串读取，校验数值列后再转换类型
	raw := dataframe.ReadCSV(decode(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if raw.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("parse %s: %w", filePath, raw.Err)
	}

	df, err := fromRecords(raw.Records())
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("parse %s: %w", filePath, err)
	}
	return df, nil
}

// ReadXLSX 读取xlsx文件的第一个工作表
func ReadXLSX(filePath string) (dataframe.DataFrame, error) {
	// 1. 使用tealeg/xlsx打开Excel文件
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("xlsx open file false: %w", err)
	}

	// 2. 获取第一个工作表
	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("excel文件中没有工作表: %s", filePath)
	}

	// 3. 转换为Gota DataFrame
	records := sheetRecords(xlFile.Sheets[0])
	if len(records) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("工作表为空: %s", filePath)
	}

	df, err := fromRecords(records)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("parse %s: %w", filePath, err)
	}
	return df, nil
}

// fromRecords 校验数值列后将字符串记录转换为DataFrame，首行为列名
func fromRecords(records [][]string) (dataframe.DataFrame, error) {
	if err := checkNumericCells(records); err != nil {
		return dataframe.DataFrame{}, err
	}
	df := dataframe.LoadRecords(records, loadOptions()...)
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}

// checkNumericCells 数值列中既不是缺失值也无法解析为数字的单元格视为错误
func checkNumericCells(records [][]string) error {
	if len(records) == 0 {
		return nil
	}
	header := records[0]
	for j, name := range header {
		if name != processor.ColSales && name != processor.ColProfit {
			continue
		}
		for i := 1; i < len(records); i++ {
			if j >= len(records[i]) {
				continue
			}
			v := records[i][j]
			if utils.Contains(nanValues, v) {
				continue
			}
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				return fmt.Errorf("%w: row %d column %s value %q", processor.ErrBadNumber, i+1, name, v)
			}
		}
	}
	return nil
}

// sheetRecords 将xlsx.Sheet转换为二维字符串，第一行为标题行，跳过空行
func sheetRecords(sheet *xlsx.Sheet) [][]string {
	var records [][]string
	width := 0
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		values := make([]string, len(row.Cells))
		empty := true
		for i, cell := range row.Cells {
			values[i] = strings.TrimSpace(cell.String())
			if values[i] != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		if len(records) == 0 {
			width = len(values)
		}
		// 确保每行与标题行列数一致
		for len(values) < width {
			values = append(values, "")
		}
		records = append(records, values[:width])
	}
	return records
}

// Save 保存DataFrame，xlsx 扩展名写Excel，其余写csv，均不写行号
func Save(df dataframe.DataFrame, filePath string) error {
	if isXLSX(filePath) {
		return utils.SaveToExcel(df, filePath)
	}

	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}
	defer f.Close()

	out := dataframe.LoadRecords(formatRecords(df),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if err := out.WriteCSV(f); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", filePath, err)
	}
	return f.Close()
}

// formatRecords 数值列按最短形式输出(200 而不是 200.000000)
func formatRecords(df dataframe.DataFrame) [][]string {
	names := df.Names()
	records := make([][]string, df.Nrow()+1)
	records[0] = names
	for i := 1; i < len(records); i++ {
		records[i] = make([]string, len(names))
	}

	for j, name := range names {
		col := df.Col(name)
		numeric := utils.IsNumeric(col)
		for i := 0; i < col.Len(); i++ {
			elem := col.Elem(i)
			switch {
			case elem.IsNA():
				records[i+1][j] = ""
			case numeric:
				records[i+1][j] = strconv.FormatFloat(elem.Float(), 'f', -1, 64)
			default:
				records[i+1][j] = elem.String()
			}
		}
	}
	return records
}

func loadOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(nanValues),
		dataframe.WithTypes(map[string]series.Type{
			processor.ColSales:  series.Float,
			processor.ColProfit: series.Float,
		}),
	}
}

// decode 去掉UTF-8 BOM，非UTF-8内容按GBK转码
func decode(data []byte) io.Reader {
	input := bytes.NewReader(data)
	if utf8.Valid(data) {
		return transform.NewReader(input, unicode.BOMOverride(transform.Nop))
	}
	return transform.NewReader(input, simplifiedchinese.GBK.NewDecoder())
}

func isXLSX(filePath string) bool {
	return strings.EqualFold(filepath.Ext(filePath), ".xlsx")
}
