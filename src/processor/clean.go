package processor

import (
	"SalesAnalysis/src/utils"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// CleanData 去除重复行并用列均值填充数值列的缺失值
func (p *DataProcessor) CleanData() error {
	p.logger.Info("Cleaning Data...")

	df, dropped := DropDuplicates(p.df)

	df, imputed, err := FillMissingWithMean(df)
	if err != nil {
		return err
	}
	p.df = df

	p.logger.Debug(fmt.Sprintf("dropped %d duplicate rows, imputed %d missing values", dropped, imputed))
	p.logger.Info("Data cleaned successfully.")
	return nil
}

// DropDuplicates 删除完全重复的行，保留首次出现的行及原有顺序
// 返回去重后的DataFrame和删除的行数
func DropDuplicates(df dataframe.DataFrame) (dataframe.DataFrame, int) {
	if df.Nrow() == 0 {
		return df, 0
	}

	keys := rowKeys(df)
	seen := make(map[string]struct{}, len(keys))
	keep := make([]int, 0, len(keys))
	for i, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, i)
	}

	dropped := len(keys) - len(keep)
	if dropped == 0 {
		return df, 0
	}
	return df.Subset(keep), dropped
}

// rowKeys 为每一行生成比较用的键
// 数值列使用完整精度，缺失值之间视为相等
func rowKeys(df dataframe.DataFrame) []string {
	cells := make([][]string, df.Nrow())
	for _, name := range df.Names() {
		col := df.Col(name)
		var values []string
		if utils.IsNumeric(col) {
			for _, f := range col.Float() {
				values = append(values, strconv.FormatFloat(f, 'g', -1, 64))
			}
		} else {
			values = col.Records()
			for i, na := range col.IsNaN() {
				if na {
					values[i] = "\x00NA"
				}
			}
		}
		for i, v := range values {
			cells[i] = append(cells[i], v)
		}
	}

	keys := make([]string, len(cells))
	for i, row := range cells {
		keys[i] = strings.Join(row, "\x1f")
	}
	return keys
}

// FillMissingWithMean 用各数值列的均值填充缺失值
// 有缺失的列转换为Float类型，没有缺失的列保持原样
// 某数值列全部缺失时返回 ErrEmptyColumn
func FillMissingWithMean(df dataframe.DataFrame) (dataframe.DataFrame, int, error) {
	imputed := 0
	for _, name := range df.Names() {
		col := df.Col(name)
		if !utils.IsNumeric(col) {
			continue
		}

		values := col.Float()
		missing := col.IsNaN()
		present := make([]float64, 0, len(values))
		for i, v := range values {
			if !missing[i] {
				present = append(present, v)
			}
		}
		if len(present) == len(values) {
			continue
		}
		if len(present) == 0 {
			return df, imputed, fmt.Errorf("%w: %s", ErrEmptyColumn, name)
		}

		mean := stat.Mean(present, nil)
		for i := range values {
			if missing[i] {
				values[i] = mean
				imputed++
			}
		}

		df = df.Mutate(series.New(values, series.Float, name))
		if df.Err != nil {
			return df, imputed, fmt.Errorf("填充列 %s 失败: %w", name, df.Err)
		}
	}
	return df, imputed, nil
}
