package processor

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
)

// GroupTotal 分组汇总结果
type GroupTotal struct {
	Key   string
	Total float64
}

// GroupSum 按 by 列分组对 value 列求和，by 列缺失的行不参与分组
// 结果按各分组在表中首次出现的顺序排列
func GroupSum(df dataframe.DataFrame, by, value string) ([]GroupTotal, error) {
	keep := keyedRows(df, by)
	if len(keep) == 0 {
		return nil, ErrNoData
	}
	if len(keep) < df.Nrow() {
		df = df.Subset(keep)
	}

	agg := df.GroupBy(by).Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_SUM},
		[]string{value},
	)
	if agg.Err != nil {
		return nil, fmt.Errorf("按 %s 汇总 %s 失败: %w", by, value, agg.Err)
	}

	keys := agg.Col(by).Records()
	sums := agg.Col(fmt.Sprintf("%s_%s", value, dataframe.Aggregation_SUM)).Float()
	totals := make(map[string]float64, len(keys))
	for i, k := range keys {
		totals[k] = sums[i]
	}

	result := make([]GroupTotal, 0, len(keys))
	for _, k := range df.Col(by).Records() {
		total, ok := totals[k]
		if !ok {
			continue
		}
		result = append(result, GroupTotal{Key: k, Total: total})
		delete(totals, k)
	}
	return result, nil
}

// keyedRows 返回 by 列不为缺失值的行号
func keyedRows(df dataframe.DataFrame, by string) []int {
	if df.Nrow() == 0 {
		return nil
	}
	var keep []int
	for i, na := range df.Col(by).IsNaN() {
		if !na {
			keep = append(keep, i)
		}
	}
	return keep
}

// TopGroup 返回合计最大的分组，合计相同时取最先出现的分组
func TopGroup(totals []GroupTotal) (GroupTotal, error) {
	if len(totals) == 0 {
		return GroupTotal{}, ErrNoData
	}
	top := totals[0]
	for _, g := range totals[1:] {
		if g.Total > top.Total {
			top = g
		}
	}
	return top, nil
}
