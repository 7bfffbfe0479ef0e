package file

import (
	"SalesAnalysis/src/processor"
	"SalesAnalysis/src/storage"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

func newTestLogger(t *testing.T) *storage.Logger {
	t.Helper()
	logger, err := storage.NewLogger("", nil)
	require.NoError(t, err)
	return logger
}

func drain(events <-chan storage.Entry) []storage.Entry {
	var out []storage.Entry
	for len(events) > 0 {
		out = append(out, <-events)
	}
	return out
}

func TestLoadFallbackCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales_data.csv")
	logger := newTestLogger(t)
	events := logger.Subscribe()

	df, err := Load(path, logger)
	require.NoError(t, err)
	assert.Equal(t, 6, df.Nrow())
	assert.Equal(t, processor.SampleTable().Records(), df.Records())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Region,Product,Sales,Profit\n"+
		"East,A,200,50\n"+
		"West,B,340,80\n"+
		"North,C,150,40\n"+
		"South,A,400,100\n"+
		"East,B,320,70\n"+
		"West,C,270,65\n", string(data))

	entries := drain(events)
	require.Len(t, entries, 2)
	assert.Equal(t, storage.WARNING, entries[0].Level)
	assert.Contains(t, entries[1].Message, path)

	// 再次读取时使用已保存的文件
	events = logger.Subscribe()
	again, err := Load(path, logger)
	require.NoError(t, err)
	assert.Equal(t, df.Records(), again.Records())
	entries = drain(events)
	require.Len(t, entries, 1)
	assert.Equal(t, "Data loaded successfully.", entries[0].Message)
}

func TestLoadFallbackXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales_data.xlsx")

	df, err := Load(path, newTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 6, df.Nrow())

	loaded, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, processor.Columns, loaded.Names())
	assert.Equal(t, df.Col(processor.ColRegion).Records(), loaded.Col(processor.ColRegion).Records())
	assert.Equal(t, df.Col(processor.ColSales).Float(), loaded.Col(processor.ColSales).Float())
	assert.Equal(t, df.Col(processor.ColProfit).Float(), loaded.Col(processor.ColProfit).Float())
}

func TestReadCSVMissingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	data := "\ufeffRegion,Product,Sales,Profit\nEast,A,200,50\nWest,B,,80\nNorth,C,150,NA\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	df, err := Read(path)
	require.NoError(t, err)
	// BOM 不应出现在列名中
	assert.Equal(t, processor.Columns, df.Names())
	assert.True(t, df.Col(processor.ColSales).Elem(1).IsNA())
	assert.True(t, df.Col(processor.ColProfit).Elem(2).IsNA())
}

func TestReadCSVGBK(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	gbk, _, err := transform.Bytes(simplifiedchinese.GBK.NewEncoder(),
		[]byte("Region,Product,Sales,Profit\n华东,A,200,50\n"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, gbk, 0644))

	df, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"华东"}, df.Col(processor.ColRegion).Records())
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{
			name:    "missing column",
			data:    "Region,Product,Sales\nEast,A,200\n",
			wantErr: processor.ErrMissingColumn,
		},
		{
			name: "ragged rows",
			data: "Region,Product,Sales,Profit\nEast,A,200\n",
		},
		{
			name:    "malformed number",
			data:    "Region,Product,Sales,Profit\nEast,A,200,50\nWest,B,abc,80\n",
			wantErr: processor.ErrBadNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sales.csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0644))

			_, err := Load(path, newTestLogger(t))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			// 读取失败时不能覆盖原文件
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.data, string(data))
		})
	}
}

func TestCheckNumericCells(t *testing.T) {
	ok := [][]string{
		{"Region", "Product", "Sales", "Profit"},
		{"East", "A", "200", "NA"},
		{"West", "abc", "", "1e3"},
	}
	assert.NoError(t, checkNumericCells(ok))

	bad := [][]string{
		{"Region", "Product", "Sales", "Profit"},
		{"East", "A", "200", "50"},
		{"West", "B", "340", "12,5"},
	}
	err := checkNumericCells(bad)
	assert.ErrorIs(t, err, processor.ErrBadNumber)
	assert.Contains(t, err.Error(), "row 3 column Profit")
}

func TestLoadUnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "sales_data.csv")

	_, err := Load(path, newTestLogger(t))
	assert.Error(t, err)
}
