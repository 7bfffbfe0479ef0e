package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config 结构体定义了应用程序的配置结构
type Config struct {
	DataFile   string `json:"data_file" validate:"required"`    // 销售数据文件(csv/xlsx)
	LogName    string `json:"log_name"`                         // 日志文件，为空时只输出到控制台
	LogMaxSize string `json:"log_max_size" validate:"required"` // 日志轮转阈值，例如 "10 * 1024 * 1024"
	Charts     Charts `json:"charts"`
}

// Charts 图表输出配置
type Charts struct {
	RegionFile  string `json:"region_file" validate:"required"`  // 各区域销售额柱状图
	ProductFile string `json:"product_file" validate:"required"` // 各产品利润柱状图
	Width       int    `json:"width" validate:"gt=0"`
	Height      int    `json:"height" validate:"gt=0"`
}

// Default 返回内置默认配置
func Default() *Config {
	return &Config{
		DataFile:   "sales_data.csv",
		LogName:    "app.log",
		LogMaxSize: "10 * 1024 * 1024",
		Charts: Charts{
			RegionFile:  "sales_by_region.png",
			ProductFile: "profit_by_product.png",
			Width:       800,
			Height:      400,
		},
	}
}

// LoadConfig 读取 jsonFolder/jsonFile 并覆盖默认配置
// 文件不存在时直接使用默认配置
func LoadConfig(jsonFolder, jsonFile string) (*Config, error) {
	cfg := Default()

	configData, err := readFile(filepath.Join(jsonFolder, jsonFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	if err := json.Unmarshal(configData, cfg); err != nil {
		return nil, fmt.Errorf("解析Config失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置字段
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}
	return nil
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	return data, nil
}
