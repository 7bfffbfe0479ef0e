package main

import (
	"SalesAnalysis/src/config"
	"SalesAnalysis/src/datasource/file"
	"SalesAnalysis/src/processor"
	"SalesAnalysis/src/storage"
	"SalesAnalysis/src/visualize"
	"fmt"
	"io"
	"log"
	"os"
)

func main() {
	jsonFolder := "./config"
	jsonFile := "config.json"
	cfg, err := config.LoadConfig(jsonFolder, jsonFile)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// 初始化日志系统
	logger, err := storage.NewLogger(cfg.LogName, os.Stdout)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	if err := logger.CheckRotate(cfg); err != nil {
		logger.Warning(err.Error())
	}

	if err := run(cfg, logger, os.Stdout); err != nil {
		logger.Fatal(fmt.Sprintf("Data analysis failed: %v", err))
		logger.Close()
		os.Exit(1)
	}
	logger.Close()
}

// run 依次执行 读取 -> 清洗 -> 分析 -> 绘图
func run(cfg *config.Config, logger *storage.Logger, out io.Writer) error {
	df, err := file.Load(cfg.DataFile, logger)
	if err != nil {
		return fmt.Errorf("load %s: %w", cfg.DataFile, err)
	}

	p := processor.NewDataProcessor(df, logger)
	if err := p.CleanData(); err != nil {
		return fmt.Errorf("clean: %w", err)
	}

	if _, err := p.Analyze(out); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	if err := visualize.Render(p.DataFrame(), cfg.Charts, logger); err != nil {
		return fmt.Errorf("visualize: %w", err)
	}

	logger.Info("Data analysis completed successfully!")
	return nil
}
