package storage

import (
	"SalesAnalysis/src/config"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// LogLevel 定义日志级别类型
type LogLevel int

// 日志级别常量定义
const (
	DEBUG   LogLevel = iota // 调试信息
	INFO                    // 普通信息
	WARNING                 // 警告信息
	ERROR                   // 错误信息
	FATAL                   // 致命错误
)

// Entry 推送给订阅者的日志条目
type Entry struct {
	Time    time.Time
	Level   LogLevel
	Message string
}

// Reporter 流水线各阶段使用的日志接口
type Reporter interface {
	Debug(msg string)
	Info(msg string)
	Warning(msg string)
}

// Logger 日志记录器结构体
type Logger struct {
	filename    string       // 日志文件路径
	file        *os.File     // 日志文件句柄，为nil时不落盘
	console     io.Writer    // 控制台输出，为nil时不输出
	minConsole  LogLevel     // 控制台最低输出级别
	mu          sync.Mutex   // 互斥锁，保证并发安全
	subscribers []chan Entry // 订阅者通道列表
}

// NewLogger 创建新的日志记录器
// 参数:
//
//	filename: 日志文件路径，为空时不写文件
//	console: 控制台输出，为nil时不输出
//
// 返回值:
//
//	*Logger: 日志记录器实例
//	error: 创建过程中的错误
func NewLogger(filename string, console io.Writer) (*Logger, error) {
	l := &Logger{
		filename:   filename,
		console:    console,
		minConsole: INFO,
	}
	if filename == "" {
		return l, nil
	}

	// 打开或创建日志文件，权限设置为0644
	file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	l.file = file
	return l, nil
}

// Close 关闭日志文件
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Log 记录日志方法
// 文件中写入带时间和级别的完整条目，控制台只输出消息本身
func (l *Logger) Log(level LogLevel, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()

	if l.file != nil {
		// 格式化日志条目: [时间] 级别: 消息
		entry := fmt.Sprintf("[%s] %s: %s\n",
			now.Format("2006-01-02 15:04:05"),
			level.String(),
			message)
		l.file.WriteString(entry)
	}

	if l.console != nil && level >= l.minConsole {
		fmt.Fprintln(l.console, message)
	}

	// 通知所有订阅者
	for _, ch := range l.subscribers {
		select {
		case ch <- Entry{Time: now, Level: level, Message: message}:
		default: // 如果通道已满则跳过
		}
	}
}

// CheckRotate 日志文件超过 cfg.LogMaxSize 时进行轮转
func (l *Logger) CheckRotate(cfg *config.Config) error {
	l.mu.Lock()
	file := l.file
	l.mu.Unlock()
	if file == nil {
		return nil
	}

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("读取日志文件信息失败: %w", err)
	}

	limit, err := eval(cfg.LogMaxSize)
	if err != nil {
		return err
	}
	if info.Size() > limit {
		return l.rotateLog()
	}
	return nil
}

// rotateLog 将当前日志重命名为 name.时间戳.ext 并重新打开
func (l *Logger) rotateLog() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		l.file.Close()
		ext := ""
		base := l.filename
		if i := strings.LastIndex(base, "."); i > 0 {
			base, ext = base[:i], base[i:]
		}
		rotated := fmt.Sprintf("%s.%s%s", base, time.Now().Format("20060102150405"), ext)
		if err := os.Rename(l.filename, rotated); err != nil {
			return fmt.Errorf("日志轮转失败: %w", err)
		}
	}

	file, err := os.OpenFile(l.filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	l.file = file
	return nil
}

// Subscribe 订阅日志消息
// 返回值:
//
//	<-chan Entry: 只读通道，用于接收日志条目
func (l *Logger) Subscribe() <-chan Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	// 创建带缓冲的通道(容量100)
	ch := make(chan Entry, 100)
	l.subscribers = append(l.subscribers, ch)
	return ch
}

// String 实现LogLevel的String方法
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// eval 计算 "10 * 1024 * 1024" 形式的乘积表达式
func eval(expr string) (int64, error) {
	parts := strings.Split(expr, "*")
	var result int64 = 1
	for _, part := range parts {
		num, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("无效的日志大小 %q: %w", expr, err)
		}
		result *= num
	}
	return result, nil
}

// 以下是快捷日志方法
func (l *Logger) Debug(msg string)   { l.Log(DEBUG, msg) }   // 记录调试信息
func (l *Logger) Info(msg string)    { l.Log(INFO, msg) }    // 记录普通信息
func (l *Logger) Warning(msg string) { l.Log(WARNING, msg) } // 记录警告信息
func (l *Logger) Error(msg string)   { l.Log(ERROR, msg) }   // 记录错误信息
func (l *Logger) Fatal(msg string)   { l.Log(FATAL, msg) }   // 记录致命错误
