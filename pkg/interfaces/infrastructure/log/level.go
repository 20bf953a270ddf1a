// Package log 提供MTX系统的日志级别定义
package log

// LogLevel 日志级别类型
type LogLevel string

// 标准日志级别
const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
	FatalLevel LogLevel = "fatal"
)

// String 返回日志级别的字符串表示
func (l LogLevel) String() string {
	return string(l)
}

// IsValid 检查日志级别是否有效
func (l LogLevel) IsValid() bool {
	switch l {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel, FatalLevel:
		return true
	}
	return false
}
