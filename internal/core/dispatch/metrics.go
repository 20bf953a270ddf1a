// Package dispatch 提供选择器派发与扩展安装管理
package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

// 派发失败原因标签值
const (
	reasonNotImplemented = "not_implemented"
	reasonUnauthorized   = "unauthorized"
	reasonModuleError    = "module_error"
)

// metrics 派发层指标
type metrics struct {
	dispatched *prometheus.CounterVec
	failures   *prometheus.CounterVec
	installed  prometheus.Gauge
}

// newMetrics 创建并注册派发指标
func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		dispatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mtx",
				Subsystem: "dispatch",
				Name:      "calls_total",
				Help:      "转发调用总数（按选择器）",
			},
			[]string{"selector"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mtx",
				Subsystem: "dispatch",
				Name:      "failures_total",
				Help:      "转发失败总数（按原因）",
			},
			[]string{"reason"},
		),
		installed: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "mtx",
				Subsystem: "dispatch",
				Name:      "installed_extensions",
				Help:      "当前已安装的扩展数",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(m.dispatched, m.failures, m.installed)
	}
	return m
}
