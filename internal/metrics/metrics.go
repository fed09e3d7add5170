// Package metrics 集中定义服务暴露的 Prometheus 指标，指标在包初始化时注册到默认 registry
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jobboard"

// HTTPRequestsTotal 按路由模板、方法和状态码统计请求数
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled, by route, method and status.",
	},
	[]string{"route", "method", "status"},
)

var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests, by route and method.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route", "method"},
)

// AuthAttemptsTotal 的 action 为 register 或 login，result 为 success 或失败原因
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of registration and login attempts, by action and result.",
	},
	[]string{"action", "result"},
)

var JobsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_created_total",
		Help:      "Total number of job postings created, by job type.",
	},
	[]string{"type"},
)

var MailsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mails_published_total",
		Help:      "Total number of mail messages published to the queue, by type and result.",
	},
	[]string{"type", "result"},
)
