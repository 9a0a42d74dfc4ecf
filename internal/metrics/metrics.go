// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hitoshi/duomatch/internal/discovery"
)

// Collector はPrometheusメトリクスを収集する実装。
// discovery.Recorder を満たし、サービス層から利用する。
type Collector struct {
	discoveryTotal   *prometheus.CounterVec
	discoveryLatency *prometheus.HistogramVec
	tierCandidates   *prometheus.CounterVec
	httpStatus       *prometheus.CounterVec
}

var _ discovery.Recorder = (*Collector)(nil)

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		discoveryTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "duomatch_discovery_requests_total",
			Help: "種別・結果別のディスカバリー実行数",
		}, []string{"kind", "outcome"}),
		discoveryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "duomatch_discovery_duration_seconds",
			Help:    "ディスカバリー1回あたりの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		tierCandidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "duomatch_discovery_tier_candidates_total",
			Help: "tier別に採用された候補の合計数",
		}, []string{"kind", "tier"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "duomatch_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.discoveryTotal,
		c.discoveryLatency,
		c.tierCandidates,
		c.httpStatus,
	)

	return c
}

// RecordDiscovery はディスカバリー1回分の結果と処理時間を記録する。
func (c *Collector) RecordDiscovery(kind discovery.Kind, outcome string, duration time.Duration) {
	c.discoveryTotal.WithLabelValues(string(kind), outcome).Inc()
	c.discoveryLatency.WithLabelValues(string(kind)).Observe(duration.Seconds())
}

// RecordTierCandidates はtierで採用された候補数を加算する。
func (c *Collector) RecordTierCandidates(kind discovery.Kind, tier string, count int) {
	c.tierCandidates.WithLabelValues(string(kind), tier).Add(float64(count))
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
