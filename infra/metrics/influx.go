package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/geodeplan/core/metrics"
	"github.com/kilianp07/geodeplan/infra/logger"
)

// InfluxSink writes search results to an InfluxDB v2 bucket.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails, so a run never depends on the
// database being up.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordSearch writes one search_result point.
func (s *InfluxSink) RecordSearch(ev coremetrics.SearchEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, searchPoint(ev))
}

// RecordRun writes one run_result point.
func (s *InfluxSink) RecordRun(ev coremetrics.RunEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, runPoint(ev))
}

// Close releases the client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func searchPoint(ev coremetrics.SearchEvent) *write.Point {
	return write.NewPointWithMeasurement("search_result").
		AddTag("run_id", ev.RunID).
		AddTag("blueprint_id", strconv.Itoa(ev.BlueprintID)).
		AddTag("horizon", strconv.Itoa(ev.Horizon)).
		AddTag("partial", strconv.FormatBool(ev.Partial)).
		AddField("value", ev.Value).
		AddField("nodes", ev.Stats.Nodes).
		AddField("dominated", ev.Stats.Dominated).
		AddField("bounded", ev.Stats.Bounded).
		AddField("saturated", ev.Stats.Saturated).
		AddField("cache_entries", ev.Stats.CacheEntries).
		AddField("duration_ms", round3(float64(ev.Duration)/float64(time.Millisecond))).
		SetTime(ev.Time)
}

func runPoint(ev coremetrics.RunEvent) *write.Point {
	return write.NewPointWithMeasurement("run_result").
		AddTag("run_id", ev.RunID).
		AddTag("mode", ev.Mode).
		AddTag("horizon", strconv.Itoa(ev.Horizon)).
		AddTag("partial", strconv.FormatBool(ev.Partial)).
		AddField("score", ev.Score).
		AddField("blueprints", ev.Blueprints).
		AddField("duration_ms", round3(float64(ev.Duration)/float64(time.Millisecond))).
		SetTime(ev.Time)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
