// Package mqtt publishes search results to an MQTT broker.
package mqtt

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/geodeplan/core/factory"
	coremetrics "github.com/kilianp07/geodeplan/core/metrics"
	"github.com/kilianp07/geodeplan/core/search"
	"github.com/kilianp07/geodeplan/infra/logger"
)

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

var sleep = time.Sleep

func init() {
	_ = coremetrics.RegisterMetricsSink("mqtt", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewResultSink(c)
	})
}

// ResultSink publishes one JSON message per search to
// <prefix>/blueprint/<id> and one per run to <prefix>/run.
type ResultSink struct {
	cli    pahoClient
	cfg    Config
	logger logger.Logger
}

type searchMessage struct {
	RunID       string       `json:"run_id"`
	BlueprintID int          `json:"blueprint_id"`
	Horizon     int          `json:"horizon"`
	Value       int          `json:"value"`
	Partial     bool         `json:"partial"`
	Stats       search.Stats `json:"stats"`
	DurationMS  int64        `json:"duration_ms"`
	Timestamp   int64        `json:"timestamp"`
}

type runMessage struct {
	RunID      string `json:"run_id"`
	Mode       string `json:"mode"`
	Horizon    int    `json:"horizon"`
	Blueprints int    `json:"blueprints"`
	Score      int    `json:"score"`
	Partial    bool   `json:"partial"`
	DurationMS int64  `json:"duration_ms"`
	Timestamp  int64  `json:"timestamp"`
}

// NewResultSink connects to the broker described by cfg.
func NewResultSink(cfg Config) (*ResultSink, error) {
	cfg.setDefaults()
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt-sink")
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &ResultSink{cli: c, cfg: cfg, logger: log}, nil
}

// Topic returns the full topic for the given suffix.
func (s *ResultSink) Topic(suffix string) string {
	return s.cfg.TopicPrefix + "/" + suffix
}

// RecordSearch publishes the result of one blueprint search.
func (s *ResultSink) RecordSearch(ev coremetrics.SearchEvent) error {
	msg := searchMessage{
		RunID:       ev.RunID,
		BlueprintID: ev.BlueprintID,
		Horizon:     ev.Horizon,
		Value:       ev.Value,
		Partial:     ev.Partial,
		Stats:       ev.Stats,
		DurationMS:  ev.Duration.Milliseconds(),
		Timestamp:   ev.Time.UnixMilli(),
	}
	return s.publish(s.Topic("blueprint/"+strconv.Itoa(ev.BlueprintID)), msg)
}

// RecordRun publishes the run summary.
func (s *ResultSink) RecordRun(ev coremetrics.RunEvent) error {
	msg := runMessage{
		RunID:      ev.RunID,
		Mode:       ev.Mode,
		Horizon:    ev.Horizon,
		Blueprints: ev.Blueprints,
		Score:      ev.Score,
		Partial:    ev.Partial,
		DurationMS: ev.Duration.Milliseconds(),
		Timestamp:  ev.Time.UnixMilli(),
	}
	return s.publish(s.Topic("run"), msg)
}

func (s *ResultSink) publish(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var publishErr error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		token := s.cli.Publish(topic, s.cfg.QoS, s.cfg.Retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			s.logger.Debugf("published %d bytes to %s", len(payload), topic)
			return nil
		}
		s.logger.Errorf("publish attempt %d to %s failed: %v", attempt+1, topic, publishErr)
		if attempt < s.cfg.MaxRetries {
			sleep(s.cfg.backoff() * time.Duration(1<<attempt))
		}
	}
	return fmt.Errorf("publish %s: %w", topic, publishErr)
}

// Close gracefully closes the broker connection.
func (s *ResultSink) Close() error {
	if s.cli != nil && s.cli.IsConnected() {
		s.cli.Disconnect(250)
	}
	return nil
}
