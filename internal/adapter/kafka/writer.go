// Package kafka publishes observed typhoon bulletins to a Kafka topic for
// downstream consumers. Publishing is optional and feature-flagged.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/typhoon-info-service/internal/config"
	"github.com/couchcryptid/typhoon-info-service/internal/domain"
	"github.com/couchcryptid/typhoon-info-service/internal/observability"
)

// Writer produces bulletin events to a Kafka topic.
// It implements service.BulletinPublisher.
type Writer struct {
	writer  *kafkago.Writer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the configured bulletin topic.
func NewWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, metrics: metrics, logger: logger}
}

// PublishBulletin serializes the typhoon's latest observed position and
// writes it to the bulletin topic, keyed by sequence number so all bulletins
// of one typhoon land on the same partition.
func (w *Writer) PublishBulletin(ctx context.Context, summary domain.TyphoonSummary, point domain.TrackPoint) error {
	msg, err := serializeBulletin(summary, point)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write bulletin: %w", err)
	}
	w.metrics.BulletinsPublished.Inc()
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// bulletinEvent is the wire form of a published bulletin.
type bulletinEvent struct {
	SequenceNumber    int     `json:"typSeq"`
	NameLocal         string  `json:"typName,omitempty"`
	NameInternational string  `json:"typEn,omitempty"`
	Timestamp         string  `json:"typTm"`
	Lat               float64 `json:"lat"`
	Lon               float64 `json:"lon"`
	Location          string  `json:"typLoc,omitempty"`
	WindSpeed         string  `json:"typWs,omitempty"`
	Pressure          string  `json:"typPs,omitempty"`
}

// serializeBulletin marshals a summary/point pair into a Kafka message.
func serializeBulletin(summary domain.TyphoonSummary, point domain.TrackPoint) (kafkago.Message, error) {
	event := bulletinEvent{
		SequenceNumber:    summary.SequenceNumber,
		NameLocal:         summary.NameLocal,
		NameInternational: summary.NameInternational,
		Timestamp:         point.Timestamp,
		Lat:               point.Lat,
		Lon:               point.Lon,
		Location:          point.Location,
		WindSpeed:         point.WindSpeed,
		Pressure:          point.Pressure,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize bulletin: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.Itoa(summary.SequenceNumber)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "typ_seq", Value: []byte(strconv.Itoa(summary.SequenceNumber))},
			{Key: "bulletin_time", Value: []byte(point.Timestamp)},
		},
	}, nil
}
