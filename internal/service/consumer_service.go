// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"os"

	"fin-analyst-be/internal/dto"
	"fin-analyst-be/internal/pkg/logger"
	"fin-analyst-be/pkg/events"
	"fin-analyst-be/pkg/ingest"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	builder   *ingest.Builder
	events    EventPublisher
	logger    logger.ILogger
}

// NewConsumerService indexes documents queued on topicName. events may be nil.
func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	builder *ingest.Builder,
	eventPublisher EventPublisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		builder:   builder,
		events:    eventPublisher,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.IngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.logger.Info("CONSUMER", "Processing ingest job", map[string]interface{}{
		"job_id": payload.JobId,
		"path":   payload.Path,
	})

	info, err := os.Stat(payload.Path)
	if err != nil {
		cs.logger.Error("CONSUMER", "Document vanished before ingest", map[string]interface{}{
			"job_id": payload.JobId,
			"error":  err.Error(),
		})
		msg.Ack()
		return
	}

	var report *ingest.Report
	if info.IsDir() {
		report, err = cs.builder.BuildFromDir(ctx, payload.Path)
	} else {
		var n int
		n, err = cs.builder.IngestFile(ctx, payload.Path)
		report = &ingest.Report{
			Files:  []string{info.Name()},
			Chunks: n,
			ByFile: map[string]int{info.Name(): n},
		}
	}
	if err != nil {
		cs.logger.Error("CONSUMER", "Ingest job failed", map[string]interface{}{
			"job_id": payload.JobId,
			"error":  err.Error(),
		})
		// parse and embedding failures are not transient enough to loop on
		msg.Ack()
		return
	}

	if cs.events != nil {
		evt := events.New(events.DocumentIngested, map[string]interface{}{
			"job_id": payload.JobId,
			"files":  report.Files,
			"chunks": report.Chunks,
		})
		if err := cs.events.Publish(ctx, evt); err != nil {
			cs.logger.Warn("CONSUMER", "Failed to publish ingest event", map[string]interface{}{"error": err.Error()})
		}
	}

	cs.logger.Info("CONSUMER", "Ingest job done", map[string]interface{}{
		"job_id": payload.JobId,
		"files":  len(report.Files),
		"chunks": report.Chunks,
	})
	msg.Ack()
}
