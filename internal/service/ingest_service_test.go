package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fin-analyst-be/internal/dto"
	"fin-analyst-be/internal/pkg/logger"
	"fin-analyst-be/pkg/embedding"
	"fin-analyst-be/pkg/events"
	"fin-analyst-be/pkg/ingest"
	"fin-analyst-be/pkg/vectorindex"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDocPath(t *testing.T) {
	full, err := ResolveDocPath("/data/docs", "MSFT.pdf")
	require.NoError(t, err)
	assert.Equal(t, "/data/docs/MSFT.pdf", full)

	full, err = ResolveDocPath("/data/docs", "../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, "/data/docs/etc/passwd", full)
}

func TestIngestJobIsIndexed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	docs := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(docs, "amzn.txt"), []byte("AWS operating income grew."), 0o644))

	idx, err := vectorindex.NewChromemIndex("", "jobs", embedding.NewHashEmbedder(32), false)
	require.NoError(t, err)

	log := logger.NewNopLogger()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	pub := &capturePublisher{}
	consumer := NewConsumerService(pubSub, "INGEST", ingest.NewBuilder(idx, nil, ingest.DefaultConfig(), log), pub, log)
	require.NoError(t, consumer.Consume(ctx))

	producer := NewPublisherService("INGEST", pubSub, docs)
	res, err := producer.EnqueueIngest(ctx, &dto.IngestDocumentRequest{Path: "amzn.txt"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.JobId)

	assert.Eventually(t, func() bool {
		n, _ := idx.Count(ctx)
		return n == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool { return len(pub.snapshot()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, events.DocumentIngested, pub.snapshot()[0].EventType())
}

func TestEnqueueMissingDocument(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	_, err := NewPublisherService("INGEST", pubSub, t.TempDir()).EnqueueIngest(context.Background(), &dto.IngestDocumentRequest{Path: "none.pdf"})
	assert.Error(t, err)
}
