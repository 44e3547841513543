package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"fin-analyst-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
)

type IPublisherService interface {
	// EnqueueIngest queues a file or directory under the docs dir for indexing
	EnqueueIngest(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error)
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
	docsDir   string
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel, docsDir string) IPublisherService {
	return &publisherService{topicName: topicName, pubSub: pubSub, docsDir: docsDir}
}

// ResolveDocPath maps a request path onto docsDir. Paths escaping the docs
// dir are rejected.
func ResolveDocPath(docsDir, p string) (string, error) {
	clean := filepath.Clean(string(filepath.Separator) + p)
	full := filepath.Join(docsDir, clean)
	if rel, err := filepath.Rel(docsDir, full); err != nil || strings.HasPrefix(rel, "..") {
		return "", fiber.NewError(fiber.StatusBadRequest, "path escapes the documents directory")
	}
	return full, nil
}

func (s *publisherService) EnqueueIngest(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error) {
	full, err := ResolveDocPath(s.docsDir, req.Path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(full); err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "document not found: "+req.Path)
	}

	payload := dto.IngestDocumentMessage{JobId: watermill.NewUUID(), Path: full}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(payload.JobId, data)
	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		return nil, err
	}
	return &dto.IngestDocumentResponse{JobId: payload.JobId}, nil
}
