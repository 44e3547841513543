package mapper

import (
	"testing"
	"time"

	"fin-analyst-be/pkg/ai/router"
	"fin-analyst-be/pkg/rag/executor"
	"fin-analyst-be/pkg/rag/response"
	"fin-analyst-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceToModelAndBack(t *testing.T) {
	m := NewTraceMapper()
	tr := &executor.Trace{
		ID:          uuid.NewString(),
		SessionID:   "s-1",
		Question:    "What drove Azure growth?",
		Route:       router.RouteRAG,
		Source:      executor.SourcePDF,
		RouteReason: "qualitative",
		Stage:       executor.StageDone,
		StartedAt:   time.Now(),
		Citations: []response.Citation{
			{Chunk: 1, Source: "docs/MSFT.pdf", Page: store.PageOf(3)},
			{Chunk: 2, Source: "docs/MSFT.pdf"},
		},
	}

	row, err := m.TraceToModel(tr)
	require.NoError(t, err)
	assert.Equal(t, "RAG", row.Route)
	assert.Contains(t, string(row.Citations), `"page":"unknown"`)

	res := m.ModelToResponse(row)
	assert.Equal(t, tr.ID, res.Id)
	require.Len(t, res.Citations, 2)
	assert.Equal(t, 3, *res.Citations[0].Page)
	assert.Nil(t, res.Citations[1].Page)
}

func TestTraceToModelRejectsBadID(t *testing.T) {
	_, err := NewTraceMapper().TraceToModel(&executor.Trace{ID: "not-a-uuid"})
	assert.Error(t, err)
}
