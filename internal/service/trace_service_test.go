package service

import (
	"context"
	"testing"
	"time"

	"fin-analyst-be/internal/dto"
	"fin-analyst-be/internal/model"
	"fin-analyst-be/internal/repository/specification"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTraceRepo struct {
	rows       []*model.QueryTrace
	countSpecs []specification.Specification
	findSpecs  []specification.Specification
}

func (f *fakeTraceRepo) Create(ctx context.Context, trace *model.QueryTrace) error {
	f.rows = append(f.rows, trace)
	return nil
}

func (f *fakeTraceRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*model.QueryTrace, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			for _, r := range f.rows {
				if r.Id == byID.ID {
					return r, nil
				}
			}
		}
	}
	return nil, nil
}

func (f *fakeTraceRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.QueryTrace, error) {
	f.findSpecs = specs
	return f.rows, nil
}

func (f *fakeTraceRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	f.countSpecs = specs
	return int64(len(f.rows)), nil
}

func TestTraceListBuildsFilters(t *testing.T) {
	repo := &fakeTraceRepo{rows: []*model.QueryTrace{{Id: uuid.New(), Route: "SQL", Question: "q"}}}
	svc := NewTraceService(repo)

	res, err := svc.List(context.Background(), &dto.ListTracesRequest{
		SessionId:  "s1",
		Route:      "SQL",
		FailedOnly: true,
		Since:      "2026-01-02T15:04:05Z",
	})
	require.NoError(t, err)

	assert.EqualValues(t, 1, res.Total)
	require.Len(t, res.Traces, 1)
	assert.Equal(t, "SQL", res.Traces[0].Route)

	since, _ := time.Parse(time.RFC3339, "2026-01-02T15:04:05Z")
	assert.Equal(t, []specification.Specification{
		specification.BySessionID{SessionID: "s1"},
		specification.ByRoute{Route: "SQL"},
		specification.FailedOnly{},
		specification.StartedAfter{Time: since},
	}, repo.countSpecs)

	// listing adds newest-first ordering and the default page size
	require.Len(t, repo.findSpecs, 6)
	assert.Equal(t, specification.OrderBy{Field: "started_at", Desc: true}, repo.findSpecs[4])
	assert.Equal(t, specification.Pagination{Limit: defaultTraceLimit}, repo.findSpecs[5])
}

func TestTraceListRejectsBadSince(t *testing.T) {
	svc := NewTraceService(&fakeTraceRepo{})

	_, err := svc.List(context.Background(), &dto.ListTracesRequest{Since: "yesterday"})

	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}

func TestTraceGetById(t *testing.T) {
	id := uuid.New()
	svc := NewTraceService(&fakeTraceRepo{rows: []*model.QueryTrace{{Id: id, Stage: "done"}}})

	res, err := svc.GetById(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id.String(), res.Id)

	_, err = svc.GetById(context.Background(), uuid.New())
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusNotFound, fe.Code)
}
