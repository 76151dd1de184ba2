package runs

import (
	"context"

	"github.com/google/uuid"

	"github.com/albmartin/po-intake/internal/workflow"
	"github.com/albmartin/po-intake/pkg/pagination"
)

// System defines the public contract for run domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Run], error)

	Find(ctx context.Context, id uuid.UUID) (*Run, error)
	FindByMessage(ctx context.Context, messageID string) (*Run, error)
	Record(ctx context.Context, st workflow.State) (*Run, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
