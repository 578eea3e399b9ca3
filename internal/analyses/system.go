package analyses

import (
	"context"

	"github.com/google/uuid"

	"github.com/vidaleve/sofia/pkg/pagination"
)

// System defines the public contract for analysis domain operations.
// Analyze returns a response rather than an error: the endpoint always
// answers HTTP 200 and failures surface as success=false with a user-facing
// message.
type System interface {
	Handler() *Handler

	Analyze(ctx context.Context, cmd AnalyzeCommand) *AnalyzeResponse

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Analysis], error)

	Find(ctx context.Context, id uuid.UUID) (*Analysis, error)
	Confirm(ctx context.Context, id uuid.UUID, cmd ConfirmCommand) (*Analysis, error)
	Reject(ctx context.Context, id uuid.UUID) (*Analysis, error)
}
