package conversations

import (
	"context"

	"github.com/vidaleve/sofia/pkg/pagination"
)

// System defines the public contract for conversation domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Message], error)

	Append(ctx context.Context, cmd AppendCommand) (*Message, error)
}
