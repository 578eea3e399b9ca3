package conversations

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/vidaleve/sofia/pkg/pagination"
	"github.com/vidaleve/sofia/pkg/query"
	"github.com/vidaleve/sofia/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a conversation repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "conversations"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Message], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Content")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count conversation messages: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanMessage)
	if err != nil {
		return nil, fmt.Errorf("query conversation messages: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Append(ctx context.Context, cmd AppendCommand) (*Message, error) {
	if cmd.Role != RoleUser && cmd.Role != RoleAssistant {
		return nil, ErrInvalidRole
	}

	insertQ := `
		INSERT INTO conversations(user_ref, analysis_id, role, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_ref, analysis_id, role, content, created_at`

	m, err := repository.QueryOne(
		ctx, r.db, insertQ,
		[]any{cmd.UserRef, cmd.AnalysisID, cmd.Role, cmd.Content},
		scanMessage,
	)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("conversation message appended",
		"id", m.ID,
		"user_ref", m.UserRef,
		"role", m.Role,
	)
	return &m, nil
}
