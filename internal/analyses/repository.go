package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/vidaleve/sofia/internal/annotation"
	"github.com/vidaleve/sofia/internal/conversations"
	"github.com/vidaleve/sofia/internal/detect"
	"github.com/vidaleve/sofia/internal/fetch"
	"github.com/vidaleve/sofia/internal/foods"
	"github.com/vidaleve/sofia/internal/normalize"
	"github.com/vidaleve/sofia/internal/nutrition"
	"github.com/vidaleve/sofia/internal/prompts"
	"github.com/vidaleve/sofia/internal/workflow"
	"github.com/vidaleve/sofia/pkg/pagination"
	"github.com/vidaleve/sofia/pkg/query"
	"github.com/vidaleve/sofia/pkg/repository"
	"github.com/vidaleve/sofia/pkg/storage"
)

const analysisColumns = `id, user_ref, image_ref, foods_detected, estimated_calories,
	confidence, meal_type, strategy, message, status, annotation_task_id,
	totals, model_name, provider_name, analyzed_at, updated_at`

// Dependencies bundles everything the analysis repository needs. Storage,
// Refiner, and Annotation are optional.
type Dependencies struct {
	DB            *sql.DB
	Agent         gaconfig.AgentConfig
	Logger        *slog.Logger
	Pagination    pagination.Config
	Storage       storage.System
	Prompts       prompts.System
	Conversations conversations.System
	Catalog       *foods.Catalog
	Fetcher       *fetch.Fetcher
	Detector      *detect.Chain
	Refiner       *normalize.Refiner
	Annotation    *annotation.Client
	Options       workflow.Options
}

type repo struct {
	db            *sql.DB
	rt            *workflow.Runtime
	catalog       *foods.Catalog
	conversations conversations.System
	annotation    *annotation.Client
	logger        *slog.Logger
	pagination    pagination.Config
}

// New creates an analysis repository implementing the System interface.
// It internally constructs the workflow runtime from the provided dependencies.
func New(deps Dependencies) System {
	rt := &workflow.Runtime{
		Agent:      deps.Agent,
		Fetcher:    deps.Fetcher,
		Detector:   deps.Detector,
		Normalizer: normalize.New(deps.Catalog),
		Refiner:    deps.Refiner,
		Catalog:    deps.Catalog,
		Storage:    deps.Storage,
		Prompts:    deps.Prompts,
		Logger:     deps.Logger.With("workflow", "analyze"),
		Options:    deps.Options,
	}
	return &repo{
		db:            deps.DB,
		rt:            rt,
		catalog:       deps.Catalog,
		conversations: deps.Conversations,
		annotation:    deps.Annotation,
		logger:        deps.Logger.With("system", "analyses"),
		pagination:    deps.Pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

// Analyze runs the pipeline for one image and maps the result onto the
// external response contract. It never returns an error: any failure is
// logged and answered with the generic apology. Persistence is best-effort
// and skipped entirely for guests.
func (r *repo) Analyze(ctx context.Context, cmd AnalyzeCommand) (resp *AnalyzeResponse) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("analyze panicked", "panic", rec)
			resp = failureResponse(fmt.Errorf("internal failure"))
		}
	}()

	if cmd.ImageURL == "" {
		return failureResponse(ErrInvalidImage)
	}

	req := workflow.Request{Source: cmd.ImageURL}
	if cmd.UserContext != nil {
		req.UserName = cmd.UserContext.UserName
		req.CurrentMeal = cmd.UserContext.CurrentMeal
	}

	result, err := workflow.Execute(ctx, r.rt, req)
	if err != nil {
		r.logger.Error("analysis pipeline failed", "error", err)
		return failureResponse(err)
	}

	if !cmd.Guest() && result.Outcome != workflow.OutcomeNotFood {
		r.persist(ctx, cmd.UserID, result)
	}

	return responseFromResult(result)
}

// persist stores the analysis row and fans out the side effects. Failures
// are logged and swallowed; the user already has their answer.
func (r *repo) persist(ctx context.Context, userRef string, result *workflow.Result) {
	foodsJSON, err := json.Marshal(result.FoodNames())
	if err != nil {
		r.logger.Error("marshal foods_detected", "error", err)
		return
	}

	var totalsJSON []byte
	if result.Totals != nil {
		if totalsJSON, err = json.Marshal(result.Totals); err != nil {
			r.logger.Error("marshal totals", "error", err)
			return
		}
	}

	insertQ := `
		INSERT INTO analyses(
			id, user_ref, image_ref, foods_detected, estimated_calories,
			confidence, meal_type, strategy, message, status,
			totals, model_name, provider_name
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + analysisColumns

	insertArgs := []any{
		result.AnalysisID,
		userRef,
		result.ImageRef,
		foodsJSON,
		result.EstimatedKcal(),
		result.Detection.Confidence,
		result.Detection.MealType,
		result.Detection.Strategy,
		result.Message,
		StatusPending,
		totalsJSON,
		r.rt.Agent.Model.Name,
		r.rt.Agent.Provider.Name,
	}

	a, err := repository.QueryOne(ctx, r.db, insertQ, insertArgs, scanAnalysis)
	if err != nil {
		r.logger.Error("persist analysis", "analysis_id", result.AnalysisID, "error", err)
		return
	}

	var g errgroup.Group

	g.Go(func() error {
		r.submitAnnotation(ctx, &a)
		return nil
	})

	g.Go(func() error {
		_, err := r.conversations.Append(ctx, conversations.AppendCommand{
			UserRef:    userRef,
			AnalysisID: &a.ID,
			Role:       conversations.RoleAssistant,
			Content:    result.Message,
		})
		if err != nil {
			r.logger.Warn("append conversation message", "analysis_id", a.ID, "error", err)
		}
		return nil
	})

	g.Wait()

	r.logger.Info("analysis persisted",
		"id", a.ID,
		"user_ref", userRef,
		"foods", len(a.FoodsDetected),
	)
}

// submitAnnotation sends the prediction to the external labeling service and
// records the returned task id on the analysis row.
func (r *repo) submitAnnotation(ctx context.Context, a *Analysis) {
	if r.annotation == nil {
		return
	}

	taskID, err := r.annotation.Submit(ctx, annotation.Task{
		ImageRef:   a.ImageRef,
		Labels:     a.FoodsDetected,
		Confidence: a.Confidence,
		Strategy:   a.Strategy,
	})
	if err != nil {
		r.logger.Warn("submit annotation task", "analysis_id", a.ID, "error", err)
		return
	}

	if _, err := r.db.ExecContext(
		ctx,
		"UPDATE analyses SET annotation_task_id = $1, updated_at = NOW() WHERE id = $2",
		taskID, a.ID,
	); err != nil {
		r.logger.Warn("record annotation task id", "analysis_id", a.ID, "error", err)
	}
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Analysis], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Message", "ImageRef")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAnalysis)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAnalysis)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

// Confirm applies the user-corrected item list, re-runs the calculator over
// it, and marks the analysis confirmed. An empty list confirms the stored
// result unchanged.
func (r *repo) Confirm(ctx context.Context, id uuid.UUID, cmd ConfirmCommand) (*Analysis, error) {
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if current.Status != StatusPending {
		return nil, ErrInvalidStatus
	}

	foodsDetected := current.FoodsDetected
	estimated := current.EstimatedCalories
	totals := current.Totals

	if len(cmd.Items) > 0 {
		items := make([]nutrition.Item, len(cmd.Items))
		names := make([]string, len(cmd.Items))
		for i, item := range cmd.Items {
			items[i] = nutrition.Item{Name: item.Name, Grams: item.Grams}
			names[i] = item.Name
		}

		recalculated := nutrition.Calculate(r.catalog, items)
		foodsDetected = names
		estimated = int(recalculated.Totals.Kcal)
		totals = &recalculated
	}

	foodsJSON, err := json.Marshal(foodsDetected)
	if err != nil {
		return nil, fmt.Errorf("marshal foods_detected: %w", err)
	}

	totalsJSON, err := json.Marshal(totals)
	if err != nil {
		return nil, fmt.Errorf("marshal totals: %w", err)
	}

	updateQ := `
		UPDATE analyses
		SET foods_detected = $1, estimated_calories = $2, totals = $3,
			status = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6
		RETURNING ` + analysisColumns

	a, err := repository.QueryOne(
		ctx, r.db, updateQ,
		[]any{foodsJSON, estimated, totalsJSON, StatusConfirmed, id, StatusPending},
		scanAnalysis,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrInvalidStatus, ErrDuplicate)
	}

	r.logger.Info("analysis confirmed",
		"id", a.ID,
		"corrected_items", len(cmd.Items),
		"estimated_calories", a.EstimatedCalories,
	)
	return &a, nil
}

// Reject marks a pending analysis as rejected without altering its data.
func (r *repo) Reject(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	updateQ := `
		UPDATE analyses
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING ` + analysisColumns

	a, err := repository.QueryOne(
		ctx, r.db, updateQ,
		[]any{StatusRejected, id, StatusPending},
		scanAnalysis,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrInvalidStatus, ErrDuplicate)
	}

	r.logger.Info("analysis rejected", "id", a.ID)
	return &a, nil
}
