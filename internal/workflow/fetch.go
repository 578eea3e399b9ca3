package workflow

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/vidaleve/sofia/internal/fetch"
)

// FetchNode returns a state node that resolves the image source into bytes
// and archives a copy to blob storage under the analysis id. Fetch failure is
// the one hard failure of the pipeline; there is nothing to analyze without
// an image.
func FetchNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		source, analysisID, err := extractFetchState(s)
		if err != nil {
			return s, fmt.Errorf("fetch: %w", err)
		}

		img, err := rt.Fetcher.Fetch(ctx, source)
		if err != nil {
			return s, fmt.Errorf("fetch: %w: %w", ErrFetchFailed, err)
		}

		imageRef := archiveImage(ctx, rt, analysisID, img)

		rt.Logger.InfoContext(
			ctx, "fetch node complete",
			"analysis_id", analysisID,
			"bytes", len(img.Data),
			"mime", img.MIME,
		)

		s = s.Set(KeyImage, img)
		s = s.Set(KeySource, imageRef)
		return s, nil
	})
}

func extractFetchState(s state.State) (string, uuid.UUID, error) {
	sourceVal, ok := s.Get(KeySource)
	if !ok {
		return "", uuid.Nil, fmt.Errorf("%w: missing %s in state", ErrFetchFailed, KeySource)
	}

	source, ok := sourceVal.(string)
	if !ok {
		return "", uuid.Nil, fmt.Errorf("%w: %s is not string", ErrFetchFailed, KeySource)
	}

	idVal, ok := s.Get(KeyAnalysisID)
	if !ok {
		return "", uuid.Nil, fmt.Errorf("%w: missing %s in state", ErrFetchFailed, KeyAnalysisID)
	}

	analysisID, ok := idVal.(uuid.UUID)
	if !ok {
		return "", uuid.Nil, fmt.Errorf("%w: %s is not uuid.UUID", ErrFetchFailed, KeyAnalysisID)
	}

	return source, analysisID, nil
}

// archiveImage uploads the fetched image so the stored analysis has a stable
// reference even when the source URL expires. Upload failure keeps the
// original source as the reference. Inline payloads with no storage
// configured have no durable reference at all.
func archiveImage(ctx context.Context, rt *Runtime, analysisID uuid.UUID, img *fetch.Image) string {
	if rt.Storage == nil {
		return img.SourceURL
	}

	key := fmt.Sprintf("meals/%s/source%s", analysisID, img.Extension())
	if err := rt.Storage.Upload(ctx, key, bytes.NewReader(img.Data), img.MIME); err != nil {
		rt.Logger.WarnContext(
			ctx, "image archive failed",
			"analysis_id", analysisID,
			"error", err,
		)
		return img.SourceURL
	}

	return key
}
