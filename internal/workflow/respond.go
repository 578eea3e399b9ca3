package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/vidaleve/sofia/internal/normalize"
	"github.com/vidaleve/sofia/internal/nutrition"
)

// Suggested gram anchors offered when strict mode blocks calculation.
var portionAnchors = []int{30, 50, 80, 100, 150}

// RespondNode returns the terminal state node. It classifies the run into an
// outcome, composes the user-facing message, and stores the Result in the
// state bag. It never fails on missing intermediate state; an empty result
// with a not-food outcome is still a valid terminal answer.
func RespondNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		analysisID, err := extractAnalysisID(s)
		if err != nil {
			return s, fmt.Errorf("respond: %w: %w", ErrRespondFailed, err)
		}

		result := Result{
			AnalysisID:  analysisID,
			ImageRef:    stringKey(s, KeySource),
			CompletedAt: time.Now(),
		}

		if d, err := extractDetection(s); err == nil {
			result.Detection = *d
		}
		if items, err := extractItems(s); err == nil {
			result.Items = items
		}
		result.Totals = extractTotals(s)

		result.Outcome = classifyOutcome(rt, &result)
		result.Message = composeMessage(rt, &result, stringKey(s, KeyUserName), stringKey(s, KeyMeal))

		rt.Logger.InfoContext(
			ctx, "respond node complete",
			"analysis_id", analysisID,
			"outcome", result.Outcome,
		)

		s = s.Set(KeyResult, result)
		return s, nil
	})
}

func classifyOutcome(rt *Runtime, r *Result) Outcome {
	if !r.Detection.Confident(rt.Detector.Floor()) {
		return OutcomeNotFood
	}
	if r.Totals == nil {
		return OutcomeNeedsQuantities
	}
	return OutcomeAnalyzed
}

func extractAnalysisID(s state.State) (uuid.UUID, error) {
	val, ok := s.Get(KeyAnalysisID)
	if !ok {
		return uuid.Nil, fmt.Errorf("missing %s in state", KeyAnalysisID)
	}

	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("%s is not uuid.UUID", KeyAnalysisID)
	}

	return id, nil
}

func stringKey(s state.State, key string) string {
	val, ok := s.Get(key)
	if !ok {
		return ""
	}
	str, _ := val.(string)
	return str
}

// composeMessage writes Sofia's confirmation text in Brazilian Portuguese.
// The tone is warm and conversational; raw numbers appear only when a real
// estimate exists.
func composeMessage(rt *Runtime, r *Result, userName, currentMeal string) string {
	greeting := "Oi!"
	if userName != "" {
		greeting = fmt.Sprintf("Oi, %s!", userName)
	}

	switch r.Outcome {
	case OutcomeNotFood:
		return greeting + " Não consegui identificar comida nessa foto. " +
			"Pode tentar outra foto mais de perto, ou me contar por texto o que você comeu?"

	case OutcomeNeedsQuantities:
		var sb strings.Builder
		sb.WriteString(greeting)
		sb.WriteString(" Identifiquei ")
		sb.WriteString(itemList(r.Items))
		sb.WriteString(", mas não consegui estimar as quantidades. ")
		sb.WriteString("Me diz quantos gramas de cada um? Valores comuns: ")
		for i, anchor := range portionAnchors {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%dg", anchor)
		}
		sb.WriteString(".")
		return sb.String()

	default:
		var sb strings.Builder
		sb.WriteString(greeting)
		if currentMeal != "" {
			fmt.Fprintf(&sb, " Analisei seu %s:", currentMeal)
		} else {
			sb.WriteString(" Aqui está o que encontrei na sua foto:")
		}
		sb.WriteString(" ")
		sb.WriteString(itemList(r.Items))
		sb.WriteString(".")

		if r.Totals != nil && r.Totals.GramsTotal > 0 {
			sb.WriteString(" ")
			sb.WriteString(totalsSummary(r.Totals))
		}

		if r.Totals != nil && len(r.Totals.Missing) > 0 {
			fmt.Fprintf(
				&sb, " Não encontrei dados nutricionais para: %s.",
				strings.Join(r.Totals.Missing, ", "),
			)
		}

		sb.WriteString(" Está correto? Confirma pra eu registrar.")
		return sb.String()
	}
}

func itemList(items []normalize.Item) string {
	if len(items) == 0 {
		return "alguns alimentos"
	}

	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}

	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " e " + names[len(names)-1]
}

func totalsSummary(t *nutrition.Totals) string {
	return fmt.Sprintf(
		"Estimativa: %.0f kcal (%.1fg proteína, %.1fg carboidrato, %.1fg gordura) em %.0fg.",
		t.Totals.Kcal, t.Totals.Protein, t.Totals.Carbs, t.Totals.Fat, t.GramsTotal,
	)
}
