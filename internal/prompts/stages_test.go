package prompts_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/vidaleve/sofia/internal/prompts"
)

func TestParseStage(t *testing.T) {
	for _, stage := range prompts.Stages() {
		got, err := prompts.ParseStage(string(stage))
		if err != nil {
			t.Errorf("ParseStage(%s) error: %v", stage, err)
		}
		if got != stage {
			t.Errorf("ParseStage(%s) = %s", stage, got)
		}
	}

	if _, err := prompts.ParseStage("enhance"); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("error = %v, want ErrInvalidStage", err)
	}
}

func TestStageUnmarshalJSON(t *testing.T) {
	var s prompts.Stage
	if err := json.Unmarshal([]byte(`"detect"`), &s); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if s != prompts.StageDetect {
		t.Errorf("stage = %s, want detect", s)
	}

	if err := json.Unmarshal([]byte(`"bogus"`), &s); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("error = %v, want ErrInvalidStage", err)
	}
}

func TestBuiltinPromptsCoverEveryStage(t *testing.T) {
	for _, stage := range prompts.Stages() {
		instructions, err := prompts.Instructions(stage)
		if err != nil {
			t.Fatalf("Instructions(%s) error: %v", stage, err)
		}
		if instructions == "" {
			t.Errorf("Instructions(%s) is empty", stage)
		}

		spec, err := prompts.Spec(stage)
		if err != nil {
			t.Fatalf("Spec(%s) error: %v", stage, err)
		}
		if spec == "" {
			t.Errorf("Spec(%s) is empty", stage)
		}
	}
}
