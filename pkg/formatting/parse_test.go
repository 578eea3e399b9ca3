package formatting_test

import (
	"errors"
	"testing"

	"github.com/vidaleve/sofia/pkg/formatting"
)

type detection struct {
	IsFood     bool    `json:"is_food"`
	Confidence float64 `json:"confidence"`
}

func TestParse(t *testing.T) {
	t.Run("direct JSON", func(t *testing.T) {
		got, err := formatting.Parse[detection](`{"is_food":true,"confidence":0.85}`)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if !got.IsFood || got.Confidence != 0.85 {
			t.Errorf("Parse = %+v, want {IsFood:true Confidence:0.85}", got)
		}
	})

	t.Run("direct JSON with whitespace", func(t *testing.T) {
		got, err := formatting.Parse[detection](`  {"is_food":true,"confidence":0.5}  `)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if !got.IsFood {
			t.Errorf("IsFood = false, want true")
		}
	})

	t.Run("markdown fenced JSON", func(t *testing.T) {
		input := "```json\n{\"is_food\":false,\"confidence\":0.1}\n```"
		got, err := formatting.Parse[detection](input)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.IsFood || got.Confidence != 0.1 {
			t.Errorf("Parse = %+v, want {IsFood:false Confidence:0.1}", got)
		}
	})

	t.Run("markdown fenced without language tag", func(t *testing.T) {
		input := "```\n{\"is_food\":true,\"confidence\":0.7}\n```"
		got, err := formatting.Parse[detection](input)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Confidence != 0.7 {
			t.Errorf("Confidence = %v, want 0.7", got.Confidence)
		}
	})

	t.Run("markdown fenced with surrounding text", func(t *testing.T) {
		input := "Aqui está a análise:\n```json\n{\"is_food\":true,\"confidence\":0.9}\n```\nPronto."
		got, err := formatting.Parse[detection](input)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Confidence != 0.9 {
			t.Errorf("Confidence = %v, want 0.9", got.Confidence)
		}
	})

	t.Run("invalid content returns ErrParseFailed", func(t *testing.T) {
		_, err := formatting.Parse[detection]("the model refused to answer in JSON")
		if !errors.Is(err, formatting.ErrParseFailed) {
			t.Errorf("error = %v, want ErrParseFailed", err)
		}
	})

	t.Run("empty string returns ErrParseFailed", func(t *testing.T) {
		_, err := formatting.Parse[detection]("")
		if !errors.Is(err, formatting.ErrParseFailed) {
			t.Errorf("error = %v, want ErrParseFailed", err)
		}
	})
}
