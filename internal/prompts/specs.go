package prompts

const detectSpec = `Respond with a JSON object matching this exact structure:

{
  "is_food": true,
  "confidence": 0.85,
  "foods_detected": ["<food1>", "<food2>"],
  "liquids_detected": ["<liquid1>"],
  "estimated_calories": 650,
  "meal_type": "almoço"
}

Field constraints:
- is_food: Whether the image contains any edible food or drink. False for
  non-food images, packaging without visible contents, or empty plates.
- confidence: Number between 0 and 1 reflecting how certain you are about
  the overall detection, not about any single item.
- foods_detected: Distinct solid foods visible in the image. Empty array
  when is_food is false.
- liquids_detected: Distinct drinks or liquid foods visible in the image.
  Never repeat an item from foods_detected.
- estimated_calories: Rough total for the visible meal as an integer.
  Use 0 when is_food is false.
- meal_type: One of "café da manhã", "almoço", "jantar", "lanche", or
  "indefinido" when unclear.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- List each distinct item once, no packaging or tableware
- When in doubt about is_food, answer false with low confidence`

const portionsSpec = `Respond with a JSON object matching this exact structure:

{
  "items": [
    {
      "name": "<item>",
      "grams": 120,
      "milliliters": 0,
      "preparation": "grelhado",
      "confidence": 0.8
    }
  ],
  "cooking_methods": ["<method1>"],
  "seasonings": ["<seasoning1>"]
}

Field constraints:
- items: One entry per distinct food or drink. Solid foods carry grams and
  milliliters 0; liquids carry milliliters and grams 0. Never set both.
- name: The item name as a Brazilian speaker would write it.
- preparation: Visible preparation method, empty string when not evident.
- confidence: Per-item number between 0 and 1.
- cooking_methods: Methods evident for the meal as a whole.
- seasonings: Visible seasonings or sauces, empty array when none.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Report quantities for the portion visible, not a standard serving
- Omit an item entirely rather than inventing a quantity for something
  you cannot see well enough to estimate`

const normalizeSpec = `Respond with a JSON object matching this exact structure:

{
  "items": ["<canonical1>", "<canonical2>"]
}

Field constraints:
- items: The canonicalized names, in the same order as the input list,
  one output name per input name. Unmappable names pass through unchanged.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Output exactly as many items as the input contained
- Never translate names out of Portuguese`

var specs = map[Stage]string{
	StageDetect:    detectSpec,
	StagePortions:  portionsSpec,
	StageNormalize: normalizeSpec,
}

// Spec returns the hardcoded specification for a pipeline stage.
// Specifications define the expected output format and behavioral constraints.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
