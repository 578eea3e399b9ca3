package detect

import (
	"context"
	"fmt"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"github.com/vidaleve/sofia/internal/fetch"
)

// foodClasses maps object localization class names to canonical-ish food
// names. Classes detected but absent here still count toward is_food when
// they fall under a generic food class.
var foodClasses = map[string]string{
	"banana":       "banana",
	"apple":        "maçã",
	"orange":       "laranja",
	"bread":        "pão",
	"sandwich":     "sanduíche",
	"hamburger":    "hambúrguer",
	"pizza":        "pizza",
	"pasta":        "macarrão",
	"rice":         "arroz",
	"salad":        "salada",
	"egg":          "ovo",
	"cheese":       "queijo",
	"cake":         "bolo",
	"cookie":       "biscoito",
	"sushi":        "sushi",
	"french fries": "batata frita",
	"hot dog":      "cachorro-quente",
	"taco":         "taco",
	"doughnut":     "rosquinha",
	"juice":        "suco",
	"coffee":       "café",
	"milk":         "leite",
}

// genericFoodClasses signal food presence without naming a specific item.
var genericFoodClasses = map[string]bool{
	"food":        true,
	"fruit":       true,
	"vegetable":   true,
	"snack":       true,
	"baked goods": true,
	"dish":        true,
	"dessert":     true,
	"drink":       true,
}

// containerClasses imply a liquid whose contents the localizer cannot name.
var containerClasses = map[string]string{
	"coffee cup":     "café",
	"mug":            "café",
	"juice box":      "suco",
	"wine glass":     "vinho",
	"bottle":         "bebida",
	"drinking glass": "bebida",
}

// ObjectStrategy detects foods through Google Cloud Vision object
// localization. It is the cheap first pass of the chain: fast and precise on
// common whole foods, weak on composed dishes, which the vision-language
// strategy picks up.
type ObjectStrategy struct {
	client   *vision.ImageAnnotatorClient
	minScore float64
}

// NewObjectStrategy creates the object localization strategy. An empty
// credentials path relies on ambient application default credentials.
// minScore 0 uses ObjectMinScore.
func NewObjectStrategy(ctx context.Context, credentialsFile string, minScore float64) (*ObjectStrategy, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create vision client: %w", err)
	}

	if minScore <= 0 {
		minScore = ObjectMinScore
	}

	return &ObjectStrategy{client: client, minScore: minScore}, nil
}

func (s *ObjectStrategy) Name() string {
	return "object-localization"
}

// Close releases the underlying gRPC connection.
func (s *ObjectStrategy) Close() error {
	return s.client.Close()
}

func (s *ObjectStrategy) Detect(ctx context.Context, img *fetch.Image) (*Detection, error) {
	resp, err := s.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image: &visionpb.Image{Content: img.Data},
			Features: []*visionpb.Feature{{
				Type:       visionpb.Feature_OBJECT_LOCALIZATION,
				MaxResults: 20,
			}},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("annotate image: %w", err)
	}

	if len(resp.Responses) == 0 {
		return &Detection{}, nil
	}

	r := resp.Responses[0]
	if r.Error != nil {
		return nil, fmt.Errorf("annotate image: %s", r.Error.Message)
	}

	return s.interpret(r.LocalizedObjectAnnotations), nil
}

// interpret folds localized objects into a detection. Duplicate classes keep
// the highest score. Generic food classes raise confidence without producing
// an item of their own.
func (s *ObjectStrategy) interpret(annotations []*visionpb.LocalizedObjectAnnotation) *Detection {
	d := &Detection{}
	seen := map[string]int{}

	for _, ann := range annotations {
		score := float64(ann.Score)
		if score < s.minScore {
			continue
		}

		class := strings.ToLower(ann.Name)

		name, liquid := "", false
		switch {
		case foodClasses[class] != "":
			name = foodClasses[class]
		case containerClasses[class] != "":
			name = containerClasses[class]
			liquid = true
		case genericFoodClasses[class]:
			d.IsFood = true
			if score > d.Confidence {
				d.Confidence = score
			}
			continue
		default:
			continue
		}

		d.IsFood = true
		if score > d.Confidence {
			d.Confidence = score
		}

		if idx, ok := seen[name]; ok {
			if score > d.Items[idx].Confidence {
				d.Items[idx].Confidence = score
			}
			continue
		}

		c := Candidate{Name: name, Confidence: score}
		if liquid {
			ml := 0.0
			c.Milliliters = &ml
		}
		seen[name] = len(d.Items)
		d.Items = append(d.Items, c)
	}

	return d
}
