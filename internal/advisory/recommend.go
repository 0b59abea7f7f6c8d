package advisory

import "context"

type Request struct {
	Location string `json:"location"`
	Season   string `json:"season"`
	SoilType string `json:"soilType"`
}

type Recommendation struct {
	Crop          string `json:"crop"`
	Suitability   int    `json:"suitability"` // 0-100
	Reason        string `json:"reason"`
	ExpectedYield string `json:"expectedYield"`
	PlantingTime  string `json:"plantingTime"`
	HarvestTime   string `json:"harvestTime"`
}

// Generator produces an ordered recommendation list for a request.
type Generator interface {
	Recommend(ctx context.Context, req Request) ([]Recommendation, error)
}

type staticGenerator struct{}

// NewStatic returns the built-in generator used until a model-backed one is configured.
func NewStatic() Generator { return staticGenerator{} }

func (staticGenerator) Recommend(context.Context, Request) ([]Recommendation, error) {
	return []Recommendation{
		{
			Crop:          "Wheat",
			Suitability:   90,
			Reason:        "Excellent for winter season in your region",
			ExpectedYield: "40-45 quintals per hectare",
			PlantingTime:  "November - December",
			HarvestTime:   "April - May",
		},
		{
			Crop:          "Mustard",
			Suitability:   85,
			Reason:        "Good oil seed crop for winter",
			ExpectedYield: "15-20 quintals per hectare",
			PlantingTime:  "October - November",
			HarvestTime:   "February - March",
		},
		{
			Crop:          "Gram (Chickpea)",
			Suitability:   80,
			Reason:        "Suitable for clay loam soil",
			ExpectedYield: "20-25 quintals per hectare",
			PlantingTime:  "October - November",
			HarvestTime:   "March - April",
		},
	}, nil
}
