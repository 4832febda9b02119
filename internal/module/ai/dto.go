package ai

// CropRecommendationRequest asks the inference service which crops suit
// a location.
type CropRecommendationRequest struct {
	Location string `json:"location" binding:"required,max=200"`
}

// CropSuggestion is a single recommended crop.
type CropSuggestion struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Season     string  `json:"season,omitempty"`
}

// CropRecommendation is the inference service's answer.
type CropRecommendation struct {
	Location string           `json:"location"`
	Crops    []CropSuggestion `json:"crops"`
}

// DiseaseAnalysis is the result of analyzing a crop image for disease.
type DiseaseAnalysis struct {
	Disease     string   `json:"disease"`
	Confidence  float64  `json:"confidence"`
	Description string   `json:"description"`
	Treatments  []string `json:"treatments"`
}
