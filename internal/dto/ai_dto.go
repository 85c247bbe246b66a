package dto

type EnrichNotesRequest struct {
	Notes    string  `json:"notes"`
	Site     string  `json:"site,omitempty"`
	MaxDepth float64 `json:"max_depth,omitempty"`
	Duration int     `json:"duration,omitempty"`
}

type EnrichNotesResponse struct {
	Enriched string `json:"enriched"`
}

type IdentifySpeciesRequest struct {
	ImageURL  string `json:"image_url,omitempty"`
	ImageData string `json:"image_data,omitempty"`
}

type IdentifySpeciesResponse struct {
	Species        string  `json:"species"`
	ScientificName string  `json:"scientific_name"`
	Confidence     float64 `json:"confidence"`
	Facts          string  `json:"facts"`
}
