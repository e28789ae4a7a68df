package entities

// FormInput is what the farmer typed or picked in the advice form.
type FormInput struct {
	GPS       string
	SoilType  string
	LeafPhoto *LeafPhoto
}

// LeafPhoto is an uploaded leaf image held in memory.
type LeafPhoto struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AdviceRequest is the wire body of POST /api/get-advice.
type AdviceRequest struct {
	GPS      string `json:"gps" form:"gps"`
	SoilType string `json:"soil_type" form:"soil_type"`
	Lang     string `json:"lang" form:"lang"`
}

// Advice is the bilingual text returned by the advice API.
type Advice struct {
	En string `json:"en"`
	Ml string `json:"ml,omitempty"`
}
