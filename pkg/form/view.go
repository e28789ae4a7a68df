package form

const (
	LabelIdle    = "Get Farming Advice"
	LabelLoading = "Getting Advice..."
)

// View is the render-ready projection of a State.
type View struct {
	Phase          string `json:"phase"`
	ButtonLabel    string `json:"button_label"`
	ButtonDisabled bool   `json:"button_disabled"`
	ShowAdvice     bool   `json:"show_advice"`
	En             string `json:"en,omitempty"`
	ShowMalayalam  bool   `json:"show_malayalam"`
	Ml             string `json:"ml,omitempty"`
}

// Render is pure: equal states give equal views.
func Render(s State) View {
	v := View{Phase: s.Phase.String(), ButtonLabel: LabelIdle}
	if s.Phase == Loading {
		v.ButtonLabel = LabelLoading
		v.ButtonDisabled = true
		return v
	}
	if s.Result == nil {
		return v
	}
	v.ShowAdvice = true
	v.En = s.Result.En
	if s.Result.Ml != "" {
		v.ShowMalayalam = true
		v.Ml = s.Result.Ml
	}
	return v
}
