package serviceImp

import (
	"fmt"
	"strconv"
	"strings"

	"agentrix/entities"
)

// Compose writes the bilingual advice text for a finished pipeline run.
func Compose(r entities.AdvisoryResults) entities.Advice {
	var en, ml strings.Builder
	price := num(r.MarketPrice)

	if w := r.Weather; w != nil {
		temp := num(w.TemperatureC)
		fmt.Fprintf(&en, "**Today's Forecast:** %s at %s°C.\n\n", w.Description, temp)
		fmt.Fprintf(&ml, "**ഇന്നത്തെ കാലാവസ്ഥ:** %s°C താപനിലയിൽ '%s'.\n\n", temp, w.Description)
	}

	fmt.Fprintf(&en, "**Crop & Market:** Based on your soil, we recommend planting '%s'. The expected market price is ₹%s per quintal.\n\n", r.RecommendedCrop, price)
	fmt.Fprintf(&ml, "**വിളയും വിപണിയും:** നിങ്ങളുടെ മണ്ണിന്റെ അടിസ്ഥാനത്തിൽ '%s' നടാൻ ഞങ്ങൾ ശുപാർശ ചെയ്യുന്നു. പ്രതീക്ഷിക്കുന്ന വിപണി വില ക്വിന്റലിന് ₹%s ആണ്.\n\n", r.RecommendedCrop, price)

	if g := r.Resource; g != nil {
		fmt.Fprintf(&en, "**Resource Advice:**\n* **Fertilizer:** %s\n* **Irrigation:** %s\n\n", g.Fertilizer, g.Irrigation)
		fmt.Fprintf(&ml, "**വിഭവങ്ങൾക്കുള്ള ഉപദേശം:**\n* **വളം:** %s\n* **ജലസേചനം:** %s\n\n", g.FertilizerMl, g.IrrigationMl)
	}

	if d := r.Disease; d != nil {
		pct := d.Confidence * 100
		fmt.Fprintf(&en, "**Leaf Analysis:** We detected '%s' with %.2f%% confidence.", d.Disease, pct)
		fmt.Fprintf(&ml, "**ഇലകളുടെ വിശകലനം:** ഞങ്ങൾ '%s' %.2f%% കൃത്യതയോടെ കണ്ടെത്തി.", d.Disease, pct)
	}

	return entities.Advice{En: en.String(), Ml: ml.String()}
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
