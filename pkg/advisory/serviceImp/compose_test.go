package serviceImp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"agentrix/entities"
)

func TestCompose_Full(t *testing.T) {
	adv := Compose(entities.AdvisoryResults{
		Weather:         &entities.WeatherForecast{Description: "Light Rain", TemperatureC: 27.4},
		RecommendedCrop: "Rice",
		MarketPrice:     2100,
		Resource:        &entities.ResourceAdvice{Fertilizer: "F", Irrigation: "I", FertilizerMl: "Fm", IrrigationMl: "Im"},
		Disease:         &entities.DiseasePrediction{Disease: "Brown Spot", Confidence: 0.8765},
	})

	assert.Equal(t, "**Today's Forecast:** Light Rain at 27.4°C.\n\n"+
		"**Crop & Market:** Based on your soil, we recommend planting 'Rice'. The expected market price is ₹2100 per quintal.\n\n"+
		"**Resource Advice:**\n* **Fertilizer:** F\n* **Irrigation:** I\n\n"+
		"**Leaf Analysis:** We detected 'Brown Spot' with 87.65% confidence.", adv.En)

	assert.Equal(t, "**ഇന്നത്തെ കാലാവസ്ഥ:** 27.4°C താപനിലയിൽ 'Light Rain'.\n\n"+
		"**വിളയും വിപണിയും:** നിങ്ങളുടെ മണ്ണിന്റെ അടിസ്ഥാനത്തിൽ 'Rice' നടാൻ ഞങ്ങൾ ശുപാർശ ചെയ്യുന്നു. പ്രതീക്ഷിക്കുന്ന വിപണി വില ക്വിന്റലിന് ₹2100 ആണ്.\n\n"+
		"**വിഭവങ്ങൾക്കുള്ള ഉപദേശം:**\n* **വളം:** Fm\n* **ജലസേചനം:** Im\n\n"+
		"**ഇലകളുടെ വിശകലനം:** ഞങ്ങൾ 'Brown Spot' 87.65% കൃത്യതയോടെ കണ്ടെത്തി.", adv.Ml)
}

func TestCompose_CropOnly(t *testing.T) {
	adv := Compose(entities.AdvisoryResults{RecommendedCrop: "Millet", MarketPrice: 1800})
	assert.Equal(t, "**Crop & Market:** Based on your soil, we recommend planting 'Millet'. The expected market price is ₹1800 per quintal.\n\n", adv.En)
	assert.NotEmpty(t, adv.Ml)
}
