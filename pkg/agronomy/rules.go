package agronomy

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"agentrix/entities"
)

// Rules answers the rule-based questions of the advice pipeline.
type Rules interface {
	RecommendCrop(soilType string) string
	Guidelines(crop string) entities.ResourceAdvice
	BasePrice(crop string) float64
	BasePrices() map[string]float64
}

const DefaultPrice = 2000.0

// checked in order, first match wins
var soilCrops = []struct{ keyword, crop string }{
	{"alluvial", "Rice"},
	{"clay", "Rice"},
	{"sandy", "Groundnut"},
	{"black", "Cotton"},
	{"red", "Millet"},
	{"loam", "Wheat"},
}

const fallbackCrop = "Millet"

var defaultGuidelines = map[string]entities.ResourceAdvice{
	"Rice": {
		Fertilizer:   "High in Nitrogen (e.g., Urea). Apply in split doses during the vegetative stage.",
		Irrigation:   "Requires standing water. Maintain a consistent water level of 2-5 cm through most of the growing season.",
		FertilizerMl: "നൈട്രജൻ കൂടുതലുള്ള വളം (ഉദാ: യൂറിയ). കൃഷിയുടെ ആദ്യഘട്ടത്തിൽ പലതവണയായി പ്രയോഗിക്കുക.",
		IrrigationMl: "പാടത്ത് വെള്ളം കെട്ടിനിർത്തേണ്ടത് ആവശ്യമാണ്. കൃഷിയുടെ ഭൂരിഭാഗം സമയത്തും 2-5 സെന്റിമീറ്റർ ജലനിരപ്പ് നിലനിർത്തുക.",
	},
	"Millet": {
		Fertilizer:   "Balanced NPK (Nitrogen, Phosphorus, Potassium) fertilizer. Less nitrogen is required compared to rice.",
		Irrigation:   "Drought-tolerant. Water deeply but infrequently. Allow soil to dry between waterings.",
		FertilizerMl: "സന്തുലിതമായ NPK വളം. അരിയെ അപേക്ഷിച്ച് കുറഞ്ഞ നൈട്രജൻ മതിയാകും.",
		IrrigationMl: "വരൾച്ചയെ അതിജീവിക്കാൻ കഴിവുള്ള വിള. ആഴത്തിൽ നനയ്ക്കുക, പക്ഷേ ഇടയ്ക്കിടെ മാത്രം. നനയ്ക്കുന്നതിന് മുമ്പ് മണ്ണ് ഉണങ്ങാൻ അനുവദിക്കുക.",
	},
	"Groundnut": {
		Fertilizer:   "Low nitrogen, but high in Phosphorus and Potassium. Gypsum is recommended during the pegging stage.",
		Irrigation:   "Requires consistent moisture, especially during flowering and pod formation. Avoid waterlogging.",
		FertilizerMl: "നൈട്രജൻ കുറവും ഫോസ്ഫറസ്, പൊട്ടാസ്യം എന്നിവ കൂടുതലുള്ളതുമായ വളം. കായ് പിടിക്കുന്ന ഘട്ടത്തിൽ ജിപ്സം ശുപാർശ ചെയ്യുന്നു.",
		IrrigationMl: "പൂവിടുന്ന സമയത്തും കായ് പിടിക്കുന്ന സമയത്തും ഈർപ്പം നിലനിർത്തേണ്ടത് അത്യാവശ്യമാണ്. വെള്ളക്കെട്ട് ഒഴിവാക്കുക.",
	},
}

var fallbackGuideline = entities.ResourceAdvice{
	Fertilizer:   "Use a balanced fertilizer suitable for your region. Consult a local agricultural expert for specific details.",
	Irrigation:   "Ensure adequate watering based on soil type and weather conditions.",
	FertilizerMl: "നിങ്ങളുടെ പ്രദേശത്തിന് അനുയോജ്യമായ സന്തുലിത വളം ഉപയോഗിക്കുക. കൂടുതൽ വിവരങ്ങൾക്കായി ഒരു പ്രാദേശിക കൃഷി വിദഗ്ദ്ധനുമായി ബന്ധപ്പെടുക.",
	IrrigationMl: "മണ്ണിന്റെ തരവും കാലാവസ്ഥയും അനുസരിച്ച് ആവശ്യത്തിന് നനയ്ക്കുക.",
}

var defaultPrices = map[string]float64{
	"Rice":      2100,
	"Groundnut": 5500,
	"Millet":    1800,
	"Cotton":    6000,
	"Wheat":     2200,
}

type rules struct {
	guidelines map[string]entities.ResourceAdvice // crop -> advice
	prices     map[string]float64                 // crop -> price per quintal
}

// Default returns the built-in rule set.
func Default() Rules {
	r := &rules{guidelines: map[string]entities.ResourceAdvice{}, prices: map[string]float64{}}
	for k, v := range defaultGuidelines {
		r.guidelines[k] = v
	}
	for k, v := range defaultPrices {
		r.prices[k] = v
	}
	return r
}

// LoadFromFiles starts from the built-in rules and overlays the optional
// guidelines CSV and prices workbook. Empty paths are skipped.
func LoadFromFiles(guidelinesCSV, pricesXLSX string) (Rules, error) {
	r := Default().(*rules)
	if guidelinesCSV != "" {
		if err := r.loadGuidelinesCSV(guidelinesCSV); err != nil {
			return nil, fmt.Errorf("guidelines csv: %w", err)
		}
	}
	if pricesXLSX != "" {
		if err := r.loadPricesXLSX(pricesXLSX); err != nil {
			return nil, fmt.Errorf("prices xlsx: %w", err)
		}
	}
	return r, nil
}

func (r *rules) RecommendCrop(soilType string) string {
	s := strings.ToLower(soilType)
	for _, sc := range soilCrops {
		if strings.Contains(s, sc.keyword) {
			return sc.crop
		}
	}
	return fallbackCrop
}

func (r *rules) Guidelines(crop string) entities.ResourceAdvice {
	if g, ok := r.guidelines[crop]; ok {
		return g
	}
	return fallbackGuideline
}

func (r *rules) BasePrice(crop string) float64 {
	if p, ok := r.prices[crop]; ok {
		return p
	}
	return DefaultPrice
}

func (r *rules) BasePrices() map[string]float64 {
	out := make(map[string]float64, len(r.prices))
	for k, v := range r.prices {
		out[k] = v
	}
	return out
}

// normalized header lookup shared by the CSV and XLSX loaders
func norm(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF") // BOM
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

func headerIndex(head []string) func(keys ...string) int {
	hmap := map[string]int{}
	for i, h := range head {
		hmap[norm(h)] = i
	}
	return func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[norm(k)]; ok {
				return idx
			}
		}
		return -1
	}
}

func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

func (r *rules) loadGuidelinesCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.readGuidelines(f)
}

func (r *rules) readGuidelines(src io.Reader) error {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	head, err := cr.Read()
	if err != nil {
		return err
	}
	findAny := headerIndex(head)

	cCrop := findAny("crop", "crop_name", "recommended_crop")
	cFert := findAny("fertilizer", "fertiliser", "fertilizer_en")
	cIrr := findAny("irrigation", "water", "irrigation_en")
	cFertMl := findAny("fertilizer_ml", "fertiliser_ml", "fertilizer_malayalam")
	cIrrMl := findAny("irrigation_ml", "water_ml", "irrigation_malayalam")

	if cCrop == -1 || cFert == -1 || cIrr == -1 {
		return fmt.Errorf("missing required columns, found headers %v, need at least crop, fertilizer, irrigation", head)
	}

	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		crop := cell(rec, cCrop)
		if crop == "" {
			continue
		}
		g := entities.ResourceAdvice{
			Fertilizer:   cell(rec, cFert),
			Irrigation:   cell(rec, cIrr),
			FertilizerMl: cell(rec, cFertMl),
			IrrigationMl: cell(rec, cIrrMl),
		}
		// keep built-in Malayalam text when the file has none
		if old, ok := r.guidelines[crop]; ok {
			if g.FertilizerMl == "" {
				g.FertilizerMl = old.FertilizerMl
			}
			if g.IrrigationMl == "" {
				g.IrrigationMl = old.IrrigationMl
			}
		}
		r.guidelines[crop] = g
	}
	return nil
}

func (r *rules) loadPricesXLSX(path string) error {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer x.Close()

	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return errors.New("workbook has no sheets")
	}
	rows, err := x.GetRows(sheets[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	findAny := headerIndex(rows[0])
	cCrop := findAny("crop", "commodity", "crop_name")
	cPrice := findAny("price", "price_per_quintal", "modal_price", "predicted_price_per_quintal")
	if cCrop == -1 || cPrice == -1 {
		return fmt.Errorf("missing crop/price columns, found headers %v", rows[0])
	}
	for _, row := range rows[1:] {
		crop := cell(row, cCrop)
		p, err := strconv.ParseFloat(strings.ReplaceAll(cell(row, cPrice), ",", ""), 64)
		if crop == "" || err != nil || !finite(p) || p <= 0 {
			continue
		}
		r.prices[crop] = p
	}
	return nil
}

// ParseGPS reads "lat, lon". Whitespace around either number is ignored.
func ParseGPS(s string) (lat, lon float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("gps %q: want \"lat, lon\"", s)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("gps latitude: %w", err)
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("gps longitude: %w", err)
	}
	if !finite(lat) || !finite(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("gps %q out of range", s)
	}
	return lat, lon, nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
