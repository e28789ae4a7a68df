package disease

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"agentrix/entities"
)

// Detector classifies an uploaded leaf photo.
type Detector interface {
	Detect(ctx context.Context, photo *entities.LeafPhoto) (*entities.DiseasePrediction, error)
}

// New uses the remote model service when serviceURL is set, the colour heuristic otherwise.
func New(serviceURL string, httpc *http.Client) Detector {
	if serviceURL == "" {
		return Local{}
	}
	return NewRemote(serviceURL, httpc)
}

type Remote struct {
	url   string
	httpc *http.Client
}

func NewRemote(serviceURL string, httpc *http.Client) *Remote {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Remote{url: strings.TrimRight(serviceURL, "/") + "/predict", httpc: httpc}
}

func (r *Remote) Detect(ctx context.Context, photo *entities.LeafPhoto) (*entities.DiseasePrediction, error) {
	if photo == nil || len(photo.Data) == 0 {
		return nil, errors.New("no leaf photo")
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	name := photo.Filename
	if name == "" {
		name = "leaf_image.jpg"
	}
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(photo.Data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := r.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("disease service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("disease service: status %d", resp.StatusCode)
	}
	var out entities.DiseasePrediction
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode disease prediction: %w", err)
	}
	if out.Disease == "" {
		return nil, errors.New("disease service: empty prediction")
	}
	return &out, nil
}

const (
	LabelBackground = "Background Without Leaves"
	LabelHealthy    = "Healthy"
	LabelBrownSpot  = "Brown Spot"
	LabelChlorosis  = "Leaf Chlorosis"
)

// Local estimates leaf health from pixel colours.
type Local struct{}

// samples per axis at most
const sampleGrid = 200

func (Local) Detect(_ context.Context, photo *entities.LeafPhoto) (*entities.DiseasePrediction, error) {
	if photo == nil || len(photo.Data) == 0 {
		return nil, errors.New("no leaf photo")
	}
	img, _, err := image.Decode(bytes.NewReader(photo.Data))
	if err != nil {
		return nil, fmt.Errorf("decode leaf photo: %w", err)
	}
	return classify(img), nil
}

type tally struct{ green, yellow, brown, other int }

func classify(img image.Image) *entities.DiseasePrediction {
	b := img.Bounds()
	stepX := max(1, b.Dx()/sampleGrid)
	stepY := max(1, b.Dy()/sampleGrid)

	var t tally
	for y := b.Min.Y; y < b.Max.Y; y += stepY {
		for x := b.Min.X; x < b.Max.X; x += stepX {
			r, g, bl, _ := img.At(x, y).RGBA()
			switch pixelClass(int(r>>8), int(g>>8), int(bl>>8)) {
			case 'g':
				t.green++
			case 'y':
				t.yellow++
			case 'b':
				t.brown++
			default:
				t.other++
			}
		}
	}

	total := t.green + t.yellow + t.brown + t.other
	leaf := t.green + t.yellow + t.brown
	if total == 0 || float64(leaf)/float64(total) < 0.15 {
		bg := 1.0
		if total > 0 {
			bg = 1 - float64(leaf)/float64(total)
		}
		return &entities.DiseasePrediction{Disease: LabelBackground, Confidence: conf(bg)}
	}

	damaged := float64(t.yellow+t.brown) / float64(leaf)
	if damaged < 0.1 {
		return &entities.DiseasePrediction{Disease: LabelHealthy, Confidence: conf(1 - damaged)}
	}
	label := LabelChlorosis
	if t.brown >= t.yellow {
		label = LabelBrownSpot
	}
	return &entities.DiseasePrediction{Disease: label, Confidence: conf(damaged)}
}

func conf(frac float64) float64 { return min(0.5+frac/2, 0.99) }

// pixelClass buckets an 8-bit RGB colour: g(reen), y(ellow), b(rown) or o(ther).
func pixelClass(r, g, b int) byte {
	switch {
	case r > 150 && g > 150 && b < 120 && abs(r-g) < 60:
		return 'y'
	case g > r+10 && g > b+10:
		return 'g'
	case r > g && g > b && r < 200 && r-b > 40:
		return 'b'
	}
	return 'o'
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
