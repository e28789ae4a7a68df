package disease

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentrix/entities"
)

// leafPNG paints the left `leafCols` of a 100x100 image with the leaf colour,
// then overpaints `spotCols` of those with the spot colour.
func leafPNG(t *testing.T, leaf, spot color.Color, leafCols, spotCols int) *entities.LeafPhoto {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			c := color.Color(color.RGBA{240, 240, 240, 255})
			if x < spotCols {
				c = spot
			} else if x < leafCols {
				c = leaf
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &entities.LeafPhoto{Filename: "leaf.png", ContentType: "image/png", Data: buf.Bytes()}
}

var (
	green  = color.RGBA{40, 160, 40, 255}
	yellow = color.RGBA{210, 200, 60, 255}
	brown  = color.RGBA{140, 90, 40, 255}
)

func TestLocal_Classify(t *testing.T) {
	cases := []struct {
		name  string
		photo func(t *testing.T) *entities.LeafPhoto
		want  string
	}{
		{"healthy", func(t *testing.T) *entities.LeafPhoto { return leafPNG(t, green, green, 100, 0) }, LabelHealthy},
		{"brown spots", func(t *testing.T) *entities.LeafPhoto { return leafPNG(t, green, brown, 100, 40) }, LabelBrownSpot},
		{"chlorosis", func(t *testing.T) *entities.LeafPhoto { return leafPNG(t, green, yellow, 100, 40) }, LabelChlorosis},
		{"background", func(t *testing.T) *entities.LeafPhoto { return leafPNG(t, green, green, 5, 0) }, LabelBackground},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Local{}.Detect(context.Background(), tc.photo(t))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Disease)
			assert.GreaterOrEqual(t, got.Confidence, 0.5)
			assert.LessOrEqual(t, got.Confidence, 0.99)
		})
	}
}

func TestLocal_RejectsGarbage(t *testing.T) {
	_, err := Local{}.Detect(context.Background(), &entities.LeafPhoto{Data: []byte("not an image")})
	assert.Error(t, err)
	_, err = Local{}.Detect(context.Background(), nil)
	assert.Error(t, err)
}

func TestRemote_Detect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "leaf.jpg", hdr.Filename)
		assert.Equal(t, []byte("jpeg"), b)
		_ = json.NewEncoder(w).Encode(entities.DiseasePrediction{Disease: "Tomato - Late blight", Confidence: 0.87})
	}))
	defer srv.Close()

	d := New(srv.URL+"/", nil)
	got, err := d.Detect(context.Background(), &entities.LeafPhoto{Filename: "leaf.jpg", Data: []byte("jpeg")})
	require.NoError(t, err)
	assert.Equal(t, &entities.DiseasePrediction{Disease: "Tomato - Late blight", Confidence: 0.87}, got)
}

func TestRemote_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Model is not loaded."}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewRemote(srv.URL, nil).Detect(context.Background(), &entities.LeafPhoto{Data: []byte("x")})
	assert.ErrorContains(t, err, "status 500")
}

func TestNew_DefaultsToLocal(t *testing.T) {
	assert.IsType(t, Local{}, New("", nil))
}
