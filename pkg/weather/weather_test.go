package weather

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenWeather_Forecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "17.385", r.URL.Query().Get("lat"))
		assert.Equal(t, "78.4867", r.URL.Query().Get("lon"))
		assert.Equal(t, "secret", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		_, _ = io.WriteString(w, `{"weather":[{"description":"light rain"}],"main":{"temp":27.4,"humidity":81},"wind":{"speed":3.1}}`)
	}))
	defer srv.Close()

	fc, err := NewOpenWeather(srv.URL+"/", "secret", nil).Forecast(context.Background(), 17.385, 78.4867)
	require.NoError(t, err)
	assert.Equal(t, "Light Rain", fc.Description)
	assert.Equal(t, 27.4, fc.TemperatureC)
	assert.Equal(t, 81.0, fc.HumidityPct)
	assert.Equal(t, 11.16, fc.WindKmh)
}

func TestOpenWeather_Errors(t *testing.T) {
	cases := map[string]func(w http.ResponseWriter){
		"status":     func(w http.ResponseWriter) { w.WriteHeader(http.StatusUnauthorized) },
		"bad json":   func(w http.ResponseWriter) { _, _ = io.WriteString(w, "nope") },
		"incomplete": func(w http.ResponseWriter) { _, _ = io.WriteString(w, `{"weather":[]}`) },
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { h(w) }))
			defer srv.Close()
			_, err := NewOpenWeather(srv.URL, "k", nil).Forecast(context.Background(), 1, 2)
			assert.Error(t, err)
		})
	}
}

func TestSimulated_Deterministic(t *testing.T) {
	day := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	s := &Simulated{now: func() time.Time { return day }}

	a, err := s.Forecast(context.Background(), 10.85, 76.27)
	require.NoError(t, err)
	b, _ := s.Forecast(context.Background(), 10.85, 76.27)
	assert.Equal(t, a, b)

	assert.NotEmpty(t, a.Description)
	assert.GreaterOrEqual(t, a.TemperatureC, 22.0)
	assert.LessOrEqual(t, a.TemperatureC, 34.0)
	assert.GreaterOrEqual(t, a.HumidityPct, 55.0)
	assert.LessOrEqual(t, a.HumidityPct, 95.0)
	assert.GreaterOrEqual(t, a.WindKmh, 0.0)
	assert.LessOrEqual(t, a.WindKmh, 20.0)
}

func TestNew_PicksImplementation(t *testing.T) {
	assert.IsType(t, &Simulated{}, New("", "", nil))
	assert.IsType(t, &OpenWeather{}, New("http://x", "key", nil))
}
