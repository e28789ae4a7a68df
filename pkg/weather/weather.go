package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"agentrix/entities"
)

// Forecaster returns current conditions for a coordinate.
type Forecaster interface {
	Forecast(ctx context.Context, lat, lon float64) (*entities.WeatherForecast, error)
}

// New picks the OpenWeatherMap client when an API key is configured and the
// simulated forecaster otherwise.
func New(endpoint, apiKey string, httpc *http.Client) Forecaster {
	if apiKey == "" {
		return NewSimulated()
	}
	return NewOpenWeather(endpoint, apiKey, httpc)
}

type OpenWeather struct {
	endpoint string
	apiKey   string
	httpc    *http.Client
}

func NewOpenWeather(endpoint, apiKey string, httpc *http.Client) *OpenWeather {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	return &OpenWeather{endpoint: strings.TrimRight(endpoint, "/"), apiKey: apiKey, httpc: httpc}
}

type owmResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main *struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed float64 `json:"speed"` // m/s with units=metric
	} `json:"wind"`
}

func (o *OpenWeather) Forecast(ctx context.Context, lat, lon float64) (*entities.WeatherForecast, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("appid", o.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.endpoint+"/data/2.5/weather?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := o.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("weather api: status %d", resp.StatusCode)
	}

	var body owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode weather: %w", err)
	}
	if len(body.Weather) == 0 || body.Main == nil || body.Wind == nil {
		return nil, fmt.Errorf("weather api: incomplete payload")
	}
	return &entities.WeatherForecast{
		Description:  titleCase(body.Weather[0].Description),
		TemperatureC: body.Main.Temp,
		HumidityPct:  body.Main.Humidity,
		WindKmh:      round2(body.Wind.Speed * 3.6),
	}, nil
}

// Simulated produces plausible tropical conditions, stable for a given
// coordinate and day.
type Simulated struct {
	now func() time.Time
}

func NewSimulated() *Simulated { return &Simulated{now: time.Now} }

var simulatedSkies = []string{
	"clear sky", "few clouds", "scattered clouds", "broken clouds",
	"overcast clouds", "light rain", "moderate rain", "haze",
}

func (s *Simulated) Forecast(_ context.Context, lat, lon float64) (*entities.WeatherForecast, error) {
	h := fnv.New64a()
	fmt.Fprintf(h, "%.2f,%.2f,%s", lat, lon, s.now().UTC().Format("2006-01-02"))
	seed := h.Sum64()
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	return &entities.WeatherForecast{
		Description:  titleCase(simulatedSkies[rng.IntN(len(simulatedSkies))]),
		TemperatureC: round2(22 + rng.Float64()*12),
		HumidityPct:  float64(55 + rng.IntN(41)),
		WindKmh:      round2(rng.Float64() * 20),
	}, nil
}

// a Caser carries state, so one is made per call
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
