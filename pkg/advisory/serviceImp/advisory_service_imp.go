package serviceImp

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"agentrix/entities"
	"agentrix/pkg/advisory/repository"
	"agentrix/pkg/advisory/service"
	"agentrix/pkg/agronomy"
	"agentrix/pkg/disease"
	"agentrix/pkg/weather"
)

// PriceSource is satisfied by the market board.
type PriceSource interface {
	Price(crop string) float64
}

type Svc struct {
	repo    repository.AdvisoryRepository
	rules   agronomy.Rules
	weather weather.Forecaster
	disease disease.Detector
	prices  PriceSource
	log     *zap.Logger
}

var _ service.AdvisoryService = (*Svc)(nil)

func New(repo repository.AdvisoryRepository, rules agronomy.Rules, wx weather.Forecaster, dd disease.Detector, prices PriceSource, log *zap.Logger) *Svc {
	if log == nil {
		log = zap.NewNop()
	}
	return &Svc{repo: repo, rules: rules, weather: wx, disease: dd, prices: prices, log: log}
}

// GetAdvice runs the advice pipeline. Agent and store failures degrade the
// answer but never fail it.
func (s *Svc) GetAdvice(ctx context.Context, in service.Input) (*service.Result, error) {
	log := s.log.With(zap.String("gps", in.GPS), zap.String("soil_type", in.SoilType))

	rec := &entities.Advisory{
		GPS:      in.GPS,
		SoilType: in.SoilType,
		Lang:     in.Lang,
		HasPhoto: in.Photo != nil,
		Status:   entities.AdvisoryPending,
	}
	if err := s.repo.Create(rec); err != nil {
		log.Warn("store pending advisory", zap.Error(err))
		rec = nil
	}

	res := entities.AdvisoryResults{HasLeafPhoto: in.Photo != nil}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res.Weather = s.forecast(gctx, log, in.GPS)
		return nil
	})
	g.Go(func() error {
		res.RecommendedCrop = s.rules.RecommendCrop(in.SoilType)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if in.Photo != nil {
		pred, err := s.disease.Detect(ctx, in.Photo)
		if err != nil {
			log.Warn("disease detection failed", zap.Error(err))
		} else {
			res.Disease = pred
		}
	}

	res.MarketPrice = s.prices.Price(res.RecommendedCrop)
	guide := s.rules.Guidelines(res.RecommendedCrop)
	res.Resource = &guide

	advice := Compose(res)
	out := &service.Result{Advice: advice, Data: res}

	if rec != nil {
		rec.Status = entities.AdvisoryComplete
		rec.Weather = res.Weather
		rec.RecommendedCrop = res.RecommendedCrop
		rec.MarketPrice = res.MarketPrice
		rec.Resource = res.Resource
		rec.Disease = res.Disease
		rec.AdviceEn = advice.En
		rec.AdviceMl = advice.Ml
		if err := s.repo.Save(rec); err != nil {
			log.Warn("store complete advisory", zap.Uint("advisory_id", rec.AdvisoryID), zap.Error(err))
		}
		out.RequestID = rec.AdvisoryID
	}

	log.Info("advice generated",
		zap.String("crop", res.RecommendedCrop),
		zap.Bool("weather", res.Weather != nil),
		zap.Bool("disease", res.Disease != nil))
	return out, nil
}

func (s *Svc) forecast(ctx context.Context, log *zap.Logger, gps string) *entities.WeatherForecast {
	lat, lon, err := agronomy.ParseGPS(gps)
	if err != nil {
		log.Debug("skipping weather", zap.Error(err))
		return nil
	}
	fc, err := s.weather.Forecast(ctx, lat, lon)
	if err != nil {
		log.Warn("weather agent failed", zap.Error(err))
		return nil
	}
	return fc
}

func (s *Svc) Get(id uint) (*entities.Advisory, error) { return s.repo.FindByID(id) }

func (s *Svc) Recent(limit int) ([]entities.Advisory, error) { return s.repo.ListRecent(limit) }

const topDiseases = 10

func (s *Svc) Stats() (*service.Stats, error) {
	list, err := s.repo.ListByStatus(entities.AdvisoryComplete)
	if err != nil {
		return nil, fmt.Errorf("list advisories: %w", err)
	}
	crops, err := s.repo.CountByCrop(entities.AdvisoryComplete)
	if err != nil {
		return nil, fmt.Errorf("count crops: %w", err)
	}

	st := &service.Stats{
		TotalAdvisories: len(list),
		CropCounts:      crops,
		TopDiseases:     []service.DiseaseCount{},
		Locations:       []service.Location{},
	}
	diseases := map[string]int{}
	for _, a := range list {
		if a.Disease != nil && a.Disease.Disease != "" {
			st.DiseaseDetections++
			diseases[a.Disease.Disease]++
		}
		if lat, lon, err := agronomy.ParseGPS(a.GPS); err == nil {
			st.RequestsWithGPS++
			st.Locations = append(st.Locations, service.Location{Lat: lat, Lon: lon})
		}
	}
	for d, n := range diseases {
		st.TopDiseases = append(st.TopDiseases, service.DiseaseCount{Disease: d, Count: n})
	}
	sort.Slice(st.TopDiseases, func(i, j int) bool {
		a, b := st.TopDiseases[i], st.TopDiseases[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Disease < b.Disease
	})
	if len(st.TopDiseases) > topDiseases {
		st.TopDiseases = st.TopDiseases[:topDiseases]
	}
	return st, nil
}
