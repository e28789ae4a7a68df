package repositoryImp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentrix/database"
	"agentrix/entities"
	"agentrix/pkg/advisory/repository"
)

func newRepo(t *testing.T) repository.AdvisoryRepository {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return New(db)
}

func TestAdvisoryRepo_CreateSaveFind(t *testing.T) {
	r := newRepo(t)
	a := &entities.Advisory{GPS: "10, 76", SoilType: "clay", Lang: "en", Status: entities.AdvisoryPending}
	require.NoError(t, r.Create(a))
	require.NotZero(t, a.AdvisoryID)

	a.Status = entities.AdvisoryComplete
	a.RecommendedCrop = "Rice"
	a.Weather = &entities.WeatherForecast{Description: "Haze", TemperatureC: 30}
	a.Disease = &entities.DiseasePrediction{Disease: "Brown Spot", Confidence: 0.7}
	require.NoError(t, r.Save(a))

	got, err := r.FindByID(a.AdvisoryID)
	require.NoError(t, err)
	assert.Equal(t, entities.AdvisoryComplete, got.Status)
	assert.Equal(t, "Haze", got.Weather.Description)
	assert.Equal(t, "Brown Spot", got.Disease.Disease)
	assert.Nil(t, got.Resource)

	_, err = r.FindByID(9999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAdvisoryRepo_ListsAndCounts(t *testing.T) {
	r := newRepo(t)
	for _, a := range []*entities.Advisory{
		{Status: entities.AdvisoryComplete, RecommendedCrop: "Rice"},
		{Status: entities.AdvisoryComplete, RecommendedCrop: "Rice"},
		{Status: entities.AdvisoryComplete, RecommendedCrop: "Millet"},
		{Status: entities.AdvisoryPending},
	} {
		require.NoError(t, r.Create(a))
	}

	recent, err := r.ListRecent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Greater(t, recent[0].AdvisoryID, recent[1].AdvisoryID)

	done, err := r.ListByStatus(entities.AdvisoryComplete)
	require.NoError(t, err)
	assert.Len(t, done, 3)

	counts, err := r.CountByCrop(entities.AdvisoryComplete)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"Rice": 2, "Millet": 1}, counts)
}
