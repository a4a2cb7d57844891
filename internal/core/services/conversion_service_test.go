package services_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/SscSPs/zakat_nisab_service/internal/apperrors"
	"github.com/SscSPs/zakat_nisab_service/internal/core/services"
	"github.com/SscSPs/zakat_nisab_service/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ExchangeRateSource ---
type MockExchangeRateSource struct {
	mock.Mock
}

func (m *MockExchangeRateSource) FetchRates(ctx context.Context, base models.CurrencyCode) (*models.RateTable, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RateTable), args.Error(1)
}

// --- Test Suite ---
type ConversionServiceTestSuite struct {
	suite.Suite
	mockSource *MockExchangeRateSource
	cache      *services.RateCache
	service    *services.CurrencyConversionService
}

func (suite *ConversionServiceTestSuite) SetupTest() {
	suite.mockSource = new(MockExchangeRateSource)
	suite.cache = services.NewRateCache()
	suite.service = services.NewCurrencyConversionService(suite.mockSource, suite.cache, time.Hour, newTestLogger())
}

func (suite *ConversionServiceTestSuite) TestConvert_Identity() {
	got, tier, err := suite.service.Convert(context.Background(), 123.45, models.USD, models.USD)

	suite.Require().NoError(err)
	suite.Equal(123.45, got)
	suite.Equal(models.ConversionTierIdentity, tier)
	suite.mockSource.AssertNotCalled(suite.T(), "FetchRates")
}

func (suite *ConversionServiceTestSuite) TestConvert_InvalidAmount() {
	_, _, err := suite.service.Convert(context.Background(), math.NaN(), models.USD, models.EUR)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, _, err = suite.service.Convert(context.Background(), math.Inf(1), models.USD, models.EUR)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ConversionServiceTestSuite) TestConvert_LiveFetchCachesWholeTable() {
	ctx := context.Background()
	table := &models.RateTable{
		Base: models.USD,
		Rates: map[models.CurrencyCode]float64{
			models.EUR: 0.9,
			models.INR: 83.0,
		},
		Source: "test-feed",
	}
	suite.mockSource.On("FetchRates", mock.Anything, models.USD).Return(table, nil).Once()

	got, tier, err := suite.service.Convert(ctx, 100, models.USD, models.EUR)
	suite.Require().NoError(err)
	suite.InDelta(90.0, got, 1e-9)
	suite.Equal(models.ConversionTierLive, tier)

	// The INR rate from the same table fetch must now be served from cache.
	got, tier, err = suite.service.Convert(ctx, 10, models.USD, models.INR)
	suite.Require().NoError(err)
	suite.InDelta(830.0, got, 1e-9)
	suite.Equal(models.ConversionTierCached, tier)

	suite.mockSource.AssertNumberOfCalls(suite.T(), "FetchRates", 1)
}

func (suite *ConversionServiceTestSuite) TestConvert_ReversePairInversion() {
	ctx := context.Background()
	table := &models.RateTable{
		Base:   models.USD,
		Rates:  map[models.CurrencyCode]float64{models.EUR: 0.8},
		Source: "test-feed",
	}
	suite.mockSource.On("FetchRates", mock.Anything, models.USD).Return(table, nil).Once()

	_, _, err := suite.service.Convert(ctx, 1, models.USD, models.EUR)
	suite.Require().NoError(err)

	// EUR→USD has no direct cache entry; the USD→EUR rate must be inverted.
	got, tier, err := suite.service.Convert(ctx, 80, models.EUR, models.USD)
	suite.Require().NoError(err)
	suite.InDelta(100.0, got, 1e-9)
	suite.Equal(models.ConversionTierCached, tier)
	suite.mockSource.AssertNumberOfCalls(suite.T(), "FetchRates", 1)
}

func (suite *ConversionServiceTestSuite) TestConvert_RoundTripThroughCache() {
	ctx := context.Background()
	table := &models.RateTable{
		Base:   models.USD,
		Rates:  map[models.CurrencyCode]float64{models.EUR: 0.92},
		Source: "test-feed",
	}
	suite.mockSource.On("FetchRates", mock.Anything, models.USD).Return(table, nil).Once()

	forward, _, err := suite.service.Convert(ctx, 250, models.USD, models.EUR)
	suite.Require().NoError(err)
	back, _, err := suite.service.Convert(ctx, forward, models.EUR, models.USD)
	suite.Require().NoError(err)

	suite.InDelta(250.0, back, 250.0*1e-9)
}

func (suite *ConversionServiceTestSuite) TestConvert_DiscardsInvalidFeedRates() {
	ctx := context.Background()
	table := &models.RateTable{
		Base: models.USD,
		Rates: map[models.CurrencyCode]float64{
			models.EUR: -0.9, // broken feed value
		},
		Source: "test-feed",
	}
	suite.mockSource.On("FetchRates", mock.Anything, models.USD).Return(table, nil)

	// The only live rate is unusable, so the static table answers.
	got, tier, err := suite.service.Convert(ctx, 100, models.USD, models.EUR)
	suite.Require().NoError(err)
	suite.InDelta(92.0, got, 1e-9)
	suite.Equal(models.ConversionTierStatic, tier)
}

func (suite *ConversionServiceTestSuite) TestConvert_StaticFallbackOnFeedOutage() {
	ctx := context.Background()
	suite.mockSource.On("FetchRates", mock.Anything, models.USD).Return(nil, apperrors.ErrFetchFailed)

	got, tier, err := suite.service.Convert(ctx, 100, models.USD, models.INR)
	suite.Require().NoError(err)
	suite.InDelta(8350.0, got, 1e-9)
	suite.Equal(models.ConversionTierStatic, tier)
}

func (suite *ConversionServiceTestSuite) TestConvert_UnconvertedLastResort() {
	ctx := context.Background()
	unknown := models.CurrencyCode("XXX")
	suite.mockSource.On("FetchRates", mock.Anything, models.USD).Return(nil, apperrors.ErrFetchFailed)

	got, tier, err := suite.service.Convert(ctx, 42.0, models.USD, unknown)
	suite.Require().NoError(err)
	suite.Equal(42.0, got)
	suite.Equal(models.ConversionTierUnconverted, tier)
	suite.True(tier.Degraded())
}

func (suite *ConversionServiceTestSuite) TestClearCache() {
	ctx := context.Background()
	table := &models.RateTable{
		Base:   models.USD,
		Rates:  map[models.CurrencyCode]float64{models.EUR: 0.9},
		Source: "test-feed",
	}
	suite.mockSource.On("FetchRates", mock.Anything, models.USD).Return(table, nil)

	_, _, err := suite.service.Convert(ctx, 1, models.USD, models.EUR)
	suite.Require().NoError(err)

	suite.service.ClearCache()

	_, tier, err := suite.service.Convert(ctx, 1, models.USD, models.EUR)
	suite.Require().NoError(err)
	suite.Equal(models.ConversionTierLive, tier)
	suite.mockSource.AssertNumberOfCalls(suite.T(), "FetchRates", 2)
}

func TestConversionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ConversionServiceTestSuite))
}
