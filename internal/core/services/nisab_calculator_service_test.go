package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/zakat_nisab_service/internal/apperrors"
	"github.com/SscSPs/zakat_nisab_service/internal/core/services"
	"github.com/SscSPs/zakat_nisab_service/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock PriceNormalizerSvc ---
type MockNormalizerService struct {
	mock.Mock
}

func (m *MockNormalizerService) Normalize(ctx context.Context, quote models.MetalPriceQuote, target models.CurrencyCode) (models.NormalizedPricePair, error) {
	args := m.Called(ctx, quote, target)
	return args.Get(0).(models.NormalizedPricePair), args.Error(1)
}

// --- Test Suite ---
type NisabCalculatorServiceTestSuite struct {
	suite.Suite
	mockNormalizer *MockNormalizerService
	service        *services.NisabCalculatorService
}

func (suite *NisabCalculatorServiceTestSuite) SetupTest() {
	suite.mockNormalizer = new(MockNormalizerService)
	validator := services.NewPlausibilityValidatorService(newTestLogger())
	suite.service = services.NewNisabCalculatorService(suite.mockNormalizer, validator, newTestLogger())
}

func freshQuote(currency models.CurrencyCode) models.MetalPriceQuote {
	return models.MetalPriceQuote{Currency: currency}
}

func cachedQuote(currency models.CurrencyCode) any {
	return mock.MatchedBy(func(q models.MetalPriceQuote) bool {
		return q.Currency == currency && q.IsCache
	})
}

func (suite *NisabCalculatorServiceTestSuite) TestComputeFromPair_SilverUsuallyWins() {
	pair := models.NormalizedPricePair{GoldPriceInTarget: 85, SilverPriceInTarget: 1.2}

	result := suite.service.ComputeFromPair(pair, models.USD)

	suite.InDelta(7225.0, result.GoldThreshold, 1e-9)  // 85 * 85g
	suite.InDelta(714.0, result.SilverThreshold, 1e-9) // 1.2 * 595g
	suite.Equal(result.SilverThreshold, result.NisabValue)
	suite.Equal(models.MetalSilver, result.MetalUsed)
	suite.Equal(string(models.TierPrimary), result.Source)
	suite.NotEmpty(result.ResultID)
	suite.False(result.ComputedAt.IsZero())
}

func (suite *NisabCalculatorServiceTestSuite) TestComputeFromPair_GoldWinsWhenCheaper() {
	// Contrived silver price to exercise the min-of-both rule.
	pair := models.NormalizedPricePair{GoldPriceInTarget: 1, SilverPriceInTarget: 100}

	result := suite.service.ComputeFromPair(pair, models.USD)

	suite.Equal(result.GoldThreshold, result.NisabValue)
	suite.Equal(models.MetalGold, result.MetalUsed)
}

func (suite *NisabCalculatorServiceTestSuite) TestComputeFromPair_FallbackPairMarksSource() {
	pair := models.NormalizedPricePair{GoldPriceInTarget: 85, SilverPriceInTarget: 1.2, UsedFallback: true}

	result := suite.service.ComputeFromPair(pair, models.USD)

	suite.Equal(string(models.TierPriceFallback), result.Source)
}

func (suite *NisabCalculatorServiceTestSuite) TestCompute_PrimarySucceeds() {
	quote := freshQuote(models.USD)
	suite.mockNormalizer.On("Normalize", mock.Anything, quote, models.USD).
		Return(models.NormalizedPricePair{GoldPriceInTarget: 85, SilverPriceInTarget: 1.2}, nil).Once()

	result, err := suite.service.Compute(context.Background(), quote, models.USD)

	suite.Require().NoError(err)
	suite.Equal(string(models.TierPrimary), result.Source)
	suite.InDelta(714.0, result.NisabValue, 1e-9)
	suite.mockNormalizer.AssertExpectations(suite.T())
}

func (suite *NisabCalculatorServiceTestSuite) TestCompute_PriceFallbackRecovers() {
	quote := freshQuote(models.USD)
	// Primary pair yields a gold threshold of 17000, far above the USD band.
	suite.mockNormalizer.On("Normalize", mock.Anything, quote, models.USD).
		Return(models.NormalizedPricePair{GoldPriceInTarget: 200, SilverPriceInTarget: 5}, nil).Once()
	// The retry is the same quote flagged as cache-derived; it yields a
	// plausible pair.
	suite.mockNormalizer.On("Normalize", mock.Anything, cachedQuote(models.USD), models.USD).
		Return(models.NormalizedPricePair{GoldPriceInTarget: 85, SilverPriceInTarget: 1.2, UsedFallback: true}, nil).Once()

	result, err := suite.service.Compute(context.Background(), quote, models.USD)

	suite.Require().NoError(err)
	suite.Equal(string(models.TierPriceFallback), result.Source)
	suite.InDelta(714.0, result.NisabValue, 1e-9)
	suite.mockNormalizer.AssertExpectations(suite.T())
}

func (suite *NisabCalculatorServiceTestSuite) TestCompute_EscalatesToThresholdFallback() {
	quote := freshQuote(models.INR)
	// Both attempts produce thresholds outside the INR band: the
	// cross-checked substitution itself lands below the tabulated range.
	badPair := models.NormalizedPricePair{GoldPriceInTarget: 4150, SilverPriceInTarget: 41.5, UsedFallback: true}
	suite.mockNormalizer.On("Normalize", mock.Anything, quote, models.INR).
		Return(badPair, nil).Once()

	result, err := suite.service.Compute(context.Background(), quote, models.INR)

	suite.Require().NoError(err)
	suite.Equal(string(models.TierThresholdFallback), result.Source)
	suite.InDelta(722500.0, result.GoldThreshold, 1e-9)
	suite.InDelta(53550.0, result.SilverThreshold, 1e-9)
	suite.InDelta(53550.0, result.NisabValue, 1e-9)
	suite.Equal(models.MetalSilver, result.MetalUsed)
	// The pair already used a fallback, so no cache-flagged retry happens.
	suite.mockNormalizer.AssertNumberOfCalls(suite.T(), "Normalize", 1)
}

func (suite *NisabCalculatorServiceTestSuite) TestCompute_RetriesBeforeThresholdFallback() {
	quote := freshQuote(models.INR)
	suite.mockNormalizer.On("Normalize", mock.Anything, quote, models.INR).
		Return(models.NormalizedPricePair{GoldPriceInTarget: 93.98, SilverPriceInTarget: 1.05}, nil).Once()
	suite.mockNormalizer.On("Normalize", mock.Anything, cachedQuote(models.INR), models.INR).
		Return(models.NormalizedPricePair{GoldPriceInTarget: 4150, SilverPriceInTarget: 41.5, UsedFallback: true}, nil).Once()

	result, err := suite.service.Compute(context.Background(), quote, models.INR)

	suite.Require().NoError(err)
	suite.Equal(string(models.TierThresholdFallback), result.Source)
	suite.mockNormalizer.AssertNumberOfCalls(suite.T(), "Normalize", 2)
}

func (suite *NisabCalculatorServiceTestSuite) TestCompute_NormalizeErrorFallsBackForTabulatedCurrency() {
	quote := freshQuote(models.PKR)
	suite.mockNormalizer.On("Normalize", mock.Anything, quote, models.PKR).
		Return(models.NormalizedPricePair{}, &apperrors.InvalidPriceError{Field: "gold", Value: 0}).Once()

	result, err := suite.service.Compute(context.Background(), quote, models.PKR)

	suite.Require().NoError(err)
	suite.Equal(string(models.TierThresholdFallback), result.Source)
	suite.Greater(result.NisabValue, 0.0)
}

func (suite *NisabCalculatorServiceTestSuite) TestCompute_NormalizeErrorNoFallbackEntry() {
	jpy := models.CurrencyCode("JPY")
	quote := freshQuote(jpy)
	suite.mockNormalizer.On("Normalize", mock.Anything, quote, jpy).
		Return(models.NormalizedPricePair{}, &apperrors.InvalidPriceError{Field: "gold", Value: 0}).Once()

	result, err := suite.service.Compute(context.Background(), quote, jpy)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.True(apperrors.IsInvalidPrice(err))
}

func TestNisabCalculatorServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NisabCalculatorServiceTestSuite))
}
