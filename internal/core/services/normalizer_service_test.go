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

// --- Mock CurrencyConversionSvc ---
type MockConversionService struct {
	mock.Mock
}

func (m *MockConversionService) Convert(ctx context.Context, amount float64, from, to models.CurrencyCode) (float64, models.ConversionTier, error) {
	args := m.Called(ctx, amount, from, to)
	return args.Get(0).(float64), args.Get(1).(models.ConversionTier), args.Error(2)
}

func (m *MockConversionService) ClearCache() {
	m.Called()
}

// --- Test Suite ---
type NormalizerServiceTestSuite struct {
	suite.Suite
	mockConversion *MockConversionService
	service        *services.PriceNormalizerService
}

func (suite *NormalizerServiceTestSuite) SetupTest() {
	suite.mockConversion = new(MockConversionService)
	validator := services.NewPlausibilityValidatorService(newTestLogger())
	suite.service = services.NewPriceNormalizerService(suite.mockConversion, validator, newTestLogger())
}

func (suite *NormalizerServiceTestSuite) TestNormalize_USDTargetUSDQuote_NoConversion() {
	quote := models.MetalPriceQuote{Gold: 85, Silver: 0.95, Currency: models.USD}

	pair, err := suite.service.Normalize(context.Background(), quote, models.USD)

	suite.Require().NoError(err)
	suite.Equal(85.0, pair.GoldPriceInTarget)
	suite.Equal(0.95, pair.SilverPriceInTarget)
	suite.True(pair.IsDirectGold)
	suite.True(pair.IsDirectSilver)
	suite.False(pair.UsedFallback)
	suite.mockConversion.AssertNotCalled(suite.T(), "Convert")
}

func (suite *NormalizerServiceTestSuite) TestNormalize_USDTargetWithMirror_NoConversion() {
	quote := models.MetalPriceQuote{
		Gold: 7800, Silver: 88, Currency: models.EUR,
		GoldUSD: 85, SilverUSD: 0.95,
	}

	pair, err := suite.service.Normalize(context.Background(), quote, models.USD)

	suite.Require().NoError(err)
	suite.Equal(85.0, pair.GoldPriceInTarget)
	suite.Equal(0.95, pair.SilverPriceInTarget)
	suite.True(pair.IsDirectGold)
	suite.mockConversion.AssertNotCalled(suite.T(), "Convert")
}

func (suite *NormalizerServiceTestSuite) TestNormalize_MirrorSingleHop() {
	quote := models.MetalPriceQuote{
		Gold: 7800, Silver: 88, Currency: models.EUR,
		GoldUSD: 85, SilverUSD: 0.95,
	}
	suite.mockConversion.On("Convert", mock.Anything, 85.0, models.USD, models.GBP).
		Return(67.0, models.ConversionTierLive, nil).Once()
	suite.mockConversion.On("Convert", mock.Anything, 0.95, models.USD, models.GBP).
		Return(0.75, models.ConversionTierLive, nil).Once()

	pair, err := suite.service.Normalize(context.Background(), quote, models.GBP)

	suite.Require().NoError(err)
	suite.Equal(67.0, pair.GoldPriceInTarget)
	suite.Equal(0.75, pair.SilverPriceInTarget)
	suite.False(pair.IsDirectGold)
	suite.False(pair.UsedFallback)
	suite.mockConversion.AssertExpectations(suite.T())
}

func (suite *NormalizerServiceTestSuite) TestNormalize_SameCurrencyPassthrough() {
	quote := models.MetalPriceQuote{Gold: 78, Silver: 0.88, Currency: models.EUR}

	pair, err := suite.service.Normalize(context.Background(), quote, models.EUR)

	suite.Require().NoError(err)
	suite.Equal(78.0, pair.GoldPriceInTarget)
	suite.Equal(0.88, pair.SilverPriceInTarget)
	suite.True(pair.IsDirectGold)
	suite.mockConversion.AssertNotCalled(suite.T(), "Convert")
}

func (suite *NormalizerServiceTestSuite) TestNormalize_CrossCheckSubstitutesImplausibleQuote() {
	// A same-currency INR quote carrying what looks like USD-level numbers.
	quote := models.MetalPriceQuote{Gold: 93.98, Silver: 1.05, Currency: models.INR}
	suite.mockConversion.On("Convert", mock.Anything, 50.0, models.USD, models.INR).
		Return(4150.0, models.ConversionTierLive, nil).Once()
	suite.mockConversion.On("Convert", mock.Anything, 0.5, models.USD, models.INR).
		Return(41.5, models.ConversionTierLive, nil).Once()

	pair, err := suite.service.Normalize(context.Background(), quote, models.INR)

	suite.Require().NoError(err)
	suite.Equal(4150.0, pair.GoldPriceInTarget)
	suite.Equal(41.5, pair.SilverPriceInTarget)
	suite.True(pair.UsedFallback)
}

func (suite *NormalizerServiceTestSuite) TestNormalize_CrossCheckAcceptsPlausibleQuote() {
	quote := models.MetalPriceQuote{Gold: 7100, Silver: 85, Currency: models.INR}
	suite.mockConversion.On("Convert", mock.Anything, 50.0, models.USD, models.INR).
		Return(4150.0, models.ConversionTierLive, nil).Once()
	suite.mockConversion.On("Convert", mock.Anything, 0.5, models.USD, models.INR).
		Return(41.5, models.ConversionTierLive, nil).Once()

	pair, err := suite.service.Normalize(context.Background(), quote, models.INR)

	suite.Require().NoError(err)
	suite.Equal(7100.0, pair.GoldPriceInTarget)
	suite.Equal(85.0, pair.SilverPriceInTarget)
	suite.False(pair.UsedFallback)
}

func (suite *NormalizerServiceTestSuite) TestNormalize_CachedQuoteAlwaysCrossChecked() {
	// EUR is not on the error-prone list, but a cache-derived quote still
	// goes through the cross-check.
	quote := models.MetalPriceQuote{Gold: 0.078, Silver: 0.00088, Currency: models.EUR, IsCache: true}
	suite.mockConversion.On("Convert", mock.Anything, 50.0, models.USD, models.EUR).
		Return(46.0, models.ConversionTierLive, nil).Once()
	suite.mockConversion.On("Convert", mock.Anything, 0.5, models.USD, models.EUR).
		Return(0.46, models.ConversionTierLive, nil).Once()

	pair, err := suite.service.Normalize(context.Background(), quote, models.EUR)

	suite.Require().NoError(err)
	suite.Equal(46.0, pair.GoldPriceInTarget)
	suite.Equal(0.46, pair.SilverPriceInTarget)
	suite.True(pair.UsedFallback)
}

func (suite *NormalizerServiceTestSuite) TestNormalize_TwoHopsThroughUSD() {
	quote := models.MetalPriceQuote{Gold: 7800, Silver: 88, Currency: models.EUR}
	suite.mockConversion.On("Convert", mock.Anything, 7800.0, models.EUR, models.USD).
		Return(8500.0, models.ConversionTierLive, nil).Once()
	suite.mockConversion.On("Convert", mock.Anything, 88.0, models.EUR, models.USD).
		Return(95.0, models.ConversionTierLive, nil).Once()
	suite.mockConversion.On("Convert", mock.Anything, 8500.0, models.USD, models.INR).
		Return(710000.0, models.ConversionTierLive, nil).Once()
	suite.mockConversion.On("Convert", mock.Anything, 95.0, models.USD, models.INR).
		Return(7900.0, models.ConversionTierLive, nil).Once()

	pair, err := suite.service.Normalize(context.Background(), quote, models.INR)

	suite.Require().NoError(err)
	suite.Equal(710000.0, pair.GoldPriceInTarget)
	suite.Equal(7900.0, pair.SilverPriceInTarget)
	suite.mockConversion.AssertExpectations(suite.T())
}

func (suite *NormalizerServiceTestSuite) TestNormalize_UnconvertedHopFlagsFallback() {
	quote := models.MetalPriceQuote{
		Gold: 7800, Silver: 88, Currency: models.EUR,
		GoldUSD: 85, SilverUSD: 0.95,
	}
	suite.mockConversion.On("Convert", mock.Anything, 85.0, models.USD, models.GBP).
		Return(85.0, models.ConversionTierUnconverted, nil).Once()
	suite.mockConversion.On("Convert", mock.Anything, 0.95, models.USD, models.GBP).
		Return(0.75, models.ConversionTierLive, nil).Once()

	pair, err := suite.service.Normalize(context.Background(), quote, models.GBP)

	suite.Require().NoError(err)
	suite.True(pair.UsedFallback)
}

func (suite *NormalizerServiceTestSuite) TestNormalize_ZeroPriceSubstituted() {
	quote := models.MetalPriceQuote{Gold: 0, Silver: 0.95, Currency: models.USD}

	pair, err := suite.service.Normalize(context.Background(), quote, models.USD)

	suite.Require().NoError(err)
	suite.Equal(85.0, pair.GoldPriceInTarget) // hardcoded per-gram table
	suite.Equal(0.95, pair.SilverPriceInTarget)
	suite.False(pair.IsDirectGold)
	suite.True(pair.IsDirectSilver)
	suite.True(pair.UsedFallback)
	suite.Greater(pair.GoldPriceInTarget, 0.0)
}

func (suite *NormalizerServiceTestSuite) TestNormalize_InvalidPriceErrorWhenNoFallbackEntry() {
	jpy := models.CurrencyCode("JPY")
	quote := models.MetalPriceQuote{Gold: -5, Silver: 140, Currency: jpy}

	_, err := suite.service.Normalize(context.Background(), quote, jpy)

	suite.Require().Error(err)
	suite.True(apperrors.IsInvalidPrice(err))
}

func TestNormalizerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NormalizerServiceTestSuite))
}
