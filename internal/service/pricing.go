package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/luminagems/gemstore/internal/cache"
	"github.com/luminagems/gemstore/internal/domain"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const rateCacheTTL = 10 * time.Minute

// ExchangeRate is the major-unit value of one base-currency unit in the
// target currency.
type ExchangeRate struct {
	Currency  string
	Rate      float64
	UpdatedAt time.Time
}

// ExchangeRateRepositoryInterface persists per-currency rates against the
// base currency.
type ExchangeRateRepositoryInterface interface {
	GetRate(ctx context.Context, code string) (*ExchangeRate, error)
	ListRates(ctx context.Context) ([]*ExchangeRate, error)
	UpsertRate(ctx context.Context, rate *ExchangeRate) error
}

// RateCache is the keyed TTL store for exchange rates.
type RateCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// PricingService converts integer minor-unit amounts between currencies
// through the base-currency rate table and formats them for display.
type PricingService struct {
	repo  ExchangeRateRepositoryInterface
	cache RateCache
	base  string
}

// NewPricingService creates a new PricingService instance. cache may be nil.
func NewPricingService(repo ExchangeRateRepositoryInterface, cache RateCache, baseCurrency string) *PricingService {
	if baseCurrency == "" {
		baseCurrency = "USD"
	}
	return &PricingService{repo: repo, cache: cache, base: baseCurrency}
}

// Convert converts a minor-unit amount from one currency to another,
// rounding half away from zero in the target currency's minor unit.
func (s *PricingService) Convert(ctx context.Context, amountMinor int64, from, to string) (int64, error) {
	if from == to {
		return amountMinor, nil
	}

	fromScale, err := minorUnitScale(from)
	if err != nil {
		return 0, err
	}
	toScale, err := minorUnitScale(to)
	if err != nil {
		return 0, err
	}

	fromRate, err := s.rate(ctx, from)
	if err != nil {
		return 0, err
	}
	toRate, err := s.rate(ctx, to)
	if err != nil {
		return 0, err
	}
	if fromRate == 0 {
		return 0, fmt.Errorf("exchange rate for %s is zero", from)
	}

	major := float64(amountMinor) / math.Pow10(fromScale)
	converted := major / fromRate * toRate
	return int64(math.Round(converted * math.Pow10(toScale))), nil
}

// Format renders a minor-unit amount as a localized display string, e.g.
// 1250000 USD -> "$ 12,500.00".
func (s *PricingService) Format(amountMinor int64, code string) (string, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", domain.ErrInvalidCurrency
	}
	scale, _ := currency.Cash.Rounding(unit)

	major := float64(amountMinor) / math.Pow10(scale)
	printer := message.NewPrinter(language.English)
	return printer.Sprintf("%v", currency.Symbol(unit.Amount(major))), nil
}

// rate returns the base-relative rate for code, consulting the shared cache
// before the rate table. The base currency always has rate 1.
func (s *PricingService) rate(ctx context.Context, code string) (float64, error) {
	if code == s.base {
		return 1, nil
	}

	key := "fx:" + code
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			if parsed, err := strconv.ParseFloat(cached, 64); err == nil {
				return parsed, nil
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			log.Printf("pricing: rate cache read failed for %s: %v", code, err)
		}
	}

	rate, err := s.repo.GetRate(ctx, code)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		value := strconv.FormatFloat(rate.Rate, 'f', -1, 64)
		if err := s.cache.Set(ctx, key, value, rateCacheTTL); err != nil {
			log.Printf("pricing: rate cache write failed for %s: %v", code, err)
		}
	}

	return rate.Rate, nil
}

func minorUnitScale(code string) (int, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 0, domain.ErrInvalidCurrency
	}
	scale, _ := currency.Cash.Rounding(unit)
	return scale, nil
}
