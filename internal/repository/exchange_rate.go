package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/luminagems/gemstore/internal/domain"
	"github.com/luminagems/gemstore/internal/service"
)

// ExchangeRateRepository stores base-currency-relative conversion rates.
type ExchangeRateRepository struct {
	pool *pgxpool.Pool
}

func NewExchangeRateRepository(pool *pgxpool.Pool) *ExchangeRateRepository {
	return &ExchangeRateRepository{pool: pool}
}

func (r *ExchangeRateRepository) GetRate(ctx context.Context, currency string) (*service.ExchangeRate, error) {
	query := `SELECT currency, rate, updated_at FROM exchange_rates WHERE currency = $1`

	var rate service.ExchangeRate
	err := r.pool.QueryRow(ctx, query, strings.ToUpper(currency)).Scan(&rate.Currency, &rate.Rate, &rate.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExchangeRateNotFound
		}
		return nil, fmt.Errorf("failed to get exchange rate: %w", err)
	}
	return &rate, nil
}

func (r *ExchangeRateRepository) ListRates(ctx context.Context) ([]*service.ExchangeRate, error) {
	query := `SELECT currency, rate, updated_at FROM exchange_rates ORDER BY currency`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	defer rows.Close()

	rates := make([]*service.ExchangeRate, 0)
	for rows.Next() {
		var rate service.ExchangeRate
		if err := rows.Scan(&rate.Currency, &rate.Rate, &rate.UpdatedAt); err != nil {
			return nil, err
		}
		rates = append(rates, &rate)
	}
	return rates, rows.Err()
}

func (r *ExchangeRateRepository) UpsertRate(ctx context.Context, rate *service.ExchangeRate) error {
	query := `
		INSERT INTO exchange_rates (currency, rate, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (currency) DO UPDATE SET rate = EXCLUDED.rate, updated_at = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query, strings.ToUpper(rate.Currency), rate.Rate, rate.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert exchange rate: %w", err)
	}
	return nil
}
