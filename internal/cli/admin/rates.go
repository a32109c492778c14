package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/luminagems/gemstore/internal/config"
	"github.com/luminagems/gemstore/internal/database"
	"github.com/luminagems/gemstore/internal/repository"
	"github.com/luminagems/gemstore/internal/service"
)

func RatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Manage exchange rates",
		Long:  "List and set exchange rates against the base currency",
	}

	cmd.AddCommand(RatesListCmd())
	cmd.AddCommand(RatesSetCmd())

	return cmd
}

func RatesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List exchange rates",
		Long:  "List all stored exchange rates",
		RunE:  runRatesList,
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runRatesList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	outputFormat, _ := cmd.Flags().GetString("output")

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	rateRepo := repository.NewExchangeRateRepository(pool)

	rates, err := rateRepo.ListRates(ctx)
	if err != nil {
		return fmt.Errorf("failed to list exchange rates: %w", err)
	}

	if outputFormat == "json" {
		data := make([]map[string]interface{}, len(rates))
		for i, rate := range rates {
			data[i] = map[string]interface{}{
				"currency":   rate.Currency,
				"rate":       rate.Rate,
				"updated_at": rate.UpdatedAt,
			}
		}
		jsonBytes, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(jsonBytes))
	} else {
		if len(rates) == 0 {
			fmt.Println("No exchange rates found")
			return nil
		}
		fmt.Println("Exchange rates:")
		for _, rate := range rates {
			fmt.Printf("  %s: %.6f (updated: %s)\n", rate.Currency, rate.Rate, rate.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
	}

	return nil
}

func RatesSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <currency> <rate>",
		Short: "Set an exchange rate",
		Long:  "Insert or update the exchange rate for a currency against the base currency",
		Args:  cobra.ExactArgs(2),
		RunE:  runRatesSet,
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runRatesSet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	currency := strings.ToUpper(strings.TrimSpace(args[0]))
	outputFormat, _ := cmd.Flags().GetString("output")

	if len(currency) != 3 {
		return fmt.Errorf("invalid currency code: %s (expected 3-letter ISO code)", args[0])
	}

	rate, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid rate: %s", args[1])
	}
	if rate <= 0 {
		return fmt.Errorf("rate must be positive, got %g", rate)
	}

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	rateRepo := repository.NewExchangeRateRepository(pool)

	now := time.Now().UTC()
	if err := rateRepo.UpsertRate(ctx, &service.ExchangeRate{
		Currency:  currency,
		Rate:      rate,
		UpdatedAt: now,
	}); err != nil {
		return fmt.Errorf("failed to set exchange rate: %w", err)
	}

	if outputFormat == "json" {
		data := map[string]interface{}{
			"currency":   currency,
			"rate":       rate,
			"updated_at": now,
		}
		jsonBytes, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(jsonBytes))
	} else {
		fmt.Printf("Exchange rate set: 1 base unit = %.6f %s\n", rate, currency)
	}

	return nil
}

func getDBPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := database.NewPool(ctx, database.Config{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DatabaseMaxConns,
		MinConns: cfg.DatabaseMinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return pool, nil
}
