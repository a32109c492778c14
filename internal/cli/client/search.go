package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// SearchFilters mirrors the search API filter payload.
type SearchFilters struct {
	GemTypes         []string `json:"gem_types,omitempty"`
	Colors           []string `json:"colors,omitempty"`
	Cuts             []string `json:"cuts,omitempty"`
	ClarityGrades    []string `json:"clarity_grades,omitempty"`
	Origins          []string `json:"origins,omitempty"`
	PriceMinCents    *int64   `json:"price_min_cents,omitempty"`
	PriceMaxCents    *int64   `json:"price_max_cents,omitempty"`
	InStockOnly      bool     `json:"in_stock_only,omitempty"`
	HasCertification bool     `json:"has_certification,omitempty"`
}

// SearchRequest represents the search API request.
type SearchRequest struct {
	Query    string        `json:"query"`
	Filters  SearchFilters `json:"filters"`
	Page     int           `json:"page,omitempty"`
	PageSize int           `json:"page_size,omitempty"`
	Currency string        `json:"currency,omitempty"`
}

// SearchResult represents one product row of a search response.
type SearchResult struct {
	ID             string  `json:"id"`
	SerialNumber   string  `json:"serial_number"`
	Name           string  `json:"name"`
	GemType        string  `json:"gem_type"`
	Color          string  `json:"color,omitempty"`
	WeightCarats   float64 `json:"weight_carats"`
	PriceCents     int64   `json:"price_cents"`
	Currency       string  `json:"currency"`
	DisplayPrice   string  `json:"display_price,omitempty"`
	InStock        bool    `json:"in_stock"`
	RelevanceScore float64 `json:"relevance_score"`
}

// PageInfo carries offset pagination metadata.
type PageInfo struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	TotalCount  int  `json:"total_count"`
	TotalPages  int  `json:"total_pages"`
	HasNextPage bool `json:"has_next_page"`
}

// SearchResponse represents the search API response.
type SearchResponse struct {
	Results         []SearchResult `json:"results"`
	Pagination      PageInfo       `json:"pagination"`
	UsedFuzzySearch bool           `json:"used_fuzzy_search"`
}

// SearchCmd creates the search command.
func SearchCmd() *cobra.Command {
	var (
		gemTypes    []string
		colors      []string
		inStockOnly bool
		currency    string
		page        int
		pageSize    int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog",
		Long:  "Searches the gemstone catalog with optional filters. An empty query browses newest arrivals.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			req := SearchRequest{
				Query: query,
				Filters: SearchFilters{
					GemTypes:    gemTypes,
					Colors:      colors,
					InStockOnly: inStockOnly,
				},
				Page:     page,
				PageSize: pageSize,
				Currency: currency,
			}
			return runSearch(cmd, req, outputJSON)
		},
	}

	cmd.Flags().StringSliceVarP(&gemTypes, "type", "t", nil, "Filter by gem type (repeatable)")
	cmd.Flags().StringSliceVar(&colors, "color", nil, "Filter by color (repeatable)")
	cmd.Flags().BoolVar(&inStockOnly, "in-stock", false, "Only show items in stock")
	cmd.Flags().StringVar(&currency, "currency", "", "Display currency (ISO 4217 code)")
	cmd.Flags().IntVar(&page, "page", 1, "Result page")
	cmd.Flags().IntVarP(&pageSize, "page-size", "n", 0, "Results per page (12, 24, 48 or 96)")

	return cmd
}

func runSearch(cmd *cobra.Command, req SearchRequest, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/api/search", req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	var searchResp SearchResponse
	if err := json.Unmarshal(resp.Data, &searchResp); err != nil {
		return fmt.Errorf("failed to parse search results: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(searchResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(searchResp.Results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d results (page %d of %d):\n\n",
		searchResp.Pagination.TotalCount, searchResp.Pagination.Page, searchResp.Pagination.TotalPages)
	if searchResp.UsedFuzzySearch {
		fmt.Println("Showing close matches for your query.")
		fmt.Println()
	}
	for i, result := range searchResp.Results {
		price := result.DisplayPrice
		if price == "" {
			price = fmt.Sprintf("%d %s (minor units)", result.PriceCents, result.Currency)
		}
		stock := "in stock"
		if !result.InStock {
			stock = "out of stock"
		}
		fmt.Printf("%d. %s [%s]\n", i+1, result.Name, result.SerialNumber)
		fmt.Printf("   %s, %.2f ct, %s, %s\n", result.GemType, result.WeightCarats, price, stock)
		fmt.Printf("   ID: %s\n", result.ID)
		if i < len(searchResp.Results)-1 {
			fmt.Println(strings.Repeat("-", 40))
		}
	}
	if searchResp.Pagination.HasNextPage {
		fmt.Printf("\nMore results available. Use --page %d\n", searchResp.Pagination.Page+1)
	}

	return nil
}
