package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// Suggestion is one "did you mean" candidate.
type Suggestion struct {
	Suggestion string  `json:"suggestion"`
	Score      float64 `json:"score"`
	MatchType  string  `json:"match_type"`
}

// SuggestionResponse represents the fuzzy suggestion API response.
type SuggestionResponse struct {
	Query       string       `json:"query"`
	Suggestions []Suggestion `json:"suggestions"`
}

// SuggestCmd creates the suggest command.
func SuggestCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest <query>",
		Short: "Get query suggestions",
		Long:  "Returns \"did you mean\" candidates for a partial or misspelled query.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runSuggest(cmd, args[0], limit, outputJSON)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Maximum number of suggestions (1-10)")

	return cmd
}

func runSuggest(cmd *cobra.Command, query string, limit int, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", fmt.Sprintf("%d", limit))

	resp, err := api.Get("/api/search/fuzzy-suggestions?" + params.Encode())
	if err != nil {
		return fmt.Errorf("suggestion lookup failed: %w", err)
	}

	var suggestResp SuggestionResponse
	if err := json.Unmarshal(resp.Data, &suggestResp); err != nil {
		return fmt.Errorf("failed to parse suggestions: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(suggestResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(suggestResp.Suggestions) == 0 {
		fmt.Println("No suggestions found.")
		return nil
	}

	fmt.Printf("Did you mean:\n")
	for _, s := range suggestResp.Suggestions {
		fmt.Printf("  %s (%.2f, %s)\n", s.Suggestion, s.Score, s.MatchType)
	}

	return nil
}
