package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// Gemstone represents a catalog item returned by the API.
type Gemstone struct {
	ID               string  `json:"id"`
	SerialNumber     string  `json:"serial_number"`
	Name             string  `json:"name"`
	GemType          string  `json:"gem_type"`
	Color            string  `json:"color,omitempty"`
	Cut              string  `json:"cut,omitempty"`
	Clarity          string  `json:"clarity,omitempty"`
	Origin           string  `json:"origin,omitempty"`
	WeightCarats     float64 `json:"weight_carats"`
	PriceCents       int64   `json:"price_cents"`
	Currency         string  `json:"currency"`
	InStock          bool    `json:"in_stock"`
	CertificationLab string  `json:"certification_lab,omitempty"`
	Description      string  `json:"description,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

// GetCmd creates the get command.
func GetCmd() *cobra.Command {
	var bySerial bool

	cmd := &cobra.Command{
		Use:   "get <id|serial>",
		Short: "Get a gemstone",
		Long:  "Fetches a single gemstone by ID, or by serial number with --serial.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runGet(cmd, args[0], bySerial, outputJSON)
		},
	}

	cmd.Flags().BoolVar(&bySerial, "serial", false, "Look up by serial number instead of ID")

	return cmd
}

func runGet(cmd *cobra.Command, ref string, bySerial, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	path := "/api/gemstones/" + ref
	if bySerial {
		path = "/api/gemstones/serial/" + ref
	}

	resp, err := api.Get(path)
	if err != nil {
		return fmt.Errorf("failed to get gemstone: %w", err)
	}

	var gem Gemstone
	if err := json.Unmarshal(resp.Data, &gem); err != nil {
		return fmt.Errorf("failed to parse gemstone: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(gem, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("%s [%s]\n", gem.Name, gem.SerialNumber)
	fmt.Printf("  Type:    %s\n", gem.GemType)
	if gem.Color != "" {
		fmt.Printf("  Color:   %s\n", gem.Color)
	}
	if gem.Cut != "" {
		fmt.Printf("  Cut:     %s\n", gem.Cut)
	}
	if gem.Clarity != "" {
		fmt.Printf("  Clarity: %s\n", gem.Clarity)
	}
	if gem.Origin != "" {
		fmt.Printf("  Origin:  %s\n", gem.Origin)
	}
	fmt.Printf("  Weight:  %.2f ct\n", gem.WeightCarats)
	fmt.Printf("  Price:   %d %s (minor units)\n", gem.PriceCents, gem.Currency)
	if gem.CertificationLab != "" {
		fmt.Printf("  Cert:    %s\n", gem.CertificationLab)
	}
	if !gem.InStock {
		fmt.Println("  Status:  out of stock")
	}
	if gem.Description != "" {
		fmt.Printf("\n%s\n", gem.Description)
	}
	fmt.Printf("\nID: %s\n", gem.ID)

	return nil
}
