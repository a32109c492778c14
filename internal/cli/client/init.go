package client

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// InitCmd creates the init command.
func InitCmd() *cobra.Command {
	var adminToken string
	var apiURL string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Configure the gemstore CLI",
		Long:  "Saves the API URL and optional admin token to the global config file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runInit(adminToken, apiURL, outputJSON)
		},
	}

	cmd.Flags().StringVar(&adminToken, "admin-token", "", "Admin token for catalog management commands")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "API base URL (default: http://localhost:8080)")

	return cmd
}

func runInit(adminToken, apiURL string, outputJSON bool) error {
	_ = godotenv.Load()
	if adminToken == "" {
		adminToken = os.Getenv(envAdminToken)
	}
	if apiURL == "" {
		apiURL = os.Getenv(envAPIURL)
	}
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	api, err := NewAPIClientWithConfig(adminToken, apiURL)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	if _, err := api.Get("/health"); err != nil {
		return fmt.Errorf("server at %s is not reachable: %w", apiURL, err)
	}

	if err := SaveGlobalConfig(&GlobalConfig{
		AdminToken: adminToken,
		APIURL:     apiURL,
	}); err != nil {
		return err
	}

	configPath, _ := GetConfigPath()

	if outputJSON {
		result := map[string]interface{}{
			"success":         true,
			"api_url":         apiURL,
			"admin_token_set": adminToken != "",
			"config":          configPath,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
	} else {
		fmt.Printf("Configured gemstore CLI for %s\n", apiURL)
		if adminToken != "" {
			fmt.Println("Admin token saved; catalog management commands enabled.")
		}
		fmt.Printf("Config written to %s\n", configPath)
	}

	return nil
}
