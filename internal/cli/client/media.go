package client

import (
	"encoding/json"
	"fmt"
	"mime"
	"path/filepath"

	"github.com/spf13/cobra"
)

// MediaAsset represents a product photo returned by the API.
type MediaAsset struct {
	ID          string `json:"id"`
	GemstoneID  string `json:"gemstone_id"`
	Filename    string `json:"filename"`
	MimeType    string `json:"mime_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Status      string `json:"status"`
	IsPrimary   bool   `json:"is_primary"`
	CreatedAt   string `json:"created_at"`
	CompletedAt string `json:"completed_at,omitempty"`
}

type initUploadResponse struct {
	Media     MediaAsset `json:"media"`
	UploadURL string     `json:"upload_url"`
}

// MediaCmd creates the media command group.
func MediaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Manage product photos",
		Long:  "Upload and list product photos. Uploading requires an admin token.",
	}

	cmd.AddCommand(MediaUploadCmd())
	cmd.AddCommand(MediaListCmd())

	return cmd
}

// MediaUploadCmd creates the media upload command.
func MediaUploadCmd() *cobra.Command {
	var isPrimary bool

	cmd := &cobra.Command{
		Use:   "upload <gemstone-id> <file>",
		Short: "Upload a product photo",
		Long:  "Registers a photo, uploads the file to presigned storage, and completes the upload.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runMediaUpload(cmd, args[0], args[1], isPrimary, outputJSON)
		},
	}

	cmd.Flags().BoolVar(&isPrimary, "primary", false, "Mark as the primary photo")

	return cmd
}

func runMediaUpload(cmd *cobra.Command, gemstoneID, filePath string, isPrimary, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	filename := filepath.Base(filePath)
	mimeType := mime.TypeByExtension(filepath.Ext(filePath))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	resp, err := api.Post("/api/admin/gemstones/"+gemstoneID+"/media", map[string]interface{}{
		"filename":   filename,
		"mime_type":  mimeType,
		"is_primary": isPrimary,
	})
	if err != nil {
		return fmt.Errorf("failed to register photo: %w", err)
	}

	var initResp initUploadResponse
	if err := json.Unmarshal(resp.Data, &initResp); err != nil {
		return fmt.Errorf("failed to parse upload response: %w", err)
	}

	if err := api.UploadFile(initResp.UploadURL, filePath, mimeType); err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}

	completeResp, err := api.Post("/api/admin/media/"+initResp.Media.ID+"/complete", nil)
	if err != nil {
		return fmt.Errorf("failed to complete upload: %w", err)
	}

	var media MediaAsset
	if err := json.Unmarshal(completeResp.Data, &media); err != nil {
		return fmt.Errorf("failed to parse media response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(media, "", "  ")
		fmt.Println(string(output))
	} else {
		fmt.Printf("Uploaded %s (%d bytes) as %s\n", media.Filename, media.SizeBytes, media.ID)
	}

	return nil
}

// MediaListCmd creates the media list command.
func MediaListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <gemstone-id>",
		Short: "List product photos",
		Long:  "Lists photos attached to a gemstone.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runMediaList(cmd, args[0], outputJSON)
		},
	}

	return cmd
}

func runMediaList(cmd *cobra.Command, gemstoneID string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/api/gemstones/" + gemstoneID + "/media")
	if err != nil {
		return fmt.Errorf("failed to list photos: %w", err)
	}

	var assets []MediaAsset
	if err := json.Unmarshal(resp.Data, &assets); err != nil {
		return fmt.Errorf("failed to parse media list: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(assets, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(assets) == 0 {
		fmt.Println("No photos found.")
		return nil
	}

	for _, m := range assets {
		primary := ""
		if m.IsPrimary {
			primary = " (primary)"
		}
		fmt.Printf("  %s: %s [%s]%s\n", m.ID, m.Filename, m.Status, primary)
	}

	return nil
}
