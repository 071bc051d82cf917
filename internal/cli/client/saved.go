package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// SavedCompanyResult is one saved company in API responses.
type SavedCompanyResult struct {
	ID           string `json:"id"`
	CanonicalKey string `json:"canonical_key"`
	SourceID     string `json:"source_id,omitempty"`
	DisplayName  string `json:"display_name"`
	Notes        string `json:"notes,omitempty"`
	UpdatedAt    string `json:"updated_at"`
}

type savedCompanyList struct {
	Companies []SavedCompanyResult `json:"companies"`
}

// ListSaved fetches the caller's saved companies.
func (c *APIClient) ListSaved(ctx context.Context) ([]SavedCompanyResult, error) {
	resp, err := c.Get(ctx, "/companies/saved")
	if err != nil {
		return nil, err
	}
	var list savedCompanyList
	if err := json.Unmarshal(resp.Data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse saved companies: %w", err)
	}
	return list.Companies, nil
}

// SaveCmd creates the save command.
func SaveCmd() *cobra.Command {
	var sourceID, notes string

	cmd := &cobra.Command{
		Use:   "save <company name>",
		Short: "Save a company for later",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			body := map[string]string{
				"display_name": args[0],
				"source_id":    sourceID,
				"notes":        notes,
			}
			resp, err := api.Post(cmd.Context(), "/companies/saved", body)
			if err != nil {
				return err
			}

			var saved SavedCompanyResult
			if err := json.Unmarshal(resp.Data, &saved); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			fmt.Printf("saved %q (key %s)\n", saved.DisplayName, saved.CanonicalKey)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceID, "id", "", "Store-assigned company identifier, if known")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")

	return cmd
}

// SavedCmd creates the saved listing command.
func SavedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "saved",
		Short: "List saved companies",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			companies, err := api.ListSaved(cmd.Context())
			if err != nil {
				return err
			}
			if len(companies) == 0 {
				fmt.Println("No saved companies.")
				return nil
			}
			for _, c := range companies {
				fmt.Printf("%s  %s", c.ID, c.DisplayName)
				if c.Notes != "" {
					fmt.Printf("  (%s)", c.Notes)
				}
				fmt.Println()
			}
			return nil
		},
	}
}
