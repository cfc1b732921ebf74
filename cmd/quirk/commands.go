package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/quirk/internal/config"
	"github.com/kalambet/quirk/internal/pipeline"
)

// --- resolve ---

var resolveCmd = &cobra.Command{
	Use:   "resolve <description>",
	Short: "Resolve a personality description into a profile",
	Long: `Resolve a free-text personality description into a structured profile.

Examples:
  quirk resolve "tony stark but more patient"
  quirk resolve "friendly cowboy" --path .
  quirk resolve "yoda mixed with sherlock holmes" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description := strings.Join(args, " ")
		targetPath, _ := cmd.Flags().GetString("path")
		noCache, _ := cmd.Flags().GetBool("no-cache")
		asJSON, _ := cmd.Flags().GetBool("json")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		useCache := !noCache
		req := map[string]any{
			"description": description,
			"use_cache":   useCache,
		}
		if targetPath != "" {
			abs, err := absPath(targetPath)
			if err != nil {
				return err
			}
			req["target_path"] = abs
		}

		resp, err := client.post(cmd.Context(), "/resolve", req)
		if err != nil {
			return err
		}

		var result pipeline.Result
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		printResult(result)
		if !result.Success {
			return fmt.Errorf("could not resolve %q", description)
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().String("path", "", "project directory to write editor configuration into")
	resolveCmd.Flags().Bool("no-cache", false, "bypass the resolution cache")
	resolveCmd.Flags().Bool("json", false, "print the full result as JSON")
}

// --- research ---

var researchCmd = &cobra.Command{
	Use:   "research <description>",
	Short: "Resolve a description to a profile without touching any files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description := strings.Join(args, " ")
		asJSON, _ := cmd.Flags().GetBool("json")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/research", map[string]any{
			"description": description,
		})
		if err != nil {
			return err
		}

		var result pipeline.Result
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		printResult(result)
		if !result.Success {
			return fmt.Errorf("could not research %q", description)
		}
		return nil
	},
}

func init() {
	researchCmd.Flags().Bool("json", false, "print the full result as JSON")
}

// --- archetypes ---

var archetypesCmd = &cobra.Command{
	Use:   "archetypes",
	Short: "List built-in personality archetypes",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/archetypes")
		if err != nil {
			return err
		}

		var archetypes []struct {
			Key    string   `json:"key"`
			Name   string   `json:"name"`
			Traits []string `json:"traits"`
			Tone   string   `json:"tone"`
		}
		if err := decodeJSON(resp, &archetypes); err != nil {
			return err
		}

		for _, a := range archetypes {
			fmt.Printf("%s  %s\n", colorize(colorBold, a.Key), strings.Join(a.Traits, ", "))
		}
		return nil
	},
}

// --- history ---

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent resolutions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), fmt.Sprintf("/history?limit=%d", limit))
		if err != nil {
			return err
		}

		var resolutions []struct {
			ID          string  `json:"id"`
			Description string  `json:"description"`
			Success     bool    `json:"success"`
			ProfileName string  `json:"profile_name"`
			ErrorCode   string  `json:"error_code"`
			Confidence  float64 `json:"confidence"`
		}
		if err := decodeJSON(resp, &resolutions); err != nil {
			return err
		}

		if len(resolutions) == 0 {
			fmt.Println("No resolutions recorded.")
			return nil
		}

		for _, r := range resolutions {
			outcome := colorize(colorGreen, r.ProfileName)
			if !r.Success {
				outcome = colorize(colorRed, r.ErrorCode)
			}
			desc := r.Description
			if len(desc) > 60 {
				desc = desc[:60] + "..."
			}
			fmt.Printf("%s  %-63s %s\n", colorize(colorCyan, shortID(r.ID)), desc, outcome)
		}
		return nil
	},
}

// shortID truncates a resolution ID for display. IDs are not guaranteed to
// be UUID-length, so short ones pass through unchanged.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of resolutions to list")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
