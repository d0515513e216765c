package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/visitflow/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set the repository's default filter and layout settings.
Command-line flags override these per run.

Usage:
  vf config                        # Show all config
  vf config min-visits             # Get specific value
  vf config min-visits 3           # Set value
  vf config regions Europe,Asia    # Comma-separated; "" clears
  vf config year 0                 # 0 selects every year

Keys:
  year        Trip year (0 for all years)
  regions     Region allow-list (empty for all regions)
  min-visits  Minimum visits for an aggregated leaf to count (>= 1)
  color-by    Ribbon colour side: source or target
  pad-angle   Radians between arc groups, in [0, 2π)
  directed    One ribbon per direction: true or false`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// configValue renders one key of cfg as a string. ok is false for unknown keys.
func configValue(cfg *config.Config, key string) (string, bool) {
	switch key {
	case "year":
		return strconv.Itoa(cfg.Year), true
	case "regions":
		return strings.Join(cfg.Regions, ","), true
	case "min-visits":
		return strconv.Itoa(cfg.MinVisits), true
	case "color-by":
		return cfg.ColorBy, true
	case "pad-angle":
		return strconv.FormatFloat(cfg.PadAngle, 'g', -1, 64), true
	case "directed":
		return strconv.FormatBool(cfg.Directed), true
	default:
		return "", false
	}
}

// setConfigValue parses and validates value into cfg.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "year":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid year: %s", value)
		}
		if err := config.ValidateYear(n); err != nil {
			return err
		}
		cfg.Year = n

	case "regions":
		var regions []string
		for _, r := range strings.Split(value, ",") {
			if r = strings.TrimSpace(r); r != "" {
				regions = append(regions, r)
			}
		}
		cfg.Regions = regions

	case "min-visits":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid min_visits: %s", value)
		}
		if err := config.ValidateMinVisits(n); err != nil {
			return err
		}
		cfg.MinVisits = n

	case "color-by":
		if err := config.ValidateColorBy(value); err != nil {
			return err
		}
		cfg.ColorBy = value

	case "pad-angle":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid pad_angle: %s", value)
		}
		if err := config.ValidatePadAngle(f); err != nil {
			return err
		}
		cfg.PadAngle = f

	case "directed":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid directed: %s (use true or false)", value)
		}
		cfg.Directed = b

	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

var configKeys = []string{"year", "regions", "min-visits", "color-by", "pad-angle", "directed"}

func runConfig(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			for _, k := range configKeys {
				v, _ := configValue(cfg, k)
				outputHuman("%-11s %s\n", k+":", v)
			}
		} else {
			outputJSON(cfg)
		}
		return nil
	}

	key := args[0]
	normalizedKey := normalizeKey(key)

	// One arg: get specific value
	if len(args) == 1 {
		v, ok := configValue(cfg, normalizedKey)
		if !ok {
			exitWithError(ExitError, "unknown configuration key: %s", key)
		}
		if humanOutput {
			outputHuman("%s\n", v)
		} else {
			outputJSON(map[string]string{strings.ReplaceAll(normalizedKey, "-", "_"): v})
		}
		return nil
	}

	// Two args: set value
	value := args[1]
	if _, ok := configValue(cfg, normalizedKey); !ok {
		exitWithError(ExitError, "unknown configuration key: %s", key)
	}
	if err := setConfigValue(cfg, normalizedKey, value); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	if err := cfg.Save(repoRoot); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		outputHuman("Updated %s to %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{
			Status: "updated",
			Key:    normalizedKey,
			Value:  value,
		})
	}

	return nil
}

// normalizeKey converts key formats (min-visits, min_visits, MIN_VISITS) to consistent format
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "-")
	return key
}
