// Package config handles repository configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matsen/visitflow/internal/chord"
	"github.com/matsen/visitflow/internal/diagram"
	"github.com/matsen/visitflow/internal/filter"
)

// Config represents repository configuration stored in .visitflow/config.json.
// The values are defaults for the diagram commands; flags override them.
type Config struct {
	Year      int      `json:"year,omitempty" validate:"gte=0"`                      // 0 means every year
	Regions   []string `json:"regions,omitempty" validate:"omitempty,dive,required"` // empty means every region
	MinVisits int      `json:"min_visits" validate:"gte=1"`
	ColorBy   string   `json:"color_by" validate:"omitempty,oneof=source target"`
	PadAngle  float64  `json:"pad_angle" validate:"gte=0,lt=6.283185307179586"`
	Directed  bool     `json:"directed,omitempty"`
}

// validate checks Config struct tags and reports fields by their JSON name.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

const (
	VisitflowDir = ".visitflow"
	ConfigFile   = "config.json"
	VisitsFile   = "visits.jsonl"
	CacheDir     = "cache"
	DBFile       = "visits.db"
)

// Default returns the configuration written by init.
func Default() *Config {
	return &Config{
		MinVisits: filter.DefaultMinVisits,
		ColorBy:   string(diagram.DefaultColorBy),
		PadAngle:  chord.DefaultPadAngle,
	}
}

// VisitflowPath returns the path to the .visitflow directory from a root path.
func VisitflowPath(root string) string {
	return filepath.Join(root, VisitflowDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, VisitflowDir, ConfigFile)
}

// VisitsPath returns the path to visits.jsonl from a root path.
func VisitsPath(root string) string {
	return filepath.Join(root, VisitflowDir, VisitsFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, VisitflowDir, CacheDir)
}

// DBPath returns the path to visits.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, VisitflowDir, CacheDir, DBFile)
}

// IsRepository checks if the given path contains a visitflow repository.
func IsRepository(root string) bool {
	info, err := os.Stat(VisitflowPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a visitflow repository.
// Returns the repository root path or an error if not found.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a visitflow repository (no .visitflow directory found)")
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root. Keys
// missing from the file keep their Default values.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks every field and reports the first violation.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		// NaN slips past numeric comparisons
		return ValidatePadAngle(c.PadAngle)
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validating config: %w", err)
	}
	fe := fieldErrs[0]
	rule := fe.Tag()
	if fe.Param() != "" {
		rule += " " + fe.Param()
	}
	return fmt.Errorf("invalid %s: %v (must satisfy %s)", fe.Field(), fe.Value(), rule)
}

// Options converts the configuration to diagram build options.
func (c *Config) Options() diagram.Options {
	side, err := diagram.ParseSide(c.ColorBy)
	if err != nil {
		side = diagram.DefaultColorBy
	}

	layout := chord.New()
	layout.PadAngle = c.PadAngle
	layout.Directed = c.Directed

	return diagram.Options{
		Filter: filter.Params{
			Year:      c.Year,
			Regions:   c.Regions,
			MinVisits: c.MinVisits,
		},
		ColorBy: side,
		Layout:  layout,
	}
}

// ValidateYear rejects negative years. 0 selects every year.
func ValidateYear(year int) error {
	if year < 0 {
		return fmt.Errorf("invalid year: %d (use 0 for all years)", year)
	}
	return nil
}

// ValidateMinVisits checks that the edge threshold is at least 1.
func ValidateMinVisits(n int) error {
	if n < 1 {
		return fmt.Errorf("invalid min_visits: %d (must be at least 1)", n)
	}
	return nil
}

// ValidateColorBy checks that the ribbon colour side is valid.
func ValidateColorBy(side string) error {
	if side == "" {
		return nil // Empty defaults to target
	}

	for _, valid := range diagram.ValidSides {
		if side == string(valid) {
			return nil
		}
	}

	return fmt.Errorf("invalid color_by: %s (valid: %v)", side, diagram.ValidSides)
}

// ValidatePadAngle checks that the padding leaves room on the circle.
func ValidatePadAngle(pad float64) error {
	if math.IsNaN(pad) || pad < 0 || pad >= chord.Tau {
		return fmt.Errorf("invalid pad_angle: %g (must be in [0, 2π))", pad)
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
