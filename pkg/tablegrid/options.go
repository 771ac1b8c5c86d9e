// Package tablegrid loads, inspects and repairs tables with merged cells.
package tablegrid

import (
	"fmt"
	"os"

	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/commands"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/parser"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/tablemap"
	"gopkg.in/yaml.v3"
)

// CacheMode selects the table map cache.
type CacheMode string

const (
	// CacheWeak keys maps by table identity and drops them with the table.
	CacheWeak CacheMode = "weak"
	// CacheRing keeps a fixed number of recent maps.
	CacheRing CacheMode = "ring"
)

// DefaultMaxRepairPasses bounds the repair loop when Options leaves it unset.
const DefaultMaxRepairPasses = 8

// Options configures loading and editing behavior.
type Options struct {
	// HeaderToggle selects the header toggle strategy (rect, legacy).
	HeaderToggle commands.HeaderToggle `yaml:"header_toggle"`
	// Cache selects the table map cache (weak, ring).
	Cache CacheMode `yaml:"cache"`
	// CacheSize is the capacity of a ring cache.
	// If 0, tablemap.DefaultCacheSize is used.
	CacheSize int `yaml:"cache_size"`
	// RepairOnLoad specifies whether loaded tables are repaired.
	// If nil, defaults to true.
	RepairOnLoad *bool `yaml:"repair_on_load"`
	// MaxRepairPasses bounds the repair loop.
	// If 0, DefaultMaxRepairPasses is used.
	MaxRepairPasses int `yaml:"max_repair_passes"`
	// HeaderRows is the number of leading xlsx rows imported as headers.
	// If nil, defaults to 1.
	HeaderRows *int `yaml:"header_rows"`
	// HeaderCols is the number of leading xlsx columns imported as headers.
	HeaderCols int `yaml:"header_cols"`
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		HeaderToggle: commands.HeaderToggleRect,
		Cache:        CacheWeak,
	}
}

// ShouldRepairOnLoad returns whether loaded tables are repaired.
func (o Options) ShouldRepairOnLoad() bool {
	if o.RepairOnLoad != nil {
		return *o.RepairOnLoad
	}
	return true
}

// RepairPasses returns the repair loop bound.
func (o Options) RepairPasses() int {
	if o.MaxRepairPasses > 0 {
		return o.MaxRepairPasses
	}
	return DefaultMaxRepairPasses
}

// ImportOptions returns the xlsx import options.
func (o Options) ImportOptions() parser.ImportOptions {
	opts := parser.DefaultImportOptions()
	if o.HeaderRows != nil {
		opts.HeaderRows = *o.HeaderRows
	}
	opts.HeaderCols = o.HeaderCols
	return opts
}

// NewCache returns the table map cache the options select.
func (o Options) NewCache() tablemap.Cache {
	if o.Cache == CacheRing {
		return tablemap.NewRingCache(o.CacheSize)
	}
	return tablemap.NewWeakCache()
}

// ToggleHeader returns the header toggle command for kind using the
// configured strategy.
func (o Options) ToggleHeader(kind commands.HeaderKind) commands.Command {
	return commands.ToggleHeader(kind, o.HeaderToggle)
}

// Validate reports option values outside their allowed sets.
func (o Options) Validate() error {
	switch o.HeaderToggle {
	case "", commands.HeaderToggleRect, commands.HeaderToggleLegacy:
	default:
		return fmt.Errorf("invalid header_toggle: %s (must be rect or legacy)", o.HeaderToggle)
	}
	switch o.Cache {
	case "", CacheWeak, CacheRing:
	default:
		return fmt.Errorf("invalid cache: %s (must be weak or ring)", o.Cache)
	}
	if o.CacheSize < 0 || o.MaxRepairPasses < 0 || o.HeaderCols < 0 {
		return fmt.Errorf("negative size in options")
	}
	if o.HeaderRows != nil && *o.HeaderRows < 0 {
		return fmt.Errorf("negative header_rows in options")
	}
	return nil
}

// LoadOptionsFile reads options from a YAML file. Keys missing from the
// file keep their default values.
func LoadOptionsFile(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parse options %s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}
