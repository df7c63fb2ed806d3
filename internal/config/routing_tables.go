package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// SubcategoryOverride forces a department and, optionally, a priority for a
// ticket subcategory regardless of classifier output.
type SubcategoryOverride struct {
	Department string `mapstructure:"department"`
	Priority   string `mapstructure:"priority"`
}

// RoutingTables holds the deterministic lookup tables composed with the
// probabilistic classifier: subcategory overrides, category default
// departments, and the studio-name to provider location-id map.
type RoutingTables struct {
	// SubcategoryOverrides apply unconditionally, keyed by exact subcategory.
	SubcategoryOverrides map[string]SubcategoryOverride `mapstructure:"subcategory_overrides"`
	// CategoryDefaults supply a department when the classifier produced
	// none or its confidence fell below the configured threshold.
	CategoryDefaults map[string]string `mapstructure:"category_defaults"`
	// Locations maps human-readable studio names to provider location ids.
	Locations map[string]string `mapstructure:"locations"`
}

// OverrideFor returns the override for the given subcategory. Viper
// lowercases configuration keys on read, so the lookup folds case rather
// than relying on the map key's spelling.
func (t *RoutingTables) OverrideFor(subcategory string) (SubcategoryOverride, bool) {
	if override, ok := t.SubcategoryOverrides[subcategory]; ok {
		return override, true
	}
	for key, override := range t.SubcategoryOverrides {
		if strings.EqualFold(key, subcategory) {
			return override, true
		}
	}
	return SubcategoryOverride{}, false
}

// DefaultFor returns the default department for the given category,
// folding case like OverrideFor.
func (t *RoutingTables) DefaultFor(category string) (string, bool) {
	if dept, ok := t.CategoryDefaults[category]; ok {
		return dept, true
	}
	for key, dept := range t.CategoryDefaults {
		if strings.EqualFold(key, category) {
			return dept, true
		}
	}
	return "", false
}

// DefaultRoutingTables returns the compiled-in tables used when no
// routing.yaml is present.
func DefaultRoutingTables() *RoutingTables {
	return &RoutingTables{
		SubcategoryOverrides: map[string]SubcategoryOverride{
			"Theft":               {Department: "Security", Priority: "critical"},
			"Harassment":          {Department: "Security", Priority: "critical"},
			"Injury":              {Department: "Operations", Priority: "critical"},
			"Billing Dispute":     {Department: "Finance", Priority: "high"},
			"Refund Request":      {Department: "Finance"},
			"Membership Freeze":   {Department: "Member Services"},
			"Equipment Breakdown": {Department: "Maintenance", Priority: "high"},
			"App Login Issue":     {Department: "Technology"},
			"Booking Failure":     {Department: "Technology", Priority: "high"},
			"Lost Property":       {Department: "Front Desk"},
			"Trainer No-Show":     {Department: "Operations", Priority: "high"},
		},
		CategoryDefaults: map[string]string{
			"Billing & Payments":     "Finance",
			"Membership":             "Member Services",
			"Facilities & Equipment": "Maintenance",
			"Classes & Scheduling":   "Operations",
			"Technology":             "Technology",
			"Staff & Service":        "Operations",
			"Safety & Security":      "Security",
		},
		Locations: map[string]string{
			"Kwality House, Kemps Corner": "36372",
			"Supreme HQ, Bandra":          "36374",
			"Kenkere House, Bengaluru":    "36376",
		},
	}
}

// LoadRoutingTables reads routing tables from configs/routing.yaml, merging
// file entries over the compiled-in defaults. A missing file is not an
// error; the defaults apply unchanged.
func LoadRoutingTables() (*RoutingTables, error) {
	tables := DefaultRoutingTables()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("routing")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return tables, nil
		}
		return nil, fmt.Errorf("failed to read routing tables: %w", err)
	}

	var fileTables RoutingTables
	if err := v.Unmarshal(&fileTables); err != nil {
		return nil, fmt.Errorf("failed to parse routing tables: %w", err)
	}

	for sub, override := range fileTables.SubcategoryOverrides {
		tables.SubcategoryOverrides[foldKey(tables.SubcategoryOverrides, sub)] = override
	}
	for cat, dept := range fileTables.CategoryDefaults {
		tables.CategoryDefaults[foldKey(tables.CategoryDefaults, cat)] = dept
	}
	for name, id := range fileTables.Locations {
		tables.Locations[foldKey(tables.Locations, name)] = id
	}

	return tables, nil
}

// foldKey returns the existing map key equal to k under case folding, or k
// itself when none matches. File entries are lowercased by viper and must
// land on the compiled-in spelling instead of duplicating it.
func foldKey[V any](m map[string]V, k string) string {
	for existing := range m {
		if strings.EqualFold(existing, k) {
			return existing
		}
	}
	return k
}
