package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"backwater-server/models"
)

const CHLOROPHYLL_INDEX_EXPRESSION = "(B5 - B4) / (B5 + B4)"

// DefaultProfiles are the two turbidity proxies the dashboard has shipped with.
// A profiles file, when present, overrides or extends them.
var DefaultProfiles = []models.ProxyProfile{
	{
		Version:             "ratio-v2",
		Name:                "Red / (blue + green) ratio",
		TurbidityExpression: "B4 / (B2 + B3 + 0.001)",
		Thresholds: models.ThresholdSet{
			ChlorophyllElevated: 0.15,
			ChlorophyllHigh:     0.25,
			TurbidityElevated:   0.40,
			TurbidityHigh:       0.45,
		},
	},
	{
		Version:             "red-v1",
		Name:                "Red band reflectance",
		TurbidityExpression: "B4",
		Thresholds: models.ThresholdSet{
			ChlorophyllElevated: 0.15,
			ChlorophyllHigh:     0.25,
			TurbidityElevated:   0.06,
			TurbidityHigh:       0.08,
		},
	},
}

type profilesFile struct {
	Profiles []models.ProxyProfile `yaml:"profiles"`
}

// ProfileRegistry resolves proxy profiles by version.
type ProfileRegistry struct {
	profiles map[string]models.ProxyProfile
	active   string
}

// NewProfileRegistry builds a registry from the defaults plus the given
// profiles, the latter winning on version clashes.
func NewProfileRegistry(active string, extra ...models.ProxyProfile) (*ProfileRegistry, error) {
	r := &ProfileRegistry{profiles: make(map[string]models.ProxyProfile)}
	for _, p := range DefaultProfiles {
		r.profiles[p.Version] = p
	}
	for _, p := range extra {
		if err := validateProfile(p); err != nil {
			return nil, err
		}
		r.profiles[p.Version] = p
	}
	if _, ok := r.profiles[active]; !ok {
		return nil, fmt.Errorf("unknown active proxy profile %q", active)
	}
	r.active = active
	return r, nil
}

// LoadProfiles reads a YAML profiles file. A missing file yields the defaults.
func LoadProfiles(path, active string) (*ProfileRegistry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewProfileRegistry(active)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}
	var f profilesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal proxy profiles: %w", err)
	}
	return NewProfileRegistry(active, f.Profiles...)
}

// Active returns the configured default profile.
func (r *ProfileRegistry) Active() models.ProxyProfile {
	return r.profiles[r.active]
}

// Get returns the profile for version, or the active one when version is empty.
func (r *ProfileRegistry) Get(version string) (models.ProxyProfile, error) {
	if version == "" {
		return r.Active(), nil
	}
	p, ok := r.profiles[version]
	if !ok {
		return models.ProxyProfile{}, fmt.Errorf("%w: %q", models.ErrUnknownProfile, version)
	}
	return p, nil
}

// Versions lists known profile versions, sorted.
func (r *ProfileRegistry) Versions() []string {
	out := make([]string, 0, len(r.profiles))
	for v := range r.profiles {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func validateProfile(p models.ProxyProfile) error {
	if p.Version == "" {
		return fmt.Errorf("proxy profile without version")
	}
	if p.TurbidityExpression == "" {
		return fmt.Errorf("proxy profile %q has no turbidity expression", p.Version)
	}
	t := p.Thresholds
	if t.ChlorophyllElevated > t.ChlorophyllHigh || t.TurbidityElevated > t.TurbidityHigh {
		return fmt.Errorf("proxy profile %q: elevated cutoffs must not exceed high cutoffs", p.Version)
	}
	return nil
}
