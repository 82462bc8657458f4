package countries

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/samvad-hq/headline-sentiment/internal/domain"
)

// DefaultCountry is used whenever a caller names a country we do not know.
const DefaultCountry = "United States"

// ErrUnknownCountry is returned by ProfileOf for names outside the registry.
var ErrUnknownCountry = errors.New("unknown country")

// builtin lists the editions served out of the box.
var builtin = []domain.CountryProfile{
	{Name: "United States", GeoCode: "US", LanguageCode: "en-US", EditionID: "US:en"},
	{Name: "United Kingdom", GeoCode: "GB", LanguageCode: "en-GB", EditionID: "GB:en"},
	{Name: "Canada", GeoCode: "CA", LanguageCode: "en-CA", EditionID: "CA:en"},
	{Name: "Australia", GeoCode: "AU", LanguageCode: "en-AU", EditionID: "AU:en"},
	{Name: "India", GeoCode: "IN", LanguageCode: "en-IN", EditionID: "IN:en"},
	{Name: "Germany", GeoCode: "DE", LanguageCode: "de", EditionID: "DE:de"},
	{Name: "France", GeoCode: "FR", LanguageCode: "fr", EditionID: "FR:fr"},
	{Name: "Japan", GeoCode: "JP", LanguageCode: "ja", EditionID: "JP:ja"},
	{Name: "China", GeoCode: "CN", LanguageCode: "zh-CN", EditionID: "CN:zh-Hans"},
	{Name: "Brazil", GeoCode: "BR", LanguageCode: "pt-BR", EditionID: "BR:pt-419"},
}

// configFile represents the structure of the countries file.
type configFile struct {
	Default   string                  `json:"default" yaml:"default"`
	Countries []domain.CountryProfile `json:"countries" yaml:"countries"`
}

// Registry is an immutable set of country profiles with a designated default.
type Registry struct {
	def      string
	profiles map[string]domain.CountryProfile
	names    []string
}

// Builtin returns the registry of the built-in editions.
func Builtin() *Registry {
	reg, err := New(DefaultCountry, builtin)
	if err != nil {
		panic(fmt.Sprintf("builtin country registry: %v", err))
	}
	return reg
}

// New validates profiles and builds a registry. def must name one of the profiles.
func New(def string, profiles []domain.CountryProfile) (*Registry, error) {
	if len(profiles) == 0 {
		return nil, errors.New("country registry has no profiles")
	}

	reg := &Registry{
		def:      strings.TrimSpace(def),
		profiles: make(map[string]domain.CountryProfile, len(profiles)),
		names:    make([]string, 0, len(profiles)),
	}

	for i := range profiles {
		p := sanitizeProfile(profiles[i])
		if err := validateProfile(p); err != nil {
			return nil, fmt.Errorf("countries[%d]: %w", i, err)
		}
		if _, exists := reg.profiles[p.Name]; exists {
			return nil, fmt.Errorf("duplicate country %q", p.Name)
		}
		reg.profiles[p.Name] = p
		reg.names = append(reg.names, p.Name)
	}
	sort.Strings(reg.names)

	if reg.def == "" {
		return nil, errors.New("default country is empty")
	}
	if _, ok := reg.profiles[reg.def]; !ok {
		return nil, fmt.Errorf("default country %q is not in the registry", reg.def)
	}
	return reg, nil
}

// LoadRegistry loads the country registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("countries file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open countries file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read countries file: %w", err)
	}

	expanded := []byte(os.ExpandEnv(string(raw)))

	cf, err := parseCountries(expanded, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if cf.Default == "" {
		cf.Default = DefaultCountry
	}
	return New(cf.Default, cf.Countries)
}

// parseCountries decodes the file content, trying the decoder matching ext first.
func parseCountries(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		ext string
		fn  func([]byte, any) error
	}{
		{ext: ".yaml", fn: yaml.Unmarshal},
		{ext: ".yml", fn: yaml.Unmarshal},
		{ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var cf configFile
		if err := d.fn(data, &cf); err == nil {
			return cf, nil
		}
	}

	return configFile{}, errors.New("countries file format not recognized (expected YAML or JSON)")
}

func sanitizeProfile(p domain.CountryProfile) domain.CountryProfile {
	p.Name = strings.TrimSpace(p.Name)
	p.GeoCode = strings.TrimSpace(p.GeoCode)
	p.LanguageCode = strings.TrimSpace(p.LanguageCode)
	p.EditionID = strings.TrimSpace(p.EditionID)
	return p
}

func validateProfile(p domain.CountryProfile) error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.GeoCode == "" {
		return fmt.Errorf("geo_code is required for country %q", p.Name)
	}
	if p.LanguageCode == "" {
		return fmt.Errorf("language_code is required for country %q", p.Name)
	}
	if p.EditionID == "" {
		return fmt.Errorf("edition_id is required for country %q", p.Name)
	}
	return nil
}

// Validate returns input when it names a known country and the default otherwise.
func (r *Registry) Validate(input string) string {
	if _, ok := r.profiles[input]; ok {
		return input
	}
	return r.def
}

// ProfileOf returns the profile for a validated name.
func (r *Registry) ProfileOf(name string) (domain.CountryProfile, error) {
	p, ok := r.profiles[name]
	if !ok {
		return domain.CountryProfile{}, fmt.Errorf("%w: %q", ErrUnknownCountry, name)
	}
	return p, nil
}

// Default returns the default country name.
func (r *Registry) Default() string { return r.def }

// Names returns all country names sorted alphabetically.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Profiles returns all profiles in Names order.
func (r *Registry) Profiles() []domain.CountryProfile {
	out := make([]domain.CountryProfile, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, r.profiles[n])
	}
	return out
}
