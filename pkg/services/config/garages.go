package config

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
)

// Registry resolves named garage profiles used to fill the issuer record.
type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetGarage(ctx context.Context, profile string) (map[string]any, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

// ProfileNotFoundError names a missing garage profile and the ones the file has.
type ProfileNotFoundError struct {
	Profile   string
	Available []string
}

func (e *ProfileNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("garage profile %q not found: the profiles file defines none", e.Profile)
	}
	return fmt.Sprintf("garage profile %q not found (available: %s)", e.Profile, strings.Join(e.Available, ", "))
}

// GetProfiles returns the sorted names of sections that hold garage values.
func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	profiles := make([]string, 0, len(cr.cfg.Sections()))
	for _, section := range cr.cfg.Sections() {
		if section.Name() == ini.DefaultSection || len(section.Keys()) == 0 {
			continue
		}
		profiles = append(profiles, section.Name())
	}
	sort.Strings(profiles)
	return profiles, nil
}

func (cr *cfgRegistry) GetGarage(ctx context.Context, profile string) (map[string]any, error) {
	section, err := cr.cfg.GetSection(profile)
	if err != nil || len(section.Keys()) == 0 {
		available, _ := cr.GetProfiles(ctx)
		return nil, &ProfileNotFoundError{Profile: profile, Available: available}
	}

	garage := make(map[string]any, len(section.Keys()))
	for _, key := range section.Keys() {
		garage[key.Name()] = key.String()
	}
	return garage, nil
}

// MergeGarage fills data["garage"] with profile values. Keys already present
// in the document are kept.
func MergeGarage(data map[string]any, profile map[string]any) {
	garage, ok := data["garage"].(map[string]any)
	if !ok {
		garage = make(map[string]any, len(profile))
		data["garage"] = garage
	}
	for key, value := range profile {
		if _, exists := garage[key]; !exists {
			garage[key] = value
		}
	}
}
