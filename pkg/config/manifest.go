package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/openplan/openplan/pkg/factory"
)

// EngineManifest declares one engine in a YAML file, as an alternative to
// an INI section. Manifests are convenient for engine packages that ship a
// self-describing file next to their code.
type EngineManifest struct {
	// Name is the registry name the engine is registered under.
	Name string `yaml:"name" validate:"required"`

	// Module is the Go module path the engine is loadable from.
	Module string `yaml:"module" validate:"required"`

	// Symbol is the exported symbol within the module.
	Symbol string `yaml:"symbol" validate:"required"`

	// Meta marks the manifest as declaring a meta-engine.
	Meta bool `yaml:"meta"`

	// Description is free-form documentation, unused by registration.
	Description string `yaml:"description"`
}

// ManifestLoader loads engine manifests and registers them with a factory.
type ManifestLoader struct {
	logger   zerolog.Logger
	validate *validator.Validate
}

// NewManifestLoader creates a new manifest loader.
func NewManifestLoader(logger zerolog.Logger) *ManifestLoader {
	return &ManifestLoader{
		logger:   logger.With().Str("component", "manifest-loader").Logger(),
		validate: validator.New(),
	}
}

// LoadFromFile loads and validates a manifest from a YAML file.
func (m *ManifestLoader) LoadFromFile(path string) (*EngineManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var manifest EngineManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest YAML: %w", err)
	}

	if err := m.validate.Struct(&manifest); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	return &manifest, nil
}

// RegisterFromPath loads one manifest and registers its engine with the
// factory. Registration is loud: a manifest naming an unloadable reference
// is an error.
func (m *ManifestLoader) RegisterFromPath(f *factory.Factory, path string) error {
	manifest, err := m.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("manifest %s: %w", path, err)
	}

	if manifest.Meta {
		err = f.AddMetaEngine(manifest.Name, manifest.Module, manifest.Symbol)
	} else {
		err = f.AddEngine(manifest.Name, manifest.Module, manifest.Symbol)
	}
	if err != nil {
		return fmt.Errorf("manifest %s: %w", path, err)
	}

	m.logger.Debug().
		Str("path", path).
		Str("engine", manifest.Name).
		Bool("meta", manifest.Meta).
		Msg("Engine registered from manifest")
	return nil
}

// ScanDirectory registers every .yaml/.yml manifest found under dir,
// recursively. Individual manifest failures are logged and skipped so one
// broken file does not block the rest; the count of registered engines is
// returned.
func (m *ManifestLoader) ScanDirectory(f *factory.Factory, dir string) (int, error) {
	registered := 0

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
			return nil
		}

		if err := m.RegisterFromPath(f, path); err != nil {
			m.logger.Warn().Err(err).Str("path", path).Msg("Failed to register manifest")
			return nil // Continue processing other files
		}
		registered++
		return nil
	})
	if err != nil {
		return registered, fmt.Errorf("failed to walk directory: %w", err)
	}

	m.logger.Info().
		Int("registered", registered).
		Str("dir", dir).
		Msg("Manifests scanned")
	return registered, nil
}
