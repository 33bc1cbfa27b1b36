package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
	"github.com/rs/zerolog"

	"github.com/openplan/openplan/pkg/factory"
)

// Section and key names recognized in configuration files.
const (
	globalSection     = "global"
	preferenceListKey = "engine_preference_list"
	enginePrefix      = "engine "
	metaEnginePrefix  = "meta-engine "
	moduleNameKey     = "module_name"
	classNameKey      = "class_name"
)

// Loader reads INI configuration files and applies them to a factory.
type Loader struct {
	logger zerolog.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{
		logger: logger.With().Str("component", "config-loader").Logger(),
	}
}

// Locations returns every path a configuration file is looked up at, most
// specific first: up.ini and .up.ini in the working directory and each of
// its ancestors, then up.ini, .up.ini and .uprc in the home directory.
func Locations() []string {
	var paths []string

	if wd, err := os.Getwd(); err == nil {
		dir := wd
		for {
			paths = append(paths,
				filepath.Join(dir, "up.ini"),
				filepath.Join(dir, ".up.ini"),
			)
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, "up.ini"),
			filepath.Join(home, ".up.ini"),
			filepath.Join(home, ".uprc"),
		)
	}

	return paths
}

// DefaultPath returns the first existing configuration file, searching the
// Locations order. The boolean reports whether one was found.
func DefaultPath() (string, bool) {
	for _, path := range Locations() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// ApplyDefault applies the first existing configuration file to the
// factory. A missing configuration is not an error.
func (l *Loader) ApplyDefault(f *factory.Factory) error {
	path, ok := DefaultPath()
	if !ok {
		l.logger.Debug().Msg("No configuration file found")
		return nil
	}
	return l.Apply(f, path)
}

// Apply reads one configuration file and applies it to the factory: engine
// sections first, then meta-engine sections, then the global preference
// list. Registration failures are returned immediately; an explicitly
// configured engine that cannot be loaded is a hard error.
func (l *Loader) Apply(f *factory.Factory, path string) error {
	file, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	log := l.logger.With().Str("path", path).Logger()

	for _, sec := range file.Sections() {
		name, ok := strings.CutPrefix(sec.Name(), enginePrefix)
		if !ok {
			continue
		}
		ref, err := sectionRef(sec)
		if err != nil {
			return fmt.Errorf("config file %s, section %q: %w", path, sec.Name(), err)
		}
		if err := f.AddEngine(name, ref.Module, ref.Symbol); err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		log.Debug().Str("engine", name).Msg("Engine added from config")
	}

	for _, sec := range file.Sections() {
		name, ok := strings.CutPrefix(sec.Name(), metaEnginePrefix)
		if !ok {
			continue
		}
		ref, err := sectionRef(sec)
		if err != nil {
			return fmt.Errorf("config file %s, section %q: %w", path, sec.Name(), err)
		}
		if err := f.AddMetaEngine(name, ref.Module, ref.Symbol); err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		log.Debug().Str("meta_engine", name).Msg("Meta-engine added from config")
	}

	if sec, err := file.GetSection(globalSection); err == nil && sec.HasKey(preferenceListKey) {
		l.applyPreferenceList(f, sec.Key(preferenceListKey).String())
	}

	log.Info().Msg("Configuration applied")
	return nil
}

// applyPreferenceList replaces the factory's preference list with the
// whitespace-separated names, dropping names that are not registered.
func (l *Loader) applyPreferenceList(f *factory.Factory, raw string) {
	var names []string
	for _, name := range strings.Fields(raw) {
		if !f.HasEngine(name) {
			l.logger.Warn().Str("engine", name).Msg("Preference list names an unknown engine, dropping")
			continue
		}
		names = append(names, name)
	}
	f.SetPreferenceList(names)
}

// sectionRef extracts a loadable reference from an engine section. Both
// keys are mandatory; an engine section without them is malformed.
func sectionRef(sec *ini.Section) (factory.Ref, error) {
	if !sec.HasKey(moduleNameKey) || !sec.HasKey(classNameKey) {
		return factory.Ref{}, factory.NewContractError(
			fmt.Sprintf("section must define both %s and %s", moduleNameKey, classNameKey))
	}
	return factory.Ref{
		Module: sec.Key(moduleNameKey).String(),
		Symbol: sec.Key(classNameKey).String(),
	}, nil
}
