package factory

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/openplan/openplan/pkg/telemetry"
)

// Instruction is one replayable registration: a name bound to a loadable
// reference. The ordered instruction lists are the only registry state that
// crosses a process boundary; loaded implementations never do.
type Instruction struct {
	// Name is the registry name the reference was registered under.
	Name string `json:"name"`

	// Ref is the loadable reference.
	Ref Ref `json:"ref"`
}

// Snapshot is the transportable state of a factory: the ordered plain and
// meta registration instructions plus the preference list. Replaying a
// snapshot against the same catalog deterministically reproduces the same
// set of engine names and compositions.
type Snapshot struct {
	Engines     []Instruction `json:"engines"`
	MetaEngines []Instruction `json:"meta_engines"`
	Preferences []string      `json:"preference_list"`
}

type metaEntry struct {
	def *MetaDefinition
	ref Ref
}

// Factory owns the authoritative mapping from engine names to loadable
// engines and resolves operation-mode requests against it.
//
// A Factory is built once per execution context and used from a single
// goroutine; registration and resolution are synchronous and never block on
// engine execution. Workers needing their own registry rebuild one from a
// Snapshot instead of sharing a factory.
type Factory struct {
	catalog *Catalog
	logger  zerolog.Logger
	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer
	credits *creditsWriter

	// engines maps registered name to descriptor; engineOrder keeps the
	// registration order (plain and composed) for deterministic iteration.
	engines     map[string]*Descriptor
	engineOrder []string
	engineInfo  []Instruction

	metas     map[string]*metaEntry
	metaOrder []string
	metaInfo  []Instruction

	preferences []string
}

// Option configures a Factory at construction.
type Option func(*Factory)

// WithLogger sets the factory's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *Factory) {
		f.logger = logger.With().Str("component", "factory").Logger()
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(f *Factory) { f.metrics = m }
}

// WithTracer sets the tracer used around operation-mode calls.
func WithTracer(t *telemetry.Tracer) Option {
	return func(f *Factory) { f.tracer = t }
}

// WithCreditsStream sets the stream attribution notices are written to.
// A nil stream (the default) disables attribution output.
func WithCreditsStream(w io.Writer) Option {
	return func(f *Factory) {
		if w != nil {
			f.credits = newCreditsWriter(w)
		}
	}
}

func newBare(catalog *Catalog, opts ...Option) *Factory {
	f := &Factory{
		catalog: catalog,
		logger:  zerolog.Nop(),
		engines: make(map[string]*Descriptor),
		metas:   make(map[string]*metaEntry),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// New builds a factory over the given catalog in three phases: best-effort
// registration of the default engine list (refs missing from the catalog are
// skipped silently), composition of the default meta-engines against the
// registered engines, and construction of the effective preference list from
// the recommended order.
func New(catalog *Catalog, opts ...Option) *Factory {
	f := newBare(catalog, opts...)

	for _, ins := range defaultEngines {
		if err := f.registerEngine(ins.Name, ins.Ref); err != nil {
			// Optional built-ins may be absent; not an error at this layer.
			f.logger.Debug().Str("engine", ins.Name).Msg("Default engine not available, skipping")
		}
	}

	bases := append([]string(nil), f.engineOrder...)
	for _, ins := range defaultMetaEngines {
		if err := f.registerMetaEngine(ins.Name, ins.Ref); err != nil {
			f.logger.Debug().Str("meta_engine", ins.Name).Msg("Default meta-engine not available, skipping")
			continue
		}
		f.composeAgainst(ins.Name, bases)
	}

	f.preferences = f.defaultPreferences()
	f.setEnginesGauge()
	return f
}

// NewFromSnapshot rebuilds a factory by replaying the snapshot's recorded
// registration instructions against the catalog. Instructions whose refs are
// not loadable in the new context are skipped with a warning; replaying the
// same instructions against the same catalog reproduces an identical set of
// names and compositions.
func NewFromSnapshot(catalog *Catalog, snap *Snapshot, opts ...Option) *Factory {
	f := newBare(catalog, opts...)

	for _, ins := range snap.Engines {
		if err := f.registerEngine(ins.Name, ins.Ref); err != nil {
			f.logger.Warn().Str("engine", ins.Name).Err(err).Msg("Failed to replay engine registration")
		}
	}

	bases := append([]string(nil), f.engineOrder...)
	for _, ins := range snap.MetaEngines {
		if err := f.registerMetaEngine(ins.Name, ins.Ref); err != nil {
			f.logger.Warn().Str("meta_engine", ins.Name).Err(err).Msg("Failed to replay meta-engine registration")
			continue
		}
		f.composeAgainst(ins.Name, bases)
	}

	f.preferences = append([]string(nil), snap.Preferences...)
	f.setEnginesGauge()
	return f
}

// Snapshot captures the factory's transportable state.
func (f *Factory) Snapshot() *Snapshot {
	return &Snapshot{
		Engines:     append([]Instruction(nil), f.engineInfo...),
		MetaEngines: append([]Instruction(nil), f.metaInfo...),
		Preferences: append([]string(nil), f.preferences...),
	}
}

// AddEngine loads and registers an engine under the given name. Unlike the
// best-effort default bootstrap, an unloadable reference is an error. The
// name is appended to the preference list, and every registered meta-engine
// compatible with the new engine contributes a composed engine as well.
func (f *Factory) AddEngine(name, module, symbol string) error {
	ref := Ref{Module: module, Symbol: symbol}
	if err := f.registerEngine(name, ref); err != nil {
		f.metrics.RecordRegistration("engine", false)
		return err
	}
	f.appendPreference(name)

	base := f.engines[name]
	for _, metaName := range f.metaOrder {
		composed, ok, err := f.compose(metaName, base)
		if err != nil {
			f.logger.Warn().Str("meta_engine", metaName).Str("engine", name).Err(err).
				Msg("Meta-engine composition failed")
			continue
		}
		if ok {
			f.appendPreference(composed)
		}
	}

	f.metrics.RecordRegistration("engine", true)
	f.setEnginesGauge()
	f.logger.Info().Str("engine", name).Str("module", module).Msg("Engine registered")
	return nil
}

// AddMetaEngine loads and registers a meta-engine, then composes it against
// every currently registered engine, appending each composed name to the
// preference list.
func (f *Factory) AddMetaEngine(name, module, symbol string) error {
	ref := Ref{Module: module, Symbol: symbol}
	if err := f.registerMetaEngine(name, ref); err != nil {
		f.metrics.RecordRegistration("meta_engine", false)
		return err
	}

	for _, composed := range f.composeAgainst(name, append([]string(nil), f.engineOrder...)) {
		f.appendPreference(composed)
	}

	f.metrics.RecordRegistration("meta_engine", true)
	f.setEnginesGauge()
	f.logger.Info().Str("meta_engine", name).Str("module", module).Msg("Meta-engine registered")
	return nil
}

// Engine returns the descriptor registered under name.
func (f *Factory) Engine(name string) (*Descriptor, error) {
	d, ok := f.engines[name]
	if !ok {
		return nil, NewNotFoundError(name)
	}
	return d, nil
}

// HasEngine reports whether name is registered.
func (f *Factory) HasEngine(name string) bool {
	_, ok := f.engines[name]
	return ok
}

// Engines returns the registered engine names in registration order.
func (f *Factory) Engines() []string {
	return append([]string(nil), f.engineOrder...)
}

// PreferenceList returns the current preference order.
func (f *Factory) PreferenceList() []string {
	return append([]string(nil), f.preferences...)
}

// SetPreferenceList replaces the whole preference list. The list may be a
// subset of the registered engines; an engine absent from the list is never
// selected by a capability search but remains addressable by name. Names
// not present in the registry are tolerated and ignored at resolution time.
func (f *Factory) SetPreferenceList(names []string) {
	f.preferences = append([]string(nil), names...)
}

// appendPreference appends name unless it is already preferred, so that
// re-applying an unchanged configuration leaves the list as it was.
func (f *Factory) appendPreference(name string) {
	for _, p := range f.preferences {
		if p == name {
			return
		}
	}
	f.preferences = append(f.preferences, name)
}

// recordInstruction appends the instruction, or replaces the one already
// held for the same name. Re-binding a name must not grow the snapshot.
func recordInstruction(list []Instruction, ins Instruction) []Instruction {
	for i := range list {
		if list[i].Name == ins.Name {
			list[i] = ins
			return list
		}
	}
	return append(list, ins)
}

// registerEngine loads the ref from the catalog and (re-)binds it to name.
func (f *Factory) registerEngine(name string, ref Ref) error {
	def, ok := f.catalog.Engine(ref)
	if !ok {
		return NewRegistrationError(
			fmt.Sprintf("engine reference %s.%s is not loadable", ref.Module, ref.Symbol), nil)
	}
	if _, exists := f.engines[name]; !exists {
		f.engineOrder = append(f.engineOrder, name)
	}
	f.engines[name] = &Descriptor{name: name, ref: ref, def: def}
	f.engineInfo = recordInstruction(f.engineInfo, Instruction{Name: name, Ref: ref})
	return nil
}

// registerMetaEngine loads the ref from the catalog and (re-)binds it to name.
func (f *Factory) registerMetaEngine(name string, ref Ref) error {
	def, ok := f.catalog.MetaEngine(ref)
	if !ok {
		return NewRegistrationError(
			fmt.Sprintf("meta-engine reference %s.%s is not loadable", ref.Module, ref.Symbol), nil)
	}
	if _, exists := f.metas[name]; !exists {
		f.metaOrder = append(f.metaOrder, name)
	}
	f.metas[name] = &metaEntry{def: def, ref: ref}
	f.metaInfo = recordInstruction(f.metaInfo, Instruction{Name: name, Ref: ref})
	return nil
}

// compose derives "meta[base]" when the meta-engine declares the base
// compatible. Recomposing an existing pair overwrites the previous result;
// with unchanged inputs the outcome is identical.
func (f *Factory) compose(metaName string, base *Descriptor) (string, bool, error) {
	entry := f.metas[metaName]
	if !entry.def.IsCompatible(base) {
		return "", false, nil
	}
	name := fmt.Sprintf("%s[%s]", metaName, base.name)
	def, err := entry.def.Compose(base)
	if err != nil {
		return "", false, NewRegistrationError(
			fmt.Sprintf("composing %s over %s", metaName, base.name), err)
	}
	if _, exists := f.engines[name]; !exists {
		f.engineOrder = append(f.engineOrder, name)
	}
	f.engines[name] = &Descriptor{
		name:     name,
		ref:      entry.ref,
		def:      def,
		metaName: metaName,
		baseName: base.name,
	}
	f.metrics.RecordComposition(metaName)
	return name, true, nil
}

// composeAgainst composes a registered meta-engine against the given base
// names, returning the composed names in base order.
func (f *Factory) composeAgainst(metaName string, bases []string) []string {
	var composed []string
	for _, baseName := range bases {
		base, ok := f.engines[baseName]
		if !ok {
			continue
		}
		name, ok, err := f.compose(metaName, base)
		if err != nil {
			f.logger.Warn().Str("meta_engine", metaName).Str("engine", baseName).Err(err).
				Msg("Meta-engine composition failed")
			continue
		}
		if ok {
			composed = append(composed, name)
		}
	}
	return composed
}

// defaultPreferences builds the effective preference list: the recommended
// order filtered to registered names, then the composed names of each
// default meta-engine in their fixed relative order.
func (f *Factory) defaultPreferences() []string {
	var prefs []string
	for _, name := range defaultPreferenceOrder {
		if _, ok := f.engines[name]; ok {
			prefs = append(prefs, name)
		}
	}
	for _, metaName := range defaultMetaPreferenceOrder {
		prefix := metaName + "["
		for _, name := range f.engineOrder {
			if len(name) > len(prefix) && name[:len(prefix)] == prefix {
				prefs = append(prefs, name)
			}
		}
	}
	return prefs
}

func (f *Factory) setEnginesGauge() {
	f.metrics.SetEnginesRegistered(len(f.engineOrder))
}
