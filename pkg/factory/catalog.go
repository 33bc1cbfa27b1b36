package factory

import (
	"github.com/openplan/openplan/pkg/engine"
)

// Ref identifies a loadable engine implementation: a module path and the
// exported symbol inside it. Refs are the transportable half of a
// registration; the Catalog maps them to the actual constructors.
type Ref struct {
	// Module is the import path of the package providing the engine.
	Module string `json:"module_name"`

	// Symbol is the exported constructor name inside the module.
	Symbol string `json:"class_name"`
}

// Definition is what a catalog entry provides for a plain engine: the
// statically declared capabilities, optional credits, and a constructor.
type Definition struct {
	// Capabilities are the engine's declared predicates. Required.
	Capabilities engine.Capabilities

	// Credits is the attribution notice, or nil.
	Credits *engine.Credits

	// New builds an engine instance with the given engine-specific
	// parameters. Required.
	New func(params map[string]string) (engine.Engine, error)
}

// MetaDefinition is what a catalog entry provides for a meta-engine: a
// compatibility predicate and a composition function deriving a new
// Definition from a compatible base engine.
type MetaDefinition struct {
	// Credits is the attribution notice, or nil.
	Credits *engine.Credits

	// IsCompatible reports whether the meta-engine can wrap the base.
	IsCompatible func(base *Descriptor) bool

	// Compose derives the composed engine's definition from the base.
	// The composed definition reports its own capabilities; the factory
	// does not compute them.
	Compose func(base *Descriptor) (*Definition, error)
}

// Catalog is the typed loader registry: it maps Refs to engine and
// meta-engine definitions. It stands in for dynamic module loading; a Ref
// absent from the catalog is an unloadable reference.
//
// A Catalog is populated once at startup and read afterwards; it is not
// safe for concurrent mutation.
type Catalog struct {
	engines map[Ref]*Definition
	metas   map[Ref]*MetaDefinition
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		engines: make(map[Ref]*Definition),
		metas:   make(map[Ref]*MetaDefinition),
	}
}

// RegisterEngine adds a plain engine definition under the given ref.
// Re-registering a ref overwrites the previous definition.
func (c *Catalog) RegisterEngine(module, symbol string, def *Definition) {
	c.engines[Ref{Module: module, Symbol: symbol}] = def
}

// RegisterMetaEngine adds a meta-engine definition under the given ref.
func (c *Catalog) RegisterMetaEngine(module, symbol string, def *MetaDefinition) {
	c.metas[Ref{Module: module, Symbol: symbol}] = def
}

// Engine looks up a plain engine definition.
func (c *Catalog) Engine(ref Ref) (*Definition, bool) {
	def, ok := c.engines[ref]
	return def, ok
}

// MetaEngine looks up a meta-engine definition.
func (c *Catalog) MetaEngine(ref Ref) (*MetaDefinition, bool) {
	def, ok := c.metas[ref]
	return def, ok
}

// Descriptor is a registry entry: a named, loadable engine together with its
// definition. Descriptors are immutable after creation.
type Descriptor struct {
	name     string
	ref      Ref
	def      *Definition
	metaName string
	baseName string
}

// Name returns the engine's unique registered name. For meta-composed
// engines the name has the form "meta[base]".
func (d *Descriptor) Name() string {
	return d.name
}

// Ref returns the loadable reference the descriptor was registered from.
// For meta-composed engines this is the meta-engine's ref.
func (d *Descriptor) Ref() Ref {
	return d.ref
}

// Capabilities returns the engine's declared predicates.
func (d *Descriptor) Capabilities() engine.Capabilities {
	return d.def.Capabilities
}

// Credits returns the engine's attribution notice, or nil.
func (d *Descriptor) Credits() *engine.Credits {
	return d.def.Credits
}

// Composed reports whether the descriptor was derived by a meta-engine,
// returning the meta and base names when it was.
func (d *Descriptor) Composed() (metaName, baseName string, ok bool) {
	return d.metaName, d.baseName, d.metaName != ""
}

// New instantiates the engine with the given parameters.
func (d *Descriptor) New(params map[string]string) (engine.Engine, error) {
	return d.def.New(params)
}
