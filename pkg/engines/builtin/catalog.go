package builtin

import (
	"github.com/openplan/openplan/pkg/factory"
)

// Module is the import path the builtin engines are registered under.
const Module = "github.com/openplan/openplan/pkg/engines/builtin"

// Register adds every builtin engine and meta-engine to the catalog.
func Register(c *factory.Catalog) {
	caps, credits, newFn := validatorDefinition()
	c.RegisterEngine(Module, "SequentialPlanValidator", &factory.Definition{
		Capabilities: caps,
		Credits:      credits,
		New:          newFn,
	})

	caps, credits, newFn = simulatorDefinition()
	c.RegisterEngine(Module, "SequentialSimulator", &factory.Definition{
		Capabilities: caps,
		Credits:      credits,
		New:          newFn,
	})

	for _, spec := range removerSpecs {
		caps, credits, newFn := removerDefinition(spec)
		c.RegisterEngine(Module, spec.symbol, &factory.Definition{
			Capabilities: caps,
			Credits:      credits,
			New:          newFn,
		})
	}

	c.RegisterMetaEngine(Module, "OversubscriptionPlanner", oversubscriptionMeta())
	c.RegisterMetaEngine(Module, "Replanner", replannerMeta())
}

// Catalog returns a fresh catalog holding only the builtin engines.
func Catalog() *factory.Catalog {
	c := factory.NewCatalog()
	Register(c)
	return c
}
