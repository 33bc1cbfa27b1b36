package factory

import (
	"fmt"
	"io"
	"sync"

	"github.com/openplan/openplan/pkg/engine"
)

// creditsWriter appends attribution notices to a stream. Attribution is an
// observable side effect of successful resolutions, not part of their
// correctness contract: it never errors and never affects the outcome.
type creditsWriter struct {
	mu         sync.Mutex
	w          io.Writer
	disclaimed bool
}

func newCreditsWriter(w io.Writer) *creditsWriter {
	return &creditsWriter{w: w}
}

// emit writes one attribution block for a resolution. Nil credits entries
// are dropped; a block with no credits at all is skipped entirely. Write
// failures are swallowed.
func (c *creditsWriter) emit(mode engine.OperationMode, all []*engine.Credits) {
	if c == nil {
		return
	}
	credits := all[:0:0]
	for _, cr := range all {
		if cr != nil {
			credits = append(credits, cr)
		}
	}
	if len(credits) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.disclaimed {
		c.disclaimed = true
		fmt.Fprintf(c.w, "NOTE: engine credits output can be disabled by constructing the factory without a credits stream.\n")
	}
	fmt.Fprintf(c.w, "  *** Credits ***\n")
	if len(credits) > 1 {
		fmt.Fprintf(c.w, "  * In operation mode `%s` you are using a parallel engine with the following components:\n", mode)
	} else {
		fmt.Fprintf(c.w, "  * In operation mode `%s` you are using the following engine:\n", mode)
	}
	for _, cr := range credits {
		_ = cr.Write(c.w, false)
	}
	fmt.Fprintf(c.w, "\n")
}

// WriteEnginesInfo renders every registered engine with its credits and
// supported features, in registration order.
func (f *Factory) WriteEnginesInfo(w io.Writer, fullCredits bool) error {
	if _, err := fmt.Fprintf(w, "These are the engines currently available:\n"); err != nil {
		return err
	}
	for _, name := range f.engineOrder {
		d := f.engines[name]
		if _, err := fmt.Fprintf(w, "---------------------------------------\n%s\n", name); err != nil {
			return err
		}
		if err := d.Credits().Write(w, fullCredits); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "This engine supports the following features:\n%s\n\n",
			d.Capabilities().SupportedKind()); err != nil {
			return err
		}
	}
	return nil
}
