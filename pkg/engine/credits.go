package engine

import (
	"fmt"
	"io"
)

// Credits is the attribution notice an engine carries. Engines without
// credits are attributed silently (nil is allowed everywhere).
type Credits struct {
	// Name is the display name of the engine or the project behind it.
	Name string

	// Author names the authors or the maintaining organization.
	Author string

	// Contact is an email address or similar contact point.
	Contact string

	// Website is the project home page.
	Website string

	// License is the license the engine is distributed under.
	License string

	// ShortDescription is a one-line description.
	ShortDescription string

	// LongDescription is an extended description, shown in full reports only.
	LongDescription string
}

// Write renders the credits to w. With full set, the long description is
// included. Write errors are returned so callers can decide to ignore them;
// attribution is never allowed to fail an operation.
func (c *Credits) Write(w io.Writer, full bool) error {
	if c == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "  * Engine name: %s\n  * Developers:  %s\n", c.Name, c.Author); err != nil {
		return err
	}
	desc := c.ShortDescription
	if full && c.LongDescription != "" {
		desc = c.LongDescription
	}
	if _, err := fmt.Fprintf(w, "  * Description: %s\n", desc); err != nil {
		return err
	}
	if full {
		if _, err := fmt.Fprintf(w, "  * Contact:     %s\n  * Website:     %s\n  * License:     %s\n",
			c.Contact, c.Website, c.License); err != nil {
			return err
		}
	}
	return nil
}
