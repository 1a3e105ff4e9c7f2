package greeter

import (
	"fmt"
	"io"
)

// Greeter formats "<greeting> <thing>" lines.
type Greeter struct {
	greeting string
}

// New keeps greeting verbatim.
func New(greeting string) *Greeter {
	return &Greeter{greeting: greeting}
}

// Greeting returns "<greeting> <thing>".
func (g *Greeter) Greeting(thing string) string {
	return g.greeting + " " + thing
}

// Greet writes the greeting as one line to w.
func (g *Greeter) Greet(w io.Writer, thing string) error {
	if _, err := fmt.Fprintln(w, g.Greeting(thing)); err != nil {
		return fmt.Errorf("failed to print greeting: %w", err)
	}
	return nil
}
