package effects

import "fmt"

// Builtin is the name of the pass-through effect every run starts with.
const Builtin = "textured"

// Loader compiles a named effect.
type Loader interface {
	Load(name string) (Effect, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(name string) (Effect, error)

func (f LoaderFunc) Load(name string) (Effect, error) { return f(name) }

// Resolve maps names to effects, reusing builtin for every "textured"
// entry. On failure the effects loaded so far are closed.
func Resolve(names []string, builtin Effect, loader Loader) ([]Effect, error) {
	if len(names) == 0 {
		names = []string{Builtin}
	}
	out := make([]Effect, 0, len(names))
	for _, name := range names {
		if name == Builtin {
			out = append(out, builtin)
			continue
		}
		e, err := loader.Load(name)
		if err != nil {
			closeOwned(out)
			return nil, fmt.Errorf("load effect %q: %w", name, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func closeOwned(effects []Effect) {
	for _, e := range effects {
		if !e.Shared() {
			_ = e.Close()
		}
	}
}
