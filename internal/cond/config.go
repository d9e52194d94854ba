package cond

// ConfigKind selects how Config.Lookup treats identifiers absent from its
// set/map.
type ConfigKind uint8

const (
	// Enabled treats every identifier in Set as true and every other
	// identifier as false — it never produces Unknown.
	Enabled ConfigKind = iota
	// Strict treats every identifier in Map according to its mapped value
	// and every other identifier as Unknown.
	Strict
)

// Config is the build configuration a conditional-compilation expression is
// evaluated against.
type Config struct {
	Kind ConfigKind
	Set  map[string]struct{} // used when Kind == Enabled
	Map  map[string]bool     // used when Kind == Strict
}

// NewEnabledConfig builds a Config in Enabled mode from the given set of
// identifiers that should evaluate to true.
func NewEnabledConfig(names ...string) Config {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return Config{Kind: Enabled, Set: set}
}

// NewStrictConfig builds a Config in Strict mode from an explicit
// identifier-to-boolean map.
func NewStrictConfig(values map[string]bool) Config {
	return Config{Kind: Strict, Map: values}
}

// Lookup resolves a bare identifier against the configuration.
func (c Config) Lookup(name string) Tristate {
	switch c.Kind {
	case Enabled:
		if _, ok := c.Set[name]; ok {
			return True
		}
		return False
	case Strict:
		if v, ok := c.Map[name]; ok {
			if v {
				return True
			}
			return False
		}
		return Unknown
	default:
		return Unknown
	}
}
