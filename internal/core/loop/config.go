package loop

// PhaseEntry is one phase of the loop together with its callback chain.
type PhaseEntry struct {
	Tag   Phase
	Chain Chain
}

// Configuration is the ordered phase list the host runs each frame.
type Configuration struct {
	Phases []PhaseEntry
}

// NewConfiguration builds a configuration with an empty chain per phase.
func NewConfiguration(phases ...Phase) Configuration {
	cfg := Configuration{Phases: make([]PhaseEntry, len(phases))}
	for i, p := range phases {
		cfg.Phases[i].Tag = p
	}
	return cfg
}

// Clone deep-copies the phase list and every chain.
func (c Configuration) Clone() Configuration {
	if c.Phases == nil {
		return Configuration{}
	}
	out := Configuration{Phases: make([]PhaseEntry, len(c.Phases))}
	for i, e := range c.Phases {
		out.Phases[i] = PhaseEntry{Tag: e.Tag, Chain: e.Chain.clone()}
	}
	return out
}

// Find returns the index of the first entry tagged p, or -1.
func (c Configuration) Find(p Phase) int {
	for i := range c.Phases {
		if c.Phases[i].Tag == p {
			return i
		}
	}
	return -1
}

// Tags lists the phase tags in order.
func (c Configuration) Tags() []Phase {
	out := make([]Phase, len(c.Phases))
	for i, e := range c.Phases {
		out[i] = e.Tag
	}
	return out
}
