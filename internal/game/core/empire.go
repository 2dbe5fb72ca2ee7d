package core

// Empire is the identity record of a player. It owns influence sources and
// movers through their registries; it carries no per-turn simulation data.
type Empire struct {
	ID      EmpireID
	Name    string
	Culture string
	Human   bool

	// Capital is the source that receives tribute; NoSource once lost.
	Capital SourceID

	// Forbidden lists terrain its movers may not enter.
	Forbidden TerrainSet

	Discoveries []string
	Eliminated  bool
}

// HasDiscovery reports whether the empire already applied the named discovery.
func (e *Empire) HasDiscovery(key string) bool {
	for _, d := range e.Discoveries {
		if d == key {
			return true
		}
	}
	return false
}

// EmpireRegistry is the dense id-indexed store of empires.
type EmpireRegistry struct {
	items []*Empire
}

func NewEmpireRegistry() *EmpireRegistry {
	return &EmpireRegistry{}
}

// Add stores e at its id, growing the registry as needed.
func (r *EmpireRegistry) Add(e *Empire) {
	for int(e.ID) >= len(r.items) {
		r.items = append(r.items, nil)
	}
	r.items[e.ID] = e
}

// Get returns the empire for id, or false when the id is unknown.
func (r *EmpireRegistry) Get(id EmpireID) (*Empire, bool) {
	if id < 0 || int(id) >= len(r.items) || r.items[id] == nil {
		return nil, false
	}
	return r.items[id], true
}

// All returns every registered empire in id order.
func (r *EmpireRegistry) All() []*Empire {
	out := make([]*Empire, 0, len(r.items))
	for _, e := range r.items {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Alive returns the empires that have not been eliminated, in id order.
func (r *EmpireRegistry) Alive() []*Empire {
	out := make([]*Empire, 0, len(r.items))
	for _, e := range r.items {
		if e != nil && !e.Eliminated {
			out = append(out, e)
		}
	}
	return out
}

// Culture returns the culture tag of an empire.
func (r *EmpireRegistry) Culture(id EmpireID) (string, bool) {
	e, ok := r.Get(id)
	if !ok {
		return "", false
	}
	return e.Culture, true
}

// CapitalOf returns the capital source of an empire.
func (r *EmpireRegistry) CapitalOf(id EmpireID) (SourceID, bool) {
	e, ok := r.Get(id)
	if !ok || e.Capital == NoSource {
		return NoSource, false
	}
	return e.Capital, true
}

// ClearCapital drops the capital pointer of an empire, e.g. after its capital fell.
func (r *EmpireRegistry) ClearCapital(id EmpireID) {
	if e, ok := r.Get(id); ok {
		e.Capital = NoSource
	}
}

// MarkEliminated flags an empire as out of the game.
func (r *EmpireRegistry) MarkEliminated(id EmpireID) {
	if e, ok := r.Get(id); ok {
		e.Eliminated = true
	}
}
