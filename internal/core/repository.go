package core

// Repository is the ordered collection of a control's expectations, plus the
// per-group ordering state. It is not safe for concurrent use on its own;
// the owning control serializes access.
type Repository struct {
	expectations []*Expectation
	groups       map[string]*orderGroup
}

// orderGroup is a named partition of expectations that must be satisfied in
// the exact sequence they were recorded. cursor is the index of the earliest
// member that may still accept calls: matching a later member moves the
// cursor forward, and earlier members become permanently ineligible.
type orderGroup struct {
	members []*Expectation
	cursor  int
}

func NewRepository() *Repository {
	return &Repository{groups: make(map[string]*orderGroup)}
}

// Add appends the expectation in recording order.
func (r *Repository) Add(e *Expectation) {
	r.expectations = append(r.expectations, e)

	if e.grouped {
		r.addToGroup(e, e.group)
	}
}

func (r *Repository) addToGroup(e *Expectation, name string) {
	group, ok := r.groups[name]
	if !ok {
		group = &orderGroup{}
		r.groups[name] = group
	}

	group.members = append(group.members, e)
}

// regroup moves an already-added expectation into (or out of) an order
// group. Used by the fluent recording handle, which learns the group after
// the expectation exists.
func (r *Repository) regroup(e *Expectation, name string, grouped bool) {
	if e.grouped {
		old := r.groups[e.group]
		for i, member := range old.members {
			if member == e {
				old.members = append(old.members[:i], old.members[i+1:]...)

				break
			}
		}
	}

	e.group = name
	e.grouped = grouped

	if grouped {
		r.addToGroup(e, name)
	}
}

// FindMatch resolves an invocation to the expectation that should serve it,
// or reports why none can.
//
// Grouped expectations are only eligible while they sit in their group's
// eligible window: scanning forward from the group cursor, an expectation
// may not be skipped until its minimum is satisfied. Ungrouped expectations
// are eligible until exhausted.
//
// Among eligible candidates the policy is greedy-fill-required-first: the
// first pass (in recording order) only accepts expectations still below
// their minimum, the second accepts any below their maximum. This keeps an
// optional expectation from starving a required one that matches the same
// call.
//
// The returned error is non-nil only for an ordering violation: the call
// matched a recorded expectation that is outside its group's eligible
// window. A plain miss returns (nil, nil).
func (r *Repository) FindMatch(inv Invocation) (*Expectation, error) {
	required := func(e *Expectation) bool { return !e.Satisfied() }
	anyOpen := func(e *Expectation) bool { return !e.Exhausted() }

	for _, pass := range []func(*Expectation) bool{required, anyOpen} {
		for _, e := range r.expectations {
			if !pass(e) || e.Exhausted() || !r.eligible(e) {
				continue
			}

			if e.Matches(inv) {
				r.advanceCursor(e)

				return e, nil
			}
		}
	}

	// No eligible expectation accepts the call. If an ineligible grouped one
	// does, this is a sequencing violation rather than a miss.
	for _, e := range r.expectations {
		if e.grouped && !r.eligible(e) && e.Matches(inv) {
			return nil, &UnexpectedCallError{
				Call:        inv,
				OrderingHit: true,
				Outstanding: r.Outstanding(),
			}
		}
	}

	return nil, nil
}

// eligible reports whether the expectation may accept a call right now,
// considering only ordering (not its own count limit).
func (r *Repository) eligible(e *Expectation) bool {
	if !e.grouped {
		return true
	}

	group := r.groups[e.group]
	for pos := group.cursor; pos < len(group.members); pos++ {
		member := group.members[pos]
		if member == e {
			return true
		}

		// Cannot reach past an expectation whose minimum is unmet.
		if !member.Satisfied() {
			return false
		}
	}

	return false
}

func (r *Repository) advanceCursor(e *Expectation) {
	if !e.grouped {
		return
	}

	group := r.groups[e.group]
	for pos := group.cursor; pos < len(group.members); pos++ {
		if group.members[pos] == e {
			group.cursor = pos

			return
		}
	}
}

// Outstanding describes every expectation that is not yet exhausted, in
// recording order, for unexpected-call diagnostics.
func (r *Repository) Outstanding() []string {
	var lines []string

	for _, e := range r.expectations {
		if !e.Exhausted() {
			lines = append(lines, e.Describe())
		}
	}

	return lines
}

// Verify returns a VerificationError enumerating every expectation whose
// minimum call count was not reached, in recording order. Returns nil when
// everything required was satisfied.
func (r *Repository) Verify() error {
	var unmet []string

	for _, e := range r.expectations {
		if !e.Satisfied() {
			unmet = append(unmet, e.Describe())
		}
	}

	if len(unmet) > 0 {
		return &VerificationError{Unmet: unmet}
	}

	return nil
}

// Reset discards all expectations and order-group state.
func (r *Repository) Reset() {
	r.expectations = nil
	r.groups = make(map[string]*orderGroup)
}

// Len returns the number of recorded expectations.
func (r *Repository) Len() int { return len(r.expectations) }
