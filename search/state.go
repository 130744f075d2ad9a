package search

import "github.com/google/uuid"

// Phase is where a session currently is.
type Phase string

const (
	PhaseInit            Phase = "INIT"
	PhaseFetchingInitial Phase = "FETCHING_INITIAL"
	PhaseIdle            Phase = "IDLE"
	PhasePageAdvanced    Phase = "PAGE_ADVANCED"
	PhaseFetchingMore    Phase = "FETCHING_MORE"
)

// Outcome is what Complete did with a fetch result.
type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomeFailed
	OutcomeStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeFailed:
		return "failed"
	default:
		return "stale"
	}
}

// Ticket ties an issued Request to the session epoch it was issued in.
type Ticket struct {
	Epoch   uint64
	Request Request
}

// Snapshot is a read-only copy of the view state.
type Snapshot struct {
	Session  string
	Epoch    uint64
	Params   Params
	Products []Product
	Loading  bool
	Page     int
	Cursor   string
	Phase    Phase
	Summary  string
}

// State is the view state of one controller. It is not safe for concurrent
// use; Controller confines it to its run loop.
type State struct {
	session  string
	epoch    uint64
	params   Params
	products []Product
	cursor   string
	page     int
	loading  bool
	phase    Phase
}

func NewState() *State {
	return &State{page: 1, phase: PhaseInit}
}

// Reset starts a new session for p. Results of requests issued before the
// reset are stale from now on.
func (s *State) Reset(p Params) {
	s.epoch++
	s.session = uuid.NewString()
	s.params = p
	s.products = nil
	s.cursor = ""
	s.page = 1
	s.loading = false
	s.phase = PhaseInit
}

// BeginInitial marks the first page as in flight.
func (s *State) BeginInitial(first int) Ticket {
	s.loading = true
	s.phase = PhaseFetchingInitial
	return Ticket{Epoch: s.epoch, Request: s.params.request(s.cursor, s.page, first)}
}

// AdvancePage bumps the page counter when v is near the bottom and nothing is
// loading. It reports whether the counter moved.
func (s *State) AdvancePage(v Viewport, threshold float64) bool {
	if s.epoch == 0 || s.loading || !v.NearBottom(threshold) {
		return false
	}
	s.page++
	s.phase = PhasePageAdvanced
	return true
}

// BeginMore marks the next page as in flight. Page 1 belongs to the initial
// fetch, so nothing is issued until the counter is past it.
func (s *State) BeginMore(first int) (Ticket, bool) {
	if s.loading || s.page <= 1 {
		return Ticket{}, false
	}
	s.loading = true
	s.phase = PhaseFetchingMore
	return Ticket{Epoch: s.epoch, Request: s.params.request(s.cursor, s.page, first)}, true
}

// Complete merges the result of t. A failed fetch leaves products and cursor
// untouched; either way loading is cleared.
func (s *State) Complete(t Ticket, page Page, err error) Outcome {
	if t.Epoch != s.epoch || !s.loading {
		return OutcomeStale
	}
	s.loading = false
	s.phase = PhaseIdle
	if err != nil {
		return OutcomeFailed
	}
	s.products = append(s.products, page.Products...)
	s.cursor = page.EndCursor
	return OutcomeApplied
}

func (s *State) Loading() bool { return s.loading }
func (s *State) Page() int { return s.page }
func (s *State) Cursor() string { return s.cursor }
func (s *State) Phase() Phase { return s.phase }
func (s *State) Epoch() uint64 { return s.epoch }
func (s *State) Session() string { return s.session }

// Products returns the accumulated results. The slice must not be modified.
func (s *State) Products() []Product { return s.products }

func (s *State) Snapshot() Snapshot {
	products := make([]Product, len(s.products))
	copy(products, s.products)
	return Snapshot{
		Session:  s.session,
		Epoch:    s.epoch,
		Params:   s.params,
		Products: products,
		Loading:  s.loading,
		Page:     s.page,
		Cursor:   s.cursor,
		Phase:    s.phase,
		Summary:  Summary(s.params.Query, len(s.products)),
	}
}
