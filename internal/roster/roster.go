// Package roster owns the in-memory contact collection. Edits apply locally
// at once and are persisted in the background; a failed write is reported
// but never rolled back, so local state may drift until the next Load.
package roster

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mph-llm-experiments/fika/internal/clock"
	"github.com/mph-llm-experiments/fika/internal/logger"
	"github.com/mph-llm-experiments/fika/internal/model"
	"github.com/mph-llm-experiments/fika/internal/schedule"
	"github.com/mph-llm-experiments/fika/internal/store"
)

// ErrUnknownContact is returned for ids the roster does not hold.
var ErrUnknownContact = errors.New("unknown contact")

// DefaultSnooze is the snooze length when none is given.
const DefaultSnooze = 24 * time.Hour

// Op names a background write.
type Op string

const (
	OpUpdate      Op = "update"
	OpDelete      Op = "delete"
	OpInteraction Op = "interaction"
)

// Failure describes a background write that did not persist.
type Failure struct {
	Op        Op
	ContactID string
	Err       error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Op, f.ContactID, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Options configures a Roster.
type Options struct {
	Clock clock.Clock
	Tiers model.Tiers
	// FailureBuffer sizes the Failures channel. Failures beyond it are dropped.
	FailureBuffer int
}

// Roster is the owned contact collection.
type Roster struct {
	store store.Store
	clock clock.Clock
	tiers model.Tiers

	mu       sync.Mutex
	contacts []model.Contact

	writes   writer
	failures chan Failure
}

// New returns an empty roster backed by s. Call Load to fill it.
func New(s store.Store, opts Options) *Roster {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if len(opts.Tiers) == 0 {
		opts.Tiers = model.DefaultTiers()
	}
	if opts.FailureBuffer < 1 {
		opts.FailureBuffer = 16
	}
	r := &Roster{
		store:    s,
		clock:    opts.Clock,
		tiers:    opts.Tiers,
		contacts: []model.Contact{},
		failures: make(chan Failure, opts.FailureBuffer),
	}
	r.writes.lanes = make(map[string]*lane)
	r.writes.latest = make(map[string]uint64)
	r.writes.report = r.report
	return r
}

// Tiers returns the tier definitions in board order.
func (r *Roster) Tiers() model.Tiers {
	return r.tiers
}

// Now reads the roster's clock.
func (r *Roster) Now() time.Time {
	return r.clock.Now()
}

// Failures delivers background write failures.
func (r *Roster) Failures() <-chan Failure {
	return r.failures
}

// Wait blocks until every queued write has finished.
func (r *Roster) Wait() {
	r.writes.wg.Wait()
}

// Load replaces local state with the store's contents.
func (r *Roster) Load(ctx context.Context) error {
	contacts, err := r.store.List(ctx)
	if err != nil {
		return fmt.Errorf("load contacts: %w", err)
	}
	r.mu.Lock()
	r.contacts = contacts
	r.mu.Unlock()
	logger.Debug("roster loaded", "contacts", len(contacts))
	return nil
}

// Contacts returns a copy of the collection in its current order.
func (r *Roster) Contacts() []model.Contact {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Contact, len(r.contacts))
	for i, c := range r.contacts {
		out[i] = c.Clone()
	}
	return out
}

// Find returns the contact with id, matching the numeric index id first.
func (r *Roster) Find(id string) (model.Contact, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.contacts {
		if c.IndexID > 0 && fmt.Sprint(c.IndexID) == id {
			return c.Clone(), true
		}
	}
	for _, c := range r.contacts {
		if c.ID == id {
			return c.Clone(), true
		}
	}
	return model.Contact{}, false
}

// Add creates a contact synchronously, since the store assigns its identity.
func (r *Roster) Add(ctx context.Context, draft model.Contact) (model.Contact, error) {
	draft.ApplyDefaults(r.clock.Now())
	created, err := r.store.Create(ctx, draft)
	if err != nil {
		return model.Contact{}, fmt.Errorf("create contact: %w", err)
	}
	r.mu.Lock()
	r.contacts = append(r.contacts, created.Clone())
	r.mu.Unlock()
	logger.Info("contact created", "id", created.ID, "name", created.Name)
	return created, nil
}

// Connect records an interaction now: both last-contact timestamps move to
// now and any snooze is cleared.
func (r *Roster) Connect(id string, typ model.InteractionType, note string) (model.Contact, error) {
	if typ == "" {
		typ = model.InteractionNote
	}
	now := r.clock.Now()

	updated, err := r.mutate(id, func(c *model.Contact) {
		c.LastContactedAt = model.At(now)
		c.LastInteractionAt = model.At(now)
		c.SnoozedUntil = model.Timestamp{}
		c.UpdatedAt = model.At(now)
	})
	if err != nil {
		return model.Contact{}, err
	}

	in := model.Interaction{ContactID: updated.ID, At: model.At(now), Type: typ, Note: note}
	r.writes.enqueue(updated.ID, OpInteraction, func(ctx context.Context) error {
		return r.store.LogInteraction(ctx, in)
	})
	r.persist(updated)
	return updated, nil
}

// Snooze hides a contact until now+d. A non-positive d means DefaultSnooze.
func (r *Roster) Snooze(id string, d time.Duration) (model.Contact, error) {
	if d <= 0 {
		d = DefaultSnooze
	}
	now := r.clock.Now()

	updated, err := r.mutate(id, func(c *model.Contact) {
		c.SnoozedUntil = model.At(now.Add(d))
		c.UpdatedAt = model.At(now)
	})
	if err != nil {
		return model.Contact{}, err
	}
	r.persist(updated)
	return updated, nil
}

// Reassign moves a contact onto a tier or onto another contact. It reports
// false when the drop was a no-op.
func (r *Roster) Reassign(id string, target schedule.Target) bool {
	r.mu.Lock()
	next, changed := schedule.Reassign(r.contacts, r.tiers, id, target)
	if !changed {
		r.mu.Unlock()
		return false
	}
	var moved model.Contact
	for i := range next {
		if next[i].ID == id {
			next[i].UpdatedAt = model.At(r.clock.Now())
			moved = next[i].Clone()
			break
		}
	}
	r.contacts = next
	r.mu.Unlock()

	logger.Debug("contact reassigned", "id", id, "tier", moved.Tier)
	r.persist(moved)
	return true
}

// Save replaces a contact's editable fields with c.
func (r *Roster) Save(c model.Contact) (model.Contact, error) {
	now := r.clock.Now()
	updated, err := r.mutate(c.ID, func(existing *model.Contact) {
		indexID, created := existing.IndexID, existing.CreatedAt
		*existing = c.Clone()
		existing.IndexID = indexID
		existing.CreatedAt = created
		existing.UpdatedAt = model.At(now)
	})
	if err != nil {
		return model.Contact{}, err
	}
	r.persist(updated)
	return updated, nil
}

// Delete removes a contact locally and from the store.
func (r *Roster) Delete(id string) error {
	r.mu.Lock()
	idx := -1
	for i := range r.contacts {
		if r.contacts[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownContact, id)
	}
	r.contacts = append(r.contacts[:idx:idx], r.contacts[idx+1:]...)
	r.mu.Unlock()

	r.writes.enqueue(id, OpDelete, func(ctx context.Context) error {
		return r.store.Delete(ctx, id)
	})
	return nil
}

// Interactions reads a contact's log from the store, newest first.
func (r *Roster) Interactions(ctx context.Context, id string) ([]model.Interaction, error) {
	return r.store.Interactions(ctx, id)
}

// Due returns the contacts due now, most urgent first.
func (r *Roster) Due() []model.Contact {
	now := r.clock.Now()
	return schedule.SortByUrgency(schedule.DueToday(r.Contacts(), r.tiers, now), r.tiers, now)
}

// Board groups tier-mode contacts into warmth-annotated columns.
func (r *Roster) Board() []schedule.Column {
	return schedule.Board(r.Contacts(), r.tiers, r.clock.Now())
}

// Nudges suggests up to limit cold contacts to reach out to.
func (r *Roster) Nudges(limit int) []schedule.Nudge {
	return schedule.Nudges(r.Contacts(), r.tiers, r.clock.Now(), limit)
}

func (r *Roster) mutate(id string, fn func(*model.Contact)) (model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.contacts {
		if r.contacts[i].ID == id {
			fn(&r.contacts[i])
			return r.contacts[i].Clone(), nil
		}
	}
	return model.Contact{}, fmt.Errorf("%w: %s", ErrUnknownContact, id)
}

func (r *Roster) persist(c model.Contact) {
	r.writes.enqueue(c.ID, OpUpdate, func(ctx context.Context) error {
		return r.store.Update(ctx, c.ID, c)
	})
}

func (r *Roster) report(f Failure) {
	logger.Warn("write failed", "op", f.Op, "id", f.ContactID, "err", f.Err)
	select {
	case r.failures <- f:
	default:
		logger.Debug("failure dropped, channel full", "op", f.Op, "id", f.ContactID)
	}
}
