// Package demo implements the guided-tour simulator. A Runner drives a
// dedicated demo project through the real mutation paths in internal/pen,
// so every fabricated update produces the same activities and timestamp
// stamps a human operator would. Demo data never mixes with live projects.
package demo

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/zulandar/penlog/internal/models"
	"github.com/zulandar/penlog/internal/pen"
	"github.com/zulandar/penlog/internal/status"
	"gorm.io/gorm"
)

const (
	defaultInterval = 2 * time.Second
	defaultBudget   = 20
	defaultMaxPens  = 30
	createChance    = 0.4
	logCap          = 10

	// actorName is recorded on every activity the simulator writes.
	actorName = "Demo"
)

// Sample data the simulator fabricates pens from.
var (
	demoDecks = []string{"Deck 3", "Deck 4", "Deck 5", "Deck 6", "Deck 7"}
	demoZones = []string{"MVZ 1", "MVZ 2", "MVZ 3"}
	demoTypes = []string{"cable", "pipe", "duct", "mixed"}
	demoNotes = []string{
		"",
		"sealed with transit block",
		"awaiting coaming weld",
		"re-packed after inspection",
	}
)

// LogEntry is one line of the simulator's rolling activity log.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// Opts holds Runner parameters. Zero values take the defaults above.
type Opts struct {
	ProjectID uint
	Interval  time.Duration
	Budget    int
	MaxPens   int
	Seed      int64 // 0 means seed from the clock
	Out       io.Writer
}

// Runner drives one demo project. All exported methods are safe for
// concurrent use with a running loop.
type Runner struct {
	db        *gorm.DB
	projectID uint
	interval  time.Duration
	budget    int
	maxPens   int
	out       io.Writer

	mu        sync.Mutex
	rng       *rand.Rand
	remaining int
	paused    bool
	halted    bool
	seq       int
	entries   []LogEntry
}

// NewRunner builds a Runner for the given demo project.
func NewRunner(db *gorm.DB, opts Opts) (*Runner, error) {
	if db == nil {
		return nil, fmt.Errorf("demo: db is required")
	}
	if opts.ProjectID == 0 {
		return nil, fmt.Errorf("demo: project is required")
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.Budget <= 0 {
		opts.Budget = defaultBudget
	}
	if opts.MaxPens <= 0 {
		opts.MaxPens = defaultMaxPens
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Runner{
		db:        db,
		projectID: opts.ProjectID,
		interval:  opts.Interval,
		budget:    opts.Budget,
		maxPens:   opts.MaxPens,
		out:       opts.Out,
		rng:       rand.New(rand.NewSource(opts.Seed)),
		remaining: opts.Budget,
	}, nil
}

// Run executes the simulator loop until the context is cancelled, the
// update budget is exhausted, or every pen on the project is verified.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	fmt.Fprintf(r.out, "Demo simulator starting (every %s, %d updates)...\n", r.interval, r.budget)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		done, err := r.Tick()
		if err != nil {
			log.Printf("demo tick error: %v", err)
			continue
		}
		if done {
			fmt.Fprintf(r.out, "Demo simulator finished.\n")
			return nil
		}
	}
}

// Tick performs a single simulator step: either fabricate a new pen or
// advance a random unfinished one. Returns done=true when the run is over.
func (r *Runner) Tick() (bool, error) {
	r.mu.Lock()
	if r.paused {
		r.mu.Unlock()
		return false, nil
	}
	if r.halted || r.remaining <= 0 {
		r.halted = true
		r.mu.Unlock()
		return true, nil
	}
	r.mu.Unlock()

	pens, err := pen.List(r.db, pen.ListFilters{ProjectID: r.projectID})
	if err != nil {
		return false, err
	}

	var open []models.Penetration
	for _, p := range pens {
		if p.Status != string(status.Verified) {
			open = append(open, p)
		}
	}
	if len(pens) > 0 && len(open) == 0 {
		r.record("All pens verified")
		r.mu.Lock()
		r.halted = true
		r.mu.Unlock()
		return true, nil
	}

	r.mu.Lock()
	makeNew := len(open) == 0 ||
		(len(pens) < r.maxPens && r.rng.Float64() < createChance)
	r.mu.Unlock()

	if makeNew {
		err = r.createPen(pens)
	} else {
		err = r.advancePen(open)
	}
	if err != nil {
		return false, err
	}

	r.mu.Lock()
	r.remaining--
	done := r.remaining <= 0
	if done {
		r.halted = true
	}
	r.mu.Unlock()
	if done {
		r.record("Update budget exhausted")
	}
	return done, nil
}

func (r *Runner) createPen(existing []models.Penetration) error {
	r.mu.Lock()
	r.seq++
	number := fmt.Sprintf("D-%03d", r.seq)
	deck := demoDecks[r.rng.Intn(len(demoDecks))]
	zone := demoZones[r.rng.Intn(len(demoZones))]
	ptype := demoTypes[r.rng.Intn(len(demoTypes))]
	frame := fmt.Sprintf("Fr %d", 20+r.rng.Intn(120))
	r.mu.Unlock()

	// Sequence numbers restart with the runner, so skip collisions with
	// pens left over from an earlier run.
	for _, p := range existing {
		if p.PenNumber == number {
			return nil
		}
	}

	p, err := pen.Create(r.db, pen.CreateOpts{
		ProjectID: r.projectID,
		PenNumber: number,
		Deck:      deck,
		FireZone:  zone,
		Frame:     frame,
		PenType:   ptype,
		Location:  fmt.Sprintf("%s, %s", deck, frame),
		Username:  actorName,
	})
	if err != nil {
		return err
	}
	r.record(fmt.Sprintf("New pen %s on %s", p.PenNumber, p.Deck))
	return nil
}

func (r *Runner) advancePen(open []models.Penetration) error {
	r.mu.Lock()
	target := open[r.rng.Intn(len(open))]
	note := demoNotes[r.rng.Intn(len(demoNotes))]
	r.mu.Unlock()

	next := status.Next(status.Status(target.Status))
	updated, err := pen.UpdateStatus(r.db, target.ID, string(next), note, actorName)
	if err != nil {
		return err
	}
	r.record(fmt.Sprintf("Pen %s → %s", updated.PenNumber, status.Label(next)))
	return nil
}

// Pause suspends ticking without ending the run.
func (r *Runner) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = true
}

// Resume continues a paused run.
func (r *Runner) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = false
}

// Paused reports whether the runner is currently paused.
func (r *Runner) Paused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

// Done reports whether the run has halted (budget spent or all verified).
func (r *Runner) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.halted
}

// Remaining returns the number of updates left in the budget.
func (r *Runner) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// Log returns the rolling activity log, newest first.
func (r *Runner) Log() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]LogEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Reset wipes the demo project's pens, restores the update budget, and
// reseeds a small starting register.
func (r *Runner) Reset() error {
	pens, err := pen.List(r.db, pen.ListFilters{ProjectID: r.projectID})
	if err != nil {
		return err
	}
	for _, p := range pens {
		if err := pen.Delete(r.db, p.ID); err != nil {
			return fmt.Errorf("demo: reset: %w", err)
		}
	}

	r.mu.Lock()
	r.remaining = r.budget
	r.paused = false
	r.halted = false
	r.seq = 0
	r.entries = nil
	r.mu.Unlock()

	if err := r.seedInitial(); err != nil {
		return err
	}
	r.record("Demo project reset")
	return nil
}

// seedInitial creates a handful of pens in assorted states so the first
// dashboard view is not empty.
func (r *Runner) seedInitial() error {
	starting := []string{
		string(status.NotStarted),
		string(status.NotStarted),
		string(status.Open),
		string(status.Open),
		string(status.Closed),
		string(status.Verified),
	}
	for i, st := range starting {
		r.mu.Lock()
		r.seq++
		number := fmt.Sprintf("D-%03d", r.seq)
		deck := demoDecks[i%len(demoDecks)]
		r.mu.Unlock()

		p, err := pen.Create(r.db, pen.CreateOpts{
			ProjectID: r.projectID,
			PenNumber: number,
			Deck:      deck,
			FireZone:  demoZones[i%len(demoZones)],
			PenType:   demoTypes[i%len(demoTypes)],
			Location:  deck,
			Username:  actorName,
		})
		if err != nil {
			return err
		}
		// Walk seeded pens to their target state through the normal
		// transition path so timestamps get stamped.
		for cur := status.Status(p.Status); cur != status.Status(st); {
			cur = status.Next(cur)
			if _, err := pen.UpdateStatus(r.db, p.ID, string(cur), "", actorName); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Runner) record(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry := LogEntry{Time: time.Now(), Message: msg}
	r.entries = append([]LogEntry{entry}, r.entries...)
	if len(r.entries) > logCap {
		r.entries = r.entries[:logCap]
	}
	fmt.Fprintf(r.out, "%s\n", msg)
}
