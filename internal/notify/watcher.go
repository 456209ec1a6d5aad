package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/zulandar/penlog/internal/models"
	"github.com/zulandar/penlog/internal/pen"
	"github.com/zulandar/penlog/internal/stats"
	"github.com/zulandar/penlog/internal/status"
	"gorm.io/gorm"
)

// DefaultPollInterval is how often the watcher scans for new activities.
const DefaultPollInterval = 15 * time.Second

// Watcher polls the audit trail for noteworthy events: a critical pen
// being opened, any pen reaching verified, and a scheduled daily digest.
// Detected events are posted through the configured adapter.
type Watcher struct {
	db           *gorm.DB
	adapter      Adapter
	channelID    string
	pollInterval time.Duration
	digestCron   string // 5-field cron expression, empty disables the digest

	mu     sync.Mutex
	lastID uint // highest activity ID already examined
	seeded bool // true after the baseline poll
}

// WatcherOpts holds parameters for creating a Watcher.
type WatcherOpts struct {
	DB           *gorm.DB
	Adapter      Adapter
	ChannelID    string
	PollInterval time.Duration // defaults to DefaultPollInterval
	DigestCron   string        // e.g. "0 7 * * *"; empty disables the digest
}

// NewWatcher creates a Watcher.
func NewWatcher(opts WatcherOpts) (*Watcher, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("notify: watcher: db is required")
	}
	if opts.Adapter == nil {
		return nil, fmt.Errorf("notify: watcher: adapter is required")
	}
	poll := opts.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &Watcher{
		db:           opts.DB,
		adapter:      opts.Adapter,
		channelID:    opts.ChannelID,
		pollInterval: poll,
		digestCron:   opts.DigestCron,
	}, nil
}

// Run polls until the context is cancelled, delivering detected events and
// firing the daily digest on its cron schedule.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	var digestCh <-chan time.Time
	var digestTimer *time.Timer
	if w.digestCron != "" {
		if d := nextCronDuration(w.digestCron); d > 0 {
			digestTimer = time.NewTimer(d)
			digestCh = digestTimer.C
			defer digestTimer.Stop()
		} else {
			log.Printf("notify: invalid digest cron %q, digest disabled", w.digestCron)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			events, err := w.Poll()
			if err != nil {
				log.Printf("notify: poll error: %v", err)
				continue
			}
			if len(events) > 0 {
				w.deliver(ctx, events)
			}
		case <-digestCh:
			event, err := w.BuildDailyDigest()
			if err != nil {
				log.Printf("notify: digest error: %v", err)
			} else if event != nil {
				w.deliver(ctx, []Event{*event})
			}
			digestTimer.Reset(nextCronDuration(w.digestCron))
		}
	}
}

func (w *Watcher) deliver(ctx context.Context, events []Event) {
	msg := Message{ChannelID: w.channelID, Events: events}
	if len(events) == 1 {
		msg.Text = events[0].Title
	} else {
		msg.Text = fmt.Sprintf("%d remediation events", len(events))
	}
	if err := w.adapter.Send(ctx, msg); err != nil {
		log.Printf("notify: send error: %v", err)
	}
}

// Poll runs one detection cycle over activities appended since the last
// call. The first call establishes a baseline and reports nothing.
func (w *Watcher) Poll() ([]Event, error) {
	w.mu.Lock()
	lastID := w.lastID
	seeded := w.seeded
	w.mu.Unlock()

	var activities []models.Activity
	if err := w.db.Where("id > ?", lastID).Order("id ASC").Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("notify: watcher: scan activities: %w", err)
	}

	maxID := lastID
	if len(activities) > 0 {
		maxID = activities[len(activities)-1].ID
	}
	defer func() {
		w.mu.Lock()
		if maxID > w.lastID {
			w.lastID = maxID
		}
		w.seeded = true
		w.mu.Unlock()
	}()

	// The first poll only establishes the baseline.
	if !seeded || len(activities) == 0 {
		return nil, nil
	}

	var events []Event
	for _, a := range activities {
		event, err := w.examine(&a)
		if err != nil {
			return nil, err
		}
		if event != nil {
			events = append(events, *event)
		}
	}
	return events, nil
}

// examine maps one audit entry to a chat event, or nil when it is routine.
func (w *Watcher) examine(a *models.Activity) (*Event, error) {
	newStatus := ""
	if a.NewStatus != nil {
		newStatus = *a.NewStatus
	}

	switch {
	case a.Action == models.ActionStatusChanged && newStatus == string(status.Verified):
		p, err := pen.Get(w.db, a.PenetrationID)
		if err != nil {
			return nil, err
		}
		return &Event{
			Title:    fmt.Sprintf("Pen %s verified", p.PenNumber),
			Body:     fmt.Sprintf("Verified by %s on %s.", a.Actor(), p.Deck),
			Severity: "success",
			Color:    ColorSuccess,
			Fields:   penFields(p),
		}, nil

	case newStatus == string(status.Open) &&
		(a.Action == models.ActionStatusChanged || a.Action == models.ActionCreated):
		p, err := pen.Get(w.db, a.PenetrationID)
		if err != nil {
			return nil, err
		}
		if p.Priority != string(status.Critical) {
			return nil, nil
		}
		return &Event{
			Title:    fmt.Sprintf("Critical pen %s opened", p.PenNumber),
			Body:     fmt.Sprintf("Opened by %s on %s.", a.Actor(), p.Deck),
			Severity: "error",
			Color:    ColorError,
			Fields:   penFields(p),
		}, nil
	}
	return nil, nil
}

func penFields(p *models.Penetration) []Field {
	fields := []Field{
		{Name: "Deck", Value: p.Deck, Short: true},
		{Name: "Contractor", Value: p.ContractorName(), Short: true},
	}
	if p.FireZone != "" {
		fields = append(fields, Field{Name: "Fire zone", Value: p.FireZone, Short: true})
	}
	if p.Location != "" {
		fields = append(fields, Field{Name: "Location", Value: p.Location})
	}
	return fields
}

// BuildDailyDigest summarizes the last 24 hours of remediation work across
// all active projects. Returns nil when nothing happened.
func (w *Watcher) BuildDailyDigest() (*Event, error) {
	now := time.Now()
	since := now.Add(-24 * time.Hour)

	var created, closed, verified int64
	if err := w.db.Model(&models.Activity{}).
		Where("action = ? AND created_at >= ?", models.ActionCreated, since).
		Count(&created).Error; err != nil {
		return nil, fmt.Errorf("notify: daily digest: %w", err)
	}
	if err := w.db.Model(&models.Activity{}).
		Where("action = ? AND new_status = ? AND created_at >= ?",
			models.ActionStatusChanged, string(status.Closed), since).
		Count(&closed).Error; err != nil {
		return nil, fmt.Errorf("notify: daily digest: %w", err)
	}
	if err := w.db.Model(&models.Activity{}).
		Where("action = ? AND new_status = ? AND created_at >= ?",
			models.ActionStatusChanged, string(status.Verified), since).
		Count(&verified).Error; err != nil {
		return nil, fmt.Errorf("notify: daily digest: %w", err)
	}

	// Suppress when no activity.
	if created == 0 && closed == 0 && verified == 0 {
		return nil, nil
	}

	pens, err := pen.List(w.db, pen.ListFilters{})
	if err != nil {
		return nil, err
	}
	overall := stats.Compute(pens)

	var b strings.Builder
	fmt.Fprintf(&b, "New pens: %d\n", created)
	fmt.Fprintf(&b, "Closed: %d\n", closed)
	fmt.Fprintf(&b, "Verified: %d\n", verified)
	fmt.Fprintf(&b, "Overall completion: %d%% (%d of %d verified)",
		overall.CompletionRate, overall.Verified, overall.Total)

	return &Event{
		Title:    fmt.Sprintf("Daily remediation digest for %s", now.Format("Mon Jan 2")),
		Body:     b.String(),
		Severity: "info",
		Color:    ColorInfo,
	}, nil
}
