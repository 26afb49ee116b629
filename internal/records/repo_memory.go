package records

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is a simple in-memory repository for tests and early development.
// It mirrors BunRepository's ordering, filtering and aggregate semantics.
type MemoryRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   []CallRecord

	// err, when set, is returned by every operation to simulate a storage fault.
	err error
	now func() time.Time
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{now: time.Now} }

// SetErr makes every subsequent operation fail with err; nil restores normal behavior.
func (r *MemoryRepo) SetErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *MemoryRepo) InitSchema(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *MemoryRepo) Ping(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *MemoryRepo) List(ctx context.Context, f Filter) ([]CallRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := r.matching(f)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CallDate != out[j].CallDate {
			return out[i].CallDate > out[j].CallDate
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *MemoryRepo) Create(ctx context.Context, in NewRecord) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	r.nextID++
	rec := CallRecord{
		ID:              r.nextID,
		DeveloperName:   in.DeveloperName,
		ClientName:      in.ClientName,
		CallDate:        in.CallDate,
		DurationMinutes: int(in.DurationMinutes),
		TopicDiscussed:  in.TopicDiscussed,
		CreatedAt:       r.now().UTC(),
	}
	if in.TicketNumber != "" {
		t := string(in.TicketNumber)
		rec.TicketNumber = &t
	}
	r.rows = append(r.rows, rec)
	return rec.ID, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	for i, rec := range r.rows {
		if rec.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *MemoryRepo) Aggregate(ctx context.Context, f Filter) (Totals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return Totals{}, r.err
	}
	rows := r.matching(f)

	var t Totals
	clients := map[string]struct{}{}
	devs := map[string]struct{}{}
	var minutes int64
	for _, rec := range rows {
		t.TotalCalls++
		minutes += int64(rec.DurationMinutes)
		clients[rec.ClientName] = struct{}{}
		devs[rec.DeveloperName] = struct{}{}
	}
	if t.TotalCalls > 0 {
		t.TotalMinutes = &minutes
	}
	t.UniqueClients = int64(len(clients))
	t.UniqueDevelopers = int64(len(devs))
	return t, nil
}

func (r *MemoryRepo) DistinctClients(ctx context.Context) ([]string, error) {
	return r.distinct(func(rec CallRecord) string { return rec.ClientName })
}

func (r *MemoryRepo) DistinctDevelopers(ctx context.Context) ([]string, error) {
	return r.distinct(func(rec CallRecord) string { return rec.DeveloperName })
}

func (r *MemoryRepo) distinct(col func(CallRecord) string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, rec := range r.rows {
		v := col(rec)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func (r *MemoryRepo) matching(f Filter) []CallRecord {
	out := make([]CallRecord, 0)
	for _, rec := range r.rows {
		if f.Client != "" && rec.ClientName != f.Client {
			continue
		}
		if f.Developer != "" && rec.DeveloperName != f.Developer {
			continue
		}
		if f.Month != "" && monthOf(rec.CallDate) != f.Month {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// monthOf matches substr(call_date, 1, 7).
func monthOf(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}
