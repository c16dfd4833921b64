package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/shieldhq/shieldcore/kv"
)

const (
	activityKeyPrefix = "activity:"
	securityKeyPrefix = "security:"
)

var (
	// ErrInvalidEntry is returned when Action or UserID is missing.
	ErrInvalidEntry = errors.New("activity entry requires action and user id")
	// ErrLogWrite wraps append failures. The operation that triggered the log
	// must still succeed; the engine routes this to the operational channel.
	ErrLogWrite = errors.New("activity log write failed")
	// ErrLogRead wraps query failures against the backing store.
	ErrLogRead = errors.New("activity log read failed")
)

// Filter narrows a [Recorder.Query]. Zero values mean "no constraint";
// time bounds are inclusive. Results are newest-first, Offset entries
// skipped, at most Limit entries returned (Limit <= 0 means no cap).
type Filter struct {
	UserID string
	Action string
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// Recorder appends and queries activity entries in the key-value store.
// Appends write one immutable record per key, so concurrent appends for the
// same user are retained without any coordination.
type Recorder struct {
	store kv.Store

	now   func() time.Time
	newID func() string
}

// NewRecorder creates a [Recorder] over the given store.
func NewRecorder(store kv.Store) *Recorder {
	return &Recorder{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func entryKey(stream, userID string, ts time.Time, id string) string {
	// Zero-padded nanosecond timestamp keeps keys in chronological order.
	return fmt.Sprintf("%s%s:%020d:%s", stream, userID, ts.UnixNano(), id)
}

// Append validates, stamps, and durably writes one entry, returning the
// stored form. Security-sensitive actions are additionally written to the
// security stream. The returned error wraps [ErrLogWrite] on store failure.
func (r *Recorder) Append(ctx context.Context, entry Entry) (Entry, error) {
	if entry.Action == "" || entry.UserID == "" {
		return Entry{}, ErrInvalidEntry
	}

	entry.ID = r.newID()
	entry.Timestamp = r.now().UTC()

	data, err := json.Marshal(entry)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrLogWrite, err)
	}

	key := entryKey(activityKeyPrefix, entry.UserID, entry.Timestamp, entry.ID)
	if err := r.store.Set(ctx, key, data); err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrLogWrite, err)
	}

	if IsSecurityAction(entry.Action) {
		secKey := entryKey(securityKeyPrefix, entry.UserID, entry.Timestamp, entry.ID)
		if err := r.store.Set(ctx, secKey, data); err != nil {
			return Entry{}, fmt.Errorf("%w: %v", ErrLogWrite, err)
		}
	}

	return entry, nil
}

// Query returns activity entries matching the filter, newest-first.
func (r *Recorder) Query(ctx context.Context, f Filter) ([]Entry, error) {
	return r.query(ctx, activityKeyPrefix, f)
}

// SecurityQuery returns security-stream entries matching the filter,
// newest-first.
func (r *Recorder) SecurityQuery(ctx context.Context, f Filter) ([]Entry, error) {
	return r.query(ctx, securityKeyPrefix, f)
}

func (r *Recorder) query(ctx context.Context, stream string, f Filter) ([]Entry, error) {
	prefix := stream
	if f.UserID != "" {
		prefix += f.UserID + ":"
	}

	keys, err := r.store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogRead, err)
	}

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, kv.ErrNotFound) {
				// Raced an operational deletion; the entry is simply gone.
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrLogRead, err)
		}

		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			// The store enforces no schema; skip values that fail shape
			// validation instead of poisoning the whole read.
			continue
		}
		if !matches(entry, f) {
			continue
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	return paginate(entries, f.Offset, f.Limit), nil
}

func matches(entry Entry, f Filter) bool {
	// The key prefix narrows the scan, but a user ID containing ":" shares a
	// prefix with shorter IDs; the stored entry is authoritative.
	if f.UserID != "" && entry.UserID != f.UserID {
		return false
	}
	if f.Action != "" && entry.Action != f.Action {
		return false
	}
	if !f.From.IsZero() && entry.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && entry.Timestamp.After(f.To) {
		return false
	}
	return true
}

func paginate(entries []Entry, offset, limit int) []Entry {
	if offset > 0 {
		if offset >= len(entries) {
			return []Entry{}
		}
		entries = entries[offset:]
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
