package simplelessons

import (
	"context"
	"errors"
	"strings"
)

// idSeparator splits compound identifiers such as "abc123_draft2"; only the
// segment before the first separator addresses a record.
const idSeparator = "_"

// resolver finds the record behind a caller-supplied identifier. Identifiers
// arrive in several shapes left behind by older clients: the bare store key,
// the key carrying a literal prefix ("lesson_abc123"), a compound id where
// only the first segment matters, or a key stored as an "id" field inside a
// record whose store key differs.
//
// Resolution tries an explicit ordered list of strategies and stops at the
// first hit. Every strategy filters by owner, so a foreign-owner record is a
// miss indistinguishable from absence. Given an unchanged store, repeated
// calls with the same input return the same record.
type resolver struct {
	store      RecordStore
	collection string
	prefix     string // prefix token without the separator, e.g. "lesson"
}

func newResolver(store RecordStore, collection, prefix string) *resolver {
	return &resolver{store: store, collection: collection, prefix: prefix}
}

// resolveStrategy is one candidate transformation of the supplied
// identifier. Strategies return (nil, nil) on a clean miss.
type resolveStrategy struct {
	name   string
	lookup func(ctx context.Context, id, ownerID string) (*Record, error)
}

func (r *resolver) strategies() []resolveStrategy {
	return []resolveStrategy{
		{name: "exact", lookup: r.byExactKey},
		{name: "prefix-stripped", lookup: r.byStrippedPrefix},
		{name: "first-segment", lookup: r.byFirstSegment},
		{name: "owner-scan", lookup: r.byOwnerScan},
	}
}

// resolve returns the first record any strategy finds, or nil when all
// strategies miss.
func (r *resolver) resolve(ctx context.Context, id, ownerID string) (*Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}

	for _, strategy := range r.strategies() {
		rec, err := strategy.lookup(ctx, id, ownerID)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}
	return nil, nil
}

// byExactKey looks the trimmed input up as a store key.
func (r *resolver) byExactKey(ctx context.Context, id, ownerID string) (*Record, error) {
	return r.lookupKey(ctx, id, ownerID)
}

// byStrippedPrefix retries the exact lookup with the known prefix token
// removed ("lesson_abc123" -> "abc123").
func (r *resolver) byStrippedPrefix(ctx context.Context, id, ownerID string) (*Record, error) {
	stripped, ok := r.stripPrefix(id)
	if !ok {
		return nil, nil
	}
	return r.lookupKey(ctx, stripped, ownerID)
}

// byFirstSegment retries with the segment before the first separator, unless
// that segment is the prefix token itself, which is not a usable id.
func (r *resolver) byFirstSegment(ctx context.Context, id, ownerID string) (*Record, error) {
	i := strings.Index(id, idSeparator)
	if i <= 0 {
		return nil, nil
	}
	segment := id[:i]
	if segment == r.prefix {
		return nil, nil
	}
	return r.lookupKey(ctx, segment, ownerID)
}

// byOwnerScan walks every record the caller owns, matching the store key or
// an embedded "id" field against the input and its prefix-stripped form.
func (r *resolver) byOwnerScan(ctx context.Context, id, ownerID string) (*Record, error) {
	recs, err := r.store.QueryByField(ctx, r.collection, "ownerId", ownerID)
	if err != nil {
		return nil, err
	}

	stripped, _ := r.stripPrefix(id)
	for _, rec := range recs {
		if rec.Key == id || (stripped != "" && rec.Key == stripped) {
			return rec, nil
		}
		embedded, _ := rec.Doc["id"].(string)
		if embedded == "" || embedded == rec.Key {
			continue
		}
		if embedded == id || (stripped != "" && embedded == stripped) {
			return rec, nil
		}
	}
	return nil, nil
}

// lookupKey is the shared exact-key lookup with the owner filter applied.
func (r *resolver) lookupKey(ctx context.Context, key, ownerID string) (*Record, error) {
	rec, err := r.store.GetByID(ctx, r.collection, key)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if owner, _ := rec.Doc["ownerId"].(string); owner != ownerID {
		return nil, nil
	}
	return rec, nil
}

func (r *resolver) stripPrefix(id string) (string, bool) {
	token := r.prefix + idSeparator
	if !strings.HasPrefix(id, token) || len(id) == len(token) {
		return "", false
	}
	return id[len(token):], true
}
