// Package store is the persistence abstraction over the record
// collections. Two interchangeable backings exist: a single JSON
// document on disk and a relational table-per-entity layout with a JSON
// sidecar column. Both must behave identically to callers.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
)

// Entity names a record collection.
type Entity string

const (
	Users            Entity = "users"
	Applicants       Entity = "applicants"
	Assignments      Entity = "assignments"
	ManpowerRequests Entity = "manpowerRequests"
	Sessions         Entity = "sessions"
	AuditLogs        Entity = "auditLogs"
)

var entities = map[Entity]bool{
	Users:            true,
	Applicants:       true,
	Assignments:      true,
	ManpowerRequests: true,
	Sessions:         true,
	AuditLogs:        true,
}

// Known reports whether e names a stored collection.
func Known(e Entity) bool { return entities[e] }

// Record is one schemaless stored document. Numbers decode as
// json.Number so integer ids survive round-trips.
type Record = map[string]any

// ErrNotFound is returned when the referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the durable CRUD contract shared by both backings.
//
// Update shallow-merges the patch over the existing record; the id is
// never altered by a patch. Create assigns a new unique positive id.
// List order is stable within a session: insertion order on the file
// backing, primary-key order on the relational one.
type Store interface {
	List(ctx context.Context, entity Entity) ([]Record, error)
	Get(ctx context.Context, entity Entity, id int) (Record, error)
	// GetLocked behaves like Get but, inside Transact on the relational
	// backing, holds a row lock until the transaction ends. The file
	// backing already holds its mutex for the whole transaction.
	GetLocked(ctx context.Context, entity Entity, id int) (Record, error)
	Create(ctx context.Context, entity Entity, payload Record) (Record, error)
	Update(ctx context.Context, entity Entity, id int, patch Record) (Record, error)
	Delete(ctx context.Context, entity Entity, id int) (bool, error)

	Settings(ctx context.Context) (Record, error)
	UpdateSettings(ctx context.Context, patch Record) (Record, error)

	// Transact runs fn so that its reads and writes are atomic with
	// respect to other store users in this process. Errors from fn
	// abort the transaction.
	Transact(ctx context.Context, fn func(Store) error) error
}

// RecordID extracts the integer id of a record, tolerating the number
// representations the two backings produce.
func RecordID(rec Record) int {
	switch v := rec["id"].(type) {
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	case float64:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}

// Decode converts a record into a typed struct via JSON round-trip.
func Decode(rec Record, out any) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// DecodeAll converts a record slice into typed structs.
func DecodeAll[T any](recs []Record) ([]T, error) {
	out := make([]T, len(recs))
	for i, rec := range recs {
		if err := Decode(rec, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Encode converts a typed value into a record.
func Encode(v any) (Record, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var rec Record
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// MustEncode is Encode for values known to marshal, e.g. domain structs.
func MustEncode(v any) Record {
	rec, err := Encode(v)
	if err != nil {
		panic(err)
	}
	return rec
}

// Merge shallow-merges patch over base into a new record. The id key
// is preserved from base.
func Merge(base, patch Record) Record {
	merged := make(Record, len(base)+len(patch))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		merged[k] = v
	}
	return merged
}

// Clone deep-copies a record via JSON round-trip.
func Clone(rec Record) Record {
	out, err := Encode(rec)
	if err != nil {
		// Records originate from JSON; re-encoding them cannot fail.
		panic(err)
	}
	return out
}
