package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-ats/internal/domain"
)

// document is the whole persisted JSON file. Every write serializes the
// complete document; there are no partial writes.
type document struct {
	Users            []Record `json:"users"`
	Applicants       []Record `json:"applicants"`
	Assignments      []Record `json:"assignments"`
	ManpowerRequests []Record `json:"manpowerRequests"`
	Sessions         []Record `json:"sessions"`
	AuditLogs        []Record `json:"auditLogs"`
	Settings         Record   `json:"settings"`
}

func (d *document) collection(e Entity) (*[]Record, error) {
	switch e {
	case Users:
		return &d.Users, nil
	case Applicants:
		return &d.Applicants, nil
	case Assignments:
		return &d.Assignments, nil
	case ManpowerRequests:
		return &d.ManpowerRequests, nil
	case Sessions:
		return &d.Sessions, nil
	case AuditLogs:
		return &d.AuditLogs, nil
	default:
		return nil, fmt.Errorf("unknown entity %q", e)
	}
}

// FileStore keeps all collections in one JSON document on disk. A
// process-wide mutex serializes every read-modify-write, so store
// operations are atomic within this process. Concurrent processes are
// not protected; the file backing is a single-instance deployment.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

func NewFileStore(path string, logger ...*zap.Logger) *FileStore {
	l := zap.L().Named("store.file")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("store.file")
	}
	return &FileStore{path: path, logger: l}
}

func defaultDocument() *document {
	now := time.Now().UTC().Format(time.RFC3339)
	limit := 5
	users := []domain.User{
		{ID: 1, Email: "boss@constantinolawoffice.com", Password: "boss123", Role: domain.RoleBoss, CreatedAt: now},
		{ID: 2, Email: "hr@constantinolawoffice.com", Password: "hr123", Role: domain.RoleHR, CreatedAt: now},
		{ID: 3, Email: "tl@constantinolawoffice.com", Password: "tl123", Role: domain.RoleTeamLead, CreatedAt: now, TLAssignmentLimit: &limit},
		{ID: 4, Email: "admin@constantinolawoffice.com", Password: "admin123", Role: domain.RoleAdmin, CreatedAt: now},
	}

	doc := &document{
		Users:            make([]Record, 0, len(users)),
		Applicants:       []Record{},
		Assignments:      []Record{},
		ManpowerRequests: []Record{},
		Sessions:         []Record{},
		AuditLogs:        []Record{},
		Settings:         Record{"manPowerLimit": json.Number("50")},
	}
	for _, u := range users {
		doc.Users = append(doc.Users, MustEncode(u))
	}
	return doc
}

// load reads and decodes the document, seeding the default one when the
// file does not exist yet. Caller must hold s.mu.
func (s *FileStore) load() (*document, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		doc := defaultDocument()
		if err := s.save(doc); err != nil {
			return nil, err
		}
		s.logger.Info("seeded new data file", zap.String("path", s.path))
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}

	var doc document
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode data file: %w", err)
	}
	if doc.Settings == nil {
		doc.Settings = defaultDocument().Settings
	}
	return &doc, nil
}

// save serializes the whole document. Caller must hold s.mu.
func (s *FileStore) save(doc *document) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	return nil
}

func nextID(items []Record) int {
	max := 0
	for _, item := range items {
		if id := RecordID(item); id > max {
			max = id
		}
	}
	return max + 1
}

func findIndex(items []Record, id int) int {
	for i, item := range items {
		if RecordID(item) == id {
			return i
		}
	}
	return -1
}

func (s *FileStore) List(ctx context.Context, entity Entity) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return listIn(doc, entity)
}

func (s *FileStore) Get(ctx context.Context, entity Entity, id int) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return getIn(doc, entity, id)
}

func (s *FileStore) GetLocked(ctx context.Context, entity Entity, id int) (Record, error) {
	return s.Get(ctx, entity, id)
}

func (s *FileStore) Create(ctx context.Context, entity Entity, payload Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	rec, err := createIn(doc, entity, payload)
	if err != nil {
		return nil, err
	}
	if err := s.save(doc); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *FileStore) Update(ctx context.Context, entity Entity, id int, patch Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	rec, err := updateIn(doc, entity, id, patch)
	if err != nil {
		return nil, err
	}
	if err := s.save(doc); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *FileStore) Delete(ctx context.Context, entity Entity, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return false, err
	}
	deleted, err := deleteIn(doc, entity, id)
	if err != nil || !deleted {
		return deleted, err
	}
	if err := s.save(doc); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FileStore) Settings(ctx context.Context) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return Clone(doc.Settings), nil
}

func (s *FileStore) UpdateSettings(ctx context.Context, patch Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	doc.Settings = Merge(doc.Settings, patch)
	if err := s.save(doc); err != nil {
		return nil, err
	}
	return Clone(doc.Settings), nil
}

// Transact holds the store mutex for the whole of fn and flushes the
// document once at the end, so fn's reads and writes are a single
// atomic unit within this process.
func (s *FileStore) Transact(ctx context.Context, fn func(Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	tx := &fileTx{doc: doc}
	if err := fn(tx); err != nil {
		return err
	}
	return s.save(doc)
}

// fileTx is the in-transaction view over an already-loaded document.
// Nothing is persisted until the enclosing Transact saves.
type fileTx struct {
	doc *document
}

func (t *fileTx) List(ctx context.Context, entity Entity) ([]Record, error) {
	return listIn(t.doc, entity)
}

func (t *fileTx) Get(ctx context.Context, entity Entity, id int) (Record, error) {
	return getIn(t.doc, entity, id)
}

func (t *fileTx) GetLocked(ctx context.Context, entity Entity, id int) (Record, error) {
	return getIn(t.doc, entity, id)
}

func (t *fileTx) Create(ctx context.Context, entity Entity, payload Record) (Record, error) {
	return createIn(t.doc, entity, payload)
}

func (t *fileTx) Update(ctx context.Context, entity Entity, id int, patch Record) (Record, error) {
	return updateIn(t.doc, entity, id, patch)
}

func (t *fileTx) Delete(ctx context.Context, entity Entity, id int) (bool, error) {
	return deleteIn(t.doc, entity, id)
}

func (t *fileTx) Settings(ctx context.Context) (Record, error) {
	return Clone(t.doc.Settings), nil
}

func (t *fileTx) UpdateSettings(ctx context.Context, patch Record) (Record, error) {
	t.doc.Settings = Merge(t.doc.Settings, patch)
	return Clone(t.doc.Settings), nil
}

func (t *fileTx) Transact(ctx context.Context, fn func(Store) error) error {
	return fn(t)
}

// Shared in-memory collection operations used by both the store and its
// transaction view.

func listIn(doc *document, entity Entity) ([]Record, error) {
	items, err := doc.collection(entity)
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(*items))
	for i, item := range *items {
		out[i] = Clone(item)
	}
	return out, nil
}

func getIn(doc *document, entity Entity, id int) (Record, error) {
	items, err := doc.collection(entity)
	if err != nil {
		return nil, err
	}
	idx := findIndex(*items, id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	return Clone((*items)[idx]), nil
}

func createIn(doc *document, entity Entity, payload Record) (Record, error) {
	items, err := doc.collection(entity)
	if err != nil {
		return nil, err
	}
	rec := Clone(payload)
	rec["id"] = json.Number(fmt.Sprintf("%d", nextID(*items)))
	*items = append(*items, rec)
	return Clone(rec), nil
}

func updateIn(doc *document, entity Entity, id int, patch Record) (Record, error) {
	items, err := doc.collection(entity)
	if err != nil {
		return nil, err
	}
	idx := findIndex(*items, id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	(*items)[idx] = Merge((*items)[idx], Clone(patch))
	return Clone((*items)[idx]), nil
}

func deleteIn(doc *document, entity Entity, id int) (bool, error) {
	items, err := doc.collection(entity)
	if err != nil {
		return false, err
	}
	idx := findIndex(*items, id)
	if idx < 0 {
		return false, nil
	}
	*items = append((*items)[:idx], (*items)[idx+1:]...)
	return true, nil
}
