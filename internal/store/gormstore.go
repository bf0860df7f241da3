package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// docRow is the relational shape shared by every collection: an
// auto-increment primary key plus the record body in a JSON sidecar
// column. Both backings stay behaviorally identical because the body
// is the same schemaless record either way.
type docRow struct {
	ID   int64  `gorm:"primaryKey"`
	Data []byte `gorm:"type:jsonb;not null"`
}

var tableNames = map[Entity]string{
	Users:            "users",
	Applicants:       "applicants",
	Assignments:      "assignments",
	ManpowerRequests: "manpower_requests",
	Sessions:         "sessions",
	AuditLogs:        "audit_logs",
}

const settingsTable = "settings"

// GormStore is the relational Entity Store backing.
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewGormStore(db *gorm.DB, logger ...*zap.Logger) *GormStore {
	l := zap.L().Named("store.gorm")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("store.gorm")
	}
	return &GormStore{db: db, logger: l}
}

// Migrate creates the per-entity tables and seeds the default records
// the file backing also starts with.
func (s *GormStore) Migrate(ctx context.Context) error {
	for _, name := range tableNames {
		if err := s.db.WithContext(ctx).Table(name).AutoMigrate(&docRow{}); err != nil {
			return fmt.Errorf("migrate %s: %w", name, err)
		}
	}
	if err := s.db.WithContext(ctx).Table(settingsTable).AutoMigrate(&docRow{}); err != nil {
		return fmt.Errorf("migrate %s: %w", settingsTable, err)
	}

	var count int64
	if err := s.db.WithContext(ctx).Table(settingsTable).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		seed := defaultDocument()
		b, _ := json.Marshal(seed.Settings)
		if err := s.db.WithContext(ctx).Table(settingsTable).Create(&docRow{ID: 1, Data: b}).Error; err != nil {
			return err
		}
		for _, u := range seed.Users {
			if _, err := s.Create(ctx, Users, u); err != nil {
				return err
			}
		}
		s.logger.Info("seeded empty database")
	}
	return nil
}

func tableFor(entity Entity) (string, error) {
	name, ok := tableNames[entity]
	if !ok {
		return "", fmt.Errorf("unknown entity %q", entity)
	}
	return name, nil
}

func decodeRow(row docRow) (Record, error) {
	var rec Record
	dec := json.NewDecoder(bytes.NewReader(row.Data))
	dec.UseNumber()
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	rec["id"] = json.Number(fmt.Sprintf("%d", row.ID))
	return rec, nil
}

func encodeBody(rec Record) ([]byte, error) {
	body := make(Record, len(rec))
	for k, v := range rec {
		if k == "id" {
			continue
		}
		body[k] = v
	}
	return json.Marshal(body)
}

func (s *GormStore) List(ctx context.Context, entity Entity) ([]Record, error) {
	name, err := tableFor(entity)
	if err != nil {
		return nil, err
	}
	var rows []docRow
	if err := s.db.WithContext(ctx).Table(name).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Record, len(rows))
	for i, row := range rows {
		if out[i], err = decodeRow(row); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *GormStore) Get(ctx context.Context, entity Entity, id int) (Record, error) {
	return s.get(ctx, entity, id, false)
}

// GetLocked takes a FOR UPDATE row lock. Only meaningful inside
// Transact; the lock is held until the transaction ends.
func (s *GormStore) GetLocked(ctx context.Context, entity Entity, id int) (Record, error) {
	return s.get(ctx, entity, id, true)
}

func (s *GormStore) get(ctx context.Context, entity Entity, id int, forUpdate bool) (Record, error) {
	name, err := tableFor(entity)
	if err != nil {
		return nil, err
	}
	q := s.db.WithContext(ctx).Table(name)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row docRow
	if err := q.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeRow(row)
}

func (s *GormStore) Create(ctx context.Context, entity Entity, payload Record) (Record, error) {
	name, err := tableFor(entity)
	if err != nil {
		return nil, err
	}
	b, err := encodeBody(payload)
	if err != nil {
		return nil, err
	}
	row := docRow{Data: b}
	if err := s.db.WithContext(ctx).Table(name).Create(&row).Error; err != nil {
		return nil, err
	}
	return decodeRow(row)
}

func (s *GormStore) Update(ctx context.Context, entity Entity, id int, patch Record) (Record, error) {
	name, err := tableFor(entity)
	if err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, entity, id)
	if err != nil {
		return nil, err
	}
	merged := Merge(existing, patch)
	b, err := encodeBody(merged)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Table(name).Where("id = ?", id).Update("data", b).Error; err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *GormStore) Delete(ctx context.Context, entity Entity, id int) (bool, error) {
	name, err := tableFor(entity)
	if err != nil {
		return false, err
	}
	res := s.db.WithContext(ctx).Table(name).Where("id = ?", id).Delete(&docRow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) Settings(ctx context.Context) (Record, error) {
	var row docRow
	if err := s.db.WithContext(ctx).Table(settingsTable).First(&row, "id = ?", 1).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Encode(defaultDocument().Settings)
		}
		return nil, err
	}
	rec, err := decodeRow(row)
	if err != nil {
		return nil, err
	}
	delete(rec, "id")
	return rec, nil
}

func (s *GormStore) UpdateSettings(ctx context.Context, patch Record) (Record, error) {
	existing, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	merged := Merge(existing, patch)
	b, err := encodeBody(merged)
	if err != nil {
		return nil, err
	}
	res := s.db.WithContext(ctx).Table(settingsTable).Where("id = ?", 1).Update("data", b)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if err := s.db.WithContext(ctx).Table(settingsTable).Create(&docRow{ID: 1, Data: b}).Error; err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// Transact runs fn inside one database transaction. Two concurrent
// claims for the same applicant serialize on the GetLocked row lock;
// the loser re-reads the committed state and fails its conflict check.
func (s *GormStore) Transact(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, logger: s.logger})
	})
}
