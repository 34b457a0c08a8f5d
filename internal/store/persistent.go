package store

import (
	"context"
	"errors"
	"sync"

	"github.com/casalink-ph/casalink-backend/internal/bus"
	"github.com/casalink-ph/casalink-backend/pkg/db/models"
	"github.com/casalink-ph/casalink-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Persistent is the durable Store backend over the kv_entries table. When
// the database rejects a write, the value degrades to a process-local
// overlay and the change event fires anyway, so the calling operation never
// fails over storage trouble; durability is simply lost for that key until
// a later write lands.
type Persistent struct {
	db   *gorm.DB
	bus  bus.Bus
	logg *logger.Logger

	mu      sync.RWMutex
	overlay map[string][]byte // nil value marks a degraded delete
}

// NewPersistent wires the durable store to a database handle and a bus.
func NewPersistent(db *gorm.DB, changeBus bus.Bus, logg *logger.Logger) *Persistent {
	return &Persistent{
		db:      db,
		bus:     changeBus,
		logg:    logg,
		overlay: make(map[string][]byte),
	}
}

func (p *Persistent) Read(ctx context.Context, key string) ([]byte, error) {
	p.mu.RLock()
	if value, ok := p.overlay[key]; ok {
		p.mu.RUnlock()
		if value == nil {
			return nil, nil
		}
		copied := make([]byte, len(value))
		copy(copied, value)
		return copied, nil
	}
	p.mu.RUnlock()

	var entry models.KVEntry
	err := p.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		// Malformed or unreachable storage reads as absent.
		if p.logg != nil {
			p.logg.Warn(ctx, "kv read failed for "+key+": "+err.Error())
		}
		return nil, nil
	}
	return entry.Value, nil
}

func (p *Persistent) Write(ctx context.Context, key string, value []byte) error {
	copied := make([]byte, len(value))
	copy(copied, value)

	entry := models.KVEntry{Key: key, Value: copied}
	err := p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error

	p.mu.Lock()
	if err != nil {
		p.overlay[key] = copied
	} else {
		// A durable write supersedes any degraded value.
		delete(p.overlay, key)
	}
	p.mu.Unlock()

	if err != nil && p.logg != nil {
		p.logg.Warn(ctx, "kv write degraded to memory for "+key+": "+err.Error())
	}

	if p.bus != nil {
		p.bus.Publish(ctx, key)
	}
	return nil
}

func (p *Persistent) Delete(ctx context.Context, key string) error {
	err := p.db.WithContext(ctx).Delete(&models.KVEntry{}, "key = ?", key).Error

	p.mu.Lock()
	if err != nil {
		p.overlay[key] = nil
	} else {
		delete(p.overlay, key)
	}
	p.mu.Unlock()

	if err != nil && p.logg != nil {
		p.logg.Warn(ctx, "kv delete degraded to memory for "+key+": "+err.Error())
	}

	if p.bus != nil {
		p.bus.Publish(ctx, key)
	}
	return nil
}
