// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package deployment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

const registryFile = "registry.sqlite"

// Record is one stored descriptor
type Record struct {
	ID            uint   `gorm:"primaryKey"`
	RunID         string `gorm:"index"`
	Network       string `gorm:"index:idx_record_network_key"`
	PoolKey       string `gorm:"index:idx_record_network_key"`
	BlueprintHash string
	LpPolicyId    string
	PoolHash      string
	OrderHash     string
	BatchingHash  string
	Descriptor    []byte
	CreatedAt     time.Time
}

func (Record) TableName() string {
	return "deployment"
}

// Decode returns the stored descriptor
func (r Record) Decode() (Descriptor, error) {
	var ret Descriptor
	if err := json.Unmarshal(r.Descriptor, &ret); err != nil {
		return Descriptor{}, err
	}
	return ret, nil
}

// Registry keeps a history of produced descriptors in SQLite
type Registry struct {
	db     *gorm.DB
	logger *slog.Logger
	mutex  sync.Mutex
	closed bool
}

// NewRegistry opens the registry in dataDir. An empty dataDir uses an
// in-memory database.
func NewRegistry(dataDir string, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	dsn := "file::memory:"
	if dataDir != "" {
		if _, err := os.Stat(dataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(dataDir, fs.ModePerm); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		dsn = fmt.Sprintf(
			"file:%s?_pragma=journal_mode(WAL)",
			filepath.Join(dataDir, registryFile),
		)
	}
	db, err := gorm.Open(
		sqlite.Open(dsn),
		&gorm.Config{
			Logger: gormlogger.Discard,
		},
	)
	if err != nil {
		return nil, err
	}
	if dataDir == "" {
		// Each connection to :memory: is a separate database
		sqlDb, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDb.SetMaxOpenConns(1)
	}
	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}
	r := &Registry{
		db:     db,
		logger: logger.With("component", "registry"),
	}
	r.logger.Debug(fmt.Sprintf("creating table: %#v", &Record{}))
	if err := db.AutoMigrate(&Record{}); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

// Record stores the descriptors of one network run in a single transaction
func (r *Registry) Record(
	ctx context.Context,
	runID string,
	network string,
	blueprintHash string,
	descriptors []Descriptor,
) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.closed {
		return ErrRegistryClosed
	}
	if len(descriptors) == 0 {
		return nil
	}
	records := make([]Record, 0, len(descriptors))
	for _, desc := range descriptors {
		raw, err := json.Marshal(desc)
		if err != nil {
			return err
		}
		records = append(records, Record{
			RunID:         runID,
			Network:       network,
			PoolKey:       desc.Key,
			BlueprintHash: blueprintHash,
			LpPolicyId:    desc.LpPolicyId,
			PoolHash:      desc.PoolHash,
			OrderHash:     desc.OrderHash,
			BatchingHash:  desc.OrderBatchingHash,
			Descriptor:    raw,
		})
	}
	err := r.db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		return txn.Create(&records).Error
	})
	if err != nil {
		return fmt.Errorf("failed to record deployment: %w", err)
	}
	r.logger.Debug(
		fmt.Sprintf("recorded %d descriptor(s)", len(records)),
		"network", network,
		"run", runID,
	)
	return nil
}

// Latest returns the most recent record for a pool, or nil if there is none
func (r *Registry) Latest(ctx context.Context, network string, poolKey string) (*Record, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.closed {
		return nil, ErrRegistryClosed
	}
	ret := &Record{}
	result := r.db.WithContext(ctx).
		Where("network = ? AND pool_key = ?", network, poolKey).
		Order("id DESC").
		First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// History returns every record for a network, oldest first
func (r *Registry) History(ctx context.Context, network string) ([]Record, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.closed {
		return nil, ErrRegistryClosed
	}
	var ret []Record
	result := r.db.WithContext(ctx).
		Where("network = ?", network).
		Order("id ASC").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

func (r *Registry) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	sqlDb, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDb.Close()
}
