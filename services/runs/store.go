package runs

import (
	"Comodin/models/postgres"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRunNotFound     = errors.New("run not found")
	ErrCorruptRun      = errors.New("saved run is corrupt")
	ErrBadPassphrase   = errors.New("wrong passphrase")
	ErrStaleVersion    = errors.New("run was saved by someone else")
	ErrEmptyPassphrase = errors.New("passphrase is required")
)

// Store is where run snapshots outlive the cache
type Store interface {
	Create(ctx context.Context, snap *postgres.RunSnapshot) error
	Load(ctx context.Context, id uuid.UUID) (*postgres.RunSnapshot, error)
	// Save overwrites the game columns of an existing run. The passphrase
	// hash is never touched.
	Save(ctx context.Context, snap *postgres.RunSnapshot) error
	AddVoucher(ctx context.Context, id uuid.UUID, voucher string) error
}

// savedColumns are the columns Save writes
var savedColumns = []string{"money", "ante", "round", "version", "jokers", "joker_state", "voucher_state", "tags", "progress"}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, snap *postgres.RunSnapshot) error {
	if err := s.db.WithContext(ctx).Create(snap).Error; err != nil {
		return fmt.Errorf("creating run: %w", err)
	}
	return nil
}

func (s *GormStore) Load(ctx context.Context, id uuid.UUID) (*postgres.RunSnapshot, error) {
	var snap postgres.RunSnapshot
	err := s.db.WithContext(ctx).Preload("Vouchers").First(&snap, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", id, err)
	}
	return &snap, nil
}

func (s *GormStore) Save(ctx context.Context, snap *postgres.RunSnapshot) error {
	res := s.db.WithContext(ctx).
		Model(&postgres.RunSnapshot{ID: snap.ID}).
		Select(savedColumns).
		Updates(snap)
	if res.Error != nil {
		return fmt.Errorf("saving run %s: %w", snap.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, snap.ID)
	}
	return nil
}

func (s *GormStore) AddVoucher(ctx context.Context, id uuid.UUID, voucher string) error {
	row := postgres.OwnedVoucher{RunID: id, Voucher: voucher}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("recording voucher %s for run %s: %w", voucher, id, err)
	}
	return nil
}

// MemoryStore keeps snapshots in a map, for tests and the offline simulator
type MemoryStore struct {
	mu   sync.Mutex
	runs map[uuid.UUID]postgres.RunSnapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[uuid.UUID]postgres.RunSnapshot)}
}

func (s *MemoryStore) Create(_ context.Context, snap *postgres.RunSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.ID == uuid.Nil {
		snap.ID = uuid.New()
	}
	if _, ok := s.runs[snap.ID]; ok {
		return fmt.Errorf("run %s already exists", snap.ID)
	}
	snap.CreatedAt = time.Now()
	s.runs[snap.ID] = *snap
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id uuid.UUID) (*postgres.RunSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	snap.Vouchers = append([]postgres.OwnedVoucher(nil), snap.Vouchers...)
	return &snap, nil
}

func (s *MemoryStore) Save(_ context.Context, snap *postgres.RunSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.runs[snap.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRunNotFound, snap.ID)
	}
	old.Money = snap.Money
	old.Ante = snap.Ante
	old.Round = snap.Round
	old.Version = snap.Version
	old.Jokers = snap.Jokers
	old.JokerState = snap.JokerState
	old.VoucherState = snap.VoucherState
	old.Tags = snap.Tags
	old.Progress = snap.Progress
	old.UpdatedAt = time.Now()
	s.runs[snap.ID] = old
	return nil
}

func (s *MemoryStore) AddVoucher(_ context.Context, id uuid.UUID, voucher string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.runs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	for _, v := range snap.Vouchers {
		if v.Voucher == voucher {
			return nil
		}
	}
	snap.Vouchers = append(snap.Vouchers, postgres.OwnedVoucher{RunID: id, Voucher: voucher, PurchasedAt: time.Now()})
	s.runs[id] = snap
	return nil
}
