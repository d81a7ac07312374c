package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Snapshot is the content of a snapshot file: the player's inventory on the
// left and an optional second container on the right.
type Snapshot struct {
	Left  *Inventory `json:"left" jsonschema:"description=Inventory shown on the left; usually the player's"`
	Right *Inventory `json:"right,omitempty" jsonschema:"description=Optional second container shown on the right"`
}

// Decode reads one snapshot from r.
func Decode(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Left == nil {
		return Snapshot{}, errors.New("decode snapshot: missing left inventory")
	}
	return snap, nil
}

// LoadFile reads and decodes the snapshot file at path.
func LoadFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Store holds the current snapshot for every viewer of one process. It owns
// the process-wide busy flag, which is set while a reload is in flight.
type Store struct {
	path   string
	logger *slog.Logger

	busy BusyFlag

	// reloadMu serializes reloads; flightMu guards inFlight, the number of
	// started reloads that have not finished.
	reloadMu sync.Mutex
	flightMu sync.Mutex
	inFlight int

	mu   sync.RWMutex
	snap Snapshot
	subs []chan struct{}
}

// NewStore creates a Store that reads snapshots from path. Call Reload once
// before handing it to viewers.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// NewStaticStore creates a Store holding snap that never reloads.
func NewStaticStore(snap Snapshot, logger *slog.Logger) *Store {
	return &Store{snap: snap, logger: logger}
}

// Busy implements BusySignal.
func (s *Store) Busy() bool { return s.busy.Busy() }

// Snapshot returns the current snapshot. The inventories are shared; callers
// must treat them as read-only.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Reload re-reads the snapshot file. Concurrent calls run one at a time and
// the store reports busy until the last of them finishes. Subscribers are
// notified when a reload starts and finishes. A failed reload keeps the
// previous snapshot.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	s.begin()
	defer s.end()

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	snap, err := LoadFile(s.path)
	if err != nil {
		s.logger.Warn("snapshot reload failed", "path", s.path, "error", err)
		return err
	}
	for _, inv := range []*Inventory{snap.Left, snap.Right} {
		if inv == nil {
			continue
		}
		if dups := DuplicateSlots(inv); len(dups) > 0 {
			s.logger.Warn("snapshot has duplicate slots", "inventory", inv.ID, "slots", dups)
		}
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	s.logger.Info("snapshot loaded", "path", s.path, "left", snap.Left.ID)
	return nil
}

func (s *Store) begin() {
	s.flightMu.Lock()
	s.inFlight++
	s.busy.Set(true)
	s.flightMu.Unlock()
	s.notify()
}

func (s *Store) end() {
	s.flightMu.Lock()
	s.inFlight--
	if s.inFlight == 0 {
		s.busy.Set(false)
	}
	s.flightMu.Unlock()
	s.notify()
}

// Subscribe returns a channel that receives a non-blocking signal whenever the
// snapshot or the busy flag changes.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// Unsubscribe stops signals on ch.
func (s *Store) Unsubscribe(ch <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub == ch {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

func (s *Store) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
