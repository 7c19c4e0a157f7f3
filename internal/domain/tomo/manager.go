package tomo

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/GridlineHQ/gridline/backend/internal/domain/ndarray"
	"github.com/GridlineHQ/gridline/backend/internal/infrastructure/monitoring"
	"github.com/GridlineHQ/gridline/backend/internal/shared/utils"
)

// Manager owns the live dataset handles. The service surface needs handles
// to survive across pipeline calls, so datasets live here between requests;
// the map is the only shared state and the mutex protects only it.
type Manager struct {
	mu         sync.RWMutex
	datasets   map[string]*Dataset // Protected by mu
	backend    Backend
	identifier *utils.DatasetIdentifier
	metrics    *monitoring.Metrics
}

// NewManager creates a dataset manager around a reconstruction backend
func NewManager(backend Backend) *Manager {
	return &Manager{
		datasets:   make(map[string]*Dataset),
		backend:    backend,
		identifier: utils.NewDatasetIdentifier(utils.DefaultHasher()),
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Backend returns the wired reconstruction backend
func (m *Manager) Backend() Backend { return m.backend }

// Load validates raw arrays, builds a dataset handle, and registers it.
// The handle key is random; the fingerprint is deterministic over the
// dataset's dimensions and angle count for log correlation.
func (m *Manager) Load(proj, white, dark *ndarray.Array, theta []float64) (*Dataset, error) {
	if m.backend == nil {
		return nil, ErrBackendUnavailable
	}

	id := uuid.New().String()
	fingerprint := ""
	if proj != nil {
		fingerprint = m.identifier.Fingerprint(proj.Shape(), len(theta))
	}

	ds, err := newDataset(id, fingerprint, proj, white, dark, theta)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.datasets[id] = ds
	live := len(m.datasets)
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.SetDatasetsLive(live)
	}
	return ds, nil
}

// Get returns the live dataset handle for id. Unlike listings this is not a
// copy: pipeline stages must act on the managed instance.
func (m *Manager) Get(id string) (*Dataset, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ds, ok := m.datasets[id]
	return ds, ok
}

// List returns snapshots of all datasets, oldest first
func (m *Manager) List() []Info {
	m.mu.RLock()
	infos := make([]Info, 0, len(m.datasets))
	for _, ds := range m.datasets {
		infos = append(infos, ds.Snapshot())
	}
	m.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

// Release drops a dataset handle. Returns false for unknown ids.
func (m *Manager) Release(id string) bool {
	m.mu.Lock()
	_, ok := m.datasets[id]
	if ok {
		delete(m.datasets, id)
	}
	live := len(m.datasets)
	m.mu.Unlock()

	if ok && m.metrics != nil {
		m.metrics.SetDatasetsLive(live)
	}
	return ok
}

// Stats summarizes the managed datasets
type Stats struct {
	Total   int           `json:"total"`
	ByState map[State]int `json:"by_state"`
}

// Stats returns manager statistics
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := Stats{
		Total:   len(m.datasets),
		ByState: make(map[State]int),
	}
	for _, ds := range m.datasets {
		stats.ByState[ds.State()]++
	}
	return stats
}
