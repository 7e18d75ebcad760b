package store

import (
	"fmt"
	"sync"
	"time"
)

// MemStore is an in-memory Store for tests and one-shot runs.
type MemStore struct {
	mu        sync.Mutex
	suites    map[int64]*Suite
	trials    map[int64]*Trial
	nextSuite int64
	nextTrial int64
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		suites: make(map[int64]*Suite),
		trials: make(map[int64]*Trial),
	}
}

func (s *MemStore) Close() error { return nil }

func (s *MemStore) CreateSuite(scenario, planner string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSuite++
	s.suites[s.nextSuite] = &Suite{
		ID:        s.nextSuite,
		Scenario:  scenario,
		Planner:   planner,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	return s.nextSuite, nil
}

func (s *MemStore) FinishSuite(suiteID int64, trials int, accuracy float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	su, ok := s.suites[suiteID]
	if !ok {
		return fmt.Errorf("finish suite %d: not found", suiteID)
	}
	su.Trials = trials
	su.Accuracy = accuracy
	return nil
}

func (s *MemStore) GetSuite(suiteID int64) (*Suite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	su, ok := s.suites[suiteID]
	if !ok {
		return nil, fmt.Errorf("suite %d: not found", suiteID)
	}
	cp := *su
	return &cp, nil
}

func (s *MemStore) ListSuites() ([]*Suite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Suite, 0, len(s.suites))
	for id := int64(1); id <= s.nextSuite; id++ {
		if su, ok := s.suites[id]; ok {
			cp := *su
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemStore) SaveTrial(t *Trial) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.suites[t.SuiteID]; !ok {
		return 0, fmt.Errorf("save trial: suite %d not found", t.SuiteID)
	}
	s.nextTrial++
	cp := *t
	cp.ID = s.nextTrial
	s.trials[s.nextTrial] = &cp
	return s.nextTrial, nil
}

func (s *MemStore) ListTrials(suiteID int64) ([]*Trial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Trial
	for id := int64(1); id <= s.nextTrial; id++ {
		t, ok := s.trials[id]
		if !ok || t.SuiteID != suiteID {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

var _ Store = (*MemStore)(nil)
