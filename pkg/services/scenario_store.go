package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"scenario-sim-api/pkg/models"
)

// DefaultSessionID はセッションIDが指定されない場合に使われます。
const DefaultSessionID = "default"

// ScenarioStore は保存済みシナリオをセッションごとにメモリ上で保持します。
// 1セッションあたりの上限を超えると最も古いシナリオから削除します。
type ScenarioStore struct {
	mu            sync.RWMutex
	sessions      map[string][]models.Scenario
	maxPerSession int
	now           func() time.Time
	logger        zerolog.Logger
}

// NewScenarioStore は新しいScenarioStoreを生成します。maxPerSession が0以下なら無制限です。
func NewScenarioStore(maxPerSession int, logger zerolog.Logger) *ScenarioStore {
	return &ScenarioStore{
		sessions:      make(map[string][]models.Scenario),
		maxPerSession: maxPerSession,
		now:           time.Now,
		logger:        logger.With().Str("component", "scenario_store").Logger(),
	}
}

func sessionKey(sessionID string) string {
	if sessionID == "" {
		return DefaultSessionID
	}
	return sessionID
}

// Add はIDと作成日時を割り当ててシナリオを保存します。
func (s *ScenarioStore) Add(sessionID string, scenario models.Scenario) models.Scenario {
	key := sessionKey(sessionID)
	scenario.ID = uuid.NewString()
	scenario.SessionID = key
	scenario.CreatedAt = s.now().UTC()
	scenario.Factors = cloneFactors(scenario.Factors)

	s.mu.Lock()
	defer s.mu.Unlock()

	list := append(s.sessions[key], scenario)
	if s.maxPerSession > 0 && len(list) > s.maxPerSession {
		evicted := len(list) - s.maxPerSession
		s.logger.Debug().
			Str("session_id", key).
			Int("evicted", evicted).
			Msg("Session scenario limit reached, evicting oldest")
		list = append([]models.Scenario(nil), list[evicted:]...)
	}
	s.sessions[key] = list
	return scenario
}

// List はセッションのシナリオを保存順に返します。
func (s *ScenarioStore) List(sessionID string) []models.Scenario {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.sessions[sessionKey(sessionID)]
	out := make([]models.Scenario, len(list))
	copy(out, list)
	return out
}

// Recent は直近 n 件を保存順に返します。
func (s *ScenarioStore) Recent(sessionID string, n int) []models.Scenario {
	list := s.List(sessionID)
	if n > 0 && len(list) > n {
		return list[len(list)-n:]
	}
	return list
}

func (s *ScenarioStore) Get(sessionID, id string) (models.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sc := range s.sessions[sessionKey(sessionID)] {
		if sc.ID == id {
			return sc, nil
		}
	}
	return models.Scenario{}, fmt.Errorf("scenario %q: %w", id, ErrScenarioNotFound)
}

// Delete は1件削除します。
func (s *ScenarioStore) Delete(sessionID, id string) error {
	key := sessionKey(sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.sessions[key]
	for i, sc := range list {
		if sc.ID == id {
			s.sessions[key] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("scenario %q: %w", id, ErrScenarioNotFound)
}

// Clear はセッションの全シナリオを削除し、削除件数を返します。
func (s *ScenarioStore) Clear(sessionID string) int {
	key := sessionKey(sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.sessions[key])
	delete(s.sessions, key)
	return n
}
