package tenant

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GymConfig describes one tenant: the gym's id, its default member team and
// the plan attached to freshly provisioned profiles.
type GymConfig struct {
	TenantID      string          `json:"tenant_id"`
	Name          string          `json:"name"`
	DefaultTeamID string          `json:"default_team_id"`
	DefaultPlanID string          `json:"default_plan_id"`
	Features      map[string]bool `json:"features"`
}

type GymsFile struct {
	Gyms []GymConfig `json:"gyms"`
}

type Registry struct {
	mu   sync.RWMutex
	gyms map[string]*GymConfig
}

func NewRegistry() *Registry {
	return &Registry{
		gyms: make(map[string]*GymConfig),
	}
}

func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gyms config: %w", err)
	}

	var file GymsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse gyms config: %w", err)
	}

	registry := NewRegistry()
	for i := range file.Gyms {
		registry.Register(&file.Gyms[i])
	}
	return registry, nil
}

func (r *Registry) Register(cfg *GymConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gyms[cfg.TenantID] = cfg
}

func (r *Registry) Get(tenantID string) *GymConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gyms[tenantID]
}

func (r *Registry) Exists(tenantID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.gyms[tenantID]
	return ok
}

func (r *Registry) HasFeature(tenantID, feature string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.gyms[tenantID]
	if !ok {
		return false
	}
	return cfg.Features[feature]
}

func (r *Registry) DefaultTeamID(tenantID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.gyms[tenantID]
	if !ok {
		return ""
	}
	return cfg.DefaultTeamID
}

func (r *Registry) DefaultPlanID(tenantID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.gyms[tenantID]
	if !ok {
		return ""
	}
	return cfg.DefaultPlanID
}

func (r *Registry) All() []*GymConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*GymConfig, 0, len(r.gyms))
	for _, cfg := range r.gyms {
		result = append(result, cfg)
	}
	return result
}
