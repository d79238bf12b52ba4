package tenant

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGymsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gyms.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeGymsFile(t, `{
		"gyms": [
			{
				"tenant_id": "gym-berlin",
				"name": "Berlin Gym",
				"default_team_id": "team-1",
				"default_plan_id": "plan-1",
				"features": {"classes": true}
			},
			{
				"tenant_id": "gym-hamburg",
				"name": "Hamburg Gym",
				"default_team_id": "team-2",
				"default_plan_id": "plan-2"
			}
		]
	}`)

	registry, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Len(t, registry.All(), 2)
	assert.True(t, registry.Exists("gym-berlin"))
	assert.False(t, registry.Exists("gym-munich"))

	cfg := registry.Get("gym-berlin")
	require.NotNil(t, cfg)
	assert.Equal(t, "Berlin Gym", cfg.Name)
	assert.Equal(t, "team-1", registry.DefaultTeamID("gym-berlin"))
	assert.Equal(t, "plan-2", registry.DefaultPlanID("gym-hamburg"))
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadFromFileInvalidJSON(t *testing.T) {
	path := writeGymsFile(t, `{"gyms": [`)
	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestHasFeature(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&GymConfig{
		TenantID: "gym-berlin",
		Features: map[string]bool{"classes": true, "subscriptions": false},
	})

	assert.True(t, registry.HasFeature("gym-berlin", "classes"))
	assert.False(t, registry.HasFeature("gym-berlin", "subscriptions"))
	assert.False(t, registry.HasFeature("gym-berlin", "unknown"))
	assert.False(t, registry.HasFeature("gym-munich", "classes"))
}

func TestDefaultsForUnknownTenant(t *testing.T) {
	registry := NewRegistry()
	assert.Empty(t, registry.DefaultTeamID("missing"))
	assert.Empty(t, registry.DefaultPlanID("missing"))
	assert.Nil(t, registry.Get("missing"))
}
