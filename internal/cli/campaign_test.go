package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/noir/internal/world"
)

const nextCaseScenario = "name: next_case\nseed: 5\nsteps: [{action: visit_scene}]\n"

func TestCampaignCarriesWorldBetweenCases(t *testing.T) {
	first := writeScenario(t, wrongSuspectScenario)
	second := writeScenario(t, nextCaseScenario)

	out, err := execute(t, NewCampaignCommand(testRootOptions(t, "text")), "--no-journal", first, second)
	require.NoError(t, err)
	assert.Contains(t, out, "PASS wrong_suspect (case_12, seed 12)")
	assert.Contains(t, out, "> Trust is thin; witnesses are guarded.")
	assert.Contains(t, out, "District status shifted to tense.")
	assert.Contains(t, out, "World: trust 2, pressure 2")
	assert.Contains(t, out, "2 case(s) closed")
}

func TestCampaignOpensFromWorldFile(t *testing.T) {
	worldPath := writeScenario(t, "trust: 6\npressure: 5\n")
	scenario := writeScenario(t, nextCaseScenario)

	out, err := execute(t, NewCampaignCommand(testRootOptions(t, "text")), "--no-journal", "--world", worldPath, scenario)
	require.NoError(t, err)
	assert.Contains(t, out, "> Pressure is high; the department expects quick movement.")
	assert.Contains(t, out, "> Trust holds; cooperation is steady.")
	assert.Contains(t, out, "1 case(s) closed")

	// the file is an input only
	w, err := world.Load(worldPath)
	require.NoError(t, err)
	assert.Empty(t, w.History)
}

func TestCampaignJSON(t *testing.T) {
	scenario := writeScenario(t, nextCaseScenario)
	out, err := execute(t, NewCampaignCommand(testRootOptions(t, "json")), "--no-journal", scenario)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Pass  bool `json:"pass"`
			World struct {
				Trust int `json:"trust"`
			} `json:"world"`
			Cases []struct {
				Profile struct {
					Reading string `json:"reading"`
				} `json:"profile"`
			} `json:"cases"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Pass)
	require.Len(t, resp.Data.Cases, 1)
	assert.NotEmpty(t, resp.Data.Cases[0].Profile.Reading)
}

func TestCampaignRejectsBadWorldFile(t *testing.T) {
	worldPath := writeScenario(t, "trust: 40\n")
	scenario := writeScenario(t, nextCaseScenario)
	_, err := execute(t, NewCampaignCommand(testRootOptions(t, "text")), "--no-journal", "--world", worldPath, scenario)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "trust must not exceed 6")
}

func TestCampaignJournalsCases(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "noir.db")
	scenario := writeScenario(t, nextCaseScenario)
	_, err := execute(t, NewCampaignCommand(testRootOptions(t, "text")), "--db", dbPath, scenario)
	require.NoError(t, err)

	// the case opened with the world standing; replay must start from it too
	out, err := execute(t, NewReplayCommand(testRootOptions(t, "text")), "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "OK   case_5 (seed 5)")
	assert.Contains(t, out, "All cases reproduced their journal.")
}
