package metrics

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/require"

	"mcts/game"
	"mcts/searcher"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err, "Should open %s", path)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err, "Should parse %s as CSV", path)
	return rows
}

func TestNewWriter(t *testing.T) {
	root := t.TempDir()

	w, err := NewWriter(root, "board_eval")
	require.NoError(t, err)

	dir := w.Dir()
	require.True(t, strings.HasPrefix(dir, filepath.Join(root, "board_eval")),
		"Should place the run directory under root/name")

	info, err := os.Stat(dir)
	require.NoError(t, err, "Should create the run directory")
	require.True(t, info.IsDir())
}

func TestWriteAgentConfigs(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "test")
	require.NoError(t, err)

	configs := []AgentConfig{
		{ID: 1, Kind: "search", Simulations: 500, Exploration: 1.4, Seed: 42},
		{ID: 2, Kind: "random", Seed: 7},
	}
	require.NoError(t, w.WriteAgentConfigs(configs))

	rows := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
	require.Equal(t, [][]string{
		{"id", "kind", "simulations", "exploration", "seed"},
		{"1", "search", "500", "1.4", "42"},
		{"2", "random", "0", "0", "7"},
	}, rows, "Should write one row per config under a header")
}

func TestWriteGameRecords(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "test")
	require.NoError(t, err)

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []GameRecord{
		{
			ID:     1,
			Agent1: 1,
			Agent2: 2,
			GameMetric: GameMetric{
				Winner:     game.Player(1),
				Outcome:    1,
				TotalMoves: 7,
				StartTime:  start,
				Duration:   250 * time.Millisecond,
			},
		},
	}
	require.NoError(t, w.WriteGameRecords(records))

	rows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
	require.Len(t, rows, 2, "Should write a header and one record")
	require.Equal(t,
		[]string{"id", "agent1", "agent2", "winner", "outcome", "moves", "start_time", "duration"},
		rows[0])
	require.Equal(t,
		[]string{"1", "1", "2", "1", "1", "7", "2024-03-01T12:00:00Z", "250ms"},
		rows[1])
}

func TestWriteMoveRecords(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "test")
	require.NoError(t, err)

	records := []MoveRecord{
		{
			Game: 1,
			MoveMetric: MoveMetric{
				Step:   1,
				Player: game.Player(1),
				Action: game.Action(4),
				Metrics: searcher.Metrics{
					Simulations:  500,
					Expansions:   120,
					RolloutSteps: 2100,
					FullRollouts: 495,
					Duration:     30 * time.Millisecond,
				},
			},
		},
	}
	require.NoError(t, w.WriteMoveRecords(records))

	rows := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
	require.Len(t, rows, 2, "Should write a header and one record")
	require.Equal(t,
		[]string{"game", "step", "player", "action", "simulations", "expansions", "rollout_steps", "full_rollouts", "duration"},
		rows[0])
	require.Equal(t,
		[]string{"1", "1", "1", "4", "500", "120", "2100", "495", "30ms"},
		rows[1])
}

func TestWriteGameArchive(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "test")
	require.NoError(t, err)

	start := time.Now().UTC()
	records := []GameRecord{
		{ID: 1, Agent1: 1, Agent2: 2, GameMetric: GameMetric{Outcome: 1, TotalMoves: 7, StartTime: start, Duration: time.Second}},
		{ID: 2, Agent1: 2, Agent2: 1, GameMetric: GameMetric{Outcome: -1, TotalMoves: 9, StartTime: start, Duration: time.Second}},
	}
	require.NoError(t, w.WriteGameArchive(records))

	path := filepath.Join(w.Dir(), "game_records.parquet")
	info, err := os.Stat(path)
	require.NoError(t, err, "Should write the archive")
	require.Greater(t, info.Size(), int64(0))

	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err), "Should not leave the temp file behind")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	pf, err := parquet.OpenFile(f, info.Size())
	require.NoError(t, err, "Should read the archive back")

	reader := parquet.NewGenericReader[gameRow](pf)
	defer reader.Close()
	rows := make([]gameRow, 2)
	n, err := reader.Read(rows)
	if err != nil {
		require.ErrorIs(t, err, io.EOF)
	}
	require.Equal(t, 2, n, "Should archive both records")
	require.Equal(t, int64(1), rows[0].ID)
	require.Equal(t, float64(-1), rows[1].Outcome)
}
