package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// gameRow is the Parquet schema for archived game records. Records are
// archived in addition to CSV so large runs stay cheap to store and
// query later.
type gameRow struct {
	ID         int64   `parquet:"id"`
	Agent1     int64   `parquet:"agent1"`
	Agent2     int64   `parquet:"agent2"`
	Winner     int32   `parquet:"winner"`
	Outcome    float64 `parquet:"outcome"`
	Moves      int64   `parquet:"moves"`
	StartTime  int64   `parquet:"start_time_unix_ms"`
	DurationMS int64   `parquet:"duration_ms"`
}

// WriteGameArchive stores records as a zstd-compressed Parquet file,
// written to a temp file and renamed atomically.
func (w *Writer) WriteGameArchive(records []GameRecord) error {
	rows := make([]gameRow, len(records))
	for i, r := range records {
		rows[i] = gameRow{
			ID:         int64(r.ID),
			Agent1:     int64(r.Agent1),
			Agent2:     int64(r.Agent2),
			Winner:     int32(r.Winner),
			Outcome:    r.Outcome,
			Moves:      int64(r.TotalMoves),
			StartTime:  r.StartTime.UnixMilli(),
			DurationMS: r.Duration.Milliseconds(),
		}
	}

	outPath := filepath.Join(w.baseDir, "game_records.parquet")
	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "game_record_v1"),
	); err != nil {
		return fmt.Errorf("failed to write game archive: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("failed to finalize game archive: %w", err)
	}
	return nil
}
