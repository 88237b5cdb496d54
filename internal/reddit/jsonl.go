package reddit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/persona/pkg/persona/ingest"
	"github.com/cognicore/persona/pkg/persona/internalerr"
)

// The offline dump format is one header line holding the Snapshot fields,
// then one RawItem per line.

// WriteJSONL writes a snapshot in the offline dump format.
func WriteJSONL(w io.Writer, snap ingest.Snapshot) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(snap); err != nil {
		return err
	}
	for _, list := range [][]ingest.RawItem{snap.Posts, snap.Comments} {
		for _, item := range list {
			if err := enc.Encode(item); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadJSONL reads a dump written by WriteJSONL. Malformed item lines are
// skipped with a warning.
func LoadJSONL(path string, logger *zap.Logger) (ingest.Snapshot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	f, err := os.Open(path)
	if err != nil {
		return ingest.Snapshot{}, fmt.Errorf("read file %s: %w", path, err)
	}
	defer f.Close()

	var snap ingest.Snapshot
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	lineNo := 0
	header := false
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if !header {
			if err := json.Unmarshal([]byte(line), &snap); err != nil {
				return ingest.Snapshot{}, fmt.Errorf("%w: header of %s: %v", internalerr.ErrInvalidInput, path, err)
			}
			header = true
			continue
		}

		var item ingest.RawItem
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			logger.Warn("skipping malformed JSON line", zap.String("path", path), zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		switch item.Kind {
		case ingest.KindPost:
			snap.Posts = append(snap.Posts, item)
		case ingest.KindComment:
			snap.Comments = append(snap.Comments, item)
		default:
			logger.Warn("skipping line with unknown kind", zap.String("path", path), zap.Int("line", lineNo), zap.String("kind", string(item.Kind)))
		}
	}
	if err := sc.Err(); err != nil {
		return ingest.Snapshot{}, fmt.Errorf("read file %s: %w", path, err)
	}
	if !header {
		return ingest.Snapshot{}, fmt.Errorf("%w: no snapshot header in %s", internalerr.ErrInvalidInput, path)
	}
	return snap, nil
}
