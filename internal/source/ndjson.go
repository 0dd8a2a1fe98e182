package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/crimson-sun/stresscheck/internal/model"
)

// MaxLineBytes bounds a single NDJSON line.
const MaxLineBytes = 1 << 20

// idField is lifted out of each object into Record.ID.
const idField = "id"

// NDJSON reads one JSON object of canonical answers per line. Blank lines
// are skipped. A line that is not a JSON object becomes a Record with Err
// set; reading continues with the next line.
type NDJSON struct {
	r io.Reader
}

// NewNDJSON creates a source over r.
func NewNDJSON(r io.Reader) *NDJSON {
	return &NDJSON{r: r}
}

// Stream starts reading in a goroutine.
func (s *NDJSON) Stream(ctx context.Context) (<-chan Record, error) {
	ch := make(chan Record, 64)
	go func() {
		defer close(ch)

		sc := bufio.NewScanner(s.r)
		sc.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)

		line := 0
		for sc.Scan() {
			line++
			text := bytes.TrimSpace(sc.Bytes())
			if len(text) == 0 {
				continue
			}
			select {
			case ch <- decodeLine(line, text):
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			slog.Error("ndjson source: read failed", "line", line+1, "error", err)
			select {
			case ch <- Record{Line: line + 1, Err: fmt.Errorf("read: %w", err)}:
			case <-ctx.Done():
			}
		}
	}()
	return ch, nil
}

func decodeLine(line int, text []byte) Record {
	var obj map[string]any
	if err := json.Unmarshal(text, &obj); err != nil {
		return Record{Line: line, Err: fmt.Errorf("line %d: %w", line, err)}
	}
	if obj == nil {
		return Record{Line: line, Err: fmt.Errorf("line %d: not a JSON object", line)}
	}

	rec := Record{Line: line}
	if id, ok := obj[idField]; ok {
		rec.ID = fmt.Sprint(id)
		delete(obj, idField)
	}
	rec.Answers = model.AnswersFromMap(obj)
	return rec
}
