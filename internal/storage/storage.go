package storage

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"
)

// Store holds convocatoria attachment files. Each stored file is
// owned by exactly one convocatoria_archivos row; List exists so the
// reconciliation sweeper can find files that lost their row.
type Store interface {
	Save(ctx context.Context, filename string, r io.Reader) error
	Remove(ctx context.Context, filename string) error
	List(ctx context.Context) ([]FileInfo, error)
}

type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// GenerateFilename produces a collision-resistant stored name keeping the
// original extension: img-<unixMillis>-<random 0..1e9><ext>.
func GenerateFilename(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("img-%d-%d%s", time.Now().UnixMilli(), rand.Int64N(1_000_000_000), ext)
}
