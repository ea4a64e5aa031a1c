package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lucasjlepore/trackexport"
)

// WatermarkFileName is the default name of the last-exported-id file inside the destination.
const WatermarkFileName = "lstupd.txt"

// WatermarkFile persists the id of the newest exported activity as decimal text.
type WatermarkFile struct {
	Path string
}

// Load returns the stored id, or 0 when the file is missing or empty.
func (w WatermarkFile) Load() (int64, error) {
	raw, err := os.ReadFile(w.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read watermark: %w", err)
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse watermark %q: %w", text, err)
	}
	return v, nil
}

// Save writes wm unless the run exported nothing. It reports whether the file was written.
func (w WatermarkFile) Save(wm trackexport.Watermark) (bool, error) {
	if !wm.Exported() || wm < 0 {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(w.Path), 0o755); err != nil {
		return false, fmt.Errorf("create watermark dir: %w", err)
	}
	if err := os.WriteFile(w.Path, []byte(strconv.FormatInt(int64(wm), 10)), 0o644); err != nil {
		return false, fmt.Errorf("write watermark: %w", err)
	}
	return true, nil
}

// BeginTime returns the first activity id to read after last was exported.
func BeginTime(last int64) int64 {
	if last > 0 {
		return last + 1
	}
	return 0
}
