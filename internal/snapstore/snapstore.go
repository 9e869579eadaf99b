package snapstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fabricsnap/fabricsnap/internal/model"
)

// Snapshot filenames are snapshot_<host>_<timestamp>.json. The timestamp is
// minute precision in local time, with colons replaced so the name stays
// filesystem-safe; lexical filename order equals capture order.
const (
	filePrefix = "snapshot"
	fileExt    = ".json"
	timeLayout = "2006-01-02T15-04"
)

// ErrNotEnoughSnapshots is returned by LatestPair when fewer than two
// snapshots exist.
var ErrNotEnoughSnapshots = errors.New("snapstore: need at least two snapshots to compare")

// Entry is one stored snapshot, identified by filename. Host and CapturedAt
// are parsed back out of the name.
type Entry struct {
	Name       string
	Host       string
	CapturedAt time.Time
}

// Store reads and writes snapshot documents in a single directory. The
// directory is created on first save. Documents are stored exactly as the
// Snapshot marshals; loading restores the filename metadata without
// re-normalizing anything.
type Store struct {
	dir string
	log *slog.Logger
}

// New returns a Store over dir. Pass nil for a no-op logger.
func New(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}
	return &Store{dir: dir, log: logger}
}

// Dir returns the snapshot directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the snapshot document and returns its filename. A zero
// CapturedAt stamps the file with the current time.
func (s *Store) Save(snap *model.Snapshot) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("Save: create dir: %w", err)
	}

	at := snap.CapturedAt
	if at.IsZero() {
		at = time.Now()
	}
	name := fmt.Sprintf("%s_%s_%s%s", filePrefix, hostLabel(snap.Host), at.Format(timeLayout), fileExt)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("Save: encode: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("Save: write: %w", err)
	}

	s.log.Info("snapshot saved", "file", name)
	return name, nil
}

// List returns the stored snapshots sorted by filename ascending, which is
// capture order. Files that do not follow the snapshot naming are skipped.
func (s *Store) List() ([]Entry, error) {
	dirents, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}

	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		if d.IsDir() {
			continue
		}
		e, ok := parseName(d.Name())
		if !ok {
			s.log.Debug("skipping foreign file in snapshot dir", "file", d.Name())
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Load reads one stored snapshot by filename and restores its Host and
// CapturedAt from the name.
func (s *Store) Load(name string) (*model.Snapshot, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("Load %s: decode: %w", name, err)
	}
	if e, ok := parseName(name); ok {
		snap.Host = e.Host
		snap.CapturedAt = e.CapturedAt
	}
	return &snap, nil
}

// Delete removes one stored snapshot by filename.
func (s *Store) Delete(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	s.log.Info("snapshot deleted", "file", name)
	return nil
}

// LatestPair returns the two most recent snapshots, earlier first.
func (s *Store) LatestPair() (before, after Entry, err error) {
	entries, err := s.List()
	if err != nil {
		return Entry{}, Entry{}, err
	}
	if len(entries) < 2 {
		return Entry{}, Entry{}, ErrNotEnoughSnapshots
	}
	return entries[len(entries)-2], entries[len(entries)-1], nil
}

// checkName rejects names that are not plain filenames, so a caller-supplied
// name can never reach outside the store directory.
func checkName(name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid snapshot name %q", name)
	}
	return nil
}

// parseName splits snapshot_<host>_<timestamp>.json back into its parts.
// The timestamp follows the last underscore; the host may itself contain
// underscores only if something renamed the file, so the split is anchored
// at the end.
func parseName(name string) (Entry, bool) {
	if !strings.HasPrefix(name, filePrefix+"_") || !strings.HasSuffix(name, fileExt) {
		return Entry{}, false
	}
	middle := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix+"_"), fileExt)
	i := strings.LastIndexByte(middle, '_')
	if i < 0 {
		return Entry{}, false
	}
	host, ts := middle[:i], middle[i+1:]
	at, err := time.ParseInLocation(timeLayout, ts, time.Local)
	if err != nil {
		return Entry{}, false
	}
	return Entry{Name: name, Host: host, CapturedAt: at}, true
}

// hostLabel reduces a configured controller address to a filename-safe
// label: scheme and path dropped, port stripped.
func hostLabel(host string) string {
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "" {
		return "fabric"
	}
	return host
}

type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }
