package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
)

// SnapshotFileName is the meeting snapshot inside the data directory.
const SnapshotFileName = "meetings.json"

// Ensure SnapshotStore implements the interface.
var _ driven.MeetingSnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore keeps the meeting registry as one JSON object keyed by
// meeting id. Writes go to a temporary file that is renamed into place, so
// readers never see a partial snapshot.
type SnapshotStore struct {
	mu       sync.Mutex
	filePath string
}

// meetingRecord is the on-disk form of a meeting. Duration is written as
// whole seconds; the older "H:MM:SS" string form is still read.
type meetingRecord struct {
	Title             string          `json:"title"`
	Platform          string          `json:"platform"`
	StartTime         string          `json:"start_time"`
	Duration          json.RawMessage `json:"duration"`
	URL               string          `json:"url,omitempty"`
	MeetingID         string          `json:"meeting_id,omitempty"`
	Password          string          `json:"password,omitempty"`
	Recurring         bool            `json:"recurring"`
	RecurrencePattern string          `json:"recurrence_pattern,omitempty"`
	RequiredEmail     string          `json:"required_email,omitempty"`
}

// NewSnapshotStore creates a store for meetings.json in dataDir.
// An empty dataDir means DefaultDataDir.
func NewSnapshotStore(dataDir string) (*SnapshotStore, error) {
	if dataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, err
		}
		dataDir = dir
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, err
	}
	return &SnapshotStore{filePath: filepath.Join(dataDir, SnapshotFileName)}, nil
}

// Path returns the snapshot file path.
func (s *SnapshotStore) Path() string {
	return s.filePath
}

// Load reads the snapshot. Records that fail to decode are skipped one by
// one; a file that is not a JSON object fails as a whole.
func (s *SnapshotStore) Load(ctx context.Context) (domain.SnapshotLoad, error) {
	if err := ctx.Err(); err != nil {
		return domain.SnapshotLoad{}, err
	}

	s.mu.Lock()
	data, err := os.ReadFile(s.filePath)
	s.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return domain.SnapshotLoad{}, nil
		}
		return domain.SnapshotLoad{}, fmt.Errorf("%w: read snapshot: %w", domain.ErrPersistence, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.SnapshotLoad{}, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.SnapshotLoad{}, fmt.Errorf("%w: parse snapshot: %w", domain.ErrPersistence, err)
	}

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var result domain.SnapshotLoad
	for _, id := range ids {
		m, err := decodeRecord(id, raw[id])
		if err != nil {
			result.Skipped = append(result.Skipped, domain.SkippedRecord{ID: id, Error: err.Error()})
			continue
		}
		result.Meetings = append(result.Meetings, m)
	}
	return result, nil
}

// Quarantine renames the snapshot to meetings.json.corrupt-<UTC timestamp>.
func (s *SnapshotStore) Quarantine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	dest := s.filePath + ".corrupt-" + time.Now().UTC().Format("20060102T150405.000000000Z")
	if err := os.Rename(s.filePath, dest); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("%w: quarantine snapshot: %w", domain.ErrPersistence, err)
	}
	return dest, nil
}

// Save replaces the snapshot with meetings.
func (s *SnapshotStore) Save(ctx context.Context, meetings []domain.Meeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	records := make(map[string]meetingRecord, len(meetings))
	for i := range meetings {
		records[meetings[i].ID] = encodeRecord(&meetings[i])
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %w", domain.ErrPersistence, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeFileAtomic(s.filePath, data); err != nil {
		return fmt.Errorf("%w: write snapshot: %w", domain.ErrPersistence, err)
	}
	return nil
}

func encodeRecord(m *domain.Meeting) meetingRecord {
	return meetingRecord{
		Title:             m.Title,
		Platform:          m.Platform.String(),
		StartTime:         m.StartTime.Format(time.RFC3339),
		Duration:          json.RawMessage(strconv.FormatInt(int64(m.Duration/time.Second), 10)),
		URL:               m.URL,
		MeetingID:         m.MeetingID,
		Password:          m.Password,
		Recurring:         m.Recurring,
		RecurrencePattern: m.RecurrencePattern,
		RequiredEmail:     m.RequiredEmail,
	}
}

func decodeRecord(id string, raw json.RawMessage) (domain.Meeting, error) {
	var rec meetingRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Meeting{}, err
	}
	platform, err := domain.ParsePlatform(rec.Platform)
	if err != nil {
		return domain.Meeting{}, err
	}
	start, err := parseStartTime(rec.StartTime)
	if err != nil {
		return domain.Meeting{}, err
	}
	duration, err := parseDuration(rec.Duration)
	if err != nil {
		return domain.Meeting{}, err
	}
	return domain.Meeting{
		ID:                id,
		Title:             rec.Title,
		Platform:          platform,
		StartTime:         start,
		Duration:          duration,
		URL:               rec.URL,
		MeetingID:         rec.MeetingID,
		Password:          rec.Password,
		Recurring:         rec.Recurring,
		RecurrencePattern: rec.RecurrencePattern,
		RequiredEmail:     rec.RequiredEmail,
	}, nil
}

// parseStartTime accepts RFC 3339 and zone-less ISO 8601 local times.
func parseStartTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999", "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("start_time %q is not an ISO 8601 time", v)
}

// parseDuration accepts whole seconds, or "[D day[s], ]H:MM:SS[.ffffff]".
func parseDuration(raw json.RawMessage) (time.Duration, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}

	var seconds float64
	if err := json.Unmarshal(raw, &seconds); err == nil {
		return time.Duration(seconds * float64(time.Second)), nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return 0, fmt.Errorf("duration: %w", err)
	}
	return parseClockDuration(text)
}

func parseClockDuration(text string) (time.Duration, error) {
	bad := fmt.Errorf("duration %q is not H:MM:SS", text)

	var days time.Duration
	if i := strings.Index(text, ","); i >= 0 {
		fields := strings.Fields(text[:i])
		if len(fields) != 2 || !strings.HasPrefix(fields[1], "day") {
			return 0, bad
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0, bad
		}
		days = time.Duration(n) * 24 * time.Hour
		text = strings.TrimSpace(text[i+1:])
	}

	parts := strings.Split(text, ":")
	if len(parts) != 3 {
		return 0, bad
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, bad
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, bad
	}
	sec, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, bad
	}
	return days + time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(sec*float64(time.Second)), nil
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0600); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
