// Package backup writes and restores JSON snapshots of the memo and user
// tables. Snapshot files are self-contained: restoring one into an empty
// database reproduces the data it was taken from.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/silenthink/memo-cli/internal/models"
	"github.com/silenthink/memo-cli/internal/store"
)

const (
	// SnapshotVersion is the format version written into every snapshot.
	SnapshotVersion = 1

	filePrefix = "memo_backup_"
	fileExt    = ".json"
	nameLayout = "2006-01-02_15-04-05"
)

// ErrSnapshotNotFound is returned when a named snapshot file does not exist.
var ErrSnapshotNotFound = errors.New("backup file not found")

// MillisTime marshals as integer milliseconds since the Unix epoch, the
// snapshot wire format for all dates.
type MillisTime time.Time

// MarshalJSON encodes the time as epoch milliseconds.
func (t MillisTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(time.Time(t).UnixMilli(), 10)), nil
}

// UnmarshalJSON decodes epoch milliseconds.
func (t *MillisTime) UnmarshalJSON(data []byte) error {
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid millisecond timestamp %q: %w", string(data), err)
	}
	*t = MillisTime(time.UnixMilli(ms))
	return nil
}

// Time returns the underlying time value.
func (t MillisTime) Time() time.Time {
	return time.Time(t)
}

// memoRecord is the snapshot encoding of a memo.
type memoRecord struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	CreatedDate  MillisTime `json:"createdDate"`
	ModifiedDate MillisTime `json:"modifiedDate"`
	ImagePath    string     `json:"imagePath,omitempty"`
	Category     string     `json:"category"`
	Priority     int        `json:"priority"`
}

// userRecord is the snapshot encoding of a user account.
type userRecord struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	CreatedDate MillisTime `json:"createdDate"`
}

// Snapshot is the full backup file contents.
type Snapshot struct {
	Version    int          `json:"version"`
	BackupTime MillisTime   `json:"backupTime"`
	Memos      []memoRecord `json:"memos"`
	Users      []userRecord `json:"users"`
}

// Report summarizes what a restore actually did, record by record.
type Report struct {
	MemosInserted int
	MemosFailed   int
	UsersInserted int
	UsersSkipped  int
	UsersFailed   int
	MemosCleared  bool
}

// Info describes a snapshot file on disk for listing purposes.
type Info struct {
	FileName   string
	FilePath   string
	FileSize   int64
	BackupTime time.Time
	MemoCount  int
	UserCount  int
	Version    int
}

// Manager creates, lists, restores and deletes snapshot files in one
// directory.
type Manager struct {
	store *store.Store
	dir   string
}

// NewManager returns a manager writing snapshots under dir. The directory is
// created lazily on the first Create call.
func NewManager(s *store.Store, dir string) *Manager {
	return &Manager{store: s, dir: dir}
}

// Dir returns the snapshot directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Create writes a snapshot of all memos and users and returns the absolute
// path of the new file. File names embed the creation time so a directory
// listing sorts chronologically.
func (m *Manager) Create() (string, error) {
	memos, err := m.store.Memos.ListAll(models.SortModifiedDateDesc)
	if err != nil {
		return "", fmt.Errorf("failed to read memos for backup: %w", err)
	}
	users, err := m.store.Users.ListAll()
	if err != nil {
		return "", fmt.Errorf("failed to read users for backup: %w", err)
	}

	now := time.Now()
	snapshot := Snapshot{
		Version:    SnapshotVersion,
		BackupTime: MillisTime(now),
		Memos:      make([]memoRecord, 0, len(memos)),
		Users:      make([]userRecord, 0, len(users)),
	}
	for _, memo := range memos {
		snapshot.Memos = append(snapshot.Memos, memoToRecord(memo))
	}
	for _, user := range users {
		snapshot.Users = append(snapshot.Users, userRecord{
			ID:          user.ID,
			Username:    user.Username,
			Email:       user.Email,
			Password:    user.Password,
			CreatedDate: MillisTime(user.CreatedDate),
		})
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := filePrefix + now.Format(nameLayout) + fileExt
	path := filepath.Join(m.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

// Load parses a snapshot file without touching the database.
func (m *Manager) Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read backup file: %w", err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse backup file: %w", err)
	}
	return &snapshot, nil
}

// Restore loads a snapshot and writes its records into the database.
//
// When clearExisting is set, existing memos are deleted first; user accounts
// are never cleared. Users are inserted only when their username is not
// already registered, so repeated restores do not duplicate accounts. Memos
// are always inserted with fresh ids, so restoring into a non-empty table
// without clearExisting duplicates them. Individual record failures are
// counted and do not abort the rest of the restore.
func (m *Manager) Restore(path string, clearExisting bool) (*Snapshot, *Report, error) {
	snapshot, err := m.Load(path)
	if err != nil {
		return nil, nil, err
	}

	report := &Report{}

	if clearExisting {
		if err := m.clearMemos(); err != nil {
			return nil, nil, err
		}
		report.MemosCleared = true
	}

	for _, rec := range snapshot.Users {
		count, err := m.store.Users.CountByUsername(rec.Username)
		if err != nil {
			report.UsersFailed++
			continue
		}
		if count > 0 {
			report.UsersSkipped++
			continue
		}
		user := models.User{
			Username:    rec.Username,
			Email:       rec.Email,
			Password:    rec.Password,
			CreatedDate: rec.CreatedDate.Time(),
		}
		if _, err := m.store.Users.Insert(&user); err != nil {
			report.UsersFailed++
			continue
		}
		report.UsersInserted++
	}

	for _, rec := range snapshot.Memos {
		memo := recordToMemo(rec)
		if _, err := m.store.Memos.Insert(&memo); err != nil {
			report.MemosFailed++
			continue
		}
		report.MemosInserted++
	}

	return snapshot, report, nil
}

// List returns the snapshots in the backup directory, most recent first.
// Files that cannot be parsed as snapshots are skipped.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), filePrefix) ||
			!strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		path := filepath.Join(m.dir, entry.Name())
		snapshot, err := m.Load(path)
		if err != nil {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			FileName:   entry.Name(),
			FilePath:   path,
			FileSize:   fi.Size(),
			BackupTime: snapshot.BackupTime.Time(),
			MemoCount:  len(snapshot.Memos),
			UserCount:  len(snapshot.Users),
			Version:    snapshot.Version,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].BackupTime.After(infos[j].BackupTime)
	})
	return infos, nil
}

// Delete removes a snapshot file. The bool reports whether a file was
// actually removed.
func (m *Manager) Delete(path string) (bool, error) {
	err := os.Remove(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete backup file: %w", err)
	}
	return true, nil
}

// clearMemos deletes every memo. Done row by row through the store so the
// same delete path is exercised as in normal operation.
func (m *Manager) clearMemos() error {
	memos, err := m.store.Memos.ListAll(models.SortModifiedDateDesc)
	if err != nil {
		return fmt.Errorf("failed to list memos for clearing: %w", err)
	}
	for i := range memos {
		if err := m.store.Memos.Delete(&memos[i]); err != nil {
			return fmt.Errorf("failed to clear memos: %w", err)
		}
	}
	return nil
}

func memoToRecord(memo models.Memo) memoRecord {
	return memoRecord{
		ID:           memo.ID,
		Title:        memo.Title,
		Content:      memo.Content,
		CreatedDate:  MillisTime(memo.CreatedDate),
		ModifiedDate: MillisTime(memo.ModifiedDate),
		ImagePath:    memo.ImagePath,
		Category:     memo.Category,
		Priority:     memo.Priority,
	}
}

// recordToMemo converts a snapshot record back to a memo with the id reset,
// so the store assigns a fresh one on insert.
func recordToMemo(rec memoRecord) models.Memo {
	return models.Memo{
		Title:        rec.Title,
		Content:      rec.Content,
		CreatedDate:  rec.CreatedDate.Time(),
		ModifiedDate: rec.ModifiedDate.Time(),
		ImagePath:    rec.ImagePath,
		Category:     rec.Category,
		Priority:     rec.Priority,
	}
}
