// Package audit persists per-utterance audit records.
package audit

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/aurora-go/internal/domain"
	"github.com/doeshing/aurora-go/internal/ports"
)

// SQLiteStore persists the audit trail in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the audit database under dir. When the
// database cannot be opened, the store degrades to the JSONL file fallback.
func NewSQLiteStore(dir string) *SQLiteStore {
	path := filepath.Join(dir, "audit.db")
	_ = os.MkdirAll(dir, domain.DirectoryPermissions)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path}
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		return &SQLiteStore{path: path}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS utterances (
		id TEXT PRIMARY KEY,
		timestamp TEXT,
		utterance TEXT,
		intent TEXT,
		confidence REAL,
		decision TEXT,
		status TEXT,
		executed INTEGER,
		success INTEGER,
		exit_code INTEGER,
		speaker_verified INTEGER,
		speaker_confidence REAL
	);`)
	return err
}

// Save implements ports.AuditRepository.
func (s *SQLiteStore) Save(record domain.AuditRecord) error {
	if s.db == nil {
		return (&FileStore{path: s.fallbackPath()}).Save(record)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO utterances
		(id, timestamp, utterance, intent, confidence, decision, status, executed, success, exit_code, speaker_verified, speaker_confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Timestamp.Format(domain.TimestampFormat),
		record.Utterance,
		record.Intent,
		record.Confidence,
		string(record.Decision),
		string(record.Status),
		boolToInt(record.Executed),
		boolToInt(record.Success),
		record.ExitCode,
		boolToInt(record.SpeakerVerified),
		record.SpeakerConfidence,
	)
	return err
}

// Records returns audit entries, newest first (limit/search optional).
func (s *SQLiteStore) Records(limit int, search string) ([]domain.AuditRecord, error) {
	if s.db == nil {
		return (&FileStore{path: s.fallbackPath()}).Records(limit, search)
	}
	builder := strings.Builder{}
	builder.WriteString("SELECT id, timestamp, utterance, intent, confidence, decision, status, executed, success, exit_code, speaker_verified, speaker_confidence FROM utterances")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE utterance LIKE ? OR intent LIKE ?")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	builder.WriteString(" ORDER BY datetime(timestamp) DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.AuditRecord
	for rows.Next() {
		var rec domain.AuditRecord
		var ts, decision, status string
		var executed, success, verified int
		if err := rows.Scan(&rec.ID, &ts, &rec.Utterance, &rec.Intent, &rec.Confidence, &decision, &status, &executed, &success, &rec.ExitCode, &verified, &rec.SpeakerConfidence); err != nil {
			return nil, err
		}
		if t, err := time.Parse(domain.TimestampFormat, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Decision = domain.Decision(decision)
		rec.Status = domain.UtteranceStatus(status)
		rec.Executed = executed == 1
		rec.Success = success == 1
		rec.SpeakerVerified = verified == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all audit entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return (&FileStore{path: s.fallbackPath()}).Clear()
	}
	_, err := s.db.Exec("DELETE FROM utterances")
	return err
}

// ExportJSON writes the audit trail to a jsonl file.
func (s *SQLiteStore) ExportJSON(dest string) error {
	records, err := s.Records(0, "")
	if err != nil {
		return err
	}
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) fallbackPath() string {
	return strings.TrimSuffix(s.path, ".db") + ".jsonl"
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.AuditRepository = (*SQLiteStore)(nil)
