package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mph-llm-experiments/acore"
	_ "modernc.org/sqlite"

	"github.com/mph-llm-experiments/fika/internal/model"
)

// SQLite stores contacts and interactions in a SQLite database.
type SQLite struct {
	db   *sql.DB
	Path string
}

// DefaultDBPath returns the default database path: ~/.local/share/fika/fika.db
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "fika", "fika.db"), nil
}

// OpenSQLite opens (or creates) the database at path, configures pragmas,
// and runs migrations.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		var err error
		if path, err = DefaultDBPath(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return setup(sqlDB, path)
}

// OpenSQLiteMemory opens an in-memory database for testing.
func OpenSQLiteMemory() (*SQLite, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	// every pooled connection would otherwise see its own empty database
	sqlDB.SetMaxOpenConns(1)
	return setup(sqlDB, ":memory:")
}

func setup(sqlDB *sql.DB, path string) (*SQLite, error) {
	s := &SQLite{db: sqlDB, Path: path}
	if err := s.configurePragmas(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	if err := s.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) configurePragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

const contactColumns = `id, index_id, name, tags, note, scheduling_mode, last_contacted_at,
	cadence_interval_days, snoozed_until, birthday, birthday_pre_reminder, tier,
	last_interaction_at, hooks, created_at, updated_at`

func (s *SQLite) List(ctx context.Context) ([]model.Contact, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY index_id`)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (s *SQLite) Create(ctx context.Context, c model.Contact) (model.Contact, error) {
	if c.ID == "" {
		c.ID = acore.NewID()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Contact{}, fmt.Errorf("begin create: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(index_id), 0) + 1 FROM contacts`).Scan(&c.IndexID); err != nil {
		return model.Contact{}, fmt.Errorf("next index id: %w", err)
	}

	args, err := contactArgs(c)
	if err != nil {
		return model.Contact{}, err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO contacts (`+contactColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...); err != nil {
		return model.Contact{}, fmt.Errorf("insert contact: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.Contact{}, fmt.Errorf("commit create: %w", err)
	}
	return c, nil
}

func (s *SQLite) Update(ctx context.Context, id string, c model.Contact) error {
	c.ID = id
	args, err := contactArgs(c)
	if err != nil {
		return err
	}
	// args[0] is id, args[1] is index_id; neither changes on update
	res, err := s.db.ExecContext(ctx, `UPDATE contacts SET
		name = ?, tags = ?, note = ?, scheduling_mode = ?, last_contacted_at = ?,
		cadence_interval_days = ?, snoozed_until = ?, birthday = ?, birthday_pre_reminder = ?,
		tier = ?, last_interaction_at = ?, hooks = ?, created_at = ?, updated_at = ?
		WHERE id = ?`, append(args[2:], id)...)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	return expectOne(res, id)
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return expectOne(res, id)
}

func (s *SQLite) LogInteraction(ctx context.Context, in model.Interaction) error {
	if in.ID == "" {
		in.ID = acore.NewID()
	}
	at := formatTime(in.At)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin log interaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE contacts
		SET last_contacted_at = ?, last_interaction_at = ?, updated_at = ?
		WHERE id = ?`, at, at, at, in.ContactID)
	if err != nil {
		return fmt.Errorf("touch contact: %w", err)
	}
	if err := expectOne(res, in.ContactID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO interactions (id, contact_id, at, type, note)
		VALUES (?, ?, ?, ?, ?)`, in.ID, in.ContactID, at, string(in.Type), in.Note); err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return tx.Commit()
}

func (s *SQLite) Interactions(ctx context.Context, contactID string) ([]model.Interaction, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts WHERE id = ?`, contactID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check contact: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, contactID)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, contact_id, at, type, note
		FROM interactions WHERE contact_id = ? ORDER BY at DESC, rowid DESC`, contactID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	var out []model.Interaction
	for rows.Next() {
		var in model.Interaction
		var at sql.NullString
		var typ string
		if err := rows.Scan(&in.ID, &in.ContactID, &at, &typ, &in.Note); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		in.At = model.ParseTimestampString(at.String)
		in.Type = model.InteractionType(typ)
		out = append(out, in)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (model.Contact, error) {
	var (
		c                                                         model.Contact
		tags, hooks                                               sql.NullString
		mode, tier                                                string
		lastContacted, snoozed, lastInteraction, created, updated sql.NullString
		preReminder                                               sql.NullBool
	)
	err := row.Scan(&c.ID, &c.IndexID, &c.Name, &tags, &c.Note, &mode, &lastContacted,
		&c.CadenceIntervalDays, &snoozed, &c.Birthday, &preReminder, &tier,
		&lastInteraction, &hooks, &created, &updated)
	if err != nil {
		return model.Contact{}, err
	}

	c.SchedulingMode = model.SchedulingMode(mode)
	c.Tier = model.TierID(tier)
	c.LastContactedAt = model.ParseTimestampString(lastContacted.String)
	c.SnoozedUntil = model.ParseTimestampString(snoozed.String)
	c.LastInteractionAt = model.ParseTimestampString(lastInteraction.String)
	c.CreatedAt = model.ParseTimestampString(created.String)
	c.UpdatedAt = model.ParseTimestampString(updated.String)
	if preReminder.Valid {
		c.SetPreReminder(preReminder.Bool)
	}
	if tags.Valid && tags.String != "" {
		// unreadable tags fall back to the bare contact tag
		if err := json.Unmarshal([]byte(tags.String), &c.Tags); err != nil {
			c.Tags = []string{"contact"}
		}
	}
	if hooks.Valid && hooks.String != "" {
		var h model.Hooks
		if err := json.Unmarshal([]byte(hooks.String), &h); err == nil && !h.IsZero() {
			c.Hooks = &h
		}
	}
	c.EnsureSlices()
	return c, nil
}

func contactArgs(c model.Contact) ([]any, error) {
	tags, err := json.Marshal(c.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	var hooks any
	if !c.Hooks.IsZero() {
		b, err := json.Marshal(c.Hooks)
		if err != nil {
			return nil, fmt.Errorf("encode hooks: %w", err)
		}
		hooks = string(b)
	}
	var preReminder any
	if c.BirthdayPreReminder != nil {
		preReminder = *c.BirthdayPreReminder
	}

	return []any{
		c.ID, c.IndexID, c.Name, string(tags), c.Note, string(c.SchedulingMode),
		formatTime(c.LastContactedAt), c.CadenceIntervalDays, formatTime(c.SnoozedUntil),
		c.Birthday, preReminder, string(c.Tier), formatTime(c.LastInteractionAt), hooks,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	}, nil
}

// timeLayout is fixed width so text order is time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t model.Timestamp) any {
	if !t.Valid() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
