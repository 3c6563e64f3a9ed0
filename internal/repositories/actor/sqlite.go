package actor

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/errors"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/pkg/clock"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/pkg/idgen"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteConfig contains configuration for the SQLite actor repository
type SQLiteConfig struct {
	// Path of the database file; ":memory:" keeps it in memory
	Path        string
	Clock       clock.Clock
	IDGenerator idgen.Generator
}

// Validate validates the SQLiteConfig
func (cfg *SQLiteConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Path == "" {
		return errors.InvalidArgument("path cannot be empty")
	}
	return nil
}

// SQLiteRepository implements Repository on a SQLite file
type SQLiteRepository struct {
	db    *sql.DB
	clock clock.Clock
	ids   idgen.Generator
}

// Verify interfaces
var (
	_ Repository = (*SQLiteRepository)(nil)
	_ Settler    = (*SQLiteRepository)(nil)
)

// NewSQLite opens the database and applies pending migrations
func NewSQLite(ctx context.Context, cfg *SQLiteConfig) (*SQLiteRepository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create data dir for %s", cfg.Path)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", cfg.Path)
	}
	// one writer at a time; also keeps a :memory: database on a single connection
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	ids := cfg.IDGenerator
	if ids == nil {
		ids = idgen.NewUUID("")
	}

	return &SQLiteRepository{db: db, clock: c, ids: ids}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return errors.Wrap(err, "failed to set migration dialect")
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}
	return nil
}

// Close releases the database
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Create stores a new actor
func (r *SQLiteRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	var created *lancer.Actor
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		a := newActor(input.Actor, r.ids, 0, r.clock.Now().Unix())

		token, system, err := encodeActorColumns(a)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO actors (id, type, lid, name, img, token, system, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.Type, a.System.LID, a.Name, a.Img, token, system, a.CreatedAt, a.UpdatedAt)
		if err != nil {
			return errors.Wrapf(err, "failed to insert actor %s", a.Name)
		}
		if a.Sequence, err = res.LastInsertId(); err != nil {
			return errors.Wrap(err, "failed to read actor sequence")
		}

		if err := writeItems(ctx, tx, a); err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &CreateOutput{Actor: created}, nil
}

// Get retrieves an actor by ID
func (r *SQLiteRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if err := requireActorID(input.ID); err != nil {
		return nil, err
	}

	var a *lancer.Actor
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		a, err = loadActor(ctx, tx, input.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &GetOutput{Actor: a}, nil
}

// Update overwrites name and attributes
func (r *SQLiteRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateUpdate(input); err != nil {
		return nil, err
	}

	a, err := r.mutate(ctx, input.ID, false, func(a *lancer.Actor, now int64) error {
		applyUpdate(a, input, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &UpdateOutput{Actor: a}, nil
}

// CreateItems attaches items
func (r *SQLiteRepository) CreateItems(ctx context.Context, input CreateItemsInput) (*CreateItemsOutput, error) {
	if err := requireActorID(input.ActorID); err != nil {
		return nil, err
	}

	var created []lancer.Item
	_, err := r.mutate(ctx, input.ActorID, true, func(a *lancer.Actor, now int64) error {
		created = applyCreateItems(a, input.Items, r.ids, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &CreateItemsOutput{Items: created}, nil
}

// UpdateItems patches items
func (r *SQLiteRepository) UpdateItems(ctx context.Context, input UpdateItemsInput) (*UpdateItemsOutput, error) {
	if err := requireActorID(input.ActorID); err != nil {
		return nil, err
	}

	var updated []lancer.Item
	_, err := r.mutate(ctx, input.ActorID, true, func(a *lancer.Actor, now int64) error {
		var err error
		updated, err = applyUpdateItems(a, input.Patches, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &UpdateItemsOutput{Items: updated}, nil
}

// DeleteItems removes items
func (r *SQLiteRepository) DeleteItems(ctx context.Context, input DeleteItemsInput) (*DeleteItemsOutput, error) {
	if err := requireActorID(input.ActorID); err != nil {
		return nil, err
	}

	deleted := 0
	_, err := r.mutate(ctx, input.ActorID, true, func(a *lancer.Actor, now int64) error {
		deleted = applyDeleteItems(a, input.ItemIDs, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &DeleteItemsOutput{Deleted: deleted}, nil
}

// Find returns the actors carrying a lid
func (r *SQLiteRepository) Find(ctx context.Context, input FindInput) (*FindOutput, error) {
	if err := validateFind(input); err != nil {
		return nil, err
	}

	actors, err := r.query(ctx, `SELECT id FROM actors WHERE type = ? AND lid = ? ORDER BY seq`, input.Type, input.LID)
	if err != nil {
		return nil, err
	}
	return &FindOutput{Actors: actors}, nil
}

// List returns every actor
func (r *SQLiteRepository) List(ctx context.Context, _ ListInput) (*ListOutput, error) {
	actors, err := r.query(ctx, `SELECT id FROM actors ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return &ListOutput{Actors: actors}, nil
}

// AwaitSettled returns at once; every write commits before returning
func (r *SQLiteRepository) AwaitSettled(ctx context.Context, _ string) error {
	return ctx.Err()
}

func (r *SQLiteRepository) query(ctx context.Context, q string, args ...any) ([]*lancer.Actor, error) {
	var actors []*lancer.Actor
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, q, args...)
		if err != nil {
			return errors.Wrap(err, "failed to query actors")
		}
		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				_ = rows.Close()
				return errors.Wrap(err, "failed to scan actor id")
			}
			ids = append(ids, id)
		}
		if err := rows.Close(); err != nil {
			return errors.Wrap(err, "failed to read actors")
		}

		for _, id := range ids {
			a, err := loadActor(ctx, tx, id)
			if err != nil {
				return err
			}
			actors = append(actors, a)
		}
		return nil
	})
	return actors, err
}

// mutate loads, changes and saves an actor in one transaction. Items are
// rewritten only when withItems is set.
func (r *SQLiteRepository) mutate(ctx context.Context, id string, withItems bool, fn func(a *lancer.Actor, now int64) error) (*lancer.Actor, error) {
	var result *lancer.Actor
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		a, err := loadActor(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(a, r.clock.Now().Unix()); err != nil {
			return err
		}

		token, system, err := encodeActorColumns(a)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE actors SET lid = ?, name = ?, img = ?, token = ?, system = ?, updated_at = ? WHERE id = ?`,
			a.System.LID, a.Name, a.Img, token, system, a.UpdatedAt, a.ID)
		if err != nil {
			return errors.Wrapf(err, "failed to update actor %s", id)
		}

		if withItems {
			if _, err := tx.ExecContext(ctx, `DELETE FROM actor_items WHERE actor_id = ?`, a.ID); err != nil {
				return errors.Wrapf(err, "failed to clear items of actor %s", id)
			}
			if err := writeItems(ctx, tx, a); err != nil {
				return err
			}
		}

		result = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

func loadActor(ctx context.Context, tx *sql.Tx, id string) (*lancer.Actor, error) {
	var (
		a      lancer.Actor
		token  sql.NullString
		system string
	)
	err := tx.QueryRowContext(ctx,
		`SELECT seq, id, type, name, img, token, system, created_at, updated_at FROM actors WHERE id = ?`, id).
		Scan(&a.Sequence, &a.ID, &a.Type, &a.Name, &a.Img, &token, &system, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("actor %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load actor %s", id)
	}

	if token.Valid && token.String != "" {
		if err := json.Unmarshal([]byte(token.String), &a.PrototypeToken); err != nil {
			return nil, errors.Wrapf(err, "failed to decode token of actor %s", id)
		}
	}
	if err := json.Unmarshal([]byte(system), &a.System); err != nil {
		return nil, errors.Wrapf(err, "failed to decode system of actor %s", id)
	}

	rows, err := tx.QueryContext(ctx, `SELECT data FROM actor_items WHERE actor_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load items of actor %s", id)
	}
	defer rows.Close()

	a.Items = []lancer.Item{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrap(err, "failed to scan item")
		}
		var item lancer.Item
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			return nil, errors.Wrap(err, "failed to decode item")
		}
		a.Items = append(a.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read items of actor %s", id)
	}
	return &a, nil
}

func writeItems(ctx context.Context, tx *sql.Tx, a *lancer.Actor) error {
	for pos, item := range a.Items {
		data, err := json.Marshal(item)
		if err != nil {
			return errors.Wrapf(err, "failed to encode item %s", item.ID)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO actor_items (id, actor_id, position, lid, type, data) VALUES (?, ?, ?, ?, ?, ?)`,
			item.ID, a.ID, pos, item.LID, string(item.Type), string(data))
		if err != nil {
			return errors.Wrapf(err, "failed to insert item %s", item.ID)
		}
	}
	return nil
}

func encodeActorColumns(a *lancer.Actor) (sql.NullString, string, error) {
	var token sql.NullString
	if a.PrototypeToken != nil {
		data, err := json.Marshal(a.PrototypeToken)
		if err != nil {
			return token, "", errors.Wrap(err, "failed to encode token")
		}
		token = sql.NullString{String: string(data), Valid: true}
	}

	system, err := json.Marshal(a.System)
	if err != nil {
		return token, "", errors.Wrap(err, "failed to encode system")
	}
	return token, string(system), nil
}

