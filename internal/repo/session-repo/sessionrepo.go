package sessionrepo

import (
	"context"
	"fmt"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/pg"
	"github.com/GlebRadaev/proxyconsole/internal/session"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	loadQuery   = `SELECT key, value FROM local_storage WHERE key IN ($1, $2)`
	upsertQuery = `INSERT INTO local_storage (key, value, updated_at) VALUES ($1, $2, now()) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	deleteQuery = `DELETE FROM local_storage WHERE key IN ($1, $2)`
)

// Repository persists the session as two rows of the local_storage table.
type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func (r *Repository) Load(ctx context.Context) (domain.Session, error) {
	rows, err := r.db.Query(ctx, loadQuery, session.TokenKey, session.UserKey)
	if err != nil {
		zap.L().Error("can't load session", zap.Error(err))
		return domain.Session{}, err
	}
	defer rows.Close()

	entries := make(map[string]string, 2)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			zap.L().Error("can't scan session entry", zap.Error(err))
			return domain.Session{}, err
		}
		entries[key] = value
	}
	if err := rows.Err(); err != nil {
		return domain.Session{}, err
	}
	return session.DecodeEntries(entries[session.TokenKey], entries[session.UserKey])
}

func (r *Repository) Save(ctx context.Context, s domain.Session) error {
	s = session.Trusted(s)
	if !s.Authenticated() {
		return r.Clear(ctx)
	}
	token, user, err := session.EncodeEntries(s)
	if err != nil {
		return err
	}

	err = r.txManager.Begin(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, upsertQuery, session.TokenKey, token); err != nil {
			return fmt.Errorf("can't save token: %w", err)
		}
		if _, err := tx.Exec(ctx, upsertQuery, session.UserKey, user); err != nil {
			return fmt.Errorf("can't save user profile: %w", err)
		}
		return nil
	})
	if err != nil {
		zap.L().Error("can't save session", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) Clear(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, deleteQuery, session.TokenKey, session.UserKey); err != nil {
		zap.L().Error("can't clear session", zap.Error(err))
		return err
	}
	return nil
}
