package cacherepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/session"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultTimeout = 5 * time.Second

// Repository keeps the session under <prefix>:token and <prefix>:userInfo.
type Repository struct {
	client redis.Cmdable
	prefix string
}

func New(client redis.Cmdable, prefix string) *Repository {
	return &Repository{
		client: client,
		prefix: prefix,
	}
}

// Connect builds a Redis client and validates connectivity with a ping.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (r *Repository) Load(ctx context.Context) (domain.Session, error) {
	vals, err := r.client.MGet(ctx, r.key(session.TokenKey), r.key(session.UserKey)).Result()
	if err != nil {
		zap.L().Error("can't load session", zap.Error(err))
		return domain.Session{}, err
	}
	if len(vals) != 2 {
		return domain.Session{}, errors.New("unexpected redis reply")
	}
	token, _ := vals[0].(string)
	user, _ := vals[1].(string)
	return session.DecodeEntries(token, user)
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

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key(session.TokenKey), token, 0)
		pipe.Set(ctx, r.key(session.UserKey), user, 0)
		return nil
	})
	if err != nil {
		zap.L().Error("can't save session", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key(session.TokenKey), r.key(session.UserKey)).Err(); err != nil {
		zap.L().Error("can't clear session", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) key(name string) string {
	return r.prefix + ":" + name
}
