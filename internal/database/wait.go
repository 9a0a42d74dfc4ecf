package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Pinger はDB疎通確認のインターフェース。*sql.DBが満たす。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// WaitConfig は起動時のDB接続待ちの設定。
type WaitConfig struct {
	// MaxAttempts はPingの最大試行回数。0以下は1回として扱う。
	MaxAttempts int
	// InitialBackoff は初回失敗後の待機時間。
	InitialBackoff time.Duration
	// MaxBackoff は待機時間の上限。
	MaxBackoff time.Duration
}

// DefaultWaitConfig はコンテナ起動直後のDB待ちを想定した既定値を返す。
// 初回500ms、2倍ずつ増加、最大8秒で6回まで試行する。
func DefaultWaitConfig() WaitConfig {
	return WaitConfig{
		MaxAttempts:    6,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     8 * time.Second,
	}
}

// Backoff は連続失敗回数に基づいて指数バックオフの待機時間を計算する。
func (c WaitConfig) Backoff(failures int) time.Duration {
	delay := c.InitialBackoff
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay > c.MaxBackoff {
			return c.MaxBackoff
		}
	}
	return delay
}

// WaitForDB はPingが成功するまで指数バックオフで再試行する。
// ctxがキャンセルされた場合、または試行回数を使い切った場合は最後のエラーを返す。
func WaitForDB(ctx context.Context, db Pinger, cfg WaitConfig) error {
	attempts := max(cfg.MaxAttempts, 1)

	var err error
	for i := 0; i < attempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}

		delay := cfg.Backoff(i)
		slog.WarnContext(ctx, "database not ready, retrying",
			slog.Int("attempt", i+1),
			slog.Duration("backoff", delay),
			slog.String("error", err.Error()),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("database wait canceled: %w", ctx.Err())
		case <-timer.C:
		}
	}

	return fmt.Errorf("database not reachable after %d attempts: %w", attempts, err)
}
