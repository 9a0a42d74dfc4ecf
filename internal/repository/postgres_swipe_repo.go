package repository

import (
	"context"
	"database/sql"

	"github.com/hitoshi/duomatch/internal/model"
)

// PostgresSwipeRepo はPostgreSQLを使用したスワイプ履歴リポジトリ。
type PostgresSwipeRepo struct {
	db *sql.DB
}

// NewPostgresSwipeRepo はPostgresSwipeRepoを生成する。
func NewPostgresSwipeRepo(db *sql.DB) *PostgresSwipeRepo {
	return &PostgresSwipeRepo{db: db}
}

// ListTargetIDs はactorIDが指定種別の対象にスワイプしたtarget_idを返す。
func (r *PostgresSwipeRepo) ListTargetIDs(ctx context.Context, actorID string, target model.SwipeTarget) ([]string, error) {
	return queryIDs(ctx, r.db, "list swiped target IDs",
		`SELECT target_id::text FROM swipes
		 WHERE actor_id = $1 AND target_type = $2
		 ORDER BY target_id`,
		actorID, string(target),
	)
}

// compile-time interface check
var _ SwipeRepository = (*PostgresSwipeRepo)(nil)
