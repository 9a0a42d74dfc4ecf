package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/hitoshi/duomatch/internal/model"
)

// PostgresMatchRepo はPostgreSQLを使用したマッチリポジトリ。
type PostgresMatchRepo struct {
	db *sql.DB
}

// NewPostgresMatchRepo はPostgresMatchRepoを生成する。
func NewPostgresMatchRepo(db *sql.DB) *PostgresMatchRepo {
	return &PostgresMatchRepo{db: db}
}

// ListCounterpartIDs はuserIDとマッチ関係にある相手のユーザーIDを返す。
// statusesが空の場合は全ステータスを対象にする。
func (r *PostgresMatchRepo) ListCounterpartIDs(ctx context.Context, userID string, statuses ...model.MatchStatus) ([]string, error) {
	const base = `SELECT DISTINCT CASE WHEN user1_id = $1 THEN user2_id ELSE user1_id END::text
		 FROM matches
		 WHERE (user1_id = $1 OR user2_id = $1)`

	if len(statuses) == 0 {
		return queryIDs(ctx, r.db, "list match counterparts", base+` ORDER BY 1`, userID)
	}

	s := make([]string, len(statuses))
	for i, st := range statuses {
		s[i] = string(st)
	}
	return queryIDs(ctx, r.db, "list match counterparts",
		base+` AND status = ANY($2::text[]) ORDER BY 1`,
		userID, pq.Array(s),
	)
}

// compile-time interface check
var _ MatchRepository = (*PostgresMatchRepo)(nil)
