package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/duomatch/internal/model"
)

// groupSelect はメンバーIDを参加順に集約してグループを取得するSELECT句。
// WHERE句は呼び出し側で %s に埋め込む。
const groupSelect = `SELECT g.id, g.name, g.description, g.interests, g.is_private, g.created_at,
       COALESCE(
           (SELECT array_agg(gm.user_id::text ORDER BY gm.joined_at, gm.user_id)
            FROM group_members gm WHERE gm.group_id = g.id),
           '{}'
       ) AS members
FROM groups g
WHERE %s
ORDER BY g.created_at DESC, g.id
LIMIT %s`

// PostgresGroupRepo はPostgreSQLを使用したグループリポジトリ。
type PostgresGroupRepo struct {
	db *sql.DB
}

// NewPostgresGroupRepo はPostgresGroupRepoを生成する。
func NewPostgresGroupRepo(db *sql.DB) *PostgresGroupRepo {
	return &PostgresGroupRepo{db: db}
}

// ListIDsByMember はuserIDが所属するグループのIDを返す。
func (r *PostgresGroupRepo) ListIDsByMember(ctx context.Context, userID string) ([]string, error) {
	return queryIDs(ctx, r.db, "list group IDs by member",
		`SELECT group_id::text FROM group_members WHERE user_id = $1 ORDER BY group_id`,
		userID,
	)
}

// ListMemberIDs は指定グループのいずれかに所属するユーザーIDを重複なしで返す。
func (r *PostgresGroupRepo) ListMemberIDs(ctx context.Context, groupIDs []string) ([]string, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	return queryIDs(ctx, r.db, "list member IDs",
		`SELECT DISTINCT user_id::text FROM group_members WHERE group_id = ANY($1::uuid[]) ORDER BY 1`,
		pq.Array(groupIDs),
	)
}

// ListByMembers はmemberIDsのいずれかをメンバーに含むグループを取得する。
func (r *PostgresGroupRepo) ListByMembers(ctx context.Context, memberIDs, excludeIDs []string, limit int) ([]*model.Group, error) {
	if len(memberIDs) == 0 || limit <= 0 {
		return nil, nil
	}
	return r.query(ctx, "list groups by members",
		fmt.Sprintf(groupSelect,
			`EXISTS (SELECT 1 FROM group_members x WHERE x.group_id = g.id AND x.user_id = ANY($1::uuid[]))
			 AND g.id <> ALL($2::uuid[])`,
			"$3"),
		pq.Array(memberIDs), excludeArray(excludeIDs), limit,
	)
}

// ListPublicByInterests はinterestsのいずれかを持つ非公開でないグループを取得する。
func (r *PostgresGroupRepo) ListPublicByInterests(ctx context.Context, interests, excludeIDs []string, limit int) ([]*model.Group, error) {
	if len(interests) == 0 || limit <= 0 {
		return nil, nil
	}
	return r.query(ctx, "list public groups by interests",
		fmt.Sprintf(groupSelect,
			`g.is_private = FALSE AND g.interests && $1::text[] AND g.id <> ALL($2::uuid[])`,
			"$3"),
		pq.Array(interests), excludeArray(excludeIDs), limit,
	)
}

// List はexcludeIDs以外のグループをcreated_at降順で最大limit件取得する。
func (r *PostgresGroupRepo) List(ctx context.Context, excludeIDs []string, limit int) ([]*model.Group, error) {
	if limit <= 0 {
		return nil, nil
	}
	return r.query(ctx, "list groups",
		fmt.Sprintf(groupSelect, `g.id <> ALL($1::uuid[])`, "$2"),
		excludeArray(excludeIDs), limit,
	)
}

func (r *PostgresGroupRepo) query(ctx context.Context, op, query string, args ...any) ([]*model.Group, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	var groups []*model.Group
	for rows.Next() {
		var (
			g           model.Group
			description sql.NullString
		)
		if err := rows.Scan(
			&g.ID, &g.Name, &description, pq.Array(&g.Interests), &g.IsPrivate, &g.CreatedAt,
			pq.Array(&g.Members),
		); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		g.Description = description.String
		groups = append(groups, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}

// excludeArray は除外ID配列のパラメータを返す。
// nilスライスはNULLとして送られ "<> ALL(NULL)" が全行を落とすため、空配列に置き換える。
func excludeArray(ids []string) any {
	if ids == nil {
		ids = []string{}
	}
	return pq.Array(ids)
}

// queryIDs は1列のID一覧を返すクエリを実行する。
func queryIDs(ctx context.Context, db *sql.DB, op, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate IDs: %w", err)
	}

	return ids, nil
}

// compile-time interface check
var _ GroupRepository = (*PostgresGroupRepo)(nil)
