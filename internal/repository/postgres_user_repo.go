package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/duomatch/internal/model"
)

const userColumns = `u.id, u.name, u.age, u.gender, u.interests, u.created_at, u.updated_at`

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.id = $1`,
		id,
	)

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// ListByGroups は指定グループのいずれかに所属するユーザーを取得する。
func (r *PostgresUserRepo) ListByGroups(ctx context.Context, groupIDs, excludeIDs []string, limit int) ([]*model.User, error) {
	if len(groupIDs) == 0 || limit <= 0 {
		return nil, nil
	}

	return r.query(ctx, "list users by groups",
		`SELECT `+userColumns+`
		 FROM users u
		 WHERE EXISTS (
		     SELECT 1 FROM group_members gm
		     WHERE gm.user_id = u.id AND gm.group_id = ANY($1::uuid[])
		 )
		   AND u.id <> ALL($2::uuid[])
		 ORDER BY u.created_at DESC, u.id
		 LIMIT $3`,
		pq.Array(groupIDs), excludeArray(excludeIDs), limit,
	)
}

// ListByInterests はinterestsのいずれかを持つユーザーを取得する。
func (r *PostgresUserRepo) ListByInterests(ctx context.Context, interests, excludeIDs []string, limit int) ([]*model.User, error) {
	if len(interests) == 0 || limit <= 0 {
		return nil, nil
	}

	return r.query(ctx, "list users by interests",
		`SELECT `+userColumns+`
		 FROM users u
		 WHERE u.interests && $1::text[]
		   AND u.id <> ALL($2::uuid[])
		 ORDER BY u.created_at DESC, u.id
		 LIMIT $3`,
		pq.Array(interests), excludeArray(excludeIDs), limit,
	)
}

// List はexcludeIDs以外のユーザーをcreated_at降順で最大limit件取得する。
func (r *PostgresUserRepo) List(ctx context.Context, excludeIDs []string, limit int) ([]*model.User, error) {
	if limit <= 0 {
		return nil, nil
	}

	return r.query(ctx, "list users",
		`SELECT `+userColumns+`
		 FROM users u
		 WHERE u.id <> ALL($1::uuid[])
		 ORDER BY u.created_at DESC, u.id
		 LIMIT $2`,
		excludeArray(excludeIDs), limit,
	)
}

func (r *PostgresUserRepo) query(ctx context.Context, op, query string, args ...any) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// rowScanner は*sql.Rowと*sql.Rowsの共通部分。
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (*model.User, error) {
	var (
		user   model.User
		age    sql.NullInt64
		gender sql.NullString
	)
	err := s.Scan(
		&user.ID, &user.Name, &age, &gender, pq.Array(&user.Interests),
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if age.Valid {
		a := int(age.Int64)
		user.Age = &a
	}
	if gender.Valid {
		user.Gender = model.Gender(gender.String)
	}

	return &user, nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
