// Package repository はデータ永続化のインターフェースを定義する。
// ディスカバリーは読み取り専用のため、ここで定義するのは参照系の操作のみ。
package repository

import (
	"context"

	"github.com/hitoshi/duomatch/internal/model"
)

// UserRepository はユーザーデータの参照インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// ListByGroups は指定グループのいずれかに所属するユーザーを取得する。
	// excludeIDsに含まれるユーザーは除外する。created_at降順、最大limit件。
	ListByGroups(ctx context.Context, groupIDs, excludeIDs []string, limit int) ([]*model.User, error)

	// ListByInterests はinterestsのいずれかを持つユーザーを取得する。
	// excludeIDsに含まれるユーザーは除外する。created_at降順、最大limit件。
	ListByInterests(ctx context.Context, interests, excludeIDs []string, limit int) ([]*model.User, error)

	// List はexcludeIDs以外のユーザーをcreated_at降順で最大limit件取得する。
	List(ctx context.Context, excludeIDs []string, limit int) ([]*model.User, error)
}

// GroupRepository はグループデータの参照インターフェース。
// 返却するGroupのMembersは参加順に並ぶ。
type GroupRepository interface {
	// ListIDsByMember はuserIDが所属するグループのIDを返す。
	ListIDsByMember(ctx context.Context, userID string) ([]string, error)

	// ListMemberIDs は指定グループのいずれかに所属するユーザーIDを重複なしで返す。
	ListMemberIDs(ctx context.Context, groupIDs []string) ([]string, error)

	// ListByMembers はmemberIDsのいずれかをメンバーに含むグループを取得する。
	// excludeIDsに含まれるグループは除外する。created_at降順、最大limit件。
	ListByMembers(ctx context.Context, memberIDs, excludeIDs []string, limit int) ([]*model.Group, error)

	// ListPublicByInterests はinterestsのいずれかを持つ非公開でないグループを取得する。
	// excludeIDsに含まれるグループは除外する。created_at降順、最大limit件。
	ListPublicByInterests(ctx context.Context, interests, excludeIDs []string, limit int) ([]*model.Group, error)

	// List はexcludeIDs以外のグループをcreated_at降順で最大limit件取得する。
	List(ctx context.Context, excludeIDs []string, limit int) ([]*model.Group, error)
}

// SwipeRepository はスワイプ履歴の参照インターフェース。
type SwipeRepository interface {
	// ListTargetIDs はactorIDが指定種別の対象にスワイプしたtarget_idを返す。方向は問わない。
	ListTargetIDs(ctx context.Context, actorID string, target model.SwipeTarget) ([]string, error)
}

// MatchRepository はマッチの参照インターフェース。
type MatchRepository interface {
	// ListCounterpartIDs はuserIDとマッチ関係にある相手のユーザーIDを返す。
	// statusesが空の場合は全ステータスを対象にする。
	ListCounterpartIDs(ctx context.Context, userID string, statuses ...model.MatchStatus) ([]string, error)
}
