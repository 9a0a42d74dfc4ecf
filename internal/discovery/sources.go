package discovery

import (
	"context"

	"github.com/hitoshi/duomatch/internal/model"
	"github.com/hitoshi/duomatch/internal/repository"
)

// GroupRequester はグループ探索時の依頼者情報。
type GroupRequester struct {
	User *model.User
	// Connected は承認済みマッチでつながっているユーザーID。
	Connected IDSet
}

// UserRequester はユーザー探索時の依頼者情報。
type UserRequester struct {
	User *model.User
	// GroupIDs は依頼者が所属するグループのID。
	GroupIDs []string
	// CoMembers は依頼者と同じグループに所属するユーザーID（依頼者自身を除く）。
	CoMembers IDSet
}

// SocialGroupSource はつながりのあるユーザーが所属するグループを返す。
// つながりがない場合は除外対象以外の任意のグループを返す。
type SocialGroupSource struct {
	Groups repository.GroupRepository
}

func (s SocialGroupSource) Name() string { return TierSocial }

func (s SocialGroupSource) Fetch(ctx context.Context, r *GroupRequester, exclude IDSet, limit int) ([]*model.Group, error) {
	if len(r.Connected) == 0 {
		return s.Groups.List(ctx, exclude.Slice(), limit)
	}
	return s.Groups.ListByMembers(ctx, r.Connected.Slice(), exclude.Slice(), limit)
}

// InterestGroupSource は依頼者と興味タグが重なる公開グループを新しい順に返す。
type InterestGroupSource struct {
	Groups repository.GroupRepository
}

func (s InterestGroupSource) Name() string { return TierInterest }

func (s InterestGroupSource) Fetch(ctx context.Context, r *GroupRequester, exclude IDSet, limit int) ([]*model.Group, error) {
	if len(r.User.Interests) == 0 {
		return nil, nil
	}
	return s.Groups.ListPublicByInterests(ctx, r.User.Interests, exclude.Slice(), limit)
}

// SocialUserSource は依頼者と同じグループに所属するユーザーを返す。
// 依頼者がどのグループにも所属していない場合は除外対象以外の任意のユーザーを返す。
type SocialUserSource struct {
	Users repository.UserRepository
}

func (s SocialUserSource) Name() string { return TierSocial }

func (s SocialUserSource) Fetch(ctx context.Context, r *UserRequester, exclude IDSet, limit int) ([]*model.User, error) {
	if len(r.GroupIDs) == 0 {
		return s.Users.List(ctx, exclude.Slice(), limit)
	}
	return s.Users.ListByGroups(ctx, r.GroupIDs, exclude.Slice(), limit)
}

// InterestUserSource は依頼者と興味タグが重なるユーザーを新しい順に返す。
type InterestUserSource struct {
	Users repository.UserRepository
}

func (s InterestUserSource) Name() string { return TierInterest }

func (s InterestUserSource) Fetch(ctx context.Context, r *UserRequester, exclude IDSet, limit int) ([]*model.User, error) {
	if len(r.User.Interests) == 0 {
		return nil, nil
	}
	return s.Users.ListByInterests(ctx, r.User.Interests, exclude.Slice(), limit)
}

// DefaultGroupTiers はソーシャル（ページの半分まで）→興味の順のグループ探索tierを返す。
func DefaultGroupTiers(groups repository.GroupRepository) []Tier[*GroupRequester, *model.Group] {
	return []Tier[*GroupRequester, *model.Group]{
		{Source: SocialGroupSource{Groups: groups}, Cap: HalfPage},
		{Source: InterestGroupSource{Groups: groups}},
	}
}

// DefaultUserTiers はソーシャル（ページの半分まで）→興味の順のユーザー探索tierを返す。
func DefaultUserTiers(users repository.UserRepository) []Tier[*UserRequester, *model.User] {
	return []Tier[*UserRequester, *model.User]{
		{Source: SocialUserSource{Users: users}, Cap: HalfPage},
		{Source: InterestUserSource{Users: users}},
	}
}
