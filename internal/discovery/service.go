// Package discovery はグループ・ユーザーのおすすめ候補を選び、関連度順に並べる。
//
// 処理の流れ:
//
//	除外集合の解決 → tierごとの候補取得（ソーシャル→興味） → スコアリング → ページ整形
//
// すべて読み取り専用で、呼び出し間で状態を持たない。
package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/duomatch/internal/model"
	"github.com/hitoshi/duomatch/internal/repository"
)

// Recorder はディスカバリーのメトリクス記録インターフェース。
type Recorder interface {
	RecordDiscovery(kind Kind, outcome string, duration time.Duration)
	RecordTierCandidates(kind Kind, tier string, count int)
}

// 結果ラベル
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

type noopRecorder struct{}

func (noopRecorder) RecordDiscovery(Kind, string, time.Duration) {}
func (noopRecorder) RecordTierCandidates(Kind, string, int)      {}

// GroupPage はグループ探索の結果。
type GroupPage struct {
	Groups  []GroupCandidate
	Total   int
	HasMore bool
}

// UserPage はユーザー探索の結果。
type UserPage struct {
	Users   []UserCandidate
	Total   int
	HasMore bool
}

// Service はディスカバリーのサービス層。
type Service struct {
	users   repository.UserRepository
	groups  repository.GroupRepository
	swipes  repository.SwipeRepository
	matches repository.MatchRepository

	scorer     *Scorer
	recorder   Recorder
	groupTiers []Tier[*GroupRequester, *model.Group]
	userTiers  []Tier[*UserRequester, *model.User]
}

// ServiceOption はServiceの任意設定。
type ServiceOption func(*Service)

// WithRecorder はメトリクスの記録先を設定する。
func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithGroupTiers はグループ探索のtier構成を差し替える。
func WithGroupTiers(tiers ...Tier[*GroupRequester, *model.Group]) ServiceOption {
	return func(s *Service) { s.groupTiers = tiers }
}

// WithUserTiers はユーザー探索のtier構成を差し替える。
func WithUserTiers(tiers ...Tier[*UserRequester, *model.User]) ServiceOption {
	return func(s *Service) { s.userTiers = tiers }
}

// NewService はServiceの新しいインスタンスを生成する。
// tier構成は既定でDefaultGroupTiers / DefaultUserTiers を使う。
func NewService(
	users repository.UserRepository,
	groups repository.GroupRepository,
	swipes repository.SwipeRepository,
	matches repository.MatchRepository,
	scorer *Scorer,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		users:      users,
		groups:     groups,
		swipes:     swipes,
		matches:    matches,
		scorer:     scorer,
		recorder:   noopRecorder{},
		groupTiers: DefaultGroupTiers(groups),
		userTiers:  DefaultUserTiers(users),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DiscoverGroups は依頼者へのおすすめグループを関連度順で返す。
func (s *Service) DiscoverGroups(ctx context.Context, requesterID string, opts Options) (page *GroupPage, err error) {
	start := time.Now()
	defer func() { s.recorder.RecordDiscovery(KindGroups, outcomeOf(err), time.Since(start)) }()

	opts = opts.normalized()

	me, err := s.findRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	exclude, err := s.groupExclusions(ctx, me.ID, opts.ExcludeSwiped)
	if err != nil {
		return nil, err
	}

	connected, err := s.matches.ListCounterpartIDs(ctx, me.ID, model.ConnectedMatchStatuses...)
	if err != nil {
		return nil, fmt.Errorf("つながりのあるユーザーの取得に失敗しました: %w", err)
	}
	requester := &GroupRequester{User: me, Connected: NewIDSet(connected...)}

	groups, err := fetchTiers(ctx, s.groupTiers, requester, exclude, opts.Limit,
		func(g *model.Group) string { return g.ID },
		func(tier string, n int) { s.recorder.RecordTierCandidates(KindGroups, tier, n) },
	)
	if err != nil {
		return nil, fmt.Errorf("グループ候補の取得に失敗しました: %w", err)
	}

	candidates := make([]GroupCandidate, len(groups))
	for i, g := range groups {
		candidates[i] = s.scorer.ScoreGroup(requester, g)
	}
	rankByScore(candidates, func(c GroupCandidate) int { return c.RelevanceScore })

	items, total, hasMore := paginate(candidates, opts)

	slog.DebugContext(ctx, "group discovery completed",
		slog.String("user_id", me.ID),
		slog.Int("excluded", len(exclude)),
		slog.Int("connections", len(requester.Connected)),
		slog.Int("total", total),
	)

	return &GroupPage{Groups: items, Total: total, HasMore: hasMore}, nil
}

// DiscoverUsers は依頼者へのおすすめユーザーを関連度順で返す。
func (s *Service) DiscoverUsers(ctx context.Context, requesterID string, opts Options) (page *UserPage, err error) {
	start := time.Now()
	defer func() { s.recorder.RecordDiscovery(KindUsers, outcomeOf(err), time.Since(start)) }()

	opts = opts.normalized()

	me, err := s.findRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	exclude, err := s.userExclusions(ctx, me.ID, opts.ExcludeSwiped)
	if err != nil {
		return nil, err
	}

	groupIDs, err := s.groups.ListIDsByMember(ctx, me.ID)
	if err != nil {
		return nil, fmt.Errorf("所属グループの取得に失敗しました: %w", err)
	}
	memberIDs, err := s.groups.ListMemberIDs(ctx, groupIDs)
	if err != nil {
		return nil, fmt.Errorf("グループメンバーの取得に失敗しました: %w", err)
	}
	coMembers := NewIDSet(memberIDs...)
	delete(coMembers, me.ID)

	requester := &UserRequester{User: me, GroupIDs: groupIDs, CoMembers: coMembers}

	users, err := fetchTiers(ctx, s.userTiers, requester, exclude, opts.Limit,
		func(u *model.User) string { return u.ID },
		func(tier string, n int) { s.recorder.RecordTierCandidates(KindUsers, tier, n) },
	)
	if err != nil {
		return nil, fmt.Errorf("ユーザー候補の取得に失敗しました: %w", err)
	}

	candidates := make([]UserCandidate, len(users))
	for i, u := range users {
		candidates[i] = s.scorer.ScoreUser(requester, u)
	}
	rankByScore(candidates, func(c UserCandidate) int { return c.RelevanceScore })

	items, total, hasMore := paginate(candidates, opts)

	slog.DebugContext(ctx, "user discovery completed",
		slog.String("user_id", me.ID),
		slog.Int("excluded", len(exclude)),
		slog.Int("groups", len(groupIDs)),
		slog.Int("total", total),
	)

	return &UserPage{Users: items, Total: total, HasMore: hasMore}, nil
}

// findRequester は依頼者のプロフィールを取得する。存在しない場合はUSER_NOT_FOUNDを返す。
func (s *Service) findRequester(ctx context.Context, id string) (*model.User, error) {
	me, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if me == nil {
		return nil, model.NewUserNotFoundError()
	}
	return me, nil
}

// groupExclusions はグループ探索の除外集合を返す。
// 所属済みグループ ∪（excludeSwipedの場合）スワイプ済みグループ。
func (s *Service) groupExclusions(ctx context.Context, userID string, excludeSwiped bool) (IDSet, error) {
	memberOf, err := s.groups.ListIDsByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("所属グループの取得に失敗しました: %w", err)
	}
	exclude := NewIDSet(memberOf...)

	if excludeSwiped {
		swiped, err := s.swipes.ListTargetIDs(ctx, userID, model.SwipeTargetGroup)
		if err != nil {
			return nil, fmt.Errorf("スワイプ済みグループの取得に失敗しました: %w", err)
		}
		exclude.Add(swiped...)
	}

	return exclude, nil
}

// userExclusions はユーザー探索の除外集合を返す。
// 自分自身 ∪ マッチ済み（全ステータス）∪（excludeSwipedの場合）スワイプ済みユーザー。
func (s *Service) userExclusions(ctx context.Context, userID string, excludeSwiped bool) (IDSet, error) {
	exclude := NewIDSet(userID)

	if excludeSwiped {
		swiped, err := s.swipes.ListTargetIDs(ctx, userID, model.SwipeTargetUser)
		if err != nil {
			return nil, fmt.Errorf("スワイプ済みユーザーの取得に失敗しました: %w", err)
		}
		exclude.Add(swiped...)
	}

	matched, err := s.matches.ListCounterpartIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("マッチ済みユーザーの取得に失敗しました: %w", err)
	}
	exclude.Add(matched...)

	return exclude, nil
}

// paginate はスコア順の候補をlimit件に切り出す。
// offsetはhasMoreの算出にのみ使い、先頭からのスキップには使わない。
func paginate[T any](ranked []T, opts Options) (items []T, total int, hasMore bool) {
	total = len(ranked)
	end := min(opts.Limit, total)
	return ranked[:end], total, total > opts.Offset+opts.Limit
}

func outcomeOf(err error) string {
	if err == nil {
		return OutcomeOK
	}
	if isNotFound(err) {
		return OutcomeNotFound
	}
	return OutcomeError
}

func isNotFound(err error) bool {
	var apiErr *model.APIError
	return errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeUserNotFound
}
