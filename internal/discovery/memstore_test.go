package discovery

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/hitoshi/duomatch/internal/model"
)

// memStore はテスト用のインメモリ実装。4つのリポジトリインターフェースをまとめて満たす。
// 並び順はPostgres実装と同じく created_at DESC, id。
type memStore struct {
	users   []*model.User
	groups  []*model.Group
	swipes  []model.Swipe
	matches []model.Match

	// err が設定されている場合、全メソッドがそのエラーを返す。
	err error
	// calls はメソッド呼び出し回数。
	calls map[string]int
}

func newMemStore() *memStore {
	return &memStore{calls: map[string]int{}}
}

var baseTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

// addUser はユーザーを追加する。後から追加したものほど新しい。
func (m *memStore) addUser(u *model.User) *model.User {
	u.CreatedAt = baseTime.Add(time.Duration(len(m.users)) * time.Minute)
	m.users = append(m.users, u)
	return u
}

// addGroup はグループを追加する。後から追加したものほど新しい。
func (m *memStore) addGroup(g *model.Group) *model.Group {
	g.CreatedAt = baseTime.Add(time.Duration(len(m.groups)) * time.Minute)
	m.groups = append(m.groups, g)
	return g
}

func (m *memStore) swipe(actor, target string, kind model.SwipeTarget) {
	m.swipes = append(m.swipes, model.Swipe{ActorID: actor, TargetID: target, TargetType: kind, Direction: model.SwipeRight})
}

func (m *memStore) match(a, b string, status model.MatchStatus) {
	m.matches = append(m.matches, model.Match{User1ID: a, User2ID: b, Status: status})
}

func newestFirst[T any](items []T, created func(T) time.Time, id func(T) string) []T {
	out := slices.Clone(items)
	slices.SortFunc(out, func(a, b T) int {
		if c := created(b).Compare(created(a)); c != 0 {
			return c
		}
		return cmp.Compare(id(a), id(b))
	})
	return out
}

func overlaps(a, b []string) bool {
	set := NewIDSet(a...)
	for _, v := range b {
		if set.Has(v) {
			return true
		}
	}
	return false
}

func (m *memStore) sortedUsers() []*model.User {
	return newestFirst(m.users, func(u *model.User) time.Time { return u.CreatedAt }, func(u *model.User) string { return u.ID })
}

func (m *memStore) sortedGroups() []*model.Group {
	return newestFirst(m.groups, func(g *model.Group) time.Time { return g.CreatedAt }, func(g *model.Group) string { return g.ID })
}

func (m *memStore) filterUsers(excludeIDs []string, limit int, keep func(*model.User) bool) []*model.User {
	exclude := NewIDSet(excludeIDs...)
	var out []*model.User
	for _, u := range m.sortedUsers() {
		if len(out) == limit {
			break
		}
		if !exclude.Has(u.ID) && keep(u) {
			out = append(out, u)
		}
	}
	return out
}

func (m *memStore) filterGroups(excludeIDs []string, limit int, keep func(*model.Group) bool) []*model.Group {
	exclude := NewIDSet(excludeIDs...)
	var out []*model.Group
	for _, g := range m.sortedGroups() {
		if len(out) == limit {
			break
		}
		if !exclude.Has(g.ID) && keep(g) {
			out = append(out, g)
		}
	}
	return out
}

// --- UserRepository ---

func (m *memStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	m.calls["FindByID"]++
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListByGroups(ctx context.Context, groupIDs, excludeIDs []string, limit int) ([]*model.User, error) {
	m.calls["ListByGroups"]++
	if m.err != nil {
		return nil, m.err
	}
	members, _ := m.ListMemberIDs(ctx, groupIDs)
	set := NewIDSet(members...)
	return m.filterUsers(excludeIDs, limit, func(u *model.User) bool { return set.Has(u.ID) }), nil
}

func (m *memStore) ListByInterests(ctx context.Context, interests, excludeIDs []string, limit int) ([]*model.User, error) {
	m.calls["ListByInterests"]++
	if m.err != nil {
		return nil, m.err
	}
	return m.filterUsers(excludeIDs, limit, func(u *model.User) bool { return overlaps(interests, u.Interests) }), nil
}

func (m *memStore) List(ctx context.Context, excludeIDs []string, limit int) ([]*model.User, error) {
	m.calls["ListUsers"]++
	if m.err != nil {
		return nil, m.err
	}
	return m.filterUsers(excludeIDs, limit, func(*model.User) bool { return true }), nil
}

// --- GroupRepository ---

// memGroups はGroupRepositoryのListがUserRepositoryのListと衝突するため分けたビュー。
type memGroups struct{ *memStore }

func (g memGroups) ListIDsByMember(ctx context.Context, userID string) ([]string, error) {
	g.calls["ListIDsByMember"]++
	if g.err != nil {
		return nil, g.err
	}
	var ids []string
	for _, grp := range g.groups {
		if slices.Contains(grp.Members, userID) {
			ids = append(ids, grp.ID)
		}
	}
	return ids, nil
}

func (m *memStore) ListMemberIDs(ctx context.Context, groupIDs []string) ([]string, error) {
	m.calls["ListMemberIDs"]++
	if m.err != nil {
		return nil, m.err
	}
	want := NewIDSet(groupIDs...)
	members := NewIDSet()
	for _, g := range m.groups {
		if want.Has(g.ID) {
			members.Add(g.Members...)
		}
	}
	return members.Slice(), nil
}

func (g memGroups) ListByMembers(ctx context.Context, memberIDs, excludeIDs []string, limit int) ([]*model.Group, error) {
	g.calls["ListByMembers"]++
	if g.err != nil {
		return nil, g.err
	}
	return g.filterGroups(excludeIDs, limit, func(grp *model.Group) bool { return overlaps(memberIDs, grp.Members) }), nil
}

func (g memGroups) ListPublicByInterests(ctx context.Context, interests, excludeIDs []string, limit int) ([]*model.Group, error) {
	g.calls["ListPublicByInterests"]++
	if g.err != nil {
		return nil, g.err
	}
	return g.filterGroups(excludeIDs, limit, func(grp *model.Group) bool {
		return !grp.IsPrivate && overlaps(interests, grp.Interests)
	}), nil
}

func (g memGroups) List(ctx context.Context, excludeIDs []string, limit int) ([]*model.Group, error) {
	g.calls["ListGroups"]++
	if g.err != nil {
		return nil, g.err
	}
	return g.filterGroups(excludeIDs, limit, func(*model.Group) bool { return true }), nil
}

// --- SwipeRepository ---

func (m *memStore) ListTargetIDs(ctx context.Context, actorID string, target model.SwipeTarget) ([]string, error) {
	m.calls["ListTargetIDs"]++
	if m.err != nil {
		return nil, m.err
	}
	var ids []string
	for _, s := range m.swipes {
		if s.ActorID == actorID && s.TargetType == target {
			ids = append(ids, s.TargetID)
		}
	}
	return ids, nil
}

// --- MatchRepository ---

func (m *memStore) ListCounterpartIDs(ctx context.Context, userID string, statuses ...model.MatchStatus) ([]string, error) {
	m.calls["ListCounterpartIDs"]++
	if m.err != nil {
		return nil, m.err
	}
	ids := NewIDSet()
	for _, mt := range m.matches {
		if mt.User1ID != userID && mt.User2ID != userID {
			continue
		}
		if len(statuses) > 0 && !slices.Contains(statuses, mt.Status) {
			continue
		}
		if mt.User1ID == userID {
			ids.Add(mt.User2ID)
		} else {
			ids.Add(mt.User1ID)
		}
	}
	return ids.Slice(), nil
}

// newTestService はmemStoreを使ったServiceを生成する。
func newTestService(m *memStore, opts ...ServiceOption) *Service {
	return NewService(m, memGroups{m}, m, m, NewScorer(DefaultWeights()), opts...)
}
