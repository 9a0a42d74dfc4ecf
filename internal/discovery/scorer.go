package discovery

import (
	"cmp"
	"slices"

	"github.com/hitoshi/duomatch/internal/model"
)

// GroupCandidate はスコア付きのグループ候補。
type GroupCandidate struct {
	*model.Group
	RelevanceScore    int
	MatchingInterests []string
	MutualConnections int
}

// UserCandidate はスコア付きのユーザー候補。
type UserCandidate struct {
	*model.User
	RelevanceScore    int
	MatchingInterests []string
	IsGroupConnection bool
}

// Scorer は候補に関連度スコアを付ける。状態を持たず、同じ入力には同じ結果を返す。
type Scorer struct {
	weights Weights
}

// NewScorer は指定した重みでScorerを生成する。
func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// ScoreGroup はグループ候補のスコアを計算する。
func (s *Scorer) ScoreGroup(requester *GroupRequester, g *model.Group) GroupCandidate {
	w := s.weights
	matching := matchingInterests(requester.User.Interests, g.Interests)

	members := NewIDSet(g.Members...)
	mutual := 0
	for id := range members {
		if requester.Connected.Has(id) {
			mutual++
		}
	}

	size := len(members)
	score := w.Base + len(matching)*w.SharedInterest + mutual*w.ConnectedMember
	if size >= w.GroupSizeMin && size <= w.GroupSizeMax {
		score += w.GroupSizeBonus
	}
	score += min(size*w.ActivityPerMember, w.ActivityCap)

	return GroupCandidate{
		Group:             g,
		RelevanceScore:    score,
		MatchingInterests: matching,
		MutualConnections: mutual,
	}
}

// ScoreUser はユーザー候補のスコアを計算する。
// 年齢・性別・興味が未設定の場合、そのシグナルは0として扱う。
func (s *Scorer) ScoreUser(requester *UserRequester, u *model.User) UserCandidate {
	w := s.weights
	me := requester.User
	matching := matchingInterests(me.Interests, u.Interests)

	score := w.Base + len(matching)*w.SharedInterest
	if me.IsOppositeBinaryGender(u) {
		score += w.OppositeGender
	}
	if me.Age != nil && u.Age != nil {
		diff := *me.Age - *u.Age
		if diff < 0 {
			diff = -diff
		}
		score += w.ageBonus(diff)
	}

	groupConn := requester.CoMembers.Has(u.ID)
	if groupConn {
		score += w.SecondDegree
	}

	return UserCandidate{
		User:              u,
		RelevanceScore:    score,
		MatchingInterests: matching,
		IsGroupConnection: groupConn,
	}
}

// matchingInterests はcandidateの興味のうちmineにも含まれるものを、candidate側の順序・重複なしで返す。
func matchingInterests(mine, candidate []string) []string {
	if len(mine) == 0 || len(candidate) == 0 {
		return []string{}
	}
	want := NewIDSet(mine...)
	seen := make(IDSet, len(candidate))
	matching := make([]string, 0, len(candidate))
	for _, tag := range candidate {
		if want.Has(tag) && !seen.Has(tag) {
			seen.Add(tag)
			matching = append(matching, tag)
		}
	}
	return matching
}

// rankByScore はスコアの降順に安定ソートする。同点の場合は入力順（ソーシャル→興味）を保つ。
func rankByScore[T any](items []T, score func(T) int) {
	slices.SortStableFunc(items, func(a, b T) int {
		return cmp.Compare(score(b), score(a))
	})
}
