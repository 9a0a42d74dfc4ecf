package discovery

import (
	"context"
	"fmt"
)

// 候補取得tierの名前。メトリクスのラベルにも使う。
const (
	TierSocial   = "social"
	TierInterest = "interest"
)

// Source は候補を取得する戦略。
// excludeに含まれるIDを返してはならず、最大limit件を優先順に返す。
type Source[R, T any] interface {
	Name() string
	Fetch(ctx context.Context, requester R, exclude IDSet, limit int) ([]T, error)
}

// Tier はSourceとそのページ内の上限を組にしたもの。
// Capがnilの場合は残り枠すべてを使う。
type Tier[R, T any] struct {
	Source Source[R, T]
	Cap    func(limit int) int
}

// HalfPage はページサイズの半分（切り捨て）を返す。
func HalfPage(limit int) int {
	return limit / 2
}

// fetchTiers はtiersを優先順に呼び出して最大limit件の候補を集める。
// 後続のtierには先行tierで選ばれたIDも除外集合として渡すため、tier間で重複しない。
// Sourceが除外済みIDや上限超過分を返した場合もここで落とす。
func fetchTiers[R, T any](
	ctx context.Context,
	tiers []Tier[R, T],
	requester R,
	exclude IDSet,
	limit int,
	idOf func(T) string,
	onTier func(name string, count int),
) ([]T, error) {
	selected := make([]T, 0, limit)
	seen := exclude.Clone()

	for _, tier := range tiers {
		remaining := limit - len(selected)
		if remaining <= 0 {
			break
		}

		n := remaining
		if tier.Cap != nil {
			n = min(n, tier.Cap(limit))
		}
		if n <= 0 {
			continue
		}

		items, err := tier.Source.Fetch(ctx, requester, seen, n)
		if err != nil {
			return nil, fmt.Errorf("%s tier: %w", tier.Source.Name(), err)
		}

		added := 0
		for _, item := range items {
			if added == n {
				break
			}
			id := idOf(item)
			if seen.Has(id) {
				continue
			}
			seen.Add(id)
			selected = append(selected, item)
			added++
		}

		if onTier != nil {
			onTier(tier.Source.Name(), added)
		}
	}

	return selected, nil
}
