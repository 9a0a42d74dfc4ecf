package discovery

// AgeBand は年齢差がMaxDiff以下の場合に加算するボーナス。
type AgeBand struct {
	MaxDiff int
	Bonus   int
}

// Weights はスコアリングの重みをまとめた設定。
// Scorerに注入して使い、テストや運用チューニングで上書きできる。
type Weights struct {
	// 共通
	Base           int // 初期スコア
	SharedInterest int // 共通の興味タグ1件あたり

	// グループ
	ConnectedMember   int // 依頼者とつながりのあるメンバー1人あたり
	GroupSizeBonus    int // メンバー数がGroupSizeMin〜GroupSizeMaxの場合の固定加点
	GroupSizeMin      int
	GroupSizeMax      int
	ActivityPerMember int // アクティビティ指標: メンバー1人あたり
	ActivityCap       int // アクティビティ指標の上限

	// ユーザー
	OppositeGender int       // male↔femaleの組み合わせ
	AgeBands       []AgeBand // MaxDiffの昇順。最初に該当したバンドのみ加算
	SecondDegree   int       // 同じグループに所属している場合
}

// DefaultWeights は既定の重みを返す。
func DefaultWeights() Weights {
	return Weights{
		Base:           50,
		SharedInterest: 10,

		ConnectedMember:   15,
		GroupSizeBonus:    10,
		GroupSizeMin:      3,
		GroupSizeMax:      10,
		ActivityPerMember: 2,
		ActivityCap:       20,

		OppositeGender: 20,
		AgeBands: []AgeBand{
			{MaxDiff: 2, Bonus: 15},
			{MaxDiff: 5, Bonus: 10},
			{MaxDiff: 10, Bonus: 5},
		},
		SecondDegree: 25,
	}
}

// ageBonus は年齢差に対応するボーナスを返す。該当バンドがなければ0。
func (w Weights) ageBonus(diff int) int {
	for _, b := range w.AgeBands {
		if diff <= b.MaxDiff {
			return b.Bonus
		}
	}
	return 0
}
