package model

import "time"

// Group はダブルデート用のグループを表す。
// Membersは参加順のユーザーIDリストで、スコアリングでは集合として扱う。
type Group struct {
	ID          string
	Name        string
	Description string
	Members     []string
	Interests   []string
	IsPrivate   bool
	CreatedAt   time.Time
}

// MemberCount はメンバー数を返す。
func (g *Group) MemberCount() int {
	return len(g.Members)
}
