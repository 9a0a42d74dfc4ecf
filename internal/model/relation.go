package model

import "time"

// SwipeTarget はスワイプ対象の種別を表す。
type SwipeTarget string

const (
	SwipeTargetUser  SwipeTarget = "user"
	SwipeTargetGroup SwipeTarget = "group"
)

// SwipeDirection はスワイプの方向を表す。
type SwipeDirection string

const (
	SwipeLeft  SwipeDirection = "left"
	SwipeRight SwipeDirection = "right"
)

// Swipe はactorからtargetへの有向エッジ。
// (actor_id, target_type, target_id) の組はDBのユニーク制約で一意に保たれる。
type Swipe struct {
	ID         string
	ActorID    string
	TargetID   string
	TargetType SwipeTarget
	Direction  SwipeDirection
	CreatedAt  time.Time
}

// MatchStatus はマッチの状態を表す。
type MatchStatus string

const (
	MatchStatusPending  MatchStatus = "pending"
	MatchStatusAccepted MatchStatus = "accepted"
	MatchStatusRejected MatchStatus = "rejected"
	MatchStatusMatched  MatchStatus = "matched"
)

// ConnectedMatchStatuses はソーシャルなつながりとして数えるマッチ状態。
var ConnectedMatchStatuses = []MatchStatus{MatchStatusAccepted, MatchStatusMatched}

// Match は2ユーザー間の無向の関係を表す。
type Match struct {
	ID        string
	User1ID   string
	User2ID   string
	Status    MatchStatus
	CreatedAt time.Time
}
