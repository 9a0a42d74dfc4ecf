// Package model はドメインモデルを定義する。
package model

import "time"

// Gender はプロフィールの性別を表す。空文字は未設定を意味する。
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// User はサービス利用ユーザーを表す。
// 所属グループはgroup_membersテーブルで管理し、ここには埋め込まない。
type User struct {
	ID        string
	Name      string
	Age       *int // 未設定の場合はnil
	Gender    Gender
	Interests []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOppositeBinaryGender はmaleとfemaleの組み合わせである場合にtrueを返す。
// どちらかが未設定またはそれ以外の値の場合はfalse。
func (u *User) IsOppositeBinaryGender(other *User) bool {
	switch {
	case u.Gender == GenderMale && other.Gender == GenderFemale:
		return true
	case u.Gender == GenderFemale && other.Gender == GenderMale:
		return true
	default:
		return false
	}
}
