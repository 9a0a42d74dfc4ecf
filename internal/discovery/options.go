package discovery

// ページサイズの既定値と範囲。
const (
	DefaultLimit = 20
	MinLimit     = 1
	MaxLimit     = 50
)

// Kind はディスカバリーの対象種別。
type Kind string

const (
	KindGroups Kind = "groups"
	KindUsers  Kind = "users"
)

// Options はディスカバリーのリクエストパラメータ。
type Options struct {
	Limit         int
	Offset        int
	ExcludeSwiped bool
}

// NormalizeLimit はlimitを[MinLimit, MaxLimit]に丸める。
// 0以下は未指定とみなしDefaultLimitを返す。
func NormalizeLimit(limit int) int {
	switch {
	case limit < MinLimit:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

func (o Options) normalized() Options {
	o.Limit = NormalizeLimit(o.Limit)
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}
