package discovery

import "slices"

// IDSet はエンティティIDの集合。
type IDSet map[string]struct{}

// NewIDSet は与えられたIDを含む集合を生成する。
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	s.Add(ids...)
	return s
}

// Add はIDを追加する。空文字は無視する。
func (s IDSet) Add(ids ...string) {
	for _, id := range ids {
		if id != "" {
			s[id] = struct{}{}
		}
	}
}

// Has はidが含まれるかを返す。
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Clone は複製を返す。
func (s IDSet) Clone() IDSet {
	c := make(IDSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Slice はIDを昇順のスライスで返す。クエリパラメータを決定的にするためソートする。
func (s IDSet) Slice() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
