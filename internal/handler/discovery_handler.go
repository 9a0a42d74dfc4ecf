package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/hitoshi/duomatch/internal/discovery"
	"github.com/hitoshi/duomatch/internal/middleware"
	"github.com/hitoshi/duomatch/internal/model"
)

// DiscoveryServiceInterface はディスカバリーハンドラーが必要とするサービスインターフェース。
type DiscoveryServiceInterface interface {
	// DiscoverGroups は依頼者へのおすすめグループを関連度順で返す。
	DiscoverGroups(ctx context.Context, userID string, opts discovery.Options) (*discovery.GroupPage, error)
	// DiscoverUsers は依頼者へのおすすめユーザーを関連度順で返す。
	DiscoverUsers(ctx context.Context, userID string, opts discovery.Options) (*discovery.UserPage, error)
}

var _ DiscoveryServiceInterface = (*discovery.Service)(nil)

// excludeSwipedの既定値。エンドポイントごとに異なる。
const (
	defaultExcludeSwipedGroups = false
	defaultExcludeSwipedUsers  = true
)

// DiscoveryHandler はディスカバリーのHTTPハンドラー。
type DiscoveryHandler struct {
	service DiscoveryServiceInterface
}

// NewDiscoveryHandler はDiscoveryHandlerを生成する。
func NewDiscoveryHandler(service DiscoveryServiceInterface) *DiscoveryHandler {
	return &DiscoveryHandler{service: service}
}

// --- レスポンス型 ---

// groupCandidateResponse はおすすめグループ1件分のレスポンス。
type groupCandidateResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Members           []string  `json:"members"`
	MemberCount       int       `json:"memberCount"`
	Interests         []string  `json:"interests"`
	IsPrivate         bool      `json:"isPrivate"`
	CreatedAt         time.Time `json:"createdAt"`
	RelevanceScore    int       `json:"relevanceScore"`
	MatchingInterests []string  `json:"matchingInterests"`
	MutualConnections int       `json:"mutualConnections"`
}

// userCandidateResponse はおすすめユーザー1件分のレスポンス。
type userCandidateResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Age               *int      `json:"age"`
	Gender            string    `json:"gender,omitempty"`
	Interests         []string  `json:"interests"`
	CreatedAt         time.Time `json:"createdAt"`
	RelevanceScore    int       `json:"relevanceScore"`
	MatchingInterests []string  `json:"matchingInterests"`
	IsGroupConnection bool      `json:"isGroupConnection"`
}

// discoverGroupsResponse は GET /api/discover/groups のレスポンス。
type discoverGroupsResponse struct {
	Groups  []groupCandidateResponse `json:"groups"`
	Total   int                      `json:"total"`
	HasMore bool                     `json:"hasMore"`
}

// discoverUsersResponse は GET /api/discover/users のレスポンス。
type discoverUsersResponse struct {
	Users   []userCandidateResponse `json:"users"`
	Total   int                     `json:"total"`
	HasMore bool                    `json:"hasMore"`
}

// DiscoverGroups はおすすめグループを返す。
// GET /api/discover/groups?limit=&offset=&excludeSwiped=
func (h *DiscoveryHandler) DiscoverGroups(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	opts := parseDiscoveryOptions(r, defaultExcludeSwipedGroups)
	page, err := h.service.DiscoverGroups(r.Context(), userID, opts)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp := discoverGroupsResponse{
		Groups:  make([]groupCandidateResponse, len(page.Groups)),
		Total:   page.Total,
		HasMore: page.HasMore,
	}
	for i, c := range page.Groups {
		resp.Groups[i] = toGroupCandidateResponse(c)
	}
	writeJSON(w, http.StatusOK, resp)
}

// DiscoverUsers はおすすめユーザーを返す。
// GET /api/discover/users?limit=&offset=&excludeSwiped=
func (h *DiscoveryHandler) DiscoverUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	opts := parseDiscoveryOptions(r, defaultExcludeSwipedUsers)
	page, err := h.service.DiscoverUsers(r.Context(), userID, opts)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp := discoverUsersResponse{
		Users:   make([]userCandidateResponse, len(page.Users)),
		Total:   page.Total,
		HasMore: page.HasMore,
	}
	for i, c := range page.Users {
		resp.Users[i] = toUserCandidateResponse(c)
	}
	writeJSON(w, http.StatusOK, resp)
}

// requireUserID は認証済みユーザーIDを取り出す。取れない場合は401を書き込んでfalseを返す。
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return "", false
	}
	return userID, true
}

// parseDiscoveryOptions はクエリパラメータを解釈する。不正な値はエラーにせず既定値に倒す。
//   - limit: 整数以外は0（サービス側で既定値20）。範囲外はサービス側で[1,50]に丸める
//   - offset: 整数以外・負数は0
//   - excludeSwiped: 空ならエンドポイント既定値、それ以外は "true" のときのみtrue
func parseDiscoveryOptions(r *http.Request, defaultExcludeSwiped bool) discovery.Options {
	q := r.URL.Query()

	limit, _ := strconv.Atoi(q.Get("limit"))

	offset, err := strconv.Atoi(q.Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	excludeSwiped := defaultExcludeSwiped
	if v := q.Get("excludeSwiped"); v != "" {
		excludeSwiped = v == "true"
	}

	return discovery.Options{
		Limit:         limit,
		Offset:        offset,
		ExcludeSwiped: excludeSwiped,
	}
}

func toGroupCandidateResponse(c discovery.GroupCandidate) groupCandidateResponse {
	return groupCandidateResponse{
		ID:                c.ID,
		Name:              c.Name,
		Description:       c.Description,
		Members:           nonNil(c.Members),
		MemberCount:       c.MemberCount(),
		Interests:         nonNil(c.Interests),
		IsPrivate:         c.IsPrivate,
		CreatedAt:         c.CreatedAt,
		RelevanceScore:    c.RelevanceScore,
		MatchingInterests: nonNil(c.MatchingInterests),
		MutualConnections: c.MutualConnections,
	}
}

func toUserCandidateResponse(c discovery.UserCandidate) userCandidateResponse {
	return userCandidateResponse{
		ID:                c.ID,
		Name:              c.Name,
		Age:               c.Age,
		Gender:            string(c.Gender),
		Interests:         nonNil(c.Interests),
		CreatedAt:         c.CreatedAt,
		RelevanceScore:    c.RelevanceScore,
		MatchingInterests: nonNil(c.MatchingInterests),
		IsGroupConnection: c.IsGroupConnection,
	}
}

// nonNil はJSONで null ではなく [] を返すためのヘルパー。
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
