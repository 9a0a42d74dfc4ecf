// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hitoshi/duomatch/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// AuthConfig はBearerトークン検証の設定。
type AuthConfig struct {
	// Secret はHS256の署名鍵。
	Secret []byte
	// Issuer が空でない場合、issクレームの一致を要求する。
	Issuer string
}

// NewAuthMiddleware はAuthorizationヘッダーのBearerトークン（HS256 JWT）を検証し、
// subクレームのユーザーIDをリクエストコンテキストに注入するミドルウェアを返す。
// トークンがない・不正・期限切れの場合は401 UNAUTHORIZEDを返す。
func NewAuthMiddleware(cfg AuthConfig) func(next http.Handler) http.Handler {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(opts...)
	keyFunc := func(*jwt.Token) (interface{}, error) { return cfg.Secret, nil }

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			userID, err := subjectFromToken(parser, raw, keyFunc)
			if err != nil {
				slog.WarnContext(r.Context(), "bearer token rejected",
					slog.String("request_id", RequestIDFromContext(r.Context())),
					slog.String("error", err.Error()),
				)
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			annotateUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
		})
	}
}

// bearerToken はAuthorizationヘッダーからトークン部分を取り出す。
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// subjectFromToken はトークンを検証し、UUID形式のsubクレームを返す。
func subjectFromToken(parser *jwt.Parser, raw string, keyFunc jwt.Keyfunc) (string, error) {
	var claims jwt.RegisteredClaims
	if _, err := parser.ParseWithClaims(raw, &claims, keyFunc); err != nil {
		return "", fmt.Errorf("トークンの検証に失敗しました: %w", err)
	}
	if claims.Subject == "" {
		return "", errors.New("subクレームがありません")
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", fmt.Errorf("subクレームがUUIDではありません: %w", err)
	}
	return id.String(), nil
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
