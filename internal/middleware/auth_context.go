package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const operatorKey ctxKey = "operator"

// Header con el que el front identifica al operador.
// X-Debug-User-ID se acepta igual para herramientas de dev.
const (
	HeaderOperatorID  = "X-Operator-ID"
	HeaderDebugUserID = "X-Debug-User-ID"
)

// OperatorContext guarda en el contexto quién ejecuta la acción, para auditoría.
// No autentica: si no viene header, el request sigue sin operador.
func OperatorContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderOperatorID))
		if id == "" {
			id = strings.TrimSpace(r.Header.Get(HeaderDebugUserID))
		}
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := WithOperator(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithOperator(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, operatorKey, id)
}

func GetOperator(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(operatorKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
