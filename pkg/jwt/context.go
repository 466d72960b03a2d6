package jwt

import "context"

type tokenKey struct{}

// ContextWithToken adjunta el bearer token del llamador para reenviarlo al backend.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext devuelve el token adjunto, o "" si no hay.
func TokenFromContext(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}
