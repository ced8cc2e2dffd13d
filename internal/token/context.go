package token

import "context"

type bearerKey struct{}

// WithBearer stores the caller's raw bearer token in ctx. The auth
// middleware places it there so outbound companion calls can forward the
// original caller's authority instead of minting a service identity.
// The delegation is deliberately an explicit context value, never
// process-global state.
func WithBearer(ctx context.Context, bearer string) context.Context {
	return context.WithValue(ctx, bearerKey{}, bearer)
}

// BearerFromContext returns the forwarded bearer token, if any.
func BearerFromContext(ctx context.Context) (string, bool) {
	bearer, ok := ctx.Value(bearerKey{}).(string)
	return bearer, ok && bearer != ""
}
