package flows

import "context"

// LogoutDeps captures logout dependencies.
type LogoutDeps struct {
	DeleteByToken func(context.Context, string) error
}

// RunLogout removes the row for token. An empty token is a no-op and repeated
// calls succeed.
func RunLogout(ctx context.Context, token string, deps LogoutDeps) error {
	if token == "" || deps.DeleteByToken == nil {
		return nil
	}
	return deps.DeleteByToken(ctx, token)
}
