// identity.go - Caller identity extraction.
//
// Identity resolution is the host runtime's job. The gateway in front of
// this service authenticates the caller and forwards an opaque principal
// in the X-Kintaraa-Principal header, which is trusted as-is.
package api

import (
	"context"
	"net/http"

	"github.com/Kintaraa/kentaraa/tokens"
)

// PrincipalHeader carries the host-supplied caller identity.
const PrincipalHeader = "X-Kintaraa-Principal"

type contextKey struct{}

var identityKey contextKey

// RequireIdentity rejects requests without a principal header and places
// the caller identity on the request context.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := r.Header.Get(PrincipalHeader)
		if principal == "" {
			writeError(w, http.StatusUnauthorized, "Missing caller principal", nil)
			return
		}
		ctx := context.WithValue(r.Context(), identityKey, tokens.Identity(principal))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CallerIdentity returns the identity placed by RequireIdentity.
func CallerIdentity(ctx context.Context) tokens.Identity {
	id, _ := ctx.Value(identityKey).(tokens.Identity)
	return id
}
