package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/configuration"
)

// WithActor reads the identity tuple the external session provider put
// on the request. The tuple is trusted as given; requests without one
// proceed unauthenticated and fail closed at the service layer.
func WithActor(conf *configuration.Configuration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actorID, err := uuid.Parse(r.Header.Get(conf.ActorIDHeader))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			orgID, err := uuid.Parse(r.Header.Get(conf.ActorOrgHeader))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			actor := composables.Actor{
				ID:             actorID,
				Role:           r.Header.Get(conf.ActorRoleHeader),
				OrganizationID: orgID,
			}
			next.ServeHTTP(w, r.WithContext(composables.WithActor(r.Context(), actor)))
		})
	}
}
