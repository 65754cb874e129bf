package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"github.com/pipecrest/brokerage/pkg/composables"
	"github.com/pipecrest/brokerage/pkg/serrors"
)

// WithTransaction opens an organization-scoped transaction for the
// duration of the request. Write routes use it so that a handler's
// service calls join one transaction. A request without an identity
// tuple cannot be scoped to an organization and is rejected up front
// with the UNAUTHENTICATED mapping, before any pool work.
func WithTransaction() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := composables.UseOrgID(r.Context()); err != nil {
				writeMiddlewareError(w, err)
				return
			}
			pool, err := composables.UsePool(r.Context())
			if err != nil {
				writeMiddlewareError(w, err)
				return
			}
			tx, err := pool.Begin(r.Context())
			if err != nil {
				writeMiddlewareError(w, err)
				return
			}
			defer func() {
				if err := tx.Rollback(r.Context()); err != nil {
					if errors.Is(err, pgx.ErrTxClosed) {
						return
					}
					if logger, ok := composables.TryUseLogger(r.Context()); ok {
						logger.WithError(err).Error("failed to rollback transaction")
					}
				}
			}()
			ctxWithTx := composables.WithTx(r.Context(), tx)
			if err := composables.ApplyOrgScope(ctxWithTx, tx); err != nil {
				writeMiddlewareError(w, err)
				return
			}
			r = r.WithContext(ctxWithTx)
			next.ServeHTTP(w, r)
			if err := tx.Commit(r.Context()); err != nil {
				writeMiddlewareError(w, err)
			}
		})
	}
}

// writeMiddlewareError maps the error's reason code onto the HTTP
// status and body shape the controllers use, so a failure before the
// handler looks the same to clients as one inside it.
func writeMiddlewareError(w http.ResponseWriter, err error) {
	code := serrors.Code(err)
	if code == "" {
		code = serrors.CodePersistenceFailure
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(serrors.HTTPStatus(code))
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": err.Error(),
	})
}
