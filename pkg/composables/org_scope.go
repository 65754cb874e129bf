package composables

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ApplyOrgScope pins the organization onto the transaction so that the
// database's row filters see the same tenant boundary the core does.
func ApplyOrgScope(ctx context.Context, tx pgx.Tx) error {
	orgID, err := UseOrgID(ctx)
	if err != nil {
		return fmt.Errorf("org scope requires actor in context: %w", err)
	}
	_, err = tx.Exec(ctx, "SELECT set_config('app.current_org', $1, true)", orgID.String())
	if err != nil {
		return fmt.Errorf("failed to set org scope: %w", err)
	}
	return nil
}
