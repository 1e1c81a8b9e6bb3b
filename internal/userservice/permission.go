package userservice

import (
	"context"
	"database/sql"
)

func (m *DBModel) addUserPermission(tx *sql.Tx, ctx context.Context, userID int, permission Permission) error {
	query := `
		INSERT INTO user_permissions (user_id, permission)
		VALUES ($1, $2)
		ON CONFLICT (user_id, permission) DO NOTHING`

	_, err := tx.ExecContext(ctx, query, userID, string(permission))
	return err
}
