package repository

import (
	"database/sql"

	"github.com/ignatzorin/levkonnect-backend/internal/repository/common"
)

// checkAffected переводит UPDATE без затронутых строк в ErrNotFound.
func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
