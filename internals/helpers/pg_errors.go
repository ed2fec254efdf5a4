// file: internals/helpers/pg_errors.go
package helper

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsUniqueViolation deteksi pelanggaran unique constraint Postgres (23505).
// Dipakai repo untuk menerjemahkan duplikat jadi 409, bukan cek-lalu-insert.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
