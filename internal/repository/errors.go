package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound se devuelve cuando la fila buscada no existe.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate se devuelve ante una violacion de unicidad.
	ErrDuplicate = errors.New("duplicate")
)

const uniqueViolation = "23505"

// mapError traduce errores de pgx a los errores del paquete.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

// pgxRows cubre lo minimo de pgx.Rows que usan los scanners; los tests lo simulan.
type pgxRows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
	Close()
}
