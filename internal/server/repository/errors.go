// Package repository содержит реализации слоя доступа к данным (Repository layer).
//
// Репозитории инкапсулируют работу с PostgreSQL и не содержат бизнес-логики.
// Все ошибки приводятся к доменным ошибкам из internal/shared/errors.
package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"

	serr "github.com/IvanChernomyrdin/clubhouse/internal/shared/errors"
)

// коды ошибок PostgreSQL
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapErr приводит ошибку драйвера к доменной.
//
// sql.ErrNoRows -> notFound, unique_violation -> ErrAlreadyExists,
// остальное -> ErrInternal с исходной причиной в тексте.
func mapErr(op string, err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return serr.ErrAlreadyExists
		case pgForeignKeyViolation:
			return notFound
		}
	}
	return fmt.Errorf("%s: %w: %v", op, serr.ErrInternal, err)
}
