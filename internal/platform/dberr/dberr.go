// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/tagraph/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// # Classification
//
//   - pgx.ErrNoRows: NOT_FOUND for the given resource
//   - 40001 / 40P01: CONFLICT_ABORT (serialization failure, deadlock)
//   - 23505: CONFLICT (unique violation)
//   - 23503: CONFLICT (row still referenced)
//   - 23514 / 22001: VALIDATION_ERROR (check constraint, value too long)
//   - anything else: INTERNAL_ERROR
//
// Errors that are already an [apperr.AppError] pass through untouched so that
// repository helpers can be layered.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if apperr.IsAppError(err) {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		if resource == "" {
			return ErrNotFound
		}
		return apperr.NotFound(resource)
	}

	// 2. SQLSTATE mapping
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
			return apperr.ConflictAbort(err)
		case pgerrcode.UniqueViolation:
			conflict := apperr.Conflict(resource + " already exists")
			conflict.Cause = err
			return conflict
		case pgerrcode.ForeignKeyViolation:
			conflict := apperr.Conflict(resource + " is still referenced")
			conflict.Cause = err
			return conflict
		case pgerrcode.CheckViolation, pgerrcode.StringDataRightTruncationDataException:
			validation := apperr.ValidationError(resource + " violates a constraint")
			validation.Cause = err
			return validation
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// IsUniqueViolation reports whether err is (or wraps) a unique-constraint violation.
func IsUniqueViolation(err error) bool {
	var pgError *pgconn.PgError
	return errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation
}
