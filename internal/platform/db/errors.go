package db

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clinicboard/clinicboard/internal/platform/apperr"
)

// Classify converts a pgx failure into an *apperr.Error. entity names the
// record being accessed and appears in not-found messages. Errors that are
// already classified pass through unchanged.
func Classify(err error, entity string) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(entity, "")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return apperr.Constraint(uniqueMessage(entity, pgErr), err)
		case pgErr.Code == "23503":
			return &apperr.Error{Kind: apperr.KindNotFound, Message: "referenced record does not exist", Err: err}
		case pgErr.Code == "23502":
			return &apperr.Error{Kind: apperr.KindValidation, Field: pgErr.ColumnName, Message: pgErr.ColumnName + " is required", Err: err}
		case pgErr.Code == "22P02", pgErr.Code == "22007", pgErr.Code == "22008", pgErr.Code == "23514":
			return &apperr.Error{Kind: apperr.KindValidation, Message: "invalid " + entity + " value", Err: err}
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "57P0"):
			return apperr.Connectivity(err)
		}
		return apperr.Internal("failed to access "+entity, err)
	}

	if isConnectivity(err) {
		return apperr.Connectivity(err)
	}
	return apperr.Internal("failed to access "+entity, err)
}

// ClassifyID is Classify for statements that address a single row by id;
// a missing row yields a not-found error naming id.
func ClassifyID(err error, entity, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(entity, id)
	}
	return Classify(err, entity)
}

func isConnectivity(err error) bool {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	if pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func uniqueMessage(entity string, pgErr *pgconn.PgError) string {
	if pgErr.ConstraintName != "" {
		return entity + " violates unique constraint " + pgErr.ConstraintName
	}
	return entity + " already exists"
}
