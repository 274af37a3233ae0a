// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// booking services and handlers to distinguish between different failure
// scenarios without inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup or a locking read matches no row.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an update cannot be performed because of
// the current state of the row, such as settling a booking twice.
// Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrDuplicateReference is returned when a ticket insert collides with an
// existing reference code on the unique pnr index.
var ErrDuplicateReference = errors.New("duplicate reference code")

// ErrSeatsExhausted is returned by a seat debit that found no seat left.
var ErrSeatsExhausted = errors.New("no seats left")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
