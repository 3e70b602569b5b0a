// Package repository maps the user and event aggregates onto MySQL tables.
// Sentinel errors below let the service layer tell a missing row or a
// uniqueness violation apart from driver failures.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrUserNotFound is returned when no user row matches.
	ErrUserNotFound = errors.New("user not found")

	// ErrEventNotFound is returned when no event row matches.
	ErrEventNotFound = errors.New("event not found")

	// ErrConflict is returned when an insert or update hits a unique key.
	ErrConflict = errors.New("conflict")
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
