package database

import "github.com/jmoiron/sqlx"

// Tx is the transaction surface repositories accept and return.
type Tx interface {
	sqlx.ExtContext
	Commit() error
	Rollback() error
}
