// Package store defines the persistence interfaces consumed by the
// scheduling service, along with the shared error taxonomy and transaction
// helpers. Concrete implementations live in internal/platform/postgres.
package store
