package testhelpers

import (
	"github.com/trip-editor/internal/domain/repository"
	"github.com/trip-editor/internal/repository/postgres"
)

// TripRepository builds a trip repository on top of the test database
func (tdb *TestDB) TripRepository() repository.TripRepository {
	return postgres.NewTripRepository(tdb.Store())
}

// Store wraps the test connection into postgres.DB
func (tdb *TestDB) Store() *postgres.DB {
	return postgres.NewFromSQLX(tdb.DB, tdb.Logger)
}
