package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/trip-editor/internal/domain"
	"github.com/trip-editor/internal/domain/repository"
	apperrors "github.com/trip-editor/internal/pkg/errors"
	"github.com/trip-editor/internal/repository/postgres/testhelpers"
)

// TripRepositorySuite tests the trip repository with real database
type TripRepositorySuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.TripRepository
	ctx    context.Context
}

// SetupSuite runs once before all tests
func (s *TripRepositorySuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())

	err := s.testDB.Store().Migrate(context.Background())
	s.Require().NoError(err, "Failed to apply migrations")

	s.repo = s.testDB.TripRepository()
}

// TearDownSuite runs once after all tests
func (s *TripRepositorySuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

// SetupTest runs before each test
func (s *TripRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
}

func (s *TripRepositorySuite) TestSave_GeneratesUID() {
	domestic := 1
	doc := &repository.TripDocument{
		Trip: domain.Trip{
			Designer: "alice",
			TripName: "北京三日游",
			City:     "北京",
			Domestic: &domestic,
		},
		Detail: []interface{}{
			[]interface{}{map[string]interface{}{"nameOfScence": "故宫", "longitude": 116.397, "latitude": 39.916}},
		},
	}

	uid, err := s.repo.Save(s.ctx, doc)
	s.Require().NoError(err)
	s.NotEmpty(uid)

	got, err := s.repo.GetByUID(s.ctx, uid)
	s.Require().NoError(err)
	s.Equal("北京三日游", got.TripName)
	s.Require().NotNil(got.Domestic)
	s.Equal(1, *got.Domestic)

	days, ok := got.Detail.([]interface{})
	s.Require().True(ok)
	s.Len(days, 1)
}

func (s *TripRepositorySuite) TestSave_UpsertsAndKeepsEmptyDetail() {
	doc := &repository.TripDocument{
		Trip:   domain.Trip{UID: "trip-1", TripName: "first"},
		Detail: "",
	}
	_, err := s.repo.Save(s.ctx, doc)
	s.Require().NoError(err)

	doc.TripName = "renamed"
	uid, err := s.repo.Save(s.ctx, doc)
	s.Require().NoError(err)
	s.Equal("trip-1", uid)

	got, err := s.repo.GetByUID(s.ctx, "trip-1")
	s.Require().NoError(err)
	s.Equal("renamed", got.TripName)
	s.Equal("", got.Detail)
	s.Nil(got.Domestic)
}

func (s *TripRepositorySuite) TestGetByUID_NotFound() {
	_, err := s.repo.GetByUID(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrTripNotFound)
}

func (s *TripRepositorySuite) TestHealth() {
	s.NoError(s.testDB.Store().Health(s.ctx))
}

func (s *TripRepositorySuite) TestMigrate_Idempotent() {
	s.Require().NoError(s.testDB.Store().Migrate(s.ctx))

	var versions []string
	s.Require().NoError(s.testDB.DB.SelectContext(s.ctx, &versions, `SELECT version FROM schema_migrations ORDER BY version`))
	s.Equal([]string{"000001_create_trips"}, versions)
}

func TestTripRepositorySuite(t *testing.T) {
	suite.Run(t, new(TripRepositorySuite))
}
