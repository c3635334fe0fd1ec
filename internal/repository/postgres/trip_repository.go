package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trip-editor/internal/domain"
	"github.com/trip-editor/internal/domain/repository"
	apperrors "github.com/trip-editor/internal/pkg/errors"
)

type tripRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewTripRepository - создание репозитория документов поездок
func NewTripRepository(db *DB) repository.TripRepository {
	return &tripRepository{
		db:     db,
		logger: db.logger,
	}
}

type tripRow struct {
	UID       string        `db:"uid"`
	Designer  string        `db:"designer"`
	TripName  string        `db:"trip_name"`
	Country   string        `db:"country"`
	City      string        `db:"city"`
	Tags      string        `db:"tags"`
	Domestic  sql.NullInt16 `db:"domestic"`
	Detail    string        `db:"detail"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

const upsertTripQuery = `
	INSERT INTO trips (uid, designer, trip_name, country, city, tags, domestic, detail)
	VALUES (:uid, :designer, :trip_name, :country, :city, :tags, :domestic, :detail)
	ON CONFLICT (uid) DO UPDATE SET
		designer   = EXCLUDED.designer,
		trip_name  = EXCLUDED.trip_name,
		country    = EXCLUDED.country,
		city       = EXCLUDED.city,
		tags       = EXCLUDED.tags,
		domestic   = EXCLUDED.domestic,
		detail     = EXCLUDED.detail,
		updated_at = NOW()
`

// Save создает или обновляет документ целиком в одном запросе
func (r *tripRepository) Save(ctx context.Context, doc *repository.TripDocument) (string, error) {
	uid := doc.UID
	if uid == "" {
		uid = uuid.NewString()
	}

	detail, err := json.Marshal(doc.Detail)
	if err != nil {
		return "", fmt.Errorf("marshal trip detail: %w", err)
	}

	row := tripRow{
		UID:      uid,
		Designer: doc.Designer,
		TripName: doc.TripName,
		Country:  doc.Country,
		City:     doc.City,
		Tags:     doc.Tags,
		Detail:   string(detail),
	}
	if doc.Domestic != nil {
		row.Domestic = sql.NullInt16{Int16: int16(*doc.Domestic), Valid: true}
	}

	start := time.Now()
	if _, err := r.db.NamedExecContext(ctx, upsertTripQuery, row); err != nil {
		r.logger.Error("Failed to save trip", zap.String("uid", uid), zap.Error(err))
		return "", fmt.Errorf("%w: %v", apperrors.ErrDatabaseError, err)
	}

	r.logger.Debug("Trip saved",
		zap.String("uid", uid),
		zap.Int("detail_bytes", len(detail)),
		zap.Duration("duration", time.Since(start)),
	)
	return uid, nil
}

const selectTripQuery = `
	SELECT uid, designer, trip_name, country, city, tags, domestic, detail, created_at, updated_at
	FROM trips
	WHERE uid = $1
`

func (r *tripRepository) GetByUID(ctx context.Context, uid string) (*repository.TripDocument, error) {
	var row tripRow
	if err := r.db.GetContext(ctx, &row, selectTripQuery, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrTripNotFound
		}
		r.logger.Error("Failed to get trip", zap.String("uid", uid), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDatabaseError, err)
	}

	var detail interface{}
	if row.Detail != "" {
		if err := json.Unmarshal([]byte(row.Detail), &detail); err != nil {
			r.logger.Warn("Stored trip detail is not valid JSON", zap.String("uid", uid), zap.Error(err))
			detail = ""
		}
	}

	doc := &repository.TripDocument{
		Trip: domain.Trip{
			UID:      row.UID,
			Designer: row.Designer,
			TripName: row.TripName,
			Country:  row.Country,
			City:     row.City,
			Tags:     row.Tags,
		},
		Detail: detail,
	}
	if row.Domestic.Valid {
		v := int(row.Domestic.Int16)
		doc.Domestic = &v
	}
	return doc, nil
}
