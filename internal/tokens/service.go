package tokens

import (
	"context"
	"errors"

	"backend-pacewatch/internal/db"
)

// ErrNoDatabase is returned when the service was built without a pool.
var ErrNoDatabase = errors.New("tokens: no database configured")

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Load returns the stored athlete credentials. The service is single
// athlete: there is at most one row.
func (s *Service) Load(ctx context.Context) (Credentials, error) {
	if s.db == nil {
		return Credentials{}, ErrNoDatabase
	}
	row := s.db.QueryRow(ctx, `
		SELECT athlete_id, access_token, refresh_token, expires_at
		FROM strava_credentials
		ORDER BY updated_at DESC
		LIMIT 1
	`)
	var c Credentials
	if err := row.Scan(&c.AthleteID, &c.AccessToken, &c.RefreshToken, &c.ExpiresAt); err != nil {
		return Credentials{}, err
	}
	return c, nil
}

// Save upserts the athlete's credentials after a refresh.
func (s *Service) Save(ctx context.Context, c Credentials) error {
	if s.db == nil {
		return ErrNoDatabase
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO strava_credentials (athlete_id, access_token, refresh_token, expires_at, updated_at)
		VALUES ($1,$2,$3,$4, now())
		ON CONFLICT (athlete_id) DO UPDATE
		SET access_token=EXCLUDED.access_token,
		    refresh_token=EXCLUDED.refresh_token,
		    expires_at=EXCLUDED.expires_at,
		    updated_at=now()
	`, c.AthleteID, c.AccessToken, c.RefreshToken, c.ExpiresAt)
	return err
}
