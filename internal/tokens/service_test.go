package tokens

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

func TestLoadCredentials(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	expires := time.Now().Add(time.Hour)
	mock.ExpectQuery(`SELECT athlete_id, access_token, refresh_token, expires_at`).
		WillReturnRows(pgxmock.NewRows([]string{"athlete_id", "access_token", "refresh_token", "expires_at"}).
			AddRow(int64(77), "access", "refresh", expires))

	svc := NewService(mock)
	creds, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if creds.AthleteID != 77 || creds.AccessToken != "access" || creds.RefreshToken != "refresh" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSaveCredentials(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	expires := time.Now().Add(6 * time.Hour)
	mock.ExpectExec(`INSERT INTO strava_credentials`).
		WithArgs(int64(77), "access", "refresh", expires).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	svc := NewService(mock)
	err = svc.Save(context.Background(), Credentials{
		AthleteID:    77,
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    expires,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLoadError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT athlete_id, access_token, refresh_token, expires_at`).
		WillReturnError(errors.New("query error"))

	svc := NewService(mock)
	if _, err := svc.Load(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNoDatabase(t *testing.T) {
	svc := NewService(nil)
	if _, err := svc.Load(context.Background()); !errors.Is(err, ErrNoDatabase) {
		t.Fatalf("expected ErrNoDatabase, got %v", err)
	}
	if err := svc.Save(context.Background(), Credentials{}); !errors.Is(err, ErrNoDatabase) {
		t.Fatalf("expected ErrNoDatabase, got %v", err)
	}
}

func TestExpired(t *testing.T) {
	now := time.Now()
	c := Credentials{ExpiresAt: now.Add(30 * time.Second)}
	if !c.Expired(now, time.Minute) {
		t.Fatalf("expected expired within leeway")
	}
	if c.Expired(now, 0) {
		t.Fatalf("did not expect expired without leeway")
	}
}
