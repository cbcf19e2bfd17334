package tokens

import "time"

// Credentials are the athlete's OAuth tokens for the fitness API. The
// access token expires; the refresh token is long-lived and rotates on
// refresh.
type Credentials struct {
	AthleteID    int64     `json:"athlete_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the access token is expired or about to expire.
func (c Credentials) Expired(now time.Time, leeway time.Duration) bool {
	return !now.Add(leeway).Before(c.ExpiresAt)
}
