package firebase

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"squash-courts/backend/internal/config"
)

// clientOptions prefers FIREBASE_SERVICE_ACCOUNT_JSON. Without it the
// Application Default Credentials are used, which is the Cloud Run setup.
func clientOptions(cfg config.Config) []option.ClientOption {
	if cfg.Firebase.ServiceAccountJSON != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cfg.Firebase.ServiceAccountJSON))}
	}
	return nil
}

func NewApp(ctx context.Context, cfg config.Config) (*firebase.App, error) {
	return firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.Firebase.ProjectID,
		StorageBucket: cfg.Firebase.StorageBucket,
	}, clientOptions(cfg)...)
}
