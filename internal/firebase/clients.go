package firebase

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	credentials "cloud.google.com/go/iam/credentials/apiv1"
	"cloud.google.com/go/storage"
	"firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog/log"

	"squash-courts/backend/internal/config"
)

// Clients bundles the Firebase and GCP clients used by the API.
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
	Storage   *storage.Client
	// IAM signs upload URLs. Nil when it could not be created.
	IAM *credentials.IamCredentialsClient
}

func NewClients(ctx context.Context, cfg config.Config) (*Clients, error) {
	if cfg.Firebase.ProjectID == "" {
		return nil, errors.New("missing FIREBASE_PROJECT_ID or GOOGLE_CLOUD_PROJECT")
	}

	app, err := NewApp(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("firebase app init failed: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client init failed: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore init failed: %w", err)
	}

	st, err := storage.NewClient(ctx, clientOptions(cfg)...)
	if err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	iamClient, err := credentials.NewIamCredentialsClient(ctx, clientOptions(cfg)...)
	if err != nil {
		log.Warn().Err(err).Msg("IAM credentials client unavailable, signed uploads disabled")
		iamClient = nil
	}

	return &Clients{
		Auth:      authClient,
		Firestore: fs,
		Storage:   st,
		IAM:       iamClient,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Firestore != nil {
		_ = c.Firestore.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.IAM != nil {
		_ = c.IAM.Close()
	}
}
