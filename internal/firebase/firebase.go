package firebase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"votify-backend-go/internal/config"
)

// Clients bundles the Firebase handles the server needs. Create it once in
// main and pass it down; Close releases the Firestore connection.
type Clients struct {
	App       *firebase.App
	Firestore *firestore.Client
	Auth      *auth.Client
}

// CredentialsOption resolves the service account from either a file path or
// a base64 encoded JSON document. A nil option means application default
// credentials.
func CredentialsOption(cfg *config.Config) (option.ClientOption, error) {
	switch {
	case cfg.GoogleApplicationCredentials != "":
		if _, err := os.Stat(cfg.GoogleApplicationCredentials); err != nil {
			return nil, fmt.Errorf("credentials file %s: %w", cfg.GoogleApplicationCredentials, err)
		}
		return option.WithCredentialsFile(cfg.GoogleApplicationCredentials), nil
	case cfg.FirebaseServiceAccountJSONBase64 != "":
		decoded, err := base64.StdEncoding.DecodeString(cfg.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, errors.New("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is not a valid base64 string")
		}
		return option.WithCredentialsJSON(decoded), nil
	default:
		return nil, nil
	}
}

// NewClients initializes the Firebase Admin SDK and opens Firestore and Auth.
// When FIRESTORE_EMULATOR_HOST is set the SDK talks to the emulator and the
// credential settings are ignored.
func NewClients(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Clients, error) {
	if cfg == nil {
		return nil, errors.New("firebase: config cannot be nil")
	}

	var opts []option.ClientOption
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		opt, err := CredentialsOption(cfg)
		if err != nil {
			return nil, err
		}
		if opt != nil {
			opts = append(opts, opt)
		}
	} else {
		logger.Info("Using Firestore emulator", zap.String("host", os.Getenv("FIRESTORE_EMULATOR_HOST")))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Firestore: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("app.Auth: %w", err)
	}

	logger.Info("Firebase clients initialized", zap.String("projectID", cfg.FirebaseProjectID))
	return &Clients{App: app, Firestore: fs, Auth: authClient}, nil
}

// Close releases the Firestore connection.
func (c *Clients) Close() error {
	if c == nil || c.Firestore == nil {
		return nil
	}
	return c.Firestore.Close()
}
