package firebase

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// Init creates the Firebase app. credentials is either inline service
// account JSON or a path to a credentials file; empty means application
// default credentials.
func Init(ctx context.Context, credentials, bucket string) (*firebase.App, error) {
	var opts []option.ClientOption

	switch {
	case credentials == "":
		log.Warn().Msg("GOOGLE_APPLICATION_CREDENTIALS not set, using default credentials")
	case strings.HasPrefix(credentials, "{"):
		log.Info().Msg("using Firebase credentials from environment variable")
		opts = append(opts, option.WithCredentialsJSON([]byte(credentials)))
	default:
		log.Info().Str("path", credentials).Msg("using Firebase credentials from file")
		opts = append(opts, option.WithCredentialsFile(credentials))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucket}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase init: %w", err)
	}

	log.Info().Str("bucket", bucket).Msg("firebase initialized")
	return app, nil
}
