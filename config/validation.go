package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the configuration and reports every problem at once.
func ValidateConfig(cfg *Config) error {
	var errs []error

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"SERVER_PORT", "is required"})
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{"JWT_SECRET", "is required"})
	}
	if cfg.JWTTTL <= 0 {
		errs = append(errs, ValidationError{"JWT_TTL", "must be positive"})
	}
	if cfg.RecipeCreateLimit < 0 {
		errs = append(errs, ValidationError{"RECIPE_CREATE_LIMIT", "must not be negative"})
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, ValidationError{"LOG_LEVEL", err.Error()})
	}

	switch cfg.StorageDriver {
	case "local":
		if cfg.MediaRoot == "" {
			errs = append(errs, ValidationError{"MEDIA_ROOT", "is required for local storage"})
		}
	case "s3":
		if cfg.S3BucketName == "" {
			errs = append(errs, ValidationError{"S3_BUCKET_NAME", "is required for s3 storage"})
		}
	default:
		errs = append(errs, ValidationError{"STORAGE_DRIVER", fmt.Sprintf("unknown driver %q", cfg.StorageDriver)})
	}

	if cfg.Environment == Production {
		if cfg.JWTSecret == defaultJWTSecret {
			errs = append(errs, ValidationError{"JWT_SECRET", "must be changed in production"})
		}
		if cfg.DatabaseURL == "" && (cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBPassword == "" || cfg.DBName == "") {
			errs = append(errs, ValidationError{"DATABASE_URL", "or DB_HOST, DB_USER, DB_PASSWORD and DB_NAME are required"})
		}
		if !strings.HasPrefix(cfg.DSN(), "postgres") {
			errs = append(errs, ValidationError{"DATABASE_URL", "must be a postgres DSN in production"})
		}
	}

	return errors.Join(errs...)
}
