package services

import (
	"errors"
	"fmt"
	"strings"

	"taskmanager/internal/repositories"
)

var (
	ErrNotFound   = repositories.ErrNotFound
	ErrValidation = errors.New("validation failed")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
