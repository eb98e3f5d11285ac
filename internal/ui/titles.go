package ui

import (
	"context"

	"github.com/desertthunder/playliner/internal/shared"
)

// noTitles is used when no metadata service is configured, so added videos keep the placeholder name.
type noTitles struct{}

func (noTitles) Title(context.Context, string) (string, error) {
	return "", shared.ErrServiceUnavailable
}
