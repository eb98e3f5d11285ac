package server

import (
	"context"

	"github.com/desertthunder/playliner/internal/shared"
)

type unavailableTitles struct{}

func (unavailableTitles) Title(context.Context, string) (string, error) {
	return "", shared.ErrServiceUnavailable
}
