// ABOUTME: Adapts the process renderer to the coordinator's Renderer interface
// ABOUTME: Keeps the renderer package free of handoff types

package handoff

import (
	"context"

	"github.com/mauromedda/pi-overlay-go/internal/renderer"
)

// FromLauncher exposes a renderer.Launcher as a Renderer.
func FromLauncher(l *renderer.Launcher) Renderer {
	return launcherRenderer{l: l}
}

type launcherRenderer struct {
	l *renderer.Launcher
}

func (r launcherRenderer) Available() error { return r.l.Available() }

func (r launcherRenderer) Start(ctx context.Context, asset string) (Session, error) {
	s, err := r.l.Start(ctx, asset)
	if err != nil {
		return nil, err
	}
	return s, nil
}
