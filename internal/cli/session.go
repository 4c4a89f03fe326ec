package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/gesturesnap/internal/gesture"
	"github.com/roach88/gesturesnap/internal/host"
	"github.com/roach88/gesturesnap/internal/library"
	"github.com/roach88/gesturesnap/internal/store"
)

// session is the state one command works on: the scene loaded from the
// scene database and the gesture library.
type session struct {
	store  *store.Store
	scene  *host.Scene
	lib    *library.Library
	svc    *gesture.Service
	logger *slog.Logger
}

// openSession opens the scene database and loads the scene and library.
func openSession(ctx context.Context, opts *RootOptions) (*session, error) {
	logger := opts.logger()

	st, err := store.Open(opts.Scene)
	if err != nil {
		return nil, fmt.Errorf("open scene %s: %w", opts.Scene, err)
	}
	scene, err := st.LoadScene(ctx)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load scene %s: %w", opts.Scene, err)
	}
	logger.Debug("scene loaded",
		"path", opts.Scene,
		"objects", len(scene.Objects()),
		"active", scene.ActiveName(),
		"frame", scene.CurrentFrame(),
	)

	lib := library.Open(opts.Library, logger)
	return &session{
		store:  st,
		scene:  scene,
		lib:    lib,
		svc:    gesture.New(lib, scene, logger),
		logger: logger,
	}, nil
}

// save writes the scene back to the database.
func (s *session) save(ctx context.Context) error {
	if err := s.store.SaveScene(ctx, s.scene); err != nil {
		return err
	}
	s.logger.Debug("scene saved", "keyframes", len(s.scene.Keyframes()))
	return nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// openLibrary opens the gesture library alone for commands that never touch
// the scene.
func openLibrary(opts *RootOptions) *gesture.Service {
	logger := opts.logger()
	return gesture.New(library.Open(opts.Library, logger), nil, logger)
}
