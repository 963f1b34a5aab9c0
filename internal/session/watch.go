package session

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/storefront/internal/models"
	"github.com/wolfeidau/storefront/internal/telemetry"
)

// Watch reloads the session whenever the session file is changed by another
// process, such as a login or logout in a second terminal, and publishes the
// result if it differs. It blocks until ctx is done.
func (m *Manager) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, writes replace the file with a rename.
	if err := watcher.Add(m.store.Dir()); err != nil {
		return fmt.Errorf("failed to watch session directory: %w", err)
	}

	target := filepath.Clean(m.store.Path())

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				m.reload(ctx)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("session watcher error")
		}
	}
}

// reload re-reads the store and publishes if the signed-in user changed.
// The store is read under the write lock, like every other session change.
func (m *Manager) reload(ctx context.Context) {
	m.mu.Lock()
	sess := m.readStore()
	token, user := sess.Token, sess.User
	unchanged := token == m.token && sameProfile(user, m.user)
	if !unchanged {
		m.token, m.user = token, user
	}
	m.mu.Unlock()

	if unchanged {
		return
	}

	telemetry.GetMetrics().SessionReloads.Add(ctx, 1)
	log.Debug().Bool("loggedIn", user != nil).Msg("session changed on disk")

	m.publish(user)
}

func sameProfile(a, b *models.Profile) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
