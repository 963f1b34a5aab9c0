package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/storefront/internal/models"
)

func TestManager_Watch_followsOtherProcess(t *testing.T) {
	watcher, _, store := newTestManager(t)

	var (
		mu     sync.Mutex
		latest *models.Profile
	)
	watcher.Subscribe(func(p *models.Profile) {
		mu.Lock()
		latest = p
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Watch(ctx) }()

	backend := newFakeBackend()
	backend.responses["/Auth/login"] = customerLogin
	other := NewManager(store)
	other.SetBackend(backend)
	creds := models.LoginRequest{Email: "amira@example.com", Password: "secret"}

	// keep logging in until the watcher has picked up a write
	require.Eventually(t, func() bool {
		if _, err := other.Login(ctx, creds); err != nil {
			return false
		}
		mu.Lock()
		defer mu.Unlock()
		return latest != nil && latest.UserID == 7
	}, 5*time.Second, 50*time.Millisecond)

	require.Equal(t, "tok-customer", watcher.Token())

	require.Eventually(t, func() bool {
		if err := other.Logout(); err != nil {
			return false
		}
		mu.Lock()
		defer mu.Unlock()
		return latest == nil
	}, 5*time.Second, 50*time.Millisecond)

	require.False(t, watcher.IsLoggedIn())

	cancel()
	require.NoError(t, <-done)
}

func TestManager_reload_agreesWithStore(t *testing.T) {
	m, _, store := newTestManager(t)
	ctx := context.Background()
	creds := models.LoginRequest{Email: "amira@example.com", Password: "secret"}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_, _ = m.Login(ctx, creds)
			_ = m.Logout()
		}
		_, _ = m.Login(ctx, creds)
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			m.reload(ctx)
		}
	}()
	wg.Wait()

	entries, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, entries[KeyToken], m.Token())
	require.True(t, m.IsLoggedIn())
}

func TestSameProfile(t *testing.T) {
	a := &models.Profile{UserID: 1, Email: "a@example.com"}
	b := &models.Profile{UserID: 1, Email: "a@example.com"}

	require.True(t, sameProfile(nil, nil))
	require.True(t, sameProfile(a, b))
	require.False(t, sameProfile(a, nil))
	require.False(t, sameProfile(a, &models.Profile{UserID: 2, Email: "a@example.com"}))
}
