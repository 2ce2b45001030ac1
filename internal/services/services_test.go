package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"medadmit/internal/config"
	"medadmit/internal/database/databasetest"
	"medadmit/internal/domain"
	"medadmit/internal/session"
	"medadmit/internal/store"
	"medadmit/internal/util"
)

const (
	testUsername = "counsellor"
	testPassword = "correct horse battery"
	testSecret   = "0123456789abcdef0123456789abcdef"
)

type sentNotification struct {
	form string
	rec  domain.Record
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (n *recordingNotifier) NotifySubmission(_ context.Context, form string, rec domain.Record) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{form: form, rec: rec})
	return n.err
}

func (n *recordingNotifier) all() []sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentNotification(nil), n.sent...)
}

func newTestStores(t *testing.T) *store.Stores {
	t.Helper()
	return store.New(databasetest.New(t))
}

func newTestAuth(t *testing.T, stores *store.Stores) (*AuthService, *session.MemoryStore) {
	t.Helper()

	hash, err := util.HashPasswordWithCost(testPassword, 4)
	require.NoError(t, err)

	sessions := session.NewMemoryStore()
	admin := config.AdminConfig{Username: testUsername, PasswordHash: hash}
	return NewAuthService(admin, sessions, util.NewTokenSigner(testSecret, 24*time.Hour), stores.Audit), sessions
}

func auditActions(t *testing.T, stores *store.Stores) []string {
	t.Helper()
	entries, err := stores.Audit.List(context.Background(), 0)
	require.NoError(t, err)
	actions := make([]string, len(entries))
	for i, e := range entries {
		actions[i] = e.Action
	}
	return actions
}
