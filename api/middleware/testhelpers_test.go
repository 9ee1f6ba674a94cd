package middleware

import (
	"context"
	"io"
	"testing"

	"github.com/angelmondragon/marketplace-backend/internal/checkout"
	"github.com/angelmondragon/marketplace-backend/internal/session"
	"github.com/angelmondragon/marketplace-backend/internal/workspace"
	"github.com/angelmondragon/marketplace-backend/pkg/kvstore"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestManager(t *testing.T) *workspace.Manager {
	t.Helper()
	store, err := kvstore.New(kvstore.NewMemoryBackend(), nil)
	if err != nil {
		t.Fatalf("kvstore: %v", err)
	}
	mgr, err := workspace.NewManager(workspace.Deps{
		Store:            store,
		Authenticator:    session.NewDemoAuthenticator(),
		PaymentProcessor: checkout.SimulatedProcessor{},
		Logger:           testLogger(),
	})
	if err != nil {
		t.Fatalf("workspace manager: %v", err)
	}
	return mgr
}

func signedInWorkspace(t *testing.T, mgr *workspace.Manager, id, email string) *workspace.Workspace {
	t.Helper()
	ws, err := mgr.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get workspace: %v", err)
	}
	if _, err := ws.Session.Login(context.Background(), email, "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return ws
}
