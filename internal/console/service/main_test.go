package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/waypointhq/console/internal/console/domain"
	"github.com/waypointhq/console/internal/console/identity/localidp"
	"github.com/waypointhq/console/internal/console/store/drivers/sqlite"
	"github.com/waypointhq/console/pkg/cryptox"
	"github.com/waypointhq/console/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	cryptox.SetPepperPath(filepath.Join(os.TempDir(), "console-service-test-pepper"))
	os.Exit(m.Run())
}

// testEnv wires the full service graph over an in-memory store so tests can
// walk real workflows end to end.
type testEnv struct {
	Store        *sqlite.Store
	Provider     *localidp.Provider
	Keys         *jwtx.EdDSAKeyPair
	Invites      *InviteService
	Registration *RegistrationService
	Approval     *ApprovalService
	Gate         *AccessGateService
	EmailChange  *EmailChangeService
	Profile      *ProfileService
	Directory    *DirectoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	keys, err := jwtx.NewEphemeralEdDSA("test-key", "console-test")
	require.NoError(t, err)

	provider := localidp.New(st)
	invites := &InviteService{Store: st}

	return &testEnv{
		Store:    st,
		Provider: provider,
		Keys:     keys,
		Invites:  invites,
		Registration: &RegistrationService{
			Store:    st,
			Invites:  invites,
			Provider: provider,
		},
		Approval: &ApprovalService{Store: st},
		Gate: &AccessGateService{
			Store:    st,
			Provider: provider,
			Signer:   keys,
			Issuer:   "console-test",
		},
		EmailChange: &EmailChangeService{Store: st, Provider: provider},
		Profile:     &ProfileService{Store: st, Provider: provider},
		Directory:   &DirectoryService{Store: st, Provider: provider},
	}
}

// register walks a signup through the invitation flow and returns the
// pending record.
func (e *testEnv) register(t *testing.T, email, password, name string) domain.PendingSignup {
	t.Helper()
	ctx := context.Background()

	token, err := e.Invites.MintToken(ctx, "admin-1")
	require.NoError(t, err)

	signup, err := e.Registration.Register(ctx, token, email, password, name)
	require.NoError(t, err)
	return signup
}

// registerApproved registers and approves an account so it can log in.
func (e *testEnv) registerApproved(t *testing.T, email, password, name string) domain.User {
	t.Helper()

	signup := e.register(t, email, password, name)
	user, err := e.Approval.Approve(context.Background(), "admin-1", signup.ID)
	require.NoError(t, err)
	return user
}
