package bootstrap

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fitclubhq/fitclub-backend/internal/credstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stageRecorder struct {
	mu     sync.Mutex
	stages []string
}

func (r *stageRecorder) record(stage string) {
	r.mu.Lock()
	r.stages = append(r.stages, stage)
	r.mu.Unlock()
}

func (r *stageRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.stages...)
}

type recordingProvider struct {
	*fakeProvider
	rec *stageRecorder
}

func (p recordingProvider) CreateAccount(ctx context.Context, email, password, name string) (Identity, Tokens, error) {
	p.rec.record("identity")
	return p.fakeProvider.CreateAccount(ctx, email, password, name)
}

func (p recordingProvider) CreateSession(ctx context.Context, email, password string) (Identity, Tokens, error) {
	p.rec.record("identity")
	return p.fakeProvider.CreateSession(ctx, email, password)
}

type fakeResolver struct {
	tenantID string
	err      error
	rec      *stageRecorder
}

func (r *fakeResolver) Resolve(ctx context.Context, store credstore.Store) (string, error) {
	if r.rec != nil {
		r.rec.record("tenant")
	}
	if r.err != nil {
		return "", r.err
	}
	if err := store.Put(ctx, credstore.KeyActiveTenant, r.tenantID); err != nil {
		return "", err
	}
	return r.tenantID, nil
}

type fakeProvisioner struct {
	outcome ProvisionOutcome
	err     error
	rec     *stageRecorder
	calls   int32

	mu      sync.Mutex
	lastReq ProvisionRequest
}

func (p *fakeProvisioner) EnsureProfile(_ context.Context, req ProvisionRequest) (ProvisionOutcome, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.rec != nil {
		p.rec.record("profile")
	}
	p.mu.Lock()
	p.lastReq = req
	p.mu.Unlock()
	return p.outcome, p.err
}

type fakeSubs struct {
	id    uuid.UUID
	err   error
	rec   *stageRecorder
	calls int32
}

func (s *fakeSubs) AttachDefault(context.Context, string, uuid.UUID) (uuid.UUID, bool, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.rec != nil {
		s.rec.record("subscription")
	}
	if s.err != nil {
		return uuid.Nil, false, s.err
	}
	return s.id, true, nil
}

type coordinatorFixture struct {
	provider    *fakeProvider
	resolver    *fakeResolver
	provisioner *fakeProvisioner
	subs        *fakeSubs
	store       *credstore.Memory
	rec         *stageRecorder
	coordinator *Coordinator
}

func newCoordinatorFixture() *coordinatorFixture {
	rec := &stageRecorder{}
	provider := newFakeProvider()
	resolver := &fakeResolver{tenantID: "gym-berlin", rec: rec}
	provisioner := &fakeProvisioner{
		outcome: ProvisionOutcome{ProfileID: uuid.New(), Created: true},
		rec:     rec,
	}
	subs := &fakeSubs{id: uuid.New(), rec: rec}
	store := credstore.NewMemory()

	coordinator := NewCoordinator(
		recordingProvider{provider, rec},
		resolver,
		provisioner,
		subs,
		credstore.Single{S: store},
		5*time.Second,
	)
	return &coordinatorFixture{
		provider:    provider,
		resolver:    resolver,
		provisioner: provisioner,
		subs:        subs,
		store:       store,
		rec:         rec,
		coordinator: coordinator,
	}
}

func TestRegisterRunsStagesInOrder(t *testing.T) {
	f := newCoordinatorFixture()
	ctx := context.Background()

	res, err := f.coordinator.Register(ctx, "device-1", "jamie@example.com", "secret-pass", "Jamie Doe")
	require.NoError(t, err)

	assert.Equal(t, []string{"identity", "tenant", "profile", "subscription"}, f.rec.all())
	assert.Equal(t, "gym-berlin", res.TenantID)
	assert.Equal(t, f.provisioner.outcome.ProfileID, res.ProfileID)
	assert.True(t, res.ProfileCreated)
	assert.Equal(t, f.subs.id, res.SubscriptionID)
	assert.False(t, res.PendingRepair)

	tenantID, err := f.store.Get(ctx, credstore.KeyActiveTenant)
	require.NoError(t, err)
	assert.Equal(t, "gym-berlin", tenantID)
}

func TestRegisterFillsProvisioningDefaults(t *testing.T) {
	f := newCoordinatorFixture()
	f.provider.identity.DisplayName = ""
	f.provider.identity.Role = ""

	_, err := f.coordinator.Register(context.Background(), "device-1", "jamie@example.com", "secret-pass", "")
	require.NoError(t, err)

	req := f.provisioner.lastReq
	assert.Equal(t, f.provider.identity.Email, req.Name)
	assert.Equal(t, "MEMBER", req.Role)
	assert.Equal(t, "gym-berlin", req.TenantID)
}

func TestLoginSkipsSubscriptionWhenNothingProvisioned(t *testing.T) {
	f := newCoordinatorFixture()
	f.provisioner.outcome = ProvisionOutcome{ProfileID: uuid.New(), Created: false, Repaired: false}

	res, err := f.coordinator.Login(context.Background(), "device-1", "jamie@example.com", "secret-pass")
	require.NoError(t, err)

	assert.EqualValues(t, 0, f.subs.calls)
	assert.Equal(t, uuid.Nil, res.SubscriptionID)
	assert.False(t, res.ProfileCreated)
	assert.False(t, res.PendingRepair)
}

func TestLoginAttachesSubscriptionAfterRepair(t *testing.T) {
	f := newCoordinatorFixture()
	f.provisioner.outcome = ProvisionOutcome{ProfileID: uuid.New(), Created: false, Repaired: true}

	res, err := f.coordinator.Login(context.Background(), "device-1", "jamie@example.com", "secret-pass")
	require.NoError(t, err)

	assert.EqualValues(t, 1, f.subs.calls)
	assert.Equal(t, f.subs.id, res.SubscriptionID)
}

func TestProvisioningFailureFlagsRepairInsteadOfError(t *testing.T) {
	f := newCoordinatorFixture()
	f.provisioner.outcome = ProvisionOutcome{ProfileID: uuid.New(), Created: true}
	f.provisioner.err = errors.New("membership grant failed")

	res, err := f.coordinator.Register(context.Background(), "device-1", "jamie@example.com", "secret-pass", "Jamie Doe")
	require.NoError(t, err)

	// The user ends up signed in; the incomplete provisioning is flagged.
	assert.True(t, res.PendingRepair)
	assert.Contains(t, res.RepairReason, "membership grant failed")
	assert.NotEmpty(t, res.Tokens.AuthToken)
	assert.EqualValues(t, 0, f.subs.calls)
}

func TestSubscriptionFailureFlagsRepairInsteadOfError(t *testing.T) {
	f := newCoordinatorFixture()
	f.subs.err = errors.New("plan not found")

	res, err := f.coordinator.Register(context.Background(), "device-1", "jamie@example.com", "secret-pass", "Jamie Doe")
	require.NoError(t, err)

	assert.True(t, res.PendingRepair)
	assert.Equal(t, uuid.Nil, res.SubscriptionID)
	assert.True(t, res.ProfileCreated)
}

func TestIdentityRejectionAbortsPipeline(t *testing.T) {
	f := newCoordinatorFixture()
	rejection := errors.New("invalid credentials")
	f.provider.sessionErr = rejection

	_, err := f.coordinator.Login(context.Background(), "device-1", "jamie@example.com", "wrong")
	require.ErrorIs(t, err, rejection)

	assert.EqualValues(t, 0, f.provisioner.calls)
	assert.Equal(t, 0, f.store.Len())
}

func TestTenantFailureAbortsBeforeProvisioning(t *testing.T) {
	f := newCoordinatorFixture()
	f.resolver.err = errors.New("tenant unavailable")

	_, err := f.coordinator.Login(context.Background(), "device-1", "jamie@example.com", "secret-pass")
	require.Error(t, err)
	assert.EqualValues(t, 0, f.provisioner.calls)
}

func TestConcurrentBootstrapForSameUserRunsOnce(t *testing.T) {
	f := newCoordinatorFixture()
	f.provider.delay = 50 * time.Millisecond

	const workers = 4
	var wg sync.WaitGroup
	start := make(chan struct{})
	results := make([]*Result, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], errs[i] = f.coordinator.Login(context.Background(), "device-1", "Jamie@Example.com", "secret-pass")
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
	}

	// Concurrent attempts for the same user collapse into a single pipeline
	// run, so the profile is provisioned exactly once.
	assert.EqualValues(t, 1, f.provider.sessionCalls)
	assert.EqualValues(t, 1, f.provisioner.calls)
}

func TestTimeoutIsClassified(t *testing.T) {
	f := newCoordinatorFixture()
	f.provider.delay = time.Second

	coordinator := NewCoordinator(
		recordingProvider{f.provider, f.rec},
		f.resolver,
		f.provisioner,
		f.subs,
		credstore.Single{S: f.store},
		10*time.Millisecond,
	)

	_, err := coordinator.Login(context.Background(), "device-1", "jamie@example.com", "secret-pass")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestSessionForReusesManagerPerDevice(t *testing.T) {
	f := newCoordinatorFixture()
	a := f.coordinator.SessionFor("device-1")
	b := f.coordinator.SessionFor("device-1")
	c := f.coordinator.SessionFor("device-2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestClassify(t *testing.T) {
	assert.NoError(t, Classify(nil))

	wrapped := Classify(context.DeadlineExceeded)
	assert.ErrorIs(t, wrapped, ErrTimeout)

	other := errors.New("boom")
	assert.Equal(t, other, Classify(other))
}
