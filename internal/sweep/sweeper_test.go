package sweep

import (
	"context"
	"net/netip"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lan-monitor/internal/models"
)

// stubProber answers for a fixed set of addresses
type stubProber struct {
	mu        sync.Mutex
	reachable map[netip.Addr]bool
	delay     time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	calls       atomic.Int32
}

func newStubProber(addrs ...string) *stubProber {
	p := &stubProber{reachable: make(map[netip.Addr]bool)}
	for _, a := range addrs {
		p.reachable[netip.MustParseAddr(a)] = true
	}
	return p
}

func (p *stubProber) Probe(ctx context.Context, addr netip.Addr) models.ProbeResult {
	n := p.inFlight.Add(1)
	defer p.inFlight.Add(-1)
	p.calls.Add(1)
	for {
		cur := p.maxInFlight.Load()
		if n <= cur || p.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	if p.delay > 0 {
		time.Sleep(p.delay)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return models.ProbeResult{Addr: addr, Reachable: p.reachable[addr]}
}

func resultFor(report *models.SweepReport, subnet string) (models.SubnetResult, bool) {
	for _, res := range report.Results {
		if res.Subnet == subnet {
			return res, true
		}
	}
	return models.SubnetResult{}, false
}

func newSweeper(t *testing.T, prober models.Prober, workers int) *Sweeper {
	t.Helper()
	pool := NewWorkerPool(prober, workers)
	t.Cleanup(pool.Stop)
	return New(pool, 4096)
}

func TestSweepSingleSubnet(t *testing.T) {
	prober := newStubProber("10.0.0.1", "10.0.0.2")
	s := newSweeper(t, prober, 100)

	report := s.Sweep(context.Background(), models.SubnetSpec{{Subnet: "10.0.0.*", Department: "eng"}})

	require.Len(t, report.Results, 1)
	assert.Equal(t, models.SubnetResult{Subnet: "10.0.0.*", Department: "eng", ActiveHosts: 2}, report.Results[0])
	assert.Equal(t, 2, report.TotalActive)
	assert.Empty(t, report.Errors)
	assert.NotEmpty(t, report.ID)
	assert.False(t, report.CompletedAt.IsZero())
	assert.EqualValues(t, 254, prober.calls.Load())
}

func TestSweepNothingReachable(t *testing.T) {
	s := newSweeper(t, newStubProber(), 50)

	spec := models.SubnetSpec{
		{Subnet: "10.53.2.*", Department: "tele"},
		{Subnet: "10.53.3.0/28", Department: "stores"},
		{Subnet: "10.53.4.7", Department: "itc"},
	}
	report := s.Sweep(context.Background(), spec)

	require.Len(t, report.Results, 3)
	for _, res := range report.Results {
		assert.Zero(t, res.ActiveHosts, res.Subnet)
	}
	assert.Zero(t, report.TotalActive)
	assert.Empty(t, report.Errors)
}

func TestSweepFailingSubnetIsOmitted(t *testing.T) {
	prober := newStubProber("10.1.0.5", "10.1.0.6", "10.2.0.9")
	s := newSweeper(t, prober, 100)

	spec := models.SubnetSpec{
		{Subnet: "10.1.0.*", Department: "eng"},
		{Subnet: "10.*.0.*", Department: "broken"},
		{Subnet: "10.2.0.*", Department: "ops"},
	}
	report := s.Sweep(context.Background(), spec)

	require.Len(t, report.Results, 2)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "Error scanning 10.*.0.*")

	_, ok := resultFor(report, "10.*.0.*")
	assert.False(t, ok)

	eng, ok := resultFor(report, "10.1.0.*")
	require.True(t, ok)
	assert.Equal(t, 2, eng.ActiveHosts)

	assert.Equal(t, 3, report.TotalActive)
}

func TestSweepTotalMatchesResults(t *testing.T) {
	prober := newStubProber("10.0.1.1", "10.0.2.1", "10.0.2.2", "10.0.3.100")
	s := newSweeper(t, prober, 100)

	report := s.Sweep(context.Background(), models.SubnetSpec{
		{Subnet: "10.0.1.*", Department: "a"},
		{Subnet: "10.0.2.*", Department: "b"},
		{Subnet: "10.0.0.0/8", Department: "too-big"},
		{Subnet: "10.0.3.*", Department: "c"},
	})

	sum := 0
	for _, res := range report.Results {
		sum += res.ActiveHosts
	}
	assert.Equal(t, sum, report.TotalActive)
	assert.Equal(t, 4, report.TotalActive)
	assert.Len(t, report.Errors, 1)
}

func TestSweepIsIdempotent(t *testing.T) {
	prober := newStubProber("192.168.1.10", "192.168.1.20", "192.168.1.30")
	s := newSweeper(t, prober, 100)
	spec := models.SubnetSpec{{Subnet: "192.168.1.*", Department: "lab"}}

	first := s.Sweep(context.Background(), spec)
	second := s.Sweep(context.Background(), spec)

	assert.Equal(t, first.Results, second.Results)
	assert.Equal(t, first.TotalActive, second.TotalActive)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestSweepDuplicateSubnet(t *testing.T) {
	prober := newStubProber("10.0.0.1")
	s := newSweeper(t, prober, 10)

	report := s.Sweep(context.Background(), models.SubnetSpec{
		{Subnet: "10.0.0.*", Department: "eng"},
		{Subnet: "10.0.0.*", Department: "ops"},
	})

	require.Len(t, report.Results, 1)
	assert.Equal(t, "eng", report.Results[0].Department)
	assert.Equal(t, 1, report.TotalActive)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], ErrDuplicateSubnet.Error())
}

func TestSweepEmptySpec(t *testing.T) {
	s := newSweeper(t, newStubProber(), 1)

	report := s.Sweep(context.Background(), nil)

	assert.NotNil(t, report.Results)
	assert.Empty(t, report.Results)
	assert.Zero(t, report.TotalActive)
	assert.Empty(t, report.Errors)
}

func TestSweepBoundsConcurrency(t *testing.T) {
	prober := newStubProber()
	prober.delay = 2 * time.Millisecond
	s := newSweeper(t, prober, 8)

	s.Sweep(context.Background(), models.SubnetSpec{{Subnet: "10.9.9.0/26", Department: "x"}})

	assert.EqualValues(t, 62, prober.calls.Load())
	assert.LessOrEqual(t, prober.maxInFlight.Load(), int32(8))
	assert.Greater(t, prober.maxInFlight.Load(), int32(1))
}

func TestSweepCancelled(t *testing.T) {
	s := newSweeper(t, newStubProber("10.0.0.1"), 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := s.Sweep(ctx, models.SubnetSpec{
		{Subnet: "10.0.0.*", Department: "eng"},
		{Subnet: "10.0.1.*", Department: "ops"},
	})

	assert.Empty(t, report.Results)
	assert.Len(t, report.Errors, 2)
	assert.Zero(t, report.TotalActive)
}

func TestSubmitAfterStop(t *testing.T) {
	pool := NewWorkerPool(newStubProber(), 2)
	pool.Stop()
	pool.Stop()

	results := make(chan models.ProbeResult, 1)
	err := pool.Submit(context.Background(), netip.MustParseAddr("10.0.0.1"), results)
	assert.ErrorIs(t, err, ErrPoolStopped)
	assert.Equal(t, 2, pool.Size())
}

func TestStopReleasesBlockedSubmit(t *testing.T) {
	prober := newStubProber()
	prober.delay = 50 * time.Millisecond
	pool := NewWorkerPool(prober, 1)

	results := make(chan models.ProbeResult, 2)
	require.NoError(t, pool.Submit(context.Background(), netip.MustParseAddr("10.0.0.1"), results))

	blocked := make(chan error, 1)
	go func() {
		blocked <- pool.Submit(context.Background(), netip.MustParseAddr("10.0.0.2"), results)
	}()

	time.Sleep(10 * time.Millisecond)
	pool.Stop()

	select {
	case err := <-blocked:
		assert.ErrorIs(t, err, ErrPoolStopped)
	case <-time.After(2 * time.Second):
		t.Fatal("submit still blocked after stop")
	}

	// Stop waits for the running probe
	require.Len(t, results, 1)
	assert.EqualValues(t, 1, prober.calls.Load())
}

func TestPoolReusedAcrossSweeps(t *testing.T) {
	prober := newStubProber("10.0.0.1")
	prober.delay = time.Millisecond
	s := newSweeper(t, prober, 4)
	spec := models.SubnetSpec{{Subnet: "10.0.0.0/28", Department: "eng"}}

	for i := 0; i < 3; i++ {
		report := s.Sweep(context.Background(), spec)
		assert.Equal(t, 1, report.TotalActive)
	}
	assert.EqualValues(t, 3*14, prober.calls.Load())
	assert.LessOrEqual(t, prober.maxInFlight.Load(), int32(4))
}
