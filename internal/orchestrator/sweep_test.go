package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openscrapers/docketproc/internal/jurisdiction"
)

func TestSweepScheduler_AddSweep_ValidCronExpr(t *testing.T) {
	sched, err := NewSweepScheduler(newTestOrchestrator(1), zap.NewNop())
	require.NoError(t, err)

	err = sched.AddSweep("0 * * * *", jurisdiction.FixedJurisdiction{Country: "us", State: "ny", Jurisdiction: "psc"})
	require.NoError(t, err)

	require.NoError(t, sched.Shutdown())
}

func TestSweepScheduler_AddSweep_RejectsInvalidCronExpr(t *testing.T) {
	sched, err := NewSweepScheduler(newTestOrchestrator(1), zap.NewNop())
	require.NoError(t, err)
	defer sched.Shutdown()

	err = sched.AddSweep("not a cron expr", jurisdiction.FixedJurisdiction{Country: "us", Jurisdiction: "fcc"})
	require.Error(t, err)
}
