package balance

import (
	"log/slog"
	"sync/atomic"
	"time"

	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

// sweepCountingRepo counts sweep passes without sharing mutable state with
// the scheduler goroutine.
type sweepCountingRepo struct {
	sweeps atomic.Int64
}

func (r *sweepCountingRepo) GetByID(id int64) (*userDatamodel.User, error) {
	return nil, nil
}

func (r *sweepCountingRepo) GetStale(year int) ([]*userDatamodel.User, error) {
	r.sweeps.Add(1)
	return nil, nil
}

func (r *sweepCountingRepo) ApplyYearlyReset(userID int64, year, newBalance, carryOver int) (bool, error) {
	return false, nil
}

func (r *sweepCountingRepo) count() int64 { return r.sweeps.Load() }

var _ = ginkgo.Describe("Scheduler", func() {
	var (
		repo      *sweepCountingRepo
		scheduler *Scheduler
	)

	ginkgo.BeforeEach(func() {
		repo = &sweepCountingRepo{}
		service := NewService(repo, SystemClock(), slog.Default())
		scheduler = NewScheduler(service, slog.Default())
		scheduler.CheckInterval = 5 * time.Millisecond
	})

	ginkgo.It("sweeps on every tick until stopped", func() {
		scheduler.Start()
		gomega.Eventually(repo.count).Should(gomega.BeNumerically(">", 0))
		scheduler.Stop()
	})

	ginkgo.It("can be started again after a stop", func() {
		scheduler.Start()
		gomega.Eventually(repo.count).Should(gomega.BeNumerically(">", 0))
		scheduler.Stop()

		before := repo.count()
		scheduler.Start()
		gomega.Eventually(repo.count).Should(gomega.BeNumerically(">", before))
		scheduler.Stop()
	})

	ginkgo.It("ignores a second start while running", func() {
		scheduler.Start()
		scheduler.Start()
		scheduler.Stop()
	})

	ginkgo.It("ignores a stop when not running", func() {
		scheduler.Stop()
	})
})
