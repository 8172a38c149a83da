package workcopy_test

import (
	"testing"
	"testing/synctest"
	"time"

	"go.trai.ch/hgresolve/internal/core/ports/mocks"
	"go.trai.ch/hgresolve/internal/engine/workcopy"
	"go.uber.org/mock/gomock"
)

func TestProgressReporter_DelayAndThrottle(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		log := mocks.NewMockLogger(ctrl)

		r := workcopy.NewProgressReporter(log, 8*time.Second, time.Second)
		defer r.Stop()

		// Before the delay nothing is reported.
		_, _ = r.Write([]byte("adding changesets 10%\n"))

		time.Sleep(8*time.Second + time.Millisecond)
		synctest.Wait()

		log.EXPECT().Event("progress", "adding file changes 45%").Times(1)
		_, _ = r.Write([]byte("requesting all changes\r\x1b[Kadding file changes 45%\r\n"))

		// Within the interval writes are dropped.
		_, _ = r.Write([]byte("adding file changes 46%\n"))

		time.Sleep(time.Second)

		log.EXPECT().Event("progress", "adding file changes 90%").Times(1)
		_, _ = r.Write([]byte("adding file changes 90%\n"))
	})
}

func TestProgressReporter_Stop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		log := mocks.NewMockLogger(ctrl)

		r := workcopy.NewProgressReporter(log, 8*time.Second, time.Second)
		r.Stop()

		time.Sleep(10 * time.Second)
		synctest.Wait()

		n, err := r.Write([]byte("adding file changes 45%\n"))
		if err != nil || n != 24 {
			t.Fatalf("Write() = %d, %v", n, err)
		}
	})
}
