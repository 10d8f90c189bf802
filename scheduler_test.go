package routines_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xurtis/routines"
)

func TestSpawnRunsImmediately(t *testing.T) {
	rt := routines.New()
	defer rt.Close()

	ran := false
	co := rt.Spawn(func(arg any) {
		ran = true
		assert.Equal(t, "payload", arg)
		assert.Equal(t, routines.StateRunning, rt.Self().State())
	}, "payload")

	assert.True(t, ran)
	assert.Equal(t, routines.StateCompleted, co.State())
	assert.Nil(t, rt.Self())
}

func TestSelfOutsideCoroutineIsNil(t *testing.T) {
	rt := routines.New()
	defer rt.Close()
	assert.Nil(t, rt.Self())
}

// TestYieldFairness is scenario 1: three coroutines each log their id,
// then yield three times, logging again after each yield. Round-robin
// FIFO scheduling means the log interleaves in lockstep.
func TestYieldFairness(t *testing.T) {
	rt := routines.New()
	defer rt.Close()

	var log []string
	task := func(id string) func(any) {
		return func(any) {
			log = append(log, id)
			// Park immediately so the host can line all three up in the
			// ready queue before any of them starts yielding; otherwise
			// a lone coroutine's first yield has nobody to round-robin
			// with yet.
			rt.Suspend(rt.Self())
			for i := 0; i < 3; i++ {
				rt.Yield()
				log = append(log, id)
			}
		}
	}

	a := rt.Spawn(task("A"), nil)
	b := rt.Spawn(task("B"), nil)
	c := rt.Spawn(task("C"), nil)

	require.Equal(t, routines.StateSuspended, a.State())
	require.Equal(t, routines.StateSuspended, b.State())
	require.Equal(t, routines.StateSuspended, c.State())

	rt.Resume(a)
	rt.Resume(b)
	rt.Resume(c)
	rt.Yield() // drains the ready queue until all three complete

	want := []string{
		"A", "B", "C",
		"A", "B", "C",
		"A", "B", "C",
		"A", "B", "C",
	}
	assert.Equal(t, want, log)
	assert.Equal(t, routines.StateCompleted, a.State())
	assert.Equal(t, routines.StateCompleted, b.State())
	assert.Equal(t, routines.StateCompleted, c.State())
}

func TestYieldAloneIsNoop(t *testing.T) {
	rt := routines.New()
	defer rt.Close()

	var order []int
	rt.Spawn(func(any) {
		order = append(order, 1)
		rt.Yield()
		order = append(order, 2)
		rt.Yield()
		order = append(order, 3)
	}, nil)

	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestJoinWaitsForCompletion(t *testing.T) {
	rt := routines.New()
	defer rt.Close()

	var order []string
	worker := rt.Spawn(func(any) {
		order = append(order, "worker")
		rt.Suspend(rt.Self())
	}, nil)
	require.Equal(t, routines.StateSuspended, worker.State())

	rt.Spawn(func(any) {
		rt.Join(worker)
		order = append(order, "joiner")
	}, nil)

	rt.Resume(worker)
	rt.Yield()

	assert.Equal(t, []string{"worker", "joiner"}, order)
	assert.Equal(t, routines.StateCompleted, worker.State())
}

func TestJoinSelfViolatesContract(t *testing.T) {
	rt := routines.New()
	defer rt.Close()

	var cv *routines.ContractViolation
	rt.Spawn(func(any) {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			require.ErrorAs(t, r.(error), &cv)
			assert.Equal(t, routines.ReasonJoinSelf, cv.Reason)
		}()
		rt.Join(rt.Self())
	}, nil)
}

func TestJoinCompletedViolatesContract(t *testing.T) {
	rt := routines.New()
	defer rt.Close()

	done := rt.Spawn(func(any) {}, nil)
	require.Equal(t, routines.StateCompleted, done.State())

	var cv *routines.ContractViolation
	rt.Spawn(func(any) {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			require.ErrorAs(t, r.(error), &cv)
			assert.Equal(t, routines.ReasonJoinCompleted, cv.Reason)
		}()
		rt.Join(done)
	}, nil)
}

func TestSuspendAndResume(t *testing.T) {
	rt := routines.New()
	defer rt.Close()

	var order []int
	co := rt.Spawn(func(any) {
		order = append(order, 1)
		rt.Suspend(rt.Self())
		order = append(order, 2)
	}, nil)

	assert.Equal(t, routines.StateSuspended, co.State())
	assert.Equal(t, []int{1}, order)

	rt.Resume(co)
	rt.Yield()

	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, routines.StateCompleted, co.State())
}

func TestResumeSelfViolatesContract(t *testing.T) {
	rt := routines.New()
	defer rt.Close()

	var cv *routines.ContractViolation
	rt.Spawn(func(any) {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			require.ErrorAs(t, r.(error), &cv)
			assert.Equal(t, routines.ReasonResumeSelf, cv.Reason)
		}()
		rt.Resume(rt.Self())
	}, nil)
}

func TestDestroyResumesJoiners(t *testing.T) {
	rt := routines.New()
	defer rt.Close()

	var order []string
	target := rt.Spawn(func(any) {
		rt.Suspend(rt.Self()) // never resumed again; will be destroyed while parked
	}, nil)
	require.Equal(t, routines.StateSuspended, target.State())

	rt.Spawn(func(any) {
		rt.Join(target)
		order = append(order, "joiner1")
	}, nil)
	rt.Spawn(func(any) {
		rt.Join(target)
		order = append(order, "joiner2")
	}, nil)

	rt.Destroy(target)
	rt.Yield()

	assert.ElementsMatch(t, []string{"joiner1", "joiner2"}, order)
}

func TestSpawnNilTaskViolatesContract(t *testing.T) {
	rt := routines.New()
	defer rt.Close()

	var cv *routines.ContractViolation
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			require.ErrorAs(t, r.(error), &cv)
			assert.Equal(t, routines.ReasonNilTask, cv.Reason)
		}()
		rt.Spawn(nil, nil)
	}()
}

func TestNestedSpawnCanBeDisabled(t *testing.T) {
	rt := routines.New(routines.WithAllowNestedSpawn(false))
	defer rt.Close()

	var cv *routines.ContractViolation
	rt.Spawn(func(any) {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			require.ErrorAs(t, r.(error), &cv)
			assert.Equal(t, routines.ReasonNestedSpawnDisabled, cv.Reason)
		}()
		rt.Spawn(func(any) {}, nil)
	}, nil)
}

func TestMetricsTrackSpawnsAndCompletions(t *testing.T) {
	rt := routines.New(routines.WithMetrics(true))
	defer rt.Close()

	rt.Spawn(func(any) {}, nil)
	rt.Spawn(func(any) {}, nil)

	snap, ok := rt.Metrics()
	require.True(t, ok)
	assert.Equal(t, uint64(2), snap.Spawned)
	assert.Equal(t, uint64(2), snap.Completed)
}

func TestMetricsDisabledByDefault(t *testing.T) {
	rt := routines.New()
	defer rt.Close()

	_, ok := rt.Metrics()
	assert.False(t, ok)
}

func TestForeignCoroutineViolatesContract(t *testing.T) {
	rtA := routines.New()
	defer rtA.Close()
	rtB := routines.New()
	defer rtB.Close()

	foreign := rtB.Spawn(func(any) {
		rtB.Suspend(rtB.Self())
	}, nil)
	require.Equal(t, routines.StateSuspended, foreign.State())

	var cv *routines.ContractViolation
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			require.ErrorAs(t, r.(error), &cv)
			assert.Equal(t, routines.ReasonForeignRuntime, cv.Reason)
		}()
		rtA.Resume(foreign)
	}()
}
