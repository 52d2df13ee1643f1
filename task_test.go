package coro

import (
	"testing"
	"time"
)

func mustRuntime(t *testing.T, opts ...Option) *Runtime {
	t.Helper()
	rt, err := NewRuntime(opts...)
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	return rt
}

func TestTask_RunsToCompletion(t *testing.T) {
	rt := mustRuntime(t)
	ran := false
	main := rt.NewTask(func(ct *Task) {
		ran = true
		if ct.Status() != Running {
			t.Errorf("Status() inside body = %v, want Running", ct.Status())
		}
	})
	if err := rt.StartMain(main); err != nil {
		t.Fatalf("StartMain: %v", err)
	}
	if !ran {
		t.Fatalf("task body never ran")
	}
	if !main.IsDone() {
		t.Fatalf("main.IsDone() = false after StartMain returned")
	}
}

func TestTask_ChildTaskJoinedViaWaitGroup(t *testing.T) {
	rt := mustRuntime(t)
	wg := NewWaitGroup()
	wg.Add(1)

	var childRan bool
	main := rt.NewTask(func(ct *Task) {
		child := rt.NewTask(func(childTask *Task) {
			childRan = true
			wg.Done()
		})
		Go(child)
		wg.Wait(ct)
	})
	if err := rt.StartMain(main); err != nil {
		t.Fatalf("StartMain: %v", err)
	}
	if !childRan {
		t.Fatalf("child task never ran")
	}
}

func TestTask_PanicIsRecoveredUnderPolicyLog(t *testing.T) {
	rt := mustRuntime(t, WithPanicPolicy(PolicyLog))
	main := rt.NewTask(func(ct *Task) {
		panic("boom")
	})
	done := make(chan error, 1)
	go func() { done <- rt.StartMain(main) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("StartMain returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("StartMain did not return after a panicking main task")
	}
	if !main.IsDone() {
		t.Fatalf("panicking task did not transition to Done")
	}
}

func TestTask_PanicIsRecoveredUnderPolicySwallow(t *testing.T) {
	rt := mustRuntime(t, WithPanicPolicy(PolicySwallow))
	main := rt.NewTask(func(ct *Task) {
		panic("boom-swallow")
	})
	if err := rt.StartMain(main); err != nil {
		t.Fatalf("StartMain: %v", err)
	}
	if !main.IsDone() {
		t.Fatalf("panicking task did not transition to Done")
	}
}

func TestTask_DestroyRejectsNeverResumedTask(t *testing.T) {
	rt := mustRuntime(t)
	task := rt.NewTask(func(ct *Task) {})
	if task.Status() != Created {
		t.Fatalf("freshly constructed task status = %v, want Created", task.Status())
	}
	if err := task.destroy(); err != ErrTaskNotDone {
		t.Fatalf("destroy on a never-resumed task = %v, want ErrTaskNotDone", err)
	}
}

func TestYield_ReenqueuesWithoutDoubleScheduling(t *testing.T) {
	rt := mustRuntime(t, WithMaxWorkers(1))
	var order []int

	main := rt.NewTask(func(ct *Task) {
		for i := 0; i < 3; i++ {
			order = append(order, i)
			Yield(ct)
		}
	})
	if err := rt.StartMain(main); err != nil {
		t.Fatalf("StartMain: %v", err)
	}
	if len(order) != 3 {
		t.Fatalf("task ran %d times through yields, want 3", len(order))
	}
}
