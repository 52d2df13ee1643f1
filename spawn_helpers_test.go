package coro

import (
	"sort"
	"testing"
)

func TestGoAll_WaitsForAllChildren(t *testing.T) {
	rt := mustRuntime(t)
	mu := NewMutex()
	var ran []int

	main := rt.NewTask(func(ct *Task) {
		GoAll(rt, ct, []func(*Task){
			func(childTask *Task) { mu.Lock(childTask); ran = append(ran, 1); mu.Unlock() },
			func(childTask *Task) { mu.Lock(childTask); ran = append(ran, 2); mu.Unlock() },
			func(childTask *Task) { mu.Lock(childTask); ran = append(ran, 3); mu.Unlock() },
		})
	})
	if err := rt.StartMain(main); err != nil {
		t.Fatalf("StartMain: %v", err)
	}
	sort.Ints(ran)
	if len(ran) != 3 || ran[0] != 1 || ran[1] != 2 || ran[2] != 3 {
		t.Fatalf("ran = %v, want [1 2 3] in some order", ran)
	}
}

func TestGoAll_EmptyIsNoop(t *testing.T) {
	rt := mustRuntime(t)
	reached := false
	main := rt.NewTask(func(ct *Task) {
		GoAll(rt, ct, nil)
		reached = true
	})
	if err := rt.StartMain(main); err != nil {
		t.Fatalf("StartMain: %v", err)
	}
	if !reached {
		t.Fatalf("GoAll with no functions blocked")
	}
}

func TestForEach_RunsOncePerItem(t *testing.T) {
	rt := mustRuntime(t)
	mu := NewMutex()
	items := []string{"a", "b", "c"}
	var seen []string

	main := rt.NewTask(func(ct *Task) {
		ForEach(rt, ct, items, func(childTask *Task, item string) {
			mu.Lock(childTask)
			seen = append(seen, item)
			mu.Unlock()
		})
	})
	if err := rt.StartMain(main); err != nil {
		t.Fatalf("StartMain: %v", err)
	}
	sort.Strings(seen)
	if len(seen) != 3 || seen[0] != "a" || seen[1] != "b" || seen[2] != "c" {
		t.Fatalf("seen = %v, want [a b c] in some order", seen)
	}
}
