package coro

import "github.com/rs/zerolog"

// withTask narrows rt's logger with the task's id, matching the contextual
// sub-logger convention (WithComponent/WithTask-style helpers) used by the
// rest of this runtime's ambient logging: callers narrow a base logger with
// fields for the unit of work being reported on, rather than repeating
// Str/Uint64 calls at every log site.
func (rt *Runtime) withTask(t *Task) zerolog.Logger {
	return rt.cfg.Logger.With().Uint64("task_id", t.ID()).Logger()
}

// handlePanic applies rt's Policy to a value that Task.loop recovered from
// a task body panic.
func (rt *Runtime) handlePanic(t *Task, recovered any) {
	pe := &PanicError{TaskID: t.ID(), Recovered: recovered}
	log := rt.withTask(t)
	switch rt.cfg.Panic {
	case PolicySwallow:
		return
	case PolicyAbort:
		log.Error().Err(pe).Msg("task panicked, aborting per panic policy")
		panic(recovered)
	case PolicyLog:
		fallthrough
	default:
		log.Error().Err(pe).Msg("task panicked, recovered")
	}
}
