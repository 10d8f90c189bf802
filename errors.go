package routines

import "fmt"

// Reason identifies the specific contract a [ContractViolation] reports: a
// nil queue, a nil coroutine, a blocking call from outside a coroutine, a
// resume of a completed coroutine, and so on.
type Reason string

// Known contract-violation reasons. A caller matches on them by extracting
// the [ContractViolation] with errors.As and comparing its Reason field.
const (
	ReasonNilQueue            Reason = "nil queue"
	ReasonNilCoroutine        Reason = "nil coroutine"
	ReasonNilTask             Reason = "nil task"
	ReasonNoCurrentCoroutine  Reason = "blocking call outside a coroutine"
	ReasonDoubleQueueMember   Reason = "coroutine already a member of a queue"
	ReasonResumeCompleted     Reason = "resume of a completed coroutine"
	ReasonResumeSelf          Reason = "resume of the calling coroutine"
	ReasonJoinSelf            Reason = "join of the calling coroutine"
	ReasonJoinCompleted       Reason = "join of an already completed coroutine"
	ReasonForeignRuntime      Reason = "coroutine or queue belongs to a different runtime"
	ReasonNestedSpawnDisabled Reason = "spawn from within a coroutine is disabled"
)

// ContractViolation is the single panic type the runtime raises for
// programming errors. It is never returned as an error value: graceful
// unparks (a destroyed queue, a force-suspended receiver) return a nil
// payload instead. Recovering a ContractViolation is supported for tests
// and defensive host code, via errors.As.
type ContractViolation struct {
	Reason Reason
	Detail string
}

// Error implements the error interface.
func (c *ContractViolation) Error() string {
	if c.Detail == "" {
		return fmt.Sprintf("routines: contract violation: %s", c.Reason)
	}
	return fmt.Sprintf("routines: contract violation: %s: %s", c.Reason, c.Detail)
}

// violate panics with a ContractViolation for the given reason. Detail is
// formatted lazily so the common, non-violating path pays nothing.
func violate(reason Reason, format string, args ...any) {
	panic(&ContractViolation{Reason: reason, Detail: fmt.Sprintf(format, args...)})
}

// violate is the Runtime-aware counterpart: it logs the violation at Error
// level, through whatever logger the Runtime was configured with, before
// panicking. Used at every call site that already has a *Runtime in scope;
// the package-level violate above remains for the handful of sites (a nil
// *Coroutine's own methods, the intrusive queue's double-member check) that
// have no Runtime to log through.
func (rt *Runtime) violate(reason Reason, format string, args ...any) {
	detail := fmt.Sprintf(format, args...)
	rt.logger.Event(LevelError, "contract violation", "reason", string(reason), "detail", detail)
	panic(&ContractViolation{Reason: reason, Detail: detail})
}
