package conductor

import "github.com/rs/zerolog"

// Execution is one run of a definition: a unique id, the shared
// Context, the owned Result, and the Chain the Result is registered in.
// Executions are one-shot; re-executing one is unsupported.
type Execution struct {
	id       string
	def      Definition
	bag      *Context
	result   *Result
	chain    *Chain
	worker   *Worker
	settings Settings
	logger   zerolog.Logger
}

// newExecution registers a fresh execution on the chain. The Result's
// index is assigned here, before the work body runs, so nested ordering
// reflects call order. The effective settings are resolved here too:
// the definition's own values merged over the Worker's defaults.
func newExecution(w *Worker, def Definition, bag *Context, chain *Chain) *Execution {
	e := &Execution{
		id:       newID(),
		def:      def,
		bag:      bag,
		chain:    chain,
		worker:   w,
		settings: def.Settings().withDefaults(w.defaults),
	}
	e.result = newResult(def.Name(), def.kind(), e.id)
	chain.append(e.result)
	e.logger = w.loggerFor(e)
	return e
}

// ID returns the execution's unique identifier.
func (e *Execution) ID() string { return e.id }

// Definition returns the definition being executed.
func (e *Execution) Definition() Definition { return e.def }

// Context returns the shared key/value bag for this run.
func (e *Execution) Context() *Context { return e.bag }

// Result returns the execution's owned Result.
func (e *Execution) Result() *Result { return e.result }

// Chain returns the Result registry for this root-level run.
func (e *Execution) Chain() *Chain { return e.chain }

// Settings returns the effective settings for this execution: the
// definition's own values merged over the Worker's defaults.
func (e *Execution) Settings() *Settings { return &e.settings }

// Logger returns a logger annotated with this execution's identity.
func (e *Execution) Logger() *zerolog.Logger { return &e.logger }

// Skip halts the execution with a skipped outcome. Return the result
// from the work body:
//
//	return e.Skip("nothing to do")
//
// For a non-halting skip use Result().MarkSkipped instead.
func (e *Execution) Skip(reason string) error {
	return newFault(StatusSkipped, reason, e.result)
}

// Fail halts the execution with a failed outcome. Return the result
// from the work body. For a non-halting fail use Result().MarkFailed.
func (e *Execution) Fail(reason string) error {
	return newFault(StatusFailed, reason, e.result)
}

// Throw re-raises another Result's failure as this execution's own: the
// returned Fault makes this Result mirror src's status and metadata,
// with causation links through every nesting level. The Pipeline uses
// it when a child Result matches a group breakpoint; work bodies that
// run sub-executions by hand may use it too.
func (e *Execution) Throw(src *Result) error {
	return newFault(src.Status(), src.Reason(), src)
}
