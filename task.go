package conductor

import (
	"context"

	"github.com/mrz1836/conductor/param"
)

// WorkFunc is the body of a Task: one unit of work run against the
// shared execution state. Returning nil completes the task; returning a
// Fault (via Execution.Skip or Execution.Fail) halts it intentionally;
// any other error is a failure candidate for retry and wrapping.
type WorkFunc func(ctx context.Context, e *Execution) error

// Definition is anything the Worker can execute: a Task or a Workflow.
// Concrete types live in this package; external code composes them
// rather than implementing the interface.
type Definition interface {
	// Name identifies the definition in logs and results.
	Name() string

	// Settings returns the definition's configuration surface.
	Settings() *Settings

	// Hooks returns the lifecycle hook registry.
	Hooks() *HookRegistry

	// Middleware returns the chain wrapping the work body.
	Middleware() *MiddlewareChain

	// Params returns the declared input attributes.
	Params() []param.Attribute

	kind() string
	perform(ctx context.Context, e *Execution) error
}

// definitionBase carries the pieces shared by Task and Workflow.
type definitionBase struct {
	name       string
	settings   Settings
	hooks      *HookRegistry
	middleware *MiddlewareChain
	params     []param.Attribute
}

func newDefinitionBase(name string) definitionBase {
	return definitionBase{
		name:       name,
		hooks:      NewHookRegistry(),
		middleware: NewMiddlewareChain(),
	}
}

// Name identifies the definition in logs and results.
func (d *definitionBase) Name() string { return d.name }

// Settings returns the definition's configuration surface for reading
// and in-place adjustment before execution.
func (d *definitionBase) Settings() *Settings { return &d.settings }

// Hooks returns the lifecycle hook registry.
func (d *definitionBase) Hooks() *HookRegistry { return d.hooks }

// Middleware returns the chain wrapping the work body.
func (d *definitionBase) Middleware() *MiddlewareChain { return d.middleware }

// Params returns the declared input attributes.
func (d *definitionBase) Params() []param.Attribute { return d.params }

// Task is a single unit of work.
type Task struct {
	definitionBase
	work WorkFunc
}

// TaskOption configures a Task at construction.
type TaskOption func(*Task)

// WithSettings replaces the task's settings.
func WithSettings(s Settings) TaskOption {
	return func(t *Task) { t.settings = s }
}

// WithParams declares the task's input attributes.
func WithParams(attrs ...param.Attribute) TaskOption {
	return func(t *Task) { t.params = append(t.params, attrs...) }
}

// WithHook registers an unconditional lifecycle hook.
func WithHook(hookType HookType, fns ...Hook) TaskOption {
	return func(t *Task) {
		// Registration errors surface on first invoke; an unknown type
		// here is a programmer error.
		if err := t.hooks.Register(hookType, Conditions{}, fns...); err != nil {
			panic(err)
		}
	}
}

// WithMiddleware appends middleware to the task's chain.
func WithMiddleware(mw ...Middleware) TaskOption {
	return func(t *Task) { t.middleware.Use(mw...) }
}

// NewTask builds a task definition around a work function. A nil work
// function is permitted at construction but executing it panics with
// ErrUndefinedWork: that is a programmer error, never a Result status.
func NewTask(name string, work WorkFunc, opts ...TaskOption) *Task {
	t := &Task{definitionBase: newDefinitionBase(name), work: work}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Task) kind() string { return "task" }

func (t *Task) perform(ctx context.Context, e *Execution) error {
	if t.work == nil {
		panic(ErrUndefinedWork)
	}
	return t.work(ctx, e)
}

// Condition gates a hook entry or a workflow group against the current
// execution.
type Condition func(e *Execution) bool

// GroupOptions configures one Process declaration.
type GroupOptions struct {
	// If must return true (when set) for the group to execute.
	If Condition

	// Unless must return false (when set) for the group to execute.
	Unless Condition

	// Breakpoints overrides the workflow's breakpoint settings for this
	// group only.
	Breakpoints []string
}

// enabled evaluates the group's conditions against the composite's
// execution. Empty conditions default to true.
func (o GroupOptions) enabled(e *Execution) bool {
	if o.If != nil && !o.If(e) {
		return false
	}
	if o.Unless != nil && o.Unless(e) {
		return false
	}
	return true
}

// Group is one Process declaration: an ordered list of definitions plus
// options. Groups execute in declaration order; definitions within a
// group execute in declaration order.
type Group struct {
	Defs    []Definition
	Options GroupOptions
}

// Workflow is a composite definition: an ordered sequence of groups
// driven by a pipeline.
type Workflow struct {
	definitionBase
	groups []Group
}

// WorkflowOption configures a Workflow at construction.
type WorkflowOption func(*Workflow)

// WithWorkflowSettings replaces the workflow's settings.
func WithWorkflowSettings(s Settings) WorkflowOption {
	return func(w *Workflow) { w.settings = s }
}

// WithWorkflowHook registers an unconditional lifecycle hook.
func WithWorkflowHook(hookType HookType, fns ...Hook) WorkflowOption {
	return func(w *Workflow) {
		if err := w.hooks.Register(hookType, Conditions{}, fns...); err != nil {
			panic(err)
		}
	}
}

// NewWorkflow builds an empty workflow definition. Declare groups with
// Process.
func NewWorkflow(name string, opts ...WorkflowOption) *Workflow {
	w := &Workflow{definitionBase: newDefinitionBase(name)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Process appends one group of definitions with options. Returns the
// workflow for chaining.
func (w *Workflow) Process(opts GroupOptions, defs ...Definition) *Workflow {
	w.groups = append(w.groups, Group{Defs: defs, Options: opts})
	return w
}

// Groups returns the declared groups in order.
func (w *Workflow) Groups() []Group { return w.groups }

func (w *Workflow) kind() string { return "workflow" }

func (w *Workflow) perform(ctx context.Context, e *Execution) error {
	return newPipeline(w, e).run(ctx)
}
