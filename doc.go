// Package conductor is a command/task-orchestration library.
//
// Discrete units of work (tasks) are composed into ordered pipelines
// (workflows), executed with structured lifecycle hooks, middleware
// wrapping, parameter validation and coercion, and a well-defined
// halting protocol for partial failure.
//
// A Task wraps a single work function. A Workflow declares ordered
// groups of definitions via Process. The Worker drives one execution:
// validation, hooks, middleware, the work body, retry, and
// finalization. Every execution produces a Result appended to a Chain
// that spans one root-level run.
//
// Execution is single-threaded and synchronous. "Nesting" means a
// workflow group may contain another workflow, which recursively drives
// its own pipeline against the same Chain and Context.
//
// The config package stays out of the core's execution path on purpose:
// it loads files and environment variables and hands back a
// zerolog.Logger (config.NewLogger) and default Settings
// (config.Config.Settings) that callers wire into NewWorker themselves.
package conductor
