package conductor

import "context"

// defaultWorkflowBreakpoints applies when neither a group nor the
// workflow settings name any: a failed child marks the composite.
//
//nolint:gochecknoglobals // Read-only fallback
var defaultWorkflowBreakpoints = []string{string(StatusFailed)}

// pipeline drives one workflow execution: it walks the declared groups
// in order, evaluates each group's conditions, executes every
// definition in the group through the Worker, and applies breakpoint
// halting.
//
// "Halting" here never stops iteration. A child Result whose status
// matches the effective breakpoint set is thrown into the composite's
// Result — the composite mirrors the child's status and metadata, with
// causation links — but the remaining definitions in the group and all
// subsequent groups still execute. The composite's final status is
// whichever throw happened last; if no breakpoint ever matched, the
// composite succeeds.
type pipeline struct {
	wf   *Workflow
	exec *Execution
}

func newPipeline(wf *Workflow, e *Execution) *pipeline {
	return &pipeline{wf: wf, exec: e}
}

// run executes the groups. The returned error is the last thrown Fault,
// or nil when no breakpoint matched.
func (p *pipeline) run(ctx context.Context) error {
	var thrown error
	settings := p.exec.Settings()
	log := p.exec.Logger()

	for gi, group := range p.wf.groups {
		if !group.Options.enabled(p.exec) {
			log.Debug().
				Int("group", gi).
				Msg("group condition not met, skipping group")
			continue
		}

		breakpoints := normalizeBreakpoints(
			group.Options.Breakpoints,
			settings.WorkflowBreakpoints,
			settings.Breakpoints,
			defaultWorkflowBreakpoints,
		)

		for _, def := range group.Defs {
			child := p.exec.worker.executeChild(ctx, def, p.exec)

			if breakpoints.matches(child.Status()) {
				// Mirror the child into the composite now so later
				// conditions see it, and remember the fault for the
				// Worker. Iteration continues: a breakpoint marks the
				// composite, it does not stop sibling execution.
				p.exec.result.throwFrom(child)
				thrown = p.exec.Throw(child)

				log.Debug().
					Int("group", gi).
					Str("child_class", child.Name()).
					Str("child_status", child.Status().String()).
					Msg("breakpoint matched, composite mirrors child")
			}
		}
	}

	return thrown
}
