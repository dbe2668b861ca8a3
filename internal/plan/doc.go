// Package plan loads probe plans from YAML and runs them on a probe engine.
//
// A plan is a tree of sections. Each probe names a check type and its
// settings; sections become engine sections, so a probe "api" inside the
// section "network" is reported as "network :: api". Levels marked parallel
// run their probes and subsections as one parallel group.
//
//	p, err := plan.Load("deploy.yaml")
//	if err != nil {
//	    return err
//	}
//	runner := plan.NewRunner(engine, builder.Build)
//	err = runner.Run(ctx, p)
package plan
