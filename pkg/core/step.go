package core

// Outcome qualifies how a provisioning step ended.
type Outcome string

const (
	// OutcomeDone means the step performed its work
	OutcomeDone Outcome = "done"

	// OutcomeSkipped means the step found its work already satisfied
	OutcomeSkipped Outcome = "already-done"

	// OutcomeFailed means the step failed; the run stops there
	OutcomeFailed Outcome = "failed"
)

// Step names reported by the provisioner.
const (
	StepHeadInstall    = "head install"
	StepHeadIntoLatest = "head install into latest tagged env"
	StepResolveTag     = "resolve latest tag"
	StepCreateEnv      = "create tagged environment"
	StepCompanions     = "install companions"
	StepLinkHooks      = "link activation hooks"
	StepProvisionDirs  = "provision output directories"
)

// StepResult is the explicit outcome of one provisioning step. The shell
// scripts this tool replaces relied on implicit exit-status propagation;
// here every step's fate is recorded and returned to the caller.
type StepResult struct {
	Name    string
	Outcome Outcome
	Detail  string
	Err     error
}

// Report collects the step results of one provisioner invocation, in
// execution order.
type Report []StepResult

// Failed reports whether any step of the run failed.
func (r Report) Failed() bool {
	for _, step := range r {
		if step.Outcome == OutcomeFailed {
			return true
		}
	}
	return false
}

func (r *Report) done(name, detail string) {
	*r = append(*r, StepResult{Name: name, Outcome: OutcomeDone, Detail: detail})
}

func (r *Report) skipped(name, detail string) {
	*r = append(*r, StepResult{Name: name, Outcome: OutcomeSkipped, Detail: detail})
}

func (r *Report) failed(name string, err error) {
	*r = append(*r, StepResult{Name: name, Outcome: OutcomeFailed, Err: err})
}
