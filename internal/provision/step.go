package provision

// Step names one stage of the provisioning workflow.
type Step string

// Workflow steps in execution order.
const (
	StepScaffold     Step = Step("scaffold")
	StepHostedCreate Step = Step("hosted-create")
	StepGitignore    Step = Step("gitignore")
	StepLocalInit    Step = Step("local-init")
	StepCommit       Step = Step("commit")
	StepRemoteWire   Step = Step("remote-wire")
	StepPush         Step = Step("push")
	StepTopics       Step = Step("topics")
)

var stepFailureDescriptions = map[Step]string{
	StepScaffold:     "failed to create project scaffold",
	StepHostedCreate: "failed to create hosted repository",
	StepGitignore:    "failed to create custom .gitignore",
	StepLocalInit:    "failed to initialize git repository",
	StepCommit:       "failed to add and commit files",
	StepRemoteWire:   "failed to add remote",
	StepPush:         "failed to push to remote",
	StepTopics:       "failed to set topics",
}

// String returns the step name.
func (step Step) String() string {
	return string(step)
}
