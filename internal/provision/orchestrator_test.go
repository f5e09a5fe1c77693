package provision_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/reposeed/internal/githubcli"
	"github.com/temirov/reposeed/internal/provision"
	"github.com/temirov/reposeed/internal/scaffold"
)

const (
	testRunIDConstant           = "run-1"
	testRepositoryNameConstant  = "demo-project"
	testOwnerConstant           = "octocat"
	testLocationConstant        = "/workspace"
	testTargetDirectoryConstant = "/workspace/demo-project"
	testBranchConstant          = "trunk"
	testHTTPSRemoteConstant     = "https://github.com/octocat/demo-project.git"
	testSSHRemoteConstant       = "git@github.com:octocat/demo-project.git"
	callScaffold                = "scaffold"
	callHostedCreate            = "hosted-create"
	callGitignoreFetch          = "gitignore-fetch"
	callGitignoreWrite          = "gitignore-write"
	callGitignoreCustom         = "gitignore-custom"
	callLocalInit               = "local-init"
	callCommit                  = "commit"
	callRemoteWire              = "remote-wire"
	callPush                    = "push"
	callTopics                  = "topics"
)

type callRecorder struct {
	mutex sync.Mutex
	calls []string
}

func (recorder *callRecorder) record(call string) {
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	recorder.calls = append(recorder.calls, call)
}

func (recorder *callRecorder) recorded() []string {
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	return append([]string(nil), recorder.calls...)
}

type fakeHostingClient struct {
	recorder        *callRecorder
	createError     error
	fetchError      error
	topicsError     error
	gitignoreSource string
	createOptions   []githubcli.RepositoryCreateOptions
	topicsOwner     string
	topics          []string
}

func (client *fakeHostingClient) CreateRepository(_ context.Context, options githubcli.RepositoryCreateOptions) error {
	client.recorder.record(callHostedCreate)
	client.createOptions = append(client.createOptions, options)
	return client.createError
}

func (client *fakeHostingClient) FetchGitignoreSource(context.Context, string) (string, error) {
	client.recorder.record(callGitignoreFetch)
	return client.gitignoreSource, client.fetchError
}

func (client *fakeHostingClient) SetTopics(_ context.Context, owner string, _ string, topics []string) error {
	client.recorder.record(callTopics)
	client.topicsOwner = owner
	client.topics = append([]string(nil), topics...)
	return client.topicsError
}

type fakeVcsClient struct {
	recorder      *callRecorder
	isRepository  bool
	initError     error
	commitError   error
	remoteError   error
	pushError     error
	branch        string
	onPush        func()
	panicOnCommit bool
	commitMessage string
	remoteName    string
	remoteURL     string
	pushedBranch  string
}

func (client *fakeVcsClient) IsRepository(string) bool {
	return client.isRepository
}

func (client *fakeVcsClient) Init(context.Context, string) error {
	client.recorder.record(callLocalInit)
	return client.initError
}

func (client *fakeVcsClient) StageAndCommit(_ context.Context, _ string, message string) error {
	client.recorder.record(callCommit)
	if client.panicOnCommit {
		panic("index corrupted")
	}
	client.commitMessage = message
	return client.commitError
}

func (client *fakeVcsClient) AddOrUpdateRemote(_ context.Context, _ string, remoteName string, remoteURL string) error {
	client.recorder.record(callRemoteWire)
	client.remoteName = remoteName
	client.remoteURL = remoteURL
	return client.remoteError
}

func (client *fakeVcsClient) CurrentBranch(context.Context, string) string {
	return client.branch
}

func (client *fakeVcsClient) Push(_ context.Context, _ string, _ string, branch string) error {
	client.recorder.record(callPush)
	client.pushedBranch = branch
	if client.onPush != nil {
		client.onPush()
	}
	return client.pushError
}

type fakeScaffoldWriter struct {
	recorder            *callRecorder
	ensureError         error
	writeError          error
	customError         error
	gitignoreWriteError error
	onWrite             func()
	ensuredDirectories  []string
	writtenOptions      []scaffold.Options
	customTemplates     []string
	gitignoreContents   []string
}

func (writer *fakeScaffoldWriter) EnsureDirectory(directory string) error {
	writer.ensuredDirectories = append(writer.ensuredDirectories, directory)
	return writer.ensureError
}

func (writer *fakeScaffoldWriter) Write(_ string, options scaffold.Options) error {
	writer.recorder.record(callScaffold)
	writer.writtenOptions = append(writer.writtenOptions, options)
	if writer.onWrite != nil {
		writer.onWrite()
	}
	return writer.writeError
}

func (writer *fakeScaffoldWriter) WriteCustomGitignore(_ string, templateName string) error {
	writer.recorder.record(callGitignoreCustom)
	writer.customTemplates = append(writer.customTemplates, templateName)
	return writer.customError
}

func (writer *fakeScaffoldWriter) WriteGitignoreIfAbsent(_ string, content string) (bool, error) {
	writer.recorder.record(callGitignoreWrite)
	writer.gitignoreContents = append(writer.gitignoreContents, content)
	return writer.gitignoreWriteError == nil, writer.gitignoreWriteError
}

type recordingSink struct {
	mutex   sync.Mutex
	events  []provision.ProgressEvent
	results []provision.Result
}

func (sink *recordingSink) Publish(event provision.ProgressEvent) {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	sink.events = append(sink.events, event)
}

func (sink *recordingSink) Complete(result provision.Result) {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	sink.results = append(sink.results, result)
}

func (sink *recordingSink) warnings() []string {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	var warnings []string
	for _, event := range sink.events {
		if event.Warning {
			warnings = append(warnings, event.Message)
		}
	}
	return warnings
}

type workflowFixture struct {
	recorder *callRecorder
	hosting  *fakeHostingClient
	vcs      *fakeVcsClient
	writer   *fakeScaffoldWriter
	sink     *recordingSink
	token    *provision.CancellationToken
	snapshot provision.ConfigSnapshot
}

func newWorkflowFixture() *workflowFixture {
	recorder := &callRecorder{}
	return &workflowFixture{
		recorder: recorder,
		hosting:  &fakeHostingClient{recorder: recorder},
		vcs:      &fakeVcsClient{recorder: recorder, branch: testBranchConstant},
		writer:   &fakeScaffoldWriter{recorder: recorder},
		sink:     &recordingSink{},
		token:    provision.NewCancellationToken(),
		snapshot: provision.ConfigSnapshot{
			RepoName:       testRepositoryNameConstant,
			FolderName:     testRepositoryNameConstant,
			RepoLocation:   testLocationConstant,
			Visibility:     githubcli.VisibilityPublic,
			CreateScaffold: true,
			Topics:         []string{"a", "b"},
			Username:       testOwnerConstant,
		},
	}
}

func (fixture *workflowFixture) run(testInstance *testing.T, executionContext context.Context, logger *zap.Logger) provision.Result {
	testInstance.Helper()
	orchestrator, creationError := provision.NewOrchestrator(logger, fixture.hosting, fixture.vcs, fixture.writer)
	require.NoError(testInstance, creationError)
	return orchestrator.Run(executionContext, testRunIDConstant, fixture.snapshot, fixture.token, fixture.sink)
}

func TestOrchestratorRunScenarios(testInstance *testing.T) {
	allSteps := []provision.Step{
		provision.StepScaffold,
		provision.StepHostedCreate,
		provision.StepLocalInit,
		provision.StepCommit,
		provision.StepRemoteWire,
		provision.StepPush,
		provision.StepTopics,
	}

	testCases := []struct {
		name          string
		configure     func(fixture *workflowFixture)
		expectSuccess bool
		expectedCalls []string
		verify        func(testInstance *testing.T, fixture *workflowFixture, result provision.Result)
	}{
		{
			name:          "all_steps_succeed",
			configure:     func(*workflowFixture) {},
			expectSuccess: true,
			expectedCalls: []string{callScaffold, callHostedCreate, callLocalInit, callCommit, callRemoteWire, callPush, callTopics},
			verify: func(testInstance *testing.T, fixture *workflowFixture, result provision.Result) {
				require.Equal(testInstance, "Repository 'demo-project' created successfully!", result.Message)
				require.Equal(testInstance, allSteps, result.ExecutedSteps)
				require.Empty(testInstance, result.Warnings)
				require.Equal(testInstance, []string{testTargetDirectoryConstant}, fixture.writer.ensuredDirectories)
				require.Equal(testInstance, scaffold.Options{ProjectName: testRepositoryNameConstant}, fixture.writer.writtenOptions[0])
				require.Equal(testInstance, githubcli.RepositoryCreateOptions{Name: testRepositoryNameConstant, Visibility: githubcli.VisibilityPublic}, fixture.hosting.createOptions[0])
				require.Equal(testInstance, provision.DefaultCommitMessage, fixture.vcs.commitMessage)
				require.Equal(testInstance, provision.DefaultRemoteName, fixture.vcs.remoteName)
				require.Equal(testInstance, testHTTPSRemoteConstant, fixture.vcs.remoteURL)
				require.Equal(testInstance, testBranchConstant, fixture.vcs.pushedBranch)
				require.Equal(testInstance, testOwnerConstant, fixture.hosting.topicsOwner)
				require.Equal(testInstance, []string{"a", "b"}, fixture.hosting.topics)
			},
		},
		{
			name: "push_failure_skips_topics",
			configure: func(fixture *workflowFixture) {
				fixture.vcs.pushError = errors.New("rejected")
			},
			expectedCalls: []string{callScaffold, callHostedCreate, callLocalInit, callCommit, callRemoteWire, callPush},
			verify: func(testInstance *testing.T, _ *workflowFixture, result provision.Result) {
				require.Equal(testInstance, provision.StepPush, result.FailedStep)
				require.Equal(testInstance, "failed to push to remote: rejected", result.Message)
				require.False(testInstance, result.Cancelled)
			},
		},
		{
			name: "hosted_create_failure_leaves_git_untouched",
			configure: func(fixture *workflowFixture) {
				fixture.hosting.createError = errors.New("name already exists on this account")
			},
			expectedCalls: []string{callScaffold, callHostedCreate},
			verify: func(testInstance *testing.T, _ *workflowFixture, result provision.Result) {
				require.Equal(testInstance, provision.StepHostedCreate, result.FailedStep)
				require.Contains(testInstance, result.Message, "name already exists on this account")
			},
		},
		{
			name: "topics_failure_is_a_warning",
			configure: func(fixture *workflowFixture) {
				fixture.hosting.topicsError = errors.New("HTTP 422")
			},
			expectSuccess: true,
			expectedCalls: []string{callScaffold, callHostedCreate, callLocalInit, callCommit, callRemoteWire, callPush, callTopics},
			verify: func(testInstance *testing.T, fixture *workflowFixture, result provision.Result) {
				require.Equal(testInstance, []string{"Warning: failed to set topics: HTTP 422"}, result.Warnings)
				require.Equal(testInstance, result.Warnings, fixture.sink.warnings())
			},
		},
		{
			name: "custom_gitignore_is_written_locally",
			configure: func(fixture *workflowFixture) {
				fixture.snapshot.GitignoreTemplate = "Go"
				fixture.snapshot.Topics = nil
			},
			expectSuccess: true,
			expectedCalls: []string{callScaffold, callHostedCreate, callGitignoreCustom, callLocalInit, callCommit, callRemoteWire, callPush},
			verify: func(testInstance *testing.T, fixture *workflowFixture, _ provision.Result) {
				require.Empty(testInstance, fixture.hosting.createOptions[0].GitignoreTemplate)
				require.Equal(testInstance, []string{"Go"}, fixture.writer.customTemplates)
			},
		},
		{
			name: "custom_gitignore_failure_is_fatal",
			configure: func(fixture *workflowFixture) {
				fixture.snapshot.GitignoreTemplate = "custom"
				fixture.writer.customError = errors.New("disk full")
			},
			expectedCalls: []string{callScaffold, callHostedCreate, callGitignoreCustom},
			verify: func(testInstance *testing.T, _ *workflowFixture, result provision.Result) {
				require.Equal(testInstance, provision.StepGitignore, result.FailedStep)
			},
		},
		{
			name: "native_gitignore_is_fetched_and_written",
			configure: func(fixture *workflowFixture) {
				fixture.snapshot.GitignoreTemplate = "Python"
				fixture.hosting.gitignoreSource = "__pycache__/\n"
			},
			expectSuccess: true,
			expectedCalls: []string{callScaffold, callHostedCreate, callGitignoreFetch, callGitignoreWrite, callLocalInit, callCommit, callRemoteWire, callPush, callTopics},
			verify: func(testInstance *testing.T, fixture *workflowFixture, _ provision.Result) {
				require.Equal(testInstance, "Python", fixture.hosting.createOptions[0].GitignoreTemplate)
				require.Equal(testInstance, []string{"__pycache__/\n"}, fixture.writer.gitignoreContents)
			},
		},
		{
			name: "native_gitignore_fetch_failure_is_a_warning",
			configure: func(fixture *workflowFixture) {
				fixture.snapshot.GitignoreTemplate = "Python"
				fixture.hosting.fetchError = errors.New("offline")
			},
			expectSuccess: true,
			expectedCalls: []string{callScaffold, callHostedCreate, callGitignoreFetch, callLocalInit, callCommit, callRemoteWire, callPush, callTopics},
			verify: func(testInstance *testing.T, _ *workflowFixture, result provision.Result) {
				require.Equal(testInstance, []string{"Warning: failed to fetch .gitignore template for Python: offline"}, result.Warnings)
			},
		},
		{
			name: "existing_repository_skips_init",
			configure: func(fixture *workflowFixture) {
				fixture.vcs.isRepository = true
				fixture.snapshot.CreateScaffold = false
				fixture.snapshot.Topics = nil
			},
			expectSuccess: true,
			expectedCalls: []string{callHostedCreate, callCommit, callRemoteWire, callPush},
			verify: func(testInstance *testing.T, _ *workflowFixture, result provision.Result) {
				require.Equal(testInstance, []provision.Step{provision.StepHostedCreate, provision.StepCommit, provision.StepRemoteWire, provision.StepPush}, result.ExecutedSteps)
			},
		},
		{
			name: "ssh_remote_and_custom_settings",
			configure: func(fixture *workflowFixture) {
				fixture.snapshot.RemoteType = "ssh"
				fixture.snapshot.RemoteName = "upstream"
				fixture.snapshot.CommitMessage = "Bootstrap"
				fixture.snapshot.Topics = nil
			},
			expectSuccess: true,
			expectedCalls: []string{callScaffold, callHostedCreate, callLocalInit, callCommit, callRemoteWire, callPush},
			verify: func(testInstance *testing.T, fixture *workflowFixture, _ provision.Result) {
				require.Equal(testInstance, testSSHRemoteConstant, fixture.vcs.remoteURL)
				require.Equal(testInstance, "upstream", fixture.vcs.remoteName)
				require.Equal(testInstance, "Bootstrap", fixture.vcs.commitMessage)
			},
		},
		{
			name: "commit_failure",
			configure: func(fixture *workflowFixture) {
				fixture.vcs.commitError = errors.New("nothing to commit")
			},
			expectedCalls: []string{callScaffold, callHostedCreate, callLocalInit, callCommit},
			verify: func(testInstance *testing.T, _ *workflowFixture, result provision.Result) {
				require.Equal(testInstance, "failed to add and commit files: nothing to commit", result.Message)
			},
		},
		{
			name: "target_directory_failure_stops_before_any_step",
			configure: func(fixture *workflowFixture) {
				fixture.writer.ensureError = errors.New("not a directory")
			},
			expectedCalls: nil,
			verify: func(testInstance *testing.T, _ *workflowFixture, result provision.Result) {
				require.Equal(testInstance, provision.StepScaffold, result.FailedStep)
				require.Empty(testInstance, result.ExecutedSteps)
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fixture := newWorkflowFixture()
			testCase.configure(fixture)

			result := fixture.run(testInstance, context.Background(), zap.NewNop())

			require.Equal(testInstance, testCase.expectSuccess, result.Success)
			require.Equal(testInstance, testRunIDConstant, result.RunID)
			require.Equal(testInstance, testCase.expectedCalls, fixture.recorder.recorded())
			require.Len(testInstance, fixture.sink.results, 1)
			require.Equal(testInstance, result, fixture.sink.results[0])
			if testCase.verify != nil {
				testCase.verify(testInstance, fixture, result)
			}
		})
	}
}

func TestOrchestratorCancellationAfterScaffold(testInstance *testing.T) {
	fixture := newWorkflowFixture()
	fixture.writer.onWrite = fixture.token.Cancel

	result := fixture.run(testInstance, context.Background(), zap.NewNop())

	require.False(testInstance, result.Success)
	require.True(testInstance, result.Cancelled)
	require.Equal(testInstance, "cancelled", result.Message)
	require.Equal(testInstance, []string{callScaffold}, fixture.recorder.recorded())
	require.Equal(testInstance, []provision.Step{provision.StepScaffold}, result.ExecutedSteps)
	require.Len(testInstance, fixture.sink.results, 1)
}

func TestOrchestratorCancelledBeforeStart(testInstance *testing.T) {
	fixture := newWorkflowFixture()
	fixture.token.Cancel()

	result := fixture.run(testInstance, context.Background(), zap.NewNop())

	require.True(testInstance, result.Cancelled)
	require.Empty(testInstance, fixture.recorder.recorded())
	require.Empty(testInstance, fixture.writer.ensuredDirectories)
	require.Empty(testInstance, fixture.sink.events)
}

func TestOrchestratorContextCancellationDuringPush(testInstance *testing.T) {
	fixture := newWorkflowFixture()
	executionContext, cancel := context.WithCancel(context.Background())
	defer cancel()
	fixture.vcs.onPush = cancel
	fixture.vcs.pushError = context.Canceled

	result := fixture.run(testInstance, executionContext, zap.NewNop())

	require.True(testInstance, result.Cancelled)
	require.False(testInstance, result.Success)
	require.Empty(testInstance, result.FailedStep)
	require.NotContains(testInstance, fixture.recorder.recorded(), callTopics)
}

func TestOrchestratorRecoversFromPanics(testInstance *testing.T) {
	fixture := newWorkflowFixture()
	fixture.vcs.panicOnCommit = true

	result := fixture.run(testInstance, context.Background(), zap.NewNop())

	require.False(testInstance, result.Success)
	require.Equal(testInstance, provision.StepCommit, result.FailedStep)
	require.Contains(testInstance, result.Message, "unexpected failure during commit: index corrupted")
	require.Len(testInstance, fixture.sink.results, 1)
}

func TestOrchestratorPublishesProgressInStepOrder(testInstance *testing.T) {
	fixture := newWorkflowFixture()
	fixture.snapshot.GitignoreTemplate = "Rust"

	fixture.run(testInstance, context.Background(), zap.NewNop())

	messages := make([]string, 0, len(fixture.sink.events))
	for _, event := range fixture.sink.events {
		require.Equal(testInstance, testRunIDConstant, event.RunID)
		messages = append(messages, event.Message)
	}
	require.Equal(testInstance, []string{
		"Creating project scaffold...",
		"Creating GitHub repository...",
		"Creating custom .gitignore for Rust...",
		"Initializing git repository...",
		"Adding and committing files...",
		"Adding remote origin...",
		"Pushing to GitHub...",
		"Setting repository topics...",
	}, messages)
}

func TestOrchestratorLogsRunOutcome(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zapcore.InfoLevel)
	fixture := newWorkflowFixture()
	fixture.vcs.pushError = errors.New("rejected")

	fixture.run(testInstance, context.Background(), zap.New(observerCore))

	finished := observedLogs.FilterMessage("Provisioning run finished").All()
	require.Len(testInstance, finished, 1)
	fields := finished[0].ContextMap()
	require.Equal(testInstance, testRunIDConstant, fields["run_id"])
	require.Equal(testInstance, false, fields["success"])
	require.Equal(testInstance, "failed to push to remote: rejected", fields["message"])
	require.Len(testInstance, observedLogs.FilterMessage("Provisioning step failed").All(), 1)
}

func TestNewOrchestratorRequiresDependencies(testInstance *testing.T) {
	fixture := newWorkflowFixture()

	testCases := []struct {
		name    string
		hosting provision.HostingClient
		vcs     provision.VcsClient
		writer  provision.ScaffoldWriter
	}{
		{name: "hosting_client", vcs: fixture.vcs, writer: fixture.writer},
		{name: "vcs_client", hosting: fixture.hosting, writer: fixture.writer},
		{name: "scaffold_writer", hosting: fixture.hosting, vcs: fixture.vcs},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			orchestrator, creationError := provision.NewOrchestrator(nil, testCase.hosting, testCase.vcs, testCase.writer)
			require.Error(testInstance, creationError)
			require.Nil(testInstance, orchestrator)
		})
	}
}
