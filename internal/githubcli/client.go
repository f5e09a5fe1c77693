package githubcli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/temirov/reposeed/internal/execshell"
	"github.com/temirov/reposeed/internal/githubauth"
)

const (
	repoSubcommandConstant                   = "repo"
	createSubcommandConstant                 = "create"
	viewSubcommandConstant                   = "view"
	apiSubcommandConstant                    = "api"
	versionFlagConstant                      = "--version"
	descriptionFlagConstant                  = "--description"
	gitignoreFlagConstant                    = "--gitignore"
	licenseFlagConstant                      = "--license"
	webFlagConstant                          = "--web"
	methodFlagConstant                       = "-X"
	inputFlagConstant                        = "--input"
	stdinReferenceConstant                   = "-"
	acceptHeaderFlagConstant                 = "-H"
	topicsAcceptHeaderValueConstant          = "Accept: application/vnd.github.mercy-preview+json"
	topicsUpdateMethodConstant               = "PUT"
	userEndpointConstant                     = "user"
	templatesEndpointConstant                = "gitignore/templates"
	templateEndpointTemplateConstant         = "gitignore/templates/%s"
	topicsEndpointTemplateConstant           = "repos/%s/%s/topics"
	repositoryIdentifierTemplateConstant     = "%s/%s"
	visibilityFlagTemplateConstant           = "--%s"
	repositoryNameFieldNameConstant          = "repository_name"
	ownerFieldNameConstant                   = "owner"
	templateFieldNameConstant                = "template"
	visibilityFieldNameConstant              = "visibility"
	requiredValueMessageConstant             = "value required"
	unsupportedVisibilityMessageConstant     = "must be public or private"
	emptyTemplateSourceMessageConstant       = "template has no source"
	executorNotConfiguredMessageConstant     = "github cli executor not configured"
	operationErrorMessageTemplateConstant    = "%s operation failed"
	operationErrorWithCauseTemplateConstant  = "%s operation failed: %s"
	responseDecodingErrorTemplateConstant    = "%s response decoding failed: %s"
	payloadEncodingErrorTemplateConstant     = "%s payload encoding failed: %s"
	invalidInputErrorTemplateConstant        = "%s: %s"
	defaultTemplateFetchTimeoutConstant      = 5 * time.Second
	versionOperationNameConstant             = OperationName("CheckVersion")
	identityOperationNameConstant            = OperationName("ResolveIdentity")
	listTemplatesOperationNameConstant       = OperationName("ListGitignoreTemplates")
	fetchTemplateOperationNameConstant       = OperationName("FetchGitignoreSource")
	createRepositoryOperationNameConstant    = OperationName("CreateRepository")
	setTopicsOperationNameConstant           = OperationName("SetTopics")
	openInBrowserOperationNameConstant       = OperationName("OpenInBrowser")
)

// OperationName describes a named GitHub CLI workflow supported by the client.
type OperationName string

// Visibility enumerates hosted repository visibilities.
type Visibility string

// Supported visibilities.
const (
	VisibilityPublic  Visibility = Visibility("public")
	VisibilityPrivate Visibility = Visibility("private")
)

// Identity describes the authenticated GitHub account.
type Identity struct {
	Login string
	Name  string
	Email string
}

// RepositoryCreateOptions configures gh repo create.
type RepositoryCreateOptions struct {
	Name              string
	Visibility        Visibility
	Description       string
	GitignoreTemplate string
	License           string
}

// GitHubCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitHubCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client coordinates GitHub CLI invocations through execshell.
type Client struct {
	executor             GitHubCommandExecutor
	templateCache        *TemplateCache
	templateFetchTimeout time.Duration
	authenticationToken  string
}

// ClientOption customizes Client construction.
type ClientOption func(*Client)

// WithTemplateCache injects the cache used for gitignore templates.
func WithTemplateCache(cache *TemplateCache) ClientOption {
	return func(client *Client) {
		if cache != nil {
			client.templateCache = cache
		}
	}
}

// WithTemplateFetchTimeout bounds gitignore template catalog queries.
func WithTemplateFetchTimeout(timeout time.Duration) ClientOption {
	return func(client *Client) {
		if timeout > 0 {
			client.templateFetchTimeout = timeout
		}
	}
}

// WithAuthenticationToken exports token as GH_TOKEN to every gh invocation. gh reads
// GH_TOKEN and GITHUB_TOKEN itself; this covers tokens found under other names.
func WithAuthenticationToken(token string) ClientOption {
	return func(client *Client) {
		client.authenticationToken = strings.TrimSpace(token)
	}
}

var (
	// ErrExecutorNotConfigured indicates the client was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for GitHub CLI operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ResponseDecodingError indicates JSON decoding failures.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}

// PayloadEncodingError indicates JSON encoding issues.
type PayloadEncodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the encoding failure.
func (encodingError PayloadEncodingError) Error() string {
	return fmt.Sprintf(payloadEncodingErrorTemplateConstant, encodingError.Operation, encodingError.Cause)
}

// Unwrap exposes the underlying error.
func (encodingError PayloadEncodingError) Unwrap() error {
	return encodingError.Cause
}

// NewClient constructs a GitHub CLI client. Without WithTemplateCache the client owns
// a private cache for its lifetime.
func NewClient(executor GitHubCommandExecutor, options ...ClientOption) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}

	client := &Client{executor: executor, templateFetchTimeout: defaultTemplateFetchTimeoutConstant}
	for _, option := range options {
		if option != nil {
			option(client)
		}
	}

	if client.templateCache == nil {
		defaultCache, cacheError := NewTemplateCache(0)
		if cacheError != nil {
			return nil, cacheError
		}
		client.templateCache = defaultCache
	}

	return client, nil
}

func (client *Client) execute(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	if len(client.authenticationToken) > 0 {
		environment := make(map[string]string, len(details.EnvironmentVariables)+1)
		for environmentKey, environmentValue := range details.EnvironmentVariables {
			environment[environmentKey] = environmentValue
		}
		environment[githubauth.EnvGitHubCLIToken] = client.authenticationToken
		details.EnvironmentVariables = environment
	}
	return client.executor.ExecuteGitHubCLI(executionContext, details)
}

// Version confirms the gh executable is installed.
func (client *Client) Version(executionContext context.Context) error {
	commandDetails := execshell.CommandDetails{Arguments: []string{versionFlagConstant}}
	if _, executionError := client.execute(executionContext, commandDetails); executionError != nil {
		return OperationError{Operation: versionOperationNameConstant, Cause: executionError}
	}
	return nil
}

// ResolveIdentity queries gh api user.
func (client *Client) ResolveIdentity(executionContext context.Context) (Identity, error) {
	commandDetails := execshell.CommandDetails{Arguments: []string{apiSubcommandConstant, userEndpointConstant}}
	executionResult, executionError := client.execute(executionContext, commandDetails)
	if executionError != nil {
		return Identity{}, OperationError{Operation: identityOperationNameConstant, Cause: executionError}
	}

	var response struct {
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response); decodingError != nil {
		return Identity{}, ResponseDecodingError{Operation: identityOperationNameConstant, Cause: decodingError}
	}
	if len(strings.TrimSpace(response.Login)) == 0 {
		return Identity{}, ResponseDecodingError{Operation: identityOperationNameConstant, Cause: InvalidInputError{FieldName: "login", Message: requiredValueMessageConstant}}
	}

	return Identity{Login: response.Login, Name: response.Name, Email: response.Email}, nil
}

// CurrentIdentity returns the authenticated account, collapsing every failure into absence.
func (client *Client) CurrentIdentity(executionContext context.Context) (Identity, bool) {
	identity, resolveError := client.ResolveIdentity(executionContext)
	if resolveError != nil {
		return Identity{}, false
	}
	return identity, true
}

// ListGitignoreTemplates returns the natively supported template names. The first
// successful response is cached; later failures fall back to the cache and finally to
// an empty list.
func (client *Client) ListGitignoreTemplates(executionContext context.Context) []string {
	if cachedTemplates, cached := client.templateCache.Catalog(); cached {
		return cachedTemplates
	}

	fetchedTemplates, fetchError := client.fetchTemplateCatalog(executionContext)
	if fetchError != nil {
		if cachedTemplates, cached := client.templateCache.Catalog(); cached {
			return cachedTemplates
		}
		return []string{}
	}

	client.templateCache.StoreCatalog(fetchedTemplates)
	return append([]string{}, fetchedTemplates...)
}

// RefreshGitignoreTemplates bypasses a cached catalog and refetches it, keeping the
// cached copy when the refetch fails.
func (client *Client) RefreshGitignoreTemplates(executionContext context.Context) ([]string, error) {
	fetchedTemplates, fetchError := client.fetchTemplateCatalog(executionContext)
	if fetchError != nil {
		if cachedTemplates, cached := client.templateCache.Catalog(); cached {
			return cachedTemplates, fetchError
		}
		return []string{}, fetchError
	}
	client.templateCache.StoreCatalog(fetchedTemplates)
	return append([]string{}, fetchedTemplates...), nil
}

func (client *Client) fetchTemplateCatalog(executionContext context.Context) ([]string, error) {
	timeoutContext, cancel := context.WithTimeout(executionContext, client.templateFetchTimeout)
	defer cancel()

	commandDetails := execshell.CommandDetails{Arguments: []string{apiSubcommandConstant, templatesEndpointConstant}}
	executionResult, executionError := client.execute(timeoutContext, commandDetails)
	if executionError != nil {
		return nil, OperationError{Operation: listTemplatesOperationNameConstant, Cause: executionError}
	}

	var templates []string
	if decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &templates); decodingError != nil {
		return nil, ResponseDecodingError{Operation: listTemplatesOperationNameConstant, Cause: decodingError}
	}
	return templates, nil
}

// FetchGitignoreSource downloads the source text of a native template. Cached sources
// are served without contacting GitHub.
func (client *Client) FetchGitignoreSource(executionContext context.Context, templateName string) (string, error) {
	trimmedTemplate := strings.TrimSpace(templateName)
	if len(trimmedTemplate) == 0 {
		return "", InvalidInputError{FieldName: templateFieldNameConstant, Message: requiredValueMessageConstant}
	}

	if cachedSource, cached := client.templateCache.Source(trimmedTemplate); cached {
		return cachedSource, nil
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{apiSubcommandConstant, fmt.Sprintf(templateEndpointTemplateConstant, trimmedTemplate)},
	}
	executionResult, executionError := client.execute(executionContext, commandDetails)
	if executionError != nil {
		return "", OperationError{Operation: fetchTemplateOperationNameConstant, Cause: executionError}
	}

	var response struct {
		Name   string `json:"name"`
		Source string `json:"source"`
	}
	if decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response); decodingError != nil {
		return "", ResponseDecodingError{Operation: fetchTemplateOperationNameConstant, Cause: decodingError}
	}
	if len(response.Source) == 0 {
		return "", OperationError{Operation: fetchTemplateOperationNameConstant, Cause: InvalidInputError{FieldName: trimmedTemplate, Message: emptyTemplateSourceMessageConstant}}
	}

	client.templateCache.StoreSource(trimmedTemplate, response.Source)
	return response.Source, nil
}

// CreateRepository creates the hosted repository with gh repo create.
func (client *Client) CreateRepository(executionContext context.Context, options RepositoryCreateOptions) error {
	repositoryName := strings.TrimSpace(options.Name)
	if len(repositoryName) == 0 {
		return InvalidInputError{FieldName: repositoryNameFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if options.Visibility != VisibilityPublic && options.Visibility != VisibilityPrivate {
		return InvalidInputError{FieldName: visibilityFieldNameConstant, Message: unsupportedVisibilityMessageConstant}
	}

	arguments := []string{
		repoSubcommandConstant,
		createSubcommandConstant,
		repositoryName,
		fmt.Sprintf(visibilityFlagTemplateConstant, options.Visibility),
	}
	if description := strings.TrimSpace(options.Description); len(description) > 0 {
		arguments = append(arguments, descriptionFlagConstant, description)
	}
	if gitignoreTemplate := strings.TrimSpace(options.GitignoreTemplate); len(gitignoreTemplate) > 0 {
		arguments = append(arguments, gitignoreFlagConstant, gitignoreTemplate)
	}
	if license := strings.TrimSpace(options.License); len(license) > 0 {
		arguments = append(arguments, licenseFlagConstant, license)
	}

	if _, executionError := client.execute(executionContext, execshell.CommandDetails{Arguments: arguments}); executionError != nil {
		return OperationError{Operation: createRepositoryOperationNameConstant, Cause: executionError}
	}
	return nil
}

// SetTopics replaces the repository topics.
func (client *Client) SetTopics(executionContext context.Context, owner string, repositoryName string, topics []string) error {
	if len(topics) == 0 {
		return nil
	}
	trimmedOwner := strings.TrimSpace(owner)
	if len(trimmedOwner) == 0 {
		return InvalidInputError{FieldName: ownerFieldNameConstant, Message: requiredValueMessageConstant}
	}
	trimmedRepository := strings.TrimSpace(repositoryName)
	if len(trimmedRepository) == 0 {
		return InvalidInputError{FieldName: repositoryNameFieldNameConstant, Message: requiredValueMessageConstant}
	}

	payload, encodingError := json.Marshal(struct {
		Names []string `json:"names"`
	}{Names: topics})
	if encodingError != nil {
		return PayloadEncodingError{Operation: setTopicsOperationNameConstant, Cause: encodingError}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			methodFlagConstant,
			topicsUpdateMethodConstant,
			fmt.Sprintf(topicsEndpointTemplateConstant, trimmedOwner, trimmedRepository),
			acceptHeaderFlagConstant,
			topicsAcceptHeaderValueConstant,
			inputFlagConstant,
			stdinReferenceConstant,
		},
		StandardInput: payload,
	}

	if _, executionError := client.execute(executionContext, commandDetails); executionError != nil {
		return OperationError{Operation: setTopicsOperationNameConstant, Cause: executionError}
	}
	return nil
}

// OpenInBrowser opens the repository page with gh repo view --web.
func (client *Client) OpenInBrowser(executionContext context.Context, owner string, repositoryName string) error {
	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			repoSubcommandConstant,
			viewSubcommandConstant,
			fmt.Sprintf(repositoryIdentifierTemplateConstant, strings.TrimSpace(owner), strings.TrimSpace(repositoryName)),
			webFlagConstant,
		},
	}
	if _, executionError := client.execute(executionContext, commandDetails); executionError != nil {
		return OperationError{Operation: openInBrowserOperationNameConstant, Cause: executionError}
	}
	return nil
}
