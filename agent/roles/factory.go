// Package roles assembles the three specialist capabilities for a customer
// request.
package roles

import (
	openaisdk "github.com/openai/openai-go/v2"

	contractx "github.com/beaverschoice/paperdesk/agent/contract"
	llmx "github.com/beaverschoice/paperdesk/agent/llm"
	promptx "github.com/beaverschoice/paperdesk/agent/prompt"
	runnerx "github.com/beaverschoice/paperdesk/agent/runner"
	toolx "github.com/beaverschoice/paperdesk/agent/tool"
	"github.com/beaverschoice/paperdesk/catalog"
	"github.com/beaverschoice/paperdesk/ledger"
	"github.com/beaverschoice/paperdesk/quote"
)

type registryImpl struct {
	inventory contractx.Capability
	quoting   contractx.Capability
	sales     contractx.Capability
}

func (r *registryImpl) Inventory() contractx.Capability { return r.inventory }
func (r *registryImpl) Quoting() contractx.Capability   { return r.quoting }
func (r *registryImpl) Sales() contractx.Capability     { return r.sales }

// Services are the long-lived domain collaborators shared by every session.
type Services struct {
	Engine   *ledger.Engine
	Commands *ledger.Commands
	Matcher  *catalog.Matcher
	History  *quote.History
	Quoter   *quote.Engine
}

// Factory builds per-request sessions. The chat client and domain services
// are shared; each session gets fresh runners and its own Tracker.
type Factory struct {
	client   *openaisdk.Client
	cfg      llmx.Config
	services Services
	prompts  promptx.PromptSet
}

func NewFactory(client *openaisdk.Client, cfg llmx.Config, services Services) (*Factory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		return nil, contractx.ErrValidation
	}
	return &Factory{
		client:   client,
		cfg:      cfg,
		services: services,
		prompts:  promptx.LoadPromptSet(),
	}, nil
}

// NewSession returns the specialists for one request, wired to a fresh
// Tracker scoped to requestDate. The Tracker is the coordinator's only
// source of truth about what the specialists actually committed.
func (f *Factory) NewSession(requestDate string) (contractx.Registry, *toolx.Tracker, error) {
	tracker := toolx.NewTracker()
	deps := toolx.Deps{
		Engine:      f.services.Engine,
		Commands:    f.services.Commands,
		Matcher:     f.services.Matcher,
		History:     f.services.History,
		Quoter:      f.services.Quoter,
		Tracker:     tracker,
		RequestDate: requestDate,
	}

	inventory, err := f.newRunner(contractx.RoleInventory, f.prompts.Inventory, deps)
	if err != nil {
		return nil, nil, err
	}
	quoting, err := f.newRunner(contractx.RoleQuoting, f.prompts.Quoting, deps)
	if err != nil {
		return nil, nil, err
	}
	sales, err := f.newRunner(contractx.RoleSales, f.prompts.Sales, deps)
	if err != nil {
		return nil, nil, err
	}

	return &registryImpl{
		inventory: inventory,
		quoting:   quoting,
		sales:     sales,
	}, tracker, nil
}

func (f *Factory) newRunner(role contractx.Role, systemPrompt string, deps toolx.Deps) (contractx.Capability, error) {
	settings := f.cfg.ForRole(role)
	defs, exec := toolx.BuildForRole(role, deps)
	return runnerx.New(f.client, runnerx.Options{
		Role:         role,
		Model:        settings.Model,
		Temperature:  settings.Temperature,
		MaxSteps:     settings.MaxSteps,
		SystemPrompt: systemPrompt,
		Tools:        defs,
		Executor:     exec,
	})
}
