// FILE: lixenwraith/smartlog/compat/builder.go
package compat

import (
	"fmt"

	"github.com/lixenwraith/smartlog"
)

// Builder creates framework adapters that share one agent.
// It can use an existing *smartlog.Agent or create a new one from a *smartlog.Config.
type Builder struct {
	agent *smartlog.Agent
	cfg   *smartlog.Config
	err   error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithAgent specifies an existing agent to use for the adapters.
// If this is set WithConfig is ignored.
func (b *Builder) WithAgent(agent *smartlog.Agent) *Builder {
	if agent == nil {
		b.err = fmt.Errorf("smartlog/compat: provided agent cannot be nil")
		return b
	}
	b.agent = agent
	return b
}

// WithConfig provides a configuration for a new agent.
// Used only if no agent was provided via WithAgent.
func (b *Builder) WithConfig(cfg *smartlog.Config) *Builder {
	b.cfg = cfg
	return b
}

// getAgent resolves the agent to be used, creating one if necessary
func (b *Builder) getAgent() (*smartlog.Agent, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.agent != nil {
		return b.agent, nil
	}

	agent, err := smartlog.NewAgent(b.cfg)
	if err != nil {
		return nil, err
	}

	// Cache the new agent for subsequent builds with this builder
	b.agent = agent
	return agent, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	agent, err := b.getAgent()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(agent, opts...), nil
}

// BuildStructuredGnet creates a gnet adapter that extracts structured fields from format strings
func (b *Builder) BuildStructuredGnet(opts ...GnetOption) (*StructuredGnetAdapter, error) {
	agent, err := b.getAgent()
	if err != nil {
		return nil, err
	}
	return NewStructuredGnetAdapter(agent, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	agent, err := b.getAgent()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(agent, opts...), nil
}

// GetAgent returns the underlying agent, creating it if needed
func (b *Builder) GetAgent() (*smartlog.Agent, error) {
	return b.getAgent()
}
