package provider

import (
	"github.com/anthropics/anthropic-sdk-go"
)

// NewAnthropicClient returns a client using the API key from the env
// (ANTHROPIC_API_KEY; the SDK reads it itself).
func NewAnthropicClient() *anthropic.Client {
	c := anthropic.NewClient()
	return &c
}

// DefaultModel is used when the config file doesn't name one.
const DefaultModel = anthropic.ModelClaude3_7SonnetLatest

// ResolveModel maps a configured model name onto the SDK model type,
// defaulting when empty.
func ResolveModel(name string) anthropic.Model {
	if name == "" {
		return DefaultModel
	}
	return anthropic.Model(name)
}
