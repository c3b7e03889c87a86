package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// BackendConstructor is a function that creates a client for one provider
type BackendConstructor func(ctx context.Context, cfg Config) (Client, error)

var (
	registryMu      sync.RWMutex
	backendRegistry = make(map[string]BackendConstructor)
)

// RegisterBackend registers a provider constructor
func RegisterBackend(provider string, constructor BackendConstructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backendRegistry[provider] = constructor
}

// Providers lists registered provider names
func Providers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backendRegistry))
	for name := range backendRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Factory creates storage clients from configuration
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create instantiates a client from config
func (f *Factory) Create(ctx context.Context, cfg Config) (Client, error) {
	registryMu.RLock()
	constructor, ok := backendRegistry[cfg.Provider]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: unknown provider %q (registered: %v)", ErrInvalidConfig, cfg.Provider, Providers())
	}

	client, err := constructor(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}

	return client, nil
}
