// Package storage manages durable storage contexts: named units of
// persisted data that outlive the sandbox sessions mounting them.
package storage

import (
	"github.com/stowage-dev/stowage/pkg/api"
	"github.com/stowage-dev/stowage/pkg/errors"
)

// Registry performs CRUD over named contexts. All durable state lives
// server-side; the registry is a thin typed layer over the API client.
type Registry struct {
	client api.Client
}

// NewRegistry creates a registry backed by the given API client.
func NewRegistry(client api.Client) Registry {
	return Registry{client}
}

// Create creates a new context with the given name.
func (r Registry) Create(name string) (api.Context, error) {
	if name == "" {
		return api.Context{}, errors.NewValidationError("context name is required")
	}

	context, err := r.client.CreateContext(name)
	if err != nil {
		return api.Context{}, errors.WithContext(err, "create context")
	}
	return context, nil
}

// Get looks up a context by name. With createMissing set, the context is
// created if it doesn't exist. The lookup-or-create is a single server-side
// request, so calling Get repeatedly with the same name always resolves to
// the same context ID — the client never invents IDs locally, and a retry
// simply re-issues the identical request.
func (r Registry) Get(name string, createMissing bool) (api.Context, error) {
	if name == "" {
		return api.Context{}, errors.NewValidationError("context name is required")
	}

	context, err := r.client.GetContext(name, createMissing)
	if err != nil {
		return api.Context{}, errors.WithContext(err, "get context")
	}
	return context, nil
}

// List returns the contexts whose names match the filter. An empty filter
// returns everything.
func (r Registry) List(nameFilter string) ([]api.Context, error) {
	contexts, err := r.client.ListContexts(nameFilter)
	if err != nil {
		return nil, errors.WithContext(err, "list contexts")
	}
	return contexts, nil
}

// Update pushes changes to a context's mutable fields (currently just the
// name) to the service. The context's ID never changes.
func (r Registry) Update(context api.Context) error {
	if context.ID == "" {
		return errors.NewValidationError("context ID is required")
	}

	if err := r.client.UpdateContext(context); err != nil {
		return errors.WithContext(err, "update context")
	}
	return nil
}

// Delete removes a context and all its persisted data.
func (r Registry) Delete(context api.Context) error {
	if context.ID == "" {
		return errors.NewValidationError("context ID is required")
	}

	if err := r.client.DeleteContext(context.ID); err != nil {
		return errors.WithContext(err, "delete context")
	}
	return nil
}
