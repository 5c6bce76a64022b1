// Package session creates sandbox sessions, binds context mounts into them,
// and waits for mount synchronization to finish.
package session

import (
	"github.com/stowage-dev/stowage/pkg/api"
	"github.com/stowage-dev/stowage/pkg/errors"
	"github.com/stowage-dev/stowage/pkg/storage/policy"
)

// Draft accumulates a session-creation request. Mounts are validated as
// they're added so that configuration mistakes fail before any network call;
// nothing is sent to the service until Create.
type Draft struct {
	Name  string
	Image string

	mounts []api.MountSpec
}

// NewDraft creates an empty session draft.
func NewDraft() *Draft {
	return &Draft{}
}

// Mount binds a context into the session at the given in-session path under
// the given policy. It returns a ValidationError if the path is empty, the
// path collides with a mount already bound to this draft, or the policy is
// malformed.
func (d *Draft) Mount(c api.Context, path string, pol policy.SyncPolicy) (api.MountSpec, error) {
	if c.ID == "" {
		return api.MountSpec{}, errors.NewValidationError("context ID is required")
	}
	if path == "" {
		return api.MountSpec{}, errors.NewValidationError("mount path is required")
	}
	for _, mount := range d.mounts {
		if mount.Path == path {
			return api.MountSpec{}, errors.NewValidationError(
				"mount path %q is already bound to context %q",
				path, mount.ContextID)
		}
	}
	if err := pol.Validate(); err != nil {
		return api.MountSpec{}, err
	}

	spec := api.MountSpec{
		ContextID: c.ID,
		Path:      path,
		Policy:    pol,
	}
	d.mounts = append(d.mounts, spec)
	return spec, nil
}

// Mounts returns the mounts bound so far, in bind order.
func (d *Draft) Mounts() []api.MountSpec {
	return d.mounts
}

// Create submits the draft and returns a handle to the created session.
func (d *Draft) Create(client api.Client) (*Session, error) {
	info, err := client.CreateSession(api.CreateSessionRequest{
		Name:   d.Name,
		Image:  d.Image,
		Mounts: d.mounts,
	})
	if err != nil {
		return nil, errors.WithContext(err, "create session")
	}

	return &Session{
		ID:     info.ID,
		client: client,
	}, nil
}
