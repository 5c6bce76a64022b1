// Package update compares the local CLI version against the latest release
// published by the Stowage service.
package update

import (
	"fmt"

	goversion "github.com/hashicorp/go-version"

	"github.com/stowage-dev/stowage/pkg/api"
	"github.com/stowage-dev/stowage/pkg/errors"
	"github.com/stowage-dev/stowage/pkg/version"
)

// CheckResult describes how the local CLI relates to the latest published
// release.
type CheckResult struct {
	Local  *goversion.Version
	Latest *goversion.Version
}

// UpdateAvailable returns true when the published release is newer than the
// local CLI.
func (r CheckResult) UpdateAvailable() bool {
	return r.Local.LessThan(r.Latest)
}

// Target is the version an upgrade would install. Prerelease and metadata
// segments are stripped since only stable releases are published for
// download.
func (r CheckResult) Target() *goversion.Version {
	segments := r.Latest.Segments()
	target, _ := goversion.NewVersion(fmt.Sprintf("%d.%d.%d",
		segments[0], segments[1], segments[2]))
	return target
}

// Check queries the service for the latest CLI release and parses both
// versions. It fails if the local binary wasn't stamped with a version at
// build time.
func Check(client api.Client) (CheckResult, error) {
	local, err := goversion.NewVersion(version.Version)
	if err != nil {
		return CheckResult{}, errors.WithContext(err, "parse local version")
	}

	serviceVersion, err := client.GetServiceVersion()
	if err != nil {
		return CheckResult{}, errors.WithContext(err, "get service version")
	}

	latest, err := goversion.NewVersion(serviceVersion.LatestCLIVersion)
	if err != nil {
		return CheckResult{}, errors.WithContext(err, "parse latest version")
	}

	return CheckResult{Local: local, Latest: latest}, nil
}
