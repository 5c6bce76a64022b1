package update

import (
	"testing"

	goversion "github.com/hashicorp/go-version"
	"github.com/stretchr/testify/assert"

	"github.com/stowage-dev/stowage/pkg/api"
	"github.com/stowage-dev/stowage/pkg/api/mocks"
	"github.com/stowage-dev/stowage/pkg/version"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name         string
		local        string
		latest       string
		expAvailable bool
		expTarget    string
	}{
		{
			name:         "behind",
			local:        "0.9.0",
			latest:       "0.10.0",
			expAvailable: true,
			expTarget:    "0.10.0",
		},
		{
			name:         "up to date",
			local:        "0.10.0",
			latest:       "0.10.0",
			expAvailable: false,
			expTarget:    "0.10.0",
		},
		{
			name:         "ahead of a prerelease",
			local:        "0.10.0",
			latest:       "0.10.0-rc1",
			expAvailable: false,
			expTarget:    "0.10.0",
		},
		{
			name:         "latest is a newer prerelease",
			local:        "0.9.0",
			latest:       "0.10.0-rc1",
			expAvailable: true,
			expTarget:    "0.10.0",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			version.Version = test.local

			client := &mocks.Client{}
			client.On("GetServiceVersion").Return(api.ServiceVersion{
				Version:          "unused",
				LatestCLIVersion: test.latest,
			}, nil)

			result, err := Check(client)
			assert.NoError(t, err)
			assert.Equal(t, test.expAvailable, result.UpdateAvailable())
			assert.Equal(t, test.expTarget, result.Target().String())
		})
	}
}

func TestCheckRejectsUnstampedBinary(t *testing.T) {
	version.Version = version.EmptyValue

	client := &mocks.Client{}
	_, err := Check(client)
	assert.Error(t, err)
	client.AssertNotCalled(t, "GetServiceVersion")
}

func TestTargetStripsMetadata(t *testing.T) {
	latest, err := goversion.NewVersion("0.12.1-rc2+build5")
	assert.NoError(t, err)
	local, err := goversion.NewVersion("0.12.0")
	assert.NoError(t, err)

	result := CheckResult{Local: local, Latest: latest}
	assert.Equal(t, "0.12.1", result.Target().String())
}
