package policy

import (
	"path"
	"strings"

	"github.com/stowage-dev/stowage/pkg/errors"
)

// UploadStrategy controls when a mount's local files are persisted into its
// context.
type UploadStrategy string

// UploadBeforeResourceRelease uploads the mount's files right before the
// session's resources are released.
const UploadBeforeResourceRelease UploadStrategy = "UploadBeforeResourceRelease"

// UploadMode controls the shape of the persisted data.
type UploadMode string

const (
	// UploadFile persists each file individually.
	UploadFile UploadMode = "File"

	// UploadArchive compresses the mount's files into a single archive
	// artifact before transfer.
	UploadArchive UploadMode = "Archive"
)

// DownloadStrategy controls how persisted data is restored into a session.
type DownloadStrategy string

// DownloadAsync restores files in the background while the session boots.
const DownloadAsync DownloadStrategy = "DownloadAsync"

// Lifecycle is the time-to-live applied to paths under a mount.
type Lifecycle string

// The lifecycles accepted by the service. Anything else is rejected
// server-side, so there's no point validating the set client-side as well.
const (
	Lifecycle1Day    Lifecycle = "1Day"
	Lifecycle3Days   Lifecycle = "3Days"
	Lifecycle5Days   Lifecycle = "5Days"
	Lifecycle10Days  Lifecycle = "10Days"
	Lifecycle15Days  Lifecycle = "15Days"
	Lifecycle30Days  Lifecycle = "30Days"
	Lifecycle90Days  Lifecycle = "90Days"
	Lifecycle180Days Lifecycle = "180Days"
	Lifecycle360Days Lifecycle = "360Days"
	LifecycleForever Lifecycle = "Forever"
)

// WholeMount is the RecyclePolicy path meaning "the entire mount".
const WholeMount = ""

// UploadPolicy controls whether and how a mount's files are uploaded.
type UploadPolicy struct {
	AutoUpload bool           `json:"autoUpload"`
	Strategy   UploadStrategy `json:"strategy"`
	Mode       UploadMode     `json:"mode"`
}

// NewUploadPolicy returns the default upload policy: automatic upload of
// individual files before resource release.
func NewUploadPolicy() *UploadPolicy {
	return &UploadPolicy{
		AutoUpload: true,
		Strategy:   UploadBeforeResourceRelease,
		Mode:       UploadFile,
	}
}

// DownloadPolicy controls whether and how persisted files are restored.
type DownloadPolicy struct {
	AutoDownload bool             `json:"autoDownload"`
	Strategy     DownloadStrategy `json:"strategy"`
}

// NewDownloadPolicy returns the default download policy: automatic
// asynchronous restore.
func NewDownloadPolicy() *DownloadPolicy {
	return &DownloadPolicy{
		AutoDownload: true,
		Strategy:     DownloadAsync,
	}
}

// DeletePolicy controls whether local deletions propagate to the durable
// copy.
type DeletePolicy struct {
	SyncLocalFile bool `json:"syncLocalFile"`
}

// NewDeletePolicy returns the default delete policy: deletions propagate.
func NewDeletePolicy() *DeletePolicy {
	return &DeletePolicy{SyncLocalFile: true}
}

// ExtractPolicy governs decompression of archive artifacts on download.
type ExtractPolicy struct {
	Extract              bool `json:"extract"`
	DeleteSrcFile        bool `json:"deleteSrcFile"`
	ExtractCurrentFolder bool `json:"extractCurrentFolder"`
}

// NewExtractPolicy returns the default extract policy: extract archives and
// delete the archive artifact afterwards.
func NewExtractPolicy() *ExtractPolicy {
	return &ExtractPolicy{
		Extract:       true,
		DeleteSrcFile: true,
	}
}

// RecyclePolicy applies a time-to-live to relative paths under the mount.
type RecyclePolicy struct {
	Lifecycle Lifecycle `json:"lifecycle"`
	Paths     []string  `json:"paths"`
}

// NewRecyclePolicy returns the default recycle policy: keep the whole mount
// forever.
func NewRecyclePolicy() *RecyclePolicy {
	return &RecyclePolicy{
		Lifecycle: LifecycleForever,
		Paths:     []string{WholeMount},
	}
}

func (p RecyclePolicy) validate() error {
	for _, recyclePath := range p.Paths {
		// The server silently no-ops on glob patterns, so reject them here
		// where the user can see the error.
		if strings.ContainsAny(recyclePath, "*?[]") {
			return errors.NewValidationError(
				"recycle path %q contains wildcard characters. "+
					"Recycle paths must be literal paths relative to the mount",
				recyclePath)
		}
	}
	return nil
}

// MappingPolicy populates the mount from data originally written at Path in
// a different session, enabling cross-environment data porting. The
// indirection is resolved entirely server-side; the client only validates
// that it's well-formed and passes it through.
type MappingPolicy struct {
	Path string `json:"path"`
}

func (p MappingPolicy) validate() error {
	if p.Path == "" || !path.IsAbs(p.Path) {
		return errors.NewValidationError(
			"mapping path %q must be a non-empty absolute path", p.Path)
	}
	return nil
}

// AllowEntry restricts sync to a subpath of the mount, minus any excluded
// subpaths.
type AllowEntry struct {
	Path         string   `json:"path"`
	ExcludePaths []string `json:"excludePaths,omitempty"`
}

// AllowList restricts which subpaths of the mount participate in sync.
type AllowList struct {
	Entries []AllowEntry `json:"entries"`
}

// SyncPolicy is the composite configuration governing one mount. Every
// sub-policy is optional; a nil sub-policy means the server applies the
// documented default (the value returned by the corresponding New*Policy
// constructor).
type SyncPolicy struct {
	Upload   *UploadPolicy   `json:"uploadPolicy,omitempty"`
	Download *DownloadPolicy `json:"downloadPolicy,omitempty"`
	Delete   *DeletePolicy   `json:"deletePolicy,omitempty"`
	Extract  *ExtractPolicy  `json:"extractPolicy,omitempty"`
	Recycle  *RecyclePolicy  `json:"recyclePolicy,omitempty"`
	Mapping  *MappingPolicy  `json:"mappingPolicy,omitempty"`
	Allow    *AllowList      `json:"allowList,omitempty"`
}

// Default returns the sync policy with every sub-policy explicitly set to
// its default. An empty SyncPolicy behaves identically; Default is for
// callers who want to tweak one field of an otherwise default policy.
func Default() SyncPolicy {
	return SyncPolicy{
		Upload:   NewUploadPolicy(),
		Download: NewDownloadPolicy(),
		Delete:   NewDeletePolicy(),
		Extract:  NewExtractPolicy(),
		Recycle:  NewRecyclePolicy(),
	}
}

// Validate checks the set sub-policies. Composing a SyncPolicy never fails
// on missing sub-policies, only on malformed ones.
func (p SyncPolicy) Validate() error {
	if p.Recycle != nil {
		if err := p.Recycle.validate(); err != nil {
			return err
		}
	}
	if p.Mapping != nil {
		if err := p.Mapping.validate(); err != nil {
			return err
		}
	}
	return nil
}
