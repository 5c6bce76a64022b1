package upgradecli

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"runtime"
	"syscall"

	goversion "github.com/hashicorp/go-version"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/stowage-dev/stowage/cmd/util"
	"github.com/stowage-dev/stowage/pkg/errors"
	"github.com/stowage-dev/stowage/pkg/update"
)

var (
	endpoint  = "https://releases.stowage.dev"
	fileParam = "stowage"
	osToParam = map[string]string{
		"darwin": "osx",
		"linux":  "linux",
	}
	fs = afero.NewOsFs()
)

// Token is the token used to download the release. It's set at compilation
// time so that CI can use a token that doesn't affect our analytics.
var Token string

// New creates a new `upgrade-cli` command.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade-cli",
		Short: "Upgrade the local CLI binary to the latest release",
		Long: "Upgrade the local Stowage CLI binary to the latest release " +
			"published by the Stowage service. Also allows the CLI to be " +
			"downgraded if the published release is at a lower version.",
		Run: func(_ *cobra.Command, _ []string) {
			if err := run(); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
}

func run() error {
	client, err := util.GetClient()
	if err != nil {
		return err
	}

	pp := util.NewProgressPrinter(os.Stdout, "Checking for updates to the Stowage CLI..")
	go pp.Run()
	check, err := update.Check(client)
	pp.Stop()
	if err != nil {
		return errors.WithContext(err, "check for updates")
	}

	fmt.Printf("Your Stowage CLI is at version: %s\n", check.Local.String())
	fmt.Printf("The latest published release is: %s\n\n", check.Latest.String())

	targetVersion, shouldInstall, err := promptShouldInstall(check)
	if err != nil {
		return errors.WithContext(err, "prompt")
	} else if !shouldInstall {
		return nil
	}

	pp = util.NewProgressPrinter(os.Stdout, fmt.Sprintf(
		"Downloading Stowage release: %s", targetVersion.String()))
	go pp.Run()
	err = downloadRelease(targetVersion)
	pp.Stop()
	if err != nil {
		return errors.WithContext(err, "download release")
	}
	fmt.Println("Release successfully downloaded.")
	fmt.Println()

	installedPath, writableByUser, err := getInstalledPath()
	if err != nil {
		return errors.WithContext(err, "get installed path")
	}

	command := fmt.Sprintf("cp ./stowage %s", installedPath)
	if !writableByUser {
		command = "sudo " + command
	}

	fmt.Printf("Stowage has been downloaded to the current working directory.\n"+
		"Please execute the following command in your shell to install it:\n\n"+
		"\t %s \n\n", command)

	return nil
}

func getInstalledPath() (string, bool, error) {
	path, err := os.Executable()
	if err != nil {
		return "", false, errors.WithContext(err, "get executable path")
	}

	// Resolve path with symlinks
	path, err = resolveLinks(path)
	if err != nil {
		return "", false, errors.WithContext(err, "resolve links")
	}

	isWritable, err := checkWritable(path)
	if err != nil {
		return "", false, errors.WithContext(err, "check permissions")
	}

	return path, isWritable, nil
}

// downloadRelease downloads the specified version of the CLI and stores the
// binary in the current working directory.
func downloadRelease(targetVersion *goversion.Version) error {
	osParam, ok := osToParam[runtime.GOOS]
	if !ok {
		return errors.New("invalid OS")
	}

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return errors.WithContext(err, "new request")
	}

	q := req.URL.Query()
	q.Add("release", targetVersion.String())
	q.Add("file", fileParam)
	q.Add("token", Token)
	q.Add("os", osParam)
	req.URL.RawQuery = q.Encode()

	resp, err := http.Get(req.URL.String())
	if err != nil {
		return errors.WithContext(err, "get")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server responded with %s", resp.Status)
	}

	ctype := resp.Header.Get("Content-Type")
	if !(ctype == "application/x-gzip" || ctype == "application/gzip") {
		return fmt.Errorf("incorrect content-type: %s", ctype)
	}

	err = extractRelease(resp.Body)
	if err != nil {
		return errors.WithContext(err, "extract file")
	}

	return nil
}

// extractRelease takes a .tar.gz Reader, and extracts the Stowage binary to
// the current working directory.
func extractRelease(src io.Reader) error {
	gzr, err := gzip.NewReader(src)
	if err != nil {
		return errors.WithContext(err, "new gzip reader")
	}
	defer gzr.Close()

	tr := tar.NewReader(gzr)

	// Search for a header for a file named "stowage" in the tar archive.
	var header *tar.Header
	for {
		header, err = tr.Next()

		switch {
		case err == io.EOF:
			return errors.WithContext(err, "find stowage in tar")
		case err != nil:
			return errors.WithContext(err, "read tar header")
		case header == nil:
			continue
		}

		if header.Typeflag == tar.TypeReg && header.Name == "stowage" {
			break
		}
	}

	dir, err := os.Getwd()
	if err != nil {
		return errors.WithContext(err, "get working dir")
	}
	dPath := path.Join(dir, "stowage")
	file, err := fs.OpenFile(dPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, os.FileMode(header.Mode))
	if err != nil {
		return errors.WithContext(err, "create path")
	}
	defer file.Close()

	_, err = io.Copy(file, tr)
	if err != nil {
		return errors.WithContext(err, "io copy")
	}

	return nil
}

func promptShouldInstall(check update.CheckResult) (*goversion.Version, bool, error) {
	if check.Local.Equal(check.Latest) {
		fmt.Println("Your CLI is already up to date.")
		return nil, false, nil
	}

	// Only stable releases are published for download, so strip prerelease
	// and metadata information from the target.
	targetVersion := check.Target()

	var term string
	if check.Local.LessThan(check.Latest) {
		fmt.Println("Your CLI version is behind the latest release.")
		term = "upgrade"
	} else if check.Local.GreaterThan(check.Latest) {
		fmt.Println("Your CLI version is ahead of the latest release.")

		// This check is so developers (-dev-.*) aren't prompted to downgrade
		// to the exact same version if the latest release is a prerelease.
		if check.Local.Equal(targetVersion) {
			fmt.Println("However, there is no update since you are on the stable release.")
			return nil, false, nil
		}

		fmt.Println("You may downgrade to the published release.")
		term = "downgrade"
	}

	doUpgrade, err := util.PromptYesOrNo(fmt.Sprintf("Would you like to "+term+
		" to release %s?", targetVersion.String()))
	if err != nil {
		return nil, false, errors.WithContext(err, "prompt")
	}

	return targetVersion, doUpgrade, nil
}

// resolveLinks takes a path and resolves symlinks up to a depth of 5.
func resolveLinks(path string) (string, error) {
	maxDepth := 5

	for i := 0; i < maxDepth; i++ {
		info, err := os.Lstat(path)
		if err != nil {
			return "", errors.WithContext(err, "get lstat")
		}

		if info.Mode()&os.ModeSymlink == 0 {
			return path, nil
		}

		path, err = os.Readlink(path)
		if err != nil {
			return "", errors.WithContext(err, "follow link")
		}
	}

	return "", errors.New("maximum symlink traversal depth exceeded")
}

// checkWritable returns true if the user has write permissions to the file.
// This is Unix-only due to syscall dependency.
func checkWritable(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	uid := os.Getuid()
	uGids, err := os.Getgroups()
	if err != nil {
		return false, err
	}
	fStat, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return false, errors.New("couldn't get stat_t")
	}
	mode := fi.Mode()

	writable := isWritable(mode, fStat, uid, uGids)
	return writable, nil
}

func isWritable(fMode os.FileMode, fStat *syscall.Stat_t, uid int, uGids []int) bool {
	// Check if user owns the file (uids are equal) and has write permission
	// The permissions check is done by bit-shifting a `1` to the correct
	// position in `rwxrwxrwx` and performing an AND.
	if fStat.Uid == uint32(uid) {
		return fMode&(1<<7) != 0
	}

	// Check if group has write permissions and user is in group.
	fileGID := fStat.Gid
	for _, gid := range uGids {
		if uint32(gid) == fileGID {
			return fMode&(1<<4) != 0
		}
	}

	// Check if all others have write permissions.
	return fMode&(1<<1) != 0
}
