package gitrepo

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	schemeDelimiterConstant             = "://"
	userDelimiterConstant               = "@"
	scpPathDelimiterConstant            = ":"
	forwardSeparatorConstant            = "/"
	backwardSeparatorConstant           = `\`
	uncPrefixConstant                   = `\\`
	relativePathPrefixConstant          = "."
	homePathPrefixConstant              = "~"
	gitSuffixConstant                   = ".git"
	fileSchemeConstant                  = "file"
	sshSchemeConstant                   = "ssh"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	requiredValueMessageConstant        = "value required"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	unnameableURLMessageConstant        = "unnameable url"
	unnameableURLErrorTemplateConstant  = "%w: %s"
	windowsDriveLetterLengthConstant    = 2
)

// ErrUnnameableURL indicates no directory name can be derived from a URL.
var ErrUnnameableURL = errors.New(unnameableURLMessageConstant)

// RemoteURL is an immutable, validated remote repository location. Equality and ordering follow String.
type RemoteURL struct {
	canonical string
	scheme    string
	user      string
	host      string
	path      string
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// ParseRemoteURL converts a textual remote location into a RemoteURL. Accepted forms are scheme URLs
// (ssh://, https://, file://, ...), scp-like SSH addresses (git@host:group/name.git), and local paths
// including Windows drive and backslash paths.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	if strings.Contains(trimmedRemote, schemeDelimiterConstant) {
		return parseSchemeRemote(trimmedRemote)
	}
	if isLocalPath(trimmedRemote) {
		return RemoteURL{canonical: trimmedRemote, scheme: fileSchemeConstant, path: trimmedRemote}, nil
	}
	return parseSCPRemote(trimmedRemote)
}

// MustParseRemoteURL parses a remote location and panics when it is invalid. Intended for constants and tests.
func MustParseRemoteURL(remote string) RemoteURL {
	remoteURL, parseError := ParseRemoteURL(remote)
	if parseError != nil {
		panic(parseError)
	}
	return remoteURL
}

func parseSchemeRemote(remote string) (RemoteURL, error) {
	parsedURL, parseError := url.Parse(remote)
	if parseError != nil || len(parsedURL.Scheme) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	if parsedURL.Scheme != fileSchemeConstant && len(parsedURL.Host) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	var user string
	if parsedURL.User != nil {
		user = parsedURL.User.Username()
	}
	return RemoteURL{
		canonical: remote,
		scheme:    strings.ToLower(parsedURL.Scheme),
		user:      user,
		host:      parsedURL.Host,
		path:      parsedURL.Path,
	}, nil
}

func parseSCPRemote(remote string) (RemoteURL, error) {
	pathSplitIndex := strings.Index(remote, scpPathDelimiterConstant)
	if pathSplitIndex <= 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	userAndHost := remote[:pathSplitIndex]
	path := remote[pathSplitIndex+1:]
	if len(path) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	var user string
	host := userAndHost
	if userSplitIndex := strings.LastIndex(userAndHost, userDelimiterConstant); userSplitIndex != -1 {
		user = userAndHost[:userSplitIndex]
		host = userAndHost[userSplitIndex+1:]
	}
	if len(host) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	return RemoteURL{canonical: remote, scheme: sshSchemeConstant, user: user, host: host, path: path}, nil
}

func isLocalPath(remote string) bool {
	if strings.HasPrefix(remote, forwardSeparatorConstant) ||
		strings.HasPrefix(remote, uncPrefixConstant) ||
		strings.HasPrefix(remote, relativePathPrefixConstant) ||
		strings.HasPrefix(remote, homePathPrefixConstant) {
		return true
	}
	if hasWindowsDrivePrefix(remote) {
		return true
	}

	colonIndex := strings.Index(remote, scpPathDelimiterConstant)
	if colonIndex == -1 {
		return true
	}
	// A separator before the first colon means the colon belongs to a path segment.
	separatorIndex := strings.IndexAny(remote, forwardSeparatorConstant+backwardSeparatorConstant)
	return separatorIndex != -1 && separatorIndex < colonIndex
}

func hasWindowsDrivePrefix(remote string) bool {
	if len(remote) <= windowsDriveLetterLengthConstant {
		return false
	}
	driveLetter := remote[0]
	isLetter := (driveLetter >= 'a' && driveLetter <= 'z') || (driveLetter >= 'A' && driveLetter <= 'Z')
	if !isLetter || remote[1] != ':' {
		return false
	}
	separator := string(remote[2])
	return separator == forwardSeparatorConstant || separator == backwardSeparatorConstant
}

// String returns the canonical textual form.
func (remoteURL RemoteURL) String() string {
	return remoteURL.canonical
}

// Scheme reports the transport: ssh for scp-like addresses and file for local paths.
func (remoteURL RemoteURL) Scheme() string {
	return remoteURL.scheme
}

// User returns the user component, when present.
func (remoteURL RemoteURL) User() string {
	return remoteURL.user
}

// Host returns the host component; empty for local paths.
func (remoteURL RemoteURL) Host() string {
	return remoteURL.host
}

// Path returns the repository path component.
func (remoteURL RemoteURL) Path() string {
	return remoteURL.path
}

// Equal compares canonical forms.
func (remoteURL RemoteURL) Equal(other RemoteURL) bool {
	return remoteURL.canonical == other.canonical
}

// Compare orders URLs by canonical form.
func (remoteURL RemoteURL) Compare(other RemoteURL) int {
	return strings.Compare(remoteURL.canonical, other.canonical)
}

// MarshalText encodes the canonical form.
func (remoteURL RemoteURL) MarshalText() ([]byte, error) {
	return []byte(remoteURL.canonical), nil
}

// UnmarshalText parses the canonical form.
func (remoteURL *RemoteURL) UnmarshalText(text []byte) error {
	parsedURL, parseError := ParseRemoteURL(string(text))
	if parseError != nil {
		return parseError
	}
	*remoteURL = parsedURL
	return nil
}

// DirectoryName returns the directory a clone of this URL would create.
func (remoteURL RemoteURL) DirectoryName() (string, error) {
	directoryName := finalPathSegment(remoteURL.path)
	if len(directoryName) == 0 {
		return "", fmt.Errorf(unnameableURLErrorTemplateConstant, ErrUnnameableURL, remoteURL.canonical)
	}
	return directoryName, nil
}

// DeriveDirectoryName parses a URL or path and returns its final path segment without a trailing .git suffix.
func DeriveDirectoryName(remote string) (string, error) {
	remoteURL, parseError := ParseRemoteURL(remote)
	if parseError != nil {
		return "", fmt.Errorf(unnameableURLErrorTemplateConstant, ErrUnnameableURL, parseError.Error())
	}
	return remoteURL.DirectoryName()
}

func finalPathSegment(path string) string {
	trimmedPath := strings.TrimRight(path, forwardSeparatorConstant+backwardSeparatorConstant)
	if separatorIndex := strings.LastIndexAny(trimmedPath, forwardSeparatorConstant+backwardSeparatorConstant); separatorIndex != -1 {
		trimmedPath = trimmedPath[separatorIndex+1:]
	}
	if hasWindowsDrivePrefix(trimmedPath + backwardSeparatorConstant) {
		return ""
	}
	return strings.TrimSuffix(trimmedPath, gitSuffixConstant)
}
