package shared

import "errors"

// RemoteSyncDirection selects which side wins when reconciling declared and live remotes.
type RemoteSyncDirection int

const (
	// RemoteSyncRead replaces declared remotes with the live remotes of each working copy.
	RemoteSyncRead RemoteSyncDirection = iota + 1
	// RemoteSyncWrite adds declared remotes missing from each working copy.
	RemoteSyncWrite
)

const (
	remoteSyncDirectionMissingMessageConstant   = "choose exactly one of --read-remotes or --write-remotes"
	remoteSyncDirectionReadLabelConstant        = "read"
	remoteSyncDirectionWriteLabelConstant       = "write"
	remoteSyncDirectionUnspecifiedLabelConstant = "unspecified"
)

// ErrRemoteSyncDirectionRequired indicates neither or both sync directions were requested.
var ErrRemoteSyncDirectionRequired = errors.New(remoteSyncDirectionMissingMessageConstant)

// RemoteSyncDirectionFromFlags converts the mutually exclusive sync flags into a direction.
func RemoteSyncDirectionFromFlags(readRemotes bool, writeRemotes bool) (RemoteSyncDirection, error) {
	switch {
	case readRemotes && !writeRemotes:
		return RemoteSyncRead, nil
	case writeRemotes && !readRemotes:
		return RemoteSyncWrite, nil
	default:
		return 0, ErrRemoteSyncDirectionRequired
	}
}

// String names the direction.
func (direction RemoteSyncDirection) String() string {
	switch direction {
	case RemoteSyncRead:
		return remoteSyncDirectionReadLabelConstant
	case RemoteSyncWrite:
		return remoteSyncDirectionWriteLabelConstant
	default:
		return remoteSyncDirectionUnspecifiedLabelConstant
	}
}
