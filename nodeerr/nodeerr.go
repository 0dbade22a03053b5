// Package nodeerr defines the node-wide error taxonomy (spec section 7): every
// operation that can fail returns an error tagged with one of a fixed set of
// kinds plus a short diagnostic string, so callers can branch on kind without
// parsing messages.
package nodeerr

import "fmt"

type Kind string

const (
	// Network/transport.
	KindFailedToConnect       Kind = "FailedToConnect"
	KindHandshakeFailed       Kind = "HandshakeFailed"
	KindTcpStreamNotConnected Kind = "TcpStreamNotConnected"
	KindReadTimeout           Kind = "ReadTimeout"

	// Protocol/framing.
	KindCommandType    Kind = "CommandType"
	KindHeaderField    Kind = "HeaderField"
	KindInvalidSize    Kind = "InvalidSize"
	KindInvalidFormat  Kind = "InvalidFormat"
	KindObjectNotFound Kind = "ObjectNotFound"

	// Consensus/validation.
	KindInvalidProofOfWork Kind = "InvalidProofOfWork"
	KindInvalidMerkleRoot  Kind = "InvalidMerkleRoot"
	KindInvalidMerkleTree  Kind = "InvalidMerkleTree"

	// Storage.
	KindFailedToOpen      Kind = "FailedToOpen"
	KindFailedToRead      Kind = "FailedToRead"
	KindFailedToWrite     Kind = "FailedToWrite"
	KindFailedToWriteAll  Kind = "FailedToWriteAll"
	KindFailedToSeek      Kind = "FailedToSeek"
	KindFailedToCreate    Kind = "FailedToCreate"
	KindAlreadyDownloaded Kind = "AlreadyDownloaded"

	// Configuration.
	KindMissingEnvVar Kind = "MissingEnvVar"
	KindMalformedEnv  Kind = "MalformedEnv"

	// Wallet/signing.
	KindSigningError    Kind = "SigningError"
	KindNotEnoughCoins  Kind = "NotEnoughCoins"
	KindNotP2PKH        Kind = "NotP2PKH"
	KindAccountNotFound Kind = "AccountNotFound"

	// Concurrency.
	KindFailedToCreateThread Kind = "FailedToCreateThread"
	KindFailedToJoinThread   Kind = "FailedToJoinThread"
	KindPoisonedMutex        Kind = "PoisonedMutex"
)

// Error is the single error type used across the node. It carries a Kind for
// programmatic branching and a short human-readable Msg.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // optional wrapped cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	if e.Msg == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an *Error with no wrapped cause.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap constructs an *Error that wraps an underlying cause.
func Wrap(kind Kind, msg string, cause error) error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// Is reports whether err (or anything it wraps) is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if ae, ok := err.(*Error); ok {
			e = ae
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return e != nil && e.Kind == kind
}
