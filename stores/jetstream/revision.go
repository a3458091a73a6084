package jetstream

import (
	"encoding/binary"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"

	"github.com/weegigs/wee-ledger-go/we"
)

// Revisions are ULIDs timed by the message with the stream sequence in the
// low bytes of the entropy, so they order the way the stream does.

func revisionOf(msg *nats.RawStreamMsg) (we.Revision, error) {
	return encodeRevision(msg.Time, msg.Sequence)
}

func encodeRevision(t time.Time, sequence uint64) (we.Revision, error) {
	var id ulid.ULID
	if err := id.SetTime(ulid.Timestamp(t)); err != nil {
		return "", errors.Wrap(err, "invalid message time")
	}

	var entropy [10]byte
	binary.BigEndian.PutUint64(entropy[2:], sequence)
	if err := id.SetEntropy(entropy[:]); err != nil {
		return "", err
	}

	return we.Revision(id.String()), nil
}

// SequenceOf returns the stream sequence a revision was issued for.
func SequenceOf(revision we.Revision) (uint64, error) {
	id, err := ulid.ParseStrict(revision.String())
	if err != nil {
		return 0, errors.Wrapf(err, "invalid revision %q", revision)
	}

	return binary.BigEndian.Uint64(id.Entropy()[2:]), nil
}
