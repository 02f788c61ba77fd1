package pair

import (
	"io"

	"github.com/bioseqio/pairfq/encoding/seqio"
	"github.com/bioseqio/pairfq/store"
	"github.com/pkg/errors"
)

// MakePairsStats reports the partition MakePairs produced.  Paired
// counts are always equal; singleton counts need not be, and
// ForwardTotal == ForwardPaired + ForwardSingleton (likewise for the
// reverse side).
type MakePairsStats struct {
	ForwardTotal     int
	ReverseTotal     int
	ForwardPaired    int
	ReversePaired    int
	ForwardSingleton int
	ReverseSingleton int
}

// MakePairs partitions a forward and a reverse read set into paired
// and singleton outputs.  The reverse set is drained into s keyed by
// normalized pair key; the forward set is then streamed past it,
// emitting each matched pair (forward as mate 1, reconstructed
// reverse as mate 2) and deferring unmatched forward records to the
// forward-singleton output.  Entries left in s afterwards are the
// reverse singletons.  The caller owns s and must destroy it on every
// exit path.
func MakePairs(fwd, rev io.Reader, fwdPaired, revPaired, fwdOrphan, revOrphan io.Writer, s store.Store, strict bool) (MakePairsStats, error) {
	var stats MakePairsStats

	revScan := seqio.NewScanner(rev)
	revScan.Strict = strict
	var rec seqio.Record
	for revScan.Scan(&rec) {
		stats.ReverseTotal++
		key, _, err := Normalize(&rec)
		if err != nil {
			return stats, errors.Wrap(err, "reverse input")
		}
		val, err := encodePayload(&rec)
		if err != nil {
			return stats, errors.Wrap(err, "reverse input")
		}
		if err := s.Insert(key, val); err != nil {
			return stats, errors.Wrap(err, "storing reverse record")
		}
	}
	if err := revScan.Err(); err != nil {
		return stats, errors.Wrap(err, "reading reverse input")
	}

	pairedF := seqio.NewWriter(fwdPaired)
	pairedR := seqio.NewWriter(revPaired)
	orphanF := seqio.NewWriter(fwdOrphan)
	fwdScan := seqio.NewScanner(fwd)
	fwdScan.Strict = strict
	for fwdScan.Scan(&rec) {
		stats.ForwardTotal++
		key, _, err := Normalize(&rec)
		if err != nil {
			return stats, errors.Wrap(err, "forward input")
		}
		val, found, err := s.Remove(key)
		if err != nil {
			return stats, errors.Wrap(err, "probing store")
		}
		reheader(&rec, key, 1)
		if found {
			mate := recordFromEntry(key, val, 2)
			if err := pairedF.Write(&rec); err != nil {
				return stats, errors.Wrap(err, "writing forward paired record")
			}
			if err := pairedR.Write(&mate); err != nil {
				return stats, errors.Wrap(err, "writing reverse paired record")
			}
			stats.ForwardPaired++
			stats.ReversePaired++
			continue
		}
		if err := orphanF.Write(&rec); err != nil {
			return stats, errors.Wrap(err, "writing forward singleton")
		}
		stats.ForwardSingleton++
	}
	if err := fwdScan.Err(); err != nil {
		return stats, errors.Wrap(err, "reading forward input")
	}

	orphanR := seqio.NewWriter(revOrphan)
	err := s.Scan(func(key, val []byte) error {
		mate := recordFromEntry(key, val, 2)
		stats.ReverseSingleton++
		return orphanR.Write(&mate)
	})
	if err != nil {
		return stats, errors.Wrap(err, "writing reverse singletons")
	}
	return stats, nil
}
