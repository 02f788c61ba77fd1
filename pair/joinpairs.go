package pair

import (
	"io"

	"github.com/bioseqio/pairfq/encoding/seqio"
	"github.com/bioseqio/pairfq/store"
	"github.com/pkg/errors"
)

// JoinPairsStats reports what JoinPairs saw and emitted.
type JoinPairsStats struct {
	ForwardTotal int
	ReverseTotal int
	Pairs        int
}

// JoinPairs interleaves matched mates from a forward and a reverse
// read set onto one output, each forward record immediately followed
// by its reverse mate.  The forward set is drained into s; the
// reverse set is then streamed past it.  Records on either side
// without a mate are dropped without notice: unlike MakePairs there
// is no singleton output and no residual scan.  The caller owns s and
// must destroy it on every exit path.
func JoinPairs(fwd, rev io.Reader, out io.Writer, s store.Store, strict bool) (JoinPairsStats, error) {
	var stats JoinPairsStats

	fwdScan := seqio.NewScanner(fwd)
	fwdScan.Strict = strict
	var rec seqio.Record
	for fwdScan.Scan(&rec) {
		stats.ForwardTotal++
		key, _, err := Normalize(&rec)
		if err != nil {
			return stats, errors.Wrap(err, "forward input")
		}
		val, err := encodePayload(&rec)
		if err != nil {
			return stats, errors.Wrap(err, "forward input")
		}
		if err := s.Insert(key, val); err != nil {
			return stats, errors.Wrap(err, "storing forward record")
		}
	}
	if err := fwdScan.Err(); err != nil {
		return stats, errors.Wrap(err, "reading forward input")
	}

	w := seqio.NewWriter(out)
	revScan := seqio.NewScanner(rev)
	revScan.Strict = strict
	for revScan.Scan(&rec) {
		stats.ReverseTotal++
		key, _, err := Normalize(&rec)
		if err != nil {
			return stats, errors.Wrap(err, "reverse input")
		}
		val, found, err := s.Remove(key)
		if err != nil {
			return stats, errors.Wrap(err, "probing store")
		}
		if !found {
			continue
		}
		mate := recordFromEntry(key, val, 1)
		reheader(&rec, key, 2)
		if err := w.Write(&mate); err != nil {
			return stats, errors.Wrap(err, "writing interleaved pair")
		}
		if err := w.Write(&rec); err != nil {
			return stats, errors.Wrap(err, "writing interleaved pair")
		}
		stats.Pairs++
	}
	if err := revScan.Err(); err != nil {
		return stats, errors.Wrap(err, "reading reverse input")
	}
	return stats, nil
}
