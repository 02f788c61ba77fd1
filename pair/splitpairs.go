package pair

import (
	"io"
	"strings"

	"github.com/bioseqio/pairfq/encoding/seqio"
	"github.com/pkg/errors"
)

// SplitPairsStats reports the classification SplitPairs produced.
type SplitPairsStats struct {
	Forward int
	Reverse int
	Dropped int
}

// SplitPairs de-interleaves one stream onto forward and reverse
// outputs.  A record goes forward when its comment starts with '1' or
// its name ends in "/1", reverse when its comment starts with '2' or
// its name ends in "/2"; the forward test runs first.  Records
// matching neither pattern are dropped without notice (counted in
// Dropped).  Headers are re-emitted as read.  Pure streaming
// classification, no store.
func SplitPairs(in io.Reader, fwd, rev io.Writer, strict bool) (SplitPairsStats, error) {
	var stats SplitPairsStats
	sc := seqio.NewScanner(in)
	sc.Strict = strict
	fw := seqio.NewWriter(fwd)
	rw := seqio.NewWriter(rev)
	var rec seqio.Record
	for sc.Scan(&rec) {
		switch {
		case strings.HasPrefix(rec.Comment, "1") || strings.HasSuffix(rec.Name, "/1"):
			if err := fw.Write(&rec); err != nil {
				return stats, errors.Wrap(err, "writing forward record")
			}
			stats.Forward++
		case strings.HasPrefix(rec.Comment, "2") || strings.HasSuffix(rec.Name, "/2"):
			if err := rw.Write(&rec); err != nil {
				return stats, errors.Wrap(err, "writing reverse record")
			}
			stats.Reverse++
		default:
			stats.Dropped++
		}
	}
	return stats, sc.Err()
}
