package pair

import (
	"io"
	"strconv"

	"github.com/bioseqio/pairfq/encoding/seqio"
	"github.com/pkg/errors"
)

// AnnotateStats reports what Annotate saw.  Counters are purely
// observational.
type AnnotateStats struct {
	Records int
}

// Annotate rewrites every record name to end in "/1" or "/2",
// replacing any pair suffix already present, and re-emits the record
// in the format it was read in.  The comment, having no role once the
// pair number is on the name, is dropped.  Annotate is a pure
// streaming transform and needs no store.
func Annotate(in io.Reader, out io.Writer, pairNum int, strict bool) (AnnotateStats, error) {
	var stats AnnotateStats
	if pairNum != 1 && pairNum != 2 {
		return stats, errors.Errorf("pair number must be 1 or 2, got %d", pairNum)
	}
	suffix := "/" + strconv.Itoa(pairNum)
	sc := seqio.NewScanner(in)
	sc.Strict = strict
	w := seqio.NewWriter(out)
	var rec seqio.Record
	for sc.Scan(&rec) {
		rec.Name = stripPairSuffix(rec.Name) + suffix
		rec.Comment = ""
		if err := w.Write(&rec); err != nil {
			return stats, errors.Wrap(err, "writing annotated record")
		}
		stats.Records++
	}
	return stats, sc.Err()
}

// stripPairSuffix removes a trailing "/<digits>" from a name, if one
// is present.
func stripPairSuffix(name string) string {
	i := len(name) - 1
	for i >= 0 && name[i] >= '0' && name[i] <= '9' {
		i--
	}
	if i < 0 || i == len(name)-1 || name[i] != '/' {
		return name
	}
	return name[:i]
}
