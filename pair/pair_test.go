package pair

import (
	"bytes"
	"sort"
	"strings"
	"testing"

	"github.com/bioseqio/pairfq/encoding/seqio"
	"github.com/bioseqio/pairfq/store"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func newStore(t *testing.T, kind store.Kind, dir string) store.Store {
	t.Helper()
	s, err := store.Open(kind, dir)
	assert.NoError(t, err)
	return s
}

func runMakePairs(t *testing.T, s store.Store, fwd, rev string) (MakePairsStats, [4]string) {
	t.Helper()
	var out [4]bytes.Buffer
	st, err := MakePairs(strings.NewReader(fwd), strings.NewReader(rev),
		&out[0], &out[1], &out[2], &out[3], s, false)
	assert.NoError(t, err)
	assert.NoError(t, s.Destroy())
	return st, [4]string{out[0].String(), out[1].String(), out[2].String(), out[3].String()}
}

func runJoinPairs(t *testing.T, s store.Store, fwd, rev string) (JoinPairsStats, string) {
	t.Helper()
	out := bytes.Buffer{}
	st, err := JoinPairs(strings.NewReader(fwd), strings.NewReader(rev), &out, s, false)
	assert.NoError(t, err)
	assert.NoError(t, s.Destroy())
	return st, out.String()
}

// records splits a stream into one string per record, for comparing
// outputs whose record order is unspecified.
func records(t *testing.T, in string) []string {
	t.Helper()
	sc := seqio.NewScanner(strings.NewReader(in))
	w := bytes.Buffer{}
	var recs []string
	var r seqio.Record
	for sc.Scan(&r) {
		w.Reset()
		assert.NoError(t, seqio.NewWriter(&w).Write(&r))
		recs = append(recs, w.String())
	}
	assert.NoError(t, sc.Err())
	sort.Strings(recs)
	return recs
}

func TestJoinPairsMatch(t *testing.T) {
	st, out := runJoinPairs(t, newStore(t, store.Memory, ""),
		">r1/1\nACGT\n", ">r1/2\nTTTT\n")
	expect.EQ(t, out, ">r1/1\nACGT\n>r1/2\nTTTT\n")
	expect.EQ(t, st, JoinPairsStats{ForwardTotal: 1, ReverseTotal: 1, Pairs: 1})
}

func TestJoinPairsNoMatch(t *testing.T) {
	// Unmatched records on either side are dropped without notice.
	st, out := runJoinPairs(t, newStore(t, store.Memory, ""),
		">r1/1\nACGT\n", ">r2/2\nGGGG\n")
	expect.EQ(t, out, "")
	expect.EQ(t, st, JoinPairsStats{ForwardTotal: 1, ReverseTotal: 1, Pairs: 0})
}

func TestMakePairsNoMatch(t *testing.T) {
	st, out := runMakePairs(t, newStore(t, store.Memory, ""),
		">r1/1\nACGT\n", ">r2/2\nGGGG\n")
	expect.EQ(t, out[0], "")
	expect.EQ(t, out[1], "")
	expect.EQ(t, out[2], ">r1/1\nACGT\n")
	expect.EQ(t, out[3], ">r2/2\nGGGG\n")
	expect.EQ(t, st, MakePairsStats{
		ForwardTotal: 1, ReverseTotal: 1,
		ForwardSingleton: 1, ReverseSingleton: 1,
	})
}

func TestMakePairsPartition(t *testing.T) {
	fwd := ">r1/1\nAA\n>r2/1\nCC\n>r3/1\nGG\n"
	rev := ">r1/2\nTT\n>r3/2\nAA\n>r4/2\nCC\n"
	st, out := runMakePairs(t, newStore(t, store.Memory, ""), fwd, rev)

	expect.EQ(t, out[0], ">r1/1\nAA\n>r3/1\nGG\n")
	expect.EQ(t, out[1], ">r1/2\nTT\n>r3/2\nAA\n")
	expect.EQ(t, out[2], ">r2/1\nCC\n")
	expect.EQ(t, out[3], ">r4/2\nCC\n")

	expect.EQ(t, st.ForwardPaired, st.ReversePaired)
	expect.EQ(t, st.ForwardTotal, st.ForwardPaired+st.ForwardSingleton)
	expect.EQ(t, st.ReverseTotal, st.ReversePaired+st.ReverseSingleton)
	expect.EQ(t, st, MakePairsStats{
		ForwardTotal: 3, ReverseTotal: 3,
		ForwardPaired: 2, ReversePaired: 2,
		ForwardSingleton: 1, ReverseSingleton: 1,
	})
}

func TestMakePairsCommentHeaders(t *testing.T) {
	// Casava 1.8 style headers: the pair digit leads the comment, and
	// matched output regenerates "name 1comment" / "name 2comment".
	fwd := "@a:1:8 1:N:0:AT\nAC\n+\n!!\n@b:2:9 1:N:0:AT\nGG\n+\n##\n"
	rev := "@a:1:8 2:N:0:AT\nTT\n+\n$$\n"
	st, out := runMakePairs(t, newStore(t, store.Memory, ""), fwd, rev)

	expect.EQ(t, out[0], "@a:1:8 1:N:0:AT\nAC\n+\n!!\n")
	expect.EQ(t, out[1], "@a:1:8 2:N:0:AT\nTT\n+\n$$\n")
	expect.EQ(t, out[2], "@b:2:9 1:N:0:AT\nGG\n+\n##\n")
	expect.EQ(t, out[3], "")
	expect.EQ(t, st.ForwardPaired, 1)
	expect.EQ(t, st.ForwardSingleton, 1)
}

// MakePairs followed by JoinPairs on its paired outputs reproduces
// the paired subset as one interleaved stream, in input order.
func TestMakePairsJoinPairsRoundTrip(t *testing.T) {
	fwd := "@r1/1\nAC\n+\n!!\n@r2/1\nCC\n+\n##\n@r3/1\nGG\n+\n%%\n"
	rev := "@r1/2\nTT\n+\n&&\n@r3/2\nAA\n+\n((\n"
	_, out := runMakePairs(t, newStore(t, store.Memory, ""), fwd, rev)

	st, joined := runJoinPairs(t, newStore(t, store.Memory, ""), out[0], out[1])
	expect.EQ(t, st.Pairs, 2)
	expect.EQ(t, joined,
		"@r1/1\nAC\n+\n!!\n@r1/2\nTT\n+\n&&\n@r3/1\nGG\n+\n%%\n@r3/2\nAA\n+\n((\n")
}

func TestAnnotate(t *testing.T) {
	tests := []struct {
		in, want string
		pairNum  int
	}{
		// A FASTQ record round-trips unchanged except the header.
		{"@r1/1\nACGT\n+\n!!!!\n", "@r1/1\nACGT\n+\n!!!!\n", 1},
		{">a\nAC\n", ">a/2\nAC\n", 2},
		// Any prior suffix is replaced and the comment dropped; the
		// result always ends in the requested suffix.
		{"@x/2 1:N:0:AT\nAC\n+\n!!\n", "@x/1\nAC\n+\n!!\n", 1},
	}
	for _, test := range tests {
		out := bytes.Buffer{}
		st, err := Annotate(strings.NewReader(test.in), &out, test.pairNum, false)
		assert.NoError(t, err)
		expect.EQ(t, out.String(), test.want)
		expect.EQ(t, st.Records, 1)
	}
}

func TestAnnotateBadPairNum(t *testing.T) {
	_, err := Annotate(strings.NewReader(">a\nAC\n"), &bytes.Buffer{}, 3, false)
	expect.True(t, err != nil)
}

// SplitPairs recovers the original forward and reverse sets from an
// alternating interleaved stream.
func TestSplitPairsInverse(t *testing.T) {
	in := ">r1/1\nAA\n>r1/2\nTT\n>r2/1\nCC\n>r2/2\nGG\n"
	fwd, rev := bytes.Buffer{}, bytes.Buffer{}
	st, err := SplitPairs(strings.NewReader(in), &fwd, &rev, false)
	assert.NoError(t, err)
	expect.EQ(t, fwd.String(), ">r1/1\nAA\n>r2/1\nCC\n")
	expect.EQ(t, rev.String(), ">r1/2\nTT\n>r2/2\nGG\n")
	expect.EQ(t, st, SplitPairsStats{Forward: 2, Reverse: 2})
}

func TestSplitPairsClassification(t *testing.T) {
	in := "@a 1:N:0:AT\nAC\n+\n!!\n" + // comment says forward
		"@a 2:N:0:AT\nGG\n+\n##\n" + // comment says reverse
		"@odd/1 2:Y:0:AT\nTT\n+\n%%\n" + // forward: name and comment are ORed, forward side first
		">unclassifiable\nAA\n" // silently dropped
	fwd, rev := bytes.Buffer{}, bytes.Buffer{}
	st, err := SplitPairs(strings.NewReader(in), &fwd, &rev, false)
	assert.NoError(t, err)
	expect.EQ(t, fwd.String(), "@a 1:N:0:AT\nAC\n+\n!!\n@odd/1 2:Y:0:AT\nTT\n+\n%%\n")
	expect.EQ(t, rev.String(), "@a 2:N:0:AT\nGG\n+\n##\n")
	expect.EQ(t, st, SplitPairsStats{Forward: 2, Reverse: 1, Dropped: 1})
}

func TestNormalizeErrorAborts(t *testing.T) {
	// A header with no pairing information aborts the operation, not
	// just the record.
	s := newStore(t, store.Memory, "")
	defer s.Destroy()
	var out [4]bytes.Buffer
	_, err := MakePairs(strings.NewReader(">ok/1\nAA\n"), strings.NewReader(">bad\nTT\n"),
		&out[0], &out[1], &out[2], &out[3], s, false)
	expect.True(t, err != nil)
}

// The two store backends produce identical paired outputs; singleton
// outputs are order-free and compared as record sets.
func TestBackendEquivalence(t *testing.T) {
	fwd := "@r1/1\nAC\n+\n!!\n@r2/1\nCC\n+\n##\n@r5/1\nTG\n+\n**\n"
	rev := "@r1/2\nTT\n+\n&&\n@r3/2\nAA\n+\n((\n@r4/2\nGC\n+\n))\n"

	memSt, memOut := runMakePairs(t, newStore(t, store.Memory, ""), fwd, rev)
	diskSt, diskOut := runMakePairs(t, newStore(t, store.Disk, t.TempDir()), fwd, rev)

	expect.EQ(t, diskSt, memSt)
	expect.EQ(t, diskOut[0], memOut[0])
	expect.EQ(t, diskOut[1], memOut[1])
	expect.EQ(t, records(t, diskOut[2]), records(t, memOut[2]))
	expect.EQ(t, records(t, diskOut[3]), records(t, memOut[3]))
}
