package pair

import (
	"strings"
	"testing"

	"github.com/bioseqio/pairfq/encoding/seqio"
	"github.com/grailbio/testutil/expect"
)

func TestNormalizeSlash(t *testing.T) {
	key, n, err := Normalize(&seqio.Record{Name: "frag9/1"})
	expect.NoError(t, err)
	expect.EQ(t, string(key), "frag9")
	expect.EQ(t, n, 1)

	// The comment is irrelevant to slash-style keying.
	key, n, err = Normalize(&seqio.Record{Name: "frag9/2", Comment: "len=76"})
	expect.NoError(t, err)
	expect.EQ(t, string(key), "frag9")
	expect.EQ(t, n, 2)
}

func TestNormalizeComment(t *testing.T) {
	key, n, err := Normalize(&seqio.Record{Name: "M1:14:000:8", Comment: "2:N:0:ATCACG"})
	expect.NoError(t, err)
	expect.EQ(t, string(key), "M1:14:000:8"+string(Sep)+":N:0:ATCACG")
	expect.EQ(t, n, 2)

	// Mates normalize to byte-identical keys.
	key2, n2, err := Normalize(&seqio.Record{Name: "M1:14:000:8", Comment: "1:N:0:ATCACG"})
	expect.NoError(t, err)
	expect.EQ(t, string(key2), string(key))
	expect.EQ(t, n2, 1)
}

func TestNormalizeErrors(t *testing.T) {
	_, _, err := Normalize(&seqio.Record{Name: "noinfo"})
	expect.True(t, err != nil && strings.Contains(err.Error(), "no pairing information"))

	_, _, err = Normalize(&seqio.Record{Name: "r1", Comment: "N:0:ATC"})
	expect.True(t, err != nil && strings.Contains(err.Error(), "no pairing information"))

	_, _, err = Normalize(&seqio.Record{Name: "bad" + string(Sep) + "name/1"})
	expect.True(t, err != nil && strings.Contains(err.Error(), "reserved separator"))
}

func TestDecodeKey(t *testing.T) {
	name, comment := decodeKey([]byte("frag9"), 1)
	expect.EQ(t, name, "frag9/1")
	expect.EQ(t, comment, "")

	name, comment = decodeKey([]byte("M1"+string(Sep)+":N:0:AT"), 2)
	expect.EQ(t, name, "M1")
	expect.EQ(t, comment, "2:N:0:AT")
}

func TestPayloadRoundTrip(t *testing.T) {
	fa := seqio.Record{Name: "a/2", Seq: "ACGT", Format: seqio.FASTA}
	v, err := encodePayload(&fa)
	expect.NoError(t, err)
	got := recordFromEntry([]byte("a"), v, 2)
	expect.EQ(t, got, seqio.Record{Name: "a/2", Seq: "ACGT", Format: seqio.FASTA})

	fq := seqio.Record{Name: "b/1", Seq: "AC", Qual: "!#", Format: seqio.FASTQ}
	v, err = encodePayload(&fq)
	expect.NoError(t, err)
	got = recordFromEntry([]byte("b"), v, 1)
	expect.EQ(t, got, seqio.Record{Name: "b/1", Seq: "AC", Qual: "!#", Format: seqio.FASTQ})
}

func TestStripPairSuffix(t *testing.T) {
	for _, test := range []struct{ in, want string }{
		{"r1/1", "r1"},
		{"r1/2", "r1"},
		{"r1/12", "r1"},
		{"r1", "r1"},
		{"r1/", "r1/"},
		{"r1/x1", "r1/x1"},
	} {
		expect.EQ(t, stripPairSuffix(test.in), test.want)
	}
}
