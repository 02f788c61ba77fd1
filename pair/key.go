// Package pair implements read-pairing over FASTA/FASTQ record
// streams: re-annotating names with pair numbers, matching forward
// and reverse mates of the same fragment, interleaving matched pairs,
// and splitting an interleaved stream back apart.
//
// Two records are mates of the same fragment iff their normalized
// pair keys are byte-identical.  Pairing information is carried in a
// header either as a trailing "/1" or "/2" on the name, or as a
// leading decimal digit on the comment (Casava 1.8 style,
// "name 1:N:0:ATCACG").
package pair

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/bioseqio/pairfq/encoding/seqio"
	"github.com/pkg/errors"
)

// Sep joins the name and comment halves of a composite key, and the
// sequence and quality halves of a stored payload.  It is the ASCII
// record separator, which cannot occur in well-formed FASTA/FASTQ
// text; Normalize and encodePayload reject records containing it
// rather than risk an ambiguous encoding.
const Sep byte = 0x1e

// Normalize derives the pair key and pair indicator for a record.
// Keys are byte-exact: mates produce identical key bytes regardless
// of which header style carried the pairing information.  A header
// with neither a slash suffix nor a digit-leading comment is a format
// error, which aborts the whole operation.
func Normalize(r *seqio.Record) (key []byte, pairNum int, err error) {
	if strings.IndexByte(r.Name, Sep) >= 0 || strings.IndexByte(r.Comment, Sep) >= 0 {
		return nil, 0, errors.Errorf("%s: header contains reserved separator byte 0x%02x", r.Name, Sep)
	}
	if n := len(r.Name); n >= 2 && r.Name[n-2] == '/' && (r.Name[n-1] == '1' || r.Name[n-1] == '2') {
		return []byte(r.Name[:n-2]), int(r.Name[n-1] - '0'), nil
	}
	if r.Comment != "" && r.Comment[0] >= '0' && r.Comment[0] <= '9' {
		k := make([]byte, 0, len(r.Name)+1+len(r.Comment)-1)
		k = append(k, r.Name...)
		k = append(k, Sep)
		k = append(k, r.Comment[1:]...)
		return k, int(r.Comment[0] - '0'), nil
	}
	return nil, 0, errors.Errorf("%s: header carries no pairing information", r.Name)
}

// decodeKey reconstructs the header name and comment for mate pairNum
// of a key.  The key form tells which normalization branch produced
// it: keys containing Sep regenerate "name <digit>comment" headers,
// the rest regenerate "name/<digit>".
func decodeKey(key []byte, pairNum int) (name, comment string) {
	digit := strconv.Itoa(pairNum)
	if i := bytes.IndexByte(key, Sep); i >= 0 {
		return string(key[:i]), digit + string(key[i+1:])
	}
	return string(key) + "/" + digit, ""
}

// encodePayload packs a record's sequence, and quality if present,
// into a single store value.
func encodePayload(r *seqio.Record) ([]byte, error) {
	if strings.IndexByte(r.Seq, Sep) >= 0 || strings.IndexByte(r.Qual, Sep) >= 0 {
		return nil, errors.Errorf("%s: sequence contains reserved separator byte 0x%02x", r.Name, Sep)
	}
	if r.Format == seqio.FASTA {
		return []byte(r.Seq), nil
	}
	v := make([]byte, 0, len(r.Seq)+1+len(r.Qual))
	v = append(v, r.Seq...)
	v = append(v, Sep)
	v = append(v, r.Qual...)
	return v, nil
}

// recordFromEntry rebuilds the record for mate pairNum of a store
// entry.
func recordFromEntry(key, val []byte, pairNum int) seqio.Record {
	rec := seqio.Record{Format: seqio.FASTA}
	rec.Name, rec.Comment = decodeKey(key, pairNum)
	if i := bytes.IndexByte(val, Sep); i >= 0 {
		rec.Seq = string(val[:i])
		rec.Qual = string(val[i+1:])
		rec.Format = seqio.FASTQ
	} else {
		rec.Seq = string(val)
	}
	return rec
}

// reheader rewrites a record's header in place as mate pairNum of
// key, leaving sequence and quality untouched.
func reheader(r *seqio.Record, key []byte, pairNum int) {
	r.Name, r.Comment = decodeKey(key, pairNum)
}
