// Package seqio contains code for streaming FASTA and FASTQ records.
// Both formats are line oriented and self describing: a record starts
// with a '>' (FASTA) or '@' (FASTQ) header line, followed by one or
// more sequence lines, and, for FASTQ, a '+' line and one or more
// quality lines.  Sequence and quality tracks may be wrapped at
// arbitrary widths; the two formats are distinguished from the first
// byte of the header alone.
package seqio

import "strings"

// Format identifies the record syntax of a sequence stream.
type Format int

const (
	// FASTA records carry no quality track and start with '>'.
	FASTA Format = iota
	// FASTQ records carry a quality track and start with '@'.
	FASTQ
)

// Marker returns the header marker byte for the format.
func (f Format) Marker() byte {
	if f == FASTQ {
		return '@'
	}
	return '>'
}

// A Record is one FASTA or FASTQ record.  Name is the first
// whitespace-delimited token of the header; Comment is the remainder
// of the header after the first whitespace run, or "" when the header
// has no second token.  Seq is the concatenation of all body lines.
// Qual is "" for FASTA records.
type Record struct {
	Name    string
	Comment string
	Seq     string
	Qual    string
	Format  Format
}

// Header returns the full header line for the record, including the
// leading format marker.
func (r *Record) Header() string {
	b := strings.Builder{}
	b.Grow(2 + len(r.Name) + len(r.Comment))
	b.WriteByte(r.Format.Marker())
	b.WriteString(r.Name)
	if r.Comment != "" {
		b.WriteByte(' ')
		b.WriteString(r.Comment)
	}
	return b.String()
}
