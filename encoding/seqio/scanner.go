package seqio

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// ErrPartialQual is returned by a strict Scanner when the stream ends
// before a record's quality track reaches its sequence length.
var ErrPartialQual = errors.New("truncated quality track")

var errEOF = errors.New("eof")

// Scanner reads FASTA/FASTQ records from a stream.  The Scan method
// returns the next record, returning a boolean indicating whether the
// read succeeded.  Scanners are not threadsafe.
//
// Scanner is permissive: lines before the first header are discarded,
// record bodies may span any number of lines, and the end of a quality
// track is found by length (total quality length >= sequence length)
// rather than by an explicit terminator, so quality lines starting
// with '@' or '>' are handled correctly.
type Scanner struct {
	// Strict makes a quality track truncated by end of stream an
	// error (ErrPartialQual) instead of a degenerate final record.
	// It must be set before the first call to Scan.
	Strict bool

	b       *bufio.Scanner
	look    string
	hasLook bool
	err     error
}

// NewScanner constructs a new Scanner that reads raw FASTA or FASTQ
// data from the provided reader.
func NewScanner(r io.Reader) *Scanner {
	b := bufio.NewScanner(r)
	// Sequence and quality lines may be unwrapped; allow long ones.
	b.Buffer(nil, 64*1024*1024)
	return &Scanner{b: b}
}

// Scan the next record into the provided record.  Scan returns a
// boolean indicating whether the scan succeeded.  Once Scan returns
// false, it never returns true again.  Upon completion, the user
// should check the Err method to determine whether scanning stopped
// because of an error or because the end of the stream was reached.
func (s *Scanner) Scan(rec *Record) bool {
	if s.err != nil {
		return false
	}
	header, ok := s.findHeader()
	if !ok {
		return false
	}
	rec.Format = FASTA
	if header[0] == '@' {
		rec.Format = FASTQ
	}
	rec.Name, rec.Comment = splitHeader(header[1:])
	rec.Seq = ""
	rec.Qual = ""

	seq := strings.Builder{}
	inQual := false
	for {
		line, ok := s.next()
		if !ok {
			if s.err != errEOF {
				return false // read error, not end of stream
			}
			break // end of stream closes the record
		}
		if !inQual && len(line) > 0 {
			switch line[0] {
			case '>', '@':
				s.unread(line)
				rec.Seq = seq.String()
				return true
			case '+':
				inQual = true
				rec.Seq = seq.String()
				// The quality track is done once its length
				// reaches the sequence's, which for an empty
				// sequence is immediately.
				if rec.Seq == "" {
					return true
				}
				continue
			}
		}
		if inQual {
			rec.Qual += line
			if len(rec.Qual) >= len(rec.Seq) {
				return true
			}
			continue
		}
		seq.WriteString(line)
	}
	if !inQual {
		rec.Seq = seq.String()
	} else if s.Strict && len(rec.Qual) < len(rec.Seq) {
		s.err = ErrPartialQual
		return false
	}
	return true
}

// Err returns the scanning error, if any.
func (s *Scanner) Err() error {
	if s.err == errEOF {
		return nil
	}
	return s.err
}

// findHeader discards lines until one starts with a record marker,
// returning false at end of stream or on a read error.
func (s *Scanner) findHeader() (string, bool) {
	for {
		line, ok := s.next()
		if !ok {
			return "", false
		}
		if len(line) > 0 && (line[0] == '>' || line[0] == '@') {
			return line, true
		}
	}
}

// next returns the buffered lookahead line if one is held, else the
// next line of the stream.
func (s *Scanner) next() (string, bool) {
	if s.hasLook {
		s.hasLook = false
		return s.look, true
	}
	if !s.b.Scan() {
		if s.err = s.b.Err(); s.err == nil {
			s.err = errEOF
		}
		return "", false
	}
	return s.b.Text(), true
}

func (s *Scanner) unread(line string) {
	s.look = line
	s.hasLook = true
}

// splitHeader splits a header line (marker already removed) into its
// name and comment tokens.  Everything after the first whitespace run
// is the comment, which may itself contain spaces.
func splitHeader(h string) (name, comment string) {
	i := strings.IndexAny(h, " \t")
	if i < 0 {
		return h, ""
	}
	return h[:i], strings.TrimLeft(h[i+1:], " \t")
}
