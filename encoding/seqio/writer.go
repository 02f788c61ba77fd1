package seqio

import "io"

var newline = []byte{'\n'}

// Writer is a FASTA/FASTQ record writer.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter constructs a new Writer that writes records to the
// underlying writer w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes the record r in its own format, unwrapped (one
// sequence line, one quality line).  An error is returned if the
// write failed.
func (w *Writer) Write(r *Record) error {
	w.writeln(r.Header())
	w.writeln(r.Seq)
	if r.Format == FASTQ {
		w.writeln("+")
		w.writeln(r.Qual)
	}
	return w.err
}

func (w *Writer) writeln(line string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, line)
	if w.err == nil {
		_, w.err = w.w.Write(newline)
	}
}
