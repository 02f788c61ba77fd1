package main

/*
pairfq re-associates paired sequence reads that were separated by
upstream processing (quality trimming, adapter removal) and converts
between separated and interleaved representations of a read set.

The four subcommands are:

  addinfo     append a pair number ("/1" or "/2") to every read name
  makepairs   split a forward and a reverse read set into paired and
              singleton outputs
  joinpairs   interleave matched mates onto one output
  splitpairs  de-interleave one stream onto forward and reverse outputs

makepairs and joinpairs hold one side of the read set in a store while
streaming the other side past it; -index swaps the in-memory store for
an on-disk index so read sets larger than memory stay usable.
*/

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bioseqio/pairfq/compressio"
	"github.com/bioseqio/pairfq/pair"
	"github.com/bioseqio/pairfq/store"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

const usageText = `usage: pairfq <command> [flags]

Commands:
  addinfo     -i in -o out -p {1,2}
  makepairs   -f fwd -r rev -fp out -rp out -fs out -rs out [-index]
  joinpairs   -f fwd -r rev -o out [-index]
  splitpairs  -i in -f out -r out

Inputs named *.gz or *.bz2 are decompressed transparently; -compress
gzip|bzip2 recompresses finished outputs.  Run "pairfq <command> -h"
for the full flag list.
`

func usage() {
	fmt.Fprint(os.Stderr, usageText)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	var err error
	switch os.Args[1] {
	case "addinfo":
		err = runAddInfo(os.Args[2:])
	case "makepairs":
		err = runMakePairs(os.Args[2:])
	case "joinpairs":
		err = runJoinPairs(os.Args[2:])
	case "splitpairs":
		err = runSplitPairs(os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		log.Fatalf("pairfq %s: %v", os.Args[1], err)
	}
}

// output is a plain-text output file that may be recompressed once
// finished.  The engine never writes compressed bytes itself.
type output struct {
	path string
	f    *os.File
	w    *bufio.Writer
}

func createOutput(path string) (*output, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", path)
	}
	return &output{path: path, f: f, w: bufio.NewWriter(f)}, nil
}

// finish flushes and closes the file and, if asked, hands it to the
// compression sink, which replaces it with a compressed copy.
func (o *output) finish(format compressio.Format) error {
	if err := o.w.Flush(); err != nil {
		return errors.Wrapf(err, "flushing %s", o.path)
	}
	if err := o.f.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", o.path)
	}
	return compressio.CompressFile(o.path, format)
}

func finishAll(format compressio.Format, outs ...*output) error {
	for _, o := range outs {
		if err := o.finish(format); err != nil {
			return err
		}
	}
	return nil
}

// destroyOnSignal tears the store down if the process is interrupted,
// so an aborted drain never leaves an orphaned index file behind.
// The returned release function detaches the handler; normal and
// error exits destroy the store via defer instead.
func destroyOnSignal(s store.Store) (release func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig, ok := <-c
		if !ok {
			return
		}
		log.Error.Printf("pairfq: caught %v, removing index", sig)
		s.Destroy()
		os.Exit(1)
	}()
	return func() {
		signal.Stop(c)
		close(c)
	}
}

func openStore(disk bool, dir string) (store.Store, error) {
	kind := store.Memory
	if disk {
		kind = store.Disk
	}
	return store.Open(kind, dir)
}

func require(flags *flag.FlagSet, vals map[string]string) error {
	for name, v := range vals {
		if v == "" {
			flags.Usage()
			return errors.Errorf("-%s is required", name)
		}
	}
	return nil
}

func runAddInfo(args []string) error {
	flags := flag.NewFlagSet("addinfo", flag.ExitOnError)
	in := flags.String("i", "", "input read file (required)")
	out := flags.String("o", "", "output file (required)")
	pairNum := flags.Int("p", 0, "pair number to append, 1 or 2 (required)")
	compressName := flags.String("compress", "", "compress the output with gzip or bzip2")
	strict := flags.Bool("strict", false, "treat a truncated quality track as an error")
	flags.Parse(args)

	if err := require(flags, map[string]string{"i": *in, "o": *out}); err != nil {
		return err
	}
	if *pairNum != 1 && *pairNum != 2 {
		return errors.Errorf("-p must be 1 or 2, got %d", *pairNum)
	}
	format, err := compressio.ParseFormat(*compressName)
	if err != nil {
		return err
	}
	r, err := compressio.Open(*in)
	if err != nil {
		return err
	}
	defer r.Close()
	o, err := createOutput(*out)
	if err != nil {
		return err
	}
	stats, err := pair.Annotate(r, o.w, *pairNum, *strict)
	if err != nil {
		return err
	}
	if err := o.finish(format); err != nil {
		return err
	}
	log.Debug.Printf("annotated %d records", stats.Records)
	return nil
}

func runMakePairs(args []string) error {
	flags := flag.NewFlagSet("makepairs", flag.ExitOnError)
	fwd := flags.String("f", "", "forward read file (required)")
	rev := flags.String("r", "", "reverse read file (required)")
	fwdPaired := flags.String("fp", "", "paired forward output (required)")
	revPaired := flags.String("rp", "", "paired reverse output (required)")
	fwdOrphan := flags.String("fs", "", "forward singleton output (required)")
	revOrphan := flags.String("rs", "", "reverse singleton output (required)")
	index := flags.Bool("index", false, "hold the reverse reads in an on-disk index instead of memory")
	tempDir := flags.String("temp-dir", "", "directory for the on-disk index (default .)")
	compressName := flags.String("compress", "", "compress the outputs with gzip or bzip2")
	stats := flags.Bool("stats", false, "print pairing statistics")
	strict := flags.Bool("strict", false, "treat a truncated quality track as an error")
	flags.Parse(args)

	err := require(flags, map[string]string{
		"f": *fwd, "r": *rev, "fp": *fwdPaired, "rp": *revPaired, "fs": *fwdOrphan, "rs": *revOrphan,
	})
	if err != nil {
		return err
	}
	format, err := compressio.ParseFormat(*compressName)
	if err != nil {
		return err
	}
	fr, err := compressio.Open(*fwd)
	if err != nil {
		return err
	}
	defer fr.Close()
	rr, err := compressio.Open(*rev)
	if err != nil {
		return err
	}
	defer rr.Close()
	outs := make([]*output, 4)
	for i, path := range []string{*fwdPaired, *revPaired, *fwdOrphan, *revOrphan} {
		if outs[i], err = createOutput(path); err != nil {
			return err
		}
	}
	s, err := openStore(*index, *tempDir)
	if err != nil {
		return err
	}
	defer s.Destroy()
	defer destroyOnSignal(s)()

	pst, err := pair.MakePairs(fr, rr, outs[0].w, outs[1].w, outs[2].w, outs[3].w, s, *strict)
	if err != nil {
		return err
	}
	if err := finishAll(format, outs...); err != nil {
		return err
	}
	if *stats {
		printMakePairsStats(pst)
	}
	return nil
}

func runJoinPairs(args []string) error {
	flags := flag.NewFlagSet("joinpairs", flag.ExitOnError)
	fwd := flags.String("f", "", "forward read file (required)")
	rev := flags.String("r", "", "reverse read file (required)")
	out := flags.String("o", "", "interleaved output (required)")
	index := flags.Bool("index", false, "hold the forward reads in an on-disk index instead of memory")
	tempDir := flags.String("temp-dir", "", "directory for the on-disk index (default .)")
	compressName := flags.String("compress", "", "compress the output with gzip or bzip2")
	stats := flags.Bool("stats", false, "print pairing statistics")
	strict := flags.Bool("strict", false, "treat a truncated quality track as an error")
	flags.Parse(args)

	if err := require(flags, map[string]string{"f": *fwd, "r": *rev, "o": *out}); err != nil {
		return err
	}
	format, err := compressio.ParseFormat(*compressName)
	if err != nil {
		return err
	}
	fr, err := compressio.Open(*fwd)
	if err != nil {
		return err
	}
	defer fr.Close()
	rr, err := compressio.Open(*rev)
	if err != nil {
		return err
	}
	defer rr.Close()
	o, err := createOutput(*out)
	if err != nil {
		return err
	}
	s, err := openStore(*index, *tempDir)
	if err != nil {
		return err
	}
	defer s.Destroy()
	defer destroyOnSignal(s)()

	jst, err := pair.JoinPairs(fr, rr, o.w, s, *strict)
	if err != nil {
		return err
	}
	if err := o.finish(format); err != nil {
		return err
	}
	if *stats {
		log.Printf("total forward reads: %d", jst.ForwardTotal)
		log.Printf("total reverse reads: %d", jst.ReverseTotal)
		log.Printf("interleaved pairs:   %d", jst.Pairs)
	}
	return nil
}

func runSplitPairs(args []string) error {
	flags := flag.NewFlagSet("splitpairs", flag.ExitOnError)
	in := flags.String("i", "", "interleaved input file (required)")
	fwd := flags.String("f", "", "forward output (required)")
	rev := flags.String("r", "", "reverse output (required)")
	compressName := flags.String("compress", "", "compress the outputs with gzip or bzip2")
	stats := flags.Bool("stats", false, "print classification statistics")
	strict := flags.Bool("strict", false, "treat a truncated quality track as an error")
	flags.Parse(args)

	if err := require(flags, map[string]string{"i": *in, "f": *fwd, "r": *rev}); err != nil {
		return err
	}
	format, err := compressio.ParseFormat(*compressName)
	if err != nil {
		return err
	}
	r, err := compressio.Open(*in)
	if err != nil {
		return err
	}
	defer r.Close()
	fo, err := createOutput(*fwd)
	if err != nil {
		return err
	}
	ro, err := createOutput(*rev)
	if err != nil {
		return err
	}
	sst, err := pair.SplitPairs(r, fo.w, ro.w, *strict)
	if err != nil {
		return err
	}
	if err := finishAll(format, fo, ro); err != nil {
		return err
	}
	if *stats {
		log.Printf("forward reads: %d", sst.Forward)
		log.Printf("reverse reads: %d", sst.Reverse)
		log.Printf("unclassified:  %d", sst.Dropped)
	}
	return nil
}

func printMakePairsStats(st pair.MakePairsStats) {
	log.Printf("total forward reads:     %d", st.ForwardTotal)
	log.Printf("total reverse reads:     %d", st.ReverseTotal)
	log.Printf("paired forward reads:    %d", st.ForwardPaired)
	log.Printf("paired reverse reads:    %d", st.ReversePaired)
	log.Printf("forward singleton reads: %d", st.ForwardSingleton)
	log.Printf("reverse singleton reads: %d", st.ReverseSingleton)
}
