// scamscan runs the local analysis pipeline offline: one JSON verdict per
// input message, no server and no database. The mobile prototypes use it to
// spot-check detection rules against captured SMS corpora.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/scamshield-app/scamshield/internal/analysis"
	"github.com/scamshield-app/scamshield/internal/pii"
	"github.com/scamshield-app/scamshield/internal/scoring"
)

type options struct {
	channel  string
	sender   string
	text     string
	phone    string
	file     string
	denyList string
}

func main() {
	var opts options
	flag.StringVar(&opts.channel, "channel", "sms", "channel the content arrived through (sms|call|voicemail|email|web|letter)")
	flag.StringVar(&opts.sender, "sender", "", "claimed sender identifier, if any")
	flag.StringVar(&opts.text, "text", "", "analyze a single message and exit")
	flag.StringVar(&opts.phone, "phone", "", "pre-screen a phone number and exit")
	flag.StringVar(&opts.file, "file", "", "file with one message per line (default: stdin)")
	flag.StringVar(&opts.denyList, "name-denylist", "", "extra full-name deny-list file")
	flag.Parse()

	engine, scorer, err := buildPipeline(opts.denyList)
	if err != nil {
		log.Fatalf("scamscan: %v", err)
	}

	out := json.NewEncoder(os.Stdout)

	if opts.phone != "" {
		// No blocklist offline: format heuristics only.
		if err := out.Encode(scorer.ScorePhoneNumber(opts.phone, nil)); err != nil {
			log.Fatalf("scamscan: %v", err)
		}
		return
	}

	channel, err := scoring.ParseChannel(opts.channel)
	if err != nil {
		log.Fatalf("scamscan: %v", err)
	}

	if opts.text != "" {
		if err := out.Encode(engine.AnalyzeWithSender(opts.text, channel, opts.sender)); err != nil {
			log.Fatalf("scamscan: %v", err)
		}
		return
	}

	in, closeIn, err := openInput(opts.file)
	if err != nil {
		log.Fatalf("scamscan: %v", err)
	}
	defer closeIn()

	if err := scanLines(in, out, engine, channel, opts.sender); err != nil {
		log.Fatalf("scamscan: %v", err)
	}
}

func buildPipeline(denyListPath string) (*analysis.Analyzer, *scoring.Scorer, error) {
	extraDeny, err := pii.LoadDenyListFile(denyListPath)
	if err != nil {
		return nil, nil, err
	}
	scrubber := pii.NewScrubber(pii.Config{ExtraNameDenyList: extraDeny})
	scorer := scoring.NewScorer()
	engine := analysis.New(scrubber, scorer, analysis.Config{})
	return engine, scorer, nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func scanLines(in io.Reader, out *json.Encoder, engine *analysis.Analyzer, channel scoring.Channel, sender string) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		if err := out.Encode(engine.AnalyzeWithSender(line, channel, sender)); err != nil {
			return err
		}
	}
	return sc.Err()
}
