package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/itemkit/itemkit/internal/buildinfo"
	"github.com/itemkit/itemkit/pkg/item"
	"github.com/itemkit/itemkit/pkg/pipeline"
	"github.com/itemkit/itemkit/pkg/util"
)

var (
	version    = "dev"
	commitHash = "n/a"
	buildDate  = "<unknown>"
)

// document is the top-level YAML/JSON input: a primary item collection,
// optional named auxiliary collections for joins, and the pipeline to run.
type document struct {
	Items       []*item.Item            `json:"items"`
	Collections map[string][]*item.Item `json:"collections,omitempty"`
	Pipeline    pipeline.Pipeline       `json:"pipeline"`
}

func main() {
	var input, output string
	var loglevel int
	var showVersion bool

	flag.StringVar(&input, "f", "-", "Input file. Use - for stdin.")
	flag.StringVar(&output, "o", "yaml", "Output format: yaml or json.")
	flag.IntVar(&loglevel, "v", 0, "Log verbosity, higher is chattier.")
	flag.BoolVar(&showVersion, "version", false, "Print version information and exit.")
	flag.Parse()

	if showVersion {
		info := buildinfo.BuildInfo{Version: version, CommitHash: commitHash, BuildDate: buildDate}
		fmt.Println(info.String())
		os.Exit(0)
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.Level(-loglevel)) //nolint:gosec
	zc.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	z, err := zc.Build(zap.AddStacktrace(zapcore.Level(3)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot set up logger: %s\n", err)
		os.Exit(1)
	}
	logger := zapr.NewLogger(z).WithName("itemkit")
	setupLog := logger.WithName("setup")

	data, err := readInput(input)
	if err != nil {
		setupLog.Error(err, "cannot read input", "file", input)
		os.Exit(1)
	}

	// Convert through the order-preserving path: the stock YAML-to-JSON
	// conversion alphabetizes mapping keys, which would lose the metadata
	// document order the item model keeps.
	js, err := util.YAMLToJSON(data)
	if err != nil {
		setupLog.Error(err, "cannot parse input", "file", input)
		os.Exit(1)
	}
	var doc document
	if err := json.Unmarshal(js, &doc); err != nil {
		setupLog.Error(err, "cannot parse input", "file", input)
		os.Exit(1)
	}

	// Entries without an identity get a deterministic one from their
	// content fingerprint.
	doc.Items = withIdentities(doc.Items)
	for name, coll := range doc.Collections {
		doc.Collections[name] = withIdentities(coll)
	}

	eng := pipeline.NewEngine(logger.WithName("pipeline"))
	result, err := eng.Run(doc.Pipeline, doc.Items, doc.Collections)
	if err != nil {
		setupLog.Error(err, "pipeline reported errors")
		if result == nil {
			os.Exit(1)
		}
	}

	logger.V(4).Info("pipeline finished", "result", util.Stringify(result))

	if err := writeOutput(os.Stdout, result, output); err != nil {
		setupLog.Error(err, "cannot write output")
		os.Exit(1)
	}
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

func withIdentities(items []*item.Item) []*item.Item {
	return util.Map(func(it *item.Item) *item.Item {
		if it.Identity() == "" {
			it.SetIdentity(it.Fingerprint())
		}
		return it
	}, items)
}

func writeOutput(w io.Writer, items []*item.Item, format string) error {
	var out []byte
	var err error
	switch format {
	case "json":
		out, err = json.MarshalIndent(items, "", "  ")
	case "yaml":
		var js []byte
		js, err = json.Marshal(items)
		if err == nil {
			out, err = util.JSONToYAML(js)
		}
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
