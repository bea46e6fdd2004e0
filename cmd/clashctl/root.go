package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/techforall-fr/202510-ClashReporter/internal/clashes"
	"github.com/techforall-fr/202510-ClashReporter/pkg/decode"
)

// inputs selects where a command reads its clash collection from.
type inputs struct {
	clashes   string
	instances string
	documents string
	projectID string
	mock      int
	seed      uint64
	high      float64
	medium    float64
}

func newRootCmd() *cobra.Command {
	in := &inputs{}

	root := &cobra.Command{
		Use:           "clashctl",
		Short:         "Join, query and summarize BIM clash feeds",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&in.clashes, "clashes", "", "clash feed file (JSON, optionally gzipped)")
	flags.StringVar(&in.instances, "instances", "", "clash-instance feed file")
	flags.StringVar(&in.documents, "documents", "", "document feed file")
	flags.StringVar(&in.projectID, "project", "", "project id used to build coordination links")
	flags.IntVar(&in.mock, "mock", 0, "generate N synthetic clashes instead of reading feeds")
	flags.Uint64Var(&in.seed, "seed", 0, "seed for synthetic clashes (0 picks one from the clock)")
	flags.Float64Var(&in.high, "high", clashes.DefaultThresholds().High, "distance below which a clash is high severity")
	flags.Float64Var(&in.medium, "medium", clashes.DefaultThresholds().Medium, "distance below which a clash is medium severity")

	root.AddCommand(
		newJoinCmd(in),
		newKPIsCmd(in),
		newQueryCmd(in),
	)
	return root
}

func (in *inputs) thresholds() (clashes.SeverityThresholds, error) {
	t := clashes.SeverityThresholds{High: in.high, Medium: in.medium}
	if t.High <= 0 || t.Medium <= t.High {
		return t, fmt.Errorf("thresholds must satisfy 0 < high < medium")
	}
	return t, nil
}

// join reads the three feed files and reconstructs their clashes.
func (in *inputs) join() (clashes.JoinResult, error) {
	if in.clashes == "" || in.instances == "" || in.documents == "" {
		return clashes.JoinResult{}, fmt.Errorf("--clashes, --instances and --documents are required")
	}

	var (
		cf  clashes.ClashFeed
		inf clashes.InstanceFeed
		df  clashes.DocumentFeed
	)
	feeds := []struct {
		path string
		v    any
	}{
		{in.clashes, &cf},
		{in.instances, &inf},
		{in.documents, &df},
	}
	for _, f := range feeds {
		if err := readFeed(f.path, f.v); err != nil {
			return clashes.JoinResult{}, err
		}
	}

	thresholds, err := in.thresholds()
	if err != nil {
		return clashes.JoinResult{}, err
	}

	joiner := clashes.NewJoiner(in.projectID)
	joiner.Thresholds = thresholds
	return joiner.Join(cf, inf, df), nil
}

// collection returns synthetic clashes when --mock is set, otherwise the
// joined feed files.
func (in *inputs) collection() ([]clashes.Clash, error) {
	if in.mock > 0 {
		var rng *rand.Rand
		if in.seed != 0 {
			rng = rand.New(rand.NewPCG(in.seed, in.seed>>1|1))
		}
		return clashes.NewGenerator(rng).Generate(in.mock), nil
	}

	result, err := in.join()
	if err != nil {
		return nil, err
	}
	return result.Clashes, nil
}

func readFeed(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read feed: %w", err)
	}
	if err := decode.Into(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
