package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/hilval/pkg/dataset"
	"github.com/robotalks/hilval/pkg/env"
	fx "github.com/robotalks/hilval/pkg/framework"
	"github.com/robotalks/hilval/pkg/validate"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Config *env.Config
	Out    io.Writer

	lastErr error
}

const (
	shellKey = "$shell"
	prompt   = "hilval > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&ValidateCmd,
		&DatasetCmd,
		&ConfigCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
		Out:    os.Stdout,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Fail reports the error of a command, it's returned from Run in
// non-interactive mode.
func (s *Shell) Fail(c *ishell.Context, err error) {
	s.lastErr = err
	c.Err(err)
}

// PrintJSON prints v as JSON.
func (s *Shell) PrintJSON(c *ishell.Context, v interface{}) {
	out, err := json.Marshal(v)
	if err != nil {
		s.Fail(c, err)
		return
	}
	c.Println(string(out))
}

// Validate runs a validation session, CtrlC stops it after the current
// sample.
func (s *Shell) Validate(conf *env.Config) (*validate.Summary, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	session, release := conf.NewSession(s.Out)
	defer release()
	ctx, stop := fx.WithSignals(context.Background())
	defer stop()
	return session.Run(ctx)
}

// Run runs the shell.
func (s *Shell) Run(args ...string) error {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			return err
		}
		return s.lastErr
	}
	if s.Interactive {
		s.Shell.Run()
		return nil
	}
	return fmt.Errorf("command expected")
}

// ClassCount is the number of samples with a label.
type ClassCount struct {
	Class int `json:"class"`
	Count int `json:"count"`
}

// DatasetInfo describes a loaded dataset.
type DatasetInfo struct {
	Name      string       `json:"name"`
	Samples   int          `json:"samples"`
	ImageSize int          `json:"image_size"`
	Classes   []ClassCount `json:"classes"`
	// ReferenceAccuracy is how often the reference prediction equals
	// the label.
	ReferenceAccuracy float64 `json:"reference_accuracy"`
}

// DescribeDataset summarizes the dataset.
func DescribeDataset(ds *dataset.Dataset) *DatasetInfo {
	info := &DatasetInfo{Name: ds.Name, Samples: ds.Len(), ImageSize: ds.ImageSize}
	counts := make(map[int]int)
	correct := 0
	for _, sample := range ds.Samples {
		counts[sample.Truth]++
		if sample.Reference == sample.Truth {
			correct++
		}
	}
	for class, count := range counts {
		info.Classes = append(info.Classes, ClassCount{Class: class, Count: count})
	}
	sort.Slice(info.Classes, func(i, j int) bool {
		return info.Classes[i].Class < info.Classes[j].Class
	})
	if info.Samples > 0 {
		info.ReferenceAccuracy = float64(correct) / float64(info.Samples)
	}
	return info
}

// configFor returns the config with the optional dataset argument applied.
func (s *Shell) configFor(c *ishell.Context) *env.Config {
	conf := *s.Config
	if len(c.Args) > 0 {
		conf.Dataset = c.Args[0]
	}
	return &conf
}

var (
	// ValidateCmd runs the automatic validation.
	ValidateCmd = ishell.Cmd{
		Name:    "validate",
		Aliases: []string{"v", "auto"},
		Help:    "[DATASET] send all samples to the board and compare",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			summary, err := s.Validate(s.configFor(c))
			if s.OutputJSON && summary != nil {
				s.PrintJSON(c, summary)
			}
			switch {
			case fx.IsCanceled(err):
				c.Println("validation interrupted")
			case err != nil:
				glog.Errorf("validate: %v", err)
				s.Fail(c, err)
			}
		},
	}

	// DatasetCmd describes the dataset without connecting.
	DatasetCmd = ishell.Cmd{
		Name:    "dataset",
		Aliases: []string{"ds"},
		Help:    "[DATASET] load and describe the dataset",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			ds, err := s.configFor(c).LoadDataset()
			if err != nil {
				s.Fail(c, err)
				return
			}
			info := DescribeDataset(ds)
			if s.OutputJSON {
				s.PrintJSON(c, info)
				return
			}
			c.Printf("%s: %d samples of %d bytes\n", info.Name, info.Samples, info.ImageSize)
			for _, cc := range info.Classes {
				c.Printf("  class %d: %d\n", cc.Class, cc.Count)
			}
			c.Printf("reference accuracy: %s\n", validate.FormatRatio(info.ReferenceAccuracy, info.Samples > 0))
		},
	}

	// ConfigCmd prints the effective configuration.
	ConfigCmd = ishell.Cmd{
		Name: "config",
		Help: "print effective configuration",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if s.OutputJSON {
				s.PrintJSON(c, s.Config)
				return
			}
			conf := s.Config
			c.Printf("port:         %s @ %d\n", conf.Port, conf.Baud)
			c.Printf("poll/settle:  %v / %v\n", conf.PollInterval, conf.SettleDelay)
			c.Printf("deadline:     %v\n", conf.Deadline)
			c.Printf("sample delay: %v\n", conf.SampleDelay)
			c.Printf("dataset:      %s (%d bytes/image, %d classes)\n", conf.Dataset, conf.ImageSize, conf.Classes)
			if conf.CSVPath != "" {
				c.Printf("csv:          %s\n", conf.CSVPath)
			}
			if conf.MQTTURL != "" {
				c.Printf("mqtt:         %s\n", conf.MQTTURL)
			}
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	defer glog.Flush()
	if err := New(env.NewConfig()).Run(flag.Args()...); err != nil {
		glog.Error(err)
		glog.Flush()
		os.Exit(1)
	}
}
