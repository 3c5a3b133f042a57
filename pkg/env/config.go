package env

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/hilval/pkg/dataset"
	"github.com/robotalks/hilval/pkg/device/comm"
	"github.com/robotalks/hilval/pkg/device/serial"
	"github.com/robotalks/hilval/pkg/validate"
	"github.com/robotalks/hilval/pkg/validate/report"
	"github.com/robotalks/hilval/pkg/validate/report/mqtt"
)

// Config provides the options of a validation bench.
type Config struct {
	// Port is the serial device connected to the board.
	Port         string
	Baud         int
	PollInterval time.Duration
	SettleDelay  time.Duration

	// Deadline bounds the wait for each prediction.
	Deadline    time.Duration
	SampleDelay time.Duration

	// Dataset is the .npz file with images and labels.
	Dataset   string
	ImageSize int
	Classes   int

	// CSVPath optionally receives the per-sample rows.
	CSVPath string
	// MQTTURL optionally specifies the broker to publish results,
	// e.g. mqtt://host:port/topic-prefix
	MQTTURL string
}

var defaultConfig = Config{
	Port:         "/dev/ttyACM0",
	Baud:         serial.DefaultBaud,
	PollInterval: serial.DefaultPollInterval,
	SettleDelay:  serial.DefaultSettleDelay,
	Deadline:     comm.DefaultDeadline,
	SampleDelay:  validate.DefaultSampleDelay,
	Dataset:      "dados_validacao.npz",
	ImageSize:    dataset.DefaultImageSize,
	Classes:      comm.DefaultClasses,
}

func init() {
	if val := os.Getenv("HIL_PORT"); val != "" {
		defaultConfig.Port = val
	}
	if val := os.Getenv("HIL_BAUD"); val != "" {
		if baud, err := strconv.Atoi(val); err == nil {
			defaultConfig.Baud = baud
		}
	}
	if val := os.Getenv("HIL_DATASET"); val != "" {
		defaultConfig.Dataset = val
	}
	if val := os.Getenv("HIL_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	defaultConfig.RegisterFlags(flag.CommandLine)
}

// RegisterFlags binds the fields to flags in fs.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Port, "port", c.Port, "Serial port of the board")
	fs.IntVar(&c.Baud, "baud", c.Baud, "Serial baud rate")
	fs.DurationVar(&c.PollInterval, "poll", c.PollInterval, "Serial read poll interval")
	fs.DurationVar(&c.SettleDelay, "settle", c.SettleDelay, "Wait after opening the port")
	fs.DurationVar(&c.Deadline, "deadline", c.Deadline, "Response deadline per sample")
	fs.DurationVar(&c.SampleDelay, "sample-delay", c.SampleDelay, "Pause between samples")
	fs.StringVar(&c.Dataset, "dataset", c.Dataset, "Dataset file (.npz)")
	fs.IntVar(&c.ImageSize, "image-size", c.ImageSize, "Image size in bytes")
	fs.IntVar(&c.Classes, "classes", c.Classes, "Number of classes")
	fs.StringVar(&c.CSVPath, "csv", c.CSVPath, "Write per-sample rows to CSV file")
	fs.StringVar(&c.MQTTURL, "mqtt", c.MQTTURL, "MQTT broker URL to publish results")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// SerialConfig converts to the serial port config.
func (c *Config) SerialConfig() serial.Config {
	return serial.Config{
		Name:         c.Port,
		Baud:         c.Baud,
		PollInterval: c.PollInterval,
		SettleDelay:  c.SettleDelay,
	}
}

// Options converts to the validation loop options.
func (c *Config) Options() validate.Options {
	return validate.Options{
		Deadline:    c.Deadline,
		Classes:     c.Classes,
		SampleDelay: c.SampleDelay,
		ImageSize:   c.ImageSize,
	}
}

// Schema converts to the dataset schema.
func (c *Config) Schema() dataset.Schema {
	schema := dataset.DefaultSchema
	schema.ImageSize = c.ImageSize
	return schema
}

// Validate checks the values.
func (c *Config) Validate() error {
	switch {
	case c.Port == "":
		return fmt.Errorf("serial port must be specified")
	case c.Baud <= 0:
		return fmt.Errorf("invalid baud rate %d", c.Baud)
	case c.ImageSize <= 0:
		return fmt.Errorf("invalid image size %d", c.ImageSize)
	case c.Classes <= 0:
		return fmt.Errorf("invalid number of classes %d", c.Classes)
	case c.Deadline <= 0:
		return fmt.Errorf("invalid deadline %v", c.Deadline)
	}
	return nil
}

// LoadDataset loads the configured dataset.
func (c *Config) LoadDataset() (*dataset.Dataset, error) {
	return dataset.LoadNPZ(c.Dataset, c.Schema())
}

// NewReporter builds the reporters: the table on out, plus CSV and MQTT
// when configured. The returned func releases the reporters.
// An unreachable broker only disables MQTT publishing.
func (c *Config) NewReporter(out io.Writer) (validate.Reporter, func()) {
	reporters := report.Multi{report.NewTable(out)}
	if c.CSVPath != "" {
		reporters = append(reporters, report.NewCSV(c.CSVPath))
	}
	release := func() {}
	if c.MQTTURL != "" {
		q, err := c.connectMQTT()
		if err != nil {
			glog.Warningf("MQTT disabled: %v", err)
		} else {
			reporters = append(reporters, mqtt.NewPublisher(q, HostID()))
			release = func() { q.Close() }
		}
	}
	return reporters, release
}

// NewSession creates a validation session reporting to out.
func (c *Config) NewSession(out io.Writer) (*validate.Session, func()) {
	reporter, release := c.NewReporter(out)
	return &validate.Session{
		Load: c.LoadDataset,
		Open: serial.Opener(c.SerialConfig()),
		Loop: validate.NewLoop(c.Options(), reporter),
	}, release
}

func (c *Config) connectMQTT() (*mqtt.Queue, error) {
	q, err := mqtt.NewQueueFromURL(c.MQTTURL)
	if err != nil {
		return nil, err
	}
	if err := mqtt.ConnectOrClose(q, mqtt.DefaultPublishTimeout); err != nil {
		return nil, fmt.Errorf("connect %s: %w", c.MQTTURL, err)
	}
	return q, nil
}
