// Package config defines the server configuration file format
// and its reader.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/SashaG-T/chash/pkg/container/chmap"
	"github.com/SashaG-T/chash/pkg/segmented"

	"github.com/sugawarayuuta/sonnet"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	yaml "gopkg.in/yaml.v3"
)

// DefaultConfigFileName defines the default name
// of the server configuration file.
const DefaultConfigFileName = "config.yaml"

// DefaultMaxReqBodySize defines the default maximum
// request body size in bytes.
const DefaultMaxReqBodySize = 4 * 1024 * 1024

// MinReqBodySize defines the minimum accepted value
// for the maximum request body size in bytes.
const MinReqBodySize = 256

// Hasher identifiers accepted in namespace configurations.
const (
	HasherXXH3 = "xxh3"
	HasherXX64 = "xx64"
	HasherSHA3 = "sha3"
)

// ErrNoNamespaces is returned when the configuration
// doesn't define any namespace.
var ErrNoNamespaces = errors.New("no namespaces defined")

type Config struct {
	Host                string
	MaxReqBodySizeBytes int
	Namespaces          []*Namespace
}

type Namespace struct {
	ID         string
	Buckets    int
	Hasher     string
	Seed       uint64
	WarmupFile string
	Warmup     *segmented.Array[string, byte]
}

type serverConfig struct {
	Host               string            `yaml:"host"`
	MaxRequestBodySize int               `yaml:"max_request_body_size"`
	Namespaces         []namespaceConfig `yaml:"namespaces"`
}

type namespaceConfig struct {
	ID         string `yaml:"id"`
	Buckets    int    `yaml:"buckets"`
	Hasher     string `yaml:"hasher"`
	Seed       uint64 `yaml:"seed"`
	WarmupFile string `yaml:"warmup_file"`
}

// Read reads and validates the configuration file fileName
// inside filesystem. dirPath is used for error reporting only.
func Read(
	filesystem fs.FS,
	dirPath, fileName string,
) (*Config, error) {
	p := filepath.Join(dirPath, fileName)
	f, err := filesystem.Open(fileName)
	if err != nil {
		return nil, &ErrorMissing{
			FilePath: p,
			Feature:  "server config",
		}
	}
	defer f.Close()

	var c serverConfig
	d := yaml.NewDecoder(f)
	d.KnownFields(true)
	if err := d.Decode(&c); err != nil {
		return nil, &ErrorIllegal{
			FilePath: p,
			Feature:  "syntax",
			Message:  err.Error(),
		}
	}

	if strings.TrimSpace(c.Host) == "" {
		return nil, &ErrorMissing{
			FilePath: p,
			Feature:  "host",
		}
	}

	conf := &Config{
		Host:                c.Host,
		MaxReqBodySizeBytes: c.MaxRequestBodySize,
	}
	if conf.MaxReqBodySizeBytes == 0 {
		conf.MaxReqBodySizeBytes = DefaultMaxReqBodySize
	}
	if conf.MaxReqBodySizeBytes < MinReqBodySize {
		return nil, &ErrorIllegal{
			FilePath: p,
			Feature:  "max_request_body_size",
			Message: fmt.Sprintf(
				"maximum request body size should not be smaller than %d B",
				MinReqBodySize,
			),
		}
	}

	if len(c.Namespaces) < 1 {
		return nil, ErrNoNamespaces
	}

	for i, nc := range c.Namespaces {
		n, err := readNamespace(filesystem, dirPath, p, i, nc)
		if err != nil {
			return nil, err
		}
		for i2, n2 := range conf.Namespaces {
			if n2.ID == n.ID {
				return nil, &ErrorConflict{
					Feature:  "id",
					Value:    n.ID,
					Subject1: fmt.Sprintf("namespaces[%d]", i),
					Subject2: fmt.Sprintf("namespaces[%d]", i2),
				}
			}
		}
		conf.Namespaces = append(conf.Namespaces, n)
	}

	return conf, nil
}

func readNamespace(
	filesystem fs.FS,
	dirPath, confPath string,
	index int,
	c namespaceConfig,
) (*Namespace, error) {
	feature := func(s string) string {
		return fmt.Sprintf("namespaces[%d].%s", index, s)
	}

	if c.ID == "" {
		return nil, &ErrorMissing{
			FilePath: confPath,
			Feature:  feature("id"),
		}
	}
	if err := ValidateID(c.ID); err != "" {
		return nil, &ErrorIllegal{
			FilePath: confPath,
			Feature:  feature("id"),
			Message:  err,
		}
	}

	n := &Namespace{
		ID:         strings.ToLower(c.ID),
		Buckets:    c.Buckets,
		Hasher:     c.Hasher,
		Seed:       c.Seed,
		WarmupFile: c.WarmupFile,
	}

	if n.Buckets == 0 {
		n.Buckets = chmap.DefaultNumBuckets
	}
	if n.Buckets < 1 {
		return nil, &ErrorIllegal{
			FilePath: confPath,
			Feature:  feature("buckets"),
			Message:  "number of buckets must be positive",
		}
	}

	switch n.Hasher {
	case "":
		n.Hasher = HasherXXH3
	case HasherXXH3, HasherXX64:
	case HasherSHA3:
		if n.Seed != 0 {
			return nil, &ErrorIllegal{
				FilePath: confPath,
				Feature:  feature("seed"),
				Message:  "hasher sha3 is not seedable",
			}
		}
	default:
		return nil, &ErrorIllegal{
			FilePath: confPath,
			Feature:  feature("hasher"),
			Message: fmt.Sprintf(
				"unsupported hasher, expected one of: %q, %q, %q",
				HasherXXH3, HasherXX64, HasherSHA3,
			),
		}
	}

	if c.WarmupFile != "" {
		w, err := readWarmupFile(filesystem, dirPath, c.WarmupFile)
		if err != nil {
			return nil, err
		}
		n.Warmup = w
	}

	return n, nil
}

// readWarmupFile reads a JSON object of string keys and string values
// into a segmented array in lexicographic key order.
func readWarmupFile(
	filesystem fs.FS,
	dirPath, fileName string,
) (*segmented.Array[string, byte], error) {
	p := filepath.Join(dirPath, fileName)
	b, err := fs.ReadFile(filesystem, fileName)
	if err != nil {
		return nil, &ErrorMissing{
			FilePath: p,
			Feature:  "warmup",
		}
	}

	var entries map[string]string
	if err := sonnet.Unmarshal(b, &entries); err != nil {
		return nil, &ErrorIllegal{
			FilePath: p,
			Feature:  "warmup",
			Message:  "decoding json: " + err.Error(),
		}
	}

	keys := maps.Keys(entries)
	slices.Sort(keys)

	a := segmented.New[string, byte]()
	for _, k := range keys {
		a.Append([]byte(entries[k])...)
		a.Cut(k)
	}
	return a, nil
}

func ValidateID(n string) (err string) {
	if n == "" {
		return "empty"
	}
	for i := range n {
		if strings.IndexByte(IDValidCharDict, n[i]) < 0 {
			return fmt.Sprintf("contains illegal character at index %d", i)
		}
	}
	return ""
}

const IDValidCharDict = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"_-"

type ErrorConflict struct {
	Feature  string
	Value    string
	Subject1 string
	Subject2 string
}

func (e ErrorConflict) Error() string {
	var b strings.Builder
	b.WriteString("conflicting ")
	b.WriteString(e.Feature)
	b.WriteString(" between ")
	b.WriteString(e.Subject1)
	b.WriteString(" and ")
	b.WriteString(e.Subject2)
	b.WriteString(": ")
	b.WriteString(e.Value)
	return b.String()
}

type ErrorMissing struct {
	FilePath string
	Feature  string
}

func (e ErrorMissing) Error() string {
	var b strings.Builder
	if e.Feature == "" {
		b.Grow(len("missing ") + len(e.FilePath))
		b.WriteString("missing ")
		b.WriteString(e.FilePath)
		return b.String()
	}
	b.Grow(len("missing ") + len(e.Feature) + len(" in ") + len(e.FilePath))
	b.WriteString("missing ")
	b.WriteString(e.Feature)
	b.WriteString(" in ")
	b.WriteString(e.FilePath)
	return b.String()
}

type ErrorIllegal struct {
	FilePath string
	Feature  string
	Message  string
}

func (e ErrorIllegal) Error() string {
	var b strings.Builder
	b.Grow(len("illegal ") +
		len(e.Feature) +
		len(" in ") +
		len(e.FilePath) +
		len(": ") +
		len(e.Message))
	b.WriteString("illegal ")
	b.WriteString(e.Feature)
	b.WriteString(" in ")
	b.WriteString(e.FilePath)
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}
