package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// Supported publisher types.
	TypeQueue = "queue"
	TypeHTTP  = "http"

	// Supported queue providers.
	QueueProviderAWSSQS = "aws-sqs"
	QueueProviderAWSSNS = "aws-sns"
	QueueProviderGCP    = "gcp"

	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
)

// configFile represents the structure of the publishers configuration file.
type configFile struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
}

// PublisherConfig is one sink that receives headline pages.
type PublisherConfig struct {
	ID      string                `json:"id" yaml:"id"`
	Type    string                `json:"type" yaml:"type"`
	Enabled *bool                 `json:"enabled" yaml:"enabled"`
	Queue   *QueuePublisherConfig `json:"queue" yaml:"queue"`
	HTTP    *HTTPPublisherConfig  `json:"http" yaml:"http"`
}

// QueuePublisherConfig selects a cloud queue provider.
type QueuePublisherConfig struct {
	Provider string                 `json:"provider" yaml:"provider"`
	AWS      *AWSSQSPublisherConfig `json:"aws" yaml:"aws"`
	SNS      *AWSSNSPublisherConfig `json:"sns" yaml:"sns"`
	GCP      *GCPQueueConfig        `json:"gcp" yaml:"gcp"`
}

// AWSSQSPublisherConfig holds AWS SQS settings. Queue URLs ending in .fifo are treated as FIFO queues.
type AWSSQSPublisherConfig struct {
	QueueURL        string `json:"uri" yaml:"uri"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// AWSSNSPublisherConfig holds AWS SNS settings.
type AWSSNSPublisherConfig struct {
	TopicARN        string `json:"topic_arn" yaml:"topic_arn"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// GCPQueueConfig holds Pub/Sub topic settings.
type GCPQueueConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
	OrderByCountry  bool   `json:"order_by_country" yaml:"order_by_country"`
}

// HTTPPublisherConfig holds generic HTTP sink settings.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// ConfigRegistry holds the publisher definitions loaded from a file. It is read-only after loading.
type ConfigRegistry struct {
	publishers []PublisherConfig
	idx        map[string]PublisherConfig
}

// LoadRegistry loads publisher definitions from a YAML/JSON file.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open publishers file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	fileReg, err := parsePublisherRegistry([]byte(os.ExpandEnv(string(raw))), filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(fileReg.Publishers) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}

	reg := &ConfigRegistry{
		publishers: make([]PublisherConfig, len(fileReg.Publishers)),
		idx:        make(map[string]PublisherConfig, len(fileReg.Publishers)),
	}

	for i := range fileReg.Publishers {
		cfg := sanitizePublisherConfig(fileReg.Publishers[i])
		if err := validatePublisherConfig(cfg); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, exists := reg.idx[cfg.ID]; exists {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		reg.publishers[i] = cfg
		reg.idx[cfg.ID] = cfg
	}

	return reg, nil
}

// parsePublisherRegistry decodes the file with the decoder matching ext, or any decoder when ext is unknown.
func parsePublisherRegistry(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	var reg configFile

	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &reg); err != nil {
			return configFile{}, fmt.Errorf("decode json publishers: %w", err)
		}
		return reg, nil
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &reg); err != nil {
			return configFile{}, fmt.Errorf("decode yaml publishers: %w", err)
		}
		return reg, nil
	}

	if err := yaml.Unmarshal(data, &reg); err == nil {
		return reg, nil
	}
	if err := json.Unmarshal(data, &reg); err == nil {
		return reg, nil
	}
	return configFile{}, errors.New("publishers file format not recognized (expected YAML or JSON)")
}

// sanitizePublisherConfig trims and normalizes the publisher config fields.
func sanitizePublisherConfig(cfg PublisherConfig) PublisherConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))

	if cfg.Enabled == nil {
		def := true
		cfg.Enabled = &def
	}
	if cfg.Queue != nil {
		qc := *cfg.Queue
		qc.Provider = strings.ToLower(strings.TrimSpace(qc.Provider))
		if qc.AWS != nil {
			a := *qc.AWS
			a.QueueURL = strings.TrimSpace(a.QueueURL)
			a.Region = strings.TrimSpace(a.Region)
			a.AccessKeyID = strings.TrimSpace(a.AccessKeyID)
			a.SecretAccessKey = strings.TrimSpace(a.SecretAccessKey)
			qc.AWS = &a
		}
		if qc.SNS != nil {
			s := *qc.SNS
			s.TopicARN = strings.TrimSpace(s.TopicARN)
			s.Region = strings.TrimSpace(s.Region)
			s.AccessKeyID = strings.TrimSpace(s.AccessKeyID)
			s.SecretAccessKey = strings.TrimSpace(s.SecretAccessKey)
			qc.SNS = &s
		}
		if qc.GCP != nil {
			g := *qc.GCP
			g.ProjectID = strings.TrimSpace(g.ProjectID)
			g.Topic = strings.TrimSpace(g.Topic)
			g.CredentialsFile = strings.TrimSpace(g.CredentialsFile)
			qc.GCP = &g
		}
		cfg.Queue = &qc
	}
	if cfg.HTTP != nil {
		c := *cfg.HTTP
		c.URL = strings.TrimSpace(c.URL)
		c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
		if c.Method == "" {
			c.Method = httpDefaultMethod
		}
		c.Headers = sanitizeHeaders(c.Headers)
		if c.TimeoutSeconds <= 0 {
			c.TimeoutSeconds = httpDefaultTimeoutSeconds
		}
		cfg.HTTP = &c
	}

	return cfg
}

// sanitizeHeaders trims and removes empty headers.
func sanitizeHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		key, val := strings.TrimSpace(k), strings.TrimSpace(v)
		if key != "" && val != "" {
			out[key] = val
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// validatePublisherConfig checks that required fields are present.
func validatePublisherConfig(cfg PublisherConfig) error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	switch cfg.Type {
	case "":
		return fmt.Errorf("type is required for publisher %q", cfg.ID)
	case TypeQueue:
		if cfg.Queue == nil {
			return fmt.Errorf("queue config required for publisher %q", cfg.ID)
		}
		switch cfg.Queue.Provider {
		case QueueProviderAWSSQS:
			a := cfg.Queue.AWS
			if a == nil {
				return fmt.Errorf("sqs config required for publisher %q", cfg.ID)
			}
			return requireFields(cfg.ID, "sqs", map[string]string{
				"uri": a.QueueURL, "region": a.Region, "access_key_id": a.AccessKeyID, "secret_access_key": a.SecretAccessKey,
			})
		case QueueProviderAWSSNS:
			s := cfg.Queue.SNS
			if s == nil {
				return fmt.Errorf("sns config required for publisher %q", cfg.ID)
			}
			return requireFields(cfg.ID, "sns", map[string]string{
				"topic_arn": s.TopicARN, "region": s.Region, "access_key_id": s.AccessKeyID, "secret_access_key": s.SecretAccessKey,
			})
		case QueueProviderGCP:
			g := cfg.Queue.GCP
			if g == nil {
				return fmt.Errorf("gcp config required for publisher %q", cfg.ID)
			}
			return requireFields(cfg.ID, "gcp", map[string]string{"project_id": g.ProjectID, "topic": g.Topic})
		default:
			return fmt.Errorf("queue provider %q not supported for publisher %q", cfg.Queue.Provider, cfg.ID)
		}
	case TypeHTTP:
		if cfg.HTTP == nil {
			return fmt.Errorf("http config required for publisher %q", cfg.ID)
		}
		return requireFields(cfg.ID, "http", map[string]string{"url": cfg.HTTP.URL})
	default:
		return fmt.Errorf("type %q not supported for publisher %q", cfg.Type, cfg.ID)
	}
}

// requireFields reports the first empty field in sorted key order.
func requireFields(id, section string, fields map[string]string) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if fields[k] == "" {
			return fmt.Errorf("%s.%s is required for publisher %q", section, k, id)
		}
	}
	return nil
}

// ByID returns the publisher config by id.
func (r *ConfigRegistry) ByID(id string) (PublisherConfig, bool) {
	if r == nil {
		return PublisherConfig{}, false
	}
	cfg, ok := r.idx[strings.TrimSpace(id)]
	return cfg, ok
}

// All returns all configured publishers in file order.
func (r *ConfigRegistry) All() []PublisherConfig {
	if r == nil {
		return nil
	}
	out := make([]PublisherConfig, len(r.publishers))
	copy(out, r.publishers)
	return out
}

// Enabled returns publishers that are enabled.
func (r *ConfigRegistry) Enabled() []PublisherConfig {
	var out []PublisherConfig
	for _, cfg := range r.All() {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}

// EnabledValue returns enabled flag defaulting to true.
func (cfg PublisherConfig) EnabledValue() bool {
	if cfg.Enabled == nil {
		return true
	}
	return *cfg.Enabled
}
