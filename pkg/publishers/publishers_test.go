package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRegistry(t *testing.T, name, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadRegistryEnabledFilter(t *testing.T) {
	path := writeRegistry(t, "publishers.yaml", `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: HTTP
    enabled: true
    http:
      url: " https://example.com/2 "
      signing_secret: s3cret
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
	cfg, ok := reg.ByID("http2")
	if !ok {
		t.Fatalf("ByID did not find http2")
	}
	if cfg.Type != TypeHTTP || cfg.HTTP.URL != "https://example.com/2" {
		t.Fatalf("config not sanitized: %#v", cfg)
	}
	if cfg.HTTP.Method != "POST" || cfg.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("defaults not applied: %#v", cfg.HTTP)
	}
	if cfg.HTTP.SigningSecret != "s3cret" {
		t.Fatalf("signing secret lost")
	}
}

func TestLoadRegistryJSONWithQueues(t *testing.T) {
	path := writeRegistry(t, "publishers.json", `{"publishers":[
  {"id":"q","type":"sqs","sqs":{"uri":"https://sqs/q","region":"eu-west-3"}},
  {"id":"t","type":"sns","sns":{"topic_arn":"arn:aws:sns:eu-west-3:1:t","region":"eu-west-3","credentials":{"access_key_id":" ","secret_access_key":""}}},
  {"id":"g","type":"pubsub","pubsub":{"project_id":"p","topic":"events"}}
]}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if got := len(reg.All()); got != 3 {
		t.Fatalf("expected 3 publishers, got %d", got)
	}
	sns, _ := reg.ByID("t")
	if sns.SNS.Credentials != nil {
		t.Fatalf("blank credentials should be dropped")
	}
}

func TestLoadRegistryRejectsDuplicates(t *testing.T) {
	path := writeRegistry(t, "publishers.yaml", `
publishers:
  - id: a
    type: http
    http: {url: https://example.com}
  - id: a
    type: http
    http: {url: https://example.com}
`)
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidatePublisherConfig(t *testing.T) {
	cases := map[string]PublisherConfig{
		"missing http":     {ID: "h1", Type: TypeHTTP},
		"missing sqs uri":  {ID: "s", Type: TypeSQS, SQS: &SQSPublisherConfig{Region: "eu-west-3"}},
		"missing sns arn":  {ID: "s", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "eu-west-3"}},
		"missing topic":    {ID: "g", Type: TypePubSub, PubSub: &PubSubPublisherConfig{ProjectID: "p"}},
		"half credentials": {ID: "s", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "u", Region: "r", Credentials: &AWSCredentials{AccessKeyID: "id"}}},
		"unsupported type": {ID: "k", Type: "kafka"},
		"missing id":       {Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "u"}},
	}
	for name, cfg := range cases {
		if err := validatePublisherConfig(cfg); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestLoadRegistryExpandsEnv(t *testing.T) {
	t.Setenv("FORWARD_SIGNING_SECRET", "from-env")
	path := writeRegistry(t, "publishers.yml", `
publishers:
  - id: relay
    type: http
    http:
      url: https://example.com/hook
      signing_secret: ${FORWARD_SIGNING_SECRET}
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, ok := reg.ByID(" relay ")
	if !ok {
		t.Fatalf("ByID did not find relay")
	}
	if cfg.HTTP.SigningSecret != "from-env" {
		t.Fatalf("signing secret not expanded: %q", cfg.HTTP.SigningSecret)
	}
}

func TestLoadRegistryRejectsEmptyAndMalformed(t *testing.T) {
	if _, err := LoadRegistry(" "); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := LoadRegistry(writeRegistry(t, "p.yaml", "publishers: []\n")); err == nil {
		t.Fatalf("expected error for empty publishers list")
	}
	if _, err := LoadRegistry(writeRegistry(t, "p.json", "{not json")); err == nil {
		t.Fatalf("expected error for malformed json")
	}
}
