package config

import (
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// hclFile mirrors Config in HCL syntax:
//
//	logging { level = "debug" }
//	metrics {
//	  enabled = true
//	  addr    = ":9090"
//	}
//	binding "greeting" {
//	  provider  = "static-string"
//	  lifecycle = "singleton"
//	  params    = { value = "hello" }
//	}
type hclFile struct {
	Logging  *hclLogging  `hcl:"logging,block"`
	Metrics  *hclMetrics  `hcl:"metrics,block"`
	Bindings []hclBinding `hcl:"binding,block"`
}

type hclLogging struct {
	Level string `hcl:"level,optional"`
}

type hclMetrics struct {
	Enabled bool   `hcl:"enabled,optional"`
	Addr    string `hcl:"addr,optional"`
}

type hclBinding struct {
	Key       string            `hcl:"key,label"`
	Provider  string            `hcl:"provider"`
	Lifecycle string            `hcl:"lifecycle,optional"`
	Params    map[string]string `hcl:"params,optional"`
}

func decodeHCL(path string, cfg *Config) error {
	var f hclFile
	if err := hclsimple.DecodeFile(path, nil, &f); err != nil {
		return err
	}
	if f.Logging != nil {
		cfg.Logging.Level = f.Logging.Level
	}
	if f.Metrics != nil {
		cfg.Metrics = MetricsConfig{Enabled: f.Metrics.Enabled, Addr: f.Metrics.Addr}
	}
	for _, b := range f.Bindings {
		bc := BindingConfig{Key: b.Key, Provider: b.Provider, Lifecycle: b.Lifecycle}
		if len(b.Params) > 0 {
			bc.Params = make(map[string]any, len(b.Params))
			for k, v := range b.Params {
				bc.Params[k] = v
			}
		}
		cfg.Bindings = append(cfg.Bindings, bc)
	}
	return nil
}
