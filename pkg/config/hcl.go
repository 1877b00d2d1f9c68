// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL. The environment is available as env.NAME.
func (p *HCLParser) Parse(ctx context.Context, data []byte, base *Config) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
	}

	// Define HCL schema
	type hclConfig struct {
		Source              *string  `hcl:"source,optional"`
		Destination         *string  `hcl:"destination,optional"`
		MaxConcurrentCopies *int     `hcl:"max_concurrent_copies,optional"`
		Exclude             []string `hcl:"exclude,optional"`
		SerializeCollisions *bool    `hcl:"serialize_collisions,optional"`
		Atomic              *bool    `hcl:"atomic,optional"`
		LogFile             *string  `hcl:"log_file,optional"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := *base
	if hclCfg.Source != nil {
		cfg.Source = *hclCfg.Source
	}
	if hclCfg.Destination != nil {
		cfg.Destination = *hclCfg.Destination
	}
	if hclCfg.MaxConcurrentCopies != nil {
		cfg.MaxConcurrentCopies = *hclCfg.MaxConcurrentCopies
	}
	if hclCfg.Exclude != nil {
		cfg.Exclude = hclCfg.Exclude
	}
	if hclCfg.SerializeCollisions != nil {
		cfg.SerializeCollisions = *hclCfg.SerializeCollisions
	}
	if hclCfg.Atomic != nil {
		cfg.Atomic = *hclCfg.Atomic
	}
	if hclCfg.LogFile != nil {
		cfg.LogFile = *hclCfg.LogFile
	}

	return &cfg, nil
}

// envObject exposes the process environment to HCL expressions.
func envObject() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}
