// Copyright 2026 Blink Labs Software
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

// Package pipeline derives the stableswap scripts, hashes and addresses for
// a pool configuration.
package pipeline

import (
	"context"
	"fmt"

	"github.com/blinklabs-io/stableswap-deploy/address"
	"github.com/blinklabs-io/stableswap-deploy/script"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/blinklabs-io/stableswap-deploy/pipeline"

type PipelineConfig struct {
	Templates *script.Templates
	Network   address.Network
	// StrictEnvelope rejects templates whose envelope is ambiguous instead of
	// using them unchanged
	StrictEnvelope bool
}

// Pipeline builds pools for one network from a shared, read-only template set
type Pipeline struct {
	config PipelineConfig
	tracer trace.Tracer
}

func New(cfg PipelineConfig) (*Pipeline, error) {
	if cfg.Templates == nil {
		return nil, ErrNoTemplates
	}
	if err := cfg.Network.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		config: cfg,
		tracer: otel.Tracer(tracerName),
	}, nil
}

func (p *Pipeline) Network() address.Network {
	return p.config.Network
}

// Build runs every stage for one pool. The context is only used for tracing.
func (p *Pipeline) Build(ctx context.Context, pool PoolConfig) (*Result, error) {
	ctx, span := p.tracer.Start(
		ctx,
		"pipeline.build",
		trace.WithAttributes(
			attribute.String("pool", pool.Key),
			attribute.String("network", p.config.Network.String()),
		),
	)
	defer span.End()
	res := &Result{
		Pool:    pool,
		Network: p.config.Network,
	}
	for _, stage := range Stages {
		if err := p.runStage(ctx, stage, res); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}
	if err := p.deriveAddresses(res); err != nil {
		err = &StageError{Stage: "addresses", Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return res, nil
}

func (p *Pipeline) runStage(ctx context.Context, stage Stage, res *Result) error {
	_, span := p.tracer.Start(
		ctx,
		"pipeline.stage."+stage.Name,
		trace.WithAttributes(attribute.String("role", string(stage.Role))),
	)
	defer span.End()
	template, err := p.templateScript(stage.Role)
	if err != nil {
		return &StageError{Stage: stage.Name, Err: err}
	}
	params, err := stage.Params(res)
	if err != nil {
		return &StageError{Stage: stage.Name, Err: err}
	}
	applied, err := script.ApplyAll(template, params...)
	if err != nil {
		return &StageError{Stage: stage.Name, Err: err}
	}
	hash, err := script.Hash(applied)
	if err != nil {
		return &StageError{Stage: stage.Name, Err: err}
	}
	span.SetAttributes(attribute.String("hash", hash.String()))
	stage.Store(res, applied, hash)
	return nil
}

func (p *Pipeline) templateScript(role script.Role) (script.Script, error) {
	template := p.config.Templates.Get(role)
	if template.Code == nil {
		return script.Script{}, &script.MissingTemplateError{Roles: []script.Role{role}}
	}
	if p.config.StrictEnvelope {
		return template.StrictScript()
	}
	return template.Script(), nil
}

func (p *Pipeline) deriveAddresses(res *Result) error {
	var err error
	network := p.config.Network
	batching := address.ScriptCredential(res.BatchingHash)
	res.BatchingAddress, err = address.Derive(network, nil, &batching)
	if err != nil {
		return fmt.Errorf("batching address: %w", err)
	}
	poolCred := address.ScriptCredential(res.PoolHash)
	res.PoolAddress, err = address.Derive(network, &poolCred, res.Pool.StakeCredential)
	if err != nil {
		return fmt.Errorf("pool address: %w", err)
	}
	orderCred := address.ScriptCredential(res.OrderHash)
	res.OrderAddress, err = address.Derive(network, &orderCred, res.Pool.StakeCredential)
	if err != nil {
		return fmt.Errorf("order address: %w", err)
	}
	return nil
}
