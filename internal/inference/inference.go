// Package inference estimates latency, memory and cost of serving an LLM
// request on a given hardware and deployment setup.
package inference

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidRequest is returned for unknown enum values or impossible sizes.
var ErrInvalidRequest = errors.New("invalid inference request")

type ModelSize string

const (
	Model7B   ModelSize = "7B"
	Model13B  ModelSize = "13B"
	ModelGPT4 ModelSize = "GPT-4"
)

type HardwareType string

const (
	CPU HardwareType = "cpu"
	GPU HardwareType = "gpu"
	TPU HardwareType = "tpu"
)

type DeploymentMode string

const (
	Cloud  DeploymentMode = "cloud"
	OnPrem DeploymentMode = "on_prem"
	Edge   DeploymentMode = "edge"
)

// Figures for a 7B model on a GPU.
const (
	baseLatency = 0.05    // seconds per token
	baseMemory  = 14.0    // GB
	baseCost    = 0.00002 // dollars per 1K tokens
)

const (
	Compatible     = "Compatible"
	NotRecommended = "Not recommended for this model size"
)

var sizeMultiplier = map[ModelSize]float64{
	Model7B:   1.0,
	Model13B:  1.8,
	ModelGPT4: 10.0,
}

// hardwareMultiplier scales latency; a CPU is ten times slower than a GPU.
var hardwareMultiplier = map[HardwareType]float64{
	CPU: 10.0,
	GPU: 1.0,
	TPU: 0.5,
}

var deploymentMultiplier = map[DeploymentMode]float64{
	Cloud:  1.2,
	OnPrem: 1.0,
	Edge:   1.5,
}

// Request describes one inference workload. BatchSize 0 means 1.
type Request struct {
	ModelSize      ModelSize      `json:"model_size"`
	InputTokens    int            `json:"input_tokens"`
	OutputTokens   int            `json:"output_tokens"`
	BatchSize      int            `json:"batch_size"`
	HardwareType   HardwareType   `json:"hardware_type"`
	DeploymentMode DeploymentMode `json:"deployment_mode"`
}

// Result holds the estimates and echoes the request's enums.
type Result struct {
	LatencySeconds        float64        `json:"latency_seconds"`
	MemoryGB              float64        `json:"memory_gb"`
	CostPerRequest        float64        `json:"cost_per_request"`
	HardwareCompatibility string         `json:"hardware_compatibility"`
	ModelSize             ModelSize      `json:"model_size"`
	HardwareType          HardwareType   `json:"hardware_type"`
	DeploymentMode        DeploymentMode `json:"deployment_mode"`
}

// Calculate returns the estimates for req.
func Calculate(req Request) (Result, error) {
	req.HardwareType = HardwareType(strings.ToLower(strings.TrimSpace(string(req.HardwareType))))
	req.DeploymentMode = DeploymentMode(strings.ToLower(strings.TrimSpace(string(req.DeploymentMode))))
	req.ModelSize = ModelSize(strings.TrimSpace(string(req.ModelSize)))

	size, ok := sizeMultiplier[req.ModelSize]
	if !ok {
		return Result{}, fmt.Errorf("%w: model_size %q (want 7B, 13B or GPT-4)", ErrInvalidRequest, req.ModelSize)
	}
	hw, ok := hardwareMultiplier[req.HardwareType]
	if !ok {
		return Result{}, fmt.Errorf("%w: hardware_type %q (want cpu, gpu or tpu)", ErrInvalidRequest, req.HardwareType)
	}
	deploy, ok := deploymentMultiplier[req.DeploymentMode]
	if !ok {
		return Result{}, fmt.Errorf("%w: deployment_mode %q (want cloud, on_prem or edge)", ErrInvalidRequest, req.DeploymentMode)
	}
	if req.InputTokens < 0 || req.OutputTokens < 0 {
		return Result{}, fmt.Errorf("%w: token counts must not be negative", ErrInvalidRequest)
	}
	if req.BatchSize == 0 {
		req.BatchSize = 1
	}
	if req.BatchSize < 0 {
		return Result{}, fmt.Errorf("%w: batch_size must be positive", ErrInvalidRequest)
	}

	tokens := float64(req.InputTokens + req.OutputTokens)
	latency := (baseLatency * size * tokens) / (float64(req.BatchSize) * (1 / hw))
	memory := baseMemory * size
	cost := tokens / 1000 * (baseCost * size * deploy)

	compat := Compatible
	if req.HardwareType == CPU && req.ModelSize != Model7B {
		compat = NotRecommended
	}

	return Result{
		LatencySeconds:        round(latency, 4),
		MemoryGB:              round(memory, 2),
		CostPerRequest:        round(cost, 6),
		HardwareCompatibility: compat,
		ModelSize:             req.ModelSize,
		HardwareType:          req.HardwareType,
		DeploymentMode:        req.DeploymentMode,
	}, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
