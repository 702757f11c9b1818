package bot

import (
	"fmt"
	"math"
	"sync"

	gonnx "github.com/advancedclimatesystems/gonnx"
	"github.com/rs/zerolog/log"
	"gorgonia.org/tensor"

	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/rl"
	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/pkg/battle"
)

// GonnxModelPath is the directory containing policy.onnx and value.onnx.
// Set at startup (e.g. from the MODEL_PATH env var) before creating
// strategies.
var GonnxModelPath string

// newGonnxOrFallback attempts to create a GonnxStrategy. If loading fails,
// it falls back to HeuristicStrategy so battles can proceed.
func newGonnxOrFallback() Strategy {
	s, err := NewGonnxStrategy(GonnxModelPath)
	if err != nil {
		log.Warn().Err(err).Str("path", GonnxModelPath).
			Msg("Policy model load failed, falling back to heuristic")
		return &HeuristicStrategy{}
	}
	return s
}

// GonnxStrategy uses gonnx (pure Go ONNX runtime) to run the trained policy
// network. The observation vector feeds the policy model; illegal actions
// have their logits forced to -inf before the argmax.
type GonnxStrategy struct {
	policy *gonnx.Model
	value  *gonnx.Model
	cfg    rl.EncoderConfig
	mu     sync.Mutex
}

// NewGonnxStrategy loads the policy model, and the value model when present.
func NewGonnxStrategy(path string) (*GonnxStrategy, error) {
	if path == "" {
		path = "models"
	}

	policy, err := gonnx.NewModelFromFile(path + "/policy.onnx")
	if err != nil {
		return nil, fmt.Errorf("load policy model: %w", err)
	}

	value, err := gonnx.NewModelFromFile(path + "/value.onnx")
	if err != nil {
		log.Debug().Err(err).Msg("Value model not found, value eval disabled")
		value = nil
	}

	return &GonnxStrategy{
		policy: policy,
		value:  value,
		cfg:    rl.DefaultEncoderConfig(),
	}, nil
}

func (s *GonnxStrategy) Name() string { return "gonnx" }

// ChooseAction encodes the snapshot, runs the policy network, and picks the
// highest-logit legal action.
func (s *GonnxStrategy) ChooseAction(snap *battle.Snapshot, mask rl.ActionMask) (int, error) {
	if mask.Count() == 0 {
		return -1, fmt.Errorf("no legal actions")
	}

	logits, err := s.runPolicy(snap)
	if err != nil {
		log.Warn().Err(err).Msg("Policy inference failed, falling back to heuristic")
		return HeuristicStrategy{}.ChooseAction(snap, mask)
	}
	if len(logits) < rl.NumActions {
		return -1, fmt.Errorf("policy output has %d logits, want %d", len(logits), rl.NumActions)
	}

	best, bestLogit := -1, float32(math.Inf(-1))
	for a := 0; a < rl.NumActions; a++ {
		if !mask[a] {
			continue
		}
		if best < 0 || logits[a] > bestLogit {
			best, bestLogit = a, logits[a]
		}
	}
	return best, nil
}

// EstimateValue runs the value head, returning the win probability.
func (s *GonnxStrategy) EstimateValue(snap *battle.Snapshot) (float64, error) {
	if s.value == nil {
		return 0, fmt.Errorf("value model not loaded")
	}
	obs, err := rl.Encode(snap, s.cfg)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	outputs, err := s.value.Run(gonnx.Tensors{"obs": obsTensor(obs)})
	s.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("value run: %w", err)
	}

	vals, err := floatOutput(outputs, "value")
	if err != nil {
		return 0, err
	}
	if len(vals) == 0 {
		return 0, fmt.Errorf("empty value output")
	}
	return float64(vals[0]), nil
}

func (s *GonnxStrategy) runPolicy(snap *battle.Snapshot) ([]float32, error) {
	obs, err := rl.Encode(snap, s.cfg)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	outputs, err := s.policy.Run(gonnx.Tensors{"obs": obsTensor(obs)})
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("policy run: %w", err)
	}
	return floatOutput(outputs, "action_logits")
}

func obsTensor(obs []float32) tensor.Tensor {
	return tensor.New(
		tensor.WithShape(1, len(obs)),
		tensor.Of(tensor.Float32),
		tensor.WithBacking(obs),
	)
}

// floatOutput extracts a float32 slice from a named model output, falling
// back to the first output when the name does not match.
func floatOutput(outputs gonnx.Tensors, name string) ([]float32, error) {
	out, ok := outputs[name]
	if !ok {
		for _, v := range outputs {
			out = v
			break
		}
	}
	if out == nil {
		return nil, fmt.Errorf("no output tensor from model")
	}
	switch d := out.Data().(type) {
	case []float32:
		return d, nil
	case []float64:
		f32 := make([]float32, len(d))
		for i, v := range d {
			f32[i] = float32(v)
		}
		return f32, nil
	default:
		return nil, fmt.Errorf("unexpected output type %T", d)
	}
}
