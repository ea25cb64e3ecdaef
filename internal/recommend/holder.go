package recommend

import (
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/spigell/assessment-recommender/internal/assessment"
)

// Holder owns the engine used for request handling.
// A reload builds a new engine and swaps it in; engines are never modified in place.
type Holder struct {
	current atomic.Pointer[Engine]
	cfg     *Config
	logger  *zap.Logger
}

func NewHolder(engine *Engine, cfg *Config, logger *zap.Logger) (*Holder, error) {
	if engine == nil {
		return nil, errors.New("engine is required")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	h := &Holder{cfg: cfg, logger: logger}
	h.current.Store(engine)
	return h, nil
}

// Current returns the engine serving requests right now.
func (h *Holder) Current() *Engine {
	return h.current.Load()
}

// Swap installs engine and returns the one it replaced.
// A nil engine is ignored and nil is returned, so Current never yields nil.
func (h *Holder) Swap(engine *Engine) *Engine {
	if engine == nil {
		return nil
	}
	return h.current.Swap(engine)
}

// Reload loads the catalogue at path, builds a fresh engine and swaps it in.
// On any error the current engine keeps serving.
func (h *Holder) Reload(path string) error {
	catalogue, err := assessment.LoadFile(path)
	if err != nil {
		return fmt.Errorf("reload catalogue: %w", err)
	}

	engine, err := New(catalogue, h.cfg, h.logger)
	if err != nil {
		return fmt.Errorf("rebuild engine: %w", err)
	}

	fields := []zap.Field{
		zap.String("path", path),
		zap.Int("assessments", catalogue.Len()),
	}
	if previous := h.Swap(engine); previous != nil {
		fields = append(fields, zap.Int("previous_assessments", previous.Catalogue().Len()))
	}

	h.logger.Info("catalogue reloaded", fields...)

	return nil
}
