package steel

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"io"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ifiokjr/steel/pkg/config"
	config_wrapper "github.com/ifiokjr/steel/pkg/config/wrapper"
)

// Handler executes one instruction's logic against validated accounts.
// Returned errors propagate unchanged through the router to the host.
type Handler func(ectx *ExecutionContext) error

// ExecutionContext carries everything a handler may touch during one
// invocation: the validated accounts in constraint order, any extra
// accounts past the declared slots, and the instruction's argument payload.
// It is valid only for the duration of the handler call.
type ExecutionContext struct {
	ctx context.Context

	// ProgramID is the program being executed.
	ProgramID ed25519.PublicKey

	// Instruction is the registered name of the dispatched instruction.
	Instruction string

	// Accounts holds one bound account per declared constraint, in order.
	Accounts []*BoundAccount

	// Remaining holds the runtime accounts past the declared slots,
	// unvalidated.
	Remaining []*AccountInfo

	// Data is the argument payload after the selector byte, unmodified.
	Data []byte
}

// Context returns the invocation's context.
func (e *ExecutionContext) Context() context.Context {
	return e.ctx
}

// Account returns the bound account at a constraint slot.
func (e *ExecutionContext) Account(slot int) *BoundAccount {
	return e.Accounts[slot]
}

// ParseInstruction splits raw instruction bytes into the selector
// discriminant and the remaining argument payload.
func ParseInstruction(data []byte) (Discriminator, []byte, error) {
	if len(data) == 0 {
		return 0, nil, errors.Wrap(ErrInvalidInstructionDiscriminant, "empty instruction data")
	}
	return Discriminator(data[0]), data[1:], nil
}

// Processor is the instruction dispatch router. It holds the discriminator
// registry, the program's declared identity, and the diagnostics
// configuration; per-call state does not exist, so a single Processor
// serves every invocation.
type Processor struct {
	programID ed25519.PublicKey
	registry  *Registry

	log         *logrus.Entry
	logsEnabled config.Bool
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithLogger sets the logger backing the diagnostic channel.
func WithLogger(log *logrus.Entry) ProcessorOption {
	return func(p *Processor) {
		p.log = log
	}
}

// WithLogsEnabled gates validation-failure diagnostics behind a dynamic
// flag. Disabled by default to keep the on-chain footprint minimal.
func WithLogsEnabled(flag config.Bool) ProcessorOption {
	return func(p *Processor) {
		p.logsEnabled = flag
	}
}

// NewProcessor builds a router for a program identity over an explicit
// registry.
func NewProcessor(programID ed25519.PublicKey, registry *Registry, opts ...ProcessorOption) *Processor {
	silenced := logrus.New()
	silenced.SetOutput(io.Discard)

	p := &Processor{
		programID:   programID,
		registry:    registry,
		log:         silenced.WithField("type", "steel/processor"),
		logsEnabled: config_wrapper.NewBoolConfig(config.NoopConfig, false),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process is the inbound entrypoint invoked once per instruction by the
// host runtime. It extracts the selector, resolves the handler, validates
// and binds the handler's declared accounts, and runs the handler with the
// remaining payload. Any failure short-circuits back to the host; an
// unrecognized selector never reaches a handler.
func (p *Processor) Process(ctx context.Context, programID ed25519.PublicKey, accounts []*AccountInfo, data []byte) error {
	if !bytes.Equal(programID, p.programID) {
		return p.fail(ctx, errors.Wrapf(
			ErrIncorrectProgramID,
			"invoked as %s, declared %s",
			base58.Encode(programID), base58.Encode(p.programID),
		))
	}

	selector, payload, err := ParseInstruction(data)
	if err != nil {
		return p.fail(ctx, err)
	}

	def, ok := p.registry.Instruction(selector)
	if !ok {
		return p.fail(ctx, errors.Wrapf(ErrInvalidInstructionDiscriminant, "selector %d", selector))
	}

	bound, err := ValidateAccounts(p.programID, def.Accounts, accounts)
	if err != nil {
		return p.fail(ctx, errors.Wrapf(err, "instruction %s", def.Name))
	}

	return def.Handler(&ExecutionContext{
		ctx:         ctx,
		ProgramID:   p.programID,
		Instruction: def.Name,
		Accounts:    bound,
		Remaining:   accounts[len(def.Accounts):],
		Data:        payload,
	})
}

// fail emits a diagnostic for a routing or validation failure when logging
// is enabled, then returns the error unchanged.
func (p *Processor) fail(ctx context.Context, err error) error {
	if p.logsEnabled.Get(ctx) {
		log := p.log
		if code, ok := CodeOf(err); ok {
			log = log.WithField("code", code)
		}
		log.Warn(err.Error())
	}
	return err
}
