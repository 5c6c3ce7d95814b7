package steel

import (
	"math"

	"github.com/pkg/errors"
)

// Discriminator is the one-byte tag identifying an account layout variant or
// an instruction variant. Account and instruction tag spaces are independent;
// within each space a tag maps to at most one variant.
type Discriminator uint8

var (
	ErrDuplicateDiscriminator = errors.New("discriminator already registered")
	ErrDiscriminatorSpaceFull = errors.New("discriminator space exhausted")
	ErrUnknownVariant         = errors.New("unknown variant")
)

// Registry is the explicit table mapping discriminators to account layouts
// and instruction definitions. It is built once at program startup and
// passed to the Processor; registration is not safe for concurrent use and
// must complete before the first instruction is processed.
//
// Tags are assigned sequentially in declaration order unless pinned
// explicitly. Pinned tags keep shipped on-chain layouts stable when
// declarations are later reordered.
type Registry struct {
	accounts       map[Discriminator]*Layout
	accountTags    map[string]Discriminator
	instructions   map[Discriminator]*InstructionDefinition
	instructionTag map[string]Discriminator

	nextAccountTag     int
	nextInstructionTag int
}

// InstructionDefinition binds an instruction discriminator to its handler
// and the account constraints the validation engine enforces before the
// handler runs.
type InstructionDefinition struct {
	Name          string
	Discriminator Discriminator
	Accounts      []AccountConstraint
	Handler       Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		accounts:       make(map[Discriminator]*Layout),
		accountTags:    make(map[string]Discriminator),
		instructions:   make(map[Discriminator]*InstructionDefinition),
		instructionTag: make(map[string]Discriminator),
	}
}

// RegisterAccount declares an account layout with the next free tag in
// declaration order.
func (r *Registry) RegisterAccount(name string, size int) (*Layout, error) {
	tag, err := nextFreeTag(&r.nextAccountTag, func(d Discriminator) bool {
		_, used := r.accounts[d]
		return used
	})
	if err != nil {
		return nil, err
	}
	return r.RegisterAccountAt(tag, name, size)
}

// RegisterAccountAt declares an account layout with an explicitly pinned
// tag. Reusing a tag is a definition-time failure, never a runtime one.
func (r *Registry) RegisterAccountAt(tag Discriminator, name string, size int) (*Layout, error) {
	if _, used := r.accounts[tag]; used {
		return nil, errors.Wrapf(ErrDuplicateDiscriminator, "account tag %d", tag)
	}
	if _, used := r.accountTags[name]; used {
		return nil, errors.Wrapf(ErrDuplicateDiscriminator, "account type %q", name)
	}

	layout := &Layout{
		Name:          name,
		Discriminator: tag,
		Size:          size,
	}
	r.accounts[tag] = layout
	r.accountTags[name] = tag

	return layout, nil
}

// MustRegisterAccount is RegisterAccount, panicking on definition errors.
func (r *Registry) MustRegisterAccount(name string, size int) *Layout {
	layout, err := r.RegisterAccount(name, size)
	if err != nil {
		panic(err)
	}
	return layout
}

// MustRegisterAccountAt is RegisterAccountAt, panicking on definition errors.
func (r *Registry) MustRegisterAccountAt(tag Discriminator, name string, size int) *Layout {
	layout, err := r.RegisterAccountAt(tag, name, size)
	if err != nil {
		panic(err)
	}
	return layout
}

// RegisterInstruction declares an instruction with the next free tag in
// declaration order.
func (r *Registry) RegisterInstruction(name string, handler Handler, accounts ...AccountConstraint) (Discriminator, error) {
	tag, err := nextFreeTag(&r.nextInstructionTag, func(d Discriminator) bool {
		_, used := r.instructions[d]
		return used
	})
	if err != nil {
		return 0, err
	}
	return tag, r.RegisterInstructionAt(tag, name, handler, accounts...)
}

// RegisterInstructionAt declares an instruction with an explicitly pinned
// tag.
func (r *Registry) RegisterInstructionAt(tag Discriminator, name string, handler Handler, accounts ...AccountConstraint) error {
	if _, used := r.instructions[tag]; used {
		return errors.Wrapf(ErrDuplicateDiscriminator, "instruction tag %d", tag)
	}
	if _, used := r.instructionTag[name]; used {
		return errors.Wrapf(ErrDuplicateDiscriminator, "instruction %q", name)
	}

	r.instructions[tag] = &InstructionDefinition{
		Name:          name,
		Discriminator: tag,
		Accounts:      accounts,
		Handler:       handler,
	}
	r.instructionTag[name] = tag

	return nil
}

// MustRegisterInstruction is RegisterInstruction, panicking on definition
// errors.
func (r *Registry) MustRegisterInstruction(name string, handler Handler, accounts ...AccountConstraint) Discriminator {
	tag, err := r.RegisterInstruction(name, handler, accounts...)
	if err != nil {
		panic(err)
	}
	return tag
}

// MustRegisterInstructionAt is RegisterInstructionAt, panicking on
// definition errors.
func (r *Registry) MustRegisterInstructionAt(tag Discriminator, name string, handler Handler, accounts ...AccountConstraint) {
	if err := r.RegisterInstructionAt(tag, name, handler, accounts...); err != nil {
		panic(err)
	}
}

// AccountLayout returns the layout registered under a tag.
func (r *Registry) AccountLayout(tag Discriminator) (*Layout, bool) {
	layout, ok := r.accounts[tag]
	return layout, ok
}

// AccountTag returns the tag registered for an account type name.
func (r *Registry) AccountTag(name string) (Discriminator, error) {
	tag, ok := r.accountTags[name]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownVariant, "account type %q", name)
	}
	return tag, nil
}

// Instruction returns the instruction definition registered under a tag.
// Used by the dispatch router's reverse lookup.
func (r *Registry) Instruction(tag Discriminator) (*InstructionDefinition, bool) {
	def, ok := r.instructions[tag]
	return def, ok
}

// InstructionTag returns the tag registered for an instruction name.
func (r *Registry) InstructionTag(name string) (Discriminator, error) {
	tag, ok := r.instructionTag[name]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownVariant, "instruction %q", name)
	}
	return tag, nil
}

func nextFreeTag(cursor *int, used func(Discriminator) bool) (Discriminator, error) {
	for *cursor <= math.MaxUint8 {
		tag := Discriminator(*cursor)
		*cursor++
		if !used(tag) {
			return tag, nil
		}
	}
	return 0, ErrDiscriminatorSpaceFull
}
