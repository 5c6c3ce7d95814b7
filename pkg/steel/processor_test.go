package steel

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	logrus_test "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config_memory "github.com/ifiokjr/steel/pkg/config/memory"
	config_wrapper "github.com/ifiokjr/steel/pkg/config/wrapper"
)

func TestParseInstruction(t *testing.T) {
	selector, payload, err := ParseInstruction([]byte{0x05, 0xAA, 0xBB})
	require.NoError(t, err)
	assert.Equal(t, Discriminator(0x05), selector)
	assert.Equal(t, []byte{0xAA, 0xBB}, payload)

	selector, payload, err = ParseInstruction([]byte{0x07})
	require.NoError(t, err)
	assert.Equal(t, Discriminator(0x07), selector)
	assert.Empty(t, payload)

	_, _, err = ParseInstruction(nil)
	assert.ErrorIs(t, err, ErrInvalidInstructionDiscriminant)
}

func TestProcess_UnknownSelectorNeverInvokesHandler(t *testing.T) {
	programID := newTestKey(t)

	var invocations int
	registry := NewRegistry()
	registry.MustRegisterInstructionAt(0x01, "initialize", func(*ExecutionContext) error {
		invocations++
		return nil
	})

	processor := NewProcessor(programID, registry)

	err := processor.Process(context.Background(), programID, nil, []byte{0x02})
	assert.ErrorIs(t, err, ErrInvalidInstructionDiscriminant)
	assert.Equal(t, 0, invocations)

	err = processor.Process(context.Background(), programID, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInstructionDiscriminant)
	assert.Equal(t, 0, invocations)
}

func TestProcess_IncorrectProgramID(t *testing.T) {
	programID := newTestKey(t)
	processor := NewProcessor(programID, NewRegistry())

	err := processor.Process(context.Background(), newTestKey(t), nil, []byte{0x01})
	assert.ErrorIs(t, err, ErrIncorrectProgramID)
}

func TestProcess_EndToEnd(t *testing.T) {
	programID := newTestKey(t)
	signer := newTestKey(t)

	vaultLayout := &Layout{Name: "Vault", Discriminator: 0x01, Size: 48}

	pdaAddress, _, err := FindProgramAddressAndBump(programID, []byte("vault"), signer)
	require.NoError(t, err)

	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}

	var invocations int
	registry := NewRegistry()
	registry.MustRegisterAccountAt(0x01, vaultLayout.Name, vaultLayout.Size)
	registry.MustRegisterInstructionAt(0x05, "deposit",
		func(ectx *ExecutionContext) error {
			invocations++

			require.Len(t, ectx.Accounts, 2)
			assert.Equal(t, "deposit", ectx.Instruction)
			assert.Equal(t, payload, ectx.Data)

			// typed view over the first bound account
			view, err := ectx.Account(0).View()
			require.NoError(t, err)
			assert.Equal(t, vaultLayout.Discriminator, view.Layout().Discriminator)

			// the second slot carries its confirmed bump
			assert.Equal(t, pdaAddress, ectx.Account(1).Info.Address)

			require.Len(t, ectx.Remaining, 1)
			return nil
		},
		Account("owner").Signer().OwnedBy(programID).WithLayout(vaultLayout),
		Account("vault_pda").WithSeeds([]byte("vault"), signer),
	)

	processor := NewProcessor(programID, registry)

	ownerAccount := &AccountInfo{
		Address:  signer,
		Owner:    programID,
		Data:     vaultLayout.NewAccountData(),
		IsSigner: true,
	}
	pdaAccount := &AccountInfo{Address: pdaAddress}
	extraAccount := &AccountInfo{Address: newTestKey(t)}

	accounts := []*AccountInfo{ownerAccount, pdaAccount, extraAccount}
	require.NoError(t, processor.Process(context.Background(), programID, accounts, append([]byte{0x05}, payload...)))
	assert.Equal(t, 1, invocations)
}

func TestProcess_EndToEnd_InvalidSeeds(t *testing.T) {
	programID := newTestKey(t)
	signer := newTestKey(t)

	vaultLayout := &Layout{Name: "Vault", Discriminator: 0x01, Size: 48}

	var invocations int
	registry := NewRegistry()
	registry.MustRegisterInstructionAt(0x05, "deposit",
		func(*ExecutionContext) error {
			invocations++
			return nil
		},
		Account("owner").Signer().OwnedBy(programID).WithLayout(vaultLayout),
		Account("vault_pda").WithSeeds([]byte("vault"), signer),
	)

	processor := NewProcessor(programID, registry)

	accounts := []*AccountInfo{
		{
			Address:  signer,
			Owner:    programID,
			Data:     vaultLayout.NewAccountData(),
			IsSigner: true,
		},
		// not the derived address
		{Address: newTestKey(t)},
	}

	err := processor.Process(context.Background(), programID, accounts, []byte{0x05})
	assert.ErrorIs(t, err, ErrInvalidSeeds)
	assert.Equal(t, 0, invocations)
}

func TestProcess_HandlerErrorPropagatesUnchanged(t *testing.T) {
	programID := newTestKey(t)

	registry := NewRegistry()
	registry.MustRegisterInstructionAt(0x01, "fail", func(*ExecutionContext) error {
		return ErrInsufficientLamports
	})

	processor := NewProcessor(programID, registry)

	err := processor.Process(context.Background(), programID, nil, []byte{0x01})
	assert.Equal(t, ErrInsufficientLamports, err)
}

func TestProcess_Diagnostics(t *testing.T) {
	programID := newTestKey(t)

	logger, hook := logrus_test.NewNullLogger()
	logsEnabled := config_memory.NewConfig(nil)

	processor := NewProcessor(
		programID,
		NewRegistry(),
		WithLogger(logger.WithField("type", "steel/processor")),
		WithLogsEnabled(config_wrapper.NewBoolConfig(logsEnabled, false)),
	)

	// disabled by default
	err := processor.Process(context.Background(), programID, nil, []byte{0x09})
	assert.ErrorIs(t, err, ErrInvalidInstructionDiscriminant)
	assert.Empty(t, hook.Entries)

	logsEnabled.SetValue(true)
	err = processor.Process(context.Background(), programID, nil, []byte{0x09})
	assert.ErrorIs(t, err, ErrInvalidInstructionDiscriminant)

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Contains(t, entry.Message, "invalid instruction discriminant")
	assert.Equal(t, ErrInvalidInstructionDiscriminant.Code(), entry.Data["code"])
}
