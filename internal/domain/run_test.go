package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"goentrega/internal/domain"
)

// TestRunStatus_TransicoesPermitidas percorre a máquina de estados da rota,
// incluindo a aresta reversa administrativa DISPATCHED -> PLANNED.
func TestRunStatus_TransicoesPermitidas(t *testing.T) {
	cases := []struct {
		from    domain.RunStatus
		to      domain.RunStatus
		allowed bool
	}{
		{domain.RunStatusPlanned, domain.RunStatusDispatched, true},
		{domain.RunStatusPlanned, domain.RunStatusCancelled, true},
		{domain.RunStatusPlanned, domain.RunStatusCheckedIn, false},
		{domain.RunStatusDispatched, domain.RunStatusCheckedIn, true},
		{domain.RunStatusDispatched, domain.RunStatusPlanned, true},
		{domain.RunStatusDispatched, domain.RunStatusClosed, false},
		{domain.RunStatusCheckedIn, domain.RunStatusClosed, true},
		{domain.RunStatusCheckedIn, domain.RunStatusCancelled, true},
		{domain.RunStatusCheckedIn, domain.RunStatusPlanned, false},
		{domain.RunStatusClosed, domain.RunStatusPlanned, false},
		{domain.RunStatusCancelled, domain.RunStatusPlanned, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

// TestRunStatus_IsValid testa o reconhecimento dos status conhecidos.
func TestRunStatus_IsValid(t *testing.T) {
	assert.True(t, domain.RunStatus("PLANNED").IsValid())
	assert.True(t, domain.RunStatus("CANCELLED").IsValid())
	assert.False(t, domain.RunStatus("EM_ROTA").IsValid())
	assert.False(t, domain.RunStatus("").IsValid())
}

// TestDeliveryRun_Editable testa que só rotas PLANNED aceitam edição.
func TestDeliveryRun_Editable(t *testing.T) {
	for _, status := range []domain.RunStatus{
		domain.RunStatusDispatched,
		domain.RunStatusCheckedIn,
		domain.RunStatusClosed,
		domain.RunStatusCancelled,
	} {
		run := domain.DeliveryRun{Status: status}
		assert.False(t, run.Editable(), "status %s", status)
	}

	run := domain.DeliveryRun{Status: domain.RunStatusPlanned}
	assert.True(t, run.Editable())
}

// TestValidateLoadout testa a validação de fronteira do documento de carga.
func TestValidateLoadout(t *testing.T) {
	errs := domain.ValidateLoadout([]domain.LoadoutLine{
		{ProductID: "arroz", Quantity: 2},
		{ProductID: "", Quantity: 1},
		{ProductID: "cafe", Quantity: 0},
	})

	assert.Len(t, errs, 2)

	assert.Empty(t, domain.ValidateLoadout(nil))
}
