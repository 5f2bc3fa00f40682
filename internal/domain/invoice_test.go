package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceTransitions_AllowedPaths(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{InvoiceStatusDraft, InvoiceStatusPending, true},
		{InvoiceStatusDraft, InvoiceStatusCancelled, true},
		{InvoiceStatusDraft, InvoiceStatusPaid, false},
		{InvoiceStatusDraft, InvoiceStatusOverdue, false},
		{InvoiceStatusPending, InvoiceStatusPaid, true},
		{InvoiceStatusPending, InvoiceStatusOverdue, true},
		{InvoiceStatusPending, InvoiceStatusCancelled, true},
		{InvoiceStatusPending, InvoiceStatusDraft, false},
		{InvoiceStatusOverdue, InvoiceStatusPaid, true},
		{InvoiceStatusOverdue, InvoiceStatusCancelled, true},
		{InvoiceStatusOverdue, InvoiceStatusPending, false},
		{InvoiceStatusPaid, InvoiceStatusPending, false},
		{InvoiceStatusPaid, InvoiceStatusCancelled, false},
		{InvoiceStatusCancelled, InvoiceStatusDraft, false},
		{InvoiceStatusCancelled, InvoiceStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			inv := &Invoice{Status: tt.from}
			assert.Equal(t, tt.allowed, inv.CanTransitionTo(tt.to))
		})
	}
}

func TestInvoice_SelfTransitionNotAllowed(t *testing.T) {
	for _, status := range ValidInvoiceStatuses() {
		inv := &Invoice{Status: status}
		assert.False(t, inv.CanTransitionTo(status), "self-transition from %s", status)
	}
}

func TestInvoice_IsTerminal(t *testing.T) {
	assert.True(t, (&Invoice{Status: InvoiceStatusPaid}).IsTerminal())
	assert.True(t, (&Invoice{Status: InvoiceStatusCancelled}).IsTerminal())
	assert.False(t, (&Invoice{Status: InvoiceStatusDraft}).IsTerminal())
	assert.False(t, (&Invoice{Status: InvoiceStatusPending}).IsTerminal())
	assert.False(t, (&Invoice{Status: InvoiceStatusOverdue}).IsTerminal())
}

func TestInvoice_UnknownStatusCannotTransition(t *testing.T) {
	inv := &Invoice{Status: "bogus"}
	assert.False(t, inv.CanTransitionTo(InvoiceStatusPaid))
}

func TestIsValidInvoiceStatus(t *testing.T) {
	for _, s := range ValidInvoiceStatuses() {
		assert.True(t, IsValidInvoiceStatus(s))
	}
	assert.False(t, IsValidInvoiceStatus("shipped"))
	assert.False(t, IsValidInvoiceStatus(""))
}
