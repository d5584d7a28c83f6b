package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusNew, StatusInProcess},
		{StatusNew, StatusReadyToPayment},
		{StatusNew, StatusRejected},
		{StatusInProcess, StatusReadyToPayment},
		{StatusInProcess, StatusRejected},
		{StatusReadyToPayment, StatusPaid},
		{StatusReadyToPayment, StatusRejected},
	}
	for _, tc := range allowed {
		require.True(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct{ from, to Status }{
		{StatusNew, StatusPaid},
		{StatusInProcess, StatusNew},
		{StatusInProcess, StatusPaid},
		{StatusReadyToPayment, StatusNew},
		{StatusPaid, StatusRejected},
		{StatusRejected, StatusNew},
		{StatusRejected, StatusReadyToPayment},
	}
	for _, tc := range denied {
		require.False(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestStatusTerminal(t *testing.T) {
	require.True(t, StatusPaid.Terminal())
	require.True(t, StatusRejected.Terminal())
	require.False(t, StatusNew.Terminal())
	require.False(t, StatusInProcess.Terminal())
	require.False(t, StatusReadyToPayment.Terminal())
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusNew, StatusInProcess, StatusReadyToPayment, StatusPaid, StatusRejected} {
		require.True(t, s.Valid())
	}
	require.False(t, Status("Approved").Valid())
	require.False(t, Status("").Valid())
}
