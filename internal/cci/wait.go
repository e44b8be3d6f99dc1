package cci

import (
	"context"
	"time"

	"slcli/pkg/logging"

	"k8s.io/apimachinery/pkg/util/wait"
)

const readyMask = "id,provisionDate,activeTransaction[id,transactionStatus[friendlyName,name]]"

// IsReady reports whether guest id has finished provisioning and has no
// transaction in flight.
func (m *Manager) IsReady(ctx context.Context, id int) (bool, error) {
	guest, err := m.getWithMask(ctx, id, readyMask)
	if err != nil {
		return false, err
	}
	ready := guest.ProvisionDate != "" && guest.ActiveTransaction == nil
	if !ready {
		logging.Debug("CCI", "guest %d not ready (provisioned=%t, transaction=%q)",
			id, guest.ProvisionDate != "", guest.ActiveTransaction.StatusName())
	}
	return ready, nil
}

// WaitForReady polls IsReady every poll interval for up to limit. It returns
// false without error when the limit passes first. A limit of zero performs
// exactly one check.
func (m *Manager) WaitForReady(ctx context.Context, id int, limit time.Duration) (bool, error) {
	if limit <= 0 {
		return m.IsReady(ctx, id)
	}

	ready := false
	// The condition uses the caller's ctx so an in-flight request is not cut
	// short by the poll deadline.
	err := wait.PollUntilContextTimeout(ctx, m.pollInterval, limit, true, func(context.Context) (bool, error) {
		ok, err := m.IsReady(ctx, id)
		if err != nil {
			return false, err
		}
		ready = ok
		return ok, nil
	})
	if err != nil {
		if wait.Interrupted(err) && ctx.Err() == nil {
			return false, nil
		}
		return false, err
	}
	return ready, nil
}
