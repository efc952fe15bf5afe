package dispatch

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/ports/dispatchtx"
)

// Coordinator assigns orders to couriers. Claiming the courier, inserting the
// assignment and moving the order out of pending happen in one transaction so
// a failure of any step leaves all three untouched.
type Coordinator struct {
	orders           orderRepository
	locator          *Locator
	runner           txRunner
	assignments      assignmentReader
	guard            deliveryGuard
	weights          Weights
	logger           logx.Logger
	created          prometheus.Counter
	operationTimeout time.Duration
	now              func() time.Time
}

// NewCoordinator - creates a new Coordinator.
func NewCoordinator(
	orders orderRepository,
	locator *Locator,
	runner txRunner,
	assignments assignmentReader,
	guard deliveryGuard,
	weights Weights,
	logger logx.Logger,
	created prometheus.Counter,
	timeout time.Duration,
) *Coordinator {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Coordinator{
		orders:           orders,
		locator:          locator,
		runner:           runner,
		assignments:      assignments,
		guard:            guard,
		weights:          weights,
		logger:           logger,
		created:          created,
		operationTimeout: timeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (c *Coordinator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.operationTimeout)
}

// Candidates returns the ranked couriers for the order without assigning.
func (c *Coordinator) Candidates(ctx context.Context, orderID string) ([]domain.ScoredCandidate, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	order, err := c.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperr.NotFound
	}

	cands, err := c.locator.Nearby(ctx, order.PickupLat, order.PickupLng)
	if err != nil {
		return nil, err
	}
	return Rank(cands, c.weights), nil
}

// Assign picks the best courier for a pending order and claims it.
func (c *Coordinator) Assign(ctx context.Context, orderID string) (domain.AssignResult, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	order, err := c.orders.GetByID(ctx, orderID)
	if err != nil {
		return domain.AssignResult{}, err
	}
	if order == nil {
		return domain.AssignResult{}, apperr.NotFound
	}
	if order.Status != domain.OrderPending {
		return domain.AssignResult{}, apperr.Conflict
	}

	return c.assignPending(ctx, order)
}

// assignPending ranks candidates and walks them best first. A courier claimed
// by a concurrent assignment between ranking and the CAS is skipped, not an
// error.
func (c *Coordinator) assignPending(ctx context.Context, order *domain.Order) (domain.AssignResult, error) {
	cands, err := c.locator.Nearby(ctx, order.PickupLat, order.PickupLng)
	if err != nil {
		return domain.AssignResult{}, err
	}
	ranked := Rank(cands, c.weights)
	if len(ranked) == 0 {
		return domain.AssignResult{}, apperr.NoCandidates
	}

	var result domain.AssignResult
	err = c.runner.WithTx(ctx, func(tx dispatchtx.Repository) error {
		for _, cand := range ranked {
			claimed, err := tx.ClaimCourier(ctx, cand.ID)
			if err != nil {
				return err
			}
			if !claimed {
				continue
			}

			now := c.now()
			a := &domain.Assignment{
				OrderID:    order.ID,
				CourierID:  cand.ID,
				Score:      cand.Breakdown.Final,
				Status:     domain.AssignmentAssigned,
				AssignedAt: now,
			}
			if err := tx.InsertAssignment(ctx, a); err != nil {
				return err
			}

			moved, err := tx.UpdateOrderStatus(ctx, order.ID, domain.OrderPending, domain.OrderAssigned)
			if err != nil {
				return err
			}
			if !moved {
				return apperr.Conflict
			}

			result = domain.AssignResult{
				AssignmentID: a.ID,
				OrderID:      order.ID,
				CourierID:    cand.ID,
				Score:        cand.Breakdown.Final,
				DistanceKm:   cand.DistanceKm,
				AssignedAt:   now,
			}
			return nil
		}
		return apperr.NoCandidates
	})
	if err != nil {
		return domain.AssignResult{}, err
	}

	c.created.Inc()
	c.logger.Info("order assigned",
		logx.String("event", "order_assigned"),
		logx.String("order_id", result.OrderID),
		logx.Int64("courier_id", result.CourierID),
		logx.Float64("score", result.Score),
		logx.Float64("distance_km", result.DistanceKm),
	)
	return result, nil
}

// Reassign cancels the active assignment, releases its courier and runs the
// selection again. The released courier can win again if it is still the best
// candidate.
func (c *Coordinator) Reassign(ctx context.Context, orderID string) (domain.AssignResult, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	order, err := c.orders.GetByID(ctx, orderID)
	if err != nil {
		return domain.AssignResult{}, err
	}
	if order == nil {
		return domain.AssignResult{}, apperr.NotFound
	}
	// an order stranded in pending (say after a redispatch found nobody)
	// has no assignment to cancel
	if order.Status == domain.OrderPending {
		return c.assignPending(ctx, order)
	}

	err = c.runner.WithTx(ctx, func(tx dispatchtx.Repository) error {
		a, err := tx.GetActiveByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		if a == nil {
			return apperr.NotFound
		}

		moved, err := tx.UpdateAssignmentStatus(ctx, a.ID, a.CourierID, a.Status, domain.AssignmentCancelled)
		if err != nil {
			return err
		}
		if !moved {
			return apperr.Conflict
		}
		if err := tx.ReleaseCourier(ctx, a.CourierID); err != nil {
			return err
		}

		moved, err = tx.UpdateOrderStatus(ctx, orderID, domain.OrderAssigned, domain.OrderPending)
		if err != nil {
			return err
		}
		if !moved {
			return apperr.Conflict
		}
		return nil
	})
	if err != nil {
		return domain.AssignResult{}, err
	}

	order.Status = domain.OrderPending
	return c.assignPending(ctx, order)
}

// Accept moves the assignment from assigned to accepted on behalf of the
// courier.
func (c *Coordinator) Accept(ctx context.Context, assignmentID, courierID int64) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.runner.WithTx(ctx, func(tx dispatchtx.Repository) error {
		moved, err := tx.UpdateAssignmentStatus(ctx, assignmentID, courierID, domain.AssignmentAssigned, domain.AssignmentAccepted)
		if err != nil {
			return err
		}
		if !moved {
			return apperr.Conflict
		}
		return nil
	})
}

// Reject releases the courier and returns the order to the pending pool.
func (c *Coordinator) Reject(ctx context.Context, assignmentID, courierID int64) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	a, err := c.assignments.GetAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}
	if a == nil {
		return apperr.NotFound
	}

	err = c.runner.WithTx(ctx, func(tx dispatchtx.Repository) error {
		moved, err := tx.UpdateAssignmentStatus(ctx, assignmentID, courierID, domain.AssignmentAssigned, domain.AssignmentRejected)
		if err != nil {
			return err
		}
		if !moved {
			return apperr.Conflict
		}
		if err := tx.ReleaseCourier(ctx, courierID); err != nil {
			return err
		}

		moved, err = tx.UpdateOrderStatus(ctx, a.OrderID, domain.OrderAssigned, domain.OrderPending)
		if err != nil {
			return err
		}
		if !moved {
			return apperr.Conflict
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.redispatch(ctx, a.OrderID)
	return nil
}

// redispatch hands a freshly rejected order to the next best courier. The
// rejection is already committed, so a failure here only leaves the order in
// the pending pool.
func (c *Coordinator) redispatch(ctx context.Context, orderID string) {
	order, err := c.orders.GetByID(ctx, orderID)
	if err != nil {
		c.logger.Warn("redispatch skipped",
			logx.String("order_id", orderID),
			logx.Any("err", err),
		)
		return
	}
	if order == nil || order.Status != domain.OrderPending {
		return
	}
	if _, err := c.assignPending(ctx, order); err != nil {
		c.logger.Warn("redispatch failed",
			logx.String("order_id", orderID),
			logx.Any("err", err),
		)
	}
}

// Complete finishes the delivery. The geofence check runs first and the
// completion is refused both when the courier is outside the fence and when
// the check itself cannot run.
func (c *Coordinator) Complete(ctx context.Context, assignmentID, courierID int64) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	a, err := c.assignments.GetAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}
	if a == nil || a.CourierID != courierID {
		return apperr.NotFound
	}
	if !a.Status.Active() {
		return apperr.Conflict
	}

	order, err := c.orders.GetByID(ctx, a.OrderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperr.NotFound
	}

	event, err := c.guard.CheckFakeDelivery(ctx, courierID, order)
	if err != nil {
		return err
	}
	if event != nil {
		c.logger.Warn("completion refused outside geofence",
			logx.String("order_id", order.ID),
			logx.Int64("courier_id", courierID),
		)
		return apperr.Conflict
	}

	return c.runner.WithTx(ctx, func(tx dispatchtx.Repository) error {
		moved, err := tx.UpdateAssignmentStatus(ctx, assignmentID, courierID, a.Status, domain.AssignmentCompleted)
		if err != nil {
			return err
		}
		if !moved {
			return apperr.Conflict
		}
		if err := tx.ReleaseCourier(ctx, courierID); err != nil {
			return err
		}
		if err := tx.UpdateCourierStats(ctx, courierID); err != nil {
			return err
		}

		moved, err = tx.UpdateOrderStatus(ctx, order.ID, domain.OrderAssigned, domain.OrderDelivered)
		if err != nil {
			return err
		}
		if !moved {
			moved, err = tx.UpdateOrderStatus(ctx, order.ID, domain.OrderPicked, domain.OrderDelivered)
			if err != nil {
				return err
			}
			if !moved {
				return apperr.Conflict
			}
		}
		return nil
	})
}
