package invoice

import (
	"context"
	"errors"
	"time"

	"github.com/purchase-invoice/backend/internal/domain/identity"
	"github.com/purchase-invoice/backend/internal/domain/invoice"
	"github.com/purchase-invoice/backend/internal/domain/shared"
	"github.com/purchase-invoice/backend/internal/infrastructure/lock"
	"github.com/purchase-invoice/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// OwnerLocker serializes submissions per owner across the total read and
// the insert
type OwnerLocker interface {
	Lock(ctx context.Context, key string) (lock.Unlock, error)
}

// Service runs the invoice lifecycle: submission with limit-based
// approval, owner cancellation, and read projections.
type Service struct {
	txScope   TransactionScope
	ledger    invoice.Ledger
	policy    invoice.ApprovalPolicy
	locker    OwnerLocker
	publisher shared.EventPublisher
	metrics   *telemetry.InvoiceMetrics
	logger    *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithOwnerLocker replaces the in-process owner lock
func WithOwnerLocker(locker OwnerLocker) Option {
	return func(s *Service) {
		if locker != nil {
			s.locker = locker
		}
	}
}

// WithEventPublisher publishes lifecycle events after each commit
func WithEventPublisher(publisher shared.EventPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithMetrics records business metrics
func WithMetrics(metrics *telemetry.InvoiceMetrics) Option {
	return func(s *Service) {
		s.metrics = metrics
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a new invoice Service. ledger serves reads outside
// any transaction.
func NewService(txScope TransactionScope, ledger invoice.Ledger, policy invoice.ApprovalPolicy, opts ...Option) *Service {
	s := &Service{
		txScope: txScope,
		ledger:  ledger,
		policy:  policy,
		locker:  lock.NewMemoryLocker(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInvoice submits an invoice on behalf of caller. A REJECTED result
// is a normal outcome and is returned without error.
func (s *Service) CreateInvoice(ctx context.Context, req CreateInvoiceRequest, caller identity.Identity) (*InvoiceResponse, error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "create",
		telemetry.SpanAttrBillNo, req.BillNo,
		telemetry.SpanAttrOwnerEmail, caller.Email,
		telemetry.SpanAttrProductName, req.ProductName,
	)
	defer span.End()

	inv, err := s.create(ctx, req, caller)
	s.metrics.RecordDuration(ctx, "create", time.Since(start))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceID, inv.ID,
		telemetry.SpanAttrInvoiceStatus, inv.Status.String(),
	)
	telemetry.SetOK(span)
	s.metrics.RecordSubmitted(ctx, inv.Status.String(), inv.Amount)

	s.logger.Info("invoice submitted",
		zap.Int64("invoice_id", inv.ID),
		zap.String("status", inv.Status.String()),
		zap.String("owner", caller.Email),
		zap.String("amount", inv.Amount.String()),
	)

	s.publish(ctx, inv)

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

func (s *Service) create(ctx context.Context, req CreateInvoiceRequest, caller identity.Identity) (*invoice.Invoice, error) {
	if !req.Identity().SamePerson(caller) {
		return nil, invoice.ErrOwnershipViolation
	}
	if req.Amount == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Amount is required")
	}
	amount := invoice.NormalizeAmount(*req.Amount)
	billNo := invoice.NormalizeBillNo(req.BillNo)

	unlock, err := s.locker.Lock(ctx, caller.Email)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var created *invoice.Invoice
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		ledger := repos.Invoices()

		if err := ledger.LockOwner(ctx, caller.Email); err != nil {
			return err
		}

		duplicate, err := ledger.ExistsApprovedWithBillNo(ctx, billNo)
		if err != nil {
			return err
		}
		if duplicate {
			return invoice.NewDuplicateBillNoError(billNo)
		}

		product, err := repos.Products().FindByName(ctx, req.ProductName)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return invoice.NewProductNotFoundError(req.ProductName)
			}
			return err
		}

		total, err := ledger.SumApprovedAmount(ctx, caller.Email)
		if err != nil {
			return err
		}
		status := s.policy.Decide(total, amount)

		inv, err := invoice.NewInvoice(caller, product.ID, product.Name, amount, billNo, status)
		if err != nil {
			return err
		}
		if err := ledger.Save(ctx, inv); err != nil {
			return err
		}
		inv.RecordSubmitted()

		created = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CancelInvoice withdraws a REJECTED invoice owned by caller
func (s *Service) CancelInvoice(ctx context.Context, id int64, caller identity.Identity) (*InvoiceResponse, error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "cancel",
		telemetry.SpanAttrInvoiceID, id,
		telemetry.SpanAttrOwnerEmail, caller.Email,
	)
	defer span.End()

	var cancelled *invoice.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		ledger := repos.Invoices()

		inv, err := ledger.FindByIDForUpdate(ctx, id)
		if err != nil {
			return translateNotFound(err, id)
		}
		if err := inv.Cancel(caller); err != nil {
			return err
		}
		if err := ledger.Save(ctx, inv); err != nil {
			return err
		}

		cancelled = inv
		return nil
	})
	s.metrics.RecordDuration(ctx, "cancel", time.Since(start))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetOK(span)
	s.metrics.RecordCancelled(ctx)
	s.logger.Info("invoice cancelled", zap.Int64("invoice_id", id), zap.String("owner", caller.Email))

	s.publish(ctx, cancelled)

	resp := ToInvoiceResponse(cancelled)
	return &resp, nil
}

// GetByID returns one invoice
func (s *Service) GetByID(ctx context.Context, id int64) (*InvoiceResponse, error) {
	inv, err := s.ledger.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, id)
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// ListByStatus returns every invoice in status
func (s *Service) ListByStatus(ctx context.Context, status invoice.Status) ([]InvoiceResponse, error) {
	invoices, err := s.ledger.FindByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponses(invoices), nil
}

// ListOwnByStatus returns the caller's invoices in status
func (s *Service) ListOwnByStatus(ctx context.Context, status invoice.Status, caller identity.Identity) ([]InvoiceResponse, error) {
	invoices, err := s.ledger.FindByStatusAndOwner(ctx, status, caller.Email)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponses(invoices), nil
}

// List returns invoices matching filter. Purchasing specialists only see
// their own invoices whatever email they filter on.
func (s *Service) List(ctx context.Context, filter ListInvoicesFilter, caller identity.Identity) ([]InvoiceResponse, error) {
	f := invoice.Filter{
		Email:     filter.Email,
		FirstName: filter.FirstName,
		LastName:  filter.LastName,
	}
	if filter.Status != "" {
		status, err := invoice.ParseStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		f.Status = status
	}
	if caller.HasRole(identity.RolePurchasingSpecialist) {
		f.Email = caller.Email
	}

	invoices, err := s.ledger.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponses(invoices), nil
}

// publish hands the invoice's recorded events to the publisher once the
// transaction has committed. Failures are logged and never reach the caller.
func (s *Service) publish(ctx context.Context, inv *invoice.Invoice) {
	events := inv.GetDomainEvents()
	inv.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish invoice events",
			zap.Int64("invoice_id", inv.ID),
			zap.Error(err),
		)
	}
}

func translateNotFound(err error, id int64) error {
	if errors.Is(err, shared.ErrNotFound) {
		return invoice.NewInvoiceNotFoundError(id)
	}
	return err
}
