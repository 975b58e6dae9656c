package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"caterops/internal/model"
	"caterops/internal/pricing"
	"caterops/internal/repository"
	"caterops/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type QuoteEmployeePayload struct {
	EmployeeID string          `json:"employee_id" binding:"required"`
	Hours      decimal.Decimal `json:"hours" binding:"required"`
	ProductIDs []string        `json:"product_ids"`
}

type QuoteProductPayload struct {
	ProductID string          `json:"product_id" binding:"required"`
	UnitCount decimal.Decimal `json:"unit_count" binding:"required"`
}

type QuoteMachinePayload struct {
	MachineryID string          `json:"machinery_id" binding:"required"`
	Hours       decimal.Decimal `json:"hours" binding:"required"`
}

// QuoteDraftRequest carries everything the engine needs. Preview and save
// accept the identical shape so the live calculator and the persisted quote
// can never be computed from different inputs.
type QuoteDraftRequest struct {
	ClientID         *string                `json:"client_id"`
	EventDate        *string                `json:"event_date"` // YYYY-MM-DD
	EventHours       decimal.Decimal        `json:"event_hours"`
	MarginPercent    decimal.Decimal        `json:"margin_percent"`
	RetentionPercent decimal.Decimal        `json:"retention_percent"`
	Note             string                 `json:"note"`
	Employees        []QuoteEmployeePayload `json:"employees"`
	Products         []QuoteProductPayload  `json:"products"`
	Machines         []QuoteMachinePayload  `json:"machines"`
}

type RejectQuoteRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type QuoteSummaryResponse struct {
	ID         uuid.UUID  `json:"id"`
	QuoteNo    string     `json:"quote_no"`
	ClientName string     `json:"client_name"`
	EventDate  *time.Time `json:"event_date"`
	Status     string     `json:"status"`
	Total      int64      `json:"total"`
	CreatedAt  time.Time  `json:"created_at"`
}

// VerifyResponse reports whether the stored total still matches a replay of
// the assembly over the stored line items and terms.
type VerifyResponse struct {
	QuoteID         uuid.UUID `json:"quote_id"`
	QuoteNo         string    `json:"quote_no"`
	StoredTotal     int64     `json:"stored_total"`
	RecomputedTotal int64     `json:"recomputed_total"`
	Match           bool      `json:"match"`
}

// --- Interface ---

type QuoteService interface {
	PreviewQuote(ctx context.Context, req QuoteDraftRequest) (*pricing.QuoteComputation, error)
	CreateQuote(ctx context.Context, req QuoteDraftRequest, userID string) (*model.Quote, error)
	UpdateQuote(ctx context.Context, id string, req QuoteDraftRequest, userID string) (*model.Quote, error)
	DeleteQuote(ctx context.Context, id string, userID string) error
	GetQuote(ctx context.Context, id string) (*model.Quote, error)
	GetQuotes(ctx context.Context, filter repository.QuoteListFilter) ([]QuoteSummaryResponse, int64, error)
	VerifyQuote(ctx context.Context, id string) (VerifyResponse, error)
	ApproveQuote(ctx context.Context, id string, userID string) (*model.Quote, error)
	RejectQuote(ctx context.Context, id string, reason string, userID string) (*model.Quote, error)
}

type quoteService struct {
	quoteRepo     repository.QuoteRepository
	employeeRepo  repository.EmployeeRepository
	productRepo   repository.ProductRepository
	machineryRepo repository.MachineryRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	engine        *pricing.Engine
	hub           *websocket.Hub
}

func NewQuoteService(
	quoteRepo repository.QuoteRepository,
	employeeRepo repository.EmployeeRepository,
	productRepo repository.ProductRepository,
	machineryRepo repository.MachineryRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *websocket.Hub,
) QuoteService {
	return &quoteService{
		quoteRepo:     quoteRepo,
		employeeRepo:  employeeRepo,
		productRepo:   productRepo,
		machineryRepo: machineryRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		engine:        pricing.NewEngine(pricing.EngineVersion1),
		hub:           hub,
	}
}

// --- Input assembly ---

// buildPricingInput resolves catalog references and translates the draft into
// the engine's input. Inactive or missing references fail here, before the
// engine runs.
func (s *quoteService) buildPricingInput(ctx context.Context, req QuoteDraftRequest) (pricing.QuoteInput, error) {
	var in pricing.QuoteInput
	in.Terms = pricing.CommercialTerms{
		MarginPercent:    req.MarginPercent,
		RetentionPercent: req.RetentionPercent,
	}

	for _, e := range req.Employees {
		eid, err := uuid.Parse(e.EmployeeID)
		if err != nil {
			return in, fmt.Errorf("invalid employee_id %q", e.EmployeeID)
		}
		employee, err := s.employeeRepo.FindByID(ctx, eid)
		if err != nil {
			return in, fmt.Errorf("employee %s not found: %w", e.EmployeeID, err)
		}
		if employee.EmployeeType == nil {
			return in, fmt.Errorf("employee %s has no type configured", e.EmployeeID)
		}

		p, err := pricingFromMode(employee.EmployeeType.PricingMode, employee.EmployeeType.FlatRate, employee.EmployeeType.PriceSchedule)
		if err != nil {
			return in, fmt.Errorf("employee %s: %w", e.EmployeeID, err)
		}

		in.Employees = append(in.Employees, pricing.EmployeeInput{
			EmployeeID:         employee.ID.String(),
			EmployeeType:       employee.EmployeeType.Name,
			Hours:              e.Hours,
			Pricing:            p,
			SelectedProductIDs: e.ProductIDs,
		})
	}

	for _, pr := range req.Products {
		pid, err := uuid.Parse(pr.ProductID)
		if err != nil {
			return in, fmt.Errorf("invalid product_id %q", pr.ProductID)
		}
		product, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			return in, fmt.Errorf("product %s not found: %w", pr.ProductID, err)
		}

		p, err := pricingFromMode(product.PricingMode, product.FlatRate, product.PriceSchedule)
		if err != nil {
			return in, fmt.Errorf("product %s: %w", pr.ProductID, err)
		}

		basis := pricing.BasisQuantity
		if product.TierBasis == model.TierBasisDuration {
			basis = pricing.BasisDuration
		}

		in.Products = append(in.Products, pricing.ProductInput{
			ProductID:   product.ID.String(),
			Description: product.Name,
			UnitCount:   pr.UnitCount,
			Basis:       basis,
			EventHours:  req.EventHours,
			Pricing:     p,
		})
	}

	for _, m := range req.Machines {
		mid, err := uuid.Parse(m.MachineryID)
		if err != nil {
			return in, fmt.Errorf("invalid machinery_id %q", m.MachineryID)
		}
		machinery, err := s.machineryRepo.FindByID(ctx, mid)
		if err != nil {
			return in, fmt.Errorf("machinery %s not found: %w", m.MachineryID, err)
		}

		in.Machinery = append(in.Machinery, pricing.MachineryInput{
			MachineryID:        machinery.ID.String(),
			Description:        machinery.Name,
			Hours:              m.Hours,
			HourlyRate:         machinery.HourlyRate,
			DailyRate:          machinery.DailyRate,
			RequiresOperator:   machinery.RequiresOperator,
			OperatorHourlyRate: machinery.OperatorHourlyRate,
		})
	}

	return in, nil
}

func pricingFromMode(mode string, flatRate *decimal.Decimal, schedule *model.PriceSchedule) (pricing.Pricing, error) {
	switch mode {
	case model.PricingModeFlat:
		if flatRate == nil {
			return pricing.Pricing{}, fmt.Errorf("FLAT pricing with no flat rate")
		}
		return pricing.FlatPricing(*flatRate), nil
	case model.PricingModeTiered:
		if schedule == nil {
			return pricing.Pricing{}, fmt.Errorf("TIERED pricing with no schedule loaded")
		}
		table, err := toRateTable(schedule)
		if err != nil {
			return pricing.Pricing{}, err
		}
		return pricing.TieredPricing(table), nil
	default:
		return pricing.Pricing{}, fmt.Errorf("unknown pricing mode %q", mode)
	}
}

// --- Preview ---

// PreviewQuote runs the engine and returns the computation without touching
// the database. The live calculator polls this endpoint on every form change.
func (s *quoteService) PreviewQuote(ctx context.Context, req QuoteDraftRequest) (*pricing.QuoteComputation, error) {
	in, err := s.buildPricingInput(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.engine.ComputeQuote(in)
}

// --- Save ---

// generateQuoteNo produces QUO-YYYYMMDD-NNNNN, sequence scoped per day.
func (s *quoteService) generateQuoteNo(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("QUO-%s-", time.Now().Format("20060102"))
	count, err := s.quoteRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to count quotes for numbering: %w", err)
	}
	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

func parseEventDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, fmt.Errorf("event_date must be YYYY-MM-DD")
	}
	return &t, nil
}

// applyComputation copies the engine output onto the quote row.
func applyComputation(quote *model.Quote, result *pricing.QuoteComputation, version pricing.EngineVersion) {
	quote.EngineVersion = int(version)
	quote.LaborSubtotal = result.LaborSubtotal
	quote.ProductsSubtotal = result.ProductsSubtotal
	quote.MachinerySubtotal = result.MachinerySubtotal
	quote.BaseSubtotal = result.BaseSubtotal
	quote.MarginAmount = result.MarginAmount
	quote.RetentionAmount = result.RetentionAmount
	quote.Total = result.Total
}

func toLineItemModels(quoteID uuid.UUID, items []pricing.LineItem) []model.QuoteLineItem {
	rows := make([]model.QuoteLineItem, 0, len(items))
	for i, item := range items {
		rows = append(rows, model.QuoteLineItem{
			QuoteID:     quoteID,
			Position:    i,
			Category:    string(item.Category),
			RefID:       item.RefID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitRate:    item.UnitRate,
			Amount:      item.Amount,
		})
	}
	return rows
}

func toSelectionModels(quote *model.Quote, req QuoteDraftRequest) error {
	quote.Employees = nil
	quote.Products = nil
	quote.Machines = nil

	for _, e := range req.Employees {
		eid, err := uuid.Parse(e.EmployeeID)
		if err != nil {
			return fmt.Errorf("invalid employee_id %q", e.EmployeeID)
		}
		productIDs := e.ProductIDs
		if productIDs == nil {
			productIDs = []string{}
		}
		encoded, err := json.Marshal(productIDs)
		if err != nil {
			return fmt.Errorf("failed to encode product associations: %w", err)
		}
		quote.Employees = append(quote.Employees, model.QuoteEmployee{
			QuoteID:    quote.ID,
			EmployeeID: eid,
			Hours:      e.Hours,
			ProductIDs: string(encoded),
		})
	}
	for _, p := range req.Products {
		pid, err := uuid.Parse(p.ProductID)
		if err != nil {
			return fmt.Errorf("invalid product_id %q", p.ProductID)
		}
		quote.Products = append(quote.Products, model.QuoteProduct{
			QuoteID:   quote.ID,
			ProductID: pid,
			UnitCount: p.UnitCount,
		})
	}
	for _, m := range req.Machines {
		mid, err := uuid.Parse(m.MachineryID)
		if err != nil {
			return fmt.Errorf("invalid machinery_id %q", m.MachineryID)
		}
		quote.Machines = append(quote.Machines, model.QuoteMachine{
			QuoteID:     quote.ID,
			MachineryID: mid,
			Hours:       m.Hours,
		})
	}
	return nil
}

func (s *quoteService) CreateQuote(ctx context.Context, req QuoteDraftRequest, userID string) (*model.Quote, error) {
	in, err := s.buildPricingInput(ctx, req)
	if err != nil {
		return nil, err
	}
	result, err := s.engine.ComputeQuote(in)
	if err != nil {
		return nil, err
	}

	eventDate, err := parseEventDate(req.EventDate)
	if err != nil {
		return nil, err
	}

	var clientID *uuid.UUID
	if req.ClientID != nil && *req.ClientID != "" {
		cid, err := uuid.Parse(*req.ClientID)
		if err != nil {
			return nil, fmt.Errorf("invalid client_id")
		}
		clientID = &cid
	}

	quote := &model.Quote{
		ClientID:         clientID,
		EventDate:        eventDate,
		EventHours:       req.EventHours,
		MarginPercent:    req.MarginPercent,
		RetentionPercent: req.RetentionPercent,
		Status:           model.QuoteStatusDraft,
		Note:             req.Note,
	}
	applyComputation(quote, result, s.engine.Version())
	if err := toSelectionModels(quote, req); err != nil {
		return nil, err
	}
	quote.LineItems = toLineItemModels(uuid.Nil, result.LineItems)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		quoteNo, err := s.generateQuoteNo(txCtx)
		if err != nil {
			return err
		}
		quote.QuoteNo = quoteNo
		if err := s.quoteRepo.Create(txCtx, quote); err != nil {
			return fmt.Errorf("failed to create quote: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionCreateQuote, quote.ID.String(), quote.QuoteNo, result)
	s.broadcastQuoteEvent("quote_created", quote)

	return quote, nil
}

func (s *quoteService) UpdateQuote(ctx context.Context, id string, req QuoteDraftRequest, userID string) (*model.Quote, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid quote ID")
	}

	quote, err := s.quoteRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("quote not found: %w", err)
	}
	if quote.Status == model.QuoteStatusApproved {
		return nil, fmt.Errorf("approved quotes cannot be edited")
	}

	in, err := s.buildPricingInput(ctx, req)
	if err != nil {
		return nil, err
	}
	result, err := s.engine.ComputeQuote(in)
	if err != nil {
		return nil, err
	}

	eventDate, err := parseEventDate(req.EventDate)
	if err != nil {
		return nil, err
	}

	if req.ClientID != nil && *req.ClientID != "" {
		cid, err := uuid.Parse(*req.ClientID)
		if err != nil {
			return nil, fmt.Errorf("invalid client_id")
		}
		quote.ClientID = &cid
	} else {
		quote.ClientID = nil
	}
	quote.EventDate = eventDate
	quote.EventHours = req.EventHours
	quote.MarginPercent = req.MarginPercent
	quote.RetentionPercent = req.RetentionPercent
	quote.Note = req.Note
	// Editing a rejected quote returns it to draft
	quote.Status = model.QuoteStatusDraft
	quote.ApprovedBy = nil
	quote.ApprovedAt = nil
	applyComputation(quote, result, s.engine.Version())

	if err := toSelectionModels(quote, req); err != nil {
		return nil, err
	}
	lineItems := toLineItemModels(uid, result.LineItems)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Save the row first, then rewrite children wholesale
		selections := *quote
		quote.Employees = nil
		quote.Products = nil
		quote.Machines = nil
		quote.LineItems = nil
		if err := s.quoteRepo.Update(txCtx, quote); err != nil {
			return fmt.Errorf("failed to update quote: %w", err)
		}
		quote.Employees = selections.Employees
		quote.Products = selections.Products
		quote.Machines = selections.Machines

		if err := s.quoteRepo.ReplaceSelections(txCtx, quote); err != nil {
			return fmt.Errorf("failed to replace selections: %w", err)
		}
		if err := s.quoteRepo.ReplaceLineItems(txCtx, uid, lineItems); err != nil {
			return fmt.Errorf("failed to replace line items: %w", err)
		}
		quote.LineItems = lineItems
		return nil
	})
	if err != nil {
		return nil, err
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionUpdateQuote, quote.ID.String(), quote.QuoteNo, result)
	s.broadcastQuoteEvent("quote_updated", quote)

	return quote, nil
}

func (s *quoteService) DeleteQuote(ctx context.Context, id string, userID string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid quote ID")
	}
	quote, err := s.quoteRepo.FindByID(ctx, uid)
	if err != nil {
		return fmt.Errorf("quote not found: %w", err)
	}
	if quote.Status == model.QuoteStatusApproved {
		return fmt.Errorf("approved quotes cannot be deleted")
	}
	if err := s.quoteRepo.Delete(ctx, uid); err != nil {
		return err
	}
	writeAudit(ctx, s.auditRepo, userID, model.ActionDeleteQuote, id, quote.QuoteNo, map[string]string{"deleted_id": id})
	return nil
}

func (s *quoteService) GetQuote(ctx context.Context, id string) (*model.Quote, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid quote ID")
	}
	quote, err := s.quoteRepo.FindByIDWithDetails(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("quote not found: %w", err)
	}
	return quote, nil
}

func (s *quoteService) GetQuotes(ctx context.Context, filter repository.QuoteListFilter) ([]QuoteSummaryResponse, int64, error) {
	quotes, total, err := s.quoteRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch quotes: %w", err)
	}

	res := make([]QuoteSummaryResponse, 0, len(quotes))
	for _, q := range quotes {
		clientName := ""
		if q.Client != nil {
			clientName = q.Client.Name
		}
		res = append(res, QuoteSummaryResponse{
			ID:         q.ID,
			QuoteNo:    q.QuoteNo,
			ClientName: clientName,
			EventDate:  q.EventDate,
			Status:     q.Status,
			Total:      q.Total,
			CreatedAt:  q.CreatedAt,
		})
	}
	return res, total, nil
}

// --- Verify ---

// VerifyQuote replays the assembly over the stored line items and terms and
// compares the result to the stored total. This is the only sanctioned way to
// re-derive a persisted total; summing the rounded subtotal columns is not.
func (s *quoteService) VerifyQuote(ctx context.Context, id string) (VerifyResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return VerifyResponse{}, fmt.Errorf("invalid quote ID")
	}

	quote, err := s.quoteRepo.FindByID(ctx, uid)
	if err != nil {
		return VerifyResponse{}, fmt.Errorf("quote not found: %w", err)
	}
	rows, err := s.quoteRepo.FindLineItems(ctx, uid)
	if err != nil {
		return VerifyResponse{}, fmt.Errorf("failed to load line items: %w", err)
	}

	items := make([]pricing.LineItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, pricing.LineItem{
			Category:    pricing.Category(row.Category),
			RefID:       row.RefID,
			Description: row.Description,
			Quantity:    row.Quantity,
			UnitRate:    row.UnitRate,
			Amount:      row.Amount,
		})
	}

	replay := pricing.Assemble(items, pricing.CommercialTerms{
		MarginPercent:    quote.MarginPercent,
		RetentionPercent: quote.RetentionPercent,
	})

	return VerifyResponse{
		QuoteID:         quote.ID,
		QuoteNo:         quote.QuoteNo,
		StoredTotal:     quote.Total,
		RecomputedTotal: replay.Total,
		Match:           replay.Total == quote.Total,
	}, nil
}

// --- Approval flow ---

func (s *quoteService) ApproveQuote(ctx context.Context, id string, userID string) (*model.Quote, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid quote ID")
	}
	quote, err := s.quoteRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("quote not found: %w", err)
	}
	if quote.Status != model.QuoteStatusDraft && quote.Status != model.QuoteStatusPending {
		return nil, fmt.Errorf("quote %s cannot be approved from status %s", quote.QuoteNo, quote.Status)
	}

	approverID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid approver ID")
	}
	now := time.Now()
	quote.Status = model.QuoteStatusApproved
	quote.ApprovedBy = &approverID
	quote.ApprovedAt = &now

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to approve quote: %w", err)
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionApproveQuote, quote.ID.String(), quote.QuoteNo, map[string]string{"status": quote.Status})
	s.broadcastQuoteEvent("quote_approved", quote)

	return quote, nil
}

func (s *quoteService) RejectQuote(ctx context.Context, id string, reason string, userID string) (*model.Quote, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid quote ID")
	}
	quote, err := s.quoteRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("quote not found: %w", err)
	}
	if quote.Status != model.QuoteStatusDraft && quote.Status != model.QuoteStatusPending {
		return nil, fmt.Errorf("quote %s cannot be rejected from status %s", quote.QuoteNo, quote.Status)
	}

	quote.Status = model.QuoteStatusRejected
	quote.Note = reason

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to reject quote: %w", err)
	}

	writeAudit(ctx, s.auditRepo, userID, model.ActionRejectQuote, quote.ID.String(), quote.QuoteNo, map[string]string{"reason": reason})
	s.broadcastQuoteEvent("quote_rejected", quote)

	return quote, nil
}

// broadcastQuoteEvent pushes a lifecycle event to connected dashboards.
// Best-effort: a dead hub never blocks the request path.
func (s *quoteService) broadcastQuoteEvent(event string, quote *model.Quote) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"event":    event,
		"quote_id": quote.ID.String(),
		"quote_no": quote.QuoteNo,
		"status":   quote.Status,
		"total":    quote.Total,
	})
	if err != nil {
		log.Printf("websocket: failed to encode %s event: %v", event, err)
		return
	}
	select {
	case s.hub.Broadcast <- payload:
	default:
	}
}
