package printing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/oqd/pdfservice/internal/domain/jobticket"
	"github.com/oqd/pdfservice/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ParseShortWorkPeriod decodes a work order export.
func ParseShortWorkPeriod(raw []byte) (*jobticket.ShortWorkPeriod, error) {
	var swp jobticket.ShortWorkPeriod
	if err := json.Unmarshal(raw, &swp); err != nil {
		return nil, fmt.Errorf("failed to parse short work period: %w", err)
	}
	return &swp, nil
}

// MatchWorkOrder returns the first work order whose wonum equals the ticket's
// work order number, or nil.
func MatchWorkOrder(ticket *jobticket.JobTicket, swp *jobticket.ShortWorkPeriod) *jobticket.WorkOrder {
	return swp.FindByWONum(ticket.WorkOrderNumber())
}

// MergeShortWorkPeriod parses raw and matches it against ticket. Enrichment
// is best effort: malformed input is logged and yields nil.
func (s *RenderService) MergeShortWorkPeriod(ctx context.Context, ticket *jobticket.JobTicket, raw []byte) *jobticket.WorkOrder {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	log := logger.WithLogger(ctx, s.logger)

	swp, err := ParseShortWorkPeriod(raw)
	if err != nil {
		log.Warn("ignoring malformed short work period",
			zap.String("checklist_id", ticket.ChecklistID),
			zap.Error(err))
		return nil
	}

	wo := MatchWorkOrder(ticket, swp)
	if wo == nil {
		log.Debug("no matching work order",
			zap.String("checklist_id", ticket.ChecklistID),
			zap.String("work_order_num", ticket.WorkOrderNumber()),
			zap.Int("members", len(swp.Members)))
		return nil
	}

	log.Debug("work order matched",
		zap.String("checklist_id", ticket.ChecklistID),
		zap.String("wonum", wo.WONum))
	return wo
}
