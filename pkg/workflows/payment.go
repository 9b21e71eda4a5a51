package workflows

import (
	"context"
	"errors"
	"fmt"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/ghuser/clickcollect/pkg/logger"
)

// PaymentHandoffWorkflow is the workflow type registered by the external
// payment service. This module only starts it.
const PaymentHandoffWorkflow = "PaymentHandoff"

// PaymentLine is one item of the order handed to payment.
type PaymentLine struct {
	ItemID    string `json:"item_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Collected bool   `json:"collected"`
}

// PaymentRequest is the workflow input.
type PaymentRequest struct {
	ListID         string        `json:"list_id"`
	CustomerID     string        `json:"customer_id"`
	CustomerName   string        `json:"customer_name"`
	Lines          []PaymentLine `json:"lines"`
	EstimatedTotal string        `json:"estimated_total"`
}

// WorkflowStarter is the subset of client.Client used to start workflows.
type WorkflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// PaymentHandoff starts one payment workflow per completed list.
type PaymentHandoff struct {
	starter   WorkflowStarter
	taskQueue string
	log       logger.Logger
}

// NewPaymentHandoff returns a PaymentHandoff that starts workflows on taskQueue.
func NewPaymentHandoff(starter WorkflowStarter, taskQueue string, log logger.Logger) *PaymentHandoff {
	return &PaymentHandoff{starter: starter, taskQueue: taskQueue, log: log}
}

// PaymentWorkflowID is the workflow id for a list. A list is handed off at
// most once.
func PaymentWorkflowID(listID string) string {
	return "payment-" + listID
}

// Start launches the workflow. A redelivered completion event finds the
// workflow already started and is treated as success.
func (p *PaymentHandoff) Start(ctx context.Context, req PaymentRequest) error {
	if req.ListID == "" {
		return errors.New("workflows: payment request without list id")
	}

	opts := client.StartWorkflowOptions{
		ID:                    PaymentWorkflowID(req.ListID),
		TaskQueue:             p.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}

	run, err := p.starter.ExecuteWorkflow(ctx, opts, PaymentHandoffWorkflow, req)
	if err != nil {
		var started *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &started) {
			p.log.InfoContext(ctx, "payment hand-off already started", "list_id", req.ListID, "workflow_id", opts.ID)
			return nil
		}
		return fmt.Errorf("workflows: start payment hand-off for %s: %w", req.ListID, err)
	}

	p.log.InfoContext(ctx, "payment hand-off started",
		"list_id", req.ListID,
		"workflow_id", run.GetID(),
		"run_id", run.GetRunID(),
		"estimated_total", req.EstimatedTotal,
	)
	return nil
}
