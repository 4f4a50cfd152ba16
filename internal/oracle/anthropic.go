package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/bob-stewart/HardShell/internal/models"
)

// minBudgetTokens is the floor for a renegotiated max-tokens value.
const minBudgetTokens = 64

// budgetHeadroom is subtracted from the provider's affordable count so
// the retry lands safely under the reported limit.
const budgetHeadroom = 32

// Client implements Oracle against the Anthropic API. The reviewer id
// doubles as the model identifier.
type Client struct {
	api       *anthropic.Client
	timeout   time.Duration
	maxTokens int64
}

// NewClient creates an oracle client. An empty API key falls back to
// the SDK's environment lookup.
func NewClient(apiKey string, timeout time.Duration, maxTokens int64) *Client {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(opts...)
	return &Client{
		api:       &client,
		timeout:   timeout,
		maxTokens: maxTokens,
	}
}

// Call issues one review prompt to one reviewer. The call carries its
// own timeout and never returns an error: failures are recorded in the
// Result so a slow or broken reviewer cannot take the run down.
func (c *Client) Call(ctx context.Context, reviewerID, system, user string) Result {
	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	msg, err := c.message(cctx, reviewerID, system, user, c.maxTokens)

	// Budget renegotiation: if the provider names an affordable token
	// count, retry exactly once with a clamped budget.
	if err != nil && cctx.Err() == nil {
		if affordable, ok := AffordableTokens(err.Error()); ok {
			msg, err = c.message(cctx, reviewerID, system, user, ClampBudget(c.maxTokens, affordable))
		}
	}

	res := Result{
		ReviewerID: reviewerID,
		Latency:    time.Since(start),
	}

	if err != nil {
		res.Status = models.CallError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(cctx.Err(), context.DeadlineExceeded) {
			res.ErrorDetail = fmt.Sprintf("timeout after %s", c.timeout)
		} else {
			res.ErrorDetail = err.Error()
		}
		return res
	}

	res.TokensIn = msg.Usage.InputTokens
	res.TokensOut = msg.Usage.OutputTokens

	for _, block := range msg.Content {
		if block.Type == "text" {
			res.Text = block.Text
			break
		}
	}
	if res.Text == "" {
		res.Status = models.CallError
		res.ErrorDetail = "no text content in API response"
		return res
	}

	res.Status = models.CallOK
	return res
}

func (c *Client) message(ctx context.Context, model, system, user string, maxTokens int64) (*anthropic.Message, error) {
	return c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
}

// AvailableModels fetches the provider's live model list.
func (c *Client) AvailableModels(ctx context.Context) ([]string, error) {
	page, err := c.api.Models.List(ctx, anthropic.ModelListParams{})
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	out := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		out = append(out, m.ID)
	}
	return out, nil
}

// ClampBudget computes the retry max-tokens after a budget rejection.
func ClampBudget(requested, affordable int64) int64 {
	budget := affordable - budgetHeadroom
	if requested < budget {
		budget = requested
	}
	if budget < minBudgetTokens {
		budget = minBudgetTokens
	}
	return budget
}
