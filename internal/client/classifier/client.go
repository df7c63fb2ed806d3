// Package classifier provides the client for the external text-classification
// endpoint that produces routing decisions for new tickets.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Jimmeey2323/smart-ticket-manager/internal/client"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/models"
)

const systemPrompt = `You are a support-ticket router for a fitness-studio chain. ` +
	`Given a ticket, respond with a single JSON object with the fields: ` +
	`department (string), priority (one of "critical", "high", "medium", "low"), ` +
	`suggestedTags (array of strings), needsEscalation (boolean), ` +
	`escalationReason (string), routingConfidence (number between 0 and 1), ` +
	`analysis (short string explaining the routing).`

// Client calls the external completion endpoint and parses its structured
// routing decision. Any failure is returned as an error; the routing engine
// owns the degraded fallback.
type Client struct {
	*client.BaseClient // Embedded - inherits core HTTP methods

	apiKey    string
	model     string
	maxTokens int
	logger    *logrus.Logger
}

// NewClient creates a new classification client.
//
// Parameters:
//   - baseClient: Base HTTP client pointed at the completion API root
//   - apiKey: Bearer key for the completion API
//   - model: Fixed completion model identifier
//   - maxTokens: Fixed completion token limit
//   - logger: Structured logger for classification calls
func NewClient(
	baseClient *client.BaseClient,
	apiKey string,
	model string,
	maxTokens int,
	logger *logrus.Logger,
) *Client {
	return &Client{
		BaseClient: baseClient,
		apiKey:     apiKey,
		model:      model,
		maxTokens:  maxTokens,
		logger:     logger,
	}
}

// Classify submits the ticket text and returns the parsed routing decision.
func (c *Client) Classify(ctx context.Context, req Request) (*models.RoutingDecision, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("classifier API key is not configured")
	}

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(req)},
		},
		MaxTokens:      c.maxTokens,
		Temperature:    0.2,
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	resp, err := c.doWithKey(ctx, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status", resp.StatusCode).Warn("Classifier request rejected")
		return nil, fmt.Errorf("classifier request failed with status %d", resp.StatusCode)
	}

	var completion chatResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&completion); decodeErr != nil {
		return nil, fmt.Errorf("failed to decode classifier response: %w", decodeErr)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("classifier response contained no choices")
	}

	var decision models.RoutingDecision
	if parseErr := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &decision); parseErr != nil {
		return nil, fmt.Errorf("failed to parse routing decision: %w", parseErr)
	}
	if decision.SuggestedTags == nil {
		decision.SuggestedTags = []string{}
	}

	c.logger.WithFields(logrus.Fields{
		"department": decision.Department,
		"priority":   decision.Priority,
		"confidence": decision.RoutingConfidence,
	}).Debug("Classifier produced routing decision")

	return &decision, nil
}

// doWithKey executes the completion request with bearer authorization.
func (c *Client) doWithKey(ctx context.Context, body interface{}) (*http.Response, error) {
	resp, err := c.DoAuthorized(ctx, http.MethodPost, "/chat/completions", "Bearer "+c.apiKey, body)
	if err != nil {
		return nil, fmt.Errorf("classifier request failed: %w", err)
	}
	return resp, nil
}

// userPrompt renders the ticket fields into the user message.
func userPrompt(req Request) string {
	return fmt.Sprintf(
		"Title: %s\nDescription: %s\nCategory: %s\nSubcategory: %s\nStudio: %s",
		req.Title, req.Description, req.Category, req.Subcategory, req.StudioID,
	)
}
