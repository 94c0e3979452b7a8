// Package llm suggests categories for descriptions no rule matched, using
// Gemini. Its output only ever lands in the suggested-rules layer; user rules
// and the vendor table always take precedence at categorization time.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/spendlens/spendlens/internal/rules"
)

// Classifier bulk-classifies normalized descriptions into the category
// vocabulary. Implementations return a rule set keyed exactly like the rule
// layers.
type Classifier interface {
	Classify(ctx context.Context, descriptions []string) (rules.Set, error)
}

type GeminiClassifier struct {
	client *genai.Client
	model  string
	log    *slog.Logger
}

func NewGeminiClassifier(ctx context.Context, apiKey, model string, log *slog.Logger) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiClassifier{client: client, model: model, log: log}, nil
}

// Classify sends every distinct normalized description to the model in one
// request and returns the suggestions that survive validation. Replies for
// unknown descriptions or outside the category vocabulary are dropped, not
// errors.
func (c *GeminiClassifier) Classify(ctx context.Context, descriptions []string) (rules.Set, error) {
	keys := normalizeKeys(descriptions)
	if len(keys) == 0 {
		return rules.Set{}, nil
	}

	prompt := buildPrompt(keys)

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	set, dropped, err := parseReply(raw, keys)
	if err != nil {
		return nil, err
	}

	if dropped > 0 {
		c.log.Warn("classifier reply partially invalid",
			"dropped", dropped, "kept", len(set))
	}

	return set, nil
}

func normalizeKeys(descriptions []string) []string {
	seen := map[string]bool{}

	var keys []string

	for _, d := range descriptions {
		key := rules.Key(d)
		if key == "" || seen[key] {
			continue
		}

		seen[key] = true

		keys = append(keys, key)
	}

	return keys
}

func buildPrompt(keys []string) string {
	var b strings.Builder

	b.WriteString("You categorize bank transaction descriptions.\n")
	b.WriteString("Assign each description below exactly one category from this list:\n")

	for _, cat := range rules.Categories() {
		b.WriteString("- ")
		b.WriteString(cat)
		b.WriteString("\n")
	}

	b.WriteString("\nDescriptions:\n")

	for _, key := range keys {
		b.WriteString("- ")
		b.WriteString(key)
		b.WriteString("\n")
	}

	b.WriteString("\nReturn ONLY valid raw JSON: a single object mapping each description, verbatim, to its category.\n")
	b.WriteString("Do NOT wrap the response in code fences.\n")
	b.WriteString("Do NOT use ```json or any Markdown.\n")
	b.WriteString("Output must begin with \"{\" and end with \"}\".\n")

	return b.String()
}

// parseReply decodes the model's JSON object and keeps only entries whose key
// was actually submitted and whose category is in the vocabulary. The second
// return is the number of dropped entries.
func parseReply(raw string, keys []string) (rules.Set, int, error) {
	clean := cleanModelJSON(raw)

	var reply map[string]string
	if err := json.Unmarshal([]byte(clean), &reply); err != nil {
		return nil, 0, fmt.Errorf("unmarshal reply: %w", err)
	}

	submitted := map[string]bool{}
	for _, k := range keys {
		submitted[k] = true
	}

	vocabulary := map[string]string{}
	for _, cat := range rules.Categories() {
		vocabulary[strings.ToLower(cat)] = cat
	}

	set := rules.Set{}
	dropped := 0

	for key, category := range reply {
		key = strings.ToLower(strings.TrimSpace(key))

		canonical, known := vocabulary[strings.ToLower(strings.TrimSpace(category))]
		if !submitted[key] || !known {
			dropped++
			continue
		}

		set[key] = canonical
	}

	return set, dropped, nil
}

// cleanModelJSON strips Markdown fences some models add despite instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}

		s = strings.TrimSpace(s)
	}

	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}
