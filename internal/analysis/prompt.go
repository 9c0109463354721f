package analysis

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLabels is the fixed classification label set requested from the
// analysis service.
var DefaultLabels = []string{"Resume", "Invoice", "Legal Agreement", "Research Paper", "Others"}

// PromptConfig controls the instruction prompt sent with every analysis
// request. A deployment can override the defaults with a YAML file in
// data/defaults/analysis.yaml.
type PromptConfig struct {
	Labels       []string `yaml:"labels"`
	Instructions string   `yaml:"instructions"` // extra guidance appended to the prompt
}

// DefaultPromptConfig returns the built-in prompt configuration.
func DefaultPromptConfig() *PromptConfig {
	return &PromptConfig{Labels: DefaultLabels}
}

// LoadPromptConfig reads a prompt configuration from a YAML file. Labels left
// empty fall back to the default set.
func LoadPromptConfig(path string) (*PromptConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt config: %w", err)
	}

	cfg := &PromptConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse prompt config: %w", err)
	}

	if len(cfg.Labels) == 0 {
		cfg.Labels = DefaultLabels
	}
	return cfg, nil
}

// SystemPrompt renders the fixed instruction prompt for the analysis request.
func (p *PromptConfig) SystemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are a document analysis assistant. ")
	sb.WriteString("Analyze the document text provided by the user and respond with a single JSON object, no markdown, with these fields:\n")
	sb.WriteString(fmt.Sprintf("- \"classification\": exactly one of: %s\n", strings.Join(p.Labels, ", ")))
	sb.WriteString("- \"summary\": a short summary (2-3 sentences)\n")
	sb.WriteString("- \"tags\": an array of 3-6 short topical tags\n")
	sb.WriteString("- \"sentiment\": one of \"positive\", \"neutral\", \"negative\"\n")
	sb.WriteString("- \"insights\": (optional) notable observations as free text\n")
	sb.WriteString("- \"graphs\": (optional) an array of chart suggestions, each with \"type\", \"title\", \"labels\", \"values\"\n")
	if p.Instructions != "" {
		sb.WriteString(p.Instructions)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Contains reports whether label is part of the configured label set.
func (p *PromptConfig) Contains(label string) bool {
	for _, l := range p.Labels {
		if l == label {
			return true
		}
	}
	return false
}
