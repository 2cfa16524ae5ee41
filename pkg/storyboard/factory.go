package storyboard

import (
	"fmt"

	"homereel/pkg/config"
	"homereel/pkg/llm"
	"homereel/pkg/llm/failover"
	"homereel/pkg/llm/gemini"
	"homereel/pkg/llm/openai"
	"homereel/pkg/request"
	"homereel/pkg/tracker"
)

// NewProvider builds the oracle provider selected by cfg.Provider. The
// returned name labels journal rows and reports; for the failover chain it
// is "failover" rather than whichever provider happened to answer.
func NewProvider(cfg config.LLMConfig, hist config.HistorySettings, rc *request.Client, t *tracker.Tracker) (llm.Provider, string, error) {
	switch cfg.Provider {
	case "", "gemini":
		p, err := gemini.NewClient(cfg.Gemini, hist.Path, t)
		if err != nil {
			return nil, "", err
		}
		return p, "gemini", nil
	case "openai":
		p, err := openai.NewClient(cfg.OpenAI, rc)
		if err != nil {
			return nil, "", err
		}
		return p, "openai", nil
	case "failover":
		names := cfg.Failover
		if len(names) == 0 {
			names = []string{"gemini", "openai"}
		}
		providers := make([]llm.Provider, 0, len(names))
		for _, name := range names {
			var (
				p   llm.Provider
				err error
			)
			switch name {
			case "gemini":
				p, err = gemini.NewClient(cfg.Gemini, hist.Path, t)
			case "openai":
				p, err = openai.NewClient(cfg.OpenAI, rc)
			default:
				err = fmt.Errorf("unknown provider %q in failover list", name)
			}
			if err != nil {
				return nil, "", err
			}
			providers = append(providers, p)
		}
		p, err := failover.New(providers, names, hist.Path, hist.Enabled, t)
		if err != nil {
			return nil, "", err
		}
		return p, "failover", nil
	default:
		return nil, "", fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
