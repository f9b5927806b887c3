// Package wizard collects project settings interactively and renders the
// .finsight.yaml config file.
package wizard

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/finsight-ai/finsight/internal/config"
)

// ProjectSpec holds all fields collected during the interactive wizard.
type ProjectSpec struct {
	LLMBaseURL   string
	RouterModel  string
	AnswerModel  string
	Symbol       string
	CacheBackend string
	RedisAddr    string
	ServerPort   int
}

const configTemplate = `# finsight configuration. API keys are read from the environment:
#   FINSIGHT_LLM_API_KEY, FINSIGHT_MARKET_API_KEY
llm:
  base_url: {{ .LLMBaseURL }}
  router_model: {{ .RouterModel }}
  answer_model: {{ .AnswerModel }}
eval:
  symbol: {{ .Symbol }}
cache:
  backend: {{ .CacheBackend }}
{{- if eq .CacheBackend "redis" }}
  redis_addr: {{ .RedisAddr }}
{{- end }}
server:
  port: {{ .ServerPort }}
`

// RunProjectWizard runs an interactive huh form to collect project settings.
func RunProjectWizard(in io.Reader, out io.Writer) (*ProjectSpec, error) {
	var (
		llmBaseURL   = config.DefaultLLMBaseURL
		routerModel  = config.DefaultRouterModel
		answerModel  = config.DefaultAnswerModel
		symbol       = config.DefaultEvalSymbol
		cacheBackend = config.DefaultCacheBackend
		redisAddr    = config.DefaultRedisAddr
		serverPort   = strconv.Itoa(config.DefaultServerPort)
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("LLM base URL").
				Description("OpenAI-compatible endpoint for routing and answers").
				Value(&llmBaseURL).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("base URL is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Router model").
				Description("Small, fast model for tool routing").
				Value(&routerModel),
			huh.NewInput().
				Title("Answer model").
				Description("Larger model for answer generation").
				Value(&answerModel),
			huh.NewInput().
				Title("Default symbol").
				Description("Ticker used when a request names none").
				Value(&symbol).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("symbol is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Summary cache backend").
				Options(
					huh.NewOption("memory (single instance)", "memory"),
					huh.NewOption("redis (shared)", "redis"),
				).
				Value(&cacheBackend),
			huh.NewInput().
				Title("Redis address").
				Description("Only used with the redis backend").
				Value(&redisAddr),
			huh.NewInput().
				Title("Dashboard port").
				Value(&serverPort).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 1 || n > 65535 {
						return fmt.Errorf("port must be a number between 1 and 65535")
					}
					return nil
				}),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	port, _ := strconv.Atoi(strings.TrimSpace(serverPort))
	return &ProjectSpec{
		LLMBaseURL:   strings.TrimSpace(llmBaseURL),
		RouterModel:  strings.TrimSpace(routerModel),
		AnswerModel:  strings.TrimSpace(answerModel),
		Symbol:       strings.ToUpper(strings.TrimSpace(symbol)),
		CacheBackend: cacheBackend,
		RedisAddr:    strings.TrimSpace(redisAddr),
		ServerPort:   port,
	}, nil
}

// GenerateConfig renders a .finsight.yaml from the given spec.
func GenerateConfig(spec *ProjectSpec) (string, error) {
	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing config template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, spec); err != nil {
		return "", fmt.Errorf("rendering config template: %w", err)
	}
	return buf.String(), nil
}
