// Command chatads sends a message to the ChatAds API and prints the
// matched offers as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	chatads "github.com/chatads/chatads-go"
)

var version = "dev"

// Config holds the I/O streams and HTTP client for the CLI.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// HTTPClient replaces the default HTTP client when set.
	HTTPClient *http.Client
}

// DefaultConfig returns a Config using standard I/O streams.
func DefaultConfig() Config {
	return Config{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// run executes the CLI with the given arguments and configuration.
func run(args []string, cfg Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCommand(cfg)
	root.SetArgs(args[1:])
	root.SetIn(cfg.Stdin)
	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)
	return root.ExecuteContext(ctx)
}

func newRootCommand(cfg Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "chatads",
		Short:         "Query the ChatAds message analysis API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newAnalyzeCommand(cfg))
	return root
}

// analyzeFlags are the flags of the analyze command.
type analyzeFlags struct {
	configPath     string
	envFile        string
	apiKey         string
	baseURL        string
	endpoint       string
	timeout        time.Duration
	maxRetries     int
	raiseOnFailure bool
	requestID      string
	verbose        bool

	payload chatads.Payload
	extra   map[string]string
}

func newAnalyzeCommand(cfg Config) *cobra.Command {
	f := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze [message...]",
		Short: "Analyze a message and print the matched offers",
		Long: `Analyze sends a message to the ChatAds API and prints the response envelope.

The message is taken from the arguments, or read from stdin when no argument
is given or the only argument is "-". Settings come from defaults, an optional
YAML file, CHATADS_* environment variables (a .env file is loaded first) and
finally the flags below.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, cfg, f, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&f.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.StringVar(&f.apiKey, "api-key", "", "ChatAds API key")
	flags.StringVar(&f.baseURL, "base-url", "", "ChatAds API base URL")
	flags.StringVar(&f.endpoint, "endpoint", "", "endpoint path")
	flags.DurationVar(&f.timeout, "timeout", 0, "timeout of each attempt")
	flags.IntVar(&f.maxRetries, "max-retries", 0, "retries for transient failures")
	flags.BoolVar(&f.raiseOnFailure, "raise-on-failure", false, "treat logical failures in 2xx responses as errors")
	flags.StringVar(&f.requestID, "request-id", "", "x-request-id header value")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "log every attempt to stderr")

	flags.StringVar(&f.payload.IP, "ip", "", "end user IP address")
	flags.StringVar(&f.payload.Country, "country", "", "end user country code")
	flags.StringVar(&f.payload.Language, "language", "", "message language")
	flags.StringVar(&f.payload.Quality, "quality", "", "fill quality")
	flags.StringVar(&f.payload.MinIntent, "min-intent", "", "minimum purchase intent")
	flags.StringVar(&f.payload.PageURL, "page-url", "", "URL of the page hosting the chat")
	flags.StringVar(&f.payload.PageTitle, "page-title", "", "title of the page hosting the chat")
	flags.StringVar(&f.payload.Referrer, "referrer", "", "referrer of the page")
	flags.StringVar(&f.payload.UserAgent, "user-agent", "", "end user's browser user agent")
	flags.StringToStringVar(&f.extra, "field", nil, "extra field as key=value (repeatable)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, cfg Config, f *analyzeFlags, args []string) error {
	if err := godotenv.Load(f.envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("env-file") {
			return fmt.Errorf("load %s: %w", f.envFile, err)
		}
	}

	loaded, err := chatads.LoadConfigWith(f.configPath, overrides(cmd, f))
	if err != nil {
		return err
	}

	var opts []chatads.Option
	if loaded.UserAgent == "" {
		opts = append(opts, chatads.WithUserAgent("chatads-cli/"+version))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, chatads.WithHTTPClient(cfg.HTTPClient))
	}
	if f.verbose {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: cfg.Stderr, TimeFormat: time.TimeOnly}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
		opts = append(opts, chatads.WithLogger(logger))
	}

	client, err := chatads.NewFromConfig(loaded, opts...)
	if err != nil {
		return err
	}

	message, err := readMessage(cfg.Stdin, args)
	if err != nil {
		return err
	}
	p := f.payload
	p.Message = message
	if len(f.extra) > 0 {
		p.ExtraFields = make(map[string]any, len(f.extra))
		for k, v := range f.extra {
			p.ExtraFields[k] = v
		}
	}

	var callOpts []chatads.CallOption
	if f.requestID != "" {
		callOpts = append(callOpts, chatads.WithRequestID(f.requestID))
	}

	resp, err := client.Analyze(cmd.Context(), &p, callOpts...)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	enc := json.NewEncoder(cfg.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// overrides collects the flags that were set explicitly, keyed by their
// configuration names.
func overrides(cmd *cobra.Command, f *analyzeFlags) map[string]any {
	out := make(map[string]any)
	changed := cmd.Flags().Changed
	if changed("api-key") {
		out["api_key"] = f.apiKey
	}
	if changed("base-url") {
		out["base_url"] = f.baseURL
	}
	if changed("endpoint") {
		out["endpoint"] = f.endpoint
	}
	if changed("timeout") {
		out["timeout"] = f.timeout.String()
	}
	if changed("max-retries") {
		out["max_retries"] = f.maxRetries
	}
	if changed("raise-on-failure") {
		out["raise_on_failure"] = f.raiseOnFailure
	}
	return out
}

func readMessage(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
