package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/noah-isme/toko-campaigns/internal/campaign"
	"github.com/noah-isme/toko-campaigns/internal/checkout"
	"github.com/noah-isme/toko-campaigns/internal/config"
	"github.com/noah-isme/toko-campaigns/internal/obs"
)

// evaluate runs the campaign tables against a cart document and prints the
// discounted cart as JSON.
//
//	evaluate -cart cart.json -campaigns campaigns.yaml
//	cat cart.json | evaluate
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Fatalf("evaluate: %v", err)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cartPath      = fs.String("cart", "-", "cart JSON document; - reads stdin")
		campaignsPath = fs.String("campaigns", "", "campaign table YAML; defaults to CAMPAIGNS_FILE or the built-in tables")
		currency      = fs.String("currency", "", "currency code echoed in the output; defaults to CURRENCY_CODE")
		logLevel      = fs.String("log-level", "warn", "log level written to stderr")
		traceSpans    = fs.Bool("trace", false, "write evaluation spans to stderr")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	tablesPath := strings.TrimSpace(*campaignsPath)
	if tablesPath == "" {
		tablesPath = cfg.CampaignsFile
	}
	runner, err := loadRunner(tablesPath)
	if err != nil {
		return err
	}

	input, closeInput, err := openInput(*cartPath, stdin)
	if err != nil {
		return err
	}
	defer closeInput()

	c, err := checkout.DecodeCart(input, nil)
	if err != nil {
		return fmt.Errorf("decode cart: %w", err)
	}

	code := strings.TrimSpace(*currency)
	if code == "" {
		code = cfg.CurrencyCode
	}
	svc := &checkout.Service{
		Runner:   runner,
		Logger:   obs.NewLoggerTo(stderr, "console", *logLevel),
		Currency: strings.ToUpper(code),
	}

	ctx := context.Background()
	if *traceSpans {
		shutdown, err := obs.InitTracer(ctx, obs.TracingConfig{
			ServiceName: "campaign-evaluate",
			Environment: cfg.AppEnv,
			Exporter:    "stdout",
			Writer:      stderr,
		})
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer func() { _ = shutdown(context.Background()) }()
	}
	result, err := svc.Evaluate(ctx, c)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(checkout.NewEvaluateResponse(result))
}

func loadRunner(path string) (*campaign.Runner, error) {
	if path == "" {
		return campaign.DefaultTables()
	}
	return campaign.LoadTablesFile(path)
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		if stdin == nil {
			return nil, nil, errors.New("no cart input")
		}
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open cart: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
