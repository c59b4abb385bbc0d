// Command hoist-upload uploads one file to the Hoist platform and prints the
// resulting file ID. It demonstrates the full client wiring: configuration,
// structured logging, multipart and direct uploads, and graceful cancellation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	hoist "github.com/hoisthq/hoist-go"
	"github.com/hoisthq/hoist-go/hoisttypes"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to a YAML config file (default: ./hoist.yaml if present)")
		endpoint    = flag.String("endpoint", "", "GraphQL endpoint URL")
		token       = flag.String("token", "", "bearer token for the Hoist API")
		ownerType   = flag.String("owner-type", "", "type of the resource owning the file")
		ownerID     = flag.String("owner-id", "", "identifier of the resource owning the file")
		contentType = flag.String("content-type", "", "content type of the file (default: detected)")
		concurrency = flag.Int("concurrency", 0, "number of parts uploaded concurrently")
		direct      = flag.Bool("direct", false, "upload in a single request instead of multipart")
		verbose     = flag.Bool("verbose", false, "log per-part upload progress")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	// Flags win over file and environment.
	if *endpoint != "" {
		cfg.Endpoint = *endpoint
	}
	if *token != "" {
		cfg.Token = *token
	}
	if *ownerType != "" {
		cfg.OwnerType = *ownerType
	}
	if *ownerID != "" {
		cfg.OwnerID = *ownerID
	}
	if *concurrency > 0 {
		cfg.Concurrency = *concurrency
	}
	if err := cfg.validate(); err != nil {
		log.Fatal(err)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []hoisttypes.Option{
		hoist.WithEndpoint(cfg.Endpoint),
		hoist.WithToken(cfg.Token),
		hoist.WithLogger(logger),
	}
	if cfg.Concurrency > 0 {
		opts = append(opts, hoist.WithConcurrency(cfg.Concurrency))
	}
	client, err := hoist.New(opts...)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := run(ctx, client, cfg, path, *contentType, *direct)
	if err != nil {
		log.Fatal(err)
	}

	logger.Info("upload complete",
		"file_id", result.FileID,
		"size", result.Size,
		"parts", result.Parts,
		"duration", result.Duration,
	)
	fmt.Println(result.FileID)
}

// run performs the upload itself, multipart by default or direct on request.
func run(
	ctx context.Context,
	client *hoist.Client,
	cfg *config,
	path, contentType string,
	direct bool,
) (*hoisttypes.UploadResult, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	owner := hoist.Owner(cfg.OwnerType, cfg.OwnerID)

	var uploadOpts []hoisttypes.UploadOption
	if contentType != "" {
		uploadOpts = append(uploadOpts, hoist.WithContentType(contentType))
	}

	if direct {
		f, err := os.Open(abs)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return nil, err
		}
		return client.UploadDirect(ctx, f, info.Size(), filepath.Base(abs), owner, uploadOpts...)
	}

	return client.UploadFile(ctx, abs, owner, uploadOpts...)
}
