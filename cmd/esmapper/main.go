package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"reflect"
	"sort"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/esmapper/internal/cache"
	"github.com/dshills/esmapper/internal/compile"
	"github.com/dshills/esmapper/internal/config"
	"github.com/dshills/esmapper/internal/mcp"
	"github.com/dshills/esmapper/pkg/mapping"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("esmapper schema compiler\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", cache.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", cache.DriverName)
		os.Exit(0)
	}

	// Log to stderr, stdout carries the compiled schema or MCP protocol
	log.SetOutput(os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	reg := newRegistry()

	if len(os.Args) > 1 && os.Args[1] == "serve" {
		serve(reg, cfg)
		return
	}

	compileAndPrint(reg, cfg, os.Args[1:])
}

// serve runs the MCP server on stdio until a shutdown signal.
func serve(reg *mapping.Registry, cfg *config.Config) {
	server, err := mcp.NewServer(reg, cfg)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("esmapper v%s ready, listening on stdio...", version)
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}

	log.Println("Server stopped")
}

// compileAndPrint compiles the named documents, or every registered
// document when none are named, and prints the definitions as one JSON
// object keyed by index alias.
func compileAndPrint(reg *mapping.Registry, cfg *config.Config, names []string) {
	store, err := cfg.OpenStore()
	if err != nil {
		log.Fatalf("Failed to open metadata cache: %v", err)
	}
	defer func() { _ = store.Close() }()

	analysisCfg, err := cfg.LoadAnalysis()
	if err != nil {
		log.Fatalf("Failed to load analysis config: %v", err)
	}

	compiler := compile.New(store, compile.WithAnalysisConfig(analysisCfg))

	if len(names) == 0 {
		names = reg.Names()
	}
	types := make([]reflect.Type, 0, len(names))
	for _, name := range names {
		t, ok := reg.Lookup(name)
		if !ok {
			log.Fatalf("Unknown document %q (registered: %v)", name, reg.Names())
		}
		types = append(types, t)
	}

	ctx := context.Background()
	var mu sync.Mutex
	output := make(map[string]mapping.IndexDefinition)

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range types {
		g.Go(func() error {
			def, err := compiler.Compile(gctx, t)
			if err != nil {
				return err
			}
			if def.Empty() {
				return nil
			}
			mu.Lock()
			output[compiler.Alias(t)] = def
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("Compilation failed: %v", err)
	}

	if err := compiler.SyncAliases(ctx, reg); err != nil {
		log.Fatalf("Failed to sync alias registry: %v", err)
	}

	aliases := make([]string, 0, len(output))
	for alias := range output {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	log.Printf("Compiled %d index definition(s): %v", len(output), aliases)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}
}
