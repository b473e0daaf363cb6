package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	accesspkg "github.com/adfharrison1/go-cms/pkg/access"
	"github.com/adfharrison1/go-cms/pkg/core"
	"github.com/adfharrison1/go-cms/pkg/domain"
	"github.com/adfharrison1/go-cms/pkg/schema"
	"github.com/adfharrison1/go-cms/pkg/server"
	"github.com/adfharrison1/go-cms/pkg/storage"
)

// demoConfig is the collection setup served by the standalone binary. Real
// deployments embed the packages and supply their own configuration.
func demoConfig() schema.Config {
	return schema.Config{
		Collections: []schema.Collection{
			{
				Name:       "users",
				Timestamps: true,
				Fields: []schema.Field{
					{Name: "name", Type: schema.FieldText, Required: true, MaxLength: 120},
					{Name: "email", Type: schema.FieldEmail, Required: true, Unique: true},
					{Name: "role", Type: schema.FieldSelect, Options: []string{"admin", "editor", "reader"}, DefaultValue: "reader"},
				},
			},
			{
				Name:       "posts",
				Timestamps: true,
				Fields: []schema.Field{
					{Name: "title", Type: schema.FieldText, Required: true, MinLength: 1, MaxLength: 200},
					{Name: "content", Type: schema.FieldRichText},
					{Name: "published", Type: schema.FieldCheckbox, DefaultValue: false},
					{Name: "publishedAt", Type: schema.FieldDate},
					{Name: "author", Type: schema.FieldRelation, RelationTo: "users"},
				},
				Access: schema.AccessRules{
					// Anonymous readers only see published posts.
					Read: func(ctx context.Context, ac accesspkg.Context) (accesspkg.Decision, error) {
						if ac.User != nil {
							return accesspkg.Allow(), nil
						}
						return accesspkg.AllowWhere(domain.Where{"published": true}), nil
					},
				},
			},
		},
	}
}

func main() {
	// Command line flags
	var (
		port           = flag.String("port", "8080", "Server port")
		dataFile       = flag.String("data-file", "go-cms_data"+storage.FileExtension, "Snapshot file path for persistence")
		backgroundSave = flag.Duration("background-save", 0, "Background save interval (e.g., 5m, 30s). Set to 0 to disable.")
		strictAccess   = flag.Bool("strict-access", false, "Apply residual access filters to single-document operations")
		showHelp       = flag.Bool("help", false, "Show help message")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\ngo-cms is a headless content-management server with an embedded document store.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                  # Start with defaults\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090 -background-save 5m   # Custom port, auto-save every 5 minutes\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nSafety Note:\n")
		fmt.Fprintf(os.Stderr, "  Without -background-save, data is only saved on graceful shutdown.\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	storageOptions := []storage.Option{storage.WithDataFile(*dataFile)}
	if *backgroundSave > 0 {
		storageOptions = append(storageOptions, storage.WithBackgroundSave(*backgroundSave))
		log.Printf("INFO: Background save enabled: every %v", *backgroundSave)
	} else {
		log.Printf("WARN: Background save disabled - data only saved on graceful shutdown")
	}

	var coreOptions []core.Option
	if *strictAccess {
		coreOptions = append(coreOptions, core.WithStrictAccessFilter())
		log.Printf("INFO: Strict access filtering enabled")
	}

	srv, err := server.NewServer(demoConfig(), storageOptions, coreOptions)
	if err != nil {
		log.Fatalf("Failed to build server: %v", err)
	}

	log.Printf("INFO: Loading data from: %s", *dataFile)
	srv.InitDB(*dataFile)
	srv.StartBackgroundWorkers()
	defer srv.StopBackgroundWorkers()

	httpServer := &http.Server{
		Addr:    ":" + *port,
		Handler: srv.Router(),
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting go-cms server on :%s", *port)
		log.Printf("API endpoints available at http://localhost:%s", *port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Save database before shutdown
	log.Printf("INFO: Saving data to: %s", *dataFile)
	srv.SaveDB(*dataFile)

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
