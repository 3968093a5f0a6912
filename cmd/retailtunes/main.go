// Command retailtunes runs the RetailTunes AI dashboard web application.
package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/justestif/retailtunes/internal/config"
	"github.com/justestif/retailtunes/internal/web"
	webfs "github.com/justestif/retailtunes/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Create sub-filesystems for templates and static files
	templates, err := fs.Sub(webfs.TemplatesFS, "templates")
	if err != nil {
		return fmt.Errorf("creating templates filesystem: %w", err)
	}

	static, err := fs.Sub(webfs.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("creating static filesystem: %w", err)
	}

	if cfg.Debug {
		log.Printf("Debug logging enabled (session TTL %s)", cfg.SessionTTL)
	}

	// Create and start server
	server, err := web.NewServer(web.ServerConfig{
		Addr:        cfg.Addr,
		SessionTTL:  cfg.SessionTTL,
		Debug:       cfg.Debug,
		TemplatesFS: templates,
		StaticFS:    static,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run()
}
