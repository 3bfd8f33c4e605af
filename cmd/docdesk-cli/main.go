// docdesk-cli is a minimal terminal client: it ingests the documents given
// on the command line into a workspace agent and answers questions typed on
// stdin via the prompt gateway.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/docdesk/docdesk/pkg/domain"
	"github.com/docdesk/docdesk/pkg/extract"
	"github.com/docdesk/docdesk/pkg/gateway"
	"github.com/docdesk/docdesk/pkg/workspace"
)

func main() {
	apiBase := flag.String("api", envOr("DOCDESK_API_BASE", "http://localhost:3001"), "gateway base URL")
	dept := flag.String("dept", string(domain.DeptGeneral), "department type (GENERAL, HR, FINANCE, IT, LEGAL)")
	name := flag.String("name", "Head Office", "agent name")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: docdesk-cli [flags] <document>...")
		os.Exit(1)
	}

	ws := workspace.New(gateway.New(*apiBase), workspace.ExtractorFunc(extract.FromFile))
	agent := ws.CreateAgent(*name, domain.ParseDepartment(*dept))
	if agent == nil {
		fmt.Fprintln(os.Stderr, "agent name must not be empty")
		os.Exit(1)
	}

	ctx := context.Background()

	var files []workspace.File
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
			os.Exit(1)
		}
		files = append(files, workspace.File{Name: filepath.Base(path), Data: data})
	}
	if err := ws.IngestFiles(ctx, agent.ID, files); err != nil {
		fmt.Fprintf(os.Stderr, "ingest: %v\n", err)
		os.Exit(1)
	}

	printed := printNewMessages(ws, agent.ID, 0)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		question := scanner.Text()
		if err := ws.SendQuestion(ctx, agent.ID, question); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			fmt.Print("> ")
			continue
		}
		printed = printNewMessages(ws, agent.ID, printed)
		fmt.Print("> ")
	}
}

// printNewMessages prints messages appended since the last call and returns
// the new high-water mark.
func printNewMessages(ws *workspace.Store, agentID string, printed int) int {
	agent, ok := ws.Agent(agentID)
	if !ok {
		return printed
	}
	for _, m := range agent.Messages[printed:] {
		fmt.Printf("[%s] %s\n\n", m.Role, m.Text)
	}
	for i, s := range agent.Suggestions {
		fmt.Printf("  (%d) %s\n", i+1, s)
	}
	return len(agent.Messages)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
