// AgentScope CLI - command line client for the agent discovery API
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/aeither/agentscope/clients/go/agentscope"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	baseURL := os.Getenv("AGENTSCOPE_URL")
	client := agentscope.NewClient(baseURL)
	cmd := os.Args[1]

	switch cmd {
	case "health":
		resp, err := client.GetHealth()
		exitOnError(err)
		fmt.Printf("%s (version %s)\n", resp.Status, resp.Version)

	case "agents":
		opts := agentscope.ListOptions{PageSize: 24}
		if len(os.Args) > 2 {
			opts.Search = os.Args[2]
		}
		resp, err := client.ListAgents(opts)
		exitOnError(err)
		for _, a := range resp.Agents {
			name := "(no metadata)"
			if a.RegistrationFile != nil && a.RegistrationFile.Name != nil {
				name = *a.RegistrationFile.Name
			}
			ts := time.Unix(a.CreatedAt, 0).Format("2006-01-02")
			fmt.Printf("  %-14s %-30s %s  %d reviews\n", a.ID, name, ts, a.TotalFeedback)
		}
		fmt.Printf("%d of %d agents\n", len(resp.Agents), resp.Total)

	case "show":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: agentscope show <chainId>:<tokenId>")
			os.Exit(1)
		}
		resp, err := client.GetAgent(os.Args[2])
		exitOnError(err)
		a := resp.Agent
		fmt.Printf("id:       %s\nowner:    %s\nmetadata: %s\n", a.ID, a.Owner, a.MetadataURI)
		if a.RegistrationFile != nil {
			if a.RegistrationFile.Name != nil {
				fmt.Printf("name:     %s\n", *a.RegistrationFile.Name)
			}
			if a.RegistrationFile.Description != nil {
				fmt.Printf("about:    %s\n", *a.RegistrationFile.Description)
			}
		}
		for _, fb := range resp.Feedback {
			ts := time.Unix(fb.CreatedAt, 0).Format("2006-01-02")
			fmt.Printf("  [%s] %d/100 %s %s\n", ts, fb.Score, fb.Tag1, fb.Tag2)
		}

	case "count":
		opts := agentscope.ListOptions{}
		if len(os.Args) > 2 {
			opts.Search = os.Args[2]
		}
		n, err := client.CountAgents(opts)
		exitOnError(err)
		fmt.Println(n)

	case "stats":
		resp, err := client.GetStats()
		exitOnError(err)
		fmt.Printf("agents:   %s\nfeedback: %s\n", resp.TotalAgents, resp.TotalFeedback)

	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `AgentScope CLI

Usage:
  agentscope health            service health
  agentscope agents [search]   list agents, optionally filtered by name
  agentscope show <id>         agent detail with recent feedback
  agentscope count [search]    number of agents matching the filter
  agentscope stats             global registry statistics

Environment:
  AGENTSCOPE_URL  API base URL (default http://localhost:8080)`)
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
