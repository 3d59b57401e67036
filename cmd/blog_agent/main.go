// Package main provides the entry point for the blog generation agent CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blog_agent",
	Short: "Agentic blog post generator",
	Long:  "blog_agent generates markdown blog posts from a local knowledge base: it retrieves context from a vector store, composes a draft, and refines it until an evaluator approves or the iteration budget runs out.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
