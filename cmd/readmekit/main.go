package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"readmekit/internal/collect"
	"readmekit/internal/compare"
	"readmekit/internal/config"
	"readmekit/internal/eval"
	"readmekit/internal/extract"
	"readmekit/internal/generate"
	"readmekit/internal/github"
	"readmekit/internal/source"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "readmekit",
		Short: "Repository-context extraction and README quality toolkit",
	}
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML configuration file")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(compareCmd)
}

func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// splitOwnerRepo parses "owner/repo".
func splitOwnerRepo(s string) (string, string, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

var (
	scanGitHub bool

	scanCmd = &cobra.Command{
		Use:   "scan [path | owner/repo]",
		Short: "Build and print the bounded context document for a repository",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			ctx := context.Background()

			var src source.Source
			if scanGitHub {
				if len(args) == 0 {
					log.Fatalf("scan --github requires an owner/repo argument")
				}
				owner, repo, ok := splitOwnerRepo(args[0])
				if !ok {
					log.Fatalf("Invalid repository %q, expected owner/repo", args[0])
				}
				client := github.NewClient(cfg.GitHub.Token)
				remote, err := github.NewRemoteSource(ctx, client, owner, repo)
				if err != nil {
					log.Fatalf("Failed to fetch repository tree: %v", err)
				}
				src = remote
			} else {
				path := "."
				if len(args) > 0 {
					path = args[0]
				}
				local, err := source.NewLocalSource(path)
				if err != nil {
					log.Fatalf("Failed to scan %s: %v", path, err)
				}
				src = local
			}

			doc := extract.Build(ctx, src)

			fmt.Printf("Repository: %s\n", doc.RepoName)
			fmt.Printf("File tree entries: %d\n", len(strings.Split(doc.FileTree, "\n")))
			fmt.Printf("Code snippet length: %d chars\n\n", utf8.RuneCountInString(doc.CodeSnippets))
			fmt.Println("=== File structure ===")
			fmt.Println(doc.FileTree)
			fmt.Println("\n=== Key files ===")
			fmt.Println(doc.CodeSnippets)
		},
	}
)

var (
	collectNumRepos  int
	collectOutputDir string

	collectCmd = &cobra.Command{
		Use:   "collect",
		Short: "Collect repository-README pairs from GitHub into a dataset",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			if cfg.GitHub.Token == "" {
				fmt.Println("Warning: No GitHub token configured. Rate limits will be very restrictive.")
				fmt.Println("Set GITHUB_TOKEN or github.token in config.yaml")
			}

			client := github.NewClient(cfg.GitHub.Token)
			collector := collect.NewCollector(client, cfg)
			if err := collector.Run(context.Background(), collect.Options{
				NumRepos:  collectNumRepos,
				OutputDir: collectOutputDir,
			}); err != nil {
				log.Fatalf("Collection failed: %v", err)
			}
		},
	}
)

var (
	evalLabel      string
	evalDataDir    string
	evalOutputDir  string
	evalNumSamples int
	evalBaseOnly   bool

	evaluateCmd = &cobra.Command{
		Use:   "evaluate",
		Short: "Score generated READMEs against the held-out dataset slice",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			ctx := context.Background()

			model := cfg.AI.Model
			label := evalLabel
			if evalBaseOnly {
				model = cfg.AI.BaseModel
				if label == "" {
					label = "base"
				}
			}
			if label == "" {
				label = "tuned"
			}

			gen, err := generate.NewGeminiGenerator(ctx, cfg.AI.APIKey, model)
			if err != nil {
				log.Fatalf("Failed to create generator: %v", err)
			}

			runner := eval.NewRunner(gen)
			if _, err := runner.Run(ctx, eval.Options{
				Label:      label,
				DataDir:    evalDataDir,
				OutputDir:  evalOutputDir,
				NumSamples: evalNumSamples,
			}); err != nil {
				log.Fatalf("Evaluation failed: %v", err)
			}
		},
	}
)

var (
	compareRepoPath   string
	compareGitHubRepo string
	compareOutputDir  string
	compareBaseOnly   bool

	compareCmd = &cobra.Command{
		Use:   "compare",
		Short: "Generate before/after READMEs for one repository",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			ctx := context.Background()

			if (compareRepoPath == "") == (compareGitHubRepo == "") {
				log.Fatalf("Provide exactly one of --repo-path or --github-repo")
			}

			var src source.Source
			if compareRepoPath != "" {
				local, err := source.NewLocalSource(compareRepoPath)
				if err != nil {
					log.Fatalf("Failed to scan %s: %v", compareRepoPath, err)
				}
				src = local
			} else {
				owner, repo, ok := splitOwnerRepo(compareGitHubRepo)
				if !ok {
					log.Fatalf("Invalid repository %q, expected owner/repo", compareGitHubRepo)
				}
				client := github.NewClient(cfg.GitHub.Token)
				remote, err := github.NewRemoteSource(ctx, client, owner, repo)
				if err != nil {
					log.Fatalf("Failed to fetch repository tree: %v", err)
				}
				src = remote
			}

			doc := extract.Build(ctx, src)
			fmt.Printf("Repository: %s\n", doc.RepoName)
			fmt.Printf("File tree entries: %d\n", len(strings.Split(doc.FileTree, "\n")))
			fmt.Printf("Code snippet length: %d chars\n\n", utf8.RuneCountInString(doc.CodeSnippets))

			base, err := generate.NewGeminiGenerator(ctx, cfg.AI.APIKey, cfg.AI.BaseModel)
			if err != nil {
				log.Fatalf("Failed to create base generator: %v", err)
			}
			var tuned generate.Generator
			if !compareBaseOnly {
				t, err := generate.NewGeminiGenerator(ctx, cfg.AI.APIKey, cfg.AI.Model)
				if err != nil {
					log.Fatalf("Failed to create tuned generator: %v", err)
				}
				tuned = t
			}

			if _, err := compare.Run(ctx, doc, base, tuned, compareOutputDir); err != nil {
				log.Fatalf("Comparison failed: %v", err)
			}
		},
	}
)

func init() {
	scanCmd.Flags().BoolVar(&scanGitHub, "github", false, "Treat the argument as a GitHub owner/repo instead of a local path")

	collectCmd.Flags().IntVar(&collectNumRepos, "num-repos", 5000, "Target number of repositories to collect")
	collectCmd.Flags().StringVar(&collectOutputDir, "output-dir", "data", "Output directory for the dataset")

	evaluateCmd.Flags().StringVar(&evalLabel, "label", "", "Label for the evaluation artifacts (default: tuned, or base with --base-only)")
	evaluateCmd.Flags().StringVar(&evalDataDir, "data-dir", "data", "Directory containing the collected dataset")
	evaluateCmd.Flags().StringVar(&evalOutputDir, "output-dir", "outputs/eval", "Directory for evaluation artifacts")
	evaluateCmd.Flags().IntVar(&evalNumSamples, "num-samples", 100, "Maximum number of test examples to evaluate")
	evaluateCmd.Flags().BoolVar(&evalBaseOnly, "base-only", false, "Evaluate the base model instead of the tuned model")

	compareCmd.Flags().StringVar(&compareRepoPath, "repo-path", "", "Path to a local repository")
	compareCmd.Flags().StringVar(&compareGitHubRepo, "github-repo", "", "GitHub repository (owner/repo)")
	compareCmd.Flags().StringVar(&compareOutputDir, "output-dir", "outputs/comparisons", "Directory for comparison artifacts")
	compareCmd.Flags().BoolVar(&compareBaseOnly, "base-only", false, "Only run the base model (no after comparison)")
}
