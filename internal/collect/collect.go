package collect

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"readmekit/internal/config"
	"readmekit/internal/dataset"
	"readmekit/internal/extract"
	"readmekit/internal/github"
	"readmekit/internal/readme"
	"readmekit/internal/storage"
)

const (
	StatsFileName  = "dataset_stats.json"
	LedgerFileName = "collect_ledger.db"

	searchPageSize = 100

	// Cooperative throttle after each repository, and the single coarse
	// backoff applied when the search endpoint rate-limits us. The retry
	// has no attempt ceiling: under a sustained outage this loops.
	repoThrottle     = 500 * time.Millisecond
	rateLimitBackoff = 60 * time.Second
)

// Options controls one bulk collection run.
type Options struct {
	NumRepos  int
	OutputDir string
}

// Collector gathers repository-README pairs from GitHub into a training
// dataset, one curated example per accepted repository.
type Collector struct {
	client *github.Client
	cfg    *config.Config
}

func NewCollector(client *github.Client, cfg *config.Config) *Collector {
	return &Collector{client: client, cfg: cfg}
}

// Run processes repositories language by language, strictly
// sequentially. Repositories recorded in the resume ledger are skipped
// before any network call.
func (c *Collector) Run(ctx context.Context, opts Options) error {
	datasetPath := filepath.Join(opts.OutputDir, dataset.FileName)
	writer, err := dataset.NewWriter(datasetPath)
	if err != nil {
		return err
	}
	defer writer.Close()

	ledger, err := storage.OpenLedger(filepath.Join(opts.OutputDir, LedgerFileName))
	if err != nil {
		return err
	}
	defer ledger.Close()

	languages := c.cfg.Collect.Languages
	perLanguage := opts.NumRepos / len(languages)

	total := 0
	for _, lang := range languages {
		fmt.Printf("\n🌐 Collecting %s repositories...\n", lang)
		collected, err := c.collectLanguage(ctx, lang, perLanguage, ledger, writer)
		if err != nil {
			return err
		}
		fmt.Printf("  Collected %d %s examples\n", collected, lang)
		total += collected
	}

	if err := writer.Close(); err != nil {
		return err
	}

	// Stats describe the whole dataset file, which earlier runs may have
	// appended to, not just the examples this run added.
	all, err := dataset.ReadAll(datasetPath)
	if err != nil {
		return err
	}
	stats := dataset.BuildStats(all)
	statsPath := filepath.Join(opts.OutputDir, StatsFileName)
	if err := stats.Save(statsPath); err != nil {
		return err
	}

	fmt.Printf("\n🎉 Examples collected this run: %d (dataset total: %d)\n", total, stats.TotalExamples)
	fmt.Printf("Dataset saved to: %s\n", datasetPath)
	fmt.Printf("Stats saved to: %s\n", statsPath)
	return nil
}

func (c *Collector) collectLanguage(
	ctx context.Context,
	lang string,
	target int,
	ledger *storage.Ledger,
	writer *dataset.Writer,
) (int, error) {
	query := fmt.Sprintf("language:%s stars:%d..%d has:readme",
		lang, c.cfg.Collect.MinStars, c.cfg.Collect.MaxStars)

	page := 1
	collected := 0
	for collected < target {
		repos, err := c.client.SearchRepos(ctx, query, min(searchPageSize, target-collected), page)
		if err != nil {
			if github.IsRateLimited(err) {
				fmt.Println("⏳ Rate limited. Sleeping 60s...")
				time.Sleep(rateLimitBackoff)
				continue
			}
			return collected, err
		}
		if len(repos) == 0 {
			break
		}

		for _, repo := range repos {
			seen, err := ledger.Seen(ctx, repo.FullName)
			if err != nil {
				return collected, err
			}
			if seen {
				continue
			}

			ex, ok := c.processRepo(ctx, repo)
			if err := ledger.MarkProcessed(ctx, repo.FullName, ok); err != nil {
				return collected, err
			}
			if ok {
				if err := writer.Append(ex); err != nil {
					return collected, err
				}
				collected++
			}
			time.Sleep(repoThrottle)
		}
		page++
	}
	return collected, nil
}

// processRepo turns one repository into a curated example. Every failure
// in here is a soft skip: no snapshot, no README, gate rejection, or an
// empty snippet bundle all just drop the repository.
func (c *Collector) processRepo(ctx context.Context, repo github.Repo) (dataset.CuratedExample, bool) {
	src, err := github.NewRemoteSource(ctx, c.client, repo.Owner.Login, repo.Name, ".egg-info")
	if err != nil {
		return dataset.CuratedExample{}, false
	}

	readmePath, ok := readme.Find(src.Entries())
	if !ok {
		return dataset.CuratedExample{}, false
	}
	content, err := src.ReadFile(ctx, readmePath)
	if err != nil {
		return dataset.CuratedExample{}, false
	}
	content = readme.Normalize(content)
	if !readme.PassesQualityGate(content) {
		return dataset.CuratedExample{}, false
	}

	doc := extract.Build(ctx, src)
	if doc.CodeSnippets == "" {
		return dataset.CuratedExample{}, false
	}

	language := repo.Language
	if language == "" {
		language = "unknown"
	}
	return dataset.CuratedExample{
		RepoName:      repo.FullName,
		FileTree:      doc.FileTree,
		CodeSnippets:  doc.CodeSnippets,
		ReadmeContent: content,
		Stars:         repo.Stars,
		Language:      language,
	}, true
}
