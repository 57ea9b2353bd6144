// seed_projects.go posts sample decision projects to a running Verdict API
// and evaluates each one.
//
// Usage:
//
//	go run scripts/seed_projects.go -api http://localhost:8700 -user system
//	go run scripts/seed_projects.go -table machines.csv -name "production machines"
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/Verdict/internal/codec"
)

// businessLocation is the three-site example shipped with the desktop tool.
func businessLocation() *codec.Project {
	return &codec.Project{
		Name:         "business location",
		Criteria:     []string{"price", "accessibility", "demographics"},
		Alternatives: []string{"Location A", "Location B", "Location C"},
		CriteriaMatrix: codec.Grid{
			{1, 3, 5},
			{1.0 / 3, 1, 3},
			{1.0 / 5, 1.0 / 3, 1},
		},
		AlternativeMatrices: []codec.Grid{
			{{1, 2, 4}, {1.0 / 2, 1, 2}, {1.0 / 4, 1.0 / 2, 1}},
			{{1, 1.0 / 3, 1}, {3, 1, 3}, {1, 1.0 / 3, 1}},
			{{1, 1.0 / 2, 1.0 / 5}, {2, 1, 1.0 / 3}, {5, 3, 1}},
		},
	}
}

func main() {
	apiURL := flag.String("api", "http://localhost:8700", "Verdict API base URL")
	user := flag.String("user", "system", "X-User header value")
	tablePath := flag.String("table", "", "optional CSV of alternatives and measurements to seed as a project")
	tableName := flag.String("name", "production machines", "project name for -table")
	dryRun := flag.Bool("dry-run", false, "print projects without posting")
	flag.Parse()

	projects := []*codec.Project{businessLocation()}
	if *tablePath != "" {
		f, err := os.Open(*tablePath)
		if err != nil {
			log.Fatalf("open table: %v", err)
		}
		tbl, err := codec.ReadTable(f)
		f.Close()
		if err != nil {
			log.Fatalf("read table: %v", err)
		}
		p, err := codec.ProjectFromTable(*tableName, tbl)
		if err != nil {
			log.Fatalf("build project: %v", err)
		}
		projects = append(projects, p)
	}

	if *dryRun {
		for _, p := range projects {
			if err := codec.EncodeProject(os.Stdout, p); err != nil {
				log.Fatalf("encode %q: %v", p.Name, err)
			}
		}
		return
	}

	client := &http.Client{Timeout: 10 * time.Second}
	var created, skipped atomic.Int32

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(4)
	for _, p := range projects {
		p := p
		g.Go(func() error {
			if err := seed(ctx, client, *apiURL, *user, p); err != nil {
				log.Printf("skip %q: %v", p.Name, err)
				skipped.Add(1)
				return nil
			}
			created.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	log.Printf("done: %d created, %d skipped", created.Load(), skipped.Load())
}

func seed(ctx context.Context, client *http.Client, apiURL, user string, p *codec.Project) error {
	var body bytes.Buffer
	if err := codec.EncodeProject(&body, p); err != nil {
		return err
	}
	var saved struct {
		ProjectID string `json:"project_id"`
	}
	if err := post(ctx, client, apiURL+"/api/v1/projects", user, &body, http.StatusCreated, &saved); err != nil {
		return fmt.Errorf("create: %w", err)
	}

	var report struct {
		MaxCR      float64 `json:"max_cr"`
		Consistent bool    `json:"consistent"`
		Ranking    []struct {
			Name  string  `json:"name"`
			Score float64 `json:"score"`
		} `json:"ranking"`
	}
	if err := post(ctx, client, apiURL+"/api/v1/projects/"+saved.ProjectID+"/evaluate", user, nil, http.StatusOK, &report); err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	best := ""
	if len(report.Ranking) > 0 {
		best = report.Ranking[0].Name
	}
	log.Printf("seeded %q (%s): best=%s max_cr=%.4f consistent=%t", p.Name, saved.ProjectID, best, report.MaxCR, report.Consistent)
	return nil
}

func post(ctx context.Context, client *http.Client, url, user string, body io.Reader, want int, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User", user)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
