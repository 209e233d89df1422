package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"nextglide-backend/internal/config"
	"nextglide-backend/internal/db"
	"nextglide-backend/internal/jobs"
	"nextglide-backend/internal/offerings"
	"nextglide-backend/internal/validation"
)

// contentFile is the YAML layout of the seed file. Offerings are kept as raw
// nodes and converted through their JSON form so the API field names apply.
type contentFile struct {
	Solutions []map[string]interface{} `yaml:"solutions"`
	Services  []map[string]interface{} `yaml:"services"`
	Jobs      []jobs.JobRequest        `yaml:"jobs"`
}

type content struct {
	Solutions []offerings.Request
	Services  []offerings.Request
	Jobs      []jobs.JobRequest
}

func main() {
	file := flag.String("file", "content.yaml", "YAML content file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal(err)
	}
	data, err := loadContent(f)
	f.Close()
	if err != nil {
		log.Fatalf("seed: %s: %v", *file, err)
	}
	if err := validateContent(validation.New(), data); err != nil {
		log.Fatalf("seed: %s: %v", *file, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	solutions := offerings.NewService(offerings.KindSolution, offerings.NewRepository(cols.Solutions), cfg.Timezone)
	services := offerings.NewService(offerings.KindService, offerings.NewRepository(cols.Services), cfg.Timezone)
	jobsService := jobs.NewService(jobs.NewRepository(cols.Jobs, cols.ApplicationForms), cfg.Timezone)

	for _, batch := range []struct {
		service *offerings.Service
		items   []offerings.Request
	}{{solutions, data.Solutions}, {services, data.Services}} {
		for _, req := range batch.items {
			inserted, err := batch.service.Seed(ctx, req)
			if err != nil {
				log.Fatalf("seed %s %q: %v", batch.service.Kind(), derefString(req.Name), err)
			}
			logger.Info("seed offering", slog.String("kind", string(batch.service.Kind())), slog.String("name", derefString(req.Name)), slog.Bool("inserted", inserted))
		}
	}

	for _, req := range data.Jobs {
		inserted, err := jobsService.Seed(ctx, req)
		if err != nil {
			log.Fatalf("seed job %q: %v", req.Title, err)
		}
		logger.Info("seed job", slog.String("title", req.Title), slog.Bool("inserted", inserted))
	}

	logger.Info("seed completed",
		slog.Int("solutions", len(data.Solutions)),
		slog.Int("services", len(data.Services)),
		slog.Int("jobs", len(data.Jobs)),
	)
}

func loadContent(r io.Reader) (content, error) {
	var raw contentFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && err != io.EOF {
		return content{}, fmt.Errorf("decode yaml: %w", err)
	}

	out := content{Jobs: raw.Jobs}
	var err error
	if out.Solutions, err = toRequests(raw.Solutions); err != nil {
		return content{}, fmt.Errorf("solutions: %w", err)
	}
	if out.Services, err = toRequests(raw.Services); err != nil {
		return content{}, fmt.Errorf("services: %w", err)
	}
	return out, nil
}

func toRequests(nodes []map[string]interface{}) ([]offerings.Request, error) {
	out := make([]offerings.Request, 0, len(nodes))
	for i, node := range nodes {
		body, err := json.Marshal(node)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		var req offerings.Request
		if err := dec.Decode(&req); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, req)
	}
	return out, nil
}

func validateContent(val *validation.Validator, data content) error {
	for i, req := range append(append([]offerings.Request{}, data.Solutions...), data.Services...) {
		if err := val.Struct(req); err != nil {
			return fmt.Errorf("offering %d (%s): %w", i, derefString(req.Name), err)
		}
	}
	for i, req := range data.Jobs {
		if err := val.Struct(req); err != nil {
			return fmt.Errorf("job %d (%s): %w", i, req.Title, err)
		}
	}
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
