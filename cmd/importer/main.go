// Package main 離線匯入工具：把試算表匯出檔寫入目錄、清理產區、補齊多語描述。
//
// Usage:
//
//	go run ./cmd/importer wines data/weine.csv
//	go run ./cmd/importer dishes data/speisen.csv
//	go run ./cmd/importer normalize Italien
//	go run ./cmd/importer describe --lang de,en --workers 4
//	go run ./cmd/importer plan anna@example.com premium
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"wine-pairing/internal/core/ai/cache"
	"wine-pairing/internal/core/ai/queue"
	aiservice "wine-pairing/internal/core/ai/service"
	"wine-pairing/internal/core/auth"
	"wine-pairing/internal/core/catalog"
	"wine-pairing/internal/core/importer"
	"wine-pairing/internal/core/wine"
	"wine-pairing/internal/infrastructure/config"
	"wine-pairing/internal/infrastructure/store"
	"wine-pairing/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const usage = `usage: importer <command> [arguments]

commands:
  wines <file.csv>                    import wines (Name;Weingut;Region / Appellation / Land;Rebsorte;Farbe;Preis;Kontext)
  dishes <file.csv>                   import dishes (Name;Kategorie)
  normalize <country>|--all           normalize appellations of stored wines
  describe [--lang de,en,fr] [--workers N]
                                      generate missing wine descriptions
  plan <email> <free|premium>         change the subscription plan of an account
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadToolConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := store.Open(store.Options{Path: cfg.Store.Path, InMemory: cfg.Store.InMemory})
	if err != nil {
		common.LogFatal("Failed to open store", zap.Error(err))
	}
	defer s.Close()

	im := importer.New(catalog.NewService(s))

	var result any
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "wines", "dishes":
		result, err = runImport(ctx, im, cmd, args)
	case "normalize":
		result, err = runNormalize(ctx, im, args)
	case "describe":
		result, err = runDescribe(ctx, im, cfg, args)
	case "plan":
		result, err = runPlan(ctx, auth.NewService(s, auth.Options{}), args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		common.LogError("Import command failed", zap.String("command", os.Args[1]), zap.Error(err))
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
}

func runImport(ctx context.Context, im *importer.Importer, cmd string, args []string) (*importer.Report, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s: expected exactly one file", cmd)
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if cmd == "dishes" {
		return im.ImportDishes(ctx, f)
	}
	return im.ImportWines(ctx, f)
}

func runNormalize(ctx context.Context, im *importer.Importer, args []string) ([]wine.Report, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("normalize: expected a country or --all")
	}
	countries := args
	if args[0] == "--all" {
		countries = wine.NewNormalizer().Countries()
	}

	reports := make([]wine.Report, 0, len(countries))
	for _, c := range countries {
		r, err := im.Normalize(ctx, c)
		if err != nil {
			return reports, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func runDescribe(ctx context.Context, im *importer.Importer, cfg *config.Config, args []string) (*importer.Report, error) {
	fs := flag.NewFlagSet("describe", flag.ExitOnError)
	langFlag := fs.String("lang", "", "comma separated languages (default: all)")
	workers := fs.Int("workers", cfg.Queue.Workers, "concurrent generation requests")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	langs, err := importer.ParseLanguages(*langFlag)
	if err != nil {
		return nil, err
	}

	p, err := aiservice.NewProvider(cfg.AI)
	if err != nil {
		return nil, err
	}
	c, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, err
	}
	ai := aiservice.NewService(p, c)
	defer ai.Close()

	q := queue.NewManager(config.QueueConfig{Workers: *workers, MaxSize: cfg.Queue.MaxSize})
	q.Start(ai.Generate)
	defer q.Close()

	return im.Describe(ctx, q, langs)
}

func runPlan(ctx context.Context, svc *auth.Service, args []string) (auth.UserView, error) {
	if len(args) != 2 {
		return auth.UserView{}, fmt.Errorf("plan: expected <email> <free|premium>")
	}
	user, err := svc.SetPlan(ctx, args[0], args[1])
	if err != nil {
		return auth.UserView{}, err
	}
	return user.View(), nil
}
