package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sync/atomic"
	"time"

	"bookmanager/internal/book"
	"bookmanager/internal/config"
	"bookmanager/internal/logging"
	"bookmanager/internal/platform/mongodb"

	"golang.org/x/sync/errgroup"
)

var (
	categories = []string{"Fiction", "Science Fiction", "History", "Science", "Technology", "Romance", "Mystery", "Biography", "Philosophy", "Art"}
	authors    = []string{"J.R.R. Tolkien", "Ursula K. Le Guin", "Isaac Asimov", "Mary Beard", "Donald Knuth", "Jane Austen", "Agatha Christie", "Walter Isaacson"}
	words      = []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
		"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
		"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
	}
)

func main() {
	count := flag.Int("count", 100, "number of books to generate")
	workers := flag.Int("workers", 8, "concurrent inserts")
	flag.Parse()
	if *workers < 1 {
		*workers = 1
	}

	cfg, err := config.Load()
	if err != nil {
		fail("invalid configuration", err)
	}
	if logger, err := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format); err == nil {
		slog.SetDefault(logger)
	}

	ctx := context.Background()
	client, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.ConnectTimeout)
	if err != nil {
		fail("cannot connect to database", err)
	}
	defer client.Disconnect(ctx)

	repo := book.NewMongoRepo(client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection))
	if err := repo.EnsureIndexes(ctx); err != nil {
		fail("cannot ensure indexes", err)
	}

	slog.Info("seeding books", "count", *count, "workers", *workers)
	var inserted, skipped atomic.Int64
	now := time.Now().UTC().Truncate(time.Millisecond)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*workers)
	for i := 0; i < *count; i++ {
		b := generate(i, now)
		g.Go(func() error {
			err := repo.Insert(gctx, b)
			switch {
			case errors.Is(err, book.ErrDuplicateISBN):
				skipped.Add(1)
			case err != nil:
				return err
			default:
				if n := inserted.Add(1); n%1000 == 0 {
					slog.Info("progress", "inserted", n, "total", *count)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fail("insert failed", err)
	}

	st, err := repo.Stats(ctx)
	if err != nil {
		fail("cannot read stats", err)
	}
	slog.Info("seed complete", "inserted", inserted.Load(), "skipped_duplicates", skipped.Load(), "total_books", st.TotalBooks)
}

func generate(i int, now time.Time) book.Book {
	return book.Book{
		ISBN:      fmt.Sprintf("978-%010d", i+1),
		Title:     fmt.Sprintf("%s of %s", words[rand.Intn(len(words))], words[rand.Intn(len(words))]),
		Author:    authors[rand.Intn(len(authors))],
		Year:      book.MinYear + rand.Intn(126),
		Category:  categories[rand.Intn(len(categories))],
		CreatedAt: now,
	}
}

func fail(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
