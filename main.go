package main

import (
	"database/sql"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	chimiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/tamarw/takziv-bot/bot"
	"github.com/tamarw/takziv-bot/config"
	"github.com/tamarw/takziv-bot/eventlogger"
	"github.com/tamarw/takziv-bot/ledger"
	"github.com/tamarw/takziv-bot/logging"
	"github.com/tamarw/takziv-bot/middleware"
	"github.com/tamarw/takziv-bot/store"
)

// twiml is the reply envelope the WhatsApp transport expects.
type twiml struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		printErrorAndExit("loading config", err)
	}

	logCfg := logging.DefaultConfig()
	logCfg.JSON = cfg.LogJSON
	logging.Setup(logCfg)

	var (
		st   store.Store
		sink eventlogger.Sink
		opts []bot.Option
	)
	if cfg.DatabaseURL == "" {
		slog.Info("no DATABASE_URL set, running on the in-memory store")
		st = store.NewMemory()
		sink = eventlogger.NewLogSink()
	} else {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			printErrorAndExit("database connection", err)
		}
		pg, err := store.NewPostgres(db)
		if err != nil {
			printErrorAndExit("preparing document store", err)
		}
		fb := store.NewFallback(pg)
		st = fb
		opts = append(opts, bot.WithProber(fb))

		sink, err = eventlogger.NewSqlSink(db)
		if err != nil {
			printErrorAndExit("preparing event log", err)
		}
	}
	if cfg.StrictBudget {
		opts = append(opts, bot.WithStrictBudget())
	}

	worker := eventlogger.NewWorker(sink, 100)
	worker.Start()
	defer worker.Shutdown()

	budgetBot := bot.New(st, worker, opts...)

	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)

	// Readiness and liveness for the hosting platform.
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("takziv bot is up, POST /webhook to talk"))
	})
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		worker.Log(eventlogger.NewEvent(eventlogger.WithType("health_request")))
		w.Write([]byte("ok"))
	})

	router.Group(func(rt chi.Router) {
		rt.Use(middleware.WebhookAuth(cfg.WebhookTokenHash))

		rt.Post("/webhook", func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "invalid form data", http.StatusBadRequest)
				return
			}
			sender := r.FormValue("From")
			if sender == "" {
				http.Error(w, "missing sender", http.StatusBadRequest)
				return
			}

			reply := budgetBot.HandleMessage(r.Context(), ledger.SenderID(sender), r.FormValue("Body"))

			w.Header().Set("Content-Type", "application/xml")
			w.Write([]byte(xml.Header))
			if err := xml.NewEncoder(w).Encode(twiml{Message: reply}); err != nil {
				slog.Error("encoding reply", "error", err)
			}
		})
	})

	slog.Info("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Port), router); err != nil {
		printErrorAndExit("server stopped", err)
	}
}

func printErrorAndExit(msg string, e error) {
	slog.Error(msg, "error", e)
	os.Exit(1)
}
