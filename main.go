//
// Wiki
// ====
// A REST web service storing wiki articles in MongoDB.
//
// Also pass the -routes flag to print the generated route docs,
// to run yourself do: `go run . -routes`
//
// Boot the server:
// ----------------
// $ go run .              # MongoDB on localhost:27017
// $ go run . -storage memory
//
// Client requests:
// ----------------
// $ curl -d 'title=REST&content=REST is short for REpresentational State Transfer.' http://localhost:3000/articles
// Successfully added a new article.
//
// $ curl http://localhost:3000/articles
// [{"_id":"5c139771d79ac8eac11e754a","title":"REST","content":"REST is short for REpresentational State Transfer."}]
//
// $ curl http://localhost:3000/articles/REST
// {"_id":"5c139771d79ac8eac11e754a","title":"REST","content":"REST is short for REpresentational State Transfer."}
//
// $ curl -X PATCH -d 'content=An architectural style.' http://localhost:3000/articles/REST
// Successfully updated the article.
//
// $ curl -X PUT -d 'title=REST' http://localhost:3000/articles/REST
// Successfully replaced the article.
//
// $ curl -X DELETE http://localhost:3000/articles/REST
// Successfully deleted the article.
//
// $ curl http://localhost:3000/articles/REST
// No articles matching that title were found.
//
// $ curl -X DELETE http://localhost:3000/articles
// Successfully deleted all articles.
//
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SergeyParamoshkin/wiki/internal/article"
	"github.com/SergeyParamoshkin/wiki/internal/articlerequest"
	"github.com/SergeyParamoshkin/wiki/internal/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/docgen"
	"github.com/go-chi/render"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const ServiceName = "wiki"

type CtxKey int8

const (
	CtxKeyLogger CtxKey = iota
)

type App struct {
	sugarLogger *zap.SugaredLogger
	config      Config
	metrics     *telemetry.Metrics
}

func main() {
	_ = godotenv.Load()

	// render v1 cannot decode form-encoded bodies, which is how article
	// writes arrive.
	render.Decode = articlerequest.Decode

	config, err := loadConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	logger, err := newLogger(config.Debug)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync() // flushes buffer, if any
	sugar := logger.Sugar()

	metrics, err := telemetry.New(ServiceName)
	if err != nil {
		sugar.Fatalw("failed to initialize metrics", "err", err)
	}

	a := App{
		sugarLogger: sugar,
		config:      config,
		metrics:     metrics,
	}

	// Passing -routes to the program will generate docs for the router
	// definition. The store is never called, so a memory store will do.
	if config.Routes {
		fmt.Println(docgen.MarkdownRoutesDoc(a.router(article.NewMemoryStore()), docgen.MarkdownOpts{
			ProjectPath: "github.com/SergeyParamoshkin/wiki",
			Intro:       "Welcome to the wiki generated docs.",
		}))

		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		sugar.Fatalw("failed to open article store", "storage", config.Storage, "err", err)
	}
	defer closeStore()

	diagRouter := chi.NewRouter()
	diagRouter.Get("/metrics", metrics.Handler().ServeHTTP)

	servers := []*http.Server{
		{Addr: config.Addr, Handler: a.router(store)},
		{Addr: config.DiagAddr, Handler: diagRouter},
	}

	for _, srv := range servers {
		srv := srv

		go func() {
			sugar.Infow("listening", "addr", srv.Addr)

			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				sugar.Errorw(err.Error(), "addr", srv.Addr)
				stop()
			}
		}()
	}

	<-ctx.Done()
	sugar.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("shutdown failed", "addr", srv.Addr, "err", err)
		}
	}
}

// newLogger builds a production logger, or a development one writing to
// stdout when debug is set.
func newLogger(debug bool) (*zap.Logger, error) {
	if !debug {
		return zap.NewProduction()
	}

	z := zap.NewDevelopmentConfig()
	z.OutputPaths = []string{"stdout"}

	return z.Build()
}

func (a *App) openStore(ctx context.Context) (article.Store, func(), error) {
	switch a.config.Storage {
	case StorageMemory:
		return article.NewMemoryStore(), func() {}, nil
	case StorageMongo:
		s, err := article.NewMongoStore(ctx, a.config.MongoURI, a.config.MongoDB, a.config.MongoCollection, a.config.ConnectTimeout)
		if err != nil {
			return nil, nil, err
		}

		a.sugarLogger.Infow("connected to mongo", "db", a.config.MongoDB, "collection", a.config.MongoCollection)

		return s, func() {
			if err := s.Close(context.Background()); err != nil {
				a.sugarLogger.Errorw("failed to disconnect from mongo", "err", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage %q", a.config.Storage)
	}
}

func (a *App) router(store article.Store) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(a.Logger)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(a.metrics.Middleware)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte("root."))
		if err != nil {
			a.sugarLogger.Errorw(err.Error())
		}
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		logger := r.Context().Value(CtxKeyLogger).(*zap.SugaredLogger)
		logger.Debugw("ping", "request_id", middleware.GetReqID(r.Context()))
		_, err := w.Write([]byte("pong"))
		if err != nil {
			a.sugarLogger.Errorw(err.Error())
		}
	})

	// RESTy routes for "articles" resource
	r.Mount("/articles", article.NewHandler(store, a.sugarLogger).Routes())

	return r
}

func (a *App) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), CtxKeyLogger, a.sugarLogger)))
	})
}
