package imageeditor

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/spf13/afero"
	"github.com/staticbackendhq/imageeditor/config"
	"github.com/staticbackendhq/imageeditor/editor"
	"github.com/staticbackendhq/imageeditor/logger"
	"github.com/staticbackendhq/imageeditor/middleware"
	"github.com/staticbackendhq/imageeditor/storage"
	"golang.org/x/sync/errgroup"
)

// Start starts the web server and the optional staging purge job. It
// returns once the server is stopped by SIGINT or SIGTERM.
func Start(cfg config.AppConfig) {
	log := logger.Get(cfg)

	if err := loadTemplates(); err != nil {
		log.Fatal().Err(err).Msg("error loading templates")
	}

	root, err := storage.NewOsRoot(cfg.AppRoot)
	if err != nil {
		log.Fatal().Err(err).Str("root", cfg.AppRoot).Msg("cannot open application root")
	}

	if err := root.Init(); err != nil {
		log.Fatal().Err(err).Msg("cannot create application directories")
	}

	mirror, err := storage.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot initialize storage provider")
	}

	ed := editor.New(root, log)
	ed.Mirror = mirror
	ed.Ignore = cfg.FolderIgnore

	sched, err := schedulePurge(cfg, root, log)
	if err != nil {
		log.Fatal().Err(err).Str("cron", cfg.StagingPurgeCron).Msg("cannot schedule staging purge")
	}
	if sched != nil {
		defer sched.Stop()
	}

	// graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())

	// handle stop/kill signal
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)

		<-c
		cancel()
	}()

	httpsvr := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: newRouter(ed, cfg.MaxUploadBytes()),
	}

	log.Info().Str("addr", httpsvr.Addr).Str("root", cfg.AppRoot).Msg("image editor listening")

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpsvr.ListenAndServe()
	})
	g.Go(func() error {
		<-gCtx.Done()
		return httpsvr.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("exit reason")
	}
}

func newRouter(ed *editor.Editor, maxUpload int64) http.Handler {
	img := &images{editor: ed, log: ed.Log}

	std := []middleware.Middleware{
		middleware.Logging(ed.Log),
	}

	upload := []middleware.Middleware{
		middleware.Logging(ed.Log),
		middleware.MaxBytes(maxUpload),
	}

	mux := http.NewServeMux()

	mux.Handle("/upload_image", middleware.Chain(http.HandlerFunc(img.uploadImage), upload...))
	mux.Handle("/upload_images", middleware.Chain(http.HandlerFunc(img.uploadImages), upload...))
	mux.Handle("/upload_folder", middleware.Chain(http.HandlerFunc(img.uploadFolder), upload...))
	mux.Handle("/save_images", middleware.Chain(http.HandlerFunc(img.saveImages), upload...))

	static := http.StripPrefix("/static/", http.FileServer(afero.NewHttpFs(ed.Root.Fs).Dir(storage.StaticDir)))
	mux.Handle("/static/", middleware.Chain(static, std...))

	mux.Handle("/", middleware.Chain(http.HandlerFunc(img.index), std...))

	return mux
}

func schedulePurge(cfg config.AppConfig, root *storage.Root, log *logger.Logger) (*gocron.Scheduler, error) {
	if len(cfg.StagingPurgeCron) == 0 {
		return nil, nil
	}

	s := gocron.NewScheduler(time.UTC)
	if _, err := s.Cron(cfg.StagingPurgeCron).Do(purgeStaging, root, cfg.StagingTTL, log); err != nil {
		return nil, err
	}

	s.StartAsync()
	return s, nil
}

func purgeStaging(root *storage.Root, ttl time.Duration, log *logger.Logger) {
	n, err := root.Purge(storage.UploadDir, ttl, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("error purging staged uploads")
		return
	}

	log.Info().Int("removed", n).Dur("ttl", ttl).Msg("staged uploads purged")
}
