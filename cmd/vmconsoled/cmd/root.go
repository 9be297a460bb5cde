package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/vendingops/vmconsole/pkg/assetstore"
	"github.com/vendingops/vmconsole/pkg/clog"
	"github.com/vendingops/vmconsole/pkg/config"
	"github.com/vendingops/vmconsole/pkg/console"
	"github.com/vendingops/vmconsole/pkg/docstore"
	"github.com/vendingops/vmconsole/pkg/vmdb"
	"github.com/vendingops/vmconsole/pkg/webapi"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vmconsoled",
	Short: "Run the vending machine admin console API server",
	Long: `vmconsoled serves the admin console API: brands, flavors, pricing,
nutrients, customers, ads and reports, backed by a document store and an
asset store selected through configuration.`,
	Run: func(cmd *cobra.Command, args []string) {
		c := loadConfig()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		docs, err := vmdb.OpenDocumentStore(c)
		if err != nil {
			log.Fatalf("Unable to open document store: %s", err)
		}
		instrumented := docstore.NewInstrumentedStore(docs, reg)

		assets, err := assetstore.Open(ctx, c)
		if err != nil {
			log.Fatalf("Unable to open asset store: %s", err)
		}
		log.Infof("Asset driver: %s", assets.Driver())

		if key := c.GetKey("VMC_ADMIN_API_KEY"); key != "" {
			if err := ensureAdmin(ctx, instrumented, key); err != nil {
				log.Fatalf("Unable to seed admin user: %s", err)
			}
		}

		vmc := console.New(instrumented, assets)
		if err := vmc.LoadAll(ctx); err != nil {
			log.Warnf("Initial load incomplete, lists will load on first use: %s", err)
		}

		hub := webapi.NewEventHub()
		go hub.Run(ctx)
		cancelSubscriptions := hub.Subscribe(vmc.Caches()...)
		defer cancelSubscriptions()

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.Use(middleware.Recover())
		e.Use(requestLogger())
		e.Use(middleware.ContextTimeout(c.GetDurationKeyWithDefault("VMC_REQUEST_TIMEOUT", 30*time.Second)))

		setupRoutes(e, RouteOpts{
			console: vmc,
			docs:    instrumented,
			assets:  assets,
			hub:     hub,
			metrics: webapi.NewMetrics(reg),
		})

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				log.Errorf("Shutdown failed: %s", err)
			}
		}()

		port := c.GetKeyWithDefault("VMC_PORT", "1352")
		log.Infof("Listening on :%s", port)
		if err := e.Start(":" + port); err != nil && ctx.Err() == nil {
			log.Fatalf("Unable to start server: %v", err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.vmconsole.env)")
}

func loadConfig() config.Configer {
	var c config.Configer
	if cfgFile != "" {
		c = config.MustLoad(cfgFile)
	} else {
		c = config.MustLoadFromDotenv()
	}

	if err := clog.SetGlobalLevelFromString(c.GetKeyWithDefault("VMC_LOG_LEVEL", "info")); err != nil {
		log.Warnf("Ignoring VMC_LOG_LEVEL: %s", err)
	}

	return c
}

func requestLogger() echo.MiddlewareFunc {
	l := clog.UsingCtx("http")
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := l.WithFields(log.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request")
				return nil
			}
			entry.Debug("request")
			return nil
		},
	})
}
