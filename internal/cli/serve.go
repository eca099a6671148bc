package cli

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/veracity/internal/logging"
	"github.com/ppiankov/veracity/internal/metrics"
	"github.com/ppiankov/veracity/internal/pipeline"
	"github.com/ppiankov/veracity/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve claim analysis over HTTP",
	Long: `Serve starts an HTTP server with:
  POST /analyze   {"query": "<claim>"} returns the verdict payload
  GET  /healthz   liveness and the enabled collectors
  GET  /metrics   Prometheus metrics

Example:
  veracity serve
  veracity serve --addr :9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "listen address")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	p, err := pipeline.New(cfg, pipeline.Options{Logger: log, Metrics: m})
	if err != nil {
		return err
	}
	if len(p.Collectors()) == 0 {
		return fmt.Errorf("no collectors enabled: configure at least one API key or enable collectors.google_news_rss")
	}

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(cfg.Server, p, log, m)

	log.Info("veracity server ready",
		logging.String("address", cfg.Server.Addr),
		logging.Int("collectors", len(p.Collectors())),
	)
	return srv.Run(cmd.Context())
}
