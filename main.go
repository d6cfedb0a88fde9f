package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"mirbel/bel"
	"mirbel/config"
	"mirbel/models"
	"mirbel/providers/hgnc"
	"mirbel/providers/mirtarbase"
	"mirbel/services"
	"mirbel/storage"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var evidencesIngestedCounter prometheus.Counter

func init() {
	evidencesIngestedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mirtarbase_evidences_ingested_total",
			Help: "Total number of evidence records ingested into the database.",
		},
	)
	prometheus.MustRegister(evidencesIngestedCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to database.")

	logging.Info("Running database auto-migration...")
	db.AutoMigrate(
		&models.Species{},
		&models.Mirna{},
		&models.Target{},
		&models.Interaction{},
		&models.Evidence{},
	)

	registry := hgnc.NewRegistry(cfg.HGNCSource, logging)
	manager := services.NewManager(cfg, db, logging, registry)

	var s3Client *awss3.Client
	if cfg.ExportEnabled() {
		s3Client, err = storage.NewS3Client(cfg)
		if err != nil {
			logging.Fatal("S3 client creation failed", zap.Error(err))
		}
	} else {
		logging.Info("No export bucket configured, graph export stays inline only.")
	}

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupQueryRoutes(router, manager, logging)
	setupPopulateRoutes(router, manager, cfg, logging)
	setupEnrichRoutes(router, manager, logging)
	setupExportRoutes(router, manager, s3Client, cfg, logging)

	if cfg.ExportCronSchedule != "" && s3Client != nil {
		cronScheduler := cron.New()
		cronScheduler.AddFunc(cfg.ExportCronSchedule, func() {
			logging.Info("Running scheduled BEL export...")
			link, err := runExport(manager, s3Client, cfg)
			if err != nil {
				logging.Error("Scheduled export failed", zap.Error(err))
			} else {
				logging.Info("Scheduled export completed", zap.String("link", link))
			}
		})
		cronScheduler.Start()
	}

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupQueryRoutes(router *gin.Engine, manager *services.Manager, log *zap.Logger) {
	router.GET("/summary", func(c *gin.Context) {
		summary, err := manager.Summarize()
		if err != nil {
			log.Error("Database summary failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, summary)
	})

	rg := router.Group("/mirnas")
	rg.GET("/:name", func(c *gin.Context) {
		mirna, err := manager.QueryMirnaByName(c.Param("name"))
		respondEntity(c, log, mirna, err, "mirna not found")
	})
	rg.GET("/by-mirtarbase/:id", func(c *gin.Context) {
		mirna, err := manager.QueryMirnaByMirtarbaseID(c.Param("id"))
		respondEntity(c, log, mirna, err, "mirna not found")
	})

	tg := router.Group("/targets")
	tg.GET("/by-entrez/:id", func(c *gin.Context) {
		target, err := manager.QueryTargetByEntrezID(c.Param("id"))
		respondEntity(c, log, target, err, "target not found")
	})
	tg.GET("/by-hgnc-symbol/:symbol", func(c *gin.Context) {
		target, err := manager.QueryTargetByHgncSymbol(c.Param("symbol"))
		respondEntity(c, log, target, err, "target not found")
	})
	tg.GET("/by-hgnc-id/:id", func(c *gin.Context) {
		target, err := manager.QueryTargetByHgncID(c.Param("id"))
		respondEntity(c, log, target, err, "target not found")
	})
}

// respondEntity writes the usual lookup response: 404 on a nil entity,
// 500 on a database error, 200 otherwise.
func respondEntity[T any](c *gin.Context, log *zap.Logger, entity *T, err error, notFound string) {
	if err != nil {
		log.Error("Database query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if entity == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
		return
	}
	c.JSON(http.StatusOK, entity)
}

func setupPopulateRoutes(router *gin.Engine, manager *services.Manager, cfg *config.Config, log *zap.Logger) {
	router.POST("/populate", func(c *gin.Context) {
		var req struct {
			Source     string `json:"source"`
			UpdateHGNC bool   `json:"update_hgnc"`
		}
		// Body is optional; defaults come from the config.
		_ = c.ShouldBindJSON(&req)
		if req.Source == "" {
			req.Source = cfg.MirtarbaseSource
		}

		populated, err := manager.IsPopulated()
		if err != nil {
			log.Error("Populated check failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if populated {
			c.JSON(http.StatusConflict, gin.H{"error": services.ErrAlreadyPopulated.Error()})
			return
		}

		source := mirtarbase.NewSource(req.Source, log)
		go func() {
			report, err := manager.Populate(context.Background(), source, req.UpdateHGNC)
			if err != nil {
				log.Error("Async population failed", zap.Error(err))
				return
			}
			evidencesIngestedCounter.Add(float64(report.Evidences))
			log.Info("Async population completed",
				zap.Int("mirnas", report.Mirnas),
				zap.Int("targets", report.Targets),
				zap.Int("interactions", report.Interactions),
				zap.Int("evidences", report.Evidences))
		}()
		c.JSON(http.StatusAccepted, gin.H{"message": fmt.Sprintf("Population from %s triggered.", req.Source)})
	})
}

func setupEnrichRoutes(router *gin.Engine, manager *services.Manager, log *zap.Logger) {
	rg := router.Group("/enrich")

	enrich := func(c *gin.Context, run func(*bel.Graph) (*services.EnrichReport, error)) {
		var graph bel.Graph
		if err := c.ShouldBindJSON(&graph); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid graph payload"})
			return
		}
		report, err := run(&graph)
		if err != nil {
			if errors.Is(err, services.ErrNoUsableIdentifier) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			log.Error("Enrichment failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "enrichment failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"graph": &graph, "report": report})
	}

	rg.POST("/rnas", func(c *gin.Context) {
		enrich(c, manager.EnrichRNAs)
	})
	rg.POST("/mirnas", func(c *gin.Context) {
		enrich(c, manager.EnrichMirnas)
	})
}

func setupExportRoutes(router *gin.Engine, manager *services.Manager, s3Client *awss3.Client, cfg *config.Config, log *zap.Logger) {
	router.POST("/export", func(c *gin.Context) {
		if s3Client == nil {
			graph, err := manager.ToBEL()
			if err != nil {
				log.Error("BEL serialization failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "serialization failed"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"graph": graph})
			return
		}
		link, err := runExport(manager, s3Client, cfg)
		if err != nil {
			log.Error("BEL export failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"link": link})
	})
}

// runExport serializes the store to BEL and uploads the JSON form to the
// export bucket, returning the object link.
func runExport(manager *services.Manager, s3Client *awss3.Client, cfg *config.Config) (string, error) {
	graph, err := manager.ToBEL()
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(graph)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("mirtarbase-%s.bel.json", time.Now().UTC().Format("2006-01-02T15-04-05Z"))
	return storage.UploadGraph(s3Client, cfg.ExportS3Bucket, key, data, cfg)
}
