package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trainerlab/pokevault/pokevault"
	"github.com/trainerlab/pokevault/pokevault/database"
	"github.com/trainerlab/pokevault/pokevault/logger"
	"github.com/trainerlab/pokevault/pokevault/migration"
)

func main() {
	slog.SetDefault(slog.New(logger.NewHandler()))

	configPath := flag.String("config", "config.toml", "path to config")
	dataDir := flag.String("data", "./data", "directory holding legacy JSON dumps")
	mongoURI := flag.String("mongo-uri", "", "legacy Mongo connection string (overrides JSON dumps)")
	mongoDatabase := flag.String("mongo-db", "pokevault", "legacy Mongo database name")
	flag.Parse()

	cfg, err := pokevault.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.New(ctx, database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		slog.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize schema", slog.Any("error", err))
		os.Exit(1)
	}

	opts := []migration.Option{}
	if *mongoURI != "" {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(*mongoURI))
		if err != nil {
			slog.Error("Failed to connect to legacy Mongo", slog.Any("error", err))
			os.Exit(1)
		}
		defer client.Disconnect(ctx)
		opts = append(opts, migration.WithMongo(client.Database(*mongoDatabase)))
	}

	migrator := migration.NewMigrator(db.BunDB(), *dataDir, opts...)
	if err := migrator.MigrateAll(ctx); err != nil {
		slog.Error("Migration failed", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("Migration completed successfully!")
}
