package main

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	Addr     string
	DiagAddr string

	Storage         string
	MongoURI        string
	MongoDB         string
	MongoCollection string
	ConnectTimeout  time.Duration

	Debug  bool
	Routes bool
}

// loadConfig reads flags from args, falling back to WIKI_* environment
// variables and then to defaults.
func loadConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var c Config

	fs.BoolVar(&c.Routes, "routes", getEnvBool(envKey("routes"), false), "Generate router documentation")
	fs.BoolVar(&c.Debug, "debug", getEnvBool(envKey("debug"), false), "enable debug logs")
	fs.StringVar(&c.Addr, "addr", getEnv(envKey("addr"), ":3000"), "application port")
	fs.StringVar(&c.DiagAddr, "diag_addr", getEnv(envKey("diag_addr"), ":9999"), "diag port")
	fs.StringVar(&c.Storage, "storage", getEnv(envKey("storage"), StorageMongo), "article storage: mongo or memory")
	fs.StringVar(&c.MongoURI, "mongo_uri", getEnv(envKey("mongo_uri"), "mongodb://localhost:27017"), "MongoDB connection string")
	fs.StringVar(&c.MongoDB, "mongo_db", getEnv(envKey("mongo_db"), "wikiDB"), "MongoDB database")
	fs.StringVar(&c.MongoCollection, "mongo_collection", getEnv(envKey("mongo_collection"), "articles"), "MongoDB collection")
	fs.DurationVar(&c.ConnectTimeout, "connect_timeout", getEnvDuration(envKey("connect_timeout"), 10*time.Second), "MongoDB connect timeout")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	return c, nil
}

func envKey(name string) string {
	return strings.ToUpper(ServiceName + "_" + name)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}

	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}

	return d
}
