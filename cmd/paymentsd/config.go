package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/gigconnect/payments/internal/logger"
	"github.com/gigconnect/payments/internal/service/fee"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProduction
	defaultAMQPExchange = "payments.events"
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the payments service will be run
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Platform fee rate as a decimal fraction, e.g. "0.30"
	FeeRate string

	// AMQP broker to publish wallet events to. Empty disables publishing
	AMQPUrl string

	// Exchange name for wallet events
	AMQPExchange string

	// Environment
	Environment string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:     defaultLoggingLevel,
		ListenAddr:   defaultListenAddr,
		FeeRate:      fee.DefaultRate,
		AMQPExchange: defaultAMQPExchange,
		Environment:  defaultEnvironment,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}

	envMap := map[string]func(string){
		"RUN_ADDRESS":       setString(&c.ListenAddr),
		"DATABASE_URI":      setString(&c.DatabaseDSN),
		"LOG_LEVEL":         setString(&c.LogLevel),
		"PLATFORM_FEE_RATE": setString(&c.FeeRate),
		"AMQP_URL":          setString(&c.AMQPUrl),
		"AMQP_EXCHANGE":     setString(&c.AMQPExchange),
		"ENVIRONMENT":       setString(&c.Environment),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("paymentsd", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.FeeRate, "fee-rate", "f", c.FeeRate, "Platform fee rate (fraction of project price)")
	fs.StringVar(&c.AMQPUrl, "amqp-url", c.AMQPUrl, "AMQP broker URL for wallet events (empty disables publishing)")
	fs.StringVar(&c.AMQPExchange, "amqp-exchange", c.AMQPExchange, "AMQP exchange for wallet events")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")

	return fs.Parse(args)
}
